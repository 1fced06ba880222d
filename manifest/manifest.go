// Package manifest handles tpc.toml configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the name of the configuration file looked up by FindAndLoad.
const FileName = "tpc.toml"

// Manifest represents a tpc.toml configuration.
type Manifest struct {
	VM      VMConfig      `toml:"vm" json:"vm"`
	REPL    REPLConfig    `toml:"repl" json:"repl"`
	History HistoryConfig `toml:"history" json:"history"`
	Log     LogConfig     `toml:"log" json:"log"`

	// Dir is the directory containing the tpc.toml file (set at load time).
	Dir string `toml:"-" json:"-"`
}

// VMConfig configures execution.
type VMConfig struct {
	StackCapacity int  `toml:"stack-capacity" json:"stack-capacity"`
	MaxSteps      int  `toml:"max-steps" json:"max-steps"`
	Trace         bool `toml:"trace" json:"trace"`
}

// REPLConfig configures the interactive loop.
type REPLConfig struct {
	Prompt  string `toml:"prompt" json:"prompt"`
	History bool   `toml:"history" json:"history"`
}

// HistoryConfig configures the evaluation journal.
type HistoryConfig struct {
	Path string `toml:"path" json:"path"`
}

// LogConfig configures commonlog.
type LogConfig struct {
	Verbosity int    `toml:"verbosity" json:"verbosity"`
	File      string `toml:"file" json:"file"`
}

// Default returns the configuration used when no tpc.toml exists.
func Default() *Manifest {
	return &Manifest{
		VM:      VMConfig{StackCapacity: 256},
		REPL:    REPLConfig{Prompt: "-> ", History: true},
		History: HistoryConfig{Path: filepath.Join(".tpc", "history.db")},
	}
}

// Load parses a tpc.toml file from the given directory. Keys absent from
// the file keep their defaults; unknown keys are an error.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	m := Default()
	md, err := toml.Decode(string(data), m)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return m, nil
}

// FindAndLoad walks up from startDir to find a tpc.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// Save writes m as tpc.toml into dir.
func (m *Manifest) Save(dir string) error {
	path := filepath.Join(dir, FileName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	if err := toml.NewEncoder(f).Encode(m); err != nil {
		f.Close()
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return f.Close()
}

// HistoryPath returns the journal path, resolved against Dir when relative.
func (m *Manifest) HistoryPath() string {
	if m.History.Path == "" || filepath.IsAbs(m.History.Path) {
		return m.History.Path
	}
	return filepath.Join(m.Dir, m.History.Path)
}

// LogFile returns the log file path resolved against Dir, or nil for stderr.
func (m *Manifest) LogFile() *string {
	if m.Log.File == "" {
		return nil
	}
	path := m.Log.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(m.Dir, path)
	}
	return &path
}
