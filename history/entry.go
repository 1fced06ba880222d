package history

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/chazu/tpc/compiler"
	"github.com/chazu/tpc/vm"
)

// Entry is one evaluated line. Exactly one of Result and Error is set for a
// non-empty line; both are empty for a blank one.
type Entry struct {
	Source string `cbor:"1,keyasint"`
	Result string `cbor:"2,keyasint,omitempty"`
	Kind   string `cbor:"3,keyasint,omitempty"`
	Error  string `cbor:"4,keyasint,omitempty"`
}

// NewEntry builds the journal entry for src and its evaluation result.
func NewEntry(src string, v vm.Value, err error) Entry {
	e := Entry{Source: src}
	if err != nil {
		e.Error = describeError(err)
		return e
	}
	e.Result = v.String()
	e.Kind = v.Kind().String()
	return e
}

func describeError(err error) string {
	var ce *compiler.CompileError
	if errors.As(err, &ce) {
		return ce.Message
	}
	return err.Error()
}

// Failed reports whether the entry records an error.
func (e Entry) Failed() bool { return e.Error != "" }

// cborEncMode encodes entries canonically so equal entries give equal bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("history: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalEntry serializes an Entry to CBOR bytes.
func MarshalEntry(e Entry) ([]byte, error) {
	return cborEncMode.Marshal(e)
}

// UnmarshalEntry deserializes an Entry from CBOR bytes.
func UnmarshalEntry(data []byte) (Entry, error) {
	var e Entry
	if err := cbor.Unmarshal(data, &e); err != nil {
		return Entry{}, fmt.Errorf("history: unmarshal entry: %w", err)
	}
	return e, nil
}
