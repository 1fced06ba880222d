package server

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/chazu/tpc/compiler"
	"github.com/chazu/tpc/eval"
	"github.com/chazu/tpc/pkg/bytecode"
	"github.com/chazu/tpc/vm"

	_ "github.com/tliron/commonlog/simple"
)

const lspName = "tpc-lsp"

var log = commonlog.GetLogger("tpc.server")

// LspServer checks and evaluates expression documents for an editor.
// Every line of a document is an independent expression.
type LspServer struct {
	worker *Worker

	mu   sync.Mutex
	docs map[string]string // URI → full document content

	handler protocol.Handler
	server  *glspserver.Server
	version string
}

// NewLSP creates a new LSP server that evaluates with opts.
func NewLSP(opts vm.Options) *LspServer {
	s := &LspServer{
		worker:  NewWorker(opts),
		docs:    make(map[string]string),
		version: "0.1.0",
	}

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentCompletion: s.textDocumentCompletion,
		TextDocumentHover:      s.textDocumentHover,
	}

	s.server = glspserver.NewServer(&s.handler, lspName, false)

	return s
}

// Run starts the LSP server on stdio. Blocks until the client disconnects.
func (s *LspServer) Run() error {
	return s.server.RunStdio()
}

// --- LSP lifecycle handlers ---

func (s *LspServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("tpc LSP initializing")

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{}
	capabilities.HoverProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lspName,
			Version: &s.version,
		},
	}, nil
}

func (s *LspServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *LspServer) shutdown(ctx *glsp.Context) error {
	log.Info("tpc LSP shutting down")
	s.worker.Stop()
	return nil
}

func (s *LspServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

// --- Document synchronization ---

func (s *LspServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	text := params.TextDocument.Text

	s.mu.Lock()
	s.docs[string(uri)] = text
	s.mu.Unlock()

	s.publishDiagnostics(ctx, uri, text)
	return nil
}

func (s *LspServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	// With Full sync, the last change event contains the full text
	if len(params.ContentChanges) > 0 {
		last := params.ContentChanges[len(params.ContentChanges)-1]
		if whole, ok := last.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.mu.Lock()
			s.docs[string(uri)] = whole.Text
			text := whole.Text
			s.mu.Unlock()

			s.publishDiagnostics(ctx, uri, text)
		}
	}
	return nil
}

func (s *LspServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI

	s.mu.Lock()
	delete(s.docs, string(uri))
	s.mu.Unlock()

	// Clear diagnostics for the closed document
	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

// --- Language features ---

func (s *LspServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	return operatorCompletions(), nil
}

func (s *LspServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	s.mu.Lock()
	text, ok := s.docs[string(params.TextDocument.URI)]
	s.mu.Unlock()

	if !ok {
		return nil, nil
	}

	lines := splitLines(text)
	if int(params.Position.Line) >= len(lines) {
		return nil, nil
	}
	line := lines[params.Position.Line]
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}

	result, err := s.worker.Do(func(opts vm.Options) any {
		return hover(line, opts)
	})
	if err != nil || result == nil {
		return nil, nil
	}
	return result.(*protocol.Hover), nil
}

// --- Evaluation-backed logic (called on worker goroutine) ---

// hover evaluates line and describes the result or failure in markdown,
// followed by the compiled program.
func hover(line string, opts vm.Options) *protocol.Hover {
	var b strings.Builder

	prog, err := eval.Compile(line)
	if err != nil {
		fmt.Fprintf(&b, "**Compile error:** %s", compileMessage(err))
		return markdown(b.String())
	}

	v, err := eval.Execute(prog, opts)
	if err != nil {
		fmt.Fprintf(&b, "**Runtime error:** %s", err)
	} else {
		fmt.Fprintf(&b, "`%s` : %s", v, v.Kind())
	}

	fmt.Fprintf(&b, "\n\n```\n%s```", prog.Disassemble())
	return markdown(b.String())
}

func markdown(value string) *protocol.Hover {
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: value,
		},
	}
}

// lineDiagnostics checks every non-blank line of text. Compile errors become
// errors spanning the offending token; runtime failures become warnings
// spanning the whole line.
func lineDiagnostics(text string, opts vm.Options) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	source := lspName

	for i, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := protocol.UInteger(i)

		prog, err := eval.Compile(line)
		if err != nil {
			severity := protocol.DiagnosticSeverityError
			diagnostics = append(diagnostics, protocol.Diagnostic{
				Range:    compileRange(n, line, err),
				Severity: &severity,
				Source:   &source,
				Message:  compileMessage(err),
			})
			continue
		}

		if _, err := eval.Execute(prog, opts); err != nil {
			severity := protocol.DiagnosticSeverityWarning
			diagnostics = append(diagnostics, protocol.Diagnostic{
				Range: protocol.Range{
					Start: protocol.Position{Line: n, Character: 0},
					End:   protocol.Position{Line: n, Character: utf16Column(line, len(line))},
				},
				Severity: &severity,
				Source:   &source,
				Message:  err.Error(),
			})
		}
	}
	return diagnostics
}

func compileRange(line protocol.UInteger, text string, err error) protocol.Range {
	var ce *compiler.CompileError
	if !errors.As(err, &ce) {
		return protocol.Range{
			Start: protocol.Position{Line: line},
			End:   protocol.Position{Line: line},
		}
	}
	return protocol.Range{
		Start: protocol.Position{Line: line, Character: utf16Column(text, ce.Pos.Start)},
		End:   protocol.Position{Line: line, Character: utf16Column(text, ce.Pos.End)},
	}
}

func compileMessage(err error) string {
	var ce *compiler.CompileError
	if errors.As(err, &ce) {
		return ce.Message
	}
	return err.Error()
}

// operatorCompletions lists every source operator the compiler accepts.
func operatorCompletions() []protocol.CompletionItem {
	var items []protocol.CompletionItem
	kind := protocol.CompletionItemKindOperator
	for _, op := range bytecode.AllOpcodes() {
		if !op.IsSourceOperator() {
			continue
		}
		label := op.Symbol()
		detail := op.String()
		items = append(items, protocol.CompletionItem{
			Label:      label,
			Kind:       &kind,
			Detail:     &detail,
			InsertText: &label,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items
}

// --- Diagnostics ---

func (s *LspServer) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	result, err := s.worker.Do(func(opts vm.Options) any {
		return lineDiagnostics(text, opts)
	})
	if err != nil {
		log.Warningf("diagnostics for %s: %v", uri, err)
		return
	}

	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: result.([]protocol.Diagnostic),
	})
}

// --- Text helpers ---

// splitLines splits text on LF and drops a trailing CR from each line.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// utf16Column converts a byte offset within line to the UTF-16 code unit
// column LSP positions use.
func utf16Column(line string, offset int) protocol.UInteger {
	if offset > len(line) {
		offset = len(line)
	}
	col := 0
	for _, r := range line[:offset] {
		if r == utf8.RuneError {
			col++
			continue
		}
		col += utf16.RuneLen(r)
	}
	return protocol.UInteger(col)
}

func boolPtr(b bool) *bool {
	return &b
}
