// Package eval wires the lexer, compiler and VM into a single call that
// turns one line of source into a value.
package eval

import (
	"fmt"
	"io"

	"github.com/tliron/commonlog"

	"github.com/chazu/tpc/compiler"
	"github.com/chazu/tpc/pkg/bytecode"
	"github.com/chazu/tpc/vm"
)

var log = commonlog.GetLogger("tpc.eval")

// Compile compiles src into a frozen program. The error, if any, is a
// *compiler.CompileError.
func Compile(src string) (*bytecode.Program, error) {
	prog, err := compiler.CompileString(src)
	if err != nil {
		log.Debugf("compile failed: %v", err)
		return nil, err
	}
	log.Debugf("compiled %d bytes", prog.Len())
	return prog, nil
}

// Execute runs prog on a fresh VM. An empty program (source without
// tokens) is not run and yields vm.Void.
func Execute(prog *bytecode.Program, opts vm.Options) (vm.Value, error) {
	if prog.IsEmpty() {
		return vm.Void, nil
	}
	v, err := vm.Execute(prog, opts)
	if err != nil {
		log.Debugf("execute failed: %v", err)
		return vm.Void, err
	}
	return v, nil
}

// Eval compiles and runs src.
func Eval(src string, opts vm.Options) (vm.Value, error) {
	prog, err := Compile(src)
	if err != nil {
		return vm.Void, err
	}
	return Execute(prog, opts)
}

// LogTrace returns a trace hook that logs every instruction at debug level.
func LogTrace() vm.TraceFunc {
	return func(pc int, op bytecode.Opcode, depth int) {
		log.Debugf("[%04X] %-9s depth=%d", pc, op, depth)
	}
}

// WriterTrace returns a trace hook that prints every instruction to w in the
// disassembler's address format.
func WriterTrace(w io.Writer) vm.TraceFunc {
	return func(pc int, op bytecode.Opcode, depth int) {
		fmt.Fprintf(w, "[%04X] %-9s depth=%d\n", pc, op, depth)
	}
}
