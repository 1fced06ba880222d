// Package vm executes bytecode programs on a fixed-capacity value stack.
package vm

import (
	"github.com/chazu/tpc/pkg/bytecode"
)

// DefaultStackCapacity is the stack size used when Options leaves it unset.
const DefaultStackCapacity = 256

// TraceFunc observes each instruction before it executes. depth is the
// stack length at that moment.
type TraceFunc func(pc int, op bytecode.Opcode, depth int)

// Options configures one execution.
type Options struct {
	// StackCapacity bounds the operand stack. Zero means DefaultStackCapacity.
	StackCapacity int
	// MaxSteps bounds the number of executed instructions. Zero means no limit.
	MaxSteps int
	// Trace, when set, is called for every fetched instruction.
	Trace TraceFunc
}

// DefaultOptions returns the options used by the REPL when nothing is configured.
func DefaultOptions() Options {
	return Options{StackCapacity: DefaultStackCapacity}
}

// State is the mutable machine state of one execution: the operand stack
// and the program counter. A State is created per run and discarded after.
type State struct {
	stack ValueStack
	pc    int
	steps int
}

// NewState creates a state with an empty stack and PC 0.
func NewState(stack ValueStack) *State {
	return &State{stack: stack}
}

// NewStateWithOptions creates a state over a fixed stack sized by opts.
func NewStateWithOptions(opts Options) *State {
	capacity := opts.StackCapacity
	if capacity <= 0 {
		capacity = DefaultStackCapacity
	}
	return NewState(NewFixedStack(capacity))
}

// PC returns the current program counter.
func (s *State) PC() int { return s.pc }

// Steps returns the number of instructions executed so far.
func (s *State) Steps() int { return s.steps }

// Stack returns the operand stack.
func (s *State) Stack() ValueStack { return s.stack }

func (s *State) push(v Value) error {
	if err := s.stack.Push(v); err != nil {
		return s.fail(err)
	}
	return nil
}

func (s *State) pop() (Value, error) {
	v, err := s.stack.Pop()
	if err != nil {
		return Void, s.fail(err)
	}
	return v, nil
}

// fail stamps the current PC onto a VM error.
func (s *State) fail(err error) error {
	if e, ok := err.(*Error); ok && e.PC == 0 {
		stamped := *e
		stamped.PC = s.pc
		return &stamped
	}
	return err
}

// ---------------------------------------------------------------------------
// Execution loop
// ---------------------------------------------------------------------------

// Run executes program against state until OpEnd, then pops the result.
// A program that pushes nothing, such as a lone OpEnd, fails with
// StackUnderflow.
func Run(state *State, program bytecode.ByteSource) (Value, error) {
	return RunWithOptions(state, program, Options{})
}

// RunWithOptions is Run with a step limit and trace hook taken from opts.
// opts.StackCapacity is ignored; the stack is owned by state.
func RunWithOptions(state *State, program bytecode.ByteSource, opts Options) (Value, error) {
	for {
		more, err := state.step(program, opts)
		if err != nil {
			return Void, err
		}
		if !more {
			break
		}
	}
	return state.pop()
}

// Execute runs program on a fresh state built from opts.
func Execute(program bytecode.ByteSource, opts Options) (Value, error) {
	return RunWithOptions(NewStateWithOptions(opts), program, opts)
}

func (s *State) step(program bytecode.ByteSource, opts Options) (bool, error) {
	b, ok := program.ByteAt(s.pc)
	if !ok {
		return false, &Error{Kind: OpcodeFetch, PC: s.pc}
	}
	op := bytecode.Opcode(b)

	if opts.MaxSteps > 0 && s.steps >= opts.MaxSteps {
		return false, &Error{Kind: InstructionLimit, PC: s.pc}
	}
	s.steps++

	if opts.Trace != nil {
		opts.Trace(s.pc, op, s.stack.Len())
	}

	switch op {
	case bytecode.OpEnd:
		return false, nil

	case bytecode.OpLoadInt:
		v, ok := bytecode.IntAt(program, s.pc+1)
		if !ok {
			return false, &Error{Kind: OpcodeFetch, PC: s.pc}
		}
		if err := s.push(Int(v)); err != nil {
			return false, err
		}
		s.pc += op.InstructionLen()
		return true, nil

	case bytecode.OpLoadReal:
		v, ok := bytecode.RealAt(program, s.pc+1)
		if !ok {
			return false, &Error{Kind: OpcodeFetch, PC: s.pc}
		}
		if err := s.push(Real(v)); err != nil {
			return false, err
		}
		s.pc += op.InstructionLen()
		return true, nil
	}

	if !op.IsBinary() {
		return false, &Error{Kind: UnknownInstruction, PC: s.pc}
	}

	// Right operand is on top.
	right, err := s.pop()
	if err != nil {
		return false, err
	}
	left, err := s.pop()
	if err != nil {
		return false, err
	}
	result, err := Apply(op, left, right)
	if err != nil {
		return false, s.fail(err)
	}
	if err := s.push(result); err != nil {
		return false, err
	}
	s.pc++
	return true, nil
}
