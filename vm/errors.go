package vm

import "fmt"

// ErrorKind classifies a runtime failure.
type ErrorKind int

const (
	StackOverflow ErrorKind = iota + 1
	StackUnderflow
	UnknownInstruction
	OpcodeFetch
	BinaryOperator
	DividingByZero
	InstructionLimit
)

var errorKindText = map[ErrorKind]string{
	StackOverflow:      "Stack overflow",
	StackUnderflow:     "Stack underflow",
	UnknownInstruction: "Unknown instruction",
	OpcodeFetch:        "Unable to fetch opcode",
	BinaryOperator:     "Invalid binary operation",
	DividingByZero:     "Dividing by zero",
	InstructionLimit:   "Instruction limit exceeded",
}

func (k ErrorKind) String() string {
	if text, ok := errorKindText[k]; ok {
		return text
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a fatal runtime failure. PC is the offset of the instruction
// that failed. Message carries the operator and operands for
// BinaryOperator and DividingByZero; other kinds leave it empty.
type Error struct {
	Kind    ErrorKind
	PC      int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.String()
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrStackOverflow)
// works regardless of PC and message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrStackOverflow      = &Error{Kind: StackOverflow}
	ErrStackUnderflow     = &Error{Kind: StackUnderflow}
	ErrUnknownInstruction = &Error{Kind: UnknownInstruction}
	ErrOpcodeFetch        = &Error{Kind: OpcodeFetch}
	ErrBinaryOperator     = &Error{Kind: BinaryOperator}
	ErrDividingByZero     = &Error{Kind: DividingByZero}
	ErrInstructionLimit   = &Error{Kind: InstructionLimit}
)
