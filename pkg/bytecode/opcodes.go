package bytecode

import "fmt"

// Opcode represents a bytecode instruction.
// Every instruction is a single opcode byte, optionally followed by a
// fixed-width operand.
type Opcode byte

const (
	// ========================================================================
	// Control
	// ========================================================================

	OpEnd Opcode = 0x00 // Stop execution; the VM pops the result

	// ========================================================================
	// Loads (8-byte big-endian operand)
	// ========================================================================

	OpLoadInt  Opcode = 0x01 // Push integer: OpLoadInt <value:i64>
	OpLoadReal Opcode = 0x06 // Push real: OpLoadReal <value:f64 bits>

	// ========================================================================
	// Arithmetic
	// ========================================================================

	OpAdd Opcode = 0x02 // Pop two, push sum
	OpMul Opcode = 0x03 // Pop two, push product
	OpSub Opcode = 0x04 // Pop two, push difference (a - b where b is TOS)
	OpDiv Opcode = 0x05 // Pop two, push quotient
	OpMod Opcode = 0x07 // Pop two, push remainder

	// ========================================================================
	// Comparison
	// ========================================================================

	OpEq Opcode = 0x08 // Pop two, push a == b
	OpNe Opcode = 0x09 // Pop two, push a != b
	OpLt Opcode = 0x0A // Pop two, push a < b
	OpGt Opcode = 0x0B // Pop two, push a > b
	OpLe Opcode = 0x0C // Pop two, push a <= b
	OpGe Opcode = 0x0D // Pop two, push a >= b

	// ========================================================================
	// Bitwise / logical (bytecode only; no source syntax)
	// ========================================================================

	OpAnd Opcode = 0x0E // Pop two, push a & b
	OpOr  Opcode = 0x0F // Pop two, push a | b
	OpXor Opcode = 0x10 // Pop two, push a ^ b
	OpShl Opcode = 0x11 // Pop two, push a << b
	OpShr Opcode = 0x12 // Pop two, push a >> b
)

// DataSize is the width in bytes of every load operand.
const DataSize = 8

// OpcodeInfo provides metadata about each opcode for debugging and validation.
type OpcodeInfo struct {
	Name       string // Human-readable name
	Symbol     string // Source operator for binary opcodes
	StackPop   int    // How many values popped from stack
	StackPush  int    // How many values pushed to stack
	OperandLen int    // Number of operand bytes following the opcode
}

// opcodeInfoTable maps opcodes to their metadata.
var opcodeInfoTable = map[Opcode]OpcodeInfo{
	OpEnd: {"END", "", 0, 0, 0},

	// Loads
	OpLoadInt:  {"LOAD_INT", "", 0, 1, DataSize},
	OpLoadReal: {"LOAD_REAL", "", 0, 1, DataSize},

	// Arithmetic
	OpAdd: {"ADD", "+", 2, 1, 0},
	OpSub: {"SUB", "-", 2, 1, 0},
	OpMul: {"MUL", "*", 2, 1, 0},
	OpDiv: {"DIV", "/", 2, 1, 0},
	OpMod: {"MOD", "%", 2, 1, 0},

	// Comparison
	OpEq: {"EQ", "==", 2, 1, 0},
	OpNe: {"NE", "!=", 2, 1, 0},
	OpLt: {"LT", "<", 2, 1, 0},
	OpGt: {"GT", ">", 2, 1, 0},
	OpLe: {"LE", "<=", 2, 1, 0},
	OpGe: {"GE", ">=", 2, 1, 0},

	// Bitwise
	OpAnd: {"AND", "&", 2, 1, 0},
	OpOr:  {"OR", "|", 2, 1, 0},
	OpXor: {"XOR", "^", 2, 1, 0},
	OpShl: {"SHL", "<<", 2, 1, 0},
	OpShr: {"SHR", ">>", 2, 1, 0},
}

// GetOpcodeInfo returns metadata for an opcode.
// Returns a zero OpcodeInfo with name "UNKNOWN" if the opcode is not recognized.
func GetOpcodeInfo(op Opcode) OpcodeInfo {
	if info, ok := opcodeInfoTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN(0x%02X)", byte(op))}
}

// Lookup reports whether op is a defined opcode.
func Lookup(op Opcode) (OpcodeInfo, bool) {
	info, ok := opcodeInfoTable[op]
	return info, ok
}

// String returns the human-readable name of an opcode.
func (op Opcode) String() string {
	return GetOpcodeInfo(op).Name
}

// Symbol returns the source operator of a binary opcode, or "" otherwise.
func (op Opcode) Symbol() string {
	return GetOpcodeInfo(op).Symbol
}

// OperandLen returns the number of operand bytes for this opcode.
func (op Opcode) OperandLen() int {
	return GetOpcodeInfo(op).OperandLen
}

// InstructionLen returns the total length of an instruction (1 + operand bytes).
func (op Opcode) InstructionLen() int {
	return 1 + op.OperandLen()
}

// IsLoad returns true if this opcode pushes an operand.
func (op Opcode) IsLoad() bool {
	return op == OpLoadInt || op == OpLoadReal
}

// IsBinary returns true if this opcode pops two values and pushes one.
func (op Opcode) IsBinary() bool {
	info, ok := opcodeInfoTable[op]
	return ok && info.StackPop == 2
}

// IsComparison returns true if this opcode produces a Boolean.
func (op Opcode) IsComparison() bool {
	return op >= OpEq && op <= OpGe
}

// IsSourceOperator returns true if the compiler emits this opcode for a
// source operator.
func (op Opcode) IsSourceOperator() bool {
	return op.IsBinary() && op < OpAnd
}

// AllOpcodes returns a slice of all defined opcodes.
// Useful for testing that all opcodes have metadata.
func AllOpcodes() []Opcode {
	opcodes := make([]Opcode, 0, len(opcodeInfoTable))
	for op := range opcodeInfoTable {
		opcodes = append(opcodes, op)
	}
	return opcodes
}

// OpcodeCount returns the number of defined opcodes.
func OpcodeCount() int {
	return len(opcodeInfoTable)
}
