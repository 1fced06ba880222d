package bytecode

import (
	"fmt"
	"strconv"
	"strings"
)

// Disassemble returns a human-readable bytecode listing for the program.
func (p *Program) Disassemble() string {
	return p.DisassembleWithName("")
}

// DisassembleWithName returns a human-readable bytecode listing with a name header.
func (p *Program) DisassembleWithName(name string) string {
	var sb strings.Builder

	if name != "" {
		sb.WriteString(fmt.Sprintf("; === %s ===\n", name))
	}
	sb.WriteString(fmt.Sprintf("; %d bytes, %d instructions\n", len(p.code), p.InstructionCount()))
	for _, line := range p.DisassembleToLines() {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// disassembleInstruction disassembles a single instruction at the given offset.
// Returns the formatted string and the instruction length.
func (p *Program) disassembleInstruction(offset int) (string, int) {
	if offset >= len(p.code) {
		return "<end of code>", 0
	}

	op := Opcode(p.code[offset])
	info, known := Lookup(op)
	if !known {
		return fmt.Sprintf("UNKNOWN 0x%02X", byte(op)), 1
	}

	switch op {
	case OpLoadInt:
		v, ok := IntAt(p, offset+1)
		if !ok {
			return "LOAD_INT <truncated>", len(p.code) - offset
		}
		return fmt.Sprintf("LOAD_INT %d", v), info.OperandLen + 1

	case OpLoadReal:
		v, ok := RealAt(p, offset+1)
		if !ok {
			return "LOAD_REAL <truncated>", len(p.code) - offset
		}
		return fmt.Sprintf("LOAD_REAL %s", strconv.FormatFloat(v, 'g', -1, 64)), info.OperandLen + 1

	default:
		if info.Symbol != "" {
			return fmt.Sprintf("%-9s ; %s", info.Name, info.Symbol), 1
		}
		return info.Name, 1
	}
}

// DisassembleInstruction returns a human-readable representation of a single instruction.
func (p *Program) DisassembleInstruction(offset int) string {
	line, _ := p.disassembleInstruction(offset)
	return line
}

// DisassembleToLines returns the disassembly as a slice of lines.
func (p *Program) DisassembleToLines() []string {
	var lines []string
	offset := 0
	for offset < len(p.code) {
		line, instrLen := p.disassembleInstruction(offset)
		lines = append(lines, fmt.Sprintf("%04X  %s", offset, line))
		offset += instrLen
	}
	return lines
}

// InstructionCount returns the number of instructions in the program.
// Note: This iterates through all code, so it's O(n).
func (p *Program) InstructionCount() int {
	count := 0
	offset := 0
	for offset < len(p.code) {
		op := Opcode(p.code[offset])
		offset += op.InstructionLen()
		count++
	}
	return count
}
