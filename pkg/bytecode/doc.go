// Package bytecode defines the instruction set and wire format shared by the
// expression compiler and the stack VM.
//
// A program is a flat sequence of records:
//
//	[opcode:1] [operand:8]?
//
// Only the load opcodes carry an operand, an 8-byte big-endian integer or
// IEEE 754 bit pattern. There is no header, length field or version: a
// program is produced and consumed within one evaluation and never stored.
//
// # Ownership
//
// The compiler writes through a ByteSink, which supports nothing but
// appending. Once compilation succeeds the Builder is frozen into a Program,
// which the VM reads through a ByteSource by address. The two roles never
// alias: Freeze moves the buffer out of the builder.
package bytecode
