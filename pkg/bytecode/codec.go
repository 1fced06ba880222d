package bytecode

import (
	"encoding/binary"
	"math"
)

// ByteSink is the write side of a program: compilation only ever appends.
type ByteSink interface {
	PushByte(b byte)
}

// ByteSource is the read side of a program: execution only ever reads by
// address. ByteAt reports false when addr is outside the program.
type ByteSource interface {
	ByteAt(addr int) (byte, bool)
}

// EmitOp appends a single opcode byte.
func EmitOp(sink ByteSink, op Opcode) {
	sink.PushByte(byte(op))
}

// PushData appends v as DataSize big-endian bytes.
func PushData(sink ByteSink, v uint64) {
	var buf [DataSize]byte
	binary.BigEndian.PutUint64(buf[:], v)
	for _, b := range buf {
		sink.PushByte(b)
	}
}

// PushInt appends a two's complement integer operand.
func PushInt(sink ByteSink, v int64) {
	PushData(sink, uint64(v))
}

// PushReal appends an IEEE 754 operand.
func PushReal(sink ByteSink, v float64) {
	PushData(sink, math.Float64bits(v))
}

// DataAt reads DataSize big-endian bytes starting at addr.
// Returns false if any of the bytes is missing.
func DataAt(src ByteSource, addr int) (uint64, bool) {
	var buf [DataSize]byte
	for i := range buf {
		b, ok := src.ByteAt(addr + i)
		if !ok {
			return 0, false
		}
		buf[i] = b
	}
	return binary.BigEndian.Uint64(buf[:]), true
}

// IntAt reads an integer operand at addr.
func IntAt(src ByteSource, addr int) (int64, bool) {
	v, ok := DataAt(src, addr)
	return int64(v), ok
}

// RealAt reads a real operand at addr.
func RealAt(src ByteSource, addr int) (float64, bool) {
	v, ok := DataAt(src, addr)
	return math.Float64frombits(v), ok
}
