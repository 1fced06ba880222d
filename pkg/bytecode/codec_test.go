package bytecode

import (
	"bytes"
	"math"
	"testing"
)

func TestPushIntBigEndian(t *testing.T) {
	b := NewBuilder()
	PushInt(b, 0x0102030405060708)

	p := b.Freeze()
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if !bytes.Equal(p.Bytes(), want) {
		t.Errorf("bytes = % X, want % X", p.Bytes(), want)
	}
}

func TestPushIntNegative(t *testing.T) {
	b := NewBuilder()
	PushInt(b, -1)

	p := b.Freeze()
	for i := 0; i < DataSize; i++ {
		if c, _ := p.ByteAt(i); c != 0xFF {
			t.Fatalf("byte %d = 0x%02X, want 0xFF", i, c)
		}
	}
	v, ok := IntAt(p, 0)
	if !ok || v != -1 {
		t.Errorf("IntAt = %d, %v; want -1, true", v, ok)
	}
}

func TestRealOperands(t *testing.T) {
	values := []float64{0, 3.5, -2.25, math.MaxFloat64, math.SmallestNonzeroFloat64, math.Inf(1)}
	for _, want := range values {
		b := NewBuilder()
		PushReal(b, want)
		p := b.Freeze()

		got, ok := RealAt(p, 0)
		if !ok {
			t.Fatalf("RealAt(%v) failed", want)
		}
		if got != want {
			t.Errorf("RealAt = %v, want %v", got, want)
		}
	}
}

func TestDataAtTruncated(t *testing.T) {
	p := NewProgram([]byte{byte(OpLoadInt), 0, 0, 0, 0})
	if _, ok := IntAt(p, 1); ok {
		t.Error("IntAt on truncated operand should fail")
	}
	if _, ok := RealAt(p, 1); ok {
		t.Error("RealAt on truncated operand should fail")
	}
}

func TestProgramByteAtBounds(t *testing.T) {
	p := NewProgram([]byte{byte(OpEnd)})
	if _, ok := p.ByteAt(-1); ok {
		t.Error("ByteAt(-1) should fail")
	}
	if _, ok := p.ByteAt(1); ok {
		t.Error("ByteAt(len) should fail")
	}
	if c, ok := p.ByteAt(0); !ok || Opcode(c) != OpEnd {
		t.Errorf("ByteAt(0) = 0x%02X, %v", c, ok)
	}
}

func TestNewProgramCopiesInput(t *testing.T) {
	code := []byte{byte(OpEnd)}
	p := NewProgram(code)
	code[0] = byte(OpAdd)

	if c, _ := p.ByteAt(0); Opcode(c) != OpEnd {
		t.Error("program shares memory with caller slice")
	}
}

func TestBuilderFreeze(t *testing.T) {
	b := NewBuilder()
	EmitOp(b, OpLoadInt)
	PushInt(b, 2)
	EmitOp(b, OpEnd)

	if b.Len() != 10 {
		t.Errorf("Len() = %d, want 10", b.Len())
	}

	p := b.Freeze()
	if p.Len() != 10 {
		t.Errorf("program Len() = %d, want 10", p.Len())
	}
	if b.Len() != 0 {
		t.Errorf("builder still holds %d bytes after Freeze", b.Len())
	}
	if p.IsEmpty() {
		t.Error("program with a load reported empty")
	}
}

func TestProgramIsEmpty(t *testing.T) {
	b := NewBuilder()
	EmitOp(b, OpEnd)
	if !b.Freeze().IsEmpty() {
		t.Error("lone terminator should be empty")
	}
	if NewProgram(nil).IsEmpty() {
		t.Error("zero-length program is malformed, not empty")
	}
}
