package bytecode

// Builder is a growable, append-only code buffer used while compiling.
type Builder struct {
	code []byte
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{code: make([]byte, 0, 64)}
}

// PushByte appends one byte to the code section.
func (b *Builder) PushByte(v byte) {
	b.code = append(b.code, v)
}

// Len returns the number of bytes written so far.
func (b *Builder) Len() int {
	return len(b.code)
}

// Freeze hands the code over to a read-only Program.
// The builder is empty afterwards and must not be reused to patch the program.
func (b *Builder) Freeze() *Program {
	p := &Program{code: b.code}
	b.code = nil
	return p
}

// Program is a frozen bytecode buffer.
type Program struct {
	code []byte
}

// NewProgram wraps raw code. The slice is copied so later writes by the
// caller cannot reach the program.
func NewProgram(code []byte) *Program {
	return &Program{code: append([]byte(nil), code...)}
}

// ByteAt returns the byte at addr, or false past either end.
func (p *Program) ByteAt(addr int) (byte, bool) {
	if addr < 0 || addr >= len(p.code) {
		return 0, false
	}
	return p.code[addr], true
}

// Len returns the length of the code section.
func (p *Program) Len() int {
	return len(p.code)
}

// Bytes returns a copy of the code section.
func (p *Program) Bytes() []byte {
	return append([]byte(nil), p.code...)
}

// IsEmpty reports whether the program is a lone terminator, i.e. compiled
// from input without tokens.
func (p *Program) IsEmpty() bool {
	return len(p.code) == 1 && Opcode(p.code[0]) == OpEnd
}
