package compiler

import (
	"github.com/chazu/tpc/pkg/bytecode"
)

// ---------------------------------------------------------------------------
// Compiler: single-pass recursive descent straight to bytecode
// ---------------------------------------------------------------------------
//
// Grammar, loosest binding first:
//
//	expression → comparison
//	comparison → term ( ("<" | ">" | "<=" | ">=" | "==" | "!=") term )?
//	term       → factor ( ("+" | "-") factor )*
//	factor     → primary ( ("*" | "/" | "%") primary )*
//	primary    → Integer | Real
//
// Operators are emitted after their right operand.

type operator struct {
	text string
	op   bytecode.Opcode
}

var (
	factorOps = []operator{{"*", bytecode.OpMul}, {"/", bytecode.OpDiv}, {"%", bytecode.OpMod}}
	termOps   = []operator{{"+", bytecode.OpAdd}, {"-", bytecode.OpSub}}

	comparisonOps = []operator{
		{"<", bytecode.OpLt},
		{">", bytecode.OpGt},
		{"<=", bytecode.OpLe},
		{">=", bytecode.OpGe},
		{"==", bytecode.OpEq},
		{"!=", bytecode.OpNe},
	}
)

// Compiler holds the state of one compilation.
type Compiler struct {
	stream Stream
	sink   bytecode.ByteSink

	// end of the last consumed token, where an unexpected end is reported
	lastEnd int
}

// Compile parses one expression from s and writes its bytecode to sink,
// followed by OpEnd. Input without tokens compiles to a lone OpEnd.
//
// On failure the returned error is a *CompileError and sink may hold a
// partial prefix that must be discarded.
func Compile(s Stream, sink bytecode.ByteSink) error {
	c := &Compiler{stream: s, sink: sink}
	if err := c.compile(); err != nil {
		return err
	}
	return nil
}

// CompileString compiles src into a frozen program.
func CompileString(src string) (*bytecode.Program, error) {
	b := bytecode.NewBuilder()
	if err := Compile(NewTokenStream(NewStringReader(src)), b); err != nil {
		return nil, err
	}
	return b.Freeze(), nil
}

func (c *Compiler) compile() *CompileError {
	if _, ok := c.stream.Peek(); ok {
		if err := c.expression(); err != nil {
			return err
		}
	}

	if tok, ok := c.next(); ok {
		return expectedEnd(tok)
	}
	bytecode.EmitOp(c.sink, bytecode.OpEnd)
	return nil
}

func (c *Compiler) next() (TokenAndPos, bool) {
	tok, ok := c.stream.Next()
	if ok {
		c.lastEnd = tok.Pos.End
	}
	return tok, ok
}

func (c *Compiler) expression() *CompileError {
	return c.comparison()
}

func (c *Compiler) comparison() *CompileError {
	return c.binary(c.term, comparisonOps, false)
}

func (c *Compiler) term() *CompileError {
	return c.binary(c.factor, termOps, true)
}

func (c *Compiler) factor() *CompileError {
	return c.binary(c.primary, factorOps, true)
}

// binary parses operand (op operand)*, or at most one op when chain is false.
func (c *Compiler) binary(operand func() *CompileError, ops []operator, chain bool) *CompileError {
	if err := operand(); err != nil {
		return err
	}
	for {
		tok, ok := c.stream.Peek()
		if !ok {
			return nil
		}
		op, found := match(tok.Token, ops)
		if !found {
			return nil
		}
		c.next()
		if err := operand(); err != nil {
			return err
		}
		bytecode.EmitOp(c.sink, op)
		if !chain {
			return nil
		}
	}
}

func (c *Compiler) primary() *CompileError {
	tok, ok := c.next()
	if !ok {
		return unexpectedEnd(c.lastEnd)
	}

	switch tok.Token.Kind {
	case TokenInteger:
		bytecode.EmitOp(c.sink, bytecode.OpLoadInt)
		bytecode.PushInt(c.sink, tok.Token.Int)
		return nil
	case TokenReal:
		bytecode.EmitOp(c.sink, bytecode.OpLoadReal)
		bytecode.PushReal(c.sink, tok.Token.Real)
		return nil
	default:
		return expectedValue(tok)
	}
}

func match(tok Token, ops []operator) (bytecode.Opcode, bool) {
	for _, o := range ops {
		if tok.Is(o.text) {
			return o.op, true
		}
	}
	return 0, false
}
