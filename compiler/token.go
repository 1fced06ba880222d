package compiler

import (
	"fmt"
	"strconv"
)

// ---------------------------------------------------------------------------
// Token types for the expression lexer
// ---------------------------------------------------------------------------

// TokenKind represents the variant of a token.
type TokenKind int

const (
	TokenInteger TokenKind = iota // 42
	TokenReal                     // 3.14
	TokenSingle                   // any single byte: + - * / % < > ( ...
	TokenDouble                   // two-byte operator: <= >= == != << >>
)

var tokenNames = map[TokenKind]string{
	TokenInteger: "INTEGER",
	TokenReal:    "REAL",
	TokenSingle:  "SINGLE",
	TokenDouble:  "DOUBLE",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Token(%d)", k)
}

// Token is a lexical unit. Only the fields matching Kind are meaningful.
type Token struct {
	Kind TokenKind
	Int  int64   // TokenInteger
	Real float64 // TokenReal
	C0   byte    // TokenSingle, TokenDouble
	C1   byte    // TokenDouble
}

// IntegerToken creates an integer literal token.
func IntegerToken(v int64) Token { return Token{Kind: TokenInteger, Int: v} }

// RealToken creates a real literal token.
func RealToken(v float64) Token { return Token{Kind: TokenReal, Real: v} }

// SingleToken creates a one-byte punctuation token.
func SingleToken(c byte) Token { return Token{Kind: TokenSingle, C0: c} }

// DoubleToken creates a two-byte operator token.
func DoubleToken(c0, c1 byte) Token { return Token{Kind: TokenDouble, C0: c0, C1: c1} }

// Is reports whether the token is the punctuation or operator op.
func (t Token) Is(op string) bool {
	switch t.Kind {
	case TokenSingle:
		return len(op) == 1 && op[0] == t.C0
	case TokenDouble:
		return len(op) == 2 && op[0] == t.C0 && op[1] == t.C1
	}
	return false
}

// Text returns the source spelling of the token.
func (t Token) Text() string {
	switch t.Kind {
	case TokenInteger:
		return strconv.FormatInt(t.Int, 10)
	case TokenReal:
		return strconv.FormatFloat(t.Real, 'f', -1, 64)
	case TokenSingle:
		return string([]byte{t.C0})
	case TokenDouble:
		return string([]byte{t.C0, t.C1})
	}
	return ""
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Kind, t.Text())
}

// Pos is a half-open byte range [Start, End) into the source.
type Pos struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the range.
func (p Pos) Len() int {
	return p.End - p.Start
}

func (p Pos) String() string {
	return fmt.Sprintf("%d..%d", p.Start, p.End)
}

// TokenAndPos pairs a token with the bytes it was read from.
type TokenAndPos struct {
	Token Token
	Pos   Pos
}
