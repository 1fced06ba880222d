package compiler

import "math"

// ---------------------------------------------------------------------------
// Lexer: byte-oriented tokenizer for arithmetic expressions
// ---------------------------------------------------------------------------

// Reader is the character source the lexer pulls from.
type Reader interface {
	// Current returns the byte under the cursor, or false at end of input.
	Current() (byte, bool)
	// Advance moves the cursor one byte forward.
	Advance()
	// Offset returns the cursor position in bytes from the start of input.
	Offset() int
}

// SliceReader reads from an in-memory byte slice.
type SliceReader struct {
	input  []byte
	offset int
}

// NewSliceReader creates a reader over input.
func NewSliceReader(input []byte) *SliceReader {
	return &SliceReader{input: input}
}

// NewStringReader creates a reader over a string.
func NewStringReader(input string) *SliceReader {
	return &SliceReader{input: []byte(input)}
}

func (r *SliceReader) Current() (byte, bool) {
	if r.offset >= len(r.input) {
		return 0, false
	}
	return r.input[r.offset], true
}

func (r *SliceReader) Advance() {
	r.offset++
}

func (r *SliceReader) Offset() int {
	return r.offset
}

// Lex reads the next token from r. It returns false once the input is
// exhausted; the sequence cannot be restarted.
func Lex(r Reader) (TokenAndPos, bool) {
	skipWhitespace(r)

	start := r.Offset()
	tok, ok := lexToken(r)
	if !ok {
		return TokenAndPos{}, false
	}
	return TokenAndPos{Token: tok, Pos: Pos{Start: start, End: r.Offset()}}, true
}

// Tokenize returns all tokens from the input.
func Tokenize(input string) []TokenAndPos {
	r := NewStringReader(input)
	var tokens []TokenAndPos
	for {
		tok, ok := Lex(r)
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func lexToken(r Reader) (Token, bool) {
	c, ok := r.Current()
	if !ok {
		return Token{}, false
	}
	r.Advance()

	switch {
	case isDigit(c):
		return lexNumber(r, c), true
	case c == '=' || c == '!':
		return lexDouble(r, c, '='), true
	case c == '<':
		return lexDouble(r, c, '=', '<'), true
	case c == '>':
		return lexDouble(r, c, '=', '>'), true
	default:
		return SingleToken(c), true
	}
}

// lexDouble combines lead with the next byte when that byte is one of
// seconds. Otherwise the look-ahead byte is left in place.
func lexDouble(r Reader, lead byte, seconds ...byte) Token {
	c, ok := r.Current()
	if !ok {
		return SingleToken(lead)
	}
	for _, s := range seconds {
		if c == s {
			r.Advance()
			return DoubleToken(lead, c)
		}
	}
	return SingleToken(lead)
}

// lexNumber reads the rest of a number whose first digit is first.
// Accumulation wraps on overflow.
func lexNumber(r Reader, first byte) Token {
	value := int64(first - '0')
	seenDot := false
	fraction := 0

	for {
		c, ok := r.Current()
		if !ok {
			break
		}
		if isDigit(c) {
			value = value*10 + int64(c-'0')
			if seenDot {
				fraction++
			}
			r.Advance()
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			r.Advance()
			continue
		}
		break
	}

	if fraction == 0 {
		return IntegerToken(value)
	}
	return RealToken(float64(value) / math.Pow10(fraction))
}

func skipWhitespace(r Reader) {
	for {
		c, ok := r.Current()
		if !ok || !isWhitespace(c) {
			return
		}
		r.Advance()
	}
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
