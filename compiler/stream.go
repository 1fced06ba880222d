package compiler

// Stream is a peekable sequence of positioned tokens.
type Stream interface {
	Peek() (TokenAndPos, bool)
	Next() (TokenAndPos, bool)
}

// TokenStream lexes lazily from a Reader, holding at most one token of
// look-ahead.
type TokenStream struct {
	reader  Reader
	peeked  TokenAndPos
	hasPeek bool
	done    bool
}

// NewTokenStream creates a stream over r.
func NewTokenStream(r Reader) *TokenStream {
	return &TokenStream{reader: r}
}

// Peek returns the next token without consuming it.
func (s *TokenStream) Peek() (TokenAndPos, bool) {
	if !s.hasPeek && !s.done {
		tok, ok := Lex(s.reader)
		if !ok {
			s.done = true
		} else {
			s.peeked = tok
			s.hasPeek = true
		}
	}
	return s.peeked, s.hasPeek
}

// Next consumes and returns the next token.
func (s *TokenStream) Next() (TokenAndPos, bool) {
	tok, ok := s.Peek()
	if ok {
		s.hasPeek = false
		s.peeked = TokenAndPos{}
	}
	return tok, ok
}

// SliceStream replays a fixed token sequence.
type SliceStream struct {
	tokens []TokenAndPos
	index  int
}

// NewSliceStream creates a stream over already-lexed tokens.
func NewSliceStream(tokens []TokenAndPos) *SliceStream {
	return &SliceStream{tokens: tokens}
}

func (s *SliceStream) Peek() (TokenAndPos, bool) {
	if s.index >= len(s.tokens) {
		return TokenAndPos{}, false
	}
	return s.tokens[s.index], true
}

func (s *SliceStream) Next() (TokenAndPos, bool) {
	tok, ok := s.Peek()
	if ok {
		s.index++
	}
	return tok, ok
}
