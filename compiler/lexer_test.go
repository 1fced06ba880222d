package compiler

import (
	"testing"
)

func TestLexerSingleTokens(t *testing.T) {
	input := `+ - * / % ( ) & | ^ #`
	expected := []byte{'+', '-', '*', '/', '%', '(', ')', '&', '|', '^', '#'}

	tokens := Tokenize(input)
	if len(tokens) != len(expected) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(expected))
	}
	for i, c := range expected {
		if tokens[i].Token != SingleToken(c) {
			t.Errorf("token[%d] = %v, want %v", i, tokens[i].Token, SingleToken(c))
		}
	}
}

func TestLexerDoubleTokens(t *testing.T) {
	tests := []struct {
		input string
		want  Token
	}{
		{"<=", DoubleToken('<', '=')},
		{">=", DoubleToken('>', '=')},
		{"==", DoubleToken('=', '=')},
		{"!=", DoubleToken('!', '=')},
		{"<<", DoubleToken('<', '<')},
		{">>", DoubleToken('>', '>')},
	}

	for _, tc := range tests {
		tokens := Tokenize(tc.input)
		if len(tokens) != 1 {
			t.Fatalf("Lexer(%q): got %d tokens, want 1", tc.input, len(tokens))
		}
		if tokens[0].Token != tc.want {
			t.Errorf("Lexer(%q) = %v, want %v", tc.input, tokens[0].Token, tc.want)
		}
		if tokens[0].Pos != (Pos{0, 2}) {
			t.Errorf("Lexer(%q) pos = %v, want 0..2", tc.input, tokens[0].Pos)
		}
	}
}

func TestLexerLeadWithoutSecond(t *testing.T) {
	// The look-ahead byte must stay in the input.
	tests := []struct {
		input string
		want  []Token
	}{
		{"<", []Token{SingleToken('<')}},
		{"=", []Token{SingleToken('=')}},
		{"!1", []Token{SingleToken('!'), IntegerToken(1)}},
		{"<1", []Token{SingleToken('<'), IntegerToken(1)}},
		{"= =", []Token{SingleToken('='), SingleToken('=')}},
		{"=!", []Token{SingleToken('='), SingleToken('!')}},
		{"<>", []Token{SingleToken('<'), SingleToken('>')}},
	}

	for _, tc := range tests {
		tokens := Tokenize(tc.input)
		if len(tokens) != len(tc.want) {
			t.Fatalf("Lexer(%q): got %d tokens, want %d", tc.input, len(tokens), len(tc.want))
		}
		for i := range tc.want {
			if tokens[i].Token != tc.want[i] {
				t.Errorf("Lexer(%q) token[%d] = %v, want %v", tc.input, i, tokens[i].Token, tc.want[i])
			}
		}
	}
}

func TestLexerIntegers(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"0", 0},
		{"42", 42},
		{"007", 7},
		{"9223372036854775807", 9223372036854775807},
	}

	for _, tc := range tests {
		tokens := Tokenize(tc.input)
		if len(tokens) != 1 {
			t.Fatalf("Lexer(%q): got %d tokens", tc.input, len(tokens))
		}
		if tokens[0].Token != IntegerToken(tc.want) {
			t.Errorf("Lexer(%q) = %v, want INTEGER %d", tc.input, tokens[0].Token, tc.want)
		}
		if tokens[0].Pos != (Pos{0, len(tc.input)}) {
			t.Errorf("Lexer(%q) pos = %v", tc.input, tokens[0].Pos)
		}
	}
}

func TestLexerIntegerOverflowWraps(t *testing.T) {
	tokens := Tokenize("9223372036854775808")
	if len(tokens) != 1 || tokens[0].Token.Kind != TokenInteger {
		t.Fatalf("tokens = %v", tokens)
	}
	if tokens[0].Token.Int != -9223372036854775808 {
		t.Errorf("overflowed literal = %d, want wraparound to min int64", tokens[0].Token.Int)
	}
}

func TestLexerReals(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"3.14", 3.14},
		{"0.5", 0.5},
		{"2.0", 2.0},
		{"10.25", 10.25},
		{"0.001", 0.001},
	}

	for _, tc := range tests {
		tokens := Tokenize(tc.input)
		if len(tokens) != 1 {
			t.Fatalf("Lexer(%q): got %d tokens", tc.input, len(tokens))
		}
		if tokens[0].Token != RealToken(tc.want) {
			t.Errorf("Lexer(%q) = %v, want REAL %v", tc.input, tokens[0].Token, tc.want)
		}
	}
}

func TestLexerDotWithoutFraction(t *testing.T) {
	tokens := Tokenize("7.")
	if len(tokens) != 1 {
		t.Fatalf("got %d tokens, want 1", len(tokens))
	}
	if tokens[0].Token != IntegerToken(7) {
		t.Errorf("token = %v, want INTEGER 7", tokens[0].Token)
	}
	if tokens[0].Pos != (Pos{0, 2}) {
		t.Errorf("pos = %v, want 0..2 (dot consumed)", tokens[0].Pos)
	}
}

func TestLexerSecondDotEndsNumber(t *testing.T) {
	tokens := Tokenize("1.5.2")
	want := []TokenAndPos{
		{RealToken(1.5), Pos{0, 3}},
		{SingleToken('.'), Pos{3, 4}},
		{IntegerToken(2), Pos{4, 5}},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %v", tokens)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token[%d] = %v %v, want %v %v", i, tokens[i].Token, tokens[i].Pos, want[i].Token, want[i].Pos)
		}
	}
}

func TestLexerPositionsSkipWhitespace(t *testing.T) {
	tokens := Tokenize(" \t12 <=\r\n 3.5 ")
	want := []Pos{{2, 4}, {5, 7}, {10, 13}}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, p := range want {
		if tokens[i].Pos != p {
			t.Errorf("token[%d] pos = %v, want %v", i, tokens[i].Pos, p)
		}
	}
}

func TestLexerEmptyAndBlank(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\r\n"} {
		if tokens := Tokenize(input); len(tokens) != 0 {
			t.Errorf("Tokenize(%q) = %v, want no tokens", input, tokens)
		}
	}
}

func TestLexerExhaustedStaysExhausted(t *testing.T) {
	r := NewStringReader("1")
	if _, ok := Lex(r); !ok {
		t.Fatal("expected one token")
	}
	for i := 0; i < 3; i++ {
		if tok, ok := Lex(r); ok {
			t.Errorf("Lex after end returned %v", tok)
		}
	}
}

func TestLexerDeterministic(t *testing.T) {
	inputs := []string{"2 + 2 * 2", "1.5 <= 3 % 2", "7 / 2.0 != 1 << 3"}
	for _, input := range inputs {
		a := Tokenize(input)
		b := Tokenize(input)
		if len(a) != len(b) {
			t.Fatalf("Tokenize(%q) not deterministic", input)
		}
		for i := range a {
			if a[i] != b[i] {
				t.Errorf("Tokenize(%q) token[%d] differs: %v vs %v", input, i, a[i], b[i])
			}
		}
	}
}

func TestTokenStreamPeekDoesNotConsume(t *testing.T) {
	s := NewTokenStream(NewStringReader("1 +"))

	first, ok := s.Peek()
	if !ok || first.Token != IntegerToken(1) {
		t.Fatalf("Peek = %v, %v", first, ok)
	}
	again, _ := s.Peek()
	if again != first {
		t.Errorf("second Peek = %v, want %v", again, first)
	}

	next, _ := s.Next()
	if next != first {
		t.Errorf("Next = %v, want %v", next, first)
	}
	plus, ok := s.Next()
	if !ok || plus.Token != SingleToken('+') {
		t.Errorf("Next = %v, %v", plus, ok)
	}
	if _, ok := s.Next(); ok {
		t.Error("stream should be exhausted")
	}
	if _, ok := s.Peek(); ok {
		t.Error("Peek after end should fail")
	}
}

func TestTokenText(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{IntegerToken(-3), "-3"},
		{RealToken(2.5), "2.5"},
		{SingleToken('+'), "+"},
		{DoubleToken('!', '='), "!="},
	}
	for _, tc := range tests {
		if got := tc.tok.Text(); got != tc.want {
			t.Errorf("%v.Text() = %q, want %q", tc.tok, got, tc.want)
		}
	}
}
