package compiler

import "fmt"

// CompileError is a positioned compile failure. Pos is the byte range of the
// offending token, or a zero-length range where input ended unexpectedly.
type CompileError struct {
	Message string
	Pos     Pos
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s (at %s)", e.Message, e.Pos)
}

func errorf(pos Pos, format string, args ...any) *CompileError {
	return &CompileError{Message: fmt.Sprintf(format, args...), Pos: pos}
}

func unexpectedEnd(at int) *CompileError {
	return &CompileError{Message: "Unexpected end of code.", Pos: Pos{Start: at, End: at}}
}

func expectedValue(tp TokenAndPos) *CompileError {
	if tp.Token.Kind == TokenDouble {
		return errorf(tp.Pos, "Expected value, found token %s.", tp.Token.Text())
	}
	return errorf(tp.Pos, "Expected value, found character %s.", tp.Token.Text())
}

func expectedEnd(tp TokenAndPos) *CompileError {
	var what string
	switch tp.Token.Kind {
	case TokenInteger:
		what = "integer"
	case TokenReal:
		what = "real"
	case TokenSingle:
		what = "character"
	default:
		what = "token"
	}
	return errorf(tp.Pos, "Expected end of code, found %s '%s'.", what, tp.Token.Text())
}
