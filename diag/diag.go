// Package diag renders compile and runtime failures for a terminal:
// the file and line of a compile error, the offending source line, and a
// caret marker under the error's byte range.
package diag

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chazu/tpc/compiler"
	"github.com/chazu/tpc/vm"
)

// LineInfo locates a line within a source buffer.
type LineInfo struct {
	Number int // 1-based
	Start  int // byte offset of the first byte of the line
}

// Locate returns the line containing offset. Offsets past the end of src
// resolve to the last line.
func Locate(src []byte, offset int) LineInfo {
	if offset > len(src) {
		offset = len(src)
	}
	info := LineInfo{Number: 1}
	for i := 0; i < offset; i++ {
		if src[i] == '\n' {
			info.Number++
			info.Start = i + 1
		}
	}
	return info
}

// Line returns the line beginning at start without its terminator.
func Line(src []byte, start int) string {
	if start >= len(src) {
		return ""
	}
	rest := src[start:]
	end := len(rest)
	for i, c := range rest {
		if c == '\n' || c == '\r' {
			end = i
			break
		}
	}
	return string(rest[:end])
}

// Marker returns spaces up to pos.Start followed by one caret per byte of
// pos. A zero-length range still gets one caret.
func Marker(lineStart int, pos compiler.Pos) string {
	col := pos.Start - lineStart
	if col < 0 {
		col = 0
	}
	width := pos.Len()
	if width < 1 {
		width = 1
	}
	return strings.Repeat(" ", col) + strings.Repeat("^", width)
}

// Report writes a human-readable description of err to w. Compile errors
// get the file/line header, the source line and a marker; VM errors get a
// single "Runtime error" line.
func Report(w io.Writer, name string, src []byte, err error) {
	var ce *compiler.CompileError
	if errors.As(err, &ce) {
		info := Locate(src, ce.Pos.Start)
		fmt.Fprintf(w, "In file: %q, line: %d\n", name, info.Number)
		fmt.Fprintln(w, Line(src, info.Start))
		fmt.Fprintln(w, Marker(info.Start, ce.Pos))
		fmt.Fprintln(w, ce.Message)
		return
	}

	var ve *vm.Error
	if errors.As(err, &ve) {
		fmt.Fprintf(w, "Runtime error: %s\n", ve.Error())
		return
	}

	fmt.Fprintf(w, "Error: %v\n", err)
}
