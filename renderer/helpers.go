package renderer

import (
	"io"
	"strings"
)

// ConditionalBlock renders block into a buffer and copies it to w only when
// block reports that it has something to show.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	var b strings.Builder
	if block(&b) {
		io.WriteString(w, b.String())
	}
}
