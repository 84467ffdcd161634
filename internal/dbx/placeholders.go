package dbx

import (
	"strconv"
	"strings"
)

// Placeholders renders n positional parameters starting at $start,
// e.g. Placeholders(2, 3) == "$2, $3, $4".
func Placeholders(start, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(start + i))
	}
	return b.String()
}

// ValuesRows renders rows tuples of width columns for a multi-row
// INSERT ... VALUES, numbering parameters from $1.
func ValuesRows(rows, width int) string {
	var b strings.Builder
	for i := 0; i < rows; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		b.WriteString(Placeholders(i*width+1, width))
		b.WriteByte(')')
	}
	return b.String()
}
