// Package quotes wraps and escapes GraphQL string literals.
package quotes

import "strconv"

const (
	quoteByte = '"'
	quoteStr  = string(quoteByte)
)

// WrapBytes returns a new slice wrapping the given s
// in quotes (") by making a copy.
func WrapBytes(s []byte) []byte {
	cp := make([]byte, len(s)+2)
	cp[0] = quoteByte
	copy(cp[1:], s)
	cp[len(s)+1] = quoteByte
	return cp
}

func WrapString(str string) string {
	return quoteStr + str + quoteStr
}

// Escape escapes str for use inside a quoted GraphQL string. The output matches the
// escaping of encoding/json for everything GraphQL allows in a string.
func Escape(str string) string {
	return string(EscapeBytes([]byte(str), nil))
}

// EscapeBytes appends the escaped s to out and returns the extended slice.
func EscapeBytes(s, out []byte) []byte {
	out = out[:0]
	for _, c := range s {
		switch c {
		case '"':
			out = append(out, '\\', '"')
		case '\\':
			out = append(out, '\\', '\\')
		case '\n':
			out = append(out, '\\', 'n')
		case '\r':
			out = append(out, '\\', 'r')
		case '\t':
			out = append(out, '\\', 't')
		default:
			if c < 0x20 {
				out = append(out, '\\', 'u', '0', '0')
				hex := strconv.FormatInt(int64(c), 16)
				if len(hex) == 1 {
					out = append(out, '0')
				}
				out = append(out, hex...)
				continue
			}
			out = append(out, c)
		}
	}
	return out
}
