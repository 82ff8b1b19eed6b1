package quotes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	assert.Equal(t, `"foo"`, WrapString("foo"))
	assert.Equal(t, []byte(`"foo"`), WrapBytes([]byte("foo")))
	assert.Equal(t, `""`, WrapString(""))
}

func TestEscape(t *testing.T) {
	input := `foo
	bar
  baz	bal
"str" \ ` + "\x01"

	marshalled, err := json.Marshal(input)
	require.NoError(t, err)
	want := string(marshalled[1 : len(marshalled)-1])

	assert.Equal(t, want, Escape(input))

	out := make([]byte, len(input))
	assert.Equal(t, want, string(EscapeBytes([]byte(input), out)))
	assert.Equal(t, want, string(EscapeBytes([]byte(input), out[:0])))
}

func BenchmarkEscapeBytes(b *testing.B) {
	input := []byte("foo\n\tbar\n  baz\tbal\n")
	out := make([]byte, len(input)*2)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		out = EscapeBytes(input, out)
		if len(out) == 0 {
			b.Fatalf("must not be 0")
		}
	}
}
