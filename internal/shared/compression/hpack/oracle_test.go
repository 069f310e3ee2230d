package hpack

import (
	"testing"

	xhpack "golang.org/x/net/http2/hpack"

	"github.com/stretchr/testify/require"
)

// This package's Huffman table, the static table, and the integer codec are
// all meant to be bit-exact against RFC 7541, so this test uses
// golang.org/x/net/http2/hpack as an independent decoder: if our encoder's
// wire bytes for a static-table hit, a raw literal, or a Huffman-coded
// literal don't mean what we think they mean, a second, unrelated
// implementation will disagree.
func TestEncoderOutputMatchesIndependentDecoder(t *testing.T) {
	headers := []HeaderField{
		{":method", "GET"},
		{":path", "/"},
		{":scheme", "https"},
		{"custom-key", "custom-header"},
		{"accept", "text/plain"},
	}

	for _, huffmanDisabled := range []bool{false, true} {
		enc := NewEncoder(4096, false)
		enc.SetHuffmanDisabled(huffmanDisabled)

		var got []xhpack.HeaderField
		dec := xhpack.NewDecoder(4096, func(f xhpack.HeaderField) {
			got = append(got, f)
		})

		for _, hf := range headers {
			wire, err := enc.Encode(hf, 0, IndexAdd, make([]byte, 0, 256))
			require.NoError(t, err)

			_, err = dec.Write(wire)
			require.NoError(t, err)
		}

		require.Len(t, got, len(headers))
		for i, hf := range headers {
			require.Equal(t, hf.Name, got[i].Name)
			require.Equal(t, hf.Value, got[i].Value)
		}
	}
}
