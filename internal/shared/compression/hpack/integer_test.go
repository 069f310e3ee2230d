package hpack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIntegerRoundTrip(t *testing.T) {
	cases := []struct {
		value      uint32
		prefixBits int
	}{
		{0, 5}, {1, 5}, {10, 5}, {30, 5}, {31, 5}, {32, 5},
		{1337, 5}, {127, 7}, {128, 7}, {0, 8}, {255, 8}, {256, 8},
		{1 << 20, 7}, {1<<28 - 1, 7},
	}

	for _, tc := range cases {
		buf, ok := appendInt(nil, tc.value, tc.prefixBits, 0)
		require.True(t, ok)

		got, n, err := decodeInt(buf, tc.prefixBits)
		require.NoError(t, err)
		require.Equal(t, len(buf), n)
		require.Equal(t, tc.value, got)
	}
}

func TestIntegerOtherBitsPreserved(t *testing.T) {
	buf, _ := appendInt(nil, 5, 7, 0x80)
	require.Equal(t, byte(0x85), buf[0])
}

func TestDecodeIntTruncated(t *testing.T) {
	_, _, err := decodeInt(nil, 5)
	require.ErrorIs(t, err, ErrTruncatedInput)

	// prefix says "more bytes follow" but there are none.
	_, _, err = decodeInt([]byte{0x1f}, 5)
	require.ErrorIs(t, err, ErrTruncatedInput)
}

func TestDecodeIntOverflow(t *testing.T) {
	// An unbounded run of continuation bytes with the continuation bit set
	// must eventually be rejected rather than wrap silently.
	huge := []byte{0x1f, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	_, _, err := decodeInt(huge, 5)
	require.ErrorIs(t, err, ErrIntegerOverflow)
}
