package hpack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStaticGet(t *testing.T) {
	hf, ok := staticGet(2)
	require.True(t, ok)
	require.Equal(t, HeaderField{":method", "GET"}, hf)

	hf, ok = staticGet(61)
	require.True(t, ok)
	require.Equal(t, HeaderField{"www-authenticate", ""}, hf)

	_, ok = staticGet(0)
	require.False(t, ok)
	_, ok = staticGet(62)
	require.False(t, ok)
}

func TestStaticLookupNameValue(t *testing.T) {
	idx, ok := staticLookupNameValue(hashName(":method"), ":method", "POST")
	require.True(t, ok)
	require.Equal(t, uint32(3), idx)

	_, ok = staticLookupNameValue(hashName(":method"), ":method", "DELETE")
	require.False(t, ok)
}

func TestStaticLookupName(t *testing.T) {
	idx, ok := staticLookupName(hashName("cookie"), "cookie")
	require.True(t, ok)
	require.Equal(t, uint32(32), idx)

	_, ok = staticLookupName(hashName("x-not-a-header"), "x-not-a-header")
	require.False(t, ok)
}
