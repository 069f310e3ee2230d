package hpack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func encodeOne(t *testing.T, enc *Encoder, hf HeaderField, hint uint32, policy IndexPolicy) []byte {
	t.Helper()
	dst := make([]byte, 0, 256)
	dst, err := enc.Encode(hf, hint, policy, dst)
	require.NoError(t, err)
	return dst
}

func decodeOne(t *testing.T, dec *Decoder, input []byte) (HeaderField, Field) {
	t.Helper()
	out := make([]byte, 0, 512)
	field, consumed, written, err := dec.Decode(input, out)
	require.NoError(t, err)
	require.Equal(t, len(input), consumed)

	out = out[:written]
	require.Equal(t, byte(':'), out[field.NameLen])
	require.Equal(t, byte(' '), out[field.NameLen+1])
	require.Equal(t, byte('\r'), out[len(out)-2])
	require.Equal(t, byte('\n'), out[len(out)-1])

	name := string(out[:field.NameLen])
	value := string(out[field.NameLen+2 : field.NameLen+2+field.ValueLen])
	return HeaderField{Name: name, Value: value}, field
}

func TestEncodeDecodeStaticExactMatch(t *testing.T) {
	enc := NewEncoder(4096, false)
	dec := NewDecoder(4096, 4096)

	wire := encodeOne(t, enc, HeaderField{":method", "GET"}, 0, IndexAdd)
	require.Equal(t, []byte{0x82}, wire)

	got, field := decodeOne(t, dec, wire)
	require.Equal(t, HeaderField{":method", "GET"}, got)
	require.False(t, field.NeverIndex)
}

func TestEncodeDecodeLiteralWithIncrementalIndexing(t *testing.T) {
	enc := NewEncoder(4096, false)
	enc.SetHuffmanDisabled(true)
	dec := NewDecoder(4096, 4096)

	hf := HeaderField{"custom-key", "custom-header"}
	wire := encodeOne(t, enc, hf, 0, IndexAdd)
	require.Equal(t, byte(0x40), wire[0])

	got, _ := decodeOne(t, dec, wire)
	require.Equal(t, hf, got)

	// The field should now be in both sides' dynamic tables at index 62.
	wire2 := encodeOne(t, enc, hf, 0, IndexAdd)
	require.Equal(t, []byte{0xbe}, wire2)

	got2, _ := decodeOne(t, dec, wire2)
	require.Equal(t, hf, got2)
}

func TestEncodeDecodeNeverIndexed(t *testing.T) {
	enc := NewEncoder(4096, false)
	enc.SetHuffmanDisabled(true)
	dec := NewDecoder(4096, 4096)

	hf := HeaderField{"authorization", "Bearer secret-token"}
	wire := encodeOne(t, enc, hf, 0, IndexNever)
	// "authorization" is static index 23: 0x10|15 in the 4-bit prefix, then 23-15.
	require.Equal(t, []byte{0x1f, 0x08}, wire[:2])

	got, field := decodeOne(t, dec, wire)
	require.Equal(t, hf, got)
	require.True(t, field.NeverIndex)
}

func TestEncodeDecodeManyHeadersSequentialTables(t *testing.T) {
	enc := NewEncoder(4096, false)
	dec := NewDecoder(4096, 4096)

	headers := []HeaderField{
		{":method", "GET"},
		{":path", "/resource"},
		{"x-request-id", "abc-123"},
		{"x-request-id", "abc-123"}, // repeated: should become a full index hit second time
		{"accept", "application/json"},
	}

	for _, hf := range headers {
		wire := encodeOne(t, enc, hf, 0, IndexAdd)
		got, _ := decodeOne(t, dec, wire)
		require.Equal(t, hf, got)
	}
}

func TestEncoderBufferTooSmallLeavesStateUnchanged(t *testing.T) {
	enc := NewEncoder(4096, false)
	hf := HeaderField{"x-long-header-name", "a-fairly-long-header-value"}

	dst := make([]byte, 0, 2) // deliberately too small
	out, err := enc.Encode(hf, 0, IndexAdd, dst)
	require.ErrorIs(t, err, ErrBufferTooSmall)
	require.Equal(t, dst, out)

	// The dynamic table must not have grown: a subsequent encode of the
	// same header into a big-enough buffer still needs the literal form,
	// not a dynamic-table hit.
	big := make([]byte, 0, 256)
	out2, err := enc.Encode(hf, 0, IndexAdd, big)
	require.NoError(t, err)
	require.NotEqual(t, byte(0x80), out2[0]&0x80)
}

func TestDynamicTableSizeUpdate(t *testing.T) {
	dec := NewDecoder(4096, 4096)

	// Insert one entry via a literal-with-incremental-indexing representation.
	insertWire, _ := appendInt(nil, 0, 6, 0x40)
	insertWire = appendStringLiteral(insertWire, "custom-key", false)
	insertWire = appendStringLiteral(insertWire, "custom-header", false)
	_, _ = decodeOne(t, dec, insertWire)
	require.Equal(t, 1, len(dec.table.entries))

	// A dynamic-table-size-update directive to 0, with no representation
	// following, evicts the entry and then fails with truncated input
	// since a size update alone is not a complete Decode call.
	sizeUpdate, _ := appendInt(nil, 0, 5, 0x20)
	_, _, _, err := dec.Decode(sizeUpdate, make([]byte, 0, 64))
	require.ErrorIs(t, err, ErrTruncatedInput)
	require.Equal(t, 0, len(dec.table.entries))
}

func TestDecoderRejectsOversizedTableUpdate(t *testing.T) {
	dec := NewDecoder(4096, 4096)
	tooLarge, _ := appendInt(nil, 8192, 5, 0x20)
	_, _, _, err := dec.Decode(tooLarge, make([]byte, 0, 64))
	require.ErrorIs(t, err, ErrTableSizeUpdateTooLarge)
}

func TestDecoderZeroIndexIsAnError(t *testing.T) {
	dec := NewDecoder(4096, 4096)
	_, _, _, err := dec.Decode([]byte{0x80}, make([]byte, 0, 64))
	require.ErrorIs(t, err, ErrZeroIndex)
}

func TestDecoderTableGenerationBumpsOnInsertAndEvict(t *testing.T) {
	dec := NewDecoder(64, 4096) // small enough that inserts evict quickly
	enc := NewEncoder(64, false)
	enc.SetHuffmanDisabled(true)

	g0 := dec.TableGeneration()
	wire := encodeOne(t, enc, HeaderField{"a", "b"}, 0, IndexAdd)
	decodeOne(t, dec, wire)
	require.Greater(t, dec.TableGeneration(), g0)

	// A second 34-byte entry does not fit beside the first in 64 bytes: the
	// decoder evicts the first and inserts the second, two more bumps.
	g1 := dec.TableGeneration()
	wire = encodeOne(t, enc, HeaderField{"c", "d"}, 0, IndexAdd)
	decodeOne(t, dec, wire)
	require.Equal(t, g1+2, dec.TableGeneration())
	require.Equal(t, 1, len(dec.table.entries))
}

func TestDynamicTableWraparoundIndexing(t *testing.T) {
	dec := NewDecoder(4096, 4096)
	enc := NewEncoder(4096, false)
	enc.SetHuffmanDisabled(true)

	for i := 0; i < 5; i++ {
		hf := HeaderField{Name: "x-seq", Value: string(rune('a' + i))}
		wire := encodeOne(t, enc, hf, 0, IndexAdd)
		got, _ := decodeOne(t, dec, wire)
		require.Equal(t, hf, got)
	}
}
