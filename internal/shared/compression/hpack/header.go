// Package hpack implements RFC 7541 HPACK header compression: a canonical
// Huffman code, a variable-length integer encoding, a 61-entry static table,
// and the per-connection dynamic tables and representation-selection
// algorithm used by an HTTP/2 (or similar) endpoint to compress and restore
// an ordered sequence of header fields.
//
// An Encoder or a Decoder is owned by exactly one caller at a time. Neither
// type is safe for concurrent use; callers that share one across goroutines
// must serialize externally.
package hpack

import "errors"

// HeaderField is an opaque (name, value) pair. Neither encoding nor case is
// normalized by the codec.
type HeaderField struct {
	Name  string
	Value string
}

// Size is the RFC 7541 §4.1 accounting size of the entry: the name and
// value lengths plus a fixed 32-byte overhead.
func (h HeaderField) Size() uint32 {
	return uint32(len(h.Name)+len(h.Value)) + entryOverhead
}

const entryOverhead = 32

// IndexPolicy controls how an encoded header field is represented and
// whether it is added to the dynamic table.
type IndexPolicy int

const (
	// IndexAdd emits the header as a candidate for dynamic-table insertion
	// ("literal with incremental indexing" or "indexed", depending on
	// what the selection algorithm finds).
	IndexAdd IndexPolicy = iota
	// IndexNone emits a literal that is never added to the dynamic table,
	// but may be re-encoded differently by a later call.
	IndexNone
	// IndexNever is like IndexNone but additionally asks any downstream
	// cache or proxy never to index or re-encode the field (RFC 7541
	// §7.1.3), used for sensitive values.
	IndexNever
)

var (
	// ErrBufferTooSmall is returned when an output buffer cannot hold the
	// bytes an operation would otherwise produce. Encoder state and the
	// caller's cursor are left unchanged.
	ErrBufferTooSmall = errors.New("hpack: output buffer too small")
	// ErrTruncatedInput is returned when the decoder runs out of input
	// bytes mid-representation.
	ErrTruncatedInput = errors.New("hpack: truncated input")
	// ErrIntegerOverflow is returned when a decoded integer would exceed
	// the codec's 28-bit accumulator bound.
	ErrIntegerOverflow = errors.New("hpack: integer overflow")
	// ErrZeroIndex is returned when an indexed header field representation
	// carries index 0, which RFC 7541 never assigns.
	ErrZeroIndex = errors.New("hpack: zero index in indexed header field")
	// ErrIndexOutOfRange is returned when a decoded index refers to
	// neither the static table nor a live dynamic-table entry.
	ErrIndexOutOfRange = errors.New("hpack: index out of range")
	// ErrHuffmanPadding is returned when the bits left over after the last
	// full Huffman symbol are not the EOS prefix.
	ErrHuffmanPadding = errors.New("hpack: invalid Huffman padding")
	// ErrHuffmanEOSSymbol is returned when a full 30-bit EOS code is
	// decoded as if it were a data symbol.
	ErrHuffmanEOSSymbol = errors.New("hpack: EOS decoded as a symbol")
	// ErrTableSizeUpdateTooLarge is returned when a dynamic-table-size
	// update directive exceeds the decoder's configured hard maximum.
	ErrTableSizeUpdateTooLarge = errors.New("hpack: dynamic table size update exceeds hard maximum")
)
