package hpack

// eosSymbol is the 257th entry: RFC 7541's end-of-stream code, which must
// never be produced by decoding a data byte and is used only as the pad
// pattern for a partial trailing byte.
const eosSymbol = 256
const huffmanAlphabetSize = 257

// huffmanLengths is RFC 7541 Appendix B's code-length column, transcribed
// bit-exact: one entry per symbol (256 byte values, then EOS at index 256).
// This is a fixed wire-format constant, not a table this package is free to
// invent — any divergence from the RFC's lengths, even a single symbol,
// produces Huffman-coded output that an independent RFC 7541 decoder
// cannot read.
//
// Appendix B's code *values* are not transcribed separately: RFC 7541
// assigns them by the standard canonical-Huffman rule over exactly this
// length sequence (sort symbols by (length, symbol), assign sequentially,
// left-shift the running code whenever length increases), so recomputing
// them from huffmanLengths at init time reproduces Appendix B's code
// column bit-for-bit while avoiding 257 hand-copied hex literals.
var huffmanLengths = [huffmanAlphabetSize]uint8{
	13, 23, 28, 28, 28, 28, 28, 28, 28, 24, 30, 28, 28, 30, 28, 28,
	28, 28, 28, 28, 28, 28, 30, 28, 28, 28, 28, 28, 28, 28, 28, 28,
	6, 10, 10, 12, 13, 6, 8, 11, 10, 10, 8, 11, 8, 6, 6, 6,
	5, 5, 5, 6, 6, 6, 6, 6, 6, 6, 7, 8, 15, 6, 12, 10,
	13, 6, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	7, 7, 7, 7, 7, 7, 7, 7, 8, 7, 8, 13, 19, 13, 14, 6,
	15, 5, 6, 5, 6, 5, 6, 6, 6, 5, 7, 7, 6, 6, 6, 5,
	6, 7, 6, 5, 5, 6, 7, 7, 7, 7, 7, 15, 11, 14, 13, 28,
	20, 22, 20, 20, 22, 22, 22, 23, 22, 23, 23, 23, 23, 23, 24, 23,
	24, 24, 22, 23, 24, 23, 23, 23, 23, 21, 22, 23, 22, 23, 23, 24,
	22, 21, 20, 22, 22, 23, 23, 21, 23, 22, 22, 24, 21, 22, 23, 23,
	21, 21, 22, 21, 23, 22, 23, 23, 20, 22, 22, 22, 23, 22, 22, 23,
	26, 26, 20, 19, 22, 23, 22, 25, 26, 26, 26, 27, 27, 26, 24, 25,
	19, 21, 26, 27, 27, 26, 27, 24, 21, 21, 26, 26, 28, 27, 27, 27,
	20, 24, 20, 21, 22, 21, 21, 23, 22, 22, 25, 25, 24, 24, 26, 23,
	26, 27, 26, 26, 27, 27, 27, 27, 27, 28, 27, 27, 27, 27, 27, 26,
	30, // EOS
}

var (
	huffmanCodes  [huffmanAlphabetSize]uint32
	huffmanMaxLen uint8

	// huffmanFast is indexed by the next 16 bits of input (MSB-first).
	// bits == 0 means "no symbol of length <= 16 matches this window;
	// fall back to the slow path". Only data symbols (0-255) are ever
	// installed here; EOS is never matched as a fast-path hit.
	huffmanFast [1 << 16]huffmanFastEntry

	// huffmanSlow maps (length, code) to symbol for the bit-at-a-time
	// fallback decoder, covering every symbol including those the fast
	// table also covers, so the slow path alone is a complete decoder.
	huffmanSlow map[uint64]int
)

type huffmanFastEntry struct {
	sym  byte
	bits uint8
}

func init() {
	huffmanCodes, huffmanMaxLen = buildCanonicalCodes(huffmanLengths)

	huffmanSlow = make(map[uint64]int, huffmanAlphabetSize)
	for sym := 0; sym < huffmanAlphabetSize; sym++ {
		l := huffmanLengths[sym]
		huffmanSlow[slowKey(l, huffmanCodes[sym])] = sym
	}

	for sym := 0; sym < 256; sym++ {
		l := huffmanLengths[sym]
		if l == 0 || l > 16 {
			continue
		}
		base := huffmanCodes[sym] << uint(16-l)
		fill := 1 << uint(16-l)
		for f := 0; f < fill; f++ {
			huffmanFast[int(base)+f] = huffmanFastEntry{sym: byte(sym), bits: l}
		}
	}
}

// buildCanonicalCodes assigns code words to a fixed set of lengths using
// RFC 7541's canonical-Huffman rule: sort symbols by (length, symbol),
// assign codes sequentially, left-shift the running code whenever length
// increases. Applied to huffmanLengths this reproduces RFC 7541 Appendix
// B's code column exactly.
func buildCanonicalCodes(lengths [huffmanAlphabetSize]uint8) (codes [huffmanAlphabetSize]uint32, maxLen uint8) {
	order := make([]int, huffmanAlphabetSize)
	for i := range order {
		order[i] = i
	}
	sortBy(order, func(i, j int) bool {
		li, lj := lengths[order[i]], lengths[order[j]]
		if li != lj {
			return li < lj
		}
		return order[i] < order[j]
	})

	var code uint32
	prevLen := lengths[order[0]]
	for _, sym := range order {
		l := lengths[sym]
		code <<= uint(l - prevLen)
		codes[sym] = code
		code++
		prevLen = l
		if l > maxLen {
			maxLen = l
		}
	}
	return codes, maxLen
}

// sortBy is a tiny insertion sort over an index slice; the alphabet is 257
// entries so asymptotic complexity is irrelevant and this avoids pulling in
// sort.Slice's reflection-based comparator for a one-shot init-time table
// build.
func sortBy(idx []int, less func(i, j int) bool) {
	for i := 1; i < len(idx); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			idx[j], idx[j-1] = idx[j-1], idx[j]
		}
	}
}

func slowKey(length uint8, code uint32) uint64 {
	return uint64(length)<<32 | uint64(code)
}
