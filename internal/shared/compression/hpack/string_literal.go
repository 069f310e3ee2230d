package hpack

// appendStringLiteral writes one HPACK string literal: a byte `H bbbbbbb`
// (H = Huffman flag) followed by a 7-bit-prefix length and the payload.
// When allowHuffman is set, Huffman coding is used if it is no longer than
// the raw bytes; otherwise the raw bytes are written.
func appendStringLiteral(buf []byte, s string, allowHuffman bool) []byte {
	hlen := huffmanEncodedLen(s)

	if allowHuffman && hlen <= len(s) {
		buf, _ = appendInt(buf, uint32(hlen), 7, 0x80)
		return huffmanAppend(buf, s)
	}

	buf, _ = appendInt(buf, uint32(len(s)), 7, 0x00)
	return append(buf, s...)
}

// readStringLiteral parses one HPACK string literal from input, returning
// the decoded bytes and the number of input bytes consumed.
func readStringLiteral(input []byte) (value string, advance int, err error) {
	if len(input) == 0 {
		return "", 0, ErrTruncatedInput
	}

	huffman := input[0]&0x80 != 0

	length, lenAdvance, err := decodeInt(input, 7)
	if err != nil {
		return "", 0, err
	}

	total := lenAdvance + int(length)
	if total > len(input) {
		return "", 0, ErrTruncatedInput
	}
	payload := input[lenAdvance:total]

	if !huffman {
		return string(payload), total, nil
	}

	decoded, err := huffmanDecode(payload, maxHeaderFieldLen)
	if err != nil {
		return "", 0, err
	}
	return string(decoded), total, nil
}

// maxHeaderFieldLen bounds a single decoded name or value to 65,535 octets.
const maxHeaderFieldLen = 65535
