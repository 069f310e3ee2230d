package hpack

// Decoder is the HPACK decoder state machine: like Encoder, it is
// single-threaded per instance with no internal suspension points, so it
// carries no mutex.
type Decoder struct {
	table   *decoderTable
	hardMax uint32
}

// NewDecoder creates a decoder with the given initial dynamic-table size.
// hardMax bounds how large a dynamic-table-size-update directive is allowed
// to grow the table; a size update above it fails the decode. A caller that
// never expects HTTP/2 SETTINGS changes can pass the same value for both.
func NewDecoder(maxTableSize, hardMax uint32) *Decoder {
	if maxTableSize == 0 {
		maxTableSize = DefaultDynamicTableSize
	}
	if hardMax == 0 {
		hardMax = maxTableSize
	}
	return &Decoder{table: newDecoderTable(maxTableSize), hardMax: hardMax}
}

// Field reports the layout of one decoded header field written into the
// caller's output buffer: dst[:NameLen] is the name, dst[NameLen+2:NameLen+2+ValueLen]
// is the value, and the two-byte separator and terminator fill the gaps
// (the buffer reads "name: value\r\n").
type Field struct {
	NameLen    int
	ValueLen   int
	NeverIndex bool
}

// TableGeneration returns the decoder's dynamic table generation counter,
// bumped on every insertion or eviction.
func (d *Decoder) TableGeneration() uint64 {
	return d.table.generation
}

// Decode parses exactly one header field representation, plus any leading
// run of dynamic-table-size-update directives, from the front of input. On
// success it returns the field's layout, the number of input bytes
// consumed, and the number of output bytes written to dst. On failure dst
// is left untouched, but a table-size-update directive already parsed in
// this call takes effect immediately per RFC 7541 §6.3 even if a later
// representation in the same call then fails — the update is a standalone
// directive, not part of the field representation, so it is the one
// exception to the decoder's otherwise-transactional contract.
func (d *Decoder) Decode(input []byte, dst []byte) (field Field, consumed int, written int, err error) {
	pos := 0

	for pos < len(input) && input[pos]&0xe0 == 0x20 {
		newMax, adv, derr := decodeInt(input[pos:], 5)
		if derr != nil {
			return Field{}, 0, 0, derr
		}
		if newMax > d.hardMax {
			return Field{}, 0, 0, ErrTableSizeUpdateTooLarge
		}
		d.table.setMaxSize(newMax)
		pos += adv
	}

	if pos >= len(input) {
		return Field{}, 0, 0, ErrTruncatedInput
	}

	b := input[pos]
	var (
		hf         HeaderField
		addToTable bool
		neverIndex bool
	)

	switch {
	case b&0x80 != 0: // 1xxxxxxx: indexed header field
		idx, adv, derr := decodeInt(input[pos:], 7)
		if derr != nil {
			return Field{}, 0, 0, derr
		}
		if idx == 0 {
			return Field{}, 0, 0, ErrZeroIndex
		}
		resolved, derr := d.table.get(idx)
		if derr != nil {
			return Field{}, 0, 0, derr
		}
		hf = resolved
		pos += adv

	case b&0xc0 == 0x40: // 01xxxxxx: literal with incremental indexing
		name, adv, derr := d.decodeNameAndValue(input[pos:], 6)
		if derr != nil {
			return Field{}, 0, 0, derr
		}
		hf = name
		addToTable = true
		pos += adv

	case b&0xf0 == 0x10: // 0001xxxx: literal, never indexed
		name, adv, derr := d.decodeNameAndValue(input[pos:], 4)
		if derr != nil {
			return Field{}, 0, 0, derr
		}
		hf = name
		neverIndex = true
		pos += adv

	case b&0xf0 == 0x00: // 0000xxxx: literal, no indexing
		name, adv, derr := d.decodeNameAndValue(input[pos:], 4)
		if derr != nil {
			return Field{}, 0, 0, derr
		}
		hf = name
		pos += adv

	default:
		return Field{}, 0, 0, ErrIndexOutOfRange
	}

	need := len(hf.Name) + 2 + len(hf.Value) + 2
	if need > cap(dst) {
		return Field{}, 0, 0, ErrBufferTooSmall
	}
	dst = dst[:0]
	dst = append(dst, hf.Name...)
	dst = append(dst, ':', ' ')
	dst = append(dst, hf.Value...)
	dst = append(dst, '\r', '\n')

	if addToTable {
		d.table.push(hf)
	}

	return Field{NameLen: len(hf.Name), ValueLen: len(hf.Value), NeverIndex: neverIndex}, pos, need, nil
}

// decodeNameAndValue parses the shared tail of forms B, C, and D: an
// N-bit-prefix name index (0 meaning a literal name follows) and a value
// string literal.
func (d *Decoder) decodeNameAndValue(input []byte, prefixBits int) (HeaderField, int, error) {
	idx, pos, err := decodeInt(input, prefixBits)
	if err != nil {
		return HeaderField{}, 0, err
	}

	var name string
	if idx != 0 {
		existing, err := d.table.get(idx)
		if err != nil {
			return HeaderField{}, 0, err
		}
		name = existing.Name
	} else {
		literal, adv, err := readStringLiteral(input[pos:])
		if err != nil {
			return HeaderField{}, 0, err
		}
		name = literal
		pos += adv
	}

	value, adv, err := readStringLiteral(input[pos:])
	if err != nil {
		return HeaderField{}, 0, err
	}
	pos += adv

	return HeaderField{Name: name, Value: value}, pos, nil
}

// SetHardMaxTableSize changes the ceiling a size-update directive is allowed
// to request, without itself resizing the table.
func (d *Decoder) SetHardMaxTableSize(hardMax uint32) {
	d.hardMax = hardMax
}
