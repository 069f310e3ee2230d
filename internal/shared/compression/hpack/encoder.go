package hpack

// DefaultDynamicTableSize is RFC 7541's default dynamic table size (4 KiB),
// used when an Encoder or Decoder is created without an explicit size.
const DefaultDynamicTableSize = 4096

// Encoder is the HPACK encoder state machine: it is single-threaded per
// instance with no internal suspension points, so it carries no mutex —
// callers that share one across goroutines must serialize externally.
type Encoder struct {
	table           *encoderTable
	huffmanDisabled bool
}

// NewEncoder creates an encoder with the given dynamic-table size.
// historyEnabled turns on the optional emission-history heuristic: until the
// history ring has filled once, a header is committed to the dynamic table
// only if it already appears in the ring; after the ring has wrapped, the
// heuristic no longer downgrades any header.
func NewEncoder(maxTableSize uint32, historyEnabled bool) *Encoder {
	if maxTableSize == 0 {
		maxTableSize = DefaultDynamicTableSize
	}
	return &Encoder{table: newEncoderTable(maxTableSize, historyEnabled)}
}

// SetHuffmanDisabled forces raw (non-Huffman) string literals regardless of
// length, for callers that need byte-exact, human-readable wire output
// (debugging, fixture capture against tooling that does not decode Huffman).
func (e *Encoder) SetHuffmanDisabled(disabled bool) {
	e.huffmanDisabled = disabled
}

// representation is the outcome of the selection algorithm.
type representation struct {
	indexedFull bool   // form A: fully indexed, no literal payload
	nameIndex   uint32 // 0 means "literal name follows" for forms B/C/D
	index       uint32 // the index to emit (form A's index, or the name index)
	fromStatic  bool   // whether nameIndex/index refers to the static table
	foundEntry  *encEntry
}

// selectRepresentation runs the representation-selection lookup in priority
// order: hinted full static match, static name+value, dynamic name+value,
// static name-only, dynamic name-only, literal. First hit wins.
func (e *Encoder) selectRepresentation(hf HeaderField, hint uint32) representation {
	var nameHash uint32
	haveNameHash := false

	if hint != 0 && hint <= staticTableSize {
		row := &staticTable[hint-1]
		if hint <= staticDiscriminatingMax && row.Name == hf.Name && row.Value == hf.Value {
			return representation{indexedFull: true, index: hint}
		}
		nameHash = row.nameHash
		haveNameHash = true
	}

	if !haveNameHash {
		nameHash = hashName(hf.Name)
	}
	nvHash := hashNameValue(nameHash, hf.Value)

	if hint == 0 {
		if idx, ok := staticLookupNameValue(nameHash, hf.Name, hf.Value); ok {
			return representation{indexedFull: true, index: idx}
		}
	}

	if entry, ok := e.table.findNameValue(nvHash, hf.Name, hf.Value); ok {
		return representation{indexedFull: true, index: e.table.index(entry)}
	}

	if idx, ok := staticLookupName(nameHash, hf.Name); ok {
		return representation{nameIndex: idx, index: idx, fromStatic: true}
	}

	if entry, ok := e.table.findName(nameHash, hf.Name); ok {
		return representation{nameIndex: e.table.index(entry), index: e.table.index(entry), fromStatic: false, foundEntry: entry}
	}

	return representation{nameIndex: 0}
}

// Encode appends the HPACK representation of hf to dst, honoring policy and
// an optional static-table hint (0 means no hint). It returns the extended
// slice. On failure dst is returned unchanged and the dynamic table is left
// untouched; the only failure mode this implementation can hit is exceeding
// dst's spare capacity, reported as ErrBufferTooSmall.
func (e *Encoder) Encode(hf HeaderField, hint uint32, policy IndexPolicy, dst []byte) ([]byte, error) {
	nameHash := hashName(hf.Name)
	repr := e.selectRepresentation(hf, hint)

	wantInsert := policy == IndexAdd && !repr.indexedFull
	effectivePolicy := policy
	var nameHashForInsert, nvHashForInsert uint32
	linkByName := true

	if repr.nameIndex != 0 {
		if repr.fromStatic {
			nameHashForInsert = staticTable[repr.index-1].nameHash
			linkByName = false
		} else {
			nameHashForInsert = repr.foundEntry.nameHash
		}
	} else {
		nameHashForInsert = nameHash
	}
	nvHashForInsert = hashNameValue(nameHashForInsert, hf.Value)

	// History heuristic: downgrade add_to_table to no-index when there is
	// not yet enough evidence this header recurs. Every encoded header's
	// hash is recorded regardless of the outcome.
	if !repr.indexedFull && e.table.historyActive {
		if wantInsert && !e.table.history.contains(nvHashForInsert) && !e.table.history.wrappedAround() {
			wantInsert = false
			effectivePolicy = IndexNone
		}
	}

	var scratch []byte
	switch {
	case repr.indexedFull:
		scratch, _ = appendInt(scratch, repr.index, 7, 0x80)

	case repr.nameIndex != 0:
		prefixBits, otherBits := policyBits(effectivePolicy)
		scratch, _ = appendInt(scratch, repr.nameIndex, prefixBits, otherBits)
		scratch = appendStringLiteral(scratch, hf.Value, !e.huffmanDisabled)

	default:
		_, otherBits := policyBits(effectivePolicy)
		scratch = append(scratch, otherBits)
		scratch = appendStringLiteral(scratch, hf.Name, !e.huffmanDisabled)
		scratch = appendStringLiteral(scratch, hf.Value, !e.huffmanDisabled)
	}

	if len(dst)+len(scratch) > cap(dst) {
		return dst, ErrBufferTooSmall
	}
	dst = append(dst, scratch...)

	if e.table.historyActive {
		e.table.history.add(nvHashForInsert)
	}
	if wantInsert {
		e.table.insert(hf, nameHashForInsert, nvHashForInsert, linkByName)
	}

	return dst, nil
}

func policyBits(policy IndexPolicy) (prefixBits int, otherBits byte) {
	switch policy {
	case IndexAdd:
		return 6, 0x40
	case IndexNever:
		return 4, 0x10
	default:
		return 4, 0x00
	}
}

// SetMaxTableSize evicts the encoder's dynamic table down to a new ceiling
// (e.g. after a peer's SETTINGS_HEADER_TABLE_SIZE change).
func (e *Encoder) SetMaxTableSize(size uint32) {
	e.table.setMaxCapacity(size)
}

// Source identifies which table, if any, served a header field's
// representation.
type Source int

const (
	SourceLiteral Source = iota
	SourceStatic
	SourceDynamic
)

func (s Source) String() string {
	switch s {
	case SourceStatic:
		return "static"
	case SourceDynamic:
		return "dynamic"
	default:
		return "literal"
	}
}

// Choice reports the representation Encode would choose for hf right now,
// without mutating any state — useful for a caller that wants to explain
// an encode run (e.g. loomctl inspect) rather than perform it.
type Choice struct {
	Source Source
	Index  uint32
	Full   bool // true for form A (fully indexed), false for a literal with an indexed name or a fully literal field
}

// Explain runs the selection algorithm read-only.
func (e *Encoder) Explain(hf HeaderField, hint uint32) Choice {
	repr := e.selectRepresentation(hf, hint)

	switch {
	case repr.indexedFull:
		src := SourceStatic
		if repr.index > staticTableSize {
			src = SourceDynamic
		}
		return Choice{Source: src, Index: repr.index, Full: true}
	case repr.nameIndex != 0:
		src := SourceDynamic
		if repr.fromStatic {
			src = SourceStatic
		}
		return Choice{Source: src, Index: repr.nameIndex}
	default:
		return Choice{Source: SourceLiteral}
	}
}
