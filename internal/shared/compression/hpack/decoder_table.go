package hpack

// decoderTable is the decoder's own dynamic table: an indexable deque,
// since the decoder only ever needs positional lookups ("index - 61 back
// from the most recent insertion"), never content lookups.
type decoderTable struct {
	entries []HeaderField // entries[0] is the oldest surviving entry
	size    uint32
	maxSize uint32

	// generation is bumped on every insertion or eviction, so a caller
	// that caches decoded entries by HPACK index can tell when that
	// cache has gone stale.
	generation uint64
}

func newDecoderTable(maxSize uint32) *decoderTable {
	return &decoderTable{maxSize: maxSize}
}

// get resolves a decoded index. Indices 1..61 are the static table;
// anything above maps to dyn_position = count - (index - 61).
func (t *decoderTable) get(index uint32) (HeaderField, error) {
	if index == 0 {
		return HeaderField{}, ErrZeroIndex
	}
	if index <= staticTableSize {
		hf, ok := staticGet(index)
		if !ok {
			return HeaderField{}, ErrIndexOutOfRange
		}
		return hf, nil
	}

	count := uint32(len(t.entries))
	offset := index - staticTableSize
	if offset > count {
		return HeaderField{}, ErrIndexOutOfRange
	}
	pos := count - offset
	return t.entries[pos], nil
}

// push inserts a newly decoded header at the tail, evicting oldest entries
// until current size fits within maxSize. An entry larger than maxSize by
// itself results in an empty table, matching RFC 7541 §4.4.
func (t *decoderTable) push(hf HeaderField) {
	size := hf.Size()

	if size > t.maxSize {
		t.evictAll()
		return
	}

	for t.size+size > t.maxSize && len(t.entries) > 0 {
		t.evictOldest()
	}

	t.entries = append(t.entries, hf)
	t.size += size
	t.generation++
}

// setMaxSize applies a dynamic-table-size-update directive, evicting down
// to the new ceiling.
func (t *decoderTable) setMaxSize(newMax uint32) {
	t.maxSize = newMax
	for t.size > t.maxSize && len(t.entries) > 0 {
		t.evictOldest()
	}
}

func (t *decoderTable) evictOldest() {
	if len(t.entries) == 0 {
		return
	}
	t.size -= t.entries[0].Size()
	t.entries = t.entries[1:]
	t.generation++
}

func (t *decoderTable) evictAll() {
	if len(t.entries) == 0 {
		return
	}
	t.entries = t.entries[:0]
	t.size = 0
	t.generation++
}
