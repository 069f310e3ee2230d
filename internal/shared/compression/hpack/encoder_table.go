package hpack

// encEntry is one live dynamic-table entry on the encoder side. Unlike the
// decoder's table, the encoder needs content lookups, so every entry
// carries both hashes and participates in two intrusive hash chains.
type encEntry struct {
	HeaderField
	nameHash uint32
	nvHash   uint32
	id       uint32 // absolute insertion id, wraps mod 2^32

	nvNext   *encEntry // next entry in this bucket's by-(name+value) chain
	nameNext *encEntry // next entry in this bucket's by-name chain; nil if not linked
	linked   bool      // whether this entry participates in the by-name chain at all
}

// encoderTable is the encoder's dynamic table: a FIFO for eviction order
// plus two power-of-two hash-bucket indexes, one keyed by name+value and
// one keyed by name alone.
type encoderTable struct {
	fifo []*encEntry

	byNameValue []*encEntry
	byName      []*encEntry
	bucketMask  uint32

	size    uint32
	maxSize uint32
	nextID  uint32

	history       *historyRing
	historyActive bool
}

const initialBucketCount = 16

// newEncoderTable seeds nextID near the uint32 wraparound boundary so that
// any sufficiently long-lived encoder naturally exercises the identifier
// wraparound arithmetic without needing a special test harness to force it.
func newEncoderTable(maxSize uint32, historyEnabled bool) *encoderTable {
	t := &encoderTable{
		byNameValue:   make([]*encEntry, initialBucketCount),
		byName:        make([]*encEntry, initialBucketCount),
		bucketMask:    initialBucketCount - 1,
		maxSize:       maxSize,
		nextID:        ^uint32(0) - 3,
		historyActive: historyEnabled,
	}
	if historyEnabled {
		t.history = newHistoryRing(maxSize)
	}
	return t
}

// index returns the current HPACK index for a live entry.
func (t *encoderTable) index(e *encEntry) uint32 {
	return staticTableSize + (t.nextID - e.id)
}

func (t *encoderTable) findNameValue(nvHash uint32, name, value string) (*encEntry, bool) {
	for e := t.byNameValue[nvHash&t.bucketMask]; e != nil; e = e.nvNext {
		if e.nvHash == nvHash && e.Name == name && e.Value == value {
			return e, true
		}
	}
	return nil, false
}

func (t *encoderTable) findName(nameHash uint32, name string) (*encEntry, bool) {
	for e := t.byName[nameHash&t.bucketMask]; e != nil; e = e.nameNext {
		if e.linked && e.nameHash == nameHash && e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// insert adds a new entry, evicting oldest entries as needed to stay within
// maxSize. linkByName is false when the name was already served by the
// static table's name-only index, to avoid a dynamic-table name-only chain
// duplicating a static-table hit.
func (t *encoderTable) insert(hf HeaderField, nameHash, nvHash uint32, linkByName bool) {
	size := hf.Size()

	if size > t.maxSize {
		t.evictAll()
		return
	}

	if len(t.fifo)+1 > len(t.byNameValue)/2 {
		t.growBuckets()
	}

	e := &encEntry{
		HeaderField: hf,
		nameHash:    nameHash,
		nvHash:      nvHash,
		id:          t.nextID,
		linked:      linkByName,
	}
	t.nextID++

	t.linkEntry(e)
	t.fifo = append(t.fifo, e)
	t.size += size

	for t.size > t.maxSize && len(t.fifo) > 0 {
		t.evictOldest()
	}
}

func (t *encoderTable) linkEntry(e *encEntry) {
	nvSlot := e.nvHash & t.bucketMask
	e.nvNext = t.byNameValue[nvSlot]
	t.byNameValue[nvSlot] = e

	if e.linked {
		nSlot := e.nameHash & t.bucketMask
		e.nameNext = t.byName[nSlot]
		t.byName[nSlot] = e
	}
}

func (t *encoderTable) unlinkEntry(e *encEntry) {
	nvSlot := e.nvHash & t.bucketMask
	t.byNameValue[nvSlot] = removeFromChainNV(t.byNameValue[nvSlot], e)

	if e.linked {
		nSlot := e.nameHash & t.bucketMask
		t.byName[nSlot] = removeFromChainName(t.byName[nSlot], e)
	}
}

func removeFromChainNV(head, target *encEntry) *encEntry {
	if head == target {
		return head.nvNext
	}
	for e := head; e != nil && e.nvNext != nil; e = e.nvNext {
		if e.nvNext == target {
			e.nvNext = target.nvNext
			break
		}
	}
	return head
}

func removeFromChainName(head, target *encEntry) *encEntry {
	if head == target {
		return head.nameNext
	}
	for e := head; e != nil && e.nameNext != nil; e = e.nameNext {
		if e.nameNext == target {
			e.nameNext = target.nameNext
			break
		}
	}
	return head
}

func (t *encoderTable) evictOldest() {
	if len(t.fifo) == 0 {
		return
	}
	e := t.fifo[0]
	t.fifo = t.fifo[1:]
	t.size -= e.Size()
	t.unlinkEntry(e)
}

func (t *encoderTable) evictAll() {
	for len(t.fifo) > 0 {
		t.evictOldest()
	}
}

// growBuckets doubles the bucket count and rehashes every live entry,
// preserving FIFO order in t.fifo (which is untouched).
func (t *encoderTable) growBuckets() {
	newCount := len(t.byNameValue) * 2
	t.byNameValue = make([]*encEntry, newCount)
	t.byName = make([]*encEntry, newCount)
	t.bucketMask = uint32(newCount - 1)

	for _, e := range t.fifo {
		e.nvNext = nil
		e.nameNext = nil
	}
	for _, e := range t.fifo {
		t.linkEntry(e)
	}
}

// setMaxCapacity evicts down to a new ceiling and resizes the history ring
// proportionally.
func (t *encoderTable) setMaxCapacity(newMax uint32) {
	t.maxSize = newMax
	for t.size > t.maxSize && len(t.fifo) > 0 {
		t.evictOldest()
	}
	if t.historyActive {
		t.history.resize(newMax)
	}
}
