package hpack

// staticTableSize is the fixed RFC 7541 Appendix A entry count.
const staticTableSize = 61

// staticEntry is one immutable row of the static table, plus its
// precomputed name hash.
type staticEntry struct {
	HeaderField
	nameHash uint32
}

// staticTable holds the RFC 7541 Appendix A entries, bit-exact, in order.
// HPACK indices are 1-based; staticTable[i] is HPACK index i+1.
var staticTable = [staticTableSize]staticEntry{
	{HeaderField{":authority", ""}, 0},
	{HeaderField{":method", "GET"}, 0},
	{HeaderField{":method", "POST"}, 0},
	{HeaderField{":path", "/"}, 0},
	{HeaderField{":path", "/index.html"}, 0},
	{HeaderField{":scheme", "http"}, 0},
	{HeaderField{":scheme", "https"}, 0},
	{HeaderField{":status", "200"}, 0},
	{HeaderField{":status", "204"}, 0},
	{HeaderField{":status", "206"}, 0},
	{HeaderField{":status", "304"}, 0},
	{HeaderField{":status", "400"}, 0},
	{HeaderField{":status", "404"}, 0},
	{HeaderField{":status", "500"}, 0},
	{HeaderField{"accept-charset", ""}, 0},
	{HeaderField{"accept-encoding", "gzip, deflate"}, 0},
	{HeaderField{"accept-language", ""}, 0},
	{HeaderField{"accept-ranges", ""}, 0},
	{HeaderField{"accept", ""}, 0},
	{HeaderField{"access-control-allow-origin", ""}, 0},
	{HeaderField{"age", ""}, 0},
	{HeaderField{"allow", ""}, 0},
	{HeaderField{"authorization", ""}, 0},
	{HeaderField{"cache-control", ""}, 0},
	{HeaderField{"content-disposition", ""}, 0},
	{HeaderField{"content-encoding", ""}, 0},
	{HeaderField{"content-language", ""}, 0},
	{HeaderField{"content-length", ""}, 0},
	{HeaderField{"content-location", ""}, 0},
	{HeaderField{"content-range", ""}, 0},
	{HeaderField{"content-type", ""}, 0},
	{HeaderField{"cookie", ""}, 0},
	{HeaderField{"date", ""}, 0},
	{HeaderField{"etag", ""}, 0},
	{HeaderField{"expect", ""}, 0},
	{HeaderField{"expires", ""}, 0},
	{HeaderField{"from", ""}, 0},
	{HeaderField{"host", ""}, 0},
	{HeaderField{"if-match", ""}, 0},
	{HeaderField{"if-modified-since", ""}, 0},
	{HeaderField{"if-none-match", ""}, 0},
	{HeaderField{"if-range", ""}, 0},
	{HeaderField{"if-unmodified-since", ""}, 0},
	{HeaderField{"last-modified", ""}, 0},
	{HeaderField{"link", ""}, 0},
	{HeaderField{"location", ""}, 0},
	{HeaderField{"max-forwards", ""}, 0},
	{HeaderField{"proxy-authenticate", ""}, 0},
	{HeaderField{"proxy-authorization", ""}, 0},
	{HeaderField{"range", ""}, 0},
	{HeaderField{"referer", ""}, 0},
	{HeaderField{"refresh", ""}, 0},
	{HeaderField{"retry-after", ""}, 0},
	{HeaderField{"server", ""}, 0},
	{HeaderField{"set-cookie", ""}, 0},
	{HeaderField{"strict-transport-security", ""}, 0},
	{HeaderField{"transfer-encoding", ""}, 0},
	{HeaderField{"user-agent", ""}, 0},
	{HeaderField{"vary", ""}, 0},
	{HeaderField{"via", ""}, 0},
	{HeaderField{"www-authenticate", ""}, 0},
}

// staticDiscriminatingMax is the highest static index (1-based) whose value
// is checked when a caller supplies a hint. Indices 1..15 cover the
// :method/:path/:scheme/:status rows, where several entries share a name but
// differ by value; accept-encoding (index 16) lies outside this range.
const staticDiscriminatingMax = 15

const staticHashBits = 9
const staticHashSlots = 1 << staticHashBits

// staticHashNone marks an unused lookup slot. Index 0 is never a valid
// HPACK index on its own (indices start at 1), so it doubles as "empty".
const staticHashNone = 0

var (
	staticNameValueTable [staticHashSlots]uint8
	staticNameTable      [staticHashSlots]uint8
	staticNameIndex      = map[string]int{} // first static index (0-based) for a given name
)

func init() {
	for i := range staticTable {
		staticTable[i].nameHash = hashName(staticTable[i].Name)
	}

	// The two lookup tables are not collision-free: ties are resolved
	// first-entry-wins, so a row that loses its slot is never found through
	// that table. With the current hash, content-range, host, server and
	// www-authenticate are unreachable through the name-only table, and
	// cookie, set-cookie and vary through the name+value table. A miss
	// falls through to the next selection step in encoder.go, so the
	// output stays a valid encoding, only a less compact one.
	for i := range staticTable {
		e := &staticTable[i]
		nvSlot := hashNameValue(e.nameHash, e.Value) & (staticHashSlots - 1)
		if staticNameValueTable[nvSlot] == staticHashNone {
			staticNameValueTable[nvSlot] = uint8(i + 1)
		}

		nSlot := (e.nameHash >> 9) & (staticHashSlots - 1)
		if staticNameTable[nSlot] == staticHashNone {
			staticNameTable[nSlot] = uint8(i + 1)
		}

		if _, ok := staticNameIndex[e.Name]; !ok {
			staticNameIndex[e.Name] = i
		}
	}
}

// staticGet returns the (name, value) for a 1-based static index.
func staticGet(index uint32) (HeaderField, bool) {
	if index < 1 || index > staticTableSize {
		return HeaderField{}, false
	}
	return staticTable[index-1].HeaderField, true
}

// staticLookupNameValue probes the name+value hash lookup table. It
// returns the 1-based static index and true only if the slot both points
// somewhere and that entry's content actually matches the byte content
// after the hash hit.
func staticLookupNameValue(nameHash uint32, name, value string) (uint32, bool) {
	nvHash := hashNameValue(nameHash, value)
	slot := staticNameValueTable[nvHash&(staticHashSlots-1)]
	if slot == staticHashNone {
		return 0, false
	}
	e := &staticTable[slot-1]
	if e.Name == name && e.Value == value {
		return uint32(slot), true
	}
	return 0, false
}

// staticLookupName probes the name-only hash lookup table. It uses bits
// [9..17] of the name hash, distinct from the low 9 bits the name+value
// table keys on, so the two tables draw from different parts of the hash
// instead of colliding in lockstep.
func staticLookupName(nameHash uint32, name string) (uint32, bool) {
	slot := staticNameTable[(nameHash>>9)&(staticHashSlots-1)]
	if slot == staticHashNone {
		return 0, false
	}
	e := &staticTable[slot-1]
	if e.Name == name {
		return uint32(slot), true
	}
	return 0, false
}
