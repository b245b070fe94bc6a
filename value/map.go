package value

import "github.com/arloliu/lilliput/internal/hash"

// Map is a finite collection of key/value entries.
//
// Iteration order is insertion order; re-setting an existing key overwrites
// its value in place (last write wins) without moving it. Lookup is O(1)
// through an xxHash64 bucket index over canonical key hashes, with Equal
// confirming candidates, so hash collisions cost only an extra comparison.
type Map struct {
	entries []MapEntry
	index   map[uint64][]int
}

// MapEntry is one key/value pair of a Map.
type MapEntry struct {
	Key   Value
	Value Value
}

// NewMap creates an empty map.
func NewMap() *Map {
	return &Map{index: make(map[uint64][]int)}
}

// NewMapCap creates an empty map with capacity for n entries.
func NewMapCap(n int) *Map {
	return &Map{
		entries: make([]MapEntry, 0, n),
		index:   make(map[uint64][]int, n),
	}
}

// Kind returns KindMap.
func (*Map) Kind() Kind {
	return KindMap
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.entries)
}

// Set inserts or overwrites the value for key. An overwrite keeps the key's
// original insertion position.
func (m *Map) Set(key, val Value) {
	h := Hash(key)
	for _, i := range m.index[h] {
		if Equal(m.entries[i].Key, key) {
			m.entries[i].Value = val
			return
		}
	}

	m.index[h] = append(m.index[h], len(m.entries))
	m.entries = append(m.entries, MapEntry{Key: key, Value: val})
}

// Get returns the value for key.
func (m *Map) Get(key Value) (Value, bool) {
	for _, i := range m.index[Hash(key)] {
		if Equal(m.entries[i].Key, key) {
			return m.entries[i].Value, true
		}
	}

	return nil, false
}

// Has reports whether key is present.
func (m *Map) Has(key Value) bool {
	_, ok := m.Get(key)

	return ok
}

// Entries returns the entries in insertion order. The slice is shared with
// the map; callers must not modify it.
func (m *Map) Entries() []MapEntry {
	return m.entries
}

// Equal reports whether two maps hold equal entries in the same insertion
// order.
func (m *Map) Equal(o *Map) bool {
	if m.Len() != o.Len() {
		return false
	}
	for i := range m.entries {
		if !Equal(m.entries[i].Key, o.entries[i].Key) {
			return false
		}
		if !Equal(m.entries[i].Value, o.entries[i].Value) {
			return false
		}
	}

	return true
}

func (m *Map) hashInto(d *hash.Digest) {
	_, _ = d.Write([]byte{byte(KindMap)})
	for _, e := range m.entries {
		e.Key.hashInto(d)
		e.Value.hashInto(d)
	}
	_, _ = d.Write([]byte{0})
}
