// Package intern implements a bidirectional string<->uint32 map used for
// symbol names and file paths throughout the engine.
//
// The interner is populated single-threaded during the orchestrator's scan
// phase and is read-only for the remainder of an analysis cycle; it carries
// no internal locking, built before parallel analysis begins and never
// mutated afterward.
package intern

// ID is an interned integer handle for a string.
type ID uint32

// Table is a single-producer, read-many interner.
type Table struct {
	strings []string
	ids     map[string]ID
}

// New creates an empty interner.
func New() *Table {
	return &Table{ids: make(map[string]ID)}
}

// Intern assigns s a stable ID, returning the existing one if s was seen
// before. Intern is idempotent.
func (t *Table) Intern(s string) ID {
	if id, ok := t.ids[s]; ok {
		return id
	}
	id := ID(len(t.strings))
	t.strings = append(t.strings, s)
	t.ids[s] = id
	return id
}

// Lookup returns the string for id. Lookup is total on every ID returned by
// Intern on this table; calling it with an ID this table never allocated
// panics. An in-range ID from a different table is not detected and
// returns this table's string at that index.
func (t *Table) Lookup(id ID) string {
	if int(id) >= len(t.strings) {
		panic("intern: lookup of unallocated id")
	}
	return t.strings[id]
}

// TryLookup is the non-panicking variant, used by diagnostic formatting
// paths that must never crash on a malformed ID.
func (t *Table) TryLookup(id ID) (string, bool) {
	if int(id) >= len(t.strings) {
		return "", false
	}
	return t.strings[id], true
}

// Len returns the number of interned strings.
func (t *Table) Len() int { return len(t.strings) }
