package vexpr

// StringInterner assigns dense StringIDs to strings. It is a convenience
// for callers that do not already own an interning scheme; the evaluator
// only depends on the InternFunc contract and works with any
// caller-supplied implementation.
//
// Ids are assigned in first-seen order starting at 0, which makes the
// interner directly usable for building StringID input columns.
//
// Not safe for concurrent use.
type StringInterner struct {
	ids     map[string]StringID
	strings []string
}

// NewStringInterner creates an empty interner.
func NewStringInterner() *StringInterner {
	return &StringInterner{
		ids: make(map[string]StringID),
	}
}

// Intern returns the StringID for s, assigning the next free id on first
// sight. Intern is an InternFunc.
func (si *StringInterner) Intern(s string) StringID {
	if id, ok := si.ids[s]; ok {
		return id
	}
	id := StringID(len(si.strings))
	si.ids[s] = id
	si.strings = append(si.strings, s)
	return id
}

// Lookup returns the string for id and whether it has been interned.
func (si *StringInterner) Lookup(id StringID) (string, bool) {
	if int(id) >= len(si.strings) {
		return "", false
	}
	return si.strings[id], true
}

// Len returns the number of distinct strings interned.
func (si *StringInterner) Len() int {
	return len(si.strings)
}
