package intern

// StringKeySet is an unordered set of interned keys.
type StringKeySet map[StringKey]struct{}

// NewSet builds a set from keys.
func NewSet(keys ...StringKey) StringKeySet {
	s := make(StringKeySet, len(keys))
	for _, key := range keys {
		s[key] = struct{}{}
	}
	return s
}

// NewSetFromStrings interns names and builds a set from them.
func NewSetFromStrings(names ...string) StringKeySet {
	s := make(StringKeySet, len(names))
	for _, name := range names {
		s[Intern(name)] = struct{}{}
	}
	return s
}

func (s StringKeySet) Add(key StringKey) {
	s[key] = struct{}{}
}

func (s StringKeySet) Contains(key StringKey) bool {
	_, ok := s[key]
	return ok
}

func (s StringKeySet) Len() int {
	return len(s)
}

// Sorted returns the keys ordered by string value.
func (s StringKeySet) Sorted() []StringKey {
	out := make([]StringKey, 0, len(s))
	for key := range s {
		out = append(out, key)
	}
	Sort(out)
	return out
}
