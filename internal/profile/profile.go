package profile

// Well-known profile namespaces understood by downstream planners.
const (
	NamespaceSelector = "selector"
	NamespacePegasus  = "pegasus"
	NamespaceCondor   = "condor"
	NamespaceDAGMan   = "dagman"
	NamespaceEnv      = "env"
	NamespaceGlobus   = "globus"
	NamespaceHints    = "hints"
)

// Profile is a single (namespace, key, value) hint.
type Profile struct {
	Namespace string
	Key       string
	Value     string
}

type entryKey struct {
	namespace string
	key       string
}

// Set is a list-backed ordered map from (namespace, key) to value. The zero
// value is ready to use.
type Set struct {
	entries []Profile
	index   map[entryKey]int
}

// Set stores value under (namespace, key). An existing entry is updated in
// place and keeps its position.
func (s *Set) Set(namespace, key, value string) {
	k := entryKey{namespace: namespace, key: key}
	if i, ok := s.index[k]; ok {
		s.entries[i].Value = value
		return
	}
	if s.index == nil {
		s.index = make(map[entryKey]int)
	}
	s.index[k] = len(s.entries)
	s.entries = append(s.entries, Profile{Namespace: namespace, Key: key, Value: value})
}

// Get returns the value stored under (namespace, key).
func (s *Set) Get(namespace, key string) (string, bool) {
	if s == nil {
		return "", false
	}
	i, ok := s.index[entryKey{namespace: namespace, key: key}]
	if !ok {
		return "", false
	}
	return s.entries[i].Value, true
}

// All returns a copy of the entries in insertion order.
func (s *Set) All() []Profile {
	if s == nil || len(s.entries) == 0 {
		return nil
	}
	out := make([]Profile, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of distinct (namespace, key) entries.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}
