package collector

// SeenSet tracks the page-assigned identifiers already emitted during one
// group run. It is created empty per run and never shared across groups.
type SeenSet struct {
	seen map[string]struct{}
}

// NewSeenSet creates an empty SeenSet with the given estimated capacity.
func NewSeenSet(estimatedCapacity int) *SeenSet {
	return &SeenSet{
		seen: make(map[string]struct{}, estimatedCapacity),
	}
}

// Add marks id as seen and reports whether it was new.
func (s *SeenSet) Add(id string) bool {
	if _, ok := s.seen[id]; ok {
		return false
	}
	s.seen[id] = struct{}{}
	return true
}
