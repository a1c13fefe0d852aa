package pixiv

// LinkSet is an insertion ordered set of artwork links.
// It is not safe for concurrent use.
type LinkSet struct {
	index map[string]struct{}
	order []string
}

// NewLinkSet creates an empty set
func NewLinkSet() *LinkSet {
	return &LinkSet{index: make(map[string]struct{})}
}

// Add inserts links and returns how many were new
func (s *LinkSet) Add(links ...string) int {
	added := 0
	for _, l := range links {
		if _, ok := s.index[l]; ok {
			continue
		}
		s.index[l] = struct{}{}
		s.order = append(s.order, l)
		added++
	}
	return added
}

func (s *LinkSet) Len() int {
	return len(s.order)
}

func (s *LinkSet) Contains(link string) bool {
	_, ok := s.index[link]
	return ok
}

// Links returns a copy of the members in first insertion order
func (s *LinkSet) Links() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
