package selection

// orderedSet 保持插入顺序的集合
type orderedSet[K comparable] struct {
	items []K
	index map[K]int
}

func newOrderedSet[K comparable]() orderedSet[K] {
	return orderedSet[K]{index: make(map[K]int)}
}

func (s *orderedSet[K]) has(k K) bool {
	_, ok := s.index[k]
	return ok
}

func (s *orderedSet[K]) add(k K) bool {
	if s.index == nil {
		s.index = make(map[K]int)
	}
	if _, ok := s.index[k]; ok {
		return false
	}
	s.index[k] = len(s.items)
	s.items = append(s.items, k)
	return true
}

func (s *orderedSet[K]) remove(k K) bool {
	i, ok := s.index[k]
	if !ok {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, k)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j]] = j
	}
	return true
}

func (s *orderedSet[K]) toggle(k K) {
	if !s.remove(k) {
		s.add(k)
	}
}

func (s *orderedSet[K]) clear() {
	s.items = nil
	s.index = make(map[K]int)
}

func (s *orderedSet[K]) values() []K {
	out := make([]K, len(s.items))
	copy(out, s.items)
	return out
}

func (s *orderedSet[K]) len() int { return len(s.items) }

// retain 保留满足条件的元素
func (s *orderedSet[K]) retain(keep func(K) bool) {
	kept := s.items[:0]
	for _, k := range s.items {
		if keep(k) {
			kept = append(kept, k)
		}
	}
	s.items = kept
	s.index = make(map[K]int, len(kept))
	for i, k := range kept {
		s.index[k] = i
	}
}
