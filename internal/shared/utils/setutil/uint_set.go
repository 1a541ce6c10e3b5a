// Package setutil provides small set helpers for ID collections.
package setutil

// OrderedUintSet keeps the first-seen order of unique ids.
type OrderedUintSet struct {
	items map[uint]struct{}
	order []uint
}

func NewOrderedUintSet(ids ...uint) *OrderedUintSet {
	s := &OrderedUintSet{items: make(map[uint]struct{}, len(ids))}
	s.AddAll(ids)
	return s
}

// Add ignores zero ids.
func (s *OrderedUintSet) Add(id uint) {
	if id == 0 {
		return
	}
	if _, ok := s.items[id]; ok {
		return
	}
	s.items[id] = struct{}{}
	s.order = append(s.order, id)
}

func (s *OrderedUintSet) AddAll(ids []uint) {
	for _, id := range ids {
		s.Add(id)
	}
}

func (s *OrderedUintSet) Has(id uint) bool {
	_, ok := s.items[id]
	return ok
}

func (s *OrderedUintSet) Len() int {
	return len(s.order)
}

func (s *OrderedUintSet) ToSlice() []uint {
	out := make([]uint, len(s.order))
	copy(out, s.order)
	return out
}
