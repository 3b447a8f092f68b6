package swipe

import "github.com/pageza/swipe-suggest/backend/internal/types"

// IngredientSet is an ordered set of normalized ingredient names.
type IngredientSet struct {
	items []string
}

// Add inserts raw after normalizing it. Blank and duplicate names are
// ignored and reported as false.
func (s *IngredientSet) Add(raw string) bool {
	name := types.NormalizeIngredient(raw)
	if name == "" || s.Contains(name) {
		return false
	}
	s.items = append(s.items, name)
	return true
}

// Remove deletes raw if present.
func (s *IngredientSet) Remove(raw string) bool {
	name := types.NormalizeIngredient(raw)
	for i, item := range s.items {
		if item == name {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether the normalized name is in the set.
func (s *IngredientSet) Contains(raw string) bool {
	name := types.NormalizeIngredient(raw)
	for _, item := range s.items {
		if item == name {
			return true
		}
	}
	return false
}

// Items returns a copy of the names in insertion order.
func (s *IngredientSet) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

func (s *IngredientSet) Len() int { return len(s.items) }
