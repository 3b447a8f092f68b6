package swipe

import "github.com/pageza/swipe-suggest/backend/internal/types"

// Queue is the ordered list of recipes being swiped and the position of the
// card on top.
type Queue struct {
	recipes []types.Recipe
	index   int
}

// NewQueue creates a queue positioned at the first recipe.
func NewQueue(recipes []types.Recipe) Queue {
	return Queue{recipes: recipes}
}

// Current returns the card on top, or false once the queue is exhausted.
func (q *Queue) Current() (types.Recipe, bool) {
	if q.Exhausted() {
		return types.Recipe{}, false
	}
	return q.recipes[q.index], true
}

// Advance moves past the current card. It does nothing once exhausted.
func (q *Queue) Advance() {
	if !q.Exhausted() {
		q.index++
	}
}

// Reset returns to the first card.
func (q *Queue) Reset() { q.index = 0 }

func (q *Queue) Exhausted() bool { return q.index >= len(q.recipes) }
func (q *Queue) Index() int      { return q.index }
func (q *Queue) Len() int        { return len(q.recipes) }
