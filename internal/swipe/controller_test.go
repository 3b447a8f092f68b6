package swipe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/swipe-suggest/backend/internal/types"
)

type recordingRenderer struct {
	mu     sync.Mutex
	events []string
	exits  []Exit
	moves  []Transform
}

func (r *recordingRenderer) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingRenderer) ShowCard(recipe types.Recipe, position, total int) {
	r.add(fmt.Sprintf("card %s %d/%d", recipe.Name, position, total))
}
func (r *recordingRenderer) ShowEmpty()          { r.add("empty") }
func (r *recordingRenderer) ShowLoading()        { r.add("loading") }
func (r *recordingRenderer) ShowError(err error) { r.add("error " + err.Error()) }
func (r *recordingRenderer) ResetTransform()     { r.add("reset-transform") }
func (r *recordingRenderer) ApplyTransform(t Transform) {
	r.mu.Lock()
	r.moves = append(r.moves, t)
	r.mu.Unlock()
	r.add("transform")
}
func (r *recordingRenderer) AnimateExit(exit Exit) {
	r.mu.Lock()
	r.exits = append(r.exits, exit)
	r.mu.Unlock()
	r.add("exit " + exit.Direction.String())
}

func (r *recordingRenderer) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return ""
	}
	return r.events[len(r.events)-1]
}

type fetchCall struct {
	ingredients []string
	canShop     bool
	ctx         context.Context
}

// stubFetcher answers immediately unless gate is set, in which case each call
// blocks until a result is sent on its release channel.
type stubFetcher struct {
	mu      sync.Mutex
	recipes []types.Recipe
	err     error
	calls   []fetchCall
	gated   bool
	release []chan fetchResult
}

type fetchResult struct {
	recipes []types.Recipe
	err     error
}

func (f *stubFetcher) Fetch(ctx context.Context, ingredients []string, canShop bool) ([]types.Recipe, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{ingredients: ingredients, canShop: canShop, ctx: ctx})
	if !f.gated {
		recipes, err := f.recipes, f.err
		f.mu.Unlock()
		return recipes, err
	}
	ch := make(chan fetchResult, 1)
	f.release = append(f.release, ch)
	f.mu.Unlock()

	res := <-ch
	return res.recipes, res.err
}

func (f *stubFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func recipes(names ...string) []types.Recipe {
	out := make([]types.Recipe, 0, len(names))
	for _, n := range names {
		out = append(out, types.Recipe{Name: n, Cuisine: "Test", Ingredients: []string{"eggs"}})
	}
	return out
}

func newController(t *testing.T, fetcher *stubFetcher, opts ...func(*Options)) (*Controller, *recordingRenderer) {
	t.Helper()
	renderer := &recordingRenderer{}
	o := Options{Fetcher: fetcher, Renderer: renderer}
	for _, fn := range opts {
		fn(&o)
	}
	c := New(o)
	t.Cleanup(c.Close)
	return c, renderer
}

func TestIngredientChangesTriggerFetch(t *testing.T) {
	fetcher := &stubFetcher{recipes: recipes("A", "B")}
	c, r := newController(t, fetcher)

	assert.True(t, c.AddIngredient(" Eggs "))
	c.Wait()
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, "card A 1/2", r.last())
	assert.Equal(t, []string{"eggs"}, c.Ingredients())

	// duplicates and blanks are no-ops
	assert.False(t, c.AddIngredient("EGGS"))
	assert.False(t, c.AddIngredient("   "))
	assert.Equal(t, 1, fetcher.callCount())

	c.SetCanShop(true)
	c.Wait()
	assert.Equal(t, 2, fetcher.callCount())
	assert.True(t, fetcher.calls[1].canShop)

	// unchanged flag does not refetch
	c.SetCanShop(true)
	assert.Equal(t, 2, fetcher.callCount())

	assert.False(t, c.RemoveIngredient("bacon"))
	assert.Equal(t, 2, fetcher.callCount())
}

func TestEmptyIngredientSetSkipsFetch(t *testing.T) {
	fetcher := &stubFetcher{recipes: recipes("A")}
	c, r := newController(t, fetcher)

	c.AddIngredient("eggs")
	c.Wait()
	require.Equal(t, 1, fetcher.callCount())

	assert.True(t, c.RemoveIngredient("eggs"))
	c.Wait()
	assert.Equal(t, 1, fetcher.callCount())
	assert.Equal(t, StateExhausted, c.State())
	assert.Equal(t, "empty", r.last())
	_, total := c.Position()
	assert.Zero(t, total)
}

func TestDragResolution(t *testing.T) {
	tests := []struct {
		name     string
		dx       float64
		wantDir  Direction
		resolved bool
	}{
		{"far right accepts", 150, Accept, true},
		{"far left rejects", -150, Reject, true},
		{"short right snaps back", 50, 0, false},
		{"short left snaps back", -50, 0, false},
		{"exact threshold snaps back", 100, 0, false},
		{"just past threshold accepts", 100.5, Accept, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &stubFetcher{recipes: recipes("A", "B")}
			c, r := newController(t, fetcher)
			c.AddIngredient("eggs")
			c.Wait()

			require.True(t, c.PointerDown(200, 300))
			assert.Equal(t, StateDragging, c.State())
			c.PointerMove(200+tt.dx, 310)

			require.NotEmpty(t, r.moves)
			move := r.moves[len(r.moves)-1]
			assert.Equal(t, tt.dx, move.TranslateX)
			assert.Equal(t, 10.0, move.TranslateY)
			assert.InDelta(t, tt.dx*0.1, move.Rotate, 1e-9)

			dir, ok := c.PointerUp()
			assert.Equal(t, tt.resolved, ok)
			assert.Equal(t, tt.wantDir, dir)
			assert.Equal(t, StateIdle, c.State())

			idx, _ := c.Position()
			if tt.resolved {
				assert.Equal(t, 1, idx)
				require.Len(t, r.exits, 1)
				exit := r.exits[0]
				assert.Equal(t, float64(tt.wantDir)*1000, exit.Transform.TranslateX)
				assert.Equal(t, 10.0, exit.Transform.TranslateY)
				assert.Equal(t, float64(tt.wantDir)*30, exit.Transform.Rotate)
				assert.Equal(t, ExitDuration, exit.Duration)
				assert.Equal(t, "card B 2/2", r.last())
			} else {
				assert.Equal(t, 0, idx)
				assert.Empty(t, r.exits)
				assert.Equal(t, "reset-transform", r.last())
			}
		})
	}
}

func TestDragWithNonFiniteOffsetSnapsBack(t *testing.T) {
	for _, dx := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		d := NewDragSession(0, 0)
		d.Move(dx, 0)
		dir, ok := d.Resolve()
		if math.IsNaN(dx) {
			assert.False(t, ok, "NaN offset must not resolve")
			assert.Equal(t, Direction(0), dir)
			continue
		}
		assert.True(t, ok, "infinite offset is past the threshold")
	}

	fetcher := &stubFetcher{recipes: recipes("A", "B")}
	c, r := newController(t, fetcher)
	c.AddIngredient("eggs")
	c.Wait()

	require.True(t, c.PointerDown(0, 0))
	c.PointerMove(math.NaN(), 0)
	_, ok := c.PointerUp()
	assert.False(t, ok)
	assert.Equal(t, StateIdle, c.State())
	assert.Empty(t, r.exits)
	idx, _ := c.Position()
	assert.Equal(t, 0, idx)
}

func TestSwipeDuringDragKeepsVerticalOffset(t *testing.T) {
	fetcher := &stubFetcher{recipes: recipes("A", "B")}
	c, r := newController(t, fetcher)
	c.AddIngredient("eggs")
	c.Wait()

	require.True(t, c.PointerDown(0, 0))
	c.PointerMove(40, 25)
	assert.True(t, c.Reject())

	require.Len(t, r.exits, 1)
	assert.Equal(t, Reject, r.exits[0].Direction)
	assert.Equal(t, -1000.0, r.exits[0].Transform.TranslateX)
	assert.Equal(t, 25.0, r.exits[0].Transform.TranslateY)
	assert.Equal(t, "card B 2/2", r.last())

	// a programmatic swipe with no drag exits level
	assert.True(t, c.Accept())
	require.Len(t, r.exits, 2)
	assert.Equal(t, 0.0, r.exits[1].Transform.TranslateY)
}

func TestResetDuringDragClearsTransform(t *testing.T) {
	fetcher := &stubFetcher{recipes: recipes("A", "B")}
	c, r := newController(t, fetcher)
	c.AddIngredient("eggs")
	c.Wait()
	require.True(t, c.Accept())

	require.True(t, c.PointerDown(0, 0))
	c.PointerMove(60, 5)
	c.Reset()

	r.mu.Lock()
	events := append([]string(nil), r.events...)
	r.mu.Unlock()
	require.GreaterOrEqual(t, len(events), 2)
	assert.Equal(t, []string{"reset-transform", "card A 1/2"}, events[len(events)-2:])
	assert.Equal(t, StateIdle, c.State())

	// nothing to clear without a drag
	c.Reset()
	assert.Equal(t, "card A 1/2", r.last())
	r.mu.Lock()
	defer r.mu.Unlock()
	assert.NotEqual(t, "reset-transform", r.events[len(r.events)-2])
}

func TestProgrammaticSwipesAndExhaustion(t *testing.T) {
	fetcher := &stubFetcher{recipes: recipes("A", "B")}
	var decisions []Decision
	c, r := newController(t, fetcher, func(o *Options) {
		o.OnDecision = func(d Decision) { decisions = append(decisions, d) }
	})
	c.AddIngredient("eggs")
	c.Wait()

	assert.True(t, c.Accept())
	assert.True(t, c.Reject())
	assert.Equal(t, StateExhausted, c.State())
	assert.Equal(t, "empty", r.last())

	// no-ops once exhausted
	assert.False(t, c.Accept())
	assert.False(t, c.Reject())
	assert.False(t, c.PointerDown(0, 0))
	idx, total := c.Position()
	assert.Equal(t, 2, idx)
	assert.Equal(t, 2, total)

	require.Len(t, decisions, 2)
	assert.Equal(t, Accept, decisions[0].Direction)
	assert.Equal(t, "A", decisions[0].Recipe.Name)
	assert.Equal(t, Reject, decisions[1].Direction)

	liked := c.Liked()
	require.Len(t, liked, 1)
	assert.Equal(t, "A", liked[0].Name)

	c.Reset()
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, "card A 1/2", r.last())
	assert.Equal(t, 1, fetcher.callCount())
}

func TestStaleFetchIsDiscarded(t *testing.T) {
	fetcher := &stubFetcher{gated: true}
	c, r := newController(t, fetcher)

	c.AddIngredient("eggs")
	c.AddIngredient("bacon")
	require.Eventually(t, func() bool { return fetcher.callCount() == 2 }, time.Second, time.Millisecond)

	fetcher.mu.Lock()
	first, second := fetcher.release[0], fetcher.release[1]
	firstCtx := fetcher.calls[0].ctx
	fetcher.mu.Unlock()

	assert.ErrorIs(t, firstCtx.Err(), context.Canceled)

	// newest answers first, then the stale one arrives late
	second <- fetchResult{recipes: recipes("Newest")}
	require.Eventually(t, func() bool { return c.State() == StateIdle }, time.Second, time.Millisecond)
	first <- fetchResult{recipes: recipes("Stale")}
	c.Wait()

	cur, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "Newest", cur.Name)
	assert.Equal(t, "card Newest 1/1", r.last())
}

func TestFailurePolicy(t *testing.T) {
	upstreamErr := errors.New("gateway down")

	t.Run("should enter failed state by default", func(t *testing.T) {
		fetcher := &stubFetcher{err: upstreamErr}
		c, r := newController(t, fetcher)

		c.AddIngredient("eggs")
		c.Wait()
		assert.Equal(t, StateFailed, c.State())
		assert.ErrorIs(t, c.Err(), upstreamErr)
		assert.Equal(t, "error gateway down", r.last())
		_, ok := c.Current()
		assert.False(t, ok)

		fetcher.mu.Lock()
		fetcher.err = nil
		fetcher.recipes = recipes("A")
		fetcher.mu.Unlock()

		c.Retry()
		c.Wait()
		assert.Equal(t, StateIdle, c.State())
		assert.NoError(t, c.Err())
		assert.Equal(t, 2, fetcher.callCount())
	})

	t.Run("should fall back to matching samples", func(t *testing.T) {
		fetcher := &stubFetcher{err: upstreamErr}
		c, r := newController(t, fetcher, func(o *Options) { o.FallbackToSamples = true })

		c.AddIngredient("chicken")
		c.Wait()
		assert.Equal(t, StateIdle, c.State())
		assert.Equal(t, "card Chicken Stir Fry 1/1", r.last())

		c.SetCanShop(true)
		c.Wait()
		assert.Equal(t, "card Pasta Carbonara 1/2", r.last())
	})

	t.Run("should show empty when no sample matches", func(t *testing.T) {
		fetcher := &stubFetcher{err: upstreamErr}
		c, r := newController(t, fetcher, func(o *Options) { o.FallbackToSamples = true })

		c.AddIngredient("tofu")
		c.Wait()
		assert.Equal(t, StateExhausted, c.State())
		assert.Equal(t, "empty", r.last())
	})
}

func TestIngredientSet(t *testing.T) {
	var s IngredientSet
	assert.True(t, s.Add("Eggs"))
	assert.True(t, s.Add("bacon"))
	assert.False(t, s.Add(" eggs"))
	assert.True(t, s.Contains("BACON"))
	assert.True(t, s.Remove("Eggs"))
	assert.False(t, s.Remove("eggs"))
	assert.Equal(t, []string{"bacon"}, s.Items())
}

func TestFilterSamples(t *testing.T) {
	samples := SampleRecipes()
	assert.Len(t, FilterSamples(samples, nil, true), 2)
	assert.Empty(t, FilterSamples(samples, nil, false))

	got := FilterSamples(samples, []string{"Parmesan"}, false)
	require.Len(t, got, 1)
	assert.Equal(t, "Pasta Carbonara", got[0].Name)
}
