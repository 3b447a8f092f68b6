package swipe

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/swipe-suggest/backend/internal/logger"
	"github.com/pageza/swipe-suggest/backend/internal/types"
)

// Fetcher retrieves recipe suggestions for an ingredient set.
type Fetcher interface {
	Fetch(ctx context.Context, ingredients []string, canShop bool) ([]types.Recipe, error)
}

// Renderer displays controller output. Calls are made with the controller
// lock held, so implementations must not call back into the controller.
// AnimateExit returns once the animation has finished.
type Renderer interface {
	ShowCard(recipe types.Recipe, position, total int)
	ShowEmpty()
	ShowLoading()
	ShowError(err error)
	ApplyTransform(t Transform)
	ResetTransform()
	AnimateExit(exit Exit)
}

// State is the controller's current mode.
type State int

const (
	StateIdle State = iota
	StateDragging
	StateResolved
	StateExhausted
	StateLoading
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:      "idle",
	StateDragging:  "dragging",
	StateResolved:  "resolved",
	StateExhausted: "exhausted",
	StateLoading:   "loading",
	StateFailed:    "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Decision is a resolved swipe.
type Decision struct {
	Recipe    types.Recipe
	Direction Direction
}

// Options configure a Controller.
type Options struct {
	Fetcher  Fetcher
	Renderer Renderer

	// FallbackToSamples replaces a failed fetch with the filtered sample
	// set instead of entering StateFailed.
	FallbackToSamples bool
	// Samples defaults to SampleRecipes().
	Samples []types.Recipe

	// OnDecision is called, under the controller lock, after every swipe.
	OnDecision func(Decision)

	// FetchTimeout bounds each fetch; zero means no extra bound.
	FetchTimeout time.Duration
}

// Controller drives the swipe deck: it owns the ingredient set, fetches a
// fresh queue whenever the set or shop flag changes and turns pointer
// gestures into accept and reject decisions.
type Controller struct {
	mu sync.Mutex

	opts        Options
	ingredients IngredientSet
	canShop     bool
	queue       Queue
	state       State
	drag        *DragSession
	liked       []types.Recipe
	err         error

	seq         uint64
	cancelFetch context.CancelFunc
	wg          sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger
}

// New creates a controller with an empty ingredient set and queue.
func New(opts Options) *Controller {
	if opts.Samples == nil {
		opts.Samples = SampleRecipes()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		opts:   opts,
		state:  StateExhausted,
		ctx:    ctx,
		cancel: cancel,
		log:    logger.Named("swipe"),
	}
}

// Start renders the initial empty deck.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderLocked()
}

// AddIngredient adds raw to the set and refetches when the set changed.
func (c *Controller) AddIngredient(raw string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ingredients.Add(raw) {
		return false
	}
	c.refreshLocked()
	return true
}

// RemoveIngredient removes raw from the set and refetches when the set changed.
func (c *Controller) RemoveIngredient(raw string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ingredients.Remove(raw) {
		return false
	}
	c.refreshLocked()
	return true
}

// SetCanShop toggles the shopping allowance and refetches when it changed.
func (c *Controller) SetCanShop(canShop bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.canShop == canShop {
		return
	}
	c.canShop = canShop
	c.refreshLocked()
}

// Retry repeats the fetch for the current ingredient set.
func (c *Controller) Retry() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshLocked()
}

// refreshLocked supersedes any in-flight fetch and starts a new one.
func (c *Controller) refreshLocked() {
	c.seq++
	seq := c.seq
	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
	}
	c.drag = nil
	c.err = nil

	if c.ingredients.Len() == 0 {
		c.queue = NewQueue(nil)
		c.renderLocked()
		return
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if c.opts.FetchTimeout > 0 {
		ctx, cancel = context.WithTimeout(c.ctx, c.opts.FetchTimeout)
	} else {
		ctx, cancel = context.WithCancel(c.ctx)
	}
	c.cancelFetch = cancel

	ingredients := c.ingredients.Items()
	canShop := c.canShop
	c.state = StateLoading
	c.opts.Renderer.ShowLoading()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()
		recipes, err := c.opts.Fetcher.Fetch(ctx, ingredients, canShop)
		c.complete(seq, ingredients, canShop, recipes, err)
	}()
}

func (c *Controller) complete(seq uint64, ingredients []string, canShop bool, recipes []types.Recipe, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		c.log.Debug("discarding stale fetch", zap.Uint64("seq", seq), zap.Uint64("latest", c.seq))
		return
	}
	c.cancelFetch = nil

	if err != nil {
		c.log.Warn("fetch failed", zap.Error(err), zap.Bool("fallback", c.opts.FallbackToSamples))
		if c.opts.FallbackToSamples {
			c.queue = NewQueue(FilterSamples(c.opts.Samples, ingredients, canShop))
			c.renderLocked()
			return
		}
		c.err = err
		c.state = StateFailed
		c.opts.Renderer.ShowError(err)
		return
	}

	c.queue = NewQueue(recipes)
	c.renderLocked()
}

// renderLocked shows the current card or the empty state.
func (c *Controller) renderLocked() {
	recipe, ok := c.queue.Current()
	if !ok {
		c.state = StateExhausted
		c.opts.Renderer.ShowEmpty()
		return
	}
	c.state = StateIdle
	c.opts.Renderer.ShowCard(recipe, c.queue.Index()+1, c.queue.Len())
}

// PointerDown starts a drag on the top card. It is ignored unless a card is
// showing and idle.
func (c *Controller) PointerDown(x, y float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return false
	}
	c.drag = NewDragSession(x, y)
	c.state = StateDragging
	return true
}

// PointerMove follows the pointer during a drag.
func (c *Controller) PointerMove(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateDragging {
		return
	}
	c.drag.Move(x, y)
	c.opts.Renderer.ApplyTransform(c.drag.Transform())
}

// PointerUp ends a drag, resolving it into a decision or snapping back.
func (c *Controller) PointerUp() (Direction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateDragging {
		return 0, false
	}
	drag := c.drag
	c.drag = nil

	dir, ok := drag.Resolve()
	if !ok {
		c.state = StateIdle
		c.opts.Renderer.ResetTransform()
		return 0, false
	}
	c.resolveLocked(dir, drag.Transform().TranslateY)
	return dir, true
}

// Accept swipes the top card right. It is a no-op when no card is showing.
func (c *Controller) Accept() bool {
	return c.swipe(Accept)
}

// Reject swipes the top card left. It is a no-op when no card is showing.
func (c *Controller) Reject() bool {
	return c.swipe(Reject)
}

func (c *Controller) swipe(dir Direction) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle && c.state != StateDragging {
		return false
	}
	var translateY float64
	if c.drag != nil {
		translateY = c.drag.Transform().TranslateY
		c.drag = nil
	}
	return c.resolveLocked(dir, translateY)
}

func (c *Controller) resolveLocked(dir Direction, translateY float64) bool {
	recipe, ok := c.queue.Current()
	if !ok {
		return false
	}

	c.state = StateResolved
	c.opts.Renderer.AnimateExit(ExitFor(dir, translateY))
	if dir == Accept {
		c.liked = append(c.liked, recipe)
	}
	c.queue.Advance()
	if c.opts.OnDecision != nil {
		c.opts.OnDecision(Decision{Recipe: recipe, Direction: dir})
	}
	c.renderLocked()
	return true
}

// Reset returns to the first card of the current queue without fetching.
// While a fetch is loading or has failed only the position is reset.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue.Reset()
	if c.drag != nil {
		c.drag = nil
		c.opts.Renderer.ResetTransform()
	}
	if c.state == StateLoading || c.state == StateFailed {
		return
	}
	c.renderLocked()
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Ingredients returns the ingredient set in insertion order.
func (c *Controller) Ingredients() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ingredients.Items()
}

// CanShop reports the shopping allowance.
func (c *Controller) CanShop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canShop
}

// Current returns the top card, if any.
func (c *Controller) Current() (types.Recipe, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateLoading || c.state == StateFailed {
		return types.Recipe{}, false
	}
	return c.queue.Current()
}

// Position returns the zero-based index of the top card and the queue length.
func (c *Controller) Position() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Index(), c.queue.Len()
}

// Liked returns the recipes accepted this session.
func (c *Controller) Liked() []types.Recipe {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]types.Recipe(nil), c.liked...)
}

// Err returns the error behind StateFailed.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Wait blocks until every started fetch has completed.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels any in-flight fetch and waits for it to return.
func (c *Controller) Close() {
	c.cancel()
	c.wg.Wait()
}
