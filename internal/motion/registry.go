package motion

import (
	"errors"
	"maps"
	"slices"
	"sync"
	"time"
)

// ErrScopeClosed is returned when a released or outdated scope tries to
// acquire new animations.
var ErrScopeClosed = errors.New("scope is closed")

type bindingKey struct {
	el   Element
	name string
}

// Registry tracks every live trigger and player of one page session.
// Nothing here is global: each session, and each test, owns its registry.
type Registry struct {
	mu        sync.Mutex
	vp        Viewport
	scroll    float64
	epoch     uint64
	triggers  []*Trigger
	byKey     map[bindingKey]*Trigger
	players   []*Player
	scopes    []*Scope
	observers map[int]func(Viewport)
	nextObs   int
}

// NewRegistry creates an empty registry for the given viewport.
func NewRegistry(vp Viewport) *Registry {
	return &Registry{
		vp:        vp,
		byKey:     make(map[bindingKey]*Trigger),
		observers: make(map[int]func(Viewport)),
	}
}

// Viewport returns the current viewport.
func (r *Registry) Viewport() Viewport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.vp
}

// ScrollY returns the last scroll position.
func (r *Registry) ScrollY() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scroll
}

// Epoch counts TeardownAll calls.
func (r *Registry) Epoch() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.epoch
}

// Bind registers a trigger that is not owned by any scope. It lives until
// Teardown or TeardownAll.
func (r *Registry) Bind(cfg TriggerConfig) (*Trigger, error) {
	return r.bind(nil, cfg)
}

func (r *Registry) bind(s *Scope, cfg TriggerConfig) (*Trigger, error) {
	if cfg.Element == nil {
		return nil, ErrDetached
	}
	if _, ok := cfg.Element.Bounds(); !ok {
		return nil, ErrDetached
	}

	r.mu.Lock()
	if s != nil && !s.open(r.epoch) {
		r.mu.Unlock()
		return nil, ErrScopeClosed
	}

	key := bindingKey{el: cfg.Element, name: cfg.Name}
	t, exists := r.byKey[key]
	if exists && !t.Killed() {
		if err := t.reconfigure(cfg); err != nil {
			r.mu.Unlock()
			return nil, err
		}
	} else {
		var err error
		t, err = newTrigger(cfg)
		if err != nil {
			r.mu.Unlock()
			return nil, err
		}
		r.triggers = append(r.triggers, t)
		r.byKey[key] = t
	}
	if s != nil {
		s.trackTrigger(t)
	}
	vp, y := r.vp, r.scroll
	r.mu.Unlock()

	t.Refresh(vp)
	t.Update(y)
	return t, nil
}

// Play registers a running player that is not owned by any scope.
func (r *Registry) Play(p *Player) {
	_ = r.play(nil, p)
}

func (r *Registry) play(s *Scope, p *Player) error {
	if p == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s != nil {
		if !s.open(r.epoch) {
			return ErrScopeClosed
		}
		s.trackPlayer(p)
	}
	r.players = append(r.players, p)
	return nil
}

// Observe calls fn after every viewport change until cancel is called.
func (r *Registry) Observe(fn func(Viewport)) (cancel func()) {
	r.mu.Lock()
	id := r.nextObs
	r.nextObs++
	r.observers[id] = fn
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.observers, id)
			r.mu.Unlock()
		})
	}
}

// live returns the triggers that are not dead, dropping dead ones.
// Caller holds r.mu.
func (r *Registry) live() []*Trigger {
	kept := r.triggers[:0]
	for _, t := range r.triggers {
		if t.Killed() {
			r.forget(t)
			continue
		}
		kept = append(kept, t)
	}
	r.triggers = kept
	return append([]*Trigger(nil), kept...)
}

// forget drops t from the key index. Caller holds r.mu.
func (r *Registry) forget(t *Trigger) {
	key := t.key()
	if r.byKey[key] == t {
		delete(r.byKey, key)
	}
}

// Scroll stores the shared scroll position and updates every trigger.
func (r *Registry) Scroll(y float64) {
	r.mu.Lock()
	r.scroll = y
	ts := r.live()
	r.mu.Unlock()

	for _, t := range ts {
		t.Update(y)
	}
}

// Resize notifies viewport observers, then refreshes every trigger.
func (r *Registry) Resize(vp Viewport) {
	r.mu.Lock()
	r.vp = vp
	obs := make([]func(Viewport), 0, len(r.observers))
	for _, id := range slices.Sorted(maps.Keys(r.observers)) {
		obs = append(obs, r.observers[id])
	}
	r.mu.Unlock()

	for _, fn := range obs {
		fn(vp)
	}
	r.Refresh()
}

// Refresh recomputes every trigger's range from current geometry and
// reapplies the current scroll position. Call it after anything that moves
// elements: route changes, late-loading media, resizes.
func (r *Registry) Refresh() {
	r.mu.Lock()
	vp, y := r.vp, r.scroll
	ts := r.live()
	r.mu.Unlock()

	for _, t := range ts {
		t.Refresh(vp)
	}
	for _, t := range ts {
		t.Update(y)
	}
}

// Teardown kills one trigger and forgets it. Nil is ignored.
func (r *Registry) Teardown(t *Trigger) {
	if t == nil {
		return
	}
	t.Kill()

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, cur := range r.triggers {
		if cur == t {
			r.triggers = append(r.triggers[:i], r.triggers[i+1:]...)
			break
		}
	}
	r.forget(t)
}

// TeardownAll destroys every trigger and player, releases every scope and
// viewport listener, and starts a new epoch so that scopes from before the
// call can no longer bind. It returns the number of triggers destroyed.
func (r *Registry) TeardownAll() int {
	r.mu.Lock()
	r.epoch++
	ts := r.triggers
	ps := r.players
	scopes := r.scopes
	r.triggers = nil
	r.players = nil
	r.scopes = nil
	r.byKey = make(map[bindingKey]*Trigger)
	r.observers = make(map[int]func(Viewport))
	r.mu.Unlock()

	n := 0
	for _, t := range ts {
		if !t.Killed() {
			n++
		}
		t.Kill()
	}
	for _, p := range ps {
		p.Kill()
	}
	for i := len(scopes) - 1; i >= 0; i-- {
		scopes[i].Release()
	}
	return n
}

// Len returns the number of live triggers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live())
}

// Players returns the number of live players.
func (r *Registry) Players() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.livePlayers())
}

func (r *Registry) livePlayers() []*Player {
	kept := r.players[:0]
	for _, p := range r.players {
		if !p.Killed() {
			kept = append(kept, p)
		}
	}
	r.players = kept
	return append([]*Player(nil), kept...)
}

// Stale counts live triggers whose element has left the document.
func (r *Registry) Stale() int {
	r.mu.Lock()
	ts := r.live()
	r.mu.Unlock()

	n := 0
	for _, t := range ts {
		t.mu.Lock()
		if t.detached() {
			n++
		}
		t.mu.Unlock()
	}
	return n
}

// PinSpacing sums the pin spacing of live triggers bound to el.
func (r *Registry) PinSpacing(el Element) float64 {
	r.mu.Lock()
	ts := r.live()
	r.mu.Unlock()

	var total float64
	for _, t := range ts {
		if t.Element() == el {
			total += t.Spacing()
		}
	}
	return total
}

// Advance moves every time-driven player forward by dt.
func (r *Registry) Advance(dt time.Duration) {
	r.mu.Lock()
	ps := r.livePlayers()
	r.mu.Unlock()

	for _, p := range ps {
		p.Advance(dt)
	}
}

// Hover pauses or resumes players registered to pause while el is hovered.
func (r *Registry) Hover(el Element, on bool) {
	if el == nil {
		return
	}
	r.mu.Lock()
	ps := r.livePlayers()
	r.mu.Unlock()

	for _, p := range ps {
		p.mu.Lock()
		match := p.hover == el
		p.mu.Unlock()
		if match {
			p.setHovered(on)
		}
	}
}
