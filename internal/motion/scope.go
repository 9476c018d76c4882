package motion

import "sync"

// Effect acquires animations inside a scope. Whatever it binds is released
// with the scope.
type Effect func(s *Scope) error

// Scope owns the triggers, players, listeners and cleanups acquired by one
// mounted component. Release frees all of them exactly once.
type Scope struct {
	reg   *Registry
	epoch uint64

	mu       sync.Mutex
	closed   bool
	triggers []*Trigger
	players  []*Player
	children []*Scope
	cleanups []func()
	once     sync.Once
}

// NewScope opens a scope in the registry's current epoch.
func (r *Registry) NewScope() *Scope {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &Scope{reg: r, epoch: r.epoch}
	r.scopes = append(r.scopes, s)
	return s
}

// Mount runs effect in a new scope and returns the function that releases
// it. If effect fails, the scope is released before returning.
func Mount(r *Registry, effect Effect) (release func(), err error) {
	s := r.NewScope()
	if err := effect(s); err != nil {
		s.Release()
		return func() {}, err
	}
	return s.Release, nil
}

// open reports whether the scope may still acquire. Caller holds reg.mu.
func (s *Scope) open(epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && s.epoch == epoch
}

// Closed reports whether the scope was released or outlived its epoch.
func (s *Scope) Closed() bool {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return !s.open(s.reg.epoch)
}

// Registry returns the owning registry.
func (s *Scope) Registry() *Registry {
	return s.reg
}

// Child opens a nested scope released together with s. It can also be
// released on its own, e.g. when a layout variant changes.
func (s *Scope) Child() *Scope {
	c := &Scope{reg: s.reg, epoch: s.epoch}
	s.mu.Lock()
	if s.closed {
		c.closed = true
	} else {
		s.children = append(s.children, c)
	}
	s.mu.Unlock()
	return c
}

// Bind registers a trigger owned by the scope.
func (s *Scope) Bind(cfg TriggerConfig) (*Trigger, error) {
	return s.reg.bind(s, cfg)
}

// Play registers a player owned by the scope.
func (s *Scope) Play(p *Player) error {
	return s.reg.play(s, p)
}

// Observe registers a viewport listener removed on release.
func (s *Scope) Observe(fn func(Viewport)) error {
	if s.Closed() {
		return ErrScopeClosed
	}
	s.OnRelease(s.reg.Observe(fn))
	return nil
}

// OnRelease schedules fn to run on release, after everything registered
// later. If the scope is already released, fn runs immediately.
func (s *Scope) OnRelease(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		fn()
		return
	}
	s.cleanups = append(s.cleanups, fn)
	s.mu.Unlock()
}

func (s *Scope) trackTrigger(t *Trigger) {
	s.mu.Lock()
	for _, cur := range s.triggers {
		if cur == t {
			s.mu.Unlock()
			return
		}
	}
	s.triggers = append(s.triggers, t)
	s.mu.Unlock()
}

func (s *Scope) trackPlayer(p *Player) {
	s.mu.Lock()
	s.players = append(s.players, p)
	s.mu.Unlock()
}

// Release kills everything the scope and its children acquired and runs
// cleanups in reverse order. Only the first call has any effect; it is safe
// on a nil scope.
func (s *Scope) Release() {
	if s == nil {
		return
	}
	s.once.Do(s.release)
}

func (s *Scope) release() {
	s.mu.Lock()
	s.closed = true
	children := s.children
	triggers := s.triggers
	players := s.players
	cleanups := s.cleanups
	s.children, s.triggers, s.players, s.cleanups = nil, nil, nil, nil
	s.mu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Release()
	}
	for _, t := range triggers {
		s.reg.Teardown(t)
	}
	for _, p := range players {
		p.Kill()
	}
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}

	s.reg.mu.Lock()
	for i, cur := range s.reg.scopes {
		if cur == s {
			s.reg.scopes = append(s.reg.scopes[:i], s.reg.scopes[i+1:]...)
			break
		}
	}
	s.reg.mu.Unlock()
}
