// Package stage is a headless page session: it lays out a route's sections,
// mounts their choreographies and replays the scroll, resize and hover
// events a browser tab would see.
package stage

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/Zachkp/folio/internal/motion"
)

// DefaultSettleDelay is how long after a route change geometry is refreshed
// again, once late content has had time to land.
const DefaultSettleDelay = 50 * time.Millisecond

// PageBuilder builds the page for a route.
type PageBuilder interface {
	Build(path string) *Page
}

// Timer is a pending settle refresh.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfter(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type Option func(*Stage)

// WithSettleDelay sets the delay before the post-navigation refresh.
func WithSettleDelay(d time.Duration) Option {
	return func(s *Stage) {
		if d > 0 {
			s.settle = d
		}
	}
}

// WithAfterFunc replaces the timer used to schedule settle refreshes.
func WithAfterFunc(fn AfterFunc) Option {
	return func(s *Stage) {
		if fn != nil {
			s.after = fn
		}
	}
}

// Stage is one browsing session over a shared trigger registry.
type Stage struct {
	mu      sync.Mutex
	reg     *motion.Registry
	builder PageBuilder
	settle  time.Duration
	after   AfterFunc

	page    *Page
	scope   *motion.Scope
	pending Timer
	navs    uint64
	height  float64
}

func New(b PageBuilder, vp motion.Viewport, opts ...Option) *Stage {
	s := &Stage{
		reg:     motion.NewRegistry(vp),
		builder: b,
		settle:  DefaultSettleDelay,
		after:   realAfter,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Stage) Registry() *motion.Registry {
	return s.reg
}

// Page returns the mounted page, or nil before the first navigation.
func (s *Stage) Page() *Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Scope returns the scope the current page is mounted in.
func (s *Stage) Scope() *motion.Scope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scope
}

// Navigate replaces the current page with the one for path. Every trigger of
// the old page is gone before the new page binds anything.
func (s *Stage) Navigate(path string) (*Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}

	killed := s.reg.TeardownAll()
	if s.scope != nil {
		s.scope.Release()
	}
	if s.page != nil {
		s.page.detach()
	}

	p := s.builder.Build(path)
	s.page = p
	s.reg.Scroll(0)
	s.layout()

	s.scope = s.reg.NewScope()
	err := p.mount(s.scope)
	s.layout()
	s.reg.Refresh()

	s.navs++
	nav := s.navs
	s.pending = s.after(s.settle, func() { s.settled(nav) })

	log.Printf("stage: navigate %s (%d triggers released, %d bound)", p.Path, killed, s.reg.Len())
	return p, err
}

func (s *Stage) settled(nav uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if nav != s.navs {
		return
	}
	s.pending = nil
	s.layout()
	s.reg.Refresh()
}

// layout stacks the sections top to bottom, leaving room after each pinned
// section for the scroll distance it holds the viewport.
func (s *Stage) layout() {
	if s.page == nil {
		s.height = 0
		return
	}
	vp := s.reg.Viewport()
	y := 0.0
	for _, sec := range s.page.Sections {
		y += sec.Node.place(y, vp.Width, vp)
		y += s.reg.PinSpacing(sec.Node)
	}
	s.height = y
}

// maxScroll is the furthest the document can scroll.
func (s *Stage) maxScroll() float64 {
	return math.Max(0, s.height-s.reg.Viewport().Height)
}

// Scroll moves the session to y, clamped to the document.
func (s *Stage) Scroll(y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reg.Scroll(math.Min(math.Max(y, 0), s.maxScroll()))
}

// Resize changes the viewport, re-lays out the page and refreshes triggers.
func (s *Stage) Resize(width, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reg.Resize(motion.Viewport{Width: width, Height: height})
	s.layout()
	s.reg.Refresh()
}

// Hover marks a node as hovered or not. Unknown ids are ignored.
func (s *Stage) Hover(id string, on bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page == nil {
		return false
	}
	n := s.page.Find(id)
	if n == nil {
		return false
	}
	n.setHover(on)
	s.reg.Hover(n, on)
	return true
}

// Advance moves the clock-driven animations forward.
func (s *Stage) Advance(dt time.Duration) {
	s.reg.Advance(dt)
}

// Close tears down the session.
func (s *Stage) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.navs++
	s.reg.TeardownAll()
	if s.scope != nil {
		s.scope.Release()
	}
	if s.page != nil {
		s.page.detach()
	}
}
