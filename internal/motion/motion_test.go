package motion

import (
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"
)

// box is a minimal element/target used across the package tests.
type box struct {
	mu       sync.Mutex
	rect     Rect
	attached bool
	values   map[string]float64
	pins     int
	unpins   int
}

func newBox(top, height float64) *box {
	return &box{
		rect:     Rect{Top: top, Height: height, Width: 100},
		attached: true,
		values:   make(map[string]float64),
	}
}

func (b *box) Bounds() (Rect, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rect, b.attached
}

func (b *box) Set(property string, value float64) {
	b.mu.Lock()
	b.values[property] = value
	b.mu.Unlock()
}

func (b *box) Clear(property string) {
	b.mu.Lock()
	delete(b.values, property)
	b.mu.Unlock()
}

func (b *box) Pin(float64) {
	b.mu.Lock()
	b.pins++
	b.mu.Unlock()
}

func (b *box) Unpin() {
	b.mu.Lock()
	b.unpins++
	b.mu.Unlock()
}

func (b *box) get(property string) (float64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.values[property]
	return v, ok
}

func (b *box) detach() {
	b.mu.Lock()
	b.attached = false
	b.mu.Unlock()
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

var vp = Viewport{Width: 1280, Height: 800}

func TestParseOffset(t *testing.T) {
	tests := []struct {
		name  string
		input string
		box   Rect
		base  float64
		want  float64
	}{
		{"top meets 85%", "top 85%", Rect{Top: 1000, Height: 400}, 0, 1000 - 680},
		{"bottom meets 20%", "bottom 20%", Rect{Top: 1000, Height: 400}, 0, 1400 - 160},
		{"top top", "top top", Rect{Top: 500, Height: 400}, 0, 500},
		{"top bottom", "top bottom", Rect{Top: 1000, Height: 100}, 0, 200},
		{"center center", "center center", Rect{Top: 1000, Height: 200}, 0, 1100 - 400},
		{"pixels", "100px 50px", Rect{Top: 1000, Height: 200}, 0, 1050},
		{"bare number", "20 0", Rect{Top: 1000, Height: 200}, 0, 1020},
		{"single keyword", "top", Rect{Top: 1000, Height: 200}, 0, 1000},
		{"relative percent", "+=300%", Rect{}, 500, 500 + 2400},
		{"relative pixels", "+=250", Rect{}, 500, 750},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			off, err := ParseOffset(tt.input)
			if err != nil {
				t.Fatalf("ParseOffset(%q) error: %v", tt.input, err)
			}
			if got := off.Resolve(tt.box, vp, tt.base); !approx(got, tt.want) {
				t.Errorf("Resolve(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseOffsetInvalid(t *testing.T) {
	for _, input := range []string{"", "top middle", "a b c", "+=lots", "50%% top"} {
		if _, err := ParseOffset(input); !errors.Is(err, ErrInvalidOffset) {
			t.Errorf("ParseOffset(%q) error = %v, want ErrInvalidOffset", input, err)
		}
	}
}

func TestProgressClipsAtRangeBoundaries(t *testing.T) {
	reg := NewRegistry(vp)
	el := newBox(2000, 400)

	tr, err := reg.Bind(TriggerConfig{Element: el, Start: "top 85%", End: "bottom 20%"})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	start, end := tr.Range()

	tests := []struct {
		name string
		y    float64
		want float64
	}{
		{"well before start", start - 500, 0},
		{"at start", start, 0},
		{"midway", (start + end) / 2, 0.5},
		{"at end", end, 1},
		{"beyond end", end + 1000, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg.Scroll(tt.y)
			if got := tr.Progress(); !approx(got, tt.want) {
				t.Errorf("progress at %v = %v, want %v", tt.y, got, tt.want)
			}
		})
	}
}

func TestProgressMonotonic(t *testing.T) {
	reg := NewRegistry(vp)
	el := newBox(1500, 600)
	tr, err := reg.Bind(TriggerConfig{Element: el})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}

	prev := -1.0
	for y := 0.0; y <= 4000; y += 37 {
		reg.Scroll(y)
		p := tr.Progress()
		if p < 0 || p > 1 {
			t.Fatalf("progress %v out of range at %v", p, y)
		}
		if p < prev {
			t.Fatalf("progress decreased from %v to %v at scroll %v", prev, p, y)
		}
		prev = p
	}

	prev = 2.0
	for y := 4000.0; y >= 0; y -= 41 {
		reg.Scroll(y)
		p := tr.Progress()
		if p > prev {
			t.Fatalf("progress increased from %v to %v scrolling up at %v", prev, p, y)
		}
		prev = p
	}
}

func TestForwardOnlyLatches(t *testing.T) {
	reg := NewRegistry(vp)
	el := newBox(1000, 400)
	var toggles []bool
	tr, err := reg.Bind(TriggerConfig{
		Element:   el,
		Start:     "top 90%",
		Direction: ForwardOnly,
		OnToggle:  func(on bool) { toggles = append(toggles, on) },
	})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}

	start, end := tr.Range()
	reg.Scroll((start + end) / 2)
	peak := tr.Progress()
	reg.Scroll(0)

	if got := tr.Progress(); got != peak {
		t.Errorf("progress after scrolling back = %v, want latched %v", got, peak)
	}
	if len(toggles) != 1 || !toggles[0] {
		t.Errorf("toggles = %v, want a single activation", toggles)
	}
}

func TestRebindUpdatesInsteadOfDuplicating(t *testing.T) {
	reg := NewRegistry(vp)
	el := newBox(1000, 400)

	first, err := reg.Bind(TriggerConfig{Element: el, Start: "top bottom"})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	second, err := reg.Bind(TriggerConfig{Element: el, Start: "top top"})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}

	if first != second {
		t.Error("rebinding the same element created a second trigger")
	}
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
	if start, _ := second.Range(); start != 1000 {
		t.Errorf("start = %v, want updated 1000", start)
	}

	if _, err := reg.Bind(TriggerConfig{Element: el, Name: "fade"}); err != nil {
		t.Fatalf("Bind named: %v", err)
	}
	if reg.Len() != 2 {
		t.Errorf("Len() after named bind = %d, want 2", reg.Len())
	}
}

func TestDetachedElementIsGuarded(t *testing.T) {
	reg := NewRegistry(vp)
	el := newBox(1000, 400)
	calls := 0
	tr, err := reg.Bind(TriggerConfig{Element: el, OnUpdate: func(float64) { calls++ }})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	calls = 0

	el.detach()
	reg.Scroll(900)
	reg.Refresh()
	if calls != 0 {
		t.Errorf("callbacks fired %d times for a detached element", calls)
	}
	if reg.Stale() != 1 {
		t.Errorf("Stale() = %d, want 1", reg.Stale())
	}

	tr.Kill()
	tr.Kill()
	var nilTrigger *Trigger
	nilTrigger.Kill()
	reg.Teardown(nil)

	if _, err := reg.Bind(TriggerConfig{Element: el}); !errors.Is(err, ErrDetached) {
		t.Errorf("Bind detached error = %v, want ErrDetached", err)
	}
	if _, err := reg.Bind(TriggerConfig{}); !errors.Is(err, ErrDetached) {
		t.Errorf("Bind nil element error = %v, want ErrDetached", err)
	}
}

func TestPinEngagesWithinRange(t *testing.T) {
	reg := NewRegistry(vp)
	el := newBox(1000, 800)
	tr, err := reg.Bind(TriggerConfig{Element: el, Start: "top top", End: "+=300%", Pin: true})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}

	if got := tr.Spacing(); got != 2400 {
		t.Errorf("Spacing() = %v, want 2400", got)
	}
	reg.Scroll(1200)
	if !tr.Pinned() || el.pins != 1 {
		t.Fatalf("expected pinned inside range (pins=%d)", el.pins)
	}
	reg.Scroll(5000)
	if tr.Pinned() || el.unpins != 1 {
		t.Errorf("expected unpinned past range (unpins=%d)", el.unpins)
	}

	reg.Scroll(1500)
	reg.TeardownAll()
	if el.unpins != 2 {
		t.Errorf("teardown did not revert pin (unpins=%d)", el.unpins)
	}
	if reg.PinSpacing(el) != 0 {
		t.Errorf("PinSpacing after teardown = %v, want 0", reg.PinSpacing(el))
	}
}

func TestScopeReleaseReturnsToBaseline(t *testing.T) {
	reg := NewRegistry(vp)
	baseline := reg.Len()

	for i := 0; i < 25; i++ {
		cleaned := false
		release, err := Mount(reg, func(s *Scope) error {
			for j := 0; j < 3; j++ {
				if _, err := s.Bind(TriggerConfig{Element: newBox(float64(j)*500, 300)}); err != nil {
					return err
				}
			}
			tl := NewTimeline(1).Add(newBox(0, 0), "opacity", 0, 1, 0, 1, nil)
			if err := s.Play(NewPlayer(tl, time.Second).Repeat(-1)); err != nil {
				return err
			}
			if err := s.Observe(func(Viewport) {}); err != nil {
				return err
			}
			s.OnRelease(func() { cleaned = true })
			return nil
		})
		if err != nil {
			t.Fatalf("mount %d: %v", i, err)
		}
		if reg.Len() != baseline+3 {
			t.Fatalf("mount %d: Len() = %d, want %d", i, reg.Len(), baseline+3)
		}
		release()
		release()
		if !cleaned {
			t.Fatalf("mount %d: cleanup did not run", i)
		}
	}

	if reg.Len() != baseline {
		t.Errorf("Len() = %d after unmounts, want %d", reg.Len(), baseline)
	}
	if reg.Players() != 0 {
		t.Errorf("Players() = %d after unmounts, want 0", reg.Players())
	}
}

func TestScopeChildReleasedWithParent(t *testing.T) {
	reg := NewRegistry(vp)
	parent := reg.NewScope()
	child := parent.Child()
	if _, err := child.Bind(TriggerConfig{Element: newBox(0, 100)}); err != nil {
		t.Fatalf("child Bind: %v", err)
	}
	if _, err := parent.Bind(TriggerConfig{Element: newBox(500, 100)}); err != nil {
		t.Fatalf("parent Bind: %v", err)
	}

	child.Release()
	if reg.Len() != 1 {
		t.Errorf("Len() after child release = %d, want 1", reg.Len())
	}
	parent.Release()
	if reg.Len() != 0 {
		t.Errorf("Len() after parent release = %d, want 0", reg.Len())
	}
	if !child.Closed() || !parent.Closed() {
		t.Error("released scopes should report closed")
	}
}

func TestTeardownAllClosesOldScopes(t *testing.T) {
	reg := NewRegistry(vp)
	routeA := reg.NewScope()
	oldEl := newBox(0, 400)
	if _, err := routeA.Bind(TriggerConfig{Element: oldEl}); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	if n := reg.TeardownAll(); n != 1 {
		t.Errorf("TeardownAll() = %d, want 1", n)
	}
	oldEl.detach()

	routeB := reg.NewScope()
	if _, err := routeB.Bind(TriggerConfig{Element: newBox(0, 400)}); err != nil {
		t.Fatalf("route B Bind: %v", err)
	}

	// A late effect from route A must not bind against the new page.
	if _, err := routeA.Bind(TriggerConfig{Element: newBox(100, 100)}); !errors.Is(err, ErrScopeClosed) {
		t.Errorf("late Bind error = %v, want ErrScopeClosed", err)
	}
	routeA.Release()

	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want only route B's trigger", reg.Len())
	}
	if reg.Stale() != 0 {
		t.Errorf("Stale() = %d, want 0", reg.Stale())
	}
}

func TestResizeNotifiesObservers(t *testing.T) {
	reg := NewRegistry(vp)
	s := reg.NewScope()
	var seen []Viewport
	if err := s.Observe(func(v Viewport) { seen = append(seen, v) }); err != nil {
		t.Fatalf("Observe: %v", err)
	}
	reg.Resize(Viewport{Width: 500, Height: 900})
	s.Release()
	reg.Resize(Viewport{Width: 900, Height: 900})

	if len(seen) != 1 || seen[0].Width != 500 {
		t.Errorf("observer saw %v, want one 500px resize", seen)
	}
}

func TestResizeOnlyVisitsLiveObservers(t *testing.T) {
	reg := NewRegistry(vp)
	dead := 0
	for i := 0; i < 1000; i++ {
		if err := reg.NewScope().Observe(func(Viewport) { dead++ }); err != nil {
			t.Fatalf("Observe: %v", err)
		}
		reg.TeardownAll()
	}

	var order []string
	s := reg.NewScope()
	for _, name := range []string{"a", "b", "c"} {
		if err := s.Observe(func(Viewport) { order = append(order, name) }); err != nil {
			t.Fatalf("Observe: %v", err)
		}
	}
	reg.Resize(Viewport{Width: 500, Height: 900})

	if dead != 0 {
		t.Errorf("torn down observers ran %d times", dead)
	}
	if strings.Join(order, "") != "abc" {
		t.Errorf("observers ran as %v, want registration order", order)
	}
}

func TestHoverPausesPlayers(t *testing.T) {
	reg := NewRegistry(vp)
	strip := newBox(0, 100)
	tl := NewTimeline(1).Add(strip, "x", 0, -100, 0, 1, nil)
	p := NewPlayer(tl, time.Second).Repeat(-1).PauseOnHover(strip)
	p.Play()
	reg.Play(p)

	reg.Advance(250 * time.Millisecond)
	x1, _ := strip.get("x")
	reg.Hover(strip, true)
	reg.Advance(250 * time.Millisecond)
	x2, _ := strip.get("x")
	reg.Hover(strip, false)
	reg.Advance(250 * time.Millisecond)
	x3, _ := strip.get("x")

	if !approx(x1, -25) || x2 != x1 {
		t.Errorf("hovered player moved: %v -> %v", x1, x2)
	}
	if !approx(x3, -50) {
		t.Errorf("resumed player x = %v, want -50", x3)
	}
}
