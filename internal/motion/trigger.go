package motion

import (
	"errors"
	"sync"
)

// ErrDetached is returned when binding an element that is nil or not in
// the document.
var ErrDetached = errors.New("element is not attached")

// Direction selects how progress reacts to scrolling back up.
type Direction int

const (
	// Reversible progress follows scroll position both ways.
	Reversible Direction = iota
	// ForwardOnly progress never decreases: the animation plays once.
	ForwardOnly
)

func (d Direction) String() string {
	if d == ForwardOnly {
		return "forward-only"
	}
	return "reversible"
}

// Pinnable elements can be fixed in the viewport while their trigger is active.
type Pinnable interface {
	Pin(top float64)
	Unpin()
}

// TriggerConfig binds an element's scroll range to callbacks.
type TriggerConfig struct {
	// Name distinguishes several triggers on the same element.
	Name      string
	Element   Element
	Start     string
	End       string
	Direction Direction
	Pin       bool
	OnUpdate  func(progress float64)
	OnToggle  func(active bool)
}

const (
	defaultStart = "top bottom"
	defaultEnd   = "bottom top"
)

// Trigger maps scroll positions onto a [0, 1] progress for one element.
type Trigger struct {
	mu       sync.Mutex
	cfg      TriggerConfig
	start    Offset
	end      Offset
	from     float64
	to       float64
	pinTop   float64
	resolved bool
	applied  bool
	progress float64
	active   bool
	pinned   bool
	killed   bool
}

func parseRange(cfg TriggerConfig) (Offset, Offset, error) {
	startStr, endStr := cfg.Start, cfg.End
	if startStr == "" {
		startStr = defaultStart
	}
	if endStr == "" {
		endStr = defaultEnd
	}
	start, err := ParseOffset(startStr)
	if err != nil {
		return Offset{}, Offset{}, err
	}
	end, err := ParseOffset(endStr)
	if err != nil {
		return Offset{}, Offset{}, err
	}
	return start, end, nil
}

func newTrigger(cfg TriggerConfig) (*Trigger, error) {
	start, end, err := parseRange(cfg)
	if err != nil {
		return nil, err
	}
	return &Trigger{cfg: cfg, start: start, end: end}, nil
}

// reconfigure replaces the binding of a live trigger in place.
func (t *Trigger) reconfigure(cfg TriggerConfig) error {
	start, end, err := parseRange(cfg)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.cfg = cfg
	t.start, t.end = start, end
	t.resolved = false
	t.applied = false
	t.mu.Unlock()
	return nil
}

func (t *Trigger) key() bindingKey {
	t.mu.Lock()
	defer t.mu.Unlock()
	return bindingKey{el: t.cfg.Element, name: t.cfg.Name}
}

// Element returns the bound element.
func (t *Trigger) Element() Element {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cfg.Element
}

// Range returns the resolved scroll positions of the start and end.
func (t *Trigger) Range() (start, end float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.from, t.to
}

// Progress returns the last computed progress.
func (t *Trigger) Progress() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress
}

// Active reports whether the scroll position is past the start.
func (t *Trigger) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Pinned reports whether the element is currently pinned.
func (t *Trigger) Pinned() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pinned
}

// Spacing is the extra document height a pinned trigger occupies.
func (t *Trigger) Spacing() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.cfg.Pin || !t.resolved || t.killed || t.to <= t.from {
		return 0
	}
	return t.to - t.from
}

// Killed reports whether the trigger was destroyed.
func (t *Trigger) Killed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.killed
}

func (t *Trigger) detached() bool {
	if t.cfg.Element == nil {
		return true
	}
	_, ok := t.cfg.Element.Bounds()
	return !ok
}

// Refresh recomputes the scroll range from the element's current geometry.
// It reports false, changing nothing, when the element is detached or the
// trigger is dead.
func (t *Trigger) Refresh(vp Viewport) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.killed || t.cfg.Element == nil {
		return false
	}
	box, ok := t.cfg.Element.Bounds()
	if !ok {
		return false
	}
	t.from = t.start.Resolve(box, vp, box.Top)
	t.to = t.end.Resolve(box, vp, t.from)
	t.pinTop = box.Top - t.from
	t.resolved = true
	return true
}

// ProgressAt returns the progress a scroll position maps to, ignoring
// direction latching.
func (t *Trigger) ProgressAt(y float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progressAt(y)
}

func (t *Trigger) progressAt(y float64) float64 {
	if t.to <= t.from {
		if y >= t.from {
			return 1
		}
		return 0
	}
	return clamp01((y - t.from) / (t.to - t.from))
}

// Update recomputes progress for scroll position y and fires callbacks.
// It is a no-op for dead triggers and detached elements.
func (t *Trigger) Update(y float64) {
	t.mu.Lock()
	if t.killed || !t.resolved || t.detached() {
		t.mu.Unlock()
		return
	}

	p := t.progressAt(y)
	active := y >= t.from
	if t.cfg.Direction == ForwardOnly {
		if p < t.progress {
			p = t.progress
		}
		active = active || t.active
	}
	wantPin := t.cfg.Pin && y >= t.from && y < t.to

	first := !t.applied
	progressChanged := first || p != t.progress
	toggled := active != t.active
	pinChanged := wantPin != t.pinned

	t.applied = true
	t.progress = p
	t.active = active
	t.pinned = wantPin

	onUpdate, onToggle := t.cfg.OnUpdate, t.cfg.OnToggle
	pinTop := t.pinTop
	pinner, _ := t.cfg.Element.(Pinnable)
	t.mu.Unlock()

	if pinChanged && pinner != nil {
		if wantPin {
			pinner.Pin(pinTop)
		} else {
			pinner.Unpin()
		}
	}
	if toggled && onToggle != nil {
		onToggle(active)
	}
	if progressChanged && onUpdate != nil {
		onUpdate(p)
	}
}

// Kill destroys the trigger and reverts its pin. Safe to call more than
// once, on a nil trigger, and after the element was detached.
func (t *Trigger) Kill() {
	if t == nil {
		return
	}
	t.mu.Lock()
	if t.killed {
		t.mu.Unlock()
		return
	}
	t.killed = true
	wasPinned := t.pinned
	t.pinned = false
	pinner, _ := t.cfg.Element.(Pinnable)
	t.mu.Unlock()

	if wasPinned && pinner != nil {
		pinner.Unpin()
	}
}
