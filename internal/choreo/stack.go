package choreo

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Zachkp/folio/internal/motion"
)

// ErrEmptyStack is returned when a stack has no section, steps or final card.
var ErrEmptyStack = errors.New("stack needs a section, steps and a final card")

// Variant is the layout a stack uses for the current viewport class.
type Variant int

const (
	// Desktop slides cards in horizontally.
	Desktop Variant = iota
	// Mobile stacks cards vertically.
	Mobile
)

func (v Variant) String() string {
	if v == Mobile {
		return "mobile"
	}
	return "desktop"
}

// Breakpoint is the smallest viewport width that gets the desktop layout.
const Breakpoint = 768.0

// DefaultOverlap is the width of each card hand-over, in timeline units.
const DefaultOverlap = 0.3

// VariantFor returns the layout variant for a viewport width.
func VariantFor(width float64) Variant {
	if width >= Breakpoint {
		return Desktop
	}
	return Mobile
}

var (
	handover = motion.MustEase("power2.inOut")
	exitTilt = []float64{-2, 2, -1}
)

// Card properties written by the stack.
const (
	PropOpacity  = "opacity"
	PropX        = "x"
	PropY        = "y"
	PropRotation = "rotation"
	PropScale    = "scale"
	PropRadius   = "radius"
)

// CardState is the computed style of one card at a progress value.
type CardState struct {
	Index    int     `json:"index"`
	Final    bool    `json:"final"`
	Opacity  float64 `json:"opacity"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	Scale    float64 `json:"scale"`
	Radius   float64 `json:"radius"`
}

// Stack pins a section and hands its step cards over one by one as the
// page scrolls, ending on a final card that covers the last step.
type Stack struct {
	Section Node
	Steps   []Node
	Final   Node
	Overlap float64

	mu      sync.Mutex
	variant Variant
	child   *motion.Scope
	trigger *motion.Trigger
}

// Variant returns the layout currently mounted.
func (s *Stack) Variant() Variant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.variant
}

// Trigger returns the pinned trigger of the mounted variant, or nil.
func (s *Stack) Trigger() *motion.Trigger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trigger
}

// Mount pins the section and re-mounts the stack whenever the viewport
// crosses the desktop breakpoint. Resizes within a class change nothing.
func (s *Stack) Mount(scope *motion.Scope) error {
	if s.Section == nil || s.Final == nil || len(s.Steps) == 0 {
		return ErrEmptyStack
	}

	vp := scope.Registry().Viewport()
	if err := s.mountVariant(scope, VariantFor(vp.Width)); err != nil {
		return err
	}

	return scope.Observe(func(vp motion.Viewport) {
		next := VariantFor(vp.Width)
		s.mu.Lock()
		cur, child := s.variant, s.child
		s.mu.Unlock()
		if next == cur {
			return
		}
		child.Release()
		if err := s.mountVariant(scope, next); err != nil {
			log.Printf("choreo: stack switch to %s: %v", next, err)
		}
	})
}

func (s *Stack) mountVariant(parent *motion.Scope, v Variant) error {
	child := parent.Child()
	tl := buildStack(v, overlapOr(s.Overlap), targets(s.Steps), s.Final)
	child.OnRelease(tl.Revert)

	units := len(s.Steps) + 1
	if v == Mobile {
		units++
	}
	t, err := bind(child, motion.TriggerConfig{
		Name:     "stack",
		Element:  s.Section,
		Start:    "top top",
		End:      fmt.Sprintf("+=%d%%", units*100),
		Pin:      true,
		OnUpdate: tl.SetProgress,
	})
	if err != nil {
		child.Release()
		return fmt.Errorf("bind stack: %w", err)
	}

	s.mu.Lock()
	s.variant, s.child, s.trigger = v, child, t
	s.mu.Unlock()
	return nil
}

func overlapOr(w float64) float64 {
	if w <= 0 || w >= 1 {
		return DefaultOverlap
	}
	return w
}

// buildStack lays out len(steps)+1 timeline units. Card k takes over from
// card k-1 in a window of width w centred on boundary k.
func buildStack(v Variant, w float64, steps []motion.Target, final motion.Target) *motion.Timeline {
	n := len(steps)
	tl := motion.NewTimeline(float64(n + 1))

	slide, enterFrom := PropX, 105.0
	if v == Mobile {
		slide, enterFrom = PropY, 100.0
	}

	first := steps[0]
	tl.Add(first, PropOpacity, 1, 1, 0, 0, nil)
	tl.Add(first, slide, 0, 0, 0, 0, nil)

	for k := 1; k <= n; k++ {
		at := float64(k) - w/2
		out := steps[k-1]
		tl.Add(out, PropOpacity, 1, 0, at, w, handover)
		tl.Add(out, PropScale, 1, 0.92, at, w, handover)
		if v == Desktop {
			tl.Add(out, PropRotation, 0, exitTilt[(k-1)%len(exitTilt)], at, w, handover)
		}

		if k == n {
			tl.Add(final, PropOpacity, 0, 1, at, w, handover)
			tl.Add(final, slide, 100, 0, at, w, handover)
			tl.Add(final, PropRadius, 10, 2.5, at, w, handover)
			continue
		}
		in := steps[k]
		tl.Add(in, PropOpacity, 0, 1, at, w, handover)
		tl.Add(in, slide, enterFrom, 0, at, w, handover)
	}
	return tl
}

// SampleStack computes every card's state at progress for a stack of the
// given number of steps, without touching any document.
func SampleStack(steps int, overlap float64, v Variant, progress float64) []CardState {
	if steps <= 0 {
		return nil
	}
	probes := make([]*probe, steps+1)
	ts := make([]motion.Target, steps)
	for i := range probes {
		probes[i] = &probe{state: CardState{Index: i, Final: i == steps, Scale: 1}}
		if i < steps {
			ts[i] = probes[i]
		}
	}

	buildStack(v, overlapOr(overlap), ts, probes[steps]).SetProgress(progress)

	out := make([]CardState, len(probes))
	for i, p := range probes {
		out[i] = p.state
	}
	return out
}

// Sample is SampleStack for this stack's size and overlap.
func (s *Stack) Sample(v Variant, progress float64) []CardState {
	return SampleStack(len(s.Steps), s.Overlap, v, progress)
}

// Front returns the index of the fully opaque card, or -1 during a hand-over.
func Front(states []CardState) int {
	front := -1
	for i, st := range states {
		if st.Opacity >= 1 {
			if front >= 0 {
				return -1
			}
			front = i
		}
	}
	return front
}

type probe struct {
	state CardState
}

func (p *probe) Set(property string, value float64) {
	switch property {
	case PropOpacity:
		p.state.Opacity = value
	case PropX:
		p.state.X = value
	case PropY:
		p.state.Y = value
	case PropRotation:
		p.state.Rotation = value
	case PropScale:
		p.state.Scale = value
	case PropRadius:
		p.state.Radius = value
	}
}
