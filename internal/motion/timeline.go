package motion

import (
	"sort"
	"sync"
)

// Target receives interpolated property values. Targets are used as map keys
// and must be comparable; pointer types are the usual choice.
type Target interface {
	Set(property string, value float64)
}

// Clearer is implemented by targets that can drop a property, restoring
// whatever value they had before any animation touched it.
type Clearer interface {
	Clear(property string)
}

// Segment is one property animation inside a timeline. Start and Duration are
// in timeline units.
type Segment struct {
	Target   Target
	Property string
	From     float64
	To       float64
	Start    float64
	Duration float64
	Ease     Ease
}

// End returns the timeline position where the segment finishes.
func (s Segment) End() float64 {
	return s.Start + s.Duration
}

// at returns the segment's value at timeline position pos.
func (s Segment) at(pos float64) float64 {
	local := 1.0
	if s.Duration > 0 {
		local = clamp01((pos - s.Start) / s.Duration)
	} else if pos < s.Start {
		local = 0
	}
	ease := s.Ease
	if ease == nil {
		ease = Linear
	}
	return Lerp(s.From, s.To, ease(local))
}

type channel struct {
	target   Target
	property string
}

// Timeline composes property segments and applies them for a progress ratio.
type Timeline struct {
	mu       sync.Mutex
	declared float64
	segments []Segment
	sorted   bool
	progress float64
}

// NewTimeline creates a timeline with the given total duration. A duration
// of zero or less means the end of the last segment.
func NewTimeline(duration float64) *Timeline {
	return &Timeline{declared: duration}
}

// Add appends a segment and returns the timeline for chaining.
func (tl *Timeline) Add(target Target, property string, from, to, start, duration float64, ease Ease) *Timeline {
	return tl.AddSegment(Segment{
		Target:   target,
		Property: property,
		From:     from,
		To:       to,
		Start:    start,
		Duration: duration,
		Ease:     ease,
	})
}

// AddSegment appends a segment. Segments with a nil target are ignored.
func (tl *Timeline) AddSegment(s Segment) *Timeline {
	if s.Target == nil {
		return tl
	}
	if s.Duration < 0 {
		s.Duration = 0
	}
	tl.mu.Lock()
	tl.segments = append(tl.segments, s)
	tl.sorted = false
	tl.mu.Unlock()
	return tl
}

// AddStagger animates each target the same way, starting each one `each`
// units after the previous.
func (tl *Timeline) AddStagger(targets []Target, property string, from, to, start, duration, each float64, ease Ease) *Timeline {
	for i, t := range targets {
		tl.Add(t, property, from, to, start+float64(i)*each, duration, ease)
	}
	return tl
}

// Duration returns the declared duration, or the end of the last segment.
func (tl *Timeline) Duration() float64 {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.duration()
}

func (tl *Timeline) duration() float64 {
	if tl.declared > 0 {
		return tl.declared
	}
	var end float64
	for _, s := range tl.segments {
		if e := s.End(); e > end {
			end = e
		}
	}
	return end
}

// Progress returns the last ratio applied.
func (tl *Timeline) Progress() float64 {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.progress
}

// SetProgress applies every channel's value at the given ratio of the
// timeline. Ratios outside [0, 1] are clamped.
func (tl *Timeline) SetProgress(ratio float64) {
	values := tl.Values(ratio)

	tl.mu.Lock()
	tl.progress = clamp01(ratio)
	tl.mu.Unlock()

	for _, v := range values {
		v.Target.Set(v.Property, v.Value)
	}
}

// Value is a computed property value.
type Value struct {
	Target   Target
	Property string
	Value    float64
}

// Values computes channel values at ratio without applying them, ordered by
// each channel's earliest segment.
func (tl *Timeline) Values(ratio float64) []Value {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	if !tl.sorted {
		sort.SliceStable(tl.segments, func(i, j int) bool {
			return tl.segments[i].Start < tl.segments[j].Start
		})
		tl.sorted = true
	}

	pos := clamp01(ratio) * tl.duration()

	var order []channel
	active := make(map[channel]int)
	for i, s := range tl.segments {
		ch := channel{target: s.Target, property: s.Property}
		cur, seen := active[ch]
		if !seen {
			order = append(order, ch)
			active[ch] = i
			continue
		}
		// The latest segment that has started owns the channel.
		if s.Start <= pos && s.Start >= tl.segments[cur].Start {
			active[ch] = i
		}
	}

	out := make([]Value, 0, len(order))
	for _, ch := range order {
		s := tl.segments[active[ch]]
		out = append(out, Value{Target: ch.target, Property: ch.property, Value: s.at(pos)})
	}
	return out
}

// Revert clears every property the timeline touches on targets that
// support it.
func (tl *Timeline) Revert() {
	tl.mu.Lock()
	seen := make(map[channel]bool)
	var chans []channel
	for _, s := range tl.segments {
		ch := channel{target: s.Target, property: s.Property}
		if !seen[ch] {
			seen[ch] = true
			chans = append(chans, ch)
		}
	}
	tl.mu.Unlock()

	for _, ch := range chans {
		if c, ok := ch.target.(Clearer); ok {
			c.Clear(ch.property)
		}
	}
}
