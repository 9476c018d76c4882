package motion

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestEaseEndpoints(t *testing.T) {
	names := []string{"linear", "none", "back.out(1.7)", "elastic.out(1, 0.3)", "cubic", "power2.inOut", "power4.out"}
	for _, family := range []string{"quad", "cubic", "quart", "quint", "sine", "expo", "power1", "power3"} {
		for _, mode := range []string{"in", "out", "inOut"} {
			names = append(names, family+"."+mode)
		}
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			e, err := ParseEase(name)
			if err != nil {
				t.Fatalf("ParseEase(%q): %v", name, err)
			}
			if got := e(0); math.Abs(got) > 1e-9 {
				t.Errorf("%s(0) = %v, want 0", name, got)
			}
			if got := e(1); math.Abs(got-1) > 1e-9 {
				t.Errorf("%s(1) = %v, want 1", name, got)
			}
		})
	}
}

func TestEaseShapes(t *testing.T) {
	tests := []struct {
		name string
		ease Ease
		in   float64
		want float64
	}{
		{"cubic out midpoint", CubicOut, 0.5, 0.875},
		{"cubic in midpoint", CubicIn, 0.5, 0.125},
		{"quad out midpoint", QuadOut, 0.5, 0.75},
		{"cubic inout midpoint", CubicInOut, 0.5, 0.5},
		{"sine inout midpoint", SineInOut, 0.5, 0.5},
		{"sine in midpoint", SineIn, 0.5, 0.2929},
		{"sine out midpoint", SineOut, 0.5, 0.7071},
		{"expo in midpoint", ExpoIn, 0.5, 0.03125},
		{"expo inout midpoint", ExpoInOut, 0.5, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ease(tt.in); math.Abs(got-tt.want) > 0.001 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("back overshoots", func(t *testing.T) {
		peak := 0.0
		for x := 0.0; x <= 1; x += 0.01 {
			peak = math.Max(peak, BackOut(1.7)(x))
		}
		if peak <= 1 {
			t.Errorf("BackOut peak = %v, want > 1", peak)
		}
	})

	t.Run("quart decelerates harder than cubic", func(t *testing.T) {
		if QuartOut(0.3) <= CubicOut(0.3) {
			t.Errorf("QuartOut(0.3) = %v should lead CubicOut(0.3) = %v", QuartOut(0.3), CubicOut(0.3))
		}
	})
}

func TestParseEaseUnknown(t *testing.T) {
	for _, name := range []string{"bounce.out", "cubic.sideways", "back.out(x)", "elastic.out(1"} {
		if _, err := ParseEase(name); !errors.Is(err, ErrUnknownEase) {
			t.Errorf("ParseEase(%q) error = %v, want ErrUnknownEase", name, err)
		}
	}
}

func TestTimelineInterpolatesSegments(t *testing.T) {
	card := newBox(0, 0)
	tl := NewTimeline(0).
		Add(card, "x", 100, 50, 0, 1, nil).
		Add(card, "x", 50, 0, 1, 1, nil).
		Add(card, "opacity", 0, 1, 0.5, 1, nil)

	if got := tl.Duration(); got != 2 {
		t.Fatalf("Duration() = %v, want 2", got)
	}

	tests := []struct {
		ratio   float64
		x       float64
		opacity float64
	}{
		{0, 100, 0},
		{0.25, 75, 0},
		{0.5, 50, 0.5},
		{0.75, 25, 1},
		{1, 0, 1},
	}
	for _, tt := range tests {
		tl.SetProgress(tt.ratio)
		if x, _ := card.get("x"); !approx(x, tt.x) {
			t.Errorf("x at %v = %v, want %v", tt.ratio, x, tt.x)
		}
		if o, _ := card.get("opacity"); !approx(o, tt.opacity) {
			t.Errorf("opacity at %v = %v, want %v", tt.ratio, o, tt.opacity)
		}
	}

	// Scrubbing back must restore the earlier segment's values.
	tl.SetProgress(0.1)
	if x, _ := card.get("x"); !approx(x, 90) {
		t.Errorf("x after scrubbing back = %v, want 90", x)
	}
}

func TestTimelineClipsOverrunningSegment(t *testing.T) {
	card := newBox(0, 0)
	tl := NewTimeline(1).Add(card, "scale", 0, 10, 0.5, 1, nil)

	tl.SetProgress(1)
	if got, _ := card.get("scale"); !approx(got, 5) {
		t.Errorf("scale at end = %v, want clipped 5", got)
	}
	tl.SetProgress(3)
	if got, _ := card.get("scale"); !approx(got, 5) {
		t.Errorf("scale past end = %v, want clipped 5", got)
	}
	if tl.Progress() != 1 {
		t.Errorf("Progress() = %v, want clamped 1", tl.Progress())
	}
}

func TestTimelinePerSegmentEasing(t *testing.T) {
	a, b := newBox(0, 0), newBox(0, 0)
	tl := NewTimeline(1).
		Add(a, "y", 0, 1, 0, 1, Linear).
		Add(b, "y", 0, 1, 0, 1, CubicOut)
	tl.SetProgress(0.5)

	ay, _ := a.get("y")
	by, _ := b.get("y")
	if !approx(ay, 0.5) || math.Abs(by-0.875) > 1e-6 {
		t.Errorf("eased values = (%v, %v), want (0.5, 0.875)", ay, by)
	}
}

func TestTimelineStaggerAndRevert(t *testing.T) {
	cards := []*box{newBox(0, 0), newBox(0, 0), newBox(0, 0)}
	targets := make([]Target, len(cards))
	for i, c := range cards {
		targets[i] = c
	}
	tl := NewTimeline(0).AddStagger(targets, "opacity", 0, 1, 0, 1, 0.5, nil)
	if tl.Duration() != 2 {
		t.Fatalf("Duration() = %v, want 2", tl.Duration())
	}

	tl.SetProgress(0.5)
	want := []float64{1, 0.5, 0}
	for i, c := range cards {
		if got, _ := c.get("opacity"); !approx(got, want[i]) {
			t.Errorf("card %d opacity = %v, want %v", i, got, want[i])
		}
	}

	tl.Revert()
	for i, c := range cards {
		if _, ok := c.get("opacity"); ok {
			t.Errorf("card %d still has opacity after revert", i)
		}
	}
}

func TestPlayerRepeatYoyo(t *testing.T) {
	dot := newBox(0, 0)
	tl := NewTimeline(1).Add(dot, "y", 0, 10, 0, 1, nil)
	p := NewPlayer(tl, time.Second).Repeat(1).Yoyo(true)

	p.Advance(500 * time.Millisecond)
	if _, ok := dot.get("y"); ok {
		t.Fatal("player advanced before Play")
	}

	p.Play()
	steps := []struct {
		dt   time.Duration
		want float64
	}{
		{500 * time.Millisecond, 5},
		{500 * time.Millisecond, 10},
		{500 * time.Millisecond, 5},
		{900 * time.Millisecond, 0},
	}
	for i, st := range steps {
		p.Advance(st.dt)
		if got, _ := dot.get("y"); !approx(got, st.want) {
			t.Errorf("step %d: y = %v, want %v", i, got, st.want)
		}
	}
	if !p.Done() {
		t.Error("finite player should be done")
	}

	p.Reverse()
	p.Advance(500 * time.Millisecond)
	if got, _ := dot.get("y"); !approx(got, 5) {
		t.Errorf("reversed y = %v, want 5", got)
	}

	p.Kill()
	p.Advance(time.Second)
	if got, _ := dot.get("y"); !approx(got, 5) {
		t.Errorf("killed player moved to %v", got)
	}
}
