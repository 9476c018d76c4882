package choreo

import (
	"time"

	"github.com/Zachkp/folio/internal/motion"
)

// Marquee scrolls a strip left forever and stops while it is hovered.
type Marquee struct {
	Strip    Node
	Distance float64
	Period   time.Duration

	player *motion.Player
}

// Player returns the marquee clock once mounted.
func (m *Marquee) Player() *motion.Player {
	return m.player
}

func (m *Marquee) Mount(scope *motion.Scope) error {
	dist := m.Distance
	if dist == 0 {
		dist = -50
	}
	period := m.Period
	if period <= 0 {
		period = 30 * time.Second
	}
	tl := motion.NewTimeline(1).Add(m.Strip, "x", 0, dist, 0, 1, motion.Linear)
	scope.OnRelease(tl.Revert)

	m.player = motion.NewPlayer(tl, period).Repeat(-1).PauseOnHover(m.Strip)
	if err := scope.Play(m.player); err != nil {
		return err
	}
	m.player.Play()
	return nil
}

// Float bobs a node up and down on a sine curve.
type Float struct {
	Node      Node
	Property  string
	Amplitude float64
	Period    time.Duration

	player *motion.Player
}

func (f *Float) Mount(scope *motion.Scope) error {
	prop := f.Property
	if prop == "" {
		prop = "y"
	}
	amp := f.Amplitude
	if amp == 0 {
		amp = -15
	}
	period := f.Period
	if period <= 0 {
		period = 3 * time.Second
	}
	tl := motion.NewTimeline(1).Add(f.Node, prop, 0, amp, 0, 1, motion.SineInOut)
	scope.OnRelease(tl.Revert)

	f.player = motion.NewPlayer(tl, period).Repeat(-1).Yoyo(true)
	if err := scope.Play(f.player); err != nil {
		return err
	}
	f.player.Play()
	return nil
}

// Drift wanders a node DX, DY away from its place and back, forever.
type Drift struct {
	Node   Node
	DX, DY float64
	Period time.Duration

	player *motion.Player
}

func (d *Drift) Mount(scope *motion.Scope) error {
	period := d.Period
	if period <= 0 {
		period = 10 * time.Second
	}
	tl := motion.NewTimeline(1).
		Add(d.Node, "x", 0, d.DX, 0, 1, motion.SineInOut).
		Add(d.Node, "y", 0, d.DY, 0, 1, motion.SineInOut)
	scope.OnRelease(tl.Revert)

	d.player = motion.NewPlayer(tl, period).Repeat(-1).Yoyo(true)
	if err := scope.Play(d.player); err != nil {
		return err
	}
	d.player.Play()
	return nil
}
