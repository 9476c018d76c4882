package choreo

import (
	"time"

	"github.com/Zachkp/folio/internal/motion"
)

// Reveal fades items up into place once Trigger scrolls into view. Unless
// Once is set, scrolling back above the start plays it in reverse.
type Reveal struct {
	Name     string
	Trigger  Node
	Items    []Node
	Start    string
	Offset   float64
	Duration time.Duration
	Stagger  time.Duration
	Ease     motion.Ease
	Once     bool

	player *motion.Player
}

// Player returns the clock driving the reveal once mounted.
func (r *Reveal) Player() *motion.Player {
	return r.player
}

func (r *Reveal) Mount(scope *motion.Scope) error {
	if len(r.Items) == 0 {
		return nil
	}
	start := r.Start
	if start == "" {
		start = "top 85%"
	}
	offset := r.Offset
	if offset == 0 {
		offset = 40
	}
	dur := r.Duration
	if dur <= 0 {
		dur = time.Second
	}
	stagger := r.Stagger
	if stagger < 0 {
		stagger = 0
	}

	ease := orEase(r.Ease, motion.QuintOut)
	each := dur.Seconds()
	gap := stagger.Seconds()
	items := targets(r.Items)

	tl := motion.NewTimeline(0).
		AddStagger(items, "y", offset, 0, 0, each, gap, ease).
		AddStagger(items, "opacity", 0, 1, 0, each, gap, ease)
	tl.SetProgress(0)
	scope.OnRelease(tl.Revert)

	total := dur + time.Duration(len(items)-1)*stagger
	r.player = motion.NewPlayer(tl, total)
	if err := scope.Play(r.player); err != nil {
		return err
	}
	trigger := r.Trigger
	if trigger == nil {
		trigger = r.Items[0]
	}
	return playOnEnter(scope, trigger, "reveal:"+r.Name, start, r.player, r.Once)
}

// Fill grows a bar's width to Level percent the first time it is reached.
type Fill struct {
	Bar      Node
	Level    float64
	Duration time.Duration

	player *motion.Player
}

func (f *Fill) Mount(scope *motion.Scope) error {
	dur := f.Duration
	if dur <= 0 {
		dur = 1500 * time.Millisecond
	}
	tl := motion.NewTimeline(1).Add(f.Bar, "width", 0, f.Level, 0, 1, motion.CubicOut)
	tl.SetProgress(0)
	scope.OnRelease(tl.Revert)

	f.player = motion.NewPlayer(tl, dur)
	if err := scope.Play(f.player); err != nil {
		return err
	}
	return playOnEnter(scope, f.Bar, "fill", "top 90%", f.player, true)
}

// playOnEnter plays p forward when el's trigger activates and, for
// reversible triggers, backwards when it deactivates.
func playOnEnter(scope *motion.Scope, el Node, name, start string, p *motion.Player, once bool) error {
	dir := motion.Reversible
	if once {
		dir = motion.ForwardOnly
	}
	_, err := bind(scope, motion.TriggerConfig{
		Name:      name,
		Element:   el,
		Start:     start,
		Direction: dir,
		OnToggle: func(on bool) {
			if on {
				p.Play()
			} else {
				p.Reverse()
			}
		},
	})
	return err
}
