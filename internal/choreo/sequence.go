package choreo

import (
	"time"

	"github.com/Zachkp/folio/internal/motion"
)

// Tween moves one property of every item in a step from From to To.
type Tween struct {
	Property string
	From, To float64
}

// Step is one stage of a Sequence. Its items start Stagger apart, and
// Overlap pulls the whole step back into the tail of the steps before it.
type Step struct {
	Items    []Node
	Tweens   []Tween
	Duration time.Duration
	Stagger  time.Duration
	Overlap  time.Duration
	Ease     motion.Ease
}

// Sequence plays its steps one after another, once, the first time Trigger
// scrolls past Start.
type Sequence struct {
	Name    string
	Trigger Node
	Start   string
	Steps   []Step

	player *motion.Player
}

// Player returns the clock driving the sequence once mounted.
func (q *Sequence) Player() *motion.Player {
	return q.player
}

func (q *Sequence) Mount(scope *motion.Scope) error {
	tl, total := compose(q.Steps)
	if total <= 0 {
		return nil
	}
	start := q.Start
	if start == "" {
		start = "top 80%"
	}
	tl.SetProgress(0)
	scope.OnRelease(tl.Revert)

	q.player = motion.NewPlayer(tl, total)
	if err := scope.Play(q.player); err != nil {
		return err
	}
	trigger := q.Trigger
	for i := 0; trigger == nil && i < len(q.Steps); i++ {
		if len(q.Steps[i].Items) > 0 {
			trigger = q.Steps[i].Items[0]
		}
	}
	return playOnEnter(scope, trigger, "sequence:"+q.Name, start, q.player, true)
}

// compose lays the steps out on one timeline measured in seconds and
// returns it with its length.
func compose(steps []Step) (*motion.Timeline, time.Duration) {
	tl := motion.NewTimeline(0)
	var end time.Duration
	for _, st := range steps {
		if len(st.Items) == 0 {
			continue
		}
		dur := st.Duration
		if dur <= 0 {
			dur = time.Second
		}
		at := max(end-st.Overlap, 0)
		items := targets(st.Items)
		ease := orEase(st.Ease, motion.QuintOut)
		for _, tw := range st.Tweens {
			tl.AddStagger(items, tw.Property, tw.From, tw.To, at.Seconds(), dur.Seconds(), st.Stagger.Seconds(), ease)
		}
		end = max(end, at+dur+time.Duration(len(items)-1)*st.Stagger)
	}
	return tl, end
}
