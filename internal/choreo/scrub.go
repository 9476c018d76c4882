package choreo

import "github.com/Zachkp/folio/internal/motion"

// Scrub ties one property directly to scroll position between Start and End.
type Scrub struct {
	Trigger  Node
	Target   motion.Target
	Property string
	From     float64
	To       float64
	Start    string
	End      string
	Ease     motion.Ease

	trigger *motion.Trigger
}

// Parallax drifts el's property from one value to another while the element
// crosses the viewport.
func Parallax(el Node, property string, from, to float64) *Scrub {
	return &Scrub{
		Trigger:  el,
		Property: property,
		From:     from,
		To:       to,
		Start:    "top bottom",
		End:      "bottom top",
	}
}

// Progress returns the scrub's current progress, or 0 before mounting.
func (s *Scrub) Progress() float64 {
	if s.trigger == nil {
		return 0
	}
	return s.trigger.Progress()
}

func (s *Scrub) Mount(scope *motion.Scope) error {
	target := s.Target
	if target == nil {
		target = s.Trigger
	}
	tl := motion.NewTimeline(1).Add(target, s.Property, s.From, s.To, 0, 1, orEase(s.Ease, motion.Linear))
	scope.OnRelease(tl.Revert)

	t, err := bind(scope, motion.TriggerConfig{
		Name:     "scrub:" + s.Property,
		Element:  s.Trigger,
		Start:    s.Start,
		End:      s.End,
		OnUpdate: tl.SetProgress,
	})
	s.trigger = t
	return err
}
