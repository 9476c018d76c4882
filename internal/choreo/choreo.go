// Package choreo builds the site's section animations on top of motion:
// the pinned process stack, entrance reveals, scrubbed parallax and the
// clock-driven loops.
package choreo

import (
	"errors"

	"github.com/Zachkp/folio/internal/motion"
)

// Node is a document element that choreographies observe and animate.
type Node interface {
	motion.Element
	motion.Target
}

// Mounter is implemented by every choreography.
type Mounter interface {
	Mount(scope *motion.Scope) error
}

// bind registers a trigger, treating a detached element as nothing to do.
func bind(scope *motion.Scope, cfg motion.TriggerConfig) (*motion.Trigger, error) {
	t, err := scope.Bind(cfg)
	if errors.Is(err, motion.ErrDetached) {
		return nil, nil
	}
	return t, err
}

func orEase(e motion.Ease, fallback motion.Ease) motion.Ease {
	if e == nil {
		return fallback
	}
	return e
}

func targets[T motion.Target](nodes []T) []motion.Target {
	out := make([]motion.Target, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n)
	}
	return out
}
