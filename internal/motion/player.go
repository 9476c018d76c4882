package motion

import (
	"sync"
	"time"
)

// Player drives a timeline from a clock instead of scroll position. It is
// used for entrance reveals, marquees and idle loops.
type Player struct {
	mu       sync.Mutex
	tl       *Timeline
	period   time.Duration
	repeat   int
	yoyo     bool
	elapsed  time.Duration
	reversed bool
	paused   bool
	hovered  bool
	killed   bool
	started  bool
	hover    Element
}

// NewPlayer creates a paused-at-zero player running tl once over period.
// Call Play to start it.
func NewPlayer(tl *Timeline, period time.Duration) *Player {
	return &Player{tl: tl, period: period, paused: true}
}

// Repeat sets the number of extra passes; -1 repeats forever.
func (p *Player) Repeat(n int) *Player {
	p.mu.Lock()
	p.repeat = n
	p.mu.Unlock()
	return p
}

// Yoyo makes every odd pass run backwards.
func (p *Player) Yoyo(on bool) *Player {
	p.mu.Lock()
	p.yoyo = on
	p.mu.Unlock()
	return p
}

// PauseOnHover pauses the player while el is hovered.
func (p *Player) PauseOnHover(el Element) *Player {
	p.mu.Lock()
	p.hover = el
	p.mu.Unlock()
	return p
}

// Timeline returns the driven timeline.
func (p *Player) Timeline() *Timeline {
	return p.tl
}

// Play runs forward from the current position.
func (p *Player) Play() {
	p.mu.Lock()
	p.reversed = false
	p.paused = false
	p.mu.Unlock()
}

// Reverse runs backward from the current position towards zero.
func (p *Player) Reverse() {
	p.mu.Lock()
	p.reversed = true
	p.paused = false
	p.mu.Unlock()
}

// Pause stops the clock until Resume, Play or Reverse.
func (p *Player) Pause() {
	p.mu.Lock()
	p.paused = true
	p.mu.Unlock()
}

// Resume continues in the current direction.
func (p *Player) Resume() {
	p.mu.Lock()
	p.paused = false
	p.mu.Unlock()
}

// Paused reports whether the clock is stopped, either explicitly or by hover.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused || p.hovered
}

func (p *Player) setHovered(on bool) {
	p.mu.Lock()
	p.hovered = on
	p.mu.Unlock()
}

// Kill stops the player permanently. Safe on a nil player.
func (p *Player) Kill() {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.killed = true
	p.mu.Unlock()
}

// Killed reports whether Kill was called.
func (p *Player) Killed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.killed
}

func (p *Player) total() (time.Duration, bool) {
	if p.repeat < 0 {
		return 0, false
	}
	return p.period * time.Duration(p.repeat+1), true
}

// Done reports whether a finite player reached its end in the current
// direction.
func (p *Player) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.reversed {
		return p.started && p.elapsed == 0
	}
	total, finite := p.total()
	return finite && p.elapsed >= total
}

// Advance moves the clock by dt and applies the timeline.
func (p *Player) Advance(dt time.Duration) {
	p.mu.Lock()
	if p.killed || p.paused || p.hovered {
		p.mu.Unlock()
		return
	}
	p.started = true

	total, finite := p.total()
	if p.reversed {
		p.elapsed -= dt
		if p.elapsed < 0 {
			p.elapsed = 0
		}
	} else {
		p.elapsed += dt
		if finite && p.elapsed > total {
			p.elapsed = total
		}
	}
	if !finite && p.period > 0 {
		cycle := p.period
		if p.yoyo {
			cycle *= 2
		}
		p.elapsed %= cycle
	}
	ratio := p.ratio(total, finite)
	p.mu.Unlock()

	p.tl.SetProgress(ratio)
}

func (p *Player) ratio(total time.Duration, finite bool) float64 {
	if p.period <= 0 {
		if p.reversed {
			return 0
		}
		return 1
	}

	pass := int(p.elapsed / p.period)
	within := float64(p.elapsed%p.period) / float64(p.period)
	if finite && p.elapsed >= total {
		pass, within = p.repeat, 1
	}
	if p.yoyo && pass%2 == 1 {
		return 1 - within
	}
	return within
}
