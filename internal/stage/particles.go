package stage

import (
	"math/rand/v2"
	"time"
)

// ParticleCount is how many dots drift behind the home page.
const ParticleCount = 80

// Particle is one dot of the home page background.
type Particle struct {
	Left      float64 // percent of the viewport width
	Top       float64 // percent of the viewport height
	Size      float64 // px
	Opacity   float64
	Highlight bool
	DX, DY    float64
	Period    time.Duration
}

// Particles returns the background dots. The generator is seeded so the
// rendered page and its stage lay out the same field.
func Particles(n int) []Particle {
	r := rand.New(rand.NewPCG(7, 11))
	out := make([]Particle, n)
	for i := range out {
		out[i] = Particle{
			Left:      r.Float64() * 100,
			Top:       r.Float64() * 100,
			Size:      r.Float64()*3 + 1,
			Opacity:   r.Float64()*0.4 + 0.1,
			Highlight: r.Float64() > 0.9,
			DX:        r.Float64()*100 - 50,
			DY:        r.Float64()*100 - 50,
			Period:    time.Duration((5 + r.Float64()*10) * float64(time.Second)),
		}
	}
	return out
}
