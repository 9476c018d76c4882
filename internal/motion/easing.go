package motion

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrUnknownEase is returned by ParseEase for names it does not know.
var ErrUnknownEase = errors.New("unknown ease")

// Ease maps linear progress t in [0, 1] to eased progress.
// Overshooting curves may leave [0, 1] in between but always hit 0 and 1 at the ends.
type Ease func(t float64) float64

// Linear is the identity curve.
func Linear(t float64) float64 {
	return t
}

// The power helpers build the in/out/inout family for t^n.
func powerIn(n float64) Ease {
	return func(t float64) float64 { return math.Pow(t, n) }
}

func powerOut(n float64) Ease {
	return func(t float64) float64 { return 1 - math.Pow(1-t, n) }
}

func powerInOut(n float64) Ease {
	return func(t float64) float64 {
		if t < 0.5 {
			return math.Pow(2, n-1) * math.Pow(t, n)
		}
		return 1 - math.Pow(-2*t+2, n)/2
	}
}

var (
	QuadOut    = powerOut(2)
	CubicIn    = powerIn(3)
	CubicOut   = powerOut(3)
	CubicInOut = powerInOut(3)
	QuartOut   = powerOut(4)
	QuintOut   = powerOut(5)
)

func SineIn(t float64) float64 {
	return 1 - math.Cos(t*math.Pi/2)
}

func SineOut(t float64) float64 {
	return math.Sin(t * math.Pi / 2)
}

// SineInOut starts and ends slowly along a half cosine.
func SineInOut(t float64) float64 {
	return -(math.Cos(math.Pi*t) - 1) / 2
}

// ExpoIn accelerates sharply; exact 0 at t == 0.
func ExpoIn(t float64) float64 {
	if t <= 0 {
		return 0
	}
	return math.Pow(2, 10*t-10)
}

// ExpoOut decelerates sharply; exact 1 at t == 1.
func ExpoOut(t float64) float64 {
	if t >= 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}

func ExpoInOut(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	case t < 0.5:
		return math.Pow(2, 20*t-10) / 2
	}
	return (2 - math.Pow(2, -20*t+10)) / 2
}

// BackOut overshoots the target by roughly overshoot/10 before settling.
func BackOut(overshoot float64) Ease {
	return func(t float64) float64 {
		u := t - 1
		return 1 + (overshoot+1)*u*u*u + overshoot*u*u
	}
}

// ElasticOut oscillates around the target with the given amplitude (>= 1)
// and period before settling.
func ElasticOut(amplitude, period float64) Ease {
	if amplitude < 1 {
		amplitude = 1
	}
	if period <= 0 {
		period = 0.3
	}
	shift := period / (2 * math.Pi) * math.Asin(1/amplitude)
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		return amplitude*math.Pow(2, -10*t)*math.Sin((t-shift)*2*math.Pi/period) + 1
	}
}

// Lerp interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

var powers = map[string]float64{
	"quad":   2,
	"cubic":  3,
	"quart":  4,
	"quint":  5,
	"power1": 2,
	"power2": 3,
	"power3": 4,
	"power4": 5,
}

// ParseEase resolves a curve name such as "cubic.out", "sine.inout",
// "back.out(1.7)" or "elastic.out(1,0.3)". The empty string and "none" mean linear.
func ParseEase(name string) (Ease, error) {
	name = strings.ToLower(strings.ReplaceAll(name, " ", ""))
	switch name {
	case "", "none", "linear":
		return Linear, nil
	}

	var args []float64
	if open := strings.IndexByte(name, '('); open >= 0 {
		if !strings.HasSuffix(name, ")") {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEase, name)
		}
		for _, part := range strings.Split(name[open+1:len(name)-1], ",") {
			if part == "" {
				continue
			}
			v, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrUnknownEase, name)
			}
			args = append(args, v)
		}
		name = name[:open]
	}

	family, mode, ok := strings.Cut(name, ".")
	if !ok {
		mode = "out"
	}

	if n, ok := powers[family]; ok {
		switch mode {
		case "in":
			return powerIn(n), nil
		case "out":
			return powerOut(n), nil
		case "inout":
			return powerInOut(n), nil
		}
	}

	switch family + "." + mode {
	case "sine.in":
		return SineIn, nil
	case "sine.out":
		return SineOut, nil
	case "sine.inout":
		return SineInOut, nil
	case "expo.in":
		return ExpoIn, nil
	case "expo.out":
		return ExpoOut, nil
	case "expo.inout":
		return ExpoInOut, nil
	case "back.out":
		overshoot := 1.70158
		if len(args) > 0 {
			overshoot = args[0]
		}
		return BackOut(overshoot), nil
	case "elastic.out":
		amplitude, period := 1.0, 0.3
		if len(args) > 0 {
			amplitude = args[0]
		}
		if len(args) > 1 {
			period = args[1]
		}
		return ElasticOut(amplitude, period), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownEase, name)
}

// MustEase is ParseEase for literals known to be valid.
func MustEase(name string) Ease {
	e, err := ParseEase(name)
	if err != nil {
		panic(err)
	}
	return e
}
