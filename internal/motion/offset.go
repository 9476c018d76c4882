package motion

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidOffset is returned when an offset string cannot be parsed.
var ErrInvalidOffset = errors.New("invalid offset")

// Rect is an element's box in document coordinates.
type Rect struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

// Bottom returns the document position of the lower edge.
func (r Rect) Bottom() float64 {
	return r.Top + r.Height
}

// Viewport is the visible window size.
type Viewport struct {
	Width  float64
	Height float64
}

// Element is an observed region of the document.
// Bounds reports false once the element has been detached.
type Element interface {
	Bounds() (Rect, bool)
}

// Unit tells how an Anchor value is measured.
type Unit int

const (
	Percent Unit = iota
	Pixels
)

// Anchor is a point along a box, either a fraction of its height or a pixel
// distance from its top.
type Anchor struct {
	Value float64
	Unit  Unit
}

// Along returns the anchor's distance from the top of a box of the given height.
func (a Anchor) Along(height float64) float64 {
	if a.Unit == Pixels {
		return a.Value
	}
	return a.Value / 100 * height
}

// Offset describes a scroll position relative to an element and the viewport,
// e.g. "top 85%" (element top meets 85% of the viewport height) or "+=300%"
// (three viewport heights after the start).
type Offset struct {
	Element  Anchor
	Viewport Anchor
	Relative bool
	Delta    Anchor
}

// ParseOffset parses an offset string.
func ParseOffset(s string) (Offset, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Offset{}, fmt.Errorf("%w: empty", ErrInvalidOffset)
	}

	if rest, ok := strings.CutPrefix(s, "+="); ok {
		delta, err := parseAnchor(rest)
		if err != nil {
			return Offset{}, fmt.Errorf("%w: %q", ErrInvalidOffset, s)
		}
		return Offset{Relative: true, Delta: delta}, nil
	}

	fields := strings.Fields(s)
	if len(fields) == 1 {
		// A single anchor applies to both the element and the viewport.
		fields = append(fields, fields[0])
	}
	if len(fields) != 2 {
		return Offset{}, fmt.Errorf("%w: %q", ErrInvalidOffset, s)
	}

	el, err := parseAnchor(fields[0])
	if err != nil {
		return Offset{}, fmt.Errorf("%w: %q", ErrInvalidOffset, s)
	}
	vp, err := parseAnchor(fields[1])
	if err != nil {
		return Offset{}, fmt.Errorf("%w: %q", ErrInvalidOffset, s)
	}
	return Offset{Element: el, Viewport: vp}, nil
}

// MustOffset is ParseOffset for literals known to be valid.
func MustOffset(s string) Offset {
	off, err := ParseOffset(s)
	if err != nil {
		panic(err)
	}
	return off
}

func parseAnchor(s string) (Anchor, error) {
	switch s {
	case "top":
		return Anchor{Value: 0, Unit: Percent}, nil
	case "center":
		return Anchor{Value: 50, Unit: Percent}, nil
	case "bottom":
		return Anchor{Value: 100, Unit: Percent}, nil
	}

	unit := Pixels
	num := s
	if v, ok := strings.CutSuffix(s, "%"); ok {
		unit, num = Percent, v
	} else if v, ok := strings.CutSuffix(s, "px"); ok {
		num = v
	}

	value, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Anchor{}, err
	}
	return Anchor{Value: value, Unit: unit}, nil
}

// Resolve returns the scroll position the offset describes for an element box.
// Relative offsets are measured from base.
func (o Offset) Resolve(box Rect, vp Viewport, base float64) float64 {
	if o.Relative {
		return base + o.Delta.Along(vp.Height)
	}
	return box.Top + o.Element.Along(box.Height) - o.Viewport.Along(vp.Height)
}
