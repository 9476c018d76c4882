package stage

import (
	"github.com/Zachkp/folio/internal/choreo"
	"github.com/Zachkp/folio/internal/motion"
)

// NodeFrame is the computed state of one node.
type NodeFrame struct {
	ID     string             `json:"id"`
	Kind   string             `json:"kind"`
	Top    float64            `json:"top"`
	Height float64            `json:"height"`
	Pinned bool               `json:"pinned,omitempty"`
	PinTop float64            `json:"pin_top,omitempty"`
	Hover  bool               `json:"hover,omitempty"`
	Style  map[string]float64 `json:"style,omitempty"`
}

// Frame is a snapshot of the session.
type Frame struct {
	Path     string          `json:"path"`
	Status   int             `json:"status"`
	ScrollY  float64         `json:"scroll_y"`
	Viewport motion.Viewport `json:"viewport"`
	Height   float64         `json:"height"`
	Variant  string          `json:"variant,omitempty"`
	Triggers int             `json:"triggers"`
	Players  int             `json:"players"`
	Stale    int             `json:"stale"`
	Nodes    []NodeFrame     `json:"nodes"`
}

// Frame captures every node's layout and inline styles.
func (s *Stage) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := Frame{
		ScrollY:  s.reg.ScrollY(),
		Viewport: s.reg.Viewport(),
		Height:   s.height,
		Triggers: s.reg.Len(),
		Players:  s.reg.Players(),
		Stale:    s.reg.Stale(),
	}
	if s.page == nil {
		return f
	}
	f.Path, f.Status = s.page.Path, s.page.Status
	if st := s.page.Stack(); st != nil {
		f.Variant = st.Variant().String()
	}
	for _, n := range s.page.Nodes() {
		rect, _ := n.Bounds()
		pinned, top := n.Pinned()
		f.Nodes = append(f.Nodes, NodeFrame{
			ID:     n.ID,
			Kind:   n.Kind,
			Top:    rect.Top,
			Height: rect.Height,
			Pinned: pinned,
			PinTop: top,
			Hover:  n.Hovered(),
			Style:  n.Styles(),
		})
	}
	return f
}

// Cards returns the process stack's card states from the frame, in card
// order, or nil when the page has no stack.
func (f Frame) Cards() []choreo.CardState {
	var out []choreo.CardState
	for _, n := range f.Nodes {
		if n.Kind != "card" || len(n.ID) < len("process-") || n.ID[:len("process-")] != "process-" {
			continue
		}
		out = append(out, choreo.CardState{
			Index:    len(out),
			Final:    n.ID == "process-final",
			Opacity:  styleOr(n.Style, choreo.PropOpacity, 1),
			X:        n.Style[choreo.PropX],
			Y:        n.Style[choreo.PropY],
			Rotation: n.Style[choreo.PropRotation],
			Scale:    styleOr(n.Style, choreo.PropScale, 1),
			Radius:   n.Style[choreo.PropRadius],
		})
	}
	return out
}

func styleOr(style map[string]float64, prop string, def float64) float64 {
	if v, ok := style[prop]; ok {
		return v
	}
	return def
}
