package stage

import (
	"maps"
	"sync"

	"github.com/Zachkp/folio/internal/motion"
)

// Node is one laid-out element of a page. Sections are top-level nodes;
// their children sit at a fixed offset inside them.
type Node struct {
	ID   string
	Kind string

	mu       sync.Mutex
	height   float64
	screen   bool
	offset   float64
	rect     motion.Rect
	attached bool
	style    map[string]float64
	pinned   bool
	pinTop   float64
	hovered  bool
	children []*Node
}

// NewNode returns a detached node of the given height.
func NewNode(id, kind string, height float64) *Node {
	return &Node{ID: id, Kind: kind, height: height, style: map[string]float64{}}
}

// NewScreen returns a node that is always one viewport tall.
func NewScreen(id, kind string) *Node {
	n := NewNode(id, kind, 0)
	n.screen = true
	return n
}

// Add places child at offset px below the top of n and returns the child.
func (n *Node) Add(child *Node, offset float64) *Node {
	child.offset = offset
	n.mu.Lock()
	n.children = append(n.children, child)
	n.mu.Unlock()
	return child
}

// Children returns the node's direct children.
func (n *Node) Children() []*Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*Node(nil), n.children...)
}

func (n *Node) Bounds() (motion.Rect, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.rect, n.attached
}

func (n *Node) Set(property string, value float64) {
	n.mu.Lock()
	n.style[property] = value
	n.mu.Unlock()
}

func (n *Node) Clear(property string) {
	n.mu.Lock()
	delete(n.style, property)
	n.mu.Unlock()
}

func (n *Node) Pin(top float64) {
	n.mu.Lock()
	n.pinned, n.pinTop = true, top
	n.mu.Unlock()
}

func (n *Node) Unpin() {
	n.mu.Lock()
	n.pinned, n.pinTop = false, 0
	n.mu.Unlock()
}

// Style returns an inline style value if one is set.
func (n *Node) Style(property string) (float64, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	v, ok := n.style[property]
	return v, ok
}

// Styles returns a copy of every inline style on the node.
func (n *Node) Styles() map[string]float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return maps.Clone(n.style)
}

// Pinned reports whether the node is fixed in the viewport, and where.
func (n *Node) Pinned() (bool, float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pinned, n.pinTop
}

func (n *Node) Attached() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.attached
}

func (n *Node) Hovered() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.hovered
}

func (n *Node) setHover(on bool) {
	n.mu.Lock()
	n.hovered = on
	n.mu.Unlock()
}

// place lays the node out at top and returns its height.
func (n *Node) place(top, width float64, vp motion.Viewport) float64 {
	n.mu.Lock()
	h := n.height
	if n.screen {
		h = vp.Height
	}
	n.rect = motion.Rect{Top: top, Width: width, Height: h}
	n.attached = true
	kids := n.children
	n.mu.Unlock()

	for _, c := range kids {
		c.place(top+c.offset, width, vp)
	}
	return h
}

func (n *Node) detach() {
	n.mu.Lock()
	n.attached = false
	kids := n.children
	n.mu.Unlock()
	for _, c := range kids {
		c.detach()
	}
}

func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children() {
		c.walk(fn)
	}
}
