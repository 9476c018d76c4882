package stage

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Zachkp/folio/internal/choreo"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/motion"
)

// Section is a top-level block of a page with the choreographies that
// animate it.
type Section struct {
	Node   *Node
	Choreo []choreo.Mounter
}

// Page is the laid-out content of one route.
type Page struct {
	Path     string
	Title    string
	Status   int
	Sections []*Section
}

// Find returns the node with the given id, or nil.
func (p *Page) Find(id string) *Node {
	var found *Node
	for _, s := range p.Sections {
		s.Node.walk(func(n *Node) {
			if found == nil && n.ID == id {
				found = n
			}
		})
	}
	return found
}

// Nodes returns every node of the page in document order.
func (p *Page) Nodes() []*Node {
	var out []*Node
	for _, s := range p.Sections {
		s.Node.walk(func(n *Node) { out = append(out, n) })
	}
	return out
}

// Stack returns the page's pinned process stack, if it has one.
func (p *Page) Stack() *choreo.Stack {
	for _, s := range p.Sections {
		for _, c := range s.Choreo {
			if st, ok := c.(*choreo.Stack); ok {
				return st
			}
		}
	}
	return nil
}

func (p *Page) mount(scope *motion.Scope) error {
	for _, s := range p.Sections {
		for _, c := range s.Choreo {
			if err := c.Mount(scope); err != nil {
				return fmt.Errorf("mount %s: %w", s.Node.ID, err)
			}
		}
	}
	return nil
}

func (p *Page) detach() {
	for _, s := range p.Sections {
		s.Node.detach()
	}
}

// Builder turns routes into pages from the content catalog.
type Builder struct {
	Catalog *content.Catalog
	// Guestbook reports how many messages the guestbook page lists.
	Guestbook func() int
}

// Build returns the page for path. Unknown routes and ids build the
// not-found page.
func (b *Builder) Build(path string) *Page {
	path = "/" + strings.Trim(path, "/")
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")

	switch {
	case path == "/":
		return b.home()
	case len(parts) == 1:
		switch parts[0] {
		case "about":
			return b.about()
		case "projects":
			return b.listing(path, "Projects", "project", len(b.Catalog.Projects))
		case "services":
			return b.listing(path, "Services", "service", len(b.Catalog.Services))
		case "blog":
			return b.listing(path, "Blog", "post", len(b.Catalog.Posts))
		case "contact":
			return b.contact()
		case "guestbook":
			return b.guestbook()
		}
	case len(parts) == 2:
		id, err := strconv.Atoi(parts[1])
		if err != nil {
			break
		}
		switch parts[0] {
		case "projects":
			if p, err := b.Catalog.Project(id); err == nil {
				return b.projectDetail(path, p)
			}
		case "services":
			if s, err := b.Catalog.Service(id); err == nil {
				return b.serviceDetail(path, s)
			}
		case "blog":
			if p, err := b.Catalog.Post(id); err == nil {
				return b.postDetail(path, p)
			}
		}
	}
	return NotFound(path)
}

// NotFound builds the 404 page with its link home.
func NotFound(path string) *Page {
	sec := NewScreen("not-found", "section")
	items := []choreo.Node{
		sec.Add(NewNode("not-found-code", "heading", 160), 200),
		sec.Add(NewNode("not-found-home", "link", 48), 420),
	}
	return &Page{
		Path:   path,
		Title:  "Page not found",
		Status: http.StatusNotFound,
		Sections: []*Section{{
			Node:   sec,
			Choreo: []choreo.Mounter{&choreo.Reveal{Name: "not-found", Trigger: sec, Items: items, Start: "top bottom", Once: true}},
		}},
	}
}

func page(path, title string, sections ...*Section) *Page {
	return &Page{Path: path, Title: title, Status: http.StatusOK, Sections: sections}
}

// column adds n children of height h to parent, gap px apart, starting at top.
func column(parent *Node, prefix, kind string, n int, top, h, gap float64) []choreo.Node {
	out := make([]choreo.Node, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, parent.Add(NewNode(fmt.Sprintf("%s-%d", prefix, i), kind, h), top+float64(i)*(h+gap)))
	}
	return out
}

// hero is a heading block whose text fades up as soon as the page mounts.
func hero(id string, height float64, lines int) *Section {
	sec := NewNode(id, "section", height)
	items := column(sec, id+"-line", "text", lines, 160, 80, 24)
	return &Section{
		Node: sec,
		Choreo: []choreo.Mounter{&choreo.Reveal{
			Name:     id,
			Trigger:  sec,
			Items:    items,
			Start:    "top bottom",
			Offset:   30,
			Duration: 1200 * time.Millisecond,
			Stagger:  100 * time.Millisecond,
			Ease:     motion.QuartOut,
			Once:     true,
		}},
	}
}

// reveal is a section whose items stagger in when it scrolls into view.
func reveal(id, kind string, n int, itemHeight float64) *Section {
	height := 240 + float64(n)*(itemHeight+32)
	sec := NewNode(id, "section", height)
	items := column(sec, id, kind, n, 160, itemHeight, 32)
	return &Section{
		Node: sec,
		Choreo: []choreo.Mounter{&choreo.Reveal{
			Name:    id,
			Trigger: sec,
			Items:   items,
			Stagger: 150 * time.Millisecond,
		}},
	}
}

func (b *Builder) home() *Page {
	c := b.Catalog

	layer := NewNode("particles", "layer", 0)
	particles := &Section{Node: layer}
	for i, p := range Particles(ParticleCount) {
		dot := layer.Add(NewNode(fmt.Sprintf("particle-%d", i), "particle", p.Size), 0)
		dot.Set(choreo.PropOpacity, p.Opacity)
		particles.Choreo = append(particles.Choreo, &choreo.Drift{Node: dot, DX: p.DX, DY: p.DY, Period: p.Period})
	}

	top := hero("hero", 900, 3)
	avatar := top.Node.Add(NewNode("hero-avatar", "image", 320), 420)
	top.Choreo = append(top.Choreo, &choreo.Float{Node: avatar})

	tech := NewNode("tech", "section", 700)
	techSec := &Section{Node: tech}
	for i := range c.TechStack {
		item := tech.Add(NewNode(fmt.Sprintf("tech-%d", i), "chip", 64), 120+float64(i/4)*96)
		move := 80.0
		if i%2 == 1 {
			move = 130
		}
		techSec.Choreo = append(techSec.Choreo,
			choreo.Parallax(item, "y", -move/2, move/2),
			&choreo.Scrub{Trigger: item, Property: "opacity", From: 0.2, To: 1, Start: "top bottom", End: "bottom top"},
		)
	}

	band := NewNode("marquee", "section", 200)
	strip := band.Add(NewNode("marquee-strip", "strip", 120), 40)
	marquee := &Section{Node: band, Choreo: []choreo.Mounter{&choreo.Marquee{Strip: strip}}}

	services := cardGrid("home-services", "home-service", len(c.Services), choreo.Reveal{
		Start:    "top 90%",
		Offset:   100,
		Duration: 1200 * time.Millisecond,
		Ease:     motion.ExpoOut,
	})

	process := NewScreen("process", "section")
	steps := make([]choreo.Node, 0, len(c.Process))
	for i := range c.Process {
		steps = append(steps, process.Add(NewNode(fmt.Sprintf("process-%d", i), "card", 480), 160))
	}
	final := process.Add(NewNode("process-final", "card", 480), 160)
	stack := &Section{Node: process, Choreo: []choreo.Mounter{&choreo.Stack{Section: process, Steps: steps, Final: final}}}

	bento := NewNode("bento", "section", 800)
	pulse := bento.Add(NewNode("bento-pulse", "line", 100), 480)
	bentoSec := &Section{Node: bento, Choreo: []choreo.Mounter{
		&choreo.Float{Node: pulse, Amplitude: -20, Period: 1500 * time.Millisecond},
	}}

	adv := NewNode("advantages", "section", 240+float64(len(c.Advantages))*372)
	advantages := &Section{Node: adv, Choreo: []choreo.Mounter{&choreo.Reveal{
		Name:     "advantages",
		Trigger:  adv,
		Items:    column(adv, "advantage", "card", len(c.Advantages), 160, 340, 32),
		Start:    "top 80%",
		Offset:   60,
		Duration: time.Second,
		Stagger:  150 * time.Millisecond,
		Ease:     motion.QuartOut,
		Once:     true,
	}}}

	projects := cardGrid("home-projects", "home-project", min(len(c.Projects), 4), choreo.Reveal{Offset: 50, Once: true})

	blogs := NewNode("latest-posts", "section", 900)
	blogSec := &Section{Node: blogs}
	for i := range min(len(c.Posts), 3) {
		card := blogs.Add(NewNode(fmt.Sprintf("latest-post-%d", i), "card", 420), 200)
		blogSec.Choreo = append(blogSec.Choreo, &choreo.Reveal{
			Name:     card.ID,
			Trigger:  card,
			Items:    []choreo.Node{card},
			Start:    "top 90%",
			Offset:   60,
			Duration: 1200 * time.Millisecond,
			Ease:     motion.QuartOut,
			Once:     true,
		})
	}

	return page("/", "Home",
		particles,
		top,
		techSec,
		marquee,
		services,
		stack,
		bentoSec,
		advantages,
		projects,
		reveal("experience", "row", len(c.Experience), 120),
		blogSec,
		reveal("testimonials", "quote", len(c.Testimonials), 180),
		reveal("home-contact", "field", 4, 72),
		brandEnd(),
	)
}

// brandEnd is the closing banner: two words rise in, then the card grows in
// over the tail of their entrance.
func brandEnd() *Section {
	sec := NewNode("brand-end", "section", 900)
	left := sec.Add(NewNode("brand-end-left", "text", 160), 200)
	right := sec.Add(NewNode("brand-end-right", "text", 160), 200)
	card := sec.Add(NewNode("brand-end-card", "card", 420), 320)
	return &Section{
		Node: sec,
		Choreo: []choreo.Mounter{&choreo.Sequence{
			Name:    "brand-end",
			Trigger: sec,
			Start:   "top 80%",
			Steps: []choreo.Step{
				{
					Items:    []choreo.Node{left, right},
					Tweens:   []choreo.Tween{{Property: choreo.PropY, From: 100, To: 0}, {Property: choreo.PropOpacity, From: 0, To: 1}},
					Duration: 1200 * time.Millisecond,
					Stagger:  100 * time.Millisecond,
					Ease:     motion.QuintOut,
				},
				{
					Items:    []choreo.Node{card},
					Tweens:   []choreo.Tween{{Property: choreo.PropScale, From: 0.8, To: 1}, {Property: choreo.PropOpacity, From: 0, To: 1}},
					Duration: 1500 * time.Millisecond,
					Overlap:  800 * time.Millisecond,
					Ease:     motion.ExpoOut,
				},
			},
		}},
	}
}

func (b *Builder) about() *Page {
	c := b.Catalog

	journey := NewNode("journey", "section", 300+float64(len(c.Experience))*220)
	line := journey.Add(NewNode("journey-line", "line", journey.height-200), 100)
	entries := column(journey, "journey-entry", "row", len(c.Experience), 120, 180, 40)
	journeySec := &Section{
		Node: journey,
		Choreo: []choreo.Mounter{
			&choreo.Scrub{Trigger: journey, Target: line, Property: "scaleY", From: 0, To: 1, Start: "top 60%", End: "bottom 80%"},
			&choreo.Reveal{Name: "journey", Trigger: journey, Items: entries, Stagger: 200 * time.Millisecond},
		},
	}

	skills := NewNode("skills", "section", 200+float64(len(c.Skills))*72)
	skillSec := &Section{Node: skills}
	for i, s := range c.Skills {
		bar := skills.Add(NewNode(fmt.Sprintf("skill-%d", i), "bar", 8), 160+float64(i)*72)
		skillSec.Choreo = append(skillSec.Choreo, &choreo.Fill{Bar: bar, Level: float64(s.Level)})
	}

	return page("/about", "About",
		hero("about-header", 700, 2),
		journeySec,
		skillSec,
		reveal("education", "row", len(c.Education), 160),
	)
}

func (b *Builder) listing(path, title, kind string, n int) *Page {
	name := strings.Trim(path, "/")
	grid := cardGrid(name+"-grid", kind, n, choreo.Reveal{Offset: 50, Once: true})
	return page(path, title, hero(name+"-header", 600, 2), grid)
}

// cardGrid lays n cards out two to a row, each revealed on its own with the
// settings in tmpl.
func cardGrid(id, prefix string, n int, tmpl choreo.Reveal) *Section {
	grid := NewNode(id, "section", 240+float64((n+1)/2)*520)
	sec := &Section{Node: grid}
	for i := 0; i < n; i++ {
		card := grid.Add(NewNode(fmt.Sprintf("%s-%d", prefix, i), "card", 480), 160+float64(i/2)*520)
		r := tmpl
		r.Name, r.Trigger, r.Items = card.ID, card, []choreo.Node{card}
		sec.Choreo = append(sec.Choreo, &r)
	}
	return sec
}

// banner is a full-width image drifting down as the page scrolls past it.
func banner(id string) *Section {
	sec := NewNode(id, "section", 720)
	img := sec.Add(NewNode(id+"-image", "image", 720), 0)
	return &Section{
		Node: sec,
		Choreo: []choreo.Mounter{&choreo.Scrub{
			Trigger: sec, Target: img, Property: "yPercent", From: 0, To: 30,
			Start: "top top", End: "bottom top",
		}},
	}
}

func (b *Builder) projectDetail(path string, p *content.Project) *Page {
	return page(path, p.Title,
		banner("project-hero"),
		reveal("project-metrics", "metric", len(p.Metrics), 120),
		reveal("project-story", "text", 2, 240),
		reveal("project-stack", "chip", len(p.TechStack), 48),
		reveal("project-gallery", "image", len(p.Gallery), 360),
	)
}

func (b *Builder) serviceDetail(path string, s *content.Service) *Page {
	return page(path, s.Title,
		banner("service-hero"),
		reveal("service-capabilities", "card", len(s.Capabilities), 200),
		reveal("service-process", "row", len(s.Process), 160),
	)
}

func (b *Builder) postDetail(path string, p *content.Post) *Page {
	paragraphs := strings.Count(strings.TrimSpace(p.Body), "\n\n") + 1
	return page(path, p.Title,
		banner("post-hero"),
		reveal("post-body", "text", 1, float64(paragraphs)*160),
	)
}

func (b *Builder) contact() *Page {
	return page("/contact", "Contact",
		hero("contact-header", 600, 2),
		reveal("contact-form", "field", 4, 72),
	)
}

func (b *Builder) guestbook() *Page {
	n := 0
	if b.Guestbook != nil {
		n = b.Guestbook()
	}
	list := reveal("guestbook-entries", "message", n, 140)
	list.Choreo[0].(*choreo.Reveal).Start = "top 90%"
	list.Choreo[0].(*choreo.Reveal).Offset = 20
	return page("/guestbook", "Guestbook",
		hero("guestbook-header", 600, 2),
		reveal("guestbook-form", "field", 3, 72),
		list,
	)
}
