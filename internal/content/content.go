// Package content holds the site's static catalog: projects, services,
// posts and the profile sections shown on the home and about pages.
package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by lookups for ids that are not in the catalog.
var ErrNotFound = errors.New("not found")

//go:embed data/*.yaml
var embedded embed.FS

type Metric struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

type Project struct {
	ID              int      `yaml:"id" json:"id"`
	Title           string   `yaml:"title" json:"title"`
	Type            string   `yaml:"type" json:"type"`
	Category        string   `yaml:"category" json:"category"`
	Year            string   `yaml:"year" json:"year"`
	Role            string   `yaml:"role" json:"role"`
	Description     string   `yaml:"description" json:"description"`
	FullDescription string   `yaml:"full_description" json:"full_description"`
	Challenge       string   `yaml:"challenge" json:"challenge"`
	Solution        string   `yaml:"solution" json:"solution"`
	TechStack       []string `yaml:"tech_stack" json:"tech_stack"`
	Metrics         []Metric `yaml:"metrics" json:"metrics"`
	Image           string   `yaml:"image" json:"image"`
	Gallery         []string `yaml:"gallery" json:"gallery"`
	Language        string   `yaml:"language" json:"language"`
	CodeSnippet     string   `yaml:"code_snippet" json:"code_snippet"`
	Tags            []string `yaml:"tags" json:"tags"`
	GitHub          string   `yaml:"github" json:"github"`
	Demo            string   `yaml:"demo" json:"demo"`
}

type Capability struct {
	Title string `yaml:"title" json:"title"`
	Desc  string `yaml:"desc" json:"desc"`
}

type ServiceStep struct {
	Step  string `yaml:"step" json:"step"`
	Title string `yaml:"title" json:"title"`
	Desc  string `yaml:"desc" json:"desc"`
}

type Service struct {
	ID              int           `yaml:"id" json:"id"`
	Title           string        `yaml:"title" json:"title"`
	Description     string        `yaml:"description" json:"description"`
	Icon            string        `yaml:"icon" json:"icon"`
	Image           string        `yaml:"image" json:"image"`
	FullDescription string        `yaml:"full_description" json:"full_description"`
	Capabilities    []Capability  `yaml:"capabilities" json:"capabilities"`
	Process         []ServiceStep `yaml:"process" json:"process"`
	RelatedTech     []string      `yaml:"related_tech" json:"related_tech"`
}

type Author struct {
	Name   string `yaml:"name" json:"name"`
	Avatar string `yaml:"avatar" json:"avatar"`
	Role   string `yaml:"role" json:"role"`
}

// Post is a blog entry. Body is markdown.
type Post struct {
	ID       int       `yaml:"id" json:"id"`
	Category string    `yaml:"category" json:"category"`
	ReadTime string    `yaml:"read_time" json:"read_time"`
	Date     time.Time `yaml:"date" json:"date"`
	Author   Author    `yaml:"author" json:"author"`
	Title    string    `yaml:"title" json:"title"`
	Image    string    `yaml:"image" json:"image"`
	Body     string    `yaml:"body" json:"body"`
	Tags     []string  `yaml:"tags" json:"tags"`
	Quote    string    `yaml:"quote" json:"quote,omitempty"`
}

type Testimonial struct {
	ID      int    `yaml:"id" json:"id"`
	Name    string `yaml:"name" json:"name"`
	Role    string `yaml:"role" json:"role"`
	Content string `yaml:"content" json:"content"`
	Avatar  string `yaml:"avatar" json:"avatar"`
}

type Skill struct {
	Name     string `yaml:"name" json:"name"`
	Level    int    `yaml:"level" json:"level"`
	Category string `yaml:"category" json:"category"`
}

type TimelineEntry struct {
	ID          int    `yaml:"id" json:"id"`
	Year        string `yaml:"year" json:"year"`
	Title       string `yaml:"title" json:"title"`
	Company     string `yaml:"company" json:"company"`
	Description string `yaml:"description" json:"description"`
	Image       string `yaml:"image" json:"image,omitempty"`
}

// ProcessStep is one card of the home page's pinned process stack.
type ProcessStep struct {
	Title       string `yaml:"title" json:"title"`
	Icon        string `yaml:"icon" json:"icon"`
	Description string `yaml:"description" json:"description"`
}

// Advantage is one card of the "why work with me" grid.
type Advantage struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Tag         string `yaml:"tag" json:"tag"`
	Code        string `yaml:"code" json:"code"`
}

type site struct {
	Testimonials []Testimonial   `yaml:"testimonials"`
	Skills       []Skill         `yaml:"skills"`
	Experience   []TimelineEntry `yaml:"experience"`
	Education    []TimelineEntry `yaml:"education"`
	Process      []ProcessStep   `yaml:"process"`
	TechStack    []string        `yaml:"tech_stack"`
	Advantages   []Advantage     `yaml:"advantages"`
}

// Catalog is the loaded, read-only site content.
type Catalog struct {
	Projects     []Project
	Services     []Service
	Posts        []Post
	Testimonials []Testimonial
	Skills       []Skill
	Experience   []TimelineEntry
	Education    []TimelineEntry
	Process      []ProcessStep
	TechStack    []string
	Advantages   []Advantage
}

// Load reads the catalog embedded in the binary.
func Load() (*Catalog, error) {
	return LoadFS(embedded)
}

// LoadFS reads projects.yaml, services.yaml, posts.yaml and site.yaml from
// a data/ directory in fsys. Posts are ordered newest first.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{}
	if err := decode(fsys, "data/projects.yaml", &c.Projects); err != nil {
		return nil, err
	}
	if err := decode(fsys, "data/services.yaml", &c.Services); err != nil {
		return nil, err
	}
	if err := decode(fsys, "data/posts.yaml", &c.Posts); err != nil {
		return nil, err
	}
	var s site
	if err := decode(fsys, "data/site.yaml", &s); err != nil {
		return nil, err
	}
	c.Testimonials = s.Testimonials
	c.Skills = s.Skills
	c.Experience = s.Experience
	c.Education = s.Education
	c.Process = s.Process
	c.TechStack = s.TechStack
	c.Advantages = s.Advantages

	sort.SliceStable(c.Posts, func(i, j int) bool {
		return c.Posts[i].Date.After(c.Posts[j].Date)
	})
	return c, nil
}

func decode(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// Project returns the project with the given id.
func (c *Catalog) Project(id int) (*Project, error) {
	for i := range c.Projects {
		if c.Projects[i].ID == id {
			return &c.Projects[i], nil
		}
	}
	return nil, fmt.Errorf("project %d: %w", id, ErrNotFound)
}

// Service returns the service with the given id.
func (c *Catalog) Service(id int) (*Service, error) {
	for i := range c.Services {
		if c.Services[i].ID == id {
			return &c.Services[i], nil
		}
	}
	return nil, fmt.Errorf("service %d: %w", id, ErrNotFound)
}

// Post returns the post with the given id.
func (c *Catalog) Post(id int) (*Post, error) {
	for i := range c.Posts {
		if c.Posts[i].ID == id {
			return &c.Posts[i], nil
		}
	}
	return nil, fmt.Errorf("post %d: %w", id, ErrNotFound)
}

// ProjectCategories lists project categories in first-seen order, for the
// projects page filter.
func (c *Catalog) ProjectCategories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.Projects {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// ProjectsIn returns projects of one category; "" or "All" returns every project.
func (c *Catalog) ProjectsIn(category string) []Project {
	if category == "" || category == "All" {
		return c.Projects
	}
	var out []Project
	for _, p := range c.Projects {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}
