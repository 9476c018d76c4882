package main

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/mail"
	"github.com/Zachkp/folio/internal/stage"
	"github.com/Zachkp/folio/internal/store"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

type server struct {
	cfg      *config.Config
	db       *store.DB
	catalog  *content.Catalog
	renderer *content.Renderer
	contact  *mail.Forwarder
	admin    *adminAuth
	now      func() time.Time
}

func newServer(cfg *config.Config, db *store.DB, catalog *content.Catalog, sender mail.Sender) *server {
	return &server{
		cfg:      cfg,
		db:       db,
		catalog:  catalog,
		renderer: content.NewRenderer(cfg.HighlightStyle),
		contact: &mail.Forwarder{
			Sender:    sender,
			From:      cfg.FromEmail,
			OwnerName: cfg.OwnerName,
			OwnerAddr: cfg.ToEmail,
		},
		admin: newAdminAuth(),
		now:   time.Now,
	}
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"ago":  humanize.Time,
		"date": func(t time.Time) string { return t.Format("Jan 2, 2006") },
		"year": func() int { return time.Now().Year() },
	}
}

func (s *server) router() (*gin.Engine, error) {
	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}

	r := gin.Default()
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", http.FS(static))
	r.Use(s.visitorTracking())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/", s.home)
	r.GET("/about", s.about)
	r.GET("/projects", s.projects)
	r.GET("/projects/:id", s.project)
	r.GET("/services", s.services)
	r.GET("/services/:id", s.service)
	r.GET("/blog", s.blog)
	r.GET("/blog/:id", s.post)
	r.GET("/contact", s.contactPage)
	r.GET("/guestbook", s.guestbook)
	r.NoRoute(s.notFound)

	r.Any("/api/contact", s.apiContact)
	r.POST("/contact", s.formContact)
	r.POST("/guestbook", s.signGuestbook)
	r.POST("/theme", s.toggleTheme)

	r.GET("/api/choreography/process", s.processFrames)
	r.GET("/ws/stage", s.stageSocket)

	s.adminRoutes(r)
	return r, nil
}

const themeCookie = "theme"

func theme(c *gin.Context) string {
	if v, err := c.Cookie(themeCookie); err == nil && v == "light" {
		return "light"
	}
	return "dark"
}

// render fills in the data every layout needs and renders name.
func (s *server) render(c *gin.Context, status int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["title"] = title
	data["theme"] = theme(c)
	data["path"] = c.Request.URL.Path
	data["owner"] = s.cfg.OwnerName
	data["tagline"] = Tagline
	c.HTML(status, name, data)
}

func (s *server) toggleTheme(c *gin.Context) {
	next := "light"
	if theme(c) == "light" {
		next = "dark"
	}
	c.SetCookie(themeCookie, next, 365*24*3600, "/", "", false, false)

	if c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Refresh", "true")
		c.Status(http.StatusNoContent)
		return
	}
	back := c.Request.Referer()
	if back == "" {
		back = "/"
	}
	c.Redirect(http.StatusSeeOther, back)
}

func (s *server) notFound(c *gin.Context) {
	s.render(c, http.StatusNotFound, "notfound.html", "Page not found", nil)
}

// idParam parses the :id route parameter. Anything that is not a number
// cannot match static content.
func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	return id, err == nil
}

func (s *server) home(c *gin.Context) {
	cat := s.catalog
	s.render(c, http.StatusOK, "index.html", "Home", gin.H{
		"aboutMe":      AboutMe,
		"particles":    stage.Particles(stage.ParticleCount),
		"techStack":    cat.TechStack,
		"services":     cat.Services,
		"process":      cat.Process,
		"advantages":   cat.Advantages,
		"projects":     cat.Projects[:min(len(cat.Projects), 4)],
		"experience":   cat.Experience,
		"testimonials": cat.Testimonials,
		"posts":        cat.Posts[:min(len(cat.Posts), 3)],
	})
}

func (s *server) about(c *gin.Context) {
	s.render(c, http.StatusOK, "about.html", "About", gin.H{
		"aboutMe":    AboutMe,
		"experience": s.catalog.Experience,
		"education":  s.catalog.Education,
		"skills":     s.catalog.Skills,
	})
}

func (s *server) projects(c *gin.Context) {
	category := c.Query("category")
	s.render(c, http.StatusOK, "projects.html", "Projects", gin.H{
		"categories": s.catalog.ProjectCategories(),
		"category":   category,
		"projects":   s.catalog.ProjectsIn(category),
	})
}

func (s *server) project(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		s.notFound(c)
		return
	}
	p, err := s.catalog.Project(id)
	if err != nil {
		s.notFound(c)
		return
	}
	var code template.HTML
	if p.CodeSnippet != "" {
		if code, err = s.renderer.Code(p.Language, p.CodeSnippet); err != nil {
			log.Printf("Error highlighting project %d: %v", id, err)
		}
	}
	s.render(c, http.StatusOK, "project.html", p.Title, gin.H{"project": p, "code": code})
}

func (s *server) services(c *gin.Context) {
	s.render(c, http.StatusOK, "services.html", "Services", gin.H{"services": s.catalog.Services})
}

func (s *server) service(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		s.notFound(c)
		return
	}
	svc, err := s.catalog.Service(id)
	if err != nil {
		s.notFound(c)
		return
	}
	s.render(c, http.StatusOK, "service.html", svc.Title, gin.H{"service": svc})
}

func (s *server) blog(c *gin.Context) {
	s.render(c, http.StatusOK, "blog.html", "Blog", gin.H{"posts": s.catalog.Posts})
}

func (s *server) post(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		s.notFound(c)
		return
	}
	p, err := s.catalog.Post(id)
	if err != nil {
		s.notFound(c)
		return
	}
	body, err := s.renderer.Markdown(p.Body)
	if err != nil {
		log.Printf("Error rendering post %d: %v", id, err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": "Failed to render post"})
		return
	}
	s.render(c, http.StatusOK, "post.html", p.Title, gin.H{"post": p, "body": body})
}

func (s *server) contactPage(c *gin.Context) {
	s.render(c, http.StatusOK, "contact.html", "Contact", nil)
}

// guestbookSize is the stage builder's view of the guestbook.
func (s *server) guestbookSize() int {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	n, err := s.db.CountEntries(ctx)
	if err != nil {
		log.Printf("Error counting guestbook entries: %v", err)
		return 0
	}
	return min(n, guestbookPage)
}
