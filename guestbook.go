package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const guestbookPage = 100

type guestbookRequest struct {
	Name    string `form:"name" binding:"required,max=80"`
	Message string `form:"message" binding:"required,max=1000"`
}

func (s *server) guestbook(c *gin.Context) {
	entries, err := s.db.Entries(c.Request.Context(), guestbookPage)
	if err != nil {
		log.Printf("Error loading guestbook: %v", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": "Failed to load the guestbook"})
		return
	}
	s.render(c, http.StatusOK, "guestbook.html", "Guestbook", gin.H{"entries": entries})
}

// signGuestbook adds a message. HTMX requests get the new entry back as a
// fragment; plain form posts are redirected to the list.
func (s *server) signGuestbook(c *gin.Context) {
	htmx := c.GetHeader("HX-Request") == "true"

	var req guestbookRequest
	if err := c.ShouldBind(&req); err != nil || strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Message) == "" {
		msg := "Please leave your name and a message."
		if htmx {
			c.HTML(http.StatusBadRequest, "guestbook-error.html", gin.H{"error": msg})
			return
		}
		entries, _ := s.db.Entries(c.Request.Context(), guestbookPage)
		s.render(c, http.StatusBadRequest, "guestbook.html", "Guestbook", gin.H{"entries": entries, "error": msg})
		return
	}

	entry, err := s.db.AddEntry(c.Request.Context(), strings.TrimSpace(req.Name), strings.TrimSpace(req.Message), s.now())
	if err != nil {
		log.Printf("Error signing guestbook: %v", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": "Failed to save your message"})
		return
	}

	if htmx {
		c.HTML(http.StatusCreated, "guestbook-entry.html", entry)
		return
	}
	c.Redirect(http.StatusSeeOther, "/guestbook")
}
