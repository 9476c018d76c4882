package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/folio/internal/mail"
)

type contactRequest struct {
	Name    string `json:"name" form:"fullName" binding:"required,max=200"`
	Email   string `json:"email" form:"email" binding:"required,email,max=320"`
	Message string `json:"message" form:"message" binding:"required,max=5000"`
}

func (r contactRequest) contact() mail.Contact {
	return mail.Contact{
		Name:    strings.TrimSpace(r.Name),
		Email:   strings.TrimSpace(r.Email),
		Message: strings.TrimSpace(r.Message),
	}
}

// apiContact is the JSON contact endpoint. Only POST is served; the body of
// any other request is never read.
func (s *server) apiContact(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "Method Not Allowed"})
		return
	}

	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and message are required"})
		return
	}

	if err := s.contact.Forward(c.Request.Context(), req.contact()); err != nil {
		log.Printf("Error sending contact email: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Email failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// formContact handles the HTMX contact form and answers with a fragment.
func (s *server) formContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Please fill in your name, a valid email and a message.",
		})
		return
	}

	if err := s.contact.Forward(c.Request.Context(), req.contact()); err != nil {
		log.Printf("Error sending contact email: %v", err)
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Sorry, there was an error sending your message. Please try again later.",
		})
		return
	}

	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": "Thank you for your message! I'll get back to you soon.",
	})
}
