// Package mail forwards contact form submissions by email.
package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strings"
	"sync"
)

// ErrNotConfigured is returned by an SMTPSender without credentials.
var ErrNotConfigured = errors.New("SMTP credentials not configured")

// Message is one outgoing HTML email.
type Message struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender sends mail through an SMTP server with plain auth.
type SMTPSender struct {
	Host string
	Port string
	User string
	Pass string
}

// headerSafe strips line breaks so user input cannot add headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if s.User == "" || s.Pass == "" {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	from := msg.From
	if from == "" {
		from = s.User
	}

	var b strings.Builder
	b.WriteString("To: " + headerSafe(strings.Join(msg.To, ", ")) + "\r\n")
	b.WriteString("From: " + headerSafe(from) + "\r\n")
	if msg.ReplyTo != "" {
		b.WriteString("Reply-To: " + headerSafe(msg.ReplyTo) + "\r\n")
	}
	b.WriteString("Subject: " + headerSafe(msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML + "\r\n")

	auth := smtp.PlainAuth("", s.User, s.Pass, s.Host)
	if err := smtp.SendMail(s.Host+":"+s.Port, auth, s.User, msg.To, []byte(b.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// Recorder keeps messages in memory instead of sending them.
type Recorder struct {
	mu   sync.Mutex
	sent []Message
	// Fail, when set, is consulted before recording; a non-nil result is
	// returned and the message is dropped.
	Fail func(Message) error
}

func (r *Recorder) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		if err := r.Fail(msg); err != nil {
			return err
		}
	}
	r.sent = append(r.sent, msg)
	return nil
}

// Sent returns a copy of the recorded messages.
func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.sent...)
}

// Contact is a submission from the contact form.
type Contact struct {
	Name    string
	Email   string
	Message string
}

var (
	ownerTmpl = template.Must(template.New("owner").Parse(`<h3>New Contact Request</h3>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p>{{.Message}}</p>
`))
	replyTmpl = template.Must(template.New("reply").Parse(`<p>Hi {{.Contact.Name}},</p>
<p>Thanks for reaching out. I've received your message and will respond shortly.</p>
<br />
<p>{{.Owner}}</p>
`))
)

// Forwarder sends a submission to the site owner and an auto-reply to the
// submitter.
type Forwarder struct {
	Sender    Sender
	From      string
	OwnerName string
	OwnerAddr string
}

// Forward sends both emails in order. A failure of either fails the call;
// nothing is retried.
func (f *Forwarder) Forward(ctx context.Context, c Contact) error {
	var body bytes.Buffer
	if err := ownerTmpl.Execute(&body, c); err != nil {
		return fmt.Errorf("render owner email: %w", err)
	}
	err := f.Sender.Send(ctx, Message{
		From:    fmt.Sprintf("Portfolio <%s>", f.From),
		To:      []string{f.OwnerAddr},
		ReplyTo: c.Email,
		Subject: "New Portfolio Inquiry",
		HTML:    body.String(),
	})
	if err != nil {
		return fmt.Errorf("owner email: %w", err)
	}

	body.Reset()
	if err := replyTmpl.Execute(&body, struct {
		Contact Contact
		Owner   string
	}{c, f.OwnerName}); err != nil {
		return fmt.Errorf("render auto-reply: %w", err)
	}
	err = f.Sender.Send(ctx, Message{
		From:    fmt.Sprintf("%s <%s>", f.OwnerName, f.From),
		To:      []string{c.Email},
		Subject: "Thanks for contacting me",
		HTML:    body.String(),
	})
	if err != nil {
		return fmt.Errorf("auto-reply: %w", err)
	}

	log.Printf("mail: forwarded contact from %s (%s)", c.Name, c.Email)
	return nil
}
