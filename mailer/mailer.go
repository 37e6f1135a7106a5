// Package mailer emails notifications through SendGrid
package mailer

import (
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/linesmerrill/case-tracker-api/models"
	templates "github.com/linesmerrill/case-tracker-api/templates/html"
)

const senderName = "Case Tracker"

// Client is the part of the SendGrid client the mailer uses
type Client interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// Mailer renders notifications as branded emails
type Mailer struct {
	client  Client
	from    *mail.Email
	baseURL string
}

// New returns a Mailer sending with apiKey from the from address. baseURL
// is used to link back to the related record.
func New(apiKey, from, baseURL string) *Mailer {
	return NewWithClient(sendgrid.NewSendClient(apiKey), from, baseURL)
}

// NewWithClient returns a Mailer sending through client
func NewWithClient(client Client, from, baseURL string) *Mailer {
	return &Mailer{
		client:  client,
		from:    mail.NewEmail(senderName, from),
		baseURL: baseURL,
	}
}

func (m *Mailer) link(n models.Notification) string {
	if m.baseURL == "" || n.RelatedID.IsZero() {
		return ""
	}
	path := map[string]string{
		models.RelatedComplaint: "complaints",
		models.RelatedFIR:       "firs",
		models.RelatedCase:      "casefiles",
	}[n.RelatedType]
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s", m.baseURL, path, n.RelatedID.Hex())
}

// Send emails n to recipient
func (m *Mailer) Send(recipient models.User, n models.Notification) error {
	if recipient.Details.Email == "" {
		return fmt.Errorf("user %s has no email address", recipient.ID.Hex())
	}
	to := mail.NewEmail(recipient.Details.Name, recipient.Details.Email)
	html := templates.RenderNotificationEmail(n.Title, n.Message, m.link(n))
	msg := mail.NewSingleEmail(m.from, n.Title, to, n.Message, html)

	resp, err := m.client.Send(msg)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
