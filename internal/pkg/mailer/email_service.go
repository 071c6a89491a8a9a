package mailer

import (
	"fmt"
	"html"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendEscalation(e Escalation) error
}

// Escalation is the content of a "customer wants a human" alert.
type Escalation struct {
	SessionID   string
	CustomerID  string
	Reason      string
	RequestedAt time.Time
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	dialer      sender
	senderEmail string
	senderName  string
	recipients  []string
	consoleURL  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string, recipients []string, consoleURL string) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		senderName:  senderName,
		recipients:  recipients,
		consoleURL:  strings.TrimRight(consoleURL, "/"),
	}
}

func (s *emailService) SendEscalation(e Escalation) error {
	if len(s.recipients) == 0 {
		return nil
	}
	if err := s.dialer.DialAndSend(s.escalationMessage(e)); err != nil {
		return fmt.Errorf("send escalation mail for %s: %w", e.SessionID, err)
	}
	return nil
}

func (s *emailService) escalationMessage(e Escalation) *gomail.Message {
	m := gomail.NewMessage(gomail.SetEncoding(gomail.Unencoded))
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", s.recipients...)
	m.SetHeader("Subject", fmt.Sprintf("Chat %s needs a staff member", e.SessionID))

	customer := e.CustomerID
	if customer == "" {
		customer = "guest"
	}
	reason := e.Reason
	if reason == "" {
		reason = "not given"
	}

	var link string
	if s.consoleURL != "" {
		href := html.EscapeString(s.consoleURL + "/sessions/" + e.SessionID)
		link = fmt.Sprintf(`<p><a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Open conversation</a></p>`, href)
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Customer asked for a human</h2>
			<p><b>Session:</b> %s</p>
			<p><b>Customer:</b> %s</p>
			<p><b>Reason:</b> %s</p>
			<p><b>Requested at:</b> %s</p>
			%s
		</div>
	`, html.EscapeString(e.SessionID), html.EscapeString(customer), html.EscapeString(reason),
		e.RequestedAt.UTC().Format(time.RFC1123), link)

	m.SetBody("text/html", body)
	return m
}
