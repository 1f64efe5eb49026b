// Package mail delivers finished reports as email attachments over SMTP.
package mail

import (
	"errors"
	"fmt"
	"io"

	gomail "gopkg.in/gomail.v2"
)

// ErrNotConfigured is returned when no SMTP host is set.
var ErrNotConfigured = errors.New("smtp delivery is not configured")

// Config describes the SMTP relay and the message envelope.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Subject  string
	Body     string
	Filename string
}

// DefaultConfig fills the message fields used for inspection reports.
func DefaultConfig() Config {
	return Config{
		Port:     587,
		Subject:  "Fire Inspection Report",
		Body:     "Attached is the fire safety inspection report.",
		Filename: "fire_safety_report.pdf",
	}
}

// dialer is the part of gomail.Dialer the sender uses.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Sender sends one report per call. There is no retry; the caller decides what a
// failure means.
type Sender struct {
	cfg    Config
	dialer dialer
}

func NewSender(cfg Config) *Sender {
	s := &Sender{cfg: cfg}
	if cfg.Host != "" {
		// gomail upgrades to STARTTLS when the server offers it.
		s.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return s
}

// Message builds the email carrying pdf as an attachment.
func (s *Sender) Message(pdf []byte, recipient string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", s.cfg.Subject)
	m.SetBody("text/plain", s.cfg.Body)
	m.Attach(s.cfg.Filename,
		gomail.SetHeader(map[string][]string{"Content-Type": {"application/pdf"}}),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(pdf)
			return err
		}),
	)
	return m
}

// SendReport emails pdf to recipient.
func (s *Sender) SendReport(pdf []byte, recipient string) error {
	if s.dialer == nil {
		return ErrNotConfigured
	}
	if recipient == "" {
		return errors.New("no recipient given")
	}
	if err := s.dialer.DialAndSend(s.Message(pdf, recipient)); err != nil {
		return fmt.Errorf("failed to send report to %s: %w", recipient, err)
	}
	return nil
}
