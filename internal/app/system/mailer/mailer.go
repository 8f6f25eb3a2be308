// internal/app/system/mailer/mailer.go
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/email"
	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
	Timeout  time.Duration
}

// waffle maps Config onto the WAFFLE sender settings. Port 465 uses
// implicit TLS; everything else requires STARTTLS.
func (c Config) waffle() email.Config {
	return email.Config{
		Host:        c.Host,
		Port:        c.Port,
		Username:    c.User,
		Password:    c.Pass,
		FromAddress: c.From,
		FromName:    c.FromName,
		UseSSL:      c.Port == 465,
		Timeout:     c.Timeout,
	}
}

// Attachment is a decoded file attached to an Email.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Email is one outgoing message.
type Email struct {
	To          string
	Subject     string
	TextBody    string
	HTMLBody    string
	Attachments []Attachment
}

// Sender sends email. *Mailer implements it.
type Sender interface {
	Send(ctx context.Context, e Email) error
}

// Mailer sends replies through the WAFFLE email sender. Messages with
// attachments are composed with go-mail directly, since email.Sender's
// attachment reader never reports EOF.
type Mailer struct {
	cfg    Config
	sender *email.Sender
	logger *zap.Logger
}

// New validates cfg and returns a Mailer.
func New(cfg Config, logger *zap.Logger) (*Mailer, error) {
	if cfg.Host == "" {
		return nil, errors.New("mailer: host is required")
	}
	if cfg.Port <= 0 {
		return nil, errors.New("mailer: port must be positive")
	}
	if _, err := mail.ParseAddress(cfg.From); err != nil {
		return nil, fmt.Errorf("mailer: bad from address: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Mailer{cfg: cfg, sender: email.NewSender(cfg.waffle()), logger: logger}, nil
}

// Send delivers e.
func (m *Mailer) Send(ctx context.Context, e Email) error {
	if err := checkHeaders(e); err != nil {
		return err
	}
	to, err := mail.ParseAddress(e.To)
	if err != nil {
		return fmt.Errorf("mailer: bad recipient: %w", err)
	}

	start := time.Now()
	if len(e.Attachments) == 0 {
		err = m.sender.Send(ctx, email.Message{
			To:       []string{to.Address},
			Subject:  e.Subject,
			TextBody: e.TextBody,
			HTMLBody: e.HTMLBody,
		})
	} else {
		err = m.sendWithAttachments(ctx, to.Address, e)
	}
	if err != nil {
		m.logger.Warn("smtp send failed",
			zap.String("to", to.Address),
			zap.String("subject", e.Subject),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return err
	}
	m.logger.Info("email sent",
		zap.String("to", to.Address),
		zap.Int("attachments", len(e.Attachments)),
		zap.Duration("duration", time.Since(start)))
	return nil
}

func (m *Mailer) sendWithAttachments(ctx context.Context, to string, e Email) error {
	msg, err := Compose(m.cfg.From, m.cfg.FromName, to, e)
	if err != nil {
		return err
	}

	wc := m.cfg.waffle()
	opts := []gomail.Option{
		gomail.WithPort(wc.Port),
		gomail.WithTimeout(wc.Timeout),
	}
	if wc.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(wc.Username),
			gomail.WithPassword(wc.Password))
	}
	if wc.UseSSL {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPortPolicy(gomail.TLSMandatory))
	}

	c, err := gomail.NewClient(wc.Host, opts...)
	if err != nil {
		return fmt.Errorf("mailer: smtp client: %w", err)
	}
	if err := c.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}
	return nil
}

// Compose builds the MIME message for e. Text and HTML bodies become
// alternatives; attachments are added as base64 parts.
func Compose(from, fromName, to string, e Email) (*gomail.Msg, error) {
	if err := checkHeaders(e); err != nil {
		return nil, err
	}
	msg := gomail.NewMsg()
	if fromName != "" {
		if err := msg.FromFormat(fromName, from); err != nil {
			return nil, fmt.Errorf("mailer: bad from address: %w", err)
		}
	} else if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("mailer: bad from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("mailer: bad recipient: %w", err)
	}
	msg.Subject(e.Subject)

	switch {
	case e.TextBody != "" && e.HTMLBody != "":
		msg.SetBodyString(gomail.TypeTextPlain, e.TextBody)
		msg.AddAlternativeString(gomail.TypeTextHTML, e.HTMLBody)
	case e.HTMLBody != "":
		msg.SetBodyString(gomail.TypeTextHTML, e.HTMLBody)
	default:
		msg.SetBodyString(gomail.TypeTextPlain, e.TextBody)
	}

	for _, a := range e.Attachments {
		var fopts []gomail.FileOption
		if a.ContentType != "" {
			fopts = append(fopts, gomail.WithFileContentType(gomail.ContentType(a.ContentType)))
		}
		if err := msg.AttachReader(a.Filename, bytes.NewReader(a.Data), fopts...); err != nil {
			return nil, fmt.Errorf("mailer: attach %s: %w", a.Filename, err)
		}
	}
	return msg, nil
}

func checkHeaders(e Email) error {
	if strings.ContainsAny(e.To+e.Subject, "\r\n") {
		return errors.New("mailer: header values must not contain newlines")
	}
	return nil
}
