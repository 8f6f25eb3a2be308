// internal/app/features/replies/handler.go
package replies

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/aftershift/internal/app/features/errors"
	"github.com/dalemusser/aftershift/internal/app/store/audit"
	"github.com/dalemusser/aftershift/internal/app/system/auditlog"
	"github.com/dalemusser/aftershift/internal/app/system/authz"
	"github.com/dalemusser/aftershift/internal/app/system/mailer"
	"github.com/dalemusser/aftershift/internal/app/system/viewdata"
	"github.com/dalemusser/aftershift/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/validate"
	"go.uber.org/zap"
)

// MailLog records sent replies. *maillog.Store implements it.
type MailLog interface {
	Record(ctx context.Context, rec models.MailRecord) (models.MailRecord, error)
	Recent(ctx context.Context, to string, limit int64) ([]models.MailRecord, error)
}

type Handler struct {
	Mail     mailer.Sender
	Sent     MailLog
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Log      *zap.Logger
	Now      func() time.Time
}

func NewHandler(mail mailer.Sender, sent MailLog, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Mail:     mail,
		Sent:     sent,
		ErrLog:   errLog,
		AuditLog: audit,
		Log:      logger,
		Now:      time.Now,
	}
}

// Reply is one outgoing reply before attachments are decoded.
type Reply struct {
	Kind        string
	To          string
	Subject     string
	Message     string
	Property    string
	When        string
	Attachments []mailer.Attachment
}

// Validation messages.
const (
	msgBadRecipient = "A valid recipient email is required"
	msgNoMessage    = "Message is required"
	msgNoProperty   = "Property name is required for appointment replies"
	msgNotConfig    = "Email is not configured"
	msgSendFailed   = "Failed to send email"
)

// errInvalid marks caller mistakes (400) as opposed to delivery failures.
type errInvalid struct{ msg string }

func (e errInvalid) Error() string { return e.msg }

// Validate returns the first problem with rp, or "".
func (rp Reply) Validate() string {
	if !validate.SimpleEmailValid(rp.To) {
		return msgBadRecipient
	}
	if strings.TrimSpace(rp.Message) == "" {
		return msgNoMessage
	}
	if rp.Kind == models.ReplyAppointment && strings.TrimSpace(rp.Property) == "" {
		return msgNoProperty
	}
	return ""
}

// FormatAppointment renders an appointment timestamp the way the reply
// shows it. Unparseable values are returned trimmed.
func FormatAppointment(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("January 02, 2006 at 3:04 PM")
		}
	}
	return raw
}

// send validates, delivers, logs and audits one reply. A returned
// errInvalid is the caller's fault.
func (h *Handler) send(ctx context.Context, r *http.Request, rp Reply) error {
	rp.To = strings.ToLower(strings.TrimSpace(rp.To))
	if msg := rp.Validate(); msg != "" {
		return errInvalid{msg}
	}
	if err := mailer.CheckSize(rp.Attachments); err != nil {
		return errInvalid{err.Error()}
	}
	if h.Mail == nil {
		return errors.New(msgNotConfig)
	}

	email := mailer.BuildReplyEmail(mailer.ReplyEmailData{
		SiteName:    viewdata.SiteName(),
		To:          rp.To,
		Subject:     rp.Subject,
		Message:     rp.Message,
		Appointment: rp.Kind == models.ReplyAppointment,
		Property:    strings.TrimSpace(rp.Property),
		When:        FormatAppointment(rp.When),
		SentAt:      h.Now(),
		Attachments: rp.Attachments,
	})

	_, _, actor, _ := authz.UserCtx(r)
	rec := models.MailRecord{
		Kind:     rp.Kind,
		To:       rp.To,
		Subject:  email.Subject,
		Property: strings.TrimSpace(rp.Property),
		SentBy:   actor,
	}
	for _, a := range rp.Attachments {
		rec.Attachments = append(rec.Attachments, a.Filename)
	}

	sendErr := h.Mail.Send(ctx, email)
	rec.Success = sendErr == nil
	if sendErr != nil {
		rec.Error = sendErr.Error()
	}
	if h.Sent != nil {
		if _, err := h.Sent.Record(ctx, rec); err != nil {
			h.Log.Warn("record sent reply failed", zap.Error(err))
		}
	}

	if sendErr != nil {
		h.Log.Error("send reply failed", zap.Error(sendErr), zap.String("to", rp.To), zap.String("kind", rp.Kind))
		h.AuditLog.AdminFailed(ctx, r, actor, audit.EventReplySent, rp.To, sendErr.Error())
		return sendErr
	}
	h.AuditLog.Admin(ctx, r, actor, audit.EventReplySent, rp.To, map[string]string{
		"kind":    rp.Kind,
		"subject": email.Subject,
	})
	return nil
}
