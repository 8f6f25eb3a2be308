// internal/app/features/replies/form.go
package replies

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dalemusser/aftershift/internal/app/system/mailer"
	"github.com/dalemusser/aftershift/internal/app/system/timeouts"
	"github.com/dalemusser/aftershift/internal/app/system/viewdata"
	"github.com/dalemusser/aftershift/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// SentLogLimit is how many sent replies the page lists.
const SentLogLimit = 25

type formData struct {
	viewdata.BaseVM
	Kind     string
	To       string
	Subject  string
	Message  string
	Property string
	When     string
	Sent     []models.MailRecord
	LogErr   string
}

func (h *Handler) page(ctx context.Context, r *http.Request) formData {
	data := formData{
		BaseVM: viewdata.NewBaseVM(r, "Replies", "/admin"),
		Kind:   models.ReplyGeneral,
		To:     query.Get(r, "to"),
	}
	if query.Get(r, "kind") == models.ReplyAppointment {
		data.Kind = models.ReplyAppointment
	}
	data.Property = query.Get(r, "property")

	if h.Sent != nil {
		sent, err := h.Sent.Recent(ctx, "", SentLogLimit)
		if err != nil {
			h.Log.Warn("load sent replies failed", zap.Error(err))
			data.LogErr = "Could not load the sent log."
		}
		data.Sent = sent
	}
	return data
}

// ServeForm handles GET /admin/replies. ?to=, ?kind= and ?property=
// prefill the form when linking from an inquiry.
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	data := h.page(ctx, r)
	if query.Get(r, "sent") == "1" {
		data.Success = "Reply sent."
	}
	templates.Render(w, r, "replies", data)
}

// HandleForm handles the multipart POST /admin/replies.
func (h *Handler) HandleForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, mailer.MaxAttachmentBytes+1<<20)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.renderError(w, r, formData{}, mailer.ErrAttachmentsTooLarge.Error())
			return
		}
		h.ErrLog.LogBadRequest(w, r, "parse reply form failed", err, "Invalid form submission.", "/admin/replies")
		return
	}

	rp := Reply{
		Kind:     models.ReplyGeneral,
		To:       r.FormValue("to"),
		Subject:  strings.TrimSpace(r.FormValue("subject")),
		Message:  r.FormValue("message"),
		Property: r.FormValue("property"),
		When:     r.FormValue("when"),
	}
	if r.FormValue("kind") == models.ReplyAppointment {
		rp.Kind = models.ReplyAppointment
	}
	keep := formData{Kind: rp.Kind, To: rp.To, Subject: rp.Subject, Message: rp.Message, Property: rp.Property, When: rp.When}

	atts, err := readUploads(r)
	if err != nil {
		h.renderError(w, r, keep, err.Error())
		return
	}
	rp.Attachments = atts

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.send(ctx, r, rp); err != nil {
		var inv errInvalid
		if errors.As(err, &inv) {
			h.renderError(w, r, keep, inv.msg)
			return
		}
		h.renderError(w, r, keep, msgSendFailed+": "+err.Error())
		return
	}
	http.Redirect(w, r, "/admin/replies?sent=1", http.StatusSeeOther)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, keep formData, msg string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	data := h.page(ctx, r)
	data.Kind, data.To, data.Subject, data.Message = keep.Kind, keep.To, keep.Subject, keep.Message
	data.Property, data.When = keep.Property, keep.When
	if data.Kind == "" {
		data.Kind = models.ReplyGeneral
	}
	data.SetError(msg)
	templates.Render(w, r, "replies", data)
}

func readUploads(r *http.Request) ([]mailer.Attachment, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var out []mailer.Attachment
	for _, fh := range r.MultipartForm.File["attachments"] {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("attachment %q: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("attachment %q: %w", fh.Filename, err)
		}
		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = http.DetectContentType(data)
		}
		out = append(out, mailer.Attachment{Filename: fh.Filename, ContentType: ct, Data: data})
	}
	return out, mailer.CheckSize(out)
}
