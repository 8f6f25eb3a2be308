// internal/app/features/replies/api.go
package replies

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/aftershift/internal/app/system/mailer"
	"github.com/dalemusser/aftershift/internal/app/system/timeouts"
	"github.com/dalemusser/aftershift/internal/domain/models"
)

// maxJSONBody leaves room for base64 overhead on top of the
// attachment cap.
const maxJSONBody = mailer.MaxAttachmentBytes*4/3 + 1<<20

type replyRequest struct {
	To          string                     `json:"to"`
	Subject     string                     `json:"subject"`
	Message     string                     `json:"message"`
	Attachments []mailer.EncodedAttachment `json:"attachments"`
}

type appointmentRequest struct {
	To                  string                     `json:"to"`
	AppointmentDateTime string                     `json:"appointmentDateTime"`
	Message             string                     `json:"message"`
	PropertyName        string                     `json:"propertyName"`
	Attachments         []mailer.EncodedAttachment `json:"attachments"`
}

type replyResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// HandleSendJSON handles POST /admin/replies/send with a JSON body.
func (h *Handler) HandleSendJSON(w http.ResponseWriter, r *http.Request) {
	var req replyRequest
	if !decode(w, r, &req) {
		return
	}
	h.respond(w, r, Reply{
		Kind:    models.ReplyGeneral,
		To:      req.To,
		Subject: req.Subject,
		Message: req.Message,
	}, req.Attachments)
}

// HandleSendAppointmentJSON handles POST /admin/replies/send-appointment.
func (h *Handler) HandleSendAppointmentJSON(w http.ResponseWriter, r *http.Request) {
	var req appointmentRequest
	if !decode(w, r, &req) {
		return
	}
	h.respond(w, r, Reply{
		Kind:     models.ReplyAppointment,
		To:       req.To,
		Message:  req.Message,
		Property: req.PropertyName,
		When:     req.AppointmentDateTime,
	}, req.Attachments)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeJSON(w, http.StatusBadRequest, replyResponse{Error: mailer.ErrAttachmentsTooLarge.Error()})
			return false
		}
		writeJSON(w, http.StatusBadRequest, replyResponse{Error: "Invalid JSON body"})
		return false
	}
	return true
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, rp Reply, encoded []mailer.EncodedAttachment) {
	atts, err := mailer.DecodeAttachments(encoded)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, replyResponse{Error: err.Error()})
		return
	}
	rp.Attachments = atts

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.send(ctx, r, rp); err != nil {
		var inv errInvalid
		if errors.As(err, &inv) {
			writeJSON(w, http.StatusBadRequest, replyResponse{Error: inv.msg})
			return
		}
		msg := err.Error()
		if msg == "" {
			msg = msgSendFailed
		}
		writeJSON(w, http.StatusInternalServerError, replyResponse{Error: msg})
		return
	}
	writeJSON(w, http.StatusOK, replyResponse{Success: true})
}
