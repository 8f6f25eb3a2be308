// internal/app/features/contact/handler.go
package contact

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/aftershift/internal/app/system/apiclient"
	"github.com/dalemusser/aftershift/internal/app/system/timeouts"
	"github.com/dalemusser/aftershift/internal/app/system/viewdata"
	"github.com/dalemusser/aftershift/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/validate"
	"go.uber.org/zap"
)

// Options for the select inputs on the form.
var (
	inquiryTypes     = []string{"Buying", "Renting", "Investment", "Site Visit", "Other"}
	awarenessSources = []string{"Facebook", "Google", "Referral", "Billboard", "Event", "Other"}
)

type pageData struct {
	viewdata.BaseVM
	Form             models.ContactMessage
	InquiryTypes     []string
	AwarenessSources []string
}

type Handler struct {
	API *apiclient.Client
	Log *zap.Logger
}

func NewHandler(api *apiclient.Client, logger *zap.Logger) *Handler {
	return &Handler{
		API: api,
		Log: logger,
	}
}

func (h *Handler) newPage(r *http.Request, form models.ContactMessage) pageData {
	return pageData{
		BaseVM:           viewdata.NewBaseVM(r, "Contact Us", "/"),
		Form:             form,
		InquiryTypes:     inquiryTypes,
		AwarenessSources: awarenessSources,
	}
}

// ServeContact handles GET /contact.
func (h *Handler) ServeContact(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "contact", h.newPage(r, models.ContactMessage{}))
}

// HandleContact handles POST /contact. Every field is required.
func (h *Handler) HandleContact(w http.ResponseWriter, r *http.Request) {
	form := readForm(r)
	data := h.newPage(r, form)

	if msg := validateForm(form); msg != "" {
		data.SetError(msg)
		templates.Render(w, r, "contact", data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.API.ContactUs(ctx, form); err != nil {
		h.Log.Warn("contact-us submit failed", zap.Error(err))
		data.SetError("Error submitting form: " + apiclient.Message(err, "please try again."))
		templates.Render(w, r, "contact", data)
		return
	}

	data.Form = models.ContactMessage{}
	data.Success = "Form submitted successfully!"
	templates.Render(w, r, "contact", data)
}

func readForm(r *http.Request) models.ContactMessage {
	v := func(k string) string { return strings.TrimSpace(r.FormValue(k)) }
	return models.ContactMessage{
		FirstName:       v("firstName"),
		LastName:        v("lastName"),
		Email:           strings.ToLower(v("email")),
		MobileNumber:    v("mobileNumber"),
		Country:         v("country"),
		Property:        v("property"),
		InquiryType:     v("inquiryType"),
		AwarenessSource: v("awarenessSource"),
		Message:         v("message"),
	}
}

func validateForm(f models.ContactMessage) string {
	for _, s := range []string{
		f.FirstName, f.LastName, f.Email, f.MobileNumber, f.Country,
		f.Property, f.InquiryType, f.AwarenessSource, f.Message,
	} {
		if s == "" {
			return "Please fill out all fields."
		}
	}
	if !validate.SimpleEmailValid(f.Email) {
		return "Please enter a valid email address."
	}
	return ""
}
