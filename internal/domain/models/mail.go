// internal/domain/models/mail.go
package models

import "time"

// Reply kinds recorded in the sent-mail log.
const (
	ReplyGeneral     = "general"
	ReplyAppointment = "appointment"
)

// MailRecord is a sent reply kept for the admin's sent log.
type MailRecord struct {
	ID          string    `bson:"_id"`
	Kind        string    `bson:"kind"`
	To          string    `bson:"to"`
	Subject     string    `bson:"subject"`
	Property    string    `bson:"property,omitempty"`
	Attachments []string  `bson:"attachments,omitempty"`
	SentBy      string    `bson:"sent_by"`
	Success     bool      `bson:"success"`
	Error       string    `bson:"error,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
}
