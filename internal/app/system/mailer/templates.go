// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/dalemusser/aftershift/internal/app/system/htmlsanitize"
)

// DefaultReplySubject is used when a general reply has no subject.
const DefaultReplySubject = "Reply from Support Team"

// ReplySubject picks the subject for a reply. Appointment replies always
// name the property.
func ReplySubject(appointment bool, subject, property string) string {
	if appointment {
		return fmt.Sprintf("Reply regarding your appointment about %s", strings.TrimSpace(property))
	}
	if s := strings.TrimSpace(subject); s != "" {
		return s
	}
	return DefaultReplySubject
}

// ReplyEmailData holds data for the reply email templates.
type ReplyEmailData struct {
	SiteName    string
	To          string
	Subject     string
	Message     string // markdown; single newlines are kept
	Appointment bool
	Property    string
	When        string // formatted appointment date/time, optional
	SentAt      time.Time
	Attachments []Attachment
}

// BuildReplyEmail creates a reply email with both HTML and text bodies.
func BuildReplyEmail(data ReplyEmailData) Email {
	return Email{
		To:          data.To,
		Subject:     ReplySubject(data.Appointment, data.Subject, data.Property),
		TextBody:    buildReplyText(data),
		HTMLBody:    buildReplyHTML(data),
		Attachments: data.Attachments,
	}
}

func sentOn(t time.Time) string { return t.Format("Jan 02, 2006, 03:04 PM") }

func buildReplyText(data ReplyEmailData) string {
	var buf bytes.Buffer
	if data.Appointment {
		fmt.Fprintf(&buf, "Message from %s:\n", data.SiteName)
		if data.When != "" {
			fmt.Fprintf(&buf, "Appointment: %s\n", data.When)
		}
		buf.WriteString("\n")
	}
	buf.WriteString(data.Message)
	fmt.Fprintf(&buf, "\n\nSent on: %s\n", sentOn(data.SentAt))
	return buf.String()
}

var replyTmpl = template.Must(template.New("reply").Parse(replyHTMLTemplate))

func buildReplyHTML(data ReplyEmailData) string {
	vm := struct {
		ReplyEmailData
		Body   template.HTML
		SentOn string
	}{data, htmlsanitize.Markdown(data.Message), sentOn(data.SentAt)}
	var buf bytes.Buffer
	_ = replyTmpl.Execute(&buf, vm)
	return buf.String()
}

const replyHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.SiteName}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 32px 16px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 560px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 24px 32px; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 20px; font-weight: 600; color: #1e3a8a;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 32px; font-size: 15px; color: #374151; line-height: 1.6;">
              {{if .Appointment}}<p style="margin: 0 0 12px;">Message from {{.SiteName}}:</p>
              {{if .When}}<p style="margin: 0 0 12px; color: #6b7280;">Appointment: {{.When}}</p>{{end}}{{end}}
              {{.Body}}
            </td>
          </tr>
          <tr>
            <td style="padding: 16px 32px; font-size: 12px; color: #777;">Sent on: {{.SentOn}}</td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>
`
