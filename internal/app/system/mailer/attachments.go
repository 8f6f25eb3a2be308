// internal/app/system/mailer/attachments.go
package mailer

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// MaxAttachmentBytes caps the combined size of a message's attachments.
const MaxAttachmentBytes = 25 * 1024 * 1024

// ErrAttachmentsTooLarge is returned when attachments exceed the cap.
var ErrAttachmentsTooLarge = errors.New("Total attachment size exceeds 25MB limit")

// EncodedAttachment is an attachment as posted by a browser: base64
// content plus the file's name and type.
type EncodedAttachment struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
	Size    int64  `json:"size,omitempty"`
}

// EstimatedSize approximates the decoded size of the attachments from
// the base64 length, falling back to the declared size.
func EstimatedSize(atts []EncodedAttachment) float64 {
	var total float64
	for _, a := range atts {
		if a.Content != "" {
			total += float64(len(a.Content)) * 0.75
		} else {
			total += float64(a.Size)
		}
	}
	return total
}

// DecodeAttachments checks the size cap and decodes each attachment.
// A "data:<type>;base64," prefix is accepted.
func DecodeAttachments(atts []EncodedAttachment) ([]Attachment, error) {
	if EstimatedSize(atts) > MaxAttachmentBytes {
		return nil, ErrAttachmentsTooLarge
	}
	out := make([]Attachment, 0, len(atts))
	for _, a := range atts {
		content := a.Content
		if strings.HasPrefix(content, "data:") {
			if i := strings.Index(content, ","); i >= 0 {
				content = content[i+1:]
			}
		}
		data, err := base64.StdEncoding.DecodeString(content)
		if err != nil {
			return nil, fmt.Errorf("attachment %q: %w", a.Name, err)
		}
		out = append(out, Attachment{Filename: a.Name, ContentType: a.Type, Data: data})
	}
	return out, nil
}

// CheckSize enforces the cap on already-decoded attachments.
func CheckSize(atts []Attachment) error {
	var total int
	for _, a := range atts {
		total += len(a.Data)
	}
	if total > MaxAttachmentBytes {
		return ErrAttachmentsTooLarge
	}
	return nil
}
