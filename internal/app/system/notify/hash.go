// internal/app/system/notify/hash.go
//
// Package notify turns the backend's notification feed into a
// deduplicated, capped, in-memory list for the admin UI and pushes newly
// accepted entries to connected browsers.
package notify

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/aftershift/internal/domain/models"
	"github.com/google/uuid"
)

// hashLen is the number of characters kept from the encoded content.
const hashLen = 16

// Hash returns the content hash used for deduplication: the base64 form
// of "type_title_message_department_employeeid" with every
// non-alphanumeric character removed, truncated to 16 characters.
func Hash(n models.Notification) string {
	emp := ""
	if n.EmployeeID != 0 {
		emp = strconv.FormatInt(n.EmployeeID, 10)
	}
	content := fmt.Sprintf("%s_%s_%s_%s_%s", n.Type, n.Title, n.Message, n.Department, emp)
	enc := base64.StdEncoding.EncodeToString([]byte(content))

	var b strings.Builder
	b.Grow(hashLen)
	for _, r := range enc {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == hashLen {
				break
			}
		}
	}
	return b.String()
}

// Normalize fills defaults on an incoming notification and stamps its hash.
// It reports false for entries without a title, which are dropped.
func Normalize(n models.Notification, now time.Time) (models.Notification, bool) {
	n.Title = strings.TrimSpace(n.Title)
	if n.Title == "" {
		return n, false
	}
	if n.Type == "" {
		n.Type = models.NotifySystem
	}
	if n.Priority == "" {
		n.Priority = models.PriorityMedium
	}
	if n.ID == "" {
		n.ID = strconv.FormatInt(now.UnixMilli(), 10) + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	}
	if n.Timestamp == "" {
		n.Timestamp = now.UTC().Format(time.RFC3339)
	}
	n.Hash = Hash(n)
	return n, true
}
