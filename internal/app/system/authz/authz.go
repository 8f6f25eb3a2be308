// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/aftershift/internal/app/system/auth"
)

// UserCtx returns the user's role (lowercased), name, email and a found
// flag. Without a signed-in user it returns "visitor", "", "", false.
func UserCtx(r *http.Request) (role, name, email string, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok || user == nil {
		return RoleVisitor, "", "", false
	}
	return strings.ToLower(user.Role), user.Name, user.Email, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == RoleAdmin
}

// Actor names the signed-in user for audit records: email when known,
// otherwise the session id.
func Actor(r *http.Request) string {
	user, ok := auth.CurrentUser(r)
	if !ok || user == nil {
		return ""
	}
	if user.Email != "" {
		return user.Email
	}
	return user.ID
}
