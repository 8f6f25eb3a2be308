// internal/app/system/authz/roles.go
package authz

// Roles known to the app. Only admins sign in; everyone else browsing
// the marketing site is a visitor.
const (
	RoleAdmin   = "admin"
	RoleVisitor = "visitor"
)
