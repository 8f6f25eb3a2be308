// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"html/template"
	"net/http"
	"sync"

	"github.com/dalemusser/aftershift/internal/app/system/authz"
	"github.com/dalemusser/aftershift/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
//	type employeesData struct {
//	    viewdata.BaseVM
//	    Rows []employeeRow
//	}
//
//	data := employeesData{BaseVM: viewdata.NewBaseVM(r, "Employees", "/admin")}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	IsAdmin    bool
	Role       string
	UserName   string
	UserEmail  string

	// Unread notification count for the admin nav badge.
	Unread int

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	CSRFToken string

	// Form feedback
	Error   template.HTML
	Success string
}

// SetError sets a plain-text error message.
func (b *BaseVM) SetError(msg string) {
	b.Error = template.HTML(template.HTMLEscapeString(msg))
}

var (
	mu            sync.RWMutex
	siteName      = models.DefaultSiteName
	unreadCounter func() int
)

// Init sets the site name shown in page titles and headers.
// Call once at startup.
func Init(name string) {
	mu.Lock()
	defer mu.Unlock()
	if name != "" {
		siteName = name
	}
}

// SetUnreadCounter sets the function that reports the notification
// badge count for admin pages.
func SetUnreadCounter(fn func() int) {
	mu.Lock()
	defer mu.Unlock()
	unreadCounter = fn
}

// SiteName returns the configured site name.
func SiteName() string {
	mu.RLock()
	defer mu.RUnlock()
	return siteName
}

// NewBaseVM creates a fully populated BaseVM for a page.
//   - title: the page title
//   - backDefault: default URL for the back button if none in request
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	role, name, email, signedIn := authz.UserCtx(r)

	mu.RLock()
	vm := BaseVM{
		SiteName:    siteName,
		IsLoggedIn:  signedIn,
		IsAdmin:     signedIn && role == authz.RoleAdmin,
		Role:        role,
		UserName:    name,
		UserEmail:   email,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}
	counter := unreadCounter
	mu.RUnlock()

	if vm.IsAdmin && counter != nil {
		vm.Unread = counter()
	}
	return vm
}
