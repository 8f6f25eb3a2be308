// internal/app/features/login/handler.go
package login

import (
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/aftershift/internal/app/features/errors"
	"github.com/dalemusser/aftershift/internal/app/store/audit"
	"github.com/dalemusser/aftershift/internal/app/system/auditlog"
	"github.com/dalemusser/aftershift/internal/app/system/auth"
	"github.com/dalemusser/aftershift/internal/app/system/authz"
	"github.com/dalemusser/aftershift/internal/app/system/ratelimit"
	"github.com/dalemusser/aftershift/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AdminCredential is the single configured admin account.
type AdminCredential struct {
	Email        string
	Name         string
	PasswordHash string // bcrypt; empty disables password sign-in
}

// errInvalid is shown for both unknown emails and wrong passwords.
const errInvalid = "Invalid email or password."

type Handler struct {
	Log           *zap.Logger
	SessionMgr    *auth.SessionManager
	ErrLog        *uierrors.ErrorLogger
	AuditLog      *auditlog.Logger
	Limiter       *ratelimit.LoginLimiter
	Admin         AdminCredential
	GoogleEnabled bool // True if Google OAuth is configured
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Email         string
	ReturnURL     string
	GoogleEnabled bool
	PasswordLogin bool
}

func NewHandler(
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	limiter *ratelimit.LoginLimiter,
	admin AdminCredential,
	googleEnabled bool,
	logger *zap.Logger,
) *Handler {
	if limiter == nil {
		limiter = ratelimit.NewLoginLimiter()
	}
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	return &Handler{
		Log:           logger,
		SessionMgr:    sessionMgr,
		ErrLog:        errLog,
		AuditLog:      audit,
		Limiter:       limiter,
		Admin:         admin,
		GoogleEnabled: googleEnabled,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ret := query.Get(r, "return")
	if authz.IsAdmin(r) {
		http.Redirect(w, r, urlutil.SafeReturn(ret, "", "/admin"), http.StatusSeeOther)
		return
	}
	h.render(w, r, "", "", ret)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, errMsg, email, ret string) {
	data := loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Admin Login", "/"),
		Email:         email,
		ReturnURL:     ret,
		GoogleEnabled: h.GoogleEnabled,
		PasswordLogin: h.Admin.PasswordHash != "",
	}
	if errMsg != "" {
		data.SetError(errMsg)
	}
	templates.Render(w, r, "login", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")
	ret := strings.TrimSpace(r.FormValue("return"))

	if email == "" || password == "" {
		h.render(w, r, "Please enter your email and password.", email, ret)
		return
	}

	if ok, msg := h.Limiter.Check(r, email); !ok {
		h.AuditLog.LoginFailed(r.Context(), r, email, "password", audit.EventLoginFailedRateLimit, "rate limited")
		w.WriteHeader(http.StatusTooManyRequests)
		h.render(w, r, msg, email, ret)
		return
	}

	if err := h.verify(email, password); err != nil {
		event := audit.EventLoginFailedWrongPassword
		if errors.Is(err, errUnknownEmail) {
			event = audit.EventLoginFailedUnknownEmail
		}
		h.AuditLog.LoginFailed(r.Context(), r, email, "password", event, err.Error())
		h.render(w, r, errInvalid, email, ret)
		return
	}

	h.Limiter.ResetEmail(email)
	h.signIn(w, r, email, ret)
}

var (
	errUnknownEmail  = errors.New("unknown email")
	errWrongPassword = errors.New("wrong password")
	errNoPassword    = errors.New("password sign-in disabled")
)

func (h *Handler) verify(email, password string) error {
	if h.Admin.PasswordHash == "" {
		return errNoPassword
	}
	if email != h.Admin.Email {
		// Unknown emails still pay for one bcrypt comparison.
		_ = bcrypt.CompareHashAndPassword([]byte(h.Admin.PasswordHash), []byte(password+email))
		return errUnknownEmail
	}
	if bcrypt.CompareHashAndPassword([]byte(h.Admin.PasswordHash), []byte(password)) != nil {
		return errWrongPassword
	}
	return nil
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, email, ret string) {
	name := h.Admin.Name
	if name == "" {
		name = "Administrator"
	}
	u := auth.SessionUser{
		ID:       email,
		Name:     name,
		Email:    email,
		Role:     authz.RoleAdmin,
		Provider: "password",
	}
	if err := h.SessionMgr.SignIn(w, r, u); err != nil {
		h.ErrLog.LogServerError(w, r, "session save failed", err, "Unable to sign you in right now.", "/login")
		return
	}
	h.AuditLog.LoginSuccess(r.Context(), r, email, "password")
	http.Redirect(w, r, urlutil.SafeReturn(ret, "", "/admin"), http.StatusSeeOther)
}
