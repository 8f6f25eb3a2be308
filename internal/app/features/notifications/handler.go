// internal/app/features/notifications/handler.go
package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/aftershift/internal/app/features/errors"
	"github.com/dalemusser/aftershift/internal/app/store/audit"
	"github.com/dalemusser/aftershift/internal/app/system/auditlog"
	"github.com/dalemusser/aftershift/internal/app/system/authz"
	"github.com/dalemusser/aftershift/internal/app/system/timeouts"
	"github.com/dalemusser/aftershift/internal/app/system/viewdata"
	"github.com/dalemusser/aftershift/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Feed is the shared notification state the pages act on.
type Feed interface {
	Items() []models.Notification
	Unread() int
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
	Remove(ctx context.Context, id string) error
}

type Handler struct {
	Feed     Feed
	Stream   http.Handler // websocket endpoint; nil disables /ws
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(feed Feed, stream http.Handler, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Feed:     feed,
		Stream:   stream,
		ErrLog:   errLog,
		AuditLog: audit,
		Log:      logger,
	}
}

type listData struct {
	viewdata.BaseVM
	Type       string
	UnreadOnly bool
	Types      []string
	Items      []models.Notification
}

var allTypes = []string{
	models.NotifyCouponExpiry,
	models.NotifyUsageAlert,
	models.NotifyDepartmentAlert,
	models.NotifyAchievement,
	models.NotifySystem,
}

// Filter narrows items to one type and/or unread entries, keeping order.
func Filter(items []models.Notification, typ string, unreadOnly bool) []models.Notification {
	out := make([]models.Notification, 0, len(items))
	for _, n := range items {
		if typ != "" && n.Type != typ {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out
}

// ServeList handles GET /admin/notifications.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	data := listData{
		BaseVM:     viewdata.NewBaseVM(r, "Notifications", "/admin"),
		Type:       query.Get(r, "type"),
		UnreadOnly: query.Get(r, "unread") == "1",
		Types:      allTypes,
	}
	data.Items = Filter(h.Feed.Items(), data.Type, data.UnreadOnly)

	if r.Header.Get("HX-Request") == "true" && r.Header.Get("HX-Target") == "notification-list" {
		templates.RenderSnippet(w, "notifications_items", data)
		return
	}
	templates.Render(w, r, "notifications_list", data)
}

// ServeCount handles GET /admin/notifications/count for the nav badge.
func (h *Handler) ServeCount(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(map[string]int{"unread": h.Feed.Unread()})
}

// HandleRead handles POST /admin/notifications/{id}/read.
func (h *Handler) HandleRead(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	h.act(w, r, audit.EventNotificationRead, id, func(ctx context.Context) error {
		return h.Feed.MarkRead(ctx, id)
	}, "Failed to mark notification as read.")
}

// HandleReadAll handles POST /admin/notifications/read-all.
func (h *Handler) HandleReadAll(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, audit.EventNotificationsRead, "all", h.Feed.MarkAllRead, "Failed to mark notifications as read.")
}

// HandleDelete handles POST /admin/notifications/{id}/delete.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	h.act(w, r, audit.EventNotificationDelete, id, func(ctx context.Context) error {
		return h.Feed.Remove(ctx, id)
	}, "Failed to delete notification.")
}

// act runs one backend mutation, audits it, and sends the browser back
// to the list (HX-Redirect for HTMX).
func (h *Handler) act(w http.ResponseWriter, r *http.Request, event, subject string, fn func(context.Context) error, userMsg string) {
	if subject == "" {
		h.ErrLog.HTMXLogBadRequest(w, r, "missing notification id", nil, "Invalid notification.", "/admin/notifications")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	_, _, email, _ := authz.UserCtx(r)
	if err := fn(ctx); err != nil {
		h.AuditLog.AdminFailed(ctx, r, email, event, subject, err.Error())
		h.ErrLog.HTMXLogServerError(w, r, "notification action failed", err, userMsg, "/admin/notifications")
		return
	}
	h.AuditLog.Admin(ctx, r, email, event, subject, nil)

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/admin/notifications")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/admin/notifications", http.StatusSeeOther)
}

// ServeWS upgrades to the live notification stream.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	if h.Stream == nil {
		http.NotFound(w, r)
		return
	}
	h.Stream.ServeHTTP(w, r)
}
