// internal/app/features/employees/handler.go
package employees

import (
	"net/http"
	"strconv"

	uierrors "github.com/dalemusser/aftershift/internal/app/features/errors"
	"github.com/dalemusser/aftershift/internal/app/system/apiclient"
	"github.com/dalemusser/aftershift/internal/app/system/auditlog"
	"github.com/dalemusser/aftershift/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the employee roster screens. All data lives in the
// backend API.
type Handler struct {
	API      *apiclient.Client
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(api *apiclient.Client, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		API:      api,
		ErrLog:   errLog,
		AuditLog: audit,
		Log:      logger,
	}
}

// Flash codes carried on the redirect back to the list.
var flashes = map[string]string{
	"created":  "Employee added successfully!",
	"updated":  "Employee updated successfully!",
	"deleted":  "Employee deleted successfully!",
	"imported": "Import finished.",
}

func actor(r *http.Request) string {
	_, _, email, _ := authz.UserCtx(r)
	return email
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}
