// internal/app/features/activity/handler.go
package activity

import (
	"context"
	"time"

	uierrors "github.com/dalemusser/aftershift/internal/app/features/errors"
	"github.com/dalemusser/aftershift/internal/app/store/audit"
	"github.com/dalemusser/aftershift/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Events is the read side of the audit store. *audit.Store implements it.
type Events interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error)
	CountByFilter(ctx context.Context, filter audit.QueryFilter) (int64, error)
	Each(ctx context.Context, filter audit.QueryFilter, fn func(audit.Event) error) error
	EventTypes(ctx context.Context) ([]string, error)
}

// Handler owns the admin activity log: the filtered list and the
// compressed export.
type Handler struct {
	Events   Events
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Log      *zap.Logger
	Now      func() time.Time
}

// NewHandler creates a new activity Handler.
func NewHandler(events Events, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Events:   events,
		ErrLog:   errLog,
		AuditLog: audit,
		Log:      logger,
		Now:      time.Now,
	}
}
