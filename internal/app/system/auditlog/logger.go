// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/aftershift/internal/app/store/audit"
	"github.com/dalemusser/aftershift/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for sign-in and sign-out events.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for admin actions (employees, coupons, replies, notifications).
	Admin string
}

// Logger records audit events to MongoDB (via audit.Store) and zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger. store may be nil, in which case
// "db" destinations are skipped.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.Actor != "" {
		fields = append(fields, zap.String("actor", event.Actor))
	}
	if event.Subject != "" {
		fields = append(fields, zap.String("subject", event.Subject))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	}
	if setting == "" {
		setting = "all"
	}
	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if (setting == "all" || setting == "db") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func base(r *http.Request, category, eventType, actor string, success bool) audit.Event {
	return audit.Event{
		Category:  category,
		EventType: eventType,
		Actor:     actor,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   success,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Authentication                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// LoginSuccess logs a successful sign-in.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, email, method string) {
	e := base(r, audit.CategoryAuth, audit.EventLoginSuccess, email, true)
	e.Details = map[string]string{"auth_method": method}
	l.Log(ctx, e)
}

// LoginFailed logs a rejected sign-in. eventType is one of the
// audit.EventLoginFailed* constants.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, email, method, eventType, reason string) {
	e := base(r, audit.CategoryAuth, eventType, email, false)
	e.FailureReason = reason
	e.Details = map[string]string{"auth_method": method}
	l.Log(ctx, e)
}

// Logout logs a sign-out.
func (l *Logger) Logout(ctx context.Context, r *http.Request, email string) {
	l.Log(ctx, base(r, audit.CategoryAuth, audit.EventLogout, email, true))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Admin actions                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// Admin logs a successful admin action on subject.
func (l *Logger) Admin(ctx context.Context, r *http.Request, actor, eventType, subject string, details map[string]string) {
	e := base(r, audit.CategoryAdmin, eventType, actor, true)
	e.Subject = subject
	e.Details = details
	l.Log(ctx, e)
}

// AdminFailed logs an admin action the backend rejected.
func (l *Logger) AdminFailed(ctx context.Context, r *http.Request, actor, eventType, subject, reason string) {
	e := base(r, audit.CategoryAdmin, eventType, actor, false)
	e.Subject = subject
	e.FailureReason = reason
	l.Log(ctx, e)
}

// EmployeesImported logs a bulk import with its outcome counts.
func (l *Logger) EmployeesImported(ctx context.Context, r *http.Request, actor, filename string, created, failed int) {
	l.Admin(ctx, r, actor, audit.EventEmployeesImported, filename, map[string]string{
		"created": strconv.Itoa(created),
		"failed":  strconv.Itoa(failed),
	})
}

// CouponsGenerated logs a generation run. employee is "all" for a
// run across every employee.
func (l *Logger) CouponsGenerated(ctx context.Context, r *http.Request, actor, employee string, month, year, count int) {
	l.Admin(ctx, r, actor, audit.EventCouponsGenerated, employee, map[string]string{
		"month": strconv.Itoa(month),
		"year":  strconv.Itoa(year),
		"count": strconv.Itoa(count),
	})
}
