// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/aftershift/internal/app/resources"
	"github.com/dalemusser/aftershift/internal/app/store/audit"
	"github.com/dalemusser/aftershift/internal/app/system/apiclient"
	"github.com/dalemusser/aftershift/internal/app/system/auditlog"
	"github.com/dalemusser/aftershift/internal/app/system/couponcal"
	"github.com/dalemusser/aftershift/internal/app/system/mailer"
	"github.com/dalemusser/aftershift/internal/app/system/metrics"
	"github.com/dalemusser/aftershift/internal/app/system/notify"
	"github.com/dalemusser/aftershift/internal/app/system/ratelimit"
	"github.com/dalemusser/aftershift/internal/app/system/timeouts"
	"github.com/dalemusser/aftershift/internal/app/system/viewdata"
	"github.com/dalemusser/aftershift/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

const (
	notifySweepInterval  = 5 * time.Minute
	limiterCleanupPeriod = 10 * time.Minute
	limiterMaxIdle       = 30 * time.Minute
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// It registers shared templates, builds the backend client and the
// notification center, and starts the background workers.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Services == nil {
		return fmt.Errorf("startup: DBDeps.Services is nil")
	}
	svc := deps.Services

	resources.LoadSharedTemplates()
	viewdata.Init(appCfg.SiteName)
	timeouts.Configure(timeouts.Config{Medium: appCfg.APITimeout})

	svc.Metrics = metrics.New()

	api, err := apiclient.New(apiclient.Config{
		BaseURL:       appCfg.APIBaseURL,
		Timeout:       appCfg.APITimeout,
		RatePerSecond: appCfg.APIRatePerSecond,
		Burst:         appCfg.APIBurst,
		Metrics:       apiclient.NewMetrics(svc.Metrics.Registry),
	}, logger.Named("backend"))
	if err != nil {
		return err
	}
	svc.API = api

	svc.Events = audit.New(deps.MongoDatabase)
	svc.Audit = auditlog.New(svc.Events, logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	holidays, err := couponcal.LoadHolidays(appCfg.HolidaysFile)
	if err != nil {
		return err
	}
	svc.Holidays = holidays

	svc.Mail = buildMailer(appCfg, logger)

	// Notifications are polled once for the whole server and pushed to
	// every connected admin browser.
	svc.Hub = notify.NewHub(nil, logger.Named("notify"))
	svc.Center = notify.NewCenter(api, svc.Hub, logger.Named("notify"))
	viewdata.SetUnreadCounter(svc.Center.Unread)

	svc.LoginLimiter = ratelimit.NewLoginLimiter()
	svc.PublicLimiter = ratelimit.New(10, time.Minute)

	svc.Poller = workers.NewNotifyPoller(svc.Center, logger.Named("notify"), appCfg.NotifyPollInterval, notifySweepInterval)
	svc.Poller.Start()
	svc.Cleanup = workers.NewLimiterCleanup(logger, limiterCleanupPeriod, limiterMaxIdle, svc.LoginLimiter, svc.PublicLimiter)
	svc.Cleanup.Start()

	logger.Info("aftershift started",
		zap.String("api_base_url", appCfg.APIBaseURL),
		zap.Duration("notify_poll_interval", appCfg.NotifyPollInterval),
		zap.Bool("mail_enabled", svc.Mail != nil),
		zap.Bool("google_enabled", appCfg.GoogleEnabled()),
		zap.Int("holidays", len(holidays)))
	return nil
}

// buildMailer returns nil when SMTP is not configured or invalid; the
// replies screen then reports that email is unavailable.
func buildMailer(appCfg AppConfig, logger *zap.Logger) mailer.Sender {
	if appCfg.MailSMTPHost == "" {
		logger.Info("SMTP not configured; replies disabled")
		return nil
	}
	m, err := mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		User:     appCfg.MailSMTPUser,
		Pass:     appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
		Timeout:  timeouts.Long(),
	}, logger.Named("mailer"))
	if err != nil {
		logger.Warn("mailer disabled", zap.Error(err))
		return nil
	}
	return m
}
