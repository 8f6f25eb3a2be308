// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/aftershift/internal/app/store/audit"
	"github.com/dalemusser/aftershift/internal/app/system/apiclient"
	"github.com/dalemusser/aftershift/internal/app/system/auditlog"
	"github.com/dalemusser/aftershift/internal/app/system/couponcal"
	"github.com/dalemusser/aftershift/internal/app/system/mailer"
	"github.com/dalemusser/aftershift/internal/app/system/metrics"
	"github.com/dalemusser/aftershift/internal/app/system/notify"
	"github.com/dalemusser/aftershift/internal/app/system/ratelimit"
	"github.com/dalemusser/aftershift/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
//
// WAFFLE hands DBDeps to each hook by value, so services built in
// Startup live behind the Services pointer allocated in ConnectDB.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Services *Services
}

// Services are the long-lived objects Startup builds and BuildHandler
// and Shutdown use.
type Services struct {
	Metrics  *metrics.Metrics
	API      *apiclient.Client
	Audit    *auditlog.Logger
	Events   *audit.Store
	Center   *notify.Center
	Hub      *notify.Hub
	Mail     mailer.Sender // nil when SMTP is not configured
	Holidays couponcal.Holidays

	LoginLimiter  *ratelimit.LoginLimiter
	PublicLimiter *ratelimit.Limiter

	Poller  *workers.NotifyPoller
	Cleanup *workers.LimiterCleanup
}
