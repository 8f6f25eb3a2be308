// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"

	activityfeature "github.com/dalemusser/aftershift/internal/app/features/activity"
	authgooglefeature "github.com/dalemusser/aftershift/internal/app/features/authgoogle"
	contactfeature "github.com/dalemusser/aftershift/internal/app/features/contact"
	couponsfeature "github.com/dalemusser/aftershift/internal/app/features/coupons"
	dashboardfeature "github.com/dalemusser/aftershift/internal/app/features/dashboard"
	departmentsfeature "github.com/dalemusser/aftershift/internal/app/features/departments"
	employeesfeature "github.com/dalemusser/aftershift/internal/app/features/employees"
	errorsfeature "github.com/dalemusser/aftershift/internal/app/features/errors"
	healthfeature "github.com/dalemusser/aftershift/internal/app/features/health"
	homefeature "github.com/dalemusser/aftershift/internal/app/features/home"
	loginfeature "github.com/dalemusser/aftershift/internal/app/features/login"
	logoutfeature "github.com/dalemusser/aftershift/internal/app/features/logout"
	notificationsfeature "github.com/dalemusser/aftershift/internal/app/features/notifications"
	publicapifeature "github.com/dalemusser/aftershift/internal/app/features/publicapi"
	repliesfeature "github.com/dalemusser/aftershift/internal/app/features/replies"
	"github.com/dalemusser/aftershift/internal/app/store/maillog"
	"github.com/dalemusser/aftershift/internal/app/store/oauthstate"
	"github.com/dalemusser/aftershift/internal/app/system/auth"
	"github.com/dalemusser/aftershift/internal/app/system/weather"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for Aftershift.
//
// WAFFLE calls this after configuration, DB connections, schema setup
// and Startup have completed. The public marketing site lives at "/",
// the JSON widgets under "/api", and every admin screen under "/admin".
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	svc := deps.Services
	if svc == nil || svc.API == nil {
		return nil, fmt.Errorf("build handler: Startup has not run")
	}

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	csrfMW, err := csrfMiddleware(appCfg.CSRFKey, secure, logger)
	if err != nil {
		return nil, err
	}

	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()
	r.Use(svc.Metrics.Middleware)

	// Ops endpoints sit outside sessions and CSRF.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, svc.API, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", svc.Metrics.Handler())

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public JSON widgets (CORS, no session).
	wx := weather.New(appCfg.WeatherAPIURL, appCfg.WeatherAPIKey, appCfg.APITimeout)
	publicAPIHandler := publicapifeature.NewHandler(svc.API, wx, logger)
	r.Mount("/api", publicapifeature.Routes(publicAPIHandler, appCfg.CORSAllowedOrigins))

	r.Group(func(r chi.Router) {
		// Loads the SessionUser into context if logged in.
		r.Use(sessionMgr.LoadSessionUser)
		r.Use(csrfMW)

		// Error pages
		errorsHandler := errorsfeature.NewHandler()
		r.Get("/forbidden", errorsHandler.Forbidden)
		r.Get("/unauthorized", errorsHandler.Unauthorized)

		// Public site
		homeHandler := homefeature.NewHandler(svc.API, logger)
		r.Mount("/", homefeature.Routes(homeHandler, svc.PublicLimiter.Middleware))

		contactHandler := contactfeature.NewHandler(svc.API, logger)
		r.Mount("/contact", contactfeature.Routes(contactHandler, svc.PublicLimiter.Middleware))

		// Authentication
		loginHandler := loginfeature.NewHandler(sessionMgr, errLog, svc.Audit, svc.LoginLimiter,
			loginfeature.AdminCredential{
				Email:        appCfg.AdminEmail,
				Name:         appCfg.AdminName,
				PasswordHash: appCfg.AdminPasswordHash,
			}, appCfg.GoogleEnabled(), logger)
		r.Mount("/login", loginfeature.Routes(loginHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, svc.Audit, logger)
		r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

		if appCfg.GoogleEnabled() {
			googleHandler := authgooglefeature.NewHandler(sessionMgr, errLog, svc.Audit,
				oauthstate.New(deps.MongoDatabase),
				appCfg.GoogleClientID, appCfg.GoogleClientSecret, "",
				appCfg.AdminGoogleEmails, logger)
			googleHandler.RedirectURL = appCfg.GoogleRedirectURL
			r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))
		}

		// Admin
		r.Route("/admin", func(r chi.Router) {
			dashboardHandler := dashboardfeature.NewHandler(svc.API, logger)
			r.Mount("/", dashboardfeature.Routes(dashboardHandler, sessionMgr))

			employeesHandler := employeesfeature.NewHandler(svc.API, errLog, svc.Audit, logger)
			r.Mount("/employees", employeesfeature.Routes(employeesHandler, sessionMgr))

			couponsHandler := couponsfeature.NewHandler(svc.API, errLog, svc.Audit, svc.Holidays, logger)
			r.Mount("/coupons", couponsfeature.Routes(couponsHandler, sessionMgr))

			departmentsHandler := departmentsfeature.NewHandler(svc.API, logger)
			r.Mount("/analytics/departments", departmentsfeature.Routes(departmentsHandler, sessionMgr))

			notificationsHandler := notificationsfeature.NewHandler(svc.Center, http.HandlerFunc(svc.Hub.ServeWS), errLog, svc.Audit, logger)
			r.Mount("/notifications", notificationsfeature.Routes(notificationsHandler, sessionMgr))

			repliesHandler := repliesfeature.NewHandler(svc.Mail, maillog.New(deps.MongoDatabase), errLog, svc.Audit, logger)
			r.Mount("/replies", repliesfeature.Routes(repliesHandler, sessionMgr))

			activityHandler := activityfeature.NewHandler(svc.Events, errLog, svc.Audit, logger)
			r.Mount("/activity", activityfeature.Routes(activityHandler, sessionMgr))
		})
	})

	return r, nil
}

// csrfMiddleware protects every unsafe request. A blank key is replaced
// with a random one for this process. Outside prod, requests are marked
// plaintext so the Referer check accepts http:// origins.
func csrfMiddleware(key string, secure bool, logger *zap.Logger) (func(http.Handler) http.Handler, error) {
	authKey := []byte(key)
	if len(authKey) == 0 {
		authKey = securecookie.GenerateRandomKey(32)
		if authKey == nil {
			return nil, fmt.Errorf("generate csrf key")
		}
		logger.Warn("csrf_key not set; using a per-process key")
	}

	protect := csrf.Protect(authKey,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("csrf check failed",
				zap.String("path", r.URL.Path),
				zap.Error(csrf.FailureReason(r)))
			http.Error(w, "Your session expired. Reload the page and try again.", http.StatusForbidden)
		})),
	)

	if secure {
		return protect, nil
	}
	return func(next http.Handler) http.Handler {
		h := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}, nil
}
