// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for Aftershift.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, api_base_url, etc.
//   - Environment variables: AFTERSHIFT_MONGO_URI, AFTERSHIFT_API_BASE_URL, etc.
//   - Command-line flags: --mongo_uri, --api_base_url, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "aftershift", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "aftershift-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session lifetime (e.g., 24h, 8h)"},
	{Name: "csrf_key", Default: "", Desc: "32-byte CSRF key; generated per boot in dev when blank"},

	// Backend API
	{Name: "api_base_url", Default: "http://127.0.0.1:8000", Desc: "Backend API root (paths are /api/...)"},
	{Name: "api_timeout", Default: "10s", Desc: "Per-request timeout for backend calls"},
	{Name: "api_rate_per_second", Default: 20, Desc: "Client-side throttle for backend calls (0 disables)"},
	{Name: "api_burst", Default: 40, Desc: "Burst size for the backend throttle"},

	// Admin credential
	{Name: "admin_email", Default: "admin@aftershift.com", Desc: "Admin sign-in email"},
	{Name: "admin_name", Default: "Administrator", Desc: "Admin display name"},
	{Name: "admin_password_hash", Default: "", Desc: "bcrypt hash of the admin password (blank disables password sign-in)"},

	// Google OAuth
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},
	{Name: "google_redirect_url", Default: "", Desc: "Google OAuth2 redirect URL (…/auth/google/callback)"},
	{Name: "admin_google_emails", Default: "", Desc: "Comma-separated emails allowed to sign in with Google"},

	// Weather
	{Name: "weather_api_key", Default: "", Desc: "weatherapi.com key"},
	{Name: "weather_api_url", Default: "https://api.weatherapi.com/v1", Desc: "weatherapi.com base URL"},

	// Email/SMTP
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host (blank disables replies)"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@aftershift.com", Desc: "From email address"},
	{Name: "mail_from_name", Default: "Support Team", Desc: "From display name"},

	{Name: "notify_poll_interval", Default: "2m", Desc: "Notification poll interval"},
	{Name: "holidays_file", Default: "", Desc: "YAML holiday calendar overriding the embedded one"},
	{Name: "cors_allowed_origins", Default: "*", Desc: "Comma-separated origins allowed on /api/*"},

	// Audit logging
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "site_name", Default: "RLC Residences", Desc: "Site name shown on public and admin pages"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// AFTERSHIFT_* environment variables and flags with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "AFTERSHIFT", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),
		CSRFKey:       appValues.String("csrf_key"),

		APIBaseURL:       appValues.String("api_base_url"),
		APITimeout:       appValues.Duration("api_timeout", 10*time.Second),
		APIRatePerSecond: float64(appValues.Int("api_rate_per_second")),
		APIBurst:         appValues.Int("api_burst"),

		AdminEmail:        appValues.String("admin_email"),
		AdminName:         appValues.String("admin_name"),
		AdminPasswordHash: appValues.String("admin_password_hash"),

		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),
		GoogleRedirectURL:  appValues.String("google_redirect_url"),
		AdminGoogleEmails:  splitList(appValues.String("admin_google_emails")),

		WeatherAPIKey: appValues.String("weather_api_key"),
		WeatherAPIURL: appValues.String("weather_api_url"),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		NotifyPollInterval: appValues.Duration("notify_poll_interval", 2*time.Minute),
		HolidaysFile:       appValues.String("holidays_file"),
		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		SiteName: appValues.String("site_name"),
	}

	return coreCfg, appCfg, nil
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Everything checked here would otherwise fail later and less clearly:
// on the first Mongo dial, the first backend call, or the first login.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	base := strings.TrimSpace(appCfg.APIBaseURL)
	if base == "" {
		return fmt.Errorf("api_base_url is required")
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api_base_url must be an http(s) URL, got %q", appCfg.APIBaseURL)
	}

	if h := appCfg.AdminPasswordHash; h != "" && !isBcryptHash(h) {
		return fmt.Errorf("admin_password_hash is not a bcrypt hash")
	}

	if appCfg.NotifyPollInterval <= 0 {
		return fmt.Errorf("notify_poll_interval must be positive, got %s", appCfg.NotifyPollInterval)
	}

	if k := appCfg.CSRFKey; k != "" && len(k) != 32 {
		return fmt.Errorf("csrf_key must be exactly 32 bytes, got %d", len(k))
	}

	for _, mode := range []string{appCfg.AuditLogAuth, appCfg.AuditLogAdmin} {
		switch mode {
		case "all", "db", "log", "off":
		default:
			return fmt.Errorf("audit log mode must be all, db, log or off, got %q", mode)
		}
	}

	if coreCfg != nil && coreCfg.Env == "prod" && appCfg.CSRFKey == "" {
		logger.Warn("csrf_key is blank in prod; forms break across restarts and replicas")
	}

	return nil
}

// isBcryptHash recognizes the $2a$/$2b$/$2y$ modular crypt prefixes.
func isBcryptHash(s string) bool {
	if len(s) != 60 {
		return false
	}
	switch s[:4] {
	case "$2a$", "$2b$", "$2y$":
		return true
	}
	return false
}
