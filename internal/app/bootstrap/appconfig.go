// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for Aftershift.
//
// These values come from environment variables (AFTERSHIFT_*), config
// files, or command-line flags (loaded in LoadConfig). WAFFLE's
// CoreConfig carries the framework-level settings: ports, TLS, log
// level, body limits.
type AppConfig struct {
	// MongoDB holds the audit trail, the mail log and OAuth state.
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Cookie sessions
	SessionKey    string
	SessionName   string
	SessionDomain string
	SessionMaxAge time.Duration

	// CSRFKey is the 32-byte gorilla/csrf key. Blank in dev means a
	// fresh key per boot.
	CSRFKey string

	// Backend REST API
	APIBaseURL       string
	APITimeout       time.Duration
	APIRatePerSecond float64
	APIBurst         int

	// The single configured admin account
	AdminEmail        string
	AdminName         string
	AdminPasswordHash string // bcrypt

	// Optional Google sign-in
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	AdminGoogleEmails  []string

	// Weather proxy
	WeatherAPIKey string
	WeatherAPIURL string

	// SMTP for replies
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	MailFromName string

	NotifyPollInterval time.Duration
	HolidaysFile       string
	CORSAllowedOrigins []string

	// Audit modes: all, db, log, off
	AuditLogAuth  string
	AuditLogAdmin string

	SiteName string
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c AppConfig) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}
