package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Session store backends
const (
	SessionStoreMemory   = "memory"
	SessionStorePostgres = "postgres"
)

type Config struct {
	Port        string
	Environment string
	LogDir      string // empty = stdout only
	LogMaxFiles int

	// WordPress serves both the identity endpoint (jwt-auth) and the content API.
	WordPressURL     string
	AdminRedirectURL string // where administrators are sent after login
	JWKSURL          string // optional: verify tokens locally instead of calling /token/validate
	UpstreamTimeout  time.Duration

	// Session storage
	SessionStore  string
	DatabaseURL   string
	TablePrefix   string
	SessionCookie string
	SessionTTL    time.Duration // lifetime of the cookie and of the stored session
	SessionSweep  time.Duration // how often lapsed sessions are deleted
	SecureCookies bool

	CORSOrigins  string
	SupportEmail string
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:             getEnv("PORT", "8080"),
		Environment:      env,
		LogDir:           getEnv("LOG_DIR", ""),
		LogMaxFiles:      getEnvInt("LOG_MAX_FILES", 10),
		WordPressURL:     strings.TrimRight(getEnv("WP_API_URL", "http://localhost/progressivebyte_terms"), "/"),
		AdminRedirectURL: getEnv("ADMIN_REDIRECT_URL", "http://api-terms.progressivebyte.com/"),
		JWKSURL:          getEnv("JWKS_URL", ""),
		UpstreamTimeout:  getEnvDuration("UPSTREAM_TIMEOUT", 15*time.Second),
		SessionStore:     getEnv("SESSION_STORE", SessionStoreMemory),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		TablePrefix:      getTablePrefix(env),
		SessionCookie:    getEnv("SESSION_COOKIE", "portal_session"),
		SessionTTL:       getEnvDuration("SESSION_TTL", 7*24*time.Hour),
		SessionSweep:     getEnvDuration("SESSION_SWEEP_INTERVAL", 10*time.Minute),
		// Secure cookies default on in prod only
		SecureCookies: getEnv("SECURE_COOKIES", strconv.FormatBool(env == "prod")) == "true",
		CORSOrigins:   getEnv("CORS_ORIGINS", "http://localhost:5173"),
		SupportEmail:  getEnv("SUPPORT_EMAIL", "support@progressivebyte.com"),
	}
}

// Validate checks that the configuration can start a server.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, is.Port),
		validation.Field(&c.Environment, validation.Required, validation.In("dev", "test", "prod")),
		validation.Field(&c.WordPressURL, validation.Required, is.URL),
		validation.Field(&c.AdminRedirectURL, validation.Required, is.URL),
		validation.Field(&c.JWKSURL, is.URL),
		validation.Field(&c.UpstreamTimeout, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.SessionStore, validation.Required, validation.In(SessionStoreMemory, SessionStorePostgres)),
		validation.Field(&c.DatabaseURL, validation.When(c.SessionStore == SessionStorePostgres, validation.Required)),
		validation.Field(&c.SessionCookie, validation.Required),
		validation.Field(&c.SessionTTL, validation.Min(time.Duration(0))),
		validation.Field(&c.SessionSweep, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.SupportEmail, is.EmailFormat),
	)
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}
