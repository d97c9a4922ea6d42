// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"

	"github.com/familiahq/familia/internal/app/system/wsauth"
)

// devTokenSecret is the fallback signing secret. It exists so the API starts
// out of the box for local development; ValidateConfig rejects it outside dev.
const devTokenSecret = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for Familia.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, auth_token_secret, etc.
//   - Environment variables: FAMILIA_MONGO_URI, FAMILIA_AUTH_TOKEN_SECRET, etc.
//   - Command-line flags: --mongo_uri, --auth_token_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "familia", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Identity-token verification
	{Name: "auth_token_secret", Default: devTokenSecret, Desc: "HMAC secret for verifying identity tokens (must be strong in production)"},
	{Name: "auth_token_issuer", Default: "", Desc: "Expected issuer claim on identity tokens (blank skips the check)"},

	// Realtime websocket tickets
	{Name: "ws_ticket_key", Default: "", Desc: "HMAC key for websocket upgrade tickets (blank derives from auth_token_secret)"},
	{Name: "ws_ticket_ttl", Default: "30s", Desc: "How long a websocket ticket stays redeemable (e.g., 30s, 1m)"},

	// Per-operation Mongo timeouts
	{Name: "timeout_ping", Default: "", Desc: "Health-check ping timeout (blank keeps the default)"},
	{Name: "timeout_short", Default: "", Desc: "Single-document read timeout (blank keeps the default)"},
	{Name: "timeout_medium", Default: "", Desc: "Single-collection write/list timeout (blank keeps the default)"},
	{Name: "timeout_long", Default: "", Desc: "Multi-collection write timeout (blank keeps the default)"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_membership", Default: "all", Desc: "Membership event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Location sharing retention
	{Name: "location_retention", Default: "24h", Desc: "How long a shared position stays visible without a refresh"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have access
// to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, FAMILIA_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "FAMILIA", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		AuthTokenSecret: appValues.String("auth_token_secret"),
		AuthTokenIssuer: appValues.String("auth_token_issuer"),

		WSTicketKey: appValues.String("ws_ticket_key"),
		WSTicketTTL: appValues.Duration("ws_ticket_ttl", wsauth.DefaultTTL),

		TimeoutPing:   appValues.Duration("timeout_ping", 0),
		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutLong:   appValues.Duration("timeout_long", 0),

		AuditLogAuth:       appValues.String("audit_log_auth"),
		AuditLogMembership: appValues.String("audit_log_membership"),

		LocationRetention: appValues.Duration("location_retention", 24*time.Hour),
	}

	// The ticket key defaults to the token secret so a single secret is
	// enough for a development setup.
	if appCfg.WSTicketKey == "" {
		appCfg.WSTicketKey = appCfg.AuthTokenSecret
		logger.Info("ws_ticket_key not set, deriving from auth_token_secret")
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Familia validates the MongoDB URI format to catch configuration errors
// early, before attempting to connect, and refuses to run with the
// development token secret outside dev.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}

	if coreCfg.Env != "dev" && appCfg.AuthTokenSecret == devTokenSecret {
		return fmt.Errorf("auth_token_secret must be set in %s mode", coreCfg.Env)
	}

	if appCfg.WSTicketTTL < time.Second {
		return fmt.Errorf("ws_ticket_ttl too small: %s", appCfg.WSTicketTTL)
	}

	return nil
}
