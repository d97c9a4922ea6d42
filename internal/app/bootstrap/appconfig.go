// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging level, request limits). AppConfig is everything specific to this
// application: the MongoDB connection, the identity-token verification
// parameters, the websocket ticket key, and per-operation timeouts.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Identity-token verification. Tokens are minted by the external
	// identity provider; the API only verifies them.
	AuthTokenSecret string // HMAC secret for verifying identity tokens
	AuthTokenIssuer string // Expected issuer claim (blank skips the check)

	// Websocket ticket signing
	WSTicketKey string // HMAC key for realtime upgrade tickets
	WSTicketTTL time.Duration

	// Per-operation Mongo timeouts (zero keeps the built-in defaults)
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// Audit logging settings
	AuditLogAuth       string // Auth event logging: "all" (db+log), "db", "log", or "off"
	AuditLogMembership string // Membership event logging: "all" (db+log), "db", "log", or "off"

	// Location sharing retention. Positions not refreshed within this window
	// are pruned by a background worker.
	LocationRetention time.Duration
}
