// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	familiesfeature "github.com/familiahq/familia/internal/app/features/families"
	healthfeature "github.com/familiahq/familia/internal/app/features/health"
	invitesfeature "github.com/familiahq/familia/internal/app/features/invites"
	locationsfeature "github.com/familiahq/familia/internal/app/features/locations"
	memoriesfeature "github.com/familiahq/familia/internal/app/features/memories"
	messagesfeature "github.com/familiahq/familia/internal/app/features/messages"
	postsfeature "github.com/familiahq/familia/internal/app/features/posts"
	realtimefeature "github.com/familiahq/familia/internal/app/features/realtime"
	usersfeature "github.com/familiahq/familia/internal/app/features/users"
	"github.com/familiahq/familia/internal/app/system/auditlog"
	"github.com/familiahq/familia/internal/app/system/auth"
	"github.com/familiahq/familia/internal/app/system/limits"
	"github.com/familiahq/familia/internal/app/system/ratelimit"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// Route layout:
//   - /health and /realtime/ws sit outside the bearer-token middleware. The
//     first is for load balancers; the second authenticates with a signed
//     ticket because browsers cannot set headers on a websocket dial.
//   - Everything else requires a verified identity token.
//   - The family-scoped feed, roster, and memories listings belong to the
//     posts, locations, and memories features but live under /families/{id},
//     so they are attached to the families subrouter before it is mounted.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	verifier := auth.NewTokenVerifier(appCfg.AuthTokenSecret, appCfg.AuthTokenIssuer)

	auditLog := auditlog.New(deps.Audit, logger, auditlog.Config{
		Auth:       appCfg.AuditLogAuth,
		Membership: appCfg.AuditLogMembership,
	})

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	usersHandler := usersfeature.NewHandler(logger, deps.Users, deps.Families, deps.Memberships, auditLog)
	familiesHandler := familiesfeature.NewHandler(logger, deps.MongoClient, deps.Users, deps.Families, deps.Memberships, auditLog)
	invitesHandler := invitesfeature.NewHandler(logger, deps.MongoClient, deps.Users, deps.Families, deps.Memberships, deps.Invites, deps.Bus, auditLog)
	postsHandler := postsfeature.NewHandler(logger, deps.Users, deps.Families, deps.Memberships, deps.Posts, deps.Likes, deps.Bus)
	messagesHandler := messagesfeature.NewHandler(logger, deps.Users, deps.Memberships, deps.Messages, deps.Bus)
	locationsHandler := locationsfeature.NewHandler(logger, deps.Users, deps.Memberships, deps.Locations)
	memoriesHandler := memoriesfeature.NewHandler(logger, deps.Users, deps.Memberships, deps.Memories)
	realtimeHandler := realtimefeature.NewHandler(logger, deps.Users, deps.Memberships, deps.Bus, deps.Ticketer)

	r := chi.NewRouter()

	r.Use(limits.RequestSize(limits.MaxJSONBody))

	// Health check endpoint for load balancers and orchestrators.
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Websocket upgrade: ticket-authenticated, so outside RequireVerified.
	r.Get("/realtime/ws", realtimeHandler.ServeWS)

	// Directory lookups are the only endpoints an authenticated client can
	// cheaply hammer, so they get a per-IP limit.
	searchLimiter := ratelimit.New(60, time.Minute)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireVerified(verifier, logger))

		r.Mount("/users", usersfeature.Routes(usersHandler, ratelimit.PerIP(searchLimiter, logger)))

		famRouter := familiesfeature.Routes(familiesHandler)
		famRouter.Get("/{id}/posts", postsHandler.ServeListByFamily)
		famRouter.Get("/{id}/locations", locationsHandler.ServeListByFamily)
		famRouter.Get("/{id}/memories", memoriesHandler.ServeListByFamily)
		r.Mount("/families", famRouter)

		r.Mount("/invites", invitesfeature.Routes(invitesHandler))
		r.Mount("/posts", postsfeature.Routes(postsHandler))
		r.Mount("/messages", messagesfeature.Routes(messagesHandler))
		r.Mount("/locations", locationsfeature.Routes(locationsHandler))
		r.Mount("/memories", memoriesfeature.Routes(memoriesHandler))
		r.Mount("/realtime", realtimefeature.Routes(realtimeHandler))
	})

	return r, nil
}
