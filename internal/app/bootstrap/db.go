// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/familiahq/familia/internal/app/store/audit"
	familystore "github.com/familiahq/familia/internal/app/store/families"
	invitestore "github.com/familiahq/familia/internal/app/store/invites"
	likestore "github.com/familiahq/familia/internal/app/store/likes"
	locationstore "github.com/familiahq/familia/internal/app/store/locations"
	membershipstore "github.com/familiahq/familia/internal/app/store/memberships"
	memorystore "github.com/familiahq/familia/internal/app/store/memories"
	messagestore "github.com/familiahq/familia/internal/app/store/messages"
	poststore "github.com/familiahq/familia/internal/app/store/posts"
	userstore "github.com/familiahq/familia/internal/app/store/users"
	"github.com/familiahq/familia/internal/app/system/events"
	"github.com/familiahq/familia/internal/app/system/indexes"
	"github.com/familiahq/familia/internal/app/system/wsauth"
)

// ConnectDB establishes the MongoDB connection and builds the stores and
// in-process services the features depend on.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(appCfg.MongoDatabase)
	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: db,

		Users:       userstore.New(db),
		Families:    familystore.New(db),
		Memberships: membershipstore.New(db),
		Invites:     invitestore.New(db),
		Posts:       poststore.New(db),
		Likes:       likestore.New(db),
		Messages:    messagestore.New(db),
		Locations:   locationstore.New(db),
		Memories:    memorystore.New(db),
		Audit:       audit.New(db),

		Bus:      events.NewBus(logger),
		Ticketer: wsauth.NewTicketer([]byte(appCfg.WSTicketKey), appCfg.WSTicketTTL),
	}, nil
}

// EnsureSchema creates the indexes the stores rely on. The unique indexes are
// load-bearing: duplicate-membership and duplicate-invite protection depend
// on them.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	logger.Info("MongoDB indexes ensured")
	return nil
}
