// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"

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
	"github.com/familiahq/familia/internal/app/system/wsauth"
)

// DBDeps holds database and backend dependencies for the app. It is built
// once in ConnectDB and passed by value to the remaining lifecycle hooks.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Users       *userstore.Store
	Families    *familystore.Store
	Memberships *membershipstore.Store
	Invites     *invitestore.Store
	Posts       *poststore.Store
	Likes       *likestore.Store
	Messages    *messagestore.Store
	Locations   *locationstore.Store
	Memories    *memorystore.Store
	Audit       *audit.Store

	Bus      *events.Bus
	Ticketer *wsauth.Ticketer
}
