package realtime

import (
	"context"
	"net/http"
	"time"

	"github.com/familiahq/familia/internal/app/system/events"
	"github.com/familiahq/familia/internal/app/system/httperr"
	"github.com/familiahq/familia/internal/app/system/timeouts"
	"github.com/familiahq/familia/internal/domain/models"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait).
	pingPeriod = (pongWait * 9) / 10

	// Clients only redeem tickets and answer pings; anything bigger is noise.
	maxMessageSize int64 = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Tickets, not origins, gate the upgrade.
		return true
	},
}

// wireEvent is what subscribers receive on the socket.
type wireEvent struct {
	Topic   string      `json:"topic"`
	Payload interface{} `json:"payload"`
}

// ServeWS handles GET /realtime/ws?ticket=.
//
// The connection subscribes to every topic and then narrows the stream with
// a per-user predicate: invite events reach only their sender and recipient,
// message events only the two participants, and feed events only fellow
// family members. There is no replay; events published before the upgrade
// are gone.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userHex, err := h.Ticketer.Redeem(r.URL.Query().Get("ticket"))
	if err != nil {
		httperr.Write(w, h.Log, httperr.Unauthorized("invalid or expired ticket"))
		return
	}
	userID, err := primitive.ObjectIDFromHex(userHex)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Unauthorized("invalid or expired ticket"))
		return
	}

	// Snapshot the user's families at connect time for feed-event scoping.
	loadCtx, loadCancel := context.WithTimeout(r.Context(), timeouts.Medium())
	familyIDs, err := h.Memberships.FamilyIDsByUser(loadCtx, userID)
	loadCancel()
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	inFamily := make(map[primitive.ObjectID]struct{}, len(familyIDs))
	for _, id := range familyIDs {
		inFamily[id] = struct{}{}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	stream := events.Filter(
		h.Bus.Subscribe(ctx,
			events.TopicInviteCreated,
			events.TopicInviteDeleted,
			events.TopicPostAdded,
			events.TopicPostLiked,
			events.TopicPostUnliked,
			events.TopicMessageAdded,
			events.TopicMessageDeleted,
		),
		visibleTo(userID, inFamily),
	)

	go h.readPump(conn, cancel)
	go h.writePump(conn, stream, cancel)
}

// visibleTo scopes the event stream to what one user is allowed to see.
func visibleTo(userID primitive.ObjectID, inFamily map[primitive.ObjectID]struct{}) events.Predicate {
	return func(ev events.Event) bool {
		switch p := ev.Payload.(type) {
		case models.ResolvedInvite:
			return p.From.ID == userID || p.To.ID == userID
		case models.Message:
			return p.FromID == userID || p.ToID == userID
		case models.Post:
			_, ok := inFamily[p.FamilyID]
			return ok
		default:
			// Like events and other family-scoped payloads declare their
			// family through events.FamilyScoped.
			if fs, ok := ev.Payload.(events.FamilyScoped); ok {
				_, member := inFamily[fs.EventFamilyID()]
				return member
			}
			return false
		}
	}
}

// readPump discards client frames and keeps the read deadline fresh via the
// pong handler. Any read error tears the connection down.
func (h *Handler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer func() {
		cancel()
		_ = conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Log.Debug("websocket read ended", zap.Error(err))
			}
			return
		}
	}
}

// writePump forwards filtered bus events to the peer and keeps it alive with
// pings.
func (h *Handler) writePump(conn *websocket.Conn, stream <-chan events.Event, cancel context.CancelFunc) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cancel()
		_ = conn.Close()
	}()

	for {
		select {
		case ev, ok := <-stream:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(wireEvent{Topic: ev.Topic, Payload: ev.Payload}); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
