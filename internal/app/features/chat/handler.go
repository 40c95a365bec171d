// internal/app/features/chat/handler.go
package chat

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	chatstore "github.com/dalemusser/collabhub/internal/app/store/chat"
	membershipstore "github.com/dalemusser/collabhub/internal/app/store/memberships"
	"github.com/dalemusser/collabhub/internal/app/system/realtime"
)

// Handler is the shared dependency container for the chat feature:
// message history, sending, and the websocket feed.
type Handler struct {
	DB       *mongo.Database
	Messages *chatstore.Store
	Members  *membershipstore.Store
	Hub      *realtime.Hub
	Log      *zap.Logger

	watchersMu sync.Mutex
	watchers   map[string]*feedWatcher // group hex ID -> change stream pump
}

// NewHandler constructs a chat Handler with its own realtime hub.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Messages: chatstore.New(db),
		Members:  membershipstore.New(db),
		Hub:      realtime.NewHub(),
		Log:      logger,
		watchers: make(map[string]*feedWatcher),
	}
}

// groupIDParam extracts the {groupID} URL parameter set by the parent
// groups router.
func groupIDParam(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	return id, err == nil
}
