// internal/app/features/groups/handler.go
package groups

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	chatstore "github.com/dalemusser/collabhub/internal/app/store/chat"
	filestore "github.com/dalemusser/collabhub/internal/app/store/files"
	groupstore "github.com/dalemusser/collabhub/internal/app/store/groups"
	membershipstore "github.com/dalemusser/collabhub/internal/app/store/memberships"
	projectstore "github.com/dalemusser/collabhub/internal/app/store/projects"
)

// Handler is the shared dependency container for the groups feature.
// Beyond the group and membership stores, it holds the project, chat,
// and file stores so group deletion can cascade through everything the
// group owns.
type Handler struct {
	DB       *mongo.Database
	Groups   *groupstore.Store
	Members  *membershipstore.Store
	Projects *projectstore.Store
	Chat     *chatstore.Store
	Files    *filestore.Store
	Log      *zap.Logger
}

// NewHandler constructs a new groups Handler. It is typically called
// from the bootstrap BuildHandler function, where the application's
// DB and logger are already initialized.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Groups:   groupstore.New(db),
		Members:  membershipstore.New(db),
		Projects: projectstore.New(db),
		Chat:     chatstore.New(db),
		Files:    filestore.New(db),
		Log:      logger,
	}
}
