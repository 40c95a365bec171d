// internal/app/features/accounts/handler.go
package accounts

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	userstore "github.com/dalemusser/collabhub/internal/app/store/users"
	"github.com/dalemusser/collabhub/internal/app/system/auth"
)

// Handler is the shared dependency container for the accounts feature:
// signup, password login, logout, and the current-session probe.
type Handler struct {
	DB       *mongo.Database
	Users    *userstore.Store
	Sessions *auth.SessionManager
	Log      *zap.Logger
}

// NewHandler constructs an accounts Handler.
func NewHandler(db *mongo.Database, sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Users:    userstore.New(db),
		Sessions: sm,
		Log:      logger,
	}
}
