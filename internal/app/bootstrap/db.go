// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/collabhub/internal/app/store/oauthstate"
	"github.com/dalemusser/collabhub/internal/app/system/indexes"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// EnsureSchema reconciles the indexes every collection relies on.
// It runs before the HTTP handler is built so a broken deployment
// fails fast rather than violating uniqueness at runtime.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		return err
	}
	return oauthstate.New(deps.MongoDatabase).EnsureIndexes(ctx)
}
