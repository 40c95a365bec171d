// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	accountsfeature "github.com/dalemusser/collabhub/internal/app/features/accounts"
	authgooglefeature "github.com/dalemusser/collabhub/internal/app/features/authgoogle"
	chatfeature "github.com/dalemusser/collabhub/internal/app/features/chat"
	filesfeature "github.com/dalemusser/collabhub/internal/app/features/files"
	groupsfeature "github.com/dalemusser/collabhub/internal/app/features/groups"
	healthfeature "github.com/dalemusser/collabhub/internal/app/features/health"
	membersfeature "github.com/dalemusser/collabhub/internal/app/features/members"
	projectsfeature "github.com/dalemusser/collabhub/internal/app/features/projects"
	userstore "github.com/dalemusser/collabhub/internal/app/store/users"
	"github.com/dalemusser/collabhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. CollabHub serves a JSON API for the
// collaborative editing client plus a websocket chat feed; there is no
// server-rendered HTML.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Set up the UserFetcher so LoadSessionUser fetches fresh user data on
	// each request. This ensures disabled accounts and profile updates take
	// effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Google OAuth (browser redirect flow, outside the JSON API)
	googleHandler := authgooglefeature.NewHandler(deps.MongoDatabase, sessionMgr,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	// Feature handlers
	accountsHandler := accountsfeature.NewHandler(deps.MongoDatabase, sessionMgr, logger)
	groupsHandler := groupsfeature.NewHandler(deps.MongoDatabase, logger)
	membersHandler := membersfeature.NewHandler(deps.MongoDatabase, logger)
	projectsHandler := projectsfeature.NewHandler(deps.MongoDatabase, logger)
	chatHandler := chatfeature.NewHandler(deps.MongoDatabase, logger)
	filesHandler := filesfeature.NewHandler(deps.MongoDatabase, logger)

	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/accounts", accountsfeature.Routes(accountsHandler, sessionMgr))
		api.Mount("/groups", groupsfeature.Routes(groupsHandler, sessionMgr,
			membersfeature.Routes(membersHandler),
			projectsfeature.Routes(projectsHandler),
			chatfeature.Routes(chatHandler)))
		api.Mount("/projects", filesfeature.Routes(filesHandler, sessionMgr))
	})

	return r, nil
}
