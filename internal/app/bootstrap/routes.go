// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	authfeature "github.com/parishapps/parishfeed/internal/app/features/auth"
	feedsfeature "github.com/parishapps/parishfeed/internal/app/features/feeds"
	healthfeature "github.com/parishapps/parishfeed/internal/app/features/health"
	notificationsfeature "github.com/parishapps/parishfeed/internal/app/features/notifications"
	usersfeature "github.com/parishapps/parishfeed/internal/app/features/users"
	"github.com/parishapps/parishfeed/internal/app/system/auth"
	"github.com/parishapps/parishfeed/internal/app/system/realtime"
	"github.com/parishapps/parishfeed/internal/app/system/uploads"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. ParishFeed mounts the JSON API
// under /api, the WebSocket endpoint at /ws, and serves uploaded post
// images statically.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tokenMgr, err := auth.NewManager(appCfg.JWTSecret, appCfg.JWTExpiry, logger)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	saver, err := uploads.NewSaver(appCfg.UploadDir, appCfg.UploadURL)
	if err != nil {
		logger.Error("upload saver init failed", zap.Error(err))
		return nil, err
	}

	hub := realtime.NewHub(logger)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.ParishFeedMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Uploaded post images with pre-compressed file support
	r.Handle(appCfg.UploadURL+"/*", fileserver.Handler(appCfg.UploadURL, appCfg.UploadDir))

	// Accounts and tokens
	authHandler := authfeature.NewHandler(deps.ParishFeedMongoDatabase, tokenMgr, logger)
	r.Mount("/api/auth", authfeature.Routes(authHandler))

	// The feed itself
	feedsHandler := feedsfeature.NewHandler(deps.ParishFeedMongoDatabase, hub, saver, logger)
	r.Mount("/api/feeds", feedsfeature.Routes(feedsHandler, tokenMgr))

	// Per-user notifications
	notifHandler := notificationsfeature.NewHandler(deps.ParishFeedMongoDatabase, logger)
	r.Mount("/api/notifications", notificationsfeature.Routes(notifHandler, tokenMgr))

	// Community directory
	usersHandler := usersfeature.NewHandler(deps.ParishFeedMongoDatabase, logger)
	r.Mount("/api/users", usersfeature.Routes(usersHandler))

	// Live event stream
	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		realtime.ServeWS(hub, tokenMgr, w, req)
	})

	return r, nil
}
