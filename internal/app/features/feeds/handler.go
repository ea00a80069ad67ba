// internal/app/features/feeds/handler.go
package feeds

import (
	feedstore "github.com/parishapps/parishfeed/internal/app/store/feeds"
	notificationstore "github.com/parishapps/parishfeed/internal/app/store/notifications"
	userstore "github.com/parishapps/parishfeed/internal/app/store/users"
	"github.com/parishapps/parishfeed/internal/app/system/realtime"
	"github.com/parishapps/parishfeed/internal/app/system/uploads"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the feeds feature.
// Every mutation goes store first, then Bus: events are published only
// after the document write has committed.
type Handler struct {
	DB      *mongo.Database
	Feeds   *feedstore.Store
	Users   *userstore.Store
	Notifs  *notificationstore.Store
	Bus     realtime.Bus
	Uploads *uploads.Saver
	Log     *zap.Logger
}

// NewHandler constructs a feeds Handler. Called from bootstrap
// BuildHandler, where the DB, hub, and upload saver already exist.
func NewHandler(db *mongo.Database, bus realtime.Bus, saver *uploads.Saver, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Feeds:   feedstore.New(db),
		Users:   userstore.New(db),
		Notifs:  notificationstore.New(db),
		Bus:     bus,
		Uploads: saver,
		Log:     logger,
	}
}
