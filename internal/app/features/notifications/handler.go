// internal/app/features/notifications/handler.go
package notifications

import (
	"net/http"

	notificationstore "github.com/parishapps/parishfeed/internal/app/store/notifications"
	"github.com/parishapps/parishfeed/internal/app/system/apierr"
	"github.com/parishapps/parishfeed/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the signed-in user's notification list and read state.
type Handler struct {
	Notifs *notificationstore.Store
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Notifs: notificationstore.New(db),
		Log:    logger,
	}
}

// currentUserID resolves the signed-in user's ObjectID.
func currentUserID(r *http.Request) (primitive.ObjectID, error) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, apierr.New(apierr.Unauthenticated, "no token, authorization denied")
	}
	id, err := primitive.ObjectIDFromHex(u.UserID)
	if err != nil {
		return primitive.NilObjectID, apierr.Wrap(apierr.Unauthenticated, "token subject is not a valid id", err)
	}
	return id, nil
}
