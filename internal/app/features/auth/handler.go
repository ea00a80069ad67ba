// internal/app/features/auth/handler.go
package auth

import (
	userstore "github.com/parishapps/parishfeed/internal/app/store/users"
	sysauth "github.com/parishapps/parishfeed/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns account registration, login, and logout.
type Handler struct {
	Users  *userstore.Store
	Tokens *sysauth.Manager
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, tokens *sysauth.Manager, logger *zap.Logger) *Handler {
	return &Handler{
		Users:  userstore.New(db),
		Tokens: tokens,
		Log:    logger,
	}
}
