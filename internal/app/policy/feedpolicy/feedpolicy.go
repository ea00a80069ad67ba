// internal/app/policy/feedpolicy/feedpolicy.go
//
// Pure authorization rules for the feed aggregate. No I/O: callers load
// the feed first (a missing feed is the store's NotFound, raised before
// any rule here is evaluated) and pass the documents in.
package feedpolicy

import (
	"github.com/parishapps/parishfeed/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor is the authenticated identity a rule evaluates against.
type Actor struct {
	UserID primitive.ObjectID
	Role   string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// CanEdit permits editing only to the feed's author.
func CanEdit(a Actor, f models.Feed) bool {
	return a.UserID == f.AuthorID
}

// CanDeleteFeed permits the author or any admin.
func CanDeleteFeed(a Actor, f models.Feed) bool {
	return a.UserID == f.AuthorID || a.IsAdmin()
}

// CanDeleteComment permits the comment's author or any admin.
func CanDeleteComment(a Actor, c models.Comment) bool {
	return a.UserID == c.AuthorID || a.IsAdmin()
}

// CanPin is a global admin capability, not tied to feed ownership.
func CanPin(a Actor) bool { return a.IsAdmin() }

// CanViewAdminBadge is display-only, not a security boundary.
func CanViewAdminBadge(a Actor) bool { return a.IsAdmin() }
