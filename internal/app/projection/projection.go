// Package projection maps stored feed aggregates to the viewer-specific
// read model sent to clients. Everything here is a pure function: viewer
// identity is always passed in explicitly, never read from ambient state.
package projection

import (
	"time"

	"github.com/parishapps/parishfeed/internal/app/policy/feedpolicy"
	"github.com/parishapps/parishfeed/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// churchNames maps stored church keys to display names.
var churchNames = map[string]string{
	models.ChurchSSJoachimAndAnne: "SS Joachim & Anne Catholic Church Ijegun",
	models.ChurchStMarys:          "St. Mary's Catholic Church Ijagemo",
	models.ChurchStBrendan:        "St. Brendan Catholic Church Ifesowapo",
}

// ChurchDisplayName resolves a church key for display.
func ChurchDisplayName(key string) string {
	if name, ok := churchNames[key]; ok {
		return name
	}
	return "Unknown Parish"
}

// AuthorView is the subset of a user shown on feeds and comments.
type AuthorView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ProfilePic string `json:"profilePic,omitempty"`
	Church     string `json:"church,omitempty"`
	IsAdmin    bool   `json:"isAdmin,omitempty"`
}

// CommentView is the projected form of an embedded comment.
type CommentView struct {
	ID        string     `json:"id"`
	FeedID    string     `json:"feedId"`
	Author    AuthorView `json:"author"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"createdAt"`
}

// FeedView is the read model for one feed. Capability flags are computed
// server-side so display code needs no authorization logic of its own;
// the server still re-authorizes every mutation regardless.
type FeedView struct {
	ID     string     `json:"id"`
	Author AuthorView `json:"author"`

	Text        string `json:"text,omitempty"`
	DisplayText string `json:"displayText"`
	Image       string `json:"image,omitempty"`

	Kind            string `json:"kind"`
	OriginalFeedID  string `json:"originalFeedId,omitempty"`
	OriginalMissing bool   `json:"originalMissing,omitempty"`

	LikeCount     int  `json:"likeCount"`
	CommentCount  int  `json:"commentCount"`
	IsLikedByView bool `json:"isLikedByViewer"`

	IsPinned bool       `json:"isPinned"`
	PinnedAt *time.Time `json:"pinnedAt,omitempty"`

	CanEdit   bool `json:"canEdit"`
	CanDelete bool `json:"canDelete"`
	CanPin    bool `json:"canPin"`

	Comments []CommentView `json:"comments"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Options carries projection inputs that require lookups the projector
// itself must not perform.
type Options struct {
	// Authors resolves author ids for the feed and its comments. Missing
	// entries degrade to an id-only AuthorView rather than failing.
	Authors map[primitive.ObjectID]models.User
	// OriginalMissing marks a reshare whose original no longer resolves,
	// so clients can render an "original unavailable" placeholder.
	OriginalMissing bool
}

// Project computes the FeedView of f for the given viewer.
func Project(f models.Feed, viewer feedpolicy.Actor, opts Options) FeedView {
	v := FeedView{
		ID:            f.ID.Hex(),
		Author:        authorView(f.AuthorID, opts.Authors),
		Text:          f.Text,
		DisplayText:   displayText(f),
		Image:         f.Image,
		Kind:          f.Kind,
		LikeCount:     len(f.Likes),
		CommentCount:  len(f.Comments),
		IsLikedByView: f.LikedBy(viewer.UserID),
		IsPinned:      f.IsPinned,
		PinnedAt:      f.PinnedAt,
		CanEdit:       feedpolicy.CanEdit(viewer, f),
		CanDelete:     feedpolicy.CanDeleteFeed(viewer, f),
		CanPin:        feedpolicy.CanPin(viewer),
		Comments:      make([]CommentView, 0, len(f.Comments)),
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
	if f.OriginalFeedID != nil {
		v.OriginalFeedID = f.OriginalFeedID.Hex()
		v.OriginalMissing = opts.OriginalMissing
	}
	for _, c := range f.Comments {
		v.Comments = append(v.Comments, ProjectComment(f.ID, c, opts.Authors))
	}
	return v
}

// ProjectComment computes the view of one embedded comment.
func ProjectComment(feedID primitive.ObjectID, c models.Comment, authors map[primitive.ObjectID]models.User) CommentView {
	return CommentView{
		ID:        c.ID.Hex(),
		FeedID:    feedID.Hex(),
		Author:    authorView(c.AuthorID, authors),
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}

// displayText suppresses the untouched system-generated reshare caption.
// The stored text is never altered; this is a display rule only.
func displayText(f models.Feed) string {
	if f.Kind == models.FeedKindReshare && f.OriginalFeedID != nil &&
		f.Text == models.DefaultReshareCaption(f.OriginalFeedID.Hex()) {
		return ""
	}
	return f.Text
}

func authorView(id primitive.ObjectID, authors map[primitive.ObjectID]models.User) AuthorView {
	u, ok := authors[id]
	if !ok {
		return AuthorView{ID: id.Hex()}
	}
	return AuthorView{
		ID:         u.ID.Hex(),
		Name:       u.Name,
		ProfilePic: u.ProfilePic,
		Church:     ChurchDisplayName(u.Church),
		IsAdmin:    u.Role == models.RoleAdmin,
	}
}
