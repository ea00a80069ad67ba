// internal/app/features/feeds/helpers.go
package feeds

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/parishapps/parishfeed/internal/app/policy/feedpolicy"
	"github.com/parishapps/parishfeed/internal/app/projection"
	"github.com/parishapps/parishfeed/internal/app/system/apierr"
	"github.com/parishapps/parishfeed/internal/app/system/auth"
	"github.com/parishapps/parishfeed/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// withOptionalUser resolves a bearer token when one is present so public
// reads can still be projected for a signed-in viewer. Invalid or absent
// tokens fall through to an anonymous viewer instead of failing.
func (h *Handler) withOptionalUser(mgr *auth.Manager, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.CurrentUser(r); !ok {
			if id, err := mgr.Authenticate(r); err == nil {
				r = auth.WithIdentity(r, id)
			}
		}
		next(w, r)
	}
}

// viewer converts the request identity (if any) into a policy actor.
// An anonymous viewer has a zero UserID and no role, so every capability
// flag comes out false.
func viewer(r *http.Request) feedpolicy.Actor {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return feedpolicy.Actor{}
	}
	id, err := primitive.ObjectIDFromHex(u.UserID)
	if err != nil {
		return feedpolicy.Actor{}
	}
	return feedpolicy.Actor{UserID: id, Role: u.Role}
}

// requireViewer is viewer for authenticated routes, where a missing or
// malformed identity is a hard error rather than anonymity.
func requireViewer(r *http.Request) (feedpolicy.Actor, error) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return feedpolicy.Actor{}, apierr.New(apierr.Unauthenticated, "no token, authorization denied")
	}
	id, err := primitive.ObjectIDFromHex(u.UserID)
	if err != nil {
		return feedpolicy.Actor{}, apierr.Wrap(apierr.Unauthenticated, "token subject is not a valid id", err)
	}
	return feedpolicy.Actor{UserID: id, Role: u.Role}, nil
}

// pathID parses the named chi URL parameter as an ObjectID.
func pathID(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, apierr.Wrap(apierr.InvalidArgument, "bad id", err)
	}
	return id, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Log.Warn("write response", zap.Error(err))
	}
}

// loadAuthors collects the author ids of the feeds and their comments
// and resolves them in one query.
func (h *Handler) loadAuthors(ctx context.Context, fs []models.Feed) (map[primitive.ObjectID]models.User, error) {
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	add := func(id primitive.ObjectID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, f := range fs {
		add(f.AuthorID)
		for _, c := range f.Comments {
			add(c.AuthorID)
		}
	}
	return h.Users.GetMany(ctx, ids)
}

// projectFeeds builds the viewer's read model for a batch of feeds,
// resolving authors and flagging reshares whose original is gone.
func (h *Handler) projectFeeds(ctx context.Context, fs []models.Feed, v feedpolicy.Actor) ([]projection.FeedView, error) {
	authors, err := h.loadAuthors(ctx, fs)
	if err != nil {
		return nil, err
	}

	// One existence check per distinct original reference.
	missing := map[primitive.ObjectID]bool{}
	checked := map[primitive.ObjectID]bool{}
	for _, f := range fs {
		if f.OriginalFeedID == nil || checked[*f.OriginalFeedID] {
			continue
		}
		checked[*f.OriginalFeedID] = true
		ok, err := h.Feeds.Exists(ctx, *f.OriginalFeedID)
		if err != nil {
			return nil, err
		}
		missing[*f.OriginalFeedID] = !ok
	}

	views := make([]projection.FeedView, 0, len(fs))
	for _, f := range fs {
		opts := projection.Options{Authors: authors}
		if f.OriginalFeedID != nil {
			opts.OriginalMissing = missing[*f.OriginalFeedID]
		}
		views = append(views, projection.Project(f, v, opts))
	}
	return views, nil
}

// projectOne is projectFeeds for a single feed.
func (h *Handler) projectOne(ctx context.Context, f models.Feed, v feedpolicy.Actor) (projection.FeedView, error) {
	views, err := h.projectFeeds(ctx, []models.Feed{f}, v)
	if err != nil {
		return projection.FeedView{}, err
	}
	return views[0], nil
}
