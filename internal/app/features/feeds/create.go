// internal/app/features/feeds/create.go
package feeds

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/parishapps/parishfeed/internal/app/policy/feedpolicy"
	feedstore "github.com/parishapps/parishfeed/internal/app/store/feeds"
	"github.com/parishapps/parishfeed/internal/app/system/apierr"
	"github.com/parishapps/parishfeed/internal/app/system/auth"
	"github.com/parishapps/parishfeed/internal/app/system/realtime"
	"github.com/parishapps/parishfeed/internal/app/system/timeouts"
	"github.com/parishapps/parishfeed/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const maxUploadBytes = 10 << 20

type createInput struct {
	Text           string `json:"text"`
	Type           string `json:"type"`
	OriginalFeedID string `json:"originalFeedId"`
	imageURL       string
}

// resolveKind validates the type tag against originalFeedId and reports
// whether the request is a reshare. The tag wins when present; the id
// alone implies a reshare for clients that never send type.
func resolveKind(in createInput) (bool, error) {
	switch in.Type {
	case "":
		return in.OriginalFeedID != "", nil
	case models.FeedKindOriginal:
		if in.OriginalFeedID != "" {
			return false, apierr.New(apierr.InvalidArgument, "originalFeedId is not allowed on an original post")
		}
		return false, nil
	case models.FeedKindReshare:
		if in.OriginalFeedID == "" {
			return false, apierr.New(apierr.InvalidArgument, "originalFeedId is required for a reshare")
		}
		return true, nil
	default:
		return false, apierr.New(apierr.InvalidArgument, "type must be original or reshare")
	}
}

// parseCreateInput accepts either JSON or a multipart form with an
// optional "image" file.
func (h *Handler) parseCreateInput(r *http.Request) (createInput, error) {
	var in createInput

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return in, apierr.Wrap(apierr.InvalidArgument, "bad multipart form", err)
		}
		in.Text = r.FormValue("text")
		in.Type = r.FormValue("type")
		in.OriginalFeedID = r.FormValue("originalFeedId")

		file, header, err := r.FormFile("image")
		switch err {
		case nil:
			defer file.Close()
			url, err := h.Uploads.Save(file, header)
			if err != nil {
				return in, apierr.Wrap(apierr.InvalidArgument, "image upload failed", err)
			}
			in.imageURL = url
		case http.ErrMissingFile:
			// text-only post
		default:
			return in, apierr.Wrap(apierr.InvalidArgument, "bad image field", err)
		}
		return in, nil
	}

	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return in, apierr.Wrap(apierr.InvalidArgument, "bad request body", err)
	}
	return in, nil
}

// HandleCreateFeed creates an original post or a reshare of an existing
// one, discriminated by the type tag.
func (h *Handler) HandleCreateFeed(w http.ResponseWriter, r *http.Request) {
	v, err := requireViewer(r)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	in, err := h.parseCreateInput(r)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	reshare, err := resolveKind(in)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	req := feedstore.CreateRequest{AuthorID: v.UserID}
	if reshare {
		origID, err := primitive.ObjectIDFromHex(in.OriginalFeedID)
		if err != nil {
			apierr.Write(w, apierr.Wrap(apierr.InvalidArgument, "bad original feed id", err))
			return
		}
		req.Reshare = &feedstore.ResharePost{
			OriginalFeedID: origID,
			Caption:        in.Text,
			Image:          in.imageURL,
		}
	} else {
		req.Original = &feedstore.OriginalPost{Text: in.Text, Image: in.imageURL}
	}

	created, err := h.Feeds.Create(ctx, req)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	view, err := h.projectOne(ctx, created, v)
	if err != nil {
		h.Log.Error("project created feed", zap.Error(err))
		apierr.Write(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, view)

	h.afterCreate(ctx, created, v, r)
}

// afterCreate publishes the commit and fans out notifications. Runs
// after the response; nothing here can fail the request.
func (h *Handler) afterCreate(ctx context.Context, f models.Feed, v feedpolicy.Actor, r *http.Request) {
	public, err := h.projectOne(ctx, f, feedpolicy.Actor{})
	if err != nil {
		h.Log.Warn("project broadcast view", zap.Error(err))
		return
	}
	h.Bus.Broadcast(realtime.Event{Name: realtime.EventFeedCreated, Payload: public})

	actorName := ""
	if u, ok := auth.CurrentUser(r); ok {
		actorName = u.Name
	}

	h.notifyNewFeed(ctx, f, actorName)

	if f.Kind == models.FeedKindReshare && f.OriginalFeedID != nil {
		if orig, err := h.Feeds.GetByID(ctx, *f.OriginalFeedID); err == nil {
			h.notifyFeedAuthor(ctx, orig, v.UserID, actorName, models.NotifyFeedReposted, "reposted")
		}
	}
}
