// internal/app/features/feeds/edit.go
package feeds

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/parishapps/parishfeed/internal/app/policy/feedpolicy"
	feedstore "github.com/parishapps/parishfeed/internal/app/store/feeds"
	"github.com/parishapps/parishfeed/internal/app/system/apierr"
	"github.com/parishapps/parishfeed/internal/app/system/realtime"
	"github.com/parishapps/parishfeed/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// parseEditInput accepts JSON or a multipart form with an optional
// replacement "image" file.
func (h *Handler) parseEditInput(r *http.Request) (feedstore.EditParams, error) {
	var p feedstore.EditParams

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return p, apierr.Wrap(apierr.InvalidArgument, "bad multipart form", err)
		}
		p.Text = r.FormValue("text")
		p.RemoveImage = r.FormValue("removeImage") == "true"

		file, header, err := r.FormFile("image")
		switch err {
		case nil:
			defer file.Close()
			url, err := h.Uploads.Save(file, header)
			if err != nil {
				return p, apierr.Wrap(apierr.InvalidArgument, "image upload failed", err)
			}
			p.Image = url
		case http.ErrMissingFile:
		default:
			return p, apierr.Wrap(apierr.InvalidArgument, "bad image field", err)
		}
		return p, nil
	}

	var in struct {
		Text        string `json:"text"`
		RemoveImage bool   `json:"removeImage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return p, apierr.Wrap(apierr.InvalidArgument, "bad request body", err)
	}
	p.Text = in.Text
	p.RemoveImage = in.RemoveImage
	return p, nil
}

// HandleEditFeed applies author-only changes to a feed.
func (h *Handler) HandleEditFeed(w http.ResponseWriter, r *http.Request) {
	v, err := requireViewer(r)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	feedID, err := pathID(r, "id")
	if err != nil {
		apierr.Write(w, err)
		return
	}

	p, err := h.parseEditInput(r)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	after, err := h.Feeds.Edit(ctx, feedID, v, p)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	view, err := h.projectOne(ctx, after, v)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)

	public, err := h.projectOne(ctx, after, feedpolicy.Actor{})
	if err != nil {
		h.Log.Warn("project broadcast view", zap.Error(err))
		return
	}
	h.Bus.Broadcast(realtime.Event{Name: realtime.EventFeedUpdated, Payload: public})
}
