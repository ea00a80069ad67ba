// Package feedclient maintains a client-side materialization of the
// feed list: a full fetch seeds it, socket events keep it current, and
// optimistic mutations stage local changes until the server confirms
// them. It is transport-agnostic; callers feed it decoded wire events.
package feedclient

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/parishapps/parishfeed/internal/app/projection"
	"github.com/parishapps/parishfeed/internal/app/system/realtime"
)

// Identity is the viewing user. Broadcast views are projected for an
// anonymous viewer, so capability flags are recomputed locally from
// this identity as events arrive.
type Identity struct {
	UserID  string
	Role    string
	IsAdmin bool
}

// View is the materialized feed list for one viewer.
type View struct {
	mu    sync.Mutex
	self  Identity
	items map[string]projection.FeedView

	// editing holds feeds the user is currently editing. Incoming update
	// events for those feeds are deferred (newest wins) so remote changes
	// do not clobber the edit buffer mid-keystroke.
	editing  map[string]bool
	deferred map[string]projection.FeedView

	// pending guards against overlapping optimistic mutations per feed.
	pending map[string]bool
}

func NewView(self Identity) *View {
	return &View{
		self:     self,
		items:    make(map[string]projection.FeedView),
		editing:  make(map[string]bool),
		deferred: make(map[string]projection.FeedView),
		pending:  make(map[string]bool),
	}
}

// ReplaceAll resets the view from a full fetch. Duplicate ids in the
// input collapse to the last occurrence.
func (v *View) ReplaceAll(feeds []projection.FeedView) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = make(map[string]projection.FeedView, len(feeds))
	for _, f := range feeds {
		v.recompute(&f)
		v.items[f.ID] = f
	}
}

// Merge upserts a page of feeds without discarding what is already
// known, deduplicating by id.
func (v *View) Merge(feeds []projection.FeedView) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, f := range feeds {
		v.recompute(&f)
		v.items[f.ID] = f
	}
}

// Get returns the current state of one feed.
func (v *View) Get(id string) (projection.FeedView, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	f, ok := v.items[id]
	return f, ok
}

// Len returns the number of feeds in the view.
func (v *View) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.items)
}

// Sorted returns the feeds in display order: pinned feeds first, newest
// pin first, then everything else newest first. A pinned feed missing
// its pin timestamp falls back to updatedAt, then createdAt, so it
// cannot float to an arbitrary position.
func (v *View) Sorted() []projection.FeedView {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]projection.FeedView, 0, len(v.items))
	for _, f := range v.items {
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IsPinned != b.IsPinned {
			return a.IsPinned
		}
		if a.IsPinned {
			return pinSortTime(a).After(pinSortTime(b))
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return out
}

func pinSortTime(f projection.FeedView) time.Time {
	switch {
	case f.PinnedAt != nil:
		return *f.PinnedAt
	case !f.UpdatedAt.IsZero():
		return f.UpdatedAt
	default:
		return f.CreatedAt
	}
}

// BeginEdit marks a feed as locally edited, deferring incoming updates
// for it until EndEdit.
func (v *View) BeginEdit(feedID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.editing[feedID] = true
}

// EndEdit lifts the edit guard and replays the newest deferred update,
// if any arrived while the guard was up.
func (v *View) EndEdit(feedID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.editing, feedID)
	if f, ok := v.deferred[feedID]; ok {
		delete(v.deferred, feedID)
		v.items[feedID] = f
	}
}

// ApplyRaw decodes one wire message and applies it.
func (v *View) ApplyRaw(msg []byte) error {
	var env struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(msg, &env); err != nil {
		return fmt.Errorf("decode event envelope: %w", err)
	}
	return v.Apply(env.Event, env.Data)
}

// Apply folds one server event into the view. Unknown events are
// ignored so old clients survive new server versions.
func (v *View) Apply(event string, data json.RawMessage) error {
	switch event {
	case realtime.EventFeedCreated:
		return v.applyFeed(data, false)

	case realtime.EventFeedUpdated, realtime.EventFeedPinned, realtime.EventFeedUnpinned:
		return v.applyFeed(data, true)

	case realtime.EventFeedDeleted:
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("decode %s: %w", event, err)
		}
		v.mu.Lock()
		delete(v.items, id)
		delete(v.editing, id)
		delete(v.deferred, id)
		v.mu.Unlock()
		return nil

	case realtime.EventFeedLiked:
		var p struct {
			FeedID    string `json:"feedId"`
			LikeCount int    `json:"likeCount"`
		}
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("decode %s: %w", event, err)
		}
		v.mu.Lock()
		if f, ok := v.items[p.FeedID]; ok {
			f.LikeCount = p.LikeCount
			v.items[p.FeedID] = f
		}
		v.mu.Unlock()
		return nil

	case realtime.EventCommentAdded:
		var c projection.CommentView
		if err := json.Unmarshal(data, &c); err != nil {
			return fmt.Errorf("decode %s: %w", event, err)
		}
		v.mu.Lock()
		if f, ok := v.items[c.FeedID]; ok && !v.hasComment(f, c.ID) {
			f.Comments = append(f.Comments, c)
			f.CommentCount = len(f.Comments)
			v.items[c.FeedID] = f
		}
		v.mu.Unlock()
		return nil

	case realtime.EventCommentDeleted:
		var p struct {
			FeedID    string `json:"feedId"`
			CommentID string `json:"commentId"`
		}
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("decode %s: %w", event, err)
		}
		v.mu.Lock()
		if f, ok := v.items[p.FeedID]; ok {
			// Filter into a fresh slice; FeedView copies handed out by
			// Get/Sorted still alias the old backing array.
			kept := make([]projection.CommentView, 0, len(f.Comments))
			for _, c := range f.Comments {
				if c.ID != p.CommentID {
					kept = append(kept, c)
				}
			}
			f.Comments = kept
			f.CommentCount = len(kept)
			v.items[p.FeedID] = f
		}
		v.mu.Unlock()
		return nil

	default:
		return nil
	}
}

func (v *View) applyFeed(data json.RawMessage, isUpdate bool) error {
	var f projection.FeedView
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decode feed event: %w", err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	v.recompute(&f)

	if prev, ok := v.items[f.ID]; ok {
		// Broadcasts are projected for an anonymous viewer; keep the
		// locally known like state rather than resetting it.
		f.IsLikedByView = prev.IsLikedByView
	} else if isUpdate {
		// An update for a feed this view never loaded (it may be on a
		// page not fetched yet). Nothing to reconcile.
		return nil
	}

	if v.editing[f.ID] {
		v.deferred[f.ID] = f
		return nil
	}
	v.items[f.ID] = f
	return nil
}

func (v *View) hasComment(f projection.FeedView, commentID string) bool {
	for _, c := range f.Comments {
		if c.ID == commentID {
			return true
		}
	}
	return false
}

// recompute rewrites the capability flags for the local viewer. Server
// responses addressed to this viewer already carry correct flags;
// broadcast events do not.
func (v *View) recompute(f *projection.FeedView) {
	isAuthor := v.self.UserID != "" && f.Author.ID == v.self.UserID
	isAdmin := v.self.IsAdmin || v.self.Role == "admin"
	f.CanEdit = isAuthor
	f.CanDelete = isAuthor || isAdmin
	f.CanPin = isAdmin
}
