// internal/app/store/feeds/feedstore.go
//
// Package feedstore owns every mutation of the feeds collection. Each
// operation is a single-document update so the document is the unit of
// atomicity; there are no multi-document transactions here.
package feedstore

import (
	"context"
	"errors"
	"time"

	"github.com/parishapps/parishfeed/internal/app/policy/feedpolicy"
	"github.com/parishapps/parishfeed/internal/app/system/apierr"
	"github.com/parishapps/parishfeed/internal/app/system/textclean"
	"github.com/parishapps/parishfeed/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PageSize is the fixed page length for feed listings.
const PageSize = 5

var (
	ErrFeedNotFound     = apierr.New(apierr.NotFound, "feed not found")
	ErrCommentNotFound  = apierr.New(apierr.NotFound, "comment not found")
	ErrOriginalNotFound = apierr.New(apierr.NotFound, "original feed not found")
	ErrEmptyFeed        = apierr.New(apierr.InvalidArgument, "feed must have text or an image")
	ErrEmptyComment     = apierr.New(apierr.InvalidArgument, "comment text is required")
	ErrNotAuthorized    = apierr.New(apierr.Forbidden, "not authorized")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("feeds")}
}

// OriginalPost is the payload for a brand-new post.
type OriginalPost struct {
	Text  string
	Image string
}

// ResharePost is the payload for a reshare of an existing post.
type ResharePost struct {
	OriginalFeedID primitive.ObjectID
	Caption        string
	Image          string
}

// CreateRequest creates exactly one of the two feed kinds.
type CreateRequest struct {
	AuthorID primitive.ObjectID
	Original *OriginalPost
	Reshare  *ResharePost
}

func (r CreateRequest) validate() error {
	if r.AuthorID.IsZero() {
		return apierr.New(apierr.InvalidArgument, "author is required")
	}
	if (r.Original == nil) == (r.Reshare == nil) {
		return apierr.New(apierr.InvalidArgument, "exactly one of original or reshare is required")
	}
	return nil
}

// Create inserts a new feed. Originals must carry text or an image.
// Reshares resolve their original first: a dangling reference is
// rejected, the image is inherited when none is supplied, and a missing
// caption gets the system default.
func (s *Store) Create(ctx context.Context, req CreateRequest) (models.Feed, error) {
	if err := req.validate(); err != nil {
		return models.Feed{}, err
	}

	now := time.Now().UTC()
	f := models.Feed{
		ID:        primitive.NewObjectID(),
		AuthorID:  req.AuthorID,
		Likes:     []primitive.ObjectID{},
		Comments:  []models.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch {
	case req.Original != nil:
		f.Kind = models.FeedKindOriginal
		f.Text = textclean.Clean(req.Original.Text)
		f.Image = req.Original.Image
		if f.Text == "" && f.Image == "" {
			return models.Feed{}, ErrEmptyFeed
		}

	case req.Reshare != nil:
		orig, err := s.GetByID(ctx, req.Reshare.OriginalFeedID)
		if err != nil {
			if errors.Is(err, ErrFeedNotFound) {
				return models.Feed{}, ErrOriginalNotFound
			}
			return models.Feed{}, err
		}
		f.Kind = models.FeedKindReshare
		f.OriginalFeedID = &orig.ID
		f.Text = textclean.Clean(req.Reshare.Caption)
		if f.Text == "" {
			f.Text = models.DefaultReshareCaption(orig.ID.Hex())
		}
		f.Image = req.Reshare.Image
		if f.Image == "" {
			f.Image = orig.Image
		}
	}

	if _, err := s.c.InsertOne(ctx, f); err != nil {
		return models.Feed{}, apierr.Wrap(apierr.Internal, "insert feed", err)
	}
	return f, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Feed, error) {
	var f models.Feed
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Feed{}, ErrFeedNotFound
		}
		return models.Feed{}, apierr.Wrap(apierr.Internal, "find feed", err)
	}
	return f, nil
}

// Exists reports whether the feed id resolves, without decoding it.
// Used to flag dangling reshare references at projection time.
func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, apierr.Wrap(apierr.Internal, "count feed", err)
	}
	return n > 0, nil
}

// List returns one page of feeds, newest first. Pages are 1-based;
// anything below 1 is treated as the first page. The _id tiebreak keeps
// pagination stable for documents created in the same instant.
func (s *Store) List(ctx context.Context, page int) ([]models.Feed, error) {
	if page < 1 {
		page = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((page - 1) * PageSize)).
		SetLimit(PageSize)
	return s.find(ctx, bson.M{}, opts)
}

// ListByAuthor returns every feed by one author, newest first.
func (s *Store) ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Feed, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	return s.find(ctx, bson.M{"author_id": authorID}, opts)
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Feed, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, apierr.Wrap(apierr.Internal, "find feeds", err)
	}
	defer cur.Close(ctx)

	feeds := []models.Feed{}
	if err := cur.All(ctx, &feeds); err != nil {
		return nil, apierr.Wrap(apierr.Internal, "decode feeds", err)
	}
	return feeds, nil
}

// likeRetries bounds the toggle loop when concurrent togglers race.
const likeRetries = 3

// ToggleLike adds userID to the like set if absent, removes it if
// present, and returns the resulting count and membership. Each arm is
// a guarded single-document update ($pull only fires when the user is
// in the set, $addToSet only when absent), so two racing toggles from
// the same user resolve to one win and one retry rather than a double
// apply.
func (s *Store) ToggleLike(ctx context.Context, feedID, userID primitive.ObjectID) (likeCount int, liked bool, err error) {
	for i := 0; i < likeRetries; i++ {
		f, err := s.GetByID(ctx, feedID)
		if err != nil {
			return 0, false, err
		}

		var filter, update bson.M
		if f.LikedBy(userID) {
			filter = bson.M{"_id": feedID, "likes": userID}
			update = bson.M{"$pull": bson.M{"likes": userID}}
			liked = false
		} else {
			filter = bson.M{"_id": feedID, "likes": bson.M{"$ne": userID}}
			update = bson.M{"$addToSet": bson.M{"likes": userID}}
			liked = true
		}

		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		var after models.Feed
		err = s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&after)
		if err == nil {
			return len(after.Likes), liked, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return 0, false, apierr.Wrap(apierr.Internal, "toggle like", err)
		}
		// Guard missed: either the feed is gone or a concurrent toggle
		// flipped the set between read and write. Re-read and retry.
	}

	if _, err := s.GetByID(ctx, feedID); err != nil {
		return 0, false, err
	}
	return 0, false, apierr.New(apierr.Internal, "like toggle contention")
}

// AddComment appends a comment and returns it.
func (s *Store) AddComment(ctx context.Context, feedID, authorID primitive.ObjectID, text string) (models.Comment, error) {
	text = textclean.Clean(text)
	if text == "" {
		return models.Comment{}, ErrEmptyComment
	}

	c := models.Comment{
		ID:        primitive.NewObjectID(),
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	res, err := s.c.UpdateByID(ctx, feedID, bson.M{
		"$push": bson.M{"comments": c},
		"$set":  bson.M{"updated_at": c.CreatedAt},
	})
	if err != nil {
		return models.Comment{}, apierr.Wrap(apierr.Internal, "add comment", err)
	}
	if res.MatchedCount == 0 {
		return models.Comment{}, ErrFeedNotFound
	}
	return c, nil
}

// RemoveComment deletes one embedded comment after checking the actor
// may (comment author or admin). Returns the feed's remaining comments.
func (s *Store) RemoveComment(ctx context.Context, feedID, commentID primitive.ObjectID, actor feedpolicy.Actor) ([]models.Comment, error) {
	f, err := s.GetByID(ctx, feedID)
	if err != nil {
		return nil, err
	}
	c, ok := f.CommentByID(commentID)
	if !ok {
		return nil, ErrCommentNotFound
	}
	if !feedpolicy.CanDeleteComment(actor, c) {
		return nil, ErrNotAuthorized
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var after models.Feed
	err = s.c.FindOneAndUpdate(ctx, bson.M{"_id": feedID}, bson.M{
		"$pull": bson.M{"comments": bson.M{"_id": commentID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}, opts).Decode(&after)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrFeedNotFound
		}
		return nil, apierr.Wrap(apierr.Internal, "remove comment", err)
	}
	return after.Comments, nil
}

// EditParams carries the changes for an edit. An empty Text keeps the
// existing text. A new Image wins over RemoveImage.
type EditParams struct {
	Text        string
	Image       string
	RemoveImage bool
}

// Edit applies author-only changes and returns the updated feed.
func (s *Store) Edit(ctx context.Context, feedID primitive.ObjectID, actor feedpolicy.Actor, p EditParams) (models.Feed, error) {
	f, err := s.GetByID(ctx, feedID)
	if err != nil {
		return models.Feed{}, err
	}
	if !feedpolicy.CanEdit(actor, f) {
		return models.Feed{}, ErrNotAuthorized
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}
	if text := textclean.Clean(p.Text); text != "" {
		set["text"] = text
	}
	switch {
	case p.Image != "":
		set["image"] = p.Image
	case p.RemoveImage:
		unset["image"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var after models.Feed
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": feedID}, update, opts).Decode(&after); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Feed{}, ErrFeedNotFound
		}
		return models.Feed{}, apierr.Wrap(apierr.Internal, "edit feed", err)
	}
	return after, nil
}

// Delete removes the feed after checking the actor may (author or
// admin). Reshares of the deleted feed are left in place; projection
// flags their missing original.
func (s *Store) Delete(ctx context.Context, feedID primitive.ObjectID, actor feedpolicy.Actor) error {
	f, err := s.GetByID(ctx, feedID)
	if err != nil {
		return err
	}
	if !feedpolicy.CanDeleteFeed(actor, f) {
		return ErrNotAuthorized
	}

	res, err := s.c.DeleteOne(ctx, bson.M{"_id": feedID})
	if err != nil {
		return apierr.Wrap(apierr.Internal, "delete feed", err)
	}
	if res.DeletedCount == 0 {
		return ErrFeedNotFound
	}
	return nil
}

// TogglePin flips the admin pin. Pinning stamps pinned_at; unpinning
// clears it. The guard on is_pinned makes racing toggles flip once each
// instead of both landing on the same state.
func (s *Store) TogglePin(ctx context.Context, feedID primitive.ObjectID, actor feedpolicy.Actor) (models.Feed, error) {
	f, err := s.GetByID(ctx, feedID)
	if err != nil {
		return models.Feed{}, err
	}
	if !feedpolicy.CanPin(actor) {
		return models.Feed{}, ErrNotAuthorized
	}

	now := time.Now().UTC()
	filter := bson.M{"_id": feedID, "is_pinned": f.IsPinned}
	var update bson.M
	if f.IsPinned {
		update = bson.M{
			"$set":   bson.M{"is_pinned": false, "updated_at": now},
			"$unset": bson.M{"pinned_at": ""},
		}
	} else {
		update = bson.M{
			"$set": bson.M{"is_pinned": true, "pinned_at": now, "updated_at": now},
		}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var after models.Feed
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&after); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Lost a race with another admin; the current document state
			// is the answer either way.
			return s.GetByID(ctx, feedID)
		}
		return models.Feed{}, apierr.Wrap(apierr.Internal, "toggle pin", err)
	}
	return after, nil
}
