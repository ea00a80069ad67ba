// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/parishapps/parishfeed/internal/app/system/apierr"
	"github.com/parishapps/parishfeed/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrUserExists   = apierr.New(apierr.InvalidArgument, "user already exists")
	ErrUserNotFound = apierr.New(apierr.NotFound, "user not found")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Create inserts a new user. New accounts start on probation until an
// admin activates them. The unique email index backs ErrUserExists.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = models.RoleProbation
	}
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrUserExists
		}
		return models.User{}, apierr.Wrap(apierr.Internal, "insert user", err)
	}
	return u, nil
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, apierr.Wrap(apierr.Internal, "find user", err)
	}
	return u, nil
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	filter := bson.M{"email": strings.ToLower(strings.TrimSpace(email))}
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, apierr.Wrap(apierr.Internal, "find user", err)
	}
	return u, nil
}

// GetMany loads the given users into a map keyed by id. Missing ids are
// simply absent; callers render a placeholder author for those.
func (s *Store) GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	out := make(map[primitive.ObjectID]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, apierr.Wrap(apierr.Internal, "find users", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, apierr.Wrap(apierr.Internal, "decode user", err)
		}
		out[u.ID] = u
	}
	if err := cur.Err(); err != nil {
		return nil, apierr.Wrap(apierr.Internal, "iterate users", err)
	}
	return out, nil
}

// ListIDsExcept returns every user id except the one given. Used to fan
// out new-post notifications to everyone but the author.
func (s *Store) ListIDsExcept(ctx context.Context, except primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$ne": except}})
	if err != nil {
		return nil, apierr.Wrap(apierr.Internal, "find users", err)
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, apierr.Wrap(apierr.Internal, "decode user id", err)
		}
		ids = append(ids, doc.ID)
	}
	if err := cur.Err(); err != nil {
		return nil, apierr.Wrap(apierr.Internal, "iterate users", err)
	}
	return ids, nil
}

// List returns all users sorted by name, for the community directory.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, apierr.Wrap(apierr.Internal, "find users", err)
	}
	defer cur.Close(ctx)

	var users []models.User
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, apierr.Wrap(apierr.Internal, "decode user", err)
		}
		users = append(users, u)
	}
	if err := cur.Err(); err != nil {
		return nil, apierr.Wrap(apierr.Internal, "iterate users", err)
	}
	return users, nil
}
