// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role values. New accounts start on probation until an admin activates
// them; admins additionally get pin/moderation capabilities.
const (
	RoleProbation = "probation"
	RoleActive    = "active"
	RoleAdmin     = "admin"
)

// Church keys identify the member's parish. The projection layer maps
// these to display names; the stored value is always the key.
const (
	ChurchSSJoachimAndAnne = "ss_joachim_and_anne"
	ChurchStMarys          = "st_marys"
	ChurchStBrendan        = "st_brendan"
)

// User represents a community member account.
//
// PasswordHash is a bcrypt hash and is never serialized to JSON.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	Role         string             `bson:"role" json:"role"` // probation | active | admin
	Gender       string             `bson:"gender,omitempty" json:"gender,omitempty"`
	DOB          *time.Time         `bson:"dob,omitempty" json:"dob,omitempty"`
	ProfilePic   string             `bson:"profile_pic,omitempty" json:"profilePic,omitempty"`
	Church       string             `bson:"church" json:"church"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
