package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Role represents a user's role in the platform. The zero value means a
// regular student with no elevated access.
type Role string

const (
	RoleNone       Role = ""
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// User represents a platform user. Email is the natural key: users are
// created insert-if-absent on first sign-in and looked up by email everywhere
// except the id-based admin mutations.
type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name  string             `bson:"name,omitempty" json:"name,omitempty"`
	Email string             `bson:"email" json:"email"`
	Role  Role               `bson:"role,omitempty" json:"role,omitempty"`
}
