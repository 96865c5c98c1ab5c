package domain

import (
	"context"
	"time"
)

// User is the owner of an exercise library. Every other entity carries a
// user_id pointing here.
type User struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	FirebaseUID string    `bson:"firebase_uid,omitempty" json:"firebase_uid"`
	Email       string    `bson:"email" json:"email"`
	Name        string    `bson:"name" json:"name"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	GetByFirebaseUID(ctx context.Context, uid string) (*User, error)
	// UpsertByFirebaseUID creates the user on first login and refreshes
	// email/name afterwards. user.ID is filled in either way.
	UpsertByFirebaseUID(ctx context.Context, user *User) error
}
