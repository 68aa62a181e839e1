package model

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a registered account. The password hash never leaves the server.
type User struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"password"`
	Avatar       string             `json:"avatar" bson:"avatar"`
	Date         time.Time          `json:"date" bson:"date"`
}

// NewUser builds a user ready for insertion.
func NewUser(name, email, passwordHash, avatar string) *User {
	return &User{
		ID:           primitive.NewObjectID(),
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Avatar:       avatar,
		Date:         time.Now().UTC(),
	}
}

// NormalizeEmail trims and lower-cases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
