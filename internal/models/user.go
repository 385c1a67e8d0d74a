package models

import "time"

type User struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"` // bcrypt hash, never serialized

	Links []Link `gorm:"foreignKey:PostedByID" json:"links,omitempty"`
	Votes []Vote `gorm:"foreignKey:UserID" json:"votes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// AuthPayload pairs a freshly issued token with its user. Ephemeral response
// wrapper, never persisted.
type AuthPayload struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
