package models

import "time"

// Vote model - tracks one user's vote on one link.
// The composite unique index makes the "one vote per (user, link)" rule a
// database constraint, so concurrent duplicate votes fail at insert time.
type Vote struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_votes_user_link" json:"user_id"`
	LinkID    int       `gorm:"not null;uniqueIndex:idx_votes_user_link" json:"link_id"`
	CreatedAt time.Time `json:"created_at"`
}
