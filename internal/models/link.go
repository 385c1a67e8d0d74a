package models

import "time"

type Link struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Description string    `gorm:"not null" json:"description"`
	URL         string    `gorm:"not null" json:"url"`
	PostedByID  *int      `json:"posted_by_id,omitempty"`
	PostedBy    *User     `gorm:"foreignKey:PostedByID" json:"posted_by,omitempty"`
	Votes       []Vote    `gorm:"foreignKey:LinkID" json:"votes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
