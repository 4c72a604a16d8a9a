package models

import "time"

// PostRating records a user's 1-5 rating of a post. One row per
// (user, post): re-rating overwrites Rating in place and bumps
// UpdatedAt, leaving CreatedAt untouched. Rows are never deleted.
type PostRating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_rating_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_rating_user_post" json:"post_id"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Post Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (PostRating) TableName() string {
	return "post_ratings"
}
