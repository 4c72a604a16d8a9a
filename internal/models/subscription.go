package models

import "time"

// AuthorSubscription follows an author: the subscriber receives one
// notification per post that author publishes. One row per
// (subscriber, author) pair, enforced by the composite unique index.
type AuthorSubscription struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_sub_user_author" json:"user_id"`
	AuthorID     uint      `gorm:"not null;uniqueIndex:idx_sub_user_author" json:"author_id"`
	SubscribedAt time.Time `gorm:"autoCreateTime" json:"subscribed_at"`

	// Relationships
	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Author User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
}

// TableName specifies the table name for GORM
func (AuthorSubscription) TableName() string {
	return "author_subscriptions"
}

// CategorySubscription follows a category: the subscriber receives one
// notification per post published into that category.
type CategorySubscription struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_sub_user_category" json:"user_id"`
	CategoryID   uint      `gorm:"not null;uniqueIndex:idx_sub_user_category" json:"category_id"`
	SubscribedAt time.Time `gorm:"autoCreateTime" json:"subscribed_at"`

	// Relationships
	User     User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Category Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category,omitempty"`
}

// TableName specifies the table name for GORM
func (CategorySubscription) TableName() string {
	return "category_subscriptions"
}
