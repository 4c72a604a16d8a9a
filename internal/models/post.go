package models

import (
	"time"

	"gorm.io/gorm"
)

// PostStatus is the publication state of a post.
type PostStatus string

const (
	// PostStatusDraft is the initial state of every post.
	PostStatusDraft PostStatus = "draft"
	// PostStatusPublished is terminal; there is no unpublish transition.
	PostStatusPublished PostStatus = "published"
)

// Post represents a blog post. PublishedAt is non-nil exactly when
// Status is published; the draft->published transition happens once and
// is the sole trigger for notification fan-out.
type Post struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null;size:200" json:"title"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	AuthorID    uint       `gorm:"not null;index" json:"author_id"`
	Author      User       `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	CategoryID  *uint      `gorm:"index" json:"category_id,omitempty"`
	Category    *Category  `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Tags        []Tag      `gorm:"many2many:post_tags" json:"tags,omitempty"`
	Status      PostStatus `gorm:"type:varchar(10);not null;default:'draft';index" json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	// ContentHTML is not persisted; rendered from Content at response time.
	ContentHTML string `gorm:"-" json:"content_html,omitempty"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// AverageRating is not persisted; computed at query time, 0 when unrated
	AverageRating float64 `gorm:"->" json:"average_rating"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Published reports whether the post has left the draft state.
func (p *Post) Published() bool {
	return p.Status == PostStatusPublished
}
