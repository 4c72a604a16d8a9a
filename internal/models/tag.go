package models

// Tag is a free-form label attached to posts (many-to-many).
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"unique;not null;size:50" json:"name"`
}
