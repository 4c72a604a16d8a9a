package models

// Category groups posts into a single named topic.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"unique;not null;size:50" json:"name"`
}

// TableName specifies the table name for GORM
func (Category) TableName() string {
	return "categories"
}
