package domain

import (
	"time"
)

// Category represents a node in the category forest. ParentID is nil for
// root categories; any number of disjoint roots is allowed.
type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null" validate:"required"`
	ParentID    *uint     `json:"parent_id" gorm:"index"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	SortOrder   int       `json:"sort_order" gorm:"default:0" validate:"gte=0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Category) TableName() string {
	return "categories"
}

// IsRoot reports whether the category has no parent
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
