package clubs

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Club is a registered student organization. CareerTags holds exact career names or
// catalog categories the club serves; Keywords are free-form topic words.
type Club struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string                      `gorm:"not null;uniqueIndex;column:name" json:"name"`
	Description string                      `gorm:"column:description" json:"description"`
	Category    string                      `gorm:"column:category;index" json:"category"`
	CareerTags  datatypes.JSONSlice[string] `gorm:"column:career_tags" json:"career_tags"`
	Keywords    datatypes.JSONSlice[string] `gorm:"column:keywords" json:"keywords"`
	Instagram   string                      `gorm:"column:instagram" json:"instagram,omitempty"`
	Website     string                      `gorm:"column:website" json:"website,omitempty"`
	Active      bool                        `gorm:"not null;column:active" json:"active"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Club) TableName() string { return "club" }

func (c *Club) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
