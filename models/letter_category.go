package models

import "time"

type LetterCategory struct {
	CategoryID  uint       `gorm:"primaryKey;column:category_id" json:"category_id"`
	Name        string     `gorm:"column:name;unique" json:"name"`
	Description string     `gorm:"column:description" json:"description"`
	CreateAt    time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt    time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	LetterTypes []LetterType `gorm:"foreignKey:CategoryID" json:"letter_types,omitempty"`
}

func (LetterCategory) TableName() string {
	return "letter_categories"
}
