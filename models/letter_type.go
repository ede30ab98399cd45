package models

import "time"

// LetterType describes one kind of official letter the village issues,
// including the .docx template used to print it.
type LetterType struct {
	LetterTypeID   uint       `gorm:"primaryKey;column:letter_type_id" json:"letter_type_id"`
	CategoryID     uint       `gorm:"column:category_id;index" json:"category_id"`
	Name           string     `gorm:"column:name" json:"name"`
	Description    string     `gorm:"column:description" json:"description"`
	Requirements   string     `gorm:"column:requirements;type:text" json:"requirements"` // newline separated list
	IconPath       *string    `gorm:"column:icon_path" json:"icon_path,omitempty"`
	TemplatePath   *string    `gorm:"column:template_path" json:"template_path,omitempty"`
	HasSecondParty bool       `gorm:"column:has_second_party" json:"has_second_party"`
	CreateAt       time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt       time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt       *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Category *LetterCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (LetterType) TableName() string {
	return "letter_types"
}

// HasTemplate reports whether a .docx template has been uploaded.
func (t *LetterType) HasTemplate() bool {
	return t.TemplatePath != nil && *t.TemplatePath != ""
}
