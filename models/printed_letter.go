package models

import "time"

// PrintedLetter is one document-generation event for a letter request.
// Reprints add rows; archiving marks the distinguished row.
type PrintedLetter struct {
	PrintedLetterID uint       `gorm:"primaryKey;column:printed_letter_id" json:"printed_letter_id"`
	RequestID       uint       `gorm:"column:request_id;index" json:"request_id"`
	PrintedBy       uint       `gorm:"column:printed_by" json:"printed_by"`
	PrintedAt       time.Time  `gorm:"column:printed_at" json:"printed_at"`
	ArchivedBy      *uint      `gorm:"column:archived_by" json:"archived_by,omitempty"`
	ArchivedAt      *time.Time `gorm:"column:archived_at" json:"archived_at,omitempty"`
	FileName        string     `gorm:"column:file_name;unique" json:"file_name"`
	FileURL         string     `gorm:"column:file_url" json:"file_url"`
	CreateAt        time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt        time.Time  `gorm:"column:update_at" json:"update_at"`

	Request *LetterRequest `gorm:"foreignKey:RequestID" json:"request,omitempty"`
	Printer *User          `gorm:"foreignKey:PrintedBy" json:"printer,omitempty"`
}

func (PrintedLetter) TableName() string {
	return "printed_letters"
}
