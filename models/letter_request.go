package models

import "time"

// RequestStatus is the lifecycle state of a letter request.
type RequestStatus string

const (
	StatusSubmitted       RequestStatus = "SUBMITTED"
	StatusApproved        RequestStatus = "APPROVED"
	StatusRejected        RequestStatus = "REJECTED"
	StatusSigned          RequestStatus = "SIGNED"
	StatusRejectedByKades RequestStatus = "REJECTED_BY_KADES"
	StatusCompleted       RequestStatus = "COMPLETED"
	StatusArchived        RequestStatus = "ARCHIVED"
)

// Valid reports whether the status is one of the known values.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusSubmitted, StatusApproved, StatusRejected, StatusSigned,
		StatusRejectedByKades, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// IsFinished reports whether the request no longer counts as open.
// Finished requests block neither new requests for the same letter
// type nor deletion of their resident profile.
func (s RequestStatus) IsFinished() bool {
	return s == StatusCompleted || s == StatusArchived
}

// LetterRequest is one resident's application for one letter type.
type LetterRequest struct {
	RequestID        uint          `gorm:"primaryKey;column:request_id" json:"request_id"`
	ResidentID       uint          `gorm:"column:resident_id;index" json:"resident_id"`
	LetterTypeID     uint          `gorm:"column:letter_type_id;index" json:"letter_type_id"`
	SecondResidentID *uint         `gorm:"column:second_resident_id" json:"second_resident_id,omitempty"`
	Status           RequestStatus `gorm:"column:status;type:varchar(24);index" json:"status"`
	Notes            string        `gorm:"column:notes;type:text" json:"notes"`
	RejectionReason  *string       `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`
	LetterNumber     *string       `gorm:"column:letter_number;unique" json:"letter_number,omitempty"`
	RequestDate      time.Time     `gorm:"column:request_date" json:"request_date"`
	CreateAt         time.Time     `gorm:"column:create_at" json:"create_at"`
	UpdateAt         time.Time     `gorm:"column:update_at" json:"update_at"`
	DeleteAt         *time.Time    `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Resident       *Resident              `gorm:"foreignKey:ResidentID" json:"resident,omitempty"`
	SecondResident *Resident              `gorm:"foreignKey:SecondResidentID" json:"second_resident,omitempty"`
	LetterType     *LetterType            `gorm:"foreignKey:LetterTypeID" json:"letter_type,omitempty"`
	Attachments    []RequestAttachment    `gorm:"foreignKey:RequestID" json:"attachments,omitempty"`
	History        []RequestStatusHistory `gorm:"foreignKey:RequestID" json:"history,omitempty"`
}

func (LetterRequest) TableName() string {
	return "letter_requests"
}

// RequestAttachment belongs to exactly one letter request, either as a
// fresh upload or as a reference to a pre-existing resident document.
type RequestAttachment struct {
	AttachmentID       uint      `gorm:"primaryKey;column:attachment_id" json:"attachment_id"`
	RequestID          uint      `gorm:"column:request_id;index" json:"request_id"`
	FileName           string    `gorm:"column:file_name" json:"file_name"`
	FileURL            string    `gorm:"column:file_url" json:"file_url"`
	ResidentDocumentID *uint     `gorm:"column:resident_document_id" json:"resident_document_id,omitempty"`
	CreateAt           time.Time `gorm:"column:create_at" json:"create_at"`
}

func (RequestAttachment) TableName() string {
	return "request_attachments"
}

// RequestStatusHistory is the audit trail of lifecycle transitions.
type RequestStatusHistory struct {
	HistoryID  uint          `gorm:"primaryKey;column:history_id" json:"history_id"`
	RequestID  uint          `gorm:"column:request_id;index" json:"request_id"`
	FromStatus RequestStatus `gorm:"column:from_status;type:varchar(24)" json:"from_status"`
	ToStatus   RequestStatus `gorm:"column:to_status;type:varchar(24)" json:"to_status"`
	ChangedBy  uint          `gorm:"column:changed_by" json:"changed_by"`
	Reason     string        `gorm:"column:reason" json:"reason"`
	CreateAt   time.Time     `gorm:"column:create_at" json:"create_at"`
}

func (RequestStatusHistory) TableName() string {
	return "request_status_histories"
}
