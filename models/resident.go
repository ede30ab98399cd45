package models

import (
	"strings"
	"time"
)

type Gender string

const (
	GenderMale   Gender = "LAKI_LAKI"
	GenderFemale Gender = "PEREMPUAN"
)

// DisplayGender returns the gender the way it is written on letters.
func (g Gender) Display() string {
	switch g {
	case GenderMale:
		return "Laki-laki"
	case GenderFemale:
		return "Perempuan"
	}
	return string(g)
}

// Resident is the demographic profile of a WARGA account.
type Resident struct {
	ResidentID      uint       `gorm:"primaryKey;column:resident_id" json:"resident_id"`
	UserID          uint       `gorm:"column:user_id;unique" json:"user_id"`
	NIK             string     `gorm:"column:nik;type:varchar(16);unique" json:"nik"`
	FullName        string     `gorm:"column:full_name" json:"full_name"`
	PlaceOfBirth    string     `gorm:"column:place_of_birth" json:"place_of_birth"`
	DateOfBirth     *time.Time `gorm:"column:date_of_birth" json:"date_of_birth,omitempty"`
	Gender          Gender     `gorm:"column:gender;type:varchar(16)" json:"gender"`
	Religion        string     `gorm:"column:religion" json:"religion"`
	MaritalStatus   string     `gorm:"column:marital_status" json:"marital_status"`
	Occupation      string     `gorm:"column:occupation" json:"occupation"`
	Nationality     string     `gorm:"column:nationality" json:"nationality"`
	RT              string     `gorm:"column:rt;type:varchar(4)" json:"rt"`
	RW              string     `gorm:"column:rw;type:varchar(4)" json:"rw"`
	Dusun           string     `gorm:"column:dusun" json:"dusun"`
	Desa            string     `gorm:"column:desa" json:"desa"`
	Kecamatan       string     `gorm:"column:kecamatan" json:"kecamatan"`
	Kabupaten       string     `gorm:"column:kabupaten" json:"kabupaten"`
	Provinsi        string     `gorm:"column:provinsi" json:"provinsi"`
	DomicileAddress string     `gorm:"column:domicile_address" json:"domicile_address"`
	CreateAt        time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt        time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt        *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	User      *User              `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Documents []ResidentDocument `gorm:"foreignKey:ResidentID" json:"documents,omitempty"`
}

func (Resident) TableName() string {
	return "residents"
}

// FullAddress concatenates the address parts as written on letters.
func (r *Resident) FullAddress() string {
	parts := make([]string, 0, 6)
	if r.DomicileAddress != "" {
		parts = append(parts, r.DomicileAddress)
	}
	if r.RT != "" && r.RW != "" {
		parts = append(parts, "RT "+r.RT+"/RW "+r.RW)
	}
	if r.Dusun != "" {
		parts = append(parts, "Dusun "+r.Dusun)
	}
	if r.Desa != "" {
		parts = append(parts, "Desa "+r.Desa)
	}
	if r.Kecamatan != "" {
		parts = append(parts, "Kecamatan "+r.Kecamatan)
	}
	if r.Kabupaten != "" {
		parts = append(parts, r.Kabupaten)
	}
	return strings.Join(parts, ", ")
}

// ResidentDocument is a pre-uploaded supporting file (KTP, KK, ...)
// reusable across letter requests.
type ResidentDocument struct {
	DocumentID   uint       `gorm:"primaryKey;column:document_id" json:"document_id"`
	ResidentID   uint       `gorm:"column:resident_id;index" json:"resident_id"`
	DocumentType string     `gorm:"column:document_type" json:"document_type"` // KTP|KK|AKTA_LAHIR|...
	FileName     string     `gorm:"column:file_name" json:"file_name"`
	FileURL      string     `gorm:"column:file_url" json:"file_url"`
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt     time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (ResidentDocument) TableName() string {
	return "resident_documents"
}
