package models

import (
	"time"
)

// Role gates which lifecycle transitions a user may perform.
type Role string

const (
	RoleAdmin Role = "ADMIN" // village staff: verifies requests, manages letter types
	RoleKades Role = "KADES" // village head: signs approved letters
	RoleWarga Role = "WARGA" // resident: owns letter requests
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleKades, RoleWarga:
		return true
	}
	return false
}

type User struct {
	UserID         uint       `gorm:"primaryKey;column:user_id" json:"user_id"`
	Name           string     `gorm:"column:name" json:"name"`
	Username       string     `gorm:"column:username;unique" json:"username"`
	Email          string     `gorm:"column:email;unique" json:"email"`
	Password       string     `gorm:"column:password" json:"-"`
	Role           Role       `gorm:"column:role;type:varchar(16)" json:"role"`
	ProfilePicture *string    `gorm:"column:profile_picture" json:"profile_picture,omitempty"`
	IsVerified     bool       `gorm:"column:is_verified" json:"is_verified"`
	PinHash        *string    `gorm:"column:pin_hash" json:"-"`
	CreateAt       time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt       time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt       *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Resident *Resident `gorm:"foreignKey:UserID" json:"resident,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// HasPIN reports whether a signing PIN has been configured.
func (u *User) HasPIN() bool {
	return u.PinHash != nil && *u.PinHash != ""
}
