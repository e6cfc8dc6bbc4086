package models

import (
	"time"
)

type UserRole string

const (
	UserRoleStudent UserRole = "STUDENT"
	UserRoleAlumnus UserRole = "ALUMNUS"
	UserRoleMentor  UserRole = "MENTOR"
	UserRoleMentee  UserRole = "MENTEE"
	UserRoleStaff   UserRole = "STAFF"
	UserRoleAdmin   UserRole = "ADMIN"
)

// User represents an account on the platform. Accounts are created inactive
// and activated after email verification.
type User struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	Email    string   `gorm:"uniqueIndex;not null" json:"email"`
	Password string   `gorm:"not null" json:"-"`
	PhoneNum string   `gorm:"size:20" json:"phone_num"`
	Role     UserRole `gorm:"size:20;not null;default:STUDENT;index" json:"role"`

	FirstName  string `gorm:"size:100;not null" json:"first_name"`
	LastName   string `gorm:"size:100;not null" json:"last_name"`
	MiddleName string `gorm:"size:100" json:"middle_name,omitempty"`

	Street  *string `gorm:"size:120" json:"street,omitempty"`
	City    *string `gorm:"size:50" json:"city,omitempty"`
	State   *string `gorm:"size:50" json:"state,omitempty"`
	Country *string `gorm:"size:50" json:"country,omitempty"`

	IsActive bool `gorm:"default:false" json:"is_active"`
	IsStaff  bool `gorm:"default:false" json:"is_staff"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// FullName returns the user's display name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// OneTimeCode is the verification code issued on signup or password reset.
// Each user holds at most one live code; issuing a new one replaces the old.
type OneTimeCode struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Code     string    `gorm:"size:6;not null" json:"-"`
	Expiry   time.Time `gorm:"not null" json:"expiry"`
	Verified bool      `gorm:"default:false" json:"verified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for OneTimeCode model
func (OneTimeCode) TableName() string {
	return "one_time_codes"
}

// Expired reports whether the code is past its expiry at the given time
func (c *OneTimeCode) Expired(now time.Time) bool {
	return now.After(c.Expiry)
}
