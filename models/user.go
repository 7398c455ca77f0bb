package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// KYC status constants
const (
	KYCStatusNone     = "none"
	KYCStatusPending  = "pending"
	KYCStatusVerified = "verified"
	KYCStatusRejected = "rejected"
)

type User struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string     `gorm:"not null" json:"name"`
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	Phone       *string    `gorm:"size:20" json:"phone,omitempty"`
	Role        string     `gorm:"not null;default:renter" json:"role"` // renter, owner, admin
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`

	// KYC (identity verification)
	KYCStatus      string     `gorm:"size:20;not null;default:'none';index" json:"kyc_status"`
	KYCDocumentKey *string    `gorm:"size:500" json:"-"` // Storage key, never exposed directly
	KYCSubmittedAt *time.Time `json:"kyc_submitted_at,omitempty"`
	KYCReviewedAt  *time.Time `json:"kyc_reviewed_at,omitempty"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// IsKYCVerified checks if the user passed identity verification
func (u *User) IsKYCVerified() bool {
	return u.KYCStatus == KYCStatusVerified
}

// IsValidKYCStatus checks if the status is valid
func IsValidKYCStatus(status string) bool {
	switch status {
	case KYCStatusNone, KYCStatusPending, KYCStatusVerified, KYCStatusRejected:
		return true
	}
	return false
}
