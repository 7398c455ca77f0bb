package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contract represents a generated rental agreement PDF for a reservation
type Contract struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ReservationID string      `gorm:"type:uuid;uniqueIndex;not null" json:"reservation_id"`
	Reservation   Reservation `gorm:"foreignKey:ReservationID" json:"reservation,omitempty"`

	StorageKey  string    `gorm:"size:500;not null" json:"-"`
	FileSize    int64     `json:"file_size"`
	GeneratedAt time.Time `gorm:"not null" json:"generated_at"`

	SignedByOwner  bool `gorm:"not null;default:false" json:"signed_by_owner"`
	SignedByRenter bool `gorm:"not null;default:false" json:"signed_by_renter"`
}

// BeforeCreate hook to generate UUID
func (c *Contract) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Contract model
func (Contract) TableName() string {
	return "contracts"
}

// IsFullySigned checks if both parties signed the contract
func (c *Contract) IsFullySigned() bool {
	return c.SignedByOwner && c.SignedByRenter
}
