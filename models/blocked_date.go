package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlockedDate represents a single calendar day an owner marked unavailable
// for a vehicle. Date is always midnight-anchored UTC; there is at most one
// meaningful record per (vehicle, day) pair.
type BlockedDate struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	VehicleID string    `gorm:"type:uuid;index;not null" json:"vehicle_id"`
	Date      time.Time `gorm:"not null;index" json:"date"`
	Reason    string    `json:"reason"` // "Maintenance", "Personal use", "Other"

	// Relationships
	Vehicle Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
}

// BeforeCreate hook to generate UUID
func (b *BlockedDate) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for BlockedDate model
func (BlockedDate) TableName() string {
	return "blocked_dates"
}

// Day returns the blocked day normalized to midnight UTC. Rows written
// before day normalization was enforced may carry a time component.
func (b *BlockedDate) Day() time.Time {
	return time.Date(b.Date.Year(), b.Date.Month(), b.Date.Day(), 0, 0, 0, 0, time.UTC)
}
