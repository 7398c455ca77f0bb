package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vehicle represents a car listed for rent by an owner
type Vehicle struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OwnerID string `gorm:"type:uuid;index;not null" json:"owner_id"`
	Owner   User   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	Make         string `gorm:"size:100;not null" json:"make"`
	Model        string `gorm:"size:100;not null" json:"model"`
	Year         int    `gorm:"not null" json:"year"`
	PlateNumber  string `gorm:"uniqueIndex;size:32;not null" json:"plate_number"`
	Transmission string `gorm:"size:20" json:"transmission"` // manual, automatic
	FuelType     string `gorm:"size:20" json:"fuel_type"`    // petrol, diesel, electric, hybrid
	Seats        int    `gorm:"default:5" json:"seats"`

	DailyPrice  float64 `gorm:"not null" json:"daily_price"`
	City        string  `gorm:"size:100;index" json:"city"`
	Description string  `gorm:"type:text" json:"description"` // Sanitized before persisting

	// Photo storage keys, comma-separated. Small sets only; a join table is
	// overkill for the handful of photos a listing carries.
	PhotoKeys string `gorm:"type:text" json:"-"`

	IsPublished bool `gorm:"not null;default:false;index" json:"is_published"`
}

// BeforeCreate hook to generate UUID
func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Vehicle model
func (Vehicle) TableName() string {
	return "vehicles"
}

// DisplayName returns a human-readable vehicle name
func (v *Vehicle) DisplayName() string {
	return v.Make + " " + v.Model
}
