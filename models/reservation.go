package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reservation status constants
const (
	ReservationStatusPending    = "pending"
	ReservationStatusConfirmed  = "confirmed"
	ReservationStatusInProgress = "in_progress"
	ReservationStatusCompleted  = "completed"
	ReservationStatusCancelled  = "cancelled"
)

// BlockingStatuses are the statuses that occupy a vehicle's calendar.
// Completed and cancelled reservations never block.
var BlockingStatuses = []string{
	ReservationStatusPending,
	ReservationStatusConfirmed,
	ReservationStatusInProgress,
}

// Reservation represents a rental booking for a vehicle
type Reservation struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	VehicleID string  `gorm:"type:uuid;index;not null" json:"vehicle_id"`
	Vehicle   Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`

	RenterID string `gorm:"type:uuid;index;not null" json:"renter_id"`
	Renter   User   `gorm:"foreignKey:RenterID" json:"renter,omitempty"`

	// Inclusive calendar boundaries. Stored values may carry a time-of-day
	// component; availability math normalizes them to whole days.
	StartDate time.Time `gorm:"not null;index" json:"start_date"`
	EndDate   time.Time `gorm:"not null;index" json:"end_date"`

	Status     string  `gorm:"size:20;default:'pending';index" json:"status"`
	TotalPrice float64 `gorm:"not null" json:"total_price"`

	CancellationReason *string    `gorm:"type:text" json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelledByID      *string    `gorm:"type:uuid" json:"cancelled_by_id,omitempty"`

	Notes *string `gorm:"type:text" json:"notes,omitempty"`
}

// BeforeCreate hook to generate UUID
func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Reservation model
func (Reservation) TableName() string {
	return "reservations"
}

// IsValidReservationStatus checks if the status is valid
func IsValidReservationStatus(status string) bool {
	switch status {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusInProgress,
		ReservationStatusCompleted, ReservationStatusCancelled:
		return true
	}
	return false
}

// IsBlockingStatus checks if a status occupies the vehicle's calendar
func IsBlockingStatus(status string) bool {
	for _, s := range BlockingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// CanConfirm checks if the reservation can be confirmed by the owner
func (r *Reservation) CanConfirm() bool {
	return r.Status == ReservationStatusPending
}

// CanCancel checks if the reservation can still be cancelled
func (r *Reservation) CanCancel() bool {
	return r.Status == ReservationStatusPending || r.Status == ReservationStatusConfirmed
}

// CanStart checks if the rental can begin (key handover)
func (r *Reservation) CanStart() bool {
	return r.Status == ReservationStatusConfirmed
}

// CanComplete checks if the rental can be closed out
func (r *Reservation) CanComplete() bool {
	return r.Status == ReservationStatusInProgress
}

// IsEditable checks if the reservation dates can still be changed
func (r *Reservation) IsEditable() bool {
	return r.Status == ReservationStatusPending || r.Status == ReservationStatusConfirmed
}

// Days returns the number of billable days, inclusive of both boundaries
func (r *Reservation) Days() int {
	start := time.Date(r.StartDate.Year(), r.StartDate.Month(), r.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(r.EndDate.Year(), r.EndDate.Month(), r.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours()/24) + 1
}
