package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"rent_flow_app_go/models"

	"gorm.io/gorm"
)

// ConflictError is returned when a booking write is rejected because the
// requested range is no longer free at commit time.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	msgs := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		msgs = append(msgs, c.Message)
	}
	return "requested dates are not available: " + strings.Join(msgs, "; ")
}

// CreateReservation books a vehicle for a renter. The availability check runs
// again inside the same transaction as the insert, so two concurrent bookings
// for overlapping ranges serialize on the write path instead of relying on
// the advisory pre-check the UI performed.
func CreateReservation(db *gorm.DB, res *models.Reservation) error {
	if res.StartDate.After(res.EndDate) {
		return ErrInvalidRange
	}

	var vehicle models.Vehicle
	if err := db.First(&vehicle, "id = ?", res.VehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("vehicle not found")
		}
		return fmt.Errorf("failed to load vehicle: %w", err)
	}
	if !vehicle.IsPublished {
		return fmt.Errorf("vehicle is not available for booking")
	}
	if vehicle.OwnerID == res.RenterID {
		return fmt.Errorf("owners cannot book their own vehicle")
	}

	res.Status = models.ReservationStatusPending
	if res.TotalPrice == 0 {
		res.TotalPrice = float64(res.Days()) * vehicle.DailyPrice
	}

	return db.Transaction(func(tx *gorm.DB) error {
		resolver := NewAvailabilityResolver(&GormAvailabilityStore{DB: tx})
		check, err := resolver.CheckRange(context.Background(), res.VehicleID, res.StartDate, res.EndDate, "")
		if err != nil {
			return err
		}
		if !check.Available {
			return &ConflictError{Conflicts: check.Conflicts}
		}

		if err := tx.Create(res).Error; err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}
		return nil
	})
}

// GetReservationByID fetches a single reservation with relationships
func GetReservationByID(db *gorm.DB, id string) (*models.Reservation, error) {
	var res models.Reservation
	err := db.Preload("Vehicle").Preload("Vehicle.Owner").Preload("Renter").
		First(&res, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// GetRenterReservations fetches all reservations made by a renter
func GetRenterReservations(db *gorm.DB, renterID string) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := db.Preload("Vehicle").
		Where("renter_id = ?", renterID).
		Order("start_date desc").
		Find(&reservations).Error
	return reservations, err
}

// GetOwnerReservations fetches all reservations on any of an owner's vehicles
func GetOwnerReservations(db *gorm.DB, ownerID string) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := db.Preload("Vehicle").Preload("Renter").
		Joins("JOIN vehicles ON vehicles.id = reservations.vehicle_id").
		Where("vehicles.owner_id = ?", ownerID).
		Order("reservations.start_date desc").
		Find(&reservations).Error
	return reservations, err
}

// ConfirmReservation transitions a pending reservation to confirmed
func ConfirmReservation(db *gorm.DB, id string) (*models.Reservation, error) {
	return transitionReservation(db, id, models.ReservationStatusConfirmed,
		func(r *models.Reservation) bool { return r.CanConfirm() })
}

// StartRental transitions a confirmed reservation to in_progress (key handover)
func StartRental(db *gorm.DB, id string) (*models.Reservation, error) {
	return transitionReservation(db, id, models.ReservationStatusInProgress,
		func(r *models.Reservation) bool { return r.CanStart() })
}

// CompleteRental transitions an in_progress reservation to completed
func CompleteRental(db *gorm.DB, id string) (*models.Reservation, error) {
	return transitionReservation(db, id, models.ReservationStatusCompleted,
		func(r *models.Reservation) bool { return r.CanComplete() })
}

// CancelReservation cancels a pending or confirmed reservation
func CancelReservation(db *gorm.DB, id, cancelledByID, reason string) (*models.Reservation, error) {
	res, err := GetReservationByID(db, id)
	if err != nil {
		return nil, err
	}
	if !res.CanCancel() {
		return nil, fmt.Errorf("reservation with status %q cannot be cancelled", res.Status)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":       models.ReservationStatusCancelled,
		"cancelled_at": now,
	}
	if cancelledByID != "" {
		updates["cancelled_by_id"] = cancelledByID
	}
	if reason != "" {
		updates["cancellation_reason"] = reason
	}

	if err := db.Model(&models.Reservation{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to cancel reservation: %w", err)
	}

	res.Status = models.ReservationStatusCancelled
	res.CancelledAt = &now
	return res, nil
}

// RescheduleReservation moves a reservation to new dates. The overlap check
// runs inside the transaction and excludes the reservation's own interval, so
// an edit never conflicts with itself.
func RescheduleReservation(db *gorm.DB, id string, newStart, newEnd time.Time) (*models.Reservation, error) {
	if newStart.After(newEnd) {
		return nil, ErrInvalidRange
	}

	res, err := GetReservationByID(db, id)
	if err != nil {
		return nil, err
	}
	if !res.IsEditable() {
		return nil, fmt.Errorf("reservation with status %q cannot be rescheduled", res.Status)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		resolver := NewAvailabilityResolver(&GormAvailabilityStore{DB: tx})
		check, err := resolver.CheckRange(context.Background(), res.VehicleID, newStart, newEnd, id)
		if err != nil {
			return err
		}
		if !check.Available {
			return &ConflictError{Conflicts: check.Conflicts}
		}

		newPrice := float64(len(DatesInRange(newStart, newEnd))) * res.Vehicle.DailyPrice
		return tx.Model(&models.Reservation{}).Where("id = ?", id).
			Updates(map[string]interface{}{
				"start_date":  newStart,
				"end_date":    newEnd,
				"total_price": newPrice,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	return GetReservationByID(db, id)
}

// ExpireStalePendingReservations cancels pending reservations whose start day
// has already passed without the owner confirming. Run from the hourly
// cleanup job.
func ExpireStalePendingReservations(db *gorm.DB) error {
	today := NormalizeDay(time.Now())
	result := db.Model(&models.Reservation{}).
		Where("status = ? AND start_date < ?", models.ReservationStatusPending, today).
		Updates(map[string]interface{}{
			"status":              models.ReservationStatusCancelled,
			"cancelled_at":        time.Now(),
			"cancellation_reason": "expired: not confirmed before the start date",
		})
	if result.Error != nil {
		return fmt.Errorf("failed to expire stale reservations: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Printf("Expired %d stale pending reservations", result.RowsAffected)
	}
	return nil
}

// transitionReservation applies a guarded status change
func transitionReservation(db *gorm.DB, id, newStatus string, allowed func(*models.Reservation) bool) (*models.Reservation, error) {
	res, err := GetReservationByID(db, id)
	if err != nil {
		return nil, err
	}
	if !allowed(res) {
		return nil, fmt.Errorf("reservation with status %q cannot transition to %q", res.Status, newStatus)
	}

	if err := db.Model(&models.Reservation{}).Where("id = ?", id).Update("status", newStatus).Error; err != nil {
		return nil, fmt.Errorf("failed to update reservation status: %w", err)
	}

	res.Status = newStatus
	return res, nil
}
