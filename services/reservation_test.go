package services

import (
	"errors"
	"testing"
	"time"

	"rent_flow_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupReservationTestDB(t *testing.T) (*gorm.DB, *models.User, *models.User, *models.Vehicle) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Vehicle{}, &models.BlockedDate{}, &models.Reservation{}))

	owner := &models.User{Name: "Owner", Email: "owner@example.com", Password: "x", Role: "owner", IsActive: true}
	renter := &models.User{Name: "Renter", Email: "renter@example.com", Password: "x", Role: "renter", IsActive: true, KYCStatus: models.KYCStatusVerified}
	require.NoError(t, db.Create(owner).Error)
	require.NoError(t, db.Create(renter).Error)

	vehicle := &models.Vehicle{
		OwnerID:     owner.ID,
		Make:        "Toyota",
		Model:       "Corolla",
		Year:        2021,
		PlateNumber: "ABC-123",
		DailyPrice:  50,
		City:        "Bogota",
		IsPublished: true,
	}
	require.NoError(t, db.Create(vehicle).Error)

	return db, owner, renter, vehicle
}

func TestCreateReservation(t *testing.T) {
	db, _, renter, vehicle := setupReservationTestDB(t)

	res := &models.Reservation{
		VehicleID: vehicle.ID,
		RenterID:  renter.ID,
		StartDate: day(2024, 3, 10),
		EndDate:   day(2024, 3, 12),
	}
	require.NoError(t, CreateReservation(db, res))

	assert.Equal(t, models.ReservationStatusPending, res.Status)
	// 3 inclusive days at 50 per day
	assert.Equal(t, 150.0, res.TotalPrice)
	assert.NotEmpty(t, res.ID)
}

func TestCreateReservationRejectsOverlap(t *testing.T) {
	db, _, renter, vehicle := setupReservationTestDB(t)

	first := &models.Reservation{
		VehicleID: vehicle.ID,
		RenterID:  renter.ID,
		StartDate: day(2024, 3, 10),
		EndDate:   day(2024, 3, 15),
	}
	require.NoError(t, CreateReservation(db, first))

	second := &models.Reservation{
		VehicleID: vehicle.ID,
		RenterID:  renter.ID,
		StartDate: day(2024, 3, 14),
		EndDate:   day(2024, 3, 18),
	}
	err := CreateReservation(db, second)
	require.Error(t, err)

	var conflictErr *ConflictError
	require.True(t, errors.As(err, &conflictErr))
	assert.NotEmpty(t, conflictErr.Conflicts)

	// The rejected booking was never written
	var count int64
	db.Model(&models.Reservation{}).Where("vehicle_id = ?", vehicle.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateReservationRejectsBlockedDay(t *testing.T) {
	db, _, renter, vehicle := setupReservationTestDB(t)

	_, err := AddBlockedDate(db, vehicle.ID, day(2024, 4, 2), "Maintenance")
	require.NoError(t, err)

	res := &models.Reservation{
		VehicleID: vehicle.ID,
		RenterID:  renter.ID,
		StartDate: day(2024, 4, 1),
		EndDate:   day(2024, 4, 3),
	}
	err = CreateReservation(db, res)

	var conflictErr *ConflictError
	require.True(t, errors.As(err, &conflictErr))
	assert.Equal(t, ConflictBlockedDate, conflictErr.Conflicts[0].Kind)
}

func TestCreateReservationUnpublishedVehicle(t *testing.T) {
	db, _, renter, vehicle := setupReservationTestDB(t)
	require.NoError(t, SetVehiclePublished(db, vehicle.ID, false))

	res := &models.Reservation{
		VehicleID: vehicle.ID,
		RenterID:  renter.ID,
		StartDate: day(2024, 3, 10),
		EndDate:   day(2024, 3, 12),
	}
	assert.Error(t, CreateReservation(db, res))
}

func TestCreateReservationOwnVehicle(t *testing.T) {
	db, owner, _, vehicle := setupReservationTestDB(t)

	res := &models.Reservation{
		VehicleID: vehicle.ID,
		RenterID:  owner.ID,
		StartDate: day(2024, 3, 10),
		EndDate:   day(2024, 3, 12),
	}
	assert.Error(t, CreateReservation(db, res))
}

func TestCreateReservationInvalidRange(t *testing.T) {
	db, _, renter, vehicle := setupReservationTestDB(t)

	res := &models.Reservation{
		VehicleID: vehicle.ID,
		RenterID:  renter.ID,
		StartDate: day(2024, 3, 12),
		EndDate:   day(2024, 3, 10),
	}
	assert.ErrorIs(t, CreateReservation(db, res), ErrInvalidRange)
}

func TestReservationLifecycle(t *testing.T) {
	db, _, renter, vehicle := setupReservationTestDB(t)

	res := &models.Reservation{
		VehicleID: vehicle.ID,
		RenterID:  renter.ID,
		StartDate: day(2024, 3, 10),
		EndDate:   day(2024, 3, 12),
	}
	require.NoError(t, CreateReservation(db, res))

	// Rental cannot start before the owner confirms
	_, err := StartRental(db, res.ID)
	assert.Error(t, err)

	confirmed, err := ConfirmReservation(db, res.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusConfirmed, confirmed.Status)

	// Confirming twice fails
	_, err = ConfirmReservation(db, res.ID)
	assert.Error(t, err)

	started, err := StartRental(db, res.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusInProgress, started.Status)

	// An in-progress rental can no longer be cancelled
	_, err = CancelReservation(db, res.ID, renter.ID, "changed my mind")
	assert.Error(t, err)

	completed, err := CompleteRental(db, res.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusCompleted, completed.Status)
}

func TestCancelReservation(t *testing.T) {
	db, _, renter, vehicle := setupReservationTestDB(t)

	res := &models.Reservation{
		VehicleID: vehicle.ID,
		RenterID:  renter.ID,
		StartDate: day(2024, 3, 10),
		EndDate:   day(2024, 3, 12),
	}
	require.NoError(t, CreateReservation(db, res))

	cancelled, err := CancelReservation(db, res.ID, renter.ID, "plans changed")
	require.NoError(t, err)
	assert.Equal(t, models.ReservationStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	// A cancelled booking frees the calendar
	again := &models.Reservation{
		VehicleID: vehicle.ID,
		RenterID:  renter.ID,
		StartDate: day(2024, 3, 10),
		EndDate:   day(2024, 3, 12),
	}
	assert.NoError(t, CreateReservation(db, again))
}

func TestRescheduleReservation(t *testing.T) {
	db, _, renter, vehicle := setupReservationTestDB(t)

	res := &models.Reservation{
		VehicleID: vehicle.ID,
		RenterID:  renter.ID,
		StartDate: day(2024, 3, 10),
		EndDate:   day(2024, 3, 12),
	}
	require.NoError(t, CreateReservation(db, res))

	// Shifting the booking over its own old interval must not self-conflict
	updated, err := RescheduleReservation(db, res.ID, day(2024, 3, 11), day(2024, 3, 14))
	require.NoError(t, err)
	assert.Equal(t, day(2024, 3, 11), NormalizeDay(updated.StartDate))
	assert.Equal(t, day(2024, 3, 14), NormalizeDay(updated.EndDate))
	// 4 inclusive days at 50 per day
	assert.Equal(t, 200.0, updated.TotalPrice)
}

func TestRescheduleReservationConflict(t *testing.T) {
	db, _, renter, vehicle := setupReservationTestDB(t)

	first := &models.Reservation{
		VehicleID: vehicle.ID,
		RenterID:  renter.ID,
		StartDate: day(2024, 3, 10),
		EndDate:   day(2024, 3, 12),
	}
	require.NoError(t, CreateReservation(db, first))

	second := &models.Reservation{
		VehicleID: vehicle.ID,
		RenterID:  renter.ID,
		StartDate: day(2024, 3, 20),
		EndDate:   day(2024, 3, 22),
	}
	require.NoError(t, CreateReservation(db, second))

	_, err := RescheduleReservation(db, second.ID, day(2024, 3, 12), day(2024, 3, 14))
	var conflictErr *ConflictError
	require.True(t, errors.As(err, &conflictErr))

	// Dates are untouched after the rejected move
	reloaded, err := GetReservationByID(db, second.ID)
	require.NoError(t, err)
	assert.Equal(t, day(2024, 3, 20), NormalizeDay(reloaded.StartDate))
}

func TestRescheduleCompletedReservation(t *testing.T) {
	db, _, renter, vehicle := setupReservationTestDB(t)

	res := &models.Reservation{
		VehicleID: vehicle.ID,
		RenterID:  renter.ID,
		StartDate: day(2024, 3, 10),
		EndDate:   day(2024, 3, 12),
	}
	require.NoError(t, CreateReservation(db, res))
	require.NoError(t, db.Model(res).Update("status", models.ReservationStatusCompleted).Error)

	_, err := RescheduleReservation(db, res.ID, day(2024, 3, 20), day(2024, 3, 22))
	assert.Error(t, err)
}

func TestExpireStalePendingReservations(t *testing.T) {
	db, _, renter, vehicle := setupReservationTestDB(t)

	past := time.Now().AddDate(0, 0, -3)
	stale := createTestReservation(t, db, vehicle.ID, models.ReservationStatusPending,
		past, past.AddDate(0, 0, 1))
	stale.RenterID = renter.ID

	future := createTestReservation(t, db, vehicle.ID, models.ReservationStatusPending,
		time.Now().AddDate(0, 0, 10), time.Now().AddDate(0, 0, 12))

	confirmedPast := createTestReservation(t, db, vehicle.ID, models.ReservationStatusConfirmed,
		past, past.AddDate(0, 0, 1))

	require.NoError(t, ExpireStalePendingReservations(db))

	var reloaded models.Reservation
	require.NoError(t, db.First(&reloaded, "id = ?", stale.ID).Error)
	assert.Equal(t, models.ReservationStatusCancelled, reloaded.Status)

	reloaded = models.Reservation{}
	require.NoError(t, db.First(&reloaded, "id = ?", future.ID).Error)
	assert.Equal(t, models.ReservationStatusPending, reloaded.Status)

	// Confirmed bookings are never expired, even past their start
	reloaded = models.Reservation{}
	require.NoError(t, db.First(&reloaded, "id = ?", confirmedPast.ID).Error)
	assert.Equal(t, models.ReservationStatusConfirmed, reloaded.Status)
}
