package services

import (
	"testing"

	"rent_flow_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupReportTestDB(t *testing.T) (*gorm.DB, *models.User, *models.Vehicle) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Vehicle{}, &models.Reservation{}))

	owner := &models.User{Name: "Owner", Email: "owner@example.com", Password: "x", Role: "owner", IsActive: true}
	renter := &models.User{Name: "Renter", Email: "renter@example.com", Password: "x", Role: "renter", IsActive: true}
	require.NoError(t, db.Create(owner).Error)
	require.NoError(t, db.Create(renter).Error)

	vehicle := &models.Vehicle{
		OwnerID: owner.ID, Make: "Renault", Model: "Logan", Year: 2020,
		PlateNumber: "RPT-001", DailyPrice: 35, IsPublished: true,
	}
	require.NoError(t, db.Create(vehicle).Error)

	require.NoError(t, db.Create(&models.Reservation{
		VehicleID: vehicle.ID, RenterID: renter.ID,
		StartDate: day(2024, 2, 1), EndDate: day(2024, 2, 3),
		Status: models.ReservationStatusCompleted, TotalPrice: 105,
	}).Error)
	require.NoError(t, db.Create(&models.Reservation{
		VehicleID: vehicle.ID, RenterID: renter.ID,
		StartDate: day(2024, 2, 10), EndDate: day(2024, 2, 11),
		Status: models.ReservationStatusCompleted, TotalPrice: 70,
	}).Error)
	// Pending bookings are not earnings
	require.NoError(t, db.Create(&models.Reservation{
		VehicleID: vehicle.ID, RenterID: renter.ID,
		StartDate: day(2024, 3, 1), EndDate: day(2024, 3, 5),
		Status: models.ReservationStatusPending, TotalPrice: 175,
	}).Error)

	return db, owner, vehicle
}

func TestBuildOwnerEarningsReport(t *testing.T) {
	db, owner, _ := setupReportTestDB(t)

	report, err := BuildOwnerEarningsReport(db, owner.ID)
	require.NoError(t, err)
	defer report.Close()

	header, err := report.GetCellValue("Earnings", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Vehicle", header)

	// Two completed rentals, ordered by start date
	vehicleName, _ := report.GetCellValue("Earnings", "A2")
	assert.Equal(t, "Renault Logan", vehicleName)
	firstTotal, _ := report.GetCellValue("Earnings", "G2")
	assert.Equal(t, "105", firstTotal)
	secondStart, _ := report.GetCellValue("Earnings", "D3")
	assert.Equal(t, "2024-02-10", secondStart)

	// Totals row sums completed rentals only
	label, _ := report.GetCellValue("Earnings", "F4")
	assert.Equal(t, "Total", label)
	total, _ := report.GetCellValue("Earnings", "G4")
	assert.Equal(t, "175", total)
}

func TestBuildOwnerEarningsReportEmpty(t *testing.T) {
	db, _, _ := setupReportTestDB(t)

	other := &models.User{Name: "No Cars", Email: "nocars@example.com", Password: "x", Role: "owner", IsActive: true}
	require.NoError(t, db.Create(other).Error)

	report, err := BuildOwnerEarningsReport(db, other.ID)
	require.NoError(t, err)
	defer report.Close()

	label, _ := report.GetCellValue("Earnings", "F2")
	assert.Equal(t, "Total", label)
	total, _ := report.GetCellValue("Earnings", "G2")
	assert.Equal(t, "0", total)
}
