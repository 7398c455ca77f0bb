package services

import (
	"testing"
	"time"

	"rent_flow_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupVehicleTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Vehicle{}, &models.BlockedDate{}))
	return db
}

func TestSanitizeDescription(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Script tags are stripped",
			input:    `Great car<script>alert("xss")</script>`,
			expected: "Great car",
		},
		{
			name:     "Basic formatting survives",
			input:    "Well maintained. <b>Non smoker</b>",
			expected: "Well maintained. <b>Non smoker</b>",
		},
		{
			name:     "Event handlers are removed",
			input:    `<img src="x" onerror="alert(1)">clean`,
			expected: `<img src="x">clean`,
		},
		{
			name:     "Plain text passes through",
			input:    "2021 model, low mileage",
			expected: "2021 model, low mileage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeDescription(tt.input))
		})
	}
}

func TestCreateVehicleSanitizesDescription(t *testing.T) {
	db := setupVehicleTestDB(t)

	vehicle := &models.Vehicle{
		OwnerID:     "owner-1",
		Make:        "Mazda",
		Model:       "3",
		Year:        2022,
		PlateNumber: "XYZ-789",
		DailyPrice:  40,
		Description: `Nice<script>bad()</script> ride`,
	}
	require.NoError(t, CreateVehicle(db, vehicle))
	assert.Equal(t, "Nice ride", vehicle.Description)
}

func TestListPublishedVehicles(t *testing.T) {
	db := setupVehicleTestDB(t)

	require.NoError(t, CreateVehicle(db, &models.Vehicle{
		OwnerID: "owner-1", Make: "Kia", Model: "Rio", Year: 2020,
		PlateNumber: "AAA-111", DailyPrice: 30, City: "Medellin", IsPublished: true,
	}))
	require.NoError(t, CreateVehicle(db, &models.Vehicle{
		OwnerID: "owner-1", Make: "Kia", Model: "Picanto", Year: 2019,
		PlateNumber: "BBB-222", DailyPrice: 25, City: "Bogota", IsPublished: true,
	}))
	require.NoError(t, CreateVehicle(db, &models.Vehicle{
		OwnerID: "owner-1", Make: "Kia", Model: "Sportage", Year: 2023,
		PlateNumber: "CCC-333", DailyPrice: 60, City: "Bogota", IsPublished: false,
	}))

	all, err := ListPublishedVehicles(db, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	bogota, err := ListPublishedVehicles(db, "Bogota")
	require.NoError(t, err)
	require.Len(t, bogota, 1)
	assert.Equal(t, "Picanto", bogota[0].Model)
}

func TestAddBlockedDateIsIdempotent(t *testing.T) {
	db := setupVehicleTestDB(t)
	vehicleID := "vehicle-1"

	first, err := AddBlockedDate(db, vehicleID, day(2024, 4, 1), "Maintenance")
	require.NoError(t, err)

	// Same calendar day with a different time component returns the same row
	second, err := AddBlockedDate(db, vehicleID, time.Date(2024, 4, 1, 15, 30, 0, 0, time.UTC), "Other")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&models.BlockedDate{}).Where("vehicle_id = ?", vehicleID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRemoveBlockedDate(t *testing.T) {
	db := setupVehicleTestDB(t)
	vehicleID := "vehicle-1"

	blocked, err := AddBlockedDate(db, vehicleID, day(2024, 4, 1), "Maintenance")
	require.NoError(t, err)
	require.NoError(t, RemoveBlockedDate(db, blocked.ID))

	remaining, err := ListBlockedDates(db, vehicleID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestVehiclePhotoKeys(t *testing.T) {
	db := setupVehicleTestDB(t)

	vehicle := &models.Vehicle{
		OwnerID: "owner-1", Make: "Ford", Model: "Fiesta", Year: 2018,
		PlateNumber: "DDD-444", DailyPrice: 20,
	}
	require.NoError(t, CreateVehicle(db, vehicle))

	assert.Nil(t, VehiclePhotoKeys(vehicle))

	require.NoError(t, AddVehiclePhotoKey(db, vehicle, "vehicles/v1/photos/a.jpg"))
	require.NoError(t, AddVehiclePhotoKey(db, vehicle, "vehicles/v1/photos/b.jpg"))

	keys := VehiclePhotoKeys(vehicle)
	assert.Equal(t, []string{"vehicles/v1/photos/a.jpg", "vehicles/v1/photos/b.jpg"}, keys)
}
