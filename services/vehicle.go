package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"rent_flow_app_go/models"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// descriptionPolicy strips everything but basic formatting from
// owner-supplied listing text
var descriptionPolicy = bluemonday.UGCPolicy()

// SanitizeDescription cleans owner-supplied HTML before it is persisted
func SanitizeDescription(raw string) string {
	return strings.TrimSpace(descriptionPolicy.Sanitize(raw))
}

// CreateVehicle creates a new vehicle listing
func CreateVehicle(db *gorm.DB, vehicle *models.Vehicle) error {
	vehicle.Description = SanitizeDescription(vehicle.Description)
	if err := db.Create(vehicle).Error; err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	return nil
}

// GetVehicleByID fetches a single vehicle with its owner
func GetVehicleByID(db *gorm.DB, id string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := db.Preload("Owner").First(&vehicle, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// ListPublishedVehicles fetches published listings, optionally filtered by city
func ListPublishedVehicles(db *gorm.DB, city string) ([]models.Vehicle, error) {
	query := db.Preload("Owner").Where("is_published = ?", true)
	if city != "" {
		query = query.Where("city = ?", city)
	}

	var vehicles []models.Vehicle
	err := query.Order("created_at desc").Find(&vehicles).Error
	return vehicles, err
}

// ListOwnerVehicles fetches all vehicles belonging to an owner
func ListOwnerVehicles(db *gorm.DB, ownerID string) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := db.Where("owner_id = ?", ownerID).Order("created_at desc").Find(&vehicles).Error
	return vehicles, err
}

// UpdateVehicle persists changes to a listing
func UpdateVehicle(db *gorm.DB, vehicle *models.Vehicle) error {
	vehicle.Description = SanitizeDescription(vehicle.Description)
	if err := db.Save(vehicle).Error; err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}
	return nil
}

// DeleteVehicle removes a listing
func DeleteVehicle(db *gorm.DB, id string) error {
	return db.Delete(&models.Vehicle{}, "id = ?", id).Error
}

// SetVehiclePublished publishes or unpublishes a listing
func SetVehiclePublished(db *gorm.DB, id string, published bool) error {
	return db.Model(&models.Vehicle{}).Where("id = ?", id).Update("is_published", published).Error
}

// AddVehiclePhotoKey appends a photo storage key to a listing
func AddVehiclePhotoKey(db *gorm.DB, vehicle *models.Vehicle, key string) error {
	if vehicle.PhotoKeys == "" {
		vehicle.PhotoKeys = key
	} else {
		vehicle.PhotoKeys = vehicle.PhotoKeys + "," + key
	}
	return db.Model(&models.Vehicle{}).Where("id = ?", vehicle.ID).Update("photo_keys", vehicle.PhotoKeys).Error
}

// VehiclePhotoKeys splits the stored photo keys for a listing
func VehiclePhotoKeys(vehicle *models.Vehicle) []string {
	if vehicle.PhotoKeys == "" {
		return nil
	}
	return strings.Split(vehicle.PhotoKeys, ",")
}

// AddBlockedDate marks a single calendar day unavailable for a vehicle.
// The day is normalized to midnight UTC; blocking an already-blocked day is
// a no-op rather than a duplicate row.
func AddBlockedDate(db *gorm.DB, vehicleID string, day time.Time, reason string) (*models.BlockedDate, error) {
	normalized := NormalizeDay(day)

	var existing models.BlockedDate
	err := db.Where("vehicle_id = ? AND date = ?", vehicleID, normalized).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing blocked date: %w", err)
	}

	blocked := &models.BlockedDate{
		VehicleID: vehicleID,
		Date:      normalized,
		Reason:    reason,
	}
	if err := db.Create(blocked).Error; err != nil {
		return nil, fmt.Errorf("failed to create blocked date: %w", err)
	}
	return blocked, nil
}

// GetBlockedDateByID fetches a single blocked date
func GetBlockedDateByID(db *gorm.DB, id string) (*models.BlockedDate, error) {
	var blocked models.BlockedDate
	err := db.First(&blocked, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &blocked, nil
}

// ListBlockedDates fetches all blocked days for a vehicle
func ListBlockedDates(db *gorm.DB, vehicleID string) ([]models.BlockedDate, error) {
	var blocked []models.BlockedDate
	err := db.Where("vehicle_id = ?", vehicleID).Order("date asc").Find(&blocked).Error
	return blocked, err
}

// RemoveBlockedDate deletes a blocked day
func RemoveBlockedDate(db *gorm.DB, id string) error {
	return db.Delete(&models.BlockedDate{}, "id = ?", id).Error
}
