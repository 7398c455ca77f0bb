package handlers

import (
	"net/http"
	"strings"

	"rent_flow_app_go/db"
	"rent_flow_app_go/middleware"
	"rent_flow_app_go/models"
	"rent_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

type vehicleRequest struct {
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	Year         int     `json:"year"`
	PlateNumber  string  `json:"plate_number"`
	Transmission string  `json:"transmission"`
	FuelType     string  `json:"fuel_type"`
	Seats        int     `json:"seats"`
	DailyPrice   float64 `json:"daily_price"`
	City         string  `json:"city"`
	Description  string  `json:"description"`
}

// ListVehiclesHandler returns published listings, optionally filtered by city
func ListVehiclesHandler(c echo.Context) error {
	vehicles, err := services.ListPublishedVehicles(db.DB, c.QueryParam("city"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load vehicles")
	}
	return c.JSON(http.StatusOK, vehicles)
}

// GetVehicleHandler returns a single listing with photo URLs
func GetVehicleHandler(c echo.Context) error {
	vehicle, err := services.GetVehicleByID(db.DB, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Vehicle not found")
	}

	photos := []string{}
	for _, key := range services.VehiclePhotoKeys(vehicle) {
		photos = append(photos, services.Storage.GetPublicURL(key))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"vehicle": vehicle,
		"photos":  photos,
	})
}

// ListMyVehiclesHandler returns every listing belonging to the current owner,
// published or not
func ListMyVehiclesHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	vehicles, err := services.ListOwnerVehicles(db.DB, currentUser.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load vehicles")
	}
	return c.JSON(http.StatusOK, vehicles)
}

// CreateVehicleHandler creates a listing for the current owner
func CreateVehicleHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	var req vehicleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if strings.TrimSpace(req.Make) == "" || strings.TrimSpace(req.Model) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Make and model are required")
	}
	if strings.TrimSpace(req.PlateNumber) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Plate number is required")
	}
	if req.DailyPrice <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Daily price must be positive")
	}

	vehicle := &models.Vehicle{
		OwnerID:      currentUser.ID,
		Make:         strings.TrimSpace(req.Make),
		Model:        strings.TrimSpace(req.Model),
		Year:         req.Year,
		PlateNumber:  strings.ToUpper(strings.TrimSpace(req.PlateNumber)),
		Transmission: req.Transmission,
		FuelType:     req.FuelType,
		Seats:        req.Seats,
		DailyPrice:   req.DailyPrice,
		City:         strings.TrimSpace(req.City),
		Description:  req.Description,
	}

	if err := services.CreateVehicle(db.DB, vehicle); err != nil {
		return echo.NewHTTPError(http.StatusConflict, "Failed to create vehicle (plate number may already exist)")
	}

	return c.JSON(http.StatusCreated, vehicle)
}

// UpdateVehicleHandler updates an owner's listing
func UpdateVehicleHandler(c echo.Context) error {
	vehicle, err := loadOwnedVehicle(c)
	if err != nil {
		return err
	}

	var req vehicleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if req.Make != "" {
		vehicle.Make = strings.TrimSpace(req.Make)
	}
	if req.Model != "" {
		vehicle.Model = strings.TrimSpace(req.Model)
	}
	if req.Year != 0 {
		vehicle.Year = req.Year
	}
	if req.Transmission != "" {
		vehicle.Transmission = req.Transmission
	}
	if req.FuelType != "" {
		vehicle.FuelType = req.FuelType
	}
	if req.Seats != 0 {
		vehicle.Seats = req.Seats
	}
	if req.DailyPrice > 0 {
		vehicle.DailyPrice = req.DailyPrice
	}
	if req.City != "" {
		vehicle.City = strings.TrimSpace(req.City)
	}
	if req.Description != "" {
		vehicle.Description = req.Description
	}

	if err := services.UpdateVehicle(db.DB, vehicle); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update vehicle")
	}

	return c.JSON(http.StatusOK, vehicle)
}

// DeleteVehicleHandler removes an owner's listing
func DeleteVehicleHandler(c echo.Context) error {
	vehicle, err := loadOwnedVehicle(c)
	if err != nil {
		return err
	}

	if err := services.DeleteVehicle(db.DB, vehicle.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete vehicle")
	}
	return c.NoContent(http.StatusNoContent)
}

// PublishVehicleHandler publishes or unpublishes a listing
func PublishVehicleHandler(c echo.Context) error {
	vehicle, err := loadOwnedVehicle(c)
	if err != nil {
		return err
	}

	published := c.QueryParam("published") != "false"
	if err := services.SetVehiclePublished(db.DB, vehicle.ID, published); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update listing")
	}

	vehicle.IsPublished = published
	return c.JSON(http.StatusOK, vehicle)
}

// UploadVehiclePhotoHandler stores a listing photo
func UploadVehiclePhotoHandler(c echo.Context) error {
	vehicle, err := loadOwnedVehicle(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Photo file is required")
	}

	key := services.GenerateVehiclePhotoKey(vehicle.ID, file.Filename)
	result, err := services.Storage.Upload(c.Request().Context(), file, key)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store photo")
	}

	if err := services.AddVehiclePhotoKey(db.DB, vehicle, result.Key); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save photo reference")
	}

	return c.JSON(http.StatusCreated, map[string]string{"key": result.Key, "url": result.URL})
}

// CreateBlockedDateHandler blocks a single day on a vehicle's calendar
func CreateBlockedDateHandler(c echo.Context) error {
	vehicle, err := loadOwnedVehicle(c)
	if err != nil {
		return err
	}

	dateStr := strings.TrimSpace(c.FormValue("date"))
	if dateStr == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Date is required")
	}

	day, err := services.ParseDate(dateStr)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid date")
	}

	blocked, err := services.AddBlockedDate(db.DB, vehicle.ID, day, strings.TrimSpace(c.FormValue("reason")))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to block date")
	}

	return c.JSON(http.StatusCreated, blocked)
}

// ListBlockedDatesHandler returns an owner's blocked days for a vehicle
func ListBlockedDatesHandler(c echo.Context) error {
	vehicle, err := loadOwnedVehicle(c)
	if err != nil {
		return err
	}

	blocked, err := services.ListBlockedDates(db.DB, vehicle.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load blocked dates")
	}
	return c.JSON(http.StatusOK, blocked)
}

// DeleteBlockedDateHandler unblocks a day
func DeleteBlockedDateHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	blocked, err := services.GetBlockedDateByID(db.DB, c.Param("blockedDateId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Blocked date not found")
	}

	vehicle, err := services.GetVehicleByID(db.DB, blocked.VehicleID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Vehicle not found")
	}
	if vehicle.OwnerID != currentUser.ID && currentUser.Role != "admin" {
		return echo.NewHTTPError(http.StatusForbidden, "Access denied")
	}

	if err := services.RemoveBlockedDate(db.DB, blocked.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to remove blocked date")
	}
	return c.NoContent(http.StatusNoContent)
}

// loadOwnedVehicle fetches the vehicle from the :id param and verifies the
// current user owns it (admins bypass the ownership check)
func loadOwnedVehicle(c echo.Context) (*models.Vehicle, error) {
	currentUser := middleware.GetCurrentUser(c)

	vehicle, err := services.GetVehicleByID(db.DB, c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Vehicle not found")
	}

	if vehicle.OwnerID != currentUser.ID && currentUser.Role != "admin" {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Access denied")
	}

	return vehicle, nil
}
