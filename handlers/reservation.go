package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"rent_flow_app_go/config"
	"rent_flow_app_go/db"
	"rent_flow_app_go/middleware"
	"rent_flow_app_go/models"
	"rent_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

type createReservationRequest struct {
	VehicleID string `json:"vehicle_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type rescheduleRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// CreateReservationHandler books a vehicle for the current renter
func CreateReservationHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	if !currentUser.IsKYCVerified() {
		return echo.NewHTTPError(http.StatusForbidden, "Identity verification is required before booking")
	}

	var req createReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.VehicleID) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Vehicle is required")
	}

	start, err := services.ParseDate(req.StartDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid start date")
	}
	end, err := services.ParseDate(req.EndDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid end date")
	}

	res := &models.Reservation{
		VehicleID: req.VehicleID,
		RenterID:  currentUser.ID,
		StartDate: start,
		EndDate:   end,
	}

	if err := services.CreateReservation(db.DB, res); err != nil {
		var conflictErr *services.ConflictError
		if errors.As(err, &conflictErr) {
			return c.JSON(http.StatusConflict, map[string]interface{}{
				"message":   "Requested dates are not available",
				"conflicts": conflictErr.Conflicts,
			})
		}
		if errors.Is(err, services.ErrInvalidRange) {
			return echo.NewHTTPError(http.StatusBadRequest, "End date must not be before start date")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Notify the owner. Email failures never fail the booking.
	if full, err := services.GetReservationByID(db.DB, res.ID); err == nil {
		if cfg, ok := c.Get("config").(*config.Config); ok {
			if err := services.SendBookingRequestedEmail(cfg, full.Vehicle.Owner.Email, full); err != nil {
				log.Printf("[WARNING] Failed to send booking request email: %v", err)
			}
		}
		return c.JSON(http.StatusCreated, full)
	}

	return c.JSON(http.StatusCreated, res)
}

// ListMyReservationsHandler returns the current renter's bookings
func ListMyReservationsHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	reservations, err := services.GetRenterReservations(db.DB, currentUser.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load reservations")
	}
	return c.JSON(http.StatusOK, reservations)
}

// ListOwnerReservationsHandler returns bookings across all the owner's vehicles
func ListOwnerReservationsHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	reservations, err := services.GetOwnerReservations(db.DB, currentUser.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load reservations")
	}
	return c.JSON(http.StatusOK, reservations)
}

// GetReservationHandler returns one reservation to either party
func GetReservationHandler(c echo.Context) error {
	res, err := loadReservationForParty(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// ConfirmReservationHandler lets the vehicle owner accept a booking request.
// Confirmation also generates the rental contract and notifies the renter.
func ConfirmReservationHandler(c echo.Context) error {
	res, err := loadReservationForParty(c)
	if err != nil {
		return err
	}

	currentUser := middleware.GetCurrentUser(c)
	if res.Vehicle.OwnerID != currentUser.ID && currentUser.Role != "admin" {
		return echo.NewHTTPError(http.StatusForbidden, "Only the vehicle owner can confirm")
	}

	confirmed, err := services.ConfirmReservation(db.DB, res.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := services.GenerateContract(c.Request().Context(), db.DB, res.ID); err != nil {
		log.Printf("[WARNING] Failed to generate contract for reservation %s: %v", res.ID, err)
	}

	if cfg, ok := c.Get("config").(*config.Config); ok {
		res.Status = confirmed.Status
		if err := services.SendBookingConfirmedEmail(cfg, res.Renter.Email, res); err != nil {
			log.Printf("[WARNING] Failed to send booking confirmation email: %v", err)
		}
	}

	return c.JSON(http.StatusOK, confirmed)
}

// CancelReservationHandler cancels a booking on behalf of either party
func CancelReservationHandler(c echo.Context) error {
	res, err := loadReservationForParty(c)
	if err != nil {
		return err
	}

	var req cancelRequest
	c.Bind(&req)

	currentUser := middleware.GetCurrentUser(c)
	cancelled, err := services.CancelReservation(db.DB, res.ID, currentUser.ID, strings.TrimSpace(req.Reason))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Tell the party that didn't cancel
	if cfg, ok := c.Get("config").(*config.Config); ok {
		other := res.Vehicle.Owner.Email
		if currentUser.ID == res.Vehicle.OwnerID {
			other = res.Renter.Email
		}
		if err := services.SendBookingCancelledEmail(cfg, other, cancelled); err != nil {
			log.Printf("[WARNING] Failed to send cancellation email: %v", err)
		}
	}

	return c.JSON(http.StatusOK, cancelled)
}

// StartRentalHandler marks the key handover on the pick-up day
func StartRentalHandler(c echo.Context) error {
	res, err := loadReservationForParty(c)
	if err != nil {
		return err
	}

	currentUser := middleware.GetCurrentUser(c)
	if res.Vehicle.OwnerID != currentUser.ID && currentUser.Role != "admin" {
		return echo.NewHTTPError(http.StatusForbidden, "Only the vehicle owner can start the rental")
	}

	started, err := services.StartRental(db.DB, res.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, started)
}

// CompleteRentalHandler marks the vehicle as returned
func CompleteRentalHandler(c echo.Context) error {
	res, err := loadReservationForParty(c)
	if err != nil {
		return err
	}

	currentUser := middleware.GetCurrentUser(c)
	if res.Vehicle.OwnerID != currentUser.ID && currentUser.Role != "admin" {
		return echo.NewHTTPError(http.StatusForbidden, "Only the vehicle owner can complete the rental")
	}

	completed, err := services.CompleteRental(db.DB, res.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, completed)
}

// RescheduleReservationHandler moves a booking to new dates
func RescheduleReservationHandler(c echo.Context) error {
	res, err := loadReservationForParty(c)
	if err != nil {
		return err
	}

	currentUser := middleware.GetCurrentUser(c)
	if res.RenterID != currentUser.ID && currentUser.Role != "admin" {
		return echo.NewHTTPError(http.StatusForbidden, "Only the renter can reschedule")
	}

	var req rescheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	start, err := services.ParseDate(req.StartDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid start date")
	}
	end, err := services.ParseDate(req.EndDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid end date")
	}

	updated, err := services.RescheduleReservation(db.DB, res.ID, start, end)
	if err != nil {
		var conflictErr *services.ConflictError
		if errors.As(err, &conflictErr) {
			return c.JSON(http.StatusConflict, map[string]interface{}{
				"message":   "Requested dates are not available",
				"conflicts": conflictErr.Conflicts,
			})
		}
		if errors.Is(err, services.ErrInvalidRange) {
			return echo.NewHTTPError(http.StatusBadRequest, "End date must not be before start date")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, updated)
}

// loadReservationForParty fetches the reservation from the :id param and
// verifies the current user is the renter, the vehicle owner, or an admin
func loadReservationForParty(c echo.Context) (*models.Reservation, error) {
	currentUser := middleware.GetCurrentUser(c)

	res, err := services.GetReservationByID(db.DB, c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Reservation not found")
	}

	if res.RenterID != currentUser.ID && res.Vehicle.OwnerID != currentUser.ID && currentUser.Role != "admin" {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Access denied")
	}

	return res, nil
}
