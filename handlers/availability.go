package handlers

import (
	"errors"
	"net/http"
	"strings"

	"rent_flow_app_go/db"
	"rent_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

// availabilityResolver builds a resolver over the live database
func availabilityResolver() *services.AvailabilityResolver {
	return services.NewAvailabilityResolver(&services.GormAvailabilityStore{DB: db.DB})
}

// GetUnavailableDatesHandler returns every unavailable calendar day for a
// vehicle, for driving disabled dates in a date picker. Degrades to an empty
// list if the lookup fails.
func GetUnavailableDatesHandler(c echo.Context) error {
	vehicleID := c.Param("id")

	days := availabilityResolver().UnavailableDates(c.Request().Context(), vehicleID)

	dates := make([]string, 0, len(days))
	for _, d := range days {
		dates = append(dates, d.Format("2006-01-02"))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"vehicle_id":        vehicleID,
		"unavailable_dates": dates,
	})
}

// CheckAvailabilityHandler checks whether a candidate range is bookable.
// Query params: start, end (YYYY-MM-DD), optional exclude_reservation_id.
func CheckAvailabilityHandler(c echo.Context) error {
	vehicleID := c.Param("id")

	startStr := strings.TrimSpace(c.QueryParam("start"))
	endStr := strings.TrimSpace(c.QueryParam("end"))
	if startStr == "" || endStr == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "start and end query parameters are required")
	}

	start, err := services.ParseDate(startStr)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid start date")
	}
	end, err := services.ParseDate(endStr)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid end date")
	}

	check, err := availabilityResolver().CheckRange(
		c.Request().Context(), vehicleID, start, end, c.QueryParam("exclude_reservation_id"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidRange) {
			return echo.NewHTTPError(http.StatusBadRequest, "End date must not be before start date")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to check availability")
	}

	return c.JSON(http.StatusOK, check)
}
