package handlers

import (
	"fmt"
	"net/http"
	"time"

	"rent_flow_app_go/db"
	"rent_flow_app_go/middleware"
	"rent_flow_app_go/models"
	"rent_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

// DashboardHandler returns summary counts for the current user's role
func DashboardHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	summary := map[string]interface{}{
		"role":       currentUser.Role,
		"kyc_status": currentUser.KYCStatus,
	}

	switch currentUser.Role {
	case "owner", "admin":
		var vehicleCount, pendingCount, activeCount int64
		db.DB.Model(&models.Vehicle{}).Where("owner_id = ?", currentUser.ID).Count(&vehicleCount)
		db.DB.Model(&models.Reservation{}).
			Joins("JOIN vehicles ON vehicles.id = reservations.vehicle_id").
			Where("vehicles.owner_id = ? AND reservations.status = ?", currentUser.ID, models.ReservationStatusPending).
			Count(&pendingCount)
		db.DB.Model(&models.Reservation{}).
			Joins("JOIN vehicles ON vehicles.id = reservations.vehicle_id").
			Where("vehicles.owner_id = ? AND reservations.status = ?", currentUser.ID, models.ReservationStatusInProgress).
			Count(&activeCount)

		summary["vehicles"] = vehicleCount
		summary["pending_requests"] = pendingCount
		summary["active_rentals"] = activeCount
	default:
		var upcomingCount, pastCount int64
		today := services.NormalizeDay(time.Now())
		db.DB.Model(&models.Reservation{}).
			Where("renter_id = ? AND status IN ? AND end_date >= ?", currentUser.ID, models.BlockingStatuses, today).
			Count(&upcomingCount)
		db.DB.Model(&models.Reservation{}).
			Where("renter_id = ? AND status = ?", currentUser.ID, models.ReservationStatusCompleted).
			Count(&pastCount)

		summary["upcoming_reservations"] = upcomingCount
		summary["completed_rentals"] = pastCount
	}

	return c.JSON(http.StatusOK, summary)
}

// DownloadEarningsReportHandler streams an xlsx export of the owner's
// completed rentals
func DownloadEarningsReportHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	report, err := services.BuildOwnerEarningsReport(db.DB, currentUser.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build earnings report")
	}

	filename := fmt.Sprintf("earnings-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)

	return report.Write(c.Response().Writer)
}
