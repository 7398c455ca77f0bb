package handlers

import (
	"fmt"
	"io"
	"net/http"

	"rent_flow_app_go/db"
	"rent_flow_app_go/middleware"
	"rent_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetContractHandler returns contract metadata for a reservation
func GetContractHandler(c echo.Context) error {
	res, err := loadReservationForParty(c)
	if err != nil {
		return err
	}

	contract, err := services.GetContractByReservation(db.DB, res.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "No contract has been generated for this reservation")
	}
	return c.JSON(http.StatusOK, contract)
}

// DownloadContractHandler streams the rental agreement PDF to either party
func DownloadContractHandler(c echo.Context) error {
	res, err := loadReservationForParty(c)
	if err != nil {
		return err
	}

	contract, err := services.GetContractByReservation(db.DB, res.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "No contract has been generated for this reservation")
	}

	reader, contentType, err := services.Storage.Get(c.Request().Context(), contract.StorageKey)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve contract document")
	}
	defer reader.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="rental-agreement-%s.pdf"`, res.ID))
	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().WriteHeader(http.StatusOK)

	_, err = io.Copy(c.Response().Writer, reader)
	return err
}

// SignContractHandler records the current party's signature
func SignContractHandler(c echo.Context) error {
	res, err := loadReservationForParty(c)
	if err != nil {
		return err
	}

	contract, err := services.GetContractByReservation(db.DB, res.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "No contract has been generated for this reservation")
	}

	currentUser := middleware.GetCurrentUser(c)
	asOwner := currentUser.ID == res.Vehicle.OwnerID
	if err := services.SignContract(db.DB, contract.ID, asOwner); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to record signature")
	}

	updated, err := services.GetContractByReservation(db.DB, res.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load contract")
	}
	return c.JSON(http.StatusOK, updated)
}
