package handlers

import (
	"net/http"

	"rent_flow_app_go/db"
	"rent_flow_app_go/middleware"
	"rent_flow_app_go/services"

	"github.com/labstack/echo/v4"
)

type kycReviewRequest struct {
	Approve bool `json:"approve"`
}

// SubmitKYCHandler accepts an identity document upload from the current user
func SubmitKYCHandler(c echo.Context) error {
	currentUser := middleware.GetCurrentUser(c)

	file, err := c.FormFile("document")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Identity document is required")
	}

	key := services.GenerateKYCDocumentKey(currentUser.ID, file.Filename)
	result, err := services.Storage.Upload(c.Request().Context(), file, key)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store document")
	}

	if err := services.SubmitKYCDocument(db.DB, currentUser.ID, result.Key); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusAccepted, map[string]string{"status": "pending"})
}

// ListPendingKYCHandler returns users awaiting identity review (admin only)
func ListPendingKYCHandler(c echo.Context) error {
	users, err := services.ListPendingKYC(db.DB)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load pending verifications")
	}
	return c.JSON(http.StatusOK, users)
}

// ReviewKYCHandler records an admin decision on a pending verification
func ReviewKYCHandler(c echo.Context) error {
	var req kycReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := services.ReviewKYC(db.DB, c.Param("userId"), req.Approve); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	status := "rejected"
	if req.Approve {
		status = "verified"
	}
	return c.JSON(http.StatusOK, map[string]string{"status": status})
}

// GetKYCDocumentHandler streams a user's identity document to an admin reviewer
func GetKYCDocumentHandler(c echo.Context) error {
	var user struct {
		KYCDocumentKey *string
	}
	err := db.DB.Table("users").Select("kyc_document_key").
		Where("id = ?", c.Param("userId")).Scan(&user).Error
	if err != nil || user.KYCDocumentKey == nil || *user.KYCDocumentKey == "" {
		return echo.NewHTTPError(http.StatusNotFound, "No document on file")
	}

	reader, contentType, err := services.Storage.Get(c.Request().Context(), *user.KYCDocumentKey)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve document")
	}
	defer reader.Close()

	return c.Stream(http.StatusOK, contentType, reader)
}
