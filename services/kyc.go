package services

import (
	"fmt"
	"time"

	"rent_flow_app_go/models"

	"gorm.io/gorm"
)

// SubmitKYCDocument records an uploaded identity document and moves the user
// to pending review. Re-submitting replaces the previous document.
func SubmitKYCDocument(db *gorm.DB, userID, storageKey string) error {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	if user.KYCStatus == models.KYCStatusVerified {
		return fmt.Errorf("identity is already verified")
	}

	now := time.Now()
	return db.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"kyc_status":       models.KYCStatusPending,
			"kyc_document_key": storageKey,
			"kyc_submitted_at": now,
			"kyc_reviewed_at":  nil,
		}).Error
}

// ReviewKYC records an admin decision on a pending verification
func ReviewKYC(db *gorm.DB, userID string, approve bool) error {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	if user.KYCStatus != models.KYCStatusPending {
		return fmt.Errorf("user has no pending verification (status %q)", user.KYCStatus)
	}

	status := models.KYCStatusRejected
	if approve {
		status = models.KYCStatusVerified
	}

	now := time.Now()
	return db.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"kyc_status":      status,
			"kyc_reviewed_at": now,
		}).Error
}

// ListPendingKYC fetches users awaiting identity review
func ListPendingKYC(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	err := db.Where("kyc_status = ?", models.KYCStatusPending).
		Order("kyc_submitted_at asc").
		Find(&users).Error
	return users, err
}
