package services

import (
	"testing"

	"rent_flow_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupKYCTestDB(t *testing.T) (*gorm.DB, *models.User) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	user := &models.User{Name: "Applicant", Email: "applicant@example.com", Password: "x", Role: "renter", IsActive: true, KYCStatus: models.KYCStatusNone}
	require.NoError(t, db.Create(user).Error)
	return db, user
}

func TestSubmitKYCDocument(t *testing.T) {
	db, user := setupKYCTestDB(t)

	require.NoError(t, SubmitKYCDocument(db, user.ID, "users/u1/kyc/passport.jpg"))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, models.KYCStatusPending, reloaded.KYCStatus)
	require.NotNil(t, reloaded.KYCDocumentKey)
	assert.Equal(t, "users/u1/kyc/passport.jpg", *reloaded.KYCDocumentKey)
	assert.NotNil(t, reloaded.KYCSubmittedAt)
}

func TestSubmitKYCDocumentReplacesPrevious(t *testing.T) {
	db, user := setupKYCTestDB(t)

	require.NoError(t, SubmitKYCDocument(db, user.ID, "users/u1/kyc/first.jpg"))
	require.NoError(t, SubmitKYCDocument(db, user.ID, "users/u1/kyc/second.jpg"))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, "users/u1/kyc/second.jpg", *reloaded.KYCDocumentKey)
	assert.Equal(t, models.KYCStatusPending, reloaded.KYCStatus)
}

func TestSubmitKYCDocumentBlockedWhenVerified(t *testing.T) {
	db, user := setupKYCTestDB(t)
	require.NoError(t, db.Model(user).Update("kyc_status", models.KYCStatusVerified).Error)

	assert.Error(t, SubmitKYCDocument(db, user.ID, "users/u1/kyc/again.jpg"))
}

func TestReviewKYC(t *testing.T) {
	db, user := setupKYCTestDB(t)
	require.NoError(t, SubmitKYCDocument(db, user.ID, "users/u1/kyc/doc.jpg"))

	require.NoError(t, ReviewKYC(db, user.ID, true))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, models.KYCStatusVerified, reloaded.KYCStatus)
	assert.True(t, reloaded.IsKYCVerified())
	assert.NotNil(t, reloaded.KYCReviewedAt)
}

func TestReviewKYCReject(t *testing.T) {
	db, user := setupKYCTestDB(t)
	require.NoError(t, SubmitKYCDocument(db, user.ID, "users/u1/kyc/doc.jpg"))

	require.NoError(t, ReviewKYC(db, user.ID, false))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, models.KYCStatusRejected, reloaded.KYCStatus)

	// A rejected applicant may submit a new document
	assert.NoError(t, SubmitKYCDocument(db, user.ID, "users/u1/kyc/retry.jpg"))
}

func TestReviewKYCRequiresPending(t *testing.T) {
	db, user := setupKYCTestDB(t)

	assert.Error(t, ReviewKYC(db, user.ID, true))
}

func TestListPendingKYC(t *testing.T) {
	db, user := setupKYCTestDB(t)

	other := &models.User{Name: "Other", Email: "other@example.com", Password: "x", Role: "owner", IsActive: true, KYCStatus: models.KYCStatusNone}
	require.NoError(t, db.Create(other).Error)

	require.NoError(t, SubmitKYCDocument(db, user.ID, "users/u1/kyc/doc.jpg"))

	pending, err := ListPendingKYC(db)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, user.ID, pending[0].ID)
}
