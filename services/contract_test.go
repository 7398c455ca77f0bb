package services

import (
	"testing"

	"rent_flow_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildContractFixture() *models.Reservation {
	return &models.Reservation{
		ID:         "res-123",
		StartDate:  day(2024, 3, 10),
		EndDate:    day(2024, 3, 12),
		TotalPrice: 150,
		Vehicle: models.Vehicle{
			Make:        "Toyota",
			Model:       "Corolla",
			Year:        2021,
			PlateNumber: "ABC-123",
			City:        "Bogota",
			DailyPrice:  50,
			Owner: models.User{
				Name:      "Olivia Owner",
				Email:     "olivia@example.com",
				KYCStatus: models.KYCStatusVerified,
			},
		},
		Renter: models.User{
			Name:      "Rafa Renter",
			Email:     "rafa@example.com",
			KYCStatus: models.KYCStatusPending,
		},
	}
}

func TestBuildContractHTML(t *testing.T) {
	html, err := BuildContractHTML(buildContractFixture())
	require.NoError(t, err)

	assert.Contains(t, html, "Vehicle Rental Agreement")
	assert.Contains(t, html, "Olivia Owner")
	assert.Contains(t, html, "Rafa Renter")
	assert.Contains(t, html, "Toyota Corolla")
	assert.Contains(t, html, "ABC-123")
	assert.Contains(t, html, "2024-03-10")
	assert.Contains(t, html, "2024-03-12")
	assert.Contains(t, html, "150.00")
	assert.Contains(t, html, "res-123")
}

func TestBuildContractHTMLVerificationFlags(t *testing.T) {
	html, err := BuildContractHTML(buildContractFixture())
	require.NoError(t, err)

	// Owner is verified, renter is still pending
	assert.Contains(t, html, "<td>Yes</td>")
	assert.Contains(t, html, "<td>No</td>")
}

func TestBuildContractHTMLEscapesUserInput(t *testing.T) {
	res := buildContractFixture()
	res.Renter.Name = `<script>alert("x")</script>`

	html, err := BuildContractHTML(res)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestContractSignatureState(t *testing.T) {
	contract := &models.Contract{}
	assert.False(t, contract.IsFullySigned())

	contract.SignedByOwner = true
	assert.False(t, contract.IsFullySigned())

	contract.SignedByRenter = true
	assert.True(t, contract.IsFullySigned())
}
