package services

import (
	"testing"

	"rent_flow_app_go/config"
	"rent_flow_app_go/models"

	"github.com/stretchr/testify/assert"
)

func testEmailConfig() *config.Config {
	return &config.Config{
		EmailTestMode: true,
		EmailFrom:     "noreply@rentflow.app",
		EmailFromName: "RentFlow",
		AppURL:        "http://localhost:8080",
	}
}

func TestSendEmailTestMode(t *testing.T) {
	// Test mode logs instead of sending; no API key needed
	err := SendEmail(testEmailConfig(), &Email{
		To:       []string{"someone@example.com"},
		Subject:  "Hello",
		TextBody: "Body",
	})
	assert.NoError(t, err)
}

func TestSendEmailRequiresAPIKey(t *testing.T) {
	cfg := testEmailConfig()
	cfg.EmailTestMode = false

	err := SendEmail(cfg, &Email{To: []string{"someone@example.com"}, Subject: "Hello"})
	assert.Error(t, err)
}

func TestBookingEmails(t *testing.T) {
	cfg := testEmailConfig()
	res := buildContractFixture()

	assert.NoError(t, SendBookingRequestedEmail(cfg, "owner@example.com", res))
	assert.NoError(t, SendBookingConfirmedEmail(cfg, "renter@example.com", res))

	reason := "double booked"
	res.CancellationReason = &reason
	res.Status = models.ReservationStatusCancelled
	assert.NoError(t, SendBookingCancelledEmail(cfg, "renter@example.com", res))
}
