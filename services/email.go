package services

import (
	"fmt"
	"log"
	"strings"

	"rent_flow_app_go/config"
	"rent_flow_app_go/models"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	// Validate configuration
	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}

	if _, err := client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func logEmailToConsole(email *Email) {
	log.Printf("--- EMAIL (test mode, not sent) ---")
	log.Printf("To: %s", strings.Join(email.To, ", "))
	log.Printf("Subject: %s", email.Subject)
	log.Printf("Body: %s", email.TextBody)
	log.Printf("-----------------------------------")
}

// SendBookingRequestedEmail notifies an owner about a new booking request.
// The reservation must have Vehicle and Renter preloaded.
func SendBookingRequestedEmail(cfg *config.Config, ownerEmail string, res *models.Reservation) error {
	period := fmt.Sprintf("%s to %s", res.StartDate.Format("2006-01-02"), res.EndDate.Format("2006-01-02"))
	text := fmt.Sprintf("%s requested to rent your %s from %s. Total: %.2f.\n\nReview the request: %s/reservations/%s",
		res.Renter.Name, res.Vehicle.DisplayName(), period, res.TotalPrice, cfg.AppURL, res.ID)

	return SendEmail(cfg, &Email{
		To:       []string{ownerEmail},
		Subject:  fmt.Sprintf("New booking request for your %s", res.Vehicle.DisplayName()),
		HTMLBody: fmt.Sprintf("<p>%s</p>", strings.ReplaceAll(text, "\n", "<br>")),
		TextBody: text,
	})
}

// SendBookingConfirmedEmail notifies a renter that the owner confirmed
func SendBookingConfirmedEmail(cfg *config.Config, renterEmail string, res *models.Reservation) error {
	period := fmt.Sprintf("%s to %s", res.StartDate.Format("2006-01-02"), res.EndDate.Format("2006-01-02"))
	text := fmt.Sprintf("Your booking of the %s from %s is confirmed. The rental contract is available in your dashboard: %s/reservations/%s",
		res.Vehicle.DisplayName(), period, cfg.AppURL, res.ID)

	return SendEmail(cfg, &Email{
		To:       []string{renterEmail},
		Subject:  fmt.Sprintf("Booking confirmed: %s", res.Vehicle.DisplayName()),
		HTMLBody: fmt.Sprintf("<p>%s</p>", text),
		TextBody: text,
	})
}

// SendBookingCancelledEmail notifies the other party about a cancellation
func SendBookingCancelledEmail(cfg *config.Config, toEmail string, res *models.Reservation) error {
	reason := ""
	if res.CancellationReason != nil && *res.CancellationReason != "" {
		reason = " Reason: " + *res.CancellationReason
	}
	text := fmt.Sprintf("The booking of the %s from %s to %s was cancelled.%s",
		res.Vehicle.DisplayName(), res.StartDate.Format("2006-01-02"), res.EndDate.Format("2006-01-02"), reason)

	return SendEmail(cfg, &Email{
		To:       []string{toEmail},
		Subject:  fmt.Sprintf("Booking cancelled: %s", res.Vehicle.DisplayName()),
		HTMLBody: fmt.Sprintf("<p>%s</p>", text),
		TextBody: text,
	})
}
