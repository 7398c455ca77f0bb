package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"rent_flow_app_go/models"

	"gorm.io/gorm"
)

// contractTemplate is the rental agreement body. Layout is deliberately
// plain; the document only needs to be complete and printable.
const contractTemplate = `
<h1>Vehicle Rental Agreement</h1>
<p>This agreement is made on {{.GeneratedAt}} between the parties below for
the rental of the vehicle described herein.</p>

<h2>Parties</h2>
<table>
<tr><th></th><th>Name</th><th>Email</th><th>Identity verified</th></tr>
<tr><td>Owner</td><td>{{.OwnerName}}</td><td>{{.OwnerEmail}}</td><td>{{.OwnerVerified}}</td></tr>
<tr><td>Renter</td><td>{{.RenterName}}</td><td>{{.RenterEmail}}</td><td>{{.RenterVerified}}</td></tr>
</table>

<h2>Vehicle</h2>
<table>
<tr><th>Vehicle</th><th>Year</th><th>Plate</th><th>City</th></tr>
<tr><td>{{.VehicleName}}</td><td>{{.VehicleYear}}</td><td>{{.PlateNumber}}</td><td>{{.City}}</td></tr>
</table>

<h2>Rental Period and Price</h2>
<table>
<tr><th>Pick-up</th><th>Return</th><th>Days</th><th>Daily price</th><th>Total</th></tr>
<tr><td>{{.StartDate}}</td><td>{{.EndDate}}</td><td>{{.Days}}</td><td>{{.DailyPrice}}</td><td>{{.TotalPrice}}</td></tr>
</table>

<h2>Terms</h2>
<p>The renter agrees to return the vehicle in the condition received, with the
same fuel level, on or before the return date. The owner confirms the vehicle
is roadworthy and insured for the rental period. Reservation
{{.ReservationID}} is governed by the marketplace terms of service.</p>

<div class="signature">
<div>Owner signature</div>
<div>Renter signature</div>
</div>
`

type contractData struct {
	GeneratedAt    string
	OwnerName      string
	OwnerEmail     string
	OwnerVerified  string
	RenterName     string
	RenterEmail    string
	RenterVerified string
	VehicleName    string
	VehicleYear    int
	PlateNumber    string
	City           string
	StartDate      string
	EndDate        string
	Days           int
	DailyPrice     string
	TotalPrice     string
	ReservationID  string
}

// BuildContractHTML renders the agreement body for a reservation. The
// reservation must have Vehicle, Vehicle.Owner and Renter preloaded.
func BuildContractHTML(res *models.Reservation) (string, error) {
	tmpl, err := template.New("contract").Parse(contractTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse contract template: %w", err)
	}

	yesNo := func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	}

	data := contractData{
		GeneratedAt:    time.Now().Format("January 2, 2006"),
		OwnerName:      res.Vehicle.Owner.Name,
		OwnerEmail:     res.Vehicle.Owner.Email,
		OwnerVerified:  yesNo(res.Vehicle.Owner.IsKYCVerified()),
		RenterName:     res.Renter.Name,
		RenterEmail:    res.Renter.Email,
		RenterVerified: yesNo(res.Renter.IsKYCVerified()),
		VehicleName:    res.Vehicle.DisplayName(),
		VehicleYear:    res.Vehicle.Year,
		PlateNumber:    res.Vehicle.PlateNumber,
		City:           res.Vehicle.City,
		StartDate:      res.StartDate.Format("2006-01-02"),
		EndDate:        res.EndDate.Format("2006-01-02"),
		Days:           res.Days(),
		DailyPrice:     fmt.Sprintf("%.2f", res.Vehicle.DailyPrice),
		TotalPrice:     fmt.Sprintf("%.2f", res.TotalPrice),
		ReservationID:  res.ID,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render contract: %w", err)
	}
	return buf.String(), nil
}

// GenerateContract renders the rental agreement for a reservation to PDF,
// uploads it and records a Contract row. Regenerating replaces the stored
// document for the same reservation.
func GenerateContract(ctx context.Context, db *gorm.DB, reservationID string) (*models.Contract, error) {
	res, err := GetReservationByID(db, reservationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reservation: %w", err)
	}

	html, err := BuildContractHTML(res)
	if err != nil {
		return nil, err
	}

	pdf, err := GeneratePDFFromTemplate(html, DefaultPDFOptions())
	if err != nil {
		return nil, err
	}

	key := GenerateContractKey(res.ID)
	result, err := Storage.UploadReader(ctx, bytes.NewReader(pdf), key, "application/pdf", int64(len(pdf)))
	if err != nil {
		return nil, fmt.Errorf("failed to store contract: %w", err)
	}

	contract := &models.Contract{
		ReservationID: res.ID,
		StorageKey:    result.Key,
		FileSize:      result.FileSize,
		GeneratedAt:   time.Now(),
	}

	var existing models.Contract
	err = db.Where("reservation_id = ?", res.ID).First(&existing).Error
	if err == nil {
		contract.ID = existing.ID
		if err := db.Model(&existing).Updates(map[string]interface{}{
			"storage_key":  contract.StorageKey,
			"file_size":    contract.FileSize,
			"generated_at": contract.GeneratedAt,
		}).Error; err != nil {
			return nil, fmt.Errorf("failed to update contract record: %w", err)
		}
		return contract, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to check existing contract: %w", err)
	}

	if err := db.Create(contract).Error; err != nil {
		return nil, fmt.Errorf("failed to create contract record: %w", err)
	}
	return contract, nil
}

// GetContractByReservation fetches the contract for a reservation
func GetContractByReservation(db *gorm.DB, reservationID string) (*models.Contract, error) {
	var contract models.Contract
	err := db.Where("reservation_id = ?", reservationID).First(&contract).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// SignContract records a party's signature on the contract
func SignContract(db *gorm.DB, contractID string, asOwner bool) error {
	column := "signed_by_renter"
	if asOwner {
		column = "signed_by_owner"
	}
	return db.Model(&models.Contract{}).Where("id = ?", contractID).Update(column, true).Error
}
