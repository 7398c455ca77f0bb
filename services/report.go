package services

import (
	"fmt"

	"rent_flow_app_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// BuildOwnerEarningsReport exports an owner's completed rentals to an xlsx
// workbook, one row per reservation plus a totals row.
func BuildOwnerEarningsReport(db *gorm.DB, ownerID string) (*excelize.File, error) {
	var reservations []models.Reservation
	err := db.Preload("Vehicle").Preload("Renter").
		Joins("JOIN vehicles ON vehicles.id = reservations.vehicle_id").
		Where("vehicles.owner_id = ? AND reservations.status = ?", ownerID, models.ReservationStatusCompleted).
		Order("reservations.start_date asc").
		Find(&reservations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load completed reservations: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Earnings"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Vehicle", "Plate", "Renter", "Start", "End", "Days", "Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	var total float64
	for i, res := range reservations {
		row := i + 2
		values := []interface{}{
			res.Vehicle.DisplayName(),
			res.Vehicle.PlateNumber,
			res.Renter.Name,
			res.StartDate.Format("2006-01-02"),
			res.EndDate.Format("2006-01-02"),
			res.Days(),
			res.TotalPrice,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		total += res.TotalPrice
	}

	totalRow := len(reservations) + 2
	cell, _ := excelize.CoordinatesToCellName(6, totalRow)
	f.SetCellValue(sheet, cell, "Total")
	cell, _ = excelize.CoordinatesToCellName(7, totalRow)
	f.SetCellValue(sheet, cell, total)

	return f, nil
}
