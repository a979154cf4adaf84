package roasting

import (
	"fmt"
	"log"
	"time"

	"coffeeflow-backend/internal/auth"
	"coffeeflow-backend/internal/database"
	"coffeeflow-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// buildRoastsXLSX renders the roast history as a spreadsheet.
func buildRoastsXLSX(roasts []models.Roast) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Roasts"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Batch", "Date", "Origin", "Green (kg)", "Roasted (kg)", "Operator"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, r := range roasts {
		values := []any{
			r.BatchNumber,
			r.Date.Format("2006-01-02"),
			r.Origin.Name,
			r.GreenWeight,
			r.RoastedWeight,
			r.Operator.Name,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

// GET /api/roasts/export/xlsx
func ExportRoastsXLSXHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var roasts []models.Roast
		if err := database.DB.Preload("Origin").Preload("Operator").
			Where("user_id = ?", userID).
			Order("date DESC, id DESC").
			Find(&roasts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list roasts")
		}

		f, err := buildRoastsXLSX(roasts)
		if err != nil {
			log.Printf("Roast XLSX export failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build export")
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			log.Printf("Roast XLSX export failed: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build export")
		}

		filename := fmt.Sprintf("coffeeflow-roasts-%s.xlsx", time.Now().Format("2006-01-02"))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
		return c.Send(buf.Bytes())
	}
}
