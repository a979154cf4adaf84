package origins

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"coffeeflow-backend/internal/auth"
	"coffeeflow-backend/internal/database"
	"coffeeflow-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// buildOriginsCSV renders the origin list as UTF-8 CSV with a BOM so that
// Excel opens non-ASCII origin names correctly.
func buildOriginsCSV(origins []models.Origin) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("\uFEFF")

	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Name", "Weight Loss %", "Cost/kg", "Stock (kg)", "Roasted Stock (kg)", "Notes"}); err != nil {
		return nil, err
	}
	for _, o := range origins {
		record := []string{
			o.Name,
			fmt.Sprintf("%g", o.WeightLoss),
			fmt.Sprintf("%g", o.CostPerKg),
			fmt.Sprintf("%g", o.Stock),
			fmt.Sprintf("%g", o.RoastedStock),
			o.Notes,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GET /api/origins/export/csv
func ExportOriginsCSVHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var origins []models.Origin
		if err := database.DB.Where("user_id = ?", userID).Order("id asc").Find(&origins).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list origins")
		}

		data, err := buildOriginsCSV(origins)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build CSV export")
		}

		filename := fmt.Sprintf("coffeeflow-origins-%s.csv", time.Now().Format("2006-01-02"))
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
		return c.Send(data)
	}
}
