package roasting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"

	"coffeeflow-backend/internal/auth"
	"coffeeflow-backend/internal/config"
	"coffeeflow-backend/internal/database"
	"coffeeflow-backend/internal/models"

	"github.com/go-pdf/fpdf"
	"github.com/gofiber/fiber/v2"
	qrcode "github.com/skip2/go-qrcode"
)

// qrPayload is the machine-readable part of a label.
type qrPayload struct {
	Batch  string  `json:"batch"`
	Origin string  `json:"origin"`
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

// buildLabelPDF renders a 100x150 mm printable label for one roast.
func buildLabelPDF(brand string, roast models.Roast) ([]byte, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 100, Ht: 150},
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// Cream background with a coffee-brown header band.
	pdf.SetFillColor(250, 247, 242)
	pdf.Rect(0, 0, 100, 150, "F")
	pdf.SetFillColor(111, 78, 55)
	pdf.Rect(0, 0, 100, 30, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetXY(0, 10)
	pdf.CellFormat(100, 10, tr(brand), "", 0, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetXY(0, 19)
	pdf.CellFormat(100, 8, "Fresh Roasted Coffee", "", 0, "C", false, 0, "")

	pdf.SetTextColor(45, 24, 16)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(0, 40)
	pdf.CellFormat(100, 10, tr(roast.Origin.Name), "", 0, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(0, 56)
	pdf.CellFormat(100, 8, roast.BatchNumber, "", 0, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	lines := []string{
		fmt.Sprintf("Date: %s", roast.Date.Format("02/01/2006")),
		fmt.Sprintf("Weight: %g kg", roast.RoastedWeight),
		fmt.Sprintf("Roaster: %s", roast.Operator.Name),
	}
	y := 68.0
	for _, line := range lines {
		pdf.SetXY(0, y)
		pdf.CellFormat(100, 8, tr(line), "", 0, "C", false, 0, "")
		y += 12
	}

	payload, err := json.Marshal(qrPayload{
		Batch:  roast.BatchNumber,
		Origin: roast.Origin.Name,
		Date:   roast.Date.Format("2006-01-02"),
		Weight: roast.RoastedWeight,
	})
	if err == nil {
		png, qrErr := qrcode.Encode(string(payload), qrcode.Medium, 256)
		if qrErr == nil {
			opts := fpdf.ImageOptions{ImageType: "PNG"}
			pdf.RegisterImageOptionsReader("roast-qr", opts, bytes.NewReader(png))
			pdf.ImageOptions("roast-qr", 25, 105, 50, 50, false, opts, 0, "")
		} else {
			// label stays useful without the code
			log.Printf("QR code generation failed for %s: %v", roast.BatchNumber, qrErr)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GET /api/roasts/:id/label
func RoastLabelHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		var roast models.Roast
		if err := database.DB.Preload("Origin").Preload("Operator").
			First(&roast, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Roast not found")
		}

		data, err := buildLabelPDF(cfg.LabelBrand, roast)
		if err != nil {
			log.Printf("Label PDF generation failed for roast %d: %v", roast.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not generate label")
		}

		name := roast.BatchNumber
		if name == "" {
			name = fmt.Sprintf("%d", roast.ID)
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="label-%s.pdf"`, name))
		return c.Send(data)
	}
}
