package dashboard

import (
	"time"

	"coffeeflow-backend/internal/auth"
	"coffeeflow-backend/internal/database"
	"coffeeflow-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// lowStockThresholdKg: origins below this green stock show up as an alert.
const lowStockThresholdKg = 10.0

type StockAlert struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Stock float64 `json:"stock"`
}

type StatsResponse struct {
	OriginCount       int64        `json:"origin_count"`
	ProductCount      int64        `json:"product_count"`
	OperatorCount     int64        `json:"operator_count"`
	RoastCount        int64        `json:"roast_count"`
	RoastsThisMonth   int64        `json:"roasts_this_month"`
	TotalGreenStock   float64      `json:"total_green_stock"`
	TotalRoastedStock float64      `json:"total_roasted_stock"`
	StockValue        float64      `json:"stock_value"`
	AvgWeightLoss     float64      `json:"avg_weight_loss"`
	LowStock          []StockAlert `json:"low_stock"`
	OutOfStock        []StockAlert `json:"out_of_stock"`
}

// GET /api/dashboard/stats
func StatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var resp StatsResponse

		database.DB.Model(&models.Origin{}).Where("user_id = ?", userID).Count(&resp.OriginCount)
		database.DB.Model(&models.Product{}).Where("user_id = ?", userID).Count(&resp.ProductCount)
		database.DB.Model(&models.Operator{}).Where("user_id = ?", userID).Count(&resp.OperatorCount)
		database.DB.Model(&models.Roast{}).Where("user_id = ?", userID).Count(&resp.RoastCount)

		now := time.Now()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		database.DB.Model(&models.Roast{}).
			Where("user_id = ? AND date >= ?", userID, monthStart).
			Count(&resp.RoastsThisMonth)

		var origins []models.Origin
		if err := database.DB.Where("user_id = ?", userID).Order("id asc").Find(&origins).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load origins")
		}

		resp.LowStock = make([]StockAlert, 0)
		resp.OutOfStock = make([]StockAlert, 0)

		var lossSum float64
		for _, o := range origins {
			resp.TotalGreenStock += o.Stock
			resp.TotalRoastedStock += o.RoastedStock
			resp.StockValue += o.Stock * o.CostPerKg
			lossSum += o.WeightLoss

			alert := StockAlert{ID: o.ID, Name: o.Name, Stock: o.Stock}
			if o.Stock == 0 {
				resp.OutOfStock = append(resp.OutOfStock, alert)
			} else if o.Stock < lowStockThresholdKg {
				resp.LowStock = append(resp.LowStock, alert)
			}
		}
		if len(origins) > 0 {
			resp.AvgWeightLoss = lossSum / float64(len(origins))
		}

		return c.JSON(resp)
	}
}
