package roasting

import (
	"fmt"
	"time"

	"coffeeflow-backend/internal/audit"
	"coffeeflow-backend/internal/auth"
	"coffeeflow-backend/internal/costing"
	"coffeeflow-backend/internal/database"
	"coffeeflow-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RoastResponse struct {
	ID            uint    `json:"id"`
	OriginID      uint    `json:"origin_id"`
	OriginName    string  `json:"origin_name"`
	OperatorID    uint    `json:"operator_id"`
	OperatorName  string  `json:"operator_name"`
	GreenWeight   float64 `json:"green_weight"`
	RoastedWeight float64 `json:"roasted_weight"`
	BatchNumber   string  `json:"batch_number"`
	Date          string  `json:"date"`
	UpdatedAt     string  `json:"updated_at"`
}

type CreateRoastRequest struct {
	OriginID    uint    `json:"origin_id"`
	OperatorID  uint    `json:"operator_id"`
	GreenWeight float64 `json:"green_weight"`
}

type UpdateRoastRequest struct {
	OriginID    *uint    `json:"origin_id"`
	OperatorID  *uint    `json:"operator_id"`
	GreenWeight *float64 `json:"green_weight"`
}

func toResponse(r models.Roast) RoastResponse {
	return RoastResponse{
		ID:            r.ID,
		OriginID:      r.OriginID,
		OriginName:    r.Origin.Name,
		OperatorID:    r.OperatorID,
		OperatorName:  r.Operator.Name,
		GreenWeight:   r.GreenWeight,
		RoastedWeight: r.RoastedWeight,
		BatchNumber:   r.BatchNumber,
		Date:          r.Date.Format(time.RFC3339),
		UpdatedAt:     r.UpdatedAt.Format(time.RFC3339),
	}
}

// applyDeltas runs the stock adjustments as in-database increments so two
// sessions mutating the same origin cannot lose each other's update.
func applyDeltas(tx *gorm.DB, deltas []StockDelta) error {
	for _, d := range deltas {
		err := tx.Model(&models.Origin{}).
			Where("id = ?", d.OriginID).
			Updates(map[string]any{
				"stock":         gorm.Expr("stock + ?", d.Stock),
				"roasted_stock": gorm.Expr("roasted_stock + ?", d.RoastedStock),
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// GET /api/roasts
func ListRoastsHandler() fiber.Handler {
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

		res := make([]RoastResponse, 0, len(roasts))
		for _, r := range roasts {
			res = append(res, toResponse(r))
		}
		return c.JSON(res)
	}
}

// POST /api/roasts
// The roast record and the origin stock adjustment commit in one
// transaction: either both land or neither does.
func CreateRoastHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CreateRoastRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.OriginID == 0 || body.OperatorID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "origin_id and operator_id are required")
		}
		if err := validateRoastWeight(body.GreenWeight); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var origin models.Origin
		if err := database.DB.First(&origin, "id = ? AND user_id = ?", body.OriginID, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Origin not found")
		}
		var operator models.Operator
		if err := database.DB.First(&operator, "id = ? AND user_id = ?", body.OperatorID, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Operator not found")
		}

		if err := validateNewRoast(body.GreenWeight, origin.Stock); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		// Roasted weight is fixed now, from the origin's current weight loss.
		roastedWeight := costing.RoastedWeight(body.GreenWeight, origin.WeightLoss)

		now := time.Now()
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		var sameDayCount int64
		database.DB.Model(&models.Roast{}).
			Where("user_id = ? AND date >= ? AND date < ?", userID, dayStart, dayStart.Add(24*time.Hour)).
			Count(&sameDayCount)

		roast := models.Roast{
			UserID:        userID,
			OriginID:      origin.ID,
			OperatorID:    operator.ID,
			GreenWeight:   body.GreenWeight,
			RoastedWeight: roastedWeight,
			BatchNumber:   batchNumber(now, sameDayCount),
			Date:          now,
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&roast).Error; err != nil {
				return err
			}
			return applyDeltas(tx, createAdjustment(origin.ID, roast.GreenWeight, roast.RoastedWeight))
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not record roast")
		}

		if userID, userName, err := audit.Actor(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:     userID,
				UserName:   userName,
				EntityType: "roast",
				EntityID:   roast.ID,
				Action:     models.AuditActionCreate,
				Description: fmt.Sprintf("Roast %s: %g kg %s -> %g kg roasted by %s",
					roast.BatchNumber, roast.GreenWeight, origin.Name, roast.RoastedWeight, operator.Name),
				After: roast,
			})
		}

		roast.Origin = origin
		roast.Operator = operator
		return c.Status(fiber.StatusCreated).JSON(toResponse(roast))
	}
}

// PUT /api/roasts/:id
// Recomputes roasted weight from the (possibly changed) origin's current
// weight loss and reconciles both origins' stock in the same transaction
// as the record update.
func UpdateRoastHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		var roast models.Roast
		if err := database.DB.First(&roast, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Roast not found")
		}
		before := roast

		var body UpdateRoastRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		newOriginID := roast.OriginID
		if body.OriginID != nil && *body.OriginID != 0 {
			newOriginID = *body.OriginID
		}
		newGreen := roast.GreenWeight
		if body.GreenWeight != nil {
			newGreen = *body.GreenWeight
		}
		if err := validateRoastWeight(newGreen); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var newOrigin models.Origin
		if err := database.DB.First(&newOrigin, "id = ? AND user_id = ?", newOriginID, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Origin not found")
		}

		if body.OperatorID != nil && *body.OperatorID != 0 {
			var operator models.Operator
			if err := database.DB.First(&operator, "id = ? AND user_id = ?", *body.OperatorID, userID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Operator not found")
			}
			roast.OperatorID = operator.ID
		}

		newRoasted := costing.RoastedWeight(newGreen, newOrigin.WeightLoss)
		deltas := editAdjustment(
			roast.OriginID, newOrigin.ID,
			roast.GreenWeight, roast.RoastedWeight,
			newGreen, newRoasted,
		)

		roast.OriginID = newOrigin.ID
		roast.GreenWeight = newGreen
		roast.RoastedWeight = newRoasted

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(&roast).Error; err != nil {
				return err
			}
			return applyDeltas(tx, deltas)
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update roast")
		}

		if userID, userName, err := audit.Actor(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "roast",
				EntityID:    roast.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Roast %s updated", roast.BatchNumber),
				Before:      before,
				After:       roast,
			})
		}

		if err := database.DB.Preload("Origin").Preload("Operator").First(&roast, roast.ID).Error; err == nil {
			return c.JSON(toResponse(roast))
		}
		return c.JSON(fiber.Map{"id": roast.ID})
	}
}

// DELETE /api/roasts/:id
// Restores the origin's stock by exactly the recorded weights, then removes
// the roast, in one transaction.
func DeleteRoastHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		var roast models.Roast
		if err := database.DB.First(&roast, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Roast not found")
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := applyDeltas(tx, deleteAdjustment(roast.OriginID, roast.GreenWeight, roast.RoastedWeight)); err != nil {
				return err
			}
			return tx.Delete(&roast).Error
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete roast")
		}

		if userID, userName, err := audit.Actor(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "roast",
				EntityID:    roast.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Roast %s deleted, %g kg returned to stock", roast.BatchNumber, roast.GreenWeight),
				Before:      roast,
			})
		}

		return c.JSON(fiber.Map{
			"message": "Roast deleted and stock restored",
		})
	}
}
