package origins

import (
	"fmt"
	"strings"
	"time"

	"coffeeflow-backend/internal/audit"
	"coffeeflow-backend/internal/auth"
	"coffeeflow-backend/internal/database"
	"coffeeflow-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type OriginResponse struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	WeightLoss   float64 `json:"weight_loss"`
	CostPerKg    float64 `json:"cost_per_kg"`
	Stock        float64 `json:"stock"`
	RoastedStock float64 `json:"roasted_stock"`
	Notes        string  `json:"notes"`
	UpdatedAt    string  `json:"updated_at"`
}

type CreateOriginRequest struct {
	Name       string  `json:"name"`
	WeightLoss float64 `json:"weight_loss"`
	CostPerKg  float64 `json:"cost_per_kg"`
	Stock      float64 `json:"stock"`
	Notes      string  `json:"notes"`
}

type UpdateOriginRequest struct {
	Name       *string  `json:"name"`
	WeightLoss *float64 `json:"weight_loss"`
	CostPerKg  *float64 `json:"cost_per_kg"`
	Stock      *float64 `json:"stock"`
	Notes      *string  `json:"notes"`
}

func toResponse(o models.Origin) OriginResponse {
	return OriginResponse{
		ID:           o.ID,
		Name:         o.Name,
		WeightLoss:   o.WeightLoss,
		CostPerKg:    o.CostPerKg,
		Stock:        o.Stock,
		RoastedStock: o.RoastedStock,
		Notes:        o.Notes,
		UpdatedAt:    o.UpdatedAt.Format(time.RFC3339),
	}
}

// GET /api/origins
func ListOriginsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var origins []models.Origin
		if err := database.DB.Where("user_id = ?", userID).Order("id asc").Find(&origins).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list origins")
		}

		res := make([]OriginResponse, 0, len(origins))
		for _, o := range origins {
			res = append(res, toResponse(o))
		}
		return c.JSON(res)
	}
}

// POST /api/origins
func CreateOriginHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CreateOriginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}
		if body.CostPerKg <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "cost_per_kg must be greater than 0")
		}
		if body.WeightLoss < 0 || body.WeightLoss >= 100 {
			return fiber.NewError(fiber.StatusBadRequest, "weight_loss must be in the range 0-100")
		}
		if body.Stock < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "stock cannot be negative")
		}

		o := models.Origin{
			UserID:     userID,
			Name:       body.Name,
			WeightLoss: body.WeightLoss,
			CostPerKg:  body.CostPerKg,
			Stock:      body.Stock,
			Notes:      body.Notes,
		}

		if err := database.DB.Create(&o).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create origin")
		}

		if userID, userName, err := audit.Actor(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "origin",
				EntityID:    o.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Origin added: %s (%.1f kg in stock)", o.Name, o.Stock),
				After:       o,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(o))
	}
}

// PUT /api/origins/:id
func UpdateOriginHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		var o models.Origin
		if err := database.DB.First(&o, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Origin not found")
		}
		before := o

		var body UpdateOriginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			o.Name = name
		}
		if body.WeightLoss != nil {
			if *body.WeightLoss < 0 || *body.WeightLoss >= 100 {
				return fiber.NewError(fiber.StatusBadRequest, "weight_loss must be in the range 0-100")
			}
			o.WeightLoss = *body.WeightLoss
		}
		if body.CostPerKg != nil {
			if *body.CostPerKg <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "cost_per_kg must be greater than 0")
			}
			o.CostPerKg = *body.CostPerKg
		}
		if body.Stock != nil {
			if *body.Stock < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "stock cannot be negative")
			}
			o.Stock = *body.Stock
		}
		if body.Notes != nil {
			o.Notes = *body.Notes
		}

		if err := database.DB.Save(&o).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update origin")
		}

		if userID, userName, err := audit.Actor(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "origin",
				EntityID:    o.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Origin updated: %s", o.Name),
				Before:      before,
				After:       o,
			})
		}

		return c.JSON(toResponse(o))
	}
}

// DELETE /api/origins/:id
// Deletion is blocked while roasts reference the origin, otherwise their
// stock history could never be reconciled again.
func DeleteOriginHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		var o models.Origin
		if err := database.DB.First(&o, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Origin not found")
		}

		var roastCount int64
		database.DB.Model(&models.Roast{}).Where("origin_id = ?", o.ID).Count(&roastCount)
		if roastCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Origin has %d recorded roasts. Delete those roasts first.", roastCount))
		}

		if err := database.DB.Delete(&o).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete origin")
		}

		if userID, userName, err := audit.Actor(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "origin",
				EntityID:    o.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Origin deleted: %s", o.Name),
				Before:      o,
			})
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/origins/:id/duplicate
// Copies everything except stock, which starts at zero.
func DuplicateOriginHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		var o models.Origin
		if err := database.DB.First(&o, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Origin not found")
		}

		dup := models.Origin{
			UserID:     userID,
			Name:       o.Name + " (copy)",
			WeightLoss: o.WeightLoss,
			CostPerKg:  o.CostPerKg,
			Stock:      0,
			Notes:      o.Notes,
		}

		if err := database.DB.Create(&dup).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not duplicate origin")
		}

		if userID, userName, err := audit.Actor(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "origin",
				EntityID:    dup.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Origin duplicated: %s", dup.Name),
				After:       dup,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(dup))
	}
}
