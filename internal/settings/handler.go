package settings

import (
	"errors"

	"coffeeflow-backend/internal/audit"
	"coffeeflow-backend/internal/auth"
	"coffeeflow-backend/internal/costing"
	"coffeeflow-backend/internal/database"
	"coffeeflow-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CostSettingsResponse struct {
	Bag250g              float64 `json:"bag_250g"`
	Bag330g              float64 `json:"bag_330g"`
	Bag1000g             float64 `json:"bag_1000g"`
	Label                float64 `json:"label"`
	GasPerRoast          float64 `json:"gas_per_roast"`
	LaborPerHour         float64 `json:"labor_per_hour"`
	RoastingTimeMinutes  float64 `json:"roasting_time_minutes"`
	PackagingTimeMinutes float64 `json:"packaging_time_minutes"`
	BatchSizeKg          float64 `json:"batch_size_kg"`
}

type UpdateCostSettingsRequest struct {
	Bag250g              *float64 `json:"bag_250g"`
	Bag330g              *float64 `json:"bag_330g"`
	Bag1000g             *float64 `json:"bag_1000g"`
	Label                *float64 `json:"label"`
	GasPerRoast          *float64 `json:"gas_per_roast"`
	LaborPerHour         *float64 `json:"labor_per_hour"`
	RoastingTimeMinutes  *float64 `json:"roasting_time_minutes"`
	PackagingTimeMinutes *float64 `json:"packaging_time_minutes"`
	BatchSizeKg          *float64 `json:"batch_size_kg"`
}

func toResponse(s models.CostSettings) CostSettingsResponse {
	return CostSettingsResponse{
		Bag250g:              s.Bag250g,
		Bag330g:              s.Bag330g,
		Bag1000g:             s.Bag1000g,
		Label:                s.Label,
		GasPerRoast:          s.GasPerRoast,
		LaborPerHour:         s.LaborPerHour,
		RoastingTimeMinutes:  s.RoastingTimeMinutes,
		PackagingTimeMinutes: s.PackagingTimeMinutes,
		BatchSizeKg:          s.BatchSizeKg,
	}
}

func defaultsFor(userID uint) models.CostSettings {
	s := costing.DefaultSettings
	s.UserID = userID
	return s
}

// ForUser returns the account's cost settings without creating anything,
// falling back to the hard-coded defaults when the row does not exist.
// Used by the costing endpoints, which must stay read-only.
func ForUser(userID uint) models.CostSettings {
	var s models.CostSettings
	if err := database.DB.Where("user_id = ?", userID).First(&s).Error; err != nil {
		return defaultsFor(userID)
	}
	return s
}

// GET /api/settings/costs
// Creates the singleton with defaults on first access.
func GetCostSettingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var s models.CostSettings
		dbErr := database.DB.Where("user_id = ?", userID).First(&s).Error
		if errors.Is(dbErr, gorm.ErrRecordNotFound) {
			s = defaultsFor(userID)
			if err := database.DB.Create(&s).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not create cost settings")
			}
		} else if dbErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load cost settings")
		}

		return c.JSON(toResponse(s))
	}
}

// PUT /api/settings/costs
func UpdateCostSettingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body UpdateCostSettingsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var s models.CostSettings
		dbErr := database.DB.Where("user_id = ?", userID).First(&s).Error
		if errors.Is(dbErr, gorm.ErrRecordNotFound) {
			s = defaultsFor(userID)
			if err := database.DB.Create(&s).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not create cost settings")
			}
		} else if dbErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load cost settings")
		}
		before := s

		apply := func(dst *float64, src *float64) error {
			if src == nil {
				return nil
			}
			if *src < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Cost settings cannot be negative")
			}
			*dst = *src
			return nil
		}

		for _, pair := range []struct {
			dst *float64
			src *float64
		}{
			{&s.Bag250g, body.Bag250g},
			{&s.Bag330g, body.Bag330g},
			{&s.Bag1000g, body.Bag1000g},
			{&s.Label, body.Label},
			{&s.GasPerRoast, body.GasPerRoast},
			{&s.LaborPerHour, body.LaborPerHour},
			{&s.RoastingTimeMinutes, body.RoastingTimeMinutes},
			{&s.PackagingTimeMinutes, body.PackagingTimeMinutes},
		} {
			if err := apply(pair.dst, pair.src); err != nil {
				return err
			}
		}
		if body.BatchSizeKg != nil {
			if *body.BatchSizeKg <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "batch_size_kg must be greater than 0")
			}
			s.BatchSizeKg = *body.BatchSizeKg
		}

		if err := database.DB.Save(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update cost settings")
		}

		if userID, userName, err := audit.Actor(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "cost_settings",
				EntityID:    s.ID,
				Action:      models.AuditActionUpdate,
				Description: "Cost settings updated",
				Before:      before,
				After:       s,
			})
		}

		return c.JSON(toResponse(s))
	}
}

type ResetDataRequest struct {
	Confirm bool `json:"confirm"`
}

// POST /api/admin/reset (admin role only, guarded at the route level)
// Deletes all roasts, products, operators and origins of the account.
// Cost settings survive a reset, as does the audit trail.
func ResetDataHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body ResetDataRequest
		if err := c.BodyParser(&body); err != nil || !body.Confirm {
			return fiber.NewError(fiber.StatusBadRequest, "Reset must be confirmed explicitly")
		}

		// Roasts first so the origin FK never blocks the wipe.
		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			for _, m := range []any{
				&models.Roast{},
				&models.Product{},
				&models.Operator{},
				&models.Origin{},
			} {
				if err := tx.Where("user_id = ?", userID).Delete(m).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not reset data")
		}

		if userID, userName, err := audit.Actor(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "account",
				EntityID:    userID,
				Action:      models.AuditActionDelete,
				Description: "All origins, products, roasts and operators deleted",
			})
		}

		return c.JSON(fiber.Map{
			"message": "All data deleted",
		})
	}
}
