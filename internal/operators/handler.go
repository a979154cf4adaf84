package operators

import (
	"fmt"
	"strings"

	"coffeeflow-backend/internal/audit"
	"coffeeflow-backend/internal/auth"
	"coffeeflow-backend/internal/database"
	"coffeeflow-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type OperatorResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	RoastCount int64  `json:"roast_count"`
}

type OperatorRequest struct {
	Name string `json:"name"`
}

// GET /api/operators
func ListOperatorsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var operators []models.Operator
		if err := database.DB.Where("user_id = ?", userID).Order("id asc").Find(&operators).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list operators")
		}

		res := make([]OperatorResponse, 0, len(operators))
		for _, op := range operators {
			var roastCount int64
			database.DB.Model(&models.Roast{}).Where("operator_id = ?", op.ID).Count(&roastCount)
			res = append(res, OperatorResponse{
				ID:         op.ID,
				Name:       op.Name,
				RoastCount: roastCount,
			})
		}
		return c.JSON(res)
	}
}

// POST /api/operators
func CreateOperatorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body OperatorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}

		op := models.Operator{
			UserID: userID,
			Name:   body.Name,
		}

		if err := database.DB.Create(&op).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create operator")
		}

		if userID, userName, err := audit.Actor(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "operator",
				EntityID:    op.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Operator added: %s", op.Name),
				After:       op,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(OperatorResponse{ID: op.ID, Name: op.Name})
	}
}

// PUT /api/operators/:id
// Roasts reference the operator by id, so a rename is a single row update.
func UpdateOperatorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		var op models.Operator
		if err := database.DB.First(&op, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Operator not found")
		}
		before := op

		var body OperatorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}
		op.Name = body.Name

		if err := database.DB.Save(&op).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update operator")
		}

		if userID, userName, err := audit.Actor(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "operator",
				EntityID:    op.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Operator renamed: %s -> %s", before.Name, op.Name),
				Before:      before,
				After:       op,
			})
		}

		return c.JSON(OperatorResponse{ID: op.ID, Name: op.Name})
	}
}

// DELETE /api/operators/:id
// Past roasts keep their reference; the listing joins whatever name the
// operator row had, so deletion is blocked while roasts point at it.
func DeleteOperatorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		var op models.Operator
		if err := database.DB.First(&op, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Operator not found")
		}

		var roastCount int64
		database.DB.Model(&models.Roast{}).Where("operator_id = ?", op.ID).Count(&roastCount)
		if roastCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Operator %q has %d recorded roasts and cannot be deleted", op.Name, roastCount))
		}

		if err := database.DB.Delete(&op).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete operator")
		}

		if userID, userName, err := audit.Actor(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "operator",
				EntityID:    op.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Operator deleted: %s", op.Name),
				Before:      op,
			})
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
