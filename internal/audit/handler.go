package audit

import (
	"fmt"

	"coffeeflow-backend/internal/auth"
	"coffeeflow-backend/internal/database"
	"coffeeflow-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AuditLogResponse struct {
	ID          uint               `json:"id"`
	CreatedAt   string             `json:"created_at"`
	UserID      uint               `json:"user_id"`
	UserName    string             `json:"user_name"`
	EntityType  string             `json:"entity_type"`
	EntityID    uint               `json:"entity_id"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
	IsUndone    bool               `json:"is_undone"`
	UndoneBy    *uint              `json:"undone_by"`
	UndoneAt    *string            `json:"undone_at"`
}

// GET /api/audit-logs?entity_type=origin&entity_id=1
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		entityType := c.Query("entity_type")
		entityIDStr := c.Query("entity_id")

		dbq := database.DB.Model(&models.AuditLog{}).Where("user_id = ?", userID)

		if entityType != "" {
			dbq = dbq.Where("entity_type = ?", entityType)
		}
		if entityIDStr != "" {
			var eid uint
			if _, err := fmt.Sscan(entityIDStr, &eid); err == nil && eid > 0 {
				dbq = dbq.Where("entity_id = ?", eid)
			}
		}

		var logs []models.AuditLog
		if err := dbq.Order("created_at DESC").Limit(500).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list audit logs")
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, entry := range logs {
			var undoneAtStr *string
			if entry.UndoneAt != nil {
				formatted := entry.UndoneAt.Format("2006-01-02 15:04:05")
				undoneAtStr = &formatted
			}

			resp = append(resp, AuditLogResponse{
				ID:          entry.ID,
				CreatedAt:   entry.CreatedAt.Format("2006-01-02 15:04:05"),
				UserID:      entry.UserID,
				UserName:    entry.UserName,
				EntityType:  entry.EntityType,
				EntityID:    entry.EntityID,
				Action:      entry.Action,
				Description: entry.Description,
				IsUndone:    entry.IsUndone,
				UndoneBy:    entry.UndoneBy,
				UndoneAt:    undoneAtStr,
			})
		}

		return c.JSON(resp)
	}
}

// POST /api/audit-logs/:id/undo
func UndoAuditLogHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		logIDStr := c.Params("id")
		var logID uint
		if _, err := fmt.Sscan(logIDStr, &logID); err != nil || logID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid log ID")
		}

		userID, userName, err := Actor(c)
		if err != nil {
			return err
		}

		if err := UndoLog(logID, userID, userName); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.JSON(fiber.Map{
			"message": "Change undone",
		})
	}
}
