package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"coffeeflow-backend/internal/auth"
	"coffeeflow-backend/internal/database"
	"coffeeflow-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// Actor resolves the acting user for audit entries.
func Actor(c *fiber.Ctx) (uint, string, error) {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return 0, "", err
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "User not found")
	}
	return userID, user.Name, nil
}

func WriteLog(opts LogOptions) error {
	// Postgres jsonb needs the JSON literal "null", not an empty string
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("could not write audit log: %w", err)
	}

	return nil
}

// UndoLog reverses the change a log entry recorded. Roast entries are not
// undoable here: undoing one without replaying the stock adjustment would
// corrupt origin inventory, so roasts must be reverted through the
// roasting endpoints.
func UndoLog(logID uint, userID uint, userName string) error {
	var entry models.AuditLog
	if err := database.DB.First(&entry, "id = ? AND user_id = ?", logID, userID).Error; err != nil {
		return fmt.Errorf("log not found: %w", err)
	}

	if entry.IsUndone {
		return fmt.Errorf("this change has already been undone")
	}
	if entry.EntityType == "roast" {
		return fmt.Errorf("roast changes adjust stock and cannot be undone from the audit trail")
	}

	switch entry.Action {
	case models.AuditActionCreate:
		if err := deleteEntity(entry.EntityType, entry.EntityID); err != nil {
			return fmt.Errorf("could not delete entity: %w", err)
		}

	case models.AuditActionUpdate:
		if err := restoreEntity(entry.EntityType, entry.EntityID, entry.BeforeData); err != nil {
			return fmt.Errorf("could not restore entity: %w", err)
		}

	case models.AuditActionDelete:
		if err := recreateEntity(entry.EntityType, entry.BeforeData); err != nil {
			return fmt.Errorf("could not recreate entity: %w", err)
		}

	default:
		return fmt.Errorf("this action type cannot be undone")
	}

	now := time.Now()
	entry.IsUndone = true
	entry.UndoneBy = &userID
	entry.UndoneAt = &now

	if err := database.DB.Save(&entry).Error; err != nil {
		return fmt.Errorf("could not update log: %w", err)
	}

	undoEntry := models.AuditLog{
		UserID:      userID,
		UserName:    userName,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Action:      models.AuditActionUndo,
		Description: fmt.Sprintf("Undone: %s", entry.Description),
		BeforeData:  entry.AfterData,
		AfterData:   entry.BeforeData,
	}

	if err := database.DB.Create(&undoEntry).Error; err != nil {
		return fmt.Errorf("could not write undo log: %w", err)
	}

	return nil
}

func deleteEntity(entityType string, entityID uint) error {
	switch entityType {
	case "origin":
		return database.DB.Delete(&models.Origin{}, "id = ?", entityID).Error
	case "product":
		return database.DB.Delete(&models.Product{}, "id = ?", entityID).Error
	case "operator":
		return database.DB.Delete(&models.Operator{}, "id = ?", entityID).Error
	default:
		return fmt.Errorf("unknown entity type: %s", entityType)
	}
}

func recreateEntity(entityType string, dataJSON string) error {
	switch entityType {
	case "origin":
		var origin models.Origin
		if err := json.Unmarshal([]byte(dataJSON), &origin); err != nil {
			return err
		}
		origin.ID = 0
		return database.DB.Create(&origin).Error

	case "product":
		var product models.Product
		if err := json.Unmarshal([]byte(dataJSON), &product); err != nil {
			return err
		}
		product.ID = 0
		return database.DB.Create(&product).Error

	case "operator":
		var operator models.Operator
		if err := json.Unmarshal([]byte(dataJSON), &operator); err != nil {
			return err
		}
		operator.ID = 0
		return database.DB.Create(&operator).Error

	default:
		return fmt.Errorf("unknown entity type: %s", entityType)
	}
}

func restoreEntity(entityType string, entityID uint, dataJSON string) error {
	switch entityType {
	case "origin":
		var origin models.Origin
		if err := json.Unmarshal([]byte(dataJSON), &origin); err != nil {
			return err
		}
		origin.ID = entityID
		return database.DB.Save(&origin).Error

	case "product":
		var product models.Product
		if err := json.Unmarshal([]byte(dataJSON), &product); err != nil {
			return err
		}
		product.ID = entityID
		return database.DB.Save(&product).Error

	case "operator":
		var operator models.Operator
		if err := json.Unmarshal([]byte(dataJSON), &operator); err != nil {
			return err
		}
		operator.ID = entityID
		return database.DB.Save(&operator).Error

	default:
		return fmt.Errorf("unknown entity type: %s", entityType)
	}
}
