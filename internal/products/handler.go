package products

import (
	"fmt"
	"strings"

	"coffeeflow-backend/internal/audit"
	"coffeeflow-backend/internal/auth"
	"coffeeflow-backend/internal/costing"
	"coffeeflow-backend/internal/database"
	"coffeeflow-backend/internal/models"
	"coffeeflow-backend/internal/settings"

	"github.com/gofiber/fiber/v2"
)

type ProductResponse struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	Size        int                `json:"size"`
	Type        models.ProductType `json:"type"`
	Description string             `json:"description"`
	Recipe      models.Recipe      `json:"recipe"`
}

type CreateProductRequest struct {
	Name        string             `json:"name"`
	Size        int                `json:"size"`
	Type        models.ProductType `json:"type"`
	Description string             `json:"description"`
	Recipe      models.Recipe      `json:"recipe"`
}

type UpdateProductRequest struct {
	Name        *string             `json:"name"`
	Size        *int                `json:"size"`
	Type        *models.ProductType `json:"type"`
	Description *string             `json:"description"`
	Recipe      *models.Recipe      `json:"recipe"`
}

func toResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Size:        p.Size,
		Type:        p.Type,
		Description: p.Description,
		Recipe:      p.Recipe,
	}
}

// originsByID loads the account's origins keyed by id, for recipe validation
// and costing.
func originsByID(userID uint) (map[uint]models.Origin, error) {
	var origins []models.Origin
	if err := database.DB.Where("user_id = ?", userID).Find(&origins).Error; err != nil {
		return nil, err
	}
	m := make(map[uint]models.Origin, len(origins))
	for _, o := range origins {
		m[o.ID] = o
	}
	return m, nil
}

// GET /api/products
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var products []models.Product
		if err := database.DB.Where("user_id = ?", userID).Order("id asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list products")
		}

		res := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			res = append(res, toResponse(p))
		}
		return c.JSON(res)
	}
}

// POST /api/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Type = normalizeType(body.Type)

		origins, err := originsByID(userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load origins")
		}
		if err := validateProduct(body.Name, body.Size, body.Recipe, origins); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		p := models.Product{
			UserID:      userID,
			Name:        body.Name,
			Size:        body.Size,
			Type:        body.Type,
			Description: body.Description,
			Recipe:      body.Recipe,
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create product")
		}

		if userID, userName, err := audit.Actor(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "product",
				EntityID:    p.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Product added: %s %dg", p.Name, p.Size),
				After:       p,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(p))
	}
}

// PUT /api/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		var p models.Product
		if err := database.DB.First(&p, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
		before := p

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			p.Name = strings.TrimSpace(*body.Name)
		}
		if body.Size != nil {
			p.Size = *body.Size
		}
		if body.Type != nil {
			p.Type = normalizeType(*body.Type)
		}
		if body.Description != nil {
			p.Description = *body.Description
		}
		if body.Recipe != nil {
			p.Recipe = *body.Recipe
		}

		origins, err := originsByID(userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load origins")
		}
		if err := validateProduct(p.Name, p.Size, p.Recipe, origins); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update product")
		}

		if userID, userName, err := audit.Actor(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "product",
				EntityID:    p.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Product updated: %s %dg", p.Name, p.Size),
				Before:      before,
				After:       p,
			})
		}

		return c.JSON(toResponse(p))
	}
}

// DELETE /api/products/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		var p models.Product
		if err := database.DB.First(&p, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		if err := database.DB.Delete(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete product")
		}

		if userID, userName, err := audit.Actor(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "product",
				EntityID:    p.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Product deleted: %s %dg", p.Name, p.Size),
				Before:      p,
			})
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/products/:id/duplicate
func DuplicateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		var p models.Product
		if err := database.DB.First(&p, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		dup := models.Product{
			UserID:      userID,
			Name:        p.Name + " (copy)",
			Size:        p.Size,
			Type:        p.Type,
			Description: p.Description,
			Recipe:      p.Recipe,
		}

		if err := database.DB.Create(&dup).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not duplicate product")
		}

		if userID, userName, err := audit.Actor(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "product",
				EntityID:    dup.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Product duplicated: %s", dup.Name),
				After:       dup,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(dup))
	}
}

// GET /api/products/:id/cost?breakdown=true
// Computes the per-unit production cost from the current origins and cost
// settings. Orphaned recipe entries contribute zero, matching Compute.
func ProductCostHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		var p models.Product
		if err := database.DB.First(&p, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
		if p.Size <= 0 || len(p.Recipe) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Product has no usable size or recipe")
		}

		origins, err := originsByID(userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load origins")
		}

		b := costing.Compute(p, settings.ForUser(userID), origins)

		if c.Query("breakdown") == "true" {
			return c.JSON(b)
		}
		return c.JSON(fiber.Map{
			"total_cost": b.TotalCost,
		})
	}
}
