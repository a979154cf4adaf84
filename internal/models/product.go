package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type ProductType string

const (
	ProductSingleOrigin ProductType = "single"
	ProductBlend        ProductType = "blend"
)

// RecipeIngredient: one origin's share of a product recipe.
type RecipeIngredient struct {
	OriginID   uint    `json:"origin_id"`
	Percentage float64 `json:"percentage"`
}

// Recipe is stored as a jsonb column.
type Recipe []RecipeIngredient

func (r Recipe) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *Recipe) Scan(value any) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("unsupported recipe column type %T", value)
	}
}

type Product struct {
	ID          uint        `gorm:"primaryKey"`
	UserID      uint        `gorm:"index;not null"`
	Name        string      `gorm:"size:100;not null"`
	Size        int         `gorm:"not null"` // packaged grams: 250, 330, 1000 or other
	Type        ProductType `gorm:"size:20;not null;default:single"` // informational only
	Description string      `gorm:"size:500"`
	Recipe      Recipe      `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
