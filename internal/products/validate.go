package products

import (
	"fmt"
	"math"

	"coffeeflow-backend/internal/models"
)

// recipe percentages must sum to 100 within this tolerance
const percentageTolerance = 0.1

// normalizeType coerces anything that is not explicitly a blend to
// single-origin. The field is informational, so unknown values are folded
// rather than rejected.
func normalizeType(t models.ProductType) models.ProductType {
	if t == models.ProductBlend {
		return models.ProductBlend
	}
	return models.ProductSingleOrigin
}

// validateRecipe enforces the write-time recipe invariants: at least one
// ingredient, every ingredient bound to an existing origin, and percentages
// summing to 100. Referential integrity is not re-checked on read.
func validateRecipe(recipe models.Recipe, origins map[uint]models.Origin) error {
	if len(recipe) == 0 {
		return fmt.Errorf("recipe needs at least one ingredient")
	}

	var total float64
	for _, ing := range recipe {
		if ing.OriginID == 0 {
			return fmt.Errorf("every recipe ingredient needs an origin")
		}
		if _, ok := origins[ing.OriginID]; !ok {
			return fmt.Errorf("recipe references an unknown origin (id %d)", ing.OriginID)
		}
		if ing.Percentage < 0 {
			return fmt.Errorf("recipe percentages cannot be negative")
		}
		total += ing.Percentage
	}

	if math.Abs(total-100) > percentageTolerance {
		return fmt.Errorf("recipe percentages must sum to 100%%, currently %g%%", total)
	}
	return nil
}

func validateProduct(name string, size int, recipe models.Recipe, origins map[uint]models.Origin) error {
	if name == "" {
		return fmt.Errorf("product name is required")
	}
	if size <= 0 {
		return fmt.Errorf("size must be a positive number of grams")
	}
	return validateRecipe(recipe, origins)
}
