package costing

import (
	"math"

	"coffeeflow-backend/internal/models"
)

// DefaultSettings is used for an account that has not saved cost settings yet.
var DefaultSettings = models.CostSettings{
	Bag250g:              0.60,
	Bag330g:              0.70,
	Bag1000g:             2.00,
	Label:                0.08,
	GasPerRoast:          10.00,
	LaborPerHour:         60,
	RoastingTimeMinutes:  17,
	PackagingTimeMinutes: 0.5,
	BatchSizeKg:          15,
}

// Breakdown: the five cost components of one packaged unit plus the batch
// yield. Each field is rounded independently (costs to 2 decimals, bags to 1),
// so the components do not necessarily sum to TotalCost exactly.
type Breakdown struct {
	BeansCost      float64 `json:"beans_cost"`
	GasCost        float64 `json:"gas_cost"`
	RoastingLabor  float64 `json:"roasting_labor"`
	PackagingLabor float64 `json:"packaging_labor"`
	PackagingCost  float64 `json:"packaging_cost"`
	TotalCost      float64 `json:"total_cost"`
	BagsPerBatch   float64 `json:"bags_per_batch"`
}

// RoastedWeight converts a green weight to the expected roasted weight for
// the given weight-loss percentage.
func RoastedWeight(greenKg, weightLossPercent float64) float64 {
	return greenKg * (1 - weightLossPercent/100)
}

// AverageWeightLoss is the recipe's percentage-weighted weight loss.
// Ingredients referencing a missing origin contribute zero.
func AverageWeightLoss(recipe models.Recipe, origins map[uint]models.Origin) float64 {
	var avg float64
	for _, ing := range recipe {
		if origin, ok := origins[ing.OriginID]; ok {
			avg += origin.WeightLoss * (ing.Percentage / 100)
		}
	}
	return avg
}

// Compute returns the per-unit production cost breakdown of a product.
// Pure function: no side effects, same inputs always give the same output.
// Size must be validated positive by the caller.
func Compute(product models.Product, settings models.CostSettings, origins map[uint]models.Origin) Breakdown {
	unitSizeKg := float64(product.Size) / 1000

	// Bean cost on a roasted-kg basis: green cost divided by yield.
	var beansCost float64
	for _, ing := range product.Recipe {
		origin, ok := origins[ing.OriginID]
		if !ok {
			continue // orphaned recipe entry, contributes nothing
		}
		weight := unitSizeKg * (ing.Percentage / 100)
		yieldPercent := 1 - origin.WeightLoss/100
		beansCost += weight * (origin.CostPerKg / yieldPercent)
	}

	// Gas and roasting labor are paid per batch and amortized over the bags
	// one full batch yields. Packaging labor is flat per unit.
	avgWeightLoss := AverageWeightLoss(product.Recipe, origins)
	roastedKgPerBatch := settings.BatchSizeKg * (1 - avgWeightLoss/100)
	bagsPerBatch := roastedKgPerBatch * 1000 / float64(product.Size)

	gasCost := settings.GasPerRoast / bagsPerBatch
	roastingLabor := (settings.LaborPerHour / 60) * settings.RoastingTimeMinutes / bagsPerBatch
	packagingLabor := (settings.LaborPerHour / 60) * settings.PackagingTimeMinutes
	packagingCost := settings.Label + bagCost(product.Size, settings)

	total := beansCost + gasCost + roastingLabor + packagingLabor + packagingCost

	return Breakdown{
		BeansCost:      round2(beansCost),
		GasCost:        round2(gasCost),
		RoastingLabor:  round2(roastingLabor),
		PackagingLabor: round2(packagingLabor),
		PackagingCost:  round2(packagingCost),
		TotalCost:      round2(total),
		BagsPerBatch:   round1(bagsPerBatch),
	}
}

// bagCost picks the size-specific bag price, falling back to the 330 g bag
// for unrecognized sizes.
func bagCost(size int, settings models.CostSettings) float64 {
	switch size {
	case 250:
		return settings.Bag250g
	case 330:
		return settings.Bag330g
	case 1000:
		return settings.Bag1000g
	default:
		return settings.Bag330g
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
