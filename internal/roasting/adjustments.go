package roasting

import "fmt"

// maxGreenWeightKg bounds a single roast at the drum capacity.
const maxGreenWeightKg = 20.0

// validateRoastWeight enforces the drum bound on a roast's green weight.
func validateRoastWeight(greenWeight float64) error {
	if greenWeight <= 0 || greenWeight > maxGreenWeightKg {
		return fmt.Errorf("green_weight must be between 0 and %g kg", maxGreenWeightKg)
	}
	return nil
}

// validateNewRoast gates a roast before anything is written: the weight must
// fit the drum and the origin must hold enough green stock to supply it.
func validateNewRoast(greenWeight, stock float64) error {
	if err := validateRoastWeight(greenWeight); err != nil {
		return err
	}
	if stock < greenWeight {
		return fmt.Errorf("not enough stock: need %g kg, have %g kg", greenWeight, stock)
	}
	return nil
}

// StockDelta is a signed inventory change for one origin. Green stock and
// roasted stock move together: roasting consumes green kg and produces
// roasted kg.
type StockDelta struct {
	OriginID     uint
	Stock        float64
	RoastedStock float64
}

// createAdjustment: recording a roast draws green stock and adds roasted stock.
func createAdjustment(originID uint, greenWeight, roastedWeight float64) []StockDelta {
	return []StockDelta{
		{OriginID: originID, Stock: -greenWeight, RoastedStock: roastedWeight},
	}
}

// deleteAdjustment: removing a roast returns exactly what the create took.
func deleteAdjustment(originID uint, greenWeight, roastedWeight float64) []StockDelta {
	return []StockDelta{
		{OriginID: originID, Stock: greenWeight, RoastedStock: -roastedWeight},
	}
}

// editAdjustment reconciles stock for an edited roast. Same origin: apply
// only the weight delta. Different origin: fully restore the old origin,
// then charge the new one.
func editAdjustment(oldOriginID, newOriginID uint, oldGreen, oldRoasted, newGreen, newRoasted float64) []StockDelta {
	if oldOriginID == newOriginID {
		return []StockDelta{
			{
				OriginID:     oldOriginID,
				Stock:        -(newGreen - oldGreen),
				RoastedStock: newRoasted - oldRoasted,
			},
		}
	}
	return []StockDelta{
		{OriginID: oldOriginID, Stock: oldGreen, RoastedStock: -oldRoasted},
		{OriginID: newOriginID, Stock: -newGreen, RoastedStock: newRoasted},
	}
}
