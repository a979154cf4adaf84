package roasting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateThenDeleteIsAWash(t *testing.T) {
	// Recording a roast and deleting it must leave the origin's stock
	// exactly where it started.
	create := createAdjustment(7, 15, 12)
	del := deleteAdjustment(7, 15, 12)

	require.Len(t, create, 1)
	require.Len(t, del, 1)

	assert.InDelta(t, 0, create[0].Stock+del[0].Stock, 1e-9)
	assert.InDelta(t, 0, create[0].RoastedStock+del[0].RoastedStock, 1e-9)
}

func TestCreateAdjustmentSigns(t *testing.T) {
	deltas := createAdjustment(3, 15, 12)
	require.Len(t, deltas, 1)
	assert.Equal(t, uint(3), deltas[0].OriginID)
	assert.InDelta(t, -15, deltas[0].Stock, 1e-9)       // green consumed
	assert.InDelta(t, 12, deltas[0].RoastedStock, 1e-9) // roasted produced
}

func TestEditAdjustmentSameOrigin(t *testing.T) {
	// 15 kg -> 18 kg on the same origin: only the 3 kg difference moves.
	deltas := editAdjustment(3, 3, 15, 12, 18, 14.4)
	require.Len(t, deltas, 1)
	assert.Equal(t, uint(3), deltas[0].OriginID)
	assert.InDelta(t, -3, deltas[0].Stock, 1e-9)
	assert.InDelta(t, 2.4, deltas[0].RoastedStock, 1e-9)
}

func TestEditAdjustmentUnchangedWeightIsNoop(t *testing.T) {
	deltas := editAdjustment(3, 3, 15, 12, 15, 12)
	require.Len(t, deltas, 1)
	assert.InDelta(t, 0, deltas[0].Stock, 1e-9)
	assert.InDelta(t, 0, deltas[0].RoastedStock, 1e-9)
}

func TestEditAdjustmentOriginChange(t *testing.T) {
	// Moving a roast from origin 3 to origin 5: the old origin gets its
	// full weights back, the new origin is charged the full new weights.
	deltas := editAdjustment(3, 5, 15, 12, 10, 8.5)
	require.Len(t, deltas, 2)

	old, next := deltas[0], deltas[1]
	assert.Equal(t, uint(3), old.OriginID)
	assert.InDelta(t, 15, old.Stock, 1e-9)
	assert.InDelta(t, -12, old.RoastedStock, 1e-9)

	assert.Equal(t, uint(5), next.OriginID)
	assert.InDelta(t, -10, next.Stock, 1e-9)
	assert.InDelta(t, 8.5, next.RoastedStock, 1e-9)
}

func TestValidateRoastWeightBounds(t *testing.T) {
	assert.NoError(t, validateRoastWeight(0.5))
	assert.NoError(t, validateRoastWeight(20)) // drum capacity itself is allowed

	assert.Error(t, validateRoastWeight(0))
	assert.Error(t, validateRoastWeight(-3))
	assert.Error(t, validateRoastWeight(20.5))
}

func TestValidateNewRoastRejectsInsufficientStock(t *testing.T) {
	// The gate runs before any write, so a roast larger than the
	// origin's green stock never touches the database.
	assert.Error(t, validateNewRoast(15, 14.9))
	assert.NoError(t, validateNewRoast(15, 15))
	assert.NoError(t, validateNewRoast(15, 50))

	// weight bound still applies even with plenty of stock
	assert.Error(t, validateNewRoast(25, 100))
}

func TestBatchNumber(t *testing.T) {
	day := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, "BATCH-20250314-001", batchNumber(day, 0))
	assert.Equal(t, "BATCH-20250314-004", batchNumber(day, 3))
	assert.Equal(t, "BATCH-20250314-100", batchNumber(day, 99))
}
