package roasting

import (
	"testing"
	"time"

	"coffeeflow-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoast() models.Roast {
	return models.Roast{
		ID:            1,
		OriginID:      3,
		Origin:        models.Origin{ID: 3, Name: "Yirgacheffe"},
		OperatorID:    2,
		Operator:      models.Operator{ID: 2, Name: "Dana"},
		GreenWeight:   15,
		RoastedWeight: 12,
		BatchNumber:   "BATCH-20250314-001",
		Date:          time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestBuildRoastsXLSX(t *testing.T) {
	f, err := buildRoastsXLSX([]models.Roast{testRoast()})
	require.NoError(t, err)

	batch, err := f.GetCellValue("Roasts", "A2")
	require.NoError(t, err)
	assert.Equal(t, "BATCH-20250314-001", batch)

	origin, err := f.GetCellValue("Roasts", "C2")
	require.NoError(t, err)
	assert.Equal(t, "Yirgacheffe", origin)

	operator, err := f.GetCellValue("Roasts", "F2")
	require.NoError(t, err)
	assert.Equal(t, "Dana", operator)
}

func TestBuildLabelPDF(t *testing.T) {
	data, err := buildLabelPDF("Minuto Coffee", testRoast())
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestBuildLabelPDFWithoutBatchNumber(t *testing.T) {
	r := testRoast()
	r.BatchNumber = ""
	data, err := buildLabelPDF("Minuto Coffee", r)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
