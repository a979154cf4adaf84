package origins

import (
	"strings"
	"testing"

	"coffeeflow-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOriginsCSV(t *testing.T) {
	origins := []models.Origin{
		{Name: "Yirgacheffe", WeightLoss: 20, CostPerKg: 30, Stock: 50, RoastedStock: 4.5, Notes: "washed"},
		{Name: `Brazil "Cerrado"`, WeightLoss: 15.5, CostPerKg: 22, Stock: 0, RoastedStock: 0},
	}

	data, err := buildOriginsCSV(origins)
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "\uFEFF"), "export must start with a UTF-8 BOM")

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(out, "\uFEFF")), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Name,Weight Loss %,Cost/kg,Stock (kg),Roasted Stock (kg),Notes", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "Yirgacheffe,20,30,50,4.5,washed")
	// quotes inside a name must survive CSV escaping
	assert.Contains(t, lines[2], `"Brazil ""Cerrado"""`)
}

func TestBuildOriginsCSVEmpty(t *testing.T) {
	data, err := buildOriginsCSV(nil)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(string(data), "\uFEFF")), "\n")
	require.Len(t, lines, 1) // header only
}
