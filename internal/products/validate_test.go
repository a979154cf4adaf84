package products

import (
	"testing"

	"coffeeflow-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

var testOrigins = map[uint]models.Origin{
	1: {ID: 1, Name: "Yirgacheffe"},
	2: {ID: 2, Name: "Santos"},
}

func TestValidateRecipePercentageTolerance(t *testing.T) {
	within := models.Recipe{
		{OriginID: 1, Percentage: 60},
		{OriginID: 2, Percentage: 40.05},
	}
	assert.NoError(t, validateRecipe(within, testOrigins), "100.05 is inside the 0.1 tolerance")

	outside := models.Recipe{
		{OriginID: 1, Percentage: 60},
		{OriginID: 2, Percentage: 40.2},
	}
	assert.Error(t, validateRecipe(outside, testOrigins), "100.2 is outside the 0.1 tolerance")
}

func TestValidateRecipeRejectsUnknownOrigin(t *testing.T) {
	r := models.Recipe{{OriginID: 99, Percentage: 100}}
	assert.Error(t, validateRecipe(r, testOrigins))
}

func TestValidateRecipeRejectsEmpty(t *testing.T) {
	assert.Error(t, validateRecipe(nil, testOrigins))
	assert.Error(t, validateRecipe(models.Recipe{}, testOrigins))
}

func TestValidateRecipeRejectsNegativePercentage(t *testing.T) {
	r := models.Recipe{
		{OriginID: 1, Percentage: 150},
		{OriginID: 2, Percentage: -50},
	}
	assert.Error(t, validateRecipe(r, testOrigins))
}

func TestNormalizeType(t *testing.T) {
	assert.Equal(t, models.ProductBlend, normalizeType(models.ProductBlend))
	assert.Equal(t, models.ProductSingleOrigin, normalizeType(models.ProductSingleOrigin))
	// unknown values fold to single-origin on every write path
	assert.Equal(t, models.ProductSingleOrigin, normalizeType(""))
	assert.Equal(t, models.ProductSingleOrigin, normalizeType("espresso"))
}

func TestValidateProduct(t *testing.T) {
	r := models.Recipe{{OriginID: 1, Percentage: 100}}

	assert.NoError(t, validateProduct("Ethiopia 330", 330, r, testOrigins))
	assert.Error(t, validateProduct("", 330, r, testOrigins))
	assert.Error(t, validateProduct("Ethiopia", 0, r, testOrigins))
	assert.Error(t, validateProduct("Ethiopia", -250, r, testOrigins))
}
