package service_test

import (
	"testing"

	"github.com/pageza/foodflow/backend/internal/models"
	"github.com/pageza/foodflow/backend/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeUnit(t *testing.T) {
	cases := map[string]string{
		"Grammi":    "g",
		" litri ":   "l",
		"pezzi":     "pz",
		"unita":     "pz",
		"cucchiaio": "ml",
		"tsp":       "ml",
		"q.b.":      "q.b.",
		"":          "",
	}
	for in, want := range cases {
		assert.Equal(t, want, service.NormalizeUnit(in), in)
	}
}

func TestCanonicalQuantity(t *testing.T) {
	q, u := service.CanonicalQuantity(1.5, "chilogrammi")
	assert.Equal(t, 1500.0, q)
	assert.Equal(t, "g", u)

	q, u = service.CanonicalQuantity(2, "cucchiai")
	assert.Equal(t, 30.0, q)
	assert.Equal(t, "ml", u)

	q, u = service.CanonicalQuantity(3, "cucchiaino")
	assert.Equal(t, 15.0, q)
	assert.Equal(t, "ml", u)

	q, u = service.CanonicalQuantity(4, "Pezzi")
	assert.Equal(t, 4.0, q)
	assert.Equal(t, "pz", u)
}

func TestRemapToPantry(t *testing.T) {
	products := []models.Product{
		{Name: "Latte", Unit: "ml"},
		{Name: "Farina", Unit: "kg"},
		{Name: "Olio", Unit: "g"},
	}
	recipes := []service.Recipe{{Ingredients: []service.RecipeIngredient{
		{Item: "Latte", Quantity: 0.25, Unit: "litri"},
		{Item: "farina", Quantity: 300, Unit: "grammi"},
		{Item: "Olio", Quantity: 2, Unit: "cucchiai"},
		{Item: "Sale", Quantity: 1, Unit: "pizzico"},
	}}}

	service.RemapToPantry(recipes, products)

	got := recipes[0].Ingredients
	assert.Equal(t, service.RecipeIngredient{Item: "Latte", Quantity: 250, Unit: "ml"}, got[0])
	assert.Equal(t, service.RecipeIngredient{Item: "farina", Quantity: 0.3, Unit: "kg"}, got[1])
	assert.Equal(t, service.RecipeIngredient{Item: "Olio", Quantity: 30, Unit: "ml"}, got[2], "volume is not forced into a weight unit")
	assert.Equal(t, service.RecipeIngredient{Item: "Sale", Quantity: 1, Unit: "pizzico"}, got[3])
}
