package service

import (
	"strings"

	"github.com/pageza/foodflow/backend/internal/models"
)

var unitAliases = map[string]string{
	"g": "g", "grammo": "g", "grammi": "g",
	"kg": "kg", "chilogrammo": "kg", "chilogrammi": "kg",
	"ml": "ml", "millilitro": "ml", "millilitri": "ml",
	"l": "l", "litro": "l", "litri": "l",
	"pz": "pz", "pezzo": "pz", "pezzi": "pz", "unit": "pz", "unita": "pz",
}

var spoonMillilitres = map[string]float64{
	"cucchiaino": 5, "cucchiaini": 5, "cucchiaino/i": 5, "tsp": 5,
	"cucchiaio": 15, "cucchiai": 15, "cucchiaio/i": 15, "tbsp": 15,
}

// NormalizeUnit maps Italian and English aliases to g, kg, ml, l or pz.
// Unknown units come back lowercased and trimmed.
func NormalizeUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	if _, ok := spoonMillilitres[u]; ok {
		return "ml"
	}
	if canon, ok := unitAliases[u]; ok {
		return canon
	}
	return u
}

// CanonicalQuantity converts a quantity to g, ml or pz where a conversion is
// known. Spoons become millilitres.
func CanonicalQuantity(quantity float64, unit string) (float64, string) {
	u := strings.ToLower(strings.TrimSpace(unit))
	if ml, ok := spoonMillilitres[u]; ok {
		return quantity * ml, "ml"
	}
	switch u = NormalizeUnit(u); u {
	case "kg":
		return quantity * 1000, "g"
	case "l":
		return quantity * 1000, "ml"
	}
	return quantity, u
}

// RemapToPantry rewrites recipe ingredient units in canonical form and, when
// the pantry holds the same item by name in a compatible unit, in the pantry's
// unit. Incompatible pairs such as g and ml are left canonical.
func RemapToPantry(recipes []Recipe, products []models.Product) {
	pantryUnits := make(map[string]string, len(products))
	for _, p := range products {
		key := strings.ToLower(strings.TrimSpace(p.Name))
		if key != "" && p.Unit != "" {
			pantryUnits[key] = NormalizeUnit(p.Unit)
		}
	}

	for i := range recipes {
		for j := range recipes[i].Ingredients {
			ing := &recipes[i].Ingredients[j]
			qty, unit := CanonicalQuantity(float64(ing.Quantity), ing.Unit)
			switch pantry := pantryUnits[strings.ToLower(strings.TrimSpace(ing.Item))]; {
			case pantry == "kg" && unit == "g", pantry == "l" && unit == "ml":
				qty, unit = qty/1000, pantry
			}
			ing.Quantity = Number(round2(qty))
			ing.Unit = unit
		}
	}
}
