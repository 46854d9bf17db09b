package model

// Ingredient type values accepted by validation. The set mirrors
// the enum column on the ingredients table.
const (
	IngredientTypeVegetable = "vegetable"
	IngredientTypeMeat      = "meat"
	IngredientTypeDairy     = "dairy"
	IngredientTypeOther     = "other"
)

// IngredientTypes is the allowed set for ingredients.type, used by
// validation for membership checks.
var IngredientTypes = map[string]bool{
	IngredientTypeVegetable: true,
	IngredientTypeMeat:      true,
	IngredientTypeDairy:     true,
	IngredientTypeOther:     true,
}

// Ingredient represents a row in the `ingredients` table.
// Allergens are stored as a comma-separated list string, matching
// the original schema rather than a join table.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – ingredient name.
//  Description – free-text description.
//  Type        – one of vegetable, meat, dairy, other.
//  Allergens   – comma-separated allergen names ("" when none).
//  Cost        – unit cost as a decimal.
type Ingredient struct {
	ID          uint64  // ingredients.id
	Name        string  // ingredients.name
	Description string  // ingredients.description
	Type        string  // ingredients.type
	Allergens   string  // ingredients.allergens
	Cost        float64 // ingredients.cost
}
