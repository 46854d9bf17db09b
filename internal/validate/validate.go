// Package validate holds the payload predicates checked before any
// persistence write. Each function returns the full list of field
// errors rather than stopping at the first, so clients can fix a
// payload in one round trip. A nil/empty result means the payload
// is acceptable.
package validate

import (
	"fmt"
	"strings"

	"pizzeria/internal/model"
)

// FieldError ties a failed predicate to the field that failed it.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string { return e.Field + ": " + e.Message }

// Errors is the result of validating one payload.
type Errors []FieldError

// Detail flattens the field errors into the single message
// returned in the {"detail": ...} error body.
func (es Errors) Detail() string {
	parts := make([]string, 0, len(es))
	for _, e := range es {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

// MinPizzaIngredients is the minimum number of ingredient
// references a pizza must carry to be considered valid.
const MinPizzaIngredients = 3

// PizzaInput carries the fields of a pizza create/update payload
// that validation cares about. Ingredients holds the referenced
// ingredient records, already loaded by the caller, so the
// vegetarian check can inspect their types.
type PizzaInput struct {
	Name        string
	Price       float64
	Vegetarian  bool
	Ingredients []model.Ingredient
}

// Pizza checks the catalog invariants: positive price, at least
// three ingredient references, and no meat on a vegetarian pizza.
func Pizza(in PizzaInput) Errors {
	var errs Errors
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, FieldError{"name", "name is required"})
	}
	if in.Price <= 0 {
		errs = append(errs, FieldError{"price", "price must be positive"})
	}
	if len(in.Ingredients) < MinPizzaIngredients {
		errs = append(errs, FieldError{"ingredients",
			fmt.Sprintf("a pizza must have at least %d ingredients", MinPizzaIngredients)})
	}
	if in.Vegetarian {
		for _, ing := range in.Ingredients {
			if ing.Type == model.IngredientTypeMeat {
				errs = append(errs, FieldError{"ingredients",
					fmt.Sprintf("ingredient %q is meat and cannot be on a vegetarian pizza", ing.Name)})
				break
			}
		}
	}
	return errs
}

// Ingredient checks the type enum and the allergen list format.
// Allergens are a comma-separated string; an empty string means no
// allergens and is always accepted.
func Ingredient(name, typ, allergens string) Errors {
	var errs Errors
	if strings.TrimSpace(name) == "" {
		errs = append(errs, FieldError{"name", "name is required"})
	}
	if !model.IngredientTypes[typ] {
		errs = append(errs, FieldError{"type",
			"type must be one of vegetable, meat, dairy, other"})
	}
	if allergens != "" {
		for _, part := range strings.Split(allergens, ",") {
			if strings.TrimSpace(part) == "" {
				errs = append(errs, FieldError{"allergens",
					"allergens must be a comma-separated list"})
				break
			}
		}
	}
	return errs
}

// Username enforces 8-20 characters drawn from letters, digits and
// underscore.
func Username(username string) Errors {
	var errs Errors
	if len(username) < 8 || len(username) > 20 {
		errs = append(errs, FieldError{"username", "username must be 8-20 characters"})
	}
	for _, r := range username {
		if !isUsernameRune(r) {
			errs = append(errs, FieldError{"username",
				"username may only contain letters, digits and underscore"})
			break
		}
	}
	return errs
}

func isUsernameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_':
		return true
	}
	return false
}

// Password requires at least 8 characters including an upper-case
// letter, a lower-case letter, a digit and a special character.
func Password(password string) Errors {
	var errs Errors
	if len(password) < 8 {
		errs = append(errs, FieldError{"password", "password must be at least 8 characters"})
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		errs = append(errs, FieldError{"password",
			"password must contain upper, lower, digit and special characters"})
	}
	return errs
}

// Registration validates a register payload as a whole.
func Registration(username, password string) Errors {
	errs := Username(username)
	return append(errs, Password(password)...)
}
