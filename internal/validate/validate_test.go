package validate

import (
	"testing"

	"pizzeria/internal/model"
)

func ing(name, typ string) model.Ingredient {
	return model.Ingredient{Name: name, Type: typ}
}

func TestPizza(t *testing.T) {
	three := []model.Ingredient{
		ing("tomato", model.IngredientTypeVegetable),
		ing("mozzarella", model.IngredientTypeDairy),
		ing("basil", model.IngredientTypeVegetable),
	}
	cases := []struct {
		name    string
		in      PizzaInput
		wantErr bool
	}{
		{"valid margherita", PizzaInput{Name: "Margherita", Price: 9.5, Vegetarian: true, Ingredients: three}, false},
		{"zero price", PizzaInput{Name: "Margherita", Price: 0, Ingredients: three}, true},
		{"negative price", PizzaInput{Name: "Margherita", Price: -1, Ingredients: three}, true},
		{"two ingredients", PizzaInput{Name: "Duo", Price: 8, Ingredients: three[:2]}, true},
		{"empty name", PizzaInput{Name: "  ", Price: 8, Ingredients: three}, true},
		{"vegetarian with meat", PizzaInput{Name: "Ham trap", Price: 11, Vegetarian: true,
			Ingredients: []model.Ingredient{three[0], three[1], ing("ham", model.IngredientTypeMeat)}}, true},
		{"meat ok when not vegetarian", PizzaInput{Name: "Prosciutto", Price: 11,
			Ingredients: []model.Ingredient{three[0], three[1], ing("ham", model.IngredientTypeMeat)}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := Pizza(tc.in)
			if tc.wantErr && len(errs) == 0 {
				t.Fatal("expected validation errors, got none")
			}
			if !tc.wantErr && len(errs) > 0 {
				t.Fatalf("unexpected errors: %v", errs.Detail())
			}
		})
	}
}

func TestIngredient(t *testing.T) {
	if errs := Ingredient("ham", "meat", "gluten, lactose"); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs.Detail())
	}
	if errs := Ingredient("ham", "mineral", ""); len(errs) == 0 {
		t.Fatal("bad type accepted")
	}
	if errs := Ingredient("ham", "meat", "gluten,,lactose"); len(errs) == 0 {
		t.Fatal("malformed allergen list accepted")
	}
	if errs := Ingredient("", "meat", ""); len(errs) == 0 {
		t.Fatal("empty name accepted")
	}
	// Empty allergens means none; always fine.
	if errs := Ingredient("tomato", "vegetable", ""); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs.Detail())
	}
}

func TestUsername(t *testing.T) {
	cases := []struct {
		username string
		ok       bool
	}{
		{"mario_rossi", true},
		{"User1234", true},
		{"ab", false},                      // below 8 chars
		{"thisusernameiswaytoolong", false}, // above 20 chars
		{"bad name!", false},               // forbidden charset
	}
	for _, tc := range cases {
		errs := Username(tc.username)
		if tc.ok && len(errs) > 0 {
			t.Fatalf("%q: unexpected errors: %v", tc.username, errs.Detail())
		}
		if !tc.ok && len(errs) == 0 {
			t.Fatalf("%q: expected errors, got none", tc.username)
		}
	}
}

func TestPassword(t *testing.T) {
	cases := []struct {
		password string
		ok       bool
	}{
		{"Password1!", true},
		{"password1!", false}, // no upper
		{"PASSWORD1!", false}, // no lower
		{"Password!!", false}, // no digit
		{"Password11", false}, // no special
		{"Pw1!", false},       // too short
	}
	for _, tc := range cases {
		errs := Password(tc.password)
		if tc.ok && len(errs) > 0 {
			t.Fatalf("%q: unexpected errors: %v", tc.password, errs.Detail())
		}
		if !tc.ok && len(errs) == 0 {
			t.Fatalf("%q: expected errors, got none", tc.password)
		}
	}
}

func TestRegistrationCombines(t *testing.T) {
	errs := Registration("ab", "weak")
	if len(errs) < 2 {
		t.Fatalf("expected username and password errors, got %v", errs.Detail())
	}
}
