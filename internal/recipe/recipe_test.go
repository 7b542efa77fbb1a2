package recipe

import (
	"encoding/json"
	"testing"

	"github.com/five82/shaker/internal/cocktaildb"
)

func TestConvertIngredient(t *testing.T) {
	tests := []struct {
		line string
		to   Unit
		want string
	}{
		{"1 1/2 oz Tequila", UnitML, "45 ml Tequila"},
		{"1/2 oz Triple sec", UnitML, "15 ml Triple sec"},
		{"1oz Gin", UnitML, "30 ml Gin"},
		{"2 cl Syrup", UnitML, "20 ml Syrup"},
		{"1,5 oz Rum", UnitML, "45 ml Rum"},
		{"45 ml Tequila", UnitML, "45 ml Tequila"},
		{"50 ml Vodka", UnitOz, "1 3/4 oz Vodka"},
		{"30 ml Coffee liqueur", UnitOz, "1 oz Coffee liqueur"},
		{"5 ml Bitters", UnitOz, "1/4 oz Bitters"},
		{"1 1/2 oz Bourbon", UnitOz, "1 1/2 oz Bourbon"},
		{"2-3 oz Light rum", UnitML, "2-3 oz Light rum"},
		{"Juice of 1/2 Lemon", UnitML, "Juice of 1/2 Lemon"},
		{"Salt", UnitOz, "Salt"},
		{"6 Mint leaves", UnitML, "6 Mint leaves"},
	}
	for _, tt := range tests {
		if got := ConvertIngredient(tt.line, tt.to); got != tt.want {
			t.Fatalf("ConvertIngredient(%q, %s) = %q, want %q", tt.line, tt.to, got, tt.want)
		}
	}
}

func TestParseUnit(t *testing.T) {
	for in, want := range map[string]Unit{"": UnitML, "ML": UnitML, " oz ": UnitOz} {
		got, err := ParseUnit(in)
		if err != nil {
			t.Fatalf("ParseUnit(%q) returned error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseUnit(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseUnit("cups"); err == nil {
		t.Fatal("expected error for unknown unit")
	}
}

func TestRecipe_JSONKeysAndTimer(t *testing.T) {
	payload := `{"name":"Mojito","ingredients":["Mint"],"description":"Muddle.","timerSeconds":30,"imageUrl":"mojito.jpg"}`
	var r Recipe
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.Name != "Mojito" || r.ImageURL != "mojito.jpg" || r.Timer() != 30 || !r.HasTimer() {
		t.Fatalf("decoded = %#v", r)
	}

	var noTimer Recipe
	if err := json.Unmarshal([]byte(`{"name":"Water","ingredients":[],"description":""}`), &noTimer); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if noTimer.TimerSeconds != nil || noTimer.Timer() != 0 || noTimer.HasTimer() {
		t.Fatalf("absent timer decoded as %#v", noTimer.TimerSeconds)
	}

	out, err := json.Marshal(Recipe{Name: "Negroni", TimerSeconds: Seconds(0)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"name":"Negroni","ingredients":null,"description":"","timerSeconds":0}`
	if string(out) != want {
		t.Fatalf("marshal = %s, want %s", out, want)
	}
}

func TestRecipe_CloneIsDeep(t *testing.T) {
	r := Recipe{Name: "Mojito", Ingredients: []string{"Mint"}, TimerSeconds: Seconds(30)}
	c := r.Clone()
	c.Ingredients[0] = "Basil"
	*c.TimerSeconds = 5
	if r.Ingredients[0] != "Mint" || *r.TimerSeconds != 30 {
		t.Fatalf("Clone shares state: %#v", r)
	}
}

func TestFromDrink(t *testing.T) {
	d := cocktaildb.Drink{
		Name:         " Mojito ",
		Alcoholic:    "Alcoholic",
		Instructions: "Muddle. ",
		Thumb:        "https://example.com/m.jpg",
		Parts:        []cocktaildb.Part{{Measure: "2 oz", Ingredient: "Rum"}},
	}
	r := FromDrink(d)
	if r.Name != "Mojito" || r.Description != "Muddle." || r.ImageURL != "https://example.com/m.jpg" {
		t.Fatalf("FromDrink = %#v", r)
	}
	if !r.IsAlcoholic() || len(r.Ingredients) != 1 || r.Ingredients[0] != "2 oz Rum" {
		t.Fatalf("FromDrink = %#v", r)
	}
}

func TestFallback_IsValid(t *testing.T) {
	recipes, err := Fallback()
	if err != nil {
		t.Fatalf("Fallback returned error: %v", err)
	}
	if len(recipes) == 0 {
		t.Fatal("bundled list is empty")
	}
	seen := map[string]bool{}
	for _, r := range recipes {
		if r.Name == "" || len(r.Ingredients) == 0 || r.Description == "" {
			t.Fatalf("incomplete bundled recipe %#v", r)
		}
		if seen[r.Name] {
			t.Fatalf("duplicate bundled recipe %q", r.Name)
		}
		seen[r.Name] = true
	}
}
