package recipe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPassesDiet(t *testing.T) {
	tests := []struct {
		name        string
		ingredients []string
		diet        []string
		want        bool
	}{
		{"no selection", []string{"Beef"}, nil, true},
		{"vegan rejects meat", []string{"Chicken Thighs", "Rice"}, []string{DietVegan}, false},
		{"vegan rejects dairy", []string{"Butter", "Flour"}, []string{DietVegan}, false},
		{"vegan rejects egg", []string{"Egg Yolk"}, []string{DietVegan}, false},
		{"vegan rejects honey", []string{"Honey", "Oats"}, []string{DietVegan}, false},
		{"vegan allows plants", []string{"Chickpeas", "Tahini", "Lemon"}, []string{DietVegan}, true},
		{"vegetarian allows dairy", []string{"Mozzarella", "Tomato"}, []string{DietVegetarian}, true},
		{"vegetarian rejects fish", []string{"Salmon"}, []string{DietVegetarian}, false},
		{"keto rejects rice", []string{"Basmati Rice"}, []string{DietKeto}, false},
		{"keto allows meat", []string{"Ribeye", "Butter"}, []string{DietKeto}, true},
		{"gluten-free rejects flour", []string{"Plain Flour"}, []string{DietGlutenFree}, false},
		{"gluten-free allows rice", []string{"Rice"}, []string{DietGlutenFree}, true},
		{"conjunction requires all", []string{"Rice", "Tofu"}, []string{DietVegan, DietKeto}, false},
		{"conjunction passes", []string{"Tofu", "Spinach"}, []string{DietVegan, DietKeto, DietGlutenFree}, true},
		{"unknown diet ignored", []string{"Beef"}, []string{"Paleo"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := detail("1", tt.ingredients...)
			assert.Equal(t, tt.want, PassesDiet(&r, tt.diet))
		})
	}
}

func TestPassesCuisine(t *testing.T) {
	tests := []struct {
		name    string
		area    string
		cuisine []string
		want    bool
	}{
		{"no selection", "French", nil, true},
		{"asian group includes thai", "Thai", []string{CuisineAsian}, true},
		{"asian group excludes french", "French", []string{CuisineAsian}, false},
		{"any selected group", "Greek", []string{CuisineItalian, CuisineMediterranean}, true},
		{"empty area fails", "", []string{CuisineItalian}, false},
		{"literal area", "British", []string{"British"}, true},
		{"area match is exact", "italian", []string{CuisineItalian}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := RecipeDetail{Area: tt.area}
			assert.Equal(t, tt.want, PassesCuisine(&r, tt.cuisine))
		})
	}
}

func TestTimeHeuristics(t *testing.T) {
	long := strings.Repeat("Stir the pot and keep tasting. ", 40)
	many := refs("a", "b", "c", "d", "e", "f", "g", "h", "i", "j")

	stew := RecipeDetail{Title: "Beef Stew", Ingredients: many, Instructions: long}
	assert.True(t, IsSlow(&stew))
	assert.False(t, IsQuick(&stew))
	assert.True(t, PassesTime(&stew, []string{TimeSlowCook}))
	assert.False(t, PassesTime(&stew, []string{TimeUnder45}))
	assert.False(t, PassesTime(&stew, []string{TimeUnder20}))

	salad := RecipeDetail{Title: "Greek Salad", Category: "Side", Ingredients: many, Instructions: long}
	assert.True(t, IsQuick(&salad))
	assert.False(t, IsSlow(&salad))
	assert.True(t, PassesTime(&salad, []string{TimeUnder20, TimeUnder45}))
	assert.False(t, PassesTime(&salad, []string{TimeSlowCook}))

	overnight := RecipeDetail{Title: "Oats", Ingredients: refs("Oats"), Instructions: "Soak overnight."}
	assert.True(t, IsSlow(&overnight))
	// 快速與慢煮互相獨立判斷
	assert.True(t, IsQuick(&overnight))

	short := RecipeDetail{Title: "Toast", Ingredients: many, Instructions: long + " Ready in 15 min."}
	assert.True(t, IsQuick(&short))

	assert.True(t, PassesTime(&stew, nil))
	assert.True(t, PassesTime(&stew, []string{"whenever"}))
}

func TestIsQuickCountsCharacters(t *testing.T) {
	nine := refs("a", "b", "c", "d", "e", "f", "g", "h", "i")

	// 600 個字元、1200 位元組
	accented := RecipeDetail{Title: "Crème", Category: "Dessert", Ingredients: nine, Instructions: strings.Repeat("é", 600)}
	assert.True(t, IsQuick(&accented))
	assert.True(t, PassesTime(&accented, []string{TimeUnder20}))

	cjk := RecipeDetail{Title: "Dessert", Category: "Dessert", Ingredients: nine, Instructions: strings.Repeat("煮", 900)}
	assert.True(t, IsQuick(&cjk))

	cjk.Instructions += "煮"
	assert.False(t, IsQuick(&cjk))
}

func TestApplyFilters(t *testing.T) {
	recipes := []RecipeDetail{
		{ID: "1", Area: "Thai", Title: "Green Curry", Ingredients: refs("Chicken", "Coconut Milk")},
		{ID: "2", Area: "Japanese", Title: "Miso Soup", Ingredients: refs("Tofu", "Miso")},
		{ID: "3", Area: "Italian", Title: "Pasta", Ingredients: refs("Pasta", "Tomato")},
		{ID: "4", Area: "Chinese", Title: "Mapo Tofu", Ingredients: refs("Tofu", "Chili")},
	}

	got := ApplyFilters(recipes, Filters{Cuisine: []string{CuisineAsian}, Diet: []string{DietVegan}})
	assert.Equal(t, []string{"2", "4"}, detailIDs(got))

	assert.Equal(t, []string{"1", "2", "3", "4"}, detailIDs(ApplyFilters(recipes, Filters{})))
	assert.Empty(t, ApplyFilters(recipes, Filters{Cuisine: []string{CuisineMexican}}))
	assert.True(t, Filters{}.IsEmpty())
}
