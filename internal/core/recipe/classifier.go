package recipe

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// 篩選選項值
const (
	DietVegan            = "Vegan"
	DietVegetarian       = "Vegetarian"
	DietKeto             = "Keto"
	DietGlutenFree       = "Gluten-Free"
	CuisineItalian       = "Italian"
	CuisineMexican       = "Mexican"
	CuisineAsian         = "Asian"
	CuisineMediterranean = "Mediterranean"
	TimeUnder20          = "< 20 min"
	TimeUnder45          = "< 45 min"
	TimeSlowCook         = "Slow Cook"
)

// 篩選選項，依顯示順序
var (
	DietOptions    = []string{DietVegan, DietVegetarian, DietKeto, DietGlutenFree}
	CuisineOptions = []string{CuisineItalian, CuisineMexican, CuisineAsian, CuisineMediterranean}
	TimeOptions    = []string{TimeUnder20, TimeUnder45, TimeSlowCook}
)

// 關鍵字表（TheMealDB 缺乏結構化營養資訊，只能以食材名稱推斷）
var (
	meatKeywords = []string{
		"beef", "pork", "chicken", "lamb", "fish", "salmon", "tuna", "shrimp", "prawn", "anchovy",
		"bacon", "ham", "prosciutto", "sausage", "turkey", "duck", "veal", "mutton", "chorizo",
		"oyster", "crab",
	}
	dairyKeywords = []string{
		"milk", "cheese", "butter", "cream", "yogurt", "yoghurt", "ghee", "paneer", "mascarpone",
		"mozzarella", "parmesan", "cheddar", "buttermilk", "condensed milk", "evaporated milk",
		"sour cream", "cream cheese",
	}
	eggKeywords = []string{"egg", "eggs", "yolk", "egg yolk", "egg white", "mayonnaise"}

	glutenKeywords = []string{
		"flour", "wheat", "breadcrumbs", "bread", "pasta", "noodle", "noodles", "wrap", "tortilla",
		"bun", "semolina", "farina", "couscous", "bulgur", "cracker", "biscuit", "cake", "beer",
	}
	ketoHighCarbKeywords = []string{
		"rice", "sugar", "honey", "maple syrup", "potato", "potatoes", "sweet potato", "yam", "corn",
		"tortilla", "bread", "pasta", "noodle", "noodles",
	}

	cuisineGroups = map[string]map[string]bool{
		CuisineItalian: setOf("Italian"),
		CuisineMexican: setOf("Mexican"),
		CuisineAsian: setOf("Chinese", "Japanese", "Thai", "Malaysian", "Vietnamese", "Filipino",
			"Korean", "Indian"),
		CuisineMediterranean: setOf("Greek", "Turkish", "Moroccan", "Egyptian", "Tunisian", "Spanish",
			"Lebanese", "Croatian", "Algerian"),
	}

	quickCategoryKeywords = []string{"salad", "breakfast", "snack", "side"}
	slowTitleKeywords     = []string{"stew", "curry", "chili", "braise"}

	quickStepsPattern = regexp.MustCompile(`(?i)10-20\s?min|15\s?min|quick`)
	slowStepsPattern  = regexp.MustCompile(`(?i)(slow cook|slow-cooker|overnight|braise|hours|4 hours|3 hours|2 hours)`)
)

const (
	quickMaxIngredients  = 8
	quickMaxInstructions = 900 // 字元數
)

func setOf(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

func containsAny(keywords []string, names []string) bool {
	for _, name := range names {
		for _, k := range keywords {
			if strings.Contains(name, k) {
				return true
			}
		}
	}
	return false
}

func lowerIngredientNames(r *RecipeDetail) []string {
	names := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if ing.Ingredient != "" {
			names = append(names, strings.ToLower(ing.Ingredient))
		}
	}
	return names
}

func selected(selection []string, value string) bool {
	for _, s := range selection {
		if s == value {
			return true
		}
	}
	return false
}

// PassesDiet 食譜必須符合每一個選擇的飲食條件；未知的條件忽略
func PassesDiet(r *RecipeDetail, diet []string) bool {
	if len(diet) == 0 {
		return true
	}
	names := lowerIngredientNames(r)

	if selected(diet, DietVegan) {
		if containsAny(meatKeywords, names) || containsAny(dairyKeywords, names) ||
			containsAny(eggKeywords, names) || hasExactName(names, "honey") {
			return false
		}
	}
	if selected(diet, DietVegetarian) && containsAny(meatKeywords, names) {
		return false
	}
	if selected(diet, DietKeto) && containsAny(ketoHighCarbKeywords, names) {
		return false
	}
	if selected(diet, DietGlutenFree) && containsAny(glutenKeywords, names) {
		return false
	}
	return true
}

func hasExactName(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}

// PassesCuisine 食譜地區完全符合任一選擇的菜系群組即通過。
// 沒有定義群組的選項視為字面上的地區名稱；地區為空時一律不通過。
func PassesCuisine(r *RecipeDetail, cuisine []string) bool {
	if len(cuisine) == 0 {
		return true
	}
	area := strings.TrimSpace(r.Area)
	if area == "" {
		return false
	}
	for _, c := range cuisine {
		if group, ok := cuisineGroups[c]; ok {
			if group[area] {
				return true
			}
			continue
		}
		if area == c {
			return true
		}
	}
	return false
}

// IsQuick 推斷食譜是否能快速完成
func IsQuick(r *RecipeDetail) bool {
	category := strings.ToLower(r.Category)
	for _, k := range quickCategoryKeywords {
		if strings.Contains(category, k) {
			return true
		}
	}
	steps := strings.ToLower(r.Instructions)
	return len(r.Ingredients) <= quickMaxIngredients ||
		utf8.RuneCountInString(steps) <= quickMaxInstructions ||
		quickStepsPattern.MatchString(steps)
}

// IsSlow 推斷食譜是否需要長時間烹煮
func IsSlow(r *RecipeDetail) bool {
	if slowStepsPattern.MatchString(r.Instructions) {
		return true
	}
	title := strings.ToLower(r.Title)
	for _, k := range slowTitleKeywords {
		if strings.Contains(title, k) {
			return true
		}
	}
	return false
}

// PassesTime 三個時間條件互相獨立檢查，並非互斥的分級
func PassesTime(r *RecipeDetail, times []string) bool {
	if len(times) == 0 {
		return true
	}
	if selected(times, TimeUnder20) && !IsQuick(r) {
		return false
	}
	if selected(times, TimeUnder45) && IsSlow(r) {
		return false
	}
	if selected(times, TimeSlowCook) && !IsSlow(r) {
		return false
	}
	return true
}

// Passes 食譜須同時通過飲食、菜系與時間三組條件
func Passes(r *RecipeDetail, f Filters) bool {
	return PassesDiet(r, f.Diet) && PassesCuisine(r, f.Cuisine) && PassesTime(r, f.Time)
}

// ApplyFilters 回傳通過篩選的食譜，保留原始順序
func ApplyFilters(recipes []RecipeDetail, f Filters) []RecipeDetail {
	if f.IsEmpty() && recipes != nil {
		return recipes
	}
	out := make([]RecipeDetail, 0, len(recipes))
	for i := range recipes {
		if Passes(&recipes[i], f) {
			out = append(out, recipes[i])
		}
	}
	return out
}
