package recipe

import "strings"

// ClassifyIngredients 將食材分為已有與缺少兩組。
// 只要任一食材名稱（不分大小寫）包含某個 pantry term 即視為已有，
// 例如 "egg" 同時符合 "egg yolk" 與 "eggplant"。兩組都保留原始順序。
func ClassifyIngredients(ingredients []IngredientRef, pantryTerms []string) (have, missing []IngredientRef) {
	terms := make([]string, 0, len(pantryTerms))
	for _, t := range pantryTerms {
		if t = NormalizeTerm(t); t != "" {
			terms = append(terms, t)
		}
	}

	have = make([]IngredientRef, 0, len(ingredients))
	missing = make([]IngredientRef, 0, len(ingredients))
	for _, ing := range ingredients {
		if hasAnyTerm(strings.ToLower(ing.Ingredient), terms) {
			have = append(have, ing)
		} else {
			missing = append(missing, ing)
		}
	}
	return have, missing
}

// ApplyPantry 依食材清單重算 Missing 與 MissingCount
func ApplyPantry(d *RecipeDetail, pantryTerms []string) {
	_, missing := ClassifyIngredients(d.Ingredients, pantryTerms)
	d.Missing = missing
	d.MissingCount = len(missing)
}

func hasAnyTerm(name string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(name, t) {
			return true
		}
	}
	return false
}
