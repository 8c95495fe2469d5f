package recipe

// IngredientRef 食譜所需的一項食材及份量
type IngredientRef struct {
	Ingredient string `json:"ingredient"`
	Measure    string `json:"measure"`
}

// RecipeSummary 依食材查詢得到的輕量食譜
type RecipeSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Thumb string `json:"thumb"`
}

// RecipeDetail 完整食譜。
// Missing 與 MissingCount 是針對特定食材清單計算的衍生欄位，清單改變時必須重算。
type RecipeDetail struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Thumb        string          `json:"thumb"`
	Area         string          `json:"area"`
	Category     string          `json:"category"`
	SourceURL    string          `json:"sourceUrl"`
	Instructions string          `json:"instructions"`
	Ingredients  []IngredientRef `json:"ingredients"`
	MissingCount int             `json:"missingCount"`
	Missing      []IngredientRef `json:"missing"`
}

// Filters 使用者選擇的篩選條件，各組為空時一律通過
type Filters struct {
	Diet    []string `json:"diet,omitempty"`
	Cuisine []string `json:"cuisine,omitempty"`
	Time    []string `json:"time,omitempty"`
}

// IsEmpty 檢查是否未選擇任何篩選條件
func (f Filters) IsEmpty() bool {
	return len(f.Diet) == 0 && len(f.Cuisine) == 0 && len(f.Time) == 0
}
