package recipe

import (
	"regexp"
	"strings"
)

const noInstructions = "No instructions available."

var lineBreak = regexp.MustCompile(`\r?\n`)

// View 單一食譜的完整呈現資料
type View struct {
	RecipeDetail
	Have  []IngredientRef `json:"have"`
	Steps []string        `json:"steps"`
}

// NewView 以食材清單建立食譜呈現資料
func NewView(d RecipeDetail, pantryTerms []string) View {
	have, missing := ClassifyIngredients(d.Ingredients, pantryTerms)
	d.Missing = missing
	d.MissingCount = len(missing)
	return View{
		RecipeDetail: d,
		Have:         have,
		Steps:        SplitSteps(d.Instructions),
	}
}

// SplitSteps 將整段說明依換行切成步驟；沒有可用的行時回傳整段文字作為單一步驟
func SplitSteps(instructions string) []string {
	var steps []string
	for _, line := range lineBreak.Split(instructions, -1) {
		if line = strings.TrimSpace(line); line != "" {
			steps = append(steps, line)
		}
	}
	if len(steps) > 0 {
		return steps
	}
	if instructions == "" {
		return []string{noInstructions}
	}
	return []string{instructions}
}
