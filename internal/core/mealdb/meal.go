package mealdb

import (
	"encoding/json"
	"fmt"
	"strings"

	"pantry-finder/internal/core/recipe"
	"pantry-finder/internal/pkg/common"
)

// maxIngredientSlots TheMealDB 每筆食譜固定提供 strIngredient1..20
const maxIngredientSlots = 20

// meal TheMealDB 原始紀錄，欄位可能為字串或 null
type meal map[string]interface{}

// mealsEnvelope filter.php 與 lookup.php 的共同回應格式，沒有結果時 meals 為 null
type mealsEnvelope struct {
	Meals []meal `json:"meals"`
}

func decodeMeals(body []byte) ([]meal, error) {
	var env mealsEnvelope
	if err := common.ParseJSONBytes(body, &env); err != nil {
		return nil, err
	}
	return env.Meals, nil
}

// field 取得欄位的字串值，null 或缺少時回傳空字串
func (m meal) field(key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// ingredients 掃描全部 20 格，任何位置的非空食材都會收錄（上游資料可能有空格）
func (m meal) ingredients() []recipe.IngredientRef {
	out := make([]recipe.IngredientRef, 0, maxIngredientSlots)
	for i := 1; i <= maxIngredientSlots; i++ {
		name := strings.TrimSpace(m.field(fmt.Sprintf("strIngredient%d", i)))
		if name == "" {
			continue
		}
		out = append(out, recipe.IngredientRef{
			Ingredient: name,
			Measure:    strings.TrimSpace(m.field(fmt.Sprintf("strMeasure%d", i))),
		})
	}
	return out
}
