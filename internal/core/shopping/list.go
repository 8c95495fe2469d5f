package shopping

import (
	"strings"
	"time"

	"pantry-finder/internal/core/recipe"
)

// Item 購物清單項目
type Item struct {
	Name    string `json:"name"`
	Checked bool   `json:"checked"`
}

// List 購物清單
type List struct {
	ID        string    `json:"id"`
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

func itemKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Merge 將缺少的食材加入清單。
// 名稱去除前後空白後以不分大小寫比對，已存在的項目保留原本的拼寫與勾選狀態，新項目未勾選並附加在尾端。
func Merge(items []Item, missing []recipe.IngredientRef) []Item {
	out := make([]Item, 0, len(items)+len(missing))
	seen := make(map[string]bool, len(items)+len(missing))
	for _, it := range items {
		key := itemKey(it.Name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, it)
	}
	for _, m := range missing {
		name := strings.TrimSpace(m.Ingredient)
		key := itemKey(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Item{Name: name})
	}
	return out
}

// Toggle 切換指定項目的勾選狀態，回傳是否找到
func Toggle(items []Item, name string) ([]Item, bool) {
	found := false
	out := make([]Item, len(items))
	for i, it := range items {
		if it.Name == name {
			it.Checked = !it.Checked
			found = true
		}
		out[i] = it
	}
	return out, found
}

// Remove 移除指定項目，回傳是否找到
func Remove(items []Item, name string) ([]Item, bool) {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Name == name {
			continue
		}
		out = append(out, it)
	}
	return out, len(out) != len(items)
}

// Export 以純文字輸出清單，每行一項
func Export(items []Item) string {
	lines := make([]string, len(items))
	for i, it := range items {
		box := "☐"
		if it.Checked {
			box = "☑"
		}
		lines[i] = box + " " + it.Name
	}
	return strings.Join(lines, "\n")
}
