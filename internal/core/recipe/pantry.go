package recipe

import "strings"

// ParsePantry 將逗號分隔的輸入轉為正規化食材清單（小寫、去空白、去重，保留原順序）
func ParsePantry(text string) []string {
	var terms []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(text, ",") {
		term := NormalizeTerm(part)
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		terms = append(terms, term)
	}
	return terms
}

// NormalizeTerms 正規化已切分的食材清單
func NormalizeTerms(raw []string) []string {
	return ParsePantry(strings.Join(raw, ","))
}

// NormalizeTerm 正規化單一食材名稱
func NormalizeTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
