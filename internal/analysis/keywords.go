package analysis

import (
	"sort"

	"github.com/KaramelBytes/sheetlens-cli/internal/dataset"
	"github.com/KaramelBytes/sheetlens-cli/internal/utils"
)

const (
	maxKeywords   = 20
	minKeywordLen = 2
)

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "to": {}, "of": {},
	"for": {}, "in": {}, "on": {}, "at": {}, "is": {}, "are": {},
}

// ExtractKeywords counts ASCII words across the string cells of columns and
// returns the 20 most frequent, most frequent first. Ties keep the order in
// which the words were first seen. Stop words and one-character tokens are dropped.
func ExtractKeywords(rows []dataset.Row, columns []string) []KeywordItem {
	counts := make(map[string]int)
	var order []string
	for _, r := range rows {
		for _, col := range columns {
			v := r.Get(col)
			if v.Kind() != dataset.KindString {
				continue
			}
			for _, tok := range utils.Words(v.Raw()) {
				if len(tok) < minKeywordLen {
					continue
				}
				if _, stop := stopWords[tok]; stop {
					continue
				}
				if _, seen := counts[tok]; !seen {
					order = append(order, tok)
				}
				counts[tok]++
			}
		}
	}
	items := make([]KeywordItem, len(order))
	for i, tok := range order {
		items[i] = KeywordItem{Text: tok, Count: counts[tok]}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Count > items[j].Count })
	if len(items) > maxKeywords {
		items = items[:maxKeywords]
	}
	return items
}
