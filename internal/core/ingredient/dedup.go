package ingredient

import (
	"sort"
	"strings"

	"fridgewise/internal/pkg/common"
)

// Dedupe 依標準名稱分組後取代表項，依信心值遞減排序並截斷
// 結果與輸入順序無關，對自身輸出再執行一次結果不變
func Dedupe(items []common.ProcessedIngredient, maxResults int) []common.ProcessedIngredient {
	groups := make(map[string]common.ProcessedIngredient, len(items))
	for _, item := range items {
		key := canonicalKey(item.Name)
		if key == "" {
			continue
		}
		if cur, ok := groups[key]; !ok || preferred(item, cur) {
			groups[key] = item
		}
	}

	out := make([]common.ProcessedIngredient, 0, len(groups))
	for _, item := range groups {
		out = append(out, item)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ReferenceID < out[j].ReferenceID
	})

	if maxResults > 0 && len(out) > maxResults {
		out = out[:maxResults]
	}
	return out
}

// preferred a 是否應取代同組的 b：信心值高者、名稱單字少者、名稱字典序、參考 ID
func preferred(a, b common.ProcessedIngredient) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	aw, bw := len(strings.Fields(a.Name)), len(strings.Fields(b.Name))
	if aw != bw {
		return aw < bw
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ReferenceID < b.ReferenceID
}

func sortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
}
