package ingredient

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// GenericTerms 過於籠統的標籤，僅整個標籤相同時拒絕
var GenericTerms = []string{
	"food", "foods", "dish", "dishes", "meal", "ingredient", "ingredients",
	"produce", "vegetable", "vegetables", "fruit", "fruits", "cuisine", "recipe",
	"snack", "natural foods", "whole food", "local food", "still life", "close-up",
}

// DefaultDenylist 非食材物品，整個標籤或最後一個單字（中心詞）符合即拒絕
var DefaultDenylist = []string{
	"table", "plate", "bowl", "kitchen", "container", "bottle", "cup", "jar",
	"tableware", "utensil", "cutlery", "fork", "knife", "spoon", "tray", "box",
	"gadget", "device", "phone", "electronics", "appliance", "refrigerator",
	"fridge", "shelf", "furniture", "person", "hand", "label", "text", "logo",
	"package", "packaging", "plastic", "bag", "wrapper",
}

// nonLatinScripts 拒絕的文字系統
var nonLatinScripts = []*unicode.RangeTable{
	unicode.Han,
	unicode.Hiragana,
	unicode.Katakana,
	unicode.Hangul,
	unicode.Arabic,
	unicode.Cyrillic,
}

// LabelFilter 正規化並過濾辨識標籤
type LabelFilter struct {
	generic  map[string]struct{}
	denylist map[string]struct{}
}

// NewLabelFilter 以預設清單加上額外詞彙建立過濾器
func NewLabelFilter(extra ...string) *LabelFilter {
	f := &LabelFilter{
		generic:  make(map[string]struct{}, len(GenericTerms)),
		denylist: make(map[string]struct{}, len(DefaultDenylist)+len(extra)),
	}
	for _, w := range GenericTerms {
		f.generic[w] = struct{}{}
	}
	for _, w := range DefaultDenylist {
		f.denylist[w] = struct{}{}
	}
	for _, w := range extra {
		if w = NormalizeLabel(w); w != "" {
			f.denylist[w] = struct{}{}
		}
	}
	return f
}

// Filter 回傳依首次出現順序排列、不重複的查詢字串
func (f *LabelFilter) Filter(labels []string) []string {
	out, _ := f.Apply(labels)
	return out
}

// Apply 同 Filter，另回傳被拒絕的標籤數；重複標籤不計入拒絕
func (f *LabelFilter) Apply(labels []string) ([]string, int) {
	out := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	rejected := 0

	for _, raw := range labels {
		label := NormalizeLabel(raw)
		if label == "" || containsNonLatin(label) || f.denied(label) {
			rejected++
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out, rejected
}

// denied 整個標籤或其中心詞在清單中；"table salt" 保留，"random gadget" 拒絕
func (f *LabelFilter) denied(label string) bool {
	if _, ok := f.generic[label]; ok {
		return true
	}
	if _, ok := f.denylist[label]; ok {
		return true
	}
	if fields := strings.Fields(label); len(fields) > 1 {
		if _, ok := f.denylist[fields[len(fields)-1]]; ok {
			return true
		}
	}
	return false
}

// NormalizeLabel NFKC 正規化、去除空白並轉小寫
func NormalizeLabel(s string) string {
	s = norm.NFKC.String(s)
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func containsNonLatin(s string) bool {
	for _, r := range s {
		if unicode.IsOneOf(nonLatinScripts, r) {
			return true
		}
	}
	return false
}
