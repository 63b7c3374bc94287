package ingredient

import (
	"strings"
	"unicode/utf8"

	"fridgewise/internal/pkg/common"

	"github.com/agnivade/levenshtein"
)

// Weights 評分規則的權重與門檻
type Weights struct {
	SubstringBonus    float64
	ExactMatchBonus   float64
	PluralMatchBonus  float64
	LeadingTermBonus  float64
	PrefixBonus       float64
	CommaPenalty      float64
	LongTailPenalty   float64
	LongTailChars     int
	SingleWordBonus   float64
	ExtraWordPenalty  float64
	SimpleFoodBonus   float64
	RelatedWordBonus  float64
	MatchThreshold    float64
	MaxConfidence     float64
	ConfidenceCeiling float64
}

// DefaultWeights 經驗調校的預設值，修改任一項都需重新驗證整體比對品質
func DefaultWeights() Weights {
	return Weights{
		SubstringBonus:    0.2,
		ExactMatchBonus:   5.0,
		PluralMatchBonus:  5.0,
		LeadingTermBonus:  1.0,
		PrefixBonus:       1.5,
		CommaPenalty:      1.0,
		LongTailPenalty:   1.5,
		LongTailChars:     10,
		SingleWordBonus:   1.0,
		ExtraWordPenalty:  0.8,
		SimpleFoodBonus:   0.3,
		RelatedWordBonus:  0.2,
		MatchThreshold:    0.3,
		MaxConfidence:     0.9,
		ConfidenceCeiling: 0.95,
	}
}

// complexityKeywords 加工或複合食品的描述詞
var complexityKeywords = map[string]struct{}{
	"frozen": {}, "canned": {}, "prepared": {}, "sweetened": {}, "fortified": {},
	"dried": {}, "dehydrated": {}, "cooked": {}, "boiled": {}, "fried": {},
	"roasted": {}, "baked": {}, "breaded": {}, "mix": {}, "sauce": {},
	"juice": {}, "concentrate": {}, "powder": {}, "flavored": {}, "imitation": {},
	"with": {}, "babyfood": {}, "restaurant": {}, "soup": {}, "pickled": {},
}

// Contribution 單一規則對分數的貢獻
type Contribution struct {
	Rule  string  `json:"rule"`
	Delta float64 `json:"delta"`
}

// Match 一個查詢的最佳候選
type Match struct {
	Food       common.ReferenceFood
	Score      float64
	Similarity float64
}

type rule struct {
	name  string
	apply func(w Weights, q, d string) float64
}

// rules 全部套用，順序不影響結果
var rules = []rule{
	{"exact_match", func(w Weights, q, d string) float64 {
		if d == q {
			return w.ExactMatchBonus
		}
		return 0
	}},
	{"plural_match", func(w Weights, q, d string) float64 {
		if isPluralOf(d, q) || isPluralOf(q, d) {
			return w.PluralMatchBonus
		}
		return 0
	}},
	{"leading_term", func(w Weights, q, d string) float64 {
		first := strings.TrimSpace(strings.SplitN(d, ",", 2)[0])
		if fields := strings.Fields(first); len(fields) > 0 && sameRoot(fields[0], q) {
			return w.LeadingTermBonus
		}
		return 0
	}},
	{"prefix", func(w Weights, q, d string) float64 {
		for _, form := range queryForms(q) {
			if strings.HasPrefix(d, form+",") || strings.HasPrefix(d, form+" ") {
				return w.PrefixBonus
			}
		}
		return 0
	}},
	{"comma_penalty", func(w Weights, _, d string) float64 {
		return -w.CommaPenalty * float64(strings.Count(d, ","))
	}},
	{"long_tail", func(w Weights, _, d string) float64 {
		idx := strings.IndexByte(d, ',')
		if idx >= 0 && utf8.RuneCountInString(strings.TrimSpace(d[idx+1:])) > w.LongTailChars {
			return -w.LongTailPenalty
		}
		return 0
	}},
	{"single_word", func(w Weights, _, d string) float64 {
		if !strings.Contains(d, ",") && len(strings.Fields(d)) == 1 {
			return w.SingleWordBonus
		}
		return 0
	}},
	{"extra_words", func(w Weights, _, d string) float64 {
		if strings.Contains(d, ",") {
			return 0
		}
		if n := len(strings.Fields(d)); n > 1 {
			return -w.ExtraWordPenalty * float64(n-1)
		}
		return 0
	}},
	{"simple_food", func(w Weights, _, d string) float64 {
		for _, word := range words(d) {
			if _, ok := complexityKeywords[word]; ok {
				return 0
			}
		}
		return w.SimpleFoodBonus
	}},
	{"related_word", func(w Weights, q, d string) float64 {
		for _, qw := range words(q) {
			for _, dw := range words(d) {
				if sameRoot(qw, dw) {
					return w.RelatedWordBonus
				}
			}
		}
		return 0
	}},
}

// Scorer 計算查詢與候選描述的調整後相似度
type Scorer struct {
	weights Weights
}

// NewScorer 創建評分器
func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Weights 取得目前權重
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Similarity 正規化編輯距離相似度，含子字串加分，上限 1.0
func (s *Scorer) Similarity(query, description string) float64 {
	q, d := normalizeText(query), normalizeText(description)
	longest := utf8.RuneCountInString(q)
	if n := utf8.RuneCountInString(d); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}

	sim := 1 - float64(levenshtein.ComputeDistance(q, d))/float64(longest)
	if q != "" && d != "" && (strings.Contains(d, q) || strings.Contains(q, d)) {
		sim += s.weights.SubstringBonus
	}
	if sim > 1 {
		sim = 1
	}
	return sim
}

// Explain 回傳基礎相似度與每條規則的貢獻
func (s *Scorer) Explain(query, description string) []Contribution {
	q, d := normalizeText(query), normalizeText(description)
	out := make([]Contribution, 0, len(rules)+1)
	out = append(out, Contribution{Rule: "similarity", Delta: s.Similarity(q, d)})
	for _, r := range rules {
		out = append(out, Contribution{Rule: r.name, Delta: r.apply(s.weights, q, d)})
	}
	return out
}

// Score 調整後相似度
func (s *Scorer) Score(query, description string) float64 {
	total := 0.0
	for _, c := range s.Explain(query, description) {
		total += c.Delta
	}
	return total
}

// Best 選出最高分候選；完全相同的描述一律優先，分數相同時取較早者
func (s *Scorer) Best(query string, candidates []common.ReferenceFood) (Match, bool) {
	q := normalizeText(query)
	if q == "" || len(candidates) == 0 {
		return Match{}, false
	}

	var best Match
	found, exact := false, false
	for _, c := range candidates {
		d := normalizeText(c.Description)
		if d == "" {
			continue
		}
		score := s.Score(q, d)
		isExact := d == q

		switch {
		case !found:
		case isExact && !exact:
		case exact && !isExact:
			continue
		case score <= best.Score:
			continue
		}

		best = Match{Food: c, Score: score, Similarity: s.Similarity(q, d)}
		found, exact = true, isExact
	}

	if !found || (!exact && best.Score < s.weights.MatchThreshold) {
		return Match{}, false
	}
	return best, true
}

// Rank 回傳所有通過門檻的候選，依分數遞減
func (s *Scorer) Rank(query string, candidates []common.ReferenceFood) []Match {
	q := normalizeText(query)
	if q == "" {
		return nil
	}

	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		d := normalizeText(c.Description)
		if d == "" {
			continue
		}
		score := s.Score(q, d)
		if d != q && score < s.weights.MatchThreshold {
			continue
		}
		matches = append(matches, Match{Food: c, Score: score, Similarity: s.Similarity(q, d)})
	}

	sortMatches(matches)
	return matches
}

// Confidence 以候選集中最高相關度正規化後乘上基礎相似度
func (s *Scorer) Confidence(m Match, candidates []common.ReferenceFood) float64 {
	relNorm := 1.0
	if m.Food.HasRelevance() {
		maxRel := 0.0
		for _, c := range candidates {
			if c.HasRelevance() && *c.RelevanceScore > maxRel {
				maxRel = *c.RelevanceScore
			}
		}
		if maxRel > 0 {
			relNorm = *m.Food.RelevanceScore / maxRel
		}
	}
	return s.clampConfidence(relNorm * m.Similarity)
}

// SimpleConfidence 直接查詢使用的簡化信心值
func (s *Scorer) SimpleConfidence(m Match) float64 {
	return s.clampConfidence(m.Similarity)
}

func (s *Scorer) clampConfidence(v float64) float64 {
	if v > s.weights.MaxConfidence {
		v = s.weights.MaxConfidence
	}
	return common.Clamp(v, 0, s.weights.ConfidenceCeiling)
}

func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// words 以非字母數字切分
func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r > utf8.RuneSelf)
	})
}

// isPluralOf a 是否為 b 加上 s 或 es
func isPluralOf(a, b string) bool {
	return b != "" && (a == b+"s" || a == b+"es")
}

func sameRoot(a, b string) bool {
	return a == b || isPluralOf(a, b) || isPluralOf(b, a)
}

// queryForms 查詢本身及其單複數形式
func queryForms(q string) []string {
	forms := []string{q, q + "s", q + "es"}
	if strings.HasSuffix(q, "es") && len(q) > 2 {
		forms = append(forms, q[:len(q)-2])
	}
	if strings.HasSuffix(q, "s") && len(q) > 1 {
		forms = append(forms, q[:len(q)-1])
	}
	return forms
}
