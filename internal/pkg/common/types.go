package common

import (
	"fmt"
	"strings"
)

// Category 食材分類
type Category string

const (
	CategoryVegetables Category = "vegetables"
	CategoryFruits     Category = "fruits"
	CategoryDairy      Category = "dairy"
	CategoryMeat       Category = "meat"
	CategoryGrains     Category = "grains"
	CategoryLegumes    Category = "legumes"
	CategoryHerbs      Category = "herbs"
	CategorySpices     Category = "spices"
	CategoryOther      Category = "other"
)

// Categories 所有合法分類，順序固定
var Categories = []Category{
	CategoryVegetables,
	CategoryFruits,
	CategoryDairy,
	CategoryMeat,
	CategoryGrains,
	CategoryLegumes,
	CategoryHerbs,
	CategorySpices,
	CategoryOther,
}

// IsValid 檢查分類是否屬於固定列舉
func (c Category) IsValid() bool {
	for _, cat := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// SourceMatched 由參考資料庫比對而來
const SourceMatched = "matched"

// ReferenceFood 參考食物資料庫的候選紀錄（外部擁有，不可變）
type ReferenceFood struct {
	ID             string   `json:"id"`
	Description    string   `json:"description"`
	CategoryHint   string   `json:"category_hint,omitempty"`
	RelevanceScore *float64 `json:"relevance_score,omitempty"`
}

// HasRelevance 是否帶有相關度分數
func (f ReferenceFood) HasRelevance() bool {
	return f.RelevanceScore != nil && *f.RelevanceScore > 0
}

// ProcessedIngredient 管線輸出的食材
type ProcessedIngredient struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Confidence  float64  `json:"confidence"`
	Source      string   `json:"source"`
	ReferenceID string   `json:"reference_id"`
}

// IngredientListResponse 食材列表響應
type IngredientListResponse struct {
	Ingredients []ProcessedIngredient `json:"ingredients"`
	Count       int                   `json:"count"`
}

// NewIngredientListResponse 建立響應，nil 轉為空陣列
func NewIngredientListResponse(items []ProcessedIngredient) IngredientListResponse {
	if items == nil {
		items = []ProcessedIngredient{}
	}
	return IngredientListResponse{Ingredients: items, Count: len(items)}
}

// FormatIngredients 格式化食材列表
func FormatIngredients(ingredients []ProcessedIngredient) string {
	var sb strings.Builder
	for _, ing := range ingredients {
		sb.WriteString(fmt.Sprintf("- %s (%s): %.2f [%s]\n",
			ing.Name, ing.Category, ing.Confidence, ing.ReferenceID))
	}
	return sb.String()
}

// Message 消息結構
type Message struct {
	Role    string    `json:"role"`
	Content []Content `json:"content"`
}

// Content 內容結構
type Content struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL 圖片 URL 結構
type ImageURL struct {
	URL string `json:"url"`
}
