package ingredient

import (
	"strings"

	"fridgewise/internal/pkg/common"
)

// Categorize 依關鍵字規則將參考描述對應到固定分類
// 順序：標準名稱完全比對、描述關鍵字、資料庫分類提示，皆不符則為 other
func Categorize(description, hint string) common.Category {
	name := canonicalKey(CanonicalName(description))
	if name == "" {
		return common.CategoryOther
	}

	// Phase 1: exact match
	if cat, ok := exactCategories[name]; ok {
		return cat
	}

	// Phase 2: keyword match (ordered longer/more-specific first)
	text := padWords(description)
	for _, entry := range keywordCategories {
		if containsTerm(text, entry.keyword) {
			return entry.category
		}
	}

	// Phase 3: category hint from the reference database
	h := strings.ToLower(hint)
	for _, entry := range hintCategories {
		if strings.Contains(h, entry.keyword) {
			if entry.category == common.CategorySpices && containsAny(text, herbWords) {
				return common.CategoryHerbs
			}
			return entry.category
		}
	}

	return common.CategoryOther
}

type keywordEntry struct {
	keyword  string
	category common.Category
}

var exactCategories = map[string]common.Category{
	"tomato":    common.CategoryVegetables,
	"tomatoes":  common.CategoryVegetables,
	"potato":    common.CategoryVegetables,
	"potatoes":  common.CategoryVegetables,
	"onion":     common.CategoryVegetables,
	"onions":    common.CategoryVegetables,
	"garlic":    common.CategoryVegetables,
	"ginger":    common.CategoryVegetables,
	"avocado":   common.CategoryFruits,
	"avocados":  common.CategoryFruits,
	"olive":     common.CategoryFruits,
	"olives":    common.CategoryFruits,
	"egg":       common.CategoryDairy,
	"eggs":      common.CategoryDairy,
	"egg white": common.CategoryDairy,
	"egg yolk":  common.CategoryDairy,
	"rice":      common.CategoryGrains,
	"peanut":    common.CategoryLegumes,
	"peanuts":   common.CategoryLegumes,
	"salt":      common.CategorySpices,
	"pepper":    common.CategoryVegetables,
	"peppers":   common.CategoryVegetables,
}

var keywordCategories = []keywordEntry{
	// 易混淆的複合詞
	{"sweet potato", common.CategoryVegetables},
	{"eggplant", common.CategoryVegetables},
	{"green bean", common.CategoryVegetables},
	{"snap bean", common.CategoryVegetables},
	{"beans snap", common.CategoryVegetables},
	{"peanut butter", common.CategoryLegumes},
	{"coconut milk", common.CategoryFruits},
	{"black pepper", common.CategorySpices},
	{"white pepper", common.CategorySpices},
	{"chili powder", common.CategorySpices},
	{"garlic powder", common.CategorySpices},
	{"onion powder", common.CategorySpices},
	{"ground ginger", common.CategorySpices},
	{"bay leaf", common.CategoryHerbs},
	{"pineapple", common.CategoryFruits},

	// Herbs
	{"basil", common.CategoryHerbs},
	{"parsley", common.CategoryHerbs},
	{"cilantro", common.CategoryHerbs},
	{"coriander leaf", common.CategoryHerbs},
	{"mint", common.CategoryHerbs},
	{"spearmint", common.CategoryHerbs},
	{"rosemary", common.CategoryHerbs},
	{"thyme", common.CategoryHerbs},
	{"oregano", common.CategoryHerbs},
	{"dill", common.CategoryHerbs},
	{"sage", common.CategoryHerbs},
	{"chive", common.CategoryHerbs},
	{"tarragon", common.CategoryHerbs},
	{"lemongrass", common.CategoryHerbs},

	// Spices
	{"cinnamon", common.CategorySpices},
	{"cumin", common.CategorySpices},
	{"paprika", common.CategorySpices},
	{"turmeric", common.CategorySpices},
	{"nutmeg", common.CategorySpices},
	{"clove", common.CategorySpices},
	{"cardamom", common.CategorySpices},
	{"saffron", common.CategorySpices},
	{"peppercorn", common.CategorySpices},
	{"vanilla", common.CategorySpices},
	{"curry", common.CategorySpices},
	{"coriander seed", common.CategorySpices},
	{"mustard seed", common.CategorySpices},
	{"allspice", common.CategorySpices},
	{"anise", common.CategorySpices},
	{"spice", common.CategorySpices},

	// Legumes
	{"chickpea", common.CategoryLegumes},
	{"lentil", common.CategoryLegumes},
	{"bean", common.CategoryLegumes},
	{"pea", common.CategoryLegumes},
	{"soybean", common.CategoryLegumes},
	{"tofu", common.CategoryLegumes},
	{"tempeh", common.CategoryLegumes},
	{"edamame", common.CategoryLegumes},
	{"hummus", common.CategoryLegumes},

	// Dairy
	{"milk", common.CategoryDairy},
	{"cheese", common.CategoryDairy},
	{"butter", common.CategoryDairy},
	{"yogurt", common.CategoryDairy},
	{"cream", common.CategoryDairy},
	{"kefir", common.CategoryDairy},
	{"ghee", common.CategoryDairy},
	{"egg", common.CategoryDairy},

	// Meat & seafood
	{"chicken", common.CategoryMeat},
	{"beef", common.CategoryMeat},
	{"pork", common.CategoryMeat},
	{"turkey", common.CategoryMeat},
	{"lamb", common.CategoryMeat},
	{"bacon", common.CategoryMeat},
	{"sausage", common.CategoryMeat},
	{"ham", common.CategoryMeat},
	{"veal", common.CategoryMeat},
	{"duck", common.CategoryMeat},
	{"salmon", common.CategoryMeat},
	{"tuna", common.CategoryMeat},
	{"shrimp", common.CategoryMeat},
	{"crab", common.CategoryMeat},
	{"lobster", common.CategoryMeat},
	{"cod", common.CategoryMeat},
	{"tilapia", common.CategoryMeat},
	{"fish", common.CategoryMeat},

	// Grains
	{"rice", common.CategoryGrains},
	{"wheat", common.CategoryGrains},
	{"flour", common.CategoryGrains},
	{"oat", common.CategoryGrains},
	{"barley", common.CategoryGrains},
	{"quinoa", common.CategoryGrains},
	{"corn meal", common.CategoryGrains},
	{"cornmeal", common.CategoryGrains},
	{"pasta", common.CategoryGrains},
	{"noodle", common.CategoryGrains},
	{"spaghetti", common.CategoryGrains},
	{"bread", common.CategoryGrains},
	{"tortilla", common.CategoryGrains},
	{"couscous", common.CategoryGrains},
	{"rye", common.CategoryGrains},
	{"millet", common.CategoryGrains},

	// Fruits
	{"apple", common.CategoryFruits},
	{"banana", common.CategoryFruits},
	{"orange", common.CategoryFruits},
	{"lemon", common.CategoryFruits},
	{"lime", common.CategoryFruits},
	{"grape", common.CategoryFruits},
	{"strawberry", common.CategoryFruits},
	{"strawberries", common.CategoryFruits},
	{"blueberry", common.CategoryFruits},
	{"blueberries", common.CategoryFruits},
	{"raspberry", common.CategoryFruits},
	{"raspberries", common.CategoryFruits},
	{"cherry", common.CategoryFruits},
	{"cherries", common.CategoryFruits},
	{"berry", common.CategoryFruits},
	{"berries", common.CategoryFruits},
	{"peach", common.CategoryFruits},
	{"pear", common.CategoryFruits},
	{"plum", common.CategoryFruits},
	{"mango", common.CategoryFruits},
	{"melon", common.CategoryFruits},
	{"watermelon", common.CategoryFruits},
	{"kiwi", common.CategoryFruits},
	{"apricot", common.CategoryFruits},
	{"papaya", common.CategoryFruits},
	{"coconut", common.CategoryFruits},
	{"fig", common.CategoryFruits},
	{"date", common.CategoryFruits},
	{"pomegranate", common.CategoryFruits},
	{"grapefruit", common.CategoryFruits},

	// Vegetables
	{"tomato", common.CategoryVegetables},
	{"tomatoes", common.CategoryVegetables},
	{"potato", common.CategoryVegetables},
	{"potatoes", common.CategoryVegetables},
	{"carrot", common.CategoryVegetables},
	{"onion", common.CategoryVegetables},
	{"garlic", common.CategoryVegetables},
	{"lettuce", common.CategoryVegetables},
	{"spinach", common.CategoryVegetables},
	{"kale", common.CategoryVegetables},
	{"cabbage", common.CategoryVegetables},
	{"broccoli", common.CategoryVegetables},
	{"cauliflower", common.CategoryVegetables},
	{"cucumber", common.CategoryVegetables},
	{"celery", common.CategoryVegetables},
	{"zucchini", common.CategoryVegetables},
	{"squash", common.CategoryVegetables},
	{"pumpkin", common.CategoryVegetables},
	{"mushroom", common.CategoryVegetables},
	{"asparagus", common.CategoryVegetables},
	{"radish", common.CategoryVegetables},
	{"beet", common.CategoryVegetables},
	{"leek", common.CategoryVegetables},
	{"corn", common.CategoryVegetables},
	{"pepper", common.CategoryVegetables},
	{"artichoke", common.CategoryVegetables},
	{"okra", common.CategoryVegetables},
	{"turnip", common.CategoryVegetables},
}

var hintCategories = []keywordEntry{
	{"spices and herbs", common.CategorySpices},
	{"vegetable", common.CategoryVegetables},
	{"fruit", common.CategoryFruits},
	{"dairy", common.CategoryDairy},
	{"egg", common.CategoryDairy},
	{"legume", common.CategoryLegumes},
	{"beef", common.CategoryMeat},
	{"pork", common.CategoryMeat},
	{"poultry", common.CategoryMeat},
	{"lamb", common.CategoryMeat},
	{"veal", common.CategoryMeat},
	{"game", common.CategoryMeat},
	{"sausages", common.CategoryMeat},
	{"finfish", common.CategoryMeat},
	{"shellfish", common.CategoryMeat},
	{"cereal", common.CategoryGrains},
	{"grain", common.CategoryGrains},
	{"pasta", common.CategoryGrains},
	{"baked products", common.CategoryGrains},
}

var herbWords = []string{
	"basil", "parsley", "cilantro", "mint", "rosemary", "thyme", "oregano",
	"dill", "sage", "chives", "tarragon", "marjoram", "leaves",
}

// padWords 轉小寫並以空白取代標點，頭尾補空白以便整字比對
func padWords(s string) string {
	return " " + strings.Join(words(strings.ToLower(s)), " ") + " "
}

// containsTerm 整字比對，允許 s/es 複數
func containsTerm(padded, term string) bool {
	return strings.Contains(padded, " "+term+" ") ||
		strings.Contains(padded, " "+term+"s ") ||
		strings.Contains(padded, " "+term+"es ")
}

func containsAny(padded string, terms []string) bool {
	for _, t := range terms {
		if containsTerm(padded, t) {
			return true
		}
	}
	return false
}
