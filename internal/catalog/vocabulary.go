// Package catalog はカタログ全体で共有する固定語彙とテキスト処理を提供する。
// 表はすべて起動時に確定する読み取り専用データで、実行時に変更しない。
package catalog

// 補完候補に使うスタイル語彙（ロシア語表記）。
// 「неоклассик」と「неоклассика」はどちらもファイル名に現れるため両方を残す。
var suggestStyles = []string{
	"стандарт",
	"неоклассик",
	"неоклассика",
	"аристократ",
	"модерн",
	"рустик",
	"классик",
}

// styleKeys はロシア語のスタイル表記から商品モデルのスタイルキーへの対応表。
var styleKeys = map[string]string{
	"стандарт":    "standard",
	"неоклассик":  "neoclassic",
	"неоклассика": "neoclassic",
	"аристократ":  "aristocrat",
	"модерн":      "modern",
	"рустик":      "rustic",
	"классик":     "classic",
	"хай-тек":     "hi-tech",
	"минимал":     "minimal",
	"лофт":        "loft",
	"этник":       "ethnic",
}

// カテゴリ名
const (
	CategorySofas    = "Диваны и кресла"
	CategoryTextiles = "Ковры и текстиль"
	CategoryTables   = "Столы и стулья"
	CategoryStorage  = "Шкафы и стеллажи"
	CategoryBeds     = "Кровати и матрасы"
	CategoryLighting = "Освещение"
)

// typeCategories は商品種別（ファイル名の先頭語）からカテゴリ名への対応表。
var typeCategories = map[string]string{
	"диван":      CategorySofas,
	"кресло":     CategorySofas,
	"ковер":      CategoryTextiles,
	"плед":       CategoryTextiles,
	"стол":       CategoryTables,
	"стул":       CategoryTables,
	"шкаф":       CategoryStorage,
	"стеллаж":    CategoryStorage,
	"стелаж":     CategoryStorage,
	"тумбочка":   CategoryStorage,
	"комод":      CategoryStorage,
	"кровать":    CategoryBeds,
	"матрас":     CategoryBeds,
	"лампа":      CategoryLighting,
	"светильник": CategoryLighting,
	"торшер":     CategoryLighting,
}

// categoryNames はカテゴリの表示順。
var categoryNames = []string{
	CategorySofas,
	CategoryTextiles,
	CategoryTables,
	CategoryStorage,
	CategoryBeds,
	CategoryLighting,
}

// SuggestStyles は補完用スタイル語彙を表の順序で返す。
// 呼び出し側が変更しても共有表に影響しないようコピーを返す。
func SuggestStyles() []string {
	return append([]string(nil), suggestStyles...)
}

// IsSuggestStyle はsが補完用スタイル語彙に含まれるかを返す。
func IsSuggestStyle(s string) bool {
	for _, st := range suggestStyles {
		if st == s {
			return true
		}
	}
	return false
}

// StyleKey はロシア語のスタイル表記に対応するスタイルキーを返す。
func StyleKey(ru string) (string, bool) {
	key, ok := styleKeys[ru]
	return key, ok
}

// CategoryForType は商品種別に対応するカテゴリ名を返す。
func CategoryForType(itemType string) (string, bool) {
	name, ok := typeCategories[itemType]
	return name, ok
}

// CategoryNames は既知のカテゴリ名を表示順で返す。
func CategoryNames() []string {
	return append([]string(nil), categoryNames...)
}
