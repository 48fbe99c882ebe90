// Package recommend は商品同士の相性スコアを計算し、関連商品とおすすめ商品を順位付けする。
// すべての関数は純粋関数で、引数の商品を変更しない。
package recommend

import (
	"github.com/hitoshi/cozyyu/internal/catalog"
	"github.com/hitoshi/cozyyu/internal/model"
)

// 色の相性スコア
const (
	colorScoreSame       = 10
	colorScoreNeutral    = 6
	colorScoreComplement = 7
)

// neutralColors はどの色とも合わせられる中立色。
var neutralColors = map[string]bool{
	"black": true,
	"white": true,
	"gray":  true,
	"beige": true,
	"brown": true,
}

// complementColors は色ごとの補色リスト。
// 参照は左側の色をキーとした一方向のみ。
var complementColors = map[string][]string{
	"blue":   {"orange", "beige"},
	"orange": {"blue", "beige"},
	"red":    {"green", "beige"},
	"green":  {"red", "beige"},
	"yellow": {"blue", "beige"},
	"beige":  {"blue", "orange", "brown"},
}

// ColorCompat は2色の相性スコアを返す。
// どちらかが空の場合は0。比較は大文字小文字を区別しない。
func ColorCompat(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	a, b = catalog.Fold(a), catalog.Fold(b)

	if a == b {
		return colorScoreSame
	}
	if neutralColors[a] || neutralColors[b] {
		return colorScoreNeutral
	}
	for _, c := range complementColors[a] {
		if c == b {
			return colorScoreComplement
		}
	}
	return 0
}

// sizePair はサイズ相性表のキー。
type sizePair struct {
	a, b model.SizeCategory
}

// sizeScores はサイズの組み合わせごとのスコア。
// S-Lの組み合わせは表に含めない。
var sizeScores = map[sizePair]int{
	{model.SizeSmall, model.SizeSmall}:   8,
	{model.SizeMedium, model.SizeMedium}: 8,
	{model.SizeLarge, model.SizeLarge}:   8,
	{model.SizeSmall, model.SizeMedium}:  4,
	{model.SizeMedium, model.SizeSmall}:  4,
	{model.SizeMedium, model.SizeLarge}:  4,
	{model.SizeLarge, model.SizeMedium}:  4,
}

// SizeCompat は2つのサイズ区分の相性スコアを返す。
// どちらかが未設定、または表にない組み合わせの場合は0。
func SizeCompat(a, b model.SizeCategory) int {
	if a == "" || b == "" {
		return 0
	}
	return sizeScores[sizePair{a, b}]
}

// complementCategories はカテゴリ名ごとの補完カテゴリ名リスト。
var complementCategories = map[string][]string{
	catalog.CategorySofas:    {catalog.CategoryTables, catalog.CategoryTextiles},
	catalog.CategoryTextiles: {catalog.CategorySofas, catalog.CategoryBeds},
	catalog.CategoryTables:   {catalog.CategorySofas, catalog.CategoryLighting},
	catalog.CategoryStorage:  {catalog.CategoryLighting},
	catalog.CategoryBeds:     {catalog.CategoryTextiles},
	catalog.CategoryLighting: {catalog.CategoryTables},
}

// ComplementaryCategories はカテゴリ名に対応する補完カテゴリ名を表の順序で返す。
// 未知のカテゴリ名の場合は空のスライスを返す。
func ComplementaryCategories(name string) []string {
	return append([]string{}, complementCategories[name]...)
}

// isComplementary はcandidateがfocalの補完カテゴリかどうかを返す。
func isComplementary(focal, candidate string) bool {
	for _, name := range complementCategories[focal] {
		if name == candidate {
			return true
		}
	}
	return false
}
