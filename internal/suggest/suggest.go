// Package suggest は検索ボックスの補完候補を生成する。
package suggest

import (
	"sort"
	"strings"
	"unicode"

	"github.com/hitoshi/cozyyu/internal/catalog"
)

// Kind は補完候補の種別。
type Kind string

const (
	// KindProduct は商品種別（商品名の先頭語）。
	KindProduct Kind = "product"
	// KindStyle はスタイル語彙。
	KindStyle Kind = "style"
	// KindColor はタグ由来の候補。多くは色。
	KindColor Kind = "color"
)

// Label はAPIレスポンスで使う表示ラベルを返す。
func (k Kind) Label() string {
	switch k {
	case KindProduct:
		return "товар"
	case KindStyle:
		return "стиль"
	case KindColor:
		return "цвет"
	default:
		return string(k)
	}
}

// Suggestion は1件の補完候補。
type Suggestion struct {
	Text string
	Kind Kind
}

// 候補数の上限
const (
	MaxSuggestions = 8
	MaxFallback    = 5
	MaxTagNames    = 10
)

// Suggest はqueryに対する補完候補を返す。
//
// 前方一致で商品種別、スタイル、タグの順に候補を集め、1件も得られなかった場合に限り
// 商品種別とスタイルを部分一致で探す。同じ文字列は大文字小文字を区別せず1回だけ返す。
func Suggest(query string, itemNames, tagNames []string) []Suggestion {
	q := catalog.Fold(strings.TrimSpace(query))
	if q == "" {
		return []Suggestion{}
	}

	types := ProductTypes(itemNames)
	styles := catalog.SuggestStyles()

	c := newCollector(MaxSuggestions)
	for _, t := range types {
		if strings.HasPrefix(t, q) {
			c.add(t, KindProduct)
		}
	}
	for _, s := range styles {
		if strings.HasPrefix(catalog.Fold(s), q) {
			c.add(s, KindStyle)
		}
	}
	for _, name := range prefixed(tagNames, q, MaxTagNames) {
		if catalog.IsSuggestStyle(catalog.Fold(name)) {
			continue
		}
		c.add(name, KindColor)
	}
	if len(c.out) > 0 {
		return c.out
	}

	c = newCollector(MaxFallback)
	for _, t := range types {
		if strings.Contains(t, q) {
			c.add(t, KindProduct)
		}
	}
	for _, s := range styles {
		if strings.Contains(catalog.Fold(s), q) {
			c.add(s, KindStyle)
		}
	}
	return c.out
}

// ProductTypes は商品名の先頭語から数字を除き、重複のない商品種別の一覧を昇順で返す。
func ProductTypes(itemNames []string) []string {
	set := make(map[string]struct{})
	for _, name := range itemNames {
		word := catalog.Fold(catalog.FirstWord(name))
		cleaned := strings.TrimSpace(strings.Map(func(r rune) rune {
			if unicode.IsDigit(r) {
				return -1
			}
			return r
		}, word))
		if cleaned != "" {
			set[cleaned] = struct{}{}
		}
	}

	types := make([]string, 0, len(set))
	for t := range set {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// prefixed は前方一致するタグ名を先頭から最大limit件返す。
func prefixed(names []string, q string, limit int) []string {
	var out []string
	for _, name := range names {
		if len(out) >= limit {
			break
		}
		if strings.HasPrefix(catalog.Fold(name), q) {
			out = append(out, name)
		}
	}
	return out
}

// collector は重複を除きながら上限まで候補を集める。
type collector struct {
	limit int
	seen  map[string]bool
	out   []Suggestion
}

func newCollector(limit int) *collector {
	return &collector{
		limit: limit,
		seen:  make(map[string]bool),
		out:   []Suggestion{},
	}
}

func (c *collector) add(text string, kind Kind) {
	if len(c.out) >= c.limit {
		return
	}
	key := catalog.Fold(text)
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	c.out = append(c.out, Suggestion{Text: catalog.Capitalize(text), Kind: kind})
}
