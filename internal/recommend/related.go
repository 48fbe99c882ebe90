package recommend

import (
	"math"
	"sort"

	"github.com/hitoshi/cozyyu/internal/catalog"
	"github.com/hitoshi/cozyyu/internal/model"
)

// MaxRelated は関連商品の最大件数。
const MaxRelated = 6

// 関連スコアの重み
const (
	weightComplementary = 40
	weightStyle         = 20
	weightSharedTag     = 8
	weightPriceNear     = 8
	weightPriceFar      = 4
	weightDiversity     = 5
)

// factor は関連スコアを構成する1要素。
type factor func(focal, c *model.Item) int

// relatedFactors はRelatedScoreで合算する要素の一覧。
var relatedFactors = []factor{
	complementaryFactor,
	styleFactor,
	sharedTagsFactor,
	colorFactor,
	sizeFactor,
	priceFactor,
	diversityFactor,
}

// RelatedScore は関連商品スコアを計算する。
func RelatedScore(focal, c *model.Item) int {
	score := 0
	for _, f := range relatedFactors {
		score += f(focal, c)
	}
	return score
}

func complementaryFactor(focal, c *model.Item) int {
	if focal.Category == nil || c.Category == nil {
		return 0
	}
	if isComplementary(focal.Category.Name, c.Category.Name) {
		return weightComplementary
	}
	return 0
}

func styleFactor(focal, c *model.Item) int {
	if focal.Style != "" && c.Style == focal.Style {
		return weightStyle
	}
	return 0
}

// sharedTagsFactor は共通タグ1件ごとに加点する。タグは名前で比較する。
func sharedTagsFactor(focal, c *model.Item) int {
	if len(focal.Tags) == 0 || len(c.Tags) == 0 {
		return 0
	}
	own := make(map[string]bool, len(focal.Tags))
	for _, t := range focal.Tags {
		own[t] = true
	}
	shared := 0
	counted := make(map[string]bool, len(c.Tags))
	for _, t := range c.Tags {
		if own[t] && !counted[t] {
			counted[t] = true
			shared++
		}
	}
	return weightSharedTag * shared
}

func colorFactor(focal, c *model.Item) int {
	return ColorCompat(focal.Color, c.Color)
}

func sizeFactor(focal, c *model.Item) int {
	return SizeCompat(focal.SizeCategory, c.SizeCategory)
}

// priceFactor は価格の近さで加点する。狭い帯が優先される。
func priceFactor(focal, c *model.Item) int {
	if focal.Price <= 0 || c.Price <= 0 {
		return 0
	}
	diff := math.Abs(float64(c.Price - focal.Price))
	base := float64(focal.Price)
	switch {
	case diff < math.Max(1, 0.10*base):
		return weightPriceNear
	case diff < math.Max(1, 0.25*base):
		return weightPriceFar
	default:
		return 0
	}
}

// diversityFactor は補完関係にない別カテゴリの商品に加点する。
func diversityFactor(focal, c *model.Item) int {
	if focal.Category == nil || c.Category == nil {
		return 0
	}
	if c.Category.ID == focal.Category.ID {
		return 0
	}
	if isComplementary(focal.Category.Name, c.Category.Name) {
		return 0
	}
	return weightDiversity
}

// scored は計算済みスコアと商品の組。
type scored struct {
	item  model.Item
	score int
}

// RankRelated はpoolの商品をfocalとの関連スコアで順位付けし、最大MaxRelated件を返す。
// focal自身とスコア0以下の商品は含めない。同点はID昇順。
func RankRelated(focal model.Item, pool []model.Item) []model.Item {
	return rank(focal, pool, RelatedScore, MaxRelated)
}

// rank はスコア関数で候補を評価し、正のスコアのものを降順で最大limit件返す。
func rank(focal model.Item, pool []model.Item, score func(focal, c *model.Item) int, limit int) []model.Item {
	results := make([]scored, 0, len(pool))
	for i := range pool {
		c := &pool[i]
		if c.ID == focal.ID {
			continue
		}
		if s := score(&focal, c); s > 0 {
			results = append(results, scored{item: *c, score: s})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].item.ID < results[j].item.ID
	})

	if len(results) > limit {
		results = results[:limit]
	}
	items := make([]model.Item, len(results))
	for i, r := range results {
		items[i] = r.item
	}
	return items
}

// styleColorScore はおすすめ選択用のスコアを計算する。
func styleColorScore(focal, c *model.Item) int {
	score := 0
	if focal.Style != "" && c.Style == focal.Style {
		score += 10
	}
	if focal.Color != "" && c.Color != "" && catalog.EqualFold(focal.Color, c.Color) {
		score += 10
	}
	return score
}

// MaxRecommended はおすすめ商品の最大件数。
const MaxRecommended = 12

// RankByStyleColor はスタイルと色の一致でpoolを順位付けし、最大MaxRecommended件を返す。
// focalにスタイルも色もない場合は走査せずに空を返す。
func RankByStyleColor(focal model.Item, pool []model.Item) []model.Item {
	if focal.Style == "" && focal.Color == "" {
		return []model.Item{}
	}
	return rank(focal, pool, styleColorScore, MaxRecommended)
}
