// Package model はドメインモデルを定義する。
package model

// Cart はセッションに保存されるカートを表す。
// キーは商品ID、値は1以上の数量。
type Cart map[string]int

// Set は数量を設定する。0以下の場合は行を削除する。
func (c Cart) Set(itemID string, qty int) {
	if qty <= 0 {
		delete(c, itemID)
		return
	}
	c[itemID] = qty
}

// ItemIDs はカート内の商品IDを返す。
func (c Cart) ItemIDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	return ids
}

// CartLine はカート表示用の1行を表す。
type CartLine struct {
	Item     Item
	Qty      int
	Subtotal int64
}

// CartView はカートの表示内容を表す。
type CartView struct {
	Lines []CartLine
	Total int64
}
