// Package model はドメインモデルを定義する。
package model

import "time"

// Category は商品カテゴリを表す。
// 名前は表示と補完カテゴリ表の参照キーを兼ねる。
type Category struct {
	ID   string
	Name string
}

// Tag は商品に付与するタグを表す。
// 同名タグはget-or-createで1件にまとめられる。
type Tag struct {
	ID   string
	Name string
}

// SizeCategory は商品のサイズ区分を表す。空文字列は未設定。
type SizeCategory string

const (
	// SizeSmall は小型の商品。
	SizeSmall SizeCategory = "S"
	// SizeMedium は中型の商品。
	SizeMedium SizeCategory = "M"
	// SizeLarge は大型の商品。
	SizeLarge SizeCategory = "L"
)

// Item はカタログに掲載される商品を表す。
// Style、Color、SizeCategoryの空文字列は未設定（null）を意味する。
// Priceが0の場合は価格シグナルなしとして扱う。
type Item struct {
	ID               string
	Name             string
	Description      string
	Price            int64
	Category         *Category
	Style            string
	Color            string
	SizeCategory     SizeCategory
	Tags             []string // タグ名（取得時に一括で解決済み）
	IsSold           bool
	CreatedBy        string
	Image            string // メディアルートからの相対パス
	ImagePlaceholder string // BlurHash
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CategoryName はカテゴリ名を返す。カテゴリ未設定の場合は空文字列を返す。
func (i *Item) CategoryName() string {
	if i.Category == nil {
		return ""
	}
	return i.Category.Name
}

// ItemFilter は商品一覧の絞り込み条件を表す。
type ItemFilter struct {
	Query        string // 名前・説明・スタイル・色・タグ・画像パスの部分一致
	CategoryID   string
	CategoryName string // 画像パス・名前・タグの部分一致
	Limit        int    // 0は無制限
}

// ItemForm はスタッフによる商品作成・編集の入力値を表す。
type ItemForm struct {
	CategoryID   string       `json:"category_id" validate:"omitempty,uuid"`
	Name         string       `json:"name" validate:"required,max=255"`
	Description  string       `json:"description" validate:"max=5000"`
	Price        int64        `json:"price" validate:"gte=0"`
	Style        string       `json:"style" validate:"omitempty,oneof=standard neoclassic aristocrat modern rustic classic hi-tech minimal loft ethnic"`
	Color        string       `json:"color" validate:"max=64"`
	SizeCategory SizeCategory `json:"size_category" validate:"omitempty,oneof=S M L"`
	Tags         []string     `json:"tags" validate:"max=20,dive,required,max=64"`
	IsSold       bool         `json:"is_sold"`
}
