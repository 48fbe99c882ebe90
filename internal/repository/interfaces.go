// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/cozyyu/internal/model"
)

// CategoryRepository はカテゴリデータの永続化インターフェース。
type CategoryRepository interface {
	// List は全カテゴリを名前順で返す。
	List(ctx context.Context) ([]model.Category, error)

	// FindByID は指定IDのカテゴリを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Category, error)

	// GetOrCreate は指定名のカテゴリを取得し、存在しない場合は作成する。
	GetOrCreate(ctx context.Context, name string) (*model.Category, error)
}

// ItemRepository は商品データの永続化インターフェース。
// 取得系メソッドはカテゴリとタグ名を一括で解決した商品を返す。
type ItemRepository interface {
	// FindByID は指定IDの商品を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Item, error)

	// FindByIDs は指定IDの商品をまとめて取得する。存在しないIDは無視する。
	FindByIDs(ctx context.Context, ids []string) ([]model.Item, error)

	// List は未販売の商品をフィルタ条件で絞り込み、新しい順で返す。
	List(ctx context.Context, filter model.ItemFilter) ([]model.Item, error)

	// ListUnsold は未販売の商品をexcludeID以外すべて返す。excludeIDが空の場合は除外しない。
	ListUnsold(ctx context.Context, excludeID string) ([]model.Item, error)

	// DistinctNames は全商品の重複のない名前一覧を返す。
	DistinctNames(ctx context.Context) ([]string, error)

	// ExistsByNameCategoryColor は名前・カテゴリ・色が一致する商品が存在するかを返す。
	// 色が空の場合は色未設定の商品と一致する。
	ExistsByNameCategoryColor(ctx context.Context, name, categoryID, color string) (bool, error)

	// Create は商品とタグの紐付けを同一トランザクションで作成する。
	Create(ctx context.Context, item *model.Item) error

	// Update は商品を上書き更新し、タグの紐付けを置き換える。
	Update(ctx context.Context, item *model.Item) error

	// AddTags はタグをget-or-createして商品に紐付ける。既存の紐付けは維持する。
	AddTags(ctx context.Context, itemID string, names []string) error

	// UpdateImage は商品画像のパスとプレースホルダーを更新する。
	UpdateImage(ctx context.Context, itemID, image, placeholder string) error

	// Delete は指定IDの商品を削除する。item_tagsはCASCADE削除される。
	Delete(ctx context.Context, id string) error

	// DeleteAll は全商品を削除し、削除件数を返す。
	DeleteAll(ctx context.Context) (int64, error)
}

// TagRepository はタグデータの永続化インターフェース。
type TagRepository interface {
	// NamesWithPrefix は前方一致（大文字小文字を区別しない）するタグ名を最大limit件返す。
	NamesWithPrefix(ctx context.Context, prefix string, limit int) ([]string, error)
}

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByUsername はユーザー名でユーザーを取得する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。cartがnilの場合は空のカートで作成する。
	Create(ctx context.Context, session *model.Session, cart model.Cart) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// LoadCart はセッションに保存されたカートを返す。セッションがない場合は空のカートを返す。
	LoadCart(ctx context.Context, sessionID string) (model.Cart, error)
	// SaveCart はセッションのカートを上書き保存する。
	SaveCart(ctx context.Context, sessionID string, cart model.Cart) error
}
