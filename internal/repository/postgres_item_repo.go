package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/hitoshi/cozyyu/internal/model"
)

// PostgresItemRepo はPostgreSQLを使用した商品リポジトリ。
type PostgresItemRepo struct {
	db *sql.DB
}

// NewPostgresItemRepo はPostgresItemRepoを生成する。
func NewPostgresItemRepo(db *sql.DB) *PostgresItemRepo {
	return &PostgresItemRepo{db: db}
}

// itemColumns は商品取得時のSELECT句。タグ名は配列として同じ行で取得する。
const itemColumns = `
	i.id, i.name, i.description, i.price, i.category_id, c.name,
	i.style, i.color, i.size_category, i.is_sold, i.created_by,
	i.image, i.image_placeholder, i.created_at, i.updated_at,
	ARRAY(
		SELECT t.name FROM item_tags it
		INNER JOIN tags t ON t.id = it.tag_id
		WHERE it.item_id = i.id
		ORDER BY t.name
	)`

const itemFrom = `
	FROM items i
	LEFT JOIN categories c ON c.id = i.category_id`

// rowScanner は*sql.Rowと*sql.Rowsの共通インターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

// scanItem は1行分の商品をスキャンする。
func scanItem(row rowScanner) (*model.Item, error) {
	item := &model.Item{}
	var categoryID, categoryName, style, color, size, createdBy, image, placeholder sql.NullString
	var tags pq.StringArray

	err := row.Scan(
		&item.ID, &item.Name, &item.Description, &item.Price, &categoryID, &categoryName,
		&style, &color, &size, &item.IsSold, &createdBy,
		&image, &placeholder, &item.CreatedAt, &item.UpdatedAt,
		&tags,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		item.Category = &model.Category{ID: categoryID.String, Name: categoryName.String}
	}
	item.Style = nullStringValue(style)
	item.Color = nullStringValue(color)
	item.SizeCategory = model.SizeCategory(nullStringValue(size))
	item.CreatedBy = nullStringValue(createdBy)
	item.Image = nullStringValue(image)
	item.ImagePlaceholder = nullStringValue(placeholder)
	item.Tags = []string(tags)
	if item.Tags == nil {
		item.Tags = []string{}
	}
	return item, nil
}

// queryItems はクエリを実行して商品一覧をスキャンする。
func (r *PostgresItemRepo) queryItems(ctx context.Context, query string, args ...any) ([]model.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("商品一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("商品のスキャンに失敗しました: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("商品一覧の読み込みに失敗しました: %w", err)
	}
	return items, nil
}

// FindByID は指定IDの商品を取得する。見つからない場合はnilを返す。
func (r *PostgresItemRepo) FindByID(ctx context.Context, id string) (*model.Item, error) {
	item, err := scanItem(r.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+itemFrom+` WHERE i.id::text = $1`,
		id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("商品の取得に失敗しました: %w", err)
	}
	return item, nil
}

// FindByIDs は指定IDの商品をまとめて取得する。存在しないIDは無視する。
func (r *PostgresItemRepo) FindByIDs(ctx context.Context, ids []string) ([]model.Item, error) {
	if len(ids) == 0 {
		return []model.Item{}, nil
	}
	return r.queryItems(ctx,
		`SELECT `+itemColumns+itemFrom+` WHERE i.id::text = ANY($1) ORDER BY i.created_at, i.id`,
		pq.Array(ids),
	)
}

// List は未販売の商品をフィルタ条件で絞り込み、新しい順で返す。
//
// CategoryNameは画像パス・商品名・タグ名の部分一致、Queryは商品名・説明・スタイル・色・
// タグ名・画像パスの部分一致で、いずれも大文字小文字を区別しない。
func (r *PostgresItemRepo) List(ctx context.Context, filter model.ItemFilter) ([]model.Item, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + itemColumns + itemFrom + ` WHERE i.is_sold = false`)
	args := []any{}

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.CategoryID != "" {
		b.WriteString(` AND i.category_id::text = ` + arg(filter.CategoryID))
	}
	if filter.CategoryName != "" {
		p := arg(containsPattern(filter.CategoryName))
		b.WriteString(` AND (i.image ILIKE ` + p + ` OR i.name ILIKE ` + p +
			` OR EXISTS (SELECT 1 FROM item_tags it INNER JOIN tags t ON t.id = it.tag_id
			             WHERE it.item_id = i.id AND t.name ILIKE ` + p + `))`)
	}
	if filter.Query != "" {
		p := arg(containsPattern(filter.Query))
		b.WriteString(` AND (i.name ILIKE ` + p + ` OR i.description ILIKE ` + p +
			` OR i.style ILIKE ` + p + ` OR i.color ILIKE ` + p + ` OR i.image ILIKE ` + p +
			` OR EXISTS (SELECT 1 FROM item_tags it INNER JOIN tags t ON t.id = it.tag_id
			             WHERE it.item_id = i.id AND t.name ILIKE ` + p + `))`)
	}
	b.WriteString(` ORDER BY i.created_at DESC, i.id`)
	if filter.Limit > 0 {
		b.WriteString(` LIMIT ` + arg(filter.Limit))
	}

	return r.queryItems(ctx, b.String(), args...)
}

// ListUnsold は未販売の商品をexcludeID以外すべて返す。
func (r *PostgresItemRepo) ListUnsold(ctx context.Context, excludeID string) ([]model.Item, error) {
	return r.queryItems(ctx,
		`SELECT `+itemColumns+itemFrom+`
		 WHERE i.is_sold = false AND ($1 = '' OR i.id::text <> $1)
		 ORDER BY i.id`,
		excludeID,
	)
}

// DistinctNames は全商品の重複のない名前一覧を返す。
func (r *PostgresItemRepo) DistinctNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT name FROM items WHERE name <> '' ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("商品名一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("商品名のスキャンに失敗しました: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("商品名一覧の読み込みに失敗しました: %w", err)
	}
	return names, nil
}

// ExistsByNameCategoryColor は名前・カテゴリ・色が一致する商品が存在するかを返す。
func (r *PostgresItemRepo) ExistsByNameCategoryColor(ctx context.Context, name, categoryID, color string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM items
			WHERE name = $1
			  AND category_id::text IS NOT DISTINCT FROM $2
			  AND color IS NOT DISTINCT FROM $3
		)`,
		name, nullString(categoryID), nullString(color),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("商品の重複確認に失敗しました: %w", err)
	}
	return exists, nil
}

// Create は商品とタグの紐付けを同一トランザクションで作成する。
func (r *PostgresItemRepo) Create(ctx context.Context, item *model.Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO items (id, name, description, price, category_id, style, color,
		                    size_category, is_sold, created_by, image, image_placeholder,
		                    created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		item.ID, item.Name, item.Description, item.Price, categoryIDOf(item),
		nullString(item.Style), nullString(item.Color), nullString(string(item.SizeCategory)),
		item.IsSold, nullString(item.CreatedBy), nullString(item.Image),
		nullString(item.ImagePlaceholder), item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("商品の作成に失敗しました: %w", err)
	}

	if err := attachTags(ctx, tx, item.ID, item.Tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}

// Update は商品を上書き更新し、タグの紐付けを置き換える。
func (r *PostgresItemRepo) Update(ctx context.Context, item *model.Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET name = $2, description = $3, price = $4, category_id = $5,
		                  style = $6, color = $7, size_category = $8, is_sold = $9,
		                  updated_at = $10
		 WHERE id::text = $1`,
		item.ID, item.Name, item.Description, item.Price, categoryIDOf(item),
		nullString(item.Style), nullString(item.Color), nullString(string(item.SizeCategory)),
		item.IsSold, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("商品の更新に失敗しました: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM item_tags WHERE item_id::text = $1`, item.ID); err != nil {
		return fmt.Errorf("タグの紐付け解除に失敗しました: %w", err)
	}
	if err := attachTags(ctx, tx, item.ID, item.Tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}

// AddTags はタグをget-or-createして商品に紐付ける。
func (r *PostgresItemRepo) AddTags(ctx context.Context, itemID string, names []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	if err := attachTags(ctx, tx, itemID, names); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}

// attachTags はトランザクション内でタグをget-or-createし、商品に紐付ける。
func attachTags(ctx context.Context, tx *sql.Tx, itemID string, names []string) error {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		var tagID string
		err := tx.QueryRowContext(ctx,
			`INSERT INTO tags (id, name) VALUES ($1, $2)
			 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id`,
			uuid.New().String(), name,
		).Scan(&tagID)
		if err != nil {
			return fmt.Errorf("タグの作成に失敗しました: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO item_tags (item_id, tag_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			itemID, tagID,
		)
		if err != nil {
			return fmt.Errorf("タグの紐付けに失敗しました: %w", err)
		}
	}
	return nil
}

// UpdateImage は商品画像のパスとプレースホルダーを更新する。
func (r *PostgresItemRepo) UpdateImage(ctx context.Context, itemID, image, placeholder string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE items SET image = $2, image_placeholder = $3, updated_at = now()
		 WHERE id::text = $1`,
		itemID, nullString(image), nullString(placeholder),
	)
	if err != nil {
		return fmt.Errorf("商品画像の更新に失敗しました: %w", err)
	}
	return nil
}

// Delete は指定IDの商品を削除する。
func (r *PostgresItemRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("商品の削除に失敗しました: %w", err)
	}
	return nil
}

// DeleteAll は全商品を削除し、削除件数を返す。
func (r *PostgresItemRepo) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM items`)
	if err != nil {
		return 0, fmt.Errorf("全商品の削除に失敗しました: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("削除件数の取得に失敗しました: %w", err)
	}
	return n, nil
}

// categoryIDOf は商品のカテゴリIDをNULL許容で返す。
func categoryIDOf(item *model.Item) sql.NullString {
	if item.Category == nil {
		return sql.NullString{}
	}
	return nullString(item.Category.ID)
}

// compile-time interface check
var _ ItemRepository = (*PostgresItemRepo)(nil)
