package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresTagRepo はPostgreSQLを使用したタグリポジトリ。
type PostgresTagRepo struct {
	db *sql.DB
}

// NewPostgresTagRepo はPostgresTagRepoを生成する。
func NewPostgresTagRepo(db *sql.DB) *PostgresTagRepo {
	return &PostgresTagRepo{db: db}
}

// NamesWithPrefix は前方一致するタグ名を最大limit件返す。
func (r *PostgresTagRepo) NamesWithPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name FROM tags WHERE name ILIKE $1 ORDER BY name LIMIT $2`,
		prefixPattern(prefix), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("タグ名の検索に失敗しました: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("タグ名のスキャンに失敗しました: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("タグ名の読み込みに失敗しました: %w", err)
	}
	return names, nil
}

// compile-time interface check
var _ TagRepository = (*PostgresTagRepo)(nil)
