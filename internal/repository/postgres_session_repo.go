package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hitoshi/cozyyu/internal/model"
)

// PostgresSessionRepo はPostgreSQLを使用したセッションリポジトリ。
// カートはsessions.dataにJSONBで保存する。
type PostgresSessionRepo struct {
	db *sql.DB
}

// NewPostgresSessionRepo はPostgresSessionRepoを生成する。
func NewPostgresSessionRepo(db *sql.DB) *PostgresSessionRepo {
	return &PostgresSessionRepo{db: db}
}

// sessionData はsessions.dataのJSON構造。
type sessionData struct {
	Cart model.Cart `json:"cart"`
}

// Create はセッションを作成する。
func (r *PostgresSessionRepo) Create(ctx context.Context, session *model.Session, cart model.Cart) error {
	data, err := encodeSessionData(cart)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, data, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		session.ID, nullString(session.UserID), data, session.ExpiresAt, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
func (r *PostgresSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	session := &model.Session{}
	var userID sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, expires_at, created_at
		 FROM sessions
		 WHERE id = $1 AND expires_at > now()`,
		id,
	).Scan(&session.ID, &userID, &session.ExpiresAt, &session.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	session.UserID = nullStringValue(userID)
	return session, nil
}

// DeleteByID は指定IDのセッションを削除する。
func (r *PostgresSessionRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// LoadCart はセッションに保存されたカートを返す。
func (r *PostgresSessionRepo) LoadCart(ctx context.Context, sessionID string) (model.Cart, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM sessions WHERE id = $1 AND expires_at > now()`,
		sessionID,
	).Scan(&data)

	if err == sql.ErrNoRows {
		return model.Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return decodeSessionData(data)
}

// SaveCart はセッションのカートを上書き保存する。
func (r *PostgresSessionRepo) SaveCart(ctx context.Context, sessionID string, cart model.Cart) error {
	data, err := encodeSessionData(cart)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE sessions SET data = $2 WHERE id = $1`,
		sessionID, data,
	)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func encodeSessionData(cart model.Cart) ([]byte, error) {
	if cart == nil {
		cart = model.Cart{}
	}
	data, err := json.Marshal(sessionData{Cart: cart})
	if err != nil {
		return nil, fmt.Errorf("failed to encode session data: %w", err)
	}
	return data, nil
}

// decodeSessionData はsessions.dataからカートを復元する。
// 数量が1未満の行は読み込み時に取り除く。
func decodeSessionData(data []byte) (model.Cart, error) {
	var sd sessionData
	if len(data) > 0 {
		if err := json.Unmarshal(data, &sd); err != nil {
			return nil, fmt.Errorf("failed to decode session data: %w", err)
		}
	}
	cart := model.Cart{}
	for id, qty := range sd.Cart {
		cart.Set(id, qty)
	}
	return cart, nil
}

// compile-time interface check
var _ SessionRepository = (*PostgresSessionRepo)(nil)
