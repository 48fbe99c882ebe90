// Package model はドメインモデルを定義する。
package model

import "time"

// User はスタッフを含むサービス利用ユーザーを表す。
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	IsStaff      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session はログインセッションまたは匿名セッションを表す。
// UserIDが空の場合は未ログインの買い物客のセッション。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsAnonymous は未ログインのセッションかどうかを返す。
func (s *Session) IsAnonymous() bool {
	return s.UserID == ""
}
