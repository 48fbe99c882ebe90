// Package auth はパスワード認証、セッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/cozyyu/internal/model"
	"github.com/hitoshi/cozyyu/internal/repository"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// Login はユーザー名とパスワードを検証し、ユーザーセッションを発行する。
// anonymousSessionIDが有効な匿名セッションを指す場合は、そのカートを引き継いで匿名セッションを破棄する。
func (s *Service) Login(ctx context.Context, username, password, anonymousSessionID string) (*model.Session, *model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil || !CheckPassword(user.PasswordHash, password) {
		slog.Info("login failed", slog.String("username", username))
		return nil, nil, model.NewInvalidCredentialsError()
	}

	cart := model.Cart{}
	if anonymousSessionID != "" {
		anon, err := s.sessionRepo.FindByID(ctx, anonymousSessionID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to find session: %w", err)
		}
		if anon != nil && anon.IsAnonymous() {
			if cart, err = s.sessionRepo.LoadCart(ctx, anon.ID); err != nil {
				return nil, nil, fmt.Errorf("failed to load cart: %w", err)
			}
			if err := s.sessionRepo.DeleteByID(ctx, anon.ID); err != nil {
				return nil, nil, fmt.Errorf("failed to delete anonymous session: %w", err)
			}
		}
	}

	session, err := s.createSession(ctx, user.ID, cart)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.Int("cart_lines", len(cart)),
	)
	return session, user, nil
}

// Logout はセッションを破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// GetCurrentUser はセッションから現在のユーザーを取得する。
// 匿名セッションや期限切れのセッションではUNAUTHORIZEDを返す。
func (s *Service) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, model.NewUnauthorizedError()
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil || session.IsAnonymous() {
		return nil, model.NewUnauthorizedError()
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUnauthorizedError()
	}

	return user, nil
}

// EnsureSession はsessionIDが有効なセッションならそれを返し、
// そうでなければ空のカートを持つ匿名セッションを作成する。createdは新規作成したかどうか。
func (s *Service) EnsureSession(ctx context.Context, sessionID string) (session *model.Session, created bool, err error) {
	if sessionID != "" {
		existing, err := s.sessionRepo.FindByID(ctx, sessionID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to find session: %w", err)
		}
		if existing != nil {
			return existing, false, nil
		}
	}

	session, err = s.createSession(ctx, "", nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create anonymous session: %w", err)
	}
	return session, true, nil
}

// EnsureStaffUser は指定ユーザー名のスタッフユーザーを取得し、存在しなければ作成する。
// 既存ユーザーのパスワードは変更しない。
func (s *Service) EnsureStaffUser(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user = &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		IsStaff:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("staff user created", slog.String("user_id", user.ID), slog.String("username", username))
	return user, nil
}

// HashPassword はbcryptでパスワードをハッシュ化する。
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword はパスワードがハッシュと一致するかを返す。
func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		slog.Warn("password hash is malformed", slog.String("error", err.Error()))
	}
	return err == nil
}

// createSession はセッションを作成し永続化する。userIDが空の場合は匿名セッション。
func (s *Service) createSession(ctx context.Context, userID string, cart model.Cart) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	now := time.Now()
	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: now.Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session, cart); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
