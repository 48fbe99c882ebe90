package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/cozyyu/internal/model"
	"github.com/hitoshi/cozyyu/internal/repository"
)

// --- モック定義 ---

type mockUserRepo struct {
	findByIDFn       func(ctx context.Context, id string) (*model.User, error)
	findByUsernameFn func(ctx context.Context, username string) (*model.User, error)
	createFn         func(ctx context.Context, user *model.User) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

type mockSessionRepo struct {
	createFn     func(ctx context.Context, session *model.Session, cart model.Cart) error
	findByIDFn   func(ctx context.Context, id string) (*model.Session, error)
	deleteByIDFn func(ctx context.Context, id string) error
	loadCartFn   func(ctx context.Context, sessionID string) (model.Cart, error)
	saveCartFn   func(ctx context.Context, sessionID string, cart model.Cart) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session, cart model.Cart) error {
	if m.createFn != nil {
		return m.createFn(ctx, session, cart)
	}
	return nil
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

func (m *mockSessionRepo) LoadCart(ctx context.Context, sessionID string) (model.Cart, error) {
	if m.loadCartFn != nil {
		return m.loadCartFn(ctx, sessionID)
	}
	return model.Cart{}, nil
}

func (m *mockSessionRepo) SaveCart(ctx context.Context, sessionID string, cart model.Cart) error {
	if m.saveCartFn != nil {
		return m.saveCartFn(ctx, sessionID, cart)
	}
	return nil
}

// --- compile-time interface checks ---
var _ repository.UserRepository = (*mockUserRepo)(nil)
var _ repository.SessionRepository = (*mockSessionRepo)(nil)

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(hash)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T (%v)", err, err)
	}
	if apiErr.Code != code {
		t.Errorf("Code = %q, want %q", apiErr.Code, code)
	}
}

// --- テスト ---

func TestLogin_ValidCredentials_CreatesSession(t *testing.T) {
	ctx := context.Background()
	hash := mustHash(t, "secret")

	var createdSession *model.Session
	userRepo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: "u1", Username: username, PasswordHash: hash, IsStaff: true}, nil
		},
	}
	sessionRepo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session, cart model.Cart) error {
			createdSession = session
			return nil
		},
	}

	svc := NewService(userRepo, sessionRepo, ServiceConfig{SessionMaxAge: 86400})

	session, user, err := svc.Login(ctx, "admin", "secret", "")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("user ID = %q", user.ID)
	}
	if session == nil || session != createdSession {
		t.Fatal("expected created session to be returned")
	}
	if len(session.ID) != 64 {
		t.Errorf("session ID length = %d, want 64", len(session.ID))
	}
	if session.UserID != "u1" {
		t.Errorf("session userID = %q", session.UserID)
	}
	if session.ExpiresAt.Before(time.Now().Add(23 * time.Hour)) {
		t.Error("session should expire after SessionMaxAge")
	}
}

func TestLogin_CarriesOverAnonymousCart(t *testing.T) {
	ctx := context.Background()
	hash := mustHash(t, "secret")

	var savedCart model.Cart
	var deleted string
	userRepo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: "u1", PasswordHash: hash}, nil
		},
	}
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{ID: id}, nil
		},
		loadCartFn: func(ctx context.Context, sessionID string) (model.Cart, error) {
			return model.Cart{"item-1": 2}, nil
		},
		deleteByIDFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
		createFn: func(ctx context.Context, session *model.Session, cart model.Cart) error {
			savedCart = cart
			return nil
		},
	}

	svc := NewService(userRepo, sessionRepo, ServiceConfig{SessionMaxAge: 60})

	if _, _, err := svc.Login(ctx, "admin", "secret", "anon-1"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if savedCart["item-1"] != 2 {
		t.Errorf("cart = %v, want item-1:2", savedCart)
	}
	if deleted != "anon-1" {
		t.Errorf("anonymous session should be deleted, got %q", deleted)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	hash := mustHash(t, "secret")
	tests := []struct {
		name string
		user *model.User
	}{
		{"unknown user", nil},
		{"wrong password", &model.User{ID: "u1", PasswordHash: hash}},
		{"empty hash", &model.User{ID: "u1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := &mockUserRepo{
				findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
					return tt.user, nil
				},
			}
			sessionRepo := &mockSessionRepo{
				createFn: func(ctx context.Context, session *model.Session, cart model.Cart) error {
					t.Fatal("session should not be created")
					return nil
				},
			}
			svc := NewService(userRepo, sessionRepo, ServiceConfig{SessionMaxAge: 60})

			_, _, err := svc.Login(context.Background(), "admin", "wrong", "")
			assertCode(t, err, model.ErrCodeInvalidCredentials)
		})
	}
}

func TestLogout_DeletesSession(t *testing.T) {
	ctx := context.Background()

	var deletedSessionID string
	sessionRepo := &mockSessionRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			deletedSessionID = id
			return nil
		},
	}

	svc := NewService(nil, sessionRepo, ServiceConfig{SessionMaxAge: 86400})

	if err := svc.Logout(ctx, "session-to-delete"); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if deletedSessionID != "session-to-delete" {
		t.Errorf("deleted session ID = %q, want %q", deletedSessionID, "session-to-delete")
	}
}

func TestLogout_EmptySessionID_ReturnsError(t *testing.T) {
	svc := NewService(nil, nil, ServiceConfig{SessionMaxAge: 86400})

	if err := svc.Logout(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty session ID")
	}
}

func TestGetCurrentUser_ValidSession_ReturnsUser(t *testing.T) {
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{ID: id, UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Username: "admin"}, nil
		},
	}

	svc := NewService(userRepo, sessionRepo, ServiceConfig{SessionMaxAge: 86400})

	user, err := svc.GetCurrentUser(context.Background(), "session-valid")
	if err != nil {
		t.Fatalf("GetCurrentUser() error = %v", err)
	}
	if user.Username != "admin" {
		t.Errorf("username = %q", user.Username)
	}
}

func TestGetCurrentUser_AnonymousOrMissing_ReturnsUnauthorized(t *testing.T) {
	tests := []struct {
		name      string
		sessionID string
		session   *model.Session
	}{
		{"empty session id", "", nil},
		{"expired session", "s1", nil},
		{"anonymous session", "s1", &model.Session{ID: "s1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessionRepo := &mockSessionRepo{
				findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
					return tt.session, nil
				},
			}
			svc := NewService(&mockUserRepo{}, sessionRepo, ServiceConfig{SessionMaxAge: 60})

			_, err := svc.GetCurrentUser(context.Background(), tt.sessionID)
			assertCode(t, err, model.ErrCodeUnauthorized)
		})
	}
}

func TestEnsureSession_ReusesValidSession(t *testing.T) {
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{ID: id}, nil
		},
		createFn: func(ctx context.Context, session *model.Session, cart model.Cart) error {
			t.Fatal("session should not be created")
			return nil
		},
	}
	svc := NewService(nil, sessionRepo, ServiceConfig{SessionMaxAge: 60})

	session, created, err := svc.EnsureSession(context.Background(), "existing")
	if err != nil {
		t.Fatalf("EnsureSession() error = %v", err)
	}
	if created || session.ID != "existing" {
		t.Errorf("session=%+v created=%v", session, created)
	}
}

func TestEnsureSession_CreatesAnonymousSession(t *testing.T) {
	var createdSession *model.Session
	sessionRepo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session, cart model.Cart) error {
			createdSession = session
			return nil
		},
	}
	svc := NewService(nil, sessionRepo, ServiceConfig{SessionMaxAge: 60})

	session, created, err := svc.EnsureSession(context.Background(), "expired")
	if err != nil {
		t.Fatalf("EnsureSession() error = %v", err)
	}
	if !created || session != createdSession {
		t.Fatal("expected a new session")
	}
	if !session.IsAnonymous() {
		t.Error("new session should be anonymous")
	}
}

func TestEnsureStaffUser(t *testing.T) {
	t.Run("creates staff user with hashed password", func(t *testing.T) {
		var created *model.User
		userRepo := &mockUserRepo{
			createFn: func(ctx context.Context, user *model.User) error {
				created = user
				return nil
			},
		}
		svc := NewService(userRepo, nil, ServiceConfig{})

		user, err := svc.EnsureStaffUser(context.Background(), "admin", "admin")
		if err != nil {
			t.Fatalf("EnsureStaffUser() error = %v", err)
		}
		if user != created || !user.IsStaff {
			t.Fatalf("user = %+v", user)
		}
		if user.PasswordHash == "admin" || !CheckPassword(user.PasswordHash, "admin") {
			t.Error("password should be stored as bcrypt hash")
		}
	})

	t.Run("returns existing user", func(t *testing.T) {
		userRepo := &mockUserRepo{
			findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
				return &model.User{ID: "u1", Username: username}, nil
			},
			createFn: func(ctx context.Context, user *model.User) error {
				t.Fatal("user should not be created")
				return nil
			},
		}
		svc := NewService(userRepo, nil, ServiceConfig{})

		user, err := svc.EnsureStaffUser(context.Background(), "admin", "admin")
		if err != nil {
			t.Fatalf("EnsureStaffUser() error = %v", err)
		}
		if user.ID != "u1" {
			t.Errorf("user ID = %q", user.ID)
		}
	})
}
