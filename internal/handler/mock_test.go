package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/cozyyu/internal/item"
	"github.com/hitoshi/cozyyu/internal/middleware"
	"github.com/hitoshi/cozyyu/internal/model"
	"github.com/hitoshi/cozyyu/internal/suggest"
)

// --- モック定義 ---

type mockCatalogService struct {
	listItemsFn       func(ctx context.Context, filter model.ItemFilter) (*item.ListResult, error)
	listCategoriesFn  func(ctx context.Context) ([]model.Category, error)
	getDetailFn       func(ctx context.Context, id string) (*item.DetailResult, error)
	recommendationsFn func(ctx context.Context, selectedID, query string) (*item.RecommendationResult, error)
	autocompleteFn    func(ctx context.Context, q string) ([]suggest.Suggestion, error)
}

func (m *mockCatalogService) ListItems(ctx context.Context, filter model.ItemFilter) (*item.ListResult, error) {
	if m.listItemsFn != nil {
		return m.listItemsFn(ctx, filter)
	}
	return &item.ListResult{}, nil
}

func (m *mockCatalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	if m.listCategoriesFn != nil {
		return m.listCategoriesFn(ctx)
	}
	return nil, nil
}

func (m *mockCatalogService) GetDetail(ctx context.Context, id string) (*item.DetailResult, error) {
	if m.getDetailFn != nil {
		return m.getDetailFn(ctx, id)
	}
	return nil, model.NewItemNotFoundError(id)
}

func (m *mockCatalogService) Recommendations(ctx context.Context, selectedID, query string) (*item.RecommendationResult, error) {
	if m.recommendationsFn != nil {
		return m.recommendationsFn(ctx, selectedID, query)
	}
	return &item.RecommendationResult{Recommended: []model.Item{}}, nil
}

func (m *mockCatalogService) Autocomplete(ctx context.Context, q string) ([]suggest.Suggestion, error) {
	if m.autocompleteFn != nil {
		return m.autocompleteFn(ctx, q)
	}
	return []suggest.Suggestion{}, nil
}

type mockStaffService struct {
	createFn      func(ctx context.Context, userID string, form model.ItemForm) (*model.Item, error)
	updateFn      func(ctx context.Context, userID, id string, form model.ItemForm) (*model.Item, error)
	deleteFn      func(ctx context.Context, userID, id string) error
	attachImageFn func(ctx context.Context, userID, id, filename string, r io.Reader) (*model.Item, error)
}

func (m *mockStaffService) Create(ctx context.Context, userID string, form model.ItemForm) (*model.Item, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, form)
	}
	return &model.Item{}, nil
}

func (m *mockStaffService) Update(ctx context.Context, userID, id string, form model.ItemForm) (*model.Item, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, id, form)
	}
	return &model.Item{ID: id}, nil
}

func (m *mockStaffService) Delete(ctx context.Context, userID, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, id)
	}
	return nil
}

func (m *mockStaffService) AttachImage(ctx context.Context, userID, id, filename string, r io.Reader) (*model.Item, error) {
	if m.attachImageFn != nil {
		return m.attachImageFn(ctx, userID, id, filename, r)
	}
	return &model.Item{ID: id}, nil
}

type mockCartService struct {
	viewFn   func(ctx context.Context, sessionID string) (*model.CartView, error)
	addFn    func(ctx context.Context, sessionID, itemID string) (*model.CartView, error)
	removeFn func(ctx context.Context, sessionID, itemID string) (*model.CartView, error)
	updateFn func(ctx context.Context, sessionID, itemID string, qty int) (*model.CartView, error)
}

func (m *mockCartService) View(ctx context.Context, sessionID string) (*model.CartView, error) {
	if m.viewFn != nil {
		return m.viewFn(ctx, sessionID)
	}
	return &model.CartView{Lines: []model.CartLine{}}, nil
}

func (m *mockCartService) Add(ctx context.Context, sessionID, itemID string) (*model.CartView, error) {
	if m.addFn != nil {
		return m.addFn(ctx, sessionID, itemID)
	}
	return &model.CartView{Lines: []model.CartLine{}}, nil
}

func (m *mockCartService) Remove(ctx context.Context, sessionID, itemID string) (*model.CartView, error) {
	if m.removeFn != nil {
		return m.removeFn(ctx, sessionID, itemID)
	}
	return &model.CartView{Lines: []model.CartLine{}}, nil
}

func (m *mockCartService) Update(ctx context.Context, sessionID, itemID string, qty int) (*model.CartView, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, sessionID, itemID, qty)
	}
	return &model.CartView{Lines: []model.CartLine{}}, nil
}

type mockAuthService struct {
	loginFn          func(ctx context.Context, username, password, anonymousSessionID string) (*model.Session, *model.User, error)
	logoutFn         func(ctx context.Context, sessionID string) error
	getCurrentUserFn func(ctx context.Context, sessionID string) (*model.User, error)
}

func (m *mockAuthService) Login(ctx context.Context, username, password, anonymousSessionID string) (*model.Session, *model.User, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, username, password, anonymousSessionID)
	}
	return nil, nil, model.NewInvalidCredentialsError()
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, sessionID)
	}
	return nil
}

func (m *mockAuthService) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if m.getCurrentUserFn != nil {
		return m.getCurrentUserFn(ctx, sessionID)
	}
	return nil, model.NewUnauthorizedError()
}

// --- テストヘルパー ---

// withUserID はテスト用にリクエストコンテキストにユーザーIDを注入するヘルパー。
func withUserID(r *http.Request, userID string) *http.Request {
	ctx := middleware.ContextWithUserID(r.Context(), userID)
	return r.WithContext(ctx)
}

// withSessionID はテスト用にリクエストコンテキストにセッションIDを注入するヘルパー。
func withSessionID(r *http.Request, sessionID string) *http.Request {
	ctx := middleware.ContextWithSessionID(r.Context(), sessionID)
	return r.WithContext(ctx)
}

// withChiURLParam はテスト用にchiのURLパラメータを注入するヘルパー。
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// parseAPIErrorResponse はレスポンスボディからAPIErrorレスポンスをパースするヘルパー。
func parseAPIErrorResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var result map[string]string
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return result
}

// decodeJSON はレスポンスボディをvにデコードするヘルパー。
func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}
