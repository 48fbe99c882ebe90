package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/cozyyu/internal/cart"
	"github.com/hitoshi/cozyyu/internal/middleware"
	"github.com/hitoshi/cozyyu/internal/model"
)

// CartServiceInterface はカートハンドラーが必要とするサービスインターフェース。
type CartServiceInterface interface {
	View(ctx context.Context, sessionID string) (*model.CartView, error)
	Add(ctx context.Context, sessionID, itemID string) (*model.CartView, error)
	Remove(ctx context.Context, sessionID, itemID string) (*model.CartView, error)
	Update(ctx context.Context, sessionID, itemID string, qty int) (*model.CartView, error)
}

// CartHandler はセッションカートのHTTPハンドラー。
// セッションはCartSessionMiddlewareがコンテキストに注入する。
type CartHandler struct {
	service  CartServiceInterface
	mediaURL string
}

// NewCartHandler はCartHandlerを生成する。
func NewCartHandler(service CartServiceInterface, mediaURL string) *CartHandler {
	return &CartHandler{
		service:  service,
		mediaURL: mediaURL,
	}
}

// cartLineResponse はカート1行のレスポンス。
type cartLineResponse struct {
	Item     itemResponse `json:"item"`
	Qty      int          `json:"qty"`
	Subtotal int64        `json:"subtotal"`
}

// cartResponse はカートのレスポンス。
type cartResponse struct {
	Items []cartLineResponse `json:"items"`
	Total int64              `json:"total"`
}

// cartUpdateRequest は数量更新リクエストのボディ。
// qtyは数値と文字列のどちらも受け付ける。
type cartUpdateRequest struct {
	Qty json.RawMessage `json:"qty"`
}

// View はカートの内容を返す。
// GET /api/cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSessionID(w, r)
	if !ok {
		return
	}

	view, err := h.service.View(r.Context(), sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toCartResponse(view))
}

// Add は商品をカートに1つ追加する。
// POST /api/cart/:id
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSessionID(w, r)
	if !ok {
		return
	}

	view, err := h.service.Add(r.Context(), sessionID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toCartResponse(view))
}

// Remove は商品をカートから取り除く。カートにない商品でも成功する。
// DELETE /api/cart/:id
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSessionID(w, r)
	if !ok {
		return
	}

	view, err := h.service.Remove(r.Context(), sessionID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toCartResponse(view))
}

// Update は数量を設定する。0以下の数量は行を削除する。
// PUT /api/cart/:id
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireSessionID(w, r)
	if !ok {
		return
	}

	var req cartUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "Не удалось разобрать тело запроса.")
		return
	}

	// qtyが省略された場合は1とみなす
	raw := strings.Trim(string(req.Qty), `"`)
	if len(req.Qty) == 0 {
		raw = "1"
	}
	qty, err := cart.ParseQuantity(raw)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	view, err := h.service.Update(r.Context(), sessionID, chi.URLParam(r, "id"), qty)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toCartResponse(view))
}

func (h *CartHandler) toCartResponse(view *model.CartView) cartResponse {
	resp := cartResponse{
		Items: make([]cartLineResponse, 0, len(view.Lines)),
		Total: view.Total,
	}
	for i := range view.Lines {
		line := &view.Lines[i]
		resp.Items = append(resp.Items, cartLineResponse{
			Item:     toItemResponse(&line.Item, h.mediaURL),
			Qty:      line.Qty,
			Subtotal: line.Subtotal,
		})
	}
	return resp
}

// requireSessionID はコンテキストからセッションIDを取得する。
// ミドルウェアが注入していない場合は500を書き込みfalseを返す。
func requireSessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID, err := middleware.SessionIDFromContext(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return "", false
	}
	return sessionID, true
}
