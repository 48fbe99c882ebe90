package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/cozyyu/internal/item"
	"github.com/hitoshi/cozyyu/internal/model"
	"github.com/hitoshi/cozyyu/internal/suggest"
)

// CatalogServiceInterface はカタログ閲覧ハンドラーが必要とするサービスインターフェース。
type CatalogServiceInterface interface {
	// ListItems は未販売の商品一覧と全カテゴリを返す。
	ListItems(ctx context.Context, filter model.ItemFilter) (*item.ListResult, error)
	// ListCategories は全カテゴリを返す。
	ListCategories(ctx context.Context) ([]model.Category, error)
	// GetDetail は商品詳細と関連商品を返す。
	GetDetail(ctx context.Context, id string) (*item.DetailResult, error)
	// Recommendations はおすすめ選択画面の内容を返す。
	Recommendations(ctx context.Context, selectedID, query string) (*item.RecommendationResult, error)
	// Autocomplete は検索ボックスの補完候補を返す。
	Autocomplete(ctx context.Context, q string) ([]suggest.Suggestion, error)
}

// CatalogHandler はカタログ閲覧のHTTPハンドラー。
type CatalogHandler struct {
	service  CatalogServiceInterface
	mediaURL string
}

// NewCatalogHandler はCatalogHandlerを生成する。
// mediaURLは画像パスの前に付けるURLプレフィックス（末尾スラッシュ付き）。
func NewCatalogHandler(service CatalogServiceInterface, mediaURL string) *CatalogHandler {
	return &CatalogHandler{
		service:  service,
		mediaURL: mediaURL,
	}
}

// --- レスポンス型 ---

// categoryResponse はカテゴリのレスポンス。
type categoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// itemResponse は商品のレスポンス。
type itemResponse struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	Price            int64             `json:"price"`
	Category         *categoryResponse `json:"category"`
	Style            string            `json:"style,omitempty"`
	Color            string            `json:"color,omitempty"`
	SizeCategory     string            `json:"size_category,omitempty"`
	Tags             []string          `json:"tags"`
	IsSold           bool              `json:"is_sold"`
	ImageURL         string            `json:"image_url,omitempty"`
	ImagePlaceholder string            `json:"image_placeholder,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// itemListResponse は商品一覧のレスポンス。
type itemListResponse struct {
	Items      []itemResponse     `json:"items"`
	Categories []categoryResponse `json:"categories"`
}

// itemDetailResponse は商品詳細のレスポンス。
type itemDetailResponse struct {
	itemResponse
	RelatedItems []itemResponse `json:"related_items"`
}

// recommendationResponse はおすすめ選択画面のレスポンス。
type recommendationResponse struct {
	AvailableItems   []itemResponse `json:"available_items"`
	SelectedItem     *itemResponse  `json:"selected_item"`
	RecommendedItems []itemResponse `json:"recommended_items"`
}

// suggestionResponse は補完候補1件のレスポンス。
type suggestionResponse struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// ListCategories は全カテゴリを返す。
// GET /api/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]categoryResponse{
		"categories": toCategoryResponses(categories),
	})
}

// ListItems は商品一覧を返す。
// GET /api/items?query=xxx&category=uuid&category_name=xxx
func (h *CatalogHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.ItemFilter{
		Query:        q.Get("query"),
		CategoryID:   q.Get("category"),
		CategoryName: q.Get("category_name"),
	}

	result, err := h.service.ListItems(r.Context(), filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, itemListResponse{
		Items:      h.toItemResponses(result.Items),
		Categories: toCategoryResponses(result.Categories),
	})
}

// Autocomplete は検索ボックスの補完候補を返す。
// GET /api/items/autocomplete?q=xxx
func (h *CatalogHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.service.Autocomplete(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]suggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		resp = append(resp, suggestionResponse{Text: s.Text, Type: s.Kind.Label()})
	}
	writeJSON(w, http.StatusOK, map[string][]suggestionResponse{
		"suggestions": resp,
	})
}

// GetItem は商品詳細と関連商品を返す。
// GET /api/items/:id
func (h *CatalogHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	detail, err := h.service.GetDetail(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, itemDetailResponse{
		itemResponse: h.toItemResponse(detail.Item),
		RelatedItems: h.toItemResponses(detail.Related),
	})
}

// Recommendations はおすすめ選択画面の内容を返す。
// GET /api/recommendations?item_id=uuid&query=xxx
func (h *CatalogHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	result, err := h.service.Recommendations(r.Context(), q.Get("item_id"), q.Get("query"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := recommendationResponse{
		AvailableItems:   h.toItemResponses(result.Available),
		RecommendedItems: h.toItemResponses(result.Recommended),
	}
	if result.Selected != nil {
		selected := h.toItemResponse(result.Selected)
		resp.SelectedItem = &selected
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- ヘルパー関数 ---

// toItemResponse はmodel.ItemからAPIレスポンスに変換する。
func (h *CatalogHandler) toItemResponse(it *model.Item) itemResponse {
	return toItemResponse(it, h.mediaURL)
}

func (h *CatalogHandler) toItemResponses(items []model.Item) []itemResponse {
	resp := make([]itemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, h.toItemResponse(&items[i]))
	}
	return resp
}

// toItemResponse は画像パスにmediaURLを付けて商品レスポンスを組み立てる。
func toItemResponse(it *model.Item, mediaURL string) itemResponse {
	resp := itemResponse{
		ID:               it.ID,
		Name:             it.Name,
		Description:      it.Description,
		Price:            it.Price,
		Style:            it.Style,
		Color:            it.Color,
		SizeCategory:     string(it.SizeCategory),
		Tags:             it.Tags,
		IsSold:           it.IsSold,
		ImagePlaceholder: it.ImagePlaceholder,
		CreatedAt:        it.CreatedAt,
		UpdatedAt:        it.UpdatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if it.Category != nil {
		resp.Category = &categoryResponse{ID: it.Category.ID, Name: it.Category.Name}
	}
	if it.Image != "" {
		resp.ImageURL = mediaURL + it.Image
	}
	return resp
}

func toCategoryResponses(categories []model.Category) []categoryResponse {
	resp := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, categoryResponse{ID: c.ID, Name: c.Name})
	}
	return resp
}
