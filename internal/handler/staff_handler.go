package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/cozyyu/internal/middleware"
	"github.com/hitoshi/cozyyu/internal/model"
)

// maxImageUploadSize は商品画像アップロードの最大サイズ（10MB）。
const maxImageUploadSize = 10 << 20

// StaffServiceInterface はスタッフ向け商品管理ハンドラーが必要とするサービスインターフェース。
type StaffServiceInterface interface {
	Create(ctx context.Context, userID string, form model.ItemForm) (*model.Item, error)
	Update(ctx context.Context, userID, id string, form model.ItemForm) (*model.Item, error)
	Delete(ctx context.Context, userID, id string) error
	AttachImage(ctx context.Context, userID, id, filename string, r io.Reader) (*model.Item, error)
}

// StaffHandler はスタッフによる商品の作成・編集・削除を扱うHTTPハンドラー。
type StaffHandler struct {
	service  StaffServiceInterface
	mediaURL string
}

// NewStaffHandler はStaffHandlerを生成する。
func NewStaffHandler(service StaffServiceInterface, mediaURL string) *StaffHandler {
	return &StaffHandler{
		service:  service,
		mediaURL: mediaURL,
	}
}

// CreateItem は商品を登録する。
// POST /api/items
func (h *StaffHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	form, ok := decodeItemForm(w, r)
	if !ok {
		return
	}

	created, err := h.service.Create(r.Context(), userID, form)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toItemResponse(created, h.mediaURL))
}

// UpdateItem は商品を更新する。所有者のみ更新できる。
// PUT /api/items/:id
func (h *StaffHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	form, ok := decodeItemForm(w, r)
	if !ok {
		return
	}

	updated, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), form)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(updated, h.mediaURL))
}

// DeleteItem は商品を削除する。所有者のみ削除できる。
// DELETE /api/items/:id
func (h *StaffHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadImage は商品画像を差し替える。multipartの"image"フィールドを受け付ける。
// PUT /api/items/:id/image
func (h *StaffHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadSize)
	if err := r.ParseMultipartForm(maxImageUploadSize); err != nil {
		handleServiceError(w, model.NewInvalidImageError("не удалось прочитать форму"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		handleServiceError(w, model.NewInvalidImageError("файл не передан"))
		return
	}
	defer file.Close()

	updated, err := h.service.AttachImage(r.Context(), userID, chi.URLParam(r, "id"), header.Filename, file)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(updated, h.mediaURL))
}

// requireUserID はコンテキストからユーザーIDを取得する。未認証の場合は401を書き込みfalseを返す。
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return "", false
	}
	return userID, true
}

func decodeItemForm(w http.ResponseWriter, r *http.Request) (model.ItemForm, bool) {
	var form model.ItemForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeInvalidRequest(w, "Не удалось разобрать тело запроса.")
		return form, false
	}
	return form, true
}
