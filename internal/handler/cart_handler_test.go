package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/cozyyu/internal/model"
)

func cartWithSofa(qty int) *model.CartView {
	line := model.CartLine{Item: sofa("item-1"), Qty: qty}
	line.Subtotal = line.Item.Price * int64(qty)
	return &model.CartView{Lines: []model.CartLine{line}, Total: line.Subtotal}
}

func TestCartHandler_View(t *testing.T) {
	var gotSession string
	svc := &mockCartService{
		viewFn: func(_ context.Context, sessionID string) (*model.CartView, error) {
			gotSession = sessionID
			return cartWithSofa(2), nil
		},
	}
	h := NewCartHandler(svc, testMediaURL)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req = withSessionID(req, "sess-1")
	w := httptest.NewRecorder()
	h.View(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotSession != "sess-1" {
		t.Errorf("sessionID = %q", gotSession)
	}

	var resp cartResponse
	decodeJSON(t, w, &resp)
	if len(resp.Items) != 1 || resp.Items[0].Qty != 2 || resp.Items[0].Subtotal != 240000 {
		t.Errorf("items = %+v", resp.Items)
	}
	if resp.Total != 240000 {
		t.Errorf("total = %d, want 240000", resp.Total)
	}
}

func TestCartHandler_View_NoSession(t *testing.T) {
	h := NewCartHandler(&mockCartService{}, testMediaURL)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	w := httptest.NewRecorder()
	h.View(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestCartHandler_Add_UnknownItem(t *testing.T) {
	svc := &mockCartService{
		addFn: func(_ context.Context, _, itemID string) (*model.CartView, error) {
			return nil, model.NewItemNotFoundError(itemID)
		},
	}
	h := NewCartHandler(svc, testMediaURL)

	req := httptest.NewRequest(http.MethodPost, "/api/cart/missing", nil)
	req = withSessionID(req, "sess-1")
	req = withChiURLParam(req, "id", "missing")
	w := httptest.NewRecorder()
	h.Add(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestCartHandler_Remove(t *testing.T) {
	var gotItem string
	svc := &mockCartService{
		removeFn: func(_ context.Context, _, itemID string) (*model.CartView, error) {
			gotItem = itemID
			return &model.CartView{Lines: []model.CartLine{}}, nil
		},
	}
	h := NewCartHandler(svc, testMediaURL)

	req := httptest.NewRequest(http.MethodDelete, "/api/cart/item-1", nil)
	req = withSessionID(req, "sess-1")
	req = withChiURLParam(req, "id", "item-1")
	w := httptest.NewRecorder()
	h.Remove(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotItem != "item-1" {
		t.Errorf("itemID = %q", gotItem)
	}
	if body := w.Body.String(); body != "{\"items\":[],\"total\":0}\n" {
		t.Errorf("body = %q", body)
	}
}

func TestCartHandler_Update_Quantity(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantQty int
	}{
		{"数値", `{"qty":3}`, 3},
		{"文字列", `{"qty":"4"}`, 4},
		{"ゼロ", `{"qty":0}`, 0},
		{"負数", `{"qty":-1}`, -1},
		{"省略時は1", `{}`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotQty := -100
			svc := &mockCartService{
				updateFn: func(_ context.Context, _, _ string, qty int) (*model.CartView, error) {
					gotQty = qty
					return &model.CartView{Lines: []model.CartLine{}}, nil
				},
			}
			h := NewCartHandler(svc, testMediaURL)

			req := httptest.NewRequest(http.MethodPut, "/api/cart/item-1", strings.NewReader(tt.body))
			req = withSessionID(req, "sess-1")
			req = withChiURLParam(req, "id", "item-1")
			w := httptest.NewRecorder()
			h.Update(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
			}
			if gotQty != tt.wantQty {
				t.Errorf("qty = %d, want %d", gotQty, tt.wantQty)
			}
		})
	}
}

func TestCartHandler_Update_InvalidQuantity(t *testing.T) {
	called := false
	svc := &mockCartService{
		updateFn: func(context.Context, string, string, int) (*model.CartView, error) {
			called = true
			return nil, nil
		},
	}
	h := NewCartHandler(svc, testMediaURL)

	for _, body := range []string{`{"qty":"abc"}`, `{"qty":1.5}`, `{"qty":"9223372036854775807"}`, `{"qty":1000}`} {
		req := httptest.NewRequest(http.MethodPut, "/api/cart/item-1", strings.NewReader(body))
		req = withSessionID(req, "sess-1")
		req = withChiURLParam(req, "id", "item-1")
		w := httptest.NewRecorder()
		h.Update(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want %d", body, w.Code, http.StatusBadRequest)
		}
		if errResp := parseAPIErrorResponse(t, w); errResp["code"] != model.ErrCodeInvalidQuantity {
			t.Errorf("body %s: code = %q", body, errResp["code"])
		}
	}
	if called {
		t.Error("service should not be called for an invalid quantity")
	}
}
