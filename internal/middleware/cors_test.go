package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCORSMiddleware_AllowsCartAndCSRFHeader(t *testing.T) {
	called := false
	handler := NewCORSMiddleware("https://shop.example")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/items", nil))

	if !called {
		t.Fatal("GET should reach the handler")
	}
	h := w.Header()
	if got := h.Get("Access-Control-Allow-Origin"); got != "https://shop.example" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := h.Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Allow-Credentials = %q", got)
	}
	for _, m := range []string{"PUT", "DELETE"} {
		if !strings.Contains(h.Get("Access-Control-Allow-Methods"), m) {
			t.Errorf("Allow-Methods %q missing %s", h.Get("Access-Control-Allow-Methods"), m)
		}
	}
	if !strings.Contains(h.Get("Access-Control-Allow-Headers"), csrfHeaderName) {
		t.Errorf("Allow-Headers %q missing %s", h.Get("Access-Control-Allow-Headers"), csrfHeaderName)
	}
}

// カート数量変更のプリフライトは後続に渡さず204で応答する
func TestCORSMiddleware_PreflightForCartUpdate(t *testing.T) {
	handler := NewCORSMiddleware("https://shop.example")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("preflight should not reach the handler")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/cart/item-1", nil)
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", csrfHeaderName)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Max-Age"); got != "86400" {
		t.Errorf("Max-Age = %q", got)
	}
}
