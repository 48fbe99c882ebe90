package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/hitoshi/cozyyu/internal/middleware"
)

// HealthChecker はヘルスチェックでDB疎通を確認するインターフェース。
// *sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker     HealthChecker
	SessionFinder     middleware.SessionFinder
	SessionEnsurer    middleware.SessionEnsurer
	CookieConfig      middleware.CookieConfig
	CSRFConfig        middleware.CSRFConfig
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	StatusRecorder    middleware.StatusRecorder
	MetricsHandler    http.Handler

	// メディア
	MediaRoot string
	MediaURL  string

	// サービス
	AuthService    AuthServiceInterface
	CatalogService CatalogServiceInterface
	StaffService   StaffServiceInterface
	CartService    CartServiceInterface
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RealIP → Recovery → Logging → SecurityHeaders → CORS → CSRF → RateLimit(General)
//
// 補完APIには専用の厳しいレート制限を追加する。
// カートルートは匿名セッションを発行し、スタッフ向けルートはログイン済みセッションを必須とする。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger, deps.StatusRecorder))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService, deps.CookieConfig)
	catalogHandler := NewCatalogHandler(deps.CatalogService, deps.MediaURL)
	staffHandler := NewStaffHandler(deps.StaffService, deps.MediaURL)
	cartHandler := NewCartHandler(deps.CartService, deps.MediaURL)

	// --- 運用ルート（CSRF・レート制限の対象外） ---
	r.Get("/health", healthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}
	if deps.MediaRoot != "" {
		mediaPrefix := "/" + strings.Trim(deps.MediaURL, "/") + "/"
		r.Handle(mediaPrefix+"*", http.StripPrefix(mediaPrefix, http.FileServer(http.Dir(deps.MediaRoot))))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

		// 認証
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)
		})

		// カタログ閲覧（認証不要）
		r.Get("/api/categories", catalogHandler.ListCategories)
		r.Get("/api/recommendations", catalogHandler.Recommendations)
		r.Route("/api/items", func(r chi.Router) {
			r.Get("/", catalogHandler.ListItems)
			r.With(deps.RateLimiter.AutocompleteMiddleware()).Get("/autocomplete", catalogHandler.Autocomplete)
			r.Get("/{id}", catalogHandler.GetItem)

			// スタッフ向け商品管理
			r.Group(func(r chi.Router) {
				r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
				r.Post("/", staffHandler.CreateItem)
				r.Put("/{id}", staffHandler.UpdateItem)
				r.Delete("/{id}", staffHandler.DeleteItem)
				r.Put("/{id}/image", staffHandler.UploadImage)
			})
		})

		// カート（匿名セッションを発行）
		r.Route("/api/cart", func(r chi.Router) {
			r.Use(middleware.NewCartSessionMiddleware(deps.SessionEnsurer, deps.CookieConfig))
			r.Get("/", cartHandler.View)
			r.Post("/{id}", cartHandler.Add)
			r.Delete("/{id}", cartHandler.Remove)
			r.Put("/{id}", cartHandler.Update)
		})
	})

	return r
}

// healthHandler はDB疎通を確認し {"status":"ok"} を返す。
// GET /health
func healthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
