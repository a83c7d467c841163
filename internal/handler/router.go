package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/onmind/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// エントリ
	EntryService EntryServiceInterface

	// タグ・カテゴリ
	TagService      TagServiceInterface
	TagEntryLister  EntryLister
	CategoryService CategoryServiceInterface

	// メタデータ・取り込み
	MetadataFetcher MetadataFetcher
	FeedImporter    FeedImporter

	// メトリクス
	Metrics MetricsRecorder
	// HTTPMetrics が nil でない場合、全ルートにステータス・レイテンシ記録を適用する。
	HTTPMetrics middleware.HTTPMetricsRecorder
	// MetricsHandler が nil でない場合、GET /metrics で公開する。
	MetricsHandler http.Handler
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → CORS → SecurityHeaders → Logging → Session → CSRF → RateLimit(General)
//
// 認証ルート（/auth/*）はミドルウェアチェーンの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルートに効くミドルウェア
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	if deps.HTTPMetrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.HTTPMetrics))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	entryHandler := NewEntryHandler(deps.EntryService, deps.Metrics)
	tagHandler := NewTagHandler(deps.TagService, deps.TagEntryLister, deps.Metrics)
	categoryHandler := NewCategoryHandler(deps.CategoryService, deps.Metrics)
	metadataHandler := NewMetadataHandler(deps.MetadataFetcher, deps.Metrics)
	importHandler := NewImportHandler(deps.FeedImporter)

	// --- 認証不要のルート ---

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheusメトリクス公開（設定された場合のみ）
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// CSRFトークン取得（ログイン前のフォーム初期化でも使うため認証不要）
	r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

	// 認証ルート
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.SignUp)
		r.Post("/signin", authHandler.SignIn)
		r.Get("/google/login", authHandler.Login)
		r.Get("/google/callback", authHandler.Callback)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → CSRF → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// エントリ管理
		r.Route("/api/entries", func(r chi.Router) {
			r.Get("/", entryHandler.ListEntries)
			r.Post("/", entryHandler.CreateEntry)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", entryHandler.GetEntry)
				r.Put("/", entryHandler.UpdateEntry)
				r.Delete("/", entryHandler.DeleteEntry)
				r.Put("/favorite", entryHandler.SetFavorite)
				r.Put("/pin", entryHandler.SetPinned)
			})
		})

		// タグ管理（一括操作には専用レート制限を追加）
		r.Route("/api/tags", func(r chi.Router) {
			r.Get("/", tagHandler.ListTags)
			r.Get("/available", tagHandler.AvailableTags)
			r.With(deps.RateLimiter.TaxonomyMiddleware()).Post("/rename", tagHandler.RenameTag)
			r.With(deps.RateLimiter.TaxonomyMiddleware()).Post("/delete", tagHandler.DeleteTag)
		})

		// カテゴリ管理（一括操作には専用レート制限を追加）
		r.Route("/api/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.ListCategories)
			r.Post("/", categoryHandler.AddCategory)
			r.With(deps.RateLimiter.TaxonomyMiddleware()).Post("/rename", categoryHandler.RenameCategory)
			r.With(deps.RateLimiter.TaxonomyMiddleware()).Post("/delete", categoryHandler.DeleteCategory)
		})

		// URLメタデータ取得
		r.Post("/api/metadata", metadataHandler.FetchMetadata)

		// フィード取り込み（一括書き込みのため専用レート制限を追加）
		r.With(deps.RateLimiter.TaxonomyMiddleware()).Post("/api/import", importHandler.ImportFeed)
	})

	return r
}
