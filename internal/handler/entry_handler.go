package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/onmind/internal/entry"
	"github.com/hitoshi/onmind/internal/filter"
	"github.com/hitoshi/onmind/internal/middleware"
	"github.com/hitoshi/onmind/internal/model"
)

// EntryServiceInterface はエントリハンドラーが必要とするサービスインターフェース。
type EntryServiceInterface interface {
	// List はユーザーの全エントリを既定のフェッチ順で返す。
	List(ctx context.Context, userID string) ([]*model.Entry, error)
	// Get は所有エントリを一件取得する。
	Get(ctx context.Context, userID, entryID string) (*model.Entry, error)
	// Create は新規エントリを作成する。
	Create(ctx context.Context, userID string, in entry.Input) (*model.Entry, error)
	// Update は所有エントリを更新する。
	Update(ctx context.Context, userID, entryID string, in entry.Input) (*model.Entry, error)
	// Delete は所有エントリを削除する。
	Delete(ctx context.Context, userID, entryID string) error
	// SetFavorite はお気に入りフラグを切り替える。
	SetFavorite(ctx context.Context, userID, entryID string, isFavorite bool) error
	// SetPinned はピン留めフラグを切り替える。
	SetPinned(ctx context.Context, userID, entryID string, isPinned bool) error
}

// MetricsRecorder はハンドラー層が記録するメトリクスのインターフェース。
// metrics.Collectorを抽象化してテスタビリティを向上させる。
type MetricsRecorder interface {
	RecordEntryCreated(category string)
	RecordFanout(operation string, entries int)
	RecordFanoutFailure(operation string)
	RecordMetadataFetch(success bool)
}

// EntryHandler はエントリ管理のHTTPハンドラー。
type EntryHandler struct {
	service EntryServiceInterface
	metrics MetricsRecorder
}

// NewEntryHandler はEntryHandlerを生成する。
func NewEntryHandler(service EntryServiceInterface, metrics MetricsRecorder) *EntryHandler {
	return &EntryHandler{
		service: service,
		metrics: metrics,
	}
}

// entryResponse はエントリのAPIレスポンス。
type entryResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Explanation *string   `json:"explanation"`
	URL         string    `json:"url"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	IsFavorite  bool      `json:"isFavorite"`
	IsPinned    bool      `json:"isPinned"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// toggleRequest はフラグ切り替えリクエストのボディ。
type toggleRequest struct {
	Value bool `json:"value"`
}

// ListEntries はエントリ一覧を返す。
// クエリパラメータでフィルタ状態を指定できる。条件を一つも指定しない
// 場合は空集合を返し、showAll=trueで全件を返す。
// GET /api/entries?q=&category=&tags=a,b&showAll=true
func (h *EntryHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	entries, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	state := filterStateFromQuery(r)
	visible := filter.Visible(entries, state)

	responses := make([]entryResponse, 0, len(visible))
	for _, e := range visible {
		responses = append(responses, toEntryResponse(e))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"entries": responses,
		"total":   len(entries),
	})
}

// GetEntry はエントリ詳細を取得する。
// GET /api/entries/:id
func (h *EntryHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}
	entryID := chi.URLParam(r, "id")

	e, err := h.service.Get(r.Context(), userID, entryID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toEntryResponse(e))
}

// CreateEntry は新規エントリを作成する。
// POST /api/entries
func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var in entry.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}

	created, err := h.service.Create(r.Context(), userID, in)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	h.metrics.RecordEntryCreated(created.Category)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toEntryResponse(created))
}

// UpdateEntry は所有エントリを更新する。
// PUT /api/entries/:id
func (h *EntryHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}
	entryID := chi.URLParam(r, "id")

	var in entry.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}

	updated, err := h.service.Update(r.Context(), userID, entryID, in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toEntryResponse(updated))
}

// DeleteEntry は所有エントリを削除する。
// DELETE /api/entries/:id
func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}
	entryID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), userID, entryID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetFavorite はお気に入りフラグを切り替える。
// PUT /api/entries/:id/favorite
func (h *EntryHandler) SetFavorite(w http.ResponseWriter, r *http.Request) {
	h.toggleFlag(w, r, h.service.SetFavorite)
}

// SetPinned はピン留めフラグを切り替える。
// PUT /api/entries/:id/pin
func (h *EntryHandler) SetPinned(w http.ResponseWriter, r *http.Request) {
	h.toggleFlag(w, r, h.service.SetPinned)
}

// toggleFlag はフラグ切り替え系エンドポイントの共通処理。
func (h *EntryHandler) toggleFlag(w http.ResponseWriter, r *http.Request, set func(ctx context.Context, userID, entryID string, value bool) error) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}
	entryID := chi.URLParam(r, "id")

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}

	if err := set(r.Context(), userID, entryID, req.Value); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- ヘルパー関数 ---

// filterStateFromQuery はクエリパラメータからフィルタ状態を組み立てる。
func filterStateFromQuery(r *http.Request) filter.State {
	q := r.URL.Query()
	state := filter.State{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		ShowAll:  q.Get("showAll") == "true",
	}
	if tags := q.Get("tags"); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				state.Tags = append(state.Tags, t)
			}
		}
	}
	return state
}

// toEntryResponse はmodel.EntryからAPIレスポンスに変換する。
func toEntryResponse(e *model.Entry) entryResponse {
	return entryResponse{
		ID:          e.ID,
		Title:       e.Title,
		Content:     e.Content,
		Explanation: e.Explanation,
		URL:         e.URL,
		Category:    e.Category,
		Tags:        e.Tags,
		IsFavorite:  e.IsFavorite,
		IsPinned:    e.IsPinned,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	middleware.WriteErrorResponse(w, statusCode, apiErr)
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeEntryNotFound:
		return http.StatusNotFound
	case model.ErrCodeValidationFailed, model.ErrCodeInvalidURL:
		return http.StatusBadRequest
	case model.ErrCodeDuplicateCategory:
		return http.StatusConflict
	case model.ErrCodeCannotDeleteDefault, model.ErrCodeCannotRenameDefault:
		return http.StatusUnprocessableEntity
	case model.ErrCodePartialFanout:
		return http.StatusConflict
	case model.ErrCodeSSRFBlocked:
		return http.StatusForbidden
	case model.ErrCodeEmailTaken:
		return http.StatusConflict
	case model.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case model.ErrCodeFeedImportFailed:
		return http.StatusUnprocessableEntity
	case model.ErrCodeMetadataFetchFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
