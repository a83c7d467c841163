package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/onmind/internal/filter"
	"github.com/hitoshi/onmind/internal/middleware"
	"github.com/hitoshi/onmind/internal/model"
)

// TagServiceInterface はタグハンドラーが必要とするサービスインターフェース。
type TagServiceInterface interface {
	// ListTags は全エントリのタグの和集合を返す。
	ListTags(ctx context.Context, userID string) ([]string, error)
	// DeleteTag は指定タグを全エントリから取り除き、更新件数を返す。
	DeleteTag(ctx context.Context, userID, tag string) (int, error)
	// RenameTag はタグを改名し、更新件数を返す。
	RenameTag(ctx context.Context, userID, oldTag, newTag string) (int, error)
}

// EntryLister はタグ候補の集計に使うエントリ一覧のインターフェース。
type EntryLister interface {
	List(ctx context.Context, userID string) ([]*model.Entry, error)
}

// TagHandler はタグ管理のHTTPハンドラー。
type TagHandler struct {
	service TagServiceInterface
	entries EntryLister
	metrics MetricsRecorder
}

// NewTagHandler はTagHandlerを生成する。
func NewTagHandler(service TagServiceInterface, entries EntryLister, metrics MetricsRecorder) *TagHandler {
	return &TagHandler{
		service: service,
		entries: entries,
		metrics: metrics,
	}
}

// renameTagRequest はタグ改名リクエストのボディ。
type renameTagRequest struct {
	OldTag string `json:"oldTag"`
	NewTag string `json:"newTag"`
}

// deleteTagRequest はタグ削除リクエストのボディ。
type deleteTagRequest struct {
	Tag string `json:"tag"`
}

// fanoutResponse はファンアウト更新系エンドポイントのレスポンス。
type fanoutResponse struct {
	Updated int `json:"updated"`
}

// ListTags は全タグの一覧を返す。
// GET /api/tags
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	tags, err := h.service.ListTags(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"tags": tags})
}

// AvailableTags は選択中カテゴリに属するエントリのタグ候補を返す。
// カテゴリ未指定の場合は空の候補を返す。
// GET /api/tags/available?category=Journal&sort=frequency
func (h *TagHandler) AvailableTags(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	sortBy := filter.TagSort(r.URL.Query().Get("sort"))
	if sortBy == "" {
		sortBy = filter.TagSortAtoZ
	}
	if !filter.IsValidTagSort(sortBy) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("不明なソート指定です"))
		return
	}

	entries, err := h.entries.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	tags := filter.AvailableTags(entries, r.URL.Query().Get("category"), sortBy)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"tags": tags})
}

// RenameTag はタグを改名し、共有する全エントリへ付け替えを波及させる。
// POST /api/tags/rename
func (h *TagHandler) RenameTag(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req renameTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}

	updated, err := h.service.RenameTag(r.Context(), userID, req.OldTag, req.NewTag)
	if err != nil {
		h.metrics.RecordFanoutFailure("rename_tag")
		handleServiceError(w, err)
		return
	}
	h.metrics.RecordFanout("rename_tag", updated)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(fanoutResponse{Updated: updated})
}

// DeleteTag はタグを削除し、共有する全エントリから取り除く。
// POST /api/tags/delete
func (h *TagHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req deleteTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}
	if req.Tag == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("タグ名を入力してください"))
		return
	}

	updated, err := h.service.DeleteTag(r.Context(), userID, req.Tag)
	if err != nil {
		h.metrics.RecordFanoutFailure("delete_tag")
		handleServiceError(w, err)
		return
	}
	h.metrics.RecordFanout("delete_tag", updated)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(fanoutResponse{Updated: updated})
}
