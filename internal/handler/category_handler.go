package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/onmind/internal/middleware"
	"github.com/hitoshi/onmind/internal/model"
)

// CategoryServiceInterface はカテゴリハンドラーが必要とするサービスインターフェース。
type CategoryServiceInterface interface {
	// ListCategories は既定カテゴリとカスタムカテゴリの一覧を返す。
	ListCategories(ctx context.Context, userID string) ([]string, error)
	// AddCategory は新しいカスタムカテゴリを追加する。
	AddCategory(ctx context.Context, userID, name string) error
	// DeleteCategory はカテゴリを削除し、エントリを付け替えて更新件数を返す。
	DeleteCategory(ctx context.Context, userID, target, replacement string) (int, error)
	// RenameCategory はカテゴリを改名し、更新件数を返す。
	RenameCategory(ctx context.Context, userID, oldName, newName string) (int, error)
}

// CategoryHandler はカテゴリ管理のHTTPハンドラー。
type CategoryHandler struct {
	service CategoryServiceInterface
	metrics MetricsRecorder
}

// NewCategoryHandler はCategoryHandlerを生成する。
func NewCategoryHandler(service CategoryServiceInterface, metrics MetricsRecorder) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		metrics: metrics,
	}
}

// addCategoryRequest はカテゴリ追加リクエストのボディ。
type addCategoryRequest struct {
	Name string `json:"name"`
}

// renameCategoryRequest はカテゴリ改名リクエストのボディ。
type renameCategoryRequest struct {
	OldName string `json:"oldName"`
	NewName string `json:"newName"`
}

// deleteCategoryRequest はカテゴリ削除リクエストのボディ。
// Replacementを省略した場合は "Uncategorized" へ付け替える。
type deleteCategoryRequest struct {
	Name        string `json:"name"`
	Replacement string `json:"replacement"`
}

// ListCategories はカテゴリ一覧を返す。
// GET /api/categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	categories, err := h.service.ListCategories(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"categories": categories})
}

// AddCategory は新しいカスタムカテゴリを追加する。
// POST /api/categories
func (h *CategoryHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req addCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}

	if err := h.service.AddCategory(r.Context(), userID, req.Name); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// RenameCategory はカテゴリを改名し、属する全エントリを付け替える。
// POST /api/categories/rename
func (h *CategoryHandler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req renameCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}

	updated, err := h.service.RenameCategory(r.Context(), userID, req.OldName, req.NewName)
	if err != nil {
		h.metrics.RecordFanoutFailure("rename_category")
		handleServiceError(w, err)
		return
	}
	h.metrics.RecordFanout("rename_category", updated)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(fanoutResponse{Updated: updated})
}

// DeleteCategory はカテゴリを削除し、属する全エントリを付け替える。
// POST /api/categories/delete
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req deleteCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}
	if req.Name == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("カテゴリ名を入力してください"))
		return
	}

	updated, err := h.service.DeleteCategory(r.Context(), userID, req.Name, req.Replacement)
	if err != nil {
		h.metrics.RecordFanoutFailure("delete_category")
		handleServiceError(w, err)
		return
	}
	h.metrics.RecordFanout("delete_category", updated)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(fanoutResponse{Updated: updated})
}
