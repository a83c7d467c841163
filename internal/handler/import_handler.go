package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/onmind/internal/feedimport"
	"github.com/hitoshi/onmind/internal/middleware"
	"github.com/hitoshi/onmind/internal/model"
)

// FeedImporter はフィード取り込みのインターフェース。
type FeedImporter interface {
	// Import はRSS/Atomフィードの記事をReferenceカテゴリのエントリとして取り込む。
	Import(ctx context.Context, userID, feedURL string) (*feedimport.ImportResult, error)
}

// ImportHandler はフィード取り込みのHTTPハンドラー。
type ImportHandler struct {
	importer FeedImporter
}

// NewImportHandler はImportHandlerを生成する。
func NewImportHandler(importer FeedImporter) *ImportHandler {
	return &ImportHandler{importer: importer}
}

// importRequest はフィード取り込みリクエストのボディ。
type importRequest struct {
	URL string `json:"url"`
}

// ImportFeed はフィードURLから記事を一括取り込みする。
// POST /api/import
func (h *ImportHandler) ImportFeed(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}
	if req.URL == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidURLError("フィードURLが空です"))
		return
	}

	result, err := h.importer.Import(r.Context(), userID, req.URL)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
