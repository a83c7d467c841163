package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/onmind/internal/metadata"
	"github.com/hitoshi/onmind/internal/middleware"
	"github.com/hitoshi/onmind/internal/model"
)

// MetadataFetcher はメタデータ取得のインターフェース。
type MetadataFetcher interface {
	// Fetch はURLからタイトル等のメタデータを取得する。
	// 失敗は結果の中のフラグで表現され、エラーとしては扱わない。
	Fetch(ctx context.Context, rawURL string) metadata.Result
}

// MetadataHandler はURLメタデータ取得のHTTPハンドラー。
type MetadataHandler struct {
	fetcher MetadataFetcher
	metrics MetricsRecorder
}

// NewMetadataHandler はMetadataHandlerを生成する。
func NewMetadataHandler(fetcher MetadataFetcher, metrics MetricsRecorder) *MetadataHandler {
	return &MetadataHandler{
		fetcher: fetcher,
		metrics: metrics,
	}
}

// fetchMetadataRequest はメタデータ取得リクエストのボディ。
type fetchMetadataRequest struct {
	URL string `json:"url"`
}

// FetchMetadata はURLのメタデータを取得する。
// 取得失敗は保存フローを止めないため、常に200でsuccessフラグを返す。
// POST /api/metadata
func (h *MetadataHandler) FetchMetadata(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.UserIDFromContext(r.Context()); err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req fetchMetadataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}
	if req.URL == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidURLError("URLが空です"))
		return
	}

	result := h.fetcher.Fetch(r.Context(), req.URL)
	h.metrics.RecordMetadataFetch(result.Success)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
