package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/onmind/internal/metadata"
)

// mockMetadataFetcher はMetadataFetcherのモック実装。
type mockMetadataFetcher struct {
	fetchFn func(ctx context.Context, rawURL string) metadata.Result
}

func (m *mockMetadataFetcher) Fetch(ctx context.Context, rawURL string) metadata.Result {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, rawURL)
	}
	return metadata.Result{}
}

func TestMetadataHandler_FetchMetadata_Success(t *testing.T) {
	fetcher := &mockMetadataFetcher{
		fetchFn: func(ctx context.Context, rawURL string) metadata.Result {
			return metadata.Result{
				Success:     true,
				Title:       "動画タイトル",
				ChannelName: "チャンネル",
			}
		},
	}
	metrics := newStubMetrics()
	h := NewMetadataHandler(fetcher, metrics)

	body := `{"url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ"}`
	req := httptest.NewRequest(http.MethodPost, "/api/metadata", bytes.NewBufferString(body))
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.FetchMetadata(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var result metadata.Result
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !result.Success || result.Title != "動画タイトル" {
		t.Errorf("result = %+v, want success + タイトル", result)
	}
	if len(metrics.metadataCalls) != 1 || !metrics.metadataCalls[0] {
		t.Errorf("metadataCalls = %v, want [true]", metrics.metadataCalls)
	}
}

// 取得失敗でもエラーステータスにはせず、successフラグで返す。
func TestMetadataHandler_FetchMetadata_FailureIsNonFatal(t *testing.T) {
	fetcher := &mockMetadataFetcher{
		fetchFn: func(ctx context.Context, rawURL string) metadata.Result {
			return metadata.Result{Success: false, Error: "取得に失敗しました"}
		},
	}
	metrics := newStubMetrics()
	h := NewMetadataHandler(fetcher, metrics)

	req := httptest.NewRequest(http.MethodPost, "/api/metadata", bytes.NewBufferString(`{"url": "https://example.com"}`))
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.FetchMetadata(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d（失敗も200で返す）", w.Code, http.StatusOK)
	}

	var result metadata.Result
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Success {
		t.Error("success = true, want false")
	}
	if len(metrics.metadataCalls) != 1 || metrics.metadataCalls[0] {
		t.Errorf("metadataCalls = %v, want [false]", metrics.metadataCalls)
	}
}

func TestMetadataHandler_FetchMetadata_EmptyURL(t *testing.T) {
	h := NewMetadataHandler(&mockMetadataFetcher{}, newStubMetrics())

	req := httptest.NewRequest(http.MethodPost, "/api/metadata", bytes.NewBufferString(`{"url": ""}`))
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.FetchMetadata(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
