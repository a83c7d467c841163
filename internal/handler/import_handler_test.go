package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/onmind/internal/feedimport"
	"github.com/hitoshi/onmind/internal/model"
)

// mockFeedImporter はFeedImporterのモック実装。
type mockFeedImporter struct {
	importFn func(ctx context.Context, userID, feedURL string) (*feedimport.ImportResult, error)
}

func (m *mockFeedImporter) Import(ctx context.Context, userID, feedURL string) (*feedimport.ImportResult, error) {
	if m.importFn != nil {
		return m.importFn(ctx, userID, feedURL)
	}
	return &feedimport.ImportResult{}, nil
}

func TestImportHandler_ImportFeed_Success(t *testing.T) {
	importer := &mockFeedImporter{
		importFn: func(ctx context.Context, userID, feedURL string) (*feedimport.ImportResult, error) {
			if feedURL != "https://example.com/feed.xml" {
				t.Errorf("feedURL = %q, want %q", feedURL, "https://example.com/feed.xml")
			}
			return &feedimport.ImportResult{
				FeedTitle: "Example Feed",
				Total:     10,
				Imported:  8,
				Skipped:   2,
			}, nil
		},
	}
	h := NewImportHandler(importer)

	body := `{"url": "https://example.com/feed.xml"}`
	req := httptest.NewRequest(http.MethodPost, "/api/import", bytes.NewBufferString(body))
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.ImportFeed(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var result feedimport.ImportResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Imported != 8 || result.Skipped != 2 {
		t.Errorf("result = %+v, want Imported=8 Skipped=2", result)
	}
}

func TestImportHandler_ImportFeed_InvalidURL(t *testing.T) {
	importer := &mockFeedImporter{
		importFn: func(ctx context.Context, userID, feedURL string) (*feedimport.ImportResult, error) {
			return nil, model.NewInvalidURLError("スキームが不正です")
		},
	}
	h := NewImportHandler(importer)

	req := httptest.NewRequest(http.MethodPost, "/api/import", bytes.NewBufferString(`{"url": "ftp://example.com"}`))
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.ImportFeed(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestImportHandler_ImportFeed_EmptyURL(t *testing.T) {
	h := NewImportHandler(&mockFeedImporter{})

	req := httptest.NewRequest(http.MethodPost, "/api/import", bytes.NewBufferString(`{"url": ""}`))
	req = withUserID(req, "user-123")
	w := httptest.NewRecorder()

	h.ImportFeed(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
