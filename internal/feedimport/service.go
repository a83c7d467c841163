// Package feedimport はRSS/Atomフィードからの一括インポートを提供する。
// フィードの各記事をReferenceカテゴリのエントリとして取り込む。
package feedimport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"github.com/hitoshi/onmind/internal/model"
	"github.com/hitoshi/onmind/internal/repository"
)

// ImportTag はインポートされたエントリに付与される識別タグ。
const ImportTag = "imported"

// SSRFValidator はSSRF検証のインターフェース。
type SSRFValidator interface {
	ValidateURL(rawURL string) error
	NewSafeClient(timeout time.Duration, maxResponseSize int64) *http.Client
}

// TextSanitizer は取り込むテキストのプレーンテキスト化インターフェース。
type TextSanitizer interface {
	SanitizeText(raw string) string
}

// ImportResult はインポートの実行結果。
// 逐次書き込みのため、失敗時もImported件数分は保存済みのまま残る。
type ImportResult struct {
	FeedTitle string `json:"feedTitle"`
	Total     int    `json:"total"`
	Imported  int    `json:"imported"`
	Skipped   int    `json:"skipped"`
}

// Service はフィードインポートのサービス層。
type Service struct {
	entryRepo repository.EntryRepository
	ssrfGuard SSRFValidator
	sanitizer TextSanitizer
	logger    *slog.Logger

	timeout  time.Duration
	maxSize  int64
	maxItems int
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	entryRepo repository.EntryRepository,
	ssrfGuard SSRFValidator,
	sanitizer TextSanitizer,
	logger *slog.Logger,
	timeout time.Duration,
	maxSize int64,
	maxItems int,
) *Service {
	return &Service{
		entryRepo: entryRepo,
		ssrfGuard: ssrfGuard,
		sanitizer: sanitizer,
		logger:    logger,
		timeout:   timeout,
		maxSize:   maxSize,
		maxItems:  maxItems,
	}
}

// Import はフィードURLを取得・パースし、各記事をエントリとして保存する。
// 既存エントリと同じ記事URLはスキップする。保存は逐次書き込みで、
// 途中失敗時は適用済みのエントリが残り、部分適用エラーを返す。
func (s *Service) Import(ctx context.Context, userID, feedURL string) (*ImportResult, error) {
	if err := s.ssrfGuard.ValidateURL(feedURL); err != nil {
		return nil, model.NewInvalidURLError(err.Error())
	}

	body, err := s.get(ctx, feedURL)
	if err != nil {
		return nil, model.NewFeedImportFailedError(fmt.Sprintf("フィードの取得に失敗しました: %v", err))
	}

	parser := gofeed.NewParser()
	parsedFeed, err := parser.ParseString(string(body))
	if err != nil {
		s.logger.Error("フィードのパースに失敗しました",
			slog.String("feed_url", feedURL),
			slog.String("error", err.Error()),
		)
		return nil, model.NewFeedImportFailedError("フィードの解析に失敗しました")
	}

	items := parsedFeed.Items
	if s.maxItems > 0 && len(items) > s.maxItems {
		items = items[:s.maxItems]
	}

	// 既存エントリのURLを控えて重複取り込みを防ぐ
	existing, err := s.entryRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("エントリ一覧の取得に失敗しました: %w", err)
	}
	knownURLs := make(map[string]bool, len(existing))
	for _, e := range existing {
		if e.URL != "" {
			knownURLs[e.URL] = true
		}
	}

	result := &ImportResult{
		FeedTitle: s.sanitizer.SanitizeText(parsedFeed.Title),
		Total:     len(items),
	}

	for _, item := range items {
		if item == nil || item.Link == "" || knownURLs[item.Link] {
			result.Skipped++
			continue
		}

		entry := s.buildEntry(userID, item)
		if err := s.entryRepo.Create(ctx, entry); err != nil {
			return result, model.NewPartialFanoutError(result.Imported, result.Total, err)
		}
		knownURLs[item.Link] = true
		result.Imported++
	}

	s.logger.Info("フィードをインポートしました",
		slog.String("feed_url", feedURL),
		slog.Int("imported", result.Imported),
		slog.Int("skipped", result.Skipped),
	)
	return result, nil
}

// buildEntry はフィード記事をReferenceカテゴリのエントリに変換する。
func (s *Service) buildEntry(userID string, item *gofeed.Item) *model.Entry {
	title := s.sanitizer.SanitizeText(item.Title)
	if title == "" {
		title = item.Link
	}

	content := s.sanitizer.SanitizeText(item.Description)
	if content == "" {
		content = model.ContentSentinel
	}

	now := time.Now()
	createdAt := now
	if item.PublishedParsed != nil {
		createdAt = *item.PublishedParsed
	}

	tags := []string{model.TagNote, ImportTag}
	for _, c := range item.Categories {
		c = strings.TrimSpace(s.sanitizer.SanitizeText(c))
		if c != "" {
			tags = append(tags, c)
		}
	}

	return &model.Entry{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		URL:       item.Link,
		Category:  "Reference",
		Tags:      tags,
		CreatedAt: createdAt,
		UpdatedAt: now,
	}
}

// get はSSRF防止クライアントでGETし、サイズ上限付きでボディを読み取る。
func (s *Service) get(ctx context.Context, rawURL string) ([]byte, error) {
	client := s.ssrfGuard.NewSafeClient(s.timeout, s.maxSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTPステータス %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, s.maxSize))
}
