// Package metadata はURLからのメタデータ（タイトル・説明文・チャンネル名）
// 取得を提供する。YouTube URLはoEmbed APIで、その他のURLはページの
// メタタグ解析で解決する。取得失敗はエントリ作成を妨げない。
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hitoshi/onmind/internal/model"
	"github.com/hitoshi/onmind/internal/video"
)

// Result はメタデータ取得の結果。
// 失敗時もSuccessとErrorで内容を伝え、呼び出し側は処理を続行できる。
type Result struct {
	Success     bool   `json:"success"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	ChannelName string `json:"channelName,omitempty"`
	Error       string `json:"error,omitempty"`
}

// SSRFValidator はSSRF検証のインターフェース。
// security.SSRFGuardServiceを抽象化してテスタビリティを向上させる。
type SSRFValidator interface {
	ValidateURL(rawURL string) error
	NewSafeClient(timeout time.Duration, maxResponseSize int64) *http.Client
}

// TextSanitizer は取得した文字列のプレーンテキスト化インターフェース。
type TextSanitizer interface {
	SanitizeText(raw string) string
}

// defaultOembedEndpoint はYouTubeのoEmbed APIエンドポイント。
const defaultOembedEndpoint = "https://www.youtube.com/oembed"

// Service はメタデータ取得のサービス層。
type Service struct {
	ssrfGuard SSRFValidator
	sanitizer TextSanitizer
	timeout   time.Duration
	maxSize   int64

	// oembedEndpoint はテストで差し替え可能にするためフィールドで持つ。
	oembedEndpoint string
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(ssrfGuard SSRFValidator, sanitizer TextSanitizer, timeout time.Duration, maxSize int64) *Service {
	return &Service{
		ssrfGuard:      ssrfGuard,
		sanitizer:      sanitizer,
		timeout:        timeout,
		maxSize:        maxSize,
		oembedEndpoint: defaultOembedEndpoint,
	}
}

// oembedResponse はoEmbed APIのレスポンスのうち使用するフィールド。
type oembedResponse struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
}

// Fetch はURLのメタデータを取得する。
// YouTube動画はoEmbedで、その他はページのメタタグ解析で解決する。
// 失敗は常に非致命的で、エラー内容を含むResultを返す（errorは返さない）。
func (s *Service) Fetch(ctx context.Context, rawURL string) Result {
	if err := s.ssrfGuard.ValidateURL(rawURL); err != nil {
		return Result{Success: false, Error: model.NewInvalidURLError(err.Error()).Message}
	}

	if video.DetectPlatform(rawURL) == video.PlatformYouTube {
		return s.fetchYouTube(ctx, rawURL)
	}
	return s.fetchPage(ctx, rawURL)
}

// fetchYouTube はoEmbed APIで動画タイトルとチャンネル名を取得する。
func (s *Service) fetchYouTube(ctx context.Context, rawURL string) Result {
	videoID := video.ExtractYouTubeVideoID(rawURL)
	watchURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)

	endpoint := fmt.Sprintf("%s?url=%s&format=json", s.oembedEndpoint, url.QueryEscape(watchURL))
	body, err := s.get(ctx, endpoint)
	if err != nil {
		return Result{Success: false, Error: fmt.Sprintf("動画情報の取得に失敗しました: %v", err)}
	}

	var resp oembedResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Result{Success: false, Error: "動画情報の解析に失敗しました"}
	}

	channel := s.sanitizer.SanitizeText(resp.AuthorName)
	result := Result{
		Success:     true,
		Title:       s.sanitizer.SanitizeText(resp.Title),
		ChannelName: channel,
	}
	if channel != "" {
		result.Description = fmt.Sprintf("Video by %s", channel)
	}
	return result
}

// fetchPage はページを取得してメタタグからタイトルと説明文を解析する。
func (s *Service) fetchPage(ctx context.Context, rawURL string) Result {
	body, err := s.get(ctx, rawURL)
	if err != nil {
		return Result{Success: false, Error: fmt.Sprintf("ページの取得に失敗しました: %v", err)}
	}

	meta := parsePageMetadata(body)
	if meta.title == "" && meta.description == "" {
		return Result{Success: false, Error: "メタデータが見つかりませんでした"}
	}

	return Result{
		Success:     true,
		Title:       s.sanitizer.SanitizeText(meta.title),
		Description: s.sanitizer.SanitizeText(meta.description),
	}
}

// get はSSRF防止クライアントでGETし、サイズ上限付きでボディを読み取る。
func (s *Service) get(ctx context.Context, rawURL string) ([]byte, error) {
	client := s.ssrfGuard.NewSafeClient(s.timeout, s.maxSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html, application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTPステータス %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxSize))
	if err != nil {
		return nil, err
	}
	return body, nil
}
