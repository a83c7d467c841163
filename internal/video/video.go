// Package video は動画URLからのプラットフォーム判定と動画ID抽出を提供する。
package video

import "regexp"

// Platform は動画の配信元プラットフォーム。
type Platform string

const (
	PlatformYouTube Platform = "youtube"
	PlatformVimeo   Platform = "vimeo"
	PlatformUnknown Platform = "unknown"
)

// youtubePatterns は既知のYouTube URL形式。上から順に照合する。
var youtubePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?:youtu\.be/)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?:youtube\.com/embed/)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?:youtube\.com/v/)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?:youtube\.com/shorts/)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?:youtube\.com/live/)([0-9A-Za-z_-]{11})`),
}

// vimeoPatterns は既知のVimeo URL形式。動画IDは数値パスセグメント。
var vimeoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:player\.vimeo\.com/video/)(\d+)`),
	regexp.MustCompile(`(?:vimeo\.com/)(\d+)`),
}

// ExtractYouTubeVideoID はURLからYouTubeの動画IDを抽出する。
// 既知の形式に一致しない場合は空文字列を返す。
func ExtractYouTubeVideoID(url string) string {
	for _, p := range youtubePatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}

// ExtractVimeoVideoID はURLからVimeoの動画IDを抽出する。
// 既知の形式に一致しない場合は空文字列を返す。
func ExtractVimeoVideoID(url string) string {
	for _, p := range vimeoPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}

// DetectPlatform はURLがどのプラットフォームの動画かを判定する。
func DetectPlatform(url string) Platform {
	if ExtractYouTubeVideoID(url) != "" {
		return PlatformYouTube
	}
	if ExtractVimeoVideoID(url) != "" {
		return PlatformVimeo
	}
	return PlatformUnknown
}
