// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService は外部サイトから取得したメタデータ文字列を
// サニタイズし、XSS攻撃などのセキュリティリスクからユーザーを保護する。
// bluemondayライブラリの全タグ除去ポリシーを使用する。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService はプレーンテキスト化機能のインターフェースを定義する。
// URLメタデータ（タイトル・説明文・チャンネル名）の保存前に使用される。
type TextSanitizerService interface {
	// SanitizeText は入力からHTMLタグを全て取り除き、
	// エンティティを復元したプレーンテキストを返す。
	// 前後の空白は取り除かれる。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	SanitizeText(raw string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// メタデータはテキストとして表示されるため、許可タグを一切持たない
// StrictPolicyで全てのマークアップを除去する。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// SanitizeText は入力からHTMLタグを全て取り除いたプレーンテキストを返す。
// StrictPolicyはテキストをエンティティにエスケープするため、
// 表示用文字列に戻すためエスケープを復元する。
func (s *textSanitizer) SanitizeText(raw string) string {
	stripped := s.policy.Sanitize(raw)
	return strings.TrimSpace(html.UnescapeString(stripped))
}
