// Package filter はエントリ一覧の絞り込み述語とタグ発見ロジックを提供する。
// すべて純粋関数であり、ストアへの副作用を持たない。
package filter

import (
	"strings"

	"github.com/hitoshi/onmind/internal/model"
)

// CategoryAll はタグ発見で全カテゴリを対象にする特殊値。
const CategoryAll = "All"

// CategoryFavorites はカテゴリフィルタでis_favoriteを参照する特殊値。
const CategoryFavorites = "Favorites"

// State は現在のフィルタ選択状態。呼び出し側が所有し、
// Visibleに引数として渡す。
type State struct {
	Query    string   `json:"query"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	ShowAll  bool     `json:"showAll"`
}

// IsEmpty はフィルタ条件が一つも指定されていないかどうかを返す。
func (s State) IsEmpty() bool {
	return !s.ShowAll && s.Query == "" && s.Category == "" && len(s.Tags) == 0
}

// Visible はフィルタ状態に一致するエントリだけを返す。
// 入力順（ピン留め優先・作成日時降順のフェッチ順）を保存し、再ソートしない。
// 初期状態（条件なし・ShowAll=false）では何も表示しない。
func Visible(entries []*model.Entry, s State) []*model.Entry {
	// 明示的な操作があるまで一覧は空にする
	if s.IsEmpty() {
		return []*model.Entry{}
	}

	result := []*model.Entry{}
	for _, e := range entries {
		if !matchesSearch(e, s.Query) {
			continue
		}
		if !matchesCategory(e, s.Category) {
			continue
		}
		if !matchesTags(e, s.Tags) {
			continue
		}
		result = append(result, e)
	}
	return result
}

// matchesSearch はタイトル・本文・補足・タグのいずれかに対する
// 大文字小文字を区別しない部分一致を判定する。クエリが空なら常にtrue。
func matchesSearch(e *model.Entry, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)

	if strings.Contains(strings.ToLower(e.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(e.Content), q) {
		return true
	}
	if e.Explanation != nil && strings.Contains(strings.ToLower(*e.Explanation), q) {
		return true
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// matchesCategory はカテゴリ一致を判定する。
// "Favorites"はカテゴリ値にかかわらずis_favoriteを参照する特殊ケース。
func matchesCategory(e *model.Entry, category string) bool {
	if category == "" {
		return true
	}
	if category == CategoryFavorites {
		return e.IsFavorite
	}
	return e.Category == category
}

// matchesTags は選択された全タグをエントリが持つか（AND条件）を判定する。
func matchesTags(e *model.Entry, tags []string) bool {
	for _, tag := range tags {
		if !e.HasTag(tag) {
			return false
		}
	}
	return true
}
