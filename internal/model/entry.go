// Package model はドメインモデルを定義する。
package model

import "time"

// Entry はユーザーが作成したナレッジアイテム（ノート/アイデア/日記/フラッシュカード/動画ブックマーク）を表す。
type Entry struct {
	ID          string
	UserID      string
	Title       string
	Content     string // 空文字は保存しない。内容なしは半角スペース1文字のセンチネルで表す
	Explanation *string
	URL         string
	Category    string // 常に非空。未指定の場合はモードの既定カテゴリが入る
	Tags        []string
	IsFavorite  bool
	IsPinned    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasTag は指定タグを保持しているかを返す。
func (e *Entry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ContentSentinel は「内容なし」を表すセンチネル値。
// 空文字列の代わりに必ずこの値を保存する。
const ContentSentinel = " "

// DefaultCategories は常に存在する保護されたカテゴリの固定リスト。
// 表示順もこの順序に従う。削除・リネームは許可されない。
var DefaultCategories = []string{
	"Ideas",
	"Quick Note",
	"Journal",
	"Flash Card",
	"YouTube",
	"Code Vault",
	"Reference",
	"Uncategorized",
}

// IsDefaultCategory は指定カテゴリが保護された既定カテゴリかを返す。
func IsDefaultCategory(category string) bool {
	for _, c := range DefaultCategories {
		if c == category {
			return true
		}
	}
	return false
}

// 予約タグ。保存経路が自動的に付与・維持するモードマーカー。
const (
	TagIdea      = "idea"
	TagQuickNote = "Quick Note"
	TagJournal   = "Journal"
	TagFlashCard = "Flash Card"
	TagNote      = "Note"

	// TagSystem はカテゴリ実体化用プレースホルダーエントリに付与される。
	// 通常の検索・集計から除外できるようにするためのマーカー。
	TagSystem = "system"
)

// MoodTagPrefix は気分タグのプレフィックス（例: "mood:calm"）。
const MoodTagPrefix = "mood:"

// Mood は日記エントリに記録する気分を表す。
type Mood string

const (
	MoodJoyful  Mood = "joyful"
	MoodCalm    Mood = "calm"
	MoodAnxious Mood = "anxious"
	MoodSad     Mood = "sad"
	MoodAngry   Mood = "angry"
)

// Moods は選択可能な気分の一覧。
var Moods = []Mood{MoodJoyful, MoodCalm, MoodAnxious, MoodSad, MoodAngry}

// IsValidMood は指定文字列が有効な気分かを返す。空文字は「気分なし」として有効。
func IsValidMood(m Mood) bool {
	if m == "" {
		return true
	}
	for _, mood := range Moods {
		if mood == m {
			return true
		}
	}
	return false
}

// Tag はタグ（mood:プレフィックス付き）としての表現を返す。
func (m Mood) Tag() string {
	return MoodTagPrefix + string(m)
}
