// Package form はエントリ作成・編集フォームの状態遷移と
// モードごとのタグ・カテゴリの正規化規則を提供する。
package form

import "github.com/hitoshi/onmind/internal/model"

// Mode はフォームの種別。既定カテゴリと保存時に必ず付与される
// 予約タグを決定する。
type Mode string

const (
	ModeIdea      Mode = "idea"
	ModeQuickNote Mode = "quick"
	ModeJournal   Mode = "journal"
	ModeFlashCard Mode = "flash"
	ModeNote      Mode = "note"
)

// modeSeeds はモードごとの既定カテゴリと予約タグの対応表。
var modeSeeds = map[Mode]struct {
	category string
	tag      string
}{
	ModeIdea:      {"Ideas", model.TagIdea},
	ModeQuickNote: {"Quick Note", model.TagQuickNote},
	ModeJournal:   {"Journal", model.TagJournal},
	ModeFlashCard: {"Flash Card", model.TagFlashCard},
	ModeNote:      {"Reference", model.TagNote},
}

// SeedDefaults は新規作成時に下書きへ設定する既定のカテゴリとタグを返す。
func (m Mode) SeedDefaults() (category string, tags []string) {
	seed := modeSeeds[m]
	return seed.category, []string{seed.tag}
}

// ReservedTag はモードを表す予約タグを返す。
func (m Mode) ReservedTag() string {
	return modeSeeds[m].tag
}

// NormalizeTagsOnSave は保存時のタグ列を構築する。予約タグを先頭に
// 再注入し、気分が指定されていれば気分タグを末尾に付与する。
// ユーザー指定のタグに紛れた予約タグ・気分タグは一旦取り除いてから
// 正規の位置へ入れ直す。
func (m Mode) NormalizeTagsOnSave(userTags []string, mood model.Mood) []string {
	reserved := m.ReservedTag()

	final := []string{reserved}
	for _, tag := range userTags {
		if tag == reserved || isMoodTag(tag) {
			continue
		}
		final = append(final, tag)
	}
	if mood != "" {
		final = append(final, mood.Tag())
	}
	return final
}

// StripReservedTags は編集画面に表示するタグ列を返す。
// 全モードの予約タグと気分タグを取り除く。
func StripReservedTags(tags []string) []string {
	edited := []string{}
	for _, tag := range tags {
		if isReservedTag(tag) || isMoodTag(tag) {
			continue
		}
		edited = append(edited, tag)
	}
	return edited
}

// ModeForEntry は既存エントリの編集に使うモードを判定する。
// まずカテゴリで判定し、カテゴリがモードを示さない場合は
// 予約タグの有無で判定する。どちらにも該当しないカスタムカテゴリは
// 標準フォームのクイック亜種として扱う。
func ModeForEntry(e *model.Entry) Mode {
	switch e.Category {
	case "Ideas":
		return ModeIdea
	case "Quick Note":
		return ModeQuickNote
	case "Journal":
		return ModeJournal
	case "Flash Card":
		return ModeFlashCard
	}

	for _, m := range []Mode{ModeIdea, ModeJournal, ModeFlashCard, ModeNote} {
		if e.HasTag(m.ReservedTag()) {
			return m
		}
	}

	// カスタムカテゴリはクイックノート扱いでタグを付与する
	return ModeQuickNote
}

func isReservedTag(tag string) bool {
	for _, seed := range modeSeeds {
		if tag == seed.tag {
			return true
		}
	}
	return false
}

func isMoodTag(tag string) bool {
	return len(tag) > len(model.MoodTagPrefix) && tag[:len(model.MoodTagPrefix)] == model.MoodTagPrefix
}
