package form

import (
	"fmt"
	"time"

	"github.com/hitoshi/onmind/internal/model"
)

// State はフォームの開閉状態。常に高々一つの編集状態だけがアクティブになる。
type State string

const (
	StateClosed           State = "closed"
	StateEditingStandard  State = "editingStandard"
	StateEditingQuickNote State = "editingQuickNote"
	StateEditingIdea      State = "editingIdea"
	StateEditingJournal   State = "editingJournal"
)

// Draft は編集中の下書き。予約タグ・気分タグは含まず、
// 保存時にFinalizeで正規化される。
type Draft struct {
	EntryID     string     `json:"entryId,omitempty"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Explanation string     `json:"explanation"`
	URL         string     `json:"url"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	Mood        model.Mood `json:"mood,omitempty"`
	IsFavorite  bool       `json:"isFavorite"`
	IsPinned    bool       `json:"isPinned"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// Manager はフォームの状態遷移を管理する。
// いずれかの編集状態へ遷移すると他の編集状態は必ず閉じる。
type Manager struct {
	state State
	mode  Mode
	draft Draft
}

// NewManager は閉じた状態のManagerを生成する。
func NewManager() *Manager {
	return &Manager{state: StateClosed}
}

// State は現在のフォーム状態を返す。
func (m *Manager) State() State {
	return m.state
}

// Mode は現在の編集モードを返す。閉じている場合は空。
func (m *Manager) Mode() Mode {
	if m.state == StateClosed {
		return ""
	}
	return m.mode
}

// Draft は編集中の下書きを返す。閉じている場合はnil。
func (m *Manager) Draft() *Draft {
	if m.state == StateClosed {
		return nil
	}
	return &m.draft
}

// open は指定モードの新規作成状態へ遷移し、既定値を下書きへ設定する。
func (m *Manager) open(state State, mode Mode) {
	category, _ := mode.SeedDefaults()
	m.state = state
	m.mode = mode
	m.draft = Draft{
		Category: category,
		Tags:     []string{},
	}
}

// CreateIdea はアイデア作成フォームを開く。
func (m *Manager) CreateIdea() {
	m.open(StateEditingIdea, ModeIdea)
}

// CreateQuickNote はクイックノート作成フォームを開く。
func (m *Manager) CreateQuickNote() {
	m.open(StateEditingQuickNote, ModeQuickNote)
}

// CreateJournal は日誌作成フォームを開く。
func (m *Manager) CreateJournal() {
	m.open(StateEditingJournal, ModeJournal)
}

// CreateFlashCard は暗記カード作成フォームを開く。
// 標準フォームの殻をflashモードで使用する。
func (m *Manager) CreateFlashCard() {
	m.open(StateEditingStandard, ModeFlashCard)
}

// CreateNote は標準ノート作成フォームを開く。
func (m *Manager) CreateNote() {
	m.open(StateEditingStandard, ModeNote)
}

// EditEntry は既存エントリを対応するフォームで開く。
// 予約タグと気分の二重表現は下書きから剥がし、保存時に再構築する。
func (m *Manager) EditEntry(e *model.Entry) {
	mode := ModeForEntry(e)

	switch mode {
	case ModeIdea:
		m.state = StateEditingIdea
	case ModeQuickNote:
		// カスタムカテゴリのクイック亜種は標準フォームの殻で開く。
		// クイックノート専用フォームはカテゴリが文字通りQuick Noteのときだけ。
		if e.Category == "Quick Note" {
			m.state = StateEditingQuickNote
		} else {
			m.state = StateEditingStandard
		}
	case ModeJournal:
		m.state = StateEditingJournal
	default:
		m.state = StateEditingStandard
	}
	m.mode = mode

	mood, body := DecodeMoodContent(e.Content)
	if mood == "" {
		mood = MoodFromTags(e.Tags)
	}

	explanation := ""
	if e.Explanation != nil {
		explanation = *e.Explanation
	}

	createdAt := e.CreatedAt
	m.draft = Draft{
		EntryID:     e.ID,
		Title:       e.Title,
		Content:     body,
		Explanation: explanation,
		URL:         e.URL,
		Category:    e.Category,
		Tags:        StripReservedTags(e.Tags),
		Mood:        mood,
		IsFavorite:  e.IsFavorite,
		IsPinned:    e.IsPinned,
		CreatedAt:   &createdAt,
	}
}

// CloseForm はどの状態からでもフォームを閉じ、未保存の編集を破棄する。
func (m *Manager) CloseForm() {
	m.state = StateClosed
	m.mode = ""
	m.draft = Draft{}
}

// Finalize は下書きを保存用のフィールド一式へ正規化する。
// 予約タグの先頭再注入・気分の二重表現の同期をここで行う。
func (m *Manager) Finalize() (*Draft, error) {
	if m.state == StateClosed {
		return nil, fmt.Errorf("フォームが開いていません")
	}
	if !model.IsValidMood(m.draft.Mood) {
		return nil, fmt.Errorf("不正な気分です: %s", m.draft.Mood)
	}

	mood := m.draft.Mood
	if m.mode != ModeJournal {
		mood = ""
	}

	final := m.draft
	final.Tags = m.mode.NormalizeTagsOnSave(m.draft.Tags, mood)
	final.Content = EncodeMoodContent(mood, m.draft.Content)
	final.Mood = mood

	// 日誌以外ではcreated_atの遡及指定を許さない
	if m.mode != ModeJournal || final.EntryID != "" {
		final.CreatedAt = nil
	}
	return &final, nil
}

// DefaultJournalTitle は遡及日付から日誌の既定タイトルを生成する。
func DefaultJournalTitle(date time.Time) string {
	return date.Format("2006-01-02") + " の日誌"
}
