package filter

// selection.go はタグ・カテゴリの改名／削除に追随するフィルタ状態の
// 置換規則を実装する。ファンアウト更新後に呼び出し側が適用する。

// WithTagRemoved は選択タグ一覧からtagを取り除いた新しい状態を返す。
func (s State) WithTagRemoved(tag string) State {
	tags := make([]string, 0, len(s.Tags))
	for _, t := range s.Tags {
		if t != tag {
			tags = append(tags, t)
		}
	}
	s.Tags = tags
	return s
}

// WithTagRenamed は選択タグ一覧中のoldTagをnewTagで置き換えた新しい状態を返す。
// newTagが既に選択されていた場合は重複を除去し、選択は一つに合流する。
func (s State) WithTagRenamed(oldTag, newTag string) State {
	tags := make([]string, 0, len(s.Tags))
	seen := make(map[string]bool, len(s.Tags))
	for _, t := range s.Tags {
		if t == oldTag {
			t = newTag
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	s.Tags = tags
	return s
}

// WithCategoryReplaced は選択カテゴリがoldの場合にreplacementへ
// 置き換えた新しい状態を返す。削除時はreplacementに空文字列を渡す。
func (s State) WithCategoryReplaced(old, replacement string) State {
	if s.Category == old {
		s.Category = replacement
	}
	return s
}
