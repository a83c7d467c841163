package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/hitoshi/onmind/internal/model"
)

// TagSort はタグ一覧表示のソート方法。
type TagSort string

const (
	TagSortAtoZ      TagSort = "a-z"
	TagSortZtoA      TagSort = "z-a"
	TagSortFrequency TagSort = "frequency"
	TagSortRecent    TagSort = "recent"
)

// IsValidTagSort は有効なソート指定かどうかを返す。
func IsValidTagSort(s TagSort) bool {
	switch s {
	case TagSortAtoZ, TagSortZtoA, TagSortFrequency, TagSortRecent:
		return true
	}
	return false
}

// AvailableTags は現在選択中のカテゴリに属するエントリのタグだけを集めて返す。
// タグ候補はカテゴリ相対であり、グローバルなタグ集合ではない。
//   - category == "All"  : 全エントリが対象
//   - category == ""     : 候補なし（空を返す）
//   - category == "Favorites" : お気に入りエントリが対象
//   - それ以外           : カテゴリが一致するエントリが対象
func AvailableTags(entries []*model.Entry, category string, sortBy TagSort) []string {
	if category == "" {
		return []string{}
	}

	counts := make(map[string]int)
	lastUsed := make(map[string]time.Time)
	for _, e := range entries {
		if category != CategoryAll && !matchesCategory(e, category) {
			continue
		}
		for _, tag := range e.Tags {
			counts[tag]++
			if e.CreatedAt.After(lastUsed[tag]) {
				lastUsed[tag] = e.CreatedAt
			}
		}
	}

	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}

	switch sortBy {
	case TagSortZtoA:
		sort.Slice(tags, func(i, j int) bool {
			return strings.ToLower(tags[i]) > strings.ToLower(tags[j])
		})
	case TagSortFrequency:
		// 使用回数降順、同数はアルファベット順
		sort.Slice(tags, func(i, j int) bool {
			if counts[tags[i]] != counts[tags[j]] {
				return counts[tags[i]] > counts[tags[j]]
			}
			return strings.ToLower(tags[i]) < strings.ToLower(tags[j])
		})
	case TagSortRecent:
		// タグを持つ最新エントリの作成日時降順
		sort.Slice(tags, func(i, j int) bool {
			if !lastUsed[tags[i]].Equal(lastUsed[tags[j]]) {
				return lastUsed[tags[i]].After(lastUsed[tags[j]])
			}
			return strings.ToLower(tags[i]) < strings.ToLower(tags[j])
		})
	default:
		sort.Slice(tags, func(i, j int) bool {
			return strings.ToLower(tags[i]) < strings.ToLower(tags[j])
		})
	}

	return tags
}
