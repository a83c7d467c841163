// Package tag はタグの一覧・改名・削除と、タグを共有する
// 全エントリへのファンアウト更新を提供する。
package tag

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hitoshi/onmind/internal/model"
	"github.com/hitoshi/onmind/internal/repository"
)

// Service はタグ整合性のサービス層。
// ファンアウトは独立した逐次書き込みで、トランザクションは張らない。
// 途中で失敗した場合、適用済みの更新はロールバックされない。
type Service struct {
	entryRepo repository.EntryRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(entryRepo repository.EntryRepository) *Service {
	return &Service{entryRepo: entryRepo}
}

// ListTags はユーザーの全エントリのタグの和集合を返す。
// 表示用に大文字小文字を区別せず辞書順でソートする。
func (s *Service) ListTags(ctx context.Context, userID string) ([]string, error) {
	entries, err := s.entryRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("エントリ一覧の取得に失敗しました: %w", err)
	}

	seen := make(map[string]bool)
	tags := []string{}
	for _, e := range entries {
		for _, tag := range e.Tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}

	sort.Slice(tags, func(i, j int) bool {
		return strings.ToLower(tags[i]) < strings.ToLower(tags[j])
	})
	return tags, nil
}

// DeleteTag は指定タグを持つ全エントリからタグを取り除き、更新件数を返す。
// 逐次更新のため、途中で失敗すると部分適用状態になる。
// 同じ呼び出しをそのまま再実行すれば残りが適用される（エントリ単位で冪等）。
func (s *Service) DeleteTag(ctx context.Context, userID, tag string) (int, error) {
	entries, err := s.entryRepo.ListByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("エントリ一覧の取得に失敗しました: %w", err)
	}

	targets := []*model.Entry{}
	for _, e := range entries {
		if e.HasTag(tag) {
			targets = append(targets, e)
		}
	}

	for i, e := range targets {
		updated := removeTag(e.Tags, tag)
		if err := s.entryRepo.UpdateTags(ctx, e.ID, updated); err != nil {
			return i, model.NewPartialFanoutError(i, len(targets), err)
		}
	}
	return len(targets), nil
}

// RenameTag はoldTagを持つ全エントリで同じ位置をnewTagに置き換え、更新件数を返す。
// newTagを既に持つエントリでは二つのタグが一つに合流する（意図した挙動）。
// カテゴリと異なり、改名先の既存チェックは行わない。
func (s *Service) RenameTag(ctx context.Context, userID, oldTag, newTag string) (int, error) {
	if newTag == "" {
		return 0, model.NewValidationError("タグ名を入力してください")
	}
	if oldTag == newTag {
		return 0, nil
	}

	entries, err := s.entryRepo.ListByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("エントリ一覧の取得に失敗しました: %w", err)
	}

	targets := []*model.Entry{}
	for _, e := range entries {
		if e.HasTag(oldTag) {
			targets = append(targets, e)
		}
	}

	for i, e := range targets {
		updated := replaceTag(e.Tags, oldTag, newTag)
		if err := s.entryRepo.UpdateTags(ctx, e.ID, updated); err != nil {
			return i, model.NewPartialFanoutError(i, len(targets), err)
		}
	}
	return len(targets), nil
}

// removeTag はタグ列から指定タグを取り除いた新しい列を返す。
func removeTag(tags []string, tag string) []string {
	result := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != tag {
			result = append(result, t)
		}
	}
	return result
}

// replaceTag はoldTagを同じ位置でnewTagに置き換え、重複を除去した
// 新しい列を返す。重複除去は先に現れた方の位置を保存する。
func replaceTag(tags []string, oldTag, newTag string) []string {
	result := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		if t == oldTag {
			t = newTag
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		result = append(result, t)
	}
	return result
}
