// Package category はカテゴリの一覧・追加・改名・削除と、
// カテゴリを共有する全エントリへのファンアウト更新を提供する。
package category

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/onmind/internal/model"
	"github.com/hitoshi/onmind/internal/repository"
)

// numericPlaceholderPattern は過去の不具合で生成された
// "(123)" 形式のカテゴリ値。一覧から除外し、削除時に掃除する。
var numericPlaceholderPattern = regexp.MustCompile(`^\(\d+\)$`)

// Service はカテゴリ整合性のサービス層。
// タグと同様、ファンアウトは逐次書き込みでロールバックしない。
type Service struct {
	entryRepo repository.EntryRepository

	// deprecated は削除時に一緒に掃除する廃止済みカテゴリ値の一覧。
	deprecated []string
}

// NewService はServiceの新しいインスタンスを生成する。
// deprecatedCategoriesには削除操作で掃除する廃止済みカテゴリ値を渡す。
func NewService(entryRepo repository.EntryRepository, deprecatedCategories []string) *Service {
	return &Service{
		entryRepo:  entryRepo,
		deprecated: deprecatedCategories,
	}
}

// ListCategories は既定カテゴリとエントリから発見したカスタムカテゴリを返す。
// 既定は固定順で先頭に、カスタムは辞書順で後ろに並べる。
// 数値プレースホルダ形式の値は除外する。
func (s *Service) ListCategories(ctx context.Context, userID string) ([]string, error) {
	entries, err := s.entryRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("エントリ一覧の取得に失敗しました: %w", err)
	}

	customs := []string{}
	seen := make(map[string]bool)
	for _, e := range entries {
		c := e.Category
		if c == "" || seen[c] || model.IsDefaultCategory(c) {
			continue
		}
		if numericPlaceholderPattern.MatchString(c) {
			continue
		}
		seen[c] = true
		customs = append(customs, c)
	}
	sort.Slice(customs, func(i, j int) bool {
		return strings.ToLower(customs[i]) < strings.ToLower(customs[j])
	})

	result := make([]string, 0, len(model.DefaultCategories)+len(customs))
	result = append(result, model.DefaultCategories...)
	result = append(result, customs...)
	return result, nil
}

// AddCategory は新しいカスタムカテゴリを追加する。
// カテゴリはエントリから導出されるため、発見可能にするための
// プレースホルダエントリを一件作成する。プレースホルダは
// "system" タグを持ち、通常の検索・集計から識別できる。
func (s *Service) AddCategory(ctx context.Context, userID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.NewValidationError("カテゴリ名を入力してください")
	}

	existing, err := s.ListCategories(ctx, userID)
	if err != nil {
		return err
	}
	for _, c := range existing {
		if c == name {
			return model.NewDuplicateCategoryError(name)
		}
	}

	now := time.Now()
	placeholder := &model.Entry{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     "Category Created",
		Content:   model.ContentSentinel,
		Category:  name,
		Tags:      []string{model.TagSystem},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.entryRepo.Create(ctx, placeholder); err != nil {
		return fmt.Errorf("カテゴリの作成に失敗しました: %w", err)
	}
	return nil
}

// DeleteCategory は対象カテゴリのエントリをreplacementへ付け替え、更新件数を返す。
// 既定カテゴリは削除できない。対象カテゴリに加えて、数値プレースホルダ
// 形式の値と廃止済みカテゴリ値も同じ付け替えに含めて掃除する。
func (s *Service) DeleteCategory(ctx context.Context, userID, target, replacement string) (int, error) {
	if model.IsDefaultCategory(target) {
		return 0, model.NewCannotDeleteDefaultError(target)
	}
	if replacement == "" {
		replacement = "Uncategorized"
	}

	entries, err := s.entryRepo.ListByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("エントリ一覧の取得に失敗しました: %w", err)
	}

	targets := []*model.Entry{}
	for _, e := range entries {
		if s.sweptBy(target, e.Category) {
			targets = append(targets, e)
		}
	}

	for i, e := range targets {
		if err := s.entryRepo.UpdateCategory(ctx, e.ID, replacement); err != nil {
			return i, model.NewPartialFanoutError(i, len(targets), err)
		}
	}
	return len(targets), nil
}

// RenameCategory はoldNameのエントリをnewNameへ付け替え、更新件数を返す。
// 既定カテゴリは改名できず、改名先の重複は書き込み前に拒否する。
func (s *Service) RenameCategory(ctx context.Context, userID, oldName, newName string) (int, error) {
	newName = strings.TrimSpace(newName)
	if model.IsDefaultCategory(oldName) {
		return 0, model.NewCannotRenameDefaultError(oldName)
	}
	if newName == "" {
		return 0, model.NewValidationError("カテゴリ名を入力してください")
	}
	if oldName == newName {
		return 0, nil
	}

	existing, err := s.ListCategories(ctx, userID)
	if err != nil {
		return 0, err
	}
	for _, c := range existing {
		if c == newName {
			return 0, model.NewDuplicateCategoryError(newName)
		}
	}

	entries, err := s.entryRepo.ListByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("エントリ一覧の取得に失敗しました: %w", err)
	}

	targets := []*model.Entry{}
	for _, e := range entries {
		if e.Category == oldName {
			targets = append(targets, e)
		}
	}

	for i, e := range targets {
		if err := s.entryRepo.UpdateCategory(ctx, e.ID, newName); err != nil {
			return i, model.NewPartialFanoutError(i, len(targets), err)
		}
	}
	return len(targets), nil
}

// sweptBy は削除対象カテゴリの掃除条件を判定する。
func (s *Service) sweptBy(target, category string) bool {
	if category == target {
		return true
	}
	if numericPlaceholderPattern.MatchString(category) {
		return true
	}
	for _, d := range s.deprecated {
		if category == d {
			return true
		}
	}
	return false
}
