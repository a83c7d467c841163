// Package entry はエントリのCRUDのドメインロジックを提供する。
// すべての操作は認証済み所有者にスコープされる。
package entry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/onmind/internal/form"
	"github.com/hitoshi/onmind/internal/model"
	"github.com/hitoshi/onmind/internal/repository"
)

// Input はエントリの作成・更新の入力フィールド。
type Input struct {
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Explanation string     `json:"explanation"`
	URL         string     `json:"url"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	IsFavorite  bool       `json:"isFavorite"`
	IsPinned    bool       `json:"isPinned"`
	// CreatedAt は日誌の遡及作成時のみ指定される。
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Service はエントリ管理のサービス層。
type Service struct {
	entryRepo repository.EntryRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(entryRepo repository.EntryRepository) *Service {
	return &Service{entryRepo: entryRepo}
}

// List はユーザーの全エントリを既定のフェッチ順で返す。
func (s *Service) List(ctx context.Context, userID string) ([]*model.Entry, error) {
	entries, err := s.entryRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("エントリ一覧の取得に失敗しました: %w", err)
	}
	return entries, nil
}

// Get は所有エントリを一件取得する。
// 他ユーザーのエントリは存在しないものとして扱う。
func (s *Service) Get(ctx context.Context, userID, entryID string) (*model.Entry, error) {
	return s.findOwned(ctx, userID, entryID)
}

// Create は新規エントリを作成する。
// 空の本文はストア制約を満たす番兵値に正規化され、モードの予約タグと
// 気分の二重表現はここで再構築される。
func (s *Service) Create(ctx context.Context, userID string, in Input) (*model.Entry, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	category, tags, content, mode := applyModeRules(in)

	now := time.Now()
	createdAt := now
	// created_atの遡及指定は日誌の新規作成のみ許す
	if in.CreatedAt != nil && mode == form.ModeJournal {
		createdAt = *in.CreatedAt
	}

	e := &model.Entry{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       strings.TrimSpace(in.Title),
		Content:     content,
		Explanation: normalizeExplanation(in.Explanation),
		URL:         strings.TrimSpace(in.URL),
		Category:    category,
		Tags:        tags,
		IsFavorite:  in.IsFavorite,
		IsPinned:    in.IsPinned,
		CreatedAt:   createdAt,
		UpdatedAt:   now,
	}

	if err := s.entryRepo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("エントリの作成に失敗しました: %w", err)
	}
	return e, nil
}

// Update は所有エントリの編集可能フィールドを上書きする。
// created_atは更新では変更されない。タグ編集で予約タグが外されても
// 保存時に再注入される。
func (s *Service) Update(ctx context.Context, userID, entryID string, in Input) (*model.Entry, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	e, err := s.findOwned(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	category, tags, content, _ := applyModeRules(in)

	e.Title = strings.TrimSpace(in.Title)
	e.Content = content
	e.Explanation = normalizeExplanation(in.Explanation)
	e.URL = strings.TrimSpace(in.URL)
	e.Category = category
	e.Tags = tags
	e.IsFavorite = in.IsFavorite
	e.IsPinned = in.IsPinned
	e.UpdatedAt = time.Now()

	if err := s.entryRepo.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("エントリの更新に失敗しました: %w", err)
	}
	return e, nil
}

// Delete は所有エントリを削除する。
func (s *Service) Delete(ctx context.Context, userID, entryID string) error {
	e, err := s.findOwned(ctx, userID, entryID)
	if err != nil {
		return err
	}
	if err := s.entryRepo.Delete(ctx, e.ID); err != nil {
		return fmt.Errorf("エントリの削除に失敗しました: %w", err)
	}
	return nil
}

// SetFavorite は所有エントリのお気に入りフラグを設定する。
func (s *Service) SetFavorite(ctx context.Context, userID, entryID string, isFavorite bool) error {
	e, err := s.findOwned(ctx, userID, entryID)
	if err != nil {
		return err
	}
	if err := s.entryRepo.SetFavorite(ctx, e.ID, isFavorite); err != nil {
		return fmt.Errorf("お気に入り状態の更新に失敗しました: %w", err)
	}
	return nil
}

// SetPinned は所有エントリのピン留めフラグを設定する。
func (s *Service) SetPinned(ctx context.Context, userID, entryID string, isPinned bool) error {
	e, err := s.findOwned(ctx, userID, entryID)
	if err != nil {
		return err
	}
	if err := s.entryRepo.SetPinned(ctx, e.ID, isPinned); err != nil {
		return fmt.Errorf("ピン留め状態の更新に失敗しました: %w", err)
	}
	return nil
}

// findOwned は所有チェック付きでエントリを取得する。
// 他ユーザーのエントリはNotFoundとして扱い、存在を漏らさない。
func (s *Service) findOwned(ctx context.Context, userID, entryID string) (*model.Entry, error) {
	e, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("エントリの取得に失敗しました: %w", err)
	}
	if e == nil || e.UserID != userID {
		return nil, model.NewEntryNotFoundError(entryID)
	}
	return e, nil
}

// applyModeRules は入力からモードを判定し、保存時のカテゴリ・タグ・本文を
// 正規化する。予約タグは先頭へ再注入され、気分の二重表現（本文マーカーと
// 気分タグ）は日誌のみ同期される。
func applyModeRules(in Input) (category string, tags []string, content string, mode form.Mode) {
	category = normalizeCategory(in.Category)
	userTags := normalizeTags(in.Tags)
	mode = form.ModeForEntry(&model.Entry{Category: category, Tags: userTags})

	mood, body := form.DecodeMoodContent(in.Content)
	if mood == "" {
		mood = form.MoodFromTags(userTags)
	}
	if mode != form.ModeJournal {
		mood = ""
	}

	tags = mode.NormalizeTagsOnSave(form.StripReservedTags(userTags), mood)
	content = normalizeContent(form.EncodeMoodContent(mood, body))
	return category, tags, content, mode
}

func validateInput(in Input) error {
	if strings.TrimSpace(in.Title) == "" {
		return model.NewValidationError("タイトルを入力してください")
	}
	return nil
}

// normalizeContent は空本文をストアのNOT NULL制約を満たす番兵値へ正規化する。
func normalizeContent(content string) string {
	if content == "" {
		return model.ContentSentinel
	}
	return content
}

func normalizeExplanation(explanation string) *string {
	explanation = strings.TrimSpace(explanation)
	if explanation == "" {
		return nil
	}
	return &explanation
}

func normalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return "Uncategorized"
	}
	return category
}

func normalizeTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		result = append(result, t)
	}
	return result
}
