package category

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/onmind/internal/model"
)

// --- モック ---

type mockEntryRepo struct {
	entries          []*model.Entry
	created          []*model.Entry
	updateCategoryFn func(ctx context.Context, id string, category string) error
}

func (m *mockEntryRepo) FindByID(ctx context.Context, id string) (*model.Entry, error) {
	return nil, nil
}
func (m *mockEntryRepo) ListByUser(ctx context.Context, userID string) ([]*model.Entry, error) {
	return m.entries, nil
}
func (m *mockEntryRepo) Create(ctx context.Context, entry *model.Entry) error {
	m.created = append(m.created, entry)
	m.entries = append(m.entries, entry)
	return nil
}
func (m *mockEntryRepo) Update(ctx context.Context, entry *model.Entry) error {
	return nil
}
func (m *mockEntryRepo) UpdateTags(ctx context.Context, id string, tags []string) error {
	return nil
}
func (m *mockEntryRepo) UpdateCategory(ctx context.Context, id string, category string) error {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(ctx, id, category)
	}
	for _, e := range m.entries {
		if e.ID == id {
			e.Category = category
		}
	}
	return nil
}
func (m *mockEntryRepo) SetFavorite(ctx context.Context, id string, isFavorite bool) error {
	return nil
}
func (m *mockEntryRepo) SetPinned(ctx context.Context, id string, isPinned bool) error {
	return nil
}
func (m *mockEntryRepo) Delete(ctx context.Context, id string) error {
	return nil
}

func entryInCategory(id, category string) *model.Entry {
	return &model.Entry{ID: id, UserID: "user-1", Category: category}
}

// --- テスト ---

// TestService_ListCategories は既定カテゴリの固定順とカスタムの辞書順、
// 数値プレースホルダの除外を検証する。
func TestService_ListCategories(t *testing.T) {
	repo := &mockEntryRepo{entries: []*model.Entry{
		entryInCategory("1", "読書メモ"),
		entryInCategory("2", "Cooking"),
		entryInCategory("3", "(42)"),
		entryInCategory("4", "Journal"),
	}}
	svc := NewService(repo, nil)

	got, err := svc.ListCategories(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}

	wantLen := len(model.DefaultCategories) + 2
	if len(got) != wantLen {
		t.Fatalf("ListCategories() = %v（%d件）, want %d件", got, len(got), wantLen)
	}

	// 既定カテゴリが固定順で先頭に並ぶ
	for i, d := range model.DefaultCategories {
		if got[i] != d {
			t.Errorf("got[%d] = %q, want %q", i, got[i], d)
		}
	}
	// カスタムは後ろに辞書順
	if got[wantLen-2] != "Cooking" || got[wantLen-1] != "読書メモ" {
		t.Errorf("カスタムカテゴリ = %v, want [Cooking 読書メモ]", got[len(model.DefaultCategories):])
	}
}

// TestService_AddCategory はプレースホルダエントリによるカテゴリの
// 具現化を検証する。
func TestService_AddCategory(t *testing.T) {
	repo := &mockEntryRepo{}
	svc := NewService(repo, nil)

	if err := svc.AddCategory(context.Background(), "user-1", "研究ノート"); err != nil {
		t.Fatalf("AddCategory() error = %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("作成されたエントリ = %d件, want 1件", len(repo.created))
	}
	p := repo.created[0]
	if p.Category != "研究ノート" {
		t.Errorf("Category = %q, want %q", p.Category, "研究ノート")
	}
	if p.Title != "Category Created" || p.Content != model.ContentSentinel {
		t.Errorf("プレースホルダの形式が不正: Title=%q Content=%q", p.Title, p.Content)
	}
	if len(p.Tags) != 1 || p.Tags[0] != model.TagSystem {
		t.Errorf("Tags = %v, want [%s]", p.Tags, model.TagSystem)
	}
	if p.ID == "" || p.UserID != "user-1" {
		t.Errorf("ID/UserIDが設定されていない: %+v", p)
	}
}

// TestService_AddCategory_Duplicate は既定・カスタム双方との重複拒否を検証する。
func TestService_AddCategory_Duplicate(t *testing.T) {
	repo := &mockEntryRepo{entries: []*model.Entry{
		entryInCategory("1", "読書メモ"),
	}}
	svc := NewService(repo, nil)

	for _, name := range []string{"Journal", "読書メモ"} {
		err := svc.AddCategory(context.Background(), "user-1", name)
		var apiErr *model.APIError
		if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeDuplicateCategory {
			t.Errorf("AddCategory(%q) = %v, want %s", name, err, model.ErrCodeDuplicateCategory)
		}
	}
}

// TestService_DeleteCategory_ProtectsDefaults は既定カテゴリの削除拒否と
// エントリが無変更であることを検証する。
func TestService_DeleteCategory_ProtectsDefaults(t *testing.T) {
	repo := &mockEntryRepo{entries: []*model.Entry{
		entryInCategory("1", "Journal"),
	}}
	svc := NewService(repo, nil)

	_, err := svc.DeleteCategory(context.Background(), "user-1", "Journal", "Reference")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeCannotDeleteDefault {
		t.Fatalf("DeleteCategory(Journal) = %v, want %s", err, model.ErrCodeCannotDeleteDefault)
	}
	if repo.entries[0].Category != "Journal" {
		t.Errorf("拒否後にカテゴリが変更されている: %q", repo.entries[0].Category)
	}
}

// TestService_DeleteCategory_SweepsLegacyValues は対象・数値プレースホルダ・
// 廃止済み値が同じ付け替えに含まれることを検証する。
func TestService_DeleteCategory_SweepsLegacyValues(t *testing.T) {
	repo := &mockEntryRepo{entries: []*model.Entry{
		entryInCategory("1", "古いカテゴリ"),
		entryInCategory("2", "(7)"),
		entryInCategory("3", "Code Vault"),
		entryInCategory("4", "Reference"),
	}}
	svc := NewService(repo, []string{"Code Vault"})

	updated, err := svc.DeleteCategory(context.Background(), "user-1", "古いカテゴリ", "Uncategorized")
	if err != nil {
		t.Fatalf("DeleteCategory() error = %v", err)
	}
	if updated != 3 {
		t.Errorf("DeleteCategory() updated = %d, want 3", updated)
	}

	for _, id := range []string{"1", "2", "3"} {
		for _, e := range repo.entries {
			if e.ID == id && e.Category != "Uncategorized" {
				t.Errorf("entries[%s].Category = %q, want Uncategorized", id, e.Category)
			}
		}
	}
	if repo.entries[3].Category != "Reference" {
		t.Errorf("対象外のエントリが付け替えられた: %q", repo.entries[3].Category)
	}
}

// TestService_RenameCategory はファンアウト付け替えと保護規則を検証する。
func TestService_RenameCategory(t *testing.T) {
	repo := &mockEntryRepo{entries: []*model.Entry{
		entryInCategory("1", "古い名前"),
		entryInCategory("2", "古い名前"),
		entryInCategory("3", "Reference"),
	}}
	svc := NewService(repo, nil)

	updated, err := svc.RenameCategory(context.Background(), "user-1", "古い名前", "新しい名前")
	if err != nil {
		t.Fatalf("RenameCategory() error = %v", err)
	}
	if updated != 2 {
		t.Errorf("RenameCategory() updated = %d, want 2", updated)
	}
	if repo.entries[0].Category != "新しい名前" || repo.entries[1].Category != "新しい名前" {
		t.Errorf("付け替え漏れ: %q, %q", repo.entries[0].Category, repo.entries[1].Category)
	}

	// 既定カテゴリの改名は拒否
	_, err = svc.RenameCategory(context.Background(), "user-1", "Ideas", "アイデア")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeCannotRenameDefault {
		t.Errorf("RenameCategory(Ideas) = %v, want %s", err, model.ErrCodeCannotRenameDefault)
	}

	// 改名先の重複は拒否
	_, err = svc.RenameCategory(context.Background(), "user-1", "新しい名前", "Reference")
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeDuplicateCategory {
		t.Errorf("RenameCategory(→Reference) = %v, want %s", err, model.ErrCodeDuplicateCategory)
	}
}

// TestService_RenameCategory_PartialFailure は途中失敗時の部分適用を検証する。
func TestService_RenameCategory_PartialFailure(t *testing.T) {
	repo := &mockEntryRepo{entries: []*model.Entry{
		entryInCategory("1", "対象"),
		entryInCategory("2", "対象"),
	}}
	calls := 0
	repo.updateCategoryFn = func(ctx context.Context, id string, category string) error {
		calls++
		if calls == 2 {
			return errors.New("接続断")
		}
		for _, e := range repo.entries {
			if e.ID == id {
				e.Category = category
			}
		}
		return nil
	}
	svc := NewService(repo, nil)

	applied, err := svc.RenameCategory(context.Background(), "user-1", "対象", "移行先")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodePartialFanout {
		t.Fatalf("err = %v, want %s", err, model.ErrCodePartialFanout)
	}
	if applied != 1 {
		t.Errorf("RenameCategory() applied = %d, want 1", applied)
	}
	if repo.entries[0].Category != "移行先" || repo.entries[1].Category != "対象" {
		t.Errorf("部分適用状態が想定と異なる: %q, %q", repo.entries[0].Category, repo.entries[1].Category)
	}
}
