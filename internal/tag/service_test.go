package tag

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/onmind/internal/model"
)

// --- モック ---

type mockEntryRepo struct {
	entries      []*model.Entry
	updateTagsFn func(ctx context.Context, id string, tags []string) error
}

func (m *mockEntryRepo) FindByID(ctx context.Context, id string) (*model.Entry, error) {
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}
func (m *mockEntryRepo) ListByUser(ctx context.Context, userID string) ([]*model.Entry, error) {
	return m.entries, nil
}
func (m *mockEntryRepo) Create(ctx context.Context, entry *model.Entry) error {
	return nil
}
func (m *mockEntryRepo) Update(ctx context.Context, entry *model.Entry) error {
	return nil
}
func (m *mockEntryRepo) UpdateTags(ctx context.Context, id string, tags []string) error {
	if m.updateTagsFn != nil {
		return m.updateTagsFn(ctx, id, tags)
	}
	for _, e := range m.entries {
		if e.ID == id {
			e.Tags = tags
		}
	}
	return nil
}
func (m *mockEntryRepo) UpdateCategory(ctx context.Context, id string, category string) error {
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

func entryWithTags(id string, tags ...string) *model.Entry {
	return &model.Entry{ID: id, UserID: "user-1", Tags: tags}
}

// --- テスト ---

// TestService_ListTags は和集合と大文字小文字を区別しないソートを検証する。
func TestService_ListTags(t *testing.T) {
	repo := &mockEntryRepo{entries: []*model.Entry{
		entryWithTags("1", "Zebra", "apple"),
		entryWithTags("2", "apple", "Banana"),
	}}
	svc := NewService(repo)

	got, err := svc.ListTags(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListTags() error = %v", err)
	}
	want := []string{"apple", "Banana", "Zebra"}
	if len(got) != len(want) {
		t.Fatalf("ListTags() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListTags()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestService_RenameTag_Fanout は全対象エントリで同じ位置の置換が
// 行われることを検証する。
func TestService_RenameTag_Fanout(t *testing.T) {
	repo := &mockEntryRepo{entries: []*model.Entry{
		entryWithTags("1", "draft", "golang"),
		entryWithTags("2", "golang", "draft"),
		entryWithTags("3", "draft"),
	}}
	svc := NewService(repo)

	updated, err := svc.RenameTag(context.Background(), "user-1", "draft", "final")
	if err != nil {
		t.Fatalf("RenameTag() error = %v", err)
	}
	if updated != 3 {
		t.Errorf("RenameTag() updated = %d, want 3", updated)
	}

	wants := [][]string{
		{"final", "golang"},
		{"golang", "final"},
		{"final"},
	}
	for i, e := range repo.entries {
		if len(e.Tags) != len(wants[i]) {
			t.Fatalf("entries[%d].Tags = %v, want %v", i, e.Tags, wants[i])
		}
		for j := range wants[i] {
			if e.Tags[j] != wants[i][j] {
				t.Errorf("entries[%d].Tags[%d] = %q, want %q（位置を保存すること）", i, j, e.Tags[j], wants[i][j])
			}
		}
	}

	tags, err := svc.ListTags(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListTags() error = %v", err)
	}
	for _, tag := range tags {
		if tag == "draft" {
			t.Errorf("ListTags() = %v, 改名前のタグが残っている", tags)
		}
	}
}

// TestService_RenameTag_MergeOnCollision は改名先が既存タグの場合に
// 合流することを検証する。
func TestService_RenameTag_MergeOnCollision(t *testing.T) {
	repo := &mockEntryRepo{entries: []*model.Entry{
		entryWithTags("1", "draft", "final"),
	}}
	svc := NewService(repo)

	if _, err := svc.RenameTag(context.Background(), "user-1", "draft", "final"); err != nil {
		t.Fatalf("RenameTag() error = %v", err)
	}
	if len(repo.entries[0].Tags) != 1 || repo.entries[0].Tags[0] != "final" {
		t.Errorf("Tags = %v, want [final]", repo.entries[0].Tags)
	}
}

// TestService_DeleteTag_IdempotentRetry は部分失敗後の再実行が
// 一回成功した場合と同じ最終状態になることを検証する。
func TestService_DeleteTag_IdempotentRetry(t *testing.T) {
	repo := &mockEntryRepo{entries: []*model.Entry{
		entryWithTags("1", "x", "keep"),
		entryWithTags("2", "x"),
		entryWithTags("3", "keep"),
	}}
	svc := NewService(repo)

	// 2回連続で呼んでも最終状態は変わらない
	wantUpdated := []int{2, 0}
	for i := 0; i < 2; i++ {
		updated, err := svc.DeleteTag(context.Background(), "user-1", "x")
		if err != nil {
			t.Fatalf("DeleteTag() %d回目 error = %v", i+1, err)
		}
		if updated != wantUpdated[i] {
			t.Errorf("DeleteTag() %d回目 updated = %d, want %d", i+1, updated, wantUpdated[i])
		}
	}

	for _, e := range repo.entries {
		if e.HasTag("x") {
			t.Errorf("entries[%s].Tags = %v, タグxが残っている", e.ID, e.Tags)
		}
	}
	if !repo.entries[0].HasTag("keep") || !repo.entries[2].HasTag("keep") {
		t.Error("無関係なタグが失われた")
	}
}

// TestService_DeleteTag_PartialFailure は途中失敗時に適用済み更新が
// 残り、部分適用エラーが返ることを検証する。
func TestService_DeleteTag_PartialFailure(t *testing.T) {
	repo := &mockEntryRepo{entries: []*model.Entry{
		entryWithTags("1", "x"),
		entryWithTags("2", "x"),
		entryWithTags("3", "x"),
	}}
	failed := errors.New("接続断")
	calls := 0
	repo.updateTagsFn = func(ctx context.Context, id string, tags []string) error {
		calls++
		if calls == 3 {
			return failed
		}
		for _, e := range repo.entries {
			if e.ID == id {
				e.Tags = tags
			}
		}
		return nil
	}
	svc := NewService(repo)

	applied, err := svc.DeleteTag(context.Background(), "user-1", "x")
	if err == nil {
		t.Fatal("DeleteTag() error = nil, want 部分適用エラー")
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodePartialFanout {
		t.Errorf("err = %v, want code %s", err, model.ErrCodePartialFanout)
	}
	if applied != 2 {
		t.Errorf("DeleteTag() applied = %d, want 2", applied)
	}

	// ロールバックされず、2件は適用済みのまま
	if repo.entries[0].HasTag("x") || repo.entries[1].HasTag("x") {
		t.Error("適用済みの更新が巻き戻されている")
	}
	if !repo.entries[2].HasTag("x") {
		t.Error("失敗したエントリまで更新されている")
	}
}

// TestService_RenameTag_EmptyNewTag は空のタグ名への改名を拒否することを検証する。
func TestService_RenameTag_EmptyNewTag(t *testing.T) {
	svc := NewService(&mockEntryRepo{})
	_, err := svc.RenameTag(context.Background(), "user-1", "draft", "")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidationFailed {
		t.Errorf("RenameTag(\"\") = %v, want %s", err, model.ErrCodeValidationFailed)
	}
}
