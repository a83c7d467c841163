package playlist

import (
	"testing"

	"github.com/hitoshi/onmind/internal/model"
)

func makeVideos(n int) []*model.Entry {
	videos := make([]*model.Entry, n)
	for i := range videos {
		videos[i] = &model.Entry{ID: string(rune('a' + i))}
	}
	return videos
}

// TestCursor_Boundary は境界でクランプし折り返さないことを検証する。
func TestCursor_Boundary(t *testing.T) {
	var c Cursor
	c.Start(makeVideos(3), 0)

	// 先頭でPreviousは動かない
	if c.Previous() {
		t.Error("先頭でPrevious() = true, want false")
	}
	if c.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex() = %d, want 0", c.CurrentIndex())
	}

	// 2回のNextで末尾へ
	if !c.Next() || !c.Next() {
		t.Fatal("Next()が途中でfalseを返した")
	}
	if c.CurrentIndex() != 2 {
		t.Errorf("CurrentIndex() = %d, want 2", c.CurrentIndex())
	}

	// 末尾でNextは動かない
	if c.Next() {
		t.Error("末尾でNext() = true, want false")
	}
	if c.CurrentIndex() != 2 {
		t.Errorf("CurrentIndex() = %d, want 2", c.CurrentIndex())
	}
}

// TestCursor_HasNextHasPrevious は境界判定を検証する。
func TestCursor_HasNextHasPrevious(t *testing.T) {
	var c Cursor
	c.Start(makeVideos(2), 0)

	if !c.HasNext() {
		t.Error("先頭でHasNext() = false, want true")
	}
	if c.HasPrevious() {
		t.Error("先頭でHasPrevious() = true, want false")
	}

	c.Next()
	if c.HasNext() {
		t.Error("末尾でHasNext() = true, want false")
	}
	if !c.HasPrevious() {
		t.Error("末尾でHasPrevious() = false, want true")
	}
}

// TestCursor_StartClampsIndex は開始位置が有効範囲内にクランプされることを検証する。
func TestCursor_StartClampsIndex(t *testing.T) {
	var c Cursor

	c.Start(makeVideos(3), 10)
	if c.CurrentIndex() != 2 {
		t.Errorf("Start(startIndex=10)後のCurrentIndex() = %d, want 2", c.CurrentIndex())
	}

	c.Start(makeVideos(3), -1)
	if c.CurrentIndex() != 0 {
		t.Errorf("Start(startIndex=-1)後のCurrentIndex() = %d, want 0", c.CurrentIndex())
	}
}

// TestCursor_Inactive は非アクティブ状態の各メソッドの振る舞いを検証する。
func TestCursor_Inactive(t *testing.T) {
	var c Cursor

	if c.Active() {
		t.Error("ゼロ値でActive() = true, want false")
	}
	if c.Current() != nil {
		t.Error("非アクティブでCurrent() != nil")
	}
	if c.Next() || c.Previous() {
		t.Error("非アクティブでNext()/Previous() = true, want false")
	}
	if c.CurrentIndex() != -1 {
		t.Errorf("非アクティブでCurrentIndex() = %d, want -1", c.CurrentIndex())
	}

	// 空の列では開始されない
	c.Start(nil, 0)
	if c.Active() {
		t.Error("空の列でStart後にActive() = true, want false")
	}
}

// TestCursor_StartReplaces は再Startで既存カーソルが置き換わることを検証する。
func TestCursor_StartReplaces(t *testing.T) {
	var c Cursor
	c.Start(makeVideos(3), 2)
	c.Start(makeVideos(5), 1)

	if c.Total() != 5 {
		t.Errorf("Total() = %d, want 5", c.Total())
	}
	if c.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex() = %d, want 1", c.CurrentIndex())
	}
}
