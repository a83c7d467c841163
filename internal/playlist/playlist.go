// Package playlist は動画エントリ連続再生用のカーソルを提供する。
// 境界では停止し、折り返しは行わない。
package playlist

import "github.com/hitoshi/onmind/internal/model"

// Cursor は再生位置を保持するカーソル。ゼロ値は非アクティブ状態。
type Cursor struct {
	videos []*model.Entry
	index  int
	active bool
}

// Start は新しい動画列でカーソルを開始する。既存のカーソルは置き換えられる。
// startIndexは有効範囲内にクランプされる。空の列ではカーソルは開始されない。
func (c *Cursor) Start(videos []*model.Entry, startIndex int) {
	if len(videos) == 0 {
		c.Stop()
		return
	}
	if startIndex < 0 {
		startIndex = 0
	}
	if startIndex > len(videos)-1 {
		startIndex = len(videos) - 1
	}
	c.videos = videos
	c.index = startIndex
	c.active = true
}

// Stop はカーソルを破棄して非アクティブ状態に戻す。
func (c *Cursor) Stop() {
	c.videos = nil
	c.index = 0
	c.active = false
}

// Active はカーソルが開始済みかどうかを返す。
func (c *Cursor) Active() bool {
	return c.active
}

// Current は現在位置のエントリを返す。非アクティブならnil。
func (c *Cursor) Current() *model.Entry {
	if !c.active {
		return nil
	}
	return c.videos[c.index]
}

// Next は次の動画へ進む。末尾に達していた場合は進まずfalseを返す。
func (c *Cursor) Next() bool {
	if !c.active || c.index >= len(c.videos)-1 {
		return false
	}
	c.index++
	return true
}

// Previous は前の動画へ戻る。先頭の場合は動かずfalseを返す。
func (c *Cursor) Previous() bool {
	if !c.active || c.index <= 0 {
		return false
	}
	c.index--
	return true
}

// HasNext は次の動画が存在するかどうかを返す。
// UI側はこれを使って境界でコントロールを無効化する。
func (c *Cursor) HasNext() bool {
	return c.active && c.index < len(c.videos)-1
}

// HasPrevious は前の動画が存在するかどうかを返す。
func (c *Cursor) HasPrevious() bool {
	return c.active && c.index > 0
}

// CurrentIndex は現在位置を返す。非アクティブなら-1。
func (c *Cursor) CurrentIndex() int {
	if !c.active {
		return -1
	}
	return c.index
}

// Total はカーソル内の動画数を返す。
func (c *Cursor) Total() int {
	return len(c.videos)
}
