// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/hitoshi/onmind/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はメール/パスワード認証ユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// CreateWithIdentity はユーザーとidentityを同一トランザクションで作成する。
	CreateWithIdentity(ctx context.Context, user *model.User, identity *model.Identity) error

	// DeleteByID は指定IDのユーザーを削除する。
	// 関連するidentities、sessions、entriesはCASCADE削除される。
	DeleteByID(ctx context.Context, id string) error
}

// IdentityRepository は外部IdP紐付け情報の永続化インターフェース。
type IdentityRepository interface {
	// FindByProviderAndProviderUserID はproviderとprovider_user_idでidentityを検索する。
	// 見つからない場合はnilを返す。
	FindByProviderAndProviderUserID(ctx context.Context, provider, providerUserID string) (*model.Identity, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// EntryRepository はエントリデータの永続化インターフェース。
// すべての操作は所有者スコープを前提とし、取得系は呼び出し元がuser_idで絞り込む。
type EntryRepository interface {
	// FindByID は指定IDのエントリを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Entry, error)

	// ListByUser はユーザーの全エントリを既定のフェッチ順
	// （is_pinned降順、created_at降順）で返す。
	ListByUser(ctx context.Context, userID string) ([]*model.Entry, error)

	// Create は新規エントリを作成する。
	Create(ctx context.Context, entry *model.Entry) error

	// Update はエントリの編集可能フィールドを全て上書きする。
	// updated_atはサーバー側で常に現在時刻に更新される。
	Update(ctx context.Context, entry *model.Entry) error

	// UpdateTags はタグ列のみを部分更新する。ファンアウト更新で使用する。
	UpdateTags(ctx context.Context, id string, tags []string) error

	// UpdateCategory はカテゴリのみを部分更新する。ファンアウト更新で使用する。
	UpdateCategory(ctx context.Context, id string, category string) error

	// SetFavorite はお気に入りフラグのみを更新する。
	SetFavorite(ctx context.Context, id string, isFavorite bool) error

	// SetPinned はピン留めフラグのみを更新する。
	SetPinned(ctx context.Context, id string, isPinned bool) error

	// Delete は指定IDのエントリを削除する。
	Delete(ctx context.Context, id string) error
}

// TxBeginner はトランザクション開始用のインターフェース。
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}
