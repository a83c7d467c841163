package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/onmind/internal/model"
)

// PostgresEntryRepo はPostgreSQLを使用したエントリリポジトリ。
// タグ列はtext[]として保持し、挿入順を保存する。
type PostgresEntryRepo struct {
	db *sql.DB
}

// NewPostgresEntryRepo はPostgresEntryRepoを生成する。
func NewPostgresEntryRepo(db *sql.DB) *PostgresEntryRepo {
	return &PostgresEntryRepo{db: db}
}

// entryColumns はentriesテーブルのSELECT列リスト。
const entryColumns = `id, user_id, title, content, explanation, url, category, tags,
	       is_favorite, is_pinned, created_at, updated_at`

// scanEntry は1行をmodel.Entryに読み取る。
func scanEntry(scan func(dest ...interface{}) error) (*model.Entry, error) {
	entry := &model.Entry{}
	var explanation sql.NullString
	var tags pq.StringArray

	err := scan(
		&entry.ID, &entry.UserID, &entry.Title, &entry.Content, &explanation,
		&entry.URL, &entry.Category, &tags,
		&entry.IsFavorite, &entry.IsPinned, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if explanation.Valid {
		value := explanation.String
		entry.Explanation = &value
	}
	entry.Tags = []string(tags)
	if entry.Tags == nil {
		entry.Tags = []string{}
	}
	return entry, nil
}

// FindByID は指定IDのエントリを取得する。見つからない場合はnilを返す。
func (r *PostgresEntryRepo) FindByID(ctx context.Context, id string) (*model.Entry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE id = $1`,
		id,
	)

	entry, err := scanEntry(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("エントリの取得に失敗しました: %w", err)
	}
	return entry, nil
}

// ListByUser はユーザーの全エントリを既定のフェッチ順
// （is_pinned降順、created_at降順）で返す。
func (r *PostgresEntryRepo) ListByUser(ctx context.Context, userID string) ([]*model.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryColumns+`
		 FROM entries
		 WHERE user_id = $1
		 ORDER BY is_pinned DESC, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("エントリ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var entries []*model.Entry
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("エントリ行の読み取りに失敗しました: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("エントリ一覧の走査に失敗しました: %w", err)
	}

	return entries, nil
}

// Create は新規エントリを作成する。
func (r *PostgresEntryRepo) Create(ctx context.Context, entry *model.Entry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO entries (id, user_id, title, content, explanation, url, category, tags,
		                      is_favorite, is_pinned, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		entry.ID, entry.UserID, entry.Title, entry.Content, nullablePtr(entry.Explanation),
		entry.URL, entry.Category, pq.Array(entry.Tags),
		entry.IsFavorite, entry.IsPinned, entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("エントリの作成に失敗しました: %w", err)
	}
	return nil
}

// Update はエントリの編集可能フィールドを全て上書きする。
// updated_atはサーバー側で常に現在時刻に更新される。
func (r *PostgresEntryRepo) Update(ctx context.Context, entry *model.Entry) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE entries SET
		    title = $2, content = $3, explanation = $4, url = $5,
		    category = $6, tags = $7, is_favorite = $8, is_pinned = $9,
		    updated_at = now()
		 WHERE id = $1`,
		entry.ID, entry.Title, entry.Content, nullablePtr(entry.Explanation),
		entry.URL, entry.Category, pq.Array(entry.Tags),
		entry.IsFavorite, entry.IsPinned,
	)
	if err != nil {
		return fmt.Errorf("エントリの更新に失敗しました: %w", err)
	}
	return nil
}

// UpdateTags はタグ列のみを部分更新する。ファンアウト更新で使用する。
func (r *PostgresEntryRepo) UpdateTags(ctx context.Context, id string, tags []string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE entries SET tags = $2, updated_at = now() WHERE id = $1`,
		id, pq.Array(tags),
	)
	if err != nil {
		return fmt.Errorf("タグの更新に失敗しました: %w", err)
	}
	return nil
}

// UpdateCategory はカテゴリのみを部分更新する。ファンアウト更新で使用する。
func (r *PostgresEntryRepo) UpdateCategory(ctx context.Context, id string, category string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE entries SET category = $2, updated_at = now() WHERE id = $1`,
		id, category,
	)
	if err != nil {
		return fmt.Errorf("カテゴリの更新に失敗しました: %w", err)
	}
	return nil
}

// SetFavorite はお気に入りフラグのみを更新する。
func (r *PostgresEntryRepo) SetFavorite(ctx context.Context, id string, isFavorite bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE entries SET is_favorite = $2, updated_at = now() WHERE id = $1`,
		id, isFavorite,
	)
	if err != nil {
		return fmt.Errorf("お気に入り状態の更新に失敗しました: %w", err)
	}
	return nil
}

// SetPinned はピン留めフラグのみを更新する。
func (r *PostgresEntryRepo) SetPinned(ctx context.Context, id string, isPinned bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE entries SET is_pinned = $2, updated_at = now() WHERE id = $1`,
		id, isPinned,
	)
	if err != nil {
		return fmt.Errorf("ピン留め状態の更新に失敗しました: %w", err)
	}
	return nil
}

// Delete は指定IDのエントリを削除する。
func (r *PostgresEntryRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM entries WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("エントリの削除に失敗しました: %w", err)
	}
	return nil
}

// nullablePtr は*stringをsql.NullStringに変換する。
func nullablePtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// compile-time interface check
var _ EntryRepository = (*PostgresEntryRepo)(nil)
