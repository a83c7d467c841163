// Package cleanup はセッションとプレースホルダエントリの掃除ジョブを提供する。
// 期限切れセッションの削除と、役目を終えたカテゴリプレースホルダの削除を
// 日次バッチで実行する。
package cleanup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Executor はSQLのExecContextを抽象化するインターフェース。
// *sql.DB や *sql.Tx を受け付けることができる。
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SessionCleaner は期限切れセッションの削除に必要なインターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type SessionCleaner interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// CleanupJob はセッションとプレースホルダの掃除ジョブ。
// 日次実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type CleanupJob struct {
	db       Executor
	sessions SessionCleaner
	logger   *slog.Logger
}

// NewCleanupJob は新しいCleanupJobを生成する。
func NewCleanupJob(db Executor, sessions SessionCleaner, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		db:       db,
		sessions: sessions,
		logger:   logger,
	}
}

// orphanedPlaceholderQuery は役目を終えたプレースホルダを削除する。
// プレースホルダはカテゴリを発見可能にするための "system" タグ付き
// エントリであり、同じカテゴリに通常のエントリが存在するようになった
// 時点で不要になる。
const orphanedPlaceholderQuery = `
	DELETE FROM entries p
	WHERE 'system' = ANY(p.tags)
	  AND p.title = 'Category Created'
	  AND EXISTS (
	    SELECT 1 FROM entries e
	    WHERE e.user_id = p.user_id
	      AND e.category = p.category
	      AND e.id <> p.id
	      AND NOT ('system' = ANY(e.tags))
	  )`

// Run は期限切れセッションと不要になったプレースホルダを削除する。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	expiredSessions, err := j.sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		j.logger.Error("期限切れセッションの削除に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("期限切れセッションの削除に失敗: %w", err)
	}

	result, err := j.db.ExecContext(ctx, orphanedPlaceholderQuery)
	if err != nil {
		j.logger.Error("プレースホルダ掃除の実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("プレースホルダ掃除の実行に失敗: %w", err)
	}

	prunedPlaceholders, err := result.RowsAffected()
	if err != nil {
		j.logger.Error("削除件数の取得に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("削除件数の取得に失敗: %w", err)
	}

	duration := time.Since(start)
	j.logger.Info("掃除ジョブが完了しました",
		slog.Int64("expired_sessions", expiredSessions),
		slog.Int64("pruned_placeholders", prunedPlaceholders),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// RunLoop は指定間隔でRunを繰り返す。起動直後に一度実行し、
// コンテキストのキャンセルで停止する。
func (j *CleanupJob) RunLoop(ctx context.Context, interval time.Duration) {
	if err := j.Run(ctx); err != nil {
		j.logger.Error("掃除ジョブの初回実行に失敗しました", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Error("掃除ジョブの実行に失敗しました", slog.String("error", err.Error()))
			}
		}
	}
}
