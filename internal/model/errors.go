// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, entry, taxonomy, metadata, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized         = "UNAUTHORIZED"
	ErrCodeEntryNotFound        = "ENTRY_NOT_FOUND"
	ErrCodeValidationFailed     = "VALIDATION_FAILED"
	ErrCodeDuplicateCategory    = "DUPLICATE_CATEGORY"
	ErrCodeCannotDeleteDefault  = "CANNOT_DELETE_DEFAULT"
	ErrCodeCannotRenameDefault  = "CANNOT_RENAME_DEFAULT"
	ErrCodePartialFanout        = "PARTIAL_FANOUT_FAILURE"
	ErrCodeMetadataFetchFailed  = "METADATA_FETCH_FAILED"
	ErrCodeInvalidURL           = "INVALID_URL"
	ErrCodeSSRFBlocked          = "SSRF_BLOCKED"
	ErrCodeEmailTaken           = "EMAIL_TAKEN"
	ErrCodeInvalidCredentials   = "INVALID_CREDENTIALS"
	ErrCodeFeedImportFailed     = "FEED_IMPORT_FAILED"
)

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewEntryNotFoundError はエントリ未検出エラーを生成する。
// 他ユーザーのエントリへの操作もこのエラーに丸める（存在の有無を漏らさない）。
func NewEntryNotFoundError(entryID string) *APIError {
	return &APIError{
		Code:     ErrCodeEntryNotFound,
		Message:  fmt.Sprintf("指定されたエントリが見つかりません: %s", entryID),
		Category: "entry",
		Action:   "エントリIDを確認してください。",
	}
}

// NewValidationError は入力値の検証エラーを生成する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  fmt.Sprintf("入力値が不正です: %s", reason),
		Category: "validation",
		Action:   "入力内容を確認してください。",
	}
}

// NewDuplicateCategoryError はカテゴリ重複エラーを生成する。
func NewDuplicateCategoryError(name string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateCategory,
		Message:  fmt.Sprintf("カテゴリ「%s」は既に存在します。", name),
		Category: "taxonomy",
		Action:   "別のカテゴリ名を指定してください。",
	}
}

// NewCannotDeleteDefaultError は既定カテゴリ削除の拒否エラーを生成する。
func NewCannotDeleteDefaultError(name string) *APIError {
	return &APIError{
		Code:     ErrCodeCannotDeleteDefault,
		Message:  fmt.Sprintf("既定カテゴリ「%s」は削除できません。", name),
		Category: "taxonomy",
		Action:   "既定カテゴリ以外を指定してください。",
	}
}

// NewCannotRenameDefaultError は既定カテゴリリネームの拒否エラーを生成する。
func NewCannotRenameDefaultError(name string) *APIError {
	return &APIError{
		Code:     ErrCodeCannotRenameDefault,
		Message:  fmt.Sprintf("既定カテゴリ「%s」はリネームできません。", name),
		Category: "taxonomy",
		Action:   "既定カテゴリ以外を指定してください。",
	}
}

// NewPartialFanoutError はファンアウト更新の部分失敗エラーを生成する。
// applied件は更新済みのまま残る（ロールバックは行わない）。
func NewPartialFanoutError(applied, total int, cause error) *APIError {
	return &APIError{
		Code:     ErrCodePartialFanout,
		Message:  fmt.Sprintf("一括更新が途中で失敗しました（%d/%d件適用済み）: %v", applied, total, cause),
		Category: "taxonomy",
		Action:   "一覧を再取得して現在の状態を確認し、同じ操作を再実行してください。",
	}
}

// NewMetadataFetchFailedError はメタデータ取得失敗エラーを生成する。
// エントリ作成自体は失敗させない非致命的エラー。
func NewMetadataFetchFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeMetadataFetchFailed,
		Message:  fmt.Sprintf("URLのメタデータ取得に失敗しました: %s", reason),
		Category: "metadata",
		Action:   "タイトル等を手入力してそのまま保存できます。",
	}
}

// NewInvalidURLError は無効なURLエラーを生成する。
func NewInvalidURLError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidURL,
		Message:  fmt.Sprintf("無効なURLです: %s", reason),
		Category: "validation",
		Action:   "正しいURL形式（http:// または https:// で始まるURL）を入力してください。",
	}
}

// NewSSRFBlockedError はSSRFブロックエラーを生成する。
func NewSSRFBlockedError() *APIError {
	return &APIError{
		Code:     ErrCodeSSRFBlocked,
		Message:  "セキュリティポリシーにより、指定されたURLへのアクセスがブロックされました。",
		Category: "validation",
		Action:   "公開されているWebサイトのURLを入力してください。ローカルネットワークやプライベートIPへのアクセスは許可されていません。",
	}
}

// NewEmailTakenError はメールアドレス重複エラーを生成する。
func NewEmailTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "auth",
		Action:   "ログインするか、別のメールアドレスで登録してください。",
	}
}

// NewInvalidCredentialsError は認証情報不一致エラーを生成する。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewFeedImportFailedError はフィード取り込み失敗エラーを生成する。
func NewFeedImportFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeFeedImportFailed,
		Message:  fmt.Sprintf("フィードの取り込みに失敗しました: %s", reason),
		Category: "entry",
		Action:   "URLが有効なRSS/Atomフィードか確認してください。",
	}
}
