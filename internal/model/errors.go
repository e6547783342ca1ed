package model

import "fmt"

// DialogError は利用者に提示する失敗の統一フォーマットを表す。
// 原因カテゴリと対処方法を含む。致命的な失敗は存在せず、
// すべてのDialogErrorは応答メッセージと状態に解決される。
type DialogError struct {
	Code     string // エラーコード
	Message  string // 利用者向けメッセージ
	Category string // カテゴリ: validation, auth, backend, transport
	Action   string // 利用者向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *DialogError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeWeakPassword      = "WEAK_PASSWORD"
	ErrCodeTitleTooLong      = "TITLE_TOO_LONG"
	ErrCodeContentTooLong    = "CONTENT_TOO_LONG"
	ErrCodeTooManyTags       = "TOO_MANY_TAGS"
	ErrCodeAlreadyRegistered = "ALREADY_REGISTERED"
	ErrCodeWrongPassword     = "WRONG_PASSWORD"
	ErrCodeInvalidSession    = "INVALID_SESSION"
	ErrCodeNotLoggedIn       = "NOT_LOGGED_IN"
	ErrCodeBackendRejected   = "BACKEND_REJECTED"
	ErrCodeServerError       = "SERVER_ERROR"
	ErrCodeUnknownInput      = "UNKNOWN_INPUT"
)

// NewWeakPasswordError はパスワード強度不足エラーを生成する。
func NewWeakPasswordError() *DialogError {
	return &DialogError{
		Code:     ErrCodeWeakPassword,
		Message:  "パスワードが要件を満たしていません。",
		Category: "validation",
		Action:   "8文字以上で、大文字・小文字・数字・記号（@$!%*?&）を各1文字以上含めてください。",
	}
}

// NewTitleTooLongError はタイトル超過エラーを生成する。
func NewTitleTooLongError(limit int) *DialogError {
	return &DialogError{
		Code:     ErrCodeTitleTooLong,
		Message:  fmt.Sprintf("タイトルが長すぎます（%d文字未満にしてください）。", limit),
		Category: "validation",
		Action:   "短いタイトルを入力し直してください。",
	}
}

// NewContentTooLongError は本文超過エラーを生成する。
func NewContentTooLongError(limit int) *DialogError {
	return &DialogError{
		Code:     ErrCodeContentTooLong,
		Message:  fmt.Sprintf("本文が長すぎます（%d文字未満にしてください）。", limit),
		Category: "validation",
		Action:   "本文を短くして入力し直してください。",
	}
}

// NewTooManyTagsError はタグ数超過エラーを生成する。
func NewTooManyTagsError(limit int) *DialogError {
	return &DialogError{
		Code:     ErrCodeTooManyTags,
		Message:  fmt.Sprintf("タグが多すぎます（%d個未満にしてください）。", limit),
		Category: "validation",
		Action:   "スペース区切りのタグを減らして入力し直してください。",
	}
}

// NewAlreadyRegisteredError は重複登録エラーを生成する。
func NewAlreadyRegisteredError() *DialogError {
	return &DialogError{
		Code:     ErrCodeAlreadyRegistered,
		Message:  "このユーザー名は既に登録されています。",
		Category: "backend",
		Action:   "別のパスワードで登録し直すか、ログインしてください。",
	}
}

// NewWrongPasswordError は認証失敗エラーを生成する。
func NewWrongPasswordError() *DialogError {
	return &DialogError{
		Code:     ErrCodeWrongPassword,
		Message:  "ユーザー名またはパスワードが違います。",
		Category: "auth",
		Action:   "パスワードを確認して入力し直してください。",
	}
}

// NewInvalidSessionError はトークン失効エラーを生成する。
func NewInvalidSessionError() *DialogError {
	return &DialogError{
		Code:     ErrCodeInvalidSession,
		Message:  "セッションが無効になりました。",
		Category: "auth",
		Action:   "もう一度ログインしてください。",
	}
}

// NewNotLoggedInError は未ログインエラーを生成する。
func NewNotLoggedInError() *DialogError {
	return &DialogError{
		Code:     ErrCodeNotLoggedIn,
		Message:  "ログインしていません。",
		Category: "auth",
		Action:   "パスワードを入力してログインしてください。",
	}
}

// NewBackendRejectedError はバックエンドによる非認証系の拒否エラーを生成する。
func NewBackendRejectedError(statusCode int) *DialogError {
	return &DialogError{
		Code:     ErrCodeBackendRejected,
		Message:  fmt.Sprintf("リクエストが受け付けられませんでした（status %d）。", statusCode),
		Category: "backend",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewServerError は通信障害エラーを生成する。自動リトライは行わない。
func NewServerError() *DialogError {
	return &DialogError{
		Code:     ErrCodeServerError,
		Message:  "サーバーに接続できませんでした。",
		Category: "transport",
		Action:   "しばらく待ってから同じ操作をやり直してください。",
	}
}

// NewUnknownInputError は解釈できない入力に対するエラーを生成する。
func NewUnknownInputError() *DialogError {
	return &DialogError{
		Code:     ErrCodeUnknownInput,
		Message:  "入力を理解できませんでした。",
		Category: "validation",
		Action:   "表示されているボタンか、求められている入力を送信してください。",
	}
}
