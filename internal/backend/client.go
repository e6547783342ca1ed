// Package backend はノートストレージAPIへの型付きHTTP呼び出しを提供する。
// 各呼び出しの結果は3値で表現する:
//   - 成功: ペイロードとnilエラー
//   - 拒否: *Rejection（バックエンドが理解した上で断った。ステータスコードを保持）
//   - 通信障害: それ以外のエラー（タイムアウト・接続失敗）
//
// この層はリトライを行わない。リトライ方針は呼び出し側（対話エンジン）に属する。
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hitoshi/notetalk/internal/model"
)

// DefaultTimeout は1呼び出しあたりの既定のタイムアウト。
const DefaultTimeout = 1 * time.Second

// Rejection はバックエンドがリクエストを理解した上で拒否したことを表す。
// 重複ユーザー名・誤った資格情報・失効トークンなどが該当する。
type Rejection struct {
	StatusCode int
}

// Error はerrorインターフェースを実装する。
func (r *Rejection) Error() string {
	return fmt.Sprintf("backend rejected request with status %d", r.StatusCode)
}

// AsRejection はエラーが拒否応答かどうかを判定し、拒否であればそれを返す。
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

// IsAuthRejection はエラーが認可系の拒否（401）かどうかを返す。
func IsAuthRejection(err error) bool {
	rej, ok := AsRejection(err)
	return ok && rej.StatusCode == http.StatusUnauthorized
}

// Recorder はバックエンド呼び出しのメトリクス記録インターフェース。
// metrics.Collectorの部分集合として定義する。
type Recorder interface {
	RecordBackendCall(op string, outcome string)
	RecordBackendLatency(op string, duration time.Duration)
}

// Client はノートストレージAPIのクライアント。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	recorder   Recorder // nil可
	baseURL    string   // テスト用にエンドポイントを差し替え可能
	timeout    time.Duration
}

// NewClient はClientの新しいインスタンスを生成する。
// recorderはnilでもよい（メトリクス記録をスキップする）。
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger, recorder Recorder) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		recorder:   recorder,
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    DefaultTimeout,
	}
}

// SetTimeout は1呼び出しあたりのタイムアウトを変更する。
func (c *Client) SetTimeout(d time.Duration) {
	c.timeout = d
}

// tokenResponse は /token/ の成功レスポンス。
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register は新規ユーザーを登録する。
// POST /users/ 。200で成功、400はユーザー名重複の拒否。
func (c *Client) Register(ctx context.Context, username, password string) error {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("failed to encode register request: %w", err)
	}

	_, err = c.do(ctx, "register", http.MethodPost, "/users/", "application/json", bytes.NewReader(body), "")
	return err
}

// Authenticate はユーザー名とパスワードでトークンを取得する。
// POST /token/ （form-encoded, grant_type=password）。400は資格情報誤りの拒否。
func (c *Client) Authenticate(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", username)
	form.Set("password", password)

	respBody, err := c.do(ctx, "authenticate", http.MethodPost, "/token/",
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()), "")
	if err != nil {
		return "", err
	}

	var tok tokenResponse
	if err := json.Unmarshal(respBody, &tok); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token response contains no access_token")
	}

	return tok.AccessToken, nil
}

// CreateNote は下書きからノートを作成する。
// POST /notes/ （Bearer必須）。401はトークン失効の拒否。
func (c *Client) CreateNote(ctx context.Context, draft model.Draft, token string) (*model.Note, error) {
	body, err := json.Marshal(map[string]string{
		"title":   draft.Title,
		"content": draft.Content,
		"tags":    draft.Tags,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode note: %w", err)
	}

	respBody, err := c.do(ctx, "create_note", http.MethodPost, "/notes/", "application/json", bytes.NewReader(body), token)
	if err != nil {
		return nil, err
	}

	note := &model.Note{}
	if err := json.Unmarshal(respBody, note); err != nil {
		return nil, fmt.Errorf("failed to parse note response: %w", err)
	}

	return note, nil
}

// ListNotes は自分のノート一覧を取得する。
// GET /notes/ （Bearer必須）。
func (c *Client) ListNotes(ctx context.Context, token string) ([]model.Note, error) {
	respBody, err := c.do(ctx, "list_notes", http.MethodGet, "/notes/", "", nil, token)
	if err != nil {
		return nil, err
	}

	var notes []model.Note
	if err := json.Unmarshal(respBody, &notes); err != nil {
		return nil, fmt.Errorf("failed to parse notes response: %w", err)
	}

	return notes, nil
}

// SearchNotesByTag は指定タグのノート一覧を取得する。
// GET /notes/tags/{tag} （Bearer必須）。
func (c *Client) SearchNotesByTag(ctx context.Context, tag, token string) ([]model.Note, error) {
	path := "/notes/tags/" + url.PathEscape(tag)

	respBody, err := c.do(ctx, "search_notes_by_tag", http.MethodGet, path, "", nil, token)
	if err != nil {
		return nil, err
	}

	var notes []model.Note
	if err := json.Unmarshal(respBody, &notes); err != nil {
		return nil, fmt.Errorf("failed to parse notes response: %w", err)
	}

	return notes, nil
}

// do は1回のHTTP呼び出しを実行し、レスポンスボディを返す。
// タイムアウトはc.timeoutで制限され、超過は通信障害として返る。
// 2xx以外のステータスは*Rejectionとして返す。
func (c *Client) do(ctx context.Context, op, method, path, contentType string, body io.Reader, token string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.recorder != nil {
		c.recorder.RecordBackendLatency(op, time.Since(start))
	}
	if err != nil {
		c.record(op, "transport")
		c.logger.Error("backend call failed",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("backend call failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.record(op, "transport")
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.record(op, "rejected")
		c.logger.Warn("backend rejected request",
			slog.String("op", op),
			slog.Int("status", resp.StatusCode),
		)
		return nil, &Rejection{StatusCode: resp.StatusCode}
	}

	c.record(op, "success")
	return respBody, nil
}

// record はメトリクスを記録する。recorderがnilの場合は何もしない。
func (c *Client) record(op, outcome string) {
	if c.recorder != nil {
		c.recorder.RecordBackendCall(op, outcome)
	}
}
