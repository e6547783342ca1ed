// Package handler は対話エンジンをHTTPで公開するハンドラー群を提供する。
//
// チャットトランスポート（ボットのwebhook受け口など）は受信メッセージを
// イベントに正規化してPOSTし、応答メッセージとキーボード定義を受け取って
// そのまま描画する。対話のセマンティクスはすべてエンジン側にある。
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/notetalk/internal/middleware"
	"github.com/hitoshi/notetalk/internal/model"
)

// DialogEngineInterface はイベントハンドラーが必要とするエンジンのインターフェース。
type DialogEngineInterface interface {
	// HandleEvent は1件の受信イベントを処理し、唯一の応答を返す。
	HandleEvent(ctx context.Context, ev model.Event) (*model.Reply, error)
}

// EventHandler は対話イベントのHTTPハンドラー。
type EventHandler struct {
	engine DialogEngineInterface
	logger *slog.Logger
}

// NewEventHandler はEventHandlerを生成する。
func NewEventHandler(engine DialogEngineInterface, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		engine: engine,
		logger: logger,
	}
}

// eventRequest はイベント受信リクエストのボディ。
type eventRequest struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Kind     string `json:"kind"`
	Payload  string `json:"payload"`
}

// HandleEvent は受信イベントを処理する。
// POST /conversations/{conversationID}/events
func (h *EventHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	convID := chi.URLParam(r, "conversationID")

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.DialogError{
			Code:     "INVALID_REQUEST",
			Message:  "リクエストボディの解析に失敗しました。",
			Category: "validation",
			Action:   "正しいJSON形式でリクエストしてください。",
		})
		return
	}

	kind := model.EventKind(req.Kind)
	if !kind.Valid() {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.DialogError{
			Code:     "INVALID_EVENT_KIND",
			Message:  "イベント種別が不正です。",
			Category: "validation",
			Action:   "kindには start / text / button のいずれかを指定してください。",
		})
		return
	}

	if req.UserID == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.DialogError{
			Code:     "INVALID_REQUEST",
			Message:  "user_idが指定されていません。",
			Category: "validation",
			Action:   "user_idを指定してください。",
		})
		return
	}

	reply, err := h.engine.HandleEvent(r.Context(), model.Event{
		ConversationID: convID,
		UserID:         req.UserID,
		Username:       req.Username,
		Kind:           kind,
		Payload:        req.Payload,
	})
	if err != nil {
		// ここに来るのはインフラ障害（会話ストア・キャッシュの読み書き失敗）のみ。
		// バックエンドの拒否や検証失敗はエンジンが応答メッセージに解決する。
		h.logger.Error("failed to handle dialog event",
			slog.String("conversation_id", convID),
			slog.String("error", err.Error()),
		)
		middleware.WriteInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(reply)
}
