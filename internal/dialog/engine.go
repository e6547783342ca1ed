// Package dialog は対話の状態機械を提供する。
//
// エンジンは受信イベントごとに会話の現在状態を読み、(状態, イベント種別) を
// キーとするディスパッチテーブルでハンドラーを選び、検証・バックエンド呼び出し・
// 下書きとトークンキャッシュの更新を行った上で、ちょうど1件の応答と
// 状態遷移を返す。ハンドルされた失敗はすべて応答メッセージに解決され、
// この層からプロセスを落とすことはない。
package dialog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/notetalk/internal/draft"
	"github.com/hitoshi/notetalk/internal/model"
	"github.com/hitoshi/notetalk/internal/repository"
	"github.com/hitoshi/notetalk/internal/security"
	"github.com/hitoshi/notetalk/internal/session"
)

// BackendService はエンジンが必要とするバックエンド操作のインターフェース。
// backend.Clientの部分集合として定義する。
type BackendService interface {
	Register(ctx context.Context, username, password string) error
	Authenticate(ctx context.Context, username, password string) (string, error)
	CreateNote(ctx context.Context, d model.Draft, token string) (*model.Note, error)
	ListNotes(ctx context.Context, token string) ([]model.Note, error)
	SearchNotesByTag(ctx context.Context, tag, token string) ([]model.Note, error)
}

// Recorder はエンジンのメトリクス記録インターフェース。
// metrics.Collectorの部分集合として定義する。
type Recorder interface {
	RecordTransition(from, to string)
	RecordCacheHit()
	RecordCacheMiss()
}

// Deps はNewEngineに必要な依存関係をまとめた構造体。
// モジュールレベルのシングルトンは持たず、すべてここから注入する。
type Deps struct {
	Cache         session.Cache
	Backend       BackendService
	Drafts        draft.Store
	Conversations repository.ConversationRepository
	Sanitizer     security.ContentSanitizerService
	Metrics       Recorder // nil可
	Logger        *slog.Logger
	SessionTTL    time.Duration // 0の場合はsession.DefaultTTL
}

// dispatchKey はディスパッチテーブルのキー。
type dispatchKey struct {
	state model.DialogState
	kind  model.EventKind
}

// handlerResult はハンドラーの戻り値。textは応答本文、nextは遷移先状態。
type handlerResult struct {
	text string
	next model.DialogState
}

// handlerContext はハンドラー呼び出し1回分の型付きコンテキスト。
type handlerContext struct {
	event model.Event
	conv  *model.Conversation
}

type handlerFunc func(ctx context.Context, h *handlerContext) (handlerResult, error)

// Engine は対話の状態機械。
// 同一会話のイベントは直列に処理される前提（トランスポート側の契約）であり、
// エンジン自身は会話内の排他制御を行わない。
type Engine struct {
	cache     session.Cache
	backend   BackendService
	drafts    draft.Store
	convs     repository.ConversationRepository
	sanitizer security.ContentSanitizerService
	metrics   Recorder
	logger    *slog.Logger
	ttl       time.Duration

	handlers map[dispatchKey]handlerFunc
}

// NewEngine はEngineを生成し、ディスパッチテーブルを構築する。
func NewEngine(deps Deps) *Engine {
	ttl := deps.SessionTTL
	if ttl == 0 {
		ttl = session.DefaultTTL
	}

	e := &Engine{
		cache:     deps.Cache,
		backend:   deps.Backend,
		drafts:    deps.Drafts,
		convs:     deps.Conversations,
		sanitizer: deps.Sanitizer,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		ttl:       ttl,
	}

	e.handlers = map[dispatchKey]handlerFunc{
		{model.StateRegistration, model.EventText}: e.handleRegistrationPassword,
		{model.StateLogin, model.EventText}:        e.handleLoginPassword,

		{model.StateMain, model.EventButton}: e.handleMainButton,
		{model.StateMain, model.EventText}:   e.handleTagSearch,

		{model.StateTitle, model.EventText}:     e.handleTitleInput,
		{model.StateTitle, model.EventButton}:   e.handleDraftCancelButton,
		{model.StateContent, model.EventText}:   e.handleContentInput,
		{model.StateContent, model.EventButton}: e.handleDraftCancelButton,
		{model.StateTags, model.EventText}:      e.handleTagsInput,
		{model.StateTags, model.EventButton}:    e.handleDraftCancelButton,

		{model.StateComplete, model.EventButton}: e.handleCompleteButton,
	}

	return e
}

// HandleEvent は1件の受信イベントを処理し、唯一の応答を返す。
// 会話は初回コンタクト時に作成される。未知の (状態, 種別) の組は
// 「入力を理解できませんでした」の応答になり、状態は変わらない。
func (e *Engine) HandleEvent(ctx context.Context, ev model.Event) (*model.Reply, error) {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}

	conv, err := e.loadOrCreateConversation(ctx, ev)
	if err != nil {
		return nil, err
	}

	e.logger.Info("dialog event received",
		slog.String("event_id", ev.ID),
		slog.String("conversation_id", conv.ID),
		slog.String("state", string(conv.State)),
		slog.String("kind", string(ev.Kind)),
	)

	h := &handlerContext{event: ev, conv: conv}

	// startイベントは現在状態に依存せず、登録済みフラグでLogin/Registrationへ振り分ける
	var res handlerResult
	if ev.Kind == model.EventStart {
		res, err = e.handleStart(ctx, h)
	} else {
		handler, ok := e.handlers[dispatchKey{conv.State, ev.Kind}]
		if !ok {
			res = handlerResult{text: model.NewUnknownInputError().Message, next: conv.State}
		} else {
			res, err = handler(ctx, h)
		}
	}
	if err != nil {
		return nil, err
	}

	if err := e.transition(ctx, conv, res.next); err != nil {
		return nil, err
	}

	return &model.Reply{
		Text:    res.text,
		Buttons: buttonsForState(res.next),
		State:   res.next,
	}, nil
}

// loadOrCreateConversation は会話を取得し、存在しなければ作成する。
// 新規会話はRegistration状態で始まる（startイベントが改めて振り分ける）。
func (e *Engine) loadOrCreateConversation(ctx context.Context, ev model.Event) (*model.Conversation, error) {
	conv, err := e.convs.FindByID(ctx, ev.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	if conv != nil {
		return conv, nil
	}

	now := time.Now()
	conv = &model.Conversation{
		ID:        ev.ConversationID,
		UserID:    ev.UserID,
		Username:  ev.Username,
		State:     model.StateRegistration,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.convs.Create(ctx, conv); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	e.logger.Info("conversation created",
		slog.String("conversation_id", conv.ID),
		slog.String("username", conv.Username),
	)

	return conv, nil
}

// transition は状態遷移を永続化し、メトリクスに記録する。
// 遷移先が現在状態と同じ場合は何もしない。
func (e *Engine) transition(ctx context.Context, conv *model.Conversation, next model.DialogState) error {
	if next == conv.State {
		return nil
	}

	if err := e.convs.UpdateState(ctx, conv.ID, next); err != nil {
		return fmt.Errorf("failed to persist state transition: %w", err)
	}
	if e.metrics != nil {
		e.metrics.RecordTransition(string(conv.State), string(next))
	}

	e.logger.Info("dialog state transition",
		slog.String("conversation_id", conv.ID),
		slog.String("from", string(conv.State)),
		slog.String("to", string(next)),
	)

	conv.State = next
	return nil
}

// markRegistered は会話の登録済みフラグを立てる。
// 以後のstartイベントはLoginへ直行する。
func (e *Engine) markRegistered(ctx context.Context, conv *model.Conversation) error {
	if conv.Registered {
		return nil
	}
	if err := e.convs.MarkRegistered(ctx, conv.ID); err != nil {
		return fmt.Errorf("failed to mark conversation registered: %w", err)
	}
	conv.Registered = true
	return nil
}
