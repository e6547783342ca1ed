package dialog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/notetalk/internal/backend"
	"github.com/hitoshi/notetalk/internal/model"
	"github.com/hitoshi/notetalk/internal/validate"
)

// handleStart は会話開始イベントを処理する。
// 登録済みの相手はLoginへ、未登録の相手はRegistrationへ振り分ける。
func (e *Engine) handleStart(ctx context.Context, h *handlerContext) (handlerResult, error) {
	if h.conv.Registered {
		return handlerResult{
			text: fmt.Sprintf("おかえりなさい、%sさん。パスワードを入力してログインしてください。", h.conv.Username),
			next: model.StateLogin,
		}, nil
	}

	return handlerResult{
		text: fmt.Sprintf("はじめまして、%sさん。登録用のパスワードを入力してください。", h.conv.Username),
		next: model.StateRegistration,
	}, nil
}

// handleRegistrationPassword は登録用パスワードの入力を処理する。
// 重複登録は拒否を提示した上でRegistrationに留まる（再入力で回復可能）。
func (e *Engine) handleRegistrationPassword(ctx context.Context, h *handlerContext) (handlerResult, error) {
	password := h.event.Payload

	if verr := validate.Password(password); verr != nil {
		return handlerResult{text: verr.Message + " " + verr.Action, next: model.StateRegistration}, nil
	}

	err := e.backend.Register(ctx, h.conv.Username, password)
	switch {
	case err == nil:
		if merr := e.markRegistered(ctx, h.conv); merr != nil {
			return handlerResult{}, merr
		}
		return handlerResult{
			text: "登録が完了しました。パスワードを入力してログインしてください。",
			next: model.StateLogin,
		}, nil

	case isRejection(err):
		// ユーザー名は既にバックエンドに存在する。以後のstartはLoginへ直行させる
		if merr := e.markRegistered(ctx, h.conv); merr != nil {
			return handlerResult{}, merr
		}
		derr := model.NewAlreadyRegisteredError()
		return handlerResult{text: derr.Message + " " + derr.Action, next: model.StateRegistration}, nil

	default:
		return e.transportFailure(h, err, model.StateRegistration), nil
	}
}

// handleLoginPassword はログイン用パスワードの入力を処理する。
// 成功時はトークンをTTL付きでキャッシュし（last-login-wins）、Mainへ遷移する。
func (e *Engine) handleLoginPassword(ctx context.Context, h *handlerContext) (handlerResult, error) {
	token, err := e.backend.Authenticate(ctx, h.conv.Username, h.event.Payload)
	switch {
	case err == nil:
		cred := &model.Credential{
			OwnerID:  h.event.UserID,
			Token:    token,
			IssuedAt: time.Now(),
			TTL:      e.ttl,
		}
		if perr := e.cache.Put(ctx, cred, e.ttl); perr != nil {
			return handlerResult{}, fmt.Errorf("failed to cache credential: %w", perr)
		}
		if merr := e.markRegistered(ctx, h.conv); merr != nil {
			return handlerResult{}, merr
		}
		return handlerResult{text: mainMenuText, next: model.StateMain}, nil

	case isRejection(err):
		derr := model.NewWrongPasswordError()
		return handlerResult{text: derr.Message + " " + derr.Action, next: model.StateLogin}, nil

	default:
		return e.transportFailure(h, err, model.StateLogin), nil
	}
}

// handleMainButton はメインメニューのボタン押下を処理する。
func (e *Engine) handleMainButton(ctx context.Context, h *handlerContext) (handlerResult, error) {
	switch h.event.Payload {
	case model.ButtonCreateNote:
		return handlerResult{text: titlePromptText, next: model.StateTitle}, nil
	case model.ButtonMyNotes:
		return e.listNotes(ctx, h)
	default:
		return handlerResult{text: model.NewUnknownInputError().Message, next: model.StateMain}, nil
	}
}

// handleTagSearch はメイン状態での自由入力をタグ検索として処理する。
// 結果の提示のみで状態は遷移しない（認可失敗を除く）。
func (e *Engine) handleTagSearch(ctx context.Context, h *handlerContext) (handlerResult, error) {
	cred, res, err := e.cachedCredential(ctx, h, model.StateMain)
	if cred == nil {
		return res, err
	}

	notes, err := e.backend.SearchNotesByTag(ctx, h.event.Payload, cred.Token)
	if err != nil {
		return e.backendFailure(ctx, h, err, model.StateMain)
	}

	if len(notes) == 0 {
		return handlerResult{text: "該当するノートはありません。", next: model.StateMain}, nil
	}
	return handlerResult{text: e.formatNotes(notes), next: model.StateMain}, nil
}

// listNotes は自分のノート一覧を提示する。
func (e *Engine) listNotes(ctx context.Context, h *handlerContext) (handlerResult, error) {
	cred, res, err := e.cachedCredential(ctx, h, model.StateMain)
	if cred == nil {
		return res, err
	}

	notes, err := e.backend.ListNotes(ctx, cred.Token)
	if err != nil {
		return e.backendFailure(ctx, h, err, model.StateMain)
	}

	if len(notes) == 0 {
		return handlerResult{text: "ノートはまだありません。", next: model.StateMain}, nil
	}
	return handlerResult{text: e.formatNotes(notes), next: model.StateMain}, nil
}

// handleTitleInput はタイトル入力を処理する。
func (e *Engine) handleTitleInput(ctx context.Context, h *handlerContext) (handlerResult, error) {
	if verr := validate.Title(h.event.Payload); verr != nil {
		return handlerResult{text: verr.Message + " " + verr.Action, next: model.StateTitle}, nil
	}

	e.drafts.SetTitle(h.conv.ID, h.event.Payload)
	return handlerResult{text: contentPromptText, next: model.StateContent}, nil
}

// handleContentInput は本文入力を処理する。
func (e *Engine) handleContentInput(ctx context.Context, h *handlerContext) (handlerResult, error) {
	if verr := validate.Content(h.event.Payload); verr != nil {
		return handlerResult{text: verr.Message + " " + verr.Action, next: model.StateContent}, nil
	}

	e.drafts.SetContent(h.conv.ID, h.event.Payload)
	return handlerResult{text: tagsPromptText, next: model.StateTags}, nil
}

// handleTagsInput はタグ入力を処理する。
// 受理されるとComplete状態に入り、下書きの要約を提示する。
func (e *Engine) handleTagsInput(ctx context.Context, h *handlerContext) (handlerResult, error) {
	if verr := validate.Tags(h.event.Payload); verr != nil {
		return handlerResult{text: verr.Message + " " + verr.Action, next: model.StateTags}, nil
	}

	e.drafts.SetTags(h.conv.ID, h.event.Payload)
	d := e.drafts.Get(h.conv.ID)
	return handlerResult{text: formatDraftSummary(d), next: model.StateComplete}, nil
}

// handleDraftCancelButton は作成サイクル途中（Title/Content/Tags）の
// キャンセルボタンを処理する。下書きは丸ごと破棄される。
func (e *Engine) handleDraftCancelButton(ctx context.Context, h *handlerContext) (handlerResult, error) {
	if h.event.Payload != model.ButtonCancel {
		return handlerResult{text: model.NewUnknownInputError().Message, next: h.conv.State}, nil
	}

	e.drafts.Clear(h.conv.ID)
	return handlerResult{text: cancelledText, next: model.StateMain}, nil
}

// handleCompleteButton は確認画面のボタン押下を処理する。
// 確定・キャンセルのいずれでも下書きは消え、次のサイクルに持ち越されない。
func (e *Engine) handleCompleteButton(ctx context.Context, h *handlerContext) (handlerResult, error) {
	switch h.event.Payload {
	case model.ButtonConfirm:
		return e.confirmDraft(ctx, h)

	case model.ButtonCancel:
		e.drafts.Clear(h.conv.ID)
		return handlerResult{text: cancelledText, next: model.StateMain}, nil

	default:
		return handlerResult{text: model.NewUnknownInputError().Message, next: model.StateComplete}, nil
	}
}

// confirmDraft は下書きをバックエンドに送ってノートを作成する。
// 認可失敗時は下書きを破棄しトークンを無効化してLoginへ戻す。
// 通信障害時は下書きを保持したままComplete状態に留まり、確定を再試行できる。
func (e *Engine) confirmDraft(ctx context.Context, h *handlerContext) (handlerResult, error) {
	cred, err := e.cache.Get(ctx, h.event.UserID)
	if err != nil {
		return handlerResult{}, fmt.Errorf("failed to read credential cache: %w", err)
	}
	if cred == nil {
		// 使えるトークンなしにCompleteには留まれない。401の行と同じ扱いにする
		e.recordCacheMiss()
		e.drafts.Clear(h.conv.ID)
		derr := model.NewNotLoggedInError()
		return handlerResult{text: derr.Message + " " + derr.Action, next: model.StateLogin}, nil
	}
	e.recordCacheHit()

	d := e.drafts.Get(h.conv.ID)
	note, err := e.backend.CreateNote(ctx, d, cred.Token)
	switch {
	case err == nil:
		e.drafts.Clear(h.conv.ID)
		e.logger.Info("note created",
			slog.String("conversation_id", h.conv.ID),
			slog.Int("note_id", note.ID),
		)
		return handlerResult{text: "ノートを作成しました。", next: model.StateMain}, nil

	case backend.IsAuthRejection(err):
		if ierr := e.cache.Invalidate(ctx, h.event.UserID); ierr != nil {
			return handlerResult{}, fmt.Errorf("failed to invalidate credential: %w", ierr)
		}
		e.drafts.Clear(h.conv.ID)
		derr := model.NewInvalidSessionError()
		return handlerResult{text: derr.Message + " " + derr.Action, next: model.StateLogin}, nil

	case isRejection(err):
		rej, _ := backend.AsRejection(err)
		derr := model.NewBackendRejectedError(rej.StatusCode)
		return handlerResult{text: derr.Message + " " + derr.Action, next: model.StateComplete}, nil

	default:
		return e.transportFailure(h, err, model.StateComplete), nil
	}
}

// cachedCredential はキャッシュからトークンを読む。
// 不在の場合は（未設定か期限切れかを問わず）Loginへ戻す応答を組み立てて返す。
func (e *Engine) cachedCredential(ctx context.Context, h *handlerContext, stay model.DialogState) (*model.Credential, handlerResult, error) {
	cred, err := e.cache.Get(ctx, h.event.UserID)
	if err != nil {
		return nil, handlerResult{}, fmt.Errorf("failed to read credential cache: %w", err)
	}
	if cred == nil {
		e.recordCacheMiss()
		derr := model.NewNotLoggedInError()
		return nil, handlerResult{text: derr.Message + " " + derr.Action, next: model.StateLogin}, nil
	}

	e.recordCacheHit()
	return cred, handlerResult{}, nil
}

// backendFailure はキャッシュ済みトークンを使った呼び出しの失敗を応答に解決する。
// 認可拒否はトークン無効化とLoginへの強制遷移、その他の拒否と通信障害は現状維持。
func (e *Engine) backendFailure(ctx context.Context, h *handlerContext, err error, stay model.DialogState) (handlerResult, error) {
	if backend.IsAuthRejection(err) {
		if ierr := e.cache.Invalidate(ctx, h.event.UserID); ierr != nil {
			return handlerResult{}, fmt.Errorf("failed to invalidate credential: %w", ierr)
		}
		derr := model.NewInvalidSessionError()
		return handlerResult{text: derr.Message + " " + derr.Action, next: model.StateLogin}, nil
	}

	if isRejection(err) {
		rej, _ := backend.AsRejection(err)
		derr := model.NewBackendRejectedError(rej.StatusCode)
		return handlerResult{text: derr.Message + " " + derr.Action, next: stay}, nil
	}

	return e.transportFailure(h, err, stay), nil
}

// transportFailure は通信障害を応答に解決する。自動リトライは行わず、
// 状態を維持して利用者に手動での再試行を促す。
func (e *Engine) transportFailure(h *handlerContext, err error, stay model.DialogState) handlerResult {
	e.logger.Warn("backend unreachable",
		slog.String("conversation_id", h.conv.ID),
		slog.String("error", err.Error()),
	)
	derr := model.NewServerError()
	return handlerResult{text: derr.Message + " " + derr.Action, next: stay}
}

func (e *Engine) recordCacheHit() {
	if e.metrics != nil {
		e.metrics.RecordCacheHit()
	}
}

func (e *Engine) recordCacheMiss() {
	if e.metrics != nil {
		e.metrics.RecordCacheMiss()
	}
}

// isRejection はエラーがバックエンドの拒否応答かどうかを返す。
func isRejection(err error) bool {
	_, ok := backend.AsRejection(err)
	return ok
}
