package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/notetalk/internal/model"
)

// mockEngine はDialogEngineInterfaceのモック。
type mockEngine struct {
	handleEventFn func(ctx context.Context, ev model.Event) (*model.Reply, error)
}

func (m *mockEngine) HandleEvent(ctx context.Context, ev model.Event) (*model.Reply, error) {
	if m.handleEventFn != nil {
		return m.handleEventFn(ctx, ev)
	}
	return &model.Reply{Text: "ok", State: model.StateMain}, nil
}

func newEventRouter(engine DialogEngineInterface) http.Handler {
	r := chi.NewRouter()
	h := NewEventHandler(engine, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	r.Post("/conversations/{conversationID}/events", h.HandleEvent)
	return r
}

// TestHandleEvent_Success はイベントがエンジンに渡り応答がJSONで返ることを検証する。
func TestHandleEvent_Success(t *testing.T) {
	var got model.Event
	engine := &mockEngine{
		handleEventFn: func(ctx context.Context, ev model.Event) (*model.Reply, error) {
			got = ev
			return &model.Reply{
				Text:    "メインメニューです。",
				Buttons: []string{model.ButtonCreateNote, model.ButtonMyNotes},
				State:   model.StateMain,
			}, nil
		},
	}
	router := newEventRouter(engine)

	body := `{"user_id":"user-1","username":"alice","kind":"text","payload":"Abcdef1!"}`
	req := httptest.NewRequest(http.MethodPost, "/conversations/conv-1/events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	if got.ConversationID != "conv-1" {
		t.Errorf("ConversationID = %s, want conv-1", got.ConversationID)
	}
	if got.UserID != "user-1" || got.Username != "alice" {
		t.Errorf("identity = %s/%s", got.UserID, got.Username)
	}
	if got.Kind != model.EventText || got.Payload != "Abcdef1!" {
		t.Errorf("kind/payload = %s/%s", got.Kind, got.Payload)
	}

	var reply model.Reply
	if err := json.Unmarshal(rec.Body.Bytes(), &reply); err != nil {
		t.Fatalf("応答がJSONでない: %v", err)
	}
	if reply.State != model.StateMain {
		t.Errorf("state = %s, want %s", reply.State, model.StateMain)
	}
	if len(reply.Buttons) != 2 {
		t.Errorf("buttons = %v", reply.Buttons)
	}
}

// TestHandleEvent_InvalidJSON は壊れたボディが400になることを検証する。
func TestHandleEvent_InvalidJSON(t *testing.T) {
	router := newEventRouter(&mockEngine{})

	req := httptest.NewRequest(http.MethodPost, "/conversations/conv-1/events", strings.NewReader("{broken"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// TestHandleEvent_InvalidKind は未知のイベント種別が400になることを検証する。
func TestHandleEvent_InvalidKind(t *testing.T) {
	router := newEventRouter(&mockEngine{})

	body := `{"user_id":"user-1","kind":"sticker","payload":"x"}`
	req := httptest.NewRequest(http.MethodPost, "/conversations/conv-1/events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var errBody map[string]string
	json.Unmarshal(rec.Body.Bytes(), &errBody)
	if errBody["code"] != "INVALID_EVENT_KIND" {
		t.Errorf("code = %s, want INVALID_EVENT_KIND", errBody["code"])
	}
}

// TestHandleEvent_MissingUserID はuser_id欠落が400になることを検証する。
func TestHandleEvent_MissingUserID(t *testing.T) {
	router := newEventRouter(&mockEngine{})

	body := `{"kind":"text","payload":"x"}`
	req := httptest.NewRequest(http.MethodPost, "/conversations/conv-1/events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// TestHandleEvent_EngineError はインフラ障害が500の統一フォーマットに
// なることを検証する。
func TestHandleEvent_EngineError(t *testing.T) {
	engine := &mockEngine{
		handleEventFn: func(ctx context.Context, ev model.Event) (*model.Reply, error) {
			return nil, errors.New("failed to load conversation: connection refused")
		},
	}
	router := newEventRouter(engine)

	body := `{"user_id":"user-1","kind":"start"}`
	req := httptest.NewRequest(http.MethodPost, "/conversations/conv-1/events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	var errBody map[string]string
	json.Unmarshal(rec.Body.Bytes(), &errBody)
	if errBody["code"] != "INTERNAL_ERROR" {
		t.Errorf("code = %s, want INTERNAL_ERROR", errBody["code"])
	}
}
