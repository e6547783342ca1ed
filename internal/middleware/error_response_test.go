package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/notetalk/internal/model"
)

// TestWriteErrorResponse は統一フォーマットのエラーレスポンスを検証する。
func TestWriteErrorResponse(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteErrorResponse(rec, http.StatusBadRequest, model.NewWeakPasswordError())

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %s", ct)
	}

	var body ErrorResponseBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("ボディがJSONでない: %v", err)
	}
	if body.Code != model.ErrCodeWeakPassword {
		t.Errorf("code = %s, want %s", body.Code, model.ErrCodeWeakPassword)
	}
	if body.Category != "validation" {
		t.Errorf("category = %s, want validation", body.Category)
	}
	if body.Message == "" || body.Action == "" {
		t.Error("messageとactionは必須")
	}
}

// TestWriteInternalServerError は500の統一レスポンスを検証する。
func TestWriteInternalServerError(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteInternalServerError(rec)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	var body ErrorResponseBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("ボディがJSONでない: %v", err)
	}
	if body.Code != "INTERNAL_ERROR" {
		t.Errorf("code = %s, want INTERNAL_ERROR", body.Code)
	}
}
