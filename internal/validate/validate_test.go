package validate

import (
	"strings"
	"testing"

	"github.com/hitoshi/notetalk/internal/model"
)

// TestTitle_Boundary は14文字が許容され15文字が拒否されることを検証する。
func TestTitle_Boundary(t *testing.T) {
	if err := Title(strings.Repeat("a", 14)); err != nil {
		t.Errorf("14文字のタイトルが拒否された: %v", err)
	}
	err := Title(strings.Repeat("a", 15))
	if err == nil {
		t.Fatal("15文字のタイトルが許容された")
	}
	if err.Code != model.ErrCodeTitleTooLong {
		t.Errorf("Code = %s, want %s", err.Code, model.ErrCodeTitleTooLong)
	}
}

// TestContent_Boundary は699文字が許容され700文字が拒否されることを検証する。
func TestContent_Boundary(t *testing.T) {
	if err := Content(strings.Repeat("x", 699)); err != nil {
		t.Errorf("699文字の本文が拒否された: %v", err)
	}
	err := Content(strings.Repeat("x", 700))
	if err == nil {
		t.Fatal("700文字の本文が許容された")
	}
	if err.Code != model.ErrCodeContentTooLong {
		t.Errorf("Code = %s, want %s", err.Code, model.ErrCodeContentTooLong)
	}
}

// TestTags_Boundary は5トークンが許容され6トークンが拒否されることを検証する。
func TestTags_Boundary(t *testing.T) {
	if err := Tags("a b c d e"); err != nil {
		t.Errorf("5個のタグが拒否された: %v", err)
	}
	err := Tags("a b c d e f")
	if err == nil {
		t.Fatal("6個のタグが許容された")
	}
	if err.Code != model.ErrCodeTooManyTags {
		t.Errorf("Code = %s, want %s", err.Code, model.ErrCodeTooManyTags)
	}
}

// TestTags_WhitespaceNormalization は連続スペースがトークン数に影響しないことを検証する。
func TestTags_WhitespaceNormalization(t *testing.T) {
	if err := Tags("  a   b  c   d e  "); err != nil {
		t.Errorf("空白を含む5個のタグが拒否された: %v", err)
	}
	if err := Tags(""); err != nil {
		t.Errorf("空のタグ列が拒否された: %v", err)
	}
}

// TestPassword は強度要件の各ケースを検証する。
func TestPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantOK   bool
	}{
		{"要件を満たす", "Abcdef1!", true},
		{"8文字未満", "Abc1!ab", false},
		{"大文字なし", "abcdef1!", false},
		{"小文字なし", "ABCDEF1!", false},
		{"数字なし", "Abcdefg!", false},
		{"記号なし", "Abcdefg1", false},
		{"許可外の記号", "Abcdef1#", false},
		{"空文字", "", false},
		{"記号が複数", "Xy9@$!%*?&", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Password(tt.password)
			if tt.wantOK && err != nil {
				t.Errorf("Password(%q) がエラーを返した: %v", tt.password, err)
			}
			if !tt.wantOK && err == nil {
				t.Errorf("Password(%q) が許容された", tt.password)
			}
		})
	}
}
