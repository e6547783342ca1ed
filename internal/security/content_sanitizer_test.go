package security

import "testing"

// TestSanitize_RemovesTags はHTMLタグが除去されることを検証する。
func TestSanitize_RemovesTags(t *testing.T) {
	s := NewContentSanitizer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"プレーンテキストは不変", "牛乳を買う", "牛乳を買う"},
		{"scriptタグの除去", `before<script>alert("x")</script>after`, "beforeafter"},
		{"aタグはテキストのみ残る", `<a href="https://example.com">link</a>`, "link"},
		{"imgタグの除去", `note<img src="x" onerror="alert(1)">text`, "notetext"},
		{"空文字列", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestSanitize_Idempotent は同一入力に対して常に同一出力となることを検証する。
func TestSanitize_Idempotent(t *testing.T) {
	s := NewContentSanitizer()

	in := `<b>title</b> and <i>content</i>`
	first := s.Sanitize(in)
	second := s.Sanitize(first)
	if first != second {
		t.Errorf("冪等でない: first=%q second=%q", first, second)
	}
}
