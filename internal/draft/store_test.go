package draft

import "testing"

// TestMemoryStore_FieldAccumulation はTitle→Content→Tagsの順に設定した値が
// そのまま読み戻せることを検証する。
func TestMemoryStore_FieldAccumulation(t *testing.T) {
	s := NewMemoryStore()

	s.SetTitle("c1", "買い物リスト")
	s.SetContent("c1", "牛乳と卵を買う")
	s.SetTags("c1", "home todo")

	d := s.Get("c1")
	if d.Title != "買い物リスト" {
		t.Errorf("Title = %s", d.Title)
	}
	if d.Content != "牛乳と卵を買う" {
		t.Errorf("Content = %s", d.Content)
	}
	if d.Tags != "home todo" {
		t.Errorf("Tags = %s", d.Tags)
	}
}

// TestMemoryStore_Clear はClear後のGetが空のDraftを返すことを検証する。
func TestMemoryStore_Clear(t *testing.T) {
	s := NewMemoryStore()

	s.SetTitle("c1", "t")
	s.SetContent("c1", "c")
	s.Clear("c1")

	if d := s.Get("c1"); !d.IsEmpty() {
		t.Errorf("Clear後のDraft = %+v", d)
	}

	// 存在しない会話のClearは無害
	s.Clear("c2")
}

// TestMemoryStore_ConversationIsolation は会話間で下書きが独立していることを検証する。
func TestMemoryStore_ConversationIsolation(t *testing.T) {
	s := NewMemoryStore()

	s.SetTitle("c1", "first")
	s.SetTitle("c2", "second")
	s.Clear("c2")

	if d := s.Get("c1"); d.Title != "first" {
		t.Errorf("c1のTitle = %s, want first", d.Title)
	}
	if d := s.Get("c2"); !d.IsEmpty() {
		t.Errorf("c2のDraft = %+v", d)
	}
}

// TestMemoryStore_GetAbsent は未作成の会話に対してゼロ値が返ることを検証する。
func TestMemoryStore_GetAbsent(t *testing.T) {
	s := NewMemoryStore()

	if d := s.Get("nobody"); !d.IsEmpty() {
		t.Errorf("未作成の会話のDraft = %+v", d)
	}
}
