// Package draft は作成途中のノートを会話ごとに一時保持する。
// 下書きは1作成サイクルの間だけ生き、確定またはキャンセルで破棄される。
// フィールドの上書き禁止は状態機械の遷移順序で保証される前提であり、
// ストア自身は検査しない。
package draft

import (
	"sync"

	"github.com/hitoshi/notetalk/internal/model"
)

// Store は下書きストアのインターフェース。
type Store interface {
	// SetTitle は下書きのタイトルを設定する。
	SetTitle(conversationID, title string)
	// SetContent は下書きの本文を設定する。
	SetContent(conversationID, content string)
	// SetTags は下書きのタグを設定する。
	SetTags(conversationID, tags string)
	// Get は下書きを取得する。存在しない場合はゼロ値のDraftを返す。
	Get(conversationID string) model.Draft
	// Clear は下書きを破棄する。確定・キャンセルの双方で呼ばれ、
	// 次の作成サイクルに古いデータが持ち越されないことを保証する。
	Clear(conversationID string)
}

// MemoryStore はプロセス内の下書きストア。
// 同一会話のイベントは直列に処理されるが、会話間は並行のためmutexで保護する。
type MemoryStore struct {
	mu     sync.Mutex
	drafts map[string]model.Draft
}

// NewMemoryStore はMemoryStoreを生成する。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		drafts: make(map[string]model.Draft),
	}
}

// SetTitle は下書きのタイトルを設定する。
func (s *MemoryStore) SetTitle(conversationID, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.drafts[conversationID]
	d.Title = title
	s.drafts[conversationID] = d
}

// SetContent は下書きの本文を設定する。
func (s *MemoryStore) SetContent(conversationID, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.drafts[conversationID]
	d.Content = content
	s.drafts[conversationID] = d
}

// SetTags は下書きのタグを設定する。
func (s *MemoryStore) SetTags(conversationID, tags string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.drafts[conversationID]
	d.Tags = tags
	s.drafts[conversationID] = d
}

// Get は下書きを取得する。存在しない場合はゼロ値のDraftを返す。
func (s *MemoryStore) Get(conversationID string) model.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.drafts[conversationID]
}

// Clear は下書きを破棄する。
func (s *MemoryStore) Clear(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, conversationID)
}

// compile-time interface check
var _ Store = (*MemoryStore)(nil)
