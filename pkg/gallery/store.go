package gallery

import (
	"sync"

	"github.com/shouni/ad-genius/pkg/domain"
)

// Store は生成済み広告を新しい順に保持するギャラリーです。
// 内部では古い順に追記し、読み出し時に反転することで先頭挿入を O(1) にしています。
type Store struct {
	mu  sync.RWMutex
	ads []domain.GeneratedAd
}

// New は空の Store を返します。
func New() *Store {
	return &Store{}
}

// InsertFront は ad を先頭 (最新) に追加します。
func (s *Store) InsertFront(ad domain.GeneratedAd) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ads = append(s.ads, ad)
}

// Remove は id が一致するエントリを削除します。存在しない id は何もしません。
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.ads {
		if s.ads[i].ID == id {
			s.ads = append(s.ads[:i], s.ads[i+1:]...)
			return true
		}
	}
	return false
}

// Get は id のエントリを返します。
func (s *Store) Get(id string) (domain.GeneratedAd, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.ads {
		if s.ads[i].ID == id {
			return s.ads[i], true
		}
	}
	return domain.GeneratedAd{}, false
}

// List は新しい順のコピーを返します。
func (s *Store) List() []domain.GeneratedAd {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.GeneratedAd, len(s.ads))
	for i, ad := range s.ads {
		out[len(s.ads)-1-i] = ad
	}
	return out
}

// Len はエントリ数です。
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ads)
}
