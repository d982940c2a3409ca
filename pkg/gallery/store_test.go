package gallery

import (
	"fmt"
	"sync"
	"testing"

	"github.com/shouni/ad-genius/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ad(id string) domain.GeneratedAd {
	return domain.GeneratedAd{ID: id, ImageURL: "data:image/jpeg;base64,AA==", Config: domain.AdConfig{Description: id}}
}

func ids(ads []domain.GeneratedAd) []string {
	out := make([]string, 0, len(ads))
	for _, a := range ads {
		out = append(out, a.ID)
	}
	return out
}

func TestStore_InsertFront(t *testing.T) {
	s := New()
	s.InsertFront(ad("a"))
	s.InsertFront(ad("b"))
	s.InsertFront(ad("c"))

	assert.Equal(t, []string{"c", "b", "a"}, ids(s.List()), "新しい順に並ぶのだ")
	assert.Equal(t, 3, s.Len())
}

func TestStore_Remove(t *testing.T) {
	t.Run("削除後の List に id は含まれない", func(t *testing.T) {
		s := New()
		s.InsertFront(ad("a"))
		s.InsertFront(ad("b"))
		s.InsertFront(ad("c"))

		assert.True(t, s.Remove("b"))
		assert.Equal(t, []string{"c", "a"}, ids(s.List()))
		_, ok := s.Get("b")
		assert.False(t, ok)
	})

	t.Run("存在しない id は何も変えない", func(t *testing.T) {
		s := New()
		s.InsertFront(ad("a"))
		before := s.List()

		assert.False(t, s.Remove("missing"))
		assert.Equal(t, before, s.List())
	})

	t.Run("二回削除しても安全", func(t *testing.T) {
		s := New()
		s.InsertFront(ad("a"))
		s.Remove("a")
		s.Remove("a")
		assert.Empty(t, s.List())
	})
}

func TestStore_ListIsACopy(t *testing.T) {
	s := New()
	s.InsertFront(ad("a"))

	list := s.List()
	list[0].ID = "mutated"

	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", got.ID)
}

func TestStore_Concurrent(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.InsertFront(ad(fmt.Sprintf("ad-%d", i)))
		}(i)
		go func() {
			defer wg.Done()
			_ = s.List()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
}
