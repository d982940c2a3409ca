package controller

import (
	"context"
	"sync"

	"github.com/shouni/ad-genius/pkg/domain"
)

// mockGenerator は generator.ImageGenerator のテスト用モックなのだ。
type mockGenerator struct {
	mu           sync.Mutex
	generateFunc func(ctx context.Context, prompt string, ratio domain.AspectRatio) (string, error)
	calls        int
	lastPrompt   string
	lastRatio    domain.AspectRatio
}

func (m *mockGenerator) GenerateImage(ctx context.Context, prompt string, ratio domain.AspectRatio) (string, error) {
	m.mu.Lock()
	m.calls++
	m.lastPrompt, m.lastRatio = prompt, ratio
	fn := m.generateFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt, ratio)
	}
	return "data:image/jpeg;base64,/9j/4A==", nil
}

func (m *mockGenerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
