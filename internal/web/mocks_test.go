package web

import (
	"context"
	"sync"

	"github.com/shouni/ad-genius/pkg/domain"
)

// fakeGenerator は generator.ImageGenerator のテスト用モックなのだ。
type fakeGenerator struct {
	mu           sync.Mutex
	generateFunc func(ctx context.Context, prompt string, ratio domain.AspectRatio) (string, error)
	calls        int
}

func (f *fakeGenerator) GenerateImage(ctx context.Context, prompt string, ratio domain.AspectRatio) (string, error) {
	f.mu.Lock()
	f.calls++
	fn := f.generateFunc
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt, ratio)
	}
	return testImageURL, nil
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeRasterizer は render.Rasterizer のテスト用モックなのだ。
type fakeRasterizer struct {
	out []byte
	err error
	ads []domain.GeneratedAd
}

func (f *fakeRasterizer) Rasterize(_ context.Context, ad domain.GeneratedAd) ([]byte, error) {
	f.ads = append(f.ads, ad)
	return f.out, f.err
}
