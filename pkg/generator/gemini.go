package generator

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shouni/ad-genius/pkg/domain"
	"github.com/shouni/ad-genius/pkg/imgutil"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

const (
	// DefaultGeminiImageModel は generateContent 経由で画像を生成するモデルです。
	DefaultGeminiImageModel = "gemini-2.5-flash-image"

	// DefaultJPEGQuality は generateContent が返した画像を JPEG に詰め直す品質です。
	DefaultJPEGQuality = 85

	backendGemini = "gemini"
)

var _ ContentModel = (*gemini.Client)(nil)

// GeminiContentGenerator は generateContent 系モデルで背景画像を生成するアダプターです。
type GeminiContentGenerator struct {
	aiClient    ContentModel
	model       string
	timeout     time.Duration
	jpegQuality int
}

// NewGeminiContentGenerator は GeminiContentGenerator を初期化します。
func NewGeminiContentGenerator(aiClient ContentModel, model string, opts ...Option) (*GeminiContentGenerator, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient (ContentModel) is required")
	}
	if model == "" {
		model = DefaultGeminiImageModel
	}
	o := applyOptions(opts)
	return &GeminiContentGenerator{
		aiClient:    aiClient,
		model:       model,
		timeout:     o.timeout,
		jpegQuality: o.jpegQuality,
	}, nil
}

// GenerateImage は装飾済みプロンプトを1パーツで送り、最初の画像を data URI で返します。
func (g *GeminiContentGenerator) GenerateImage(ctx context.Context, prompt string, aspectRatio domain.AspectRatio) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	slog.InfoContext(ctx, "Gemini画像生成リクエスト", "model", g.model, "aspect_ratio", aspectRatio)

	parts := []*genai.Part{{Text: EnhancePrompt(prompt)}}
	opts := gemini.GenerateOptions{
		AspectRatio: string(aspectRatio),
	}

	resp, err := g.aiClient.GenerateWithParts(ctx, g.model, parts, opts)
	if err != nil {
		return "", toGenerationError(ctx, backendGemini, err)
	}

	data, mimeType, err := inlineImage(resp)
	if err != nil {
		slog.WarnContext(ctx, "レスポンスから画像を取り出せませんでした", "model", g.model, "error", err)
		return "", err
	}

	if g.jpegQuality > 0 {
		data, mimeType = imgutil.NormalizeToJPEG(data, g.jpegQuality)
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return imgutil.EncodeDataURI(mimeType, data), nil
}
