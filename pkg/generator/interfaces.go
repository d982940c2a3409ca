package generator

import (
	"context"

	"github.com/shouni/ad-genius/pkg/domain"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// ImageGenerator はコントローラーが利用する画像生成の窓口です。
// prompt は利用者が入力したままの文字列で、装飾は実装側で行います。
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string, aspectRatio domain.AspectRatio) (string, error)
}

// ImagesModel は Imagen の画像生成 API です。*genai.Models が満たします。
type ImagesModel interface {
	GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

// ContentModel は generateContent 系の画像生成 API です。
// gemini.GenerativeModel の GenerateWithParts と同じ形をしています。
type ContentModel interface {
	GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
}
