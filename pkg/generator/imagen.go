package generator

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shouni/ad-genius/pkg/domain"
	"github.com/shouni/ad-genius/pkg/imgutil"
	"google.golang.org/genai"
)

const (
	// DefaultImagenModel は背景画像の生成に使う Imagen モデルです。
	DefaultImagenModel = "imagen-4.0-generate-001"

	backendImagen = "imagen"
)

// ImagenGenerator は Imagen の generateImages で背景画像を1枚生成するアダプターです。
type ImagenGenerator struct {
	models  ImagesModel
	model   string
	timeout time.Duration
}

// Option は生成アダプターの任意設定です。
type Option func(*options)

type options struct {
	timeout     time.Duration
	jpegQuality int
}

// WithTimeout は1回の生成呼び出しにかける上限時間を設定します。0 以下なら上限なしです。
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithJPEGQuality は PNG などで返った画像を JPEG に詰め直すときの品質 (1-100) です。
// 0 以下を渡すとモデルが返した形式のまま使います。Imagen は最初から JPEG を要求するので影響しません。
func WithJPEGQuality(quality int) Option {
	return func(o *options) {
		o.jpegQuality = min(quality, 100)
	}
}

func applyOptions(opts []Option) options {
	o := options{jpegQuality: DefaultJPEGQuality}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewImagenGenerator は ImagenGenerator を初期化します。model が空なら DefaultImagenModel を使います。
func NewImagenGenerator(models ImagesModel, model string, opts ...Option) (*ImagenGenerator, error) {
	if models == nil {
		return nil, fmt.Errorf("models (ImagesModel) is required")
	}
	if model == "" {
		model = DefaultImagenModel
	}
	o := applyOptions(opts)
	return &ImagenGenerator{
		models:  models,
		model:   model,
		timeout: o.timeout,
	}, nil
}

// GenerateImage は説明文を装飾して Imagen に送り、結果を data URI で返します。
func (g *ImagenGenerator) GenerateImage(ctx context.Context, prompt string, aspectRatio domain.AspectRatio) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	slog.InfoContext(ctx, "Imagen画像生成リクエスト", "model", g.model, "aspect_ratio", aspectRatio)

	resp, err := g.models.GenerateImages(ctx, g.model, EnhancePrompt(prompt), &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: imgutil.JPEGMimeType,
		AspectRatio:    string(aspectRatio),
	})
	if err != nil {
		return "", toGenerationError(ctx, backendImagen, err)
	}

	if resp == nil || len(resp.GeneratedImages) == 0 {
		return "", domain.NewGenerationError(msgNoImage, nil)
	}

	generated := resp.GeneratedImages[0]
	if generated == nil || generated.Image == nil || len(generated.Image.ImageBytes) == 0 {
		if generated != nil && generated.RAIFilteredReason != "" {
			slog.WarnContext(ctx, "安全フィルターにより画像が除外されました", "reason", generated.RAIFilteredReason)
			return "", domain.NewGenerationError(fmt.Sprintf("Image was filtered: %s", generated.RAIFilteredReason), nil)
		}
		return "", domain.NewGenerationError(msgNoImage, nil)
	}

	mimeType := generated.Image.MIMEType
	if mimeType == "" {
		mimeType = http.DetectContentType(generated.Image.ImageBytes)
	}
	return imgutil.EncodeDataURI(mimeType, generated.Image.ImageBytes), nil
}
