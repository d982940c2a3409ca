package generator

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/shouni/ad-genius/pkg/domain"
	"github.com/shouni/ad-genius/pkg/imgutil"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func pngFixture(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{0, 128, 255, 255})
		}
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestNewGeminiContentGenerator(t *testing.T) {
	t.Run("nilチェック: 依存関係が足りない場合はエラーを返すのだ", func(t *testing.T) {
		_, err := NewGeminiContentGenerator(nil, "model")
		if err == nil {
			t.Error("expected error for nil dependencies")
		}
	})
}

func TestGeminiContentGenerator_GenerateImage(t *testing.T) {
	ctx := context.Background()

	t.Run("成功: 装飾済みプロンプトとアスペクト比が渡されるのだ", func(t *testing.T) {
		ai := &mockContentModel{
			generateFunc: func(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
				if model != DefaultGeminiImageModel {
					t.Errorf("model mismatch: got %s", model)
				}
				if len(parts) != 1 || parts[0].Text != EnhancePrompt("organic skincare bottle") {
					t.Errorf("prompt mismatch: %+v", parts)
				}
				if opts.AspectRatio != "9:16" {
					t.Errorf("aspect ratio mismatch: got %s", opts.AspectRatio)
				}
				return imageResponse("image/png", pngFixture(t)), nil
			},
		}
		gen, err := NewGeminiContentGenerator(ai, "")
		require.NoError(t, err)

		ref, err := gen.GenerateImage(ctx, "organic skincare bottle", domain.AspectPortrait9x16)

		require.NoError(t, err)
		mimeType, data, err := imgutil.DecodeDataURI(ref)
		require.NoError(t, err)
		assert.Equal(t, imgutil.JPEGMimeType, mimeType, "PNG は JPEG に正規化されるのだ")
		assert.NotEmpty(t, data)
	})

	t.Run("失敗: AIクライアントのエラーは利用者向けメッセージになるのだ", func(t *testing.T) {
		cause := errors.New("unexpected EOF")
		ai := &mockContentModel{
			generateFunc: func(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
				return nil, cause
			},
		}
		gen, _ := NewGeminiContentGenerator(ai, "")

		_, err := gen.GenerateImage(ctx, "lamp", domain.AspectSquare)

		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "Failed to generate image", domain.MessageOf(err))
	})

	t.Run("失敗: テキストだけの応答は No image", func(t *testing.T) {
		ai := &mockContentModel{
			generateFunc: func(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
				return &gemini.Response{RawResponse: &genai.GenerateContentResponse{
					Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{Text: "sorry"}}}}},
				}}, nil
			},
		}
		gen, _ := NewGeminiContentGenerator(ai, "")

		_, err := gen.GenerateImage(ctx, "lamp", domain.AspectSquare)

		assert.Equal(t, "No image was generated.", domain.MessageOf(err))
	})
}

func TestGeminiContentGenerator_JPEGQuality(t *testing.T) {
	ctx := context.Background()
	pngData := pngFixture(t)
	ai := &mockContentModel{
		generateFunc: func(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
			return imageResponse("image/png", pngData), nil
		},
	}

	t.Run("品質 0 ならモデルが返した PNG のまま使うのだ", func(t *testing.T) {
		gen, err := NewGeminiContentGenerator(ai, "", WithJPEGQuality(0))
		require.NoError(t, err)

		ref, err := gen.GenerateImage(ctx, "lamp", domain.AspectSquare)

		require.NoError(t, err)
		assert.Equal(t, imgutil.EncodeDataURI("image/png", pngData), ref)
	})

	t.Run("既定では JPEG に詰め直す", func(t *testing.T) {
		gen, err := NewGeminiContentGenerator(ai, "")
		require.NoError(t, err)
		assert.Equal(t, DefaultJPEGQuality, gen.jpegQuality)

		ref, err := gen.GenerateImage(ctx, "lamp", domain.AspectSquare)

		require.NoError(t, err)
		mimeType, _, err := imgutil.DecodeDataURI(ref)
		require.NoError(t, err)
		assert.Equal(t, imgutil.JPEGMimeType, mimeType)
	})

	t.Run("100 を超える品質は 100 に丸める", func(t *testing.T) {
		gen, err := NewGeminiContentGenerator(ai, "", WithJPEGQuality(250))
		require.NoError(t, err)
		assert.Equal(t, 100, gen.jpegQuality)
	})
}

func TestInlineImage(t *testing.T) {
	t.Run("最初のインライン画像を返す", func(t *testing.T) {
		data, mimeType, err := inlineImage(imageResponse("image/png", []byte("png-data")))

		require.NoError(t, err)
		assert.Equal(t, "image/png", mimeType)
		assert.Equal(t, "png-data", string(data))
	})

	t.Run("テキストパートは読み飛ばすのだ", func(t *testing.T) {
		resp := &gemini.Response{RawResponse: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{
				{Text: "here you go"},
				{InlineData: &genai.Blob{MIMEType: "image/webp", Data: []byte("webp")}},
			}}}},
		}}

		data, mimeType, err := inlineImage(resp)

		require.NoError(t, err)
		assert.Equal(t, "image/webp", mimeType)
		assert.Equal(t, "webp", string(data))
	})

	t.Run("応答なし", func(t *testing.T) {
		_, _, err := inlineImage(nil)
		assert.Equal(t, "No image was generated.", domain.MessageOf(err))
	})

	tests := []struct {
		name   string
		reason genai.FinishReason
		want   string
	}{
		{"終了理由が未設定なら No image", "", "No image was generated."},
		{"UNSPECIFIED も No image", genai.FinishReasonUnspecified, "No image was generated."},
		{"STOP も No image", genai.FinishReasonStop, "No image was generated."},
		{"SAFETY はブロック扱い", genai.FinishReasonSafety, "Image generation was blocked (SAFETY)"},
		{"PROHIBITED_CONTENT もブロック扱い", genai.FinishReasonProhibitedContent, "Image generation was blocked (PROHIBITED_CONTENT)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &gemini.Response{RawResponse: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					Content:      &genai.Content{Parts: []*genai.Part{{Text: "sorry"}}},
					FinishReason: tt.reason,
				}},
			}}

			_, _, err := inlineImage(resp)

			assert.Equal(t, tt.want, domain.MessageOf(err))
		})
	}
}
