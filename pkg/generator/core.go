package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/ad-genius/pkg/domain"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

const (
	msgNoImage  = "No image was generated."
	msgFailed   = "Failed to generate image"
	msgTimeout  = "Image generation timed out"
	msgCanceled = "Image generation was canceled"
)

// inlineImage は generateContent の応答から最初のインライン画像を取り出します。
// 画像が無い場合は、ブロックされたのか単に画像が返らなかったのかを区別した GenerationError になります。
func inlineImage(resp *gemini.Response) (data []byte, mimeType string, err error) {
	if resp == nil || resp.RawResponse == nil || len(resp.RawResponse.Candidates) == 0 {
		return nil, "", domain.NewGenerationError(msgNoImage, errors.New("応答に候補が含まれていません"))
	}

	first := resp.RawResponse.Candidates[0]
	if first.Content != nil {
		for _, part := range first.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			return part.InlineData.Data, part.InlineData.MIMEType, nil
		}
	}

	if blockedBy(first.FinishReason) {
		return nil, "", domain.NewGenerationError(
			fmt.Sprintf("Image generation was blocked (%s)", first.FinishReason),
			fmt.Errorf("finish reason %s で画像が返りませんでした", first.FinishReason),
		)
	}
	return nil, "", domain.NewGenerationError(msgNoImage, errors.New("応答にインライン画像がありません"))
}

// blockedBy は終了理由が正常終了以外を示しているかを返します。未設定は正常扱いです。
func blockedBy(reason genai.FinishReason) bool {
	switch reason {
	case "", genai.FinishReasonUnspecified, genai.FinishReasonStop:
		return false
	}
	return true
}

// toGenerationError は SDK や通信のエラーを利用者向けの GenerationError に変換します。
// 生のエラーはログにだけ残します。
func toGenerationError(ctx context.Context, backend string, err error) error {
	var genErr *domain.GenerationError
	if errors.As(err, &genErr) {
		return genErr
	}

	slog.ErrorContext(ctx, "Gemini Image Generation Error", "backend", backend, "error", err)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.NewGenerationError(msgTimeout, err)
	case errors.Is(err, context.Canceled):
		return domain.NewGenerationError(msgCanceled, err)
	}

	if msg := apiErrorMessage(err); msg != "" {
		return domain.NewGenerationError(msg, err)
	}
	return domain.NewGenerationError(msgFailed, err)
}

func apiErrorMessage(err error) string {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return strings.TrimSpace(apiErr.Message)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return strings.TrimSpace(apiErrPtr.Message)
	}
	return ""
}
