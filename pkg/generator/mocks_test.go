package generator

import (
	"context"
	"io"

	"github.com/shouni/ad-genius/pkg/domain"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// --- Mocks ---

// mockImagesModel は ImagesModel のテスト用モックなのだ。
type mockImagesModel struct {
	generateFunc func(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)

	lastModel  string
	lastPrompt string
	lastConfig *genai.GenerateImagesConfig
}

func (m *mockImagesModel) GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
	m.lastModel, m.lastPrompt, m.lastConfig = model, prompt, config
	if m.generateFunc != nil {
		return m.generateFunc(ctx, model, prompt, config)
	}
	return nil, nil
}

// mockContentModel は ContentModel のテスト用モックなのだ。
type mockContentModel struct {
	generateFunc func(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
}

func (m *mockContentModel) GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, model, parts, opts)
	}
	return nil, nil
}

// stubGenerator は ImageGenerator のテスト用スタブなのだ。
type stubGenerator struct {
	ref   string
	err   error
	calls int
}

func (s *stubGenerator) GenerateImage(ctx context.Context, prompt string, aspectRatio domain.AspectRatio) (string, error) {
	s.calls++
	return s.ref, s.err
}

// mockWriter は remoteio.OutputWriter のテスト用モックなのだ。
type mockWriter struct {
	err         error
	lastURI     string
	lastType    string
	lastContent []byte
}

func (m *mockWriter) Write(ctx context.Context, uri string, contentReader io.Reader, contentType string) error {
	m.lastURI, m.lastType = uri, contentType
	data, err := io.ReadAll(contentReader)
	if err != nil {
		return err
	}
	m.lastContent = data
	return m.err
}

func imageResponse(mimeType string, data []byte) *gemini.Response {
	return &gemini.Response{
		RawResponse: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{
					Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}}},
				},
			}},
		},
	}
}
