package imgutil

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
)

// mockHTTPClient は httpkit.ClientInterface のテスト用モックです。
// URL の安全判定は本物の httpkit.Client に任せます。
type mockHTTPClient struct {
	fetchFunc func(ctx context.Context, url string) ([]byte, error)
	calls     int
}

var _ httpkit.ClientInterface = (*mockHTTPClient)(nil)

var guard = httpkit.New(time.Second)

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return nil, http.ErrNotSupported
}

func (m *mockHTTPClient) DoRequest(req *http.Request) ([]byte, error) {
	return nil, http.ErrNotSupported
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.calls++
	return m.fetchFunc(ctx, url)
}

func (m *mockHTTPClient) FetchAndDecodeJSON(ctx context.Context, url string, v any) error {
	return http.ErrNotSupported
}

func (m *mockHTTPClient) PostJSONAndFetchBytes(ctx context.Context, url string, data any) ([]byte, error) {
	return nil, http.ErrNotSupported
}

func (m *mockHTTPClient) PostRawBodyAndFetchBytes(ctx context.Context, url string, body []byte, contentType string) ([]byte, error) {
	return nil, http.ErrNotSupported
}

func (m *mockHTTPClient) IsSafeURL(urlStr string) (bool, error) {
	return guard.IsSafeURL(urlStr)
}

func (m *mockHTTPClient) IsSecureServiceURL(serviceURL string) bool {
	return guard.IsSecureServiceURL(serviceURL)
}

// mockReader は remoteio.InputReader のテスト用モックです。
type mockReader struct {
	data    []byte
	lastURI string
	openErr error
}

func (m *mockReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	m.lastURI = uri
	if m.openErr != nil {
		return nil, m.openErr
	}
	return io.NopCloser(bytes.NewReader(m.data)), nil
}

func (m *mockReader) List(ctx context.Context, uri string, fn func(string) error) error {
	return nil
}
