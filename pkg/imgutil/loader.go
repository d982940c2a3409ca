package imgutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// Loader は画像参照 (data URI / http(s) / gs://) を画像バイナリに解決します。
// httpClient と reader は任意で、nil の場合は該当スキームを扱いません。
// http(s) は取得前に httpClient.IsSafeURL で宛先を確かめます。
type Loader struct {
	httpClient httpkit.ClientInterface
	reader     remoteio.InputReader
}

// NewLoader は依存関係を注入して Loader を初期化します。
func NewLoader(httpClient httpkit.ClientInterface, reader remoteio.InputReader) *Loader {
	return &Loader{
		httpClient: httpClient,
		reader:     reader,
	}
}

// Load は ref が指す画像のバイナリを返します。画像として判定できないデータはエラーになります。
func (l *Loader) Load(ctx context.Context, ref string) ([]byte, error) {
	data, err := l.fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	if mimeType := http.DetectContentType(data); !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("画像ではないデータです (detected_mime_type: %s)", mimeType)
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case ref == "":
		return nil, fmt.Errorf("画像参照が空です")
	case IsDataURI(ref):
		_, data, err := DecodeDataURI(ref)
		return data, err
	case remoteio.IsGCSURI(ref):
		if l.reader == nil {
			return nil, fmt.Errorf("gs:// の読み込みは設定されていません: %s", ref)
		}
		rc, err := l.reader.Open(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("GCS からの読み込みに失敗しました: %w", err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	case remoteio.IsS3URI(ref):
		return nil, fmt.Errorf("s3:// の画像参照には対応していません: %s", ref)
	default:
		if l.httpClient == nil {
			return nil, fmt.Errorf("リモート画像の取得は設定されていません: %s", ref)
		}
		safe, err := l.httpClient.IsSafeURL(ref)
		if err != nil {
			slog.WarnContext(ctx, "解釈できないURLを拒否しました", "url", ref, "error", err)
			return nil, fmt.Errorf("不正な画像URLです: %w", err)
		}
		if !safe {
			slog.WarnContext(ctx, "内部ネットワーク宛てのURLを拒否しました", "url", ref)
			return nil, fmt.Errorf("内部ネットワーク宛ての画像URLは取得できません: %s", ref)
		}
		return l.httpClient.FetchBytes(ctx, ref)
	}
}
