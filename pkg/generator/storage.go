package generator

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shouni/ad-genius/pkg/domain"
	"github.com/shouni/ad-genius/pkg/imgutil"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// StoringGenerator は生成された背景画像を GCS に書き出し、data URI の代わりに gs:// URI を返します。
// 書き出しに失敗した場合は警告を残して元の data URI をそのまま返します。
type StoringGenerator struct {
	next    ImageGenerator
	writer  remoteio.OutputWriter
	baseURI string
	newName func() string
}

// NewStoringGenerator は next の結果を baseURI (gs://bucket/prefix) 配下に保存する StoringGenerator を作ります。
func NewStoringGenerator(next ImageGenerator, writer remoteio.OutputWriter, baseURI string) (*StoringGenerator, error) {
	if next == nil {
		return nil, fmt.Errorf("next (ImageGenerator) is required")
	}
	if writer == nil {
		return nil, fmt.Errorf("writer (remoteio.OutputWriter) is required")
	}
	if _, _, err := remoteio.ParseGCSURI(baseURI); err != nil {
		return nil, fmt.Errorf("画像の保存先が不正です: %w", err)
	}
	return &StoringGenerator{
		next:    next,
		writer:  writer,
		baseURI: strings.TrimRight(baseURI, "/"),
		newName: uuid.NewString,
	}, nil
}

// GenerateImage は next で生成し、data URI で返った画像を保存先へ書き出します。
func (g *StoringGenerator) GenerateImage(ctx context.Context, prompt string, aspectRatio domain.AspectRatio) (string, error) {
	ref, err := g.next.GenerateImage(ctx, prompt, aspectRatio)
	if err != nil || !imgutil.IsDataURI(ref) {
		return ref, err
	}

	mimeType, data, err := imgutil.DecodeDataURI(ref)
	if err != nil {
		return ref, nil
	}

	uri := g.baseURI + "/" + g.newName() + extensionFor(mimeType)
	if err := g.writer.Write(ctx, uri, bytes.NewReader(data), mimeType); err != nil {
		slog.WarnContext(ctx, "生成画像の保存に失敗したため data URI のまま使います", "uri", uri, "error", err)
		return ref, nil
	}

	slog.InfoContext(ctx, "生成画像を保存しました", "uri", uri, "bytes", len(data))
	return uri, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case imgutil.JPEGMimeType:
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
