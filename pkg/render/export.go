package render

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shouni/ad-genius/pkg/domain"
)

// Rasterizer は描画済みの広告を1枚の PNG に変換するポートです。
type Rasterizer interface {
	Rasterize(ctx context.Context, ad domain.GeneratedAd) ([]byte, error)
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slugify は空白の連続を1つのハイフンにして小文字化します。
func Slugify(s string) string {
	return strings.ToLower(whitespaceRun.ReplaceAllString(s, "-"))
}

// ExportFilename はダウンロード時のファイル名 ad-genius-<slug>-<unix ms>.png を返します。
func ExportFilename(productName string, at time.Time) string {
	return fmt.Sprintf("ad-genius-%s-%d.png", Slugify(productName), at.UnixMilli())
}
