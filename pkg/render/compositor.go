package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/shouni/ad-genius/pkg/domain"
)

const (
	// DefaultBaseWidth はプレビューカード1枚分の論理幅 (CSS px) です。
	DefaultBaseWidth = 640
	// MinScale は書き出し時の最小倍率です。
	MinScale = 2.0
)

// ImageSource は画像参照をバイナリに解決します。imgutil.Loader が満たします。
type ImageSource interface {
	Load(ctx context.Context, ref string) ([]byte, error)
}

var (
	colorCanvas  = color.NRGBA{R: 0x0f, G: 0x17, B: 0x2a, A: 0xff} // slate-900
	colorEyebrow = color.NRGBA{R: 0x81, G: 0x8c, B: 0xf8, A: 0xff} // indigo-400
	colorChip    = color.NRGBA{A: 77}
	colorShadow  = color.NRGBA{A: 128}
)

// Compositor は背景画像とテキストを重ねた広告画像を PNG で書き出します。
// 操作ボタンなどの UI は描きません。
type Compositor struct {
	source    ImageSource
	baseWidth int
	scale     float64
	bold      *opentype.Font
	regular   *opentype.Font
}

// CompositorOption は Compositor の任意設定です。
type CompositorOption func(*Compositor)

// WithScale は書き出し倍率を設定します。MinScale 未満は MinScale に丸めます。
func WithScale(scale float64) CompositorOption {
	return func(c *Compositor) {
		c.scale = scale
	}
}

// WithBaseWidth は倍率をかける前の論理幅を設定します。
func WithBaseWidth(width int) CompositorOption {
	return func(c *Compositor) {
		c.baseWidth = width
	}
}

// NewCompositor は source から背景を読み込む Compositor を作ります。
func NewCompositor(source ImageSource, opts ...CompositorOption) (*Compositor, error) {
	if source == nil {
		return nil, fmt.Errorf("source (ImageSource) is required")
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("フォントの読み込みに失敗しました: %w", err)
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("フォントの読み込みに失敗しました: %w", err)
	}

	c := &Compositor{
		source:    source,
		baseWidth: DefaultBaseWidth,
		scale:     MinScale,
		bold:      bold,
		regular:   regular,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.scale < MinScale {
		c.scale = MinScale
	}
	if c.baseWidth <= 0 {
		c.baseWidth = DefaultBaseWidth
	}
	return c, nil
}

// Size は ratio で書き出したときのピクセル寸法です。
func (c *Compositor) Size(ratio domain.AspectRatio) (int, int) {
	w := int(math.Round(float64(c.baseWidth) * c.scale))
	h := int(math.Round(float64(w) * PaddingPercent(ratio) / 100))
	return w, h
}

// Rasterize は ad を PNG にします。失敗はすべて *domain.ExportError で返します。
func (c *Compositor) Rasterize(ctx context.Context, ad domain.GeneratedAd) ([]byte, error) {
	data, err := c.source.Load(ctx, ad.ImageURL)
	if err != nil {
		return nil, &domain.ExportError{AdID: ad.ID, Err: err}
	}
	bg, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &domain.ExportError{AdID: ad.ID, Err: fmt.Errorf("背景画像のデコードに失敗しました: %w", err)}
	}
	if err := ctx.Err(); err != nil {
		return nil, &domain.ExportError{AdID: ad.ID, Err: err}
	}

	canvas, err := c.Compose(bg, ad.Config)
	if err != nil {
		return nil, &domain.ExportError{AdID: ad.ID, Err: err}
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, canvas); err != nil {
		return nil, &domain.ExportError{AdID: ad.ID, Err: fmt.Errorf("PNGエンコードに失敗しました: %w", err)}
	}
	return buf.Bytes(), nil
}

// Compose は bg を cfg の比率で切り抜き、グラデーションとテキストを重ねます。
func (c *Compositor) Compose(bg image.Image, cfg domain.AdConfig) (*image.NRGBA, error) {
	w, h := c.Size(cfg.AspectRatio)

	canvas := imaging.New(w, h, colorCanvas)
	filled := imaging.Fill(bg, w, h, imaging.Center, imaging.Lanczos)
	canvas = imaging.Overlay(canvas, filled, image.Pt(0, 0), 0.9)
	drawBottomGradient(canvas)

	faces, err := c.newFaces()
	if err != nil {
		return nil, err
	}
	defer faces.Close()

	for _, b := range c.layoutBlocks(faces, cfg, w, h) {
		b.draw(canvas)
	}
	return canvas, nil
}

// faceSet は1回の描画で使うフォントフェイスです。font.Face は並行利用できないため呼び出しごとに作ります。
type faceSet struct {
	eyebrow  font.Face
	headline font.Face
	cta      font.Face
}

func (f *faceSet) Close() {
	for _, face := range []font.Face{f.eyebrow, f.headline, f.cta} {
		if face != nil {
			face.Close()
		}
	}
}

func (c *Compositor) newFaces() (*faceSet, error) {
	newFace := func(f *opentype.Font, px float64) (font.Face, error) {
		return opentype.NewFace(f, &opentype.FaceOptions{Size: px * c.scale, DPI: 72, Hinting: font.HintingFull})
	}

	fs := &faceSet{}
	var err error
	if fs.eyebrow, err = newFace(c.bold, 14); err != nil {
		return nil, err
	}
	if fs.headline, err = newFace(c.bold, 36); err != nil {
		fs.Close()
		return nil, err
	}
	if fs.cta, err = newFace(c.regular, 16); err != nil {
		fs.Close()
		return nil, err
	}
	return fs, nil
}

type block struct {
	kind ElementKind
	rect image.Rectangle
	draw func(dst *image.NRGBA)
}

// layoutBlocks は Overlay の要素を下端揃えで縦に積み、描画位置を決めます。
func (c *Compositor) layoutBlocks(faces *faceSet, cfg domain.AdConfig, w, h int) []block {
	px := func(v float64) int { return int(math.Round(v * c.scale)) }
	pad, gap := px(32), px(12)
	contentWidth := w - 2*pad

	type sized struct {
		kind      ElementKind
		marginTop int
		width     int
		height    int
		paint     func(dst *image.NRGBA, r image.Rectangle)
	}

	var items []sized
	for _, el := range Overlay(cfg) {
		switch el.Kind {
		case ElementEyebrow:
			text := strings.ToUpper(el.Text)
			padX, padY := px(8), px(4)
			tw := font.MeasureString(faces.eyebrow, text).Ceil()
			lh := lineHeight(faces.eyebrow)
			items = append(items, sized{
				kind:   el.Kind,
				width:  tw + 2*padX,
				height: lh + 2*padY,
				paint: func(dst *image.NRGBA, r image.Rectangle) {
					fillRoundedRect(dst, r, float64(px(4)), colorChip)
					drawText(dst, faces.eyebrow, text, r.Min.X+padX, r.Min.Y+padY, colorEyebrow)
				},
			})
		case ElementHeadline:
			lines := wrapText(faces.headline, el.Text, contentWidth*9/10)
			lh := px(36 * 1.25)
			shadow := px(2)
			items = append(items, sized{
				kind:   el.Kind,
				width:  maxLineWidth(faces.headline, lines),
				height: lh * len(lines),
				paint: func(dst *image.NRGBA, r image.Rectangle) {
					offset := (lh - lineHeight(faces.headline)) / 2
					for i, line := range lines {
						y := r.Min.Y + i*lh + offset
						drawText(dst, faces.headline, line, r.Min.X+shadow, y+shadow, colorShadow)
						drawText(dst, faces.headline, line, r.Min.X, y, color.White)
					}
				},
			})
		case ElementCTA:
			padX, padY := px(24), px(10)
			tw := font.MeasureString(faces.cta, el.Text).Ceil()
			lh := lineHeight(faces.cta)
			text := el.Text
			items = append(items, sized{
				kind:      el.Kind,
				marginTop: px(8),
				width:     tw + 2*padX,
				height:    lh + 2*padY,
				paint: func(dst *image.NRGBA, r image.Rectangle) {
					fillRoundedRect(dst, r, float64(r.Dy())/2, color.White)
					drawText(dst, faces.cta, text, r.Min.X+padX, r.Min.Y+padY, color.Black)
				},
			})
		}
	}

	total := 0
	for i, it := range items {
		if i > 0 {
			total += gap
		}
		total += it.marginTop + it.height
	}

	blocks := make([]block, 0, len(items))
	y := h - pad - total
	for i, it := range items {
		if i > 0 {
			y += gap
		}
		y += it.marginTop
		r := image.Rect(pad, y, pad+it.width, y+it.height)
		paint := it.paint
		blocks = append(blocks, block{
			kind: it.kind,
			rect: r,
			draw: func(dst *image.NRGBA) { paint(dst, r) },
		})
		y += it.height
	}
	return blocks
}
