package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// drawBottomGradient は下端 80% の黒から中央 20% を経て上端で透明になるグラデーションを重ねます。
func drawBottomGradient(dst *image.NRGBA) {
	b := dst.Bounds()
	h := b.Dy()
	if h == 0 {
		return
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		// p は下端からの距離 (0..1)
		p := float64(b.Max.Y-1-y) / float64(h)
		var alpha float64
		if p <= 0.5 {
			alpha = 0.8 + (0.2-0.8)*(p/0.5)
		} else {
			alpha = 0.2 * (1 - (p-0.5)/0.5)
		}
		if alpha <= 0 {
			continue
		}
		row := image.Rect(b.Min.X, y, b.Max.X, y+1)
		draw.Draw(dst, row, image.NewUniform(color.NRGBA{A: uint8(math.Round(alpha * 255))}), image.Point{}, draw.Over)
	}
}

// roundedRect は角丸矩形のアルファマスクです。縁は1px分だけアンチエイリアスします。
type roundedRect struct {
	r      image.Rectangle
	radius float64
}

func (m roundedRect) ColorModel() color.Model { return color.AlphaModel }

func (m roundedRect) Bounds() image.Rectangle { return m.r }

func (m roundedRect) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(m.r) {
		return color.Transparent
	}
	rad := math.Min(m.radius, math.Min(float64(m.r.Dx()), float64(m.r.Dy()))/2)
	if rad <= 0 {
		return color.Opaque
	}
	px, py := float64(x)+0.5, float64(y)+0.5
	cx := clamp(px, float64(m.r.Min.X)+rad, float64(m.r.Max.X)-rad)
	cy := clamp(py, float64(m.r.Min.Y)+rad, float64(m.r.Max.Y)-rad)
	coverage := clamp(rad+0.5-math.Hypot(px-cx, py-cy), 0, 1)
	return color.Alpha{A: uint8(math.Round(coverage * 255))}
}

func fillRoundedRect(dst draw.Image, r image.Rectangle, radius float64, c color.Color) {
	draw.DrawMask(dst, r, image.NewUniform(c), image.Point{}, roundedRect{r: r, radius: radius}, r.Min, draw.Over)
}

// drawText は (x, y) を行ボックスの左上として1行描きます。
func drawText(dst draw.Image, face font.Face, text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

func lineHeight(face font.Face) int {
	m := face.Metrics()
	return m.Ascent.Ceil() + m.Descent.Ceil()
}

// wrapText は maxWidth に収まるよう単語単位で折り返します。1語で溢れる場合はそのまま置きます。
func wrapText(face font.Face, text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		candidate := line + " " + w
		if font.MeasureString(face, candidate).Ceil() <= maxWidth {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = w
	}
	return append(lines, line)
}

func maxLineWidth(face font.Face, lines []string) int {
	widest := 0
	for _, l := range lines {
		if w := font.MeasureString(face, l).Ceil(); w > widest {
			widest = w
		}
	}
	return widest
}

func clamp(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(hi, v))
}
