package render

import "github.com/shouni/ad-genius/pkg/domain"

// PaddingPercent は幅に対する高さの割合 (%) です。レイアウト用でピクセル寸法ではありません。
func PaddingPercent(ratio domain.AspectRatio) float64 {
	switch ratio {
	case domain.AspectSquare:
		return 100
	case domain.AspectLandscape16x9:
		return 56.25
	case domain.AspectLandscape4x3:
		return 75
	case domain.AspectPortrait3x4:
		return 133.33
	case domain.AspectPortrait9x16:
		return 177.77
	default:
		return 56.25
	}
}

// ElementKind はテキストオーバーレイの要素種別です。
type ElementKind string

const (
	ElementEyebrow  ElementKind = "eyebrow"
	ElementHeadline ElementKind = "headline"
	ElementCTA      ElementKind = "cta"
)

// Element はオーバーレイに描く1要素です。
type Element struct {
	Kind ElementKind
	Text string
}

// Overlay は上から順に描く要素を返します。空のフィールドは要素ごと省きます。
func Overlay(cfg domain.AdConfig) []Element {
	elements := make([]Element, 0, 3)
	if cfg.ProductName != "" {
		elements = append(elements, Element{Kind: ElementEyebrow, Text: cfg.ProductName})
	}
	if cfg.Headline != "" {
		elements = append(elements, Element{Kind: ElementHeadline, Text: cfg.Headline})
	}
	if cfg.CTAText != "" {
		elements = append(elements, Element{Kind: ElementCTA, Text: cfg.CTAText})
	}
	return elements
}
