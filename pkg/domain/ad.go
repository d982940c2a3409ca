package domain

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// AspectRatio は広告バナーの縦横比プリセットです。
type AspectRatio string

const (
	AspectSquare        AspectRatio = "1:1"
	AspectLandscape4x3  AspectRatio = "4:3"
	AspectLandscape16x9 AspectRatio = "16:9"
	AspectPortrait3x4   AspectRatio = "3:4"
	AspectPortrait9x16  AspectRatio = "9:16"

	// DefaultAspectRatio は新しいフォームの初期値です。
	DefaultAspectRatio = AspectLandscape16x9
)

// AspectRatioPreset はフォームに並べるプリセットの表示情報です。
type AspectRatioPreset struct {
	Value       AspectRatio `json:"value"`
	Label       string      `json:"label"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
}

var presets = []AspectRatioPreset{
	{Value: AspectSquare, Label: "Square (1:1)", Description: "Instagram / Feed", Icon: "▢"},
	{Value: AspectLandscape16x9, Label: "Wide (16:9)", Description: "YouTube / Header", Icon: "▭"},
	{Value: AspectLandscape4x3, Label: "Standard (4:3)", Description: "Blog / Web", Icon: "▭"},
	{Value: AspectPortrait9x16, Label: "Story (9:16)", Description: "TikTok / Stories", Icon: "▯"},
	{Value: AspectPortrait3x4, Label: "Portrait (3:4)", Description: "Pinterest", Icon: "▯"},
}

// AspectRatioPresets はフォームの表示順でプリセットのコピーを返します。
func AspectRatioPresets() []AspectRatioPreset {
	out := make([]AspectRatioPreset, len(presets))
	copy(out, presets)
	return out
}

// Valid は5つのプリセットのいずれかであるかを返します。
func (r AspectRatio) Valid() bool {
	for _, p := range presets {
		if p.Value == r {
			return true
		}
	}
	return false
}

// AdConfig は1枚の広告のテキストと画像パラメータを保持する値オブジェクトです。
// 編集のたびに新しい値を作り、既存の値は書き換えません。
type AdConfig struct {
	ProductName string      `json:"productName" validate:"max=120"`
	Description string      `json:"description" validate:"required,max=2000"`
	Headline    string      `json:"headline" validate:"max=200"`
	CTAText     string      `json:"ctaText" validate:"max=60"`
	AspectRatio AspectRatio `json:"aspectRatio" validate:"required,oneof=1:1 4:3 16:9 3:4 9:16"`
	TargetURL   string      `json:"targetUrl,omitempty" validate:"max=2048"`
}

// DefaultAdConfig は空のフォーム状態を返します。
func DefaultAdConfig() AdConfig {
	return AdConfig{AspectRatio: DefaultAspectRatio}
}

// Field は WithField で差し替えるフィールド名です。値は JSON 名と一致します。
type Field string

const (
	FieldProductName Field = "productName"
	FieldDescription Field = "description"
	FieldHeadline    Field = "headline"
	FieldCTAText     Field = "ctaText"
	FieldAspectRatio Field = "aspectRatio"
	FieldTargetURL   Field = "targetUrl"
)

// Fields はフォームが扱うすべてのフィールドです。
var Fields = []Field{
	FieldProductName,
	FieldDescription,
	FieldHeadline,
	FieldCTAText,
	FieldAspectRatio,
	FieldTargetURL,
}

// WithField は current のうち field だけを value に置き換えた新しい AdConfig を返します。
// 値の検証は行いません。
func WithField(current AdConfig, field Field, value string) (AdConfig, error) {
	next := current
	switch field {
	case FieldProductName:
		next.ProductName = value
	case FieldDescription:
		next.Description = value
	case FieldHeadline:
		next.Headline = value
	case FieldCTAText:
		next.CTAText = value
	case FieldAspectRatio:
		next.AspectRatio = AspectRatio(value)
	case FieldTargetURL:
		next.TargetURL = value
	default:
		return current, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return next, nil
}

// CanGenerate は生成ボタンを有効にできるかを返します。
func (c AdConfig) CanGenerate() bool {
	return c.Description != ""
}

var validate = validator.New()

// Validate はフォーム入力としての妥当性を検証します。
// 説明文が空なら他の違反より先に ErrDescriptionRequired を返します。
func (c AdConfig) Validate() error {
	return c.validate(true)
}

// ValidateDraft は編集途中の下書きとして検証します。説明文が空でもエラーにしません。
func (c AdConfig) ValidateDraft() error {
	return c.validate(false)
}

func (c AdConfig) validate(requireDescription bool) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid ad config: %w", err)
	}

	var rest validator.ValidationErrors
	for _, fe := range verrs {
		if fe.Field() == "Description" && fe.Tag() == "required" {
			if requireDescription {
				return ErrDescriptionRequired
			}
			continue
		}
		rest = append(rest, fe)
	}
	if len(rest) == 0 {
		return nil
	}
	return fmt.Errorf("invalid ad config: %w", rest)
}
