package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDescriptionRequired は説明文が空のまま生成しようとしたことを表します。
	ErrDescriptionRequired = errors.New("description is required")
	// ErrUnknownField は AdConfig に存在しないフィールド名です。
	ErrUnknownField = errors.New("unknown ad config field")
)

// DefaultErrorMessage はメッセージを持たない失敗に使う文言です。
const DefaultErrorMessage = "Something went wrong"

// GenerationError は画像生成の失敗を利用者向けメッセージとともに表します。
type GenerationError struct {
	Message string
	Err     error
}

// NewGenerationError は原因 err を保持した GenerationError を作ります。
func NewGenerationError(message string, err error) *GenerationError {
	return &GenerationError{Message: message, Err: err}
}

func (e *GenerationError) Error() string {
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// ExportError は1件の広告のラスタライズ失敗です。
type ExportError struct {
	AdID string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export ad %s: %v", e.AdID, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// MessageOf は err から画面に出せる1行のメッセージを取り出します。
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var genErr *GenerationError
	if errors.As(err, &genErr) && genErr.Message != "" {
		return genErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return DefaultErrorMessage
}
