package imgutil

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const dataURIPrefix = "data:"

// EncodeDataURI は画像バイナリを <img src> にそのまま使える data URI に変換します。
func EncodeDataURI(mimeType string, data []byte) string {
	return dataURIPrefix + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// IsDataURI は ref が data URI 形式かを返します。
func IsDataURI(ref string) bool {
	return strings.HasPrefix(ref, dataURIPrefix)
}

// DecodeDataURI は base64 形式の data URI を MIME タイプとバイナリに分解します。
func DecodeDataURI(ref string) (string, []byte, error) {
	if !IsDataURI(ref) {
		return "", nil, fmt.Errorf("data URI ではありません")
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(ref, dataURIPrefix), ",")
	if !ok {
		return "", nil, fmt.Errorf("data URI にペイロードがありません")
	}
	mimeType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("base64 以外の data URI には対応していません")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("data URI のデコードに失敗しました: %w", err)
	}
	return mimeType, data, nil
}
