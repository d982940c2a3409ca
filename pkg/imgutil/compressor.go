package imgutil

import (
	"bytes"
	"image/jpeg"
	"net/http"

	"github.com/disintegration/imaging"
)

// JPEGMimeType は生成画像の標準出力形式です。
const JPEGMimeType = "image/jpeg"

// CompressToJPEG は画像データ（PNG, GIF, JPEG等）をJPEG形式に圧縮します。
// EXIF の向き情報は反映してからエンコードします。
func CompressToJPEG(data []byte, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NormalizeToJPEG は JPEG 以外の画像を JPEG に変換し、データと MIME タイプを返します。
// 変換に失敗した場合は元のデータをそのまま返します。
func NormalizeToJPEG(data []byte, quality int) ([]byte, string) {
	mimeType := http.DetectContentType(data)
	if mimeType == JPEGMimeType {
		return data, mimeType
	}
	compressed, err := CompressToJPEG(data, quality)
	if err != nil {
		return data, mimeType
	}
	return compressed, JPEGMimeType
}
