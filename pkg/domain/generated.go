package domain

import (
	"encoding/json"
	"time"
)

// GeneratedAd は生成に成功した1件の広告です。作成後は変更されません。
type GeneratedAd struct {
	ID        string
	ImageURL  string
	Config    AdConfig // 生成時点のフォームのスナップショット
	CreatedAt time.Time
}

type generatedAdJSON struct {
	ID        string   `json:"id"`
	ImageURL  string   `json:"imageUrl"`
	Config    AdConfig `json:"config"`
	CreatedAt int64    `json:"createdAt"`
}

// MarshalJSON は createdAt を Unix ミリ秒で出力します。
func (a GeneratedAd) MarshalJSON() ([]byte, error) {
	return json.Marshal(generatedAdJSON{
		ID:        a.ID,
		ImageURL:  a.ImageURL,
		Config:    a.Config,
		CreatedAt: a.CreatedAt.UnixMilli(),
	})
}

// UnmarshalJSON は MarshalJSON の逆変換です。
func (a *GeneratedAd) UnmarshalJSON(data []byte) error {
	var raw generatedAdJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = GeneratedAd{
		ID:        raw.ID,
		ImageURL:  raw.ImageURL,
		Config:    raw.Config,
		CreatedAt: time.UnixMilli(raw.CreatedAt),
	}
	return nil
}

// GenerationState は進行中の生成リクエストの状態です。
// Error が空文字列のときはエラーなしを表します。
type GenerationState struct {
	IsLoading bool   `json:"isLoading"`
	Error     string `json:"error,omitempty"`
}
