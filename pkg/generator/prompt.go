package generator

import "fmt"

const promptTemplate = "Professional advertising photography background, %s, high quality, commercial lighting, photorealistic, minimalist composition suitable for text overlay, 4k resolution, trending on behance."

// EnhancePrompt は利用者の説明文を、テキストを重ねやすい広告写真向けのプロンプトで包みます。
func EnhancePrompt(prompt string) string {
	return fmt.Sprintf(promptTemplate, prompt)
}
