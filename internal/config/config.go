// Package config はプロセス設定を環境変数と .env から読み込みます。
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	BackendImagen = "imagen"
	BackendGemini = "gemini"
)

// Config はサーバー起動に必要な設定です。
type Config struct {
	Port              string        `validate:"required,numeric"`
	APIKey            string        `validate:"required"`
	ImageBackend      string        `validate:"oneof=imagen gemini"`
	ImagenModel       string        `validate:"required"`
	GeminiImageModel  string        `validate:"required"`
	GenerationTimeout time.Duration `validate:"gt=0"`
	ExportScale       float64       `validate:"gte=2"`
	ExportBaseWidth   int           `validate:"gt=0"`
	JPEGQuality       int           `validate:"gte=0,lte=100"`
	ImageStoreURI     string        `validate:"omitempty,startswith=gs://"`
	FetchTimeout      time.Duration `validate:"gt=0"`
	HTTPReadTimeout   time.Duration `validate:"gt=0"`
	HTTPWriteTimeout  time.Duration `validate:"gt=0"`
	HTTPIdleTimeout   time.Duration `validate:"gt=0"`
	LogLevel          slog.Level
	LogFormat         string `validate:"oneof=text json"`
}

var validate = validator.New()

// Load は .env / .env.local (存在すれば) と環境変数から設定を組み立てて検証します。
func Load() (Config, error) {
	// ファイルが無くてもエラーにはしません
	_ = godotenv.Load(".env", ".env.local")

	c := Config{
		Port:              getenv("PORT", "8080"),
		APIKey:            getenv("GEMINI_API_KEY", os.Getenv("API_KEY")),
		ImageBackend:      strings.ToLower(getenv("IMAGE_BACKEND", BackendImagen)),
		ImagenModel:       getenv("IMAGEN_MODEL", "imagen-4.0-generate-001"),
		GeminiImageModel:  getenv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		GenerationTimeout: getenvSeconds("GENERATION_TIMEOUT_SECONDS", 120),
		ExportScale:       getenvFloat("EXPORT_SCALE", 2),
		ExportBaseWidth:   getenvInt("EXPORT_BASE_WIDTH", 640),
		JPEGQuality:       getenvInt("JPEG_QUALITY", 85),
		ImageStoreURI:     getenv("IMAGE_STORE_URI", ""),
		FetchTimeout:      getenvSeconds("REMOTE_FETCH_TIMEOUT_SECONDS", 30),
		HTTPReadTimeout:   getenvSeconds("HTTP_READ_TIMEOUT_SECONDS", 15),
		HTTPWriteTimeout:  getenvSeconds("HTTP_WRITE_TIMEOUT_SECONDS", 180),
		HTTPIdleTimeout:   getenvSeconds("HTTP_IDLE_TIMEOUT_SECONDS", 60),
		LogLevel:          parseLevel(getenv("LOG_LEVEL", "info")),
		LogFormat:         strings.ToLower(getenv("LOG_FORMAT", "text")),
	}

	if err := validate.Struct(c); err != nil {
		return Config{}, fmt.Errorf("設定が不正です: %w", err)
	}
	return c, nil
}

// Addr は http.Server に渡すリッスンアドレスです。
func (c Config) Addr() string {
	return ":" + c.Port
}

// NewLogger は LogFormat と LogLevel に従った slog.Logger を作ります。
func (c Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	v, err := strconv.Atoi(getenv(k, ""))
	if err != nil {
		return def
	}
	return v
}

func getenvFloat(k string, def float64) float64 {
	v, err := strconv.ParseFloat(getenv(k, ""), 64)
	if err != nil {
		return def
	}
	return v
}

func getenvSeconds(k string, def int) time.Duration {
	return time.Duration(getenvInt(k, def)) * time.Second
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
