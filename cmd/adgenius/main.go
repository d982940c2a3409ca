// Command adgenius は広告バナー生成サーバーを起動します。
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"google.golang.org/genai"

	"github.com/shouni/ad-genius/internal/config"
	"github.com/shouni/ad-genius/internal/web"
	"github.com/shouni/ad-genius/pkg/controller"
	"github.com/shouni/ad-genius/pkg/generator"
	"github.com/shouni/ad-genius/pkg/imgutil"
	"github.com/shouni/ad-genius/pkg/render"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("起動に失敗しました", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(cfg.NewLogger())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gen, err := newGenerator(ctx, cfg)
	if err != nil {
		return err
	}

	// 保存先が設定されていれば生成画像を GCS に置き、gs:// の参照を読み戻せるようにします
	var reader remoteio.InputReader
	if cfg.ImageStoreURI != "" {
		factory, err := gcsfactory.New(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := factory.Close(); err != nil {
				slog.Warn("GCSクライアントのクローズに失敗しました", "error", err)
			}
		}()

		writer, err := factory.OutputWriter()
		if err != nil {
			return err
		}
		if reader, err = factory.InputReader(); err != nil {
			return err
		}
		if gen, err = generator.NewStoringGenerator(gen, writer, cfg.ImageStoreURI); err != nil {
			return err
		}
	}

	ctrl, err := controller.New(gen, nil)
	if err != nil {
		return err
	}

	loader := imgutil.NewLoader(httpkit.New(cfg.FetchTimeout), reader)
	compositor, err := render.NewCompositor(loader,
		render.WithScale(cfg.ExportScale),
		render.WithBaseWidth(cfg.ExportBaseWidth),
	)
	if err != nil {
		return err
	}

	srv, err := web.NewServer(ctrl, compositor, loader)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("AdGenius を起動しました", "addr", httpServer.Addr, "backend", cfg.ImageBackend)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTPサーバーが停止しました: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("シャットダウンします")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// newGenerator は設定されたバックエンドの ImageGenerator を作ります。
func newGenerator(ctx context.Context, cfg config.Config) (generator.ImageGenerator, error) {
	opts := []generator.Option{
		generator.WithTimeout(cfg.GenerationTimeout),
		generator.WithJPEGQuality(cfg.JPEGQuality),
	}

	switch cfg.ImageBackend {
	case config.BackendGemini:
		client, err := gemini.NewClient(ctx, gemini.Config{APIKey: cfg.APIKey})
		if err != nil {
			return nil, err
		}
		return generator.NewGeminiContentGenerator(client, cfg.GeminiImageModel, opts...)
	default:
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("genai クライアントの作成に失敗しました: %w", err)
		}
		return generator.NewImagenGenerator(client.Models, cfg.ImagenModel, opts...)
	}
}
