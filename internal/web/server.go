// Package web は AdGenius の HTML ページと JSON API を提供します。
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shouni/ad-genius/pkg/controller"
	"github.com/shouni/ad-genius/pkg/render"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server は Controller を HTTP に公開します。状態はすべて Controller が持ちます。
type Server struct {
	ctrl       *controller.Controller
	rasterizer render.Rasterizer
	images     render.ImageSource
	page       *template.Template
	now        func() time.Time
}

// NewServer は依存関係を注入して Server を初期化します。
func NewServer(ctrl *controller.Controller, rasterizer render.Rasterizer, images render.ImageSource) (*Server, error) {
	if ctrl == nil {
		return nil, fmt.Errorf("ctrl (Controller) is required")
	}
	if rasterizer == nil {
		return nil, fmt.Errorf("rasterizer (Rasterizer) is required")
	}
	if images == nil {
		return nil, fmt.Errorf("images (ImageSource) is required")
	}

	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("テンプレートの読み込みに失敗しました: %w", err)
	}

	return &Server{
		ctrl:       ctrl,
		rasterizer: rasterizer,
		images:     images,
		page:       page,
		now:        time.Now,
	}, nil
}

// Handler はルーティング済みの http.Handler を返します。
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger, middleware.Recoverer)

	r.Get("/healthz", s.health)

	r.Get("/", s.index)
	r.Post("/generate", s.generateForm)
	r.Route("/ads/{id}", func(r chi.Router) {
		r.Post("/delete", s.deleteForm)
		r.Get("/image", s.image)
		r.Get("/download", s.download)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.apiState)
		r.Get("/presets", s.apiPresets)
		r.Route("/draft", func(r chi.Router) {
			r.Get("/", s.apiGetDraft)
			r.Put("/", s.apiPutDraft)
			r.Patch("/", s.apiPatchDraft)
		})
		r.Route("/ads", func(r chi.Router) {
			r.Get("/", s.apiListAds)
			r.Post("/", s.apiCreateAd)
			r.Delete("/{id}", s.apiDeleteAd)
		})
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
