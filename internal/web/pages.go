package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shouni/ad-genius/pkg/controller"
	"github.com/shouni/ad-genius/pkg/domain"
	"github.com/shouni/ad-genius/pkg/render"
)

type adView struct {
	ID          string
	AspectRatio domain.AspectRatio
	Padding     string
	Elements    []render.Element
}

type pageData struct {
	Draft     domain.AdConfig
	Presets   []domain.AspectRatioPreset
	State     domain.GenerationState
	CanSubmit bool
	Ads       []adView
}

func (s *Server) buildPage() pageData {
	draft := s.ctrl.Draft()
	state := s.ctrl.State()

	ads := s.ctrl.Gallery().List()
	views := make([]adView, 0, len(ads))
	for _, ad := range ads {
		views = append(views, adView{
			ID:          ad.ID,
			AspectRatio: ad.Config.AspectRatio,
			Padding:     strconv.FormatFloat(render.PaddingPercent(ad.Config.AspectRatio), 'f', -1, 64) + "%",
			Elements:    render.Overlay(ad.Config),
		})
	}

	return pageData{
		Draft:     draft,
		Presets:   domain.AspectRatioPresets(),
		State:     state,
		CanSubmit: !state.IsLoading && draft.CanGenerate(),
		Ads:       views,
	}
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, code int) {
	buf := new(bytes.Buffer)
	if err := s.page.Execute(buf, s.buildPage()); err != nil {
		slog.ErrorContext(r.Context(), "ページの描画に失敗しました", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK)
}

// generateForm はフォームの値で下書きを更新し、検証を通ればそのまま生成します。
// 生成エラーは状態に残るので、成功でも失敗でも一覧に戻します。
func (s *Server) generateForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	cfg := s.ctrl.Draft()
	for _, field := range domain.Fields {
		if _, ok := r.PostForm[string(field)]; !ok {
			continue
		}
		next, err := domain.WithField(cfg, field, r.PostForm.Get(string(field)))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		cfg = next
	}
	s.ctrl.SetDraft(cfg)

	if err := cfg.Validate(); err != nil {
		slog.InfoContext(r.Context(), "フォームの値が不正なため生成しません", "error", err)
		s.renderPage(w, r, http.StatusBadRequest)
		return
	}

	// 送信後にブラウザが離れても生成は最後まで進めます
	_, err := s.ctrl.Generate(context.WithoutCancel(r.Context()), cfg)
	switch {
	case errors.Is(err, controller.ErrGenerationInFlight):
		s.renderPage(w, r, http.StatusConflict)
	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (s *Server) deleteForm(w http.ResponseWriter, r *http.Request) {
	s.ctrl.Delete(chi.URLParam(r, "id"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// image は背景画像そのものを返します。html/template は img の data: URL を通さないためです。
func (s *Server) image(w http.ResponseWriter, r *http.Request) {
	ad, ok := s.ctrl.Gallery().Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	data, err := s.images.Load(r.Context(), ad.ImageURL)
	if err != nil {
		slog.ErrorContext(r.Context(), "背景画像の読み込みに失敗しました", "id", ad.ID, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "private, max-age=31536000, immutable")
	_, _ = w.Write(data)
}

// download は広告を PNG に書き出して添付ファイルとして返します。失敗はその1件だけに留まります。
func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	ad, ok := s.ctrl.Gallery().Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	png, err := s.rasterizer.Rasterize(r.Context(), ad)
	if err != nil {
		slog.ErrorContext(r.Context(), "Download failed", "id", ad.ID, "error", err)
		http.Error(w, "Download failed", http.StatusInternalServerError)
		return
	}

	filename := render.ExportFilename(ad.Config.ProductName, s.now())
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	_, _ = w.Write(png)
}
