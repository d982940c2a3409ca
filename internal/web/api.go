package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shouni/ad-genius/pkg/controller"
	"github.com/shouni/ad-genius/pkg/domain"
)

const maxBodyBytes = 1 << 20

type stateResponse struct {
	State domain.GenerationState `json:"state"`
	Draft domain.AdConfig        `json:"draft"`
	Count int                    `json:"count"`
}

func (s *Server) apiState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stateResponse{
		State: s.ctrl.State(),
		Draft: s.ctrl.Draft(),
		Count: s.ctrl.Gallery().Len(),
	})
}

func (s *Server) apiPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.AspectRatioPresets())
}

func (s *Server) apiGetDraft(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.Draft())
}

// apiPutDraft は下書き全体を置き換えます。説明文が空の下書きも受け付けます。
func (s *Server) apiPutDraft(w http.ResponseWriter, r *http.Request) {
	cfg := domain.DefaultAdConfig()
	if err := decodeBody(r, &cfg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := cfg.ValidateDraft(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.ctrl.SetDraft(cfg)
	writeJSON(w, http.StatusOK, cfg)
}

// apiPatchDraft は {"field": "value"} の組をまとめて適用します。未知のフィールドや不正な値があれば何も変えません。
func (s *Server) apiPatchDraft(w http.ResponseWriter, r *http.Request) {
	var patch map[string]string
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fields := make(map[domain.Field]string, len(patch))
	for k, v := range patch {
		fields[domain.Field(k)] = v
	}
	cfg, err := s.ctrl.PatchDraft(fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) apiListAds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.Gallery().List())
}

// apiCreateAd は本文の AdConfig (空なら下書き) で生成します。
func (s *Server) apiCreateAd(w http.ResponseWriter, r *http.Request) {
	cfg := s.ctrl.Draft()
	if err := decodeBody(r, &cfg); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ad, err := s.ctrl.Generate(context.WithoutCancel(r.Context()), cfg)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, ad)
	case errors.Is(err, domain.ErrDescriptionRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, controller.ErrGenerationInFlight):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusBadGateway, domain.MessageOf(err))
	}
}

func (s *Server) apiDeleteAd(w http.ResponseWriter, r *http.Request) {
	s.ctrl.Delete(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
