package plans

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"TrailStore/internal/auth"
	"TrailStore/pkg/kit"
)

const maxBodyBytes = 1 << 20

type Server struct {
	Store Store
	Log   *zap.Logger
}

type planReq struct {
	Name       string `json:"name"`
	Location   string `json:"location"`
	Difficulty string `json:"difficulty"`
	Notes      string `json:"notes"`
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no user", nil)
		return
	}

	difficulty := r.URL.Query().Get("difficulty")
	out, err := s.Store.List(r.Context(), u.ID, normalizeDifficulty(difficulty))
	if err != nil {
		s.logErr("list plans failed", err)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if out == nil {
		out = []Plan{}
	}
	kit.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no user", nil)
		return
	}

	req, ok := decodePlan(w, r)
	if !ok {
		return
	}

	p := Plan{
		ID:         "h_" + uuid.NewString(),
		UserID:     u.ID,
		Name:       req.Name,
		Location:   req.Location,
		Difficulty: req.Difficulty,
		Notes:      req.Notes,
		CreatedAt:  time.Now().UTC(),
	}
	if err := p.Validate(); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := s.Store.Create(r.Context(), p); err != nil {
		s.logErr("create plan failed", err)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, p)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no user", nil)
		return
	}

	req, ok := decodePlan(w, r)
	if !ok {
		return
	}

	p := Plan{
		ID:         chi.URLParam(r, "id"),
		UserID:     u.ID,
		Name:       req.Name,
		Location:   req.Location,
		Difficulty: req.Difficulty,
		Notes:      req.Notes,
	}
	if err := p.Validate(); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	found, err := s.Store.Update(r.Context(), p)
	if err != nil {
		s.logErr("update plan failed", err)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": p.ID})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no user", nil)
		return
	}

	id := chi.URLParam(r, "id")
	found, err := s.Store.Delete(r.Context(), u.ID, id)
	if err != nil {
		s.logErr("delete plan failed", err)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no user", nil)
		return
	}

	if err := s.Store.Clear(r.Context(), u.ID); err != nil {
		s.logErr("clear plans failed", err)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) packing(w http.ResponseWriter, r *http.Request) {
	difficulty := chi.URLParam(r, "difficulty")

	items, ok := PackingList(difficulty)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "unknown difficulty", map[string]any{"difficulty": difficulty})
		return
	}
	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"difficulty": normalizeDifficulty(difficulty),
		"items":      items,
	})
}

func decodePlan(w http.ResponseWriter, r *http.Request) (planReq, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req planReq
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return planReq{}, false
	}
	return req, true
}

func (s *Server) logErr(msg string, err error) {
	if s.Log != nil {
		s.Log.Error(msg, zap.Error(err))
	}
}
