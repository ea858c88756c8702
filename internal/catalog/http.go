package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"TrailStore/internal/auth"
	"TrailStore/internal/shop"
	"TrailStore/pkg/kit"
)

const maxBodyBytes = 1 << 20

type Server struct {
	Store Store
	Log   *zap.Logger
	JWT   *auth.TokenMaker
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Store.Ping(ctx); err != nil {
			if s.Log != nil {
				s.Log.Warn("readyz failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/products", s.list)
	r.Get("/products/{id}", s.get)

	r.Route("/admin", func(ar chi.Router) {
		ar.Use(auth.RequireAdmin(s.JWT))
		ar.Put("/products", s.upsert)
		ar.Delete("/products/{id}", s.delete)
		ar.Post("/products/reset", s.reset)
	})

	r.Post("/internal/checkout", s.checkout)

	return r
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.List(r.Context())
	if err != nil {
		if s.Log != nil {
			s.Log.Error("list products failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	if q := r.URL.Query().Get("q"); q != "" {
		products = shop.Search(products, q)
	}

	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok, err := s.Store.Get(r.Context(), id)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("get product failed", zap.Error(err), zap.String("id", id))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) upsert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var in shop.UpsertInput
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	p, err := s.Store.Upsert(r.Context(), in)
	if err != nil {
		if errors.Is(err, shop.ErrTitleRequired) {
			kit.WriteError(w, r, http.StatusBadRequest, "title required", nil)
			return
		}
		if s.Log != nil {
			s.Log.Error("upsert product failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	found, err := s.Store.Delete(r.Context(), id)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("delete product failed", zap.Error(err), zap.String("id", id))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	seed := shop.DefaultCatalog()

	if err := s.Store.Replace(r.Context(), seed); err != nil {
		if s.Log != nil {
			s.Log.Error("reset catalog failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, seed)
}

type checkoutReq struct {
	Lines []shop.Line `json:"lines"`
}

// checkout is the internal endpoint the cart service delegates to. The store
// validates and decrements as one atomic unit; any shortfall leaves the
// catalog untouched and names the offending product.
func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req checkoutReq
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	err := s.Store.ApplyCheckout(r.Context(), req.Lines)
	if err != nil {
		var se *shop.StockError
		switch {
		case errors.Is(err, shop.ErrEmptyCart):
			kit.WriteError(w, r, http.StatusConflict, "empty cart", nil)
		case errors.As(err, &se):
			kit.WriteError(w, r, http.StatusConflict, "insufficient stock", se)
		default:
			if s.Log != nil {
				s.Log.Error("checkout failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		}
		return
	}

	products, err := s.Store.List(r.Context())
	if err != nil {
		if s.Log != nil {
			s.Log.Error("list after checkout failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, products)
}
