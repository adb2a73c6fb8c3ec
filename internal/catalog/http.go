package catalog

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"MapleMade/pkg/kit"
)

// The catalog is public and unauthenticated, so the write routes get the
// same per-IP limiter treatment the read routes do not need.
const (
	writeLimit       = 30
	writeLimitWindow = time.Minute
)

type Server struct {
	Catalog *Catalog
	Log     *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Catalog.Ping(ctx); err != nil {
			if s.Log != nil {
				s.Log.Warn("readyz failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready")
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	writeLimiter := kit.NewIPRateLimiter(writeLimit, writeLimitWindow)

	r.Route("/api/items", func(rr chi.Router) {
		rr.Get("/", s.list)
		rr.Get("/search", s.search)
		rr.Get("/{id}", s.get)

		rr.Group(func(wr chi.Router) {
			wr.Use(writeLimiter.Middleware)
			wr.Post("/", s.create)
			wr.Put("/{id}", s.update)
			wr.Delete("/{id}", s.del)
		})
	})

	return r
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	items, err := s.Catalog.List(r.Context())
	if err != nil {
		s.writeErr(w, r, err, "list items failed")
		return
	}
	kit.WriteJSON(w, http.StatusOK, items)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	items, err := s.Catalog.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		s.writeErr(w, r, err, "search items failed")
		return
	}
	kit.WriteJSON(w, http.StatusOK, items)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	it, err := s.Catalog.Get(r.Context(), id)
	if err != nil {
		s.writeErr(w, r, err, "get item failed")
		return
	}
	kit.WriteJSON(w, http.StatusOK, it)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var f CreateFields
	if err := kit.DecodeJSON(w, r, &f); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json")
		return
	}

	it, err := s.Catalog.Create(r.Context(), f)
	if err != nil {
		s.writeErr(w, r, err, "create item failed")
		return
	}
	kit.WriteJSON(w, http.StatusCreated, it)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var f UpdateFields
	if err := kit.DecodeJSON(w, r, &f); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json")
		return
	}

	it, err := s.Catalog.Update(r.Context(), id, f)
	if err != nil {
		s.writeErr(w, r, err, "update item failed")
		return
	}
	kit.WriteJSON(w, http.StatusOK, it)
}

func (s *Server) del(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.Catalog.Delete(r.Context(), id); err != nil {
		s.writeErr(w, r, err, "delete item failed")
		return
	}
	kit.WriteJSON(w, http.StatusOK, map[string]string{"message": "Item deleted successfully"})
}

// writeErr maps catalog errors onto the status contract: validation 400,
// unknown id 404, everything else a generic 500.
func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	switch {
	case errors.Is(err, ErrInvalid):
		kit.WriteError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "not found")
	default:
		if s.Log != nil {
			s.Log.Error(logMsg, zap.Error(err), zap.String("path", r.URL.Path))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error")
	}
}
