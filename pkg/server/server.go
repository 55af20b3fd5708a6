// Package server exposes a catalog directory and the local store over HTTP,
// using the same routes the remote client speaks.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-showcase/pkg/catalog"
	"github.com/mattsolo1/grove-showcase/pkg/export"
	"github.com/mattsolo1/grove-showcase/pkg/models"
	"github.com/mattsolo1/grove-showcase/pkg/store"
)

// Backend is the storage behind the favorites and flows routes.
type Backend interface {
	ListItemIDs(ctx context.Context) ([]string, error)
	ListFavorites(ctx context.Context) ([]models.FavoriteRecord, error)
	Toggle(ctx context.Context, req models.ToggleRequest) (*models.ToggleResult, error)
	DeleteFavorite(ctx context.Context, itemID string) error
	CreateFlow(ctx context.Context, nf models.NewFlow) (*models.Flow, error)
	ListFlows(ctx context.Context) ([]models.Flow, error)
}

// Server handles HTTP requests for the static catalog and the backend.
type Server struct {
	source  catalog.Source
	backend Backend
	log     *logrus.Entry
}

// New creates a Server.
func New(source catalog.Source, backend Backend, log *logrus.Entry) *Server {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Server{
		source:  source,
		backend: backend,
		log:     log.WithField("component", "server"),
	}
}

// Routes for the static catalog live under /static, the API under /api/v1.
const (
	StaticPrefix = "/static"
	APIPrefix    = "/api/v1"
)

// Router builds the chi router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route(StaticPrefix, func(r chi.Router) {
		r.Get("/"+catalog.SnapshotFile, s.handleSnapshot)
		r.Get("/{dir:(flows|components)}/{file}", s.handleArtifact)
	})

	r.Route(APIPrefix, func(r chi.Router) {
		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", s.handleListFavorites)
			r.Get("/item-ids", s.handleListItemIDs)
			r.Post("/toggle", s.handleToggle)
			r.Delete("/{itemId}", s.handleDeleteFavorite)
		})
		r.Route("/flows", func(r chi.Router) {
			r.Get("/", s.handleListFlows)
			r.Post("/", s.handleCreateFlow)
		})
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("request")
	})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	rc, err := s.source.OpenSnapshot(r.Context())
	if err != nil {
		s.writeOpenError(w, err)
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", "application/json")
	if _, err := io.Copy(w, rc); err != nil {
		s.log.WithError(err).Warn("write snapshot")
	}
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	dir := chi.URLParam(r, "dir")
	file := chi.URLParam(r, "file")
	if !strings.HasSuffix(file, ".json") {
		http.Error(w, "artifact must be a .json file", http.StatusBadRequest)
		return
	}

	ref := export.Ref{Dir: dir, ID: r.URL.Query().Get("id"), File: file}
	rc, err := s.source.OpenArtifact(r.Context(), ref)
	if err != nil {
		s.writeOpenError(w, err)
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", "application/json")
	if _, err := io.Copy(w, rc); err != nil {
		s.log.WithError(err).Warn("write artifact")
	}
}

func (s *Server) writeOpenError(w http.ResponseWriter, err error) {
	if errors.Is(err, os.ErrNotExist) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	s.log.WithError(err).Error("open catalog resource")
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	records, err := s.backend.ListFavorites(r.Context())
	if err != nil {
		s.log.WithError(err).Error("list favorites")
		http.Error(w, "Failed to retrieve favorites", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleListItemIDs(w http.ResponseWriter, r *http.Request) {
	ids, err := s.backend.ListItemIDs(r.Context())
	if err != nil {
		s.log.WithError(err).Error("list favorite item ids")
		http.Error(w, "Failed to retrieve favorite item IDs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req models.ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ItemID == "" || req.ItemName == "" {
		http.Error(w, "item_id and item_name are required", http.StatusBadRequest)
		return
	}
	if _, ok := models.ParseItemType(string(req.ItemType)); !ok {
		http.Error(w, "item_type must be FLOW or COMPONENT", http.StatusBadRequest)
		return
	}

	res, err := s.backend.Toggle(r.Context(), req)
	if err != nil {
		s.log.WithError(err).WithField("item_id", req.ItemID).Error("toggle favorite")
		http.Error(w, "Failed to toggle favorite", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDeleteFavorite(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")
	if err := s.backend.DeleteFavorite(r.Context(), itemID); err != nil {
		if errors.Is(err, store.ErrFavoriteNotFound) || errors.Is(err, os.ErrNotExist) {
			http.Error(w, "Favorite not found", http.StatusNotFound)
			return
		}
		s.log.WithError(err).WithField("item_id", itemID).Error("delete favorite")
		http.Error(w, "Failed to delete favorite", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Favorite deleted successfully"})
}

func (s *Server) handleListFlows(w http.ResponseWriter, r *http.Request) {
	flows, err := s.backend.ListFlows(r.Context())
	if err != nil {
		s.log.WithError(err).Error("list flows")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, flows)
}

func (s *Server) handleCreateFlow(w http.ResponseWriter, r *http.Request) {
	var nf models.NewFlow
	if err := json.NewDecoder(r.Body).Decode(&nf); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if nf.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	flow, err := s.backend.CreateFlow(r.Context(), nf)
	if err != nil {
		s.log.WithError(err).Error("create flow")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, flow)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
