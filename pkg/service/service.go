// Package service assembles a showcase session from configuration: the
// catalog source, the favorites and workspace backend and the controller.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/mattsolo1/grove-showcase/pkg/catalog"
	"github.com/mattsolo1/grove-showcase/pkg/client"
	"github.com/mattsolo1/grove-showcase/pkg/models"
	"github.com/mattsolo1/grove-showcase/pkg/server"
	"github.com/mattsolo1/grove-showcase/pkg/showcase"
	"github.com/mattsolo1/grove-showcase/pkg/store"
)

// Mode selects where the catalog and the backend live.
type Mode string

const (
	// ModeLocal reads the catalog from a directory and keeps favorites and
	// grabbed flows in a sqlite database.
	ModeLocal Mode = "local"
	// ModeRemote talks to a showcase host over HTTP.
	ModeRemote Mode = "remote"
)

// Config holds service configuration
type Config struct {
	Mode        Mode
	SnapshotDir string
	StaticURL   string
	APIURL      string
	Token       string
	DataDir     string
	PageSize    int
	Locale      string
	FolderID    string
	HTTPTimeout time.Duration
}

// Service is one configured showcase session
type Service struct {
	Config     *Config
	Controller *showcase.Controller

	source  catalog.Source
	backend server.Backend
	closer  func() error
	log     *logrus.Entry
}

// New builds a Service. The catalog is not loaded until Load.
func New(cfg *Config, log *logrus.Entry) (*Service, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	locale := language.English
	if cfg.Locale != "" {
		tag, err := language.Parse(cfg.Locale)
		if err != nil {
			return nil, fmt.Errorf("parse locale %q: %w", cfg.Locale, err)
		}
		locale = tag
	}

	s := &Service{Config: cfg, log: log, closer: func() error { return nil }}

	switch cfg.Mode {
	case ModeLocal, "":
		if cfg.SnapshotDir == "" {
			return nil, fmt.Errorf("local mode requires snapshot_dir")
		}
		st, err := store.Open(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		s.source = catalog.NewDirSource(cfg.SnapshotDir)
		s.backend = st
		s.closer = st.Close
	case ModeRemote:
		if cfg.StaticURL == "" || cfg.APIURL == "" {
			return nil, fmt.Errorf("remote mode requires static_url and api_url")
		}
		c := client.New(cfg.StaticURL, cfg.APIURL,
			client.WithToken(cfg.Token),
			client.WithTimeout(cfg.HTTPTimeout),
			client.WithLogger(log),
		)
		s.source = c
		s.backend = c
	default:
		return nil, fmt.Errorf("unknown mode %q (want local or remote)", cfg.Mode)
	}

	s.Controller = showcase.New(s.source, s.backend, s.backend,
		showcase.WithPageSize(cfg.PageSize),
		showcase.WithLocale(locale),
		showcase.WithDefaultFolder(cfg.FolderID),
		showcase.WithLogger(log),
	)
	return s, nil
}

// Load loads the catalog and the favorite set.
func (s *Service) Load(ctx context.Context) error {
	return s.Controller.Load(ctx)
}

// Source is the catalog source of the session.
func (s *Service) Source() catalog.Source {
	return s.source
}

// Backend is the favorites and workspace backend of the session.
func (s *Service) Backend() server.Backend {
	return s.backend
}

// ListFavorites returns the full favorite records from the backend.
func (s *Service) ListFavorites(ctx context.Context) ([]models.FavoriteRecord, error) {
	return s.backend.ListFavorites(ctx)
}

// Server builds an HTTP server over the session's source and backend.
func (s *Service) Server() *server.Server {
	return server.New(s.source, s.backend, s.log)
}

// Close releases the backend.
func (s *Service) Close() error {
	return s.closer()
}
