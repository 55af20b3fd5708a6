package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mattsolo1/grove-showcase/pkg/models"
	"github.com/mattsolo1/grove-showcase/pkg/service"
)

func outputJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func outputYAML(v any) error {
	return writeYAML(os.Stdout, v)
}

func writeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

// loadCatalog loads the session's catalog, returning the controller's load
// error when the snapshot is unusable.
func loadCatalog(ctx context.Context, s *service.Service) error {
	if err := s.Load(ctx); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	return nil
}

// lookupItem loads the catalog and resolves an item id.
func lookupItem(ctx context.Context, s *service.Service, id string) (*models.CatalogItem, error) {
	if err := loadCatalog(ctx, s); err != nil {
		return nil, err
	}
	item, err := s.Controller.Item(id)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func authorName(item *models.CatalogItem) string {
	if name, ok := item.Username(); ok {
		return name
	}
	return "-"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
