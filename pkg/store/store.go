// Package store is the sqlite-backed local backend for favorites and
// workspace flows.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mattsolo1/grove-showcase/pkg/models"
)

var ErrFavoriteNotFound = errors.New("favorite not found")

// DBFile is the database filename inside the data directory.
const DBFile = "showcase.db"

// Store persists favorites and grabbed flows
type Store struct {
	db      *sql.DB
	dataDir string
	now     func() time.Time
}

// Open opens (creating if needed) the store in dataDir.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dataDir, DBFile))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// sqlite serializes writers; one connection avoids "database is locked".
	db.SetMaxOpenConns(1)

	s := &Store{db: db, dataDir: dataDir, now: time.Now}
	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize store: %w", err)
	}
	return s, nil
}

// init creates the database schema
func (s *Store) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS favorites (
		id TEXT PRIMARY KEY,
		item_id TEXT NOT NULL UNIQUE,
		item_type TEXT NOT NULL,
		item_name TEXT NOT NULL,
		item_description TEXT,
		item_author TEXT,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS flows (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		data TEXT,
		folder_id TEXT,
		is_component BOOLEAN NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_flows_folder ON flows(folder_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// ListItemIDs returns the ids of all favorited items.
func (s *Store) ListItemIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT item_id FROM favorites ORDER BY created_at, item_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListFavorites returns all favorite records, oldest first.
func (s *Store) ListFavorites(ctx context.Context) ([]models.FavoriteRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, item_id, item_type, item_name, item_description, item_author, created_at
		FROM favorites ORDER BY created_at, item_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.FavoriteRecord{}
	for rows.Next() {
		var rec models.FavoriteRecord
		var desc, author sql.NullString
		if err := rows.Scan(&rec.ID, &rec.ItemID, &rec.ItemType, &rec.ItemName, &desc, &author, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if desc.Valid {
			rec.ItemDescription = &desc.String
		}
		if author.Valid {
			rec.ItemAuthor = &author.String
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Toggle removes the favorite of req.ItemID if present and adds it otherwise.
func (s *Store) Toggle(ctx context.Context, req models.ToggleRequest) (*models.ToggleResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var favID string
	err = tx.QueryRowContext(ctx, "SELECT id FROM favorites WHERE item_id = ?", req.ItemID).Scan(&favID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		favID = uuid.New().String()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO favorites (id, item_id, item_type, item_name, item_description, item_author, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, favID, req.ItemID, req.ItemType, req.ItemName, nullable(req.ItemDescription), nullable(req.ItemAuthor), s.now().UTC())
		if err != nil {
			return nil, fmt.Errorf("add favorite: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return &models.ToggleResult{IsFavorited: true, Message: models.MessageFavoriteAdded, FavoriteID: &favID}, nil
	case err != nil:
		return nil, fmt.Errorf("check favorite: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM favorites WHERE id = ?", favID); err != nil {
		return nil, fmt.Errorf("remove favorite: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &models.ToggleResult{IsFavorited: false, Message: models.MessageFavoriteRemoved}, nil
}

// DeleteFavorite removes the favorite of itemID.
func (s *Store) DeleteFavorite(ctx context.Context, itemID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM favorites WHERE item_id = ?", itemID)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("delete favorite %s: %w", itemID, ErrFavoriteNotFound)
	}
	return nil
}

// CreateFlow stores a new flow. Every call creates a new row.
func (s *Store) CreateFlow(ctx context.Context, nf models.NewFlow) (*models.Flow, error) {
	flow := &models.Flow{
		ID:          uuid.New().String(),
		Name:        nf.Name,
		Description: nf.Description,
		Data:        nf.Data,
		FolderID:    nf.FolderID,
		IsComponent: nf.IsComponent,
		CreatedAt:   s.now().UTC(),
	}

	var data sql.NullString
	if len(nf.Data) > 0 {
		data = sql.NullString{String: string(nf.Data), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO flows (id, name, description, data, folder_id, is_component, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, flow.ID, flow.Name, flow.Description, data, nullable(flow.FolderID), flow.IsComponent, flow.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert flow: %w", err)
	}
	return flow, nil
}

// ListFlows returns stored flows, oldest first.
func (s *Store) ListFlows(ctx context.Context) ([]models.Flow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, data, folder_id, is_component, created_at
		FROM flows ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flows := []models.Flow{}
	for rows.Next() {
		var f models.Flow
		var desc, data, folder sql.NullString
		if err := rows.Scan(&f.ID, &f.Name, &desc, &data, &folder, &f.IsComponent, &f.CreatedAt); err != nil {
			return nil, err
		}
		f.Description = desc.String
		if data.Valid {
			f.Data = []byte(data.String)
		}
		if folder.Valid {
			f.FolderID = &folder.String
		}
		flows = append(flows, f)
	}
	return flows, rows.Err()
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
