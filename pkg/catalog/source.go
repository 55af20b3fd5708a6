package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-showcase/pkg/export"
)

// SnapshotFile is the name of the snapshot document inside a catalog root.
const SnapshotFile = "store_index.json"

// Source provides the static catalog resources: the snapshot and the
// per-item export artifacts.
type Source interface {
	OpenSnapshot(ctx context.Context) (io.ReadCloser, error)
	OpenArtifact(ctx context.Context, ref export.Ref) (io.ReadCloser, error)
}

// DirSource serves catalog resources from a local directory laid out as
// store_index.json, flows/*.json and components/*.json.
type DirSource struct {
	Root string
}

// NewDirSource creates a DirSource rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{Root: dir}
}

// OpenSnapshot opens store_index.json.
func (d *DirSource) OpenSnapshot(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(d.Root, SnapshotFile))
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	return f, nil
}

// OpenArtifact opens the artifact ref points at. When the file is missing
// and ref carries an id, the first "{id}_*.json" file in the same directory
// is used, since stored names may predate the current sanitization rules.
func (d *DirSource) OpenArtifact(ctx context.Context, ref export.Ref) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validSegment(ref.Dir) || !validSegment(ref.File) {
		return nil, fmt.Errorf("open artifact %q: invalid path", ref.Path())
	}

	dir := filepath.Join(d.Root, ref.Dir)
	f, err := os.Open(filepath.Join(dir, ref.File))
	if err == nil {
		return f, nil
	}
	if !os.IsNotExist(err) || !validSegment(ref.ID) {
		return nil, fmt.Errorf("open artifact: %w", err)
	}

	matches, globErr := filepath.Glob(filepath.Join(dir, globEscape(ref.ID)+"_*.json"))
	if globErr != nil || len(matches) == 0 {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	f, err = os.Open(matches[0])
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	return f, nil
}

// validSegment reports whether s is a single path element.
func validSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

func globEscape(s string) string {
	r := strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`, `\`, `\\`)
	return r.Replace(s)
}

// Load opens and decodes the snapshot of src.
func Load(ctx context.Context, src Source, log *logrus.Entry) (*Store, error) {
	rc, err := src.OpenSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return Decode(rc, log)
}
