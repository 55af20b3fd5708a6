package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-showcase/internal/testutil"
	"github.com/mattsolo1/grove-showcase/pkg/client"
	"github.com/mattsolo1/grove-showcase/pkg/models"
	"github.com/mattsolo1/grove-showcase/pkg/showcase"
	"github.com/mattsolo1/grove-showcase/pkg/store"
)

func quiet() *logrus.Entry {
	logger, _ := test.NewNullLogger()
	return logrus.NewEntry(logger)
}

func TestNewValidatesConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"local without snapshot dir", Config{Mode: ModeLocal}, "snapshot_dir"},
		{"remote without urls", Config{Mode: ModeRemote, StaticURL: "http://x"}, "api_url"},
		{"unknown mode", Config{Mode: "ftp"}, "unknown mode"},
		{"bad locale", Config{Mode: ModeRemote, StaticURL: "http://x", APIURL: "http://x", Locale: "???"}, "parse locale"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			_, err := New(&cfg, quiet())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRemoteModeUsesClient(t *testing.T) {
	svc, err := New(&Config{Mode: ModeRemote, StaticURL: "http://host/static", APIURL: "http://host/api/v1"}, quiet())
	require.NoError(t, err)
	defer svc.Close()

	_, ok := svc.Source().(*client.Client)
	assert.True(t, ok)
	_, ok = svc.Backend().(*client.Client)
	assert.True(t, ok)
}

func TestLocalSession(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	flow := testutil.Item("f1", "Document QA", models.ItemTypeFlow)
	testutil.WriteCatalog(t, filepath.Join(dir, "catalog"),
		testutil.Snapshot([]models.CatalogItem{flow}, nil),
		map[string]json.RawMessage{"f1": testutil.FlowGraph})

	svc, err := New(&Config{
		SnapshotDir: filepath.Join(dir, "catalog"),
		DataDir:     filepath.Join(dir, "data"),
		Locale:      "sv",
		FolderID:    "inbox",
	}, quiet())
	require.NoError(t, err)
	defer svc.Close()

	_, ok := svc.Backend().(*store.Store)
	assert.True(t, ok, "an empty mode is local")

	require.NoError(t, svc.Load(ctx))
	state, _ := svc.Controller.State()
	assert.Equal(t, showcase.StateReady, state)

	_, err = svc.Controller.ToggleFavorite(ctx, &flow)
	require.NoError(t, err)
	records, err := svc.ListFavorites(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "f1", records[0].ItemID)

	grabbed, err := svc.Controller.Grab(ctx, &flow, nil)
	require.NoError(t, err)
	require.NotNil(t, grabbed.FolderID)
	assert.Equal(t, "inbox", *grabbed.FolderID)

	assert.NotNil(t, svc.Server().Router())
}
