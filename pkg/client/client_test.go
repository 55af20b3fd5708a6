package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-showcase/internal/testutil"
	"github.com/mattsolo1/grove-showcase/pkg/catalog"
	"github.com/mattsolo1/grove-showcase/pkg/export"
	"github.com/mattsolo1/grove-showcase/pkg/models"
	"github.com/mattsolo1/grove-showcase/pkg/server"
	"github.com/mattsolo1/grove-showcase/pkg/store"
)

func quiet() *logrus.Entry {
	logger, _ := test.NewNullLogger()
	return logrus.NewEntry(logger)
}

// newRoundTrip serves a catalog and a sqlite store through the real router
// and returns a client pointed at it.
func newRoundTrip(t *testing.T, opts ...Option) (*Client, *models.CatalogItem) {
	t.Helper()

	dir := t.TempDir()
	comp := testutil.Item("c1", "Summarizer (LLM)", models.ItemTypeComponent, testutil.WithAuthor("ana"))
	testutil.WriteCatalog(t, filepath.Join(dir, "catalog"),
		testutil.Snapshot(nil, []models.CatalogItem{comp}),
		map[string]json.RawMessage{"c1": testutil.FlowGraph})

	st, err := store.Open(filepath.Join(dir, "data"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	srv := httptest.NewServer(server.New(catalog.NewDirSource(filepath.Join(dir, "catalog")), st, quiet()).Router())
	t.Cleanup(srv.Close)

	opts = append([]Option{WithLogger(quiet())}, opts...)
	c := New(srv.URL+server.StaticPrefix+"/", srv.URL+server.APIPrefix, opts...)
	return c, &comp
}

func TestSnapshotAndArtifact(t *testing.T) {
	ctx := context.Background()
	c, item := newRoundTrip(t)

	cat, err := catalog.Load(ctx, c, quiet())
	require.NoError(t, err)
	got, err := cat.Get("c1")
	require.NoError(t, err)
	assert.Equal(t, "Summarizer (LLM)", got.Name)

	rc, err := c.OpenArtifact(ctx, export.RefOf(item))
	require.NoError(t, err)
	defer rc.Close()
	var art models.Artifact
	require.NoError(t, json.NewDecoder(rc).Decode(&art))
	assert.Equal(t, "c1", art.ID)
	assert.Contains(t, string(art.Data), "ChatOutput-2")

	_, err = c.OpenArtifact(ctx, export.Ref{Dir: "components", ID: "zz", File: "zz_Missing.json"})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	renamed := export.RefOf(item)
	renamed.File = "c1_Old Name.json"
	rc, err = c.OpenArtifact(ctx, renamed)
	require.NoError(t, err, "the host finds a renamed artifact by id")
	rc.Close()

	_, err = c.OpenArtifact(ctx, export.Ref{Dir: "..", File: "x.json"})
	assert.Error(t, err)
	_, err = c.OpenArtifact(ctx, export.Ref{Dir: "flows", File: "../store_index.json"})
	assert.Error(t, err)
}

func TestFavoritesRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, item := newRoundTrip(t)

	ids, err := c.ListItemIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	res, err := c.Toggle(ctx, models.NewToggleRequest(item))
	require.NoError(t, err)
	assert.True(t, res.IsFavorited)
	assert.Equal(t, models.MessageFavoriteAdded, res.Message)

	ids, err = c.ListItemIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, ids)

	records, err := c.ListFavorites(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.ItemTypeComponent, records[0].ItemType)
	require.NotNil(t, records[0].ItemAuthor)
	assert.Equal(t, "ana", *records[0].ItemAuthor)

	require.NoError(t, c.DeleteFavorite(ctx, "c1"))
	err = c.DeleteFavorite(ctx, "c1")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCreateFlowRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, item := newRoundTrip(t)

	folder := "f-1"
	flow, err := c.CreateFlow(ctx, models.NewFlow{
		Name:        item.Name,
		Data:        testutil.FlowGraph,
		FolderID:    &folder,
		IsComponent: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, flow.ID)
	assert.True(t, flow.IsComponent)

	flows, err := c.ListFlows(ctx)
	require.NoError(t, err)
	require.Len(t, flows, 1)
	assert.Equal(t, flow.ID, flows[0].ID)
	require.NotNil(t, flows[0].FolderID)
	assert.Equal(t, folder, *flows[0].FolderID)
}

func TestBearerToken(t *testing.T) {
	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.Header.Get("Authorization")
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c := New(srv.URL, srv.URL, WithToken("secret"), WithLogger(quiet()))
	_, err := c.ListItemIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", <-got)
}

func TestTimeoutDoesNotModifySharedClient(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}

	c := New("http://host", "http://host", WithHTTPClient(shared), WithTimeout(time.Second), WithLogger(quiet()))
	assert.Equal(t, time.Minute, shared.Timeout)
	assert.Equal(t, time.Second, c.http.Timeout)
	assert.NotSame(t, shared, c.http)

	c = New("http://host", "http://host", WithTimeout(time.Second), WithHTTPClient(shared), WithLogger(quiet()))
	assert.Equal(t, time.Minute, shared.Timeout)
	assert.Equal(t, time.Second, c.http.Timeout)

	c = New("http://host", "http://host", WithHTTPClient(shared), WithLogger(quiet()))
	assert.Same(t, shared, c.http)
}

func TestServerErrorsAreReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Failed to toggle favorite", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, srv.URL, WithLogger(quiet()))
	_, err := c.Toggle(context.Background(), models.ToggleRequest{ItemID: "x"})

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	assert.Equal(t, "Failed to toggle favorite", se.Body)
	assert.False(t, errors.Is(err, os.ErrNotExist))
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(srv.URL, srv.URL, WithTimeout(50*time.Millisecond), WithLogger(quiet()))
	_, err := c.ListItemIDs(context.Background())
	assert.Error(t, err)
}
