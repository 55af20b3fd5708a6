package showcase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-showcase/pkg/export"
	"github.com/mattsolo1/grove-showcase/pkg/models"
	"github.com/mattsolo1/grove-showcase/pkg/preview"
)

// readArtifact fetches and decodes the export artifact of item.
func (c *Controller) readArtifact(ctx context.Context, item *models.CatalogItem) (*models.Artifact, error) {
	rc, err := c.source.OpenArtifact(ctx, export.RefOf(item))
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var art models.Artifact
	if err := json.NewDecoder(rc).Decode(&art); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return &art, nil
}

// Download streams the export artifact of item into w and returns the
// filename it should be saved under.
func (c *Controller) Download(ctx context.Context, item *models.CatalogItem, w io.Writer) (string, error) {
	if err := c.begin(c.downloading, OpDownload, item.ID); err != nil {
		return "", err
	}
	defer c.end(c.downloading, item.ID)

	filename := export.Filename(item)
	err := func() error {
		rc, err := c.source.OpenArtifact(ctx, export.RefOf(item))
		if err != nil {
			return err
		}
		defer rc.Close()
		if _, err := io.Copy(w, rc); err != nil {
			return fmt.Errorf("write artifact: %w", err)
		}
		return nil
	}()
	if err != nil {
		c.notify(Notification{Level: logrus.WarnLevel, Op: OpDownload, ItemID: item.ID, Message: "Could not download " + item.Name, Err: err})
		return "", fmt.Errorf("%w: %s: %w", ErrDownloadFailed, item.ID, err)
	}

	c.notify(Notification{Level: logrus.InfoLevel, Op: OpDownload, ItemID: item.ID, Message: "Downloaded " + filename})
	return filename, nil
}

// Grab copies item into the workspace. Every call creates a new copy. A nil
// folderID uses the default folder, if any.
func (c *Controller) Grab(ctx context.Context, item *models.CatalogItem, folderID *string) (*models.Flow, error) {
	if c.workspace == nil {
		return nil, fmt.Errorf("%w: no workspace service", ErrGrabFailed)
	}
	if err := c.begin(c.grabbing, OpGrab, item.ID); err != nil {
		return nil, err
	}
	defer c.end(c.grabbing, item.ID)

	if folderID == nil {
		folderID = c.folderID
	}

	flow, err := func() (*models.Flow, error) {
		art, err := c.readArtifact(ctx, item)
		if err != nil {
			return nil, err
		}
		return c.workspace.CreateFlow(ctx, models.NewFlow{
			Name:        item.Name,
			Description: item.Description,
			Data:        art.Data,
			FolderID:    folderID,
			IsComponent: item.Type == models.ItemTypeComponent,
		})
	}()
	if err == nil && flow == nil {
		err = errors.New("empty response")
	}
	if err != nil {
		c.notify(Notification{Level: logrus.WarnLevel, Op: OpGrab, ItemID: item.ID, Message: "Could not add " + item.Name + " to the workspace", Err: err})
		return nil, fmt.Errorf("%w: %s: %w", ErrGrabFailed, item.ID, err)
	}

	c.notify(Notification{Level: logrus.InfoLevel, Op: OpGrab, ItemID: item.ID, Message: "Added " + item.Name + " to the workspace"})
	return flow, nil
}

// OpenPreview opens the preview of item, replacing any open preview, and
// resolves its graph. The stored graph is used when the artifact carries one;
// otherwise a placeholder is synthesized. If the preview is closed or
// replaced before the graph resolves, ErrPreviewClosed is returned and the
// result is discarded.
func (c *Controller) OpenPreview(ctx context.Context, item *models.CatalogItem) (*preview.Graph, error) {
	pctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	if c.preview.cancel != nil {
		c.preview.cancel()
	}
	c.preview.token++
	token := c.preview.token
	c.preview.open = true
	c.preview.itemID = item.ID
	c.preview.cancel = cancel
	c.preview.graph = nil
	c.mu.Unlock()

	var payload json.RawMessage
	art, err := c.readArtifact(pctx, item)
	if err != nil {
		c.log.WithError(err).WithField("item_id", item.ID).Debug("no stored graph, using placeholder")
	} else {
		payload = art.Data
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.preview.open || c.preview.token != token || c.preview.itemID != item.ID {
		return nil, fmt.Errorf("%w: %s", ErrPreviewClosed, item.ID)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g := preview.Resolve(item, payload)
	c.preview.graph = g
	return g, nil
}

// ClosePreview closes the preview and cancels its fetch.
func (c *Controller) ClosePreview() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.preview.cancel != nil {
		c.preview.cancel()
	}
	c.preview = previewState{token: c.preview.token + 1}
}

// Preview returns the graph of the open preview, or nil.
func (c *Controller) Preview() (string, *preview.Graph) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.preview.open {
		return "", nil
	}
	return c.preview.itemID, c.preview.graph
}
