// Package showcase drives a catalog session: loading the snapshot, the
// criteria and page of the current view, favorites, previews, downloads and
// grabs.
package showcase

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/mattsolo1/grove-showcase/pkg/catalog"
	"github.com/mattsolo1/grove-showcase/pkg/favorites"
	"github.com/mattsolo1/grove-showcase/pkg/filter"
	"github.com/mattsolo1/grove-showcase/pkg/models"
	"github.com/mattsolo1/grove-showcase/pkg/paginate"
	"github.com/mattsolo1/grove-showcase/pkg/preview"
)

// State is the catalog load state.
type State int

const (
	StateLoading State = iota
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "loading"
	}
}

// WorkspaceService creates entities in the user's workspace.
type WorkspaceService interface {
	CreateFlow(ctx context.Context, nf models.NewFlow) (*models.Flow, error)
}

// Controller owns one catalog session. All methods are safe for concurrent use.
type Controller struct {
	source    catalog.Source
	favorites *favorites.Sync
	workspace WorkspaceService
	notifier  Notifier
	log       *logrus.Entry

	pageSize int
	locale   language.Tag
	folderID *string

	mu       sync.Mutex
	state    State
	loadErr  error
	store    *catalog.Store
	criteria filter.Criteria
	page     int

	downloading models.IDSet
	grabbing    models.IDSet
	preview     previewState
}

// previewState guards the preview dialog against late results.
type previewState struct {
	token  uint64
	open   bool
	itemID string
	cancel context.CancelFunc
	graph  *preview.Graph
}

// Option configures a Controller
type Option func(*Controller)

// WithPageSize sets the number of items per page.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithLocale sets the collation locale for alphabetical sorting.
func WithLocale(tag language.Tag) Option {
	return func(c *Controller) {
		c.locale = tag
	}
}

// WithDefaultFolder sets the workspace folder used by Grab when none is given.
func WithDefaultFolder(folderID string) Option {
	return func(c *Controller) {
		if folderID != "" {
			c.folderID = &folderID
		}
	}
}

// WithNotifier sets the receiver of transient notifications.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		c.notifier = n
	}
}

// WithLogger sets the logger.
func WithLogger(log *logrus.Entry) Option {
	return func(c *Controller) {
		c.log = log
	}
}

// New creates a Controller in StateLoading. favs and ws may be nil when the
// session has no favorites or workspace backend.
func New(source catalog.Source, favs favorites.Service, ws WorkspaceService, opts ...Option) *Controller {
	c := &Controller{
		source:      source,
		workspace:   ws,
		log:         logrus.NewEntry(logrus.StandardLogger()),
		pageSize:    paginate.DefaultPageSize,
		locale:      language.English,
		criteria:    filter.DefaultCriteria(),
		page:        1,
		downloading: make(models.IDSet),
		grabbing:    make(models.IDSet),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithField("component", "showcase")
	if c.notifier == nil {
		c.notifier = NewLogNotifier(c.log)
	}
	if favs != nil {
		c.favorites = favorites.New(favs, favorites.WithLogger(c.log))
	}
	return c
}

// Load fetches the snapshot once. A failed load moves the controller to
// StateError for good; later calls return the same error. The favorite set
// is fetched after the catalog; its failure is only a notification.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateReady:
		c.mu.Unlock()
		return nil
	case StateError:
		err := c.loadErr
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	store, err := catalog.Load(ctx, c.source, c.log)

	c.mu.Lock()
	if c.state != StateLoading {
		// a concurrent Load settled first
		state, loadErr := c.state, c.loadErr
		c.mu.Unlock()
		if state == StateError {
			return loadErr
		}
		return nil
	}
	if err != nil {
		c.state = StateError
		c.loadErr = fmt.Errorf("%w: %w", ErrLoadFailed, err)
		loadErr := c.loadErr
		c.mu.Unlock()
		c.notify(Notification{Level: logrus.ErrorLevel, Op: OpLoad, Message: "Could not load the catalog", Err: err})
		return loadErr
	}
	c.store = store
	c.state = StateReady
	c.mu.Unlock()

	c.log.WithField("items", store.Len()).Debug("catalog loaded")

	if c.favorites != nil {
		if err := c.favorites.Refresh(ctx); err != nil {
			c.notify(Notification{Level: logrus.WarnLevel, Op: OpFavorite, Message: "Could not load favorites", Err: err})
		}
	}
	return nil
}

// State returns the load state and, in StateError, the load error.
func (c *Controller) State() (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.loadErr
}

// Catalog returns the loaded catalog.
func (c *Controller) Catalog() (*catalog.Store, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readyStore()
}

func (c *Controller) readyStore() (*catalog.Store, error) {
	if c.state != StateReady {
		return nil, fmt.Errorf("%w: %s", ErrNotReady, c.state)
	}
	return c.store, nil
}

// Item looks up an item by id.
func (c *Controller) Item(id string) (models.CatalogItem, error) {
	store, err := c.Catalog()
	if err != nil {
		return models.CatalogItem{}, err
	}
	return store.Get(id)
}

// Criteria returns a copy of the current criteria.
func (c *Controller) Criteria() filter.Criteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteria.Clone()
}

// updateCriteria applies fn and resets the page.
func (c *Controller) updateCriteria(fn func(*filter.Criteria)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.criteria)
	c.page = 1
}

// SetCriteria replaces all criteria.
func (c *Controller) SetCriteria(cr filter.Criteria) {
	c.updateCriteria(func(cur *filter.Criteria) { *cur = cr.Clone() })
}

// ResetCriteria restores the default criteria.
func (c *Controller) ResetCriteria() {
	c.SetCriteria(filter.DefaultCriteria())
}

func (c *Controller) SetSearch(term string) {
	c.updateCriteria(func(cur *filter.Criteria) { cur.Search = term })
}

func (c *Controller) SetTags(names ...string) {
	c.updateCriteria(func(cur *filter.Criteria) { *cur = cur.WithTags(names...) })
}

// ToggleTag adds name to the selected tags, or removes it when selected.
func (c *Controller) ToggleTag(name string) {
	c.updateCriteria(func(cur *filter.Criteria) {
		next := cur.Clone()
		if _, ok := next.Tags[name]; ok {
			delete(next.Tags, name)
		} else if name != "" {
			next.Tags[name] = struct{}{}
		}
		*cur = next
	})
}

func (c *Controller) SetAuthor(author string) {
	c.updateCriteria(func(cur *filter.Criteria) { cur.Author = author })
}

func (c *Controller) SetTab(tab filter.Tab) {
	c.updateCriteria(func(cur *filter.Criteria) { cur.Tab = tab })
}

func (c *Controller) SetSort(key filter.SortKey) {
	c.updateCriteria(func(cur *filter.Criteria) { cur.Sort = key })
}

func (c *Controller) SetPrivateOnly(on bool) {
	c.updateCriteria(func(cur *filter.Criteria) { cur.PrivateOnly = on })
}

// SetPage selects a page. It is clamped into range by View.
func (c *Controller) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = page
}

// View is one rendered page of the filtered catalog.
type View struct {
	paginate.Page[models.CatalogItem] `yaml:",inline"`
	Criteria  filter.Criteria `json:"-" yaml:"-"`
	Favorites models.IDSet    `json:"-" yaml:"-"`
}

// View filters, sorts and paginates the catalog with the current criteria.
// The stored page is clamped to the resulting page count.
func (c *Controller) View() (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	store, err := c.readyStore()
	if err != nil {
		return View{}, err
	}

	favs := c.favoriteIDs()
	items := filter.Filter(store.All(), c.criteria, favs, filter.WithLocale(c.locale))
	page := paginate.Paginate(items, c.pageSize, c.page)
	c.page = page.Page

	return View{
		Page:      page,
		Criteria:  c.criteria.Clone(),
		Favorites: favs,
	}, nil
}

// Facets counts tags over the whole catalog.
func (c *Controller) Facets() ([]filter.TagCount, error) {
	store, err := c.Catalog()
	if err != nil {
		return nil, err
	}
	return filter.Facets(store.All()), nil
}

// Stats summarizes the catalog.
func (c *Controller) Stats() (catalog.Stats, error) {
	store, err := c.Catalog()
	if err != nil {
		return catalog.Stats{}, err
	}
	return store.Stats(), nil
}

func (c *Controller) favoriteIDs() models.IDSet {
	if c.favorites == nil {
		return models.IDSet{}
	}
	return c.favorites.IDs()
}

// IsFavorited is the displayed favorite state of id.
func (c *Controller) IsFavorited(id string) bool {
	if c.favorites == nil {
		return false
	}
	return c.favorites.IsFavorited(id)
}

// FavoritePhase is the state of the latest favorite toggle of id.
func (c *Controller) FavoritePhase(id string) favorites.Phase {
	if c.favorites == nil {
		return favorites.PhaseNone
	}
	return c.favorites.Phase(id)
}

// ToggleFavorite flips the favorite state of item. The display changes at
// once; a failure rolls it back and is reported to the notifier.
func (c *Controller) ToggleFavorite(ctx context.Context, item *models.CatalogItem) (*models.ToggleResult, error) {
	if c.favorites == nil {
		return nil, fmt.Errorf("%w: no favorites service", favorites.ErrToggleFailed)
	}
	res, err := c.favorites.Toggle(ctx, models.NewToggleRequest(item))
	if err != nil {
		c.notify(Notification{Level: logrus.WarnLevel, Op: OpFavorite, ItemID: item.ID, Message: "Could not update favorite", Err: err})
		return nil, err
	}
	c.notify(Notification{Level: logrus.InfoLevel, Op: OpFavorite, ItemID: item.ID, Message: res.Message})
	return res, nil
}

// InFlight reports whether a download or grab of id is running.
func (c *Controller) InFlight(id string) (downloading, grabbing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.downloading.Has(id), c.grabbing.Has(id)
}

// begin marks id as running in set, or fails if it already is.
func (c *Controller) begin(set models.IDSet, op, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if set.Has(id) {
		return fmt.Errorf("%w: %s %s", ErrOperationInFlight, op, id)
	}
	set[id] = struct{}{}
	return nil
}

func (c *Controller) end(set models.IDSet, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(set, id)
}

func (c *Controller) notify(n Notification) {
	c.notifier.Notify(n)
}
