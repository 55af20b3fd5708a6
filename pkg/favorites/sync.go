package favorites

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/mattsolo1/grove-showcase/pkg/models"
)

// ErrToggleFailed wraps every failed toggle request.
var ErrToggleFailed = errors.New("toggle favorite failed")

// Service is the remote favorite service.
type Service interface {
	// ListItemIDs returns the ids of every favorited item.
	ListItemIDs(ctx context.Context) ([]string, error)
	// Toggle flips the favorite status of an item and returns the new status.
	Toggle(ctx context.Context, req models.ToggleRequest) (*models.ToggleResult, error)
}

// Phase is the state of the most recent toggle of an item
type Phase int

const (
	PhaseNone Phase = iota
	PhaseOptimistic
	PhaseConfirmed
	PhaseRolledBack
)

func (p Phase) String() string {
	switch p {
	case PhaseOptimistic:
		return "optimistic"
	case PhaseConfirmed:
		return "confirmed"
	case PhaseRolledBack:
		return "rolled-back"
	default:
		return "none"
	}
}

// pending tracks the in-flight toggles of one item.
type pending struct {
	inFlight int
	guess    bool
}

// Sync keeps a local cache of the favorited ids and drives toggles against
// the Service. The cache mirrors server truth; the optimistic guesses of
// in-flight toggles are kept apart and only affect IsFavorited.
type Sync struct {
	svc Service
	log *logrus.Entry

	mu        sync.Mutex
	confirmed models.IDSet
	pending   map[string]*pending
	phases    map[string]Phase
	loaded    bool
	// gen counts confirmed toggles; a refetch that started before the
	// latest confirmation is stale and discarded.
	gen uint64

	refetch      singleflight.Group
	refetchAfter bool
}

// Option configures a Sync
type Option func(*Sync)

// WithLogger sets the logger.
func WithLogger(log *logrus.Entry) Option {
	return func(s *Sync) {
		s.log = log
	}
}

// WithoutRefetch disables the cache refetch after each toggle.
func WithoutRefetch() Option {
	return func(s *Sync) {
		s.refetchAfter = false
	}
}

// New creates a Sync for svc. The cache starts empty until Refresh.
func New(svc Service, opts ...Option) *Sync {
	s := &Sync{
		svc:          svc,
		log:          logrus.NewEntry(logrus.StandardLogger()),
		confirmed:    make(models.IDSet),
		pending:      make(map[string]*pending),
		phases:       make(map[string]Phase),
		refetchAfter: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("component", "favorites")
	return s
}

// Refresh replaces the cache with the server's list. Concurrent calls made
// between the same two confirmed toggles share one request.
func (s *Sync) Refresh(ctx context.Context) error {
	s.mu.Lock()
	startGen := s.gen
	s.mu.Unlock()

	_, err, _ := s.refetch.Do(fmt.Sprintf("ids-%d", startGen), func() (any, error) {
		ids, err := s.svc.ListItemIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("list favorite ids: %w", err)
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen != startGen {
			s.log.WithField("generation", startGen).Debug("discarding stale favorites refetch")
			return nil, nil
		}
		s.confirmed = models.NewIDSet(ids...)
		s.loaded = true
		return nil, nil
	})
	return err
}

// Loaded reports whether the cache has been filled from the server at least once.
func (s *Sync) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// IsFavorited is the displayed state: the optimistic guess while a toggle is
// in flight, the cached server state otherwise.
func (s *Sync) IsFavorited(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayed(id)
}

func (s *Sync) displayed(id string) bool {
	if p, ok := s.pending[id]; ok {
		return p.guess
	}
	return s.confirmed.Has(id)
}

// IDs returns the displayed favorite set.
func (s *Sync) IDs() models.IDSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(models.IDSet, len(s.confirmed))
	for id := range s.confirmed {
		out[id] = struct{}{}
	}
	for id, p := range s.pending {
		if p.guess {
			out[id] = struct{}{}
		} else {
			delete(out, id)
		}
	}
	return out
}

// SortedIDs returns the displayed favorite ids in order.
func (s *Sync) SortedIDs() []string {
	set := s.IDs()
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Phase returns the state of the latest toggle of id.
func (s *Sync) Phase(id string) Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phases[id]
}

// Toggle flips the displayed state of req.ItemID at once, then asks the
// service. On success the server's answer is written to the cache; on
// failure the cache is untouched and the flip is undone. When several
// toggles of one item overlap, the display settles on the answer that
// resolved last once none is in flight.
func (s *Sync) Toggle(ctx context.Context, req models.ToggleRequest) (*models.ToggleResult, error) {
	s.mu.Lock()
	p, ok := s.pending[req.ItemID]
	if !ok {
		p = &pending{}
		s.pending[req.ItemID] = p
	}
	before := s.displayed(req.ItemID)
	p.guess = !before
	p.inFlight++
	s.phases[req.ItemID] = PhaseOptimistic
	s.mu.Unlock()

	log := s.log.WithFields(logrus.Fields{"item_id": req.ItemID, "optimistic": !before})
	log.Debug("toggling favorite")

	res, err := s.svc.Toggle(ctx, req)
	if err == nil && res == nil {
		err = errors.New("empty response")
	}

	s.mu.Lock()
	p.inFlight--
	if err != nil {
		if p.inFlight > 0 {
			p.guess = before
		}
		s.phases[req.ItemID] = PhaseRolledBack
	} else {
		if res.IsFavorited {
			s.confirmed[req.ItemID] = struct{}{}
		} else {
			delete(s.confirmed, req.ItemID)
		}
		s.phases[req.ItemID] = PhaseConfirmed
		s.gen++
	}
	if p.inFlight == 0 {
		delete(s.pending, req.ItemID)
	}
	s.mu.Unlock()

	if err != nil {
		log.WithError(err).Warn("favorite toggle failed, rolled back")
	} else if res.IsFavorited == before {
		log.WithField("server", res.IsFavorited).Info("server disagreed with optimistic favorite state")
	}

	if s.refetchAfter {
		if rerr := s.Refresh(ctx); rerr != nil {
			log.WithError(rerr).Warn("could not refetch favorites after toggle")
		}
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrToggleFailed, req.ItemID, err)
	}
	return res, nil
}
