// Package simulator owns a collection session: loading, pack flows, resets
// and persistence.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/catalog"
	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/collection"
	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/packs"
	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/progress"
)

var (
	// ErrNotLoaded is returned by operations that need an installed catalog.
	ErrNotLoaded = errors.New("collection not loaded")

	// ErrFlowActive is returned when a pack is opened while another pack
	// flow is still in progress.
	ErrFlowActive = errors.New("another pack is being opened")
)

// Config configures a Service.
type Config struct {
	CatalogPath   string
	Store         progress.Store
	Opener        *packs.Opener
	SaveAfterPack bool
	Logger        *slog.Logger
}

// Service is the single owner of the collection model. Load may run on any
// goroutine; it only reads files. Every other method works on the model and
// is serialized by the service.
type Service struct {
	catalogPath   string
	store         progress.Store
	opener        *packs.Opener
	saveAfterPack bool
	logger        *slog.Logger

	mu     sync.Mutex
	model  *collection.Model
	active *packs.Flow
}

// NewService creates a service.
func NewService(config Config) (*Service, error) {
	if config.CatalogPath == "" {
		return nil, fmt.Errorf("catalog path is required")
	}
	if config.Store == nil {
		return nil, fmt.Errorf("progress store is required")
	}
	if config.Opener == nil {
		opener, err := packs.NewOpener(packs.DefaultOptions())
		if err != nil {
			return nil, err
		}
		config.Opener = opener
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Service{
		catalogPath:   config.CatalogPath,
		store:         config.Store,
		opener:        config.Opener,
		saveAfterPack: config.SaveAfterPack,
		logger:        config.Logger,
	}, nil
}

// Loaded is the result of reading the catalog and saved progress, not yet
// installed into the session.
type Loaded struct {
	Cards    []*collection.Card
	Progress map[string]int
}

// Load reads the catalog and saved progress. It does not touch the session,
// so it is safe to call from a worker goroutine.
func (s *Service) Load(ctx context.Context) (*Loaded, error) {
	cards, err := catalog.Load(s.catalogPath, catalog.Options{Logger: s.logger})
	if err != nil {
		s.logger.Error("failed to load cards", "path", s.catalogPath, "error", err)
		return nil, err
	}

	saved, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Error("failed to load progress", "error", err)
		return nil, err
	}

	return &Loaded{Cards: cards, Progress: saved}, nil
}

// Install replaces the session's model with the loaded catalog merged with
// the loaded progress.
func (s *Service) Install(l *Loaded) (*collection.Model, error) {
	if l == nil {
		return nil, fmt.Errorf("nothing to install")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.installLocked(l.Cards, l.Progress)
}

// Reload installs a freshly read catalog but keeps the quantities currently
// in memory rather than the ones on disk.
func (s *Service) Reload(cards []*collection.Card) (*collection.Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := map[string]int{}
	if s.model != nil {
		current = s.model.Progress()
	}
	return s.installLocked(cards, current)
}

// installLocked swaps in a new model. The caller holds s.mu, so no pack can
// resolve between reading the old quantities and replacing the model.
func (s *Service) installLocked(cards []*collection.Card, progress map[string]int) (*collection.Model, error) {
	if s.active != nil && !s.active.Done() {
		return nil, ErrFlowActive
	}

	model := collection.NewModel(cards)
	applied := model.ApplyProgress(progress)
	s.model = model
	s.active = nil

	s.logger.Info("collection ready", "cards", model.Len(), "owned_entries", applied)
	return model, nil
}

// LoadCatalog reads only the catalog, for use with Reload.
func (s *Service) LoadCatalog() ([]*collection.Card, error) {
	return catalog.Load(s.catalogPath, catalog.Options{Logger: s.logger})
}

// Start loads and installs in one step, for callers without a UI thread.
func (s *Service) Start(ctx context.Context) (*collection.Model, error) {
	l, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.Install(l)
}

// Query returns the cards matching the series selection and missing-only
// toggle, in catalog order.
func (s *Service) Query(series string, onlyMissing bool) ([]*collection.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.model == nil {
		return nil, ErrNotLoaded
	}
	return s.model.Filter(collection.Missing(collection.BySeries(series), onlyMissing)), nil
}

// View runs fn with exclusive access to the model for read-only queries.
func (s *Service) View(fn func(m *collection.Model)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.model == nil {
		return ErrNotLoaded
	}
	fn(s.model)
	return nil
}

// ResetSeries zeroes every card in the named series. Callers must have
// obtained the user's confirmation first.
func (s *Service) ResetSeries(name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.model == nil {
		return 0, ErrNotLoaded
	}
	changed, err := s.model.ResetSeries(name)
	if err != nil {
		return 0, err
	}
	s.logger.Info("series reset", "series", name, "cards", changed)
	return changed, nil
}

// OpenPack opens a pack for code and returns its flow, already past
// selection. Only one flow may be open at a time.
func (s *Service) OpenPack(code string) (*PackSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.model == nil {
		return nil, ErrNotLoaded
	}
	if s.active != nil && !s.active.Done() {
		return nil, ErrFlowActive
	}

	pack, err := s.opener.Open(code, s.model.Cards())
	if err != nil {
		s.logger.Warn("pack not opened", "code", code, "error", err)
		return nil, err
	}

	flow := packs.NewFlow(pack)
	if err := flow.Begin(); err != nil {
		return nil, err
	}
	s.active = flow

	s.logger.Debug("pack opened", "code", pack.Code, "kind", pack.Kind, "cards", len(pack.Cards))
	return &PackSession{svc: s, flow: flow}, nil
}

// Save persists the current quantities. Failures are logged and returned but
// leave the in-memory collection intact.
func (s *Service) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.model == nil {
		s.mu.Unlock()
		return nil
	}
	snapshot := s.model.Progress()
	s.mu.Unlock()

	if err := s.store.Save(ctx, snapshot); err != nil {
		s.logger.Error("error saving progress", "error", err)
		return err
	}
	return nil
}

// PackSession is a pack flow bound to its service.
type PackSession struct {
	svc  *Service
	flow *packs.Flow
}

// Pack returns the opened pack.
func (p *PackSession) Pack() *packs.Pack { return p.flow.Pack() }

// State returns the flow's current state.
func (p *PackSession) State() packs.State {
	p.svc.mu.Lock()
	defer p.svc.mu.Unlock()
	return p.flow.State()
}

// Next reveals the next card of a randomized pack.
func (p *PackSession) Next() (*collection.Card, bool, error) {
	p.svc.mu.Lock()
	defer p.svc.mu.Unlock()
	return p.flow.Next()
}

// Remaining returns the number of hidden cards.
func (p *PackSession) Remaining() int {
	p.svc.mu.Lock()
	defer p.svc.mu.Unlock()
	return p.flow.Remaining()
}

// Resolve adds the pulled cards to the collection and, when configured,
// saves progress.
func (p *PackSession) Resolve(ctx context.Context) error {
	p.svc.mu.Lock()
	if p.svc.active != p.flow {
		p.svc.mu.Unlock()
		return packs.ErrFlowFinished
	}
	err := p.flow.Resolve(p.svc.model)
	p.svc.mu.Unlock()
	if err != nil {
		return err
	}

	p.svc.logger.Info("pack added to collection", "code", p.flow.Pack().Code, "cards", len(p.flow.Pack().Cards))
	if p.svc.saveAfterPack {
		// Save failures are logged by Save and never undo the pack.
		_ = p.svc.Save(ctx)
	}
	return nil
}

// Cancel abandons the flow without changing the collection.
func (p *PackSession) Cancel() error {
	p.svc.mu.Lock()
	defer p.svc.mu.Unlock()
	return p.flow.Cancel()
}
