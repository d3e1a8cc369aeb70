package dashboard

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/domain"
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/kafka"
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/render"
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/service/dataset"
)

var (
	ErrSuperseded = errors.New("apply superseded by a newer request")
	ErrNoTable    = errors.New("no table for this session, apply filters first")
)

type DashboardUseCase interface {
	Options() Options
	Apply(ctx context.Context, sessionID string, sel Selection) (*render.Bundle, error)
	TablePage(sessionID string, page int) (*TablePage, error)
	State(sessionID string) ApplyState
}

type Cache interface {
	GetBundle(ctx context.Context, datasetID string, state domain.FilterState) (*render.Bundle, error)
	SetBundle(ctx context.Context, datasetID string, state domain.FilterState, bundle *render.Bundle) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Selection is the raw selector input of one apply.
type Selection struct {
	DepartureCities []string `json:"departure_cities"`
	ArrivalCities   []string `json:"arrival_cities"`
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date"`
}

// Options describes the selectors: every known city and the initial selection.
type Options struct {
	Cities   []string  `json:"cities"`
	Defaults Selection `json:"defaults"`
}

type TablePage struct {
	Page      int             `json:"page"`
	PageCount int             `json:"page_count"`
	PageSize  int             `json:"page_size"`
	TotalRows int             `json:"total_rows"`
	Columns   []render.Column `json:"columns"`
	Records   []render.Record `json:"records"`
}

type DashboardService struct {
	data       *dataset.Dataset
	datasetID  string
	defaults   Selection
	sessions   *Sessions
	cache      Cache
	producer   Producer
	applyTopic string
}

type DashboardServiceOption func(*DashboardService)

func WithCache(cache Cache) DashboardServiceOption {
	return func(s *DashboardService) {
		s.cache = cache
	}
}

func WithEvents(producer Producer, topic string) DashboardServiceOption {
	return func(s *DashboardService) {
		s.producer = producer
		s.applyTopic = topic
	}
}

func WithSessionTTL(ttl time.Duration) DashboardServiceOption {
	return func(s *DashboardService) {
		s.sessions = NewSessions(ttl)
	}
}

// NewDashboardService serves apply cycles over data. datasetID scopes cached bundles
// to this particular load of the data.
func NewDashboardService(data *dataset.Dataset, datasetID string, defaults Selection, opts ...DashboardServiceOption) *DashboardService {
	s := &DashboardService{
		data:      data,
		datasetID: datasetID,
		defaults:  defaults,
		sessions:  NewSessions(time.Hour),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DashboardService) Options() Options {
	return Options{Cities: s.data.Cities(), Defaults: s.defaults}
}

func (s *DashboardService) State(sessionID string) ApplyState {
	return s.sessions.State(sessionID)
}

// Apply runs the apply cycle for one session. It returns ErrSuperseded when a newer
// apply of the same session started before this one finished.
func (s *DashboardService) Apply(ctx context.Context, sessionID string, sel Selection) (*render.Bundle, error) {
	started := time.Now()
	runCtx, generation := s.sessions.begin(ctx, sessionID)

	state, err := domain.ParseFilterState(sel.DepartureCities, sel.ArrivalCities, sel.StartDate, sel.EndDate)
	if err != nil {
		return s.complete(sessionID, generation, state, render.Empty(MessageInvalidInput, hintFor(err)), false, started)
	}

	if bundle := s.cached(runCtx, state); bundle != nil {
		return s.complete(sessionID, generation, state, bundle, true, started)
	}

	bundle, err := Render(runCtx, s.data, state)
	if err != nil {
		s.sessions.abort(sessionID, generation)
		if runCtx.Err() != nil && ctx.Err() == nil {
			return nil, ErrSuperseded
		}
		return nil, err
	}

	if state.Validate() == nil && s.cache != nil {
		if err := s.cache.SetBundle(runCtx, s.datasetID, state, bundle); err != nil {
			log.Printf("WARNING: cache bundle: %v", err)
		}
	}
	return s.complete(sessionID, generation, state, bundle, false, started)
}

func (s *DashboardService) TablePage(sessionID string, page int) (*TablePage, error) {
	bundle, _, ok := s.sessions.Last(sessionID)
	if !ok || bundle.Table == nil {
		return nil, ErrNoTable
	}
	table := bundle.Table
	return &TablePage{
		Page:      page,
		PageCount: table.PageCount,
		PageSize:  table.PageSize,
		TotalRows: table.TotalRows,
		Columns:   table.Columns,
		Records:   table.Page(page),
	}, nil
}

func (s *DashboardService) cached(ctx context.Context, state domain.FilterState) *render.Bundle {
	if s.cache == nil || state.Validate() != nil {
		return nil
	}
	bundle, err := s.cache.GetBundle(ctx, s.datasetID, state)
	if err != nil {
		log.Printf("WARNING: read cached bundle: %v", err)
		return nil
	}
	return bundle
}

func (s *DashboardService) complete(sessionID string, generation uint64, state domain.FilterState, bundle *render.Bundle, cacheHit bool, started time.Time) (*render.Bundle, error) {
	if !s.sessions.finish(sessionID, generation, state, bundle) {
		return nil, ErrSuperseded
	}
	s.publish(sessionID, state, bundle, cacheHit, time.Since(started))
	return bundle, nil
}

func (s *DashboardService) publish(sessionID string, state domain.FilterState, bundle *render.Bundle, cacheHit bool, took time.Duration) {
	if s.producer == nil || s.applyTopic == "" {
		return
	}
	event := kafka.ApplyEvent{
		SessionID:       sessionID,
		DatasetID:       s.datasetID,
		DepartureCities: state.Departures(),
		ArrivalCities:   state.Arrivals(),
		State:           string(bundle.State),
		Rows:            bundle.Rows,
		CacheHit:        cacheHit,
		DurationMS:      took.Milliseconds(),
		AppliedAt:       time.Now().UTC(),
	}
	if !state.StartDate.IsZero() {
		event.StartDate = state.StartDate.String()
		event.EndDate = state.EndDate.String()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.producer.Publish(ctx, s.applyTopic, sessionID, event); err != nil {
		log.Printf("WARNING: failed to publish apply event for session %s: %v", sessionID, err)
	}
}

var _ DashboardUseCase = (*DashboardService)(nil)
