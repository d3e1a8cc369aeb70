package reference

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReferenceRepository struct {
	mock.Mock
}

func (m *MockReferenceRepository) LoadLocations(ctx context.Context) (domain.LocationLookup, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.LocationLookup), args.Error(1)
}

func (m *MockReferenceRepository) LoadFlightFacts(ctx context.Context) ([]domain.FlightFact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlightFact), args.Error(1)
}

func newTestLoader(repo *MockReferenceRepository) *Loader {
	return NewLoader(repo, time.Second, WithRetryDelay(time.Millisecond))
}

func TestLoader_Load_Success(t *testing.T) {
	repo := &MockReferenceRepository{}
	locations := domain.LocationLookup{"SVO": "Москва"}
	facts := []domain.FlightFact{{FlightID: 1, DepartureAirport: "SVO"}}

	repo.On("LoadLocations", mock.Anything).Return(locations, nil).Once()
	repo.On("LoadFlightFacts", mock.Anything).Return(facts, nil).Once()

	ref, err := newTestLoader(repo).Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, locations, ref.Locations)
	assert.Equal(t, facts, ref.Facts)
	repo.AssertExpectations(t)
}

func TestLoader_Load_RetriesTransientOnce(t *testing.T) {
	repo := &MockReferenceRepository{}
	transient := &domain.DataSourceError{Op: "query airports", Err: context.DeadlineExceeded, Transient: true}

	repo.On("LoadLocations", mock.Anything).Return(nil, transient).Once()
	repo.On("LoadLocations", mock.Anything).Return(domain.LocationLookup{"SVO": "Москва"}, nil).Once()
	repo.On("LoadFlightFacts", mock.Anything).Return([]domain.FlightFact{}, nil).Once()

	ref, err := newTestLoader(repo).Load(context.Background())

	require.NoError(t, err)
	assert.Len(t, ref.Locations, 1)
	repo.AssertNumberOfCalls(t, "LoadLocations", 2)
}

func TestLoader_Load_GivesUpAfterSecondTransientFailure(t *testing.T) {
	repo := &MockReferenceRepository{}
	transient := &domain.DataSourceError{Op: "query flights", Err: context.DeadlineExceeded, Transient: true}

	repo.On("LoadLocations", mock.Anything).Return(domain.LocationLookup{}, nil).Once()
	repo.On("LoadFlightFacts", mock.Anything).Return(nil, transient).Twice()

	ref, err := newTestLoader(repo).Load(context.Background())

	assert.Nil(t, ref)
	var dsErr *domain.DataSourceError
	require.True(t, errors.As(err, &dsErr))
	repo.AssertNumberOfCalls(t, "LoadFlightFacts", 2)
}

func TestLoader_Load_NoRetryOnMalformedData(t *testing.T) {
	repo := &MockReferenceRepository{}
	bad := &domain.DataSourceError{Op: "scan airport", Err: errors.New("bad row")}

	repo.On("LoadLocations", mock.Anything).Return(nil, bad).Once()

	ref, err := newTestLoader(repo).Load(context.Background())

	assert.Nil(t, ref)
	assert.ErrorIs(t, err, bad)
	repo.AssertNumberOfCalls(t, "LoadLocations", 1)
	repo.AssertNotCalled(t, "LoadFlightFacts", mock.Anything)
}

func TestLoader_Load_WrapsPlainErrors(t *testing.T) {
	repo := &MockReferenceRepository{}
	repo.On("LoadLocations", mock.Anything).Return(nil, errors.New("boom")).Once()

	_, err := newTestLoader(repo).Load(context.Background())

	var dsErr *domain.DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, "load locations", dsErr.Op)
}
