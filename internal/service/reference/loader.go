package reference

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/domain"
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/repository"
)

// Loader reads the reference tables once at startup. Each query runs under its own
// timeout and a transient failure is retried once; anything else fails fast.
type Loader struct {
	repo       repository.ReferenceRepository
	timeout    time.Duration
	retryDelay time.Duration
}

type LoaderOption func(*Loader)

func WithRetryDelay(d time.Duration) LoaderOption {
	return func(l *Loader) {
		l.retryDelay = d
	}
}

func NewLoader(repo repository.ReferenceRepository, timeout time.Duration, opts ...LoaderOption) *Loader {
	l := &Loader{repo: repo, timeout: timeout, retryDelay: time.Second}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Reference is everything the dataset is built from.
type Reference struct {
	Locations domain.LocationLookup
	Facts     []domain.FlightFact
}

func (l *Loader) Load(ctx context.Context) (*Reference, error) {
	var ref Reference

	err := l.withRetry(ctx, "load locations", func(ctx context.Context) error {
		locations, err := l.repo.LoadLocations(ctx)
		if err != nil {
			return err
		}
		ref.Locations = locations
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = l.withRetry(ctx, "load flight facts", func(ctx context.Context) error {
		facts, err := l.repo.LoadFlightFacts(ctx)
		if err != nil {
			return err
		}
		ref.Facts = facts
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("loaded %d airports and %d flight facts", len(ref.Locations), len(ref.Facts))
	return &ref, nil
}

func (l *Loader) withRetry(ctx context.Context, op string, fn func(context.Context) error) error {
	err := l.attempt(ctx, fn)
	if err == nil || !domain.IsTransient(err) {
		return asSourceError(op, err)
	}

	log.Printf("%s failed, retrying once: %v", op, err)
	select {
	case <-ctx.Done():
		return asSourceError(op, ctx.Err())
	case <-time.After(l.retryDelay):
	}
	return asSourceError(op, l.attempt(ctx, fn))
}

func (l *Loader) attempt(ctx context.Context, fn func(context.Context) error) error {
	if l.timeout <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return fn(ctx)
}

func asSourceError(op string, err error) error {
	if err == nil {
		return nil
	}
	var dsErr *domain.DataSourceError
	if errors.As(err, &dsErr) {
		return err
	}
	return &domain.DataSourceError{Op: op, Err: err}
}
