package usage

import (
	"sync"
	"testing"
	"time"

	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregator_Snapshot(t *testing.T) {
	agg := NewAggregator(2)
	at := time.Date(2016, time.March, 1, 12, 0, 0, 0, time.UTC)

	agg.Add(kafka.ApplyEvent{SessionID: "a", State: "rendered", DepartureCities: []string{"Moscow"}, ArrivalCities: []string{"Petersburg"}, DurationMS: 10, AppliedAt: at})
	agg.Add(kafka.ApplyEvent{SessionID: "a", State: "rendered", DepartureCities: []string{"Moscow"}, ArrivalCities: []string{"Petersburg"}, DurationMS: 30, CacheHit: true, AppliedAt: at.Add(time.Minute)})
	agg.Add(kafka.ApplyEvent{SessionID: "b", State: "empty", DepartureCities: []string{"Moscow"}, ArrivalCities: []string{"Kazan"}, DurationMS: 20, AppliedAt: at})
	agg.Add(kafka.ApplyEvent{SessionID: "c", State: "empty", DurationMS: 0, AppliedAt: at})

	summary := agg.Snapshot()

	assert.Equal(t, 4, summary.Applies)
	assert.Equal(t, 2, summary.Rendered)
	assert.Equal(t, 2, summary.Empty)
	assert.Equal(t, 1, summary.CacheHits)
	assert.Equal(t, 3, summary.Sessions)
	assert.Equal(t, 15*time.Millisecond, summary.AvgDuration)
	assert.Equal(t, at.Add(time.Minute), summary.LastAppliedAt)

	require.Len(t, summary.TopRoutes, 2)
	assert.Equal(t, RouteCount{Route: Route{Departures: "Moscow", Arrivals: "Petersburg"}, Count: 2}, summary.TopRoutes[0])
	assert.Equal(t, RouteCount{Route: Route{Departures: "-", Arrivals: "-"}, Count: 1}, summary.TopRoutes[1])
	assert.Contains(t, summary.String(), "applies=4")
}

func TestAggregator_RouteIgnoresCityOrder(t *testing.T) {
	agg := NewAggregator(0)

	agg.Add(kafka.ApplyEvent{DepartureCities: []string{"Moscow", "Kazan"}})
	agg.Add(kafka.ApplyEvent{DepartureCities: []string{"Kazan", "Moscow"}})

	summary := agg.Snapshot()
	require.Len(t, summary.TopRoutes, 1)
	assert.Equal(t, "Kazan,Moscow", summary.TopRoutes[0].Route.Departures)
	assert.Equal(t, 2, summary.TopRoutes[0].Count)
	assert.Equal(t, 0, summary.Sessions)
}

func TestAggregator_Concurrent(t *testing.T) {
	agg := NewAggregator(5)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			agg.Add(kafka.ApplyEvent{SessionID: "s", State: "rendered"})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, agg.Snapshot().Applies)
}

func TestAggregator_EmptySnapshot(t *testing.T) {
	summary := NewAggregator(3).Snapshot()
	assert.Zero(t, summary.Applies)
	assert.Zero(t, summary.AvgDuration)
	assert.Empty(t, summary.TopRoutes)
}
