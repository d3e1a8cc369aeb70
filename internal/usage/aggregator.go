package usage

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/kafka"
)

// Route is a departure/arrival city selection as it was applied.
type Route struct {
	Departures string `json:"departures"`
	Arrivals   string `json:"arrivals"`
}

type RouteCount struct {
	Route Route `json:"route"`
	Count int   `json:"count"`
}

// Summary is a snapshot of the aggregated apply events.
type Summary struct {
	Applies       int           `json:"applies"`
	Rendered      int           `json:"rendered"`
	Empty         int           `json:"empty"`
	CacheHits     int           `json:"cache_hits"`
	Sessions      int           `json:"sessions"`
	AvgDuration   time.Duration `json:"avg_duration"`
	TopRoutes     []RouteCount  `json:"top_routes"`
	LastAppliedAt time.Time     `json:"last_applied_at"`
}

func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "applies=%d rendered=%d empty=%d cache_hits=%d sessions=%d avg=%s",
		s.Applies, s.Rendered, s.Empty, s.CacheHits, s.Sessions, s.AvgDuration)
	for _, rc := range s.TopRoutes {
		fmt.Fprintf(&b, " [%s -> %s: %d]", rc.Route.Departures, rc.Route.Arrivals, rc.Count)
	}
	return b.String()
}

// Aggregator counts apply events. It is safe for concurrent use.
type Aggregator struct {
	mu       sync.Mutex
	topN     int
	applies  int
	rendered int
	empty    int
	hits     int
	totalMS  int64
	sessions map[string]struct{}
	routes   map[Route]int
	last     time.Time
}

func NewAggregator(topN int) *Aggregator {
	if topN <= 0 {
		topN = 5
	}
	return &Aggregator{
		topN:     topN,
		sessions: make(map[string]struct{}),
		routes:   make(map[Route]int),
	}
}

func (a *Aggregator) Add(event kafka.ApplyEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.applies++
	switch event.State {
	case "rendered":
		a.rendered++
	case "empty":
		a.empty++
	}
	if event.CacheHit {
		a.hits++
	}
	a.totalMS += event.DurationMS
	if event.SessionID != "" {
		a.sessions[event.SessionID] = struct{}{}
	}
	a.routes[routeOf(event)]++
	if event.AppliedAt.After(a.last) {
		a.last = event.AppliedAt
	}
}

// Snapshot returns the current totals. Routes are ordered by count, then by name.
func (a *Aggregator) Snapshot() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	summary := Summary{
		Applies:       a.applies,
		Rendered:      a.rendered,
		Empty:         a.empty,
		CacheHits:     a.hits,
		Sessions:      len(a.sessions),
		LastAppliedAt: a.last,
	}
	if a.applies > 0 {
		summary.AvgDuration = time.Duration(a.totalMS/int64(a.applies)) * time.Millisecond
	}

	routes := make([]RouteCount, 0, len(a.routes))
	for r, n := range a.routes {
		routes = append(routes, RouteCount{Route: r, Count: n})
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Count != routes[j].Count {
			return routes[i].Count > routes[j].Count
		}
		if routes[i].Route.Departures != routes[j].Route.Departures {
			return routes[i].Route.Departures < routes[j].Route.Departures
		}
		return routes[i].Route.Arrivals < routes[j].Route.Arrivals
	})
	if len(routes) > a.topN {
		routes = routes[:a.topN]
	}
	summary.TopRoutes = routes
	return summary
}

func routeOf(event kafka.ApplyEvent) Route {
	return Route{
		Departures: joinCities(event.DepartureCities),
		Arrivals:   joinCities(event.ArrivalCities),
	}
}

func joinCities(cities []string) string {
	if len(cities) == 0 {
		return "-"
	}
	sorted := append([]string(nil), cities...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
