package indicator

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"

	"civicdesk/api/internal/observability"
)

const (
	snapshotKey = "indicators:snapshot"

	// happinessRank has no live upstream; the displayed value is the
	// published World Happiness Report rank.
	happinessRank = "126/143"
)

// Snapshot is the set of displayed indicators. Entries are nil when the
// upstream fetch failed; the client keeps its placeholder in that case.
type Snapshot struct {
	AQI           map[string]*int `json:"aqi"`
	GDPPerCapita  *int            `json:"gdpPerCapita"`
	HappinessRank string          `json:"happinessRank"`
	FetchedAt     time.Time       `json:"fetchedAt"`
}

// Service assembles indicator snapshots. Fetch failures never escape: a
// failed source simply reports no data. Snapshots are cached in Redis when a
// client is configured; the cache is advisory and its errors are swallowed
// too.
type Service struct {
	aqi     *AQIClient
	gdp     *GDPClient
	cities  []string
	cache   *redis.Client
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *observability.Metrics
}

// NewService creates the indicator service. cache may be nil.
func NewService(aqi *AQIClient, gdp *GDPClient, cities []string, cache *redis.Client, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *Service {
	return &Service{
		aqi:     aqi,
		gdp:     gdp,
		cities:  cities,
		cache:   cache,
		ttl:     ttl,
		clock:   clock,
		metrics: metrics,
	}
}

// Snapshot returns the current indicator values, serving from cache when a
// fresh snapshot is available. It never returns an error.
func (s *Service) Snapshot(ctx context.Context) Snapshot {
	if cached, ok := s.fromCache(ctx); ok {
		return cached
	}

	snapshot := s.fetchAll(ctx)
	s.toCache(ctx, snapshot)
	return snapshot
}

func (s *Service) fetchAll(ctx context.Context) Snapshot {
	snapshot := Snapshot{
		AQI:           make(map[string]*int, len(s.cities)),
		HappinessRank: happinessRank,
		FetchedAt:     s.clock.Now().UTC(),
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	// City fetches are independent: one failure must not block or corrupt
	// the others.
	for _, city := range s.cities {
		wg.Add(1)
		go func(city string) {
			defer wg.Done()
			value, err := s.aqi.Fetch(ctx, city)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("indicator: aqi fetch %s: %v", city, err)
				s.metrics.IndicatorFetches.WithLabelValues("aqi", "error").Inc()
				snapshot.AQI[city] = nil
				return
			}
			s.metrics.IndicatorFetches.WithLabelValues("aqi", "success").Inc()
			snapshot.AQI[city] = &value
		}(city)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		value, err := s.gdp.Fetch(ctx)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			log.Printf("indicator: gdp fetch: %v", err)
			s.metrics.IndicatorFetches.WithLabelValues("gdp", "error").Inc()
			return
		}
		s.metrics.IndicatorFetches.WithLabelValues("gdp", "success").Inc()
		snapshot.GDPPerCapita = &value
	}()

	wg.Wait()
	return snapshot
}

func (s *Service) fromCache(ctx context.Context) (Snapshot, bool) {
	if s.cache == nil {
		return Snapshot{}, false
	}
	raw, err := s.cache.Get(ctx, snapshotKey).Result()
	if err == redis.Nil {
		s.metrics.IndicatorCacheLookups.WithLabelValues("miss").Inc()
		return Snapshot{}, false
	}
	if err != nil {
		log.Printf("indicator: cache read: %v", err)
		s.metrics.IndicatorCacheLookups.WithLabelValues("miss").Inc()
		return Snapshot{}, false
	}

	var snapshot Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		log.Printf("indicator: cache decode: %v", err)
		s.metrics.IndicatorCacheLookups.WithLabelValues("miss").Inc()
		return Snapshot{}, false
	}
	s.metrics.IndicatorCacheLookups.WithLabelValues("hit").Inc()
	return snapshot, true
}

func (s *Service) toCache(ctx context.Context, snapshot Snapshot) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		log.Printf("indicator: cache encode: %v", err)
		return
	}
	if err := s.cache.Set(ctx, snapshotKey, raw, s.ttl).Err(); err != nil {
		log.Printf("indicator: cache write: %v", err)
	}
}
