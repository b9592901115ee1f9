package indicator

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicdesk/api/internal/observability"
)

func TestAQIClientFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/feed/delhi/")
		assert.Equal(t, "demo", r.URL.Query().Get("token"))
		fmt.Fprint(w, `{"status":"ok","data":{"aqi":187}}`)
	}))
	defer server.Close()

	client := NewAQIClient(server.URL, "demo", time.Second)
	value, err := client.Fetch(context.Background(), "delhi")
	require.NoError(t, err)
	assert.Equal(t, 187, value)
}

func TestAQIClientRejectsNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"error","data":"Unknown station"}`)
	}))
	defer server.Close()

	client := NewAQIClient(server.URL, "demo", time.Second)
	_, err := client.Fetch(context.Background(), "atlantis")
	assert.Error(t, err)
}

func TestAQIClientRejectsMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>not json</html>`)
	}))
	defer server.Close()

	client := NewAQIClient(server.URL, "demo", time.Second)
	_, err := client.Fetch(context.Background(), "delhi")
	assert.Error(t, err)
}

func TestGDPClientFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v2/country/IND/indicator/NY.GDP.PCAP.CD")
		fmt.Fprint(w, `[{"page":1},[{"value":2389.6,"date":"2024"}]]`)
	}))
	defer server.Close()

	client := NewGDPClient(server.URL, "IND", time.Second)
	value, err := client.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2390, value)
}

func TestGDPClientRejectsNullValue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"page":1},[{"value":null,"date":"2024"}]]`)
	}))
	defer server.Close()

	client := NewGDPClient(server.URL, "IND", time.Second)
	_, err := client.Fetch(context.Background())
	assert.Error(t, err)
}

func TestGDPClientRejectsShortArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"message":"rate limited"}]`)
	}))
	defer server.Close()

	client := NewGDPClient(server.URL, "IND", time.Second)
	_, err := client.Fetch(context.Background())
	assert.Error(t, err)
}

func newTestService(t *testing.T, aqiHandler, gdpHandler http.HandlerFunc, cache *redis.Client) *Service {
	t.Helper()
	aqiServer := httptest.NewServer(aqiHandler)
	t.Cleanup(aqiServer.Close)
	gdpServer := httptest.NewServer(gdpHandler)
	t.Cleanup(gdpServer.Close)

	return NewService(
		NewAQIClient(aqiServer.URL, "demo", time.Second),
		NewGDPClient(gdpServer.URL, "IND", time.Second),
		[]string{"delhi", "mumbai"},
		cache,
		10*time.Minute,
		clockwork.NewFakeClockAt(time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)),
		observability.NewMetricsForTesting(),
	)
}

func TestSnapshotSwallowsPerCityFailures(t *testing.T) {
	svc := newTestService(t,
		func(w http.ResponseWriter, r *http.Request) {
			if strings.Contains(r.URL.Path, "/feed/delhi/") {
				fmt.Fprint(w, `{"status":"ok","data":{"aqi":201}}`)
				return
			}
			http.Error(w, "upstream down", http.StatusBadGateway)
		},
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[{"page":1},[{"value":2389.6}]]`)
		},
		nil,
	)

	snapshot := svc.Snapshot(context.Background())

	require.NotNil(t, snapshot.AQI["delhi"])
	assert.Equal(t, 201, *snapshot.AQI["delhi"])
	assert.Nil(t, snapshot.AQI["mumbai"], "failed city must report no data")
	require.NotNil(t, snapshot.GDPPerCapita)
	assert.Equal(t, 2390, *snapshot.GDPPerCapita)
	assert.Equal(t, "126/143", snapshot.HappinessRank)
	assert.Equal(t, time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC), snapshot.FetchedAt)
}

func TestSnapshotAllUpstreamsDown(t *testing.T) {
	svc := newTestService(t,
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusServiceUnavailable)
		},
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusServiceUnavailable)
		},
		nil,
	)

	snapshot := svc.Snapshot(context.Background())
	assert.Nil(t, snapshot.AQI["delhi"])
	assert.Nil(t, snapshot.AQI["mumbai"])
	assert.Nil(t, snapshot.GDPPerCapita)
	assert.Equal(t, "126/143", snapshot.HappinessRank)
}

func TestSnapshotServedFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	var aqiCalls atomic.Int32
	svc := newTestService(t,
		func(w http.ResponseWriter, r *http.Request) {
			aqiCalls.Add(1)
			fmt.Fprint(w, `{"status":"ok","data":{"aqi":55}}`)
		},
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[{"page":1},[{"value":1000}]]`)
		},
		cache,
	)

	ctx := context.Background()
	first := svc.Snapshot(ctx)
	callsAfterFirst := aqiCalls.Load()
	second := svc.Snapshot(ctx)

	assert.Equal(t, callsAfterFirst, aqiCalls.Load(), "second snapshot must come from cache")
	assert.Equal(t, first.FetchedAt, second.FetchedAt)
	require.NotNil(t, second.AQI["delhi"])
	assert.Equal(t, 55, *second.AQI["delhi"])
}

func TestSnapshotRefetchesAfterCacheExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	var aqiCalls atomic.Int32
	svc := newTestService(t,
		func(w http.ResponseWriter, r *http.Request) {
			aqiCalls.Add(1)
			fmt.Fprint(w, `{"status":"ok","data":{"aqi":55}}`)
		},
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[{"page":1},[{"value":1000}]]`)
		},
		cache,
	)

	ctx := context.Background()
	svc.Snapshot(ctx)
	callsAfterFirst := aqiCalls.Load()

	mr.FastForward(11 * time.Minute)
	svc.Snapshot(ctx)
	assert.Greater(t, aqiCalls.Load(), callsAfterFirst, "expired cache must trigger a refetch")
}
