package analytics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-cocktail-search/model"
	"github.com/gcbaptista/go-cocktail-search/services"
)

func newTestService(t *testing.T, now time.Time) *Service {
	t.Helper()
	service := NewService("")
	service.now = func() time.Time { return now }
	return service
}

func TestAnalyticsService_TrackSearchEvent(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service := newTestService(t, now)

	service.TrackSearchEvent(model.SearchEvent{
		Query:          "negroni",
		Classification: string(services.ClassificationSingleSpecific),
		ResponseTime:   50 * time.Millisecond,
		ResultCount:    10,
	})

	require.Equal(t, 1, service.EventCount())
	stored := service.events[0]
	assert.Equal(t, "negroni", stored.Query)
	assert.Equal(t, now, stored.Timestamp, "zero timestamp is set to now")
}

func TestAnalyticsService_TrackOutcome(t *testing.T) {
	service := newTestService(t, time.Now())

	service.TrackOutcome(services.SearchOutcome{
		QueryID:        "q-1",
		Query:          "zzzxxyy",
		Classification: services.ClassificationSingleSpecific,
		NotFoundBanner: "“zzzxxyy” not found",
		SourceErrors:   []error{errors.New("boom")},
		Results:        make([]model.ScoredResult, 3),
		Took:           120 * time.Millisecond,
	})

	require.Equal(t, 1, service.EventCount())
	event := service.events[0]
	assert.Equal(t, "q-1", event.QueryID)
	assert.True(t, event.NotFound)
	assert.Equal(t, 1, event.SourceErrors)
	assert.Equal(t, 3, event.ResultCount)
	assert.Equal(t, "single_specific", event.Classification)
}

func TestAnalyticsService_EventCap(t *testing.T) {
	service := newTestService(t, time.Now())
	for i := 0; i < maxEventsToKeep+5; i++ {
		service.TrackSearchEvent(model.SearchEvent{Query: "gin"})
	}
	assert.Equal(t, maxEventsToKeep, service.EventCount())
}

func TestAnalyticsService_GetDashboardData(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	service := newTestService(t, now)

	add := func(query string, class services.Classification, took time.Duration, notFound bool, ago time.Duration) {
		service.TrackSearchEvent(model.SearchEvent{
			Query:          query,
			Classification: string(class),
			ResponseTime:   took,
			NotFound:       notFound,
			Timestamp:      now.Add(-ago),
		})
	}

	add("gin", services.ClassificationSingleGeneric, 50*time.Millisecond, false, time.Minute)
	add("gin", services.ClassificationSingleGeneric, 150*time.Millisecond, false, 2*time.Minute)
	add("negroni", services.ClassificationSingleSpecific, 500*time.Millisecond, false, 3*time.Minute)
	add("zzzxxyy", services.ClassificationSingleSpecific, 1500*time.Millisecond, true, 4*time.Minute)
	add("m", services.ClassificationShort, 0, false, 5*time.Minute)
	// Previous day, counted for trends only
	add("gin", services.ClassificationSingleGeneric, 100*time.Millisecond, false, 30*time.Hour)

	dashboard := service.GetDashboardData()

	assert.Equal(t, 5, dashboard.TotalSearches)
	assert.InDelta(t, 400.0, dashboard.SearchesChangePercent, 0.001)
	assert.InDelta(t, 20.0, dashboard.NotFoundRate, 0.001)
	assert.Zero(t, dashboard.SourceErrorRate)
	assert.Equal(t, "up", dashboard.ResponseTimeChange)

	assert.Equal(t, model.ClassificationStats{Short: 1, SingleGeneric: 2, SingleSpecific: 2}, dashboard.Classifications)

	dist := dashboard.ResponseTimeDistribution
	assert.Equal(t, 2, dist.Bucket0To100ms)
	assert.Equal(t, 1, dist.Bucket100To300ms)
	assert.Equal(t, 1, dist.Bucket300To1000ms)
	assert.Equal(t, 1, dist.Bucket1000msPlus)
	assert.InDelta(t, 40.0, dist.Percentage0To100, 0.001)

	require.Len(t, dashboard.PopularSearches, 3, "short queries are not listed")
	assert.Equal(t, "gin", dashboard.PopularSearches[0].Query)
	assert.Equal(t, 3, dashboard.PopularSearches[0].SearchCount)
	assert.Equal(t, "new", dashboard.PopularSearches[0].TrendChange)

	require.Len(t, dashboard.MissedSearches, 1)
	assert.Equal(t, "zzzxxyy", dashboard.MissedSearches[0].Query)

	require.Len(t, dashboard.SearchPerformance24h, 24)
	assert.Equal(t, 5, dashboard.SearchPerformance24h[12].SearchCount)
}

func TestAnalyticsService_EmptyDashboard(t *testing.T) {
	service := newTestService(t, time.Now())
	dashboard := service.GetDashboardData()

	assert.Zero(t, dashboard.TotalSearches)
	assert.Zero(t, dashboard.AvgResponseTime)
	assert.Equal(t, "stable", dashboard.ResponseTimeChange)
	assert.Empty(t, dashboard.PopularSearches)
	assert.Len(t, dashboard.SearchPerformance24h, 24)
}

func TestAnalyticsService_SessionCounter(t *testing.T) {
	service := NewService("", WithSessionCounter(func() int { return 7 }))
	assert.Equal(t, 7, service.GetDashboardData().SystemHealth.ActiveSessions)
}

func TestAnalyticsService_Persistence(t *testing.T) {
	dir := t.TempDir()
	first := NewService(dir)
	first.mutex.Lock()
	first.events = append(first.events, model.SearchEvent{Query: "mojito", Timestamp: time.Now()})
	first.mutex.Unlock()
	require.NoError(t, first.Flush())

	second := NewService(dir)
	require.Equal(t, 1, second.EventCount())
	assert.Equal(t, "mojito", second.events[0].Query)
}
