package analytics

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gcbaptista/go-cocktail-search/internal/persistence"
	"github.com/gcbaptista/go-cocktail-search/model"
	"github.com/gcbaptista/go-cocktail-search/services"
)

const (
	analyticsFileName = "analytics.gob"
	maxEventsToKeep   = 10000 // Keep last 10k events for performance
	popularLimit      = 5
)

// Service implements analytics tracking and reporting
type Service struct {
	mutex          sync.RWMutex
	events         []model.SearchEvent
	dataFilePath   string // Empty disables persistence
	saveMutex      sync.Mutex
	logger         *zap.Logger
	activeSessions func() int
	now            func() time.Time
}

// Option configures the analytics service.
type Option func(*Service)

// WithLogger sets a custom logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSessionCounter reports the number of open search sessions in the dashboard.
func WithSessionCounter(fn func() int) Option {
	return func(s *Service) {
		s.activeSessions = fn
	}
}

// NewService creates a new analytics service. Events are persisted under
// dataDir; an empty dataDir keeps them in memory only.
func NewService(dataDir string, opts ...Option) *Service {
	service := &Service{
		events: make([]model.SearchEvent, 0),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	if dataDir != "" {
		service.dataFilePath = filepath.Join(dataDir, analyticsFileName)
	}
	for _, opt := range opts {
		opt(service)
	}
	service.logger = service.logger.With(zap.String("module", "analytics"))

	// Load existing analytics data
	if err := service.loadData(); err != nil {
		service.logger.Warn("failed to load analytics data", zap.Error(err))
	}

	return service
}

// TrackOutcome records a finished pipeline run.
func (s *Service) TrackOutcome(outcome services.SearchOutcome) {
	s.TrackSearchEvent(model.SearchEvent{
		QueryID:        outcome.QueryID,
		Query:          outcome.Query,
		Classification: string(outcome.Classification),
		ResponseTime:   outcome.Took,
		ResultCount:    len(outcome.Results),
		NotFound:       outcome.NotFound(),
		SourceErrors:   len(outcome.SourceErrors),
	})
}

// TrackSearchEvent records a new search event. A zero timestamp is set to now.
func (s *Service) TrackSearchEvent(event model.SearchEvent) {
	s.mutex.Lock()
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	s.events = append(s.events, event)

	// Keep only the latest events to prevent unbounded growth
	if len(s.events) > maxEventsToKeep {
		s.events = s.events[len(s.events)-maxEventsToKeep:]
	}
	s.mutex.Unlock()

	if s.dataFilePath == "" {
		return
	}
	// Persist data asynchronously
	go func() {
		if err := s.Flush(); err != nil {
			s.logger.Warn("failed to save analytics data", zap.Error(err))
		}
	}()
}

// EventCount returns the number of stored events.
func (s *Service) EventCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.events)
}

// GetDashboardData returns complete analytics dashboard data
func (s *Service) GetDashboardData() model.AnalyticsDashboard {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	now := s.now()
	yesterday := now.Add(-24 * time.Hour)
	lastWeek := now.Add(-7 * 24 * time.Hour)

	// Filter events for different time periods
	last24hEvents := filterEventsByTime(s.events, yesterday)
	prev24hEvents := filterEventsByTimeRange(s.events, yesterday.Add(-24*time.Hour), yesterday)
	lastWeekEvents := filterEventsByTime(s.events, lastWeek)
	prevWeekEvents := filterEventsByTimeRange(s.events, lastWeek.Add(-7*24*time.Hour), lastWeek)

	return model.AnalyticsDashboard{
		TotalSearches:            len(last24hEvents),
		SearchesChangePercent:    calculateChangePercent(len(last24hEvents), len(prev24hEvents)),
		AvgResponseTime:          calculateAvgResponseTime(last24hEvents),
		ResponseTimeChange:       calculateResponseTimeChange(last24hEvents, prev24hEvents),
		NotFoundRate:             rate(last24hEvents, func(e model.SearchEvent) bool { return e.NotFound }),
		SourceErrorRate:          rate(last24hEvents, func(e model.SearchEvent) bool { return e.SourceErrors > 0 }),
		SearchPerformance24h:     getHourlyPerformance(last24hEvents),
		PopularSearches:          getPopularSearches(lastWeekEvents, prevWeekEvents, nil),
		MissedSearches:           getPopularSearches(lastWeekEvents, prevWeekEvents, func(e model.SearchEvent) bool { return e.NotFound }),
		ResponseTimeDistribution: getResponseTimeDistribution(last24hEvents),
		Classifications:          getClassificationStats(last24hEvents),
		SystemHealth:             s.getSystemHealth(),
	}
}

// filterEventsByTime returns events after the given time
func filterEventsByTime(events []model.SearchEvent, after time.Time) []model.SearchEvent {
	var filtered []model.SearchEvent
	for _, event := range events {
		if event.Timestamp.After(after) {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// filterEventsByTimeRange returns events within the given time range
func filterEventsByTimeRange(events []model.SearchEvent, start, end time.Time) []model.SearchEvent {
	var filtered []model.SearchEvent
	for _, event := range events {
		if event.Timestamp.After(start) && !event.Timestamp.After(end) {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// calculateChangePercent calculates percentage change between current and previous values
func calculateChangePercent(current, previous int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100.0
		}
		return 0.0
	}
	return float64(current-previous) / float64(previous) * 100.0
}

// calculateAvgResponseTime calculates average response time for events in milliseconds
func calculateAvgResponseTime(events []model.SearchEvent) int64 {
	if len(events) == 0 {
		return 0
	}

	var total time.Duration
	for _, event := range events {
		total += event.ResponseTime
	}
	avgDuration := total / time.Duration(len(events))
	return avgDuration.Milliseconds()
}

// calculateResponseTimeChange calculates response time change trend
func calculateResponseTimeChange(current, previous []model.SearchEvent) string {
	currentAvg := calculateAvgResponseTime(current)
	previousAvg := calculateAvgResponseTime(previous)

	if previousAvg == 0 {
		return "stable"
	}

	change := float64(currentAvg-previousAvg) / float64(previousAvg)
	if change > 0.1 {
		return "up"
	} else if change < -0.1 {
		return "down"
	}
	return "stable"
}

func rate(events []model.SearchEvent, match func(model.SearchEvent) bool) float64 {
	if len(events) == 0 {
		return 0
	}
	n := 0
	for _, e := range events {
		if match(e) {
			n++
		}
	}
	return float64(n) / float64(len(events)) * 100
}

// getHourlyPerformance returns hourly search performance for the last 24 hours
func getHourlyPerformance(events []model.SearchEvent) []model.SearchPerformanceHourly {
	hourlyData := make(map[int][]model.SearchEvent)

	for _, event := range events {
		hour := event.Timestamp.Hour()
		hourlyData[hour] = append(hourlyData[hour], event)
	}

	performance := make([]model.SearchPerformanceHourly, 0, 24)
	for hour := 0; hour < 24; hour++ {
		events := hourlyData[hour]
		performance = append(performance, model.SearchPerformanceHourly{
			Hour:            hour,
			SearchCount:     len(events),
			AvgResponseTime: calculateAvgResponseTime(events),
		})
	}

	return performance
}

// getPopularSearches returns the most frequent queries, optionally restricted by match.
// Short queries are skipped since they never reach the sources.
func getPopularSearches(events, previous []model.SearchEvent, match func(model.SearchEvent) bool) []model.PopularSearch {
	count := func(events []model.SearchEvent) map[string]int {
		counts := make(map[string]int)
		for _, event := range events {
			if event.Query == "" || event.Classification == string(services.ClassificationShort) {
				continue
			}
			if match != nil && !match(event) {
				continue
			}
			counts[event.Query]++
		}
		return counts
	}
	queryCounts := count(events)
	previousCounts := count(previous)

	type queryCount struct {
		query string
		count int
	}

	queries := make([]queryCount, 0, len(queryCounts))
	for query, n := range queryCounts {
		queries = append(queries, queryCount{query: query, count: n})
	}

	// Sort by count descending, then alphabetically for a stable dashboard
	sort.Slice(queries, func(i, j int) bool {
		if queries[i].count != queries[j].count {
			return queries[i].count > queries[j].count
		}
		return queries[i].query < queries[j].query
	})

	popular := make([]model.PopularSearch, 0, popularLimit)
	for i, qc := range queries {
		if i >= popularLimit {
			break
		}
		popular = append(popular, model.PopularSearch{
			Query:       qc.query,
			SearchCount: qc.count,
			TrendChange: trend(qc.count, previousCounts[qc.query]),
		})
	}

	return popular
}

func trend(current, previous int) string {
	switch {
	case previous == 0:
		return "new"
	case current > previous:
		return "up"
	case current < previous:
		return "down"
	default:
		return "stable"
	}
}

// getResponseTimeDistribution returns response time distribution
func getResponseTimeDistribution(events []model.SearchEvent) model.ResponseTimeDistribution {
	dist := model.ResponseTimeDistribution{}
	total := len(events)

	if total == 0 {
		return dist
	}

	for _, event := range events {
		ms := event.ResponseTime.Milliseconds()
		switch {
		case ms <= 100:
			dist.Bucket0To100ms++
		case ms <= 300:
			dist.Bucket100To300ms++
		case ms <= 1000:
			dist.Bucket300To1000ms++
		default:
			dist.Bucket1000msPlus++
		}
	}

	// Calculate percentages
	dist.Percentage0To100 = float64(dist.Bucket0To100ms) / float64(total) * 100
	dist.Percentage100To300 = float64(dist.Bucket100To300ms) / float64(total) * 100
	dist.Percentage300To1s = float64(dist.Bucket300To1000ms) / float64(total) * 100
	dist.Percentage1sPlus = float64(dist.Bucket1000msPlus) / float64(total) * 100

	return dist
}

// getClassificationStats counts searches per query classification
func getClassificationStats(events []model.SearchEvent) model.ClassificationStats {
	stats := model.ClassificationStats{}

	for _, event := range events {
		switch services.Classification(event.Classification) {
		case services.ClassificationShort:
			stats.Short++
		case services.ClassificationSingleGeneric:
			stats.SingleGeneric++
		case services.ClassificationSingleSpecific:
			stats.SingleSpecific++
		case services.ClassificationMulti:
			stats.Multi++
		}
	}

	return stats
}

// getSystemHealth returns current process health metrics
func (s *Service) getSystemHealth() model.SystemHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	health := model.SystemHealth{
		Goroutines: runtime.NumGoroutine(),
	}
	if m.Sys > 0 {
		health.MemoryUsage = float64(m.Alloc) / float64(m.Sys) * 100
	}
	if s.activeSessions != nil {
		health.ActiveSessions = s.activeSessions()
	}
	return health
}

// Flush writes the current events to disk. It is a no-op without a data directory.
func (s *Service) Flush() error {
	if s.dataFilePath == "" {
		return nil
	}
	s.saveMutex.Lock()
	defer s.saveMutex.Unlock()

	s.mutex.RLock()
	snapshot := make([]model.SearchEvent, len(s.events))
	copy(snapshot, s.events)
	s.mutex.RUnlock()

	return persistence.SaveGob(s.dataFilePath, snapshot)
}

// loadData loads analytics data from file
func (s *Service) loadData() error {
	if s.dataFilePath == "" {
		return nil
	}

	var events []model.SearchEvent
	if err := persistence.LoadGob(s.dataFilePath, &events); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil // File doesn't exist yet, that's okay
		}
		return err
	}

	s.mutex.Lock()
	s.events = events
	s.mutex.Unlock()
	return nil
}
