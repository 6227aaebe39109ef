package model

import "time"

// SearchEvent represents a single pipeline run for analytics tracking
type SearchEvent struct {
	QueryID        string        `json:"query_id"`
	Query          string        `json:"query"`
	Classification string        `json:"classification"` // "short", "single_generic", "single_specific", "multi"
	ResponseTime   time.Duration `json:"response_time"`
	ResultCount    int           `json:"result_count"`
	NotFound       bool          `json:"not_found"`
	SourceErrors   int           `json:"source_errors"`
	Timestamp      time.Time     `json:"timestamp"`
}

// PopularSearch represents aggregated data for popular search terms
type PopularSearch struct {
	Query       string `json:"query"`
	SearchCount int    `json:"search_count"`
	TrendChange string `json:"trend_change,omitempty"` // "up", "down", "stable", "new"
}

// ResponseTimeDistribution represents response time distribution buckets
type ResponseTimeDistribution struct {
	Bucket0To100ms     int     `json:"bucket_0_100ms"`
	Bucket100To300ms   int     `json:"bucket_100_300ms"`
	Bucket300To1000ms  int     `json:"bucket_300_1000ms"`
	Bucket1000msPlus   int     `json:"bucket_1000ms_plus"`
	Percentage0To100   float64 `json:"percentage_0_100"`
	Percentage100To300 float64 `json:"percentage_100_300"`
	Percentage300To1s  float64 `json:"percentage_300_1000"`
	Percentage1sPlus   float64 `json:"percentage_1000_plus"`
}

// ClassificationStats counts searches per query classification
type ClassificationStats struct {
	Short          int `json:"short"`
	SingleGeneric  int `json:"single_generic"`
	SingleSpecific int `json:"single_specific"`
	Multi          int `json:"multi"`
}

// SearchPerformanceHourly represents hourly search performance data
type SearchPerformanceHourly struct {
	Hour            int   `json:"hour"`
	SearchCount     int   `json:"search_count"`
	AvgResponseTime int64 `json:"avg_response_time"` // in milliseconds
}

// SystemHealth represents process health metrics
type SystemHealth struct {
	MemoryUsage    float64 `json:"memory_usage_percent"`
	Goroutines     int     `json:"goroutines"`
	ActiveSessions int     `json:"active_sessions"`
}

// AnalyticsDashboard represents the complete analytics dashboard data
type AnalyticsDashboard struct {
	// Summary metrics
	TotalSearches         int     `json:"total_searches"`
	SearchesChangePercent float64 `json:"searches_change_percent"`
	AvgResponseTime       int64   `json:"avg_response_time"` // in milliseconds
	ResponseTimeChange    string  `json:"response_time_change"`
	NotFoundRate          float64 `json:"not_found_rate_percent"`
	SourceErrorRate       float64 `json:"source_error_rate_percent"`

	// Detailed analytics
	SearchPerformance24h     []SearchPerformanceHourly `json:"search_performance_24h"`
	PopularSearches          []PopularSearch           `json:"popular_searches"`
	MissedSearches           []PopularSearch           `json:"missed_searches"` // Most frequent not-found queries
	ResponseTimeDistribution ResponseTimeDistribution  `json:"response_time_distribution"`
	Classifications          ClassificationStats       `json:"classifications"`
	SystemHealth             SystemHealth              `json:"system_health"`
}
