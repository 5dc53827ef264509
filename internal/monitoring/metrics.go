package monitoring

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds application metrics
type Metrics struct {
	RequestCount        int64
	ErrorCount          int64
	CacheHits           int64
	CacheMisses         int64
	AnalysesCompleted   int64
	EphemerisCalls      int64
	EphemerisErrors     int64
	RateLimitRejections int64
	RateLimitFallbacks  int64
	RateLimitRedisErrs  int64
	AverageResponseTime int64 // in nanoseconds
	StartTime           time.Time

	ResponseTimes      []time.Duration
	ResponseTimesMutex sync.RWMutex

	RequestCountByStatus map[int]int64
	StatusMutex          sync.RWMutex
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime:            time.Now(),
		ResponseTimes:        make([]time.Duration, 0, 1000),
		RequestCountByStatus: make(map[int]int64),
	}
}

// IncrementRequest increments the request count
func (m *Metrics) IncrementRequest() {
	atomic.AddInt64(&m.RequestCount, 1)
}

// IncrementError increments the error count
func (m *Metrics) IncrementError() {
	atomic.AddInt64(&m.ErrorCount, 1)
}

// IncrementCacheHit increments cache hit count
func (m *Metrics) IncrementCacheHit() {
	atomic.AddInt64(&m.CacheHits, 1)
}

// IncrementCacheMiss increments cache miss count
func (m *Metrics) IncrementCacheMiss() {
	atomic.AddInt64(&m.CacheMisses, 1)
}

// IncrementAnalyses increments the completed analysis count
func (m *Metrics) IncrementAnalyses() {
	atomic.AddInt64(&m.AnalysesCompleted, 1)
}

// RecordEphemerisCall records one ephemeris collaborator call
func (m *Metrics) RecordEphemerisCall(success bool) {
	atomic.AddInt64(&m.EphemerisCalls, 1)
	if !success {
		atomic.AddInt64(&m.EphemerisErrors, 1)
	}
}

// IncrementRateLimitRejection increments the rejected request count
func (m *Metrics) IncrementRateLimitRejection() {
	atomic.AddInt64(&m.RateLimitRejections, 1)
}

// IncrementRateLimitFallback increments the in-memory fallback count
func (m *Metrics) IncrementRateLimitFallback() {
	atomic.AddInt64(&m.RateLimitFallbacks, 1)
}

// IncrementRateLimitRedisError increments the Redis rate limit error count
func (m *Metrics) IncrementRateLimitRedisError() {
	atomic.AddInt64(&m.RateLimitRedisErrs, 1)
}

// RecordResponseTime records response time for averaging and percentiles
func (m *Metrics) RecordResponseTime(duration time.Duration) {
	current := atomic.LoadInt64(&m.AverageResponseTime)
	newAverage := (current + duration.Nanoseconds()) / 2
	atomic.StoreInt64(&m.AverageResponseTime, newAverage)

	// Keep last 1000 samples for percentiles
	m.ResponseTimesMutex.Lock()
	m.ResponseTimes = append(m.ResponseTimes, duration)
	if len(m.ResponseTimes) > 1000 {
		m.ResponseTimes = m.ResponseTimes[1:]
	}
	m.ResponseTimesMutex.Unlock()
}

// RecordRequestByStatus records request count by HTTP status code
func (m *Metrics) RecordRequestByStatus(statusCode int) {
	m.StatusMutex.Lock()
	defer m.StatusMutex.Unlock()
	m.RequestCountByStatus[statusCode]++
}

// GetPercentileResponseTime calculates percentile response time
func (m *Metrics) GetPercentileResponseTime(percentile float64) time.Duration {
	m.ResponseTimesMutex.RLock()
	defer m.ResponseTimesMutex.RUnlock()

	if len(m.ResponseTimes) == 0 {
		return 0
	}

	times := make([]time.Duration, len(m.ResponseTimes))
	copy(times, m.ResponseTimes)

	sort.Slice(times, func(i, j int) bool {
		return times[i] < times[j]
	})

	index := int(float64(len(times)-1) * percentile / 100.0)
	if index >= len(times) {
		index = len(times) - 1
	}

	return times[index]
}

// GetStatusCodeDistribution returns request count by status code
func (m *Metrics) GetStatusCodeDistribution() map[int]int64 {
	m.StatusMutex.RLock()
	defer m.StatusMutex.RUnlock()

	distribution := make(map[int]int64)
	for code, count := range m.RequestCountByStatus {
		distribution[code] = count
	}
	return distribution
}

// GetStats returns current metrics statistics
func (m *Metrics) GetStats() map[string]interface{} {
	requests := atomic.LoadInt64(&m.RequestCount)
	errors := atomic.LoadInt64(&m.ErrorCount)
	cacheHits := atomic.LoadInt64(&m.CacheHits)
	cacheMisses := atomic.LoadInt64(&m.CacheMisses)
	analyses := atomic.LoadInt64(&m.AnalysesCompleted)
	ephemerisCalls := atomic.LoadInt64(&m.EphemerisCalls)
	ephemerisErrors := atomic.LoadInt64(&m.EphemerisErrors)
	avgResponseTime := atomic.LoadInt64(&m.AverageResponseTime)

	errorRate := float64(0)
	if requests > 0 {
		errorRate = float64(errors) / float64(requests) * 100
	}

	cacheHitRate := float64(0)
	totalCacheRequests := cacheHits + cacheMisses
	if totalCacheRequests > 0 {
		cacheHitRate = float64(cacheHits) / float64(totalCacheRequests) * 100
	}

	ephemerisErrorRate := float64(0)
	if ephemerisCalls > 0 {
		ephemerisErrorRate = float64(ephemerisErrors) / float64(ephemerisCalls) * 100
	}

	uptime := time.Since(m.StartTime)

	return map[string]interface{}{
		"uptime_seconds":               uptime.Seconds(),
		"total_requests":               requests,
		"error_count":                  errors,
		"error_rate_percent":           errorRate,
		"cache_hits":                   cacheHits,
		"cache_misses":                 cacheMisses,
		"cache_hit_rate_percent":       cacheHitRate,
		"analyses_completed":           analyses,
		"ephemeris_calls":              ephemerisCalls,
		"ephemeris_errors":             ephemerisErrors,
		"ephemeris_error_rate_percent": ephemerisErrorRate,
		"rate_limit_rejections":        atomic.LoadInt64(&m.RateLimitRejections),
		"rate_limit_fallbacks":         atomic.LoadInt64(&m.RateLimitFallbacks),
		"rate_limit_redis_errors":      atomic.LoadInt64(&m.RateLimitRedisErrs),
		"avg_response_time_ms":         float64(avgResponseTime) / 1000000,
		"start_time":                   m.StartTime.Format(time.RFC3339),

		"p50_response_time_ms":     float64(m.GetPercentileResponseTime(50)) / 1000000,
		"p95_response_time_ms":     float64(m.GetPercentileResponseTime(95)) / 1000000,
		"p99_response_time_ms":     float64(m.GetPercentileResponseTime(99)) / 1000000,
		"status_code_distribution": m.GetStatusCodeDistribution(),
	}
}
