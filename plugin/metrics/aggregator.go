// Package metrics aggregates recognizer outcomes and API request latencies in
// memory.
package metrics

import (
	"slices"
	"sync"
	"time"

	"github.com/hrygo/vnchrono/plugin/chrono"
)

// maxSamples bounds the latency samples kept per key; older samples are
// overwritten.
const maxSamples = 1024

// Aggregator records recognizer outcomes and request latencies. It satisfies
// chrono.Recorder and is safe for concurrent use.
type Aggregator struct {
	mu sync.RWMutex

	started     time.Time
	recognizers map[string]*outcomeBucket
	requests    map[string]*requestBucket
}

type outcomeBucket struct {
	matched, rejected, noMatch int64
	latencies                  samples
}

type requestBucket struct {
	count, success int64
	latencies      samples
}

// samples is a fixed-size ring of latencies in microseconds.
type samples struct {
	values []int64
	next   int
	sum    int64
	total  int64
}

func (s *samples) add(d time.Duration) {
	us := d.Microseconds()
	s.sum += us
	s.total++
	if len(s.values) < maxSamples {
		s.values = append(s.values, us)
		return
	}
	s.values[s.next] = us
	s.next = (s.next + 1) % maxSamples
}

func (s *samples) avg() time.Duration {
	if s.total == 0 {
		return 0
	}
	return time.Duration(s.sum/s.total) * time.Microsecond
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		started:     time.Now(),
		recognizers: make(map[string]*outcomeBucket),
		requests:    make(map[string]*requestBucket),
	}
}

// RecordOutcome counts one Extract call of a recognizer.
func (a *Aggregator) RecordOutcome(recognizer string, status chrono.Status, latency time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	b, ok := a.recognizers[recognizer]
	if !ok {
		b = &outcomeBucket{}
		a.recognizers[recognizer] = b
	}
	switch status {
	case chrono.StatusMatched:
		b.matched++
	case chrono.StatusRejected:
		b.rejected++
	default:
		b.noMatch++
	}
	b.latencies.add(latency)
}

// RecordRequest counts one API request to endpoint.
func (a *Aggregator) RecordRequest(endpoint string, latency time.Duration, success bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	b, ok := a.requests[endpoint]
	if !ok {
		b = &requestBucket{}
		a.requests[endpoint] = b
	}
	b.count++
	if success {
		b.success++
	}
	b.latencies.add(latency)
}

// RecognizerStat summarizes the outcomes of one recognizer.
type RecognizerStat struct {
	Matched      int64   `json:"matched"`
	Rejected     int64   `json:"rejected"`
	NoMatch      int64   `json:"noMatch"`
	AvgLatencyUs int64   `json:"avgLatencyUs"`
	P95LatencyUs int64   `json:"p95LatencyUs"`
	RejectRate   float64 `json:"rejectRate"`
}

// EndpointStat summarizes the requests of one endpoint.
type EndpointStat struct {
	Count        int64   `json:"count"`
	SuccessRate  float64 `json:"successRate"`
	AvgLatencyMs float64 `json:"avgLatencyMs"`
	P50LatencyMs float64 `json:"p50LatencyMs"`
	P95LatencyMs float64 `json:"p95LatencyMs"`
}

// Overview is a snapshot of everything recorded since start.
type Overview struct {
	Since         time.Time                  `json:"since"`
	TotalRequests int64                      `json:"totalRequests"`
	ErrorCount    int64                      `json:"errorCount"`
	Recognizers   map[string]*RecognizerStat `json:"recognizers"`
	Endpoints     map[string]*EndpointStat   `json:"endpoints"`
}

// Snapshot returns the current aggregates.
func (a *Aggregator) Snapshot() *Overview {
	a.mu.RLock()
	defer a.mu.RUnlock()

	o := &Overview{
		Since:       a.started,
		Recognizers: make(map[string]*RecognizerStat, len(a.recognizers)),
		Endpoints:   make(map[string]*EndpointStat, len(a.requests)),
	}

	for name, b := range a.recognizers {
		stat := &RecognizerStat{
			Matched:      b.matched,
			Rejected:     b.rejected,
			NoMatch:      b.noMatch,
			AvgLatencyUs: b.latencies.avg().Microseconds(),
			P95LatencyUs: percentile(b.latencies.values, 95),
		}
		if attempts := b.matched + b.rejected; attempts > 0 {
			stat.RejectRate = float64(b.rejected) / float64(attempts)
		}
		o.Recognizers[name] = stat
	}

	for endpoint, b := range a.requests {
		o.TotalRequests += b.count
		o.ErrorCount += b.count - b.success
		stat := &EndpointStat{
			Count:        b.count,
			AvgLatencyMs: toMillis(b.latencies.avg().Microseconds()),
			P50LatencyMs: toMillis(percentile(b.latencies.values, 50)),
			P95LatencyMs: toMillis(percentile(b.latencies.values, 95)),
		}
		if b.count > 0 {
			stat.SuccessRate = float64(b.success) / float64(b.count)
		}
		o.Endpoints[endpoint] = stat
	}
	return o
}

// Reset drops all recorded data.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.started = time.Now()
	a.recognizers = make(map[string]*outcomeBucket)
	a.requests = make(map[string]*requestBucket)
}

func toMillis(us int64) float64 {
	return float64(us) / 1000
}

func percentile(values []int64, p int) int64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return sorted[(len(sorted)-1)*p/100]
}

var _ chrono.Recorder = (*Aggregator)(nil)
