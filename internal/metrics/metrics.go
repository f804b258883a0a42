package metrics

// Traffic metrics collection for CMRInet frames

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

// MessageType names the CMRInet message type a Metric describes.
type MessageType string

const (
	MessageInitialization MessageType = "INIT"
	MessagePollRequest    MessageType = "POLL"
	MessageReceiveData    MessageType = "RECEIVE"
	MessageTransmitData   MessageType = "TRANSMIT"
)

// Metric represents a single frame send/receive outcome.
type Metric struct {
	Timestamp   time.Time
	Connection  string
	NodeAddress uint8
	NodeName    string
	NodeSort    string
	Message     MessageType
	Success     bool
	LatencyMs   float64
	JitterMs    float64
	ByteCount   int
	Error       string
}

// Sink collects and aggregates traffic metrics
type Sink struct {
	mu      sync.RWMutex
	metrics []Metric
	summary *Summary
}

func newSummary() *Summary {
	return &Summary{
		LatencyBuckets:     make(map[string]int),
		JitterBuckets:      make(map[string]int),
		LatencyByMessage:   make(map[MessageType]*MessageStats),
		LatencyByNode:      make(map[uint8]*NodeStats),
	}
}

// Summary contains aggregated statistics
type Summary struct {
	TotalFrames       int
	SuccessfulFrames  int
	FailedFrames      int
	TimeoutCount      int
	ConnectionResets  int
	FramingErrors     int
	MinLatency        float64
	MaxLatency        float64
	AvgLatency        float64
	P50Latency        float64
	P90Latency        float64
	P95Latency        float64
	P99Latency        float64
	MinJitter         float64
	MaxJitter         float64
	AvgJitter         float64
	P50Jitter         float64
	P90Jitter         float64
	P95Jitter         float64
	P99Jitter         float64
	jitterCount       int
	LatencyBuckets    map[string]int
	JitterBuckets     map[string]int
	LatencyByMessage  map[MessageType]*MessageStats
	LatencyByNode     map[uint8]*NodeStats
}

// MessageStats contains statistics for a specific message type
type MessageStats struct {
	Count      int
	Success    int
	Failed     int
	MinLatency float64
	MaxLatency float64
	AvgLatency float64
	SumLatency float64
}

// NodeStats contains statistics for a specific node address
type NodeStats struct {
	Count      int
	Success    int
	Failed     int
	MinLatency float64
	MaxLatency float64
	AvgLatency float64
	SumLatency float64
}

// NewSink creates a new metrics sink
func NewSink() *Sink {
	return &Sink{
		metrics: make([]Metric, 0),
		summary: newSummary(),
	}
}

// Record records a new metric
func (s *Sink) Record(m Metric) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics = append(s.metrics, m)
	s.updateSummary(m)
}

// RelabelConnection overwrites the connection name on all metrics and
// rebuilds summary stats, for tagging traffic captured before the
// connection it came from was known (e.g. replaying a saved frame log).
func (s *Sink) RelabelConnection(label string) {
	if label == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.metrics {
		s.metrics[i].Connection = label
	}

	s.summary = newSummary()
	for _, m := range s.metrics {
		s.updateSummary(m)
	}
}

// GetMetrics returns a copy of all recorded metrics
func (s *Sink) GetMetrics() []Metric {
	s.mu.RLock()
	defer s.mu.RUnlock()

	metrics := make([]Metric, len(s.metrics))
	copy(metrics, s.metrics)
	return metrics
}

// GetSummary returns the aggregated summary
func (s *Sink) GetSummary() *Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := &Summary{
		TotalFrames:      s.summary.TotalFrames,
		SuccessfulFrames: s.summary.SuccessfulFrames,
		FailedFrames:     s.summary.FailedFrames,
		TimeoutCount:     s.summary.TimeoutCount,
		ConnectionResets: s.summary.ConnectionResets,
		FramingErrors:    s.summary.FramingErrors,
		MinLatency:       s.summary.MinLatency,
		MaxLatency:       s.summary.MaxLatency,
		AvgLatency:       s.summary.AvgLatency,
		P50Latency:       s.summary.P50Latency,
		P90Latency:       s.summary.P90Latency,
		P95Latency:       s.summary.P95Latency,
		P99Latency:       s.summary.P99Latency,
		MinJitter:        s.summary.MinJitter,
		MaxJitter:        s.summary.MaxJitter,
		AvgJitter:        s.summary.AvgJitter,
		P50Jitter:        s.summary.P50Jitter,
		P90Jitter:        s.summary.P90Jitter,
		P95Jitter:        s.summary.P95Jitter,
		P99Jitter:        s.summary.P99Jitter,
		LatencyBuckets:   make(map[string]int),
		JitterBuckets:    make(map[string]int),
		LatencyByMessage: make(map[MessageType]*MessageStats),
		LatencyByNode:    make(map[uint8]*NodeStats),
	}

	for msg, stats := range s.summary.LatencyByMessage {
		summary.LatencyByMessage[msg] = &MessageStats{
			Count: stats.Count, Success: stats.Success, Failed: stats.Failed,
			MinLatency: stats.MinLatency, MaxLatency: stats.MaxLatency,
			AvgLatency: stats.AvgLatency, SumLatency: stats.SumLatency,
		}
	}

	for addr, stats := range s.summary.LatencyByNode {
		summary.LatencyByNode[addr] = &NodeStats{
			Count: stats.Count, Success: stats.Success, Failed: stats.Failed,
			MinLatency: stats.MinLatency, MaxLatency: stats.MaxLatency,
			AvgLatency: stats.AvgLatency, SumLatency: stats.SumLatency,
		}
	}

	latencyPercentiles, jitterPercentiles, latencyBuckets, jitterBuckets := summarizeDistributions(s.metrics)
	summary.P50Latency = latencyPercentiles[0]
	summary.P90Latency = latencyPercentiles[1]
	summary.P95Latency = latencyPercentiles[2]
	summary.P99Latency = latencyPercentiles[3]
	summary.P50Jitter = jitterPercentiles[0]
	summary.P90Jitter = jitterPercentiles[1]
	summary.P95Jitter = jitterPercentiles[2]
	summary.P99Jitter = jitterPercentiles[3]
	for k, v := range latencyBuckets {
		summary.LatencyBuckets[k] = v
	}
	for k, v := range jitterBuckets {
		summary.JitterBuckets[k] = v
	}

	return summary
}

// updateSummary updates the summary statistics with a new metric
func (s *Sink) updateSummary(m Metric) {
	s.summary.TotalFrames++

	if m.Success {
		s.summary.SuccessfulFrames++
	} else {
		s.summary.FailedFrames++
		if m.Error != "" {
			if m.Error == "timeout" || strings.Contains(m.Error, "timeout") {
				s.summary.TimeoutCount++
			}
			if strings.Contains(m.Error, "reset") || strings.Contains(m.Error, "connection") {
				s.summary.ConnectionResets++
			}
			if strings.Contains(m.Error, "synchronisation") || strings.Contains(m.Error, "frame") {
				s.summary.FramingErrors++
			}
		}
	}

	if m.JitterMs > 0 {
		if s.summary.MinJitter == 0 || m.JitterMs < s.summary.MinJitter {
			s.summary.MinJitter = m.JitterMs
		}
		if m.JitterMs > s.summary.MaxJitter {
			s.summary.MaxJitter = m.JitterMs
		}
		s.summary.jitterCount++
		totalJitter := s.summary.AvgJitter * float64(s.summary.jitterCount-1)
		totalJitter += m.JitterMs
		s.summary.AvgJitter = totalJitter / float64(s.summary.jitterCount)
	}

	if m.Success && m.LatencyMs > 0 {
		if s.summary.MinLatency == 0 || m.LatencyMs < s.summary.MinLatency {
			s.summary.MinLatency = m.LatencyMs
		}
		if m.LatencyMs > s.summary.MaxLatency {
			s.summary.MaxLatency = m.LatencyMs
		}

		totalLatency := s.summary.AvgLatency * float64(s.summary.SuccessfulFrames-1)
		totalLatency += m.LatencyMs
		s.summary.AvgLatency = totalLatency / float64(s.summary.SuccessfulFrames)
	}

	msgStats, exists := s.summary.LatencyByMessage[m.Message]
	if !exists {
		msgStats = &MessageStats{}
		s.summary.LatencyByMessage[m.Message] = msgStats
	}
	msgStats.Count++
	if m.Success {
		msgStats.Success++
		if m.LatencyMs > 0 {
			if msgStats.MinLatency == 0 || m.LatencyMs < msgStats.MinLatency {
				msgStats.MinLatency = m.LatencyMs
			}
			if m.LatencyMs > msgStats.MaxLatency {
				msgStats.MaxLatency = m.LatencyMs
			}
			msgStats.SumLatency += m.LatencyMs
			msgStats.AvgLatency = msgStats.SumLatency / float64(msgStats.Success)
		}
	} else {
		msgStats.Failed++
	}

	nodeStats, exists := s.summary.LatencyByNode[m.NodeAddress]
	if !exists {
		nodeStats = &NodeStats{}
		s.summary.LatencyByNode[m.NodeAddress] = nodeStats
	}
	nodeStats.Count++
	if m.Success {
		nodeStats.Success++
		if m.LatencyMs > 0 {
			if nodeStats.MinLatency == 0 || m.LatencyMs < nodeStats.MinLatency {
				nodeStats.MinLatency = m.LatencyMs
			}
			if m.LatencyMs > nodeStats.MaxLatency {
				nodeStats.MaxLatency = m.LatencyMs
			}
			nodeStats.SumLatency += m.LatencyMs
			nodeStats.AvgLatency = nodeStats.SumLatency / float64(nodeStats.Success)
		}
	} else {
		nodeStats.Failed++
	}
}

func summarizeDistributions(metrics []Metric) ([4]float64, [4]float64, map[string]int, map[string]int) {
	latencies := make([]float64, 0, len(metrics))
	jitters := make([]float64, 0, len(metrics))
	latencyBuckets := make(map[string]int)
	jitterBuckets := make(map[string]int)

	for _, m := range metrics {
		if m.Success && m.LatencyMs > 0 {
			latencies = append(latencies, m.LatencyMs)
			incrementBucket(latencyBuckets, m.LatencyMs)
		}
		if m.JitterMs > 0 {
			jitters = append(jitters, m.JitterMs)
			incrementBucket(jitterBuckets, m.JitterMs)
		}
	}

	return computePercentiles(latencies), computePercentiles(jitters), latencyBuckets, jitterBuckets
}

func incrementBucket(buckets map[string]int, value float64) {
	switch {
	case value < 1:
		buckets["lt_1ms"]++
	case value < 5:
		buckets["1_5ms"]++
	case value < 10:
		buckets["5_10ms"]++
	case value < 50:
		buckets["10_50ms"]++
	case value < 100:
		buckets["50_100ms"]++
	case value < 500:
		buckets["100_500ms"]++
	default:
		buckets["gt_500ms"]++
	}
}

func computePercentiles(values []float64) [4]float64 {
	var result [4]float64
	if len(values) == 0 {
		return result
	}
	sort.Float64s(values)
	result[0] = percentile(values, 0.50)
	result[1] = percentile(values, 0.90)
	result[2] = percentile(values, 0.95)
	result[3] = percentile(values, 0.99)
	return result
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Ceil(p*float64(len(sorted)))) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank]
}
