package metrics

// Metrics output (CSV/JSON) and summary formatting

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Writer handles writing metrics to files
type Writer struct {
	csvFile     *os.File
	csvWriter   *csv.Writer
	jsonFile    *os.File
	csvPath     string
	jsonHasData bool // tracks whether JSON array has entries (avoids Seek syscall)
}

// NewWriter creates a new metrics writer
func NewWriter(csvPath, jsonPath string) (*Writer, error) {
	w := &Writer{csvPath: csvPath}

	if csvPath != "" {
		file, err := os.Create(csvPath)
		if err != nil {
			return nil, fmt.Errorf("create CSV file: %w", err)
		}
		w.csvFile = file
		w.csvWriter = csv.NewWriter(file)

		header := []string{
			"timestamp",
			"connection",
			"node_address",
			"node_name",
			"node_sort",
			"message",
			"success",
			"latency_ms",
			"jitter_ms",
			"byte_count",
			"error",
		}
		if err := w.csvWriter.Write(header); err != nil {
			file.Close()
			return nil, fmt.Errorf("write CSV header: %w", err)
		}
		w.csvWriter.Flush()
	}

	if jsonPath != "" {
		file, err := os.Create(jsonPath)
		if err != nil {
			if w.csvFile != nil {
				w.csvFile.Close()
			}
			return nil, fmt.Errorf("create JSON file: %w", err)
		}
		w.jsonFile = file

		if _, err := file.WriteString("[\n"); err != nil {
			file.Close()
			if w.csvFile != nil {
				w.csvFile.Close()
			}
			return nil, fmt.Errorf("write JSON start: %w", err)
		}
	}

	return w, nil
}

// WriteSummary writes a summary CSV with distribution stats.
func (w *Writer) WriteSummary(summary *Summary, metrics []Metric) error {
	if w.csvPath == "" {
		return nil
	}
	summaryPath := w.csvPath + ".summary.csv"
	file, err := os.Create(summaryPath)
	if err != nil {
		return fmt.Errorf("create summary CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	header := []string{
		"scope",
		"connection",
		"message",
		"metric",
		"count",
		"min_ms",
		"max_ms",
		"avg_ms",
		"p50_ms",
		"p90_ms",
		"p95_ms",
		"p99_ms",
		"bucket_lt_1ms",
		"bucket_1_5ms",
		"bucket_5_10ms",
		"bucket_10_50ms",
		"bucket_50_100ms",
		"bucket_100_500ms",
		"bucket_gt_500ms",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write summary CSV header: %w", err)
	}

	writeRow := func(scope, connection, message, metricName string, values []float64) error {
		if len(values) == 0 {
			return nil
		}
		buckets := make(map[string]int)
		var sum float64
		min := values[0]
		max := values[0]
		for _, v := range values {
			sum += v
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
			incrementBucket(buckets, v)
		}
		percentiles := computePercentiles(values)
		record := []string{
			scope,
			connection,
			message,
			metricName,
			fmt.Sprintf("%d", len(values)),
			fmt.Sprintf("%.3f", min),
			fmt.Sprintf("%.3f", max),
			fmt.Sprintf("%.3f", sum/float64(len(values))),
			fmt.Sprintf("%.3f", percentiles[0]),
			fmt.Sprintf("%.3f", percentiles[1]),
			fmt.Sprintf("%.3f", percentiles[2]),
			fmt.Sprintf("%.3f", percentiles[3]),
			fmt.Sprintf("%d", buckets["lt_1ms"]),
			fmt.Sprintf("%d", buckets["1_5ms"]),
			fmt.Sprintf("%d", buckets["5_10ms"]),
			fmt.Sprintf("%d", buckets["10_50ms"]),
			fmt.Sprintf("%d", buckets["50_100ms"]),
			fmt.Sprintf("%d", buckets["100_500ms"]),
			fmt.Sprintf("%d", buckets["gt_500ms"]),
		}
		return writer.Write(record)
	}

	countsRecord := []string{
		"counts", "", "", "aggregate",
		fmt.Sprintf("%d", summary.TotalFrames),
		fmt.Sprintf("%d", summary.SuccessfulFrames),
		fmt.Sprintf("%d", summary.FailedFrames),
		fmt.Sprintf("%d", summary.TimeoutCount),
		fmt.Sprintf("%d", summary.ConnectionResets),
		fmt.Sprintf("%d", summary.FramingErrors),
		"", "", "", "", "", "", "",
	}
	if err := writer.Write(countsRecord); err != nil {
		return fmt.Errorf("write counts row: %w", err)
	}

	overallLatency := make([]float64, 0, len(metrics))
	overallJitter := make([]float64, 0, len(metrics))
	for _, m := range metrics {
		if m.Success && m.LatencyMs > 0 {
			overallLatency = append(overallLatency, m.LatencyMs)
		}
		if m.JitterMs > 0 {
			overallJitter = append(overallJitter, m.JitterMs)
		}
	}
	if err := writeRow("all", "", "", "latency_ms", overallLatency); err != nil {
		return fmt.Errorf("write overall latency summary: %w", err)
	}
	if err := writeRow("all", "", "", "jitter_ms", overallJitter); err != nil {
		return fmt.Errorf("write overall jitter summary: %w", err)
	}

	byConnection := make(map[string][]Metric)
	byMessage := make(map[MessageType][]Metric)
	byConnMessage := make(map[string]map[MessageType][]Metric)
	for _, m := range metrics {
		byConnection[m.Connection] = append(byConnection[m.Connection], m)
		byMessage[m.Message] = append(byMessage[m.Message], m)
		if _, ok := byConnMessage[m.Connection]; !ok {
			byConnMessage[m.Connection] = make(map[MessageType][]Metric)
		}
		byConnMessage[m.Connection][m.Message] = append(byConnMessage[m.Connection][m.Message], m)
	}

	for msg, list := range byMessage {
		latencies := make([]float64, 0, len(list))
		jitters := make([]float64, 0, len(list))
		for _, m := range list {
			if m.Success && m.LatencyMs > 0 {
				latencies = append(latencies, m.LatencyMs)
			}
			if m.JitterMs > 0 {
				jitters = append(jitters, m.JitterMs)
			}
		}
		if err := writeRow("message", "", string(msg), "latency_ms", latencies); err != nil {
			return fmt.Errorf("write message latency summary: %w", err)
		}
		if err := writeRow("message", "", string(msg), "jitter_ms", jitters); err != nil {
			return fmt.Errorf("write message jitter summary: %w", err)
		}
	}

	for conn, list := range byConnection {
		latencies := make([]float64, 0, len(list))
		jitters := make([]float64, 0, len(list))
		for _, m := range list {
			if m.Success && m.LatencyMs > 0 {
				latencies = append(latencies, m.LatencyMs)
			}
			if m.JitterMs > 0 {
				jitters = append(jitters, m.JitterMs)
			}
		}
		if err := writeRow("connection", conn, "", "latency_ms", latencies); err != nil {
			return fmt.Errorf("write connection latency summary: %w", err)
		}
		if err := writeRow("connection", conn, "", "jitter_ms", jitters); err != nil {
			return fmt.Errorf("write connection jitter summary: %w", err)
		}
	}

	for conn, byMsg := range byConnMessage {
		for msg, list := range byMsg {
			latencies := make([]float64, 0, len(list))
			jitters := make([]float64, 0, len(list))
			for _, m := range list {
				if m.Success && m.LatencyMs > 0 {
					latencies = append(latencies, m.LatencyMs)
				}
				if m.JitterMs > 0 {
					jitters = append(jitters, m.JitterMs)
				}
			}
			if err := writeRow("connection_message", conn, string(msg), "latency_ms", latencies); err != nil {
				return fmt.Errorf("write connection message latency summary: %w", err)
			}
			if err := writeRow("connection_message", conn, string(msg), "jitter_ms", jitters); err != nil {
				return fmt.Errorf("write connection message jitter summary: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush summary CSV: %w", err)
	}

	_ = summary
	return nil
}

// WriteMetric writes a single metric
func (w *Writer) WriteMetric(m Metric) error {
	if w.csvWriter != nil {
		record := []string{
			m.Timestamp.Format(time.RFC3339Nano),
			m.Connection,
			fmt.Sprintf("%d", m.NodeAddress),
			m.NodeName,
			m.NodeSort,
			string(m.Message),
			fmt.Sprintf("%t", m.Success),
			formatMs(m.LatencyMs),
			formatMs(m.JitterMs),
			fmt.Sprintf("%d", m.ByteCount),
			m.Error,
		}
		if err := w.csvWriter.Write(record); err != nil {
			return fmt.Errorf("write CSV record: %w", err)
		}
		// Flush is called in Close() for better performance.
	}

	if w.jsonFile != nil {
		jsonData, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}

		if w.jsonHasData {
			if _, err := w.jsonFile.WriteString(",\n"); err != nil {
				return fmt.Errorf("write JSON comma: %w", err)
			}
		}
		w.jsonHasData = true

		var buf bytes.Buffer
		if err := json.Indent(&buf, jsonData, "", "  "); err != nil {
			return fmt.Errorf("indent JSON: %w", err)
		}
		if _, err := w.jsonFile.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
	}

	return nil
}

// Close closes the writer and flushes all data
func (w *Writer) Close() error {
	var errs []error

	if w.csvWriter != nil {
		w.csvWriter.Flush()
	}
	if w.csvFile != nil {
		if err := w.csvFile.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if w.jsonFile != nil {
		if _, err := w.jsonFile.WriteString("\n]\n"); err != nil {
			errs = append(errs, err)
		}
		if err := w.jsonFile.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close writer: %v", errs)
	}

	return nil
}

// formatMs formats a millisecond value for CSV (empty string if 0)
func formatMs(ms float64) string {
	if ms == 0 {
		return ""
	}
	return fmt.Sprintf("%.3f", ms)
}

// FormatSummary formats a summary for human-readable output
func FormatSummary(summary *Summary) string {
	var buf string

	buf += fmt.Sprintf("Total Frames: %d\n", summary.TotalFrames)
	buf += fmt.Sprintf("Successful: %d (%.1f%%)\n",
		summary.SuccessfulFrames,
		float64(summary.SuccessfulFrames)/float64(summary.TotalFrames)*100)
	buf += fmt.Sprintf("Failed: %d (%.1f%%)\n",
		summary.FailedFrames,
		float64(summary.FailedFrames)/float64(summary.TotalFrames)*100)

	if summary.TimeoutCount > 0 {
		timeoutRate := float64(summary.TimeoutCount) / float64(summary.TotalFrames) * 100
		buf += fmt.Sprintf("Timeouts: %d (%.3f%%)\n", summary.TimeoutCount, timeoutRate)
	}
	if summary.ConnectionResets > 0 {
		buf += fmt.Sprintf("Connection Resets: %d\n", summary.ConnectionResets)
	}
	if summary.FramingErrors > 0 {
		framingRate := float64(summary.FramingErrors) / float64(summary.TotalFrames) * 100
		buf += fmt.Sprintf("Framing Errors: %d (%.1f%%)\n", summary.FramingErrors, framingRate)
	}

	if summary.SuccessfulFrames > 0 {
		buf += "\nLatency Statistics (all frames):\n"
		buf += fmt.Sprintf("  Min: %.3f ms\n", summary.MinLatency)
		buf += fmt.Sprintf("  Max: %.3f ms\n", summary.MaxLatency)
		buf += fmt.Sprintf("  Avg: %.3f ms\n", summary.AvgLatency)
		if summary.P50Latency > 0 || summary.P90Latency > 0 || summary.P95Latency > 0 || summary.P99Latency > 0 {
			buf += fmt.Sprintf("  P50: %.3f ms\n", summary.P50Latency)
			buf += fmt.Sprintf("  P90: %.3f ms\n", summary.P90Latency)
			buf += fmt.Sprintf("  P95: %.3f ms\n", summary.P95Latency)
			buf += fmt.Sprintf("  P99: %.3f ms\n", summary.P99Latency)
		}
		if len(summary.LatencyBuckets) > 0 {
			buf += fmt.Sprintf("  Buckets: <1ms=%d 1-5ms=%d 5-10ms=%d 10-50ms=%d 50-100ms=%d 100-500ms=%d >500ms=%d\n",
				summary.LatencyBuckets["lt_1ms"],
				summary.LatencyBuckets["1_5ms"],
				summary.LatencyBuckets["5_10ms"],
				summary.LatencyBuckets["10_50ms"],
				summary.LatencyBuckets["50_100ms"],
				summary.LatencyBuckets["100_500ms"],
				summary.LatencyBuckets["gt_500ms"],
			)
		}
	}
	if summary.AvgJitter > 0 {
		buf += "\nJitter Statistics (all frames):\n"
		buf += fmt.Sprintf("  Min: %.3f ms\n", summary.MinJitter)
		buf += fmt.Sprintf("  Max: %.3f ms\n", summary.MaxJitter)
		buf += fmt.Sprintf("  Avg: %.3f ms\n", summary.AvgJitter)
		if summary.P50Jitter > 0 || summary.P90Jitter > 0 || summary.P95Jitter > 0 || summary.P99Jitter > 0 {
			buf += fmt.Sprintf("  P50: %.3f ms\n", summary.P50Jitter)
			buf += fmt.Sprintf("  P90: %.3f ms\n", summary.P90Jitter)
			buf += fmt.Sprintf("  P95: %.3f ms\n", summary.P95Jitter)
			buf += fmt.Sprintf("  P99: %.3f ms\n", summary.P99Jitter)
		}
		if len(summary.JitterBuckets) > 0 {
			buf += fmt.Sprintf("  Buckets: <1ms=%d 1-5ms=%d 5-10ms=%d 10-50ms=%d 50-100ms=%d 100-500ms=%d >500ms=%d\n",
				summary.JitterBuckets["lt_1ms"],
				summary.JitterBuckets["1_5ms"],
				summary.JitterBuckets["5_10ms"],
				summary.JitterBuckets["10_50ms"],
				summary.JitterBuckets["50_100ms"],
				summary.JitterBuckets["100_500ms"],
				summary.JitterBuckets["gt_500ms"],
			)
		}
	}

	if len(summary.LatencyByMessage) > 0 {
		buf += "\nPer-Message Statistics:\n"
		for msg, stats := range summary.LatencyByMessage {
			buf += fmt.Sprintf("  %s: %d frames (%d success, %d failed)",
				msg, stats.Count, stats.Success, stats.Failed)
			if stats.Success > 0 {
				buf += fmt.Sprintf(" - latency: min=%.3fms, max=%.3fms, avg=%.3fms",
					stats.MinLatency, stats.MaxLatency, stats.AvgLatency)
			}
			buf += "\n"
		}
	}

	if len(summary.LatencyByNode) > 0 {
		buf += "\nPer-Node Statistics:\n"
		for addr, stats := range summary.LatencyByNode {
			buf += fmt.Sprintf("  node %d: %d frames (%d success, %d failed)",
				addr, stats.Count, stats.Success, stats.Failed)
			if stats.Success > 0 {
				buf += fmt.Sprintf(" - latency: min=%.3fms, max=%.3fms, avg=%.3fms",
					stats.MinLatency, stats.MaxLatency, stats.AvgLatency)
			}
			buf += "\n"
		}
	}

	return buf
}
