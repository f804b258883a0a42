package metrics

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// ReadMetricsCSV reads a metrics CSV file and returns the parsed metrics along
// with the first and last timestamps found in the data.
func ReadMetricsCSV(path string) ([]Metric, time.Time, time.Time, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, time.Time{}, time.Time{}, fmt.Errorf("open metrics CSV: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, time.Time{}, time.Time{}, fmt.Errorf("read CSV header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		colIndex[col] = i
	}

	requiredCols := []string{"timestamp", "connection", "message", "success", "latency_ms"}
	for _, col := range requiredCols {
		if _, ok := colIndex[col]; !ok {
			return nil, time.Time{}, time.Time{}, fmt.Errorf("CSV missing required column: %s", col)
		}
	}

	var metrics []Metric
	var firstTime, lastTime time.Time
	rowCount := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, time.Time{}, time.Time{}, fmt.Errorf("read CSV row %d: %w", rowCount+2, err)
		}

		m := Metric{}

		if idx, ok := colIndex["timestamp"]; ok && idx < len(record) {
			if t, err := time.Parse(time.RFC3339Nano, record[idx]); err == nil {
				m.Timestamp = t
				if rowCount == 0 {
					firstTime = t
				}
				lastTime = t
			}
		}
		if idx, ok := colIndex["connection"]; ok && idx < len(record) {
			m.Connection = record[idx]
		}
		if idx, ok := colIndex["node_address"]; ok && idx < len(record) && record[idx] != "" {
			if v, err := strconv.ParseUint(record[idx], 10, 8); err == nil {
				m.NodeAddress = uint8(v)
			}
		}
		if idx, ok := colIndex["node_name"]; ok && idx < len(record) {
			m.NodeName = record[idx]
		}
		if idx, ok := colIndex["node_sort"]; ok && idx < len(record) {
			m.NodeSort = record[idx]
		}
		if idx, ok := colIndex["message"]; ok && idx < len(record) {
			m.Message = MessageType(record[idx])
		}
		if idx, ok := colIndex["success"]; ok && idx < len(record) {
			m.Success = record[idx] == "true"
		}
		if idx, ok := colIndex["latency_ms"]; ok && idx < len(record) && record[idx] != "" {
			if v, err := strconv.ParseFloat(record[idx], 64); err == nil {
				m.LatencyMs = v
			}
		}
		if idx, ok := colIndex["jitter_ms"]; ok && idx < len(record) && record[idx] != "" {
			if v, err := strconv.ParseFloat(record[idx], 64); err == nil {
				m.JitterMs = v
			}
		}
		if idx, ok := colIndex["byte_count"]; ok && idx < len(record) && record[idx] != "" {
			if v, err := strconv.Atoi(record[idx]); err == nil {
				m.ByteCount = v
			}
		}
		if idx, ok := colIndex["error"]; ok && idx < len(record) {
			m.Error = record[idx]
		}

		metrics = append(metrics, m)
		rowCount++
	}

	if rowCount == 0 {
		return nil, time.Time{}, time.Time{}, fmt.Errorf("no data rows in CSV file")
	}

	return metrics, firstTime, lastTime, nil
}
