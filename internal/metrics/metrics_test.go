package metrics

import "testing"

func TestMetricsSummaryAndRelabel(t *testing.T) {
	sink := NewSink()
	sink.Record(Metric{
		Connection:  "bus0",
		NodeAddress: 0,
		Message:     MessagePollRequest,
		Success:     true,
		LatencyMs:   5,
		JitterMs:    1,
	})
	sink.Record(Metric{
		Connection:  "bus0",
		NodeAddress: 0,
		Message:     MessageReceiveData,
		Success:     true,
		LatencyMs:   8,
		JitterMs:    2,
	})
	sink.Record(Metric{
		Connection:  "bus0",
		NodeAddress: 1,
		Message:     MessagePollRequest,
		Success:     false,
		Error:       "timeout waiting for response",
	})

	summary := sink.GetSummary()

	if summary.TotalFrames != 3 {
		t.Errorf("TotalFrames = %d, want 3", summary.TotalFrames)
	}
	if summary.SuccessfulFrames != 2 {
		t.Errorf("SuccessfulFrames = %d, want 2", summary.SuccessfulFrames)
	}
	if summary.FailedFrames != 1 {
		t.Errorf("FailedFrames = %d, want 1", summary.FailedFrames)
	}
	if summary.TimeoutCount != 1 {
		t.Errorf("TimeoutCount = %d, want 1", summary.TimeoutCount)
	}
	if summary.P50Latency == 0 {
		t.Error("P50Latency should be nonzero")
	}
	if summary.P50Jitter == 0 {
		t.Error("P50Jitter should be nonzero")
	}

	if stats, ok := summary.LatencyByNode[0]; !ok || stats.Count != 2 {
		t.Errorf("LatencyByNode[0] = %+v, want Count 2", stats)
	}
	if stats, ok := summary.LatencyByMessage[MessagePollRequest]; !ok || stats.Count != 2 {
		t.Errorf("LatencyByMessage[POLL] = %+v, want Count 2", stats)
	}

	sink.RelabelConnection("replayed")
	for _, m := range sink.GetMetrics() {
		if m.Connection != "replayed" {
			t.Errorf("metric connection = %q, want %q", m.Connection, "replayed")
		}
	}
}

func TestSinkRelabelConnectionIgnoresEmptyLabel(t *testing.T) {
	sink := NewSink()
	sink.Record(Metric{Connection: "bus0", Message: MessagePollRequest, Success: true})
	sink.RelabelConnection("")
	if sink.GetMetrics()[0].Connection != "bus0" {
		t.Error("RelabelConnection(\"\") should not overwrite connection")
	}
}
