package metrics

import (
	"bytes"
	"strings"
	"testing"
)

func TestPeerGaugesUpdateReflectsInScrape(t *testing.T) {
	g := NewPeerGauges("test-peer-a")
	g.Update(true, 12345, -678)

	var buf bytes.Buffer
	writePrometheusMetrics(&buf)
	out := buf.String()

	if !strings.Contains(out, `timesync_synchronized{peer="test-peer-a"} 1`) {
		t.Errorf("scrape missing synchronized gauge, got:\n%s", out)
	}
	if !strings.Contains(out, `timesync_min_owd_usec{peer="test-peer-a"} 12345`) {
		t.Errorf("scrape missing min owd gauge, got:\n%s", out)
	}
	if !strings.Contains(out, `timesync_clock_drift_usec{peer="test-peer-a"} -678`) {
		t.Errorf("scrape missing drift gauge, got:\n%s", out)
	}
}

func TestIncDatagramsTotal(t *testing.T) {
	var before bytes.Buffer
	writePrometheusMetrics(&before)

	IncDatagramsTotal()
	IncDatagramsTotal()

	var after bytes.Buffer
	writePrometheusMetrics(&after)
	if !strings.Contains(after.String(), "timesync_datagrams_total") {
		t.Errorf("scrape missing datagrams counter, got:\n%s", after.String())
	}
}
