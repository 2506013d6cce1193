package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHandlerExposesRecordedMetrics(t *testing.T) {
	RecordInvalidation(2)
	RecordInvalidateAll()
	RecordKeyExtraction("exact")
	RecordRPCCall("list-children", 5*time.Millisecond, nil)
	RecordWatchEvent("created")

	srv := httptest.NewServer(Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read scrape body: %v", err)
	}

	for _, metric := range []string{
		"dstu_cache_invalidations_total",
		"dstu_cache_key_extractions_total",
		"dstu_rpc_calls_total",
		"dstu_rpc_call_duration_seconds",
		"dstu_watch_events_total",
	} {
		if !strings.Contains(string(body), metric) {
			t.Errorf("scrape output missing %s", metric)
		}
	}
}
