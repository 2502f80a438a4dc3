package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"voice-servo/internal/domain"
	"voice-servo/internal/infra/metrics"
)

func TestPrometheus_Handler(t *testing.T) {
	m := metrics.NewPrometheus()

	m.CommandPublished(domain.CommandOpen)
	m.CommandPublished(domain.CommandOpen)
	m.Failure(domain.KindCaptureTimeout)
	m.Transcribed(300 * time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		`voice_servo_commands_total{command="open"} 2`,
		`voice_servo_failures_total{kind="capture_timeout"} 1`,
		`voice_servo_transcription_seconds_count 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestPrometheus_Lint(t *testing.T) {
	m := metrics.NewPrometheus()
	m.Failure(domain.KindPublish)

	problems, err := testutil.GatherAndLint(m.Registry())
	if err != nil {
		t.Fatalf("gathering: %v", err)
	}
	for _, p := range problems {
		t.Errorf("lint: %s: %s", p.Metric, p.Text)
	}
}
