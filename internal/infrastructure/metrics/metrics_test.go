package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	dto "github.com/prometheus/client_model/go"

	"github.com/nerrad567/gray-logic-daylight/internal/schedule"
)

// value returns the counter or gauge value of name with the given labels.
func value(t *testing.T, m *Metrics, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			if matches(metric, labels) {
				switch {
				case metric.GetCounter() != nil:
					return metric.GetCounter().GetValue()
				case metric.GetGauge() != nil:
					return metric.GetGauge().GetValue()
				case metric.GetHistogram() != nil:
					return float64(metric.GetHistogram().GetSampleCount())
				}
			}
		}
	}
	return 0
}

func matches(metric *dto.Metric, labels map[string]string) bool {
	found := 0
	for _, lp := range metric.GetLabel() {
		if want, ok := labels[lp.GetName()]; ok {
			if lp.GetValue() != want {
				return false
			}
			found++
		}
	}
	return found == len(labels)
}

func TestMetrics_Passes(t *testing.T) {
	m := New()

	m.PassSucceeded([]schedule.Phase{schedule.PhaseNoon, schedule.PhaseNight})
	m.PassSucceeded(nil)
	m.PassFailed("singularity")

	tests := []struct {
		name   string
		metric string
		labels map[string]string
		want   float64
	}{
		{"ok passes", "daylight_schedule_passes_total", map[string]string{"result": ResultOK}, 2},
		{"failed passes", "daylight_schedule_passes_total", map[string]string{"result": ResultFailed}, 1},
		{"failure reason", "daylight_schedule_failures_total", map[string]string{"reason": "singularity"}, 1},
		{"noon clamp", "daylight_transition_clamps_total", map[string]string{"phase": "noon"}, 1},
		{"night clamp", "daylight_transition_clamps_total", map[string]string{"phase": "night"}, 1},
		{"day clamp", "daylight_transition_clamps_total", map[string]string{"phase": "day"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := value(t, m, tt.metric, tt.labels); got != tt.want {
				t.Errorf("%s%v = %v, want %v", tt.metric, tt.labels, got, tt.want)
			}
		})
	}

	if ts := value(t, m, "daylight_schedule_last_success_timestamp_seconds", nil); ts <= 0 {
		t.Errorf("last success timestamp = %v, want > 0", ts)
	}
}

func TestMetrics_AppearanceAndNightMode(t *testing.T) {
	m := New()

	m.AppearanceSwitched("dark")
	m.AppearanceSwitched("dark")
	m.AppearanceSwitched("light")
	m.SetNightMode(true)

	if got := value(t, m, "daylight_appearance_switches_total", map[string]string{"appearance": "dark"}); got != 2 {
		t.Errorf("dark switches = %v, want 2", got)
	}
	if got := value(t, m, "daylight_night_mode", nil); got != 1 {
		t.Errorf("night_mode = %v, want 1", got)
	}

	m.SetNightMode(false)
	if got := value(t, m, "daylight_night_mode", nil); got != 0 {
		t.Errorf("night_mode = %v, want 0", got)
	}
}

func TestMetrics_Middleware(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/v1/runs/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("fine"))
	})

	for _, path := range []string{"/api/v1/runs/a", "/api/v1/runs/b", "/ok"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := value(t, m, "daylight_http_requests_total", map[string]string{
		"method": "GET", "route": "/api/v1/runs/{id}", "status": "404",
	}); got != 2 {
		t.Errorf("runs requests = %v, want 2 (grouped by route pattern)", got)
	}
	if got := value(t, m, "daylight_http_request_duration_seconds", map[string]string{
		"route": "/ok", "status": "200",
	}); got != 1 {
		t.Errorf("ok duration samples = %v, want 1", got)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.PassSucceeded(nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{"daylight_schedule_passes_total", "go_goroutines"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func TestMetrics_SatisfiesRecorder(t *testing.T) {
	var _ schedule.Recorder = New()
}
