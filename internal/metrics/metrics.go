package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cyberiseeyou/pceventmanager-sub004/internal/health"
)

var (
	RunDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "scheduler",
		Name:      "run_duration_seconds",
		Help:      "Duration of one auto-scheduler run, by run type and outcome.",
		Buckets:   []float64{.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"run_type", "status"})

	EventsScheduledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scheduler",
		Name:      "events_scheduled_total",
		Help:      "Total events successfully placed as a pending assignment, by event type.",
	}, []string{"event_type"})

	EventsFailedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scheduler",
		Name:      "events_failed_total",
		Help:      "Total events that could not be placed, by event type.",
	}, []string{"event_type"})

	BumpsPerRun = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "scheduler",
		Name:      "bumps_per_run",
		Help:      "Number of already-scheduled events bumped during one run.",
		Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
	})

	ActiveRuns = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "scheduler",
		Name:      "active_runs",
		Help:      "Number of SchedulerRuns currently executing.",
	})

	RescuedEventsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "scheduler",
		Name:      "rescued_events_total",
		Help:      "Total events recovered by the rescue pass after initially failing.",
	})

	ReaperResetTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "scheduler",
		Name:      "reaper_reset_total",
		Help:      "Total stale running SchedulerRuns marked failed by the reaper.",
	})

	ProcessStartTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "scheduler",
		Name:      "process_start_time_seconds",
		Help:      "Unix timestamp when the scheduler process started.",
	})
)

func Register() {
	prometheus.MustRegister(
		RunDuration,
		EventsScheduledTotal,
		EventsFailedTotal,
		BumpsPerRun,
		ActiveRuns,
		RescuedEventsTotal,
		ReaperResetTotal,
		ProcessStartTime,
	)
}

// NewServer serves /metrics plus the liveness and readiness endpoints off
// a single port, so the scheduler process doesn't need a second listener.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealthResult(w, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		result := checker.Readiness(r.Context())
		if result.Status != "up" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		writeHealthResult(w, result)
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealthResult(w http.ResponseWriter, result health.HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}
