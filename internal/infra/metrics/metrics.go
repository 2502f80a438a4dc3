package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"voice-servo/internal/domain"
)

type Prometheus struct {
	registry      *prometheus.Registry
	commands      *prometheus.CounterVec
	failures      *prometheus.CounterVec
	transcription prometheus.Histogram
}

func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Prometheus{
		registry: reg,
		commands: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voice_servo_commands_total",
			Help: "Commands published to the broker",
		}, []string{"command"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voice_servo_failures_total",
			Help: "Loop iterations that ended in the error state",
		}, []string{"kind"}),
		transcription: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voice_servo_transcription_seconds",
			Help:    "Time spent waiting for the transcription backend",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (p *Prometheus) CommandPublished(cmd domain.Command) {
	p.commands.WithLabelValues(string(cmd)).Inc()
}

func (p *Prometheus) Failure(kind domain.ErrorKind) {
	p.failures.WithLabelValues(string(kind)).Inc()
}

func (p *Prometheus) Transcribed(elapsed time.Duration) {
	p.transcription.Observe(elapsed.Seconds())
}

func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (p *Prometheus) Serve(ctx context.Context, addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", p.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	go func() {
		logger.Info("metrics server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "error", err)
		}
	}()
}
