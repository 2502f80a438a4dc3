package audio

import (
	"bytes"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"voice-servo/internal/domain"
)

const maxUploadBytes = 4 << 20

// HTTPSource accepts WAV uploads on POST /audio from a remote microphone and
// hands them to Capture one at a time.
type HTTPSource struct {
	addr        string
	authToken   string
	timeout     time.Duration
	server      *http.Server
	queue       chan domain.Utterance
	logger      *slog.Logger
	mux         *http.ServeMux
	rateLimiter *RateLimiter

	mu      sync.Mutex
	running bool
}

func NewHTTPSource(addr, authToken string, timeout time.Duration, logger *slog.Logger) *HTTPSource {
	h := &HTTPSource{
		addr:        addr,
		authToken:   authToken,
		timeout:     timeout,
		queue:       make(chan domain.Utterance, 4),
		logger:      logger,
		mux:         http.NewServeMux(),
		rateLimiter: NewRateLimiter(30, time.Minute),
	}
	h.mux.HandleFunc("POST /audio", h.rateLimiter.Middleware(h.requireToken(h.handleAudio)))
	h.mux.HandleFunc("GET /health", h.handleHealth)
	return h
}

// SetTrustedProxies lets the rate limiter key requests from these CIDRs by
// their forwarding headers.
func (h *HTTPSource) SetTrustedProxies(cidrs []string) error {
	return h.rateLimiter.SetTrustedProxies(cidrs)
}

func (h *HTTPSource) Name() string {
	return "http"
}

func (h *HTTPSource) Handler() http.Handler {
	return h.mux
}

func (h *HTTPSource) Start(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.running {
		return nil
	}

	h.server = &http.Server{
		Addr:         h.addr,
		Handler:      h.mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		h.logger.Info("HTTP audio server starting", "addr", h.addr)
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			h.logger.Error("HTTP server error", "error", err)
		}
	}()

	h.running = true
	return nil
}

func (h *HTTPSource) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.running {
		return nil
	}
	h.running = false

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.server.Shutdown(ctx); err != nil {
		h.logger.Warn("graceful shutdown failed, forcing close", "error", err)
		if err := h.server.Close(); err != nil {
			return fmt.Errorf("closing server: %w", err)
		}
	}
	return nil
}

func (h *HTTPSource) Capture(ctx context.Context) (domain.Utterance, error) {
	var deadline <-chan time.Time
	if h.timeout > 0 {
		timer := time.NewTimer(h.timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	select {
	case <-ctx.Done():
		return domain.Utterance{}, ctx.Err()
	case <-deadline:
		return domain.Utterance{}, fmt.Errorf("%w: no upload within %s", domain.ErrCaptureTimeout, h.timeout)
	case u := <-h.queue:
		return u, nil
	}
}

func (h *HTTPSource) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.authToken == "" {
			next(w, r)
			return
		}

		token := r.Header.Get("X-Auth-Token")
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(h.authToken)) != 1 {
			h.logger.Warn("unauthorized audio upload", "remote_addr", r.RemoteAddr)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (h *HTTPSource) handleAudio(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn("audio upload too large", "limit", tooLarge.Limit, "remote_addr", r.RemoteAddr)
			http.Error(w, fmt.Sprintf("audio larger than %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	if len(data) == 0 {
		http.Error(w, "empty audio", http.StatusBadRequest)
		return
	}

	u, err := DecodeWAV(bytes.NewReader(data))
	if err != nil {
		http.Error(w, "invalid wav: "+err.Error(), http.StatusUnsupportedMediaType)
		return
	}

	select {
	case h.queue <- u:
		h.logger.Info("received audio via HTTP", "bytes", len(data), "seconds", u.Duration())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprintf(w, `{"status":"received","samples":%d}`, len(u.Samples))
	default:
		http.Error(w, "queue full, try again", http.StatusServiceUnavailable)
	}
}

func (h *HTTPSource) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	running := h.running
	h.mu.Unlock()

	statusCode := http.StatusOK
	status := "ok"
	if !running {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	fmt.Fprintf(w, `{"status":"%s","queued":%d}`, status, len(h.queue))
}
