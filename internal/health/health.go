package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Status — состояние компонента или сервиса в целом.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

const defaultCheckTimeout = 2 * time.Second

// CheckFunc выполняет проверку одной зависимости.
// Деградация (медленный, но живой компонент) выражается ошибкой
// DegradedError; любая другая ошибка означает unhealthy.
type CheckFunc func(ctx context.Context) error

// DegradedError помечает компонент работающим с деградацией.
type DegradedError struct {
	Reason string
}

func (e *DegradedError) Error() string { return e.Reason }

// Check — результат проверки одной зависимости.
type Check struct {
	Name       string `json:"name"`
	Status     Status `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Response — полный ответ health-эндпоинта.
type Response struct {
	Status        Status  `json:"status"`
	Timestamp     string  `json:"timestamp"`
	Checks        []Check `json:"checks,omitempty"`
	Version       string  `json:"version,omitempty"`
	UptimeSeconds int64   `json:"uptime_seconds"`
}

// Handler агрегирует проверки зависимостей и раздаёт /healthz и /readyz.
type Handler struct {
	mu           sync.RWMutex
	checks       map[string]CheckFunc
	version      string
	checkTimeout time.Duration
	startTime    time.Time
}

// NewHandler создаёт health handler с версией сервиса для ответа.
func NewHandler(version string) *Handler {
	return &Handler{
		checks:       make(map[string]CheckFunc),
		version:      version,
		checkTimeout: defaultCheckTimeout,
		startTime:    time.Now(),
	}
}

// Register добавляет именованную проверку зависимости.
func (h *Handler) Register(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

func (h *Handler) snapshot() map[string]CheckFunc {
	h.mu.RLock()
	defer h.mu.RUnlock()
	checks := make(map[string]CheckFunc, len(h.checks))
	for name, check := range h.checks {
		checks[name] = check
	}
	return checks
}

func (h *Handler) runCheck(ctx context.Context, name string, check CheckFunc) Check {
	ctx, cancel := context.WithTimeout(ctx, h.checkTimeout)
	defer cancel()

	start := time.Now()
	err := check(ctx)
	result := Check{
		Name:       name,
		Status:     StatusHealthy,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		var degraded *DegradedError
		if errors.As(err, &degraded) {
			result.Status = StatusDegraded
		} else {
			result.Status = StatusUnhealthy
		}
		result.Message = err.Error()
	}
	return result
}

// ServeHTTP обрабатывает полный health-запрос со всеми проверками.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := h.snapshot()

	results := make([]Check, 0, len(checks))
	overall := StatusHealthy
	for name, check := range checks {
		result := h.runCheck(r.Context(), name, check)
		results = append(results, result)

		switch result.Status {
		case StatusUnhealthy:
			overall = StatusUnhealthy
		case StatusDegraded:
			if overall == StatusHealthy {
				overall = StatusDegraded
			}
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })

	response := Response{
		Status:        overall,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Checks:        results,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	}

	statusCode := http.StatusOK
	if overall == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

// LivenessHandler — liveness probe, всегда отвечает 200.
func LivenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// ReadinessHandler отвечает 503, пока хотя бы одна зависимость unhealthy.
// Degraded считается готовностью: сервис обслуживает запросы медленнее.
func (h *Handler) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	for name, check := range h.snapshot() {
		result := h.runCheck(r.Context(), name, check)
		if result.Status == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
