// Package metrics define las métricas Prometheus del shell.
//
// Convenciones:
//   - prefijo horarios_ en todas las métricas
//   - sufijo _total en contadores
//   - sufijo _seconds en histogramas de duración
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/gestion-horarios/internal/domain/entity"
)

// Metrics agrupa los colectores sobre un registro propio.
type Metrics struct {
	registry *prometheus.Registry

	LoginsTotal        *prometheus.CounterVec
	GuardVerdictsTotal *prometheus.CounterVec
	SessionClearsTotal *prometheus.CounterVec
	BackendRequests    *prometheus.CounterVec
	BackendLatencySecs *prometheus.HistogramVec
}

// New registra todas las métricas en un registro nuevo.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		LoginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "horarios_logins_total",
			Help: "Intentos de login por resultado y rol.",
		}, []string{"outcome", "role"}),
		GuardVerdictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "horarios_guard_verdicts_total",
			Help: "Veredictos del guard por rol exigido y estado.",
		}, []string{"required_role", "state"}),
		SessionClearsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "horarios_session_clears_total",
			Help: "Limpiezas de sesión por motivo.",
		}, []string{"reason"}),
		BackendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "horarios_backend_requests_total",
			Help: "Peticiones al backend por método, recurso y status (0 = error de red).",
		}, []string{"method", "resource", "status"}),
		BackendLatencySecs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "horarios_backend_request_duration_seconds",
			Help:    "Duración de las peticiones al backend.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}, []string{"method", "resource"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.LoginsTotal,
		m.GuardVerdictsTotal,
		m.SessionClearsTotal,
		m.BackendRequests,
		m.BackendLatencySecs,
	)
	return m
}

// Handler expone el registro en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveBackendRequest implementa apiclient.Observer.
func (m *Metrics) ObserveBackendRequest(method, resource string, status int, elapsed time.Duration) {
	m.BackendRequests.WithLabelValues(method, resource, strconv.Itoa(status)).Inc()
	m.BackendLatencySecs.WithLabelValues(method, resource).Observe(elapsed.Seconds())
}

// ObserveLogin registra un intento de login.
func (m *Metrics) ObserveLogin(ok bool, role entity.Role) {
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	m.LoginsTotal.WithLabelValues(outcome, roleLabel(role)).Inc()
}

// ObserveVerdict registra un veredicto del guard.
func (m *Metrics) ObserveVerdict(required entity.Role, state string) {
	m.GuardVerdictsTotal.WithLabelValues(roleLabel(required), state).Inc()
}

// ObserveClear se suscribe a session.Store.
func (m *Metrics) ObserveClear(ev entity.ClearEvent) {
	m.SessionClearsTotal.WithLabelValues(string(ev.Reason)).Inc()
}

// roleLabel acota la cardinalidad: los roles desconocidos se agrupan en "other".
func roleLabel(r entity.Role) string {
	switch {
	case r == entity.RoleNone:
		return "none"
	case r.IsKnown():
		return string(r)
	default:
		return "other"
	}
}
