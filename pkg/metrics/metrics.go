// Package metrics instrumentación Prometheus de la terminal.
//
// Los colectores se registran en Registry al importar el paquete; la capa HTTP
// expone Registry en /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "warung_pos"

// Resultados de un intento de cobro.
const (
	OutcomeSettled  = "settled"
	OutcomeFailed   = "failed"
	OutcomeNotReady = "not_ready"
)

var (
	// Settlements cuenta los intentos de cobro por resultado.
	Settlements = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "settlements_total",
			Help:      "Intentos de cobro por resultado.",
		},
		[]string{"outcome"},
	)

	// StoreOperations cuenta las operaciones contra el store compartido.
	StoreOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Operaciones contra el store por driver, operación y estado.",
		},
		[]string{"driver", "op", "status"},
	)

	// HTTPDuration latencia de la API local.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duración de las peticiones HTTP en segundos.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Registry registro propio (no el global) para no mezclar métricas de librerías.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	Registry.MustRegister(Settlements, StoreOperations, HTTPDuration)
}

// ObserveStore registra una operación del store; err != nil cuenta como "error".
func ObserveStore(driver, op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	StoreOperations.WithLabelValues(driver, op, status).Inc()
}

// Handler devuelve el handler net/http de exposición.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
