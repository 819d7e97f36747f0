// Package monitoreo expone métricas Prometheus del servicio.
package monitoreo

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registro propio para no mezclar con el global en pruebas.
var Registro = prometheus.NewRegistry()

var (
	peticiones = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "magno_http_requests_total",
		Help: "Peticiones HTTP por ruta, método y código.",
	}, []string{"route", "method", "code"})

	latencia = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "magno_http_request_duration_seconds",
		Help:    "Duración de las peticiones HTTP.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	sincronizaciones = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "magno_tokko_sync_properties_total",
		Help: "Propiedades procesadas en la sincronización con Tokko, por resultado.",
	}, []string{"resultado"})

	confirmaciones = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "magno_confirmaciones_total",
		Help: "Acciones confirmadas por tipo y resultado.",
	}, []string{"tipo", "resultado"})

	clientesRealtime = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "magno_realtime_clients",
		Help: "Sesiones WebSocket abiertas.",
	})
)

func init() {
	Registro.MustRegister(
		peticiones, latencia, sincronizaciones, confirmaciones, clientesRealtime,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler sirve /metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registro, promhttp.HandlerOpts{})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware registra conteo y latencia usando la plantilla de ruta de mux,
// así /prospectos/{id} no genera una serie por id.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inicio := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		ruta := "desconocida"
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				ruta = tpl
			}
		}
		peticiones.WithLabelValues(ruta, r.Method, strconv.Itoa(rw.statusCode)).Inc()
		latencia.WithLabelValues(ruta, r.Method).Observe(time.Since(inicio).Seconds())
	})
}

func (rw *responseWriter) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

// Hijack permite que las conexiones WebSocket pasen por el middleware.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack no soportado")
	}
	return h.Hijack()
}

func RegistrarSincronizacion(actualizadas, errores int) {
	sincronizaciones.WithLabelValues("ok").Add(float64(actualizadas))
	sincronizaciones.WithLabelValues("error").Add(float64(errores))
}

func RegistrarConfirmacion(tipo string, err error) {
	resultado := "ok"
	if err != nil {
		resultado = "error"
	}
	confirmaciones.WithLabelValues(tipo, resultado).Inc()
}

func ClienteRealtimeConectado()    { clientesRealtime.Inc() }
func ClienteRealtimeDesconectado() { clientesRealtime.Dec() }
