package monitoreo

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareUsaPlantilla(t *testing.T) {
	r := mux.NewRouter()
	r.Use(Middleware)
	r.HandleFunc("/prospectos/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	antes := testutil.ToFloat64(peticiones.WithLabelValues("/prospectos/{id}", "GET", "404"))
	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/prospectos/"+id, nil))
	}
	despues := testutil.ToFloat64(peticiones.WithLabelValues("/prospectos/{id}", "GET", "404"))
	assert.Equal(t, 2.0, despues-antes)
}

func TestContadores(t *testing.T) {
	RegistrarSincronizacion(3, 1)
	RegistrarConfirmacion("delete_proof", nil)
	RegistrarConfirmacion("delete_proof", errors.New("x"))
	assert.GreaterOrEqual(t, testutil.ToFloat64(sincronizaciones.WithLabelValues("ok")), 3.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(confirmaciones.WithLabelValues("delete_proof", "error")), 1.0)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "magno_confirmaciones_total")
}
