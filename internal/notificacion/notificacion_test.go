package notificacion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/utils/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestListarYMarcar(t *testing.T) {
	db := dbtest.Abrir(t, &Notificacion{})
	Notificar(db, nil, TipoPago, "Nuevo comprobante", "")
	Notificar(db, ptr("11111111-1111-1111-1111-111111111111"), TipoExito, "Aprobada", "")
	Notificar(db, ptr("22222222-2222-2222-2222-222222222222"), TipoExito, "Otra", "")
	h := NewHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/notificaciones", nil)
	req = req.WithContext(auth.ConUsuario(req.Context(), "11111111-1111-1111-1111-111111111111", auth.RolAdmin))
	rec := httptest.NewRecorder()
	h.Listar(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var lista []Notificacion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lista))
	assert.Len(t, lista, 2)

	req = httptest.NewRequest(http.MethodGet, "/notificaciones", nil)
	req = req.WithContext(auth.ConUsuario(req.Context(), "22222222-2222-2222-2222-222222222222", auth.RolPropietario))
	rec = httptest.NewRecorder()
	h.Listar(rec, req)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lista))
	require.Len(t, lista, 1)
	assert.Equal(t, "Otra", lista[0].Title)

	req = mux.SetURLVars(httptest.NewRequest(http.MethodPatch, "/", nil), map[string]string{"id": lista[0].ID})
	rec = httptest.NewRecorder()
	h.MarcarLeida(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = mux.SetURLVars(httptest.NewRequest(http.MethodPatch, "/", nil), map[string]string{"id": "no-existe"})
	rec = httptest.NewRecorder()
	h.MarcarLeida(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodPatch, "/", nil)
	req = req.WithContext(auth.ConUsuario(req.Context(), "11111111-1111-1111-1111-111111111111", auth.RolAdmin))
	rec = httptest.NewRecorder()
	h.MarcarTodas(rec, req)
	assert.JSONEq(t, `{"actualizadas":2}`, rec.Body.String())
}

func TestCrearValida(t *testing.T) {
	db := dbtest.Abrir(t, &Notificacion{})
	h := NewHandler(db)
	rec := httptest.NewRecorder()
	h.Crear(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"type":"report"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Title")
}

func TestWebhookDuplicado(t *testing.T) {
	var recibido map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&recibido)
	}))
	defer srv.Close()

	NewWebhook(srv.URL).EnviarAlertaDuplicado(context.Background(), "l1", "a@b.mx", "5512345678")
	assert.Equal(t, "l1", recibido["lead_id"])

	// sin URL no hace nada
	NewWebhook("").EnviarAlertaDuplicado(context.Background(), "l1", "", "")
}
