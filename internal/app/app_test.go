package app

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/magno-inmobiliaria/api-admin/internal/almacenamiento"
	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"github.com/magno-inmobiliaria/api-admin/internal/tiemporeal"
	"github.com/magno-inmobiliaria/api-admin/internal/tokko"
	"github.com/magno-inmobiliaria/api-admin/internal/utils/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMigrarEnSQLiteOmiteTriggers(t *testing.T) {
	db := dbtest.Abrir(t)
	require.NoError(t, Migrar(db))
	for _, tabla := range []string{"profiles", "leads_prospectos", "appointments", "rental_applications",
		"property_submissions", "payment_proofs", "rejected_payments", "appraisals", "reports",
		"blog_posts", "notifications", "commissions", "commission_installments", "timeline_events"} {
		assert.True(t, db.Migrator().HasTable(tabla), tabla)
	}
}

func servidor(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()
	k, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	auth.UsarLlave(k, auth.Opciones{KID: "k1", Issuer: "magno", Audience: "admin"})

	db := dbtest.Abrir(t, Modelos()...)
	h := NewRouter(Dependencias{
		DB:       db,
		Almacen:  almacenamiento.NewMemoria("https://cdn.test"),
		Tokko:    tokko.NewClient("http://127.0.0.1:1", "", nil),
		Hub:      tiemporeal.NewHub(),
		Zona:     time.UTC,
		Sondeo:   time.Second,
		Origenes: []string{"http://localhost:3000"},
	})
	return h, db
}

func pedir(t *testing.T, h http.Handler, metodo, ruta, rol, id string, cuerpo string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(metodo, ruta, strings.NewReader(cuerpo))
	if cuerpo != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if rol != "" {
		tok, err := auth.GenerateAccessToken(id, rol)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRutasYRoles(t *testing.T) {
	h, db := servidor(t)

	rec := pedir(t, h, http.MethodGet, "/salud", "", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var salud map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &salud))
	assert.Equal(t, false, salud["realtime"])

	assert.Equal(t, http.StatusUnauthorized, pedir(t, h, http.MethodGet, "/prospectos", "", "", "").Code)
	assert.Equal(t, http.StatusForbidden, pedir(t, h, http.MethodGet, "/comprobantes", auth.RolAsesor, "a-1", "").Code)
	assert.Equal(t, http.StatusForbidden, pedir(t, h, http.MethodGet, "/blog", auth.RolAsesor, "a-1", "").Code)
	assert.Equal(t, http.StatusOK, pedir(t, h, http.MethodGet, "/blog", auth.RolMarketing, "m-1", "").Code)
	assert.Equal(t, http.StatusOK, pedir(t, h, http.MethodGet, "/avaluos", auth.RolAsesor, "a-1", "").Code)
	assert.Equal(t, http.StatusOK, pedir(t, h, http.MethodGet, "/comprobantes", auth.RolAdmin, "ad-1", "").Code)

	// formularios públicos sin token
	assert.Equal(t, http.StatusBadRequest, pedir(t, h, http.MethodPost, "/avaluos", "", "", `{}`).Code)
	assert.Equal(t, http.StatusOK, pedir(t, h, http.MethodGet, "/publico/blog", "", "", "").Code)

	p := models.Perfil{Email: "inq@magno.mx", FullName: "Inquilina", Role: auth.RolInquilino}
	require.NoError(t, db.Create(&p).Error)
	rec = pedir(t, h, http.MethodGet, "/usuarios/me", auth.RolInquilino, p.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "inq@magno.mx")
	assert.Equal(t, http.StatusForbidden, pedir(t, h, http.MethodGet, "/usuarios/"+p.ID, auth.RolInquilino, p.ID, "").Code)

	rec = pedir(t, h, http.MethodGet, "/metrics", "", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `magno_http_requests_total{code="403",method="GET",route="/comprobantes"}`)
}

func TestCORS(t *testing.T) {
	h, _ := servidor(t)
	req := httptest.NewRequest(http.MethodOptions, "/prospectos", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://otro.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
