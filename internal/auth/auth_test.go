package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"github.com/magno-inmobiliaria/api-admin/internal/utils"
	"github.com/magno-inmobiliaria/api-admin/internal/utils/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func llavesDePrueba(t *testing.T) {
	t.Helper()
	k, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	UsarLlave(k, Opciones{KID: "k1", Issuer: "magno", Audience: "admin"})
}

func TestTokenIdaYVuelta(t *testing.T) {
	llavesDePrueba(t)

	tok, err := GenerateAccessToken("u-1", RolAsesor)
	require.NoError(t, err)

	c, err := ParseAndValidate(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", c.UserID)
	assert.Equal(t, RolAsesor, c.Rol)

	_, err = ParseAndValidate(tok + "x")
	assert.Error(t, err)
}

func TestTokenConOtraAudiencia(t *testing.T) {
	llavesDePrueba(t)
	tok, err := GenerateAccessToken("u-1", RolAdmin)
	require.NoError(t, err)

	k, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	UsarLlave(k, Opciones{KID: "k1", Issuer: "magno", Audience: "otra"})
	_, err = ParseAndValidate(tok)
	assert.Error(t, err)
}

func TestMiddlewareYRoles(t *testing.T) {
	llavesDePrueba(t)
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, rol := Usuario(r.Context())
		_, _ = w.Write([]byte(id + ":" + rol))
	})
	h := MiddlewareAutenticacao(RequireRoles(RolAdmin, RolMarketing)(final))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, _ := GenerateAccessToken("u-2", RolAsesor)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	tok, _ = GenerateAccessToken("u-3", RolMarketing)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-3:marketing", rec.Body.String())
}

func TestTokenEnQuerySoloParaWebSocket(t *testing.T) {
	llavesDePrueba(t)
	h := MiddlewareAutenticacao(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	tok, _ := GenerateAccessToken("u-4", RolAdmin)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws?access_token="+tok, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/ws?access_token="+tok, nil)
	req.Header.Set("Upgrade", "websocket")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPuedeVer(t *testing.T) {
	assert.True(t, PuedeVer(RolAsesor, "leads-crm"))
	assert.False(t, PuedeVer(RolAsesor, "blog"))
	assert.True(t, PuedeVer(RolMarketing, "landing-pages"))
	assert.False(t, PuedeVer(RolInquilino, "appointments"))
}

func TestLoginRefreshLogout(t *testing.T) {
	llavesDePrueba(t)
	db := dbtest.Abrir(t, &models.Perfil{}, &RefreshToken{})
	hash, err := utils.HashContrasena("secreta123")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Perfil{Email: "ana@magno.mx", Role: RolAsesor, PasswordHash: hash}).Error)
	h := NewHandler(db)

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"ANA@magno.mx","password":"mal"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"ANA@magno.mx","password":"secreta123"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "leads-crm")
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	primera := cookies[0]

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(primera)
	rec = httptest.NewRecorder()
	RefreshHTTPHandler(db)(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "access_token")

	// el refresh usado queda revocado
	req = httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(primera)
	rec = httptest.NewRecorder()
	RefreshHTTPHandler(db)(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	LogoutHTTPHandler(db)(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRegistroPersonalRequiereAdmin(t *testing.T) {
	llavesDePrueba(t)
	db := dbtest.Abrir(t, &models.Perfil{})
	h := NewHandler(db)
	body := `{"email":"nuevo@magno.mx","full_name":"Nuevo","role":"asesor","advisor_type":"cerrador"}`

	rec := httptest.NewRecorder()
	h.Registro(rec, httptest.NewRequest(http.MethodPost, "/auth/registro", strings.NewReader(body)))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/auth/registro", strings.NewReader(body))
	req = req.WithContext(ConUsuario(req.Context(), "admin-1", RolAdmin))
	rec = httptest.NewRecorder()
	h.Registro(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "contrasena_temporal")

	req = httptest.NewRequest(http.MethodPost, "/auth/registro", strings.NewReader(body))
	req = req.WithContext(ConUsuario(req.Context(), "admin-1", RolAdmin))
	rec = httptest.NewRecorder()
	h.Registro(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestReverificar(t *testing.T) {
	db := dbtest.Abrir(t, &models.Perfil{})
	hash, _ := utils.HashContrasena("secreta123")
	p := models.Perfil{Email: "a@magno.mx", Role: RolAdmin, PasswordHash: hash}
	require.NoError(t, db.Create(&p).Error)
	h := NewHandler(db)

	req := httptest.NewRequest(http.MethodPost, "/auth/reverificar", strings.NewReader(`{"password":"otra"}`))
	req = req.WithContext(ConUsuario(req.Context(), p.ID, RolAdmin))
	rec := httptest.NewRecorder()
	h.Reverificar(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/auth/reverificar", strings.NewReader(`{"password":"secreta123"}`))
	req = req.WithContext(ConUsuario(req.Context(), p.ID, RolAdmin))
	rec = httptest.NewRecorder()
	h.Reverificar(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestJWKSConservaLlaveAnterior(t *testing.T) {
	viejo, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	UsarLlave(viejo, Opciones{KID: "rot-1", Issuer: "magno", Audience: "admin"})
	tok, err := GenerateAccessToken("u-9", RolAdmin)
	require.NoError(t, err)

	nuevo, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	UsarLlave(nuevo, Opciones{KID: "rot-2", Issuer: "magno", Audience: "admin"})

	_, err = ParseAndValidate(tok)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	JWKSHandler(rec, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var set jwks
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &set))
	require.GreaterOrEqual(t, len(set.Keys), 2)
	assert.Equal(t, "rot-2", set.Keys[0].Kid)
	assert.Equal(t, "RS256", set.Keys[0].Alg)
	var kids []string
	for _, k := range set.Keys {
		kids = append(kids, k.Kid)
	}
	assert.Contains(t, kids, "rot-1")
}
