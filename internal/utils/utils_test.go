package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizarTelefono(t *testing.T) {
	assert.Equal(t, "5512345678", NormalizarTelefono("+52 (55) 1234-5678"))
	assert.Equal(t, "5512345678", NormalizarTelefono("044 55 1234 5678"))
	assert.Equal(t, "1234", NormalizarTelefono("12-34"))
	assert.Equal(t, "", NormalizarTelefono("  "))
}

func TestNormalizarCorreo(t *testing.T) {
	assert.Equal(t, "ana@magno.mx", NormalizarCorreo("  Ana@Magno.MX "))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "casa-en-coyoacan-con-jardin", Slug("Casa en Coyoacán, con jardín!"))
	assert.Equal(t, "", Slug("  ¡¡ "))
	assert.Equal(t, "Nunez Pena", SinAcentos("Núñez Peña"))
}

func TestMoneda(t *testing.T) {
	assert.Equal(t, "$12,500.00 MXN", Moneda(12500))
	assert.Equal(t, "$0.00 MXN", Moneda(0))
	assert.Equal(t, "1,250", Numero(1250))
}

func TestContrasena(t *testing.T) {
	hash, err := HashContrasena("secreta123")
	require.NoError(t, err)
	assert.True(t, VerificarContrasena(hash, "secreta123"))
	assert.False(t, VerificarContrasena(hash, "otra"))

	tmp, err := GenerarContrasenaTemporal()
	require.NoError(t, err)
	assert.Len(t, tmp, 12)
}

type dtoPrueba struct {
	Email string `json:"email" validate:"required,email"`
}

func TestDecodificarYValidar(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"no-es-correo"}`))
	var dto dtoPrueba
	ok := DecodificarYValidar(rec, req, &dto)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Email":"email"`)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.mx"}`))
	assert.True(t, DecodificarYValidar(rec, req, &dto))
}
