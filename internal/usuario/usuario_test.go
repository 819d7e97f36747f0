package usuario

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/comprobante"
	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"github.com/magno-inmobiliaria/api-admin/internal/propiedad"
	"github.com/magno-inmobiliaria/api-admin/internal/timeline"
	"github.com/magno-inmobiliaria/api-admin/internal/utils"
	"github.com/magno-inmobiliaria/api-admin/internal/utils/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func abrir(t *testing.T) *gorm.DB {
	db := dbtest.Abrir(t, &models.Perfil{}, &propiedad.Propiedad{}, &propiedad.PropiedadInterna{},
		&timeline.Evento{}, &auth.RefreshToken{})
	require.NoError(t, db.Exec("CREATE TABLE signed_documents (id TEXT PRIMARY KEY, property_id TEXT, user_id TEXT)").Error)
	require.NoError(t, db.Exec("CREATE TABLE payment_proofs (id TEXT PRIMARY KEY, property_id TEXT)").Error)
	return db
}

func TestGuardarClienteFolioPublico(t *testing.T) {
	db := abrir(t)
	pub := propiedad.Propiedad{Ref: "MG-100", Title: "Depa", Type: propiedad.TipoRenta}
	require.NoError(t, db.Create(&pub).Error)

	p, temporal, err := GuardarCliente(db, &Cliente{
		Email: " Ana@Correo.com ", FullName: "Ana", Role: auth.RolInquilino,
		PropertyCode: "MG-100", PropertyTitle: "Depa remodelado",
	})
	require.NoError(t, err)
	assert.Len(t, temporal, 12)
	assert.True(t, utils.VerificarContrasena(p.PasswordHash, temporal))
	assert.Equal(t, "ana@correo.com", p.Email)
	require.NotNil(t, p.PropertyID)
	assert.Equal(t, pub.ID, *p.PropertyID)

	var got propiedad.Propiedad
	require.NoError(t, db.First(&got, "id = ?", pub.ID).Error)
	assert.Equal(t, "Depa remodelado", got.Title)
	require.NotNil(t, got.TenantID)
	assert.Equal(t, p.ID, *got.TenantID)

	// edición: no genera otra contraseña
	p2, temporal, err := GuardarCliente(db, &Cliente{ID: p.ID, Email: p.Email, FullName: "Ana María", Role: auth.RolInquilino, PropertyCode: "MG-100"})
	require.NoError(t, err)
	assert.Empty(t, temporal)
	assert.Equal(t, "Ana María", p2.FullName)
}

func TestGuardarClienteFolioInternoTienePrioridad(t *testing.T) {
	db := abrir(t)
	require.NoError(t, db.Create(&propiedad.Propiedad{Ref: "INT-1", Title: "Publicada", Type: propiedad.TipoRenta}).Error)
	require.NoError(t, db.Create(&propiedad.PropiedadInterna{Ref: "INT-1", Title: "Interna"}).Error)

	p, _, err := GuardarCliente(db, &Cliente{Email: "b@c.com", FullName: "B", Role: auth.RolPropietario, PropertyCode: "INT-1"})
	require.NoError(t, err)
	assert.Nil(t, p.PropertyID)

	var interna propiedad.PropiedadInterna
	require.NoError(t, db.Where("ref = ?", "INT-1").First(&interna).Error)
	require.NotNil(t, interna.OwnerID)
	assert.Equal(t, p.ID, *interna.OwnerID)
}

func TestGuardarClienteFolioNuevo(t *testing.T) {
	db := abrir(t)
	_, _, err := GuardarCliente(db, &Cliente{Email: "c@c.com", FullName: "C", Role: auth.RolInquilino, PropertyCode: "NUEVO-7"})
	require.ErrorIs(t, err, ErrFaltanDatosPropiedad)
	assert.Equal(t, `La propiedad con folio "NUEVO-7" no existe. Para crearla automáticamente, debes llenar el Título y la Dirección.`, err.Error())

	var n int64
	db.Model(&models.Perfil{}).Count(&n)
	assert.Zero(t, n)

	_, _, err = GuardarCliente(db, &Cliente{Email: "c@c.com", FullName: "C", Role: auth.RolInquilino,
		PropertyCode: "NUEVO-7", PropertyTitle: "Casa Coyoacán", PropertyAddress: "Centenario 5", MonthlyAmount: 18000})
	require.NoError(t, err)
	var interna propiedad.PropiedadInterna
	require.NoError(t, db.Where("ref = ?", "NUEVO-7").First(&interna).Error)
	assert.Equal(t, propiedad.EstadoRentada, interna.Status)
	assert.Equal(t, 18000.0, interna.Price)
}

func TestEliminarDesvinculaOPurga(t *testing.T) {
	db := abrir(t)
	dueno := models.Perfil{Email: "d@c.com", Role: auth.RolPropietario}
	require.NoError(t, db.Create(&dueno).Error)
	casa := propiedad.Propiedad{Ref: "P-1", Title: "Casa", Type: propiedad.TipoVenta, OwnerID: &dueno.ID}
	require.NoError(t, db.Create(&casa).Error)

	require.NoError(t, NewRepository().Eliminar(db, dueno.ID, false))
	var got propiedad.Propiedad
	require.NoError(t, db.First(&got, "id = ?", casa.ID).Error)
	assert.Nil(t, got.OwnerID)

	otro := models.Perfil{Email: "e@c.com", Role: auth.RolPropietario}
	require.NoError(t, db.Create(&otro).Error)
	depa := propiedad.Propiedad{Ref: "P-2", Title: "Depa", Type: propiedad.TipoRenta, OwnerID: &otro.ID}
	require.NoError(t, db.Create(&depa).Error)
	require.NoError(t, db.Exec("INSERT INTO signed_documents (id, property_id, user_id) VALUES ('s1', NULL, ?)", otro.ID).Error)

	require.NoError(t, NewRepository().Eliminar(db, otro.ID, true))
	var n int64
	db.Model(&propiedad.Propiedad{}).Where("id = ?", depa.ID).Count(&n)
	assert.Zero(t, n)
	db.Table("signed_documents").Count(&n)
	assert.Zero(t, n)

	assert.ErrorIs(t, NewRepository().Eliminar(db, otro.ID, true), gorm.ErrRecordNotFound)
}

func TestHandlerGuardarCliente(t *testing.T) {
	db := abrir(t)
	h := NewHandler(db)

	rec := httptest.NewRecorder()
	h.GuardarCliente(rec, httptest.NewRequest(http.MethodPost, "/clientes",
		strings.NewReader(`{"email":"f@c.com","full_name":"F","role":"tenant","property_code":"X-1"}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `folio "X-1" no existe`)

	rec = httptest.NewRecorder()
	h.GuardarCliente(rec, httptest.NewRequest(http.MethodPost, "/clientes",
		strings.NewReader(`{"email":"f@c.com","full_name":"F","role":"tenant","property_code":"X-1","property_title":"T","property_address":"D"}`)))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "contrasena_temporal")

	rec = httptest.NewRecorder()
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "nadie"})
	h.BuscarPorID(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGuardarClienteSincronizaPagosManuales(t *testing.T) {
	db := dbtest.Abrir(t, &models.Perfil{}, &propiedad.Propiedad{}, &propiedad.PropiedadInterna{}, &comprobante.Comprobante{})
	require.NoError(t, db.Create(&propiedad.PropiedadInterna{Ref: "INT-9", Title: "Depto", Address: "Roma 1"}).Error)

	p, _, err := GuardarCliente(db, &Cliente{Email: "d@c.com", FullName: "D", Role: auth.RolInquilino,
		PropertyCode: "INT-9", MonthlyAmount: 9000, PaidMonths: []string{"2026-01", "2026-02"}})
	require.NoError(t, err)

	meses := func() []string {
		var out []string
		require.NoError(t, db.Model(&comprobante.Comprobante{}).Where("user_id = ?", p.ID).
			Order("month_year").Pluck("month_year", &out).Error)
		return out
	}
	assert.Equal(t, []string{"2026-01", "2026-02"}, meses())

	var c comprobante.Comprobante
	require.NoError(t, db.Where("user_id = ?", p.ID).First(&c).Error)
	require.NotNil(t, c.InternalPropertyID)
	assert.Nil(t, c.PropertyID)
	assert.Equal(t, comprobante.URLManual, c.ProofURL)

	_, _, err = GuardarCliente(db, &Cliente{ID: p.ID, Email: "d@c.com", FullName: "D", Role: auth.RolInquilino,
		PropertyCode: "INT-9", MonthlyAmount: 9000, PaidMonths: []string{"2026-02", "2026-03"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-02", "2026-03"}, meses())

	// sin paid_months no se tocan
	_, _, err = GuardarCliente(db, &Cliente{ID: p.ID, Email: "d@c.com", FullName: "D", Role: auth.RolInquilino, PropertyCode: "INT-9"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-02", "2026-03"}, meses())
}
