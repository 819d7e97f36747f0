package confirmacion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/magno-inmobiliaria/api-admin/internal/almacenamiento"
	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/blog"
	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"github.com/magno-inmobiliaria/api-admin/internal/propiedad"
	"github.com/magno-inmobiliaria/api-admin/internal/prospecto"
	"github.com/magno-inmobiliaria/api-admin/internal/timeline"
	"github.com/magno-inmobiliaria/api-admin/internal/utils/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sinAlertas struct{}

func (sinAlertas) EnviarAlertaDuplicado(context.Context, string, string, string) {}

func abrir(t *testing.T) (*gorm.DB, *Handler) {
	db := dbtest.Abrir(t, &propiedad.Propiedad{}, &timeline.Evento{}, &blog.Post{},
		&models.Prospecto{}, &models.Comentario{}, &models.ActividadAsesor{}, &models.Perfil{})
	svc := prospecto.NewServicio(db, almacenamiento.NewMemoria(""), sinAlertas{})
	return db, NewHandler(NewDespachador(db, svc))
}

func como(r *http.Request, id, rol string) *http.Request {
	return r.WithContext(auth.ConUsuario(r.Context(), id, rol))
}

func proponer(t *testing.T, h *Handler, usuario, rol, body string) (*httptest.ResponseRecorder, Pendiente) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Proponer(rec, como(httptest.NewRequest(http.MethodPost, "/confirmaciones", strings.NewReader(body)), usuario, rol))
	var pe Pendiente
	if rec.Code == http.StatusCreated {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pe))
	}
	return rec, pe
}

func confirmar(h *Handler, usuario, rol, id string) *httptest.ResponseRecorder {
	req := mux.SetURLVars(httptest.NewRequest(http.MethodPost, "/", nil), map[string]string{"id": id})
	rec := httptest.NewRecorder()
	h.Confirmar(rec, como(req, usuario, rol))
	return rec
}

func TestConfirmarDosVecesNoRepite(t *testing.T) {
	db, h := abrir(t)
	post := blog.Post{Title: "Nota"}
	require.NoError(t, blog.Guardar(db, &post))

	rec, pe := proponer(t, h, "adm", auth.RolAdmin, `{"tipo":"delete_blog_post","datos":{"id":"`+post.ID+`"}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "ELIMINAR NOTICIA", pe.Titulo)
	assert.NotEmpty(t, pe.ID)

	var n int64
	db.Model(&blog.Post{}).Count(&n)
	assert.EqualValues(t, 1, n, "proponer no modifica nada")

	assert.Equal(t, http.StatusOK, confirmar(h, "adm", auth.RolAdmin, pe.ID).Code)
	db.Model(&blog.Post{}).Count(&n)
	assert.Zero(t, n)

	// la segunda confirmación no encuentra la acción
	require.NoError(t, blog.Guardar(db, &blog.Post{Title: "Otra"}))
	assert.Equal(t, http.StatusNotFound, confirmar(h, "adm", auth.RolAdmin, pe.ID).Code)
	db.Model(&blog.Post{}).Count(&n)
	assert.EqualValues(t, 1, n)
}

func TestProponerValidaTipoRolYDatos(t *testing.T) {
	_, h := abrir(t)

	rec, _ := proponer(t, h, "adm", auth.RolAdmin, `{"tipo":"formatear_disco","datos":{"id":"x"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = proponer(t, h, "a1", auth.RolAsesor, `{"tipo":"delete_user","datos":{"id":"u1"}}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = proponer(t, h, "m1", auth.RolMarketing, `{"tipo":"delete_blog_post","datos":{}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = proponer(t, h, "adm", auth.RolAdmin, `{"tipo":"status","datos":{"id":"p1","status":"vendida"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, pe := proponer(t, h, "adm", auth.RolAdmin, `{"tipo":"delete_user","datos":{"id":"u1","name":"Rosa","purge":true}}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, `¿Deseas eliminar a "Rosa" y eliminar también sus propiedades y documentos?`, pe.Mensaje)
}

func TestEstadoPropiedad(t *testing.T) {
	db, h := abrir(t)
	p := propiedad.Propiedad{Ref: "MAG-1", Title: "Loft", Type: propiedad.TipoRenta, Status: propiedad.EstadoApartada}
	require.NoError(t, db.Create(&p).Error)

	rec, pe := proponer(t, h, "adm", auth.RolAdmin, `{"tipo":"status","datos":{"id":"`+p.ID+`","status":"available"}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "DESAPARTAR PROPIEDAD", pe.Titulo)

	require.Equal(t, http.StatusOK, confirmar(h, "adm", auth.RolAdmin, pe.ID).Code)
	var got propiedad.Propiedad
	require.NoError(t, db.First(&got, "id = ?", p.ID).Error)
	assert.Equal(t, propiedad.EstadoDisponible, got.Status)

	_, pe = proponer(t, h, "adm", auth.RolAdmin, `{"tipo":"status","datos":{"id":"`+p.ID+`","status":"rented"}}`)
	assert.Equal(t, "RENTAR PROPIEDAD", pe.Titulo)
	assert.Equal(t, `¿Estás seguro de que deseas RENTAR la propiedad "Loft"?`, pe.Mensaje)
}

func TestEstadoProspecto(t *testing.T) {
	db, h := abrir(t)
	a1 := "a1"
	l := models.Prospecto{FullName: "Tere", Status: models.EstadoContactando, AssignedTo: &a1}
	require.NoError(t, db.Create(&l).Error)

	// otro asesor no puede mover un prospecto que no le pertenece
	_, pe := proponer(t, h, "a2", auth.RolAsesor,
		`{"tipo":"lead_status","datos":{"id":"`+l.ID+`","name":"Tere","status":"closed_lost"}}`)
	require.NotEmpty(t, pe.ID)
	assert.Equal(t, http.StatusForbidden, confirmar(h, "a2", auth.RolAsesor, pe.ID).Code)

	_, pe = proponer(t, h, "a1", auth.RolAsesor,
		`{"tipo":"lead_status","datos":{"id":"`+l.ID+`","name":"Tere","status":"interested"}}`)
	require.Equal(t, http.StatusOK, confirmar(h, "a1", auth.RolAsesor, pe.ID).Code)

	var got models.Prospecto
	require.NoError(t, db.First(&got, "id = ?", l.ID).Error)
	assert.Equal(t, models.EstadoInteresado, got.Status)

	// no existe y no hay contexto: el mensaje explica qué pasó
	_, pe = proponer(t, h, "a1", auth.RolAsesor,
		`{"tipo":"lead_status","datos":{"id":"0f9c5b7e-1111-4222-8333-444455556666","status":"interested"}}`)
	rec := confirmar(h, "a1", auth.RolAsesor, pe.ID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No se encontró el prospecto con ID 0f9c5b7e...")
}

func TestCancelarOtroUsuarioYVencida(t *testing.T) {
	_, h := abrir(t)
	body := `{"tipo":"delete_proof","datos":{"id":"c1"}}`

	_, pe := proponer(t, h, "adm", auth.RolAdmin, body)
	assert.Equal(t, http.StatusNotFound, confirmar(h, "otro", auth.RolAdmin, pe.ID).Code)

	req := mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"id": pe.ID})
	rec := httptest.NewRecorder()
	h.Cancelar(rec, como(req, "adm", auth.RolAdmin))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, http.StatusNotFound, confirmar(h, "adm", auth.RolAdmin, pe.ID).Code)

	reloj := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	h.Pendientes.ahora = func() time.Time { return reloj }
	_, pe = proponer(t, h, "adm", auth.RolAdmin, body)
	reloj = reloj.Add(Vigencia + time.Second)
	assert.Equal(t, http.StatusNotFound, confirmar(h, "adm", auth.RolAdmin, pe.ID).Code)
}
