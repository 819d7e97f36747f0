package reporte

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/magno-inmobiliaria/api-admin/internal/almacenamiento"
	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"github.com/magno-inmobiliaria/api-admin/internal/notificacion"
	"github.com/magno-inmobiliaria/api-admin/internal/propiedad"
	"github.com/magno-inmobiliaria/api-admin/internal/timeline"
	"github.com/magno-inmobiliaria/api-admin/internal/utils/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func abrir(t *testing.T) *gorm.DB {
	return dbtest.Abrir(t, &Reporte{}, &models.Perfil{}, &propiedad.Propiedad{}, &propiedad.PropiedadInterna{},
		&timeline.Evento{}, &notificacion.Notificacion{})
}

func TestListarConDetalle(t *testing.T) {
	db := abrir(t)
	u := models.Perfil{Email: "inq@x.mx", FullName: "Sofía", Role: auth.RolInquilino}
	require.NoError(t, db.Create(&u).Error)
	pub := propiedad.Propiedad{Ref: "MAG-1", Title: "Casa Coyoacán", Address: "Av. México 10"}
	require.NoError(t, db.Create(&pub).Error)
	interna := propiedad.PropiedadInterna{Ref: "INT-9", Title: "Bodega", Address: "Tlalpan 3"}
	require.NoError(t, db.Create(&interna).Error)

	require.NoError(t, db.Create(&Reporte{UserID: &u.ID, PropertyID: &pub.ID, Title: "Fuga", Status: EstadoPendiente}).Error)
	require.NoError(t, db.Create(&Reporte{UserID: &u.ID, InternalPropertyID: &interna.ID, Title: "Luz", Status: EstadoResuelto}).Error)

	out, err := NewRepository().Listar(db, "")
	require.NoError(t, err)
	require.Len(t, out, 2)
	porTitulo := map[string]ConDetalle{}
	for _, r := range out {
		porTitulo[r.Title] = r
	}
	assert.Equal(t, "Sofía", porTitulo["Fuga"].UserName)
	assert.Equal(t, "Av. México 10", porTitulo["Fuga"].PropertyAddress)
	assert.Equal(t, "INT-9", porTitulo["Luz"].PropertyRef)
	assert.Equal(t, "Bodega", porTitulo["Luz"].PropertyTitle)

	pend, err := NewRepository().Listar(db, EstadoPendiente)
	require.NoError(t, err)
	assert.Len(t, pend, 1)
}

func TestActualizarEstadoRegistraTimeline(t *testing.T) {
	db := abrir(t)
	pub := propiedad.Propiedad{Ref: "MAG-1", Title: "Casa"}
	require.NoError(t, db.Create(&pub).Error)
	conProp := Reporte{PropertyID: &pub.ID, Title: "Fuga", Status: EstadoPendiente}
	sinProp := Reporte{Title: "Vecino", Status: EstadoPendiente}
	require.NoError(t, db.Create(&conProp).Error)
	require.NoError(t, db.Create(&sinProp).Error)

	rep, err := ActualizarEstado(db, conProp.ID, EstadoEnProgreso)
	require.NoError(t, err)
	assert.Equal(t, EstadoEnProgreso, rep.Status)
	_, err = ActualizarEstado(db, sinProp.ID, EstadoResuelto)
	require.NoError(t, err)

	var eventos []timeline.Evento
	require.NoError(t, db.Find(&eventos).Error)
	require.Len(t, eventos, 1)
	assert.Equal(t, "Reporte En Progreso", eventos[0].Title)
	assert.Equal(t, `Incidencia: "Fuga". Estado cambiado a in_progress.`, eventos[0].Description)

	_, err = ActualizarEstado(db, "no-existe", EstadoResuelto)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCrearConImagenes(t *testing.T) {
	db := abrir(t)
	almacen := almacenamiento.NewMemoria("https://cdn.magno.mx")
	h := NewHandler(db, almacen)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("report_type", "property"))
	require.NoError(t, mw.WriteField("title", "Humedad en baño"))
	require.NoError(t, mw.WriteField("description", "Sale agua de la pared"))
	for _, nombre := range []string{"a.jpg", "b.png"} {
		fw, err := mw.CreateFormFile("imagenes", nombre)
		require.NoError(t, err)
		_, _ = fw.Write([]byte(nombre))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/reportes", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = req.WithContext(auth.ConUsuario(req.Context(), "u1", auth.RolInquilino))
	rec := httptest.NewRecorder()
	h.Crear(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var rep Reporte
	require.NoError(t, db.First(&rep).Error)
	assert.Len(t, rep.ImageURLs, 2)
	assert.Len(t, almacen.Objetos, 2)
	for _, u := range rep.ImageURLs {
		assert.True(t, strings.HasPrefix(u, "https://cdn.magno.mx/"+almacenamiento.CarpetaReportes+"/u1_"), u)
	}

	var n notificacion.Notificacion
	require.NoError(t, db.First(&n).Error)
	assert.Equal(t, "Nuevo reporte: Humedad en baño", n.Title)
}

func TestEstadoYEliminarHTTP(t *testing.T) {
	db := abrir(t)
	h := NewHandler(db, almacenamiento.NewMemoria(""))
	rep := Reporte{Title: "X", Status: EstadoPendiente}
	require.NoError(t, db.Create(&rep).Error)

	req := mux.SetURLVars(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"cerrado"}`)),
		map[string]string{"id": rep.ID})
	rec := httptest.NewRecorder()
	h.ActualizarEstado(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"id": rep.ID})
	rec = httptest.NewRecorder()
	h.Eliminar(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.Eliminar(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
