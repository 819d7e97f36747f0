package prospecto

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/magno-inmobiliaria/api-admin/internal/almacenamiento"
	"github.com/magno-inmobiliaria/api-admin/internal/asesor"
	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/comision"
	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"github.com/magno-inmobiliaria/api-admin/internal/notificacion"
	"github.com/magno-inmobiliaria/api-admin/internal/utils/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	asesorID = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	propID   = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
)

type alertasFalsas struct{ leads []string }

func (a *alertasFalsas) EnviarAlertaDuplicado(_ context.Context, leadID, _, _ string) {
	a.leads = append(a.leads, leadID)
}

func ptr[T any](v T) *T { return &v }

func abrir(t *testing.T) (*gorm.DB, *Servicio, *alertasFalsas) {
	db := dbtest.Abrir(t,
		&models.Prospecto{}, &models.Perfil{}, &models.Comentario{}, &models.ActividadAsesor{},
		&asesor.Perfil{}, &comision.Comision{}, &comision.Parcela{}, &notificacion.Notificacion{})
	require.NoError(t, db.Exec(`CREATE TABLE properties (id TEXT PRIMARY KEY, price REAL)`).Error)
	alertas := &alertasFalsas{}
	s := NewServicio(db, almacenamiento.NewMemoria("https://cdn.magno.mx"), alertas)
	s.Ahora = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return db, s, alertas
}

func TestRegistrarNormalizaYAlertaDuplicado(t *testing.T) {
	db, s, alertas := abrir(t)
	ctx := context.Background()

	a := models.Prospecto{FullName: "Mario Ruiz", Email: " Mario@Correo.MX ", Phone: "+52 (55) 1234-5678",
		Intent: models.IntencionRentar, AssignedTo: ptr(asesorID), PropertyID: ptr("TK-123")}
	require.NoError(t, s.Registrar(ctx, &a))
	assert.Equal(t, "mario@correo.mx", a.Email)
	assert.Equal(t, "5512345678", a.Phone)
	assert.Equal(t, models.EstadoContactando, a.Status)
	assert.Nil(t, a.PropertyID, "un property_id que no es UUID se descarta")
	assert.Empty(t, alertas.leads)

	b := models.Prospecto{FullName: "Mario R.", Phone: "55 1234 5678", Intent: models.IntencionRentar}
	require.NoError(t, s.Registrar(ctx, &b))
	assert.Equal(t, []string{b.ID}, alertas.leads)

	var n int64
	db.Model(&models.ActividadAsesor{}).Where("advisor_id = ?", asesorID).Count(&n)
	assert.EqualValues(t, 1, n)
}

func TestActualizarEstadoComentaYRegistraActividad(t *testing.T) {
	db, s, _ := abrir(t)
	p := models.Prospecto{FullName: "Ana", Intent: models.IntencionRentar, AssignedTo: ptr(asesorID)}
	require.NoError(t, s.Registrar(context.Background(), &p))

	out, err := s.ActualizarEstado(context.Background(), p.ID, models.EstadoInteresado,
		&Cambios{Notes: ptr("quiere ver el depa"), PropertyID: ptr("no-uuid")}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.EstadoInteresado, out.Status)
	assert.Equal(t, "quiere ver el depa", out.Notes)
	assert.Nil(t, out.PropertyID)

	var c models.Comentario
	require.NoError(t, db.Where("prospecto_id = ?", p.ID).First(&c).Error)
	assert.Equal(t, "Estado cambiado de contacting a interested", c.Texto)

	var n int64
	db.Model(&models.ActividadAsesor{}).Where("activity_type = ?", models.ActividadAvanceLead).Count(&n)
	assert.EqualValues(t, 1, n)

	_, err = s.ActualizarEstado(context.Background(), p.ID, "inventado", nil, nil)
	assert.ErrorIs(t, err, ErrTransicionInvalida)
}

func TestActualizarEstadoSinProspecto(t *testing.T) {
	db, s, _ := abrir(t)
	id := "cccccccc-cccc-cccc-cccc-cccccccccccc"

	_, err := s.ActualizarEstado(context.Background(), id, models.EstadoCita, nil, nil)
	require.ErrorIs(t, err, ErrProspectoNoEncontrado)
	assert.Contains(t, err.Error(), "No se encontró el prospecto con ID cccccccc...")

	out, err := s.ActualizarEstado(context.Background(), id, models.EstadoCita, nil,
		&Contexto{FullName: "Luis", Email: "LUIS@X.MX", Intent: models.IntencionComprar, AssignedTo: ptr(asesorID)})
	require.NoError(t, err)
	assert.Equal(t, id, out.ID)
	assert.Equal(t, "luis@x.mx", out.Email)
	assert.Equal(t, models.EstadoCita, out.Status)

	// un id que pertenece a un usuario no se reutiliza
	u := models.Perfil{Email: "u@magno.mx", Role: auth.RolInquilino}
	require.NoError(t, db.Create(&u).Error)
	out, err = s.ActualizarEstado(context.Background(), u.ID, models.EstadoInteresado, nil, &Contexto{FullName: "Otro"})
	require.NoError(t, err)
	assert.NotEqual(t, u.ID, out.ID)
}

func TestCierreGeneraComision(t *testing.T) {
	db, s, _ := abrir(t)
	require.NoError(t, db.Exec(`INSERT INTO properties (id, price) VALUES (?, ?)`, propID, 18000).Error)
	p := models.Prospecto{FullName: "Ana", Intent: models.IntencionRentar, AssignedTo: ptr(asesorID), PropertyID: ptr(propID)}
	require.NoError(t, s.Registrar(context.Background(), &p))

	_, err := s.ActualizarEstado(context.Background(), p.ID, models.EstadoCerradoGanado, nil, nil)
	require.NoError(t, err)
	// repetir el cierre no duplica la comisión
	_, err = s.ActualizarEstado(context.Background(), p.ID, models.EstadoCerradoGanado, nil, nil)
	require.NoError(t, err)

	c, err := comision.NewRepository(db).FindByLead(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "rent", c.Tipo)
	assert.InDelta(t, 18000, c.TotalRecibir, 0.001)
	require.Len(t, c.Parcelas, 1)
	assert.Equal(t, s.Ahora().AddDate(0, 0, comision.DiasVencimiento).Unix(), c.Parcelas[0].FechaVencimiento.Unix())

	perfil, err := asesor.NewRepository().Buscar(db, asesorID)
	require.NoError(t, err)
	assert.Equal(t, 1, perfil.RentedCount)
}

func TestCierreVentaConSnapshotYSinAsesor(t *testing.T) {
	db, s, _ := abrir(t)
	p := models.Prospecto{FullName: "Eva", Intent: models.IntencionComprar, ReferredBy: ptr(asesorID)}
	require.NoError(t, s.Registrar(context.Background(), &p))
	_, err := s.ActualizarEstado(context.Background(), p.ID, models.EstadoCerradoGanado,
		&Cambios{PropertySnapshot: json.RawMessage(`{"title":"Casa","price":2000000}`)}, nil)
	require.NoError(t, err)
	c, err := comision.NewRepository(db).FindByLead(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "sale", c.Tipo)
	assert.InDelta(t, 100000, c.TotalRecibir, 0.001)

	huerfano := models.Prospecto{FullName: "Sin asesor", Intent: models.IntencionRentar}
	require.NoError(t, s.Registrar(context.Background(), &huerfano))
	_, err = s.ActualizarEstado(context.Background(), huerfano.ID, models.EstadoCerradoGanado, nil, nil)
	require.NoError(t, err)
	_, err = comision.NewRepository(db).FindByLead(huerfano.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestVeredicto(t *testing.T) {
	db, s, _ := abrir(t)
	p := models.Prospecto{FullName: "Ana", Intent: models.IntencionRentar, AssignedTo: ptr(asesorID), Status: models.EstadoInvestigando}
	require.NoError(t, s.Registrar(context.Background(), &p))

	out, err := s.Veredicto(context.Background(), p.ID, false, ptr(420), "buró negativo")
	require.NoError(t, err)
	assert.Equal(t, models.EstadoCerradoPerdido, out.Status)
	assert.Equal(t, models.InvestigacionRechazada, out.InvestigationStatus)
	require.NotNil(t, out.ArchivedAt)

	var n notificacion.Notificacion
	require.NoError(t, db.Where("user_id = ?", asesorID).First(&n).Error)
	assert.Equal(t, notificacion.TipoInvestigacion, n.Type)

	out, err = s.Veredicto(context.Background(), p.ID, true, ptr(700), "")
	require.NoError(t, err)
	assert.Equal(t, models.EstadoListoParaCerrar, out.Status)
}

func TestHandlerEstadoYVisibilidad(t *testing.T) {
	_, s, _ := abrir(t)
	h := NewHandler(s)
	mio := models.Prospecto{FullName: "Mío", Intent: models.IntencionRentar, AssignedTo: ptr(asesorID)}
	ajeno := models.Prospecto{FullName: "Ajeno", Intent: models.IntencionRentar}
	require.NoError(t, s.Registrar(context.Background(), &mio))
	require.NoError(t, s.Registrar(context.Background(), &ajeno))

	req := httptest.NewRequest(http.MethodGet, "/prospectos", nil)
	req = req.WithContext(auth.ConUsuario(req.Context(), asesorID, auth.RolAsesor))
	rec := httptest.NewRecorder()
	h.Listar(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var lista []models.Prospecto
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lista))
	require.Len(t, lista, 1)
	assert.Equal(t, mio.ID, lista[0].ID)

	req = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": ajeno.ID})
	req = req.WithContext(auth.ConUsuario(req.Context(), asesorID, auth.RolAsesor))
	rec = httptest.NewRecorder()
	h.BuscarPorID(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"appointment"}`))
	req = mux.SetURLVars(req, map[string]string{"id": "dddddddd-dddd-dddd-dddd-dddddddddddd"})
	rec = httptest.NewRecorder()
	h.ActualizarEstado(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "asegúrate de que haya sido registrado")

	req = httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"nada"}`))
	req = mux.SetURLVars(req, map[string]string{"id": mio.ID})
	rec = httptest.NewRecorder()
	h.ActualizarEstado(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerComprobante(t *testing.T) {
	db, s, _ := abrir(t)
	h := NewHandler(s)
	p := models.Prospecto{FullName: "Ana", Intent: models.IntencionRentar}
	require.NoError(t, s.Registrar(context.Background(), &p))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("archivo", "pago.pdf")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("%PDF-1.4"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = mux.SetURLVars(req, map[string]string{"id": p.ID})
	rec := httptest.NewRecorder()
	h.SubirComprobante(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var guardado models.Prospecto
	require.NoError(t, db.First(&guardado, "id = ?", p.ID).Error)
	assert.Equal(t, "pending", guardado.PaymentStatus)
	assert.True(t, strings.HasPrefix(guardado.PaymentProofURL, "https://cdn.magno.mx/leads/payments/"+p.ID+"_"))

	var n notificacion.Notificacion
	require.NoError(t, db.Where("type = ?", notificacion.TipoPago).First(&n).Error)
	assert.Nil(t, n.UserID)
}

func TestHandlerAsesorAjeno(t *testing.T) {
	db, s, _ := abrir(t)
	h := NewHandler(s)
	const otro = "cccccccc-cccc-cccc-cccc-cccccccccccc"
	p := models.Prospecto{FullName: "Lucía", Intent: models.IntencionRentar, AssignedTo: ptr(asesorID)}
	require.NoError(t, s.Registrar(context.Background(), &p))

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"closed_lost"}`))
	req = mux.SetURLVars(req, map[string]string{"id": p.ID})
	req = req.WithContext(auth.ConUsuario(req.Context(), otro, auth.RolAsesor))
	rec := httptest.NewRecorder()
	h.ActualizarEstado(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var guardado models.Prospecto
	require.NoError(t, db.First(&guardado, "id = ?", p.ID).Error)
	assert.Equal(t, models.EstadoContactando, guardado.Status)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("archivo", "pago.pdf")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("%PDF-1.4"))
	require.NoError(t, mw.Close())

	req = httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = mux.SetURLVars(req, map[string]string{"id": p.ID})
	req = req.WithContext(auth.ConUsuario(req.Context(), otro, auth.RolAsesor))
	rec = httptest.NewRecorder()
	h.SubirComprobante(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NoError(t, db.First(&guardado, "id = ?", p.ID).Error)
	assert.Empty(t, guardado.PaymentProofURL)

	// el asesor asignado sí puede
	req = httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"interested"}`))
	req = mux.SetURLVars(req, map[string]string{"id": p.ID})
	req = req.WithContext(auth.ConUsuario(req.Context(), asesorID, auth.RolAsesor))
	rec = httptest.NewRecorder()
	h.ActualizarEstado(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
