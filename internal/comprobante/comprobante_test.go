package comprobante

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/magno-inmobiliaria/api-admin/internal/almacenamiento"
	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"github.com/magno-inmobiliaria/api-admin/internal/notificacion"
	"github.com/magno-inmobiliaria/api-admin/internal/timeline"
	"github.com/magno-inmobiliaria/api-admin/internal/utils/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ptr(s string) *string { return &s }

func abrir(t *testing.T) *gorm.DB {
	db := dbtest.Abrir(t, &Comprobante{}, &Rechazado{}, &models.Perfil{}, &timeline.Evento{}, &notificacion.Notificacion{})
	require.NoError(t, db.Exec(`CREATE TABLE properties (id TEXT PRIMARY KEY, ref TEXT)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE internal_properties (id TEXT PRIMARY KEY, ref TEXT)`).Error)
	return db
}

func TestListarOrdenYFiltro(t *testing.T) {
	db := abrir(t)
	inq := models.Perfil{Email: "inq@x.mx", FullName: "Raúl", Role: auth.RolInquilino}
	require.NoError(t, db.Create(&inq).Error)
	require.NoError(t, db.Exec(`INSERT INTO properties (id, ref) VALUES ('p1', 'MAG-200'), ('p2', 'MAG-100')`).Error)
	require.NoError(t, db.Exec(`INSERT INTO internal_properties (id, ref) VALUES ('i1', 'INT-001')`).Error)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	crear := func(prop, interna *string, mes string, dias int, url string) {
		c := Comprobante{UserID: &inq.ID, PropertyID: prop, InternalPropertyID: interna, MonthYear: mes, ProofURL: url, Amount: 1}
		c.CreatedAt = base.AddDate(0, 0, dias)
		require.NoError(t, db.Create(&c).Error)
	}
	crear(ptr("p1"), nil, "2026-01", 1, "https://cdn/a.pdf")
	crear(ptr("p2"), nil, "2026-01", 2, "https://cdn/b.pdf")
	crear(ptr("p2"), nil, "2026-02", 30, "https://cdn/c.pdf")
	crear(nil, ptr("i1"), "2026-02", 31, "https://cdn/d.pdf")
	crear(nil, nil, "2026-03", 60, "https://cdn/e.pdf")
	crear(ptr("p1"), nil, "2026-02", 40, URLManual)

	out, err := NewRepository().Listar(db)
	require.NoError(t, err)
	require.Len(t, out, 5)
	refs := []string{}
	for _, c := range out {
		refs = append(refs, c.PropertyRef+"/"+c.MonthYear)
	}
	assert.Equal(t, []string{"INT-001/2026-02", "MAG-100/2026-02", "MAG-100/2026-01", "MAG-200/2026-01", "N/A/2026-03"}, refs)
	assert.Equal(t, "Raúl", out[0].UserName)
}

func TestAprobarRegistraTimeline(t *testing.T) {
	db := abrir(t)
	inq := models.Perfil{Email: "inq@x.mx", FullName: "Raúl", Role: auth.RolInquilino}
	require.NoError(t, db.Create(&inq).Error)
	c := Comprobante{UserID: &inq.ID, PropertyID: ptr("p1"), MonthYear: "2026-04", Amount: 15000, ProofURL: "u"}
	require.NoError(t, db.Create(&c).Error)

	got, err := Aprobar(db, c.ID)
	require.NoError(t, err)
	assert.Equal(t, EstadoAprobado, got.Status)

	eventos, err := timeline.NewRepository().ListarPorPropiedad(db, "p1")
	require.NoError(t, err)
	require.Len(t, eventos, 1)
	assert.Equal(t, "Pago Aprobado: 2026-04", eventos[0].Title)
	assert.Equal(t, "Monto: $15,000.00 MXN. Usuario: Raúl", eventos[0].Description)
}

func TestRechazarArchiva(t *testing.T) {
	db := abrir(t)
	c := Comprobante{UserID: ptr("u1"), MonthYear: "2026-04", Amount: 100, ProofURL: "u"}
	require.NoError(t, db.Create(&c).Error)

	require.NoError(t, Rechazar(db, c.ID, ""))
	var r Rechazado
	require.NoError(t, db.First(&r).Error)
	assert.Equal(t, c.ID, r.OriginalPaymentProofID)
	assert.Equal(t, MotivoRechazoAdmin, r.RejectionReason)
	var n int64
	db.Model(&Comprobante{}).Count(&n)
	assert.Zero(t, n)

	a := Comprobante{UserID: ptr("u1"), MonthYear: "2026-05", ProofURL: "u", Status: EstadoAprobado}
	require.NoError(t, db.Create(&a).Error)
	assert.ErrorIs(t, Rechazar(db, a.ID, "x"), ErrYaAprobado)
}

func TestRechazarRevierteSiFallaElArchivo(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, DriverName: "postgres"}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "payment_proofs"`).
		WithArgs("c1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "month_year", "amount", "proof_url", "status"}).
			AddRow("c1", "2026-04", 100.0, "u", EstadoPendiente))
	mock.ExpectExec(`INSERT INTO "rejected_payments"`).
		WillReturnError(errors.New("sin espacio"))
	mock.ExpectRollback()

	err = Rechazar(db, "c1", "")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSincronizarManuales(t *testing.T) {
	db := abrir(t)
	m := Manuales{UserID: "u1", InternalPropertyID: ptr("i1"), Meses: []string{"2026-01", "2026-02"}, Monto: 9000}
	require.NoError(t, SincronizarManuales(db, m))

	m.Meses = []string{"2026-02", "2026-03"}
	require.NoError(t, SincronizarManuales(db, m))

	meses, err := NewRepository().MesesAprobados(db, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-02", "2026-03"}, meses)

	out, err := NewRepository().Listar(db)
	require.NoError(t, err)
	assert.Empty(t, out, "los pagos manuales no se revisan")
}

func TestSubir(t *testing.T) {
	db := abrir(t)
	inq := models.Perfil{Email: "inq@x.mx", FullName: "Raúl", Role: auth.RolInquilino, PropertyID: ptr("p1")}
	require.NoError(t, db.Create(&inq).Error)
	almacen := almacenamiento.NewMemoria("https://cdn.magno.mx")
	h := NewHandler(db, almacen)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("month_year", "2026-04"))
	require.NoError(t, mw.WriteField("amount", "15000"))
	fw, err := mw.CreateFormFile("archivo", "abril.jpg")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("jpeg"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = req.WithContext(auth.ConUsuario(req.Context(), inq.ID, auth.RolInquilino))
	rec := httptest.NewRecorder()
	h.Subir(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Len(t, almacen.Objetos, 1)

	var c Comprobante
	require.NoError(t, db.First(&c).Error)
	assert.Equal(t, "p1", *c.PropertyID)
	assert.Equal(t, EstadoPendiente, c.Status)

	req = mux.SetURLVars(httptest.NewRequest(http.MethodPost, "/", nil), map[string]string{"id": c.ID})
	rec = httptest.NewRecorder()
	h.Aprobar(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
