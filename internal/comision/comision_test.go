package comision

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"github.com/magno-inmobiliaria/api-admin/internal/utils/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const asesorID = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"

func prospectoCerrado(intent string) *models.Prospecto {
	a := asesorID
	p := &models.Prospecto{Intent: intent, AssignedTo: &a, Status: models.EstadoCerradoGanado}
	p.ID = "11111111-1111-1111-1111-111111111111"
	return p
}

func TestGenerarParaCierre(t *testing.T) {
	db := dbtest.Abrir(t, &Comision{}, &Parcela{})
	ahora := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	c, err := GenerarParaCierre(db, prospectoCerrado(models.IntencionRentar), 18000, ahora)
	require.NoError(t, err)
	assert.Equal(t, "rent", c.Tipo)
	assert.Equal(t, asesorID, c.AdvisorID)
	assert.Equal(t, 18000.0, c.TotalRecibir)
	assert.Equal(t, ComisionPendiente, c.Status)
	require.Len(t, c.Parcelas, 1)
	assert.True(t, c.Parcelas[0].FechaVencimiento.Equal(ahora.AddDate(0, 0, DiasVencimiento)))

	// una segunda llamada no duplica
	otra, err := GenerarParaCierre(db, prospectoCerrado(models.IntencionRentar), 99999, ahora)
	require.NoError(t, err)
	assert.Equal(t, c.ID, otra.ID)
	var n int64
	db.Model(&Comision{}).Count(&n)
	assert.EqualValues(t, 1, n)
}

func TestGenerarVentaYSinAsesor(t *testing.T) {
	db := dbtest.Abrir(t, &Comision{}, &Parcela{})
	c, err := GenerarParaCierre(db, prospectoCerrado(models.IntencionComprar), 3000000, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "sale", c.Tipo)
	assert.Equal(t, 150000.0, c.TotalRecibir)

	sinAsesor := &models.Prospecto{Intent: models.IntencionRentar}
	sinAsesor.ID = "22222222-2222-2222-2222-222222222222"
	_, err = GenerarParaCierre(db, sinAsesor, 10, time.Now())
	assert.ErrorIs(t, err, ErrSinAsesor)
}

func TestCambiarEstadoParcela(t *testing.T) {
	db := dbtest.Abrir(t, &Comision{}, &Parcela{})
	ahora := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	c, err := GenerarParaCierre(db, prospectoCerrado(models.IntencionRentar), 10000, ahora)
	require.NoError(t, err)
	repo := NewRepository(db)
	segunda := Parcela{Valor: 500, FechaVencimiento: ahora}
	require.NoError(t, repo.CreateParcela(c.ID, &segunda))
	require.NoError(t, repo.Recalcular(c.ID))

	p, err := CambiarEstadoParcela(db, c.Parcelas[0].ID, ParcelaPagada, ahora)
	require.NoError(t, err)
	require.NotNil(t, p.FechaPago)
	assert.True(t, p.FechaPago.Equal(ahora))

	got, _ := repo.FindByID(c.ID)
	assert.Equal(t, ComisionPendiente, got.Status)
	assert.Equal(t, 10500.0, got.TotalRecibir)

	_, err = CambiarEstadoParcela(db, segunda.ID, ParcelaCancelada, ahora)
	require.NoError(t, err)
	got, _ = repo.FindByID(c.ID)
	assert.Equal(t, ComisionPagada, got.Status)
	assert.Equal(t, 10000.0, got.TotalRecibir)

	_, err = CambiarEstadoParcela(db, c.Parcelas[0].ID, ParcelaPendiente, ahora)
	assert.ErrorIs(t, err, ErrParcelaPagada)
	_, err = CambiarEstadoParcela(db, c.Parcelas[0].ID, "Pagado", ahora)
	assert.ErrorIs(t, err, ErrEstadoInvalido)
	_, err = CambiarEstadoParcela(db, "no-existe", ParcelaPagada, ahora)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCambiarEstadoParcelaRevierteSiFallaElUpdate(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, DriverName: "postgres"}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "commission_installments"`).
		WithArgs("p1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "comision_id", "valor", "status"}).
			AddRow("p1", "c1", 100.0, ParcelaPendiente))
	mock.ExpectExec(`UPDATE "commission_installments"`).
		WillReturnError(errors.New("conexión perdida"))
	mock.ExpectRollback()

	_, err = CambiarEstadoParcela(db, "p1", ParcelaPagada, time.Now())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
