package prospecto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/magno-inmobiliaria/api-admin/internal/almacenamiento"
	"github.com/magno-inmobiliaria/api-admin/internal/asesor"
	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/comentario"
	"github.com/magno-inmobiliaria/api-admin/internal/comision"
	"github.com/magno-inmobiliaria/api-admin/internal/models"
	"github.com/magno-inmobiliaria/api-admin/internal/notificacion"
	"github.com/magno-inmobiliaria/api-admin/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrProspectoNoEncontrado = errors.New("prospecto no encontrado")
	ErrTransicionInvalida    = errors.New("estado de prospecto inválido")
	ErrAjeno                 = errors.New("el prospecto no está asignado a este asesor")
)

// PuedeTrabajar indica si el usuario del contexto puede operar el prospecto:
// un asesor solo lo que tiene asignado o refirió, los demás roles todo.
func PuedeTrabajar(ctx context.Context, p *models.Prospecto) bool {
	id, rol := auth.Usuario(ctx)
	if rol != auth.RolAsesor {
		return true
	}
	return (p.AssignedTo != nil && *p.AssignedTo == id) || (p.ReferredBy != nil && *p.ReferredBy == id)
}

type errNoEncontrado struct{ id string }

func (e errNoEncontrado) Error() string {
	corto := e.id
	if len(corto) > 8 {
		corto = corto[:8]
	}
	return fmt.Sprintf("No se encontró el prospecto con ID %s... en la base de datos de CRM. "+
		"Si este cliente viene de una cita, asegúrate de que haya sido registrado como prospecto primero.", corto)
}

func (e errNoEncontrado) Unwrap() error { return ErrProspectoNoEncontrado }

// Alertador recibe el aviso de prospectos duplicados.
type Alertador interface {
	EnviarAlertaDuplicado(ctx context.Context, leadID, correo, telefono string)
}

// Cambios son los campos que pueden acompañar a un cambio de estado.
type Cambios struct {
	PropertyID        *string         `json:"property_id"`
	PropertySnapshot  json.RawMessage `json:"property_snapshot"`
	AppointmentID     *string         `json:"appointment_id"`
	AssignedTo        *string         `json:"assigned_to"`
	IsPotential       *bool           `json:"is_potential"`
	Notes             *string         `json:"notes"`
	InvestigationLink *string         `json:"investigation_link"`
	PaymentStatus     *string         `json:"payment_status"`
}

// Contexto son los datos con los que se crea el prospecto si todavía no
// existe (por ejemplo, cuando viene de una cita).
type Contexto struct {
	FullName   string  `json:"full_name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Intent     string  `json:"intent"`
	Source     string  `json:"source"`
	AssignedTo *string `json:"assigned_to"`
	ReferredBy *string `json:"referred_by"`
}

// Servicio agrupa las operaciones del CRM con efectos secundarios.
type Servicio struct {
	DB         *gorm.DB
	Repository Repository
	Almacen    almacenamiento.Almacen
	Alertas    Alertador
	Ahora      func() time.Time
}

func NewServicio(db *gorm.DB, a almacenamiento.Almacen, alertas Alertador) *Servicio {
	return &Servicio{DB: db, Repository: NewRepository(), Almacen: a, Alertas: alertas, Ahora: time.Now}
}

// Registrar crea el prospecto, anota la actividad del asesor y avisa si el
// correo o teléfono ya estaban registrados.
func (s *Servicio) Registrar(ctx context.Context, p *models.Prospecto) error {
	db := s.DB.WithContext(ctx)
	p.Email = utils.NormalizarCorreo(p.Email)
	p.Phone = utils.NormalizarTelefono(p.Phone)
	if p.Status == "" {
		p.Status = models.EstadoContactando
	}
	if !models.EstadoValido(p.Status) {
		return ErrTransicionInvalida
	}
	sanearPropiedad(&p.PropertyID, "")
	if err := s.Repository.Crear(db, p); err != nil {
		return err
	}
	asesor.RegistrarActividad(db, p.Responsable(), models.ActividadRegistroLead, map[string]any{"lead_id": p.ID})

	dups, err := s.Repository.Duplicados(db, p.Email, p.Phone, p.ID)
	if err != nil {
		slog.Error("buscar prospectos duplicados", "error", err, "lead_id", p.ID)
		return nil
	}
	if len(dups) > 0 && s.Alertas != nil {
		s.Alertas.EnviarAlertaDuplicado(ctx, p.ID, p.Email, p.Phone)
	}
	return nil
}

// sanearPropiedad descarta un property_id que no tiene forma de UUID antes
// de que llegue a la base.
func sanearPropiedad(id **string, leadID string) {
	if *id == nil {
		return
	}
	if **id == "" || !models.EsUUID(**id) {
		slog.Warn("property_id inválido descartado", "lead_id", leadID, "property_id", **id)
		*id = nil
	}
}

// ActualizarEstado mueve el prospecto a status aplicando los cambios. Si el
// prospecto no existe y viene contexto, lo crea con ese id (salvo que el id
// sea de un usuario). Cada cambio deja un comentario de sistema y una
// actividad; closed_won además genera la comisión del asesor.
func (s *Servicio) ActualizarEstado(ctx context.Context, id, status string, cambios *Cambios, contexto *Contexto) (*models.Prospecto, error) {
	if !models.EstadoValido(status) {
		return nil, ErrTransicionInvalida
	}
	if cambios == nil {
		cambios = &Cambios{}
	}
	sanearPropiedad(&cambios.PropertyID, id)

	var out *models.Prospecto
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actual, err := s.Repository.BuscarPorID(tx, id)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if contexto == nil {
				slog.Warn("prospecto no encontrado al cambiar estado", "lead_id", id)
				return errNoEncontrado{id: id}
			}
			if actual, err = s.crearDesdeContexto(tx, id, contexto); err != nil {
				return err
			}
		case err != nil:
			return err
		case !PuedeTrabajar(ctx, actual):
			return ErrAjeno
		}

		anterior := actual.Status
		aplicarCambios(actual, status, cambios, s.Ahora())
		if err := s.Repository.Salvar(tx, actual); err != nil {
			return err
		}

		if anterior != status {
			comentario.Sistema(tx, actual.ID, fmt.Sprintf("Estado cambiado de %s a %s", anterior, status))
			asesor.RegistrarActividad(tx, actual.Responsable(), models.ActividadAvanceLead,
				map[string]any{"lead_id": actual.ID, "from": anterior, "to": status})
			if status == models.EstadoCerradoGanado {
				if err := s.cerrar(tx, actual); err != nil {
					return err
				}
			}
		}
		out = actual
		return nil
	})
	return out, err
}

func aplicarCambios(p *models.Prospecto, status string, c *Cambios, ahora time.Time) {
	p.Status = status
	if c.PropertyID != nil {
		p.PropertyID = c.PropertyID
	}
	if len(c.PropertySnapshot) > 0 {
		p.PropertySnapshot = datatypes.JSON(c.PropertySnapshot)
	}
	if c.AppointmentID != nil {
		p.AppointmentID = c.AppointmentID
	}
	if c.AssignedTo != nil {
		p.AssignedTo = c.AssignedTo
	}
	if c.IsPotential != nil {
		p.IsPotential = *c.IsPotential
	}
	if c.Notes != nil {
		p.Notes = *c.Notes
	}
	if c.InvestigationLink != nil {
		p.InvestigationLink = *c.InvestigationLink
	}
	if c.PaymentStatus != nil {
		p.PaymentStatus = *c.PaymentStatus
	}
	if status == models.EstadoCerradoPerdido || status == models.EstadoPotencialArchivado {
		if p.ArchivedAt == nil {
			p.ArchivedAt = &ahora
		}
	}
}

func (s *Servicio) crearDesdeContexto(tx *gorm.DB, id string, c *Contexto) (*models.Prospecto, error) {
	p := &models.Prospecto{
		FullName:   c.FullName,
		Email:      utils.NormalizarCorreo(c.Email),
		Phone:      utils.NormalizarTelefono(c.Phone),
		Intent:     c.Intent,
		Source:     c.Source,
		AssignedTo: c.AssignedTo,
		ReferredBy: c.ReferredBy,
		Status:     models.EstadoContactando,
	}
	if models.EsUUID(id) {
		var n int64
		if err := tx.Model(&models.Perfil{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return nil, err
		}
		if n == 0 {
			p.ID = id
		} else {
			slog.Warn("el id del prospecto pertenece a un usuario, se genera otro", "id", id)
		}
	}
	if err := s.Repository.Crear(tx, p); err != nil {
		return nil, err
	}
	asesor.RegistrarActividad(tx, p.Responsable(), models.ActividadRegistroLead, map[string]any{"lead_id": p.ID})
	return p, nil
}

// cerrar genera la comisión y suma el cierre al perfil del asesor.
func (s *Servicio) cerrar(tx *gorm.DB, p *models.Prospecto) error {
	monto := montoOperacion(tx, p)
	_, err := comision.GenerarParaCierre(tx, p, monto, s.Ahora())
	if errors.Is(err, comision.ErrSinAsesor) {
		slog.Warn("cierre sin asesor, no se genera comisión", "lead_id", p.ID)
		return nil
	}
	if err != nil {
		return err
	}
	venta := p.Intent == models.IntencionComprar || p.Intent == models.IntencionVender
	return asesor.NewRepository().Incrementar(tx, p.Responsable(), venta)
}

// montoOperacion toma el precio de la propiedad vinculada o, si no hay, el
// del snapshot.
func montoOperacion(tx *gorm.DB, p *models.Prospecto) float64 {
	if p.PropertyID != nil {
		var precio float64
		err := tx.Table("properties").Select("price").Where("id = ?", *p.PropertyID).Scan(&precio).Error
		if err == nil && precio > 0 {
			return precio
		}
	}
	var snap struct {
		Price float64 `json:"price"`
	}
	if len(p.PropertySnapshot) > 0 && json.Unmarshal(p.PropertySnapshot, &snap) == nil {
		return snap.Price
	}
	return 0
}

// Veredicto registra el resultado de la investigación: aprobada pasa a
// ready_to_close y rechazada a closed_lost archivado. Avisa al responsable.
func (s *Servicio) Veredicto(ctx context.Context, id string, aprobada bool, score *int, notas string) (*models.Prospecto, error) {
	db := s.DB.WithContext(ctx)
	p, err := s.Repository.BuscarPorID(db, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errNoEncontrado{id: id}
	}
	if err != nil {
		return nil, err
	}

	anterior := p.Status
	p.InvestigationScore = score
	p.InvestigationNotes = notas
	if aprobada {
		p.InvestigationStatus = models.InvestigacionAprobada
		p.Status = models.EstadoListoParaCerrar
	} else {
		p.InvestigationStatus = models.InvestigacionRechazada
		p.Status = models.EstadoCerradoPerdido
		now := s.Ahora()
		p.ArchivedAt = &now
	}
	if err := s.Repository.Salvar(db, p); err != nil {
		return nil, err
	}
	comentario.Sistema(db, p.ID, fmt.Sprintf("Estado cambiado de %s a %s", anterior, p.Status))

	notificacion.AvisarVeredicto(db, p.Responsable(), p.FullName, aprobada, score)
	return p, nil
}

// SubirComprobante guarda el comprobante de pago de la investigación y deja
// el pago en revisión.
func (s *Servicio) SubirComprobante(ctx context.Context, id, nombreArchivo, contentType string, archivo io.Reader) (string, error) {
	db := s.DB.WithContext(ctx)
	p, err := s.Repository.BuscarPorID(db, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", errNoEncontrado{id: id}
	}
	if err != nil {
		return "", err
	}
	if !PuedeTrabajar(ctx, p) {
		return "", ErrAjeno
	}
	clave := almacenamiento.NombreArchivo(almacenamiento.CarpetaPagosProspecto, id, nombreArchivo)
	url, err := s.Almacen.Subir(ctx, clave, archivo, contentType)
	if err != nil {
		return "", fmt.Errorf("subir comprobante: %w", err)
	}
	_, err = s.Repository.ActualizarCampos(db, id, map[string]any{
		"payment_proof_url": url,
		"payment_status":    "pending",
	})
	if err != nil {
		return "", err
	}
	notificacion.Notificar(db, nil, notificacion.TipoPago, "Nuevo comprobante de investigación",
		fmt.Sprintf("%s subió su comprobante de pago.", p.FullName))
	return url, nil
}
