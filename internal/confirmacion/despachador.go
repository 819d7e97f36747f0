// Package confirmacion implementa el diálogo de confirmación compartido: una
// acción se propone, se muestra con su título y mensaje, y solo se ejecuta
// cuando el usuario la confirma.
package confirmacion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/avaluo"
	"github.com/magno-inmobiliaria/api-admin/internal/blog"
	"github.com/magno-inmobiliaria/api-admin/internal/comprobante"
	"github.com/magno-inmobiliaria/api-admin/internal/propiedad"
	"github.com/magno-inmobiliaria/api-admin/internal/prospecto"
	"github.com/magno-inmobiliaria/api-admin/internal/reclutamiento"
	"github.com/magno-inmobiliaria/api-admin/internal/reporte"
	"github.com/magno-inmobiliaria/api-admin/internal/solicitud"
	"github.com/magno-inmobiliaria/api-admin/internal/usuario"
	"github.com/magno-inmobiliaria/api-admin/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTipoDesconocido = errors.New("tipo de acción desconocido")
	ErrSinPermiso      = errors.New("acción no permitida para el rol")
)

// variante es la entrada de la tabla: cómo leer, describir y ejecutar una acción.
type variante struct {
	roles       []string
	decodificar func(datos json.RawMessage) (Accion, error)
	texto       func(ctx context.Context, a Accion) (titulo, mensaje string)
	ejecutar    func(ctx context.Context, a Accion) error
}

func registrar[T Accion](tabla map[string]variante, roles []string,
	texto func(context.Context, T) (string, string), ejecutar func(context.Context, T) error) {
	var cero T
	tabla[cero.Tipo()] = variante{
		roles: roles,
		decodificar: func(datos json.RawMessage) (Accion, error) {
			var v T
			if len(datos) > 0 {
				if err := json.Unmarshal(datos, &v); err != nil {
					return nil, err
				}
			}
			if err := utils.Validar(v); err != nil {
				return nil, err
			}
			return v, nil
		},
		texto:    func(ctx context.Context, a Accion) (string, string) { return texto(ctx, a.(T)) },
		ejecutar: func(ctx context.Context, a Accion) error { return ejecutar(ctx, a.(T)) },
	}
}

// fijo devuelve un texto que no depende del registro.
func fijo[T Accion](titulo, mensaje string) func(context.Context, T) (string, string) {
	return func(context.Context, T) (string, string) { return titulo, mensaje }
}

// Despachador resuelve cada tipo de acción con su variante.
type Despachador struct {
	DB         *gorm.DB
	Prospectos *prospecto.Servicio
	tabla      map[string]variante
}

func NewDespachador(db *gorm.DB, prospectos *prospecto.Servicio) *Despachador {
	d := &Despachador{DB: db, Prospectos: prospectos, tabla: map[string]variante{}}
	soloAdmin := []string{auth.RolAdmin}

	registrar(d.tabla, soloAdmin, d.textoEstadoPropiedad, func(ctx context.Context, a EstadoPropiedad) error {
		return propiedad.CambiarEstado(d.db(ctx), a.ID, a.Status, a.Motivo)
	})
	registrar(d.tabla, soloAdmin, d.textoEliminarPropiedad, func(ctx context.Context, a EliminarPropiedad) error {
		return propiedad.NewRepository().Eliminar(d.db(ctx), a.ID)
	})
	registrar(d.tabla, soloAdmin, func(ctx context.Context, a EditarPropiedad) (string, string) {
		return "EDITAR PROPIEDAD", fmt.Sprintf("¿Deseas guardar los cambios de la propiedad %q?", a.Datos.Title)
	}, func(ctx context.Context, a EditarPropiedad) error {
		_, err := propiedad.Editar(d.db(ctx), a.ID, &a.Datos)
		return err
	})
	registrar(d.tabla, soloAdmin,
		fijo[EliminarReclutamiento]("ELIMINAR SOLICITUD", "¿Estás seguro de que deseas eliminar esta solicitud de reclutamiento?"),
		func(ctx context.Context, a EliminarReclutamiento) error {
			return reclutamiento.NewRepository().Eliminar(d.db(ctx), a.ID)
		})
	registrar(d.tabla, soloAdmin, func(ctx context.Context, a EliminarUsuario) (string, string) {
		accion := "desvincular sus propiedades"
		if a.Purgar {
			accion = "eliminar también sus propiedades y documentos"
		}
		return "ELIMINAR USUARIO", fmt.Sprintf("¿Deseas eliminar a %q y %s?", a.Nombre, accion)
	}, func(ctx context.Context, a EliminarUsuario) error {
		return usuario.NewRepository().Eliminar(d.db(ctx), a.ID, a.Purgar)
	})
	registrar(d.tabla, soloAdmin,
		fijo[EliminarComprobante]("ELIMINAR COMPROBANTE", "¿Estás seguro de que deseas eliminar este comprobante de pago?"),
		func(ctx context.Context, a EliminarComprobante) error {
			return comprobante.NewRepository().Eliminar(d.db(ctx), a.ID)
		})
	registrar(d.tabla, soloAdmin,
		fijo[EliminarReporte]("ELIMINAR REPORTE", "¿Estás seguro de que deseas eliminar este reporte de mantenimiento?"),
		func(ctx context.Context, a EliminarReporte) error {
			return reporte.NewRepository().Eliminar(d.db(ctx), a.ID)
		})
	registrar(d.tabla, []string{auth.RolAdmin, auth.RolAsesor},
		fijo[EliminarAvaluo]("ELIMINAR AVALÚO", "¿Estás seguro de que deseas eliminar este registro de avalúo?"),
		func(ctx context.Context, a EliminarAvaluo) error {
			return avaluo.NewRepository().Eliminar(d.db(ctx), a.ID)
		})
	registrar(d.tabla, soloAdmin,
		fijo[EliminarSolicitud]("ELIMINAR SOLICITUD", "¿Estás seguro de que deseas eliminar esta solicitud de arrendamiento?"),
		func(ctx context.Context, a EliminarSolicitud) error {
			return solicitud.NewRepository().Eliminar(d.db(ctx), a.ID)
		})
	registrar(d.tabla, []string{auth.RolAdmin, auth.RolMarketing},
		fijo[EliminarPost]("ELIMINAR NOTICIA", "¿Estás seguro de que deseas eliminar permanentemente esta noticia o nota del blog?"),
		func(ctx context.Context, a EliminarPost) error {
			return blog.NewRepository().Eliminar(d.db(ctx), a.ID)
		})
	registrar(d.tabla, []string{auth.RolAdmin, auth.RolAsesor}, func(ctx context.Context, a EstadoProspecto) (string, string) {
		return "CAMBIAR ESTADO", fmt.Sprintf("¿Deseas mover a %q a la etapa %s?", a.Nombre, a.Status)
	}, func(ctx context.Context, a EstadoProspecto) error {
		_, err := d.Prospectos.ActualizarEstado(ctx, a.ID, a.Status, a.Metadata, a.Contexto)
		return err
	})
	return d
}

func (d *Despachador) db(ctx context.Context) *gorm.DB {
	return d.DB.WithContext(ctx)
}

func (d *Despachador) textoEstadoPropiedad(ctx context.Context, a EstadoPropiedad) (string, string) {
	p, _ := propiedad.NewRepository().BuscarPorID(d.db(ctx), a.ID)
	etiqueta := propiedad.EtiquetaEstado(p, a.Status)
	if etiqueta == "DESAPARTAR" {
		return etiqueta + " PROPIEDAD", "¿Deseas DESAPARTAR esta propiedad y volverla a poner como ACTIVA?"
	}
	titulo := ""
	if p != nil {
		titulo = p.Title
	}
	return etiqueta + " PROPIEDAD", fmt.Sprintf("¿Estás seguro de que deseas %s la propiedad %q?", etiqueta, titulo)
}

func (d *Despachador) textoEliminarPropiedad(ctx context.Context, a EliminarPropiedad) (string, string) {
	titulo := ""
	if p, err := propiedad.NewRepository().BuscarPorID(d.db(ctx), a.ID); err == nil {
		titulo = p.Title
	}
	return "ELIMINAR PROPIEDAD", fmt.Sprintf("¿Estás seguro de que deseas eliminar la propiedad %q? "+
		"Esta acción eliminará permanentemente todos los registros asociados.", titulo)
}

// Preparar lee y valida los datos de la acción y arma su texto.
func (d *Despachador) Preparar(ctx context.Context, tipo, rol string, datos json.RawMessage) (*Pendiente, error) {
	v, ok := d.tabla[tipo]
	if !ok {
		return nil, ErrTipoDesconocido
	}
	if !slices.Contains(v.roles, rol) {
		return nil, ErrSinPermiso
	}
	a, err := v.decodificar(datos)
	if err != nil {
		return nil, err
	}
	titulo, mensaje := v.texto(ctx, a)
	return &Pendiente{Tipo: tipo, Titulo: titulo, Mensaje: mensaje, accion: a}, nil
}

// Ejecutar corre la acción con el manejador de su tipo.
func (d *Despachador) Ejecutar(ctx context.Context, a Accion) error {
	v, ok := d.tabla[a.Tipo()]
	if !ok {
		return ErrTipoDesconocido
	}
	return v.ejecutar(ctx, a)
}
