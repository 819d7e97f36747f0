// Package app arma el router HTTP con todos los módulos del panel.
package app

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/magno-inmobiliaria/api-admin/internal/almacenamiento"
	"github.com/magno-inmobiliaria/api-admin/internal/asesor"
	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/avaluo"
	"github.com/magno-inmobiliaria/api-admin/internal/blog"
	"github.com/magno-inmobiliaria/api-admin/internal/cita"
	"github.com/magno-inmobiliaria/api-admin/internal/comentario"
	"github.com/magno-inmobiliaria/api-admin/internal/comision"
	"github.com/magno-inmobiliaria/api-admin/internal/comprobante"
	"github.com/magno-inmobiliaria/api-admin/internal/confirmacion"
	"github.com/magno-inmobiliaria/api-admin/internal/documento"
	"github.com/magno-inmobiliaria/api-admin/internal/monitoreo"
	"github.com/magno-inmobiliaria/api-admin/internal/notificacion"
	"github.com/magno-inmobiliaria/api-admin/internal/propiedad"
	"github.com/magno-inmobiliaria/api-admin/internal/prospecto"
	"github.com/magno-inmobiliaria/api-admin/internal/reclutamiento"
	"github.com/magno-inmobiliaria/api-admin/internal/reporte"
	"github.com/magno-inmobiliaria/api-admin/internal/solicitud"
	"github.com/magno-inmobiliaria/api-admin/internal/tablero"
	"github.com/magno-inmobiliaria/api-admin/internal/tiemporeal"
	"github.com/magno-inmobiliaria/api-admin/internal/timeline"
	"github.com/magno-inmobiliaria/api-admin/internal/tokko"
	"github.com/magno-inmobiliaria/api-admin/internal/usuario"
	"github.com/magno-inmobiliaria/api-admin/internal/utils"
	"github.com/rs/cors"
	"gorm.io/gorm"
)

// Dependencias que main construye una sola vez.
type Dependencias struct {
	DB       *gorm.DB
	Almacen  almacenamiento.Almacen
	Tokko    *tokko.Client
	Hub      *tiemporeal.Hub
	Alertas  prospecto.Alertador
	Zona     *time.Location
	Sondeo   time.Duration
	Origenes []string
}

var (
	personal  = []string{auth.RolAdmin, auth.RolAsesor, auth.RolMarketing}
	ventas    = []string{auth.RolAdmin, auth.RolAsesor}
	admin     = []string{auth.RolAdmin}
	contenido = []string{auth.RolAdmin, auth.RolMarketing}
)

// grupo registra rutas autenticadas; sin roles basta con un token válido.
type grupo struct {
	r     *mux.Router
	roles []string
}

func (g grupo) handle(metodo, ruta string, h http.HandlerFunc) {
	var hh http.Handler = h
	if len(g.roles) > 0 {
		hh = auth.RequireRoles(g.roles...)(hh)
	}
	g.r.Handle(ruta, auth.MiddlewareAutenticacao(hh)).Methods(metodo)
}

// NewRouter devuelve el handler raíz con CORS y métricas.
func NewRouter(d Dependencias) http.Handler {
	db := d.DB
	prospectos := prospecto.NewServicio(db, d.Almacen, d.Alertas)

	authHandler := auth.NewHandler(db)
	usuarioHandler := usuario.NewHandler(db)
	asesorHandler := asesor.NewHandler(db, d.Almacen)
	propiedadHandler := propiedad.NewHandler(db, d.Tokko)
	timelineHandler := timeline.NewHandler(db)
	documentoHandler := documento.NewHandler(db)
	prospectoHandler := prospecto.NewHandler(prospectos)
	comentarioHandler := comentario.NewHandler(db)
	citaHandler := cita.NewHandler(db, d.Zona)
	solicitudHandler := solicitud.NewHandler(db)
	reclutamientoHandler := reclutamiento.NewHandler(db, d.Hub, d.Sondeo)
	reclutamientoHandler.Origenes = d.Origenes
	d.Hub.Origenes = d.Origenes
	comprobanteHandler := comprobante.NewHandler(db, d.Almacen)
	avaluoHandler := avaluo.NewHandler(db)
	reporteHandler := reporte.NewHandler(db, d.Almacen)
	blogHandler := blog.NewHandler(db)
	notificacionHandler := notificacion.NewHandler(db)
	comisionHandler := comision.NewHandler(comision.NewRepository(db))
	tableroHandler := tablero.NewHandler(db, d.Zona)
	confirmacionHandler := confirmacion.NewHandler(confirmacion.NewDespachador(db, prospectos))
	tokkoHandler := tokko.NewHandler(d.Tokko)

	r := mux.NewRouter()
	r.Use(monitoreo.Middleware)

	// Públicas
	r.Handle("/metrics", monitoreo.Handler()).Methods("GET")
	r.HandleFunc("/salud", func(w http.ResponseWriter, r *http.Request) {
		utils.JSON(w, http.StatusOK, map[string]any{"ok": true, "realtime": d.Hub.Conectado()})
	}).Methods("GET")
	r.HandleFunc("/.well-known/jwks.json", auth.JWKSHandler).Methods("GET")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.Handle("/auth/refresh", auth.RefreshHTTPHandler(db)).Methods("POST")
	r.Handle("/auth/logout", auth.LogoutHTTPHandler(db)).Methods("POST")
	r.Handle("/auth/registro", auth.MiddlewareOpcional(http.HandlerFunc(authHandler.Registro))).Methods("POST")
	r.HandleFunc("/avaluos", avaluoHandler.Crear).Methods("POST")
	r.HandleFunc("/solicitudes", solicitudHandler.Crear).Methods("POST")
	r.HandleFunc("/publico/blog", blogHandler.Publicados).Methods("GET")
	r.HandleFunc("/publico/blog/{slug}", blogHandler.BuscarPorSlug).Methods("GET")

	// Cualquier usuario con sesión
	todos := grupo{r: r}
	todos.handle("POST", "/auth/reverificar", authHandler.Reverificar)
	todos.handle("GET", "/usuarios/me", usuarioHandler.Me)
	todos.handle("GET", "/notificaciones", notificacionHandler.Listar)
	todos.handle("PATCH", "/notificaciones/leidas", notificacionHandler.MarcarTodas)
	todos.handle("PATCH", "/notificaciones/{id}/leida", notificacionHandler.MarcarLeida)
	todos.handle("POST", "/comprobantes", comprobanteHandler.Subir)
	todos.handle("POST", "/reportes", reporteHandler.Crear)

	// Personal del panel
	p := grupo{r: r, roles: personal}
	p.handle("GET", "/propiedades", propiedadHandler.Listar)
	p.handle("GET", "/propiedades/{id}", propiedadHandler.BuscarPorID)
	p.handle("GET", "/tablero/citas", tableroHandler.Citas)
	p.handle("POST", "/confirmaciones", confirmacionHandler.Proponer)
	p.handle("POST", "/confirmaciones/{id}/confirmar", confirmacionHandler.Confirmar)
	p.handle("DELETE", "/confirmaciones/{id}", confirmacionHandler.Cancelar)
	p.handle("GET", "/ws/eventos", d.Hub.ServeWebSocket)

	// Asesores y admin
	v := grupo{r: r, roles: ventas}
	v.handle("GET", "/asesores/{id}/perfil", asesorHandler.Perfil)
	v.handle("PUT", "/asesores/{id}/perfil", asesorHandler.GuardarPerfil)
	v.handle("POST", "/asesores/{id}/foto", asesorHandler.SubirFoto)
	v.handle("GET", "/asesores/{id}/actividad", asesorHandler.Actividad)
	v.handle("GET", "/asesores/{id}/resumen", tableroHandler.Resumen)

	v.handle("GET", "/propiedades/{id}/timeline", timelineHandler.ListarPorPropiedad)

	v.handle("GET", "/prospectos", prospectoHandler.Listar)
	v.handle("POST", "/prospectos", prospectoHandler.Crear)
	v.handle("GET", "/prospectos/{id}", prospectoHandler.BuscarPorID)
	v.handle("PUT", "/prospectos/{id}", prospectoHandler.Actualizar)
	v.handle("PATCH", "/prospectos/{id}/estado", prospectoHandler.ActualizarEstado)
	v.handle("POST", "/prospectos/{id}/comprobante", prospectoHandler.SubirComprobante)
	v.handle("GET", "/prospectos/{id}/reclutamiento", tableroHandler.ReclutamientoDeProspecto)
	v.handle("GET", "/prospectos/{id}/comentarios", comentarioHandler.ListarPorProspecto)
	v.handle("POST", "/prospectos/{id}/comentarios", comentarioHandler.Crear)
	v.handle("PUT", "/comentarios/{id}", comentarioHandler.Actualizar)
	v.handle("DELETE", "/comentarios/{id}", comentarioHandler.Remover)

	v.handle("GET", "/citas", citaHandler.Listar)
	v.handle("POST", "/citas", citaHandler.Crear)
	v.handle("PATCH", "/citas/{id}/estado", citaHandler.ActualizarEstado)
	v.handle("POST", "/citas/{id}/confirmar", citaHandler.Confirmar)
	v.handle("POST", "/citas/{id}/feedback", citaHandler.Feedback)
	v.handle("PATCH", "/citas/{id}/reagendar", citaHandler.Reagendar)

	v.handle("GET", "/solicitudes", solicitudHandler.Listar)
	v.handle("GET", "/solicitudes/{id}", solicitudHandler.BuscarPorID)
	v.handle("POST", "/solicitudes/{id}/feedback", solicitudHandler.Feedback)

	v.handle("GET", "/reclutamientos", reclutamientoHandler.Listar)
	v.handle("GET", "/reclutamientos/{id}", reclutamientoHandler.BuscarPorID)
	v.handle("GET", "/reclutamientos/{id}/ficha.pdf", reclutamientoHandler.FichaPDF)
	v.handle("GET", "/reclutamientos/{id}/llaves.pdf", reclutamientoHandler.LlavesPDF)
	v.handle("GET", "/ws/reclutamientos", reclutamientoHandler.Panel)

	v.handle("GET", "/avaluos", avaluoHandler.Listar)
	v.handle("PATCH", "/avaluos/{id}/estado", avaluoHandler.ActualizarEstado)

	v.handle("GET", "/comisiones", comisionHandler.Listar)
	v.handle("GET", "/comisiones/{id}", comisionHandler.BuscarPorID)

	v.handle("GET", "/tablero/potenciales", tableroHandler.Potenciales)
	v.handle("GET", "/tablero/embudo", tableroHandler.Embudo)
	v.handle("GET", "/tablero/embudo.html", tableroHandler.EmbudoGrafica)

	v.handle("GET", "/tokko/leads", tokkoHandler.ListarLeads)
	v.handle("GET", "/tokko/contactos/{id}", tokkoHandler.BuscarContacto)
	v.handle("GET", "/tokko/propiedades", tokkoHandler.ListarPropiedades)

	// Marketing
	m := grupo{r: r, roles: contenido}
	m.handle("GET", "/blog", blogHandler.Listar)
	m.handle("POST", "/blog", blogHandler.Crear)
	m.handle("PUT", "/blog/{id}", blogHandler.Actualizar)
	m.handle("DELETE", "/blog/{id}", blogHandler.Eliminar)

	// Solo admin
	a := grupo{r: r, roles: admin}
	a.handle("GET", "/usuarios", usuarioHandler.Listar)
	a.handle("GET", "/usuarios/{id}", usuarioHandler.BuscarPorID)
	a.handle("PUT", "/usuarios/{id}", usuarioHandler.Actualizar)
	a.handle("DELETE", "/usuarios/{id}", usuarioHandler.Eliminar)
	a.handle("POST", "/clientes", usuarioHandler.GuardarCliente)
	a.handle("PUT", "/clientes/{id}", usuarioHandler.GuardarCliente)

	a.handle("POST", "/propiedades", propiedadHandler.Crear)
	a.handle("POST", "/propiedades/sincronizar", propiedadHandler.Sincronizar)
	a.handle("PUT", "/propiedades/{id}", propiedadHandler.Actualizar)
	a.handle("PATCH", "/propiedades/{id}/estado", propiedadHandler.ActualizarEstado)
	a.handle("DELETE", "/propiedades/{id}", propiedadHandler.Eliminar)
	a.handle("GET", "/propiedades-internas", propiedadHandler.ListarInternas)
	a.handle("POST", "/propiedades-internas", propiedadHandler.GuardarInterna)
	a.handle("POST", "/propiedades/{id}/timeline", timelineHandler.Crear)
	a.handle("GET", "/propiedades/{id}/documentos", documentoHandler.ListarPorPropiedad)
	a.handle("GET", "/propiedades/{id}/reporte.pdf", documentoHandler.ReportePropietario)
	a.handle("GET", "/documentos", documentoHandler.Listar)
	a.handle("POST", "/documentos", documentoHandler.Registrar)
	a.handle("DELETE", "/documentos/{id}", documentoHandler.Eliminar)

	a.handle("PATCH", "/citas/{id}/asignar", citaHandler.Asignar)
	a.handle("DELETE", "/citas/{id}", citaHandler.Eliminar)
	a.handle("DELETE", "/prospectos/{id}", prospectoHandler.Eliminar)
	a.handle("POST", "/prospectos/{id}/investigacion", prospectoHandler.Veredicto)

	a.handle("PATCH", "/solicitudes/{id}/estado", solicitudHandler.ActualizarEstado)
	a.handle("PATCH", "/solicitudes/{id}/asignar", solicitudHandler.Asignar)
	a.handle("POST", "/solicitudes/{id}/investigacion", solicitudHandler.Veredicto)
	a.handle("DELETE", "/solicitudes/{id}", solicitudHandler.Eliminar)

	a.handle("PATCH", "/reclutamientos/{id}/estado", reclutamientoHandler.ActualizarEstado)
	a.handle("PUT", "/reclutamientos/{id}/formulario", reclutamientoHandler.ActualizarFormulario)
	a.handle("DELETE", "/reclutamientos/{id}", reclutamientoHandler.Eliminar)

	a.handle("GET", "/comprobantes", comprobanteHandler.Listar)
	a.handle("POST", "/comprobantes/{id}/aprobar", comprobanteHandler.Aprobar)
	a.handle("POST", "/comprobantes/{id}/rechazar", comprobanteHandler.Rechazar)
	a.handle("DELETE", "/comprobantes/{id}", comprobanteHandler.Eliminar)

	a.handle("DELETE", "/avaluos/{id}", avaluoHandler.Eliminar)
	a.handle("GET", "/reportes", reporteHandler.Listar)
	a.handle("PATCH", "/reportes/{id}/estado", reporteHandler.ActualizarEstado)
	a.handle("DELETE", "/reportes/{id}", reporteHandler.Eliminar)

	a.handle("POST", "/notificaciones", notificacionHandler.Crear)
	a.handle("POST", "/comisiones/{id}/parcelas", comisionHandler.CrearParcela)
	a.handle("PATCH", "/parcelas/{pid}/estado", comisionHandler.CambiarEstado)
	a.handle("DELETE", "/parcelas/{pid}", comisionHandler.EliminarParcela)

	c := cors.New(cors.Options{
		AllowedOrigins:   d.Origenes,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}
