package tiemporeal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Canal de NOTIFY por tabla.
func canal(tabla string) string { return tabla + "_insert" }

// TriggersSQL instala la función y los triggers que publican cada INSERT.
const TriggersSQL = `
CREATE OR REPLACE FUNCTION magno_notificar_insert() RETURNS trigger AS $$
BEGIN
	PERFORM pg_notify(TG_TABLE_NAME || '_insert',
		json_build_object('table', TG_TABLE_NAME, 'type', 'INSERT', 'id', NEW.id)::text);
	RETURN NEW;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS magno_notifications_insert ON notifications;
CREATE TRIGGER magno_notifications_insert AFTER INSERT ON notifications
	FOR EACH ROW EXECUTE FUNCTION magno_notificar_insert();

DROP TRIGGER IF EXISTS magno_property_submissions_insert ON property_submissions;
CREATE TRIGGER magno_property_submissions_insert AFTER INSERT ON property_submissions
	FOR EACH ROW EXECUTE FUNCTION magno_notificar_insert();
`

// InstalarTriggers ejecuta TriggersSQL.
func InstalarTriggers(db *gorm.DB) error {
	return db.Exec(TriggersSQL).Error
}

// Escucha traduce LISTEN/NOTIFY de Postgres en eventos del hub.
type Escucha struct {
	DSN string
	Hub *Hub
}

// Ejecutar bloquea hasta que ctx termina. Mientras la conexión está caída el
// hub queda marcado como desconectado y los paneles caen al sondeo.
func (e *Escucha) Ejecutar(ctx context.Context) error {
	l := pq.NewListener(e.DSN, 2*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnected, pq.ListenerEventReconnected:
			e.Hub.MarcarConectado(true)
			slog.Info("escucha realtime conectada")
		case pq.ListenerEventDisconnected, pq.ListenerEventConnectionAttemptFailed:
			e.Hub.MarcarConectado(false)
			slog.Warn("escucha realtime desconectada", "error", err)
		}
	})
	defer l.Close()
	defer e.Hub.MarcarConectado(false)

	for _, t := range []string{TablaNotificaciones, TablaReclutamientos} {
		if err := l.Listen(canal(t)); err != nil {
			return fmt.Errorf("listen %s: %w", canal(t), err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-l.Notify:
			if n == nil {
				// reconexión: pudimos perder eventos, se avisa a los paneles para que recarguen
				e.Hub.Publicar(Evento{Tabla: TablaReclutamientos, Tipo: "RESYNC"})
				e.Hub.Publicar(Evento{Tabla: TablaNotificaciones, Tipo: "RESYNC"})
				continue
			}
			var ev Evento
			if err := json.Unmarshal([]byte(n.Extra), &ev); err != nil {
				slog.Warn("payload de notify inválido", "canal", n.Channel, "error", err)
				continue
			}
			e.Hub.Publicar(ev)
		case <-time.After(90 * time.Second):
			go func() {
				if err := l.Ping(); err != nil {
					slog.Warn("ping de escucha realtime", "error", err)
				}
			}()
		}
	}
}
