package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const (
	CtxUserID ctxKey = "usuarioID"
	CtxRol    ctxKey = "rol"
)

func MiddlewareAutenticacao(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		tok := token(r)
		if tok == "" {
			http.Error(w, "Token ausente", http.StatusUnauthorized)
			return
		}
		claims, err := ParseAndValidate(tok)
		if err != nil {
			http.Error(w, "Token inválido", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(ConUsuario(r.Context(), claims.UserID, claims.Rol)))
	})
}

// token lee el Bearer. El navegador no manda encabezados al abrir un
// WebSocket, así que en ese caso se acepta ?access_token=.
func token(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		return r.URL.Query().Get("access_token")
	}
	return ""
}

// ConUsuario guarda id y rol en el contexto.
func ConUsuario(ctx context.Context, userID, rol string) context.Context {
	ctx = context.WithValue(ctx, CtxUserID, userID)
	return context.WithValue(ctx, CtxRol, rol)
}

// Usuario devuelve id y rol del contexto.
func Usuario(ctx context.Context) (id, rol string) {
	id, _ = ctx.Value(CtxUserID).(string)
	rol, _ = ctx.Value(CtxRol).(string)
	return id, rol
}

func EsAdmin(ctx context.Context) bool {
	_, rol := Usuario(ctx)
	return rol == RolAdmin
}

// RequireRoles deja pasar solo a los roles indicados.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, rol := Usuario(r.Context())
			for _, permitido := range roles {
				if rol == permitido {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "acceso denegado", http.StatusForbidden)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRoles(RolAdmin)(next)
}

// MiddlewareOpcional agrega el usuario al contexto si trae un token válido,
// sin rechazar la petición cuando no lo trae.
func MiddlewareOpcional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if strings.HasPrefix(h, "Bearer ") {
			if claims, err := ParseAndValidate(strings.TrimPrefix(h, "Bearer ")); err == nil {
				r = r.WithContext(ConUsuario(r.Context(), claims.UserID, claims.Rol))
			}
		}
		next.ServeHTTP(w, r)
	})
}
