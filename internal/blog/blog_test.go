package blog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/magno-inmobiliaria/api-admin/internal/auth"
	"github.com/magno-inmobiliaria/api-admin/internal/utils/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardarSlug(t *testing.T) {
	db := dbtest.Abrir(t, &Post{})

	a := Post{Title: "¿Cómo rentar en Polanco?"}
	require.NoError(t, Guardar(db, &a))
	assert.Equal(t, "como-rentar-en-polanco", a.Slug)
	assert.Equal(t, EstadoBorrador, a.Status)

	b := Post{Title: "Cómo rentar en Polanco"}
	require.NoError(t, Guardar(db, &b))
	assert.Equal(t, "como-rentar-en-polanco-2", b.Slug)

	// al editar conserva su propio slug
	a.Title = "Otro título"
	require.NoError(t, Guardar(db, &a))
	assert.Equal(t, "como-rentar-en-polanco", a.Slug)

	c := Post{Title: "Nota", Slug: "Mi Slug Propio"}
	require.NoError(t, Guardar(db, &c))
	assert.Equal(t, "mi-slug-propio", c.Slug)

	assert.ErrorIs(t, Guardar(db, &Post{Title: "¡¿?!"}), ErrSinSlug)
}

func TestListarFiltros(t *testing.T) {
	db := dbtest.Abrir(t, &Post{})
	for _, p := range []Post{
		{Title: "Guía de compra", Status: EstadoPublicado, Category: "Compra"},
		{Title: "Tendencias 2026", Status: EstadoBorrador, Excerpt: "El mercado de compra"},
		{Title: "Rentas en Roma", Status: EstadoPublicado},
	} {
		require.NoError(t, Guardar(db, &p))
	}
	repo := NewRepository()

	pub, err := repo.Listar(db, Filtro{Status: EstadoPublicado})
	require.NoError(t, err)
	assert.Len(t, pub, 2)

	compra, err := repo.Listar(db, Filtro{Buscar: "COMPRA"})
	require.NoError(t, err)
	assert.Len(t, compra, 2)

	both, err := repo.Listar(db, Filtro{Status: EstadoBorrador, Buscar: "compra"})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "Tendencias 2026", both[0].Title)
}

func TestHandlerCrearYPublico(t *testing.T) {
	db := dbtest.Abrir(t, &Post{})
	h := NewHandler(db)

	body := `{"title":"Nueva nota","content":[{"id":"b1","type":"text","content":"Hola"}]}`
	req := httptest.NewRequest(http.MethodPost, "/blog", strings.NewReader(body))
	req = req.WithContext(auth.ConUsuario(req.Context(), "mkt-1", auth.RolMarketing))
	rec := httptest.NewRecorder()
	h.Crear(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var p Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	require.NotNil(t, p.AuthorID)
	assert.Equal(t, "mkt-1", *p.AuthorID)
	assert.JSONEq(t, `[{"id":"b1","type":"text","content":"Hola"}]`, string(p.Content))

	// borrador: no visible al público
	req = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"slug": "nueva-nota"})
	rec = httptest.NewRecorder()
	h.BuscarPorSlug(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = mux.SetURLVars(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"title":"Nueva nota","status":"published"}`)),
		map[string]string{"id": p.ID})
	rec = httptest.NewRecorder()
	h.Actualizar(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	req = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"slug": "nueva-nota"})
	rec = httptest.NewRecorder()
	h.BuscarPorSlug(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
