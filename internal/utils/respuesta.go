package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validar aplica las etiquetas `validate` del DTO.
func Validar(v any) error {
	return validate.Struct(v)
}

// JSON escribe v con el código indicado.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// DecodificarYValidar lee el cuerpo en dst y lo valida. Si falla, ya respondió
// al cliente y devuelve false.
func DecodificarYValidar(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return false
	}
	if err := Validar(dst); err != nil {
		ErrorValidacion(w, err)
		return false
	}
	return true
}

// ErrorValidacion responde 400 con un mapa campo -> regla incumplida.
func ErrorValidacion(w http.ResponseWriter, err error) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		http.Error(w, "datos inválidos", http.StatusBadRequest)
		return
	}
	campos := make(map[string]string, len(ve))
	for _, fe := range ve {
		campos[fe.Field()] = fe.Tag()
	}
	JSON(w, http.StatusBadRequest, map[string]any{
		"message": "validación fallida",
		"errors":  campos,
	})
}
