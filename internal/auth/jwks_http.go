package auth

import (
	"encoding/base64"
	"math/big"
	"net/http"
	"slices"

	"github.com/magno-inmobiliaria/api-admin/internal/utils"
)

type jwk struct {
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwks struct {
	Keys []jwk `json:"keys"`
}

// conjunto arma el JWKS con la llave activa primero.
func conjunto() jwks {
	llaves := publicas()
	activa := getKID()
	kids := make([]string, 0, len(llaves))
	for kid := range llaves {
		if kid != activa {
			kids = append(kids, kid)
		}
	}
	slices.Sort(kids)
	if _, ok := llaves[activa]; ok {
		kids = append([]string{activa}, kids...)
	}

	out := jwks{Keys: make([]jwk, 0, len(kids))}
	for _, kid := range kids {
		pub := llaves[kid]
		out.Keys = append(out.Keys, jwk{
			Kty: "RSA",
			Alg: signMethod().Alg(),
			Use: "sig",
			Kid: kid,
			N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		})
	}
	return out
}

// GET /.well-known/jwks.json
func JWKSHandler(w http.ResponseWriter, r *http.Request) {
	set := conjunto()
	if len(set.Keys) == 0 {
		http.Error(w, "jwks no disponible", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=300")
	utils.JSON(w, http.StatusOK, set)
}
