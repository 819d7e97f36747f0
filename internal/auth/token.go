package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims del access token: id del perfil y rol.
type Claims struct {
	UserID string `json:"userId"`
	Rol    string `json:"rol"`
	jwt.RegisteredClaims
}

const AccessTTL = 15 * time.Minute

// GenerateAccessToken firma un JWT RS256 con kid, iss, aud, iat, nbf y jti.
func GenerateAccessToken(userID, rol string) (string, error) {
	priv := getPriv()
	if priv == nil {
		return "", errors.New("llave privada no cargada")
	}

	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Rol:    rol,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    getIssuer(),
			Audience:  []string{getAudience()},
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-1 * time.Minute)),
			ID:        fmt.Sprintf("%s-%d", userID, now.UnixNano()),
		},
	}

	tok := jwt.NewWithClaims(signMethod(), claims)
	tok.Header["kid"] = getKID()
	return tok.SignedString(priv)
}

// ParseAndValidate valida firma, iss, aud y exp.
func ParseAndValidate(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(getIssuer()),
		jwt.WithAudience(getAudience()),
		jwt.WithExpirationRequired(),
	)
	tok, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		k, _ := t.Header["kid"].(string)
		if k == "" {
			return nil, errors.New("kid ausente")
		}
		pub, ok := getPub(k)
		if !ok {
			return nil, errors.New("kid desconocido")
		}
		return pub, nil
	})
	if err != nil {
		return nil, err
	}
	c, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, errors.New("token inválido")
	}
	return c, nil
}
