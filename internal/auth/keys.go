package auth

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

var (
	keysMu sync.RWMutex

	privKey   *rsa.PrivateKey
	pubKeys   = map[string]*rsa.PublicKey{} // kid -> pub
	activeKID string
	issuer    string
	audience  string
)

// Opciones de firma de tokens.
type Opciones struct {
	RSAPrivatePath string
	KID            string
	Issuer         string
	Audience       string
	CookieSecure   bool
}

// Inicializar carga la llave privada RSA (PEM, PKCS#1 o PKCS#8) del disco.
func Inicializar(o Opciones) error {
	if o.RSAPrivatePath == "" || o.KID == "" || o.Issuer == "" || o.Audience == "" {
		return errors.New("faltan AUTH_RSA_PRIVATE_PATH/AUTH_KID/AUTH_ISSUER/AUTH_AUDIENCE")
	}

	b, err := os.ReadFile(o.RSAPrivatePath)
	if err != nil {
		return fmt.Errorf("leer llave privada: %w", err)
	}
	block, _ := pem.Decode(b)
	if block == nil {
		return errors.New("pem de llave privada inválido")
	}

	var pk any
	if k, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		pk = k
	} else if k8, err2 := x509.ParsePKCS8PrivateKey(block.Bytes); err2 == nil {
		pk = k8
	} else {
		return fmt.Errorf("parsear llave privada: %v / %v", err, err2)
	}

	rsaKey, ok := pk.(*rsa.PrivateKey)
	if !ok {
		return errors.New("la llave privada no es RSA")
	}
	UsarLlave(rsaKey, o)
	return nil
}

// UsarLlave instala una llave ya cargada. Las públicas de llaves anteriores
// con otro kid se conservan para validar los tokens que siguen vivos.
func UsarLlave(k *rsa.PrivateKey, o Opciones) {
	keysMu.Lock()
	defer keysMu.Unlock()
	privKey = k
	activeKID = o.KID
	issuer = o.Issuer
	audience = o.Audience
	cookieSeguro = o.CookieSecure
	pubKeys[o.KID] = &k.PublicKey
}

func getPriv() *rsa.PrivateKey {
	keysMu.RLock()
	defer keysMu.RUnlock()
	return privKey
}

func getPub(kid string) (*rsa.PublicKey, bool) {
	keysMu.RLock()
	defer keysMu.RUnlock()
	p, ok := pubKeys[kid]
	return p, ok
}

// publicas devuelve una copia de las llaves públicas por kid.
func publicas() map[string]*rsa.PublicKey {
	keysMu.RLock()
	defer keysMu.RUnlock()
	out := make(map[string]*rsa.PublicKey, len(pubKeys))
	for kid, p := range pubKeys {
		out[kid] = p
	}
	return out
}

func getKID() string {
	keysMu.RLock()
	defer keysMu.RUnlock()
	return activeKID
}

func getIssuer() string {
	keysMu.RLock()
	defer keysMu.RUnlock()
	return issuer
}

func getAudience() string {
	keysMu.RLock()
	defer keysMu.RUnlock()
	return audience
}

func signMethod() jwt.SigningMethod { return jwt.SigningMethodRS256 }
