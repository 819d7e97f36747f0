package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"log/slog"
	"net/http"
	"time"

	"github.com/magno-inmobiliaria/api-admin/internal/utils"
	"gorm.io/gorm"
)

const (
	RefreshTTL    = 30 * 24 * time.Hour
	RefreshCookie = "rt"
)

// En localhost (http) la cookie no puede ser Secure.
var cookieSeguro bool

func genRaw() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashRaw(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return base64.RawURLEncoding.EncodeToString(h[:])
}

func setRTCookie(w http.ResponseWriter, raw string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    raw,
		Path:     "/auth",
		HttpOnly: true,
		Secure:   cookieSeguro,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
}

func clearRTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    "",
		Path:     "/auth",
		HttpOnly: true,
		Secure:   cookieSeguro,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func nuevoTokenResponse(access string) tokenResponse {
	return tokenResponse{AccessToken: access, TokenType: "Bearer", ExpiresIn: int(AccessTTL.Seconds())}
}

// IssueTokensOnLogin emite access token y deja el refresh en cookie.
func IssueTokensOnLogin(db *gorm.DB, w http.ResponseWriter, userID, rol string) (string, error) {
	access, err := GenerateAccessToken(userID, rol)
	if err != nil {
		return "", err
	}

	raw, err := genRaw()
	if err != nil {
		return "", err
	}

	rt := RefreshToken{
		UserID:    userID,
		FamilyID:  "fam-" + userID,
		Hash:      hashRaw(raw),
		Rol:       rol,
		ExpiresAt: time.Now().Add(RefreshTTL),
	}
	if err := db.Create(&rt).Error; err != nil {
		return "", err
	}
	setRTCookie(w, raw, rt.ExpiresAt)
	return access, nil
}

// POST /auth/refresh
func RefreshHTTPHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(RefreshCookie)
		if err != nil || c.Value == "" {
			http.Error(w, "sin refresh", http.StatusUnauthorized)
			return
		}

		var cur RefreshToken
		if err := db.Where("hash = ?", hashRaw(c.Value)).First(&cur).Error; err != nil {
			clearRTCookie(w)
			http.Error(w, "refresh inválido", http.StatusUnauthorized)
			return
		}
		if cur.RevokedAt != nil || time.Now().After(cur.ExpiresAt) {
			clearRTCookie(w)
			http.Error(w, "refresh expirado", http.StatusUnauthorized)
			return
		}

		now := time.Now()
		if err := db.Model(&cur).Update("revoked_at", &now).Error; err != nil {
			slog.Error("revocar refresh", "error", err, "user_id", cur.UserID)
		}

		access, err := GenerateAccessToken(cur.UserID, cur.Rol)
		if err != nil {
			slog.Error("generar access token", "error", err)
			clearRTCookie(w)
			http.Error(w, "error", http.StatusInternalServerError)
			return
		}

		newRaw, err := genRaw()
		if err != nil {
			clearRTCookie(w)
			http.Error(w, "error", http.StatusInternalServerError)
			return
		}
		newRT := RefreshToken{
			UserID:    cur.UserID,
			FamilyID:  cur.FamilyID,
			Hash:      hashRaw(newRaw),
			Rol:       cur.Rol,
			ExpiresAt: time.Now().Add(RefreshTTL),
		}
		if err := db.Create(&newRT).Error; err != nil {
			slog.Error("guardar refresh", "error", err)
			clearRTCookie(w)
			http.Error(w, "error", http.StatusInternalServerError)
			return
		}
		setRTCookie(w, newRaw, newRT.ExpiresAt)
		utils.JSON(w, http.StatusOK, nuevoTokenResponse(access))
	}
}

// POST /auth/logout
func LogoutHTTPHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(RefreshCookie); err == nil && c.Value != "" {
			now := time.Now()
			if err := db.Model(&RefreshToken{}).Where("hash = ?", hashRaw(c.Value)).Update("revoked_at", &now).Error; err != nil {
				slog.Error("revocar refresh en logout", "error", err)
			}
		}
		clearRTCookie(w)
		w.WriteHeader(http.StatusNoContent)
	}
}
