package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config reúne todo lo que el servicio lee del entorno.
type Config struct {
	HTTPAddr string `yaml:"http_addr"`

	DB struct {
		Host       string `yaml:"host"`
		Port       uint   `yaml:"port"`
		Name       string `yaml:"name"`
		SecretID   string `yaml:"secret_id"`
		Username   string `yaml:"username"`
		Password   string `yaml:"password"`
		SSLDisable bool   `yaml:"ssl_disable"`
	} `yaml:"db"`

	Auth struct {
		RSAPrivatePath string `yaml:"rsa_private_path"`
		KID            string `yaml:"kid"`
		Issuer         string `yaml:"issuer"`
		Audience       string `yaml:"audience"`
		CookieSecure   bool   `yaml:"cookie_secure"`
	} `yaml:"auth"`

	CORSOrigins []string `yaml:"cors_origins"`

	Tokko struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"tokko"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Storage struct {
		Driver    string `yaml:"driver"`
		Bucket    string `yaml:"bucket"`
		PublicURL string `yaml:"public_url"`
		Region    string `yaml:"region"`
	} `yaml:"storage"`

	WebhookAlertasURL string        `yaml:"webhook_alertas_url"`
	ReclutamientoPoll time.Duration `yaml:"reclutamiento_poll"`
	ZonaHoraria       string        `yaml:"zona_horaria"`
}

// Load lee .env (si existe), las variables de entorno y, al final, el YAML
// indicado en CONFIG_FILE, que tiene prioridad.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("sin archivo .env, se usan variables del entorno")
	}

	c := &Config{}
	c.HTTPAddr = env("HTTP_ADDR", ":8080")

	c.DB.Host = os.Getenv("DB_HOST")
	c.DB.Port = uint(envInt("DB_PORT", 5432))
	c.DB.Name = os.Getenv("DB_NAME")
	c.DB.SecretID = os.Getenv("DB_SECRET_ID")
	c.DB.Username = os.Getenv("DB_USERNAME")
	c.DB.Password = os.Getenv("DB_PASSWORD")
	c.DB.SSLDisable = os.Getenv("DB_SSL_MODE_DISABLE") == "true"

	c.Auth.RSAPrivatePath = os.Getenv("AUTH_RSA_PRIVATE_PATH")
	c.Auth.KID = os.Getenv("AUTH_KID")
	c.Auth.Issuer = os.Getenv("AUTH_ISSUER")
	c.Auth.Audience = os.Getenv("AUTH_AUDIENCE")
	c.Auth.CookieSecure = os.Getenv("COOKIE_SECURE") == "true"

	c.CORSOrigins = lista(env("CORS_ORIGINS", "http://localhost:3000"))

	c.Tokko.BaseURL = env("TOKKO_BASE_URL", "https://www.tokkobroker.com/api/v1")
	c.Tokko.APIKey = os.Getenv("TOKKO_API_KEY")

	c.Redis.Addr = os.Getenv("REDIS_ADDR")
	c.Redis.Password = os.Getenv("REDIS_PASSWORD")
	c.Redis.DB = envInt("REDIS_DB", 0)

	c.Storage.Driver = env("STORAGE_DRIVER", "s3")
	c.Storage.Bucket = os.Getenv("STORAGE_BUCKET")
	c.Storage.PublicURL = os.Getenv("STORAGE_PUBLIC_URL")
	c.Storage.Region = env("AWS_REGION", "us-east-1")

	c.WebhookAlertasURL = os.Getenv("WEBHOOK_ALERTAS_URL")
	c.ZonaHoraria = env("ZONA_HORARIA", "America/Mexico_City")

	poll, err := time.ParseDuration(env("RECLUTAMIENTO_POLL", "15s"))
	if err != nil {
		return nil, fmt.Errorf("RECLUTAMIENTO_POLL: %w", err)
	}
	c.ReclutamientoPoll = poll

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("leer %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parsear %s: %w", path, err)
		}
	}

	return c, nil
}

// Ubicacion devuelve la zona horaria usada para agenda y rachas.
func (c *Config) Ubicacion() *time.Location {
	loc, err := time.LoadLocation(c.ZonaHoraria)
	if err != nil {
		slog.Warn("zona horaria inválida, se usa la local", "zona", c.ZonaHoraria, "error", err)
		return time.Local
	}
	return loc
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func lista(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
