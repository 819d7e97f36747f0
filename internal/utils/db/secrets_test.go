package db

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/magno-inmobiliaria/api-admin/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecrets struct {
	secret string
	err    error
	pedido string
}

func (f *fakeSecrets) GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.pedido = aws.ToString(in.SecretId)
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(f.secret)}, nil
}

func usarSecrets(t *testing.T, f *fakeSecrets) {
	orig := newSecretsClient
	newSecretsClient = func(context.Context) (secretGetter, error) { return f, nil }
	t.Cleanup(func() { newSecretsClient = orig })
}

func TestDSNConVariables(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Host, cfg.DB.Port, cfg.DB.Name = "localhost", 5432, "magno"
	cfg.DB.Username, cfg.DB.Password = "app", "pw"
	cfg.DB.SSLDisable = true

	dsn, err := DSN(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "host=localhost user=app password=pw dbname=magno port=5432 sslmode=disable", dsn)
}

func TestDSNConSecretsManager(t *testing.T) {
	f := &fakeSecrets{secret: `{"username":"svc","password":"s3cr3t"}`}
	usarSecrets(t, f)

	cfg := &config.Config{}
	cfg.DB.Host, cfg.DB.Port, cfg.DB.Name, cfg.DB.SecretID = "db", 5432, "magno", "prod/magno"

	dsn, err := DSN(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "prod/magno", f.pedido)
	assert.Contains(t, dsn, "user=svc password=s3cr3t")
}

func TestDSNSecretoFalla(t *testing.T) {
	usarSecrets(t, &fakeSecrets{err: errors.New("denegado")})
	_, err := DSN(context.Background(), &config.Config{})
	assert.ErrorContains(t, err, "denegado")
}
