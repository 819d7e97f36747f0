package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/magno-inmobiliaria/api-admin/internal/config"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// secretGetter es la parte de Secrets Manager que se usa.
type secretGetter interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

var newSecretsClient = func(ctx context.Context) (secretGetter, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return secretsmanager.NewFromConfig(cfg), nil
}

// retrieveCredentials usa DB_USERNAME/DB_PASSWORD si vienen; si no, lee el secreto.
func retrieveCredentials(ctx context.Context, cfg *config.Config) (string, string, error) {
	if cfg.DB.Username != "" && cfg.DB.Password != "" {
		return cfg.DB.Username, cfg.DB.Password, nil
	}

	secrets, err := newSecretsClient(ctx)
	if err != nil {
		return "", "", fmt.Errorf("config aws: %w", err)
	}
	result, err := secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(cfg.DB.SecretID),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return "", "", fmt.Errorf("leer secreto %s: %w", cfg.DB.SecretID, err)
	}

	var secret Credentials
	if err = json.Unmarshal([]byte(aws.ToString(result.SecretString)), &secret); err != nil {
		return "", "", fmt.Errorf("secreto inválido: %w", err)
	}
	return secret.Username, secret.Password, nil
}
