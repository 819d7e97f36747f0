package almacenamiento

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type putObjecter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 sube a un bucket; PublicURL es el prefijo público (CDN o endpoint del bucket).
type S3 struct {
	Client    putObjecter
	Bucket    string
	PublicURL string
}

func NewS3(ctx context.Context, region, bucket, publicURL string) (*S3, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("config aws: %w", err)
	}
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &S3{
		Client:    s3.NewFromConfig(cfg),
		Bucket:    bucket,
		PublicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

func (s *S3) Subir(ctx context.Context, clave string, contenido io.Reader, contentType string) (string, error) {
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(clave),
		Body:        contenido,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("subir %s: %w", clave, err)
	}
	return s.PublicURL + "/" + clave, nil
}
