package almacenamiento

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	bucket, clave, tipo string
	cuerpo              string
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.bucket = aws.ToString(in.Bucket)
	f.clave = aws.ToString(in.Key)
	f.tipo = aws.ToString(in.ContentType)
	b, _ := io.ReadAll(in.Body)
	f.cuerpo = string(b)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Subir(t *testing.T) {
	f := &fakeS3{}
	s := &S3{Client: f, Bucket: "magno-media", PublicURL: "https://cdn.magno.mx"}

	url, err := s.Subir(context.Background(), "payment-proofs/x.pdf", strings.NewReader("pdf"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.magno.mx/payment-proofs/x.pdf", url)
	assert.Equal(t, "magno-media", f.bucket)
	assert.Equal(t, "application/pdf", f.tipo)
	assert.Equal(t, "pdf", f.cuerpo)
}

func TestMemoriaYNombre(t *testing.T) {
	m := NewMemoria("http://local/")
	clave := NombreArchivo(CarpetaPagosProspecto, "lead1", "Comprobante.PDF")
	assert.True(t, strings.HasPrefix(clave, "leads/payments/lead1_"))
	assert.True(t, strings.HasSuffix(clave, ".pdf"))

	url, err := m.Subir(context.Background(), clave, strings.NewReader("x"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://local/"+clave, url)
	assert.Equal(t, []byte("x"), m.Objetos[clave])
}
