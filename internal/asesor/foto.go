package asesor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

const (
	ladoMaximoFoto = 800
	calidadFoto    = 85
	tamanoMaxFoto  = 10 << 20
)

var ErrFotoInvalida = errors.New("la imagen no es jpeg, png ni webp")

// ProcesarFoto decodifica la imagen, la ajusta a 800x800 sin deformarla y la
// devuelve como webp.
func ProcesarFoto(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r, tamanoMaxFoto))
	if err != nil {
		return nil, err
	}
	// el paquete webp registra su decodificador en image
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, ErrFotoInvalida
	}
	b := img.Bounds()
	if b.Dx() > ladoMaximoFoto || b.Dy() > ladoMaximoFoto {
		img = imaging.Fit(img, ladoMaximoFoto, ladoMaximoFoto, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Lossless: false, Quality: calidadFoto}); err != nil {
		return nil, fmt.Errorf("codificar webp: %w", err)
	}
	return buf.Bytes(), nil
}
