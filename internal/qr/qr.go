// Package qr renders download links as QR code PNGs.
package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// Encoder implements report.QRRenderer.
type Encoder struct {
	// Size is the edge length of the PNG in pixels.
	Size  int
	Level qrcode.RecoveryLevel
}

func NewEncoder() *Encoder {
	return &Encoder{Size: 256, Level: qrcode.Medium}
}

// Render encodes url as a PNG image.
func (e *Encoder) Render(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("qr: empty url")
	}
	png, err := qrcode.Encode(url, e.Level, e.Size)
	if err != nil {
		return nil, fmt.Errorf("qr: failed to encode %s: %w", url, err)
	}
	return png, nil
}
