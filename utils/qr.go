package utils

import (
	"github.com/skip2/go-qrcode"
)

// GenerateQRCode encodes content as a PNG QR code of size x size pixels.
func GenerateQRCode(content string, size int) ([]byte, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	return qr.PNG(size)
}
