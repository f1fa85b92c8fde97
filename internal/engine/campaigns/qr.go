package campaigns

import (
	"errors"

	"github.com/skip2/go-qrcode"
)

// GenerateInsertCardQR renders a campaign funnel URL as a PNG QR code for
// printable product insert cards.
func GenerateInsertCardQR(funnelURL string, size int) ([]byte, error) {
	if size == 0 {
		size = 512
	}

	if size < 128 || size > 2048 {
		return nil, errors.New("invalid size: must be between 128 and 2048")
	}

	qr, err := qrcode.New(funnelURL, qrcode.Medium)
	if err != nil {
		return nil, err
	}

	qr.DisableBorder = false

	return qr.PNG(size)
}
