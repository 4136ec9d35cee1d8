package render

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// RoomURL returns the spectator URL of a room under baseURL
func RoomURL(baseURL, roomID string) string {
	return strings.TrimRight(baseURL, "/") + "/api/game/room/" + roomID
}

// QRCodePNG encodes url as a PNG QR code of the given pixel size
func QRCodePNG(url string, size int) ([]byte, error) {
	png, err := qrcode.Encode(url, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}

// QRCodeText renders url as a QR code drawn with block characters
func QRCodeText(url string) (string, error) {
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}
	return q.ToSmallString(false), nil
}
