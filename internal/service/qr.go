package service

import (
	"fmt"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
)

// DevicePairingQR renders the pairing token as a PNG the kiosk can scan and
// returns its path.
func DevicePairingQR(deviceID int, token string) (string, error) {
	targetPath := filepath.Join(baseDir, "qrcodes")
	if err := os.MkdirAll(targetPath, os.ModePerm); err != nil {
		return "", err
	}

	fileName := filepath.Join(targetPath, fmt.Sprintf("device-%d.png", deviceID))
	if err := qrcode.WriteFile(token, qrcode.Medium, 256, fileName); err != nil {
		return "", fmt.Errorf("error writing qr code: %w", err)
	}

	return fileName, nil
}
