package config

import (
	"os"
	"strconv"

	"github.com/Xausdorf/qr-platba/internal/domain/qrcode"
)

type Config struct {
	HTTPAddr string
	// DatabaseURL is optional; stored payments are disabled without it.
	DatabaseURL string
	QRSize      int
	QRMargin    int
}

func Load() *Config {
	return &Config{
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		QRSize:      getEnvInt("QR_SIZE", qrcode.DefaultSize),
		QRMargin:    getEnvInt("QR_MARGIN", qrcode.DefaultMargin),
	}
}

func (c *Config) QROptions() qrcode.Options {
	return qrcode.Options{Size: c.QRSize, Margin: c.QRMargin, Format: qrcode.FormatPNG}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
