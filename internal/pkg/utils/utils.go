package utils

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

const pngDataPrefix = "data:image/png;base64,"

// GenerateUUID generates a UUID v4 string.
func GenerateUUID() string {
	return uuid.New().String()
}

// ExternalCode builds a merchant-side reference such as "ORD1700000000000".
func ExternalCode(prefix string, now time.Time) string {
	return prefix + strconv.FormatInt(now.UnixMilli(), 10)
}

// DigitsOnly strips every non-digit rune (CPF, phone, CEP).
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SplitName returns the first word and the remaining words joined by a space.
func SplitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// ToCents converts a decimal currency amount to integer cents, rounding half up.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// FromCents converts integer cents back to currency units.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// PNGDataURI prefixes a bare base64 PNG with the data URI scheme.
// Values already carrying a scheme or URL are returned as is.
func PNGDataURI(b64 string) string {
	if b64 == "" || strings.HasPrefix(b64, "data:") || strings.HasPrefix(b64, "http") {
		return b64
	}
	return pngDataPrefix + b64
}

// QRCodeDataURI renders content (a PIX copy-and-paste string) as a PNG data URI.
func QRCodeDataURI(content string, size int) (string, error) {
	if content == "" {
		return "", fmt.Errorf("empty qr content")
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}
	return pngDataPrefix + base64.StdEncoding.EncodeToString(png), nil
}

// Truncate cuts s to at most n bytes.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// MaskToken keeps a short prefix of a credential for log lines.
func MaskToken(token string) string {
	if len(token) <= 6 {
		return strings.Repeat("*", len(token))
	}
	return token[:6] + "***(" + strconv.Itoa(len(token)) + ")"
}

// FirstNonEmpty returns the first argument that is not blank.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
