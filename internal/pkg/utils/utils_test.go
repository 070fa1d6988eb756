package utils

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestDigitsOnly(t *testing.T) {
	require.Equal(t, "12345678909", DigitsOnly("123.456.789-09"))
	require.Equal(t, "5511999998888", DigitsOnly("+55 (11) 99999-8888"))
	require.Equal(t, "", DigitsOnly(""))
}

func TestSplitName(t *testing.T) {
	first, last := SplitName("Maria da Silva Souza")
	require.Equal(t, "Maria", first)
	require.Equal(t, "da Silva Souza", last)

	first, last = SplitName("  Joana ")
	require.Equal(t, "Joana", first)
	require.Equal(t, "", last)

	first, last = SplitName("")
	require.Empty(t, first)
	require.Empty(t, last)
}

func TestCents(t *testing.T) {
	require.Equal(t, int64(1050), ToCents(decimal.RequireFromString("10.50")))
	require.Equal(t, int64(1000), ToCents(decimal.RequireFromString("9.995")))
	require.Equal(t, int64(1), ToCents(decimal.RequireFromString("0.005")))
	require.True(t, FromCents(1999).Equal(decimal.RequireFromString("19.99")))
}

func TestPNGDataURI(t *testing.T) {
	require.Equal(t, "data:image/png;base64,AAA", PNGDataURI("AAA"))
	require.Equal(t, "data:image/png;base64,AAA", PNGDataURI("data:image/png;base64,AAA"))
	require.Equal(t, "https://qr.example/x.png", PNGDataURI("https://qr.example/x.png"))
	require.Equal(t, "", PNGDataURI(""))
}

func TestQRCodeDataURI(t *testing.T) {
	uri, err := QRCodeDataURI("00020126580014br.gov.bcb.pix0136", 256)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	require.NoError(t, err)
	require.Equal(t, "\x89PNG", string(raw[:4]))

	_, err = QRCodeDataURI("", 256)
	require.Error(t, err)
}

func TestExternalCode(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	require.Equal(t, "ORD1700000000123", ExternalCode("ORD", now))
}

func TestMaskToken(t *testing.T) {
	require.Equal(t, "APP_US***(20)", MaskToken("APP_USR-123456789012"))
	require.Equal(t, "***", MaskToken("abc"))
}
