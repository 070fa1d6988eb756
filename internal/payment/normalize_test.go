package payment

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func doc(t *testing.T, s string) map[string]interface{} {
	t.Helper()
	out := map[string]interface{}{}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&out))
	return out
}

func TestNormalizeChargeGerencianet(t *testing.T) {
	c := NormalizeCharge(doc(t, `{"txid":"tx1","pixCopiaECola":"000201","imagemQrcode":"data:image/png;base64,AA","calendario":{"criacao":"2024-01-01T00:00:00Z"},"status":"ATIVA"}`), ProviderGerencianet)

	require.Equal(t, "tx1", c.TransactionID)
	require.Equal(t, "000201", c.PixCode)
	require.Equal(t, "data:image/png;base64,AA", c.QRCodeURL)
	require.Equal(t, StatusPending, c.Status)
	require.Equal(t, "2024-01-01T00:00:00Z", c.ExpiresAt)
}

func TestNormalizeChargePagarme(t *testing.T) {
	c := NormalizeCharge(doc(t, `{"id":"or_1","status":"paid","amount":4990,"charges":[{"last_transaction":{"qr_code":"pix","qr_code_url":"https://qr","expires_at":"soon"}}]}`), ProviderPagarme)

	require.Equal(t, "or_1", c.TransactionID)
	require.Equal(t, "pix", c.PixCode)
	require.Equal(t, "https://qr", c.QRCodeURL)
	require.Equal(t, "soon", c.ExpiresAt)
	require.Equal(t, StatusPaid, c.Status)
	require.Equal(t, "49.9", c.Amount.Decimal.String())
}

func TestNormalizeChargeMercadoPago(t *testing.T) {
	c := NormalizeCharge(doc(t, `{"id":123456789,"status":"pending","transaction_amount":10.5,"date_of_expiration":"2024-01-02","point_of_interaction":{"transaction_data":{"qr_code":"000201mp","qr_code_base64":"iVBOR"}}}`), ProviderMercadoPago)

	require.Equal(t, "123456789", c.TransactionID)
	require.Equal(t, "000201mp", c.PixCode)
	require.Equal(t, "data:image/png;base64,iVBOR", c.QRCodeURL)
	require.Equal(t, StatusPending, c.Status)
	require.True(t, c.Amount.Valid)
}

func TestNormalizeChargeVegas(t *testing.T) {
	c := NormalizeCharge(doc(t, `{
		"tansaction_token":"tok-typo",
		"pix_qr_code":"000201vegas",
		"pix_qr_code_base64":"iVBOR",
		"checkout_url":"https://pay/c",
		"order_url":"https://pay/o",
		"payment_status":"approved",
		"transaction_amount":4990,
		"external_code":"ORD1"
	}`), ProviderVegas)

	require.Equal(t, "tok-typo", c.TransactionID)
	require.Equal(t, "000201vegas", c.PixCode)
	require.Equal(t, "data:image/png;base64,iVBOR", c.QRCodeURL)
	require.Equal(t, StatusPaid, c.Status)
	require.Equal(t, "49.9", c.Amount.Decimal.String())
	require.Equal(t, "ORD1", c.ExternalCode)
	require.Equal(t, "https://pay/c", c.CheckoutURL)
}

func TestNormalizeChargeVegasFallbacks(t *testing.T) {
	c := NormalizeCharge(doc(t, `{"transaction_id_token":"t1","transaction_token":"t2","order_url":"https://pay/o","total_price":"12.00"}`), ProviderVegas)

	require.Equal(t, "t1", c.TransactionID)
	require.Equal(t, "https://pay/o", c.QRCodeURL)
	require.Equal(t, "12", c.Amount.Decimal.String())
}

func TestNormalizeChargeCustomPriority(t *testing.T) {
	c := NormalizeCharge(doc(t, `{"hash":"h1","id":"i1","qr_code":"qr","emv":"emv","qrcode_base64":"AAA","value":"7.5"}`), ProviderCustom)

	require.Equal(t, "h1", c.TransactionID)
	require.Equal(t, "qr", c.PixCode)
	require.Equal(t, "data:image/png;base64,AAA", c.QRCodeURL)
	require.Equal(t, StatusPending, c.Status)
	require.Equal(t, "h1", c.Hash)
	require.Equal(t, "7.5", c.Amount.Decimal.String())

	c = NormalizeCharge(doc(t, `{"transaction_id":"t","hash":"h","pix_code":"p","qr_code":"q","status":"waiting_payment"}`), ProviderCustom)
	require.Equal(t, "t", c.TransactionID)
	require.Equal(t, "p", c.PixCode)
	require.Equal(t, StatusPending, c.Status)
}

func TestNormalizeChargeMissingFieldsAreEmpty(t *testing.T) {
	for _, p := range allProviders {
		c := NormalizeCharge(map[string]interface{}{}, p)
		require.NotNil(t, c)
		require.False(t, c.Fallback)
		require.Empty(t, c.TransactionID)
		require.Empty(t, c.PixCode)
		require.False(t, c.Amount.Valid)
		require.Equal(t, StatusPending, c.Status)
	}
}

func TestNormalizeNeverPanics(t *testing.T) {
	weird := doc(t, `{"charges":"not-an-array","point_of_interaction":[1,2],"calendario":null,"pixTransaction":7,"transaction_amount":"abc"}`)
	for _, p := range allProviders {
		require.NotPanics(t, func() {
			require.NotNil(t, NormalizeCharge(weird, p))
			require.NotNil(t, NormalizeStatus(weird, p))
		})
	}

	c := NormalizeCharge(nil, ProviderAsaas)
	require.True(t, c.Fallback)
	s := NormalizeStatus(nil, ProviderAsaas)
	require.True(t, s.Fallback)
}

func TestNormalizeStatusVegas(t *testing.T) {
	s := NormalizeStatus(doc(t, `{"transaction_token":"tok","external_code":"ORD9","payment_status":"approved","date_approved":"2024-05-01","transaction_amount":1500,"payment_type":"pix","date_created":"2024-04-30"}`), ProviderVegas)

	require.Equal(t, "tok", s.TransactionID)
	require.Equal(t, "ORD9", s.ExternalCode)
	require.Equal(t, StatusPaid, s.Status)
	require.Equal(t, "2024-05-01", s.PaidAt)
	require.Equal(t, "15", s.Amount.Decimal.String())
	require.Equal(t, "pix", s.PaymentType)
}

func TestNormalizeStatusGeneric(t *testing.T) {
	s := NormalizeStatus(doc(t, `{"txid":"abc","status":"CONCLUIDA","horario":"2024-01-01T10:00:00Z","valor":{"original":"99.90"}}`), ProviderGerencianet)
	require.Equal(t, "abc", s.TransactionID)
	require.Equal(t, StatusPaid, s.Status)
	require.Equal(t, "2024-01-01T10:00:00Z", s.PaidAt)
	require.Equal(t, "99.9", s.Amount.Decimal.String())

	s = NormalizeStatus(doc(t, `{"id":"pay_1","status":"RECEIVED","paymentDate":"2024-02-02","value":20}`), ProviderAsaas)
	require.Equal(t, "pay_1", s.TransactionID)
	require.Equal(t, StatusPaid, s.Status)
	require.Equal(t, "2024-02-02", s.PaidAt)

	s = NormalizeStatus(doc(t, `{"id":"x","status":"under_review"}`), ProviderMercadoPago)
	require.Equal(t, Status("under_review"), s.Status)
}
