package payment

import (
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/fields"
)

// gerencianetGateway speaks the BACEN cob API (txid, pixCopiaECola).
type gerencianetGateway struct{ pixCharges }

func (g *gerencianetGateway) Provider() Provider { return ProviderGerencianet }

func (g *gerencianetGateway) Format(req PaymentRequest) map[string]interface{} {
	return map[string]interface{}{
		"calendario": map[string]interface{}{"expiracao": 3600},
		"valor": map[string]interface{}{
			"original": req.Amount.StringFixed(2),
		},
		"chave":              g.cfg.PixKey,
		"solicitacaoPagador": description(req),
		"infoAdicionais": []map[string]interface{}{
			{"nome": "Cliente", "valor": req.Customer.Name},
		},
	}
}

func (g *gerencianetGateway) NormalizeCharge(raw map[string]interface{}) *NormalizedCharge {
	return &NormalizedCharge{
		TransactionID: fields.String(raw, "txid"),
		PixCode:       fields.String(raw, "pixCopiaECola"),
		QRCodeURL:     fields.String(raw, "imagemQrcode"),
		Status:        StatusPending,
		ExpiresAt:     fields.String(raw, "calendario.criacao"),
		Amount:        amountOf(raw, "valor.original"),
	}
}

func (g *gerencianetGateway) NormalizeStatus(raw map[string]interface{}) *NormalizedStatus {
	return genericStatus(raw, gerencianetVocabulary)
}
