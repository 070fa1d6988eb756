package relay

import (
	"fmt"
	"time"

	"github.com/emickson/mobile-action-bar-backend/internal/payment"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/utils"
)

// mockCharge answers test_ tokens with a synthetic pending charge.
func (s *Service) mockCharge(req payment.RelayChargeRequest) (*ChargeResponse, error) {
	now := s.now()
	id := utils.ExternalCode("test_", now)
	pix := fmt.Sprintf("00020126580014br.gov.bcb.pix0136%s5204000053039865802BR5913CHECKOUT TEST6009SAO PAULO62140510%s6304", utils.GenerateUUID(), utils.Truncate(id, 10))

	qr, err := utils.QRCodeDataURI(pix, 256)
	if err != nil {
		return nil, &ChargeError{StatusCode: 500, Message: err.Error()}
	}

	return &ChargeResponse{
		TransactionID: id,
		QRCode:        pix,
		PixCode:       pix,
		QRCodeBase64:  qr,
		QRCodeURL:     qr,
		Status:        string(payment.StatusPending),
		Amount:        amountFloat(utils.FromCents(req.Amount)),
		ExpiresAt:     now.Add(15 * time.Minute).UTC().Format(time.RFC3339),
	}, nil
}
