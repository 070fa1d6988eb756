package relay

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/emickson/mobile-action-bar-backend/internal/pkg/fields"
	"github.com/emickson/mobile-action-bar-backend/internal/store"
)

// ErrNotFound means neither the cache nor a live lookup knows the transaction.
var ErrNotFound = errors.New("transaction not found")

// Status answers from the cache first. On a miss it asks the gateway behind
// the default token, when that gateway supports direct lookups.
func (s *Service) Status(ctx context.Context, transactionID string) (store.Record, error) {
	if s.store != nil {
		rec, ok, err := s.store.Get(ctx, transactionID)
		if err != nil {
			s.logger.Warn("status store read failed", zap.String("transaction_id", transactionID), zap.Error(err))
		} else if ok {
			return rec, nil
		}
	}

	token := s.cfg.DefaultToken
	gw := Detect(token)

	var native, paidAt string
	var err error
	switch gw {
	case GatewayMercadoPago:
		native, paidAt, err = s.mercadoPagoStatus(ctx, token, transactionID)
	case GatewayAsaas:
		native, paidAt, err = s.asaasStatus(ctx, token, transactionID)
	default:
		return store.Record{}, ErrNotFound
	}
	if err != nil {
		return store.Record{}, fmt.Errorf("%s status lookup: %w", gw, err)
	}
	return s.record(ctx, gw, transactionID, native, paidAt), nil
}

func (s *Service) mercadoPagoStatus(ctx context.Context, token, transactionID string) (string, string, error) {
	id, err := strconv.Atoi(transactionID)
	if err != nil {
		return "", "", ErrNotFound
	}
	client, err := s.mp(token)
	if err != nil {
		return "", "", err
	}
	resp, err := client.Get(ctx, id)
	if err != nil {
		return "", "", err
	}
	doc, err := toDocument(resp)
	if err != nil {
		return "", "", err
	}
	return fields.String(doc, "status"), fields.String(doc, "date_approved"), nil
}
