package relay

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/emickson/mobile-action-bar-backend/internal/payment"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/httpclient"
	"github.com/emickson/mobile-action-bar-backend/internal/pkg/utils"
)

// Forward posts req.Data to req.Endpoint with the caller's key as a bearer
// token and hands back the gateway's answer untouched. Only known gateway
// hosts are reachable.
func (s *Service) Forward(ctx context.Context, req payment.RelayProxyRequest) (*httpclient.Response, error) {
	if req.APIKey == "" || req.Endpoint == "" {
		return nil, badRequest("apiKey and endpoint are required")
	}
	u, err := url.Parse(req.Endpoint)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return nil, badRequest("invalid endpoint")
	}
	if !s.allowedHost(u.Hostname()) {
		s.logger.Warn("proxy endpoint rejected", zap.String("host", u.Host))
		return nil, &ChargeError{StatusCode: http.StatusForbidden, Message: "endpoint not allowed"}
	}

	s.logger.Info("proxying gateway call",
		zap.String("endpoint", req.Endpoint),
		zap.String("token", utils.MaskToken(req.APIKey)),
	)
	resp, err := s.http.Post(ctx, req.Endpoint, req.Data, httpclient.Bearer(req.APIKey))
	if err != nil {
		return nil, &ChargeError{StatusCode: http.StatusBadGateway, Message: "gateway unreachable", Cause: err.Error()}
	}
	return resp, nil
}

func (s *Service) allowedHost(host string) bool {
	host = strings.ToLower(host)
	for _, h := range append(payment.KnownHosts(), s.cfg.ProxyHosts...) {
		if strings.EqualFold(h, host) {
			return true
		}
	}
	return false
}
