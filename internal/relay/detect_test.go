package relay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	long := strings.Repeat("x", 31)
	cases := []struct {
		token string
		want  Gateway
	}{
		{"test_abc", GatewayTest},
		{"test_" + long, GatewayTest},
		{"APP_USR-1234", GatewayMercadoPago},
		{"TEST-1234", GatewayMercadoPago},
		{"$aact_YTU5YTE0M2M2N2I4MTliNzk0YTI5N2U5MzdjNWZmNDQ6OjAwMDAwMDAwMDAwMDAwMDAwMDA6OiRhYWNoXzQ4", GatewayAsaas},
		{"my-asaas-key", GatewayAsaas},
		{long, GatewayIronPay},
		{"tribo_" + long, GatewayIronPay},
		{"tribo_123", GatewayTriboPay},
		{"key-tribopay", GatewayTriboPay},
		{strings.Repeat("x", 30), GatewayUnsupported},
		{"abc", GatewayUnsupported},
		{"", GatewayUnsupported},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Detect(tc.token), "token %q", tc.token)
	}
}
