package router

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emickson/mobile-action-bar-backend/internal/middleware"
	"github.com/emickson/mobile-action-bar-backend/internal/relay"
	"github.com/emickson/mobile-action-bar-backend/internal/store"
)

func setup(t *testing.T) *echo.Echo {
	t.Helper()
	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<h1>checkout</h1>"), 0o600))

	svc := relay.NewService(relay.Config{}, store.NewMemory(time.Hour))
	e := echo.New()
	Setup(e, svc, zap.NewNop(), Options{
		AllowedOrigins: []string{"*"},
		StaticDir:      static,
		Deduper:        middleware.NewWebhookDeduper(nil, time.Minute),
	})
	return e
}

func request(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndStatic(t *testing.T) {
	e := setup(t)

	rec := request(e, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = request(e, http.MethodGet, "/index.html", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "checkout")
}

func TestChargeThenStatusRoundTrip(t *testing.T) {
	e := setup(t)

	rec := request(e, http.MethodPost, "/api/pagar",
		`{"amount":2500,"apiKey":"test_router","customer":{"name":"Ana Souza","email":"ana@example.com"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"transaction_id":"test_`)

	rec = request(e, http.MethodPost, "/webhook/tribopay", `{"id":"dep_7","status":"paid"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", rec.Body.String())

	rec = request(e, http.MethodGet, "/api/pagamento/status/dep_7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"paid"`)
	require.Contains(t, rec.Body.String(), `"transactionId":"dep_7"`)

	rec = request(e, http.MethodGet, "/api/pagamento/status/unknown", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPreflight(t *testing.T) {
	e := setup(t)

	rec := request(e, http.MethodOptions, "/api/pagar", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "GET, POST, OPTIONS, VIEW", rec.Header().Get("Access-Control-Allow-Methods"))
}
