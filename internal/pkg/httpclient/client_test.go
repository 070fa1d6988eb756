package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDoCustomVerbWithBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, MethodView, r.Method)
		require.Equal(t, "secret", r.Header.Get("api-key"))
		body, _ := io.ReadAll(r.Body)
		var in map[string]string
		require.NoError(t, json.Unmarshal(body, &in))
		require.Equal(t, "tok", in["transaction_token"])
		_, _ = w.Write([]byte(`{"payment_status":"approved","transaction_amount":1990}`))
	}))
	defer srv.Close()

	resp, err := New().Do(context.Background(), MethodView, srv.URL+"/checkout",
		map[string]string{"transaction_token": "tok"}, Header("api-key", "secret"))
	require.NoError(t, err)
	require.True(t, resp.OK())

	doc, err := resp.JSON()
	require.NoError(t, err)
	require.Equal(t, "approved", doc["payment_status"])
	require.Equal(t, json.Number("1990"), doc["transaction_amount"])
}

func TestNon2xxIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		require.Equal(t, "x", r.URL.Query().Get("api_token"))
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid document"}`))
	}))
	defer srv.Close()

	resp, err := New().Post(context.Background(), srv.URL, map[string]any{"a": 1}, Bearer("abc"), Query("api_token", "x"))
	require.NoError(t, err)
	require.False(t, resp.OK())
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestJSONRejectsGarbage(t *testing.T) {
	resp := &Response{StatusCode: 200, Body: []byte("<html>")}
	_, err := resp.JSON()
	require.Error(t, err)
}

func TestWithTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	_, err := New().WithTimeout(50*time.Millisecond).Get(context.Background(), srv.URL)
	require.Error(t, err)
}

func TestWithRetryRecoversFromDroppedConnection(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			conn, _, err := w.(http.Hijacker).Hijack()
			require.NoError(t, err)
			_ = conn.Close()
			return
		}
		_, _ = w.Write([]byte(`{"status":"paid"}`))
	}))
	defer srv.Close()

	_, err := New().Get(context.Background(), srv.URL)
	require.Error(t, err, "no retries by default")

	atomic.StoreInt32(&attempts, 0)
	resp, err := New().WithRetry(2, time.Millisecond, 5*time.Millisecond).Get(context.Background(), srv.URL)
	require.NoError(t, err)
	require.True(t, resp.OK())
	require.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}
