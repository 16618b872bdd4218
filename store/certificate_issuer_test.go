package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCertificateIssuerLocalPath(t *testing.T) {
	issuer := NewCertificateIssuer("/certificates/", "")
	issuer.now = func() time.Time { return time.UnixMilli(1714564800000) }

	url, err := issuer.Issue(context.Background(), 7, 1)
	require.NoError(t, err)
	require.Equal(t, "/certificates/7_1_1714564800000.pdf", url)
}

func TestCertificateIssuerRemoteRenderer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotEmpty(t, body["request_id"])
		require.EqualValues(t, 7, body["user_id"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"certificate_url": "https://cdn.example.com/certs/abc.pdf",
		})
	}))
	defer srv.Close()

	issuer := NewCertificateIssuer("/certificates", srv.URL)
	url, err := issuer.Issue(context.Background(), 7, 1)
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/certs/abc.pdf", url)
}

func TestCertificateIssuerRemoteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "renderer down", http.StatusBadGateway)
	}))
	defer srv.Close()

	issuer := NewCertificateIssuer("/certificates", srv.URL)
	_, err := issuer.Issue(context.Background(), 7, 1)
	require.Error(t, err)
}
