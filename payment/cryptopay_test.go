package payment

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCryptoPayCreateInvoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/createInvoice", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("Crypto-Pay-API-Token"))
		q := r.URL.Query()
		assert.Equal(t, "USDT", q.Get("asset"))
		assert.Equal(t, "10.00", q.Get("amount"))
		assert.Equal(t, "42:1_month", q.Get("payload"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"invoice_id":777,"status":"active","asset":"USDT","amount":"10.00","pay_url":"https://t.me/CryptoBot?start=x","payload":"42:1_month"}}`))
	}))
	defer srv.Close()

	c := NewCryptoPayClient("secret", false)
	c.SetBaseURL(srv.URL)

	inv, err := c.CreateInvoice(10, "1 Month Premium", "42:1_month")
	require.NoError(t, err)
	assert.Equal(t, int64(777), inv.InvoiceID)
	assert.Equal(t, CryptoInvoiceActive, inv.Status)
	assert.Equal(t, "https://t.me/CryptoBot?start=x", inv.PayURL)
}

func TestCryptoPayGetInvoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/getInvoices", r.URL.Path)
		assert.Equal(t, "777", r.URL.Query().Get("invoice_ids"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"items":[{"invoice_id":777,"status":"paid"}]}}`))
	}))
	defer srv.Close()

	c := NewCryptoPayClient("secret", false)
	c.SetBaseURL(srv.URL)

	inv, err := c.GetInvoice(777)
	require.NoError(t, err)
	assert.Equal(t, CryptoInvoicePaid, inv.Status)
}

func TestCryptoPayAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":false,"error":{"code":401,"name":"UNAUTHORIZED"}}`))
	}))
	defer srv.Close()

	c := NewCryptoPayClient("bad", false)
	c.SetBaseURL(srv.URL)

	_, err := c.CreateInvoice(10, "x", "y")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNAUTHORIZED")
}

func TestCryptoPayConfigured(t *testing.T) {
	assert.False(t, (*CryptoPayClient)(nil).Configured())
	assert.False(t, NewCryptoPayClient("", false).Configured())
	assert.True(t, NewCryptoPayClient("secret", false).Configured())
}
