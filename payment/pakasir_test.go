package payment

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPakasirCreateTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transactions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		require.NoError(t, jsoniter.Unmarshal(raw, &body))
		assert.Equal(t, "myproject", body["project"])
		assert.Equal(t, "SFG42_1M_x", body["order_id"])
		assert.Equal(t, "qris", body["payment_method"])
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"payment":{"project":"myproject","order_id":"SFG42_1M_x","amount":50000,"fee":350,"total_payment":50350,"payment_method":"qris","payment_number":"00020101021226..."}}`))
	}))
	defer srv.Close()

	c := NewPakasirClient("myproject", "key")
	c.SetBaseURL(srv.URL)

	pay, err := c.CreateTransaction("SFG42_1M_x", 50000)
	require.NoError(t, err)
	assert.Equal(t, 50000, pay.Amount)
	assert.Equal(t, 50350, pay.TotalPayment)
	assert.NotEmpty(t, pay.PaymentNumber)
}

func TestPakasirTransactionDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactiondetail", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "myproject", q.Get("project"))
		assert.Equal(t, "SFG42_1M_x", q.Get("order_id"))
		assert.Equal(t, "50000", q.Get("amount"))
		assert.Equal(t, "key", q.Get("api_key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"transaction":{"order_id":"SFG42_1M_x","amount":50000,"project":"myproject","status":"completed","payment_method":"qris","completed_at":"2024-09-10T08:07:02.819+07:00"}}`))
	}))
	defer srv.Close()

	c := NewPakasirClient("myproject", "key")
	c.SetBaseURL(srv.URL)

	st, err := c.TransactionDetail("SFG42_1M_x", 50000)
	require.NoError(t, err)
	assert.Equal(t, PakasirStatusCompleted, st.Status)
}

func TestPakasirErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"order_id already used"}`))
	}))
	defer srv.Close()

	c := NewPakasirClient("myproject", "key")
	c.SetBaseURL(srv.URL)

	_, err := c.CreateTransaction("dup", 50000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestPakasirConfigured(t *testing.T) {
	assert.False(t, (*PakasirClient)(nil).Configured())
	assert.False(t, NewPakasirClient("p", "").Configured())
	assert.True(t, NewPakasirClient("p", "k").Configured())
}
