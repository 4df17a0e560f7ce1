package payment

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const pakasirAPIBase = "https://app.pakasir.com/api"

// Transaction statuses Pakasir reports.
const (
	PakasirStatusPending   = "pending"
	PakasirStatusCompleted = "completed"
	PakasirStatusExpired   = "expired"
	PakasirStatusCancelled = "cancelled"
)

// PakasirPayment is the created QRIS transaction.
type PakasirPayment struct {
	Project       string `json:"project"`
	OrderID       string `json:"order_id"`
	Amount        int    `json:"amount"`
	Fee           int    `json:"fee"`
	TotalPayment  int    `json:"total_payment"`
	PaymentMethod string `json:"payment_method"`
	PaymentNumber string `json:"payment_number"` // the QR string for QRIS
	ExpiredAt     string `json:"expired_at"`
}

// PakasirStatus is the state of one transaction.
type PakasirStatus struct {
	OrderID       string `json:"order_id"`
	Amount        int    `json:"amount"`
	Project       string `json:"project"`
	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method"`
	CompletedAt   string `json:"completed_at"`
}

type PakasirClient struct {
	project string
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewPakasirClient(project, apiKey string) *PakasirClient {
	return &PakasirClient{
		project: project,
		apiKey:  apiKey,
		baseURL: pakasirAPIBase,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// SetBaseURL overrides the API endpoint; used by tests.
func (c *PakasirClient) SetBaseURL(u string) {
	c.baseURL = u
}

func (c *PakasirClient) Configured() bool {
	return c != nil && c.project != "" && c.apiKey != ""
}

// CreateTransaction opens a QRIS payment of amount IDR under orderID.
func (c *PakasirClient) CreateTransaction(orderID string, amountIDR int) (*PakasirPayment, error) {
	body, err := jsoniter.Marshal(map[string]interface{}{
		"project":        c.project,
		"order_id":       orderID,
		"amount":         amountIDR,
		"payment_method": "qris",
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/transactions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("pakasir transactions: status %v: %s", resp.StatusCode, raw)
	}
	var result struct {
		Payment PakasirPayment `json:"payment"`
	}
	if err := jsoniter.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return &result.Payment, nil
}

// TransactionDetail asks for the current status of one transaction.
func (c *PakasirClient) TransactionDetail(orderID string, amountIDR int) (*PakasirStatus, error) {
	params := url.Values{}
	params.Set("project", c.project)
	params.Set("order_id", orderID)
	params.Set("amount", strconv.Itoa(amountIDR))
	params.Set("api_key", c.apiKey)
	resp, err := c.client.Get(c.baseURL + "/transactiondetail?" + params.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("pakasir transactiondetail: status %v: %s", resp.StatusCode, raw)
	}
	var result struct {
		Transaction PakasirStatus `json:"transaction"`
	}
	if err := jsoniter.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return &result.Transaction, nil
}
