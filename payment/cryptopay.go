// Package payment holds the HTTP clients for the two payment backends. Both
// are treated as opaque invoice-status oracles: create an invoice, ask for
// its status, nothing else.
package payment

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const (
	cryptoPayMainnet = "https://pay.crypt.bot/api"
	cryptoPayTestnet = "https://testnet-pay.crypt.bot/api"
)

// Invoice statuses the Crypto Pay API reports.
const (
	CryptoInvoiceActive  = "active"
	CryptoInvoicePaid    = "paid"
	CryptoInvoiceExpired = "expired"
)

type CryptoInvoice struct {
	InvoiceID int64  `json:"invoice_id"`
	Status    string `json:"status"`
	Asset     string `json:"asset"`
	Amount    string `json:"amount"`
	PayURL    string `json:"pay_url"`
	Payload   string `json:"payload"`
}

type CryptoPayClient struct {
	token   string
	baseURL string
	client  *http.Client
}

func NewCryptoPayClient(token string, testnet bool) *CryptoPayClient {
	base := cryptoPayMainnet
	if testnet {
		base = cryptoPayTestnet
	}
	return &CryptoPayClient{
		token:   token,
		baseURL: base,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// SetBaseURL overrides the API endpoint; used by tests.
func (c *CryptoPayClient) SetBaseURL(u string) {
	c.baseURL = u
}

func (c *CryptoPayClient) Configured() bool {
	return c != nil && c.token != ""
}

type cryptoResponse struct {
	OK     bool                `json:"ok"`
	Result jsoniter.RawMessage `json:"result"`
	Error  struct {
		Code int    `json:"code"`
		Name string `json:"name"`
	} `json:"error"`
}

func (c *CryptoPayClient) call(method string, params url.Values, result interface{}) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/"+method+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Crypto-Pay-API-Token", c.token)
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var r cryptoResponse
	if err := jsoniter.Unmarshal(body, &r); err != nil {
		return fmt.Errorf("cryptopay %v: %w", method, err)
	}
	if !r.OK {
		return fmt.Errorf("cryptopay %v: %v (%v)", method, r.Error.Name, r.Error.Code)
	}
	if result != nil {
		return jsoniter.Unmarshal(r.Result, result)
	}
	return nil
}

// CreateInvoice creates a USDT invoice for the given dollar amount. payload
// travels back unchanged in status responses, used to carry our order id.
func (c *CryptoPayClient) CreateInvoice(amountUSD float64, description, payload string) (*CryptoInvoice, error) {
	params := url.Values{}
	params.Set("asset", "USDT")
	params.Set("amount", strconv.FormatFloat(amountUSD, 'f', 2, 64))
	params.Set("description", description)
	params.Set("payload", payload)
	params.Set("expires_in", "3600")
	var inv CryptoInvoice
	if err := c.call("createInvoice", params, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetInvoice fetches the current status of one invoice.
func (c *CryptoPayClient) GetInvoice(invoiceID int64) (*CryptoInvoice, error) {
	params := url.Values{}
	params.Set("invoice_ids", strconv.FormatInt(invoiceID, 10))
	var result struct {
		Items []CryptoInvoice `json:"items"`
	}
	if err := c.call("getInvoices", params, &result); err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, fmt.Errorf("cryptopay: invoice %v not found", invoiceID)
	}
	return &result.Items[0], nil
}
