package model

import "time"

const (
	InvoiceStatusPending   = "pending"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusExpired   = "expired"
	InvoiceStatusCancelled = "cancelled"

	ProviderCryptoBot = "cryptobot"
	ProviderPakasir   = "pakasir"
)

// Plan is a purchasable premium tier.
type Plan struct {
	Type         string
	Name         string
	DurationDays int
	PriceUSD     float64
	PriceIDR     int
	Discount     int // percent off the original price, display only
}

var Plans = map[string]Plan{
	"1_month":  {Type: "1_month", Name: "1 Month Premium", DurationDays: 30, PriceUSD: 10, PriceIDR: 50000, Discount: 0},
	"3_months": {Type: "3_months", Name: "3 Months Premium", DurationDays: 90, PriceUSD: 18, PriceIDR: 100000, Discount: 40},
	"6_months": {Type: "6_months", Name: "6 Months Premium", DurationDays: 180, PriceUSD: 50, PriceIDR: 150000, Discount: 50},
}

// Invoice is one payment attempt against a provider.
type Invoice struct {
	OrderID   string // our key; the provider's invoice id for CryptoBot
	UserID    int64
	Provider  string
	Plan      string
	Amount    float64
	Currency  string
	Status    string
	PayURL    string
	PaidAt    time.Time
	CreatedAt time.Time
}

// Subscription is one activated premium period.
type Subscription struct {
	ID           string
	UserID       int64
	Plan         string
	Amount       float64
	Currency     string
	DurationDays int
	StartDate    time.Time
	EndDate      time.Time
	Status       string // active, expired
	CreatedAt    time.Time
}
