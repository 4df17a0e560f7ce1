package main

import (
	"strconv"
	"time"

	"github.com/insikex/safeguard/bot"
	"github.com/insikex/safeguard/model"
	"github.com/insikex/safeguard/payment"
	"github.com/insikex/safeguard/pkg/log"
	"github.com/insikex/safeguard/service"
)

// GoBackgrounds starts the periodic maintenance loops: evicting members
// whose verification timed out, expiring premium subscriptions and polling
// Crypto Pay for settled invoices. Timers armed before a restart are gone,
// so the timeout sweep is also the recovery path.
func GoBackgrounds(b *bot.Bot) {
	go verificationTimeoutBackground(b, 10*time.Second)()
	go premiumExpiryBackground(1 * time.Hour)()
	go cryptoInvoiceBackground(b, 1*time.Minute)()
}

func verificationTimeoutBackground(b *bot.Bot, interval time.Duration) func() {
	return func() {
		tick := time.Tick(interval)
		for now := range tick {
			expired, err := service.ExpiredVerifications(now)
			if err != nil {
				log.Warn("timeout sweep: %v", err)
				continue
			}
			for _, p := range expired {
				b.Coordinator.OnTimeout(p.ChatID, p.UserID)
			}
		}
	}
}

func premiumExpiryBackground(interval time.Duration) func() {
	return func() {
		tick := time.Tick(interval)
		for range tick {
			if err := service.ExpirePremium(); err != nil {
				log.Warn("premium sweep: %v", err)
			}
		}
	}
}

// cryptoInvoiceBackground reconciles pending Crypto Pay invoices. The
// provider has no webhook here, so we poll. SettleInvoice is a no-op for
// anything already settled, repeated polls cannot double-activate.
func cryptoInvoiceBackground(b *bot.Bot, interval time.Duration) func() {
	return func() {
		if !b.CryptoPay.Configured() {
			return
		}
		tick := time.Tick(interval)
		for range tick {
			pending, err := service.PendingInvoices(model.ProviderCryptoBot)
			if err != nil {
				log.Warn("invoice poll: %v", err)
				continue
			}
			for _, inv := range pending {
				invoiceID, err := strconv.ParseInt(inv.OrderID, 10, 64)
				if err != nil {
					continue
				}
				remote, err := b.CryptoPay.GetInvoice(invoiceID)
				if err != nil {
					log.Warn("invoice poll: invoice %v: %v", inv.OrderID, err)
					continue
				}
				var status string
				switch remote.Status {
				case payment.CryptoInvoicePaid:
					status = model.InvoiceStatusPaid
				case payment.CryptoInvoiceExpired:
					status = model.InvoiceStatusExpired
				default:
					continue
				}
				settled, err := settleCryptoInvoice(inv.OrderID, status)
				if err != nil {
					log.Error("invoice poll: settle %v: %v", inv.OrderID, err)
					continue
				}
				if settled && status == model.InvoiceStatusPaid {
					log.Info("premium %v activated for user %v, invoice %v", inv.Plan, inv.UserID, inv.OrderID)
					notifyPremiumActivated(b, inv.UserID)
				}
			}
		}
	}
}

func settleCryptoInvoice(orderID, status string) (bool, error) {
	inv, settled, err := service.SettleInvoice(orderID, status)
	if err != nil {
		return false, err
	}
	if !settled || status != model.InvoiceStatusPaid {
		return settled, nil
	}
	return true, service.ActivatePremium(inv.UserID, inv.Plan, inv.Amount, inv.Currency)
}

func notifyPremiumActivated(b *bot.Bot, userID int64) {
	user, err := service.GetBotUser(userID)
	if err != nil || user == nil {
		return
	}
	b.SendPremiumActivated(userID, user.Language, user.PremiumUntil)
}
