package command_handler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/insikex/safeguard/bot"
	"github.com/insikex/safeguard/locale"
	"github.com/insikex/safeguard/model"
	"github.com/insikex/safeguard/pkg/log"
	"github.com/insikex/safeguard/service"
	tb "gopkg.in/tucnak/telebot.v2"
)

func init() {
	bot.RegisterCommands("premium", Premium)
}

// Premium without arguments lists the plans. With "<plan> crypto" it opens
// a USDT invoice via Crypto Pay; with "<plan> qris" it opens an Indonesian
// QRIS transaction via Pakasir.
func Premium(b *bot.Bot, m *tb.Message, params []string) {
	lang := locale.DetectLanguage(m.Sender.LanguageCode)
	if _, err := service.TouchBotUser(int64(m.Sender.ID), m.Sender.Username, bot.DisplayName(m.Sender), m.Sender.LanguageCode); err != nil {
		log.Warn("premium: touch user %v: %v", m.Sender.ID, err)
	}
	if len(params) == 0 {
		b.Bot.Reply(m, locale.GetText("premium.plans", lang, map[string]string{
			"plans": planList(),
		}), tb.Silent, tb.NoPreview)
		return
	}

	planType := strings.ToLower(params[0])
	plan, ok := model.Plans[planType]
	if !ok {
		b.Bot.Reply(m, locale.GetText("premium.unknown_plan", lang, nil), tb.Silent)
		return
	}
	method := "crypto"
	if len(params) > 1 {
		method = strings.ToLower(params[1])
	}
	userID := int64(m.Sender.ID)

	switch method {
	case "qris":
		if !b.Pakasir.Configured() {
			b.Bot.Reply(m, locale.GetText("premium.provider_down", lang, nil), tb.Silent)
			return
		}
		orderID := qrisOrderID(userID, planType)
		pay, err := b.Pakasir.CreateTransaction(orderID, plan.PriceIDR)
		if err != nil {
			log.Warn("premium: pakasir transaction for %v: %v", userID, err)
			b.Bot.Reply(m, locale.GetText("premium.provider_down", lang, nil), tb.Silent)
			return
		}
		if err := service.CreateInvoice(&model.Invoice{
			OrderID:   orderID,
			UserID:    userID,
			Provider:  model.ProviderPakasir,
			Plan:      planType,
			Amount:    float64(plan.PriceIDR),
			Currency:  "IDR",
			Status:    model.InvoiceStatusPending,
			CreatedAt: time.Now(),
		}); err != nil {
			log.Warn("premium: store invoice %v: %v", orderID, err)
			return
		}
		text := locale.GetText("premium.qris_ready", lang, map[string]string{
			"plan":   plan.Name,
			"amount": fmt.Sprintf("Rp %v", pay.TotalPayment),
			"order":  orderID,
		})
		text += "\n\n<code>" + pay.PaymentNumber + "</code>"
		b.Bot.Reply(m, text, tb.Silent, tb.NoPreview)
	default:
		if !b.CryptoPay.Configured() {
			b.Bot.Reply(m, locale.GetText("premium.provider_down", lang, nil), tb.Silent)
			return
		}
		description := fmt.Sprintf("%v for @%v", plan.Name, m.Sender.Username)
		payload := fmt.Sprintf("%v:%v", userID, planType)
		inv, err := b.CryptoPay.CreateInvoice(plan.PriceUSD, description, payload)
		if err != nil {
			log.Warn("premium: cryptopay invoice for %v: %v", userID, err)
			b.Bot.Reply(m, locale.GetText("premium.provider_down", lang, nil), tb.Silent)
			return
		}
		if err := service.CreateInvoice(&model.Invoice{
			OrderID:   strconv.FormatInt(inv.InvoiceID, 10),
			UserID:    userID,
			Provider:  model.ProviderCryptoBot,
			Plan:      planType,
			Amount:    plan.PriceUSD,
			Currency:  "USD",
			Status:    model.InvoiceStatusPending,
			PayURL:    inv.PayURL,
			CreatedAt: time.Now(),
		}); err != nil {
			log.Warn("premium: store invoice %v: %v", inv.InvoiceID, err)
			return
		}
		b.Bot.Reply(m, locale.GetText("premium.invoice_ready", lang, map[string]string{
			"url": inv.PayURL,
		}), tb.Silent, tb.NoPreview)
	}
}

func planList() string {
	types := make([]string, 0, len(model.Plans))
	for t := range model.Plans {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		return model.Plans[types[i]].DurationDays < model.Plans[types[j]].DurationDays
	})
	var sb strings.Builder
	for _, t := range types {
		p := model.Plans[t]
		fmt.Fprintf(&sb, "• <b>%v</b> (%v): $%.0f / Rp %v", p.Name, t, p.PriceUSD, p.PriceIDR)
		if p.Discount > 0 {
			fmt.Fprintf(&sb, " (-%v%%)", p.Discount)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func qrisOrderID(userID int64, planType string) string {
	prefix := strings.ToUpper(planType)
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	return fmt.Sprintf("SFG%v_%v_%v", userID, prefix, time.Now().Format("20060102150405"))
}
