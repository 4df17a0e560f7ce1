package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/insikex/safeguard/model"
	"github.com/insikex/safeguard/payment"
	"github.com/insikex/safeguard/pkg/log"
	"github.com/insikex/safeguard/service"
)

type pakasirWebhook struct {
	Amount        int    `json:"amount"`
	OrderID       string `json:"order_id"`
	Project       string `json:"project"`
	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method"`
	CompletedAt   string `json:"completed_at"`
}

// PostPakasirWebhook receives payment notifications from Pakasir. The order
// must exist and its amount must match before any state changes; a repeated
// notification settles nothing and activates nothing.
func PostPakasirWebhook(ctx *gin.Context) {
	var hook pakasirWebhook
	if err := ctx.ShouldBindJSON(&hook); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid data"})
		return
	}
	if hook.OrderID == "" || hook.Amount == 0 || hook.Status == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid data"})
		return
	}
	inv, err := service.GetInvoice(hook.OrderID)
	if err != nil {
		log.Warn("webhook: unknown pakasir order %v", hook.OrderID)
		ctx.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}
	if inv.Provider != model.ProviderPakasir || int(inv.Amount) != hook.Amount {
		log.Warn("webhook: amount mismatch for order %v: have %v, got %v",
			hook.OrderID, inv.Amount, hook.Amount)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "amount mismatch"})
		return
	}

	var status string
	switch hook.Status {
	case payment.PakasirStatusCompleted:
		status = model.InvoiceStatusPaid
	case payment.PakasirStatusExpired:
		status = model.InvoiceStatusExpired
	case payment.PakasirStatusCancelled:
		status = model.InvoiceStatusCancelled
	default:
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	settled, err := settleAndActivate(hook.OrderID, status)
	if err != nil {
		log.Error("webhook: settle order %v: %v", hook.OrderID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if !settled {
		log.Info("webhook: order %v already processed", hook.OrderID)
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// settleAndActivate finalizes an invoice and, on payment, activates the
// buyer's premium. Reports whether this call did the settling.
func settleAndActivate(orderID, status string) (bool, error) {
	inv, settled, err := service.SettleInvoice(orderID, status)
	if err != nil {
		return false, err
	}
	if !settled || status != model.InvoiceStatusPaid {
		return settled, nil
	}
	if err := service.ActivatePremium(inv.UserID, inv.Plan, inv.Amount, inv.Currency); err != nil {
		return true, err
	}
	log.Info("webhook: premium %v activated for user %v, order %v", inv.Plan, inv.UserID, orderID)
	if notifyActivated != nil {
		notifyActivated(inv.UserID, inv.Plan)
	}
	return true, nil
}
