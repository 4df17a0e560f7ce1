package service

import (
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	"github.com/insikex/safeguard/db"
	"github.com/insikex/safeguard/model"
	jsoniter "github.com/json-iterator/go"
)

var ErrInvoiceNotFound = fmt.Errorf("invoice not found")

func CreateInvoice(inv *model.Invoice) error {
	inv.CreatedAt = time.Now()
	if inv.Status == "" {
		inv.Status = model.InvoiceStatusPending
	}
	return db.DB().Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists([]byte(model.BucketInvoice))
		if err != nil {
			return err
		}
		b, err := jsoniter.Marshal(inv)
		if err != nil {
			return err
		}
		return bkt.Put([]byte(inv.OrderID), b)
	})
}

func GetInvoice(orderID string) (*model.Invoice, error) {
	var invoice *model.Invoice
	err := db.DB().View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(model.BucketInvoice))
		if bkt == nil {
			return ErrInvoiceNotFound
		}
		b := bkt.Get([]byte(orderID))
		if b == nil {
			return ErrInvoiceNotFound
		}
		var inv model.Invoice
		if err := jsoniter.Unmarshal(b, &inv); err != nil {
			return err
		}
		invoice = &inv
		return nil
	})
	return invoice, err
}

// SettleInvoice marks a pending invoice with its final status and, when
// paid, stamps the payment time. Returns the updated invoice, or
// ErrInvoiceNotFound. Settling an already settled invoice is a no-op and
// reports settled=false so callers do not double-activate premium.
func SettleInvoice(orderID string, status string) (inv *model.Invoice, settled bool, err error) {
	err = db.DB().Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists([]byte(model.BucketInvoice))
		if err != nil {
			return err
		}
		b := bkt.Get([]byte(orderID))
		if b == nil {
			return ErrInvoiceNotFound
		}
		var record model.Invoice
		if err := jsoniter.Unmarshal(b, &record); err != nil {
			return err
		}
		if record.Status != model.InvoiceStatusPending {
			inv = &record
			return nil
		}
		record.Status = status
		if status == model.InvoiceStatusPaid {
			record.PaidAt = time.Now()
		}
		b, err = jsoniter.Marshal(&record)
		if err != nil {
			return err
		}
		if err := bkt.Put([]byte(orderID), b); err != nil {
			return err
		}
		inv = &record
		settled = true
		return nil
	})
	return inv, settled, err
}

// PendingInvoices lists unsettled invoices, optionally of one provider.
func PendingInvoices(provider string) ([]model.Invoice, error) {
	var list []model.Invoice
	err := db.DB().View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(model.BucketInvoice))
		if bkt == nil {
			return nil
		}
		return bkt.ForEach(func(k, b []byte) error {
			var inv model.Invoice
			if err := jsoniter.Unmarshal(b, &inv); err != nil {
				return nil
			}
			if inv.Status != model.InvoiceStatusPending {
				return nil
			}
			if provider != "" && inv.Provider != provider {
				return nil
			}
			list = append(list, inv)
			return nil
		})
	})
	return list, err
}
