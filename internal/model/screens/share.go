package screens

import (
	"fmt"
	"time"

	"max.ks1230/moneyezy-bot/internal/entity/transaction"
)

const shareTemplate = `Title: %s
Amount: %s
Transaction Type: %s
Tag: %s
Date: %s
Note: %s
Created At: %s

Shared via Moneyezy`

// DetailFields is exactly what the detail screen shows, already formatted.
type DetailFields struct {
	Title     string
	Amount    string
	Type      string
	Tag       string
	Date      string
	Note      string
	CreatedAt string
}

func NewDetailFields(tx transaction.Transaction, formatAmount func(float64) string, loc *time.Location) DetailFields {
	return DetailFields{
		Title:     tx.Title,
		Amount:    formatAmount(tx.Amount),
		Type:      tx.TransactionType,
		Tag:       tx.Tag,
		Date:      tx.Date,
		Note:      tx.Note,
		CreatedAt: tx.CreatedAtDateFormat(loc),
	}
}

// ShareMessage fills the share template from the displayed fields, in display order.
func ShareMessage(f DetailFields) string {
	return fmt.Sprintf(shareTemplate, f.Title, f.Amount, f.Type, f.Tag, f.Date, f.Note, f.CreatedAt)
}
