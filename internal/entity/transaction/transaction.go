package transaction

import "time"

const (
	// DateLayout is the dd/MM/yyyy layout of Transaction.Date.
	DateLayout = "02/01/2006"
	// CreatedAtLayout is how CreatedAt is shown to users.
	CreatedAtLayout = "02 Jan 2006"
)

type Transaction struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"user_id"`
	Title           string  `json:"title"`
	Amount          float64 `json:"amount"`
	TransactionType string  `json:"transaction_type"`
	Tag             string  `json:"tag"`
	Date            string  `json:"date"`
	Note            string  `json:"note"`
	CreatedAt       int64   `json:"created_at"`
}

func (t Transaction) CreatedTime() time.Time {
	return time.UnixMilli(t.CreatedAt)
}

func (t Transaction) CreatedAtDateFormat(loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.CreatedTime().In(loc).Format(CreatedAtLayout)
}

// ParsedDate interprets Date in loc; ok is false for malformed dates.
func (t Transaction) ParsedDate(loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(DateLayout, t.Date, loc)
	return d, err == nil
}

func (t Transaction) IsIncome() bool {
	return t.TransactionType == TypeIncome
}
