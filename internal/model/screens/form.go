package screens

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"max.ks1230/moneyezy-bot/internal/customerr"
	"max.ks1230/moneyezy-bot/internal/entity/transaction"
)

type Field string

const (
	FieldTitle  Field = "title"
	FieldAmount Field = "amount"
	FieldType   Field = "type"
	FieldTag    Field = "tag"
	FieldDate   Field = "date"
	FieldNote   Field = "note"
)

// FormFields is also the validation order.
var FormFields = []Field{FieldTitle, FieldAmount, FieldType, FieldTag, FieldDate, FieldNote}

var ErrUnknownField = errors.New("unknown field")

func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range FormFields {
		if f == known {
			return f, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownField, "%q", s)
}

// Form holds the raw text of every input, exactly as typed.
type Form struct {
	Title           string
	Amount          string
	TransactionType string
	Tag             string
	Date            string
	Note            string
}

func FormFromTransaction(tx transaction.Transaction) Form {
	return Form{
		Title:           tx.Title,
		Amount:          strconv.FormatFloat(tx.Amount, 'f', -1, 64),
		TransactionType: tx.TransactionType,
		Tag:             tx.Tag,
		Date:            tx.Date,
		Note:            tx.Note,
	}
}

func (f Form) Get(field Field) string {
	switch field {
	case FieldTitle:
		return f.Title
	case FieldAmount:
		return f.Amount
	case FieldType:
		return f.TransactionType
	case FieldTag:
		return f.Tag
	case FieldDate:
		return f.Date
	case FieldNote:
		return f.Note
	}
	return ""
}

func (f *Form) Set(field Field, value string) {
	switch field {
	case FieldTitle:
		f.Title = value
	case FieldAmount:
		f.Amount = value
	case FieldType:
		f.TransactionType = value
	case FieldTag:
		f.Tag = value
	case FieldDate:
		f.Date = value
	case FieldNote:
		f.Note = value
	}
}

var emptyMessages = map[Field]string{
	FieldTitle:  "Title must not be empty",
	FieldAmount: "Amount must not be empty",
	FieldType:   "Transaction type must not be empty",
	FieldTag:    "Tag must not be empty",
	FieldDate:   "Date must not be empty",
	FieldNote:   "Note must not be empty",
}

const (
	badAmountMessage = "Amount must be a number"
	badDateMessage   = "Date must be in dd/MM/yyyy format"
)

// maxAmount is the first magnitude the NUMERIC(14,2) amount column cannot hold.
const maxAmount = 1e12

var (
	badTypeMessage = "Transaction type must be one of: " + strings.Join(transaction.Types, ", ")
	badTagMessage  = "Tag must be one of: " + strings.Join(transaction.Tags, ", ")
)

var errBadAmount = errors.New("amount out of range")

// Validate reports only the first failing field, in FormFields order.
func (f Form) Validate() *customerr.ValidationError {
	for _, field := range FormFields {
		value := strings.TrimSpace(f.Get(field))
		if value == "" {
			return &customerr.ValidationError{Field: string(field), Message: emptyMessages[field]}
		}
		switch field {
		case FieldAmount:
			if _, err := ParseAmount(value); err != nil {
				return &customerr.ValidationError{Field: string(field), Message: badAmountMessage}
			}
		case FieldType:
			if !transaction.IsKnownType(value) {
				return &customerr.ValidationError{Field: string(field), Message: badTypeMessage}
			}
		case FieldTag:
			if !transaction.IsKnownTag(value) {
				return &customerr.ValidationError{Field: string(field), Message: badTagMessage}
			}
		case FieldDate:
			if !IsValidDate(value) {
				return &customerr.ValidationError{Field: string(field), Message: badDateMessage}
			}
		}
	}
	return nil
}

// ParseAmount accepts finite numbers the amount column can store.
func ParseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.Wrap(err, "parse amount")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) >= maxAmount {
		return 0, errors.Wrapf(errBadAmount, "%q", s)
	}
	return v, nil
}

func IsValidDate(s string) bool {
	_, err := time.Parse(transaction.DateLayout, strings.TrimSpace(s))
	return err == nil
}
