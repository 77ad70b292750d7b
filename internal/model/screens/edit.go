package screens

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/moneyezy-bot/internal/entity/transaction"
	"max.ks1230/moneyezy-bot/internal/logger"
)

const (
	savedMessage        = "Transaction updated successfully!"
	updateFailedMessage = "Could not save the transaction, try again later"
)

type EditDeps struct {
	ViewModel editViewModel
	View      EditView
	Navigator Navigator
	Now       func() time.Time
	Location  *time.Location
	// PreserveCreatedAt keeps the original CreatedAt instead of stamping the save time.
	PreserveCreatedAt bool
}

type EditController struct {
	original transaction.Transaction
	EditDeps

	mu     sync.Mutex
	form   Form
	loaded bool
}

func NewEditController(original transaction.Transaction, deps EditDeps) *EditController {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	return &EditController{original: original, EditDeps: deps}
}

// Open fills the form from the record on first open and redraws it afterwards.
func (c *EditController) Open(_ context.Context) {
	c.mu.Lock()
	if !c.loaded {
		c.form = FormFromTransaction(c.original)
		c.loaded = true
	}
	form := c.form
	c.mu.Unlock()

	c.View.ShowForm(form, transaction.Types, transaction.Tags)
}

func (c *EditController) Form() Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// SetField takes manual input. Dates must already match dd/MM/yyyy.
func (c *EditController) SetField(field Field, value string) bool {
	if field == FieldDate && strings.TrimSpace(value) != "" && !IsValidDate(value) {
		c.View.ShowFieldError(field, badDateMessage)
		return false
	}

	c.mu.Lock()
	c.form.Set(field, value)
	form := c.form
	c.mu.Unlock()

	c.View.ShowForm(form, transaction.Types, transaction.Tags)
	return true
}

// PickDate is the calendar picker path.
func (c *EditController) PickDate(d time.Time) {
	c.SetField(FieldDate, d.In(c.Location).Format(transaction.DateLayout))
}

// Save submits the form and leaves the screen only once the update is confirmed.
func (c *EditController) Save(ctx context.Context) error {
	c.mu.Lock()
	form := c.form
	c.mu.Unlock()

	if verr := form.Validate(); verr != nil {
		c.View.ShowFieldError(Field(verr.Field), verr.Message)
		return verr
	}

	tx, err := c.transactionContent(form)
	if err != nil {
		return errors.Wrap(err, "save edit")
	}

	if err = c.ViewModel.UpdateTransaction(ctx, tx); err != nil {
		logger.Error("update failed", zap.Int64("id", tx.ID), zap.Error(err))
		c.View.Toast(updateFailedMessage)
		return errors.Wrap(err, "save edit")
	}

	c.View.Toast(savedMessage)
	c.Navigator.NavigateUp()
	return nil
}

func (c *EditController) transactionContent(form Form) (transaction.Transaction, error) {
	amount, err := ParseAmount(form.Amount)
	if err != nil {
		return transaction.Transaction{}, err
	}

	createdAt := c.Now().UnixMilli()
	if c.PreserveCreatedAt {
		createdAt = c.original.CreatedAt
	}

	return transaction.Transaction{
		ID:              c.original.ID,
		UserID:          c.original.UserID,
		Title:           strings.TrimSpace(form.Title),
		Amount:          amount,
		TransactionType: strings.TrimSpace(form.TransactionType),
		Tag:             strings.TrimSpace(form.Tag),
		Date:            strings.TrimSpace(form.Date),
		Note:            strings.TrimSpace(form.Note),
		CreatedAt:       createdAt,
	}, nil
}
