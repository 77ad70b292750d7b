package event

import (
	"time"

	"github.com/pkg/errors"
	"max.ks1230/moneyezy-bot/internal/entity/transaction"
)

// ErrInvalid marks an event no retry can make acceptable.
var ErrInvalid = errors.New("invalid transaction event")

type Kind string

const (
	Created Kind = "created"
	Updated Kind = "updated"
	Deleted Kind = "deleted"
)

// TransactionEvent is published after a mutation has been committed.
// Transaction is nil for deletions.
type TransactionEvent struct {
	Kind          Kind                     `json:"kind"`
	UserID        int64                    `json:"user_id"`
	TransactionID int64                    `json:"transaction_id"`
	Transaction   *transaction.Transaction `json:"transaction,omitempty"`
	At            time.Time                `json:"at"`
}
