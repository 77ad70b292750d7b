// Package viewmodel owns one user's transaction state shared by all screens of that user.
package viewmodel

import (
	"context"
	"sync"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/moneyezy-bot/internal/customerr"
	"max.ks1230/moneyezy-bot/internal/entity/event"
	"max.ks1230/moneyezy-bot/internal/entity/transaction"
	"max.ks1230/moneyezy-bot/internal/logger"
	"max.ks1230/moneyezy-bot/internal/model/observable"
)

const storageTimeout = 5 * time.Second

type transactionStorage interface {
	GetTransaction(ctx context.Context, userID, id int64) (transaction.Transaction, error)
	GetUserTransactions(ctx context.Context, userID int64) ([]transaction.Transaction, error)
	SaveTransaction(ctx context.Context, tx transaction.Transaction) (transaction.Transaction, error)
	UpdateTransaction(ctx context.Context, tx transaction.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id int64) error
}

type eventPublisher interface {
	PublishTransactionEvent(ctx context.Context, ev event.TransactionEvent) error
}

type cardCache interface {
	InvalidateCards(userID, transactionID int64) error
}

type ViewModel struct {
	userID    int64
	storage   transactionStorage
	publisher eventPublisher
	cache     cardCache
	now       func() time.Time

	detail *observable.Value[DetailState]

	mu     sync.Mutex
	shown  int64
	loadID uint64
}

type Option func(*ViewModel)

// WithPublisher makes every committed mutation emit a TransactionEvent.
func WithPublisher(p eventPublisher) Option {
	return func(vm *ViewModel) { vm.publisher = p }
}

// WithCardCache drops cached share cards whenever a record changes.
func WithCardCache(c cardCache) Option {
	return func(vm *ViewModel) { vm.cache = c }
}

func WithClock(now func() time.Time) Option {
	return func(vm *ViewModel) { vm.now = now }
}

func New(userID int64, storage transactionStorage, opts ...Option) *ViewModel {
	vm := &ViewModel{
		userID:  userID,
		storage: storage,
		now:     time.Now,
		detail:  observable.New(Loading()),
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

func (vm *ViewModel) UserID() int64 {
	return vm.userID
}

// DetailState streams the latest state and every later one in emission order.
func (vm *ViewModel) DetailState(ctx context.Context) <-chan DetailState {
	return vm.detail.Subscribe(ctx)
}

// GetByID emits Loading and then Success, Empty (no such record) or Error.
func (vm *ViewModel) GetByID(ctx context.Context, id int64) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "getTransaction")
	defer span.Finish()
	span.SetTag("id", id)

	vm.mu.Lock()
	vm.shown = id
	vm.loadID++
	load := vm.loadID
	vm.detail.Set(Loading())
	vm.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()
	tx, err := vm.storage.GetTransaction(ctx, vm.userID, id)

	var state DetailState
	switch {
	case err == nil:
		state = Success(tx)
	case customerr.IsNotFound(err):
		state = Empty()
	default:
		ext.Error.Set(span, true)
		logger.Error("cannot load transaction", zap.Int64("userID", vm.userID), zap.Int64("id", id), zap.Error(err))
		state = Failed(err)
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	// a newer GetByID owns the stream now
	if load == vm.loadID {
		vm.detail.Set(state)
	}
}

func (vm *ViewModel) DeleteByID(ctx context.Context, id int64) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "deleteTransaction")
	defer span.Finish()
	span.SetTag("id", id)

	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	if err := vm.storage.DeleteTransaction(ctx, vm.userID, id); err != nil {
		ext.Error.Set(span, true)
		return errors.Wrap(err, "delete by id")
	}

	vm.afterMutation(ctx, event.TransactionEvent{
		Kind:          event.Deleted,
		UserID:        vm.userID,
		TransactionID: id,
		At:            vm.now(),
	})

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.shown == id {
		vm.loadID++
		vm.detail.Set(Empty())
	}
	return nil
}

// UpdateTransaction stores tx as given; callers decide what CreatedAt it carries.
func (vm *ViewModel) UpdateTransaction(ctx context.Context, tx transaction.Transaction) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "updateTransaction")
	defer span.Finish()
	span.SetTag("id", tx.ID)

	tx.UserID = vm.userID

	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	if err := vm.storage.UpdateTransaction(ctx, tx); err != nil {
		ext.Error.Set(span, true)
		return errors.Wrap(err, "update transaction")
	}

	vm.afterMutation(ctx, event.TransactionEvent{
		Kind:          event.Updated,
		UserID:        vm.userID,
		TransactionID: tx.ID,
		Transaction:   &tx,
		At:            vm.now(),
	})

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.shown == tx.ID {
		vm.loadID++
		vm.detail.Set(Success(tx))
	}
	return nil
}

// AddTransaction stamps CreatedAt when the caller left it empty.
func (vm *ViewModel) AddTransaction(ctx context.Context, tx transaction.Transaction) (transaction.Transaction, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "addTransaction")
	defer span.Finish()

	tx.UserID = vm.userID
	if tx.CreatedAt == 0 {
		tx.CreatedAt = vm.now().UnixMilli()
	}

	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	saved, err := vm.storage.SaveTransaction(ctx, tx)
	if err != nil {
		ext.Error.Set(span, true)
		return transaction.Transaction{}, errors.Wrap(err, "add transaction")
	}

	vm.afterMutation(ctx, event.TransactionEvent{
		Kind:          event.Created,
		UserID:        vm.userID,
		TransactionID: saved.ID,
		Transaction:   &saved,
		At:            vm.now(),
	})
	return saved, nil
}

func (vm *ViewModel) ListTransactions(ctx context.Context) ([]transaction.Transaction, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "listTransactions")
	defer span.Finish()

	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	txs, err := vm.storage.GetUserTransactions(ctx, vm.userID)
	if err != nil {
		ext.Error.Set(span, true)
		return nil, errors.Wrap(err, "list transactions")
	}
	return txs, nil
}

// afterMutation runs the side effects of a committed change. Their failures are
// logged only: the record itself is already stored.
func (vm *ViewModel) afterMutation(ctx context.Context, ev event.TransactionEvent) {
	if vm.cache != nil && ev.Kind != event.Created {
		if err := vm.cache.InvalidateCards(ev.UserID, ev.TransactionID); err != nil {
			logger.Error("cannot invalidate card cache", zap.Int64("id", ev.TransactionID), zap.Error(err))
		}
	}
	if vm.publisher != nil {
		if err := vm.publisher.PublishTransactionEvent(ctx, ev); err != nil {
			logger.Error("cannot publish transaction event",
				zap.String("kind", string(ev.Kind)), zap.Int64("id", ev.TransactionID), zap.Error(err))
		}
	}
}
