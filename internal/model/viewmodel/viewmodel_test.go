package viewmodel

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"max.ks1230/moneyezy-bot/internal/entity/event"
	"max.ks1230/moneyezy-bot/internal/entity/transaction"
	"max.ks1230/moneyezy-bot/internal/model/storage"
)

const (
	userID  = int64(42)
	waitFor = time.Second
)

var fixedNow = time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.TransactionEvent
	err    error
}

func (p *recordingPublisher) PublishTransactionEvent(_ context.Context, ev event.TransactionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type recordingCache struct {
	invalidated []int64
}

func (c *recordingCache) InvalidateCards(_, transactionID int64) error {
	c.invalidated = append(c.invalidated, transactionID)
	return nil
}

type brokenStorage struct {
	*storage.InMemStorage
}

func (brokenStorage) GetTransaction(context.Context, int64, int64) (transaction.Transaction, error) {
	return transaction.Transaction{}, errors.New("connection reset")
}

func (brokenStorage) DeleteTransaction(context.Context, int64, int64) error {
	return errors.New("connection reset")
}

func newCoffee() transaction.Transaction {
	return transaction.Transaction{
		Title:           "Coffee",
		Amount:          120,
		TransactionType: transaction.TypeExpense,
		Tag:             "Food",
		Date:            "01/01/2024",
		Note:            "morning",
	}
}

func nextState(t *testing.T, ch <-chan DetailState) DetailState {
	t.Helper()
	select {
	case st, ok := <-ch:
		require.True(t, ok)
		return st
	case <-time.After(waitFor):
		t.Fatal("no state emitted")
	}
	return DetailState{}
}

func Test_AddTransaction_ShouldStampUserAndCreatedAt(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	vm := New(userID, storage.NewInMemStorage(), WithPublisher(pub), WithClock(func() time.Time { return fixedNow }))

	saved, err := vm.AddTransaction(ctx, newCoffee())
	require.NoError(t, err)

	assert.Equal(t, userID, saved.UserID)
	assert.Equal(t, fixedNow.UnixMilli(), saved.CreatedAt)
	require.Len(t, pub.events, 1)
	assert.Equal(t, event.Created, pub.events[0].Kind)
	assert.Equal(t, saved.ID, pub.events[0].TransactionID)
}

func Test_GetByID_ShouldEmitSuccess(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	vm := New(userID, storage.NewInMemStorage())
	saved, err := vm.AddTransaction(ctx, newCoffee())
	require.NoError(t, err)

	vm.GetByID(ctx, saved.ID)

	st := nextState(t, vm.DetailState(ctx))
	assert.Equal(t, StateSuccess, st.Kind)
	assert.Equal(t, saved, st.Transaction)
}

func Test_GetByID_ObserverShouldSeeLoadingThenResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	vm := New(userID, storage.NewInMemStorage())
	saved, err := vm.AddTransaction(ctx, newCoffee())
	require.NoError(t, err)

	ch := vm.DetailState(ctx)
	assert.Equal(t, StateLoading, nextState(t, ch).Kind)

	vm.GetByID(ctx, saved.ID)

	assert.Equal(t, StateLoading, nextState(t, ch).Kind)
	assert.Equal(t, StateSuccess, nextState(t, ch).Kind)
}

func Test_GetByID_MissingRecordShouldBeEmpty(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	vm := New(userID, storage.NewInMemStorage())
	vm.GetByID(ctx, 404)

	assert.Equal(t, StateEmpty, nextState(t, vm.DetailState(ctx)).Kind)
}

func Test_GetByID_StorageFailureShouldBeError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	vm := New(userID, brokenStorage{storage.NewInMemStorage()})
	vm.GetByID(ctx, 1)

	st := nextState(t, vm.DetailState(ctx))
	assert.Equal(t, StateError, st.Kind)
	assert.Error(t, st.Err)
}

func Test_UpdateTransaction_ShouldRefreshShownRecord(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pub := &recordingPublisher{}
	cache := &recordingCache{}
	vm := New(userID, storage.NewInMemStorage(), WithPublisher(pub), WithCardCache(cache))

	saved, err := vm.AddTransaction(ctx, newCoffee())
	require.NoError(t, err)
	vm.GetByID(ctx, saved.ID)

	edited := saved
	edited.Note = "evening"
	require.NoError(t, vm.UpdateTransaction(ctx, edited))

	st := nextState(t, vm.DetailState(ctx))
	assert.Equal(t, StateSuccess, st.Kind)
	assert.Equal(t, "evening", st.Transaction.Note)
	assert.Equal(t, []int64{saved.ID}, cache.invalidated)
	require.Len(t, pub.events, 2)
	assert.Equal(t, event.Updated, pub.events[1].Kind)
}

func Test_UpdateTransaction_MissingRecordShouldFail(t *testing.T) {
	vm := New(userID, storage.NewInMemStorage())

	tx := newCoffee()
	tx.ID = 99
	assert.Error(t, vm.UpdateTransaction(context.Background(), tx))
}

func Test_DeleteByID_ShownRecordShouldBecomeEmpty(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pub := &recordingPublisher{}
	vm := New(userID, storage.NewInMemStorage(), WithPublisher(pub))
	saved, err := vm.AddTransaction(ctx, newCoffee())
	require.NoError(t, err)
	vm.GetByID(ctx, saved.ID)

	require.NoError(t, vm.DeleteByID(ctx, saved.ID))

	assert.Equal(t, StateEmpty, nextState(t, vm.DetailState(ctx)).Kind)
	assert.Equal(t, event.Deleted, pub.events[len(pub.events)-1].Kind)
	assert.Nil(t, pub.events[len(pub.events)-1].Transaction)
}

func Test_DeleteByID_FailureShouldBeReturned(t *testing.T) {
	vm := New(userID, brokenStorage{storage.NewInMemStorage()})
	assert.Error(t, vm.DeleteByID(context.Background(), 1))
}

func Test_PublisherFailureShouldNotFailMutation(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	vm := New(userID, storage.NewInMemStorage(), WithPublisher(pub))

	_, err := vm.AddTransaction(context.Background(), newCoffee())
	assert.NoError(t, err)
}

func Test_ListTransactions_ShouldOnlyReturnOwnRecords(t *testing.T) {
	ctx := context.Background()
	store := storage.NewInMemStorage()

	mine := New(userID, store)
	theirs := New(userID+1, store)

	_, err := mine.AddTransaction(ctx, newCoffee())
	require.NoError(t, err)
	_, err = theirs.AddTransaction(ctx, newCoffee())
	require.NoError(t, err)

	list, err := mine.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, userID, list[0].UserID)
}
