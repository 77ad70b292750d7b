package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"max.ks1230/moneyezy-bot/internal/customerr"
	"max.ks1230/moneyezy-bot/internal/entity/permission"
	"max.ks1230/moneyezy-bot/internal/entity/transaction"
)

func coffee(userID int64) transaction.Transaction {
	return transaction.Transaction{
		UserID:          userID,
		Title:           "Coffee",
		Amount:          120,
		TransactionType: transaction.TypeExpense,
		Tag:             "Food",
		Date:            "01/01/2024",
		Note:            "morning",
		CreatedAt:       1000,
	}
}

func Test_InMem_SaveShouldAssignIDs(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorage()

	first, err := s.SaveTransaction(ctx, coffee(1))
	require.NoError(t, err)
	second, err := s.SaveTransaction(ctx, coffee(1))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	got, err := s.GetTransaction(ctx, 1, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first, got)
}

func Test_InMem_OtherUsersRecordsShouldBeInvisible(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorage()

	tx, err := s.SaveTransaction(ctx, coffee(1))
	require.NoError(t, err)

	_, err = s.GetTransaction(ctx, 2, tx.ID)
	assert.True(t, customerr.IsNotFound(err))

	err = s.DeleteTransaction(ctx, 2, tx.ID)
	assert.True(t, customerr.IsNotFound(err))

	list, err := s.GetUserTransactions(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func Test_InMem_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorage()

	tx, err := s.SaveTransaction(ctx, coffee(1))
	require.NoError(t, err)

	tx.Note = "evening"
	require.NoError(t, s.UpdateTransaction(ctx, tx))

	got, err := s.GetTransaction(ctx, 1, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "evening", got.Note)

	require.NoError(t, s.DeleteTransaction(ctx, 1, tx.ID))
	_, err = s.GetTransaction(ctx, 1, tx.ID)
	assert.True(t, customerr.IsNotFound(err))

	err = s.UpdateTransaction(ctx, tx)
	assert.True(t, customerr.IsNotFound(err))
}

func Test_InMem_ListShouldBeNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorage()

	old := coffee(1)
	old.CreatedAt = 1
	newer := coffee(1)
	newer.CreatedAt = 2

	_, err := s.SaveTransaction(ctx, old)
	require.NoError(t, err)
	_, err = s.SaveTransaction(ctx, newer)
	require.NoError(t, err)

	list, err := s.GetUserTransactions(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].CreatedAt)
}

func Test_InMem_Grants(t *testing.T) {
	ctx := context.Background()
	s := NewInMemStorage()

	ok, err := s.IsGranted(ctx, 1, permission.StorageWrite)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetGranted(ctx, 1, permission.StorageWrite, true))
	ok, err = s.IsGranted(ctx, 1, permission.StorageWrite)
	require.NoError(t, err)
	assert.True(t, ok)
}
