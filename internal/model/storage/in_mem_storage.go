package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"max.ks1230/moneyezy-bot/internal/customerr"
	"max.ks1230/moneyezy-bot/internal/entity/permission"
	"max.ks1230/moneyezy-bot/internal/entity/transaction"
)

type grantKey struct {
	userID int64
	perm   permission.Permission
}

type InMemStorage struct {
	mu     sync.RWMutex
	lastID int64
	txs    map[int64]transaction.Transaction
	grants map[grantKey]bool
}

func NewInMemStorage() *InMemStorage {
	return &InMemStorage{
		txs:    make(map[int64]transaction.Transaction),
		grants: make(map[grantKey]bool),
	}
}

func (s *InMemStorage) GetTransaction(_ context.Context, userID, id int64) (transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.txs[id]
	if !ok || tx.UserID != userID {
		return transaction.Transaction{}, errors.Wrapf(customerr.ErrNotFound, "get transaction %d", id)
	}
	return tx, nil
}

func (s *InMemStorage) GetUserTransactions(_ context.Context, userID int64) ([]transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]transaction.Transaction, 0)
	for _, tx := range s.txs {
		if tx.UserID == userID {
			res = append(res, tx)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].CreatedAt != res[j].CreatedAt {
			return res[i].CreatedAt > res[j].CreatedAt
		}
		return res[i].ID > res[j].ID
	})
	return res, nil
}

func (s *InMemStorage) SaveTransaction(_ context.Context, tx transaction.Transaction) (transaction.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	tx.ID = s.lastID
	s.txs[tx.ID] = tx
	return tx, nil
}

func (s *InMemStorage) UpdateTransaction(_ context.Context, tx transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.txs[tx.ID]
	if !ok || old.UserID != tx.UserID {
		return errors.Wrapf(customerr.ErrNotFound, "update transaction %d", tx.ID)
	}
	s.txs[tx.ID] = tx
	return nil
}

func (s *InMemStorage) DeleteTransaction(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.txs[id]
	if !ok || old.UserID != userID {
		return errors.Wrapf(customerr.ErrNotFound, "delete transaction %d", id)
	}
	delete(s.txs, id)
	return nil
}

func (s *InMemStorage) IsGranted(_ context.Context, userID int64, perm permission.Permission) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grants[grantKey{userID, perm}], nil
}

func (s *InMemStorage) SetGranted(_ context.Context, userID int64, perm permission.Permission, granted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[grantKey{userID, perm}] = granted
	return nil
}

func (s *InMemStorage) Close() error {
	return nil
}
