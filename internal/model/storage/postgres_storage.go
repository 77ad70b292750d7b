package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	// postgres driver
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/moneyezy-bot/internal/customerr"
	"max.ks1230/moneyezy-bot/internal/entity/event"
	"max.ks1230/moneyezy-bot/internal/entity/permission"
	"max.ks1230/moneyezy-bot/internal/entity/transaction"
	"max.ks1230/moneyezy-bot/internal/logger"
)

const transactionsTable = "transactions"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var transactionColumns = []string{
	"id", "user_id", "title", "amount", "transaction_type", "tag", "tx_date", "note", "created_at",
}

type config interface {
	DSN() string
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config config) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", config.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	return &PostgresStorage{db}, nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}

func (s *PostgresStorage) GetTransaction(ctx context.Context, userID, id int64) (transaction.Transaction, error) {
	query := psql.Select(transactionColumns...).
		From(transactionsTable).
		Where(sq.Eq{"id": id, "user_id": userID})

	tx, err := scanTransaction(query.RunWith(s.db).QueryRowContext(ctx))
	if errors.Is(err, sql.ErrNoRows) {
		return transaction.Transaction{}, errors.Wrapf(customerr.ErrNotFound, "get transaction %d", id)
	}
	if err != nil {
		return transaction.Transaction{}, errors.Wrap(err, "get transaction")
	}
	return tx, nil
}

func (s *PostgresStorage) GetUserTransactions(ctx context.Context, userID int64) ([]transaction.Transaction, error) {
	query := psql.Select(transactionColumns...).
		From(transactionsTable).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC")

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get transactions")
	}
	defer func() {
		rowErr := rows.Close()
		if rowErr != nil {
			logger.Error("error closing rows", zap.Error(rowErr))
		}
	}()

	txs := make([]transaction.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, errors.Wrap(err, "get transactions")
		}
		txs = append(txs, tx)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "get transactions")
	}
	return txs, nil
}

func (s *PostgresStorage) SaveTransaction(ctx context.Context, tx transaction.Transaction) (transaction.Transaction, error) {
	query := psql.Insert(transactionsTable).
		Columns(transactionColumns[1:]...).
		Values(tx.UserID, tx.Title, tx.Amount, tx.TransactionType, tx.Tag, tx.Date, tx.Note, tx.CreatedAt).
		Suffix("RETURNING id")

	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&tx.ID)
	if err != nil {
		return transaction.Transaction{}, errors.Wrap(err, "save transaction")
	}
	return tx, nil
}

func (s *PostgresStorage) UpdateTransaction(ctx context.Context, tx transaction.Transaction) error {
	query := psql.Update(transactionsTable).
		SetMap(map[string]interface{}{
			"title":            tx.Title,
			"amount":           tx.Amount,
			"transaction_type": tx.TransactionType,
			"tag":              tx.Tag,
			"tx_date":          tx.Date,
			"note":             tx.Note,
			"created_at":       tx.CreatedAt,
		}).
		Where(sq.Eq{"id": tx.ID, "user_id": tx.UserID})

	res, err := query.RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return errors.Wrap(err, "update transaction")
	}
	return errors.Wrap(ensureAffected(res, tx.ID), "update transaction")
}

func (s *PostgresStorage) DeleteTransaction(ctx context.Context, userID, id int64) error {
	query := psql.Delete(transactionsTable).
		Where(sq.Eq{"id": id, "user_id": userID})

	res, err := query.RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return errors.Wrap(err, "delete transaction")
	}
	return errors.Wrap(ensureAffected(res, id), "delete transaction")
}

func (s *PostgresStorage) IsGranted(ctx context.Context, userID int64, perm permission.Permission) (bool, error) {
	query := psql.Select("granted").
		From("permissions").
		Where(sq.Eq{"user_id": userID, "permission": string(perm)})

	var granted bool
	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&granted)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "check permission")
	}
	return granted, nil
}

func (s *PostgresStorage) SetGranted(ctx context.Context, userID int64, perm permission.Permission, granted bool) error {
	query := psql.Insert("permissions").
		Columns("user_id", "permission", "granted", "updated_at").
		Values(userID, string(perm), granted, time.Now()).
		Suffix("ON CONFLICT(user_id, permission) DO UPDATE SET granted = EXCLUDED.granted, updated_at = EXCLUDED.updated_at")

	_, err := query.RunWith(s.db).ExecContext(ctx)
	return errors.Wrap(err, "set permission")
}

func (s *PostgresStorage) SaveEvent(ctx context.Context, ev event.TransactionEvent) error {
	var payload interface{}
	if ev.Transaction != nil {
		raw, err := json.Marshal(ev.Transaction)
		if err != nil {
			return errors.Wrap(err, "save event")
		}
		payload = string(raw)
	}

	query := psql.Insert("transaction_events").
		Columns("kind", "user_id", "transaction_id", "payload", "occurred_at").
		Values(string(ev.Kind), ev.UserID, ev.TransactionID, payload, ev.At)

	_, err := query.RunWith(s.db).ExecContext(ctx)
	return errors.Wrap(err, "save event")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (transaction.Transaction, error) {
	var tx transaction.Transaction
	err := row.Scan(&tx.ID, &tx.UserID, &tx.Title, &tx.Amount, &tx.TransactionType, &tx.Tag, &tx.Date, &tx.Note, &tx.CreatedAt)
	return tx, err
}

func ensureAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrapf(customerr.ErrNotFound, "transaction %d", id)
	}
	return nil
}
