package viewmodel

import "max.ks1230/moneyezy-bot/internal/entity/transaction"

type StateKind int

const (
	StateLoading StateKind = iota
	StateSuccess
	StateError
	StateEmpty
)

func (k StateKind) String() string {
	switch k {
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	case StateEmpty:
		return "empty"
	}
	return "unknown"
}

// DetailState is the lifecycle of loading one transaction for the detail screen.
// Transaction is set only for StateSuccess, Err only for StateError.
type DetailState struct {
	Kind        StateKind
	Transaction transaction.Transaction
	Err         error
}

func Loading() DetailState {
	return DetailState{Kind: StateLoading}
}

func Success(tx transaction.Transaction) DetailState {
	return DetailState{Kind: StateSuccess, Transaction: tx}
}

func Failed(err error) DetailState {
	return DetailState{Kind: StateError, Err: err}
}

func Empty() DetailState {
	return DetailState{Kind: StateEmpty}
}
