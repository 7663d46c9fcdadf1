package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles store transactions. ExecTx runs fn as one
// atomic unit: either everything fn wrote is visible afterwards, or
// nothing is.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
