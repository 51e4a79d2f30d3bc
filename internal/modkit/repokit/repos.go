// Package repokit provides common types and helpers for repository implementations
package repokit

import (
	"context"

	"pestwatch/internal/platform/store"
)

// Queryer is the minimal read and write surface for SQL repos
type Queryer = store.RowQuerier

// TxRunner can execute a function inside a transaction
type TxRunner = store.TxRunner

// WithTx runs fn inside a transaction using the provided TxRunner
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	if tx == nil {
		panic("repokit: nil TxRunner")
	}
	return tx.Tx(ctx, fn)
}
