package repokit

import "context"

// Binder builds a repo view over a Queryer, pooled or transactional alike
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc adapts a plain constructor to Binder
type BindFunc[T any] func(Queryer) T

// Bind implements Binder
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// MustBind binds q with b; a nil q is a wiring bug and panics
func MustBind[T any](b Binder[T], q Queryer) T {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return b.Bind(q)
}

// Replay says how often a transaction may run and which failures restart it
type Replay struct {
	Attempts  int
	Retryable func(error) bool
}

// InTx runs fn against a repo bound to one transaction on db
// a failure Retryable accepts reruns fn in a fresh transaction until Attempts
// is spent or ctx is done; the last error is returned
func InTx[T any](ctx context.Context, db TxRunner, b Binder[T], rp Replay, fn func(T) error) error {
	attempts := max(rp.Attempts, 1)
	var err error
	for range attempts {
		err = WithTx(ctx, db, func(q Queryer) error { return fn(MustBind(b, q)) })
		if err == nil || rp.Retryable == nil || !rp.Retryable(err) || ctx.Err() != nil {
			return err
		}
	}
	return err
}
