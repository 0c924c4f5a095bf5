/*
aggregate.go - Order-level totals recomputed from the full transaction set

PURPOSE:
  The order's cached totals (authorized, charged, canceled, refunded)
  are always derived by re-summing the respective accumulator across
  ALL transactions currently attached to the order, then overwriting
  the cache. Full recomputation, not incremental deltas.

WHY FULL RECOMPUTATION?
  Incremental counters drift: one missed update and the cache lies
  forever. Re-summing self-heals after any out-of-band transaction
  change and is safe to re-run any number of times. This costs an
  extra read per recompute; that read IS the consistency mechanism.

CONCURRENCY:
  Callers run recompute inside the same store transaction that created
  the triggering record (see TxStore.WithTx), so two concurrent
  creations can't both read stale totals and overwrite one another.

SEE ALSO:
  - status.go: Statuses derived lazily from these totals
  - create.go: Triggers recompute after each creation
*/
package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AGGREGATOR
// =============================================================================

// Aggregator recomputes an order's cached ledger totals.
type Aggregator struct {
	store Store
}

func NewAggregator(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// RecomputeAuthorized re-sums authorized_value over all of the
// order's transactions and overwrites the cached total.
//
// UpdateOrderTotals persists all four aggregate columns, so the
// untouched totals are refreshed from the store under the same
// consistency boundary - the caller's snapshot may be stale.
func (a *Aggregator) RecomputeAuthorized(ctx context.Context, order *Order) error {
	txs, err := a.store.TransactionsForOrder(ctx, order.ID)
	if err != nil {
		return err
	}
	stored, err := a.store.GetOrder(ctx, order.ID)
	if err != nil {
		return err
	}
	sum := decimal.Zero
	for _, t := range txs {
		sum = sum.Add(t.AuthorizedValue)
	}
	order.TotalAuthorized = NewMoney(sum, order.Currency)
	order.TotalCharged = stored.TotalCharged
	order.TotalCanceled = stored.TotalCanceled
	order.TotalRefunded = stored.TotalRefunded
	return a.store.UpdateOrderTotals(ctx, order)
}

// RecomputeCharged re-sums charged_value analogously.
func (a *Aggregator) RecomputeCharged(ctx context.Context, order *Order) error {
	txs, err := a.store.TransactionsForOrder(ctx, order.ID)
	if err != nil {
		return err
	}
	stored, err := a.store.GetOrder(ctx, order.ID)
	if err != nil {
		return err
	}
	sum := decimal.Zero
	for _, t := range txs {
		sum = sum.Add(t.ChargedValue)
	}
	order.TotalCharged = NewMoney(sum, order.Currency)
	order.TotalAuthorized = stored.TotalAuthorized
	order.TotalCanceled = stored.TotalCanceled
	order.TotalRefunded = stored.TotalRefunded
	return a.store.UpdateOrderTotals(ctx, order)
}

// RecomputeAll re-sums every accumulator in one pass over the
// transaction set and overwrites all four cached totals.
func (a *Aggregator) RecomputeAll(ctx context.Context, order *Order) error {
	txs, err := a.store.TransactionsForOrder(ctx, order.ID)
	if err != nil {
		return err
	}

	authorized, charged, canceled, refunded := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, t := range txs {
		authorized = authorized.Add(t.AuthorizedValue)
		charged = charged.Add(t.ChargedValue)
		canceled = canceled.Add(t.CanceledValue)
		refunded = refunded.Add(t.RefundedValue)
	}

	order.TotalAuthorized = NewMoney(authorized, order.Currency)
	order.TotalCharged = NewMoney(charged, order.Currency)
	order.TotalCanceled = NewMoney(canceled, order.Currency)
	order.TotalRefunded = NewMoney(refunded, order.Currency)

	return a.store.UpdateOrderTotals(ctx, order)
}
