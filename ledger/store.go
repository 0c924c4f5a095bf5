/*
store.go - Persistence contracts for the ledger

PURPOSE:
  Defines the interface between the ledger engine and the database.
  Transactions, transaction events, and order events are APPEND-ONLY:
  no Update or Delete method exists for them anywhere. Orders are
  mutable only through UpdateOrderTotals, the single write path for
  the cached aggregates.

ATOMIC UNIT OF WORK:
  Creating a transaction persists the item, an optional initial event,
  an order-level event, and recomputed order totals. TxStore.WithTx
  makes that all-or-nothing: either everything commits or nothing is
  observable.

CONCURRENCY:
  WithTx is also the serialization boundary for recompute. Concurrent
  creations against the same order must not each read stale totals and
  overwrite one another, so recompute re-reads the full transaction
  set inside the transaction that also writes the totals.

IMPLEMENTATIONS:
  - ledger/store/memory.go: In-memory, for tests and dev
  - store/sqlite/sqlite.go: SQLite, the production pattern

SEE ALSO:
  - create.go: Uses WithTx for the creation unit of work
  - aggregate.go: Reads transactions, writes totals
*/
package ledger

import "context"

// =============================================================================
// STORE - Core persistence contract
// =============================================================================

type Store interface {
	// GetOrder resolves an order. Returns ErrOrderNotFound if missing.
	GetOrder(ctx context.Context, id string) (*Order, error)

	// SaveOrder registers or replaces an order record.
	SaveOrder(ctx context.Context, order *Order) error

	// UpdateOrderTotals overwrites the order's cached ledger totals.
	// This is the ONLY mutation path for the aggregate fields.
	UpdateOrderTotals(ctx context.Context, order *Order) error

	// GetCheckout resolves a checkout. Returns ErrCheckoutNotFound if missing.
	GetCheckout(ctx context.Context, id string) (*Checkout, error)

	// SaveCheckout registers or replaces a checkout record.
	SaveCheckout(ctx context.Context, checkout *Checkout) error

	// AppendTransaction persists a new transaction item. Append-only.
	AppendTransaction(ctx context.Context, item *TransactionItem) error

	// GetTransaction resolves a transaction with ErrTransactionNotFound.
	GetTransaction(ctx context.Context, id string) (*TransactionItem, error)

	// TransactionsForOrder returns ALL transactions attached to an
	// order, oldest first. The aggregator's recompute input.
	TransactionsForOrder(ctx context.Context, orderID string) ([]*TransactionItem, error)

	// TransactionsForCheckout returns all transactions on a checkout.
	TransactionsForCheckout(ctx context.Context, checkoutID string) ([]*TransactionItem, error)

	// AppendTransactionEvent persists a new event. Append-only.
	AppendTransactionEvent(ctx context.Context, event *TransactionEvent) error

	// EventsForTransaction returns a transaction's events, oldest first.
	EventsForTransaction(ctx context.Context, transactionID string) ([]*TransactionEvent, error)

	// RecordOrderEvent persists an order-level event. Append-only.
	RecordOrderEvent(ctx context.Context, event *OrderEvent) error

	// OrderEvents returns an order's events, oldest first.
	OrderEvents(ctx context.Context, orderID string) ([]*OrderEvent, error)
}

// =============================================================================
// TRANSACTIONAL STORE
// =============================================================================

// TxStore wraps Store with an atomic unit of work.
// If fn returns an error the transaction rolls back; partial writes
// are never observable.
type TxStore interface {
	Store

	WithTx(ctx context.Context, fn func(Store) error) error
}
