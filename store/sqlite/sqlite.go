/*
Package sqlite provides a SQLite-backed implementation of the ledger
storage interfaces.

PURPOSE:
  Implements ledger.Store and ledger.TxStore using SQLite. In
  production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

APPEND-ONLY ENFORCEMENT:
  - No UPDATE or DELETE statements exist for transactions,
    transaction_events, or order_events.
  - The single UPDATE in this package writes the order's cached
    ledger totals, and only through UpdateOrderTotals.

KEY TABLES:
  orders:              Owner records + cached ledger totals
  checkouts:           Pre-order owner records (no totals)
  transactions:        One row per PSP transaction attempt
  transaction_events:  Immutable per-transaction status trail
  order_events:        Order-level history (TRANSACTION_EVENT entries)

AMOUNT STORAGE:
  All decimal amounts are stored as TEXT and parsed back with
  shopspring/decimal, so no precision is lost in the round-trip.

CONCURRENCY:
  A store-wide mutex serializes writers; WithTx additionally wraps fn
  in a database transaction so a creation's item + events + recompute
  commit or roll back together. WAL mode keeps readers unblocked.

USAGE:
  store, err := sqlite.New("./data/ledger.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - ledger/store.go: Interface definitions
  - ledger/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/payment-ledger/ledger"
)

// Store implements ledger.TxStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New creates a SQLite store at the given path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: writers are serialized by the store mutex anyway,
	// and :memory: databases exist per connection.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// NewWithDB wraps an existing database handle without migrating.
// Used by driver-level tests.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Owner records with cached ledger totals
	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		currency TEXT NOT NULL,
		total TEXT NOT NULL,
		total_authorized TEXT NOT NULL DEFAULT '0',
		total_charged TEXT NOT NULL DEFAULT '0',
		total_canceled TEXT NOT NULL DEFAULT '0',
		total_refunded TEXT NOT NULL DEFAULT '0',
		payment_charge_status TEXT NOT NULL DEFAULT '',
		fulfillment_refunded TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS checkouts (
		id TEXT PRIMARY KEY,
		currency TEXT NOT NULL,
		total TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- One row per PSP transaction attempt (append-only)
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		order_id TEXT,
		checkout_id TEXT,
		status TEXT NOT NULL,
		kind TEXT NOT NULL,
		psp_reference TEXT,
		currency TEXT NOT NULL,
		authorized_value TEXT NOT NULL DEFAULT '0',
		charged_value TEXT NOT NULL DEFAULT '0',
		canceled_value TEXT NOT NULL DEFAULT '0',
		refunded_value TEXT NOT NULL DEFAULT '0',
		available_actions TEXT NOT NULL DEFAULT '[]',
		external_url TEXT,
		metadata_json TEXT,
		private_metadata_json TEXT,
		created_by_kind TEXT,
		created_by_id TEXT,
		created_at TEXT NOT NULL,
		modified_at TEXT NOT NULL,
		CHECK ((order_id IS NOT NULL) <> (checkout_id IS NOT NULL))
	);

	-- Recompute hot path: all transactions for an order
	CREATE INDEX IF NOT EXISTS idx_transactions_order
		ON transactions(order_id) WHERE order_id IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_transactions_checkout
		ON transactions(checkout_id) WHERE checkout_id IS NOT NULL;

	-- Immutable per-transaction status trail (append-only)
	CREATE TABLE IF NOT EXISTS transaction_events (
		id TEXT PRIMARY KEY,
		transaction_id TEXT NOT NULL REFERENCES transactions(id),
		status TEXT NOT NULL,
		psp_reference TEXT,
		message TEXT,
		external_url TEXT,
		amount_value TEXT,
		amount_currency TEXT,
		created_by_kind TEXT,
		created_by_id TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transaction_events_tx
		ON transaction_events(transaction_id, created_at);

	-- Order-level history (append-only)
	CREATE TABLE IF NOT EXISTS order_events (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders(id),
		type TEXT NOT NULL,
		message TEXT,
		reference TEXT,
		status TEXT,
		created_by_kind TEXT,
		created_by_id TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_order_events_order
		ON order_events(order_id, created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// dbtx abstracts *sql.DB and *sql.Tx for shared query helpers.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// ORDERS
// =============================================================================

func (s *Store) GetOrder(ctx context.Context, id string) (*ledger.Order, error) {
	return getOrder(ctx, s.db, id)
}

func getOrder(ctx context.Context, db dbtx, id string) (*ledger.Order, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, currency, total, total_authorized, total_charged,
		       total_canceled, total_refunded, payment_charge_status,
		       fulfillment_refunded, created_at
		FROM orders WHERE id = ?`, id)

	var o ledger.Order
	var total, authorized, charged, canceled, refunded, fulfillment string
	var chargeStatus, createdAt string
	err := row.Scan(&o.ID, &o.Currency, &total, &authorized, &charged,
		&canceled, &refunded, &chargeStatus, &fulfillment, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	o.Total = ledger.NewMoney(ledger.MustParseDecimal(total), o.Currency)
	o.TotalAuthorized = ledger.NewMoney(ledger.MustParseDecimal(authorized), o.Currency)
	o.TotalCharged = ledger.NewMoney(ledger.MustParseDecimal(charged), o.Currency)
	o.TotalCanceled = ledger.NewMoney(ledger.MustParseDecimal(canceled), o.Currency)
	o.TotalRefunded = ledger.NewMoney(ledger.MustParseDecimal(refunded), o.Currency)
	o.PaymentChargeStatus = ledger.PaymentStatus(chargeStatus)
	o.FulfillmentRefunded = ledger.NewMoney(ledger.MustParseDecimal(fulfillment), o.Currency)
	o.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &o, nil
}

func (s *Store) SaveOrder(ctx context.Context, order *ledger.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveOrder(ctx, s.db, order)
}

func saveOrder(ctx context.Context, db dbtx, order *ledger.Order) error {
	createdAt := order.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := db.ExecContext(ctx, `
		INSERT OR REPLACE INTO orders
		(id, currency, total, total_authorized, total_charged, total_canceled,
		 total_refunded, payment_charge_status, fulfillment_refunded, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID,
		order.Currency,
		order.Total.Amount.String(),
		order.TotalAuthorized.Amount.String(),
		order.TotalCharged.Amount.String(),
		order.TotalCanceled.Amount.String(),
		order.TotalRefunded.Amount.String(),
		string(order.PaymentChargeStatus),
		order.FulfillmentRefunded.Amount.String(),
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

func (s *Store) UpdateOrderTotals(ctx context.Context, order *ledger.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateOrderTotals(ctx, s.db, order)
}

func updateOrderTotals(ctx context.Context, db dbtx, order *ledger.Order) error {
	result, err := db.ExecContext(ctx, `
		UPDATE orders
		SET total_authorized = ?, total_charged = ?, total_canceled = ?, total_refunded = ?
		WHERE id = ?`,
		order.TotalAuthorized.Amount.String(),
		order.TotalCharged.Amount.String(),
		order.TotalCanceled.Amount.String(),
		order.TotalRefunded.Amount.String(),
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update order totals: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ledger.ErrOrderNotFound
	}
	return nil
}

// =============================================================================
// CHECKOUTS
// =============================================================================

func (s *Store) GetCheckout(ctx context.Context, id string) (*ledger.Checkout, error) {
	return getCheckout(ctx, s.db, id)
}

func getCheckout(ctx context.Context, db dbtx, id string) (*ledger.Checkout, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, currency, total, created_at FROM checkouts WHERE id = ?`, id)

	var c ledger.Checkout
	var total, createdAt string
	err := row.Scan(&c.ID, &c.Currency, &total, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrCheckoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get checkout: %w", err)
	}

	c.Total = ledger.NewMoney(ledger.MustParseDecimal(total), c.Currency)
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &c, nil
}

func (s *Store) SaveCheckout(ctx context.Context, checkout *ledger.Checkout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveCheckout(ctx, s.db, checkout)
}

func saveCheckout(ctx context.Context, db dbtx, checkout *ledger.Checkout) error {
	createdAt := checkout.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := db.ExecContext(ctx, `
		INSERT OR REPLACE INTO checkouts (id, currency, total, created_at)
		VALUES (?, ?, ?, ?)`,
		checkout.ID, checkout.Currency, checkout.Total.Amount.String(),
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save checkout: %w", err)
	}
	return nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func (s *Store) AppendTransaction(ctx context.Context, item *ledger.TransactionItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return appendTransaction(ctx, s.db, item)
}

func appendTransaction(ctx context.Context, db dbtx, item *ledger.TransactionItem) error {
	actionsJSON, _ := json.Marshal(item.AvailableActions)
	metadataJSON, _ := json.Marshal(item.Metadata)
	privateJSON, _ := json.Marshal(item.PrivateMetadata)

	_, err := db.ExecContext(ctx, `
		INSERT INTO transactions
		(id, order_id, checkout_id, status, kind, psp_reference, currency,
		 authorized_value, charged_value, canceled_value, refunded_value,
		 available_actions, external_url, metadata_json, private_metadata_json,
		 created_by_kind, created_by_id, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		nullString(item.OrderID),
		nullString(item.CheckoutID),
		item.Status,
		item.Kind,
		item.PSPReference,
		item.Currency,
		item.AuthorizedValue.String(),
		item.ChargedValue.String(),
		item.CanceledValue.String(),
		item.RefundedValue.String(),
		string(actionsJSON),
		item.ExternalURL,
		string(metadataJSON),
		string(privateJSON),
		string(item.CreatedBy.Kind),
		item.CreatedBy.ID,
		item.CreatedAt.UTC().Format(time.RFC3339),
		item.ModifiedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

const transactionColumns = `
	id, order_id, checkout_id, status, kind, psp_reference, currency,
	authorized_value, charged_value, canceled_value, refunded_value,
	available_actions, external_url, metadata_json, private_metadata_json,
	created_by_kind, created_by_id, created_at, modified_at`

func (s *Store) GetTransaction(ctx context.Context, id string) (*ledger.TransactionItem, error) {
	return getTransaction(ctx, s.db, id)
}

func getTransaction(ctx context.Context, db dbtx, id string) (*ledger.TransactionItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ledger.ErrTransactionNotFound
	}
	return scanTransaction(rows)
}

func (s *Store) TransactionsForOrder(ctx context.Context, orderID string) ([]*ledger.TransactionItem, error) {
	return transactionsForOrder(ctx, s.db, orderID)
}

func transactionsForOrder(ctx context.Context, db dbtx, orderID string) ([]*ledger.TransactionItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE order_id = ? ORDER BY created_at, id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (s *Store) TransactionsForCheckout(ctx context.Context, checkoutID string) ([]*ledger.TransactionItem, error) {
	return transactionsForCheckout(ctx, s.db, checkoutID)
}

func transactionsForCheckout(ctx context.Context, db dbtx, checkoutID string) ([]*ledger.TransactionItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE checkout_id = ? ORDER BY created_at, id`, checkoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func collectTransactions(rows *sql.Rows) ([]*ledger.TransactionItem, error) {
	var result []*ledger.TransactionItem
	for rows.Next() {
		item, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func scanTransaction(rows *sql.Rows) (*ledger.TransactionItem, error) {
	var t ledger.TransactionItem
	var orderID, checkoutID, pspRef, externalURL sql.NullString
	var authorized, charged, canceled, refunded string
	var actionsJSON, metadataJSON, privateJSON sql.NullString
	var createdByKind, createdByID sql.NullString
	var createdAt, modifiedAt string

	err := rows.Scan(&t.ID, &orderID, &checkoutID, &t.Status, &t.Kind,
		&pspRef, &t.Currency, &authorized, &charged, &canceled, &refunded,
		&actionsJSON, &externalURL, &metadataJSON, &privateJSON,
		&createdByKind, &createdByID, &createdAt, &modifiedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}

	t.OrderID = orderID.String
	t.CheckoutID = checkoutID.String
	t.PSPReference = pspRef.String
	t.ExternalURL = externalURL.String
	t.AuthorizedValue = ledger.MustParseDecimal(authorized)
	t.ChargedValue = ledger.MustParseDecimal(charged)
	t.CanceledValue = ledger.MustParseDecimal(canceled)
	t.RefundedValue = ledger.MustParseDecimal(refunded)
	if actionsJSON.Valid {
		json.Unmarshal([]byte(actionsJSON.String), &t.AvailableActions)
	}
	if metadataJSON.Valid {
		json.Unmarshal([]byte(metadataJSON.String), &t.Metadata)
	}
	if privateJSON.Valid {
		json.Unmarshal([]byte(privateJSON.String), &t.PrivateMetadata)
	}
	t.CreatedBy = ledger.Actor{Kind: ledger.ActorKind(createdByKind.String), ID: createdByID.String}
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.ModifiedAt, _ = time.Parse(time.RFC3339, modifiedAt)
	return &t, nil
}

// =============================================================================
// TRANSACTION EVENTS
// =============================================================================

func (s *Store) AppendTransactionEvent(ctx context.Context, event *ledger.TransactionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return appendTransactionEvent(ctx, s.db, event)
}

func appendTransactionEvent(ctx context.Context, db dbtx, event *ledger.TransactionEvent) error {
	var amountValue, amountCurrency any
	if event.Amount != nil {
		amountValue = event.Amount.Amount.String()
		amountCurrency = event.Amount.Currency
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO transaction_events
		(id, transaction_id, status, psp_reference, message, external_url,
		 amount_value, amount_currency, created_by_kind, created_by_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID,
		event.TransactionID,
		string(event.Status),
		event.PSPReference,
		event.Message,
		event.ExternalURL,
		amountValue,
		amountCurrency,
		string(event.CreatedBy.Kind),
		event.CreatedBy.ID,
		event.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to append transaction event: %w", err)
	}
	return nil
}

func (s *Store) EventsForTransaction(ctx context.Context, transactionID string) ([]*ledger.TransactionEvent, error) {
	return eventsForTransaction(ctx, s.db, transactionID)
}

func eventsForTransaction(ctx context.Context, db dbtx, transactionID string) ([]*ledger.TransactionEvent, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, transaction_id, status, psp_reference, message, external_url,
		       amount_value, amount_currency, created_by_kind, created_by_id, created_at
		FROM transaction_events
		WHERE transaction_id = ?
		ORDER BY created_at, id`, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction events: %w", err)
	}
	defer rows.Close()

	var result []*ledger.TransactionEvent
	for rows.Next() {
		var e ledger.TransactionEvent
		var pspRef, message, externalURL sql.NullString
		var amountValue, amountCurrency sql.NullString
		var createdByKind, createdByID sql.NullString
		var createdAt string

		err := rows.Scan(&e.ID, &e.TransactionID, &e.Status, &pspRef, &message,
			&externalURL, &amountValue, &amountCurrency,
			&createdByKind, &createdByID, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction event: %w", err)
		}

		e.PSPReference = pspRef.String
		e.Message = message.String
		e.ExternalURL = externalURL.String
		if amountValue.Valid && amountCurrency.Valid {
			m := ledger.NewMoney(ledger.MustParseDecimal(amountValue.String), amountCurrency.String)
			e.Amount = &m
		}
		e.CreatedBy = ledger.Actor{Kind: ledger.ActorKind(createdByKind.String), ID: createdByID.String}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		result = append(result, &e)
	}
	return result, rows.Err()
}

// =============================================================================
// ORDER EVENTS
// =============================================================================

func (s *Store) RecordOrderEvent(ctx context.Context, event *ledger.OrderEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return recordOrderEvent(ctx, s.db, event)
}

func recordOrderEvent(ctx context.Context, db dbtx, event *ledger.OrderEvent) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO order_events
		(id, order_id, type, message, reference, status,
		 created_by_kind, created_by_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID,
		event.OrderID,
		string(event.Type),
		event.Message,
		event.Reference,
		event.Status,
		string(event.CreatedBy.Kind),
		event.CreatedBy.ID,
		event.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record order event: %w", err)
	}
	return nil
}

func (s *Store) OrderEvents(ctx context.Context, orderID string) ([]*ledger.OrderEvent, error) {
	return orderEvents(ctx, s.db, orderID)
}

func orderEvents(ctx context.Context, db dbtx, orderID string) ([]*ledger.OrderEvent, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, order_id, type, message, reference, status,
		       created_by_kind, created_by_id, created_at
		FROM order_events
		WHERE order_id = ?
		ORDER BY created_at, id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order events: %w", err)
	}
	defer rows.Close()

	var result []*ledger.OrderEvent
	for rows.Next() {
		var e ledger.OrderEvent
		var message, reference, status sql.NullString
		var createdByKind, createdByID sql.NullString
		var createdAt string

		err := rows.Scan(&e.ID, &e.OrderID, &e.Type, &message, &reference,
			&status, &createdByKind, &createdByID, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order event: %w", err)
		}

		e.Message = message.String
		e.Reference = reference.String
		e.Status = status.String
		e.CreatedBy = ledger.Actor{Kind: ledger.ActorKind(createdByKind.String), ID: createdByID.String}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		result = append(result, &e)
	}
	return result, rows.Err()
}

// =============================================================================
// TRANSACTIONAL STORE
// =============================================================================

// WithTx executes fn within a database transaction. The store-wide
// mutex held for the duration serializes concurrent units of work, so
// a recompute always summarizes the transaction set it just joined.
func (s *Store) WithTx(ctx context.Context, fn func(ledger.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&txStore{tx: tx}); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// txStore runs every Store operation against one database transaction.
type txStore struct {
	tx *sql.Tx
}

func (t *txStore) GetOrder(ctx context.Context, id string) (*ledger.Order, error) {
	return getOrder(ctx, t.tx, id)
}

func (t *txStore) SaveOrder(ctx context.Context, order *ledger.Order) error {
	return saveOrder(ctx, t.tx, order)
}

func (t *txStore) UpdateOrderTotals(ctx context.Context, order *ledger.Order) error {
	return updateOrderTotals(ctx, t.tx, order)
}

func (t *txStore) GetCheckout(ctx context.Context, id string) (*ledger.Checkout, error) {
	return getCheckout(ctx, t.tx, id)
}

func (t *txStore) SaveCheckout(ctx context.Context, checkout *ledger.Checkout) error {
	return saveCheckout(ctx, t.tx, checkout)
}

func (t *txStore) AppendTransaction(ctx context.Context, item *ledger.TransactionItem) error {
	return appendTransaction(ctx, t.tx, item)
}

func (t *txStore) GetTransaction(ctx context.Context, id string) (*ledger.TransactionItem, error) {
	return getTransaction(ctx, t.tx, id)
}

func (t *txStore) TransactionsForOrder(ctx context.Context, orderID string) ([]*ledger.TransactionItem, error) {
	return transactionsForOrder(ctx, t.tx, orderID)
}

func (t *txStore) TransactionsForCheckout(ctx context.Context, checkoutID string) ([]*ledger.TransactionItem, error) {
	return transactionsForCheckout(ctx, t.tx, checkoutID)
}

func (t *txStore) AppendTransactionEvent(ctx context.Context, event *ledger.TransactionEvent) error {
	return appendTransactionEvent(ctx, t.tx, event)
}

func (t *txStore) EventsForTransaction(ctx context.Context, transactionID string) ([]*ledger.TransactionEvent, error) {
	return eventsForTransaction(ctx, t.tx, transactionID)
}

func (t *txStore) RecordOrderEvent(ctx context.Context, event *ledger.OrderEvent) error {
	return recordOrderEvent(ctx, t.tx, event)
}

func (t *txStore) OrderEvents(ctx context.Context, orderID string) ([]*ledger.OrderEvent, error) {
	return orderEvents(ctx, t.tx, orderID)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
