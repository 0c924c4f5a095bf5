/*
transaction.go - Transaction entity, event trail, actors, and owners

PURPOSE:
  A TransactionItem is one record per payment-provider transaction
  attempt. It carries per-kind decimal accumulators (authorized,
  charged, canceled, refunded) in a single currency, plus an
  append-only list of TransactionEvents recording status changes
  reported by the PSP.

KEY CONCEPTS:
  - OwnerRef: tagged union - a transaction belongs to exactly one
    order OR one checkout, resolved once at entry.
  - Actor: who recorded the transaction - a user, an application, or
    nobody (system import). Carried opaquely into attribution fields.
  - Metadata: ordered key/value pairs; keys are unique and non-empty.

LIFECYCLE:
  Created once by the creation service. Amount fields afterward are
  adjusted only by subsequent recorded events. Transactions are never
  deleted, only appended to via events.

SEE ALSO:
  - create.go: Validation and construction
  - aggregate.go: Order totals summed over these accumulators
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// OWNER - Order-or-checkout tagged union
// =============================================================================

type OwnerKind string

const (
	OwnerOrder    OwnerKind = "order"
	OwnerCheckout OwnerKind = "checkout"
)

// OwnerRef points at the order or checkout a transaction belongs to.
// Exactly one kind; resolved to a concrete record at service entry.
type OwnerRef struct {
	Kind OwnerKind
	ID   string
}

func OrderRef(id string) OwnerRef    { return OwnerRef{Kind: OwnerOrder, ID: id} }
func CheckoutRef(id string) OwnerRef { return OwnerRef{Kind: OwnerCheckout, ID: id} }

// =============================================================================
// ACTOR - User / App / none
// =============================================================================

type ActorKind string

const (
	ActorUser ActorKind = "user"
	ActorApp  ActorKind = "app"
)

// Actor identifies who performed an operation. The zero value means
// "no actor" (system-originated records).
type Actor struct {
	Kind ActorKind
	ID   string
}

func UserActor(id string) Actor { return Actor{Kind: ActorUser, ID: id} }
func AppActor(id string) Actor  { return Actor{Kind: ActorApp, ID: id} }

func (a Actor) IsZero() bool { return a.Kind == "" && a.ID == "" }

// =============================================================================
// METADATA - Ordered key/value pairs, unique non-empty keys
// =============================================================================

type MetadataEntry struct {
	Key   string
	Value string
}

// Metadata preserves insertion order. Set replaces an existing key in
// place, so duplicate input keys collapse last-wins without reordering.
type Metadata []MetadataEntry

func (m Metadata) Get(key string) (string, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

func (m Metadata) Set(key, value string) Metadata {
	for i, e := range m {
		if e.Key == key {
			m[i].Value = value
			return m
		}
	}
	return append(m, MetadataEntry{Key: key, Value: value})
}

// HasEmptyKey reports whether any entry violates the non-empty-key invariant.
func (m Metadata) HasEmptyKey() bool {
	for _, e := range m {
		if e.Key == "" {
			return true
		}
	}
	return false
}

// Deduped returns a copy with duplicate keys collapsed, last value wins.
func (m Metadata) Deduped() Metadata {
	var out Metadata
	for _, e := range m {
		out = out.Set(e.Key, e.Value)
	}
	return out
}

// =============================================================================
// TRANSACTION ACTIONS
// =============================================================================

// TransactionAction is an action the PSP still allows on a transaction.
type TransactionAction string

const (
	ActionCharge TransactionAction = "CHARGE"
	ActionVoid   TransactionAction = "VOID"
	ActionRefund TransactionAction = "REFUND"
)

// DedupeActions collapses repeated actions, preserving first-seen order.
func DedupeActions(actions []TransactionAction) []TransactionAction {
	seen := make(map[TransactionAction]bool, len(actions))
	out := make([]TransactionAction, 0, len(actions))
	for _, a := range actions {
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	return out
}

// =============================================================================
// TRANSACTION ITEM - One record per PSP transaction attempt
// =============================================================================

type TransactionItem struct {
	ID string

	// Exactly one of OrderID/CheckoutID is set.
	OrderID    string
	CheckoutID string

	// Free-text labels reported by the PSP integration.
	Status string
	Kind   string

	PSPReference string
	Currency     string

	// Per-kind accumulators, all in Currency, never negative.
	AuthorizedValue decimal.Decimal
	ChargedValue    decimal.Decimal
	CanceledValue   decimal.Decimal
	RefundedValue   decimal.Decimal

	AvailableActions []TransactionAction

	ExternalURL     string
	Metadata        Metadata
	PrivateMetadata Metadata

	CreatedBy  Actor
	CreatedAt  time.Time
	ModifiedAt time.Time
}

func (t *TransactionItem) AuthorizedAmount() Money { return NewMoney(t.AuthorizedValue, t.Currency) }
func (t *TransactionItem) ChargedAmount() Money    { return NewMoney(t.ChargedValue, t.Currency) }
func (t *TransactionItem) CanceledAmount() Money   { return NewMoney(t.CanceledValue, t.Currency) }
func (t *TransactionItem) RefundedAmount() Money   { return NewMoney(t.RefundedValue, t.Currency) }

// Owner returns the resolved owner reference.
func (t *TransactionItem) Owner() OwnerRef {
	if t.OrderID != "" {
		return OrderRef(t.OrderID)
	}
	return CheckoutRef(t.CheckoutID)
}

// =============================================================================
// TRANSACTION EVENT - Immutable status-change record
// =============================================================================

// TransactionEventStatus is the outcome a PSP reported for one step.
type TransactionEventStatus string

const (
	EventPending TransactionEventStatus = "PENDING"
	EventSuccess TransactionEventStatus = "SUCCESS"
	EventFailure TransactionEventStatus = "FAILURE"
)

// TransactionEvent belongs to exactly one transaction. Immutable once
// created; ordered by creation time within the transaction.
type TransactionEvent struct {
	ID            string
	TransactionID string

	Status       TransactionEventStatus
	PSPReference string
	Message      string
	ExternalURL  string

	// Amount is optional: some events (e.g. partial capture reports)
	// carry one, plain status changes don't.
	Amount *Money

	CreatedBy Actor
	CreatedAt time.Time
}

// =============================================================================
// ORDER EVENT - Order-level trail entry, separate from transaction events
// =============================================================================

type OrderEventType string

const OrderEventTransaction OrderEventType = "TRANSACTION_EVENT"

// OrderEvent is recorded on the owning order when a transaction event
// is created alongside a transaction. It is part of the order's own
// history, independent of the transaction's event log.
type OrderEvent struct {
	ID      string
	OrderID string

	Type      OrderEventType
	Message   string
	Reference string

	// Status is the lower-cased event status label.
	Status string

	CreatedBy Actor
	CreatedAt time.Time
}
