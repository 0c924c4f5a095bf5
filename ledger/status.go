/*
status.go - Order and checkout records, derived statuses, display maps

PURPOSE:
  Defines the owner records transactions attach to, and the status
  enums derived from the order's cached ledger totals.

STATUS FAMILIES:
  AuthorizeStatus / ChargeStatus - driven by the transaction ledger
  totals vs. the order grand total, derived lazily at read time.

  PaymentStatus - legacy family driven by the simple payment charge
  state and fulfillment refunds. Computed independently of the
  transaction-ledger statuses; the two families are NOT kept
  consistent with each other (legacy compatibility).

BOUNDARY RULES:
  Exact equality to the order total counts as FULL, not PARTIAL.
  A zero-total order with zero authorized+charged activity is NONE,
  not FULL - the zero/zero case is special-cased explicitly.

SEE ALSO:
  - aggregate.go: Recomputes the totals these derivations read
*/
package ledger

import "time"

// =============================================================================
// ORDER - External owner, carries the ledger snapshot fields
// =============================================================================

// Order holds the cached ledger totals plus the grand total used to
// derive authorize/charge status. Total* fields are only ever written
// by full recomputation, never incremented ad hoc.
type Order struct {
	ID       string
	Currency string

	// Grand total of the order.
	Total Money

	// Ledger snapshot: sums over all transactions on this order.
	TotalAuthorized Money
	TotalCharged    Money
	TotalCanceled   Money
	TotalRefunded   Money

	// Legacy simple-payment signal. Empty means no payment exists.
	PaymentChargeStatus PaymentStatus

	// Summed refund amounts across fulfillments.
	FulfillmentRefunded Money

	CreatedAt time.Time
}

// Checkout is the pre-order owner. Checkouts have no ledger totals;
// recompute against a checkout is a no-op.
type Checkout struct {
	ID       string
	Currency string
	Total    Money

	CreatedAt time.Time
}

// =============================================================================
// AUTHORIZE STATUS
// =============================================================================

type AuthorizeStatus string

const (
	AuthorizeNone    AuthorizeStatus = "NONE"
	AuthorizePartial AuthorizeStatus = "PARTIAL"
	AuthorizeFull    AuthorizeStatus = "FULL"
)

// DeriveAuthorizeStatus derives status from authorized-or-charged
// coverage vs. the order total. All three values share the order
// currency by construction.
func DeriveAuthorizeStatus(totalAuthorized, totalCharged, orderTotal Money) AuthorizeStatus {
	covered := totalAuthorized.Amount.Add(totalCharged.Amount)
	if covered.IsZero() {
		// Covers the zero-total order with no activity: nothing is
		// owed and nothing happened, which reads as NONE, not FULL.
		return AuthorizeNone
	}
	if covered.GreaterThanOrEqual(orderTotal.Amount) {
		return AuthorizeFull
	}
	return AuthorizePartial
}

// AuthorizeStatus derives the current authorize status lazily from
// the cached totals.
func (o *Order) AuthorizeStatus() AuthorizeStatus {
	return DeriveAuthorizeStatus(o.TotalAuthorized, o.TotalCharged, o.Total)
}

// =============================================================================
// CHARGE STATUS
// =============================================================================

type ChargeStatus string

const (
	ChargeNone    ChargeStatus = "NONE"
	ChargePartial ChargeStatus = "PARTIAL"
	ChargeFull    ChargeStatus = "FULL"
)

// DeriveChargeStatus derives status from charged coverage vs. the
// order total. Equality counts as FULL.
func DeriveChargeStatus(totalCharged, orderTotal Money) ChargeStatus {
	if totalCharged.IsZero() {
		return ChargeNone
	}
	if totalCharged.Amount.GreaterThanOrEqual(orderTotal.Amount) {
		return ChargeFull
	}
	return ChargePartial
}

// ChargeStatus derives the current charge status lazily from the
// cached totals.
func (o *Order) ChargeStatus() ChargeStatus {
	return DeriveChargeStatus(o.TotalCharged, o.Total)
}

// =============================================================================
// PAYMENT STATUS - Legacy family, independent of the transaction ledger
// =============================================================================

type PaymentStatus string

const (
	PaymentNotCharged        PaymentStatus = "NOT_CHARGED"
	PaymentPending           PaymentStatus = "PENDING"
	PaymentPartiallyCharged  PaymentStatus = "PARTIALLY_CHARGED"
	PaymentFullyCharged      PaymentStatus = "FULLY_CHARGED"
	PaymentPartiallyRefunded PaymentStatus = "PARTIALLY_REFUNDED"
	PaymentFullyRefunded     PaymentStatus = "FULLY_REFUNDED"
	PaymentRefused           PaymentStatus = "REFUSED"
	PaymentCancelled         PaymentStatus = "CANCELLED"
)

// PaymentStatus derives the legacy payment status:
//   - fulfillment refunds summing to the order total -> FULLY_REFUNDED
//   - zero-total order with no payment -> FULLY_CHARGED (nothing owed)
//   - otherwise the stored payment charge state, NOT_CHARGED when no
//     payment exists.
func (o *Order) PaymentStatus() PaymentStatus {
	if !o.FulfillmentRefunded.IsZero() && o.FulfillmentRefunded.Equal(o.Total) {
		return PaymentFullyRefunded
	}
	if o.PaymentChargeStatus == "" {
		if o.Total.IsZero() {
			return PaymentFullyCharged
		}
		return PaymentNotCharged
	}
	return o.PaymentChargeStatus
}

// =============================================================================
// DISPLAY STRINGS - Pure mapping tables, no shared mutable state
// =============================================================================

var paymentStatusDisplay = map[PaymentStatus]string{
	PaymentNotCharged:        "Not charged",
	PaymentPending:           "Pending",
	PaymentPartiallyCharged:  "Partially charged",
	PaymentFullyCharged:      "Fully charged",
	PaymentPartiallyRefunded: "Partially refunded",
	PaymentFullyRefunded:     "Fully refunded",
	PaymentRefused:           "Refused",
	PaymentCancelled:         "Cancelled",
}

var authorizeStatusDisplay = map[AuthorizeStatus]string{
	AuthorizeNone:    "No funds authorized",
	AuthorizePartial: "Partially authorized",
	AuthorizeFull:    "Fully authorized",
}

var chargeStatusDisplay = map[ChargeStatus]string{
	ChargeNone:    "No funds charged",
	ChargePartial: "Partially charged",
	ChargeFull:    "Fully charged",
}

func (s PaymentStatus) Display() string   { return paymentStatusDisplay[s] }
func (s AuthorizeStatus) Display() string { return authorizeStatusDisplay[s] }
func (s ChargeStatus) Display() string    { return chargeStatusDisplay[s] }
