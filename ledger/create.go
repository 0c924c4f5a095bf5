/*
create.go - Transaction creation service and event appends

PURPOSE:
  Validates and applies a create-transaction request against its owner
  (order or checkout). Returns either the created transaction or the
  full list of field-scoped input errors - never both.

VALIDATION SEMANTICS:
  Errors ACCUMULATE; validation never short-circuits between rules:
  1. each supplied amount whose currency differs from the owner's
     currency -> INCORRECT_CURRENCY on that amount field
  2. empty metadata / privateMetadata keys -> METADATA_KEY_REQUIRED
  3. externalUrl present but not absolute -> INVALID
  Any error means nothing is persisted.

AMOUNT ALIASES:
  amountVoided and amountCanceled feed the same canceled accumulator;
  canceled takes precedence when both are supplied.

SIDE EFFECTS (one atomic unit of work):
  - persist the TransactionItem
  - append the optional initial TransactionEvent
  - record one order-level TRANSACTION_EVENT when the owner is an
    order and an initial event was supplied
  - recompute the owning order's totals (no-op for checkouts)

SEE ALSO:
  - aggregate.go: The recompute step
  - store.go: WithTx atomicity and serialization
*/
package ledger

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// INPUTS
// =============================================================================

// AmountInput is an optional amount-currency pair from the caller.
type AmountInput struct {
	Amount   decimal.Decimal
	Currency string
}

// CreateInput carries the caller-supplied transaction fields.
type CreateInput struct {
	Status           string
	Kind             string
	PSPReference     string
	AvailableActions []TransactionAction

	AmountAuthorized *AmountInput
	AmountCharged    *AmountInput
	AmountVoided     *AmountInput
	AmountCanceled   *AmountInput
	AmountRefunded   *AmountInput

	ExternalURL     string
	Metadata        Metadata
	PrivateMetadata Metadata
}

// EventInput carries the fields for one transaction event.
type EventInput struct {
	Status       TransactionEventStatus
	PSPReference string
	Message      string
	ExternalURL  string
	Amount       *AmountInput
}

// =============================================================================
// SERVICE
// =============================================================================

// Service is the transaction creation service. All writes go through
// the store's transactional unit of work.
type Service struct {
	store TxStore

	// now is a hook for tests; defaults to time.Now.
	now func() time.Time
}

func NewService(store TxStore) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// =============================================================================
// CREATE TRANSACTION
// =============================================================================

// CreateTransaction validates the input against the owner and, when
// clean, persists the transaction, the optional initial event, the
// order-level event, and the recomputed order totals atomically.
//
// Field errors and hard errors are disjoint: a non-empty FieldError
// list always comes with a nil transaction and a nil error.
func (s *Service) CreateTransaction(ctx context.Context, owner OwnerRef, input CreateInput, event *EventInput, actor Actor) (*TransactionItem, []FieldError, error) {
	currency, err := s.ownerCurrency(ctx, owner)
	if err != nil {
		return nil, nil, err
	}

	if errs := validateCreateInput(input, currency); len(errs) > 0 {
		return nil, errs, nil
	}

	now := s.now().UTC()
	item := &TransactionItem{
		ID:               uuid.NewString(),
		Status:           input.Status,
		Kind:             input.Kind,
		PSPReference:     input.PSPReference,
		Currency:         currency,
		AuthorizedValue:  amountOrZero(input.AmountAuthorized),
		ChargedValue:     amountOrZero(input.AmountCharged),
		CanceledValue:    canceledValue(input),
		RefundedValue:    amountOrZero(input.AmountRefunded),
		AvailableActions: DedupeActions(input.AvailableActions),
		ExternalURL:      input.ExternalURL,
		Metadata:         input.Metadata.Deduped(),
		PrivateMetadata:  input.PrivateMetadata.Deduped(),
		CreatedBy:        actor,
		CreatedAt:        now,
		ModifiedAt:       now,
	}
	switch owner.Kind {
	case OwnerOrder:
		item.OrderID = owner.ID
	case OwnerCheckout:
		item.CheckoutID = owner.ID
	}

	err = s.store.WithTx(ctx, func(tx Store) error {
		if err := tx.AppendTransaction(ctx, item); err != nil {
			return err
		}

		if event != nil {
			created := &TransactionEvent{
				ID:            uuid.NewString(),
				TransactionID: item.ID,
				Status:        event.Status,
				PSPReference:  event.PSPReference,
				Message:       event.Message,
				ExternalURL:   event.ExternalURL,
				CreatedBy:     actor,
				CreatedAt:     now,
			}
			if event.Amount != nil {
				m := NewMoney(event.Amount.Amount, event.Amount.Currency)
				created.Amount = &m
			}
			if err := tx.AppendTransactionEvent(ctx, created); err != nil {
				return err
			}

			if owner.Kind == OwnerOrder {
				orderEvent := &OrderEvent{
					ID:        uuid.NewString(),
					OrderID:   owner.ID,
					Type:      OrderEventTransaction,
					Message:   event.Message,
					Reference: event.PSPReference,
					Status:    strings.ToLower(string(event.Status)),
					CreatedBy: actor,
					CreatedAt: now,
				}
				if err := tx.RecordOrderEvent(ctx, orderEvent); err != nil {
					return err
				}
			}
		}

		if owner.Kind == OwnerOrder {
			// Re-read inside the transaction so the recompute sees the
			// current transaction set under the consistency boundary.
			order, err := tx.GetOrder(ctx, owner.ID)
			if err != nil {
				return err
			}
			return NewAggregator(tx).RecomputeAll(ctx, order)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return item, nil, nil
}

func (s *Service) ownerCurrency(ctx context.Context, owner OwnerRef) (string, error) {
	switch owner.Kind {
	case OwnerOrder:
		order, err := s.store.GetOrder(ctx, owner.ID)
		if err != nil {
			return "", err
		}
		return order.Currency, nil
	case OwnerCheckout:
		checkout, err := s.store.GetCheckout(ctx, owner.ID)
		if err != nil {
			return "", err
		}
		return checkout.Currency, nil
	default:
		return "", ErrUnknownOwner
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// amountFields fixes the validation order so error lists are stable.
var amountFields = []struct {
	name   string
	getter func(CreateInput) *AmountInput
}{
	{"amountAuthorized", func(in CreateInput) *AmountInput { return in.AmountAuthorized }},
	{"amountCharged", func(in CreateInput) *AmountInput { return in.AmountCharged }},
	{"amountVoided", func(in CreateInput) *AmountInput { return in.AmountVoided }},
	{"amountCanceled", func(in CreateInput) *AmountInput { return in.AmountCanceled }},
	{"amountRefunded", func(in CreateInput) *AmountInput { return in.AmountRefunded }},
}

func validateCreateInput(input CreateInput, ownerCurrency string) []FieldError {
	var errs []FieldError

	for _, f := range amountFields {
		amount := f.getter(input)
		if amount == nil {
			continue
		}
		if !strings.EqualFold(amount.Currency, ownerCurrency) {
			errs = append(errs, FieldError{
				Field:   f.name,
				Message: "Currency needs to be the same as for the order or checkout.",
				Code:    CodeIncorrectCurrency,
			})
		}
	}

	if input.Metadata.HasEmptyKey() {
		errs = append(errs, FieldError{
			Field:   "metadata",
			Message: "Metadata key cannot be empty.",
			Code:    CodeMetadataKeyRequired,
		})
	}
	if input.PrivateMetadata.HasEmptyKey() {
		errs = append(errs, FieldError{
			Field:   "privateMetadata",
			Message: "Metadata key cannot be empty.",
			Code:    CodeMetadataKeyRequired,
		})
	}

	if input.ExternalURL != "" && !isAbsoluteURL(input.ExternalURL) {
		errs = append(errs, FieldError{
			Field:   "externalUrl",
			Message: "Enter a valid URL.",
			Code:    CodeInvalid,
		})
	}

	return errs
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.IsAbs() && u.Host != ""
}

func amountOrZero(in *AmountInput) decimal.Decimal {
	if in == nil {
		return decimal.Zero
	}
	return in.Amount
}

// canceledValue resolves the voided/canceled alias pair: both feed the
// canceled accumulator, canceled wins when both are present.
func canceledValue(input CreateInput) decimal.Decimal {
	if input.AmountCanceled != nil {
		return input.AmountCanceled.Amount
	}
	return amountOrZero(input.AmountVoided)
}

// =============================================================================
// APPEND EVENT
// =============================================================================

// AppendEvent records one more status change on an existing
// transaction. Append-only: there is no mutation or deletion
// operation anywhere in the event log.
func (s *Service) AppendEvent(ctx context.Context, transactionID string, input EventInput, actor Actor) (*TransactionEvent, error) {
	if _, err := s.store.GetTransaction(ctx, transactionID); err != nil {
		return nil, err
	}

	event := &TransactionEvent{
		ID:            uuid.NewString(),
		TransactionID: transactionID,
		Status:        input.Status,
		PSPReference:  input.PSPReference,
		Message:       input.Message,
		ExternalURL:   input.ExternalURL,
		CreatedBy:     actor,
		CreatedAt:     s.now().UTC(),
	}
	if input.Amount != nil {
		m := NewMoney(input.Amount.Amount, input.Amount.Currency)
		event.Amount = &m
	}

	if err := s.store.AppendTransactionEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}
