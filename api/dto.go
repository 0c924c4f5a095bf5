/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

AMOUNT ENCODING:
  All monetary amounts cross the wire as decimal STRINGS ("98.40"),
  never JSON numbers. Float64 round-trips would corrupt the ledger.

VALIDATION:
  Structural validation (required fields, one-of constraints) uses
  go-playground/validator struct tags. Domain validation (currency
  match, metadata keys, URL format) lives in the creation service and
  is reported as accumulated field errors, not transport errors.

SEE ALSO:
  - handlers.go: Uses these types
  - ledger/create.go: Field-error producing validation
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payment-ledger/ledger"
)

// =============================================================================
// SHARED TYPES
// =============================================================================

// MoneyDTO carries an amount as a decimal string plus its currency.
type MoneyDTO struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func moneyDTO(m ledger.Money) MoneyDTO {
	return MoneyDTO{Amount: m.Amount.String(), Currency: m.Currency}
}

func moneyDTOPtr(m *ledger.Money) *MoneyDTO {
	if m == nil {
		return nil
	}
	d := moneyDTO(*m)
	return &d
}

// AmountDTO is a client-supplied amount. Currency is checked against
// the owner by the creation service, so it is not validated here.
type AmountDTO struct {
	Amount   string `json:"amount" validate:"required"`
	Currency string `json:"currency" validate:"required,len=3"`
}

func (a *AmountDTO) toInput() (*ledger.AmountInput, error) {
	if a == nil {
		return nil, nil
	}
	value, err := decimal.NewFromString(a.Amount)
	if err != nil {
		return nil, err
	}
	return &ledger.AmountInput{Amount: value, Currency: a.Currency}, nil
}

// MetadataEntryDTO is one ordered key/value pair.
type MetadataEntryDTO struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func toMetadata(entries []MetadataEntryDTO) ledger.Metadata {
	if len(entries) == 0 {
		return nil
	}
	out := make(ledger.Metadata, len(entries))
	for i, e := range entries {
		out[i] = ledger.MetadataEntry{Key: e.Key, Value: e.Value}
	}
	return out
}

func fromMetadata(m ledger.Metadata) []MetadataEntryDTO {
	out := make([]MetadataEntryDTO, len(m))
	for i, e := range m {
		out[i] = MetadataEntryDTO{Key: e.Key, Value: e.Value}
	}
	return out
}

// FieldErrorDTO mirrors ledger.FieldError for the wire.
type FieldErrorDTO struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func toFieldErrorDTOs(errs []ledger.FieldError) []FieldErrorDTO {
	out := make([]FieldErrorDTO, len(errs))
	for i, e := range errs {
		out[i] = FieldErrorDTO{Field: e.Field, Message: e.Message, Code: string(e.Code)}
	}
	return out
}

// =============================================================================
// TRANSACTION TYPES
// =============================================================================

// CreateTransactionRequest creates a transaction against exactly one
// of orderId/checkoutId.
type CreateTransactionRequest struct {
	OrderID    string `json:"orderId,omitempty" validate:"required_without=CheckoutID,excluded_with=CheckoutID"`
	CheckoutID string `json:"checkoutId,omitempty" validate:"required_without=OrderID,excluded_with=OrderID"`

	Status           string   `json:"status"`
	Type             string   `json:"type"`
	Reference        string   `json:"reference,omitempty"`
	AvailableActions []string `json:"availableActions,omitempty" validate:"dive,oneof=CHARGE VOID REFUND"`

	AmountAuthorized *AmountDTO `json:"amountAuthorized,omitempty"`
	AmountCharged    *AmountDTO `json:"amountCharged,omitempty"`
	AmountVoided     *AmountDTO `json:"amountVoided,omitempty"`
	AmountCanceled   *AmountDTO `json:"amountCanceled,omitempty"`
	AmountRefunded   *AmountDTO `json:"amountRefunded,omitempty"`

	ExternalURL     string             `json:"externalUrl,omitempty"`
	Metadata        []MetadataEntryDTO `json:"metadata,omitempty"`
	PrivateMetadata []MetadataEntryDTO `json:"privateMetadata,omitempty"`

	// TransactionEvent optionally records an initial event alongside
	// the transaction.
	TransactionEvent *EventRequest `json:"transactionEvent,omitempty"`
}

// EventRequest records a status-change event on a transaction.
type EventRequest struct {
	Status      string     `json:"status" validate:"required,oneof=PENDING SUCCESS FAILURE"`
	Reference   string     `json:"pspReference,omitempty"`
	Name        string     `json:"name,omitempty"`
	ExternalURL string     `json:"externalUrl,omitempty"`
	Amount      *AmountDTO `json:"amount,omitempty"`
}

// TransactionDTO represents one transaction in API responses.
type TransactionDTO struct {
	ID           string `json:"id"`
	OrderID      string `json:"orderId,omitempty"`
	CheckoutID   string `json:"checkoutId,omitempty"`
	Status       string `json:"status"`
	Type         string `json:"type"`
	Reference    string `json:"reference,omitempty"`

	AuthorizedAmount MoneyDTO `json:"authorizedAmount"`
	ChargedAmount    MoneyDTO `json:"chargedAmount"`
	VoidedAmount     MoneyDTO `json:"voidedAmount"`
	RefundedAmount   MoneyDTO `json:"refundedAmount"`

	AvailableActions []string           `json:"actions"`
	ExternalURL      string             `json:"externalUrl,omitempty"`
	Metadata         []MetadataEntryDTO `json:"metadata"`
	PrivateMetadata  []MetadataEntryDTO `json:"privateMetadata,omitempty"`

	CreatedByKind string    `json:"createdByKind,omitempty"`
	CreatedByID   string    `json:"createdById,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	ModifiedAt    time.Time `json:"modifiedAt"`

	Events []EventDTO `json:"events,omitempty"`
}

func toTransactionDTO(t *ledger.TransactionItem) TransactionDTO {
	actions := make([]string, len(t.AvailableActions))
	for i, a := range t.AvailableActions {
		actions[i] = string(a)
	}
	return TransactionDTO{
		ID:               t.ID,
		OrderID:          t.OrderID,
		CheckoutID:       t.CheckoutID,
		Status:           t.Status,
		Type:             t.Kind,
		Reference:        t.PSPReference,
		AuthorizedAmount: moneyDTO(t.AuthorizedAmount()),
		ChargedAmount:    moneyDTO(t.ChargedAmount()),
		VoidedAmount:     moneyDTO(t.CanceledAmount()),
		RefundedAmount:   moneyDTO(t.RefundedAmount()),
		AvailableActions: actions,
		ExternalURL:      t.ExternalURL,
		Metadata:         fromMetadata(t.Metadata),
		PrivateMetadata:  fromMetadata(t.PrivateMetadata),
		CreatedByKind:    string(t.CreatedBy.Kind),
		CreatedByID:      t.CreatedBy.ID,
		CreatedAt:        t.CreatedAt,
		ModifiedAt:       t.ModifiedAt,
	}
}

// EventDTO represents one transaction event.
type EventDTO struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	Reference   string    `json:"reference,omitempty"`
	Name        string    `json:"name,omitempty"`
	ExternalURL string    `json:"externalUrl,omitempty"`
	Amount      *MoneyDTO `json:"amount,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toEventDTO(e *ledger.TransactionEvent) EventDTO {
	return EventDTO{
		ID:          e.ID,
		Status:      string(e.Status),
		Reference:   e.PSPReference,
		Name:        e.Message,
		ExternalURL: e.ExternalURL,
		Amount:      moneyDTOPtr(e.Amount),
		CreatedAt:   e.CreatedAt,
	}
}

// CreateTransactionResponse carries either the created transaction or
// the accumulated field errors, never both.
type CreateTransactionResponse struct {
	Transaction *TransactionDTO `json:"transaction"`
	Errors      []FieldErrorDTO `json:"errors"`
}

// =============================================================================
// ORDER / CHECKOUT TYPES
// =============================================================================

// CreateOrderRequest registers an order the ledger will track.
type CreateOrderRequest struct {
	ID       string `json:"id,omitempty"`
	Currency string `json:"currency" validate:"required,len=3"`
	Total    string `json:"total" validate:"required"`
}

// CreateCheckoutRequest registers a checkout.
type CreateCheckoutRequest struct {
	ID       string `json:"id,omitempty"`
	Currency string `json:"currency" validate:"required,len=3"`
	Total    string `json:"total" validate:"required"`
}

// OrderDTO represents an order with its derived payment state.
type OrderDTO struct {
	ID       string   `json:"id"`
	Currency string   `json:"currency"`
	Total    MoneyDTO `json:"total"`

	TotalAuthorized MoneyDTO `json:"totalAuthorized"`
	TotalCharged    MoneyDTO `json:"totalCharged"`
	TotalCanceled   MoneyDTO `json:"totalCanceled"`
	TotalRefunded   MoneyDTO `json:"totalRefunded"`

	// TotalBalance = charged - total. Negative while underpaid.
	TotalBalance MoneyDTO `json:"totalBalance"`

	AuthorizeStatus string `json:"authorizeStatus"`
	ChargeStatus    string `json:"chargeStatus"`

	PaymentStatus        string `json:"paymentStatus"`
	PaymentStatusDisplay string `json:"paymentStatusDisplay"`

	CreatedAt time.Time `json:"createdAt"`
}

func toOrderDTO(o *ledger.Order) OrderDTO {
	balance, _ := o.TotalCharged.Sub(o.Total)
	status := o.PaymentStatus()
	return OrderDTO{
		ID:                   o.ID,
		Currency:             o.Currency,
		Total:                moneyDTO(o.Total),
		TotalAuthorized:      moneyDTO(o.TotalAuthorized),
		TotalCharged:         moneyDTO(o.TotalCharged),
		TotalCanceled:        moneyDTO(o.TotalCanceled),
		TotalRefunded:        moneyDTO(o.TotalRefunded),
		TotalBalance:         moneyDTO(balance),
		AuthorizeStatus:      string(o.AuthorizeStatus()),
		ChargeStatus:         string(o.ChargeStatus()),
		PaymentStatus:        string(status),
		PaymentStatusDisplay: status.Display(),
		CreatedAt:            o.CreatedAt,
	}
}

// CheckoutDTO represents a checkout.
type CheckoutDTO struct {
	ID        string    `json:"id"`
	Currency  string    `json:"currency"`
	Total     MoneyDTO  `json:"total"`
	CreatedAt time.Time `json:"createdAt"`
}

func toCheckoutDTO(c *ledger.Checkout) CheckoutDTO {
	return CheckoutDTO{
		ID:        c.ID,
		Currency:  c.Currency,
		Total:     moneyDTO(c.Total),
		CreatedAt: c.CreatedAt,
	}
}

// OrderEventDTO represents one entry in the order's history.
type OrderEventDTO struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message,omitempty"`
	Reference string    `json:"reference,omitempty"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toOrderEventDTO(e *ledger.OrderEvent) OrderEventDTO {
	return OrderEventDTO{
		ID:        e.ID,
		Type:      string(e.Type),
		Message:   e.Message,
		Reference: e.Reference,
		Status:    e.Status,
		CreatedAt: e.CreatedAt,
	}
}

// ErrorResponse is the transport-level error shape (auth failures,
// malformed JSON, not-found). Field errors use CreateTransactionResponse.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
