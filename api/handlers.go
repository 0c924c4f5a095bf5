/*
handlers.go - HTTP API handlers for the payment ledger

PURPOSE:
  Exposes the ledger engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Transactions:
    POST   /api/transactions                 Create transaction (+ optional initial event)
    GET    /api/transactions/{id}            Get transaction with its event trail
    POST   /api/transactions/{id}/events     Append a status-change event

  Orders:
    POST   /api/orders                       Register an order
    GET    /api/orders/{id}                  Order with derived statuses
    GET    /api/orders/{id}/transactions     All transactions on the order
    GET    /api/orders/{id}/events           Order-level event history
    POST   /api/orders/{id}/recompute        Force a full totals recompute

  Checkouts:
    POST   /api/checkouts                    Register a checkout
    GET    /api/checkouts/{id}               Get checkout

REQUEST FLOW:
  1. Parse HTTP request
  2. Structural validation (validator struct tags)
  3. Call domain logic (creation service, aggregator)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Two disjoint families:
  - Field errors: 400 with {"transaction": null, "errors": [...]} -
    every violation in one response, accumulated by the service.
  - Transport errors: ErrorResponse JSON with 400/401/403/404/500.
  Auth failures are resolved by middleware before handlers run.

SEE ALSO:
  - dto.go: Request/response data structures
  - auth.go: Bearer-token middleware
  - server.go: Router setup
*/
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/payment-ledger/ledger"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   ledger.TxStore
	Service *ledger.Service

	logger   *zap.Logger
	validate *validator.Validate
}

// NewHandler creates a new handler with the given store.
func NewHandler(store ledger.TxStore, logger *zap.Logger) *Handler {
	return &Handler{
		Store:    store,
		Service:  ledger.NewService(store),
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// =============================================================================
// TRANSACTION HANDLERS
// =============================================================================

// CreateTransaction creates a transaction for an order or checkout.
// POST /api/transactions
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err)
		return
	}

	input, event, err := h.buildCreateInput(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	owner := ledger.OrderRef(req.OrderID)
	if req.CheckoutID != "" {
		owner = ledger.CheckoutRef(req.CheckoutID)
	}

	item, fieldErrs, err := h.Service.CreateTransaction(r.Context(), owner, input, event, ActorFromContext(r.Context()))
	if err != nil {
		h.writeServiceError(w, "Failed to create transaction", err)
		return
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusBadRequest, CreateTransactionResponse{
			Transaction: nil,
			Errors:      toFieldErrorDTOs(fieldErrs),
		})
		return
	}

	dto := toTransactionDTO(item)
	writeJSON(w, http.StatusCreated, CreateTransactionResponse{
		Transaction: &dto,
		Errors:      []FieldErrorDTO{},
	})
}

func (h *Handler) buildCreateInput(req CreateTransactionRequest) (ledger.CreateInput, *ledger.EventInput, error) {
	input := ledger.CreateInput{
		Status:          req.Status,
		Kind:            req.Type,
		PSPReference:    req.Reference,
		ExternalURL:     req.ExternalURL,
		Metadata:        toMetadata(req.Metadata),
		PrivateMetadata: toMetadata(req.PrivateMetadata),
	}
	for _, a := range req.AvailableActions {
		input.AvailableActions = append(input.AvailableActions, ledger.TransactionAction(a))
	}

	var err error
	if input.AmountAuthorized, err = req.AmountAuthorized.toInput(); err != nil {
		return input, nil, err
	}
	if input.AmountCharged, err = req.AmountCharged.toInput(); err != nil {
		return input, nil, err
	}
	if input.AmountVoided, err = req.AmountVoided.toInput(); err != nil {
		return input, nil, err
	}
	if input.AmountCanceled, err = req.AmountCanceled.toInput(); err != nil {
		return input, nil, err
	}
	if input.AmountRefunded, err = req.AmountRefunded.toInput(); err != nil {
		return input, nil, err
	}

	if req.TransactionEvent == nil {
		return input, nil, nil
	}
	event, err := req.TransactionEvent.toInput()
	return input, event, err
}

func (e *EventRequest) toInput() (*ledger.EventInput, error) {
	amount, err := e.Amount.toInput()
	if err != nil {
		return nil, err
	}
	return &ledger.EventInput{
		Status:       ledger.TransactionEventStatus(e.Status),
		PSPReference: e.Reference,
		Message:      e.Name,
		ExternalURL:  e.ExternalURL,
		Amount:       amount,
	}, nil
}

// GetTransaction returns a transaction and its full event trail.
// GET /api/transactions/{id}
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.Store.GetTransaction(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "Failed to get transaction", err)
		return
	}
	events, err := h.Store.EventsForTransaction(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "Failed to load events", err)
		return
	}

	dto := toTransactionDTO(item)
	dto.Events = make([]EventDTO, len(events))
	for i, e := range events {
		dto.Events[i] = toEventDTO(e)
	}
	writeJSON(w, http.StatusOK, dto)
}

// AppendTransactionEvent records one more status change.
// POST /api/transactions/{id}/events
func (h *Handler) AppendTransactionEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	event, err := h.Service.AppendEvent(r.Context(), id, *input, ActorFromContext(r.Context()))
	if err != nil {
		h.writeServiceError(w, "Failed to append event", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventDTO(event))
}

// =============================================================================
// ORDER HANDLERS
// =============================================================================

// CreateOrder registers an order for the ledger to track.
// POST /api/orders
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err)
		return
	}
	total, err := ledger.NewMoneyFromString(req.Total, req.Currency)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid total", err)
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	order := &ledger.Order{
		ID:                  id,
		Currency:            total.Currency,
		Total:               total,
		TotalAuthorized:     ledger.ZeroMoney(total.Currency),
		TotalCharged:        ledger.ZeroMoney(total.Currency),
		TotalCanceled:       ledger.ZeroMoney(total.Currency),
		TotalRefunded:       ledger.ZeroMoney(total.Currency),
		FulfillmentRefunded: ledger.ZeroMoney(total.Currency),
		CreatedAt:           time.Now().UTC(),
	}
	if err := h.Store.SaveOrder(r.Context(), order); err != nil {
		h.writeServiceError(w, "Failed to save order", err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderDTO(order))
}

// GetOrder returns an order with derived statuses and totals.
// GET /api/orders/{id}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Store.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, "Failed to get order", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDTO(order))
}

// ListOrderTransactions returns all transactions on an order.
// GET /api/orders/{id}/transactions
func (h *Handler) ListOrderTransactions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Store.GetOrder(r.Context(), id); err != nil {
		h.writeServiceError(w, "Failed to get order", err)
		return
	}

	txs, err := h.Store.TransactionsForOrder(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "Failed to load transactions", err)
		return
	}
	dtos := make([]TransactionDTO, len(txs))
	for i, t := range txs {
		dtos[i] = toTransactionDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListOrderEvents returns the order's history entries.
// GET /api/orders/{id}/events
func (h *Handler) ListOrderEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Store.GetOrder(r.Context(), id); err != nil {
		h.writeServiceError(w, "Failed to get order", err)
		return
	}

	events, err := h.Store.OrderEvents(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "Failed to load order events", err)
		return
	}
	dtos := make([]OrderEventDTO, len(events))
	for i, e := range events {
		dtos[i] = toOrderEventDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// RecomputeOrder forces a full totals recompute. Safe to call any
// number of times; each run overwrites the cache with fresh sums.
// POST /api/orders/{id}/recompute
func (h *Handler) RecomputeOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var result *ledger.Order
	err := h.Store.WithTx(r.Context(), func(tx ledger.Store) error {
		order, err := tx.GetOrder(r.Context(), id)
		if err != nil {
			return err
		}
		if err := ledger.NewAggregator(tx).RecomputeAll(r.Context(), order); err != nil {
			return err
		}
		result = order
		return nil
	})
	if err != nil {
		h.writeServiceError(w, "Failed to recompute totals", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDTO(result))
}

// =============================================================================
// CHECKOUT HANDLERS
// =============================================================================

// CreateCheckout registers a checkout.
// POST /api/checkouts
func (h *Handler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req CreateCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err)
		return
	}
	total, err := ledger.NewMoneyFromString(req.Total, req.Currency)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid total", err)
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	checkout := &ledger.Checkout{
		ID:        id,
		Currency:  total.Currency,
		Total:     total,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.SaveCheckout(r.Context(), checkout); err != nil {
		h.writeServiceError(w, "Failed to save checkout", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCheckoutDTO(checkout))
}

// GetCheckout returns a checkout.
// GET /api/checkouts/{id}
func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	checkout, err := h.Store.GetCheckout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, "Failed to get checkout", err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckoutDTO(checkout))
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) writeServiceError(w http.ResponseWriter, message string, err error) {
	if ledger.IsNotFound(err) {
		writeError(w, http.StatusNotFound, message, err)
		return
	}
	h.logger.Error(message, zap.Error(err))
	writeError(w, http.StatusInternalServerError, message, err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
