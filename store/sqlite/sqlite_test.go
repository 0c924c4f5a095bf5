package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payment-ledger/ledger"
	"github.com/warp/payment-ledger/store/sqlite"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedOrder(t *testing.T, s ledger.Store, id, currency, total string) *ledger.Order {
	t.Helper()
	order := &ledger.Order{
		ID:                  id,
		Currency:            currency,
		Total:               ledger.NewMoney(ledger.MustParseDecimal(total), currency),
		TotalAuthorized:     ledger.ZeroMoney(currency),
		TotalCharged:        ledger.ZeroMoney(currency),
		TotalCanceled:       ledger.ZeroMoney(currency),
		TotalRefunded:       ledger.ZeroMoney(currency),
		FulfillmentRefunded: ledger.ZeroMoney(currency),
		CreatedAt:           time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.SaveOrder(context.Background(), order))
	return order
}

func newTransaction(orderID string) *ledger.TransactionItem {
	now := time.Now().UTC().Truncate(time.Second)
	return &ledger.TransactionItem{
		ID:              uuid.NewString(),
		OrderID:         orderID,
		Status:          "Authorized",
		Kind:            "Credit card",
		PSPReference:    "PSP-123",
		Currency:        "USD",
		AuthorizedValue: ledger.MustParseDecimal("10.55"),
		ChargedValue:    ledger.MustParseDecimal("0"),
		CanceledValue:   ledger.MustParseDecimal("0"),
		RefundedValue:   ledger.MustParseDecimal("0"),
		AvailableActions: []ledger.TransactionAction{
			ledger.ActionCharge, ledger.ActionVoid,
		},
		ExternalURL: "https://psp.example.com/tx/123",
		Metadata:    ledger.Metadata{{Key: "key", Value: "test"}},
		CreatedBy:   ledger.UserActor("user-1"),
		CreatedAt:   now,
		ModifiedAt:  now,
	}
}

// =============================================================================
// ROUND-TRIPS
// =============================================================================

func TestOrderRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	t.Run("save and get preserve decimal text", func(t *testing.T) {
		seedOrder(t, s, "order-1", "USD", "98.40")

		got, err := s.GetOrder(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, "98.4", got.Total.Amount.String())
		assert.Equal(t, "USD", got.Currency)
		assert.True(t, got.TotalCharged.IsZero())
	})

	t.Run("missing order", func(t *testing.T) {
		_, err := s.GetOrder(ctx, "ghost")
		assert.ErrorIs(t, err, ledger.ErrOrderNotFound)
	})

	t.Run("update totals", func(t *testing.T) {
		order := seedOrder(t, s, "order-2", "USD", "100")
		order.TotalCharged = ledger.NewMoney(ledger.MustParseDecimal("42.01"), "USD")
		require.NoError(t, s.UpdateOrderTotals(ctx, order))

		got, err := s.GetOrder(ctx, "order-2")
		require.NoError(t, err)
		assert.Equal(t, "42.01", got.TotalCharged.Amount.String())
	})

	t.Run("update totals on missing order", func(t *testing.T) {
		ghost := &ledger.Order{ID: "ghost", Currency: "USD"}
		ghost.TotalAuthorized = ledger.ZeroMoney("USD")
		ghost.TotalCharged = ledger.ZeroMoney("USD")
		ghost.TotalCanceled = ledger.ZeroMoney("USD")
		ghost.TotalRefunded = ledger.ZeroMoney("USD")

		err := s.UpdateOrderTotals(ctx, ghost)
		assert.ErrorIs(t, err, ledger.ErrOrderNotFound)
	})
}

func TestCheckoutRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	checkout := &ledger.Checkout{
		ID:        "checkout-1",
		Currency:  "EUR",
		Total:     ledger.NewMoney(ledger.MustParseDecimal("33.33"), "EUR"),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.SaveCheckout(ctx, checkout))

	got, err := s.GetCheckout(ctx, "checkout-1")
	require.NoError(t, err)
	assert.Equal(t, "33.33", got.Total.Amount.String())

	_, err = s.GetCheckout(ctx, "ghost")
	assert.ErrorIs(t, err, ledger.ErrCheckoutNotFound)
}

func TestTransactionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedOrder(t, s, "order-1", "USD", "98.40")

	item := newTransaction("order-1")
	require.NoError(t, s.AppendTransaction(ctx, item))

	t.Run("all fields survive the round-trip", func(t *testing.T) {
		got, err := s.GetTransaction(ctx, item.ID)
		require.NoError(t, err)

		assert.Equal(t, item.OrderID, got.OrderID)
		assert.Empty(t, got.CheckoutID)
		assert.Equal(t, item.Status, got.Status)
		assert.Equal(t, item.Kind, got.Kind)
		assert.Equal(t, item.PSPReference, got.PSPReference)
		assert.Equal(t, "10.55", got.AuthorizedValue.String())
		assert.Equal(t, item.AvailableActions, got.AvailableActions)
		assert.Equal(t, item.ExternalURL, got.ExternalURL)
		assert.Equal(t, item.Metadata, got.Metadata)
		assert.Equal(t, item.CreatedBy, got.CreatedBy)
		assert.Equal(t, item.CreatedAt, got.CreatedAt)
	})

	t.Run("listed under the order, oldest first", func(t *testing.T) {
		second := newTransaction("order-1")
		second.CreatedAt = item.CreatedAt.Add(time.Minute)
		require.NoError(t, s.AppendTransaction(ctx, second))

		txs, err := s.TransactionsForOrder(ctx, "order-1")
		require.NoError(t, err)
		require.Len(t, txs, 2)
		assert.Equal(t, item.ID, txs[0].ID)
		assert.Equal(t, second.ID, txs[1].ID)
	})

	t.Run("missing transaction", func(t *testing.T) {
		_, err := s.GetTransaction(ctx, "ghost")
		assert.ErrorIs(t, err, ledger.ErrTransactionNotFound)
	})
}

func TestEventRoundTrips(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedOrder(t, s, "order-1", "USD", "98.40")

	item := newTransaction("order-1")
	require.NoError(t, s.AppendTransaction(ctx, item))

	t.Run("transaction events keep optional amounts", func(t *testing.T) {
		eventAmount := ledger.NewMoney(ledger.MustParseDecimal("12.50"), "USD")
		withAmount := &ledger.TransactionEvent{
			ID:            uuid.NewString(),
			TransactionID: item.ID,
			Status:        ledger.EventSuccess,
			PSPReference:  "PSP-evt-1",
			Message:       "Captured",
			Amount:        &eventAmount,
			CreatedBy:     ledger.AppActor("app-1"),
			CreatedAt:     time.Now().UTC().Truncate(time.Second),
		}
		withoutAmount := &ledger.TransactionEvent{
			ID:            uuid.NewString(),
			TransactionID: item.ID,
			Status:        ledger.EventPending,
			CreatedAt:     withAmount.CreatedAt.Add(time.Second),
		}
		require.NoError(t, s.AppendTransactionEvent(ctx, withAmount))
		require.NoError(t, s.AppendTransactionEvent(ctx, withoutAmount))

		events, err := s.EventsForTransaction(ctx, item.ID)
		require.NoError(t, err)
		require.Len(t, events, 2)

		require.NotNil(t, events[0].Amount)
		assert.Equal(t, "12.5", events[0].Amount.Amount.String())
		assert.Equal(t, "USD", events[0].Amount.Currency)
		assert.Equal(t, ledger.AppActor("app-1"), events[0].CreatedBy)

		assert.Nil(t, events[1].Amount)
	})

	t.Run("order events", func(t *testing.T) {
		event := &ledger.OrderEvent{
			ID:        uuid.NewString(),
			OrderID:   "order-1",
			Type:      ledger.OrderEventTransaction,
			Message:   "Captured",
			Reference: "PSP-evt-1",
			Status:    "success",
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		}
		require.NoError(t, s.RecordOrderEvent(ctx, event))

		events, err := s.OrderEvents(ctx, "order-1")
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, ledger.OrderEventTransaction, events[0].Type)
		assert.Equal(t, "success", events[0].Status)
	})
}

// =============================================================================
// TRANSACTIONAL UNIT OF WORK
// =============================================================================

func TestWithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits the whole unit of work", func(t *testing.T) {
		s := newTestStore(t)
		seedOrder(t, s, "order-1", "USD", "98.40")

		err := s.WithTx(ctx, func(tx ledger.Store) error {
			item := newTransaction("order-1")
			if err := tx.AppendTransaction(ctx, item); err != nil {
				return err
			}
			order, err := tx.GetOrder(ctx, "order-1")
			if err != nil {
				return err
			}
			return ledger.NewAggregator(tx).RecomputeAll(ctx, order)
		})
		require.NoError(t, err)

		order, err := s.GetOrder(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, "10.55", order.TotalAuthorized.Amount.String())
	})

	t.Run("rolls back everything on error", func(t *testing.T) {
		s := newTestStore(t)
		seedOrder(t, s, "order-1", "USD", "98.40")

		err := s.WithTx(ctx, func(tx ledger.Store) error {
			if err := tx.AppendTransaction(ctx, newTransaction("order-1")); err != nil {
				return err
			}
			order, err := tx.GetOrder(ctx, "order-1")
			if err != nil {
				return err
			}
			if err := ledger.NewAggregator(tx).RecomputeAll(ctx, order); err != nil {
				return err
			}
			return assert.AnError
		})
		require.ErrorIs(t, err, assert.AnError)

		// No partial writes observable.
		txs, err := s.TransactionsForOrder(ctx, "order-1")
		require.NoError(t, err)
		assert.Empty(t, txs)

		order, err := s.GetOrder(ctx, "order-1")
		require.NoError(t, err)
		assert.True(t, order.TotalAuthorized.IsZero())
	})
}

// =============================================================================
// SERVICE AGAINST SQLITE
// =============================================================================

func TestCreationServiceOnSQLite(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedOrder(t, s, "order-1", "USD", "98.40")

	svc := ledger.NewService(s)

	_, fieldErrs, err := svc.CreateTransaction(ctx, ledger.OrderRef("order-1"),
		ledger.CreateInput{
			Status: "Charged",
			Kind:   "Credit card",
			AmountAuthorized: &ledger.AmountInput{
				Amount: ledger.MustParseDecimal("15"), Currency: "USD"},
			AmountCharged: &ledger.AmountInput{
				Amount: ledger.MustParseDecimal("10"), Currency: "USD"},
		},
		&ledger.EventInput{Status: ledger.EventSuccess, Message: "Captured"},
		ledger.UserActor("user-1"))
	require.NoError(t, err)
	require.Empty(t, fieldErrs)

	order, err := s.GetOrder(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, "15", order.TotalAuthorized.Amount.String())
	assert.Equal(t, "10", order.TotalCharged.Amount.String())

	events, err := s.OrderEvents(ctx, "order-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "success", events[0].Status)
}
