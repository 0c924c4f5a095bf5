package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payment-ledger/ledger"
	"github.com/warp/payment-ledger/ledger/store"
)

func appendRawTransaction(t *testing.T, s ledger.Store, orderID, authorized, charged string) {
	t.Helper()
	item := &ledger.TransactionItem{
		ID:              "raw-" + authorized + "-" + charged,
		OrderID:         orderID,
		Currency:        "USD",
		AuthorizedValue: ledger.MustParseDecimal(authorized),
		ChargedValue:    ledger.MustParseDecimal(charged),
		CreatedAt:       time.Now().UTC(),
		ModifiedAt:      time.Now().UTC(),
	}
	require.NoError(t, s.AppendTransaction(context.Background(), item))
}

func TestRecomputeAll(t *testing.T) {
	ctx := context.Background()

	t.Run("overwrites stale cached totals", func(t *testing.T) {
		mem := store.NewTxMemory()
		order := seedOrder(t, mem, "order-1", "USD", "98.40")

		// GIVEN a cache poisoned out-of-band
		order.TotalCharged = ledger.NewMoney(ledger.MustParseDecimal("999"), "USD")
		require.NoError(t, mem.UpdateOrderTotals(ctx, order))

		appendRawTransaction(t, mem, "order-1", "10", "4")
		appendRawTransaction(t, mem, "order-1", "5", "6")

		// WHEN recomputed
		require.NoError(t, ledger.NewAggregator(mem).RecomputeAll(ctx, order))

		// THEN the cache matches the transaction set exactly
		stored, err := mem.GetOrder(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, "15", stored.TotalAuthorized.Amount.String())
		assert.Equal(t, "10", stored.TotalCharged.Amount.String())
	})

	t.Run("idempotent", func(t *testing.T) {
		mem := store.NewTxMemory()
		order := seedOrder(t, mem, "order-1", "USD", "98.40")
		appendRawTransaction(t, mem, "order-1", "10", "4")

		agg := ledger.NewAggregator(mem)
		for i := 0; i < 3; i++ {
			require.NoError(t, agg.RecomputeAll(ctx, order))
		}

		stored, err := mem.GetOrder(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, "10", stored.TotalAuthorized.Amount.String())
		assert.Equal(t, "4", stored.TotalCharged.Amount.String())
	})

	t.Run("empty transaction set zeroes the totals", func(t *testing.T) {
		mem := store.NewTxMemory()
		order := seedOrder(t, mem, "order-1", "USD", "98.40")
		order.TotalAuthorized = ledger.NewMoney(ledger.MustParseDecimal("50"), "USD")
		require.NoError(t, mem.UpdateOrderTotals(ctx, order))

		require.NoError(t, ledger.NewAggregator(mem).RecomputeAll(ctx, order))

		stored, err := mem.GetOrder(ctx, "order-1")
		require.NoError(t, err)
		assert.True(t, stored.TotalAuthorized.IsZero())
		assert.True(t, stored.TotalCharged.IsZero())
		assert.True(t, stored.TotalCanceled.IsZero())
		assert.True(t, stored.TotalRefunded.IsZero())
	})

	t.Run("unknown order fails", func(t *testing.T) {
		mem := store.NewTxMemory()
		ghost := &ledger.Order{ID: "ghost", Currency: "USD"}

		err := ledger.NewAggregator(mem).RecomputeAll(ctx, ghost)
		assert.ErrorIs(t, err, ledger.ErrOrderNotFound)
	})
}

func TestRecomputeSingleAccumulators(t *testing.T) {
	ctx := context.Background()

	mem := store.NewTxMemory()
	order := seedOrder(t, mem, "order-1", "USD", "98.40")
	appendRawTransaction(t, mem, "order-1", "12", "7")
	appendRawTransaction(t, mem, "order-1", "3", "1")

	agg := ledger.NewAggregator(mem)

	t.Run("authorized only", func(t *testing.T) {
		require.NoError(t, agg.RecomputeAuthorized(ctx, order))

		stored, err := mem.GetOrder(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, "15", stored.TotalAuthorized.Amount.String())
	})

	t.Run("charged only", func(t *testing.T) {
		require.NoError(t, agg.RecomputeCharged(ctx, order))

		stored, err := mem.GetOrder(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, "8", stored.TotalCharged.Amount.String())
	})
}

func TestSingleAccumulatorRecomputePreservesOtherTotals(t *testing.T) {
	ctx := context.Background()

	t.Run("stale snapshot cannot regress charged via authorized recompute", func(t *testing.T) {
		mem := store.NewTxMemory()
		svc := ledger.NewService(mem)

		// GIVEN an order snapshot read before any activity
		stale := seedOrder(t, mem, "order-1", "USD", "98.40")

		// AND a charge landing through the service afterwards
		_, _, err := svc.CreateTransaction(ctx, ledger.OrderRef("order-1"),
			ledger.CreateInput{AmountCharged: amount(t, "5", "USD")}, nil, ledger.Actor{})
		require.NoError(t, err)

		// WHEN only the authorized total is recomputed off the stale snapshot
		require.NoError(t, ledger.NewAggregator(mem).RecomputeAuthorized(ctx, stale))

		// THEN the charged total still matches the transaction set
		order, err := mem.GetOrder(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, "5", order.TotalCharged.Amount.String())
		assert.True(t, order.TotalAuthorized.IsZero())
	})

	t.Run("stale snapshot cannot regress authorized via charged recompute", func(t *testing.T) {
		mem := store.NewTxMemory()
		svc := ledger.NewService(mem)

		stale := seedOrder(t, mem, "order-1", "USD", "98.40")

		_, _, err := svc.CreateTransaction(ctx, ledger.OrderRef("order-1"),
			ledger.CreateInput{
				AmountAuthorized: amount(t, "7", "USD"),
				AmountRefunded:   amount(t, "3", "USD"),
			}, nil, ledger.Actor{})
		require.NoError(t, err)

		require.NoError(t, ledger.NewAggregator(mem).RecomputeCharged(ctx, stale))

		order, err := mem.GetOrder(ctx, "order-1")
		require.NoError(t, err)
		assert.Equal(t, "7", order.TotalAuthorized.Amount.String())
		assert.Equal(t, "3", order.TotalRefunded.Amount.String())
		assert.True(t, order.TotalCharged.IsZero())
	})
}

func TestRecomputeSelfHeals(t *testing.T) {
	ctx := context.Background()

	// GIVEN an order whose totals were computed through the service
	mem := store.NewTxMemory()
	svc := ledger.NewService(mem)
	seedOrder(t, mem, "order-1", "USD", "98.40")

	_, _, err := svc.CreateTransaction(ctx, ledger.OrderRef("order-1"),
		ledger.CreateInput{AmountCharged: amount(t, "10", "USD")}, nil, ledger.Actor{})
	require.NoError(t, err)

	// WHEN a transaction lands out-of-band, bypassing the service
	appendRawTransaction(t, mem, "order-1", "0", "7")

	order, err := mem.GetOrder(ctx, "order-1")
	require.NoError(t, err)
	require.Equal(t, "10", order.TotalCharged.Amount.String(), "cache is stale before recompute")

	// THEN one recompute absorbs it
	require.NoError(t, ledger.NewAggregator(mem).RecomputeAll(ctx, order))

	order, err = mem.GetOrder(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, "17", order.TotalCharged.Amount.String())
}

func TestWithTxRollsBackPartialWrites(t *testing.T) {
	ctx := context.Background()

	mem := store.NewTxMemory()
	seedOrder(t, mem, "order-1", "USD", "98.40")

	boom := assert.AnError
	err := mem.WithTx(ctx, func(tx ledger.Store) error {
		appendRawTransaction(t, tx, "order-1", "10", "10")
		order, err := tx.GetOrder(ctx, "order-1")
		require.NoError(t, err)
		require.NoError(t, ledger.NewAggregator(tx).RecomputeAll(ctx, order))
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Nothing from the failed unit of work is observable.
	txs, err := mem.TransactionsForOrder(ctx, "order-1")
	require.NoError(t, err)
	assert.Empty(t, txs)

	order, err := mem.GetOrder(ctx, "order-1")
	require.NoError(t, err)
	assert.True(t, order.TotalCharged.IsZero())
}
