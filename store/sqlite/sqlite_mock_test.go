package sqlite_test

// Driver-level tests pinning the exact SQL the store issues, using
// sqlmock instead of a live database.

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payment-ledger/ledger"
	"github.com/warp/payment-ledger/store/sqlite"
)

func mockOrder() *ledger.Order {
	o := &ledger.Order{ID: "order-1", Currency: "USD"}
	o.Total = ledger.NewMoney(ledger.MustParseDecimal("98.40"), "USD")
	o.TotalAuthorized = ledger.NewMoney(ledger.MustParseDecimal("25"), "USD")
	o.TotalCharged = ledger.NewMoney(ledger.MustParseDecimal("15"), "USD")
	o.TotalCanceled = ledger.ZeroMoney("USD")
	o.TotalRefunded = ledger.NewMoney(ledger.MustParseDecimal("19"), "USD")
	return o
}

func TestUpdateOrderTotalsSQL(t *testing.T) {
	ctx := context.Background()

	t.Run("writes exactly the four aggregate columns", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		s := sqlite.NewWithDB(db)

		mock.ExpectExec("UPDATE orders").
			WithArgs("25", "15", "0", "19", "order-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.UpdateOrderTotals(ctx, mockOrder()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows affected means the order is missing", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		s := sqlite.NewWithDB(db)

		mock.ExpectExec("UPDATE orders").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = s.UpdateOrderTotals(ctx, mockOrder())
		assert.ErrorIs(t, err, ledger.ErrOrderNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := sqlite.NewWithDB(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err = s.WithTx(context.Background(), func(tx ledger.Store) error {
		if err := tx.UpdateOrderTotals(context.Background(), mockOrder()); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxCommitsOnSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	s := sqlite.NewWithDB(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = s.WithTx(context.Background(), func(tx ledger.Store) error {
		return tx.UpdateOrderTotals(context.Background(), mockOrder())
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
