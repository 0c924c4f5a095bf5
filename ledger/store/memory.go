// Package store provides Store implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/payment-ledger/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu sync.RWMutex

	orders    map[string]*ledger.Order
	checkouts map[string]*ledger.Checkout

	// Append-only slices keep creation order.
	transactions []*ledger.TransactionItem
	txEvents     map[string][]*ledger.TransactionEvent
	orderEvents  map[string][]*ledger.OrderEvent
}

func NewMemory() *Memory {
	return &Memory{
		orders:      make(map[string]*ledger.Order),
		checkouts:   make(map[string]*ledger.Checkout),
		txEvents:    make(map[string][]*ledger.TransactionEvent),
		orderEvents: make(map[string][]*ledger.OrderEvent),
	}
}

// =============================================================================
// ORDERS / CHECKOUTS
// =============================================================================

func (m *Memory) GetOrder(_ context.Context, id string) (*ledger.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getOrderLocked(id)
}

func (m *Memory) getOrderLocked(id string) (*ledger.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, ledger.ErrOrderNotFound
	}
	cp := *order
	return &cp, nil
}

func (m *Memory) SaveOrder(_ context.Context, order *ledger.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveOrderLocked(order)
}

func (m *Memory) saveOrderLocked(order *ledger.Order) error {
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *Memory) UpdateOrderTotals(_ context.Context, order *ledger.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateOrderTotalsLocked(order)
}

func (m *Memory) updateOrderTotalsLocked(order *ledger.Order) error {
	existing, ok := m.orders[order.ID]
	if !ok {
		return ledger.ErrOrderNotFound
	}
	existing.TotalAuthorized = order.TotalAuthorized
	existing.TotalCharged = order.TotalCharged
	existing.TotalCanceled = order.TotalCanceled
	existing.TotalRefunded = order.TotalRefunded
	return nil
}

func (m *Memory) GetCheckout(_ context.Context, id string) (*ledger.Checkout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getCheckoutLocked(id)
}

func (m *Memory) getCheckoutLocked(id string) (*ledger.Checkout, error) {
	checkout, ok := m.checkouts[id]
	if !ok {
		return nil, ledger.ErrCheckoutNotFound
	}
	cp := *checkout
	return &cp, nil
}

func (m *Memory) SaveCheckout(_ context.Context, checkout *ledger.Checkout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *checkout
	m.checkouts[checkout.ID] = &cp
	return nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func (m *Memory) AppendTransaction(_ context.Context, item *ledger.TransactionItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appendTransactionLocked(item)
}

func (m *Memory) appendTransactionLocked(item *ledger.TransactionItem) error {
	cp := *item
	m.transactions = append(m.transactions, &cp)
	return nil
}

func (m *Memory) GetTransaction(_ context.Context, id string) (*ledger.TransactionItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getTransactionLocked(id)
}

func (m *Memory) getTransactionLocked(id string) (*ledger.TransactionItem, error) {
	for _, t := range m.transactions {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, ledger.ErrTransactionNotFound
}

func (m *Memory) TransactionsForOrder(_ context.Context, orderID string) ([]*ledger.TransactionItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.transactionsForOrderLocked(orderID), nil
}

func (m *Memory) transactionsForOrderLocked(orderID string) []*ledger.TransactionItem {
	var result []*ledger.TransactionItem
	for _, t := range m.transactions {
		if t.OrderID == orderID {
			cp := *t
			result = append(result, &cp)
		}
	}
	return result
}

func (m *Memory) TransactionsForCheckout(_ context.Context, checkoutID string) ([]*ledger.TransactionItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*ledger.TransactionItem
	for _, t := range m.transactions {
		if t.CheckoutID == checkoutID {
			cp := *t
			result = append(result, &cp)
		}
	}
	return result, nil
}

// =============================================================================
// EVENTS
// =============================================================================

func (m *Memory) AppendTransactionEvent(_ context.Context, event *ledger.TransactionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appendTransactionEventLocked(event)
}

func (m *Memory) appendTransactionEventLocked(event *ledger.TransactionEvent) error {
	cp := *event
	m.txEvents[event.TransactionID] = append(m.txEvents[event.TransactionID], &cp)
	return nil
}

func (m *Memory) EventsForTransaction(_ context.Context, transactionID string) ([]*ledger.TransactionEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := m.txEvents[transactionID]
	result := make([]*ledger.TransactionEvent, len(events))
	for i, e := range events {
		cp := *e
		result[i] = &cp
	}
	return result, nil
}

func (m *Memory) RecordOrderEvent(_ context.Context, event *ledger.OrderEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recordOrderEventLocked(event)
}

func (m *Memory) recordOrderEventLocked(event *ledger.OrderEvent) error {
	cp := *event
	m.orderEvents[event.OrderID] = append(m.orderEvents[event.OrderID], &cp)
	return nil
}

func (m *Memory) OrderEvents(_ context.Context, orderID string) ([]*ledger.OrderEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := m.orderEvents[orderID]
	result := make([]*ledger.OrderEvent, len(events))
	for i, e := range events {
		cp := *e
		result[i] = &cp
	}
	return result, nil
}

// =============================================================================
// TRANSACTIONAL MEMORY STORE
// =============================================================================

// TxMemory wraps Memory with an atomic unit of work. The store-wide
// lock held for the duration of fn is what serializes concurrent
// recomputes against the same order.
type TxMemory struct {
	*Memory
}

func NewTxMemory() *TxMemory {
	return &TxMemory{Memory: NewMemory()}
}

// WithTx executes fn atomically. For the memory store this is a
// snapshot plus rollback on error.
func (tm *TxMemory) WithTx(ctx context.Context, fn func(ledger.Store) error) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	snapshot := tm.snapshot()

	if err := fn(&txMemoryView{parent: tm}); err != nil {
		tm.restore(snapshot)
		return err
	}
	return nil
}

type memorySnapshot struct {
	orders       map[string]*ledger.Order
	checkouts    map[string]*ledger.Checkout
	transactions []*ledger.TransactionItem
	txEvents     map[string][]*ledger.TransactionEvent
	orderEvents  map[string][]*ledger.OrderEvent
}

func (tm *TxMemory) snapshot() memorySnapshot {
	s := memorySnapshot{
		orders:       make(map[string]*ledger.Order, len(tm.orders)),
		checkouts:    make(map[string]*ledger.Checkout, len(tm.checkouts)),
		transactions: append([]*ledger.TransactionItem{}, tm.transactions...),
		txEvents:     make(map[string][]*ledger.TransactionEvent, len(tm.txEvents)),
		orderEvents:  make(map[string][]*ledger.OrderEvent, len(tm.orderEvents)),
	}
	for k, v := range tm.orders {
		cp := *v
		s.orders[k] = &cp
	}
	for k, v := range tm.checkouts {
		cp := *v
		s.checkouts[k] = &cp
	}
	for k, v := range tm.txEvents {
		s.txEvents[k] = append([]*ledger.TransactionEvent{}, v...)
	}
	for k, v := range tm.orderEvents {
		s.orderEvents[k] = append([]*ledger.OrderEvent{}, v...)
	}
	return s
}

func (tm *TxMemory) restore(s memorySnapshot) {
	tm.orders = s.orders
	tm.checkouts = s.checkouts
	tm.transactions = s.transactions
	tm.txEvents = s.txEvents
	tm.orderEvents = s.orderEvents
}

// txMemoryView gives fn access to the already-locked parent.
type txMemoryView struct {
	parent *TxMemory
}

func (tv *txMemoryView) GetOrder(_ context.Context, id string) (*ledger.Order, error) {
	return tv.parent.getOrderLocked(id)
}

func (tv *txMemoryView) SaveOrder(_ context.Context, order *ledger.Order) error {
	return tv.parent.saveOrderLocked(order)
}

func (tv *txMemoryView) UpdateOrderTotals(_ context.Context, order *ledger.Order) error {
	return tv.parent.updateOrderTotalsLocked(order)
}

func (tv *txMemoryView) GetCheckout(_ context.Context, id string) (*ledger.Checkout, error) {
	return tv.parent.getCheckoutLocked(id)
}

func (tv *txMemoryView) SaveCheckout(_ context.Context, checkout *ledger.Checkout) error {
	cp := *checkout
	tv.parent.checkouts[checkout.ID] = &cp
	return nil
}

func (tv *txMemoryView) AppendTransaction(_ context.Context, item *ledger.TransactionItem) error {
	return tv.parent.appendTransactionLocked(item)
}

func (tv *txMemoryView) GetTransaction(_ context.Context, id string) (*ledger.TransactionItem, error) {
	return tv.parent.getTransactionLocked(id)
}

func (tv *txMemoryView) TransactionsForOrder(_ context.Context, orderID string) ([]*ledger.TransactionItem, error) {
	return tv.parent.transactionsForOrderLocked(orderID), nil
}

func (tv *txMemoryView) TransactionsForCheckout(_ context.Context, checkoutID string) ([]*ledger.TransactionItem, error) {
	var result []*ledger.TransactionItem
	for _, t := range tv.parent.transactions {
		if t.CheckoutID == checkoutID {
			cp := *t
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (tv *txMemoryView) AppendTransactionEvent(_ context.Context, event *ledger.TransactionEvent) error {
	return tv.parent.appendTransactionEventLocked(event)
}

func (tv *txMemoryView) EventsForTransaction(_ context.Context, transactionID string) ([]*ledger.TransactionEvent, error) {
	events := tv.parent.txEvents[transactionID]
	result := make([]*ledger.TransactionEvent, len(events))
	for i, e := range events {
		cp := *e
		result[i] = &cp
	}
	return result, nil
}

func (tv *txMemoryView) RecordOrderEvent(_ context.Context, event *ledger.OrderEvent) error {
	return tv.parent.recordOrderEventLocked(event)
}

func (tv *txMemoryView) OrderEvents(_ context.Context, orderID string) ([]*ledger.OrderEvent, error) {
	events := tv.parent.orderEvents[orderID]
	result := make([]*ledger.OrderEvent, len(events))
	for i, e := range events {
		cp := *e
		result[i] = &cp
	}
	return result, nil
}
