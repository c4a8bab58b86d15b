package history

import (
	"sync"

	"github.com/dshills/redline/internal/engine/buffer"
)

// History is a bounded stack of applied transactions.
type History struct {
	mu           sync.Mutex
	transactions []Transaction
	maxEntries   int
}

// New creates a history holding at most maxEntries transactions.
// A maxEntries of zero or less means unbounded.
func New(maxEntries int) *History {
	return &History{maxEntries: maxEntries}
}

// Push records a transaction, evicting the oldest one when full.
func (h *History) Push(tx Transaction) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.transactions = append(h.transactions, tx)
	if h.maxEntries > 0 && len(h.transactions) > h.maxEntries {
		h.transactions = h.transactions[len(h.transactions)-h.maxEntries:]
	}
}

// Pop removes and returns the most recent transaction.
func (h *History) Pop() (Transaction, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.transactions) == 0 {
		return Transaction{}, false
	}
	tx := h.transactions[len(h.transactions)-1]
	h.transactions = h.transactions[:len(h.transactions)-1]
	return tx, true
}

// Last returns the most recent transaction without removing it.
func (h *History) Last() (Transaction, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.transactions) == 0 {
		return Transaction{}, false
	}
	return h.transactions[len(h.transactions)-1], true
}

// Len returns the number of recorded transactions.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.transactions)
}

// ByOrigin returns recorded transactions with the given origin, oldest first.
func (h *History) ByOrigin(origin buffer.Origin) []Transaction {
	h.mu.Lock()
	defer h.mu.Unlock()

	var result []Transaction
	for _, tx := range h.transactions {
		if tx.Origin == origin {
			result = append(result, tx)
		}
	}
	return result
}

// Clear removes all transactions.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.transactions = nil
}
