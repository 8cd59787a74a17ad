// Package event carries completed-transfer facts from the transfer engine
// to downstream consumers. Delivery is best-effort: a subscriber can never
// unwind a committed transfer.
package event

import (
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type TransferCompleted struct {
	TransferID    string
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Currency      string
	CompletedAt   time.Time
}

type Dispatcher struct {
	mu          sync.RWMutex
	subscribers []func(TransferCompleted)
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

func (d *Dispatcher) Subscribe(fn func(TransferCompleted)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers = append(d.subscribers, fn)
}

// TransferCompleted delivers evt to every subscriber. A panicking
// subscriber is logged and skipped so the remaining subscribers still run.
func (d *Dispatcher) TransferCompleted(evt TransferCompleted) {
	d.mu.RLock()
	subscribers := make([]func(TransferCompleted), len(d.subscribers))
	copy(subscribers, d.subscribers)
	d.mu.RUnlock()
	for _, fn := range subscribers {
		deliver(fn, evt)
	}
}

func deliver(fn func(TransferCompleted), evt TransferCompleted) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("transfer event subscriber panicked: %v", r)
		}
	}()
	fn(evt)
}

// LogCompleted is the audit-trail subscriber: one line per completed
// transfer.
func LogCompleted(evt TransferCompleted) {
	log.Printf("transfer completed id=%s from=%s to=%s amount=%s currency=%s completed_at=%s",
		evt.TransferID, evt.FromAccountID, evt.ToAccountID,
		evt.Amount.StringFixed(2), evt.Currency, evt.CompletedAt.Format(time.RFC3339))
}
