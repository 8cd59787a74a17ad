package event

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDispatcherDeliversToAllSubscribers(t *testing.T) {
	dispatcher := NewDispatcher()
	var first, second []string
	dispatcher.Subscribe(func(evt TransferCompleted) {
		first = append(first, evt.TransferID)
	})
	dispatcher.Subscribe(func(evt TransferCompleted) {
		second = append(second, evt.TransferID)
	})

	dispatcher.TransferCompleted(TransferCompleted{
		TransferID:  "tr-1",
		Amount:      decimal.RequireFromString("100.00"),
		Currency:    "USD",
		CompletedAt: time.Now(),
	})

	if len(first) != 1 || first[0] != "tr-1" {
		t.Fatalf("first subscriber missed event: %#v", first)
	}
	if len(second) != 1 || second[0] != "tr-1" {
		t.Fatalf("second subscriber missed event: %#v", second)
	}
}

func TestDispatcherSurvivesPanickingSubscriber(t *testing.T) {
	dispatcher := NewDispatcher()
	delivered := false
	dispatcher.Subscribe(func(TransferCompleted) {
		panic("subscriber bug")
	})
	dispatcher.Subscribe(func(TransferCompleted) {
		delivered = true
	})

	dispatcher.TransferCompleted(TransferCompleted{TransferID: "tr-1"})

	if !delivered {
		t.Fatalf("expected delivery to continue past panicking subscriber")
	}
}

func TestDispatcherWithNoSubscribers(t *testing.T) {
	dispatcher := NewDispatcher()
	dispatcher.TransferCompleted(TransferCompleted{TransferID: "tr-1"})
}
