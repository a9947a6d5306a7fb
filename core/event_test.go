package core

import "testing"

func TestEventUnset(t *testing.T) {
	if !UnsetEvent.Unset() {
		t.Error("UnsetEvent.Unset() = false, want true")
	}
	if (Event{}).Unset() == false {
		t.Error("zero-value Event.Unset() = false, want true")
	}
	set := Event{Timestamp: 100, Message: "payload"}
	if set.Unset() {
		t.Error("Event with a Message.Unset() = true, want false")
	}
	// A zero Message of a non-nil concrete type is not the sentinel.
	zeroInt := Event{Timestamp: 100, Message: 0}
	if zeroInt.Unset() {
		t.Error("Event{Message: 0}.Unset() = true, want false")
	}
}
