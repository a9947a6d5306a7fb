package core

import "testing"

func TestTupleFull(t *testing.T) {
	full := Tuple{
		{Timestamp: 100, Message: "a"},
		{Timestamp: 100, Message: "b"},
	}
	if !full.Full() {
		t.Error("Full() = false for a tuple with every slot set, want true")
	}

	partial := Tuple{
		{Timestamp: 100, Message: "a"},
		UnsetEvent,
	}
	if partial.Full() {
		t.Error("Full() = true for a tuple with an unset slot, want false")
	}

	empty := NewTuple(3)
	if empty.Full() {
		t.Error("Full() = true for a freshly allocated tuple, want false")
	}
}

func TestTupleClone(t *testing.T) {
	original := Tuple{{Timestamp: 100, Message: "a"}}
	clone := original.Clone()

	clone[0].Message = "mutated"

	if original[0].Message != "a" {
		t.Errorf("mutating the clone affected the original: got %v", original[0].Message)
	}
}
