package app

import (
	"testing"
)

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()
	conn := &fakeConn{}

	canceled := false
	r.Bind("c1", conn, func() { canceled = true })

	if got, ok := r.Get("c1"); !ok || got != conn {
		t.Fatal("bound connection not retrievable")
	}
	if _, ok := r.RoomOf("c1"); ok {
		t.Fatal("fresh connection must have no room binding")
	}

	if !r.SetRoom("c1", "room-a") {
		t.Fatal("SetRoom failed for bound connection")
	}
	if room, ok := r.RoomOf("c1"); !ok || room != "room-a" {
		t.Fatalf("room binding = %q, %v", room, ok)
	}

	r.ClearRoom("c1")
	if _, ok := r.RoomOf("c1"); ok {
		t.Fatal("room binding should be cleared")
	}

	if !r.Cancel("c1") {
		t.Fatal("cancel should find the connection")
	}
	if !canceled {
		t.Fatal("cancel func not invoked")
	}

	r.Unbind("c1")
	if _, ok := r.Get("c1"); ok {
		t.Fatal("unbound connection still retrievable")
	}
	if r.SetRoom("c1", "room-a") {
		t.Fatal("SetRoom must fail for unknown connection")
	}
	if r.Cancel("c1") {
		t.Fatal("cancel must fail for unknown connection")
	}
}

func TestRegistryCancelWithoutFunc(t *testing.T) {
	r := NewRegistry()
	r.Bind("c1", &fakeConn{}, nil)
	if !r.Cancel("c1") {
		t.Fatal("cancel should tolerate a nil cancel func")
	}
}