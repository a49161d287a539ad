package resource

import "testing"

func TestRegisterGetDelete(t *testing.T) {
	r := New()
	closed := false
	h := r.Register("file", "handle-data", func(interface{}) { closed = true })

	typeID, ptr, ok := r.Get(h)
	if !ok || typeID != "file" || ptr != "handle-data" {
		t.Fatalf("Get(%d) = %q, %v, %v", h, typeID, ptr, ok)
	}
	if err := r.Delete(h); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !closed {
		t.Fatal("Delete should have run the destructor")
	}
	if _, _, ok := r.Get(h); ok {
		t.Fatal("deleted handle should no longer resolve")
	}
}

func TestHandlesAreMonotonicallyAssigned(t *testing.T) {
	r := New()
	a := r.Register("a", nil, nil)
	b := r.Register("b", nil, nil)
	if b <= a {
		t.Fatalf("handles should be strictly increasing: a=%d b=%d", a, b)
	}
}

func TestShutdownDestroysInReverseOrder(t *testing.T) {
	r := New()
	var order []string
	r.Register("first", nil, func(interface{}) { order = append(order, "first") })
	r.Register("second", nil, func(interface{}) { order = append(order, "second") })
	r.Register("third", nil, func(interface{}) { order = append(order, "third") })

	r.Shutdown()

	want := []string{"third", "second", "first"}
	if len(order) != len(want) {
		t.Fatalf("destroyed %d resources, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("destruction order = %v, want %v", order, want)
		}
	}
	if r.Len() != 0 {
		t.Fatalf("Len() after Shutdown = %d, want 0", r.Len())
	}
}

func TestDeleteUnknownHandleErrors(t *testing.T) {
	r := New()
	if err := r.Delete(999); err == nil {
		t.Fatal("expected an error deleting an unregistered handle")
	}
}
