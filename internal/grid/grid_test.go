package grid

import "testing"

func TestMapDefaultSupply(t *testing.T) {
	m := New(2, 2, 5)

	v, ok := m.At(0, 0)
	if !ok || v != 5 {
		t.Fatalf("At(0,0) = (%d, %v), want (5, true)", v, ok)
	}
}

func TestMapOutOfBounds(t *testing.T) {
	m := New(2, 2, 5)

	if _, ok := m.At(2, 0); ok {
		t.Error("At(2,0) should be out of bounds")
	}
	if _, ok := m.At(0, -1); ok {
		t.Error("At(0,-1) should be out of bounds")
	}
}

func TestMapAddDelta(t *testing.T) {
	m := New(2, 2, 5)

	v, ok := m.Add(0, 0, -3)
	if !ok || v != 2 {
		t.Fatalf("Add(0,0,-3) = (%d, %v), want (2, true)", v, ok)
	}

	other, _ := m.At(1, 1)
	if other != 5 {
		t.Errorf("untouched cell = %d, want 5 (default)", other)
	}
}

func TestMapAddCheckedReportsNegativeSum(t *testing.T) {
	m := New(1, 1, 5)

	sum, ok := m.AddChecked(0, 0, -10)
	if !ok {
		t.Fatal("AddChecked should succeed in-bounds")
	}
	if sum >= 0 {
		t.Fatalf("sum = %d, want negative (caller should reject this load)", sum)
	}
}
