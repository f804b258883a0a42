package address

import "testing"

func TestFromNodeAddressRange(t *testing.T) {
	for n := 0; n <= 127; n++ {
		a, err := FromNodeAddress(uint8(n))
		if err != nil {
			t.Fatalf("node %d: unexpected error: %v", n, err)
		}
		if got := a.UnitAddress(); got != uint8(n+65) {
			t.Errorf("node %d: unit address = %d, want %d", n, got, n+65)
		}
	}

	for _, n := range []int{128, 200, 255} {
		if _, err := FromNodeAddress(uint8(n)); err == nil {
			t.Errorf("node %d: expected error, got none", n)
		}
	}
}

func TestFromUnitAddressRange(t *testing.T) {
	for u := 65; u <= 192; u++ {
		a, err := FromUnitAddress(uint8(u))
		if err != nil {
			t.Fatalf("unit %d: unexpected error: %v", u, err)
		}
		if got := a.NodeAddress(); got != uint8(u-65) {
			t.Errorf("unit %d: node address = %d, want %d", u, got, u-65)
		}
	}

	for _, u := range []int{0, 64, 193, 255} {
		if _, err := FromUnitAddress(uint8(u)); err == nil {
			t.Errorf("unit %d: expected error, got none", u)
		}
	}
}

func TestInvalidNodeAddressError(t *testing.T) {
	_, err := FromNodeAddress(200)
	var target InvalidNodeAddressError
	if !asError(err, &target) {
		t.Fatalf("expected InvalidNodeAddressError, got %T", err)
	}
	if target.Value != 200 {
		t.Errorf("Value = %d, want 200", target.Value)
	}
}

func asError(err error, target *InvalidNodeAddressError) bool {
	e, ok := err.(InvalidNodeAddressError)
	if !ok {
		return false
	}
	*target = e
	return true
}
