package ident

import (
	"errors"
	"testing"
)

func TestRoundTripEncodeDecode(t *testing.T) {
	kinds := []Kind{KindLayer, KindMasterPin, KindBlockage, KindMasterCell, KindCell, KindNet}
	for _, k := range kinds {
		for id := 0; id < 5; id++ {
			name := Encode(k, id)
			got, err := Decode(k, name)
			if err != nil {
				t.Fatalf("Decode(%q) error: %v", name, err)
			}
			if got != id {
				t.Errorf("Decode(Encode(%d)) = %d, want %d", id, got, id)
			}
		}
	}
}

func TestDecodeKnownNames(t *testing.T) {
	tests := []struct {
		kind Kind
		name string
		want int
	}{
		{KindLayer, "M3", 2},
		{KindMasterCell, "MC7", 6},
		{KindNet, "N142", 141},
		{KindCell, "C1001", 1000},
	}
	for _, tt := range tests {
		got, err := Decode(tt.kind, tt.name)
		if err != nil {
			t.Fatalf("Decode(%q) error: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("Decode(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		kind Kind
		name string
	}{
		{KindLayer, "P3"},     // wrong prefix
		{KindLayer, "M"},      // missing suffix
		{KindLayer, "Mabc"},   // non-numeric suffix
		{KindLayer, "M0"},     // not positive
		{KindLayer, "M-1"},    // negative
		{KindMasterCell, "M7"}, // wrong prefix for two-letter kind
	}
	for _, tt := range tests {
		_, err := Decode(tt.kind, tt.name)
		if !errors.Is(err, ErrMalformedName) {
			t.Errorf("Decode(%q) error = %v, want ErrMalformedName", tt.name, err)
		}
	}
}
