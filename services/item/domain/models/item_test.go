package models

import "testing"

func TestItem_LineTotal(t *testing.T) {
	tests := []struct {
		price    float64
		quantity int
		want     float64
	}{
		{10, 2, 20},
		{2.5, 4, 10},
		{99.99, 0, 0},
		{0, 7, 0},
	}
	for _, tt := range tests {
		item := &Item{Price: tt.price, Quantity: tt.quantity}
		if got := item.LineTotal(); got != tt.want {
			t.Errorf("LineTotal(%v x %d) = %v, want %v", tt.price, tt.quantity, got, tt.want)
		}
	}
}

func TestPatch_IsEmpty(t *testing.T) {
	if !(Patch{}).IsEmpty() {
		t.Fatal("zero Patch must be empty")
	}
	zero := 0
	if (Patch{Quantity: &zero}).IsEmpty() {
		t.Fatal("patch with explicit zero quantity must not be empty")
	}
}
