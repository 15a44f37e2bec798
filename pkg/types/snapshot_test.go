package types

import (
	"testing"
)

func TestShippingSnapshotRoundTripThroughDriverValue(t *testing.T) {
	postal := "100001"
	in := &ShippingSnapshot{FullName: "Ada", Address: "1 Marina", City: "Lagos", State: "LA", Country: "Nigeria", PostalCode: &postal}
	value, err := in.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var out ShippingSnapshot
	if err := out.Scan([]byte(value.(string))); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if out.City != "Lagos" || out.PostalCode == nil || *out.PostalCode != postal {
		t.Fatalf("unexpected snapshot %+v", out)
	}
}

func TestSnapshotNilHandling(t *testing.T) {
	var card *CardSnapshot
	value, err := card.Value()
	if err != nil || value != nil {
		t.Fatalf("nil snapshot should store NULL, got %v %v", value, err)
	}

	out := CardSnapshot{LastFour: "4242"}
	if err := out.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if out.LastFour != "" {
		t.Fatalf("scan nil should reset snapshot")
	}
	if err := out.Scan(42); err == nil {
		t.Fatalf("expected unsupported scan type error")
	}
}
