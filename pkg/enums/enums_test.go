package enums

import "testing"

func TestOrderStatusExclusionIsClosedList(t *testing.T) {
	excluded := []OrderStatus{OrderStatusCanceled, OrderStatusUnavailable}
	for _, status := range excluded {
		if !status.IsExcluded() {
			t.Fatalf("expected %s to be excluded", status)
		}
	}

	kept := []OrderStatus{
		OrderStatusDelivered,
		OrderStatusShipped,
		OrderStatusInvoiced,
		OrderStatus("returned_to_sender"),
		OrderStatus("Canceled"),
		OrderStatus(""),
	}
	for _, status := range kept {
		if status.IsExcluded() {
			t.Fatalf("expected %q to be kept", status)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	got, err := ParseOrderStatus("delivered")
	if err != nil || got != OrderStatusDelivered {
		t.Fatalf("expected delivered, got %q err=%v", got, err)
	}
	if _, err := ParseOrderStatus("lost"); err == nil {
		t.Fatal("expected error for unknown status")
	}
	if OrderStatus("lost").IsKnown() {
		t.Fatal("lost should not be a known status")
	}
}

func TestParseDimension(t *testing.T) {
	cases := map[string]Dimension{
		"":          DimensionOverall,
		"overall":   DimensionOverall,
		" Category": DimensionCategory,
		"STATE":     DimensionState,
		"city":      DimensionCity,
	}
	for raw, want := range cases {
		got, err := ParseDimension(raw)
		if err != nil {
			t.Fatalf("ParseDimension(%q) unexpected error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseDimension(%q) = %q, want %q", raw, got, want)
		}
	}
	if _, err := ParseDimension("zip"); err == nil {
		t.Fatal("expected error for unknown dimension")
	}
	if DimensionOverall.RequiresValue() {
		t.Fatal("overall should not require a value")
	}
	if !DimensionCity.RequiresValue() {
		t.Fatal("city should require a value")
	}
}

func TestParseView(t *testing.T) {
	if v, err := ParseView("GMV"); err != nil || v != ViewGMV {
		t.Fatalf("expected gmv view, got %q err=%v", v, err)
	}
	if _, err := ParseView(""); err == nil {
		t.Fatal("empty view should be rejected")
	}
	if View("orders").IsValid() {
		t.Fatal("orders is not a view")
	}
}
