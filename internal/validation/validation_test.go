package validation

import "testing"

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"5", 5},
		{" 12 ", 12},
		{"1", 1},
		{"0", 1},
		{"-3", 1},
		{"abc", 1},
		{"", 1},
		{"2.5", 1},
	}
	for _, c := range cases {
		if got := ParseQuantity(c.raw); got != c.want {
			t.Fatalf("ParseQuantity(%q) = %d, want %d", c.raw, got, c.want)
		}
	}
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"5.50", 5.5},
		{" 0 ", 0},
		{"12", 12},
		{"-1", 0},
		{"abc", 0},
		{"", 0},
	}
	for _, c := range cases {
		if got := ParsePrice(c.raw); got != c.want {
			t.Fatalf("ParsePrice(%q) = %v, want %v", c.raw, got, c.want)
		}
	}
}

func TestRequired(t *testing.T) {
	v := Violations{}
	Required("designation", "  ", v)
	Required("titre", "Consignation", v)
	if v.Empty() {
		t.Fatalf("expected a violation")
	}
	if _, ok := v["designation"]; !ok {
		t.Fatalf("designation not flagged: %#v", v)
	}
	if _, ok := v["titre"]; ok {
		t.Fatalf("titre wrongly flagged: %#v", v)
	}
}
