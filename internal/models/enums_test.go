package models

import "testing"

func TestParseDangerColor(t *testing.T) {
	cases := []struct {
		in   string
		want DangerColor
	}{
		{"tension-electrique", ColorTensionElectrique},
		{" HAUTEUR ", ColorHauteur},
		{"air-comprime", ColorAirComprime},
		{"", ColorAutre},
		{"laser", ColorAutre},
	}
	for _, c := range cases {
		if got := ParseDangerColor(c.in); got != c.want {
			t.Fatalf("ParseDangerColor(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDangerColorRGB(t *testing.T) {
	if got := ColorTensionElectrique.RGB(); got != (RGB{234, 179, 8}) {
		t.Fatalf("tension-electrique: %v", got)
	}
	if got := DangerColor("inconnu").RGB(); got != (RGB{100, 116, 139}) {
		t.Fatalf("unknown color should fall back to gray: %v", got)
	}
}

func TestParseEquipmentType(t *testing.T) {
	if got := ParseEquipmentType("epi"); got != TypeEPI {
		t.Fatalf("epi: %q", got)
	}
	if got := ParseEquipmentType(" EPC "); got != TypeEPC {
		t.Fatalf("epc: %q", got)
	}
	if got := ParseEquipmentType("autre chose"); got != TypePersonnalise {
		t.Fatalf("fallback: %q", got)
	}
}

func TestParseEquipmentCategoryAccentInsensitive(t *testing.T) {
	cases := []struct {
		in   string
		want EquipmentCategory
	}{
		{"électrique", CategorieElectrique},
		{"electrique", CategorieElectrique},
		{"ELECTRIQUE", CategorieElectrique},
		{"Mécanique", CategorieMecanique},
		{"mecanique", CategorieMecanique},
		{"commun", CategorieCommun},
		{"", CategoriePersonnalise},
		{"divers", CategoriePersonnalise},
	}
	for _, c := range cases {
		if got := ParseEquipmentCategory(c.in); got != c.want {
			t.Fatalf("ParseEquipmentCategory(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
