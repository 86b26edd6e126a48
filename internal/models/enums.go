package models

import "strings"

// RGB is a display color for the PDF palette tables.
type RGB struct {
	R, G, B int
}

// DangerColor is the closed set of hazard palette tags. Historical documents
// stored these as free-form strings; unknown tags are parsed to ColorAutre.
type DangerColor string

const (
	ColorTensionElectrique    DangerColor = "tension-electrique"
	ColorAirComprime          DangerColor = "air-comprime"
	ColorPressionHydraulique  DangerColor = "pression-hydraulique"
	ColorInstabiliteMecanique DangerColor = "instabilite-mecanique"
	ColorHauteur              DangerColor = "hauteur"
	ColorAutre                DangerColor = "autre"
)

// RGB values inherited from the printed document's color coding.
var dangerPalette = map[DangerColor]RGB{
	ColorTensionElectrique:    {234, 179, 8},
	ColorAirComprime:          {6, 182, 212},
	ColorPressionHydraulique:  {139, 92, 246},
	ColorInstabiliteMecanique: {249, 115, 22},
	ColorHauteur:              {239, 68, 68},
	ColorAutre:                {100, 116, 139},
}

// Valid reports whether c is one of the palette tags.
func (c DangerColor) Valid() bool {
	_, ok := dangerPalette[c]
	return ok
}

// RGB returns the display color, falling back to the neutral gray.
func (c DangerColor) RGB() RGB {
	if rgb, ok := dangerPalette[c]; ok {
		return rgb
	}
	return dangerPalette[ColorAutre]
}

// ParseDangerColor maps a raw tag to its palette entry, defaulting to autre.
func ParseDangerColor(raw string) DangerColor {
	c := DangerColor(strings.ToLower(strings.TrimSpace(raw)))
	if c.Valid() {
		return c
	}
	return ColorAutre
}

// EquipmentType distingue EPI (individuel), EPC (collectif) et les entrées
// personnalisées saisies librement.
type EquipmentType string

const (
	TypeEPI          EquipmentType = "EPI"
	TypeEPC          EquipmentType = "EPC"
	TypePersonnalise EquipmentType = "Personnalisé"
)

// ParseEquipmentType is case-insensitive; anything unrecognized becomes a
// personalized entry rather than an error.
func ParseEquipmentType(raw string) EquipmentType {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "EPI":
		return TypeEPI
	case "EPC":
		return TypeEPC
	default:
		return TypePersonnalise
	}
}

// EquipmentCategory is the closed set of gear categories.
type EquipmentCategory string

const (
	CategorieElectrique   EquipmentCategory = "électrique"
	CategorieMecanique    EquipmentCategory = "mécanique"
	CategorieCommun       EquipmentCategory = "commun"
	CategoriePersonnalise EquipmentCategory = "personnalisé"
)

var categoryPalette = map[EquipmentCategory]RGB{
	CategorieElectrique:   {234, 179, 8},
	CategorieMecanique:    {146, 64, 14},
	CategorieCommun:       {220, 38, 38},
	CategoriePersonnalise: {99, 102, 241},
}

// RGB returns the display color, falling back to the neutral gray.
func (c EquipmentCategory) RGB() RGB {
	if rgb, ok := categoryPalette[c]; ok {
		return rgb
	}
	return RGB{100, 116, 139}
}

var accentFold = strings.NewReplacer(
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"à", "a", "â", "a",
	"î", "i", "ï", "i",
	"ô", "o", "û", "u", "ù", "u", "ç", "c",
)

// ParseEquipmentCategory accepts both accented and unaccented spellings
// (legacy records carry "electrique" as well as "électrique").
func ParseEquipmentCategory(raw string) EquipmentCategory {
	switch accentFold.Replace(strings.ToLower(strings.TrimSpace(raw))) {
	case "electrique":
		return CategorieElectrique
	case "mecanique":
		return CategorieMecanique
	case "commun":
		return CategorieCommun
	default:
		return CategoriePersonnalise
	}
}
