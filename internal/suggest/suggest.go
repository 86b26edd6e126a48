// Package suggest fournit les catalogues statiques d'autocomplétion
// (dangers, EPI/EPC) et leur recherche par sous-chaîne.
package suggest

import (
	"strings"

	"github.com/diewo77/consignation-app/internal/models"
)

// Queries shorter than this return nothing, suppressing noisy popups.
const minQueryLen = 2

// DangerSuggestion is one hazard catalog entry. RequiresValue marks hazards
// carrying a measured magnitude, with its display unit.
type DangerSuggestion struct {
	Name          string             `json:"name"`
	Color         models.DangerColor `json:"color"`
	RequiresValue bool               `json:"requiresValue"`
	Unit          string             `json:"unit,omitempty"`
}

var dangerCatalog = []DangerSuggestion{
	{Name: "Tension électrique", Color: models.ColorTensionElectrique, RequiresValue: true, Unit: "V"},
	{Name: "Air comprimé", Color: models.ColorAirComprime, RequiresValue: true, Unit: "bar"},
	{Name: "Pression hydraulique", Color: models.ColorPressionHydraulique, RequiresValue: true, Unit: "bar"},
	{Name: "Instabilité mécanique", Color: models.ColorInstabiliteMecanique},
	{Name: "Travail en hauteur", Color: models.ColorHauteur, RequiresValue: true, Unit: "m"},
	{Name: "Risque d'électrocution", Color: models.ColorTensionElectrique},
	{Name: "Risque de chute", Color: models.ColorHauteur},
	{Name: "Projection de particules", Color: models.ColorInstabiliteMecanique},
	{Name: "Écrasement", Color: models.ColorInstabiliteMecanique},
	{Name: "Coupure", Color: models.ColorInstabiliteMecanique},
	{Name: "Température élevée", Color: models.ColorAutre, RequiresValue: true, Unit: "°C"},
	{Name: "Produit chimique", Color: models.ColorAutre},
	{Name: "Rayonnement", Color: models.ColorAutre},
	{Name: "Bruit excessif", Color: models.ColorAutre, RequiresValue: true, Unit: "dB"},
	{Name: "Espace confiné", Color: models.ColorAutre},
}

type equipmentEntry struct {
	name     string
	typ      models.EquipmentType
	category models.EquipmentCategory
}

// Declaration order is the display order within each (type, category) group.
var equipmentCatalog = []equipmentEntry{
	{"Casque isolant", models.TypeEPI, models.CategorieElectrique},
	{"Lunettes isolantes", models.TypeEPI, models.CategorieElectrique},
	{"Gants isolants", models.TypeEPI, models.CategorieElectrique},
	{"Écran facial isolant", models.TypeEPI, models.CategorieElectrique},
	{"Vêtements isolants", models.TypeEPI, models.CategorieElectrique},
	{"Chaussures isolantes", models.TypeEPI, models.CategorieElectrique},
	{"Casque de chantier", models.TypeEPI, models.CategorieMecanique},
	{"Lunettes de protection", models.TypeEPI, models.CategorieMecanique},
	{"Gants anti-coupure", models.TypeEPI, models.CategorieMecanique},
	{"Protections auditives", models.TypeEPI, models.CategorieMecanique},
	{"Masque respiratoire", models.TypeEPI, models.CategorieMecanique},
	{"Harnais de sécurité", models.TypeEPI, models.CategorieMecanique},
	{"Chaussures de sécurité", models.TypeEPI, models.CategorieCommun},
	{"Gilet haute visibilité", models.TypeEPI, models.CategorieCommun},
	{"Vêtements de travail", models.TypeEPI, models.CategorieCommun},
	{"Gants de manutention", models.TypeEPI, models.CategorieCommun},
	{"Appareil de test VAT", models.TypeEPC, models.CategorieElectrique},
	{"Tapis isolant", models.TypeEPC, models.CategorieElectrique},
	{"Nappe isolante", models.TypeEPC, models.CategorieElectrique},
	{"Cadenas de consignation électrique", models.TypeEPC, models.CategorieElectrique},
	{"Dispositif de mise à la terre", models.TypeEPC, models.CategorieElectrique},
	{"Pancarte de consignation", models.TypeEPC, models.CategorieElectrique},
	{"Protecteur de machine", models.TypeEPC, models.CategorieMecanique},
	{"Garde-corps", models.TypeEPC, models.CategorieMecanique},
	{"Filet de sécurité", models.TypeEPC, models.CategorieMecanique},
	{"Barrières de protection", models.TypeEPC, models.CategorieMecanique},
	{"Barre de consignation", models.TypeEPC, models.CategorieMecanique},
	{"Serrure de consignation", models.TypeEPC, models.CategorieCommun},
	{"Barrières de sécurité", models.TypeEPC, models.CategorieCommun},
	{"Signalisation de sécurité", models.TypeEPC, models.CategorieCommun},
	{"Extincteur", models.TypeEPC, models.CategorieCommun},
	{"Trousse de premiers secours", models.TypeEPC, models.CategorieCommun},
	{"Éclairage de sécurité", models.TypeEPC, models.CategorieCommun},
}

// EquipmentGroup is one (type, category) bucket of matching gear names.
type EquipmentGroup struct {
	Type     models.EquipmentType     `json:"type"`
	Category models.EquipmentCategory `json:"category"`
	Items    []string                 `json:"items"`
}

func tooShort(q string) bool { return len([]rune(q)) < minQueryLen }

// QueryDangers returns hazard entries whose name contains q,
// case-insensitively, in catalog order.
func QueryDangers(q string) []DangerSuggestion {
	q = strings.ToLower(strings.TrimSpace(q))
	if tooShort(q) {
		return nil
	}
	var out []DangerSuggestion
	for _, d := range dangerCatalog {
		if strings.Contains(strings.ToLower(d.Name), q) {
			out = append(out, d)
		}
	}
	return out
}

// QueryEquipment returns matching gear grouped by (type, category), groups
// and items both in catalog declaration order.
func QueryEquipment(q string) []EquipmentGroup {
	q = strings.ToLower(strings.TrimSpace(q))
	if tooShort(q) {
		return nil
	}
	var groups []EquipmentGroup
	index := map[string]int{}
	for _, e := range equipmentCatalog {
		if !strings.Contains(strings.ToLower(e.name), q) {
			continue
		}
		key := string(e.typ) + "|" + string(e.category)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, EquipmentGroup{Type: e.typ, Category: e.category})
		}
		groups[i].Items = append(groups[i].Items, e.name)
	}
	return groups
}
