package models

import "strings"

// SchemaVersion is written on every save/export. Older documents (v1: free-text
// epiEpc and string materials, v2: no danger tags) carry no version field and
// are upgraded by Normalize.
const SchemaVersion = 3

// Info regroupe les champs d'en-tête de l'intervention. Tous optionnels.
type Info struct {
	Titre        string `json:"titre"`
	Description  string `json:"description"`
	Date         string `json:"date"`
	Numero       string `json:"numero"`
	Personnel    string `json:"personnel"`
	Localisation string `json:"localisation"`
}

// Danger is a tagged hazard, optionally carrying a measured value ("400 V").
// Two dangers with the same name but different values are distinct.
type Danger struct {
	Name  string      `json:"name"`
	Color DangerColor `json:"color"`
	Value string      `json:"value,omitempty"`
}

// Warnings holds the hazard-analysis block: tagged dangers plus a
// markdown-formatted narrative.
type Warnings struct {
	Dangers        []Danger `json:"dangers"`
	AnalyseRisques string   `json:"analyseRisques"`
}

// Material is one bill-of-materials row.
type Material struct {
	Designation string  `json:"designation"`
	Quantity    int     `json:"quantity"` // >= 1
	Price       float64 `json:"price"`    // unitaire, >= 0
}

// LineTotal returns quantity x unit price.
func (m Material) LineTotal() float64 { return float64(m.Quantity) * m.Price }

// Equipment is one protective-gear entry, unique by name.
type Equipment struct {
	Name     string            `json:"name"`
	Type     EquipmentType     `json:"type"`
	Category EquipmentCategory `json:"category"`
}

// Reference points at a supporting document (schéma, notice, norme...).
type Reference struct {
	Document string `json:"document"`
	Page     string `json:"page"`
	Type     string `json:"type"`
}

// Step is one numbered lockout instruction. The ID is assigned once at
// creation and never reused, even after the step is deleted.
type Step struct {
	ID          string `json:"id"`
	Repere      string `json:"repere"`
	Instruction string `json:"instruction"`
	Photo       string `json:"photo,omitempty"` // base64 data URI
}

// HasPhoto reports whether the step carries a well-formed image data URI.
// Anything else is treated as absent so a crafted src can never be rendered.
func (s Step) HasPhoto() bool { return strings.HasPrefix(s.Photo, "data:image/") }

// Procedure is the root aggregate: one consignment procedure document.
// Collections are always non-nil after construction or Normalize.
type Procedure struct {
	Version      int         `json:"version"`
	Info         Info        `json:"info"`
	Warnings     Warnings    `json:"warnings"`
	Materials    []Material  `json:"materials"`
	EpiEpc       []Equipment `json:"epiEpc"`
	References   []Reference `json:"references"`
	Steps        []Step      `json:"steps"`
	Improvements []string    `json:"improvements"`
}

// NewProcedure returns an empty, structurally valid document.
func NewProcedure() Procedure {
	return Procedure{
		Version:      SchemaVersion,
		Warnings:     Warnings{Dangers: []Danger{}},
		Materials:    []Material{},
		EpiEpc:       []Equipment{},
		References:   []Reference{},
		Steps:        []Step{},
		Improvements: []string{},
	}
}

// MaterialsTotal returns the grand total of the bill of materials.
func (p Procedure) MaterialsTotal() float64 {
	var total float64
	for _, m := range p.Materials {
		total += m.LineTotal()
	}
	return total
}

func cloneSlice[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// Clone returns a deep copy so callers never hold the live document.
func (p Procedure) Clone() Procedure {
	c := p
	c.Warnings.Dangers = cloneSlice(p.Warnings.Dangers)
	c.Materials = cloneSlice(p.Materials)
	c.EpiEpc = cloneSlice(p.EpiEpc)
	c.References = cloneSlice(p.References)
	c.Steps = cloneSlice(p.Steps)
	c.Improvements = cloneSlice(p.Improvements)
	return c
}
