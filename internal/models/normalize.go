package models

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ErrFileFormat is returned when an imported file is not valid JSON or not
// object-shaped.
var ErrFileFormat = errors.New("file_format_error")

// ParseDocument is the import path: JSON parse, object-shape check, then the
// shared Normalize. A JSON literal like `42` is a format error, not an empty
// document.
func ParseDocument(data []byte) (Procedure, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return NewProcedure(), ErrFileFormat
	}
	if _, ok := raw.(map[string]any); !ok {
		return NewProcedure(), ErrFileFormat
	}
	return Normalize(raw), nil
}

// Normalize builds a structurally valid Procedure from an untrusted raw value
// (parsed storage record or imported file). It is the only code path allowed
// to construct a document from outside input, so storage-load and file-import
// can never diverge. It never panics and always returns non-nil collections.
//
// Legacy shapes are upgraded in place: v1 stored epiEpc as one free-text
// field and materials as plain strings, v2 had warnings without dangers.
func Normalize(raw any) Procedure {
	p := NewProcedure()
	m, ok := raw.(map[string]any)
	if !ok {
		return p
	}
	p.Info = normalizeInfo(m["info"])
	p.Warnings = normalizeWarnings(m["warnings"])
	p.Materials = normalizeMaterials(m["materials"])
	p.EpiEpc = normalizeEquipment(m["epiEpc"])
	p.References = normalizeReferences(m["references"])
	p.Steps = normalizeSteps(m["steps"])
	p.Improvements = normalizeImprovements(m["improvements"])
	return p
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func normalizeInfo(raw any) Info {
	m, ok := raw.(map[string]any)
	if !ok {
		return Info{}
	}
	return Info{
		Titre:        asString(m["titre"]),
		Description:  asString(m["description"]),
		Date:         asString(m["date"]),
		Numero:       asString(m["numero"]),
		Personnel:    asString(m["personnel"]),
		Localisation: asString(m["localisation"]),
	}
}

func normalizeWarnings(raw any) Warnings {
	w := Warnings{Dangers: []Danger{}}
	switch v := raw.(type) {
	case string:
		// v1: warnings was a single textarea
		w.AnalyseRisques = v
	case map[string]any:
		w.AnalyseRisques = asString(v["analyseRisques"])
		if items, ok := v["dangers"].([]any); ok {
			for _, item := range items {
				dm, ok := item.(map[string]any)
				if !ok {
					continue
				}
				name := strings.TrimSpace(asString(dm["name"]))
				if name == "" {
					continue
				}
				w.Dangers = append(w.Dangers, Danger{
					Name:  name,
					Color: ParseDangerColor(asString(dm["color"])),
					Value: asString(dm["value"]),
				})
			}
		}
	}
	return w
}

// coerceQuantity accepts numbers and numeric strings; anything unparsable or
// below 1 defaults to 1.
func coerceQuantity(v any) int {
	switch n := v.(type) {
	case float64:
		if n < 1 {
			return 1
		}
		return int(n)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil && i >= 1 {
			return i
		}
	}
	return 1
}

// coercePrice accepts numbers and numeric strings; unparsable or negative
// values default to 0.
func coercePrice(v any) float64 {
	switch n := v.(type) {
	case float64:
		if n < 0 {
			return 0
		}
		return n
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil && f >= 0 {
			return f
		}
	}
	return 0
}

func normalizeMaterials(raw any) []Material {
	out := []Material{}
	items, ok := raw.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		switch v := item.(type) {
		case string:
			// v1: plain designation strings
			if d := strings.TrimSpace(v); d != "" {
				out = append(out, Material{Designation: d, Quantity: 1})
			}
		case map[string]any:
			d := strings.TrimSpace(asString(v["designation"]))
			if d == "" {
				continue
			}
			out = append(out, Material{
				Designation: d,
				Quantity:    coerceQuantity(v["quantity"]),
				Price:       coercePrice(v["price"]),
			})
		}
	}
	return out
}

func normalizeEquipment(raw any) []Equipment {
	out := []Equipment{}
	seen := map[string]bool{}
	push := func(e Equipment) {
		if e.Name == "" || seen[e.Name] {
			return
		}
		seen[e.Name] = true
		out = append(out, e)
	}
	switch v := raw.(type) {
	case string:
		// v1: one free-text field, one gear entry per line
		for _, line := range strings.Split(v, "\n") {
			push(Equipment{
				Name:     strings.TrimSpace(line),
				Type:     TypePersonnalise,
				Category: CategoriePersonnalise,
			})
		}
	case []any:
		for _, item := range v {
			em, ok := item.(map[string]any)
			if !ok {
				continue
			}
			push(Equipment{
				Name:     strings.TrimSpace(asString(em["name"])),
				Type:     ParseEquipmentType(asString(em["type"])),
				Category: ParseEquipmentCategory(asString(em["category"])),
			})
		}
	}
	return out
}

func normalizeReferences(raw any) []Reference {
	out := []Reference{}
	items, ok := raw.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		rm, ok := item.(map[string]any)
		if !ok {
			continue
		}
		doc := strings.TrimSpace(asString(rm["document"]))
		if doc == "" {
			continue
		}
		out = append(out, Reference{
			Document: doc,
			Page:     asString(rm["page"]),
			Type:     asString(rm["type"]),
		})
	}
	return out
}

func normalizeSteps(raw any) []Step {
	out := []Step{}
	items, ok := raw.([]any)
	if !ok {
		return out
	}
	seen := map[string]bool{}
	for _, item := range items {
		sm, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id := asString(sm["id"])
		if id == "" || seen[id] {
			id = uuid.NewString()
		}
		seen[id] = true
		step := Step{
			ID:          id,
			Repere:      asString(sm["repere"]),
			Instruction: asString(sm["instruction"]),
			Photo:       asString(sm["photo"]),
		}
		if !step.HasPhoto() {
			step.Photo = ""
		}
		out = append(out, step)
	}
	return out
}

func normalizeImprovements(raw any) []string {
	out := []string{}
	items, ok := raw.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
