package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/diewo77/consignation-app/internal/models"
	"github.com/diewo77/consignation-app/internal/store"
	"github.com/diewo77/consignation-app/internal/validation"
)

// Validation failures. None of these leaves a partial mutation behind.
var (
	ErrDesignationRequired = errors.New("designation_required")
	ErrDocumentRequired    = errors.New("document_required")
	ErrTypeRequired        = errors.New("type_required")
	ErrNameRequired        = errors.New("name_required")
	ErrDuplicateEquipment  = errors.New("duplicate_equipment")
	ErrDuplicateDanger     = errors.New("duplicate_danger")
	ErrIndexOutOfRange     = errors.New("index_out_of_range")
	ErrUnknownStepField    = errors.New("unknown_step_field")
	ErrInvalidDirection    = errors.New("invalid_direction")
	ErrStepNotFound        = errors.New("step_not_found")
)

// ProcedureService owns the live document and is the only writer. Every
// mutation is validate → mutate → persist under the lock; a persist failure
// keeps the mutation (in-memory state stays authoritative) and surfaces as a
// wrapped store.ErrStorage.
type ProcedureService struct {
	mu    sync.Mutex
	doc   models.Procedure
	store *store.Store
	coll  *collate.Collator
}

// NewProcedureService recovers whatever the store holds, or starts empty.
// A nil store keeps everything in memory (tests, dry runs).
func NewProcedureService(st *store.Store) *ProcedureService {
	doc := models.NewProcedure()
	if st != nil {
		doc = st.Load()
	}
	return &ProcedureService{
		doc:   doc,
		store: st,
		coll:  collate.New(language.French, collate.Loose),
	}
}

// Snapshot returns a deep copy; callers never see the live document.
func (s *ProcedureService) Snapshot() models.Procedure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// persist is called with the lock held.
func (s *ProcedureService) persist() error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(s.doc); err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	return nil
}

// SetInfo replaces the intervention header fields.
func (s *ProcedureService) SetInfo(info models.Info) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Info = info
	return s.persist()
}

// SetRiskAnalysis replaces the markdown risk narrative.
func (s *ProcedureService) SetRiskAnalysis(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Warnings.AnalyseRisques = text
	return s.persist()
}

// AddMaterial appends a bill-of-materials row. Quantity and price arrive as
// raw form inputs: unparsable quantity or quantity < 1 defaults to 1,
// unparsable price defaults to 0. Identical rows are not merged.
func (s *ProcedureService) AddMaterial(designation, quantityRaw, priceRaw string) error {
	designation = strings.TrimSpace(designation)
	if designation == "" {
		return ErrDesignationRequired
	}
	m := models.Material{
		Designation: designation,
		Quantity:    validation.ParseQuantity(quantityRaw),
		Price:       validation.ParsePrice(priceRaw),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Materials = append(s.doc.Materials, m)
	return s.persist()
}

func (s *ProcedureService) RemoveMaterial(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.doc.Materials) {
		return ErrIndexOutOfRange
	}
	s.doc.Materials = append(s.doc.Materials[:index], s.doc.Materials[index+1:]...)
	return s.persist()
}

// AddReference appends a supporting document. Both the document name and the
// type are required.
func (s *ProcedureService) AddReference(document, page, typ string) error {
	document = strings.TrimSpace(document)
	if document == "" {
		return ErrDocumentRequired
	}
	if strings.TrimSpace(typ) == "" {
		return ErrTypeRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.References = append(s.doc.References, models.Reference{
		Document: document,
		Page:     strings.TrimSpace(page),
		Type:     typ,
	})
	return s.persist()
}

func (s *ProcedureService) RemoveReference(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.doc.References) {
		return ErrIndexOutOfRange
	}
	s.doc.References = append(s.doc.References[:index], s.doc.References[index+1:]...)
	return s.persist()
}

// SortReferences orders references by document name under French collation:
// case-insensitive, accented letters next to their base letter. The sort is
// stable.
func (s *ProcedureService) SortReferences() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	refs := s.doc.References
	sort.SliceStable(refs, func(i, j int) bool {
		return s.coll.CompareString(refs[i].Document, refs[j].Document) < 0
	})
	return s.persist()
}

// AddEquipment appends protective gear, unique by name. A duplicate is a
// no-op surfaced as ErrDuplicateEquipment (callers soften it to a warning).
func (s *ProcedureService) AddEquipment(name string, typ models.EquipmentType, category models.EquipmentCategory) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.doc.EpiEpc {
		if e.Name == name {
			return ErrDuplicateEquipment
		}
	}
	s.doc.EpiEpc = append(s.doc.EpiEpc, models.Equipment{Name: name, Type: typ, Category: category})
	return s.persist()
}

func (s *ProcedureService) RemoveEquipment(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.doc.EpiEpc) {
		return ErrIndexOutOfRange
	}
	s.doc.EpiEpc = append(s.doc.EpiEpc[:index], s.doc.EpiEpc[index+1:]...)
	return s.persist()
}

// AddDanger appends a hazard tag. Uniqueness key is the (name, value) pair:
// the same hazard with a different measured value is a distinct entry.
func (s *ProcedureService) AddDanger(name string, color models.DangerColor, value string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	if !color.Valid() {
		color = models.ColorAutre
	}
	value = strings.TrimSpace(value)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.doc.Warnings.Dangers {
		if d.Name == name && d.Value == value {
			return ErrDuplicateDanger
		}
	}
	s.doc.Warnings.Dangers = append(s.doc.Warnings.Dangers, models.Danger{Name: name, Color: color, Value: value})
	return s.persist()
}

func (s *ProcedureService) RemoveDanger(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.doc.Warnings.Dangers) {
		return ErrIndexOutOfRange
	}
	s.doc.Warnings.Dangers = append(s.doc.Warnings.Dangers[:index], s.doc.Warnings.Dangers[index+1:]...)
	return s.persist()
}

// AddImprovement appends a free-text note; an empty input is silently ignored.
func (s *ProcedureService) AddImprovement(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Improvements = append(s.doc.Improvements, text)
	return s.persist()
}

func (s *ProcedureService) RemoveImprovement(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.doc.Improvements) {
		return ErrIndexOutOfRange
	}
	s.doc.Improvements = append(s.doc.Improvements[:index], s.doc.Improvements[index+1:]...)
	return s.persist()
}

// AddStep appends an empty step with a fresh identifier. IDs are never
// reused, even after the step is removed.
func (s *ProcedureService) AddStep() (models.Step, error) {
	step := models.Step{ID: uuid.NewString()}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Steps = append(s.doc.Steps, step)
	return step, s.persist()
}

// RemoveStep filters out the step with the given id; unknown ids are a no-op.
func (s *ProcedureService) RemoveStep(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.doc.Steps[:0]
	for _, st := range s.doc.Steps {
		if st.ID != id {
			kept = append(kept, st)
		}
	}
	s.doc.Steps = kept
	return s.persist()
}

// MoveStep swaps the step at index with its neighbor. A move past either end
// is a no-op, not an error; the sequence length never changes.
func (s *ProcedureService) MoveStep(index, direction int) error {
	if direction != -1 && direction != 1 {
		return ErrInvalidDirection
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.doc.Steps) {
		return ErrIndexOutOfRange
	}
	target := index + direction
	if target < 0 || target >= len(s.doc.Steps) {
		return nil
	}
	s.doc.Steps[index], s.doc.Steps[target] = s.doc.Steps[target], s.doc.Steps[index]
	return s.persist()
}

// UpdateStepField writes one editable field of the step with the given id.
// Unknown fields are a validation error; an unknown id is a no-op.
func (s *ProcedureService) UpdateStepField(id, field, value string) error {
	switch field {
	case "repere", "instruction":
	default:
		return ErrUnknownStepField
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.doc.Steps {
		if s.doc.Steps[i].ID != id {
			continue
		}
		if field == "repere" {
			s.doc.Steps[i].Repere = value
		} else {
			s.doc.Steps[i].Instruction = value
		}
		return s.persist()
	}
	return nil
}

// Clear resets the document to empty and persists the empty state.
func (s *ProcedureService) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = models.NewProcedure()
	return s.persist()
}

// Replace swaps in an imported document wholesale and persists it.
func (s *ProcedureService) Replace(doc models.Procedure) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc.Clone()
	return s.persist()
}
