package services

import (
	"fmt"
	"testing"

	"github.com/diewo77/consignation-app/internal/store"
)

func newPersistentService(t *testing.T) (*ProcedureService, *store.Store) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	st, err := store.Open(dsn)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return NewProcedureService(st), st
}

func TestMutationsPersistAcrossRestart(t *testing.T) {
	svc, st := newPersistentService(t)
	if err := svc.AddMaterial("Cadenas", "2", "12.50"); err != nil {
		t.Fatalf("add: %v", err)
	}
	step, err := svc.AddStep()
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if err := svc.UpdateStepField(step.ID, "repere", "Q1"); err != nil {
		t.Fatalf("field: %v", err)
	}

	// a fresh service on the same store sees the saved document
	revived := NewProcedureService(st)
	doc := revived.Snapshot()
	if len(doc.Materials) != 1 || doc.Materials[0].Designation != "Cadenas" {
		t.Fatalf("materials: %#v", doc.Materials)
	}
	if len(doc.Steps) != 1 || doc.Steps[0].ID != step.ID || doc.Steps[0].Repere != "Q1" {
		t.Fatalf("steps: %#v", doc.Steps)
	}
}

func TestClearPersistsEmptyState(t *testing.T) {
	svc, st := newPersistentService(t)
	if err := svc.AddImprovement("remplacer le cadenas"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	revived := NewProcedureService(st)
	if n := len(revived.Snapshot().Improvements); n != 0 {
		t.Fatalf("improvements survive clear: %d", n)
	}
}
