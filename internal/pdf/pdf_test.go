package pdf

import (
	"bytes"
	"encoding/base64"
	"reflect"
	"testing"
	"time"

	"github.com/diewo77/consignation-app/internal/models"
)

// 1x1 transparent PNG.
const tinyPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

func TestFilename(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	if got := Filename(now); got != "Procedure-Consignation-2024-03-15.pdf" {
		t.Fatalf("filename: %q", got)
	}
}

func TestFlattenMarkdown(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"- couper\n- vérifier", []string{"• couper", "• vérifier"}},
		{"* item", []string{"• item"}},
		{"1. premier\n2. second", []string{"1. premier", "2. second"}},
		{"**gras** et texte", []string{"gras et texte"}},
		{"- **gras** en liste", []string{"• gras en liste"}},
		{"*italique sans puce", []string{"*italique sans puce"}},
		{"-tiret collé", []string{"-tiret collé"}},
		{"ligne\n\n\nautre", []string{"ligne", "autre"}},
		{"", nil},
		{"   \n  ", nil},
	}
	for _, c := range cases {
		if got := flattenMarkdown(c.in); !reflect.DeepEqual(got, c.want) {
			t.Fatalf("flattenMarkdown(%q) = %#v, want %#v", c.in, got, c.want)
		}
	}
}

func TestPhotoPayload(t *testing.T) {
	if _, _, ok := photoPayload(models.Step{Photo: ""}); ok {
		t.Fatalf("empty photo accepted")
	}
	if _, _, ok := photoPayload(models.Step{Photo: "data:image/gif;base64,AAAA"}); ok {
		t.Fatalf("unsupported format accepted")
	}
	if _, _, ok := photoPayload(models.Step{Photo: "data:image/png;base64,"}); ok {
		t.Fatalf("empty payload accepted")
	}
	if _, _, ok := photoPayload(models.Step{Photo: "data:image/png;base64,!!!pas-du-base64!!!"}); ok {
		t.Fatalf("broken payload accepted")
	}
	raw, _, ok := photoPayload(models.Step{Photo: "data:image/png;base64," + tinyPNG})
	if !ok {
		t.Fatalf("png rejected")
	}
	want, err := base64.StdEncoding.DecodeString(tinyPNG)
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
	if !bytes.Equal(raw, want) {
		t.Fatalf("png payload: %d bytes, want %d", len(raw), len(want))
	}
	_, _, ok = photoPayload(models.Step{Photo: "data:image/jpeg;base64,AAAA"})
	if !ok {
		t.Fatalf("jpeg rejected")
	}
}

func fullDocument() models.Procedure {
	doc := models.NewProcedure()
	doc.Info = models.Info{
		Titre: "Consignation TGBT", Description: "Intervention annuelle",
		Date: "2024-03-15", Numero: "C-2024-01",
		Personnel: "J. Martin", Localisation: "Atelier B",
	}
	doc.Warnings.Dangers = []models.Danger{
		{Name: "Tension électrique", Color: models.ColorTensionElectrique, Value: "400 V"},
		{Name: "Travail en hauteur", Color: models.ColorHauteur},
	}
	doc.Warnings.AnalyseRisques = "- couper l'alimentation\n- **vérifier** l'absence de tension"
	doc.Materials = []models.Material{
		{Designation: "Cadenas", Quantity: 2, Price: 12.5},
		{Designation: "Pancarte", Quantity: 1, Price: 3},
	}
	doc.EpiEpc = []models.Equipment{
		{Name: "Gants isolants", Type: models.TypeEPI, Category: models.CategorieElectrique},
	}
	doc.References = []models.Reference{
		{Document: "Schéma TGBT", Page: "4", Type: "schéma"},
		{Document: "Norme NF C18-510", Type: "norme"},
	}
	doc.Steps = []models.Step{
		{ID: "s1", Repere: "Q1", Instruction: "ouvrir le sectionneur"},
		{ID: "s2", Instruction: "poser le cadenas", Photo: "data:image/png;base64," + tinyPNG},
	}
	doc.Improvements = []string{"ajouter une photo du repère Q1"}
	return doc
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render(fullDocument())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a PDF: %q", out[:min(16, len(out))])
	}
}

func TestRenderSkipsBrokenPhoto(t *testing.T) {
	doc := models.NewProcedure()
	doc.Steps = []models.Step{
		{ID: "s1", Repere: "Q1", Photo: "data:image/png;base64,!!!pas-du-base64!!!"},
	}
	r := NewRenderer()
	out, err := r.Render(doc)
	if err != nil {
		t.Fatalf("broken photo must not fail the render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestRenderEmptyDocument(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render(models.NewProcedure())
	if err != nil {
		t.Fatalf("render empty: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
}
