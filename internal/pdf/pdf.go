// Package pdf produit le document imprimable de la procédure de consignation.
package pdf

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/diewo77/consignation-app/internal/models"
)

// Section heading colors carried over from the printed document.
var (
	colorHeader       = props.Color{Red: 0, Green: 51, Blue: 102}   // dark blue
	colorWarnings     = props.Color{Red: 153, Green: 0, Blue: 0}    // dark red
	colorMaterials    = props.Color{Red: 0, Green: 102, Blue: 51}   // dark green
	colorReferences   = props.Color{Red: 102, Green: 51, Blue: 153} // purple
	colorImprovements = props.Color{Red: 204, Green: 153, Blue: 0}  // orange
)

func toColor(rgb models.RGB) props.Color {
	return props.Color{Red: rgb.R, Green: rgb.G, Blue: rgb.B}
}

// Filename returns the dated download name for a rendered procedure.
func Filename(now time.Time) string {
	return fmt.Sprintf("Procedure-Consignation-%s.pdf", now.Format("2006-01-02"))
}

// Renderer builds the PDF from a document snapshot. It holds no state beyond
// the page configuration and never mutates the document.
type Renderer struct {
	cfg *entity.Config
}

func NewRenderer() *Renderer {
	return &Renderer{cfg: config.NewBuilder().Build()}
}

// Render emits the procedure in the fixed section order: header info,
// EPI/EPC, hazards and risk narrative, materials with totals, references,
// steps, improvements. Pagination is the emitter's concern.
func (r *Renderer) Render(doc models.Procedure) ([]byte, error) {
	m := maroto.New(r.cfg)

	m.AddRows(
		text.NewRow(10, "Procédure de Consignation", props.Text{
			Size: 18, Style: fontstyle.Bold, Align: align.Center,
		}),
		text.NewRow(8, "Documentation de sécurité pour intervention", props.Text{
			Size: 10, Style: fontstyle.Italic, Align: align.Center,
		}),
	)

	m.AddRows(infoRows(doc.Info)...)
	m.AddRows(equipmentRows(doc.EpiEpc)...)
	m.AddRows(warningRows(doc.Warnings)...)
	m.AddRows(materialRows(doc.Materials, doc.MaterialsTotal())...)
	m.AddRows(referenceRows(doc.References)...)
	m.AddRows(stepRows(doc.Steps)...)
	m.AddRows(improvementRows(doc.Improvements)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf generation: %w", err)
	}
	return out.GetBytes(), nil
}

func heading(label string, color props.Color) core.Row {
	return text.NewRow(9, label, props.Text{
		Size: 12, Style: fontstyle.Bold, Color: &color, Top: 2,
	})
}

func bodyLine(label string) core.Row {
	return text.NewRow(5, label, props.Text{Size: 10})
}

func infoRows(info models.Info) []core.Row {
	rows := []core.Row{heading("Informations sur l'intervention", colorHeader)}
	if info.Titre != "" {
		rows = append(rows, text.NewRow(5, "Titre: "+info.Titre, props.Text{Size: 10, Style: fontstyle.Bold}))
	}
	if info.Description != "" {
		rows = append(rows, bodyLine(info.Description))
	}
	var fields []string
	if info.Date != "" {
		fields = append(fields, "Date: "+info.Date)
	}
	if info.Numero != "" {
		fields = append(fields, "Numéro: "+info.Numero)
	}
	if info.Personnel != "" {
		fields = append(fields, "Personnel: "+info.Personnel)
	}
	if info.Localisation != "" {
		fields = append(fields, "Localisation: "+info.Localisation)
	}
	if len(fields) > 0 {
		rows = append(rows, bodyLine(strings.Join(fields, " | ")))
	}
	return rows
}

func equipmentRows(items []models.Equipment) []core.Row {
	if len(items) == 0 {
		return nil
	}
	rows := []core.Row{text.NewRow(6, "EPI/EPC requis:", props.Text{Size: 10, Style: fontstyle.Bold, Top: 1})}
	for _, e := range items {
		c := toColor(e.Category.RGB())
		label := fmt.Sprintf("• %s (%s - %s)", e.Name, e.Type, e.Category)
		rows = append(rows, text.NewRow(5, label, props.Text{Size: 10, Color: &c, Left: 3}))
	}
	return rows
}

func warningRows(w models.Warnings) []core.Row {
	rows := []core.Row{heading("Avertissements", colorWarnings)}
	if len(w.Dangers) > 0 {
		rows = append(rows, text.NewRow(6, "Dangers identifiés:", props.Text{Size: 10, Style: fontstyle.Bold}))
		for _, d := range w.Dangers {
			label := "• " + d.Name
			if d.Value != "" {
				label = fmt.Sprintf("• %s: %s", d.Name, d.Value)
			}
			c := toColor(d.Color.RGB())
			rows = append(rows, text.NewRow(5, label, props.Text{Size: 10, Style: fontstyle.Bold, Color: &c, Left: 3}))
		}
	}
	if w.AnalyseRisques != "" {
		rows = append(rows, text.NewRow(6, "Analyse de risques:", props.Text{Size: 10, Style: fontstyle.Bold}))
		for _, line := range flattenMarkdown(w.AnalyseRisques) {
			rows = append(rows, text.NewRow(5, line, props.Text{Size: 10, Left: 3}))
		}
	}
	return rows
}

func materialRows(items []models.Material, grandTotal float64) []core.Row {
	if len(items) == 0 {
		return nil
	}
	rows := []core.Row{heading("Matériel nécessaire", colorMaterials)}
	for _, mat := range items {
		rows = append(rows, row.New(5).Add(
			text.NewCol(6, mat.Designation, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("Qté: %d", mat.Quantity), props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%.2f €", mat.Price), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, fmt.Sprintf("%.2f €", mat.LineTotal()), props.Text{Size: 9, Align: align.Right}),
		))
	}
	rows = append(rows, text.NewRow(6, fmt.Sprintf("Total général: %.2f €", grandTotal), props.Text{
		Size: 10, Style: fontstyle.Bold, Align: align.Right,
	}))
	return rows
}

func referenceRows(items []models.Reference) []core.Row {
	if len(items) == 0 {
		return nil
	}
	rows := []core.Row{heading("Liste de Références", colorReferences)}
	for _, ref := range items {
		page := ref.Page
		if page == "" {
			page = "N/A"
		}
		rows = append(rows, text.NewRow(5, fmt.Sprintf("%s - %s (%s)", ref.Document, page, ref.Type), props.Text{Size: 9}))
	}
	return rows
}

func stepRows(steps []models.Step) []core.Row {
	if len(steps) == 0 {
		return nil
	}
	rows := []core.Row{heading("Instructions de consignation", colorReferences)}
	for i, step := range steps {
		repere := step.Repere
		if repere == "" {
			repere = fmt.Sprintf("Étape %d", i+1)
		}
		rows = append(rows, text.NewRow(6, fmt.Sprintf("%d. %s", i+1, repere), props.Text{Size: 9, Style: fontstyle.Bold}))
		if step.Instruction != "" {
			rows = append(rows, text.NewRow(5, step.Instruction, props.Text{Size: 9, Left: 3}))
		}
		if raw, ext, ok := photoPayload(step); ok {
			rows = append(rows, row.New(40).Add(
				image.NewFromBytesCol(6, raw, ext, props.Rect{Percent: 90}),
			))
		}
	}
	return rows
}

func improvementRows(items []string) []core.Row {
	if len(items) == 0 {
		return nil
	}
	rows := []core.Row{heading("Pistes d'amélioration", colorImprovements)}
	for _, imp := range items {
		rows = append(rows, text.NewRow(5, "• "+imp, props.Text{Size: 9}))
	}
	return rows
}

// photoPayload decodes a data URI into raw image bytes and their format.
// Unsupported formats and broken payloads are skipped rather than failing
// the page.
func photoPayload(step models.Step) ([]byte, extension.Type, bool) {
	if !step.HasPhoto() {
		return nil, "", false
	}
	meta, b64, ok := strings.Cut(step.Photo, ",")
	if !ok || b64 == "" {
		return nil, "", false
	}
	var ext extension.Type
	switch {
	case strings.HasPrefix(meta, "data:image/png"):
		ext = extension.Png
	case strings.HasPrefix(meta, "data:image/jpeg"), strings.HasPrefix(meta, "data:image/jpg"):
		ext = extension.Jpg
	default:
		return nil, "", false
	}
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, "", false
	}
	return raw, ext, true
}
