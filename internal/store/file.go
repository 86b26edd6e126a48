package store

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/diewo77/consignation-app/internal/models"
)

var filenameUnsafe = regexp.MustCompile(`[^A-Za-z0-9_]`)

// ExportFile serializes the document to pretty-printed JSON and builds the
// download filename: consignation-{sanitized numero}-{YYYY-MM-DD}.json.
// Every character outside [A-Za-z0-9_] in the numero is replaced by '_'.
func ExportFile(doc models.Procedure, now time.Time) (string, []byte, error) {
	doc.Version = models.SchemaVersion
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", nil, err
	}
	numero := strings.TrimSpace(doc.Info.Numero)
	if numero == "" {
		numero = "procedure"
	}
	name := fmt.Sprintf("consignation-%s-%s.json",
		filenameUnsafe.ReplaceAllString(numero, "_"), now.Format("2006-01-02"))
	return name, data, nil
}

// ImportFile parses and normalizes an uploaded JSON file. On
// models.ErrFileFormat the caller keeps its current document untouched.
func ImportFile(data []byte) (models.Procedure, error) {
	return models.ParseDocument(data)
}
