package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/diewo77/consignation-app/internal/models"
	"github.com/diewo77/consignation-app/internal/pdf"
	"github.com/diewo77/consignation-app/internal/server"
	"github.com/diewo77/consignation-app/internal/services"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := services.NewProcedureService(nil)
	ts := httptest.NewServer(server.New(svc, nil, pdf.NewRenderer()))
	t.Cleanup(ts.Close)
	return ts
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func postJSON(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func TestGetProcedure(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/procedure")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	var body struct {
		Procedure      models.Procedure `json:"procedure"`
		MaterialsTotal float64          `json:"materialsTotal"`
	}
	decodeBody(t, resp, &body)
	if body.Procedure.Version != models.SchemaVersion {
		t.Fatalf("version: %d", body.Procedure.Version)
	}
	if body.Procedure.Steps == nil {
		t.Fatalf("collections must serialize as arrays")
	}
}

func TestAddMaterialRejectsEmptyDesignation(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts, "/api/procedure/materials", `{"designation":"  ","quantity":"5","price":"10"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	var body struct {
		Error   string            `json:"error"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	}
	decodeBody(t, resp, &body)
	if body.Error != "designation_required" {
		t.Fatalf("code: %q", body.Error)
	}
	if body.Message != "Veuillez entrer une désignation" {
		t.Fatalf("default language must be french: %q", body.Message)
	}
	if body.Details["designation"] != "required" {
		t.Fatalf("per-field violations: %#v", body.Details)
	}
}

func TestAddReferenceViolationDetails(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts, "/api/procedure/references", `{"document":"","page":"2","type":""}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	var body struct {
		Details map[string]string `json:"details"`
	}
	decodeBody(t, resp, &body)
	if body.Details["document"] != "required" || body.Details["type"] != "required" {
		t.Fatalf("per-field violations: %#v", body.Details)
	}
}

func TestErrorMessageLanguage(t *testing.T) {
	ts := newTestServer(t)
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/procedure/materials",
		strings.NewReader(`{"designation":""}`))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	var body struct {
		Message string `json:"message"`
	}
	decodeBody(t, resp, &body)
	if body.Message != "Please enter a designation" {
		t.Fatalf("english message: %q", body.Message)
	}
}

func TestDuplicateEquipmentIsWarningNotError(t *testing.T) {
	ts := newTestServer(t)
	payload := `{"name":"Casque isolant","type":"EPI","category":"électrique"}`
	resp := postJSON(t, ts, "/api/procedure/equipment", payload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first add: %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, ts, "/api/procedure/equipment", payload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("duplicate must stay 200: %d", resp.StatusCode)
	}
	var body struct {
		Warning string `json:"warning"`
	}
	decodeBody(t, resp, &body)
	if body.Warning != "duplicate_equipment" {
		t.Fatalf("warning: %q", body.Warning)
	}
}

func TestStepLifecycle(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts, "/api/procedure/steps", "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: %d", resp.StatusCode)
	}
	var step models.Step
	decodeBody(t, resp, &step)
	if step.ID == "" {
		t.Fatalf("created step has no id")
	}

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/procedure/steps/field",
		strings.NewReader(`{"id":"`+step.ID+`","field":"repere","value":"Q1"}`))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update field: %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, ts, "/api/procedure/steps/move", `{"index":0,"direction":2}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad direction: %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, err = http.NewRequest(http.MethodDelete, ts.URL+"/api/procedure/steps?id="+step.ID, nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestPhotoUploadRejectsNonImage(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts, "/api/procedure/steps", "")
	var step models.Step
	decodeBody(t, resp, &step)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("id", step.ID); err != nil {
		t.Fatalf("field: %v", err)
	}
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="photo"; filename="doc.pdf"`)
	hdr.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("part: %v", err)
	}
	if _, err := part.Write([]byte("%PDF-1.4")); err != nil {
		t.Fatalf("write: %v", err)
	}
	mw.Close()

	resp, err = http.Post(ts.URL+"/api/procedure/steps/photo", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Fatalf("status: %d", resp.StatusCode)
	}
}

func TestExportHeaders(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts, "/api/procedure/materials", `{"designation":"Cadenas","quantity":"2","price":"12.50"}`)
	resp.Body.Close()

	resp, err := http.Get(ts.URL + "/api/procedure/export")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	cd := resp.Header.Get("Content-Disposition")
	if !strings.Contains(cd, "attachment") || !strings.Contains(cd, "consignation-procedure-") {
		t.Fatalf("content-disposition: %q", cd)
	}
	var doc models.Procedure
	decodeBody(t, resp, &doc)
	if len(doc.Materials) != 1 {
		t.Fatalf("exported materials: %#v", doc.Materials)
	}
}

func TestImportRejectsNonObject(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts, "/api/procedure/import", `42`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &body)
	if body.Error != "file_format_error" {
		t.Fatalf("code: %q", body.Error)
	}
}

func TestImportReplacesDocument(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts, "/api/procedure/import",
		`{"info":{"numero":"C-77"},"materials":[{"designation":"Gants","quantity":2,"price":5.5}]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("import: %d", resp.StatusCode)
	}
	var body struct {
		Procedure models.Procedure `json:"procedure"`
	}
	decodeBody(t, resp, &body)
	if body.Procedure.Info.Numero != "C-77" || len(body.Procedure.Materials) != 1 {
		t.Fatalf("imported: %#v", body.Procedure)
	}
}

func TestPDFDownload(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/procedure/pdf")
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content-type: %q", ct)
	}
	buf := make([]byte, 4)
	if _, err := io.ReadFull(resp.Body, buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(buf) != "%PDF" {
		t.Fatalf("body prefix: %q", buf)
	}
}

func TestSuggestionsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/suggestions?kind=dangers&q=t")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var body struct {
		Items []any `json:"items"`
	}
	decodeBody(t, resp, &body)
	if body.Items == nil || len(body.Items) != 0 {
		t.Fatalf("short query must give an empty array: %#v", body.Items)
	}

	resp, err = http.Get(ts.URL + "/api/suggestions?kind=equipment&q=isolant")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var groups struct {
		Groups []struct {
			Items []string `json:"items"`
		} `json:"groups"`
	}
	decodeBody(t, resp, &groups)
	if len(groups.Groups) == 0 {
		t.Fatalf("expected matches for isolant")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts, "/api/procedure", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if allow := resp.Header.Get("Allow"); allow != "GET" {
		t.Fatalf("allow: %q", allow)
	}
}
