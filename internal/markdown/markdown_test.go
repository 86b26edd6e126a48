package markdown

import (
	"strings"
	"testing"
)

func TestRenderListsAndEmphasis(t *testing.T) {
	out, err := Render("- couper l'alimentation\n- **vérifier** l'absence de tension")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, "<ul>") || !strings.Contains(s, "<li>") {
		t.Fatalf("expected a list: %s", s)
	}
	if !strings.Contains(s, "<strong>vérifier</strong>") {
		t.Fatalf("expected bold: %s", s)
	}
}

func TestRenderHardLineBreaks(t *testing.T) {
	out, err := Render("ligne un\nligne deux")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "<br") {
		t.Fatalf("expected hard break: %s", out)
	}
}

func TestRenderNeutralizesRawHTML(t *testing.T) {
	out, err := Render(`avant <script>alert("x")</script> après`)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), "<script>") {
		t.Fatalf("raw HTML leaked: %s", out)
	}
}

func TestRenderEmptyInput(t *testing.T) {
	out, err := Render("")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), "<p></p>") {
		t.Fatalf("unexpected empty paragraph: %q", out)
	}
}
