package pipeline

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/libninjago/libninja/pkg/config"
)

func TestRunRejectsUnsupportedType(t *testing.T) {
	_, err := Run("unused.yaml", config.Client{Type: "typescript", Name: "Acme", OutDir: t.TempDir()})
	if err == nil {
		t.Fatal("expected an error for an unsupported target language")
	}
}

func TestRunRejectsUnresolvableSpec(t *testing.T) {
	_, err := Run(filepath.Join(t.TempDir(), "missing.yaml"), config.Client{Name: "Acme", OutDir: t.TempDir()})
	if err == nil {
		t.Fatal("expected an error for a missing spec file")
	}
}

const miniSpec = `
openapi: 3.0.3
info:
  title: Widgets
  version: "1.0.0"
paths:
  /widgets/{widgetId}:
    get:
      operationId: getWidget
      parameters:
        - name: widgetId
          in: path
          required: true
          schema:
            type: string
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Widget"
components:
  schemas:
    Widget:
      type: object
      required: [id]
      properties:
        id:
          type: string
        price:
          type: number
          format: decimal
`

// TestRunEndToEnd exercises the full load -> extract -> emit pipeline
// against a small synthetic spec. It's skipped when rustfmt isn't on
// PATH, so it only runs where Emit pipes the generated .rs files through
// the real formatter rather than the bestEffortIndent fallback.
func TestRunEndToEnd(t *testing.T) {
	if _, err := exec.LookPath("rustfmt"); err != nil {
		t.Skip("rustfmt not installed")
	}

	dir := t.TempDir()
	specPath := filepath.Join(dir, "spec.yaml")
	if err := os.WriteFile(specPath, []byte(miniSpec), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := Run(specPath, config.Client{
		Type:        "rust",
		Name:        "Widgets",
		OutDir:      filepath.Join(dir, "out"),
		PackageName: "widgets-client",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.SchemaCount == 0 {
		t.Error("expected at least one schema")
	}
	if result.OperationCount != 1 {
		t.Errorf("OperationCount = %d, want 1", result.OperationCount)
	}
}
