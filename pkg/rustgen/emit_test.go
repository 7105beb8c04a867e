package rustgen

import (
	"errors"
	"testing"

	"github.com/libninjago/libninja/pkg/config"
	"github.com/libninjago/libninja/pkg/ferr"
	"github.com/libninjago/libninja/pkg/hir"
)

func TestBuildFilesRejectsCollidingSchemaNames(t *testing.T) {
	spec := hir.NewHirSpec()
	spec.AddSchema(hir.NewStruct("widget-id", nil))
	spec.AddSchema(hir.NewStruct("widget_id", nil))

	_, err := BuildFiles(spec, config.Client{Name: "Acme"})
	var namingErr *ferr.NamingError
	if !errors.As(err, &namingErr) {
		t.Fatalf("expected *ferr.NamingError for colliding schema names, got %v", err)
	}
}

func TestBuildFilesRejectsCollidingOperationNames(t *testing.T) {
	spec := hir.NewHirSpec()
	spec.Operations = append(spec.Operations,
		hir.Operation{Name: "get-widget", Method: "GET", Path: "/widgets/a", Ret: hir.Unit()},
		hir.Operation{Name: "get_widget", Method: "GET", Path: "/widgets/b", Ret: hir.Unit()},
	)

	_, err := BuildFiles(spec, config.Client{Name: "Acme"})
	var namingErr *ferr.NamingError
	if !errors.As(err, &namingErr) {
		t.Fatalf("expected *ferr.NamingError for colliding operation names, got %v", err)
	}
}

func TestBuildFilesAllowsDistinctSanitizedNames(t *testing.T) {
	spec := hir.NewHirSpec()
	spec.AddSchema(hir.NewStruct("Widget", nil))
	spec.AddSchema(hir.NewStruct("Gadget", nil))

	if _, err := BuildFiles(spec, config.Client{Name: "Acme"}); err != nil {
		t.Fatalf("unexpected error for non-colliding schemas: %v", err)
	}
}
