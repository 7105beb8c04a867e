package extractor

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/libninjago/libninja/internal/money"
	"github.com/libninjago/libninja/pkg/hir"
)

func newTestRecordExtractor() (*RecordExtractor, *Context) {
	doc := &openapi3.T{Components: &openapi3.Components{Schemas: openapi3.Schemas{}}}
	ctx := NewContext(doc)
	return NewRecordExtractor(ctx), ctx
}

func TestExtractStructCurrencyField(t *testing.T) {
	e, ctx := newTestRecordExtractor()
	numberType := &openapi3.Types{"number"}
	objectType := &openapi3.Types{"object"}
	stringType := &openapi3.Types{"string"}

	schema := &openapi3.Schema{
		Type: objectType,
		Properties: openapi3.Schemas{
			"amount": {Value: &openapi3.Schema{
				Type:    numberType,
				Format:  "decimal",
				Example: "19.9900",
			}},
			"label": {Value: &openapi3.Schema{Type: stringType}},
		},
		Required: []string{"amount"},
	}

	e.Extract("Invoice", &openapi3.SchemaRef{Value: schema})

	rec, ok := ctx.Spec.Schema("Invoice")
	if !ok {
		t.Fatal("expected Invoice schema to be recorded")
	}
	field, ok := rec.Field("amount")
	if !ok {
		t.Fatal("expected amount field")
	}
	if field.Ty.Kind != hir.TyCurrency {
		t.Errorf("amount Ty.Kind = %v, want TyCurrency", field.Ty.Kind)
	}
	if field.Optional {
		t.Error("amount is required, should not be optional")
	}

	norm, err := money.Normalize(field.Example.(string))
	if err != nil {
		t.Fatalf("money.Normalize: %v", err)
	}
	eq, err := money.Equal(norm, "19.99")
	if err != nil {
		t.Fatalf("money.Equal: %v", err)
	}
	if !eq {
		t.Errorf("normalized example %q does not equal 19.99", norm)
	}
}

func TestExtractEnumPreservesRename(t *testing.T) {
	e, ctx := newTestRecordExtractor()
	stringType := &openapi3.Types{"string"}
	schema := &openapi3.Schema{
		Type: stringType,
		Enum: []any{"active", "inactive"},
		Extensions: map[string]any{
			"x-rename": map[string]any{"active": "Enabled"},
		},
	}

	e.Extract("Status", &openapi3.SchemaRef{Value: schema})

	rec, ok := ctx.Spec.Schema("Status")
	if !ok {
		t.Fatal("expected Status schema")
	}
	if rec.Kind != hir.RecordEnum {
		t.Fatalf("Kind = %v, want RecordEnum", rec.Kind)
	}
	found := false
	for _, v := range rec.Variants {
		if v.Value == "active" {
			found = true
			if v.Alias != "Enabled" {
				t.Errorf("alias = %q, want Enabled", v.Alias)
			}
		}
	}
	if !found {
		t.Error("expected active variant")
	}
}
