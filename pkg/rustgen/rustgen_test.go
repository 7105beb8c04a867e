package rustgen

import (
	"fmt"
	"strings"
	"testing"

	"github.com/libninjago/libninja/pkg/config"
	"github.com/libninjago/libninja/pkg/hir"
)

func TestInterpolatedPathRewritesToSnakeCase(t *testing.T) {
	got := InterpolatedPath("/items/{itemId}/subitems/{subItemId}")
	want := "/items/{item_id}/subitems/{sub_item_id}"
	if got != want {
		t.Errorf("InterpolatedPath = %q, want %q", got, want)
	}
}

func TestRenderStructAllOfFlattenOptionality(t *testing.T) {
	rec := hir.NewStruct("Person", nil)
	rec.SetField("base", hir.HirField{Ty: hir.Model("Identity"), Flatten: true, Optional: false})
	rec.SetField("eye_color", hir.HirField{Ty: hir.String(), Optional: false})
	rec.SetField("weight", hir.HirField{Ty: hir.Integer(hir.IntSimple), Optional: true})

	out := RenderRecord(rec, config.Client{}).String()
	if !strings.Contains(out, "pub eye_color: String,") {
		t.Errorf("expected required field unwrapped, got:\n%s", out)
	}
	if !strings.Contains(out, "pub weight: Option<i64>,") {
		t.Errorf("expected optional field wrapped in Option, got:\n%s", out)
	}
	if !strings.Contains(out, "#[serde(flatten)]") {
		t.Errorf("expected flatten decorator, got:\n%s", out)
	}
}

func TestRenderEnumPreservesVariantOrder(t *testing.T) {
	rec := &hir.Record{
		Kind: hir.RecordEnum,
		Name: "Status",
		Variants: []hir.EnumVariant{
			{Value: "active"},
			{Value: "inactive"},
			{Value: "pending"},
		},
	}
	out := RenderRecord(rec, config.Client{}).String()
	ia := strings.Index(out, "Active")
	ib := strings.Index(out, "Inactive")
	ip := strings.Index(out, "Pending")
	if !(ia < ib && ib < ip) {
		t.Errorf("expected variants in source order, got:\n%s", out)
	}
}

func TestRustTypeCurrencyString(t *testing.T) {
	ty := hir.Currency(hir.CurrencyString)
	if RustType(ty) != "rust_decimal::Decimal" {
		t.Errorf("RustType(Currency) = %q", RustType(ty))
	}
}

func opWithRequiredParams(n int) hir.Operation {
	op := hir.Operation{Name: "get_widget", Method: "GET", Path: "/widgets", Ret: hir.Unit()}
	for i := 0; i < n; i++ {
		op.Parameters = append(op.Parameters, hir.Parameter{
			Name: fmt.Sprintf("field_%d", i), Ty: hir.String(), Location: hir.LocationQuery,
		})
	}
	return op
}

func TestRenderOperationPromotesRequiredStruct(t *testing.T) {
	op := opWithRequiredParams(4)
	out := RenderOperation(op).String()
	if !strings.Contains(out, "pub struct GetWidgetRequest") {
		t.Errorf("expected GetWidgetRequest, got:\n%s", out)
	}
	if !strings.Contains(out, "pub struct GetWidgetRequired") {
		t.Errorf("expected GetWidgetRequired promoted struct, got:\n%s", out)
	}
}

func TestRenderOperationSkipsPromotionAtThreshold(t *testing.T) {
	op := opWithRequiredParams(3)
	out := RenderOperation(op).String()
	if strings.Contains(out, "Required") {
		t.Errorf("did not expect a promoted struct for 3 required params, got:\n%s", out)
	}
}

func TestBaseURLExprZeroServers(t *testing.T) {
	spec := hir.NewHirSpec()
	got := baseURLExpr(spec, "Acme")
	if !strings.Contains(got, `std::env::var("ACME_BASE_URL")`) {
		t.Errorf("expected ACME_BASE_URL lookup, got %q", got)
	}
}

func TestBaseURLExprSingleServer(t *testing.T) {
	spec := hir.NewHirSpec()
	spec.Servers[""] = "https://api.acme.test"
	got := baseURLExpr(spec, "Acme")
	if !strings.Contains(got, `"https://api.acme.test".to_string()`) {
		t.Errorf("expected hardcoded URL, got %q", got)
	}
}

func TestBaseURLExprManyServers(t *testing.T) {
	spec := hir.NewHirSpec()
	spec.Servers["production"] = "https://api.acme.test"
	spec.Servers["sandbox"] = "https://sandbox.acme.test"
	got := baseURLExpr(spec, "Acme")
	if !strings.Contains(got, `crate::server_url_from_env("ACME_ENV")`) {
		t.Errorf("expected ACME_ENV lookup, got %q", got)
	}

	out := renderServerURLFromEnv(spec).String()
	if !strings.Contains(out, `"production" => "https://api.acme.test".to_string()`) {
		t.Errorf("expected production match arm, got:\n%s", out)
	}
	if !strings.Contains(out, `"sandbox" => "https://sandbox.acme.test".to_string()`) {
		t.Errorf("expected sandbox match arm, got:\n%s", out)
	}
}

func TestNeededCodecsAndSerdeModule(t *testing.T) {
	spec := hir.NewHirSpec()
	rec := hir.NewStruct("Order", nil)
	rec.SetField("external_id", hir.HirField{Ty: hir.Integer(hir.IntString), Optional: false})
	rec.SetField("legacy_id", hir.HirField{Ty: hir.Integer(hir.IntNullAsZero), Optional: true})
	spec.AddSchema(rec)

	codecs := neededCodecs(spec)
	want := []string{"integer_as_string", "option_null_as_zero"}
	if len(codecs) != len(want) {
		t.Fatalf("neededCodecs = %v, want %v", codecs, want)
	}
	for i, c := range want {
		if codecs[i] != c {
			t.Errorf("codecs[%d] = %q, want %q", i, codecs[i], c)
		}
	}

	out := renderSerdeModule(codecs)
	if !strings.Contains(out, "pub mod integer_as_string {") {
		t.Errorf("expected integer_as_string module, got:\n%s", out)
	}
	if !strings.Contains(out, "pub mod option_null_as_zero {") {
		t.Errorf("expected option_null_as_zero module, got:\n%s", out)
	}
}

func TestRenderStructOrmliteAndFakeDecorators(t *testing.T) {
	rec := hir.NewStruct("Widget", nil)
	rec.SetField("widget-id", hir.HirField{Ty: hir.String(), Optional: false})
	rec.SetField("parent", hir.HirField{Ty: hir.Model("Widget"), Optional: true})

	out := RenderRecord(rec, config.Client{Ormlite: true, Fake: true}).String()
	if !strings.Contains(out, `derive(ormlite::TableMeta, ormlite::IntoArguments, ormlite::FromRow)`) {
		t.Errorf("expected ormlite table derive, got:\n%s", out)
	}
	if !strings.Contains(out, `derive(fake::Dummy)`) {
		t.Errorf("expected fake::Dummy derive, got:\n%s", out)
	}
	if !strings.Contains(out, `ormlite(column = "widget-id")`) {
		t.Errorf("expected ormlite column rename, got:\n%s", out)
	}
	if !strings.Contains(out, `ormlite(experimental_encode_as_json)`) {
		t.Errorf("expected ormlite json encoding for model field, got:\n%s", out)
	}
}

func TestRenderStructSkipsOrmliteFakeWhenDisabled(t *testing.T) {
	rec := hir.NewStruct("Widget", nil)
	rec.SetField("name", hir.HirField{Ty: hir.String(), Optional: false})
	out := RenderRecord(rec, config.Client{}).String()
	if strings.Contains(out, "ormlite") || strings.Contains(out, "fake::Dummy") {
		t.Errorf("expected no ormlite/fake decorators when disabled, got:\n%s", out)
	}
}

func TestRenderOperationDerivesSerializeForCollapsedQuery(t *testing.T) {
	op := hir.Operation{Name: "list_widgets", Method: "GET", Path: "/widgets", Ret: hir.Unit()}
	op.Parameters = append(op.Parameters, hir.Parameter{Name: "page", Ty: hir.Integer(hir.IntSimple), Location: hir.LocationQuery})
	out := RenderOperation(op).String()
	if !strings.Contains(out, "derive(Clone, serde::Serialize)") {
		t.Errorf("expected Serialize derive for all-query request struct, got:\n%s", out)
	}
	if !strings.Contains(out, `#[serde(skip)]`) {
		t.Errorf("expected http_client field to be skipped, got:\n%s", out)
	}
	if !strings.Contains(out, "r.set_query(self)") {
		t.Errorf("expected collapsed set_query call, got:\n%s", out)
	}
}

func TestRenderOperationNoSerializeForMixedLocations(t *testing.T) {
	op := hir.Operation{Name: "update_widget", Method: "PUT", Path: "/widgets/{id}", Ret: hir.Unit()}
	op.Parameters = append(op.Parameters,
		hir.Parameter{Name: "id", Ty: hir.String(), Location: hir.LocationPath},
		hir.Parameter{Name: "name", Ty: hir.String(), Location: hir.LocationBody},
	)
	out := RenderOperation(op).String()
	if strings.Contains(out, "serde::Serialize") {
		t.Errorf("did not expect Serialize derive for mixed-location request, got:\n%s", out)
	}
}

func TestRenderAuthenticationNoOpWhenNoStrategies(t *testing.T) {
	out := RenderAuthentication("Acme", nil).String()
	if !strings.Contains(out, "pub(crate) fn authenticate") {
		t.Errorf("expected a no-op authenticate method even with no auth strategies, got:\n%s", out)
	}
	if strings.Contains(out, "pub enum Authentication") {
		t.Errorf("did not expect an Authentication enum with no strategies, got:\n%s", out)
	}
}

func TestFieldDecoratorsRequiredHashMapUsesHashMapIsEmpty(t *testing.T) {
	f := hir.HirField{Ty: hir.HashMap(hir.String()), Optional: false}
	decorators := FieldDecorators("metadata", "metadata", f)
	found := false
	for _, d := range decorators {
		if strings.Contains(d, "Vec::is_empty") {
			t.Errorf("HashMap field must not use Vec::is_empty, got %v", decorators)
		}
		if strings.Contains(d, `skip_serializing_if = "std::collections::HashMap::is_empty"`) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected HashMap::is_empty skip predicate, got %v", decorators)
	}
}

func TestFieldDecoratorsRenameOnSanitize(t *testing.T) {
	f := hir.HirField{Ty: hir.String(), Optional: false}
	decorators := FieldDecorators("user-id", "user_id", f)
	found := false
	for _, d := range decorators {
		if strings.Contains(d, `rename = "user-id"`) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected rename decorator for sanitized field, got %v", decorators)
	}
}
