package extractor

import (
	"testing"

	"github.com/libninjago/libninja/pkg/hir"
)

func newTestContext() *Context {
	return &Context{Spec: hir.NewHirSpec()}
}

func TestSweepUnreachableDropsUnused(t *testing.T) {
	ctx := newTestContext()
	ctx.Spec.AddSchema(hir.NewStruct("Used", nil))
	ctx.Spec.AddSchema(hir.NewStruct("Unused", nil))
	ctx.Spec.Operations = []hir.Operation{
		{Name: "Get", Ret: hir.Model("Used")},
	}

	p := NewPostProcessor(ctx)
	p.sweepUnreachable()

	if !ctx.Spec.HasSchema("Used") {
		t.Error("Used should survive the sweep")
	}
	if ctx.Spec.HasSchema("Unused") {
		t.Error("Unused should be dropped by the sweep")
	}
}

func TestSweepUnreachableRetainsWebhookSuffix(t *testing.T) {
	ctx := newTestContext()
	ctx.Spec.AddSchema(hir.NewStruct("OrderWebhook", nil))

	p := NewPostProcessor(ctx)
	p.sweepUnreachable()

	if !ctx.Spec.HasSchema("OrderWebhook") {
		t.Error("*Webhook records must always be retained")
	}
}

func TestSweepUnreachableTransitiveChain(t *testing.T) {
	ctx := newTestContext()
	leaf := hir.NewStruct("Leaf", nil)
	mid := hir.NewStruct("Mid", nil)
	mid.SetField("leaf", hir.HirField{Ty: hir.Model("Leaf")})
	ctx.Spec.AddSchema(leaf)
	ctx.Spec.AddSchema(mid)
	ctx.Spec.Operations = []hir.Operation{{Name: "Get", Ret: hir.Model("Mid")}}

	p := NewPostProcessor(ctx)
	p.sweepUnreachable()

	if !ctx.Spec.HasSchema("Leaf") || !ctx.Spec.HasSchema("Mid") {
		t.Error("transitively reachable records must survive")
	}
}

func TestCollapseOptionalAliases(t *testing.T) {
	ctx := newTestContext()
	ctx.Spec.AddSchema(&hir.Record{
		Kind:  hir.RecordTypeAlias,
		Name:  "NullableString",
		Alias: &hir.HirField{Ty: hir.Model("RawString"), Optional: true},
	})
	ctx.Spec.AddSchema(hir.NewStruct("RawString", nil))
	holder := hir.NewStruct("Holder", nil)
	holder.SetField("value", hir.HirField{Ty: hir.Model("NullableString"), Optional: false})
	ctx.Spec.AddSchema(holder)

	p := NewPostProcessor(ctx)
	p.collapseOptionalAliases()

	rec, _ := ctx.Spec.Schema("Holder")
	f, _ := rec.Field("value")
	if f.Ty.ModelName != "RawString" {
		t.Errorf("expected field rewritten to RawString, got %q", f.Ty.ModelName)
	}
	if !f.Optional {
		t.Error("expected field to become optional after collapse")
	}
}

func TestMarkCyclesBoxesSelfReference(t *testing.T) {
	ctx := newTestContext()
	node := hir.NewStruct("Node", nil)
	node.SetField("next", hir.HirField{Ty: hir.Model("Node")})
	ctx.Spec.AddSchema(node)

	p := NewPostProcessor(ctx)
	p.markCycles()

	rec, _ := ctx.Spec.Schema("Node")
	f, _ := rec.Field("next")
	if !f.Boxed {
		t.Error("self-referential field should be marked Boxed")
	}
}
