package extractor

import (
	"strings"

	"github.com/libninjago/libninja/pkg/hir"
)

// PostProcessor sanitizes a HirSpec once extraction completes, per
// spec.md §4.4: alias short-circuiting and a two-pass reachability sweep.
type PostProcessor struct {
	ctx *Context
}

// NewPostProcessor constructs a PostProcessor bound to ctx.
func NewPostProcessor(ctx *Context) *PostProcessor {
	return &PostProcessor{ctx: ctx}
}

// Run executes the alias collapse, the cycle marking, and then the
// reachability sweep twice, in that order, mutating p.ctx.Spec in place.
func (p *PostProcessor) Run() (*hir.HirSpec, error) {
	p.collapseOptionalAliases()
	p.markCycles()
	p.sweepUnreachable()
	p.sweepUnreachable() // second pass, per spec.md §4.4 step 2

	return p.ctx.Spec, nil
}

// collapseOptionalAliases implements pass 1: for any TypeAlias(a, field)
// where field.Ty = Model(b) and the alias is marked optional, rewrite
// every field elsewhere whose Ty = Model(a) to instead have Ty = Model(b)
// and Optional = true.
func (p *PostProcessor) collapseOptionalAliases() {
	type rewrite struct{ to string }
	rewrites := map[string]rewrite{}

	for _, rec := range p.ctx.Spec.Schemas() {
		if rec.Kind != hir.RecordTypeAlias || rec.Alias == nil {
			continue
		}
		if !rec.Alias.Optional {
			continue
		}
		if rec.Alias.Ty.Kind != hir.TyModel {
			continue
		}
		rewrites[rec.Name] = rewrite{to: rec.Alias.Ty.ModelName}
	}
	if len(rewrites) == 0 {
		return
	}

	for _, rec := range p.ctx.Spec.Schemas() {
		if rec.Kind != hir.RecordStruct {
			continue
		}
		for _, name := range rec.FieldNames() {
			f, _ := rec.Field(name)
			if f.Ty.Kind != hir.TyModel {
				continue
			}
			if rw, ok := rewrites[f.Ty.ModelName]; ok {
				f.Ty = hir.Model(rw.to)
				f.Optional = true
				rec.SetField(name, f)
			}
		}
	}
}

// markCycles runs a DFS over Record field Model references and marks
// fields on a cycle as Boxed, so backends indirect them (e.g. Box<T> in
// Rust), per spec.md §9's design note.
func (p *PostProcessor) markCycles() {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[string]int{}

	var visit func(name string, path []string)
	visit = func(name string, path []string) {
		if color[name] == black {
			return
		}
		if color[name] == gray {
			return
		}
		color[name] = gray
		rec, ok := p.ctx.Spec.Schema(name)
		if ok && rec.Kind == hir.RecordStruct {
			for _, fname := range rec.FieldNames() {
				f, _ := rec.Field(fname)
				for _, ref := range f.Ty.ModelNames() {
					if color[ref] == gray {
						// cycle found: mark this field boxed
						f.Boxed = true
						rec.SetField(fname, f)
						continue
					}
					visit(ref, append(path, name))
				}
			}
		}
		color[name] = black
	}

	for _, rec := range p.ctx.Spec.Schemas() {
		if color[rec.Name] == white {
			visit(rec.Name, nil)
		}
	}
}

// sweepUnreachable implements pass 2: compute the set of model names
// reachable from any Operation.Ret/Parameter.Ty or any other retained
// Record's fields, and drop everything else. Records named *Webhook are
// always retained.
func (p *PostProcessor) sweepUnreachable() {
	reachable := map[string]bool{}
	var queue []string

	for _, op := range p.ctx.Spec.Operations {
		for _, n := range op.Ret.ModelNames() {
			queue = append(queue, n)
		}
		for _, param := range op.Parameters {
			for _, n := range param.Ty.ModelNames() {
				queue = append(queue, n)
			}
		}
	}
	for _, rec := range p.ctx.Spec.Schemas() {
		if strings.HasSuffix(rec.Name, "Webhook") {
			queue = append(queue, rec.Name)
		}
	}

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if reachable[name] {
			continue
		}
		reachable[name] = true
		rec, ok := p.ctx.Spec.Schema(name)
		if !ok {
			continue
		}
		queue = append(queue, rec.ReferencedModels()...)
	}

	for _, rec := range p.ctx.Spec.Schemas() {
		if !reachable[rec.Name] {
			p.ctx.Spec.RemoveSchema(rec.Name)
		}
	}
}
