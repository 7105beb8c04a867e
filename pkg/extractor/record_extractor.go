package extractor

import (
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/libninjago/libninja/pkg/hir"
	"github.com/libninjago/libninja/pkg/naming"
)

// RecordExtractor turns named and anonymous schemas into hir.Records,
// inserting them into the shared Context's HirSpec (possibly recursively
// inserting nested records first), per spec.md §4.2.
type RecordExtractor struct {
	ctx *Context
}

// NewRecordExtractor constructs a RecordExtractor bound to ctx.
func NewRecordExtractor(ctx *Context) *RecordExtractor {
	return &RecordExtractor{ctx: ctx}
}

// Extract implements the contract: extract(name, schema, spec) -> inserts
// one Record into HirSpec.Schemas (possibly recursively inserting nested
// records first).
func (e *RecordExtractor) Extract(name string, sr *openapi3.SchemaRef) {
	if e.ctx.Spec.HasSchema(name) {
		return
	}
	if sr == nil {
		return
	}
	if sr.Ref != "" {
		// A components.schemas entry that is itself just a $ref: model it
		// as a direct alias, not optional.
		target := e.ctx.Resolver().Resolve(sr)
		e.ctx.Spec.AddSchema(&hir.Record{
			Kind:  hir.RecordTypeAlias,
			Name:  name,
			Alias: &hir.HirField{Ty: target},
		})
		return
	}
	if sr.Value == nil {
		return
	}
	e.extractInline(name, sr.Value, extractAnnotations(sr))
}

func (e *RecordExtractor) extractInline(name string, s *openapi3.Schema, docs *hir.Doc) {
	switch {
	case s.Type != nil && s.Type.Is(openapi3.TypeObject) && len(s.Properties) > 0:
		e.extractStruct(name, s, docs)

	case s.Type != nil && s.Type.Is(openapi3.TypeObject) && len(s.Properties) == 0 && s.AdditionalProperties.Schema != nil:
		valTy := e.resolveNestedTy(name, "Properties", s.AdditionalProperties.Schema)
		e.ctx.Spec.AddSchema(&hir.Record{
			Kind:  hir.RecordTypeAlias,
			Name:  name,
			Docs:  docs,
			Alias: &hir.HirField{Ty: hir.HashMap(valTy)},
		})

	case s.Type != nil && s.Type.Is(openapi3.TypeString) && len(s.Enum) > 0:
		e.extractEnum(name, s, docs)

	case len(s.AllOf) > 0:
		e.extractAllOf(name, s, docs)

	case s.Type != nil && s.Type.Is(openapi3.TypeArray):
		e.extractTopLevelArray(name, s, docs)

	default:
		e.extractFallbackNewType(name, s, docs)
	}
}

// extractStruct implements classification rule 1.
func (e *RecordExtractor) extractStruct(name string, s *openapi3.Schema, docs *hir.Doc) {
	rec := hir.NewStruct(name, docs)
	rec.Nullable = s.Nullable
	// Placeholder inserted first so self-referential properties (direct
	// recursion) resolve to a Model whose Record already exists.
	e.ctx.Spec.AddSchema(rec)

	for _, propName := range sortedKeys(s.Properties) {
		propSr := s.Properties[propName]
		fieldTy := e.resolveNestedTy(name, propName, propSr)
		required := contains(s.Required, propName)
		rec.SetField(propName, hir.HirField{
			Ty:       fieldTy,
			Optional: s.Nullable || !required,
			Doc:      docFromSchemaRef(propSr),
			Example:  exampleFromSchemaRef(propSr),
		})
	}
}

// extractEnum implements classification rule 3, including the x-rename
// extension for variant aliases.
func (e *RecordExtractor) extractEnum(name string, s *openapi3.Schema, docs *hir.Doc) {
	aliases := enumAliases(s)
	variants := make([]hir.EnumVariant, 0, len(s.Enum))
	for _, raw := range s.Enum {
		v := toStringValue(raw)
		variants = append(variants, hir.EnumVariant{Value: v, Alias: aliases[v]})
	}
	e.ctx.Spec.AddSchema(&hir.Record{
		Kind:     hir.RecordEnum,
		Name:     name,
		Docs:     docs,
		Variants: variants,
	})
}

func enumAliases(s *openapi3.Schema) map[string]string {
	out := map[string]string{}
	raw, ok := s.Extensions["x-rename"]
	if !ok {
		return out
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return out
	}
	for k, v := range m {
		if sv, ok := v.(string); ok {
			out[k] = sv
		}
	}
	return out
}

// extractAllOf implements classification rule 4.
func (e *RecordExtractor) extractAllOf(name string, s *openapi3.Schema, docs *hir.Doc) {
	effective := effectiveBranches(s.AllOf)
	if len(effective) == 1 {
		ty := e.resolveNestedTy(name, "", effective[0])
		e.ctx.Spec.AddSchema(&hir.Record{
			Kind:  hir.RecordTypeAlias,
			Name:  name,
			Docs:  docs,
			Alias: &hir.HirField{Ty: ty},
		})
		return
	}

	rec := hir.NewStruct(name, docs)
	e.ctx.Spec.AddSchema(rec)

	for _, branch := range effective {
		if branch.Ref != "" {
			refName := refName(branch.Ref)
			rec.SetField(refName, hir.HirField{
				Ty:       hir.Model(refName),
				Optional: false,
				Flatten:  true,
			})
			continue
		}
		if branch.Value == nil {
			continue
		}
		b := branch.Value
		for _, propName := range sortedKeys(b.Properties) {
			propSr := b.Properties[propName]
			fieldTy := e.resolveNestedTy(name, propName, propSr)
			required := contains(b.Required, propName)
			iterable := fieldTy.Kind == hir.TyArray || fieldTy.Kind == hir.TyHashMap
			rec.SetField(propName, hir.HirField{
				Ty:       fieldTy,
				Optional: !required && !iterable,
				Doc:      docFromSchemaRef(propSr),
				Example:  exampleFromSchemaRef(propSr),
			})
		}
	}
}

// extractTopLevelArray implements classification rule 5: synthesize an
// auxiliary named record for the element type, then alias name to
// Array(Model(elementName)).
func (e *RecordExtractor) extractTopLevelArray(name string, s *openapi3.Schema, docs *hir.Doc) {
	// Resolving the array schema itself (not just its items) names an
	// inline element record through AnonymousArrayItemName, so the
	// element record never takes the alias's own name.
	arrTy := e.resolveNestedTy(name, "", &openapi3.SchemaRef{Value: s})
	e.ctx.Spec.AddSchema(&hir.Record{
		Kind:  hir.RecordTypeAlias,
		Name:  name,
		Docs:  docs,
		Alias: &hir.HirField{Ty: arrTy},
	})
}

// extractFallbackNewType implements classification rule 6.
func (e *RecordExtractor) extractFallbackNewType(name string, s *openapi3.Schema, docs *hir.Doc) {
	sr := &openapi3.SchemaRef{Value: s}
	ty := e.ctx.Resolver().Resolve(sr)
	optional := s.Nullable
	e.ctx.Spec.AddSchema(&hir.Record{
		Kind: hir.RecordNewType,
		Name: name,
		Docs: docs,
		NewTypeFields: []hir.HirField{
			{Ty: ty, Optional: optional},
		},
	})
}

// resolveNestedTy resolves a property/item schema that may need a
// synthesized name (nested inline object, nested inline enum, or an
// array whose items need one). parentName/propName follow the teacher's
// "{Parent}_{Prop}" naming convention; SanitizeStruct later collapses the
// underscore the same way it collapses any other word boundary.
func (e *RecordExtractor) resolveNestedTy(parentName, propName string, sr *openapi3.SchemaRef) hir.Ty {
	if sr == nil {
		return hir.Any()
	}
	if sr.Ref != "" {
		return e.ctx.Resolver().Resolve(sr)
	}
	if sr.Value == nil {
		return hir.Any()
	}
	s := sr.Value

	base := parentName
	if propName != "" {
		base = base + "_" + propName
	}

	switch {
	case s.Type != nil && s.Type.Is(openapi3.TypeObject) && len(s.Properties) > 0:
		name := e.uniqueName(base)
		e.extractInline(name, s, extractAnnotations(sr))
		return hir.Model(name)

	case s.Type != nil && s.Type.Is(openapi3.TypeString) && len(s.Enum) > 0:
		name := e.uniqueName(base)
		e.extractEnum(name, s, extractAnnotations(sr))
		return hir.Model(name)

	case s.Type != nil && s.Type.Is(openapi3.TypeArray):
		if s.Items != nil && s.Items.Ref == "" && s.Items.Value != nil {
			iv := s.Items.Value
			if len(iv.Enum) > 0 && iv.Type != nil && iv.Type.Is(openapi3.TypeString) {
				itemName, ok := naming.AnonymousArrayItemName(base, "", e.taken)
				if ok {
					e.extractEnum(itemName, iv, extractAnnotations(s.Items))
					return hir.Array(hir.Model(itemName))
				}
				e.ctx.Warn(base, "anonymous enum array item name collision, falling back to Any")
				return hir.Array(hir.Any())
			}
			if iv.Type != nil && iv.Type.Is(openapi3.TypeObject) && len(iv.Properties) > 0 {
				itemName, ok := naming.AnonymousArrayItemName(base, "", e.taken)
				if !ok {
					e.ctx.Warn(base, "anonymous array item name collision, falling back to Any")
					return hir.Array(hir.Any())
				}
				e.extractInline(itemName, iv, extractAnnotations(s.Items))
				return hir.Array(hir.Model(itemName))
			}
		}
		return hir.Array(e.resolveNestedTy(base, "Item", s.Items))

	case s.Type != nil && s.Type.Is(openapi3.TypeObject) && len(s.Properties) == 0 && s.AdditionalProperties.Schema != nil:
		return hir.HashMap(e.resolveNestedTy(base, "Properties", s.AdditionalProperties.Schema))

	default:
		return e.ctx.Resolver().Resolve(sr)
	}
}

func (e *RecordExtractor) uniqueName(base string) string {
	name := naming.SanitizeStruct(base)
	if !e.taken(name) {
		return name
	}
	for i := 2; ; i++ {
		candidate := name + itoa(i)
		if !e.taken(candidate) {
			return candidate
		}
	}
}

func (e *RecordExtractor) taken(name string) bool {
	return e.ctx.Spec.HasSchema(name)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}

func sortedKeys(m map[string]*openapi3.SchemaRef) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func contains(list []string, target string) bool {
	for _, s := range list {
		if s == target {
			return true
		}
	}
	return false
}

func toStringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func docFromSchemaRef(sr *openapi3.SchemaRef) *hir.Doc {
	if sr == nil || sr.Value == nil || sr.Value.Description == "" {
		return nil
	}
	return &hir.Doc{Text: sr.Value.Description}
}

func exampleFromSchemaRef(sr *openapi3.SchemaRef) any {
	if sr == nil || sr.Value == nil {
		return nil
	}
	return sr.Value.Example
}

func extractAnnotations(sr *openapi3.SchemaRef) *hir.Doc {
	if sr == nil || sr.Value == nil {
		return nil
	}
	text := sr.Value.Description
	if text == "" {
		text = sr.Value.Title
	}
	if text == "" {
		return nil
	}
	return &hir.Doc{Text: text}
}
