package extractor

import (
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/libninjago/libninja/pkg/hir"
	"github.com/libninjago/libninja/pkg/naming"
)

// OperationExtractor synthesizes a hir.Operation for each (path, method,
// operation) tuple, per spec.md §4.3.
type OperationExtractor struct {
	ctx    *Context
	record *RecordExtractor
}

// NewOperationExtractor constructs an OperationExtractor bound to ctx.
func NewOperationExtractor(ctx *Context, record *RecordExtractor) *OperationExtractor {
	return &OperationExtractor{ctx: ctx, record: record}
}

var methodOrder = []struct {
	name string
	get  func(item *openapi3.PathItem) *openapi3.Operation
}{
	{"GET", func(i *openapi3.PathItem) *openapi3.Operation { return i.Get }},
	{"POST", func(i *openapi3.PathItem) *openapi3.Operation { return i.Post }},
	{"PUT", func(i *openapi3.PathItem) *openapi3.Operation { return i.Put }},
	{"PATCH", func(i *openapi3.PathItem) *openapi3.Operation { return i.Patch }},
	{"DELETE", func(i *openapi3.PathItem) *openapi3.Operation { return i.Delete }},
	{"OPTIONS", func(i *openapi3.PathItem) *openapi3.Operation { return i.Options }},
	{"HEAD", func(i *openapi3.PathItem) *openapi3.Operation { return i.Head }},
	{"TRACE", func(i *openapi3.PathItem) *openapi3.Operation { return i.Trace }},
}

// ExtractAll walks every path item in the document and appends one
// Operation per defined method, in deterministic (path, method) order.
func (e *OperationExtractor) ExtractAll() {
	if e.ctx.Doc.Paths == nil {
		return
	}
	paths := make([]string, 0)
	for path := range e.ctx.Doc.Paths.Map() {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		item := e.ctx.Doc.Paths.Map()[path]
		for _, m := range methodOrder {
			op := m.get(item)
			if op == nil {
				continue
			}
			e.Extract(path, m.name, op, item)
		}
	}
}

// Extract implements the contract: extract(path, method, operation,
// path_item, spec) -> appends Operation to HirSpec.
func (e *OperationExtractor) Extract(path, method string, op *openapi3.Operation, item *openapi3.PathItem) {
	rawName := makeName(op.OperationID, method, path)
	name := naming.SanitizeStruct(rawName)
	doc := extractDoc(op)
	params := e.collectParameters(op, item)
	ret := e.extractReturnType(name, op)

	e.ctx.Spec.Operations = append(e.ctx.Spec.Operations, hir.Operation{
		Name:       name,
		Doc:        doc,
		Parameters: params,
		Ret:        ret,
		Path:       path,
		Method:     method,
		Deprecated: op.Deprecated,
	})
}

// makeName implements spec.md §4.3 step 1.
func makeName(operationID, method, path string) string {
	if operationID != "" {
		return strings.ReplaceAll(operationID, ".", "_")
	}
	segments := strings.Split(path, "/")
	names := make([]string, 0, len(segments))
	for _, s := range segments {
		if s == "" || strings.HasPrefix(s, "{") {
			continue
		}
		names = append(names, s)
	}

	var lastGroup string
	var lastParam string
	for _, s := range segments {
		if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
			lastParam = s[1 : len(s)-1]
		}
	}
	if lastParam != "" {
		param := lastParam
		if len(names) > 0 {
			last := names[len(names)-1]
			if strings.HasPrefix(param, last) && len(param) > len(last) {
				param = param[len(last)+1:]
			}
		}
		lastGroup = "_by_" + param
	}

	return strings.ToLower(method) + strings.Join(prefixEach(names, "_"), "") + lastGroup
}

func prefixEach(ss []string, sep string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = sep + s
	}
	return out
}

func extractDoc(op *openapi3.Operation) *hir.Doc {
	var pieces []string
	if op.Summary != "" {
		pieces = append(pieces, op.Summary)
	}
	if op.Description != "" && op.Description != op.Summary {
		pieces = append(pieces, op.Description)
	}
	if op.ExternalDocs != nil && op.ExternalDocs.URL != "" {
		pieces = append(pieces, "See endpoint docs at <"+op.ExternalDocs.URL+">.")
	}
	if len(pieces) == 0 {
		return nil
	}
	return &hir.Doc{Text: strings.Join(pieces, "\n\n")}
}

// collectParameters implements spec.md §4.3 step 2.
func (e *OperationExtractor) collectParameters(op *openapi3.Operation, item *openapi3.PathItem) []hir.Parameter {
	var out []hir.Parameter
	seen := map[string]bool{}

	for _, pr := range op.Parameters {
		if p := e.extractParam(pr); p != nil {
			out = append(out, *p)
			seen[p.Name] = true
		}
	}
	for _, pr := range item.Parameters {
		if p := e.extractParam(pr); p != nil && !seen[p.Name] {
			out = append(out, *p)
			seen[p.Name] = true
		}
	}

	out = append(out, e.extractBodyParameters(op)...)

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (e *OperationExtractor) extractParam(pr *openapi3.ParameterRef) *hir.Parameter {
	if pr == nil || pr.Value == nil {
		return nil
	}
	p := pr.Value
	loc, ok := paramLocation(p.In)
	if !ok {
		return nil
	}
	ty := e.ctx.Resolver().Resolve(p.Schema)
	return &hir.Parameter{
		Name:     p.Name,
		Ty:       ty,
		Location: loc,
		Optional: loc != hir.LocationPath && !p.Required,
		Doc:      docText(p.Description),
		Example:  p.Example,
	}
}

func paramLocation(in string) (hir.Location, bool) {
	switch in {
	case openapi3.ParameterInPath:
		return hir.LocationPath, true
	case openapi3.ParameterInQuery:
		return hir.LocationQuery, true
	case openapi3.ParameterInHeader:
		return hir.LocationHeader, true
	case openapi3.ParameterInCookie:
		return hir.LocationCookie, true
	default:
		return "", false
	}
}

func docText(s string) *hir.Doc {
	if s == "" {
		return nil
	}
	return &hir.Doc{Text: s}
}

// extractBodyParameters implements the JSON-media-type body flattening
// rule: an array body becomes a single "body" Parameter; an object body
// is flattened into one Parameter per property; any other body becomes a
// single Any "body" Parameter.
func (e *OperationExtractor) extractBodyParameters(op *openapi3.Operation) []hir.Parameter {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	rb := op.RequestBody.Value
	media, ok := rb.Content["application/json"]
	if !ok {
		if len(rb.Content) > 0 {
			e.ctx.Warn(op.OperationID, "non-JSON request body media type, emitting Any body parameter")
		}
		return []hir.Parameter{{Name: "body", Ty: hir.Any(), Location: hir.LocationBody, Optional: !rb.Required}}
	}
	if media.Schema == nil {
		return nil
	}
	if media.Schema.Ref != "" || media.Schema.Value == nil {
		ty := e.ctx.Resolver().Resolve(media.Schema)
		return []hir.Parameter{{Name: "body", Ty: ty, Location: hir.LocationBody, Optional: !rb.Required}}
	}
	s := media.Schema.Value
	if s.Type != nil && s.Type.Is(openapi3.TypeArray) {
		itemTy := e.ctx.Resolver().Resolve(s.Items)
		return []hir.Parameter{{Name: "body", Ty: hir.Array(itemTy), Location: hir.LocationBody, Optional: !rb.Required}}
	}
	if s.Type != nil && s.Type.Is(openapi3.TypeObject) && len(s.Properties) > 0 {
		var params []hir.Parameter
		for _, propName := range sortedKeys(s.Properties) {
			propSr := s.Properties[propName]
			ty := e.ctx.Resolver().Resolve(propSr)
			required := contains(s.Required, propName)
			params = append(params, hir.Parameter{
				Name:     propName,
				Ty:       ty,
				Location: hir.LocationBody,
				Optional: !required,
				Doc:      docFromSchemaRef(propSr),
				Example:  exampleFromSchemaRef(propSr),
			})
		}
		return params
	}
	return []hir.Parameter{{Name: "body", Ty: hir.Any(), Location: hir.LocationBody, Optional: !rb.Required}}
}

// responsePriority is the fixed order in which status codes are tried
// when selecting an operation's return type, per spec.md §4.3 step 3.
var responsePriority = []string{"200", "201", "202", "204", "302"}

// extractReturnType implements spec.md §4.3 step 3.
func (e *OperationExtractor) extractReturnType(opName string, op *openapi3.Operation) hir.Ty {
	if op.Responses == nil {
		return hir.Unit()
	}
	m := op.Responses.Map()
	for _, code := range responsePriority {
		rr, ok := m[code]
		if !ok || rr == nil || rr.Value == nil {
			continue
		}
		if code == "204" {
			return hir.Unit()
		}
		if rr.Ref != "" {
			return e.ctx.Resolver().Resolve(&openapi3.SchemaRef{Ref: rr.Ref})
		}
		media, ok := rr.Value.Content["application/json"]
		if !ok || media.Schema == nil {
			continue
		}
		return e.returnTypeFromSchema(opName, media.Schema)
	}
	return hir.Unit()
}

func (e *OperationExtractor) returnTypeFromSchema(opName string, sr *openapi3.SchemaRef) hir.Ty {
	if sr.Ref != "" {
		return e.ctx.Resolver().Resolve(sr)
	}
	if sr.Value == nil {
		return hir.Unit()
	}
	s := sr.Value
	if s.Type != nil && s.Type.Is(openapi3.TypeObject) && len(s.Properties) > 0 {
		name := opName + "Response"
		e.record.extractInline(name, s, extractAnnotations(sr))
		return hir.Model(name)
	}
	ty := e.ctx.Resolver().Resolve(sr)
	if ty.Kind == hir.TyAny && s.Type != nil && s.Type.Is(openapi3.TypeArray) {
		return hir.Array(e.ctx.Resolver().Resolve(s.Items))
	}
	return ty
}
