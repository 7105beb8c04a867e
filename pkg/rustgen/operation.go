package rustgen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/libninjago/libninja/pkg/hir"
	"github.com/libninjago/libninja/pkg/naming"
)

// RequestFileName returns the snake_case source filename an operation's
// request module is written to, under src/request/.
func RequestFileName(op hir.Operation) string {
	return fmt.Sprintf("%s.rs", naming.SanitizeFilename(op.Name))
}

// RenderOperation lowers one hir.Operation into its request module body,
// per spec.md §4.7's Request modules bullet: a {Op}Request struct, an
// optional {Op}Required struct when ShouldPromoteRequired, builder
// methods for optional parameters, a send() adapter, and nothing else —
// the convenience method on the client lives in client.go since it's a
// method of the client Class, not the request module.
func RenderOperation(op hir.Operation) *Tokens {
	t := NewTokens()
	promote := ShouldPromoteRequired(op)
	reqName := naming.SanitizeStruct(op.Name) + "Request"

	renderRequestStruct(t, op, reqName)
	if promote {
		t.Blank()
		renderRequiredStruct(t, op)
	}
	t.Blank()
	renderBuilderMethods(t, op, reqName)
	t.Blank()
	renderSendImpl(t, op, reqName)
	return t
}

func renderRequestStruct(t *Tokens, op hir.Operation, reqName string) {
	// When the parameter-assignment collapse applies (see
	// renderParamAssignment), send() passes the whole request struct to
	// set_query, so it needs to derive Serialize; http_client is skipped
	// since it isn't (and shouldn't be) serializable.
	collapsed := needsQuerySerialize(op)
	if collapsed {
		t.Push("#[derive(Clone, serde::Serialize)]")
	} else {
		t.Push("#[derive(Clone)]")
	}
	t.Pushf("pub struct %s<'a> {", reqName)
	if collapsed {
		t.Push(`    #[serde(skip)]`)
	}
	t.Push("    pub(crate) http_client: &'a super::Client,")
	for _, p := range op.Parameters {
		ident := naming.SanitizeIdent(p.Name)
		ty := OptionalType(RustType(p.Ty), p.Optional)
		if collapsed {
			for _, d := range FieldDecorators(p.Name, ident, hir.HirField{Ty: p.Ty, Optional: p.Optional}) {
				t.Pushf("    %s", d)
			}
		}
		t.Pushf("    pub(crate) %s: %s,", ident, ty)
	}
	t.Push("}")
}

// needsQuerySerialize reports whether every non-path parameter is a
// query parameter, the condition under which renderParamAssignment
// collapses per-field assignment into a single set_query(self) call.
func needsQuerySerialize(op hir.Operation) bool {
	var nonPath []hir.Parameter
	for _, p := range op.Parameters {
		if p.Location != hir.LocationPath {
			nonPath = append(nonPath, p)
		}
	}
	if len(nonPath) == 0 {
		return false
	}
	for _, p := range nonPath {
		if p.Location != hir.LocationQuery {
			return false
		}
	}
	return true
}

func renderRequiredStruct(t *Tokens, op hir.Operation) {
	required := op.RequiredParameters()
	name := naming.SanitizeStruct(op.Name) + "Required"
	hasLifetime := false
	for _, p := range required {
		if p.Ty.Kind == hir.TyString || (p.Ty.Kind == hir.TyArray && p.Ty.Elem != nil && p.Ty.Elem.IsPrimitive()) {
			hasLifetime = true
		}
	}
	if hasLifetime {
		t.Pushf("pub struct %s<'a> {", name)
	} else {
		t.Pushf("pub struct %s {", name)
	}
	for _, p := range required {
		ident := naming.SanitizeIdent(p.Name)
		ty := RustRefType(p.Ty)
		t.Pushf("    pub %s: %s,", ident, ty)
	}
	t.Push("}")
}

func renderBuilderMethods(t *Tokens, op hir.Operation, reqName string) {
	t.Pushf("impl<'a> %s<'a> {", reqName)
	for i, p := range op.OptionalParameters() {
		if i > 0 {
			t.Blank()
		}
		ident := naming.SanitizeIdent(p.Name)
		ty := RustType(p.Ty)
		t.Pushf("    pub fn %s(mut self, %s: %s) -> Self {", ident, ident, ty)
		t.Pushf("        self.%s = Some(%s);", ident, ident)
		t.Push("        self")
		t.Push("    }")
	}
	t.Push("}")
}

var pathPlaceholder = regexp.MustCompile(`\{([_\w]+)\}`)

// InterpolatedPath rewrites every `{fooBar}`-style path placeholder to
// the snake-cased identifier the corresponding Parameter sanitizes to,
// per spec.md §4.7's URL interpolation bullet and the §8 round-trip
// scenario (`/items/{itemId}/subitems/{subItemId}` -> `{item_id}` /
// `{sub_item_id}`).
func InterpolatedPath(path string) string {
	return pathPlaceholder.ReplaceAllStringFunc(path, func(m string) string {
		name := m[1 : len(m)-1]
		return "{" + naming.SanitizeIdent(name) + "}"
	})
}

func renderSendImpl(t *Tokens, op hir.Operation, reqName string) {
	t.Pushf("impl<'a> %s<'a> {", reqName)
	t.Pushf("    pub async fn send(self) -> httpclient::InMemoryResult<%s> {", RustType(op.Ret))
	pathParams := paramsByLocation(op, hir.LocationPath)
	if len(pathParams) == 0 {
		t.Pushf("        let url = %q.to_string();", op.Path)
	} else {
		var args []string
		for _, p := range pathParams {
			ident := naming.SanitizeIdent(p.Name)
			args = append(args, fmt.Sprintf("%s = self.%s", ident, ident))
		}
		t.Pushf("        let url = format!(%q, %s);", InterpolatedPath(op.Path), strings.Join(args, ", "))
	}
	t.Pushf("        let mut r = self.http_client.client.%s(&url);", strings.ToLower(op.Method))
	t.Push("        r = self.http_client.authenticate(r);")
	renderParamAssignment(t, op)
	t.Push("        let res = r.await?;")
	if op.Ret.Kind == hir.TyUnit {
		t.Push("        res.json()?;")
		t.Push("        Ok(())")
	} else {
		t.Push("        res.json()")
	}
	t.Push("    }")
	t.Push("}")
}

func paramsByLocation(op hir.Operation, loc hir.Location) []hir.Parameter {
	var out []hir.Parameter
	for _, p := range op.Parameters {
		if p.Location == loc {
			out = append(out, p)
		}
	}
	return out
}

// renderParamAssignment implements spec.md §4.7's parameter-assignment
// collapse: when every non-path parameter is a query parameter, a single
// "set query from serialized request" call replaces per-field assignment.
func renderParamAssignment(t *Tokens, op hir.Operation) {
	var nonPath []hir.Parameter
	for _, p := range op.Parameters {
		if p.Location != hir.LocationPath {
			nonPath = append(nonPath, p)
		}
	}
	if len(nonPath) == 0 {
		return
	}
	if needsQuerySerialize(op) {
		t.Push("        r = r.set_query(self);")
		return
	}

	for _, p := range nonPath {
		ident := naming.SanitizeIdent(p.Name)
		key := p.Name
		assign := paramAssignStmt(p.Location, key, "v")
		iterable := p.Ty.Kind == hir.TyArray
		valueExpr := "self." + ident
		if p.Optional {
			t.Pushf("        if let Some(ref %s) = self.%s {", "unwrapped", ident)
			valueExpr = "unwrapped"
			if iterable {
				t.Pushf("            for v in %s {", valueExpr)
				t.Pushf("                %s", assign)
				t.Push("            }")
			} else {
				t.Pushf("            %s", paramAssignStmt(p.Location, key, valueExpr))
			}
			t.Push("        }")
		} else if iterable {
			t.Pushf("        for v in &self.%s {", ident)
			t.Pushf("            %s", assign)
			t.Push("        }")
		} else {
			t.Pushf("        %s", paramAssignStmt(p.Location, key, valueExpr))
		}
	}
}

func paramAssignStmt(loc hir.Location, key, valueExpr string) string {
	switch loc {
	case hir.LocationQuery:
		return fmt.Sprintf("r = r.query(%q, &%s.to_string());", key, valueExpr)
	case hir.LocationHeader:
		return fmt.Sprintf("r = r.header(%q, &%s.to_string());", key, valueExpr)
	case hir.LocationCookie:
		return fmt.Sprintf("r = r.cookie(%q, &%s.to_string());", key, valueExpr)
	case hir.LocationBody:
		return fmt.Sprintf("r = r.json(&serde_json::json!({%q: %s}));", key, valueExpr)
	default:
		return ""
	}
}
