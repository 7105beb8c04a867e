package rustgen

import (
	"fmt"
	"strings"

	"github.com/libninjago/libninja/pkg/config"
	"github.com/libninjago/libninja/pkg/hir"
	"github.com/libninjago/libninja/pkg/naming"
)

// RenderRecord lowers a single hir.Record into its Rust source module
// body, per spec.md §4.7's Model modules bullet. cfg.Derives lists the
// extra derive identifiers configured for the run (spec.md §6's
// `derives`); cfg.Ormlite/cfg.Fake gate the ormlite/fake-derive feature
// decorators, per spec.md §6's "feature-flag booleans controlling
// extra decorators".
func RenderRecord(rec *hir.Record, cfg config.Client) *Tokens {
	switch rec.Kind {
	case hir.RecordStruct:
		return renderStruct(rec, cfg)
	case hir.RecordNewType:
		return renderNewType(rec, cfg.Derives)
	case hir.RecordEnum:
		return renderEnum(rec, cfg.Derives)
	case hir.RecordTypeAlias:
		return renderTypeAlias(rec)
	default:
		return NewTokens()
	}
}

func renderDoc(t *Tokens, doc *hir.Doc, indent string) {
	if doc == nil || doc.Text == "" {
		return
	}
	for _, line := range strings.Split(doc.Text, "\n") {
		t.Pushf("%s/// %s", indent, line)
	}
}

func allFieldsHaveDefault(rec *hir.Record) bool {
	switch rec.Kind {
	case hir.RecordStruct:
		for _, name := range rec.FieldNames() {
			f, _ := rec.Field(name)
			if !f.Optional {
				return false
			}
		}
		return true
	case hir.RecordNewType:
		for _, f := range rec.NewTypeFields {
			if !f.Optional {
				return false
			}
		}
		return true
	}
	return false
}

// flattenedField returns the unique non-optional Flatten field, if there
// is exactly one, for transparent-dereference lowering.
func flattenedField(rec *hir.Record) (string, hir.HirField, bool) {
	var name string
	var field hir.HirField
	count := 0
	for _, fname := range rec.FieldNames() {
		f, _ := rec.Field(fname)
		if f.Flatten && !f.Optional {
			name, field = fname, f
			count++
		}
	}
	return name, field, count == 1
}

func renderStruct(rec *hir.Record, cfg config.Client) *Tokens {
	t := NewTokens()
	renderDoc(t, rec.Docs, "")

	if cfg.Ormlite {
		t.Push(`#[cfg_attr(feature = "ormlite", derive(ormlite::TableMeta, ormlite::IntoArguments, ormlite::FromRow))]`)
	}
	if cfg.Fake {
		t.Push(`#[cfg_attr(feature = "fake", derive(fake::Dummy))]`)
	}

	allDerives := append([]string{"Debug", "Clone", "PartialEq", "serde::Serialize", "serde::Deserialize"}, cfg.Derives...)
	if allFieldsHaveDefault(rec) {
		allDerives = append(allDerives, "Default")
	}
	t.Pushf("#[derive(%s)]", strings.Join(allDerives, ", "))

	structName := naming.SanitizeStruct(rec.Name)
	t.Pushf("pub struct %s {", structName)
	for _, fieldName := range rec.FieldNames() {
		f, _ := rec.Field(fieldName)
		ident := naming.SanitizeIdent(fieldName)
		renderDoc(t, f.Doc, "    ")
		for _, d := range FieldDecorators(fieldName, ident, f) {
			t.Pushf("    %s", d)
		}
		if cfg.Ormlite && ident != fieldName {
			t.Pushf("    #[cfg_attr(feature = \"ormlite\", ormlite(column = %q))]", fieldName)
		}
		if cfg.Ormlite && f.Ty.Kind == hir.TyModel {
			t.Push(`    #[cfg_attr(feature = "ormlite", ormlite(experimental_encode_as_json))]`)
		}
		ty := RustType(f.Ty)
		if f.Boxed {
			ty = "Box<" + ty + ">"
		}
		ty = OptionalType(ty, f.Optional)
		t.Pushf("    pub %s: %s,", ident, ty)
	}
	t.Push("}")

	if fname, _, ok := flattenedField(rec); ok {
		fieldIdent := naming.SanitizeIdent(fname)
		f, _ := rec.Field(fname)
		target := RustType(f.Ty)
		t.Blank()
		t.Pushf("impl std::ops::Deref for %s {", structName)
		t.Pushf("    type Target = %s;", target)
		t.Pushf("    fn deref(&self) -> &Self::Target {")
		t.Pushf("        &self.%s", fieldIdent)
		t.Push("    }")
		t.Push("}")
	}

	return t
}

func renderNewType(rec *hir.Record, derives []string) *Tokens {
	t := NewTokens()
	renderDoc(t, rec.Docs, "")
	allDerives := append([]string{"Debug", "Clone", "PartialEq", "serde::Serialize", "serde::Deserialize"}, derives...)
	if allFieldsHaveDefault(rec) {
		allDerives = append(allDerives, "Default")
	}
	t.Pushf("#[derive(%s)]", strings.Join(allDerives, ", "))

	var members []string
	for _, f := range rec.NewTypeFields {
		members = append(members, OptionalType(RustType(f.Ty), f.Optional))
	}
	t.Pushf("pub struct %s(pub %s);", naming.SanitizeStruct(rec.Name), strings.Join(members, ", "))
	return t
}

func renderEnum(rec *hir.Record, derives []string) *Tokens {
	t := NewTokens()
	renderDoc(t, rec.Docs, "")
	allDerives := append([]string{"Debug", "Clone", "Copy", "PartialEq", "Eq", "serde::Serialize", "serde::Deserialize"}, derives...)
	t.Pushf("#[derive(%s)]", strings.Join(allDerives, ", "))
	t.Pushf("pub enum %s {", naming.SanitizeStruct(rec.Name))
	for _, v := range rec.Variants {
		ident := naming.SanitizeStruct(v.Value)
		if v.Alias != "" && v.Alias != v.Value {
			t.Pushf("    #[serde(rename = %q)]", v.Value)
			ident = naming.SanitizeStruct(v.Alias)
		} else if v.Value != ident {
			t.Pushf("    #[serde(rename = %q)]", v.Value)
		}
		t.Pushf("    %s,", ident)
	}
	t.Push("}")
	return t
}

func renderTypeAlias(rec *hir.Record) *Tokens {
	t := NewTokens()
	renderDoc(t, rec.Docs, "")
	if rec.Alias == nil {
		return t
	}
	rendered := OptionalType(RustType(rec.Alias.Ty), rec.Alias.Optional)
	t.Pushf("pub type %s = %s;", naming.SanitizeStruct(rec.Name), rendered)
	return t
}

// ModelFileName returns the snake_case source filename a record is
// written to, one file per record under src/model/.
func ModelFileName(rec *hir.Record) string {
	return fmt.Sprintf("%s.rs", naming.SanitizeFilename(rec.Name))
}
