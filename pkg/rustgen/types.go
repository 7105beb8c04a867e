package rustgen

import (
	"fmt"

	"github.com/libninjago/libninja/pkg/hir"
	"github.com/libninjago/libninja/pkg/naming"
)

// RustType renders a hir.Ty as the Rust type expression used in owned
// (struct-field) position. Optional wrapping is applied by the caller,
// since a Field's optionality and its Ty are tracked separately in HIR.
func RustType(ty hir.Ty) string {
	switch ty.Kind {
	case hir.TyString:
		return "String"
	case hir.TyFloat:
		return "f64"
	case hir.TyBoolean:
		return "bool"
	case hir.TyUnit:
		return "()"
	case hir.TyAny:
		return "serde_json::Value"
	case hir.TyDateTime:
		return "chrono::DateTime<chrono::Utc>"
	case hir.TyDate:
		switch ty.DateSerialization {
		case hir.DateInteger:
			return "i64"
		default:
			return "chrono::NaiveDate"
		}
	case hir.TyInteger:
		switch ty.IntegerSerialization {
		case hir.IntString, hir.IntNullAsZero:
			return "i64"
		default:
			return "i64"
		}
	case hir.TyCurrency:
		return "rust_decimal::Decimal"
	case hir.TyArray:
		return "Vec<" + RustType(*ty.Elem) + ">"
	case hir.TyHashMap:
		return "std::collections::HashMap<String, " + RustType(*ty.Elem) + ">"
	case hir.TyModel:
		return naming.SanitizeStruct(ty.ModelName)
	default:
		return "serde_json::Value"
	}
}

// RustRefType renders ty in borrowed position for a lifetime-parameterized
// required-struct, per spec.md §9's reference-type mapping: String -> &str,
// Array(T) -> &[T] when T is a value type, everything else owned.
func RustRefType(ty hir.Ty) string {
	switch ty.Kind {
	case hir.TyString:
		return "&'a str"
	case hir.TyArray:
		if ty.Elem != nil && ty.Elem.IsPrimitive() {
			return "&'a [" + RustType(*ty.Elem) + "]"
		}
		return RustType(ty)
	default:
		return RustType(ty)
	}
}

// OptionalType wraps ty in Option<...> when optional is true.
func OptionalType(rendered string, optional bool) string {
	if !optional {
		return rendered
	}
	return "Option<" + rendered + ">"
}

// FieldDecorators computes the serde (and, when enabled, ormlite/fake)
// attribute lines for a struct field, per spec.md §4.7's Model modules
// bullet: rename when the identifier was sanitized away from the source
// name, skip-if-none for optional fields, skip-if-empty for iterables,
// flatten for Flatten fields, and codec attributes for the serialization
// tags carried on Ty.
func FieldDecorators(sourceName, ident string, f hir.HirField) []string {
	var out []string
	if sourceName != ident {
		out = append(out, fmt.Sprintf(`#[serde(rename = %q)]`, sourceName))
	}
	if f.Flatten {
		out = append(out, `#[serde(flatten)]`)
	} else if f.Optional {
		out = append(out, `#[serde(skip_serializing_if = "Option::is_none")]`)
	} else if f.Ty.Kind == hir.TyArray {
		out = append(out, `#[serde(skip_serializing_if = "Vec::is_empty", default)]`)
	} else if f.Ty.Kind == hir.TyHashMap {
		out = append(out, `#[serde(skip_serializing_if = "std::collections::HashMap::is_empty", default)]`)
	}
	out = append(out, codecAttributes(f.Ty, f.Optional)...)
	return out
}

// codecAttributes chooses the custom `with` module for a field's wire
// serialization tag, per spec.md §4.7. Optional fields serialize as
// Option<T> (see OptionalType), so they need the "option_"-prefixed
// sibling module that knows how to round-trip None, grounded on
// original_source/libninja/src/rust/serde.rs's
// option_i64_null_as_zero/option_chrono_naive_date_as_int/
// option_decimal_as_str split between plain and Option-shaped codecs.
func codecAttributes(ty hir.Ty, optional bool) []string {
	prefix := ""
	if optional {
		prefix = "option_"
	}
	switch ty.Kind {
	case hir.TyInteger:
		switch ty.IntegerSerialization {
		case hir.IntString:
			return []string{fmt.Sprintf(`#[serde(with = "crate::serde::%sinteger_as_string")]`, prefix)}
		case hir.IntNullAsZero:
			return []string{fmt.Sprintf(`#[serde(with = "crate::serde::%snull_as_zero")]`, prefix)}
		}
	case hir.TyDate:
		if ty.DateSerialization == hir.DateInteger {
			return []string{fmt.Sprintf(`#[serde(with = "crate::serde::%sdate_as_integer")]`, prefix)}
		}
	case hir.TyCurrency:
		if ty.CurrencySerialization == hir.CurrencyString {
			if optional {
				return []string{`#[serde(with = "rust_decimal::serde::str_option")]`}
			}
			return []string{`#[serde(with = "rust_decimal::serde::str")]`}
		}
	}
	return nil
}
