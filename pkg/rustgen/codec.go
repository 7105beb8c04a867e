package rustgen

import (
	"sort"

	"github.com/libninjago/libninja/pkg/hir"
)

// neededCodecs walks every schema field and request/response parameter to
// find which custom serde "with" modules (see FieldDecorators) this spec
// actually needs, so src/serde.rs only carries the modules it uses rather
// than a fixed menu of every codec this compiler knows how to emit.
func neededCodecs(spec *hir.HirSpec) []string {
	set := map[string]bool{}
	mark := func(ty hir.Ty, optional bool) {
		prefix := ""
		if optional {
			prefix = "option_"
		}
		switch ty.Kind {
		case hir.TyInteger:
			switch ty.IntegerSerialization {
			case hir.IntString:
				set[prefix+"integer_as_string"] = true
			case hir.IntNullAsZero:
				set[prefix+"null_as_zero"] = true
			}
		case hir.TyDate:
			if ty.DateSerialization == hir.DateInteger {
				set[prefix+"date_as_integer"] = true
			}
		}
	}

	for _, rec := range spec.Schemas() {
		switch rec.Kind {
		case hir.RecordStruct:
			for _, of := range rec.Fields() {
				mark(of.Field.Ty, of.Field.Optional)
			}
		case hir.RecordNewType:
			for _, f := range rec.NewTypeFields {
				mark(f.Ty, f.Optional)
			}
		case hir.RecordTypeAlias:
			if rec.Alias != nil {
				mark(rec.Alias.Ty, rec.Alias.Optional)
			}
		}
	}
	for _, op := range spec.Operations {
		for _, p := range op.Parameters {
			mark(p.Ty, p.Optional)
		}
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// renderSerdeModule emits src/serde.rs's body: one hand-written
// serialize/deserialize module per name in names, grounded on
// original_source/libninja/src/rust/serde.rs's
// option_i64_null_as_zero/option_chrono_naive_date_as_int visitors,
// adapted to plain (non-Option) fields for the non-"option_" variants.
func renderSerdeModule(names []string) string {
	t := NewTokens()
	for i, name := range names {
		if i > 0 {
			t.Blank()
		}
		switch name {
		case "integer_as_string":
			renderIntegerAsString(t, false)
		case "option_integer_as_string":
			renderIntegerAsString(t, true)
		case "null_as_zero":
			renderNullAsZero(t, false)
		case "option_null_as_zero":
			renderNullAsZero(t, true)
		case "date_as_integer":
			renderDateAsInteger(t, false)
		case "option_date_as_integer":
			renderDateAsInteger(t, true)
		}
	}
	return t.String()
}

func renderIntegerAsString(t *Tokens, optional bool) {
	name, ty := "integer_as_string", "i64"
	if optional {
		name, ty = "option_"+name, "Option<i64>"
	}
	t.Pushf("pub mod %s {", name)
	t.Push("    use serde::{Deserialize, Serialize, Serializer, Deserializer};")
	t.Blank()
	if optional {
		t.Pushf("    pub fn serialize<S: Serializer>(value: &%s, s: S) -> Result<S::Ok, S::Error> {", ty)
		t.Push("        match value {")
		t.Push("            Some(v) => s.serialize_str(&v.to_string()),")
		t.Push("            None => s.serialize_none(),")
		t.Push("        }")
		t.Push("    }")
		t.Blank()
		t.Pushf("    pub fn deserialize<'de, D: Deserializer<'de>>(d: D) -> Result<%s, D::Error> {", ty)
		t.Push("        let raw = Option::<String>::deserialize(d)?;")
		t.Push("        raw.map(|s| s.parse().map_err(serde::de::Error::custom)).transpose()")
		t.Push("    }")
	} else {
		t.Pushf("    pub fn serialize<S: Serializer>(value: &%s, s: S) -> Result<S::Ok, S::Error> {", ty)
		t.Push("        s.serialize_str(&value.to_string())")
		t.Push("    }")
		t.Blank()
		t.Pushf("    pub fn deserialize<'de, D: Deserializer<'de>>(d: D) -> Result<%s, D::Error> {", ty)
		t.Push("        let raw = String::deserialize(d)?;")
		t.Push("        raw.parse().map_err(serde::de::Error::custom)")
		t.Push("    }")
	}
	t.Push("}")
}

func renderNullAsZero(t *Tokens, optional bool) {
	name := "null_as_zero"
	ty := "i64"
	if optional {
		name, ty = "option_"+name, "Option<i64>"
	}
	t.Pushf("pub mod %s {", name)
	t.Push("    use serde::{Deserialize, Serializer, Deserializer};")
	t.Blank()
	if optional {
		t.Pushf("    pub fn serialize<S: Serializer>(value: &%s, s: S) -> Result<S::Ok, S::Error> {", ty)
		t.Push("        s.serialize_i64(value.unwrap_or(0))")
		t.Push("    }")
		t.Blank()
		t.Pushf("    pub fn deserialize<'de, D: Deserializer<'de>>(d: D) -> Result<%s, D::Error> {", ty)
		t.Push("        let raw = i64::deserialize(d)?;")
		t.Push("        Ok(if raw == 0 { None } else { Some(raw) })")
		t.Push("    }")
	} else {
		t.Pushf("    pub fn serialize<S: Serializer>(value: &%s, s: S) -> Result<S::Ok, S::Error> {", ty)
		t.Push("        s.serialize_i64(*value)")
		t.Push("    }")
		t.Blank()
		t.Pushf("    pub fn deserialize<'de, D: Deserializer<'de>>(d: D) -> Result<%s, D::Error> {", ty)
		t.Push("        i64::deserialize(d)")
		t.Push("    }")
	}
	t.Push("}")
}

func renderDateAsInteger(t *Tokens, optional bool) {
	name := "date_as_integer"
	ty := "chrono::NaiveDate"
	if optional {
		name, ty = "option_"+name, "Option<chrono::NaiveDate>"
	}
	t.Pushf("pub mod %s {", name)
	t.Push("    use chrono::Datelike;")
	t.Push("    use serde::{Deserialize, Serializer, Deserializer};")
	t.Blank()
	t.Push("    fn to_int(d: &chrono::NaiveDate) -> i64 {")
	t.Push("        (d.year() as i64) * 10000 + (d.month() as i64) * 100 + d.day() as i64")
	t.Push("    }")
	t.Blank()
	t.Push("    fn from_int(raw: i64) -> Option<chrono::NaiveDate> {")
	t.Push("        let day = (raw % 100) as u32;")
	t.Push("        let month = ((raw / 100) % 100) as u32;")
	t.Push("        let year = (raw / 10000) as i32;")
	t.Push("        chrono::NaiveDate::from_ymd_opt(year, month, day)")
	t.Push("    }")
	t.Blank()
	if optional {
		t.Pushf("    pub fn serialize<S: Serializer>(value: &%s, s: S) -> Result<S::Ok, S::Error> {", ty)
		t.Push("        s.serialize_i64(value.as_ref().map(to_int).unwrap_or(0))")
		t.Push("    }")
		t.Blank()
		t.Pushf("    pub fn deserialize<'de, D: Deserializer<'de>>(d: D) -> Result<%s, D::Error> {", ty)
		t.Push("        let raw = i64::deserialize(d)?;")
		t.Push("        Ok(if raw == 0 { None } else { from_int(raw) })")
		t.Push("    }")
	} else {
		t.Pushf("    pub fn serialize<S: Serializer>(value: &%s, s: S) -> Result<S::Ok, S::Error> {", ty)
		t.Push("        s.serialize_i64(to_int(value))")
		t.Push("    }")
		t.Blank()
		t.Pushf("    pub fn deserialize<'de, D: Deserializer<'de>>(d: D) -> Result<%s, D::Error> {", ty)
		t.Push("        let raw = i64::deserialize(d)?;")
		t.Push("        from_int(raw).ok_or_else(|| serde::de::Error::custom(\"invalid date integer\"))")
		t.Push("    }")
	}
	t.Push("}")
}
