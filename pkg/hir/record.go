package hir

// Doc is a rendered documentation string, attached to records, fields,
// and operations. A nil *Doc means "no documentation".
type Doc struct {
	Text string
}

// HirField is a single field of a Struct or NewType record.
type HirField struct {
	Ty       Ty
	Optional bool
	Doc      *Doc
	Example  any
	// Flatten means this field's members are promoted into the parent at
	// serialization time (an allOf remnant).
	Flatten bool
	// Boxed is set by the post-processor's cycle detector when this field
	// participates in a reference cycle among Records and must be
	// indirected by the backend (e.g. Box<T> in Rust).
	Boxed bool
}

// RecordKind discriminates the variants of Record.
type RecordKind string

const (
	RecordStruct     RecordKind = "struct"
	RecordNewType    RecordKind = "newtype"
	RecordEnum       RecordKind = "enum"
	RecordTypeAlias  RecordKind = "typealias"
)

// EnumVariant is one member of a closed string-valued enum.
type EnumVariant struct {
	Value string
	Alias string // optional identifier override, from x-rename
}

// orderedField preserves field insertion order for Struct records, since
// Go maps have no stable iteration order and output must be deterministic.
type orderedField struct {
	Name  string
	Field HirField
}

// Record is a named HIR entity: struct, newtype, enum, or alias.
// Exactly one of the payload sections is populated, selected by Kind.
type Record struct {
	Kind RecordKind
	Name string
	Docs *Doc

	// Struct
	fieldOrder []orderedField
	Nullable   bool

	// NewType
	NewTypeFields []HirField

	// Enum
	Variants []EnumVariant

	// TypeAlias
	Alias *HirField
}

// NewStruct constructs an empty Struct record.
func NewStruct(name string, docs *Doc) *Record {
	return &Record{Kind: RecordStruct, Name: name, Docs: docs}
}

// SetField inserts or overwrites a field, preserving first-insertion order.
func (r *Record) SetField(name string, f HirField) {
	for i, of := range r.fieldOrder {
		if of.Name == name {
			r.fieldOrder[i].Field = f
			return
		}
	}
	r.fieldOrder = append(r.fieldOrder, orderedField{Name: name, Field: f})
}

// Fields returns struct fields in insertion order.
func (r *Record) Fields() []orderedField {
	return r.fieldOrder
}

// FieldNames returns field names in insertion order.
func (r *Record) FieldNames() []string {
	names := make([]string, len(r.fieldOrder))
	for i, of := range r.fieldOrder {
		names[i] = of.Name
	}
	return names
}

// Field looks up a field by name.
func (r *Record) Field(name string) (HirField, bool) {
	for _, of := range r.fieldOrder {
		if of.Name == name {
			return of.Field, true
		}
	}
	return HirField{}, false
}

// ReferencedModels returns every Model name this record's fields/variants
// reference, used by the post-processor's reachability sweep and cycle
// detector.
func (r *Record) ReferencedModels() []string {
	var out []string
	switch r.Kind {
	case RecordStruct:
		for _, of := range r.fieldOrder {
			out = append(out, of.Field.Ty.ModelNames()...)
		}
	case RecordNewType:
		for _, f := range r.NewTypeFields {
			out = append(out, f.Ty.ModelNames()...)
		}
	case RecordTypeAlias:
		if r.Alias != nil {
			out = append(out, r.Alias.Ty.ModelNames()...)
		}
	}
	return out
}
