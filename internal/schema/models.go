// Package schema models a rustdoc JSON crate export and provides a read-only
// index over its declarations.
package schema

import (
	"fmt"
	"strings"
)

// ID is the opaque identifier rustdoc assigns to an item (e.g. "0:1234").
// It is only stable for one export of one crate.
type ID string

// CrateID identifies a crate within an export. The documented crate is always 0.
type CrateID int

// LocalCrate is the crate the export documents.
const LocalCrate CrateID = 0

// Crate is the root of a loaded rustdoc export
type Crate struct {
	Root           ID
	CrateVersion   string
	FormatVersion  int
	Index          map[ID]*Item
	Paths          map[ID]Summary
	ExternalCrates map[CrateID]ExternalCrate
}

// Summary is the path entry rustdoc records for every item it can name,
// including items from external crates that are absent from Index.
type Summary struct {
	CrateID CrateID  `json:"crate_id"`
	Path    []string `json:"path"`
	Kind    string   `json:"kind"`
}

// String renders the summary path in Rust syntax
func (s Summary) String() string {
	return strings.Join(s.Path, "::")
}

// ExternalCrate is a crate referenced by the documented crate
type ExternalCrate struct {
	Name    string `json:"name"`
	HTMLURL string `json:"html_root_url"`
}

// ItemKind is the kind of an indexed item
type ItemKind int

const (
	KindOther ItemKind = iota
	KindStruct
	KindEnum
	KindTypedef
	KindStructField
	KindVariant
)

// String returns the rustdoc spelling of the kind
func (k ItemKind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindTypedef:
		return "typedef"
	case KindStructField:
		return "struct_field"
	case KindVariant:
		return "variant"
	default:
		return "other"
	}
}

// Item is one entry of the rustdoc index: a declaration, a struct field or an
// enum variant.
type Item struct {
	ID      ID
	CrateID CrateID
	Name    string
	// Docs is empty when the item carries no documentation
	Docs  string
	Attrs []string
	// Rename is the wire name from a #[cbor(rename = "...")] attribute, or empty
	Rename string
	// RawKind is the kind string exactly as found in the export
	RawKind string
	Inner   ItemInner
}

// Kind reports the item kind derived from its payload
func (i *Item) Kind() ItemKind {
	switch i.Inner.(type) {
	case *Struct:
		return KindStruct
	case *Enum:
		return KindEnum
	case *Typedef:
		return KindTypedef
	case *Field:
		return KindStructField
	case *Variant:
		return KindVariant
	default:
		return KindOther
	}
}

// WireName is the name used in the serialized encoding
func (i *Item) WireName() string {
	if i.Rename != "" {
		return i.Rename
	}
	return i.Name
}

// ItemInner is the kind-specific payload of an Item. The set of
// implementations is closed.
type ItemInner interface {
	itemInner()
}

// StructKind distinguishes the shapes a Rust struct can take
type StructKind int

const (
	StructOther StructKind = iota
	StructPlain
	StructTuple
	StructUnit
)

// String returns the rustdoc spelling of the struct kind
func (k StructKind) String() string {
	switch k {
	case StructPlain:
		return "plain"
	case StructTuple:
		return "tuple"
	case StructUnit:
		return "unit"
	default:
		return "other"
	}
}

// Struct is the payload of a struct item
type Struct struct {
	Kind StructKind
	// RawKind keeps the export's spelling so unknown kinds can be reported
	RawKind        string
	Fields         []ID
	FieldsStripped bool
}

// Enum is the payload of an enum item. Variants keep declaration order.
type Enum struct {
	Variants         []ID
	VariantsStripped bool
}

// Typedef is the payload of a type alias item
type Typedef struct {
	Type TypeExpr
}

// Field is the payload of a struct field item
type Field struct {
	Type TypeExpr
}

// VariantKind distinguishes the shapes an enum variant can take
type VariantKind int

const (
	VariantOther VariantKind = iota
	VariantUnit
	VariantTuple
	VariantStruct
)

// String returns the rustdoc spelling of the variant kind
func (k VariantKind) String() string {
	switch k {
	case VariantUnit:
		return "plain"
	case VariantTuple:
		return "tuple"
	case VariantStruct:
		return "struct"
	default:
		return "other"
	}
}

// Variant is the payload of an enum variant item. Types is set for tuple
// variants and Fields for struct variants.
type Variant struct {
	Kind    VariantKind
	RawKind string
	Types   []TypeExpr
	Fields  []ID
}

// Other is the payload of any item kind typegen does not model
type Other struct{}

func (*Struct) itemInner()  {}
func (*Enum) itemInner()    {}
func (*Typedef) itemInner() {}
func (*Field) itemInner()   {}
func (*Variant) itemInner() {}
func (*Other) itemInner()   {}

// TypeExpr is a rustdoc type expression. The set of implementations is closed.
type TypeExpr interface {
	typeExpr()
	String() string
}

// Primitive is a built-in scalar such as u8, i64 or bool
type Primitive struct {
	Name string
}

// Array is a fixed-size array [Elem; Len]
type Array struct {
	Elem TypeExpr
	Len  string
}

// ResolvedPath is a reference to a named item, with generic type arguments
// in declaration order.
type ResolvedPath struct {
	ID   ID
	Name string
	Args []TypeExpr
}

// Unsupported is any type shape typegen does not model (references, tuples,
// slices, generics, ...).
type Unsupported struct {
	Kind string
	Raw  string
}

func (Primitive) typeExpr()    {}
func (Array) typeExpr()        {}
func (ResolvedPath) typeExpr() {}
func (Unsupported) typeExpr()  {}

func (p Primitive) String() string {
	return p.Name
}

func (a Array) String() string {
	return fmt.Sprintf("[%s; %s]", a.Elem, a.Len)
}

func (r ResolvedPath) String() string {
	if len(r.Args) == 0 {
		return r.Name
	}
	args := make([]string, len(r.Args))
	for i, arg := range r.Args {
		args[i] = arg.String()
	}
	return r.Name + "<" + strings.Join(args, ", ") + ">"
}

func (u Unsupported) String() string {
	return u.Kind + " " + u.Raw
}
