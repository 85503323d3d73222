// Package testutil builds crate exports for tests without going through JSON.
package testutil

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/okra-platform/typegen/internal/schema"
)

// Ids of the well-known external declarations every built crate references
const (
	StringID    schema.ID = "1:1"
	VecID       schema.ID = "1:2"
	OptionID    schema.ID = "2:1"
	CborValueID schema.ID = "3:1"
)

// FixturePath returns the path of a file under internal/testutil/testdata
func FixturePath(name string) string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "testdata", name)
}

// CrateBuilder assembles a schema.Crate item by item
type CrateBuilder struct {
	name  string
	crate *schema.Crate
	next  int
}

// NewCrate starts a crate named name that references alloc, core and sk_cbor
func NewCrate(name string) *CrateBuilder {
	b := &CrateBuilder{
		name: name,
		crate: &schema.Crate{
			Root:  "0:0",
			Index: map[schema.ID]*schema.Item{},
			Paths: map[schema.ID]schema.Summary{},
			ExternalCrates: map[schema.CrateID]schema.ExternalCrate{
				1: {Name: "alloc"},
				2: {Name: "core"},
				3: {Name: "sk_cbor"},
			},
		},
		next: 1,
	}

	b.crate.Index["0:0"] = &schema.Item{ID: "0:0", Name: name, RawKind: "module", Inner: &schema.Other{}}
	b.crate.Paths["0:0"] = schema.Summary{CrateID: schema.LocalCrate, Path: []string{name}, Kind: "module"}

	b.External(StringID, "alloc::string::String", "struct")
	b.External(VecID, "alloc::vec::Vec", "struct")
	b.External(OptionID, "core::option::Option", "enum")
	b.External(CborValueID, "sk_cbor::values::Value", "enum")
	return b
}

// External registers a path summary for an item that is not indexed
func (b *CrateBuilder) External(id schema.ID, path, kind string) {
	var crateID schema.CrateID
	fmt.Sscanf(string(id), "%d:", &crateID)
	b.crate.Paths[id] = schema.Summary{CrateID: crateID, Path: strings.Split(path, "::"), Kind: kind}
}

// Add indexes item under a fresh id. A non-empty path (relative to the crate)
// also registers a path summary.
func (b *CrateBuilder) Add(path string, item *schema.Item) schema.ID {
	id := schema.ID(fmt.Sprintf("0:%d", b.next))
	b.next++

	item.ID = id
	if rename, ok := schema.ParseRename(item.Attrs); ok {
		item.Rename = rename
	}
	if item.RawKind == "" {
		item.RawKind = item.Kind().String()
	}
	b.crate.Index[id] = item

	if path != "" {
		segments := append([]string{b.name}, strings.Split(path, "::")...)
		if item.Name == "" {
			item.Name = segments[len(segments)-1]
		}
		b.crate.Paths[id] = schema.Summary{CrateID: schema.LocalCrate, Path: segments, Kind: item.RawKind}
	}
	return id
}

// Struct adds a plain struct
func (b *CrateBuilder) Struct(path string, fields ...schema.ID) schema.ID {
	return b.Add(path, &schema.Item{Inner: &schema.Struct{Kind: schema.StructPlain, RawKind: "plain", Fields: fields}})
}

// TupleStruct adds a tuple struct
func (b *CrateBuilder) TupleStruct(path string, fields ...schema.ID) schema.ID {
	return b.Add(path, &schema.Item{Inner: &schema.Struct{Kind: schema.StructTuple, RawKind: "tuple", Fields: fields}})
}

// Enum adds an enum with variants in the given order
func (b *CrateBuilder) Enum(path string, variants ...schema.ID) schema.ID {
	return b.Add(path, &schema.Item{Inner: &schema.Enum{Variants: variants}})
}

// Typedef adds a type alias
func (b *CrateBuilder) Typedef(path string, t schema.TypeExpr) schema.ID {
	return b.Add(path, &schema.Item{Inner: &schema.Typedef{Type: t}})
}

// Field adds a struct field
func (b *CrateBuilder) Field(name string, t schema.TypeExpr, attrs ...string) schema.ID {
	return b.Add("", &schema.Item{Name: name, Attrs: attrs, Inner: &schema.Field{Type: t}})
}

// UnitVariant adds a variant without payload
func (b *CrateBuilder) UnitVariant(name string, attrs ...string) schema.ID {
	return b.Add("", &schema.Item{Name: name, Attrs: attrs, Inner: &schema.Variant{Kind: schema.VariantUnit, RawKind: "plain"}})
}

// TupleVariant adds a variant with positional payload types
func (b *CrateBuilder) TupleVariant(name string, types ...schema.TypeExpr) schema.ID {
	return b.Add("", &schema.Item{Name: name, Inner: &schema.Variant{Kind: schema.VariantTuple, RawKind: "tuple", Types: types}})
}

// StructVariant adds a variant with named fields
func (b *CrateBuilder) StructVariant(name string, fields ...schema.ID) schema.ID {
	return b.Add("", &schema.Item{Name: name, Inner: &schema.Variant{Kind: schema.VariantStruct, RawKind: "struct", Fields: fields}})
}

// Docs sets the documentation of an item
func (b *CrateBuilder) Docs(id schema.ID, docs string) *CrateBuilder {
	b.crate.Index[id].Docs = docs
	return b
}

// Item returns an indexed item for in-place adjustments
func (b *CrateBuilder) Item(id schema.ID) *schema.Item {
	return b.crate.Index[id]
}

// Crate returns the assembled export
func (b *CrateBuilder) Crate() *schema.Crate {
	return b.crate
}

// Index returns an index over the assembled export
func (b *CrateBuilder) Index() *schema.Index {
	return schema.NewIndex(b.crate)
}

// Root returns a root selecting a local declaration by crate-relative path
func (b *CrateBuilder) Root(path, kind string) schema.Root {
	return schema.Root{Crate: b.name, Path: append([]string{b.name}, strings.Split(path, "::")...), Kind: kind}
}

// Prim returns a primitive type expression
func Prim(name string) schema.TypeExpr {
	return schema.Primitive{Name: name}
}

// Ref returns a reference to a declaration
func Ref(id schema.ID, name string, args ...schema.TypeExpr) schema.TypeExpr {
	return schema.ResolvedPath{ID: id, Name: name, Args: args}
}

// Array returns a fixed-size array type expression
func Array(elem schema.TypeExpr, length int) schema.TypeExpr {
	return schema.Array{Elem: elem, Len: fmt.Sprint(length)}
}

// Vec returns alloc::vec::Vec<elem>
func Vec(elem schema.TypeExpr) schema.TypeExpr {
	return Ref(VecID, "Vec", elem)
}

// Option returns core::option::Option<elem>
func Option(elem schema.TypeExpr) schema.TypeExpr {
	return Ref(OptionID, "Option", elem)
}

// String returns alloc::string::String
func String() schema.TypeExpr {
	return Ref(StringID, "String")
}

// CborValue returns sk_cbor::values::Value
func CborValue() schema.TypeExpr {
	return Ref(CborValueID, "Value")
}
