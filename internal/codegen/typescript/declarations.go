package typescript

import (
	"strings"

	"github.com/okra-platform/typegen/internal/codegen/writer"
	"github.com/okra-platform/typegen/internal/diagnostic"
	"github.com/okra-platform/typegen/internal/schema"
)

// visitStruct emits the declaration of a struct and returns its name:
// an interface for plain structs, a tuple type for tuple structs.
func (r *run) visitStruct(id schema.ID) string {
	r.trace("visiting struct", id)
	if u, ok := r.used[id]; ok {
		return u.ref
	}

	item, st, ok := lookupAs[*schema.Struct](r, id)
	if !ok {
		return r.notModeled()
	}

	u := r.reserve(id, item.Name)
	w := writer.NewWriter(indentUnit)
	w.WriteJSDoc(item.Docs)

	switch st.Kind {
	case schema.StructPlain:
		if st.FieldsStripped {
			r.info(diagnostic.CodeStrippedFields, id, "some fields of %s are not documented and were left out", item.Name)
		}
		w.WriteBlock("export interface "+u.ref+" {", "}", func() {
			for _, fieldID := range st.Fields {
				r.writeField(w, fieldID)
			}
		})
	case schema.StructTuple:
		if st.FieldsStripped {
			r.info(diagnostic.CodeStrippedFields, id, "fields of tuple struct %s are not documented", item.Name)
			w.WriteLinef("export type %s = %s; // stripped tuple type", u.ref, r.notModeled())
			break
		}
		types := make([]string, 0, len(st.Fields))
		for _, fieldID := range st.Fields {
			types = append(types, r.fieldType(fieldID))
		}
		w.WriteLinef("export type %s = [%s];", u.ref, strings.Join(types, ", "))
	default:
		r.warn(diagnostic.CodeUnhandledStructKind, id, "unhandled struct_type %s", st.RawKind)
		w.WriteLinef("export type %s = %s; // unhandled struct_type %s", u.ref, r.notModeled(), st.RawKind)
	}

	u.source = w.String()
	return u.ref
}

// visitEnum emits a tagged union with one member per variant, in
// declaration order, and returns its name.
func (r *run) visitEnum(id schema.ID) string {
	r.trace("visiting enum", id)
	if u, ok := r.used[id]; ok {
		return u.ref
	}

	item, en, ok := lookupAs[*schema.Enum](r, id)
	if !ok {
		return r.notModeled()
	}

	u := r.reserve(id, item.Name)
	w := writer.NewWriter(indentUnit)
	w.WriteJSDoc(item.Docs)

	switch {
	case en.VariantsStripped:
		r.warn(diagnostic.CodeStrippedFields, id, "variants of enum %s are not documented", item.Name)
		w.WriteLinef("export type %s = %s; // stripped enum variants", u.ref, r.notModeled())
	case len(en.Variants) == 0:
		w.WriteLinef("export type %s = never;", u.ref)
	default:
		w.WriteLinef("export type %s =", u.ref)
		w.Indent()
		for i, variantID := range en.Variants {
			r.writeVariant(w, variantID)
			if i < len(en.Variants)-1 {
				w.WriteLine(" |")
			} else {
				w.WriteLine(";")
			}
		}
		w.Dedent()
	}

	u.source = w.String()
	return u.ref
}

// visitAlias emits a named alias for a typedef that was requested as a root
func (r *run) visitAlias(id schema.ID) string {
	r.trace("visiting alias", id)
	if u, ok := r.used[id]; ok {
		return u.ref
	}

	item, td, ok := lookupAs[*schema.Typedef](r, id)
	if !ok {
		return r.notModeled()
	}

	u := r.reserve(id, item.Name)
	w := writer.NewWriter(indentUnit)
	w.WriteJSDoc(item.Docs)
	w.WriteLinef("export type %s = %s;", u.ref, r.renderType(td.Type))
	u.source = w.String()
	return u.ref
}

// visitTypedef renders a referenced typedef in place of its name. The memo
// is not consulted: an alias declared for a typedef root must not change how
// other declarations reference it, whichever root is visited first.
func (r *run) visitTypedef(id schema.ID) string {
	r.trace("visiting typedef", id)

	_, td, ok := lookupAs[*schema.Typedef](r, id)
	if !ok {
		return r.notModeled()
	}
	return r.renderType(td.Type)
}

// lookupAs fetches an item and its payload, reporting a diagnostic when the
// item is missing or has a different kind.
func lookupAs[T schema.ItemInner](r *run, id schema.ID) (*schema.Item, T, bool) {
	var zero T
	item, err := r.idx.Record(id)
	if err != nil {
		r.warn(diagnostic.CodeUnindexedPath, id, "declaration is not in the index")
		return nil, zero, false
	}
	inner, ok := item.Inner.(T)
	if !ok {
		r.warn(diagnostic.CodeUnhandledItemKind, id, "unexpected item kind %s", item.RawKind)
		return nil, zero, false
	}
	return item, inner, true
}
