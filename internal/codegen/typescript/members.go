package typescript

import (
	"strings"

	"github.com/okra-platform/typegen/internal/codegen/writer"
	"github.com/okra-platform/typegen/internal/diagnostic"
	"github.com/okra-platform/typegen/internal/schema"
)

// writeField writes one property line, keyed by the field's wire name
func (r *run) writeField(w *writer.Writer, id schema.ID) {
	r.trace("rendering field", id)

	item, field, ok := r.fieldRecord(id)
	if !ok {
		w.WriteLinef("// field %s is not modeled", writer.EscapeComment(string(id)))
		return
	}

	w.WriteJSDoc(item.Docs)
	w.WriteLinef("%s: %s;", propertyName(item.WireName()), r.renderType(field.Type))
}

// fieldType renders the type of a positional field
func (r *run) fieldType(id schema.ID) string {
	_, field, ok := r.fieldRecord(id)
	if !ok {
		return r.notModeled()
	}
	return r.renderType(field.Type)
}

func (r *run) fieldRecord(id schema.ID) (*schema.Item, *schema.Field, bool) {
	item, err := r.idx.Record(id)
	if err != nil {
		r.warn(diagnostic.CodeMissingMember, id, "field is not in the index")
		return nil, nil, false
	}
	field, ok := item.Inner.(*schema.Field)
	if !ok {
		r.warn(diagnostic.CodeMissingMember, id, "expected a struct field, found %s", item.RawKind)
		return nil, nil, false
	}
	return item, field, true
}

// writeVariant writes one member of an enum union without the trailing
// separator. The enclosing enum decides between " |" and ";".
func (r *run) writeVariant(w *writer.Writer, id schema.ID) {
	r.trace("rendering variant", id)

	item, err := r.idx.Record(id)
	if err != nil {
		r.warn(diagnostic.CodeMissingMember, id, "variant is not in the index")
		w.Writef("%s /* variant %s is not indexed */", r.notModeled(), writer.EscapeComment(string(id)))
		return
	}
	variant, ok := item.Inner.(*schema.Variant)
	if !ok {
		r.warn(diagnostic.CodeMissingMember, id, "expected a variant, found %s", item.RawKind)
		w.Writef("%s /* unexpected item kind %s */", r.notModeled(), writer.EscapeComment(item.RawKind))
		return
	}

	name := item.WireName()

	switch variant.Kind {
	case schema.VariantUnit:
		if item.Docs != "" {
			// a string literal member cannot carry a doc comment
			r.info(diagnostic.CodeUnitVariantDocs, id, "documentation of unit variant %s is emitted as a plain comment", name)
			w.WriteLineComments(item.Docs)
		}
		w.Write(stringLiteral(name))
	case schema.VariantTuple:
		var typ string
		if len(variant.Types) == 1 {
			typ = r.renderType(variant.Types[0])
		} else {
			types := make([]string, 0, len(variant.Types))
			for _, t := range variant.Types {
				types = append(types, r.renderType(t))
			}
			typ = "[" + strings.Join(types, ", ") + "]"
		}
		r.writeVariantObject(w, item, func() {
			w.WriteLinef("%s: %s;", propertyName(name), typ)
		})
	case schema.VariantStruct:
		r.writeVariantObject(w, item, func() {
			w.WriteBlock(propertyName(name)+": {", "};", func() {
				for _, fieldID := range variant.Fields {
					r.writeField(w, fieldID)
				}
			})
		})
	default:
		r.warn(diagnostic.CodeUnhandledVariantKind, id, "unhandled variant kind %s", variant.RawKind)
		w.WriteLineComments(item.Docs)
		w.Write(commentedPlaceholder(r.notModeled(), "unhandled kind "+variant.RawKind))
	}
}

// writeVariantObject writes the single-key object wrapping a variant payload
func (r *run) writeVariantObject(w *writer.Writer, item *schema.Item, body func()) {
	w.WriteLine("{")
	w.Indent()
	w.WriteJSDoc(item.Docs)
	body()
	w.Dedent()
	w.Write("}")
}
