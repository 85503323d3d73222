package typescript

import (
	"github.com/okra-platform/typegen/internal/diagnostic"
	"github.com/okra-platform/typegen/internal/schema"
)

// Well-known foreign declarations with a direct TypeScript spelling
var (
	stringRoot    = schema.Root{Crate: "alloc", Path: []string{"alloc", "string", "String"}, Kind: "struct"}
	vecRoot       = schema.Root{Crate: "alloc", Path: []string{"alloc", "vec", "Vec"}, Kind: "struct"}
	optionRoot    = schema.Root{Crate: "core", Path: []string{"core", "option", "Option"}, Kind: "enum"}
	cborValueRoot = schema.Root{Crate: "sk_cbor", Path: []string{"sk_cbor", "values", "Value"}, Kind: "enum"}
)

// wellKnown holds the ids of the well-known declarations in one export. An
// empty id means the export does not reference that declaration.
type wellKnown struct {
	str       schema.ID
	vec       schema.ID
	option    schema.ID
	cborValue schema.ID
}

func resolveWellKnown(idx *schema.Index) wellKnown {
	lookup := func(root schema.Root) schema.ID {
		id, err := idx.Lookup(root)
		if err != nil {
			return ""
		}
		return id
	}
	return wellKnown{
		str:       lookup(stringRoot),
		vec:       lookup(vecRoot),
		option:    lookup(optionRoot),
		cborValue: lookup(cborValueRoot),
	}
}

func matches(known, id schema.ID) bool {
	return known != "" && known == id
}

// resolvePath renders a reference to a named declaration. Well-known
// containers are spelled directly; everything else goes through the
// declaration visitors.
func (r *run) resolvePath(p schema.ResolvedPath) string {
	r.trace("visiting resolved path", p.ID)

	switch {
	case matches(r.known.str, p.ID):
		return "string"
	case matches(r.known.vec, p.ID):
		elem, ok := r.genericArg(p)
		if !ok {
			return r.notModeled()
		}
		if isByte(elem) {
			return "Uint8Array"
		}
		return r.renderType(elem) + "[]"
	case matches(r.known.option, p.ID):
		elem, ok := r.genericArg(p)
		if !ok {
			return r.notModeled()
		}
		return "(" + r.renderType(elem) + " | null)"
	case matches(r.known.cborValue, p.ID):
		return "unknown"
	}

	item, err := r.idx.Record(p.ID)
	if err != nil {
		path := r.pathOf(p.ID)
		r.warn(diagnostic.CodeUnindexedPath, p.ID, "resolved path %s is not in the index", p.Name)
		return commentedPlaceholder(r.notModeled(), "unindexed resolved path id "+string(p.ID)+" path "+path)
	}

	switch item.Kind() {
	case schema.KindStruct:
		return r.visitStruct(p.ID)
	case schema.KindEnum:
		return r.visitEnum(p.ID)
	case schema.KindTypedef:
		return r.visitTypedef(p.ID)
	default:
		r.warn(diagnostic.CodeUnhandledItemKind, p.ID, "unhandled item kind %s", item.RawKind)
		return commentedPlaceholder(r.notModeled(), "unhandled item "+string(p.ID)+" kind "+item.RawKind)
	}
}

// genericArg returns the single type argument of a container reference
func (r *run) genericArg(p schema.ResolvedPath) (schema.TypeExpr, bool) {
	if len(p.Args) == 0 {
		r.warn(diagnostic.CodeMissingGenericArg, p.ID, "%s is missing its type argument", p.Name)
		return nil, false
	}
	return p.Args[0], true
}

func isByte(t schema.TypeExpr) bool {
	p, ok := t.(schema.Primitive)
	return ok && p.Name == "u8"
}
