package typescript

import (
	"regexp"
	"strings"

	"github.com/okra-platform/typegen/internal/codegen/writer"
	"github.com/okra-platform/typegen/internal/diagnostic"
	"github.com/okra-platform/typegen/internal/schema"
)

// renderType maps a type expression to a TypeScript type expression. It
// never fails: shapes without a mapping become a commented placeholder.
func (r *run) renderType(t schema.TypeExpr) string {
	switch t := t.(type) {
	case schema.Primitive:
		return r.renderPrimitive(t)
	case schema.Array:
		// the length is not part of the TypeScript type
		if isByte(t.Elem) {
			return "Uint8Array"
		}
		return r.renderType(t.Elem) + "[]"
	case schema.ResolvedPath:
		return r.resolvePath(t)
	case schema.Unsupported:
		r.warn(diagnostic.CodeUnhandledType, "", "unhandled tag %s content %s", t.Kind, t.Raw)
		return commentedPlaceholder(r.notModeled(), "unhandled tag "+t.Kind+" content "+t.Raw)
	default:
		r.warn(diagnostic.CodeUnhandledType, "", "unhandled type expression %v", t)
		return r.notModeled()
	}
}

func (r *run) renderPrimitive(p schema.Primitive) string {
	switch p.Name {
	case "u8", "u16", "u32", "i8", "i16", "i32", "f32", "f64":
		return "number /* " + p.Name + " */"
	case "u64", "i64":
		return r.helper(longnumName) + " /* " + p.Name + " */"
	case "u128", "i128":
		return "Uint8Array /* " + p.Name + " */"
	case "bool":
		return "boolean"
	case "str", "char":
		return "string"
	default:
		r.warn(diagnostic.CodeUnhandledPrimitive, "", "unhandled primitive %s", p.Name)
		return commentedPlaceholder(r.notModeled(), "unhandled primitive "+p.Name)
	}
}

// commentedPlaceholder appends an explanatory comment to a placeholder type
func commentedPlaceholder(placeholder, reason string) string {
	reason = strings.Join(strings.Fields(reason), " ")
	return placeholder + " /* " + writer.EscapeComment(reason) + " */"
}

var identifierRegex = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$|^[0-9]+$`)

// propertyName quotes a wire name that is not a valid property identifier
func propertyName(name string) string {
	if identifierRegex.MatchString(name) {
		return name
	}
	return stringLiteral(name)
}

// stringLiteral renders s as a single-quoted TypeScript string
func stringLiteral(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}
