package typescript

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/okra-platform/typegen/internal/codegen/writer"
	"github.com/okra-platform/typegen/internal/diagnostic"
	"github.com/okra-platform/typegen/internal/schema"
)

const (
	// indentUnit is the indentation of nested members
	indentUnit = "    "

	longnumName    = "longnum"
	notModeledName = "NotModeled"

	// preludeDeclarations is the number of helper types defined when no
	// helper namespace is configured
	preludeDeclarations = 2
)

// Generator emits TypeScript declarations for the values reachable from a
// set of root declarations of a rustdoc export. A Generator only carries
// configuration; every Generate call owns its own traversal state, so one
// Generator may serve concurrent calls.
type Generator struct {
	helpers string
	logger  zerolog.Logger
}

// NewGenerator creates a TypeScript generator. helpers names the namespace
// that provides the longnum and NotModeled helper types (e.g. "oasis.types");
// when empty, the output starts with local definitions of both.
func NewGenerator(helpers string) *Generator {
	return &Generator{
		helpers: helpers,
		logger:  zerolog.Nop(),
	}
}

// WithLogger sets the logger receiving the visitation trace and diagnostics
func (g *Generator) WithLogger(logger zerolog.Logger) *Generator {
	g.logger = logger
	return g
}

// Language returns the name of the target language
func (g *Generator) Language() string {
	return "typescript"
}

// FileExtension returns the file extension for generated files
func (g *Generator) FileExtension() string {
	return ".ts"
}

// Generate visits every root and prints all declarations reached, sorted by
// name. A root that cannot be found aborts the run; every other problem is
// degraded to a NotModeled placeholder and reported in the diagnostics.
func (g *Generator) Generate(idx *schema.Index, roots []schema.Root) ([]byte, *diagnostic.Diagnostics, error) {
	r := newRun(g, idx)

	for _, root := range roots {
		id, err := idx.Lookup(root)
		if err != nil {
			return nil, r.diags, fmt.Errorf("failed to resolve root: %w", err)
		}
		if err := r.visitRoot(root, id); err != nil {
			return nil, r.diags, err
		}
	}

	return r.emit(), r.diags, nil
}

// CountDeclarations counts the exported declarations in code, leaving out
// the longnum and NotModeled definitions of the prelude.
func (g *Generator) CountDeclarations(code []byte) int {
	count := 0
	for _, line := range bytes.Split(code, []byte("\n")) {
		if bytes.HasPrefix(line, []byte("export ")) {
			count++
		}
	}
	if g.helpers == "" && count >= preludeDeclarations {
		count -= preludeDeclarations
	}
	return count
}

// usedType is the memo entry of one visited declaration
type usedType struct {
	id     schema.ID
	ref    string
	source string
}

// run is the state of one Generate call
type run struct {
	idx     *schema.Index
	helpers string
	logger  zerolog.Logger
	known   wellKnown
	used    map[schema.ID]*usedType
	diags   *diagnostic.Diagnostics
}

func newRun(g *Generator, idx *schema.Index) *run {
	return &run{
		idx:     idx,
		helpers: g.helpers,
		logger:  g.logger,
		known:   resolveWellKnown(idx),
		used:    make(map[schema.ID]*usedType),
		diags:   &diagnostic.Diagnostics{},
	}
}

func (r *run) visitRoot(root schema.Root, id schema.ID) error {
	item, err := r.idx.Record(id)
	if err != nil {
		return fmt.Errorf("root %s has no declaration in this export: %w", root, err)
	}

	switch item.Kind() {
	case schema.KindStruct:
		r.visitStruct(id)
	case schema.KindEnum:
		r.visitEnum(id)
	case schema.KindTypedef:
		r.visitAlias(id)
	default:
		return fmt.Errorf("root %s is a %s, not a type declaration", root, item.RawKind)
	}
	return nil
}

// reserve registers the memo entry before the body is rendered, so that
// references back to id resolve to its name instead of recursing.
func (r *run) reserve(id schema.ID, ref string) *usedType {
	u := &usedType{id: id, ref: ref}
	r.used[id] = u
	return u
}

func (r *run) sorted() []*usedType {
	result := make([]*usedType, 0, len(r.used))
	for _, u := range r.used {
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].ref != result[j].ref {
			return result[i].ref < result[j].ref
		}
		return result[i].id < result[j].id
	})
	return result
}

func (r *run) emit() []byte {
	w := writer.NewWriter(indentUnit)

	if r.helpers == "" {
		w.WriteJSDoc("64-bit integers exceed the safe range of number.")
		w.WriteLinef("export type %s = bigint | number;", longnumName)
		w.WriteJSDoc("Placeholder for a type that has no TypeScript model.")
		w.WriteLinef("export type %s = unknown;", notModeledName)
	}

	decls := r.sorted()
	for i, u := range decls {
		if i > 0 && decls[i-1].ref == u.ref {
			r.warn(diagnostic.CodeDuplicateName, u.id, "declaration name %s is also used by %s", u.ref, decls[i-1].id)
		}
		if i > 0 || r.helpers == "" {
			w.Newline()
		}
		w.Write(u.source)
	}

	r.logger.Debug().Int("declarations", len(decls)).Msg("emitted declarations")
	return w.Bytes()
}

func (r *run) helper(name string) string {
	if r.helpers == "" {
		return name
	}
	return r.helpers + "." + name
}

func (r *run) notModeled() string {
	return r.helper(notModeledName)
}

func (r *run) pathOf(id schema.ID) string {
	if summary, ok := r.idx.Path(id); ok {
		return summary.String()
	}
	return ""
}

func (r *run) trace(msg string, id schema.ID) {
	r.logger.Debug().Str("id", string(id)).Str("path", r.pathOf(id)).Msg(msg)
}

func (r *run) warn(code string, id schema.ID, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	path := r.pathOf(id)
	r.diags.AddWarning(code, msg, string(id), path)
	r.logger.Warn().Str("code", code).Str("id", string(id)).Str("path", path).Msg(msg)
}

func (r *run) info(code string, id schema.ID, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	path := r.pathOf(id)
	r.diags.AddInfo(code, msg, string(id), path)
	r.logger.Info().Str("code", code).Str("id", string(id)).Str("path", path).Msg(msg)
}
