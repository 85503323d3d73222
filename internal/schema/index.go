package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnknownID is returned when an id has no entry in the crate index,
	// which is normal for items defined in external crates.
	ErrUnknownID = errors.New("unknown item id")

	// ErrNotFound is returned when no declaration matches a root lookup
	ErrNotFound = errors.New("declaration not found")

	// ErrUnknownCrate is returned when a root names a crate the export does not reference
	ErrUnknownCrate = fmt.Errorf("unknown crate: %w", ErrNotFound)
)

// Root selects one declaration by origin crate, path and kind. An empty
// Crate means the documented crate.
type Root struct {
	Crate string
	Path  []string
	Kind  string
}

// ParseRoot builds a Root from a Rust path such as "alloc::vec::Vec". The
// first segment names the origin crate.
func ParseRoot(path, kind string) (Root, error) {
	segments := strings.Split(strings.TrimSpace(path), "::")
	for _, s := range segments {
		if strings.TrimSpace(s) == "" {
			return Root{}, fmt.Errorf("invalid path %q", path)
		}
	}
	return Root{Crate: segments[0], Path: segments, Kind: kind}, nil
}

// String renders the root as kind path, e.g. "struct alloc::vec::Vec"
func (r Root) String() string {
	return r.Kind + " " + strings.Join(r.Path, "::")
}

type pathKey struct {
	crate CrateID
	path  string
	kind  string
}

// Index is a read-only view over a crate export. It is never mutated after
// NewIndex and is safe for concurrent use.
type Index struct {
	crate     *Crate
	name      string
	crateIDs  map[string]CrateID
	idsByPath map[pathKey]ID
}

// NewIndex builds the lookup tables for a crate export
func NewIndex(crate *Crate) *Index {
	idx := &Index{
		crate:     crate,
		crateIDs:  make(map[string]CrateID, len(crate.ExternalCrates)),
		idsByPath: make(map[pathKey]ID, len(crate.Paths)),
	}

	if root, ok := crate.Index[crate.Root]; ok {
		idx.name = root.Name
	}

	for id, ext := range crate.ExternalCrates {
		// a crate can be listed under several ids; keep the lowest for stability
		if existing, ok := idx.crateIDs[ext.Name]; !ok || id < existing {
			idx.crateIDs[ext.Name] = id
		}
	}

	for id, summary := range crate.Paths {
		key := pathKey{crate: summary.CrateID, path: summary.String(), kind: summary.Kind}
		if existing, ok := idx.idsByPath[key]; !ok || id < existing {
			idx.idsByPath[key] = id
		}
	}

	return idx
}

// Name returns the name of the documented crate
func (idx *Index) Name() string {
	return idx.name
}

// Record returns the indexed item for id
func (idx *Index) Record(id ID) (*Item, error) {
	item, ok := idx.crate.Index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownID, id)
	}
	return item, nil
}

// Path returns the path summary for id, which exists for external items too
func (idx *Index) Path(id ID) (Summary, bool) {
	summary, ok := idx.crate.Paths[id]
	return summary, ok
}

// CrateID resolves a crate name. The documented crate resolves to LocalCrate.
func (idx *Index) CrateID(name string) (CrateID, error) {
	if name == "" || name == idx.name {
		return LocalCrate, nil
	}
	id, ok := idx.crateIDs[name]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownCrate, name)
	}
	return id, nil
}

// Lookup resolves a root to the id of the matching declaration
func (idx *Index) Lookup(root Root) (ID, error) {
	crateID, err := idx.CrateID(root.Crate)
	if err != nil {
		return "", err
	}
	key := pathKey{crate: crateID, path: strings.Join(root.Path, "::"), kind: root.Kind}
	id, ok := idx.idsByPath[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, root)
	}
	return id, nil
}

// Declarations lists the local declarations whose path starts with prefix,
// sorted by path then kind.
func (idx *Index) Declarations(prefix string) []Summary {
	var result []Summary
	for _, summary := range idx.crate.Paths {
		if summary.CrateID != LocalCrate {
			continue
		}
		if !strings.HasPrefix(summary.String(), prefix) {
			continue
		}
		result = append(result, summary)
	}
	sort.Slice(result, func(i, j int) bool {
		pi, pj := result[i].String(), result[j].String()
		if pi != pj {
			return pi < pj
		}
		return result[i].Kind < result[j].Kind
	})
	return result
}
