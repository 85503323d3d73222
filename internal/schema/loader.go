package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
)

type rawCrate struct {
	Root           ID                       `json:"root"`
	CrateVersion   *string                  `json:"crate_version"`
	FormatVersion  int                      `json:"format_version"`
	Index          map[ID]rawItem           `json:"index"`
	Paths          map[ID]Summary           `json:"paths"`
	ExternalCrates map[string]ExternalCrate `json:"external_crates"`
}

type rawItem struct {
	ID      ID              `json:"id"`
	CrateID CrateID         `json:"crate_id"`
	Name    *string         `json:"name"`
	Docs    *string         `json:"docs"`
	Attrs   []string        `json:"attrs"`
	Kind    string          `json:"kind"`
	Inner   json.RawMessage `json:"inner"`
}

type rawStruct struct {
	StructType     string `json:"struct_type"`
	FieldsStripped bool   `json:"fields_stripped"`
	Fields         []ID   `json:"fields"`
}

type rawEnum struct {
	Variants         []ID `json:"variants"`
	VariantsStripped bool `json:"variants_stripped"`
}

type rawTypedef struct {
	Type rawType `json:"type"`
}

type rawVariant struct {
	VariantKind  string          `json:"variant_kind"`
	VariantInner json.RawMessage `json:"variant_inner"`
}

type rawType struct {
	Kind  string          `json:"kind"`
	Inner json.RawMessage `json:"inner"`
}

type rawArray struct {
	Type rawType `json:"type"`
	Len  string  `json:"len"`
}

type rawPath struct {
	Name string       `json:"name"`
	ID   ID           `json:"id"`
	Args *rawGenerics `json:"args"`
}

type rawGenerics struct {
	AngleBracketed *struct {
		Args []rawGenericArg `json:"args"`
	} `json:"angle_bracketed"`
}

type rawGenericArg struct {
	Type *rawType `json:"type"`
}

// LoadFile reads a rustdoc JSON export from disk
func LoadFile(path string) (*Crate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open crate export: %w", err)
	}
	defer f.Close()

	crate, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return crate, nil
}

// Load decodes a rustdoc JSON export. Item payloads are decoded eagerly and
// rename attributes are resolved here, so nothing downstream parses
// attributes again.
func Load(r io.Reader) (*Crate, error) {
	var raw rawCrate
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode crate export: %w", err)
	}

	crate := &Crate{
		Root:           raw.Root,
		FormatVersion:  raw.FormatVersion,
		Index:          make(map[ID]*Item, len(raw.Index)),
		Paths:          raw.Paths,
		ExternalCrates: make(map[CrateID]ExternalCrate, len(raw.ExternalCrates)),
	}
	if raw.CrateVersion != nil {
		crate.CrateVersion = *raw.CrateVersion
	}
	if crate.Paths == nil {
		crate.Paths = map[ID]Summary{}
	}

	for key, ext := range raw.ExternalCrates {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("invalid external crate id %q: %w", key, err)
		}
		crate.ExternalCrates[CrateID(id)] = ext
	}

	for id, ri := range raw.Index {
		item, err := convertItem(id, ri)
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", id, err)
		}
		crate.Index[id] = item
	}

	return crate, nil
}

func convertItem(id ID, ri rawItem) (*Item, error) {
	item := &Item{
		ID:      id,
		CrateID: ri.CrateID,
		Attrs:   ri.Attrs,
		RawKind: ri.Kind,
	}
	if ri.Name != nil {
		item.Name = *ri.Name
	}
	if ri.Docs != nil {
		item.Docs = *ri.Docs
	}
	if rename, ok := ParseRename(ri.Attrs); ok {
		item.Rename = rename
	}

	switch ri.Kind {
	case "struct":
		var rs rawStruct
		if err := json.Unmarshal(ri.Inner, &rs); err != nil {
			return nil, fmt.Errorf("failed to decode struct: %w", err)
		}
		item.Inner = &Struct{
			Kind:           parseStructKind(rs.StructType),
			RawKind:        rs.StructType,
			Fields:         rs.Fields,
			FieldsStripped: rs.FieldsStripped,
		}
	case "enum":
		var re rawEnum
		if err := json.Unmarshal(ri.Inner, &re); err != nil {
			return nil, fmt.Errorf("failed to decode enum: %w", err)
		}
		item.Inner = &Enum{Variants: re.Variants, VariantsStripped: re.VariantsStripped}
	case "typedef":
		var rt rawTypedef
		if err := json.Unmarshal(ri.Inner, &rt); err != nil {
			return nil, fmt.Errorf("failed to decode typedef: %w", err)
		}
		item.Inner = &Typedef{Type: convertType(rt.Type)}
	case "struct_field":
		var rt rawType
		if err := json.Unmarshal(ri.Inner, &rt); err != nil {
			return nil, fmt.Errorf("failed to decode struct field: %w", err)
		}
		item.Inner = &Field{Type: convertType(rt)}
	case "variant":
		variant, err := convertVariant(ri.Inner)
		if err != nil {
			return nil, err
		}
		item.Inner = variant
	default:
		item.Inner = &Other{}
	}

	return item, nil
}

func convertVariant(inner json.RawMessage) (*Variant, error) {
	var rv rawVariant
	if err := json.Unmarshal(inner, &rv); err != nil {
		return nil, fmt.Errorf("failed to decode variant: %w", err)
	}

	variant := &Variant{RawKind: rv.VariantKind}
	switch rv.VariantKind {
	case "plain":
		variant.Kind = VariantUnit
	case "tuple":
		variant.Kind = VariantTuple
		var types []rawType
		if err := json.Unmarshal(rv.VariantInner, &types); err != nil {
			return nil, fmt.Errorf("failed to decode tuple variant: %w", err)
		}
		for _, rt := range types {
			variant.Types = append(variant.Types, convertType(rt))
		}
	case "struct":
		variant.Kind = VariantStruct
		if err := json.Unmarshal(rv.VariantInner, &variant.Fields); err != nil {
			return nil, fmt.Errorf("failed to decode struct variant: %w", err)
		}
	default:
		variant.Kind = VariantOther
	}
	return variant, nil
}

func parseStructKind(s string) StructKind {
	switch s {
	case "plain":
		return StructPlain
	case "tuple":
		return StructTuple
	case "unit":
		return StructUnit
	default:
		return StructOther
	}
}

// convertType never fails: shapes that do not decode become Unsupported.
func convertType(rt rawType) TypeExpr {
	switch rt.Kind {
	case "primitive":
		var name string
		if err := json.Unmarshal(rt.Inner, &name); err == nil {
			return Primitive{Name: name}
		}
	case "array":
		var ra rawArray
		if err := json.Unmarshal(rt.Inner, &ra); err == nil {
			return Array{Elem: convertType(ra.Type), Len: ra.Len}
		}
	case "resolved_path":
		var rp rawPath
		if err := json.Unmarshal(rt.Inner, &rp); err == nil {
			path := ResolvedPath{ID: rp.ID, Name: rp.Name}
			if rp.Args != nil && rp.Args.AngleBracketed != nil {
				for _, arg := range rp.Args.AngleBracketed.Args {
					// lifetimes and const arguments are not types
					if arg.Type != nil {
						path.Args = append(path.Args, convertType(*arg.Type))
					}
				}
			}
			return path
		}
	}
	return Unsupported{Kind: rt.Kind, Raw: string(rt.Inner)}
}
