package schema_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/typegen/internal/schema"
	"github.com/okra-platform/typegen/internal/testutil"
)

func TestLoadFile_RuntimeSDK(t *testing.T) {
	// Test plan:
	// - Crate metadata and external crates are decoded
	// - Struct, enum, typedef, field and variant payloads are decoded
	// - Rename attributes are resolved at load time
	// - Type expressions keep generic arguments

	crate, err := schema.LoadFile(testutil.FixturePath("runtime_sdk.json"))
	require.NoError(t, err)

	// Test: Crate metadata
	assert.Equal(t, schema.ID("0:0"), crate.Root)
	assert.Equal(t, "0.8.0", crate.CrateVersion)
	assert.Equal(t, 21, crate.FormatVersion)
	assert.Equal(t, "alloc", crate.ExternalCrates[1].Name)
	assert.Equal(t, "sk_cbor", crate.ExternalCrates[3].Name)

	// Test: Plain struct with documentation
	tx := crate.Index["0:10"]
	require.NotNil(t, tx)
	assert.Equal(t, "Transaction", tx.Name)
	assert.Equal(t, "Transaction.", tx.Docs)
	assert.Equal(t, schema.KindStruct, tx.Kind())
	st, ok := tx.Inner.(*schema.Struct)
	require.True(t, ok)
	assert.Equal(t, schema.StructPlain, st.Kind)
	assert.Equal(t, []schema.ID{"0:11", "0:12", "0:13"}, st.Fields)

	// Test: Renamed field
	version := crate.Index["0:11"]
	assert.Equal(t, schema.KindStructField, version.Kind())
	assert.Equal(t, "version", version.Name)
	assert.Equal(t, "v", version.Rename)
	assert.Equal(t, "v", version.WireName())
	assert.Equal(t, schema.Primitive{Name: "u16"}, version.Inner.(*schema.Field).Type)

	// Test: Field without rename keeps its name, and missing docs stay empty
	call := crate.Index["0:12"]
	assert.Equal(t, "call", call.WireName())
	assert.Equal(t, "", call.Docs)

	// Test: Generic arguments
	notBefore := crate.Index["0:32"].Inner.(*schema.Field).Type
	path, ok := notBefore.(schema.ResolvedPath)
	require.True(t, ok)
	assert.Equal(t, schema.ID("2:1"), path.ID)
	require.Len(t, path.Args, 1)
	assert.Equal(t, schema.Primitive{Name: "u64"}, path.Args[0])
	assert.Equal(t, "Option<u64>", notBefore.String())

	// Test: Stripped tuple struct
	denom := crate.Index["0:60"].Inner.(*schema.Struct)
	assert.Equal(t, schema.StructTuple, denom.Kind)
	assert.True(t, denom.FieldsStripped)

	// Test: Typedef
	gas := crate.Index["0:45"]
	assert.Equal(t, schema.KindTypedef, gas.Kind())
	assert.Equal(t, schema.Primitive{Name: "u64"}, gas.Inner.(*schema.Typedef).Type)

	// Test: Enum keeps variant order
	proof := crate.Index["0:90"].Inner.(*schema.Enum)
	assert.Equal(t, []schema.ID{"0:91", "0:92", "0:93", "0:94"}, proof.Variants)

	// Test: Variant kinds
	sig := crate.Index["0:91"].Inner.(*schema.Variant)
	assert.Equal(t, schema.VariantTuple, sig.Kind)
	require.Len(t, sig.Types, 1)
	assert.Equal(t, schema.Array{Elem: schema.Primitive{Name: "u8"}, Len: "64"}, sig.Types[0])

	invalid := crate.Index["0:94"].Inner.(*schema.Variant)
	assert.Equal(t, schema.VariantUnit, invalid.Kind)

	transfer := crate.Index["0:101"].Inner.(*schema.Variant)
	assert.Equal(t, schema.VariantStruct, transfer.Kind)
	assert.Equal(t, []schema.ID{"0:102", "0:103", "0:104"}, transfer.Fields)

	assert.Equal(t, "encrypted/x25519-deoxysii", crate.Index["0:72"].WireName())

	// Test: Modules are kept as other items
	assert.Equal(t, schema.KindOther, crate.Index["0:0"].Kind())
	assert.Equal(t, "module", crate.Index["0:0"].RawKind)
}

func TestLoad_UnsupportedShapes(t *testing.T) {
	// Test: Unknown type kinds and unknown struct/variant kinds degrade instead of failing
	input := `{
  "root": "0:0",
  "format_version": 21,
  "crate_version": null,
  "external_crates": {},
  "paths": {},
  "index": {
    "0:0": {"id": "0:0", "crate_id": 0, "name": "c", "docs": null, "attrs": [], "kind": "module", "inner": {"items": []}},
    "0:1": {"id": "0:1", "crate_id": 0, "name": "r", "docs": null, "attrs": [], "kind": "struct_field",
            "inner": {"kind": "borrowed_ref", "inner": {"lifetime": "'a", "mutable": false, "type": {"kind": "primitive", "inner": "str"}}}},
    "0:2": {"id": "0:2", "crate_id": 0, "name": "U", "docs": null, "attrs": [], "kind": "struct",
            "inner": {"struct_type": "union", "fields_stripped": false, "fields": []}},
    "0:3": {"id": "0:3", "crate_id": 0, "name": "V", "docs": null, "attrs": [], "kind": "variant",
            "inner": {"variant_kind": "discriminant", "variant_inner": null}},
    "0:4": {"id": "0:4", "crate_id": 0, "name": "w", "docs": null, "attrs": [], "kind": "struct_field",
            "inner": {"kind": "resolved_path", "inner": {"name": "Cow", "id": "5:1",
              "args": {"angle_bracketed": {"args": [{"lifetime": "'a"}, {"type": {"kind": "primitive", "inner": "str"}}], "bindings": []}}}}}
  }
}`

	crate, err := schema.Load(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "", crate.CrateVersion)

	ref := crate.Index["0:1"].Inner.(*schema.Field).Type
	unsupported, ok := ref.(schema.Unsupported)
	require.True(t, ok)
	assert.Equal(t, "borrowed_ref", unsupported.Kind)
	assert.Contains(t, unsupported.Raw, "lifetime")

	union := crate.Index["0:2"].Inner.(*schema.Struct)
	assert.Equal(t, schema.StructOther, union.Kind)
	assert.Equal(t, "union", union.RawKind)

	variant := crate.Index["0:3"].Inner.(*schema.Variant)
	assert.Equal(t, schema.VariantOther, variant.Kind)
	assert.Equal(t, "discriminant", variant.RawKind)

	// Test: Lifetime arguments are skipped, type arguments kept
	cow := crate.Index["0:4"].Inner.(*schema.Field).Type.(schema.ResolvedPath)
	require.Len(t, cow.Args, 1)
	assert.Equal(t, schema.Primitive{Name: "str"}, cow.Args[0])
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		errContains string
	}{
		{
			name:        "invalid json",
			input:       `{"index": `,
			errContains: "failed to decode crate export",
		},
		{
			name:        "invalid external crate id",
			input:       `{"index": {}, "external_crates": {"x": {"name": "alloc"}}}`,
			errContains: "invalid external crate id",
		},
		{
			name:        "malformed struct payload",
			input:       `{"index": {"0:1": {"name": "S", "kind": "struct", "inner": {"fields": "nope"}}}}`,
			errContains: "failed to decode struct",
		},
		{
			name:        "malformed tuple variant payload",
			input:       `{"index": {"0:1": {"name": "V", "kind": "variant", "inner": {"variant_kind": "tuple", "variant_inner": 3}}}}`,
			errContains: "failed to decode tuple variant",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.Load(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	// Test: A missing file is reported with context
	_, err := schema.LoadFile("does-not-exist.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open crate export")
}
