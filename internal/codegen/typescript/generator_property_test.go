package typescript

import (
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/typegen/internal/schema"
	"github.com/okra-platform/typegen/internal/testutil"
)

// Test plan for property-based testing:
// 1. Random declaration graphs, cycles included, always terminate
// 2. Every declaration is emitted at most once
// 3. Every referenced declaration is emitted
// 4. Declarations appear sorted by name
// 5. Output does not depend on anything but the input

var (
	declRegex = regexp.MustCompile(`(?m)^export (?:interface|type) (T\d+)\b`)
	refRegex  = regexp.MustCompile(`\bT\d+\b`)
)

var randomPrimitives = []string{"u8", "u16", "u32", "u64", "i64", "u128", "bool", "str"}

type randomCrate struct {
	rng   *rand.Rand
	b     *testutil.CrateBuilder
	decls []schema.ID
}

func (c *randomCrate) typeExpr(depth int) schema.TypeExpr {
	choice := c.rng.Intn(7)
	if depth > 2 {
		choice = c.rng.Intn(2)
	}
	switch choice {
	case 0:
		return testutil.Prim(randomPrimitives[c.rng.Intn(len(randomPrimitives))])
	case 1, 2:
		n := c.rng.Intn(len(c.decls))
		return testutil.Ref(c.decls[n], fmt.Sprintf("T%d", n))
	case 3:
		return testutil.Vec(c.typeExpr(depth + 1))
	case 4:
		return testutil.Option(c.typeExpr(depth + 1))
	case 5:
		return testutil.Array(testutil.Prim("u8"), 32)
	default:
		return testutil.String()
	}
}

func (c *randomCrate) fields(n int) []schema.ID {
	ids := make([]schema.ID, 0, n)
	for i := range n {
		ids = append(ids, c.b.Field(fmt.Sprintf("f%d", i), c.typeExpr(0)))
	}
	return ids
}

// generateRandomCrate builds n mutually referencing structs and enums
func generateRandomCrate(seed int64, n int) *testutil.CrateBuilder {
	c := &randomCrate{rng: rand.New(rand.NewSource(seed)), b: testutil.NewCrate("sdk")}

	isEnum := make([]bool, n)
	for i := range n {
		isEnum[i] = c.rng.Intn(2) == 0
		path := fmt.Sprintf("m::T%d", i)
		if isEnum[i] {
			c.decls = append(c.decls, c.b.Enum(path))
		} else {
			c.decls = append(c.decls, c.b.Struct(path))
		}
	}

	for i, id := range c.decls {
		if !isEnum[i] {
			c.b.Item(id).Inner.(*schema.Struct).Fields = c.fields(c.rng.Intn(4))
			continue
		}

		var variants []schema.ID
		for v := range 1 + c.rng.Intn(3) {
			name := fmt.Sprintf("V%d", v)
			switch c.rng.Intn(3) {
			case 0:
				variants = append(variants, c.b.UnitVariant(name))
			case 1:
				variants = append(variants, c.b.TupleVariant(name, c.typeExpr(0)))
			default:
				variants = append(variants, c.b.StructVariant(name, c.fields(1+c.rng.Intn(2))...))
			}
		}
		c.b.Item(id).Inner.(*schema.Enum).Variants = variants
	}

	return c.b
}

func TestGenerator_PropertyBasedDeclarations(t *testing.T) {
	for i := range 50 {
		t.Run(fmt.Sprintf("random_crate_%d", i), func(t *testing.T) {
			n := 1 + i%12
			b := generateRandomCrate(int64(i), n)
			idx := b.Index()

			kind := "struct"
			// T0 is always the first item added
			if _, ok := b.Item("0:1").Inner.(*schema.Enum); ok {
				kind = "enum"
			}
			roots := []schema.Root{b.Root("m::T0", kind)}

			g := NewGenerator("h")
			code, diags, err := g.Generate(idx, roots)
			require.NoError(t, err)
			assert.False(t, diags.HasWarnings(), "diagnostics: %v", diags.Warnings)

			again, _, err := g.Generate(idx, roots)
			require.NoError(t, err)
			assert.Equal(t, string(code), string(again))

			var declared []string
			seen := map[string]bool{}
			for _, m := range declRegex.FindAllStringSubmatch(string(code), -1) {
				assert.False(t, seen[m[1]], "%s declared twice", m[1])
				seen[m[1]] = true
				declared = append(declared, m[1])
			}

			assert.True(t, seen["T0"], "root must be declared")
			assert.True(t, sort.StringsAreSorted(declared), "declarations out of order: %v", declared)

			for _, ref := range refRegex.FindAllString(string(code), -1) {
				assert.True(t, seen[ref], "%s is referenced but not declared", ref)
			}
		})
	}
}
