package codegen_test

import (
	"fmt"
	"log"

	"github.com/okra-platform/typegen/internal/codegen"
	"github.com/okra-platform/typegen/internal/schema"
	"github.com/okra-platform/typegen/internal/testutil"
)

func Example_usage() {
	// Build a small crate export: an enum with a unit and a tuple variant
	b := testutil.NewCrate("sdk")
	b.Enum("E", b.UnitVariant("Unit"), b.TupleVariant("Amount", testutil.Prim("u64")))

	root, err := schema.ParseRoot("sdk::E", "enum")
	if err != nil {
		log.Fatal(err)
	}

	gen, err := codegen.DefaultRegistry.Get("typescript", codegen.Options{Helpers: "oasis.types"})
	if err != nil {
		log.Fatal(err)
	}

	code, diags, err := gen.Generate(b.Index(), []schema.Root{root})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Print(string(code))
	fmt.Println("diagnostics:", diags.Len())

	// Output:
	// export type E =
	//     'Unit' |
	//     {
	//         Amount: oasis.types.longnum /* u64 */;
	//     };
	// diagnostics: 0
}
