// Package gen generates typed Go enums from asenum definitions.
//
// Each registry entry becomes one file holding a string type named after
// the host and attribute, e.g. UserGender for the "gender" attribute of
// models.User, along with:
//
//   - one constant per value, unless the definition is slim
//   - a Values function listing the values in declaration order
//   - a FromCode function and a Code method mapping to stored codes
//   - driver.Valuer and sql.Scanner implementations storing codes
//   - optional gqlgen MarshalGQL and UnmarshalGQL methods
//
// Usage:
//
//	paths, err := gen.Generate(ctx, asenum.DefaultRegistry.Entries(),
//	    gen.WithPackage("enums"),
//	    gen.WithTarget("./internal/enums"),
//	    gen.WithGraphQL(true),
//	)
//
// Files are rendered with jennifer and formatted with goimports in
// parallel, bounded by WithWorkers.
package gen
