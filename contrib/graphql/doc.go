// Package graphql exposes asenum definitions as GraphQL enums for gqlgen.
//
// Every entry becomes an enum type named like the Go type produced by
// compiler/gen, with upper-cased values:
//
//	enum UserGender {
//	  MALE
//	  FEMALE
//	}
//
// Writing the schema and binding it in gqlgen.yml:
//
//	s, err := graphql.NewSchema(asenum.DefaultRegistry.Entries())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := s.WriteFile("graph/enums.graphql"); err != nil {
//	    log.Fatal(err)
//	}
//	cfg, err := graphql.LoadGQLGenConfig("gqlgen.yml")
//	cfg.AddSchemaPath("graph/enums.graphql")
//	cfg.BindEnums("example.com/app/enums", s)
//	err = cfg.Save("gqlgen.yml")
//
// Resolvers working with plain names or codes convert through Enum:
//
//	e, _ := graphql.NewEnum("models.User", genderDef)
//	name, err := e.Unmarshal("FEMALE") // "female"
//	m := e.MarshalCode(1)              // "FEMALE"
package graphql
