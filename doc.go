// Package asenum maps an enumerated attribute onto an integer storage
// column. Each declaration binds symbolic names to stable codes, stores
// the code in a column named "<attribute>_cd" by default and exposes the
// symbolic name through a typed accessor table.
//
// Declaring an enum:
//
//	type GenderKey string
//
//	var Gender = asenum.MustDeclare[*User, GenderKey](
//	    field.Enum("gender").Map(map[string]int64{"female": 1, "male": 0}),
//	)
//
//	u := &User{}
//	_ = Gender.Set(u, "female")   // stores 1 in gender_cd
//	k, _ := Gender.Get(u)         // "female"
//	female, _ := Gender.Predicate("female?")
//	female(u)                     // true
//
// Declarations are validated once: invalid identifiers, negative codes
// and duplicated names or codes are reported together in a single
// *ConfigurationError, and nothing is registered.
//
// Assignments of unknown values fail with *InvalidEnumValueError unless
// the attribute is declared with Whiny(false), in which case the value
// is stored untranslated and reads report it as unknown.
package asenum
