// Package field provides the fluent builder for declaring enum attributes
// that are stored as integer codes.
//
// Attribute names follow database conventions (snake_case). The storage
// column defaults to the attribute name with a "_cd" suffix:
//
//	field.Enum("gender")            // column: gender_cd
//	field.Enum("status").Column("state")
//
// # Values
//
// Values are declared either as an ordered list, numbered from zero in
// call order, or with explicit codes:
//
//	// deleted=0, active=1, disabled=2
//	field.Enum("status").Values("deleted", "active", "disabled")
//
//	// explicit codes, declaration order kept
//	field.Enum("gender").Value("female", 1).Value("male", 0)
//	field.Enum("gender").Pairs("female", 1, "male", 0)
//
//	// explicit codes from a map, ordered by code
//	field.Enum("gender").Map(map[string]int64{"female": 1, "male": 0})
//
// Reordering a Values list across releases silently changes the stored
// codes of existing rows. Use explicit codes for long lived data.
//
// # Options
//
//	field.Enum("gender").
//	    Values("male", "female").
//	    PrefixAttribute().  // gender_male?, gender_female!
//	    Whiny(false).       // store unknown values untranslated
//	    Dirty()             // Changed / Was helpers
//
//	field.Enum("role").Values("user", "admin").Slim() // no shortcuts
//
// The builder only collects the declaration. Validation (duplicate names
// or codes, negative codes, invalid identifiers) happens when the
// descriptor is built by asenum.Build.
package field
