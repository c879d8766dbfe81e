package sqlschema

// Annotation holds SQL specific settings of an enum column.
//
// Both the functional and the struct literal style are supported:
//
//	sqlschema.Column(d, sqlschema.ColumnType("smallint"), sqlschema.NotNull())
//	sqlschema.Column(d, sqlschema.Annotation{ColumnType: "smallint", NotNull: true})
type Annotation struct {
	// ColumnType overrides the integer column type, e.g. "smallint".
	ColumnType string
	// NotNull makes the column NOT NULL.
	NotNull bool
	// SkipCheck omits the CHECK constraint.
	SkipCheck bool
}

// ColumnType sets the integer column type.
func ColumnType(typ string) Annotation {
	return Annotation{ColumnType: typ}
}

// NotNull makes the column NOT NULL.
func NotNull() Annotation {
	return Annotation{NotNull: true}
}

// SkipCheck omits the CHECK constraint of the column.
func SkipCheck() Annotation {
	return Annotation{SkipCheck: true}
}

// Merge combines annotations. Later column types override earlier ones.
func Merge(annotations ...Annotation) Annotation {
	var a Annotation
	for _, x := range annotations {
		if x.ColumnType != "" {
			a.ColumnType = x.ColumnType
		}
		a.NotNull = a.NotNull || x.NotNull
		a.SkipCheck = a.SkipCheck || x.SkipCheck
	}
	return a
}
