// Package sql provides the database/sql backed driver of asenum and a
// Store reading and writing the integer columns of enum attributes.
//
// Opening a driver and loading a record:
//
//	import (
//	    "github.com/syssam/asenum/dialect"
//	    "github.com/syssam/asenum/dialect/sql"
//	    _ "github.com/lib/pq"
//	)
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	store, err := sql.NewStore(sql.NewDebugDriver(drv), "users")
//	f, err := store.Load(ctx, id, "gender_cd", "status_cd")
//
// Changed columns are written back with Save:
//
//	_ = Gender.Set(&user, "female")
//	err = store.Save(ctx, id, &user.Fields)
//
// Audit reports stored values that are not codes of a definition:
//
//	rep, err := store.Audit(ctx, genderDef, statusDef)
//	for _, f := range rep.Findings {
//	    fmt.Println(f.Column, f.Value, f.Count)
//	}
//
// Statements are built with a small dialect aware Builder that quotes
// identifiers ("name" or `name`) and numbers placeholders ($1 or ?).
package sql
