// Package repository maps result rows to domain values on top of a simpledb client.
//
// A [Repository] pairs a table with a [Mapper] that builds one value from an
// associative row. Hand-written statements go through GetByParameters and
// GetAllByParameters; equality searches and counts are built with goqu:
//
//	users := repository.New(client, "users", func(row types.Row) (User, error) {
//	    m := row.Map()
//	    return User{ID: types.StringValue(m["id"]), Name: types.StringValue(m["name"])}, nil
//	})
//
//	page, err := users.Search(ctx, simpledb.Params{"active": 1}, "name ASC", 2, 20)
//	total, err := users.Count(ctx, simpledb.Params{"active": 1})
//
// Values going the other way implement [Entity]; [ToMap] flattens nested
// entities into plain maps, e.g. for JSON encoding.
package repository
