package simpledb

import "github.com/arloliu/simpledb/types"

// ResolveQuery substitutes every ":name" placeholder with the quoted parameter
// value, for log lines and error messages only.
//
// The result is never sent to a driver. Values are not escaped.
//
// Example:
//
//	simpledb.ResolveQuery("SELECT * FROM t WHERE id = :id", simpledb.Params{"id": "5"})
//	// SELECT * FROM t WHERE id = '5'
func ResolveQuery(sql string, params types.Params) string {
	return types.ResolveQuery(sql, params)
}
