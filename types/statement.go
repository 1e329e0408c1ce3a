package types

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
	"unicode"
)

// StatementKind is the kind of a statement derived from its leading keyword.
type StatementKind string

// Statement kinds recognized by KindOf.
const (
	KindSelect  StatementKind = "SELECT"
	KindInsert  StatementKind = "INSERT"
	KindUpdate  StatementKind = "UPDATE"
	KindDelete  StatementKind = "DELETE"
	KindReplace StatementKind = "REPLACE"
	KindOther   StatementKind = "OTHER"
)

// Access is the read/write classification of a statement.
type Access string

const (
	// AccessRead marks statements that only read data.
	AccessRead Access = "READ"
	// AccessWrite marks statements that modify data.
	AccessWrite Access = "WRITE"
)

// DateTimeLayout is the layout used when a time.Time is rendered as a literal.
const DateTimeLayout = "2006-01-02 15:04:05"

// rowKeywords lists leading keywords of statements that produce a row set.
var rowKeywords = map[string]struct{}{
	"SELECT":   {},
	"SHOW":     {},
	"DESCRIBE": {},
	"DESC":     {},
	"EXPLAIN":  {},
	"WITH":     {},
	"VALUES":   {},
	"TABLE":    {},
	"PRAGMA":   {},
}

// FirstWord returns the first whitespace-delimited word of a statement.
//
// Leading whitespace of any kind, including newlines, is skipped.
// Returns an empty string for blank statements.
func FirstWord(sql string) string {
	fields := strings.FieldsFunc(sql, unicode.IsSpace)
	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}

// KindOf returns the kind of the statement from its leading keyword.
func KindOf(sql string) StatementKind {
	switch StatementKind(strings.ToUpper(FirstWord(sql))) {
	case KindSelect:
		return KindSelect
	case KindInsert:
		return KindInsert
	case KindUpdate:
		return KindUpdate
	case KindDelete:
		return KindDelete
	case KindReplace:
		return KindReplace
	default:
		return KindOther
	}
}

// ClassifyAccess classifies a statement as read or write.
//
// SELECT is a read; INSERT, UPDATE, DELETE and REPLACE are writes. Any other
// leading keyword yields an *UnknownStatementKindError. Connection routing does
// not use this function, see IsReadStatement.
func ClassifyAccess(sql string) (Access, error) {
	switch KindOf(sql) {
	case KindSelect:
		return AccessRead, nil
	case KindInsert, KindUpdate, KindDelete, KindReplace:
		return AccessWrite, nil
	default:
		return "", &UnknownStatementKindError{Keyword: strings.ToUpper(FirstWord(sql))}
	}
}

// IsReadStatement reports whether the statement may be routed to the read connection:
// after trimming, it begins with SELECT, case-insensitively.
func IsReadStatement(sql string) bool {
	s := strings.TrimSpace(sql)

	return len(s) >= 6 && strings.EqualFold(s[:6], "SELECT")
}

// ReturnsRows reports whether executing the statement yields a row set.
func ReturnsRows(sql string) bool {
	_, ok := rowKeywords[strings.ToUpper(strings.TrimLeft(FirstWord(sql), "("))]

	return ok
}

// ResolveQuery substitutes every ":name" placeholder with the quoted parameter value.
//
// The result is for logging and error messages only and must never be sent to a
// driver: values are wrapped in single quotes without escaping. Longer names are
// matched first so ":id" never rewrites part of ":idx".
func ResolveQuery(sql string, params Params) string {
	if len(params) == 0 {
		return sql
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, ":"+k, "'"+StringValue(params[k])+"'")
	}

	return strings.NewReplacer(pairs...).Replace(sql)
}

// Indirect resolves v to the value a driver would bind for it.
//
// A driver.Valuer is replaced by the result of Value and pointers are
// dereferenced. A nil pointer and a NULL Valuer (sql.NullString{}) resolve to
// nil. A Valuer whose Value fails is returned unchanged.
func Indirect(v any) any {
	if v == nil {
		return nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil
	}

	if valuer, ok := v.(driver.Valuer); ok {
		dv, err := valuer.Value()
		if err != nil {
			return v
		}
		if dv == nil {
			return nil
		}
		rv = reflect.ValueOf(dv)
	}

	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	return rv.Interface()
}

// StringValue renders a scalar the way it appears inside a SQL literal.
//
// Values are resolved with Indirect first. nil renders as an empty string,
// booleans as "1" and "", byte slices as their contents and times in
// DateTimeLayout.
func StringValue(v any) string {
	switch val := Indirect(v).(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case bool:
		if val {
			return "1"
		}
		return ""
	case time.Time:
		return val.Format(DateTimeLayout)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
