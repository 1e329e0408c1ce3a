package sql

import "strings"

// BackslashEscaper is implemented by dialects whose string literals treat a
// backslash as an escape character. Dialects that do not implement it are
// assumed to escape quotes by doubling only.
type BackslashEscaper interface {
	BackslashEscapes() bool
}

// escapeLiteralColons rewrites every ':' inside a quoted run as "::" so the
// named parameter compiler emits it unchanged instead of reading a name.
//
// Quoted runs are '...', "..." and `...`. A doubled delimiter stays inside the
// run. When backslash is true a backslash escapes the next byte inside '...'
// and "..." runs.
func escapeLiteralColons(query string, backslash bool) string {
	if !strings.Contains(query, ":") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	var delim byte
	for i := 0; i < len(query); i++ {
		c := query[i]

		if delim == 0 {
			if c == '\'' || c == '"' || c == '`' {
				delim = c
			}
			b.WriteByte(c)

			continue
		}

		switch {
		case backslash && c == '\\' && delim != '`' && i+1 < len(query):
			b.WriteByte(c)
			i++
			if query[i] == ':' {
				b.WriteString("::")
			} else {
				b.WriteByte(query[i])
			}
		case c == delim:
			b.WriteByte(c)
			if i+1 < len(query) && query[i+1] == delim {
				b.WriteByte(delim)
				i++
			} else {
				delim = 0
			}
		case c == ':':
			b.WriteString("::")
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}
