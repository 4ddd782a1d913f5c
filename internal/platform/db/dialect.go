package db

import (
	"regexp"
	"strings"
)

// Dialect is the placeholder style of the connected database.
// Queries are written with postgres "$n" placeholders.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

var positional = regexp.MustCompile(`\$\d+`)

// Rebind rewrites "$n" placeholders to "?" for sqlite. Each placeholder
// must appear once, in argument order.
func (d Dialect) Rebind(query string) string {
	if d != SQLite {
		return query
	}
	return positional.ReplaceAllString(query, "?")
}

func (d Dialect) String() string {
	switch d {
	case SQLite:
		return "sqlite"
	default:
		return "postgres"
	}
}

// DialectFor guesses the dialect from a configured database URL.
func DialectFor(databaseURL string) Dialect {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return Postgres
	}
	return SQLite
}
