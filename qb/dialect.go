package qb

import (
	"fmt"
	"strings"
)

// KeySource tells how a dialect reports auto generated keys.
type KeySource int

const (
	// KeysFromFirstInsertID: LastInsertId is the first key of the batch.
	KeysFromFirstInsertID KeySource = iota
	// KeysFromLastInsertID: LastInsertId is the last key of the batch.
	KeysFromLastInsertID
	// KeysFromReturning: the statement returns the keys as rows.
	KeysFromReturning
)

type Dialect struct {
	DriverName                string
	PlaceholderChar           string
	IncludeIndexInPlaceholder bool
	PlaceHolderGenerator      func(n int) []string
	Keys                      KeySource
}

var Dialects = &struct {
	MySQL      *Dialect
	PostgreSQL *Dialect
	SQLite3    *Dialect
}{
	MySQL: &Dialect{
		DriverName:                "mysql",
		PlaceholderChar:           "?",
		IncludeIndexInPlaceholder: false,
		PlaceHolderGenerator:      mySQLPlaceHolder,
		Keys:                      KeysFromFirstInsertID,
	},
	PostgreSQL: &Dialect{
		DriverName:                "postgres",
		PlaceholderChar:           "$",
		IncludeIndexInPlaceholder: true,
		PlaceHolderGenerator:      postgresPlaceholder,
		Keys:                      KeysFromReturning,
	},
	SQLite3: &Dialect{
		DriverName:                "sqlite3",
		PlaceholderChar:           "?",
		IncludeIndexInPlaceholder: false,
		PlaceHolderGenerator:      mySQLPlaceHolder,
		Keys:                      KeysFromLastInsertID,
	},
}

func postgresPlaceholder(n int) []string {
	output := []string{}
	for i := 1; i < n+1; i++ {
		output = append(output, fmt.Sprintf("$%d", i))
	}
	return output
}

func mySQLPlaceHolder(n int) []string {
	output := []string{}
	for i := 0; i < n; i++ {
		output = append(output, "?")
	}

	return output
}

// Rebind rewrites the '?' placeholders of query into the dialect's own
// syntax. Question marks inside quoted literals and identifiers are kept.
func (d *Dialect) Rebind(query string) string {
	if d == nil || !d.IncludeIndexInPlaceholder {
		return query
	}
	positions := placeholderPositions(query)
	if len(positions) == 0 {
		return query
	}
	phs := d.PlaceHolderGenerator(len(positions))
	var sb strings.Builder
	last := 0
	for i, pos := range positions {
		sb.WriteString(query[last:pos])
		sb.WriteString(phs[i])
		last = pos + 1
	}
	sb.WriteString(query[last:])
	return sb.String()
}

func placeholderPositions(query string) []int {
	var positions []int
	var quote byte
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '?':
			positions = append(positions, i)
		}
	}
	return positions
}
