// Package search matches free-text queries against exercises.
//
// A query matches an exercise when it is a case-insensitive substring of any of
// its name, muscle, equipment type or difficulty level. Case folding follows
// Unicode rules. The query is always treated literally: LIKE wildcards typed by
// the user are escaped.
package search

import (
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/gymlife/internal/entities"
)

// Column holds the lowercased searchable fields of an exercise, filled by
// entities.Exercise.BuildSearchText.
const Column = "search_text"

const escapeChar = `\`

var likeEscaper = strings.NewReplacer(
	escapeChar, escapeChar+escapeChar,
	"%", escapeChar+"%",
	"_", escapeChar+"_",
)

// Matcher is a compiled search query.
type Matcher struct {
	raw   string
	lower string
}

// New compiles a query. The empty query matches every exercise.
func New(query string) Matcher {
	return Matcher{raw: query, lower: strings.ToLower(query)}
}

// Query returns the query as typed.
func (m Matcher) Query() string {
	return m.raw
}

// IsEmpty reports whether the matcher accepts everything.
func (m Matcher) IsEmpty() bool {
	return m.raw == ""
}

// Pattern returns the escaped LIKE pattern for the query.
func (m Matcher) Pattern() string {
	return "%" + likeEscaper.Replace(m.lower) + "%"
}

// Scope returns a gorm scope applying the same predicate in SQL.
func (m Matcher) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if m.IsEmpty() {
			return db
		}

		// A separator in the query would match across two fields.
		if strings.Contains(m.lower, entities.SearchSeparator) {
			return db.Where("1 = 0")
		}
		return db.Where(Column+" LIKE ? ESCAPE '"+escapeChar+"'", m.Pattern())
	}
}
