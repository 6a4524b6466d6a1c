package advocate

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simp-lee/advocates/internal/domain"
)

// fieldMatcher is one column a search term is compared against. The SQL holds
// a single placeholder for the LIKE pattern.
type fieldMatcher struct {
	name string
	sql  string
}

// searchFields lists every searchable column. A record matches when any of
// them contains the term. Text columns are matched through their folded
// copies so case is ignored beyond ASCII on every driver.
var searchFields = []fieldMatcher{
	{name: "first_name", sql: `search_first_name LIKE ? ESCAPE '\'`},
	{name: "last_name", sql: `search_last_name LIKE ? ESCAPE '\'`},
	{name: "city", sql: `search_city LIKE ? ESCAPE '\'`},
	{name: "degree", sql: `search_degree LIKE ? ESCAPE '\'`},
	{name: "specialties", sql: `search_specialties LIKE ? ESCAPE '\'`},
	{name: "years_of_experience", sql: `CAST(years_of_experience AS TEXT) LIKE ? ESCAPE '\'`},
}

var likeEscape = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// fold lower-cases s with full Unicode case mapping. A Caser keeps state, so
// each call builds its own.
func fold(s string) string {
	return cases.Lower(language.Und).String(s)
}

// foldedIndex returns the search columns for a.
func foldedIndex(a domain.Advocate) domain.SearchIndex {
	return domain.SearchIndex{
		FirstName:   fold(a.FirstName),
		LastName:    fold(a.LastName),
		City:        fold(a.City),
		Degree:      fold(a.Degree),
		Specialties: fold(a.Specialties.Serialized()),
	}
}

// likePattern folds term, escapes LIKE metacharacters and wraps it for a
// substring match.
func likePattern(term string) string {
	return "%" + likeEscape.Replace(fold(term)) + "%"
}

// matching returns a scope restricting a query to records containing term.
// An empty term leaves the query unfiltered. The term only ever reaches the
// database as a bound parameter.
func matching(term string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" {
			return db
		}
		pattern := likePattern(term)
		exprs := make([]clause.Expression, 0, len(searchFields))
		for _, f := range searchFields {
			exprs = append(exprs, clause.Expr{SQL: f.sql, Vars: []any{pattern}})
		}
		return db.Where(clause.Or(exprs...))
	}
}
