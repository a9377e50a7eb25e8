package db

import (
	"strings"

	"gorm.io/gorm"

	"github.com/cinezone/cinezone/internal/shared/query"
)

// Paginate applies LIMIT/OFFSET from a normalized page filter.
func Paginate(f query.PageFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(f.Offset()).Limit(f.Limit)
	}
}

// Contains matches rows where any of columns LIKE %term%, escaping LIKE
// wildcards in term. An empty term is a no-op.
func Contains(term string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + EscapeLike(term) + "%"
		like := " LIKE ?"
		// MySQL already treats backslash as the LIKE escape character.
		if db.Dialector != nil && db.Dialector.Name() == "sqlite" {
			like = ` LIKE ? ESCAPE '\'`
		}

		conds := make([]string, 0, len(columns))
		args := make([]any, 0, len(columns))
		for _, column := range columns {
			conds = append(conds, column+like)
			args = append(args, pattern)
		}
		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}

// EscapeLike escapes %, _ and the escape character itself.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
