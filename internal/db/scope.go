package db

import (
	"fmt"
	"sort"

	"family-dues-go/internal/domain/access"
	"gorm.io/gorm"
)

// ScopeResolver turns one filter key into a condition on query.
type ScopeResolver func(query *gorm.DB, value any) *gorm.DB

// Column matches column against value. A nil value matches nothing: a
// caller scoped to a rama or family it does not have sees no rows.
func Column(column string) ScopeResolver {
	return func(query *gorm.DB, value any) *gorm.DB {
		if value == nil {
			return query.Where("1 = 0")
		}
		return query.Where(column+" = ?", value)
	}
}

// Subquery matches column against the ids selected by sql, which takes the
// filter value as its only argument. A nil value matches nothing.
func Subquery(column, sql string) ScopeResolver {
	return func(query *gorm.DB, value any) *gorm.DB {
		if value == nil {
			return query.Where("1 = 0")
		}
		return query.Where(column+" IN ("+sql+")", value)
	}
}

// ApplyScope adds one condition per filter key, in key order. Keys without a
// resolver are rejected so a filter can never name an arbitrary column.
func ApplyScope(query *gorm.DB, scope access.Filter, resolvers map[string]ScopeResolver) (*gorm.DB, error) {
	keys := make([]string, 0, len(scope))
	for key := range scope {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		resolve, ok := resolvers[key]
		if !ok {
			return nil, fmt.Errorf("db: unsupported filter key %q", key)
		}
		query = resolve(query, scope[key])
	}
	return query, nil
}
