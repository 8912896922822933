// Package store persists users and posts in Postgres.
package store

import (
	"watizat/pkg/types"

	sq "github.com/Masterminds/squirrel"
)

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func categoriesFromText(values []string) []types.Category {
	out := make([]types.Category, len(values))
	for i, v := range values {
		out[i] = types.Category(v)
	}
	return out
}

func categoriesToText(categories []types.Category) []string {
	return types.CategoryStrings(categories)
}
