package repository

import (
	"fmt"

	"taskboard/internal/domain"
)

// TaskOrderBy renders the ORDER BY clause for a task listing. Only whitelisted
// identifiers reach the SQL text; everything user-supplied goes through
// domain.ParseSortField/ParseSortDir first.
func TaskOrderBy(f domain.TaskFilter) string {
	col := domain.ParseSortField(string(f.SortBy))
	dir := domain.ParseSortDir(string(f.SortDir))
	return fmt.Sprintf("ORDER BY %s %s NULLS LAST, id %s", col, dir, dir)
}
