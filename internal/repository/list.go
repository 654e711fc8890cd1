package repository

import "gorm.io/gorm"

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func paginate(q *gorm.DB, page, limit int) *gorm.DB {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return q.Offset((page - 1) * limit).Limit(limit)
}

// orderClause maps a caller-supplied sort request onto a known column list so
// user input never reaches the ORDER BY clause directly.
func orderClause(allowed map[string]string, sortBy, sortOrder string) string {
	col, ok := allowed[sortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if sortOrder == "asc" {
		dir = "ASC"
	}
	return col + " " + dir
}
