package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tarea-pm/tarea/internal/config"
)

func TestRebind_SQLitePassthrough(t *testing.T) {
	db := &DB{engine: config.EngineSQLite}
	query := "SELECT * FROM tasks WHERE id = ? AND status = ?"
	assert.Equal(t, query, db.rebind(query))
}

func TestRebind_Postgres(t *testing.T) {
	db := &DB{engine: config.EnginePostgres}

	tests := []struct {
		in       string
		expected string
	}{
		{"SELECT 1", "SELECT 1"},
		{"WHERE id = ?", "WHERE id = $1"},
		{"VALUES (?, ?, ?)", "VALUES ($1, $2, $3)"},
		{
			"UPDATE tasks SET title = ?, status = ? WHERE id = ?",
			"UPDATE tasks SET title = $1, status = $2 WHERE id = $3",
		},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, db.rebind(tt.in))
	}
}

func TestPrefixColumns(t *testing.T) {
	assert.Equal(t, "t.id, t.title", prefixColumns("t", "id, title"))
	assert.Equal(t, "u.id", prefixColumns("u", "id"))
}

func TestPageRequest_LimitOffset(t *testing.T) {
	tests := []struct {
		name   string
		page   PageRequest
		limit  int
		offset int
	}{
		{"defaults", PageRequest{}, DefaultPageSize, 0},
		{"second page", PageRequest{Page: 2, PageSize: 10}, 10, 10},
		{"oversized page capped", PageRequest{Page: 1, PageSize: 500}, MaxPageSize, 0},
		{"negative page", PageRequest{Page: -3, PageSize: 20}, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := tt.page.limitOffset()
			assert.Equal(t, tt.limit, limit)
			assert.Equal(t, tt.offset, offset)
		})
	}
}
