package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tarea-pm/tarea/internal/database"
)

// pageRequest reads ?page= and ?page_size= with the standard defaults.
// Out-of-range values fall back rather than erroring.
func pageRequest(c echo.Context) database.PageRequest {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(c.QueryParam("page_size"))
	if size < 1 {
		size = database.DefaultPageSize
	}
	if size > database.MaxPageSize {
		size = database.MaxPageSize
	}
	return database.PageRequest{Page: page, PageSize: size}
}

func toPageResponse[T any, M any](page database.PageRequest, result *database.PageResult[M], convert func(M) T) pageResponse[T] {
	items := make([]T, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, convert(item))
	}
	return pageResponse[T]{
		Count:    result.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
		Results:  items,
	}
}
