package api

import (
	"net/http"
	"strconv"
)

// paginationMeta echoes the window a list response covers.
type paginationMeta struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// parsePaginationParams reads ?limit and ?offset from the request,
// clamping bad or missing values to the defaults.
func parsePaginationParams(r *http.Request, defaultLimit, maxLimit int) (int, int) {
	query := r.URL.Query()

	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}

	offset, _ := strconv.Atoi(query.Get("offset"))
	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

func calculatePaginationMeta(limit, offset, total int) paginationMeta {
	return paginationMeta{
		Limit:  limit,
		Offset: offset,
		Total:  total,
	}
}
