package utils

import (
	"net/http"
	"strconv"
)

type QueryOptions struct {
	Page        int
	Limit       int
	Status      string
	GymID       string
	SessionType string
}

func ParseQueryOptions(r *http.Request) QueryOptions {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 10
	}

	return QueryOptions{
		Page:        page,
		Limit:       limit,
		Status:      q.Get("status"),
		GymID:       q.Get("gymId"),
		SessionType: q.Get("sessionType"),
	}
}
