package server

import (
	"errors"
	"strings"

	"reclaim/internal/filter"
	"reclaim/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const (
	maxPaginationLimit = 100
	defaultListLimit   = 50
)

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// paginate applies limit/offset to an already-filtered snapshot.
func paginate[T any](in []T, p Pagination) []T {
	if p.Offset >= len(in) {
		return []T{}
	}
	end := p.Offset + p.Limit
	if end > len(in) {
		end = len(in)
	}
	return in[p.Offset:end]
}

// parseFilterQuery builds a triage filter from query parameters. The status
// slot accepts concrete statuses and the "all"/"reported"/"spam" sentinels;
// tags arrive comma-separated.
func parseFilterQuery(c *fiber.Ctx) filter.Query {
	q := filter.Query{
		Status:   c.Query("filter", filter.All),
		Search:   c.Query("search"),
		Category: c.Query("category"),
	}

	if raw := c.Query("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				q.Tags = append(q.Tags, tag)
			}
		}
	}

	return q
}

// parseStringID extracts a non-empty route parameter by name.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseStringID(c *fiber.Ctx, param string) (string, error) {
	id := strings.TrimSpace(c.Params(param))
	if id == "" {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return "", errResponseWritten
	}
	return id, nil
}

// respondServiceError maps a service error onto its HTTP status.
func respondServiceError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusForError(err), err)
}
