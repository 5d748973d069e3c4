package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 50
)

func parsePagination(c *fiber.Ctx) (limit, offset, page int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	limit = c.QueryInt("limit", defaultPageLimit)
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	return limit, (page - 1) * limit, page
}

func buildPaginationMeta(page, limit, total int) models.PaginationMeta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return models.PaginationMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
