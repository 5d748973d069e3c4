package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
)

type coachDirectory interface {
	ListAll(ctx context.Context) ([]models.CoachProfile, error)
	GetByUserID(ctx context.Context, userID int64) (*models.CoachProfile, error)
}

type coachRecommender interface {
	GetMatchedCoaches(ctx context.Context, seeker *models.SeekerProfile, limit int) ([]models.CoachWithScore, error)
}

type seekerProfileReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.SeekerProfile, error)
}

type CoachDiscoveryHandler struct {
	coaches        coachDirectory
	recommender    coachRecommender
	seekerProfiles seekerProfileReader
}

func NewCoachDiscoveryHandler(
	coaches coachDirectory,
	recommender coachRecommender,
	seekerProfiles seekerProfileReader,
) *CoachDiscoveryHandler {
	return &CoachDiscoveryHandler{
		coaches:        coaches,
		recommender:    recommender,
		seekerProfiles: seekerProfiles,
	}
}

func (h *CoachDiscoveryHandler) ListCoaches(c *fiber.Ctx) error {
	if _, ok := currentUserID(c); !ok {
		return unauthorized(c)
	}

	coaches, err := h.coaches.ListAll(c.Context())
	if err != nil {
		log.Printf("list coaches: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load coaches"})
	}

	limit, offset, page := parsePagination(c)
	total := len(coaches)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	return c.JSON(fiber.Map{
		"coaches":    coaches[offset:end],
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

// RecommendedCoaches scores every onboarded coach against the seeker's profile
// and returns the best fits first.
func (h *CoachDiscoveryHandler) RecommendedCoaches(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}
	if currentRole(c) != models.RoleSeeker {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "seeker role required"})
	}

	seeker, err := h.seekerProfiles.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "profile not found"})
		}
		log.Printf("recommended coaches: load seeker profile: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load recommendations"})
	}

	limit := c.QueryInt("limit", defaultPageLimit)
	if limit < 1 || limit > maxPageLimit {
		limit = defaultPageLimit
	}

	matches, err := h.recommender.GetMatchedCoaches(c.Context(), seeker, limit)
	if err != nil {
		log.Printf("recommended coaches: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load recommendations"})
	}

	return c.JSON(fiber.Map{"coaches": matches})
}

func (h *CoachDiscoveryHandler) GetCoach(c *fiber.Ctx) error {
	if _, ok := currentUserID(c); !ok {
		return unauthorized(c)
	}

	coachID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid coach id"})
	}

	coach, err := h.coaches.GetByUserID(c.Context(), coachID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "coach not found"})
		}
		log.Printf("get coach: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load coach"})
	}

	return c.JSON(coach)
}
