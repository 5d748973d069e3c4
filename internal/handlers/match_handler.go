package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
	"github.com/BingoAIHelper/bingo-backend/internal/services"
)

type matchService interface {
	RequestMatch(ctx context.Context, input services.RequestMatchInput) (*services.RequestMatchResult, error)
	RespondToMatch(ctx context.Context, matchID, actorID int64, newStatus string) (*models.CoachMatch, error)
	GetMatch(ctx context.Context, matchID, actorID int64) (*models.CoachMatch, error)
	ListMatches(ctx context.Context, actorID int64) ([]models.CoachMatch, error)
}

type MatchHandler struct {
	service matchService
}

func NewMatchHandler(service matchService) *MatchHandler {
	return &MatchHandler{service: service}
}

type requestMatchRequest struct {
	CoachID    int64  `json:"coach_id"`
	SeekerID   int64  `json:"seeker_id"`
	MatchScore *int   `json:"match_score"`
	Reason     string `json:"reason"`
}

type respondMatchRequest struct {
	Status string `json:"status"`
}

func (h *MatchHandler) RequestMatch(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req requestMatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	// The caller only names the counterpart; their own side comes from the
	// token.
	input := services.RequestMatchInput{
		CoachID:     req.CoachID,
		SeekerID:    req.SeekerID,
		InitiatorID: userID,
		MatchScore:  req.MatchScore,
		MatchReason: req.Reason,
	}
	if currentRole(c) == models.RoleCoach {
		input.CoachID = userID
	} else {
		input.SeekerID = userID
	}

	result, err := h.service.RequestMatch(c.Context(), input)
	if err != nil {
		return mapMatchError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *MatchHandler) RespondToMatch(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	matchID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid match id"})
	}

	var req respondMatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	match, err := h.service.RespondToMatch(c.Context(), matchID, userID, req.Status)
	if err != nil {
		return mapMatchError(c, err)
	}

	return c.JSON(match)
}

func (h *MatchHandler) GetMatch(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	matchID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid match id"})
	}

	match, err := h.service.GetMatch(c.Context(), matchID, userID)
	if err != nil {
		return mapMatchError(c, err)
	}

	return c.JSON(match)
}

func (h *MatchHandler) ListMatches(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	matches, err := h.service.ListMatches(c.Context(), userID)
	if err != nil {
		return mapMatchError(c, err)
	}

	return c.JSON(fiber.Map{"matches": matches})
}

func mapMatchError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid match request"})
	case errors.Is(err, services.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "status must be matched or declined"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "you are not part of this match"})
	case errors.Is(err, services.ErrCoachNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "coach not found"})
	case errors.Is(err, services.ErrSeekerNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "seeker not found"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "match not found"})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "match already exists or has been resolved"})
	default:
		log.Printf("match handler: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "something went wrong"})
	}
}
