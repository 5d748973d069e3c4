package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
	"github.com/BingoAIHelper/bingo-backend/internal/repository"
	"github.com/BingoAIHelper/bingo-backend/internal/services"
)

type assessmentService interface {
	Submit(ctx context.Context, userID int64, role string, input repository.AssessmentInput) (*models.Assessment, error)
	GetOwn(ctx context.Context, userID int64) (*models.Assessment, error)
	GetForSeeker(ctx context.Context, coachID int64, role string, seekerID int64) (*models.Assessment, error)
	AddSection(ctx context.Context, coachID int64, role string, seekerID int64, section models.AssessmentSection) (*models.Assessment, error)
}

type AssessmentHandler struct {
	service assessmentService
}

func NewAssessmentHandler(service assessmentService) *AssessmentHandler {
	return &AssessmentHandler{service: service}
}

func (h *AssessmentHandler) Submit(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req repository.AssessmentInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	assessment, err := h.service.Submit(c.Context(), userID, currentRole(c), req)
	if err != nil {
		return mapAssessmentError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(assessment)
}

func (h *AssessmentHandler) GetOwn(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	assessment, err := h.service.GetOwn(c.Context(), userID)
	if err != nil {
		return mapAssessmentError(c, err)
	}

	return c.JSON(assessment)
}

func (h *AssessmentHandler) GetForSeeker(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	seekerID, err := parseIDParam(c, "seekerId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid seeker id"})
	}

	assessment, err := h.service.GetForSeeker(c.Context(), userID, currentRole(c), seekerID)
	if err != nil {
		return mapAssessmentError(c, err)
	}

	return c.JSON(assessment)
}

func (h *AssessmentHandler) AddSection(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	seekerID, err := parseIDParam(c, "seekerId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid seeker id"})
	}

	var section models.AssessmentSection
	if err := c.BodyParser(&section); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	assessment, err := h.service.AddSection(c.Context(), userID, currentRole(c), seekerID, section)
	if err != nil {
		return mapAssessmentError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(assessment)
}

func mapAssessmentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid assessment"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "you do not have access to this assessment"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "assessment not found"})
	default:
		log.Printf("assessment handler: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "something went wrong"})
	}
}
