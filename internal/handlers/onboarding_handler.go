package handlers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
	"github.com/BingoAIHelper/bingo-backend/internal/repository"
)

type OnboardingHandler struct {
	seekerProfiles seekerProfileStore
	coachProfiles  coachProfileStore
}

func NewOnboardingHandler(seekerProfiles seekerProfileStore, coachProfiles coachProfileStore) *OnboardingHandler {
	return &OnboardingHandler{seekerProfiles: seekerProfiles, coachProfiles: coachProfiles}
}

func (h *OnboardingHandler) CompleteSeekerOnboarding(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}
	if currentRole(c) != models.RoleSeeker {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "seeker role required"})
	}

	var req repository.SeekerOnboardingInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.FullName) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "full_name is required"})
	}

	profile, err := h.seekerProfiles.UpdateOnboarding(c.Context(), userID, req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "profile not found"})
		}
		log.Printf("seeker onboarding: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to complete onboarding"})
	}

	return c.JSON(profile)
}

func (h *OnboardingHandler) CompleteCoachOnboarding(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}
	if currentRole(c) != models.RoleCoach {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "coach role required"})
	}

	var req repository.CoachOnboardingInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.FullName) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "full_name is required"})
	}
	if req.HourlyRate < 0 || req.ExperienceYears < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "hourly_rate and experience_years must be non-negative"})
	}

	profile, err := h.coachProfiles.UpdateOnboarding(c.Context(), userID, req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "profile not found"})
		}
		log.Printf("coach onboarding: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to complete onboarding"})
	}

	return c.JSON(profile)
}
