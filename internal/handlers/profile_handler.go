package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
	"github.com/BingoAIHelper/bingo-backend/internal/repository"
)

type seekerProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.SeekerProfile, error)
	UpdateOnboarding(ctx context.Context, userID int64, req repository.SeekerOnboardingInput) (*models.SeekerProfile, error)
	UpdatePartial(ctx context.Context, userID int64, req repository.UpdateSeekerProfileInput) (*models.SeekerProfile, error)
}

type coachProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.CoachProfile, error)
	UpdateOnboarding(ctx context.Context, userID int64, req repository.CoachOnboardingInput) (*models.CoachProfile, error)
	UpdatePartial(ctx context.Context, userID int64, req repository.UpdateCoachProfileInput) (*models.CoachProfile, error)
}

type ProfileHandler struct {
	seekerProfiles seekerProfileStore
	coachProfiles  coachProfileStore
}

func NewProfileHandler(seekerProfiles seekerProfileStore, coachProfiles coachProfileStore) *ProfileHandler {
	return &ProfileHandler{seekerProfiles: seekerProfiles, coachProfiles: coachProfiles}
}

func (h *ProfileHandler) GetMyProfile(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var (
		profile any
		err     error
	)
	if currentRole(c) == models.RoleCoach {
		profile, err = h.coachProfiles.GetByUserID(c.Context(), userID)
	} else {
		profile, err = h.seekerProfiles.GetByUserID(c.Context(), userID)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "profile not found"})
		}
		log.Printf("get profile: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load profile"})
	}

	return c.JSON(profile)
}

func (h *ProfileHandler) UpdateMyProfile(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var (
		profile any
		err     error
	)
	if currentRole(c) == models.RoleCoach {
		var req repository.UpdateCoachProfileInput
		if parseErr := c.BodyParser(&req); parseErr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		profile, err = h.coachProfiles.UpdatePartial(c.Context(), userID, req)
	} else {
		var req repository.UpdateSeekerProfileInput
		if parseErr := c.BodyParser(&req); parseErr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		profile, err = h.seekerProfiles.UpdatePartial(c.Context(), userID, req)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "profile not found"})
		}
		log.Printf("update profile: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update profile"})
	}

	return c.JSON(profile)
}
