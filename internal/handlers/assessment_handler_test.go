package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
	"github.com/BingoAIHelper/bingo-backend/internal/repository"
	"github.com/BingoAIHelper/bingo-backend/internal/services"
)

type stubAssessmentService struct {
	submitResult *models.Assessment
	submitErr    error
	getResult    *models.Assessment
	getErr       error
	addResult    *models.Assessment
	addErr       error
	lastUserID   int64
	lastRole     string
	lastSeekerID int64
	lastSection  models.AssessmentSection
}

func (s *stubAssessmentService) Submit(_ context.Context, userID int64, role string, _ repository.AssessmentInput) (*models.Assessment, error) {
	s.lastUserID = userID
	s.lastRole = role
	return s.submitResult, s.submitErr
}

func (s *stubAssessmentService) GetOwn(_ context.Context, userID int64) (*models.Assessment, error) {
	s.lastUserID = userID
	return s.getResult, s.getErr
}

func (s *stubAssessmentService) GetForSeeker(_ context.Context, coachID int64, role string, seekerID int64) (*models.Assessment, error) {
	s.lastUserID = coachID
	s.lastRole = role
	s.lastSeekerID = seekerID
	return s.getResult, s.getErr
}

func (s *stubAssessmentService) AddSection(_ context.Context, coachID int64, role string, seekerID int64, section models.AssessmentSection) (*models.Assessment, error) {
	s.lastUserID = coachID
	s.lastRole = role
	s.lastSeekerID = seekerID
	s.lastSection = section
	return s.addResult, s.addErr
}

func newAssessmentTestApp(service *stubAssessmentService, userID int64, role string) *fiber.App {
	handler := NewAssessmentHandler(service)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("role", role)
		return c.Next()
	})
	app.Post("/api/v1/assessments", handler.Submit)
	app.Get("/api/v1/assessments/me", handler.GetOwn)
	app.Get("/api/v1/assessments/seeker/:seekerId", handler.GetForSeeker)
	app.Post("/api/v1/assessments/seeker/:seekerId/sections", handler.AddSection)
	return app
}

func TestSubmitAssessmentForwardsActor(t *testing.T) {
	service := &stubAssessmentService{
		submitResult: &models.Assessment{ID: 1, UserID: 42},
	}
	app := newAssessmentTestApp(service, 42, models.RoleSeeker)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assessments",
		strings.NewReader(`{"learning_style":"visual","strengths":"detail oriented"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastUserID != 42 || service.lastRole != models.RoleSeeker {
		t.Fatalf("unexpected forwarded actor: %d %q", service.lastUserID, service.lastRole)
	}
}

func TestGetForSeekerWithoutMatchReturnsForbidden(t *testing.T) {
	service := &stubAssessmentService{getErr: services.ErrForbidden}
	app := newAssessmentTestApp(service, 9, models.RoleCoach)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/assessments/seeker/42", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if service.lastSeekerID != 42 {
		t.Fatalf("expected seeker id 42, got %d", service.lastSeekerID)
	}
}

func TestAddSectionForwardsSection(t *testing.T) {
	service := &stubAssessmentService{
		addResult: &models.Assessment{ID: 1, UserID: 42},
	}
	app := newAssessmentTestApp(service, 9, models.RoleCoach)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assessments/seeker/42/sections",
		strings.NewReader(`{"title":"Communication check-in","questions":[{"question":"Preferred channel?","answer":"Email"}]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastSection.Title != "Communication check-in" || len(service.lastSection.Questions) != 1 {
		t.Fatalf("unexpected forwarded section: %+v", service.lastSection)
	}
}
