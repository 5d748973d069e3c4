package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
	"github.com/BingoAIHelper/bingo-backend/internal/services"
)

type stubMatchService struct {
	requestResult *services.RequestMatchResult
	requestErr    error
	respondResult *models.CoachMatch
	respondErr    error
	getResult     *models.CoachMatch
	getErr        error
	listResult    []models.CoachMatch
	listErr       error
	lastInput     services.RequestMatchInput
	lastMatchID   int64
	lastActorID   int64
	lastStatus    string
	calls         int
}

func (s *stubMatchService) RequestMatch(_ context.Context, input services.RequestMatchInput) (*services.RequestMatchResult, error) {
	s.calls++
	s.lastInput = input
	return s.requestResult, s.requestErr
}

func (s *stubMatchService) RespondToMatch(_ context.Context, matchID, actorID int64, newStatus string) (*models.CoachMatch, error) {
	s.calls++
	s.lastMatchID = matchID
	s.lastActorID = actorID
	s.lastStatus = newStatus
	return s.respondResult, s.respondErr
}

func (s *stubMatchService) GetMatch(_ context.Context, matchID, actorID int64) (*models.CoachMatch, error) {
	s.calls++
	s.lastMatchID = matchID
	s.lastActorID = actorID
	return s.getResult, s.getErr
}

func (s *stubMatchService) ListMatches(_ context.Context, actorID int64) ([]models.CoachMatch, error) {
	s.calls++
	s.lastActorID = actorID
	return s.listResult, s.listErr
}

func newMatchTestApp(service *stubMatchService, userID int64, role string) *fiber.App {
	handler := NewMatchHandler(service)

	app := fiber.New()
	if userID > 0 {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("user_id", userID)
			c.Locals("role", role)
			return c.Next()
		})
	}
	app.Post("/api/v1/matches", handler.RequestMatch)
	app.Get("/api/v1/matches", handler.ListMatches)
	app.Get("/api/v1/matches/:id", handler.GetMatch)
	app.Patch("/api/v1/matches/:id", handler.RespondToMatch)
	return app
}

func TestRequestMatchFillsSeekerSideFromToken(t *testing.T) {
	service := &stubMatchService{
		requestResult: &services.RequestMatchResult{
			Match:        &models.CoachMatch{ID: 4, CoachID: 9, SeekerID: 42, Status: models.MatchStatusPending},
			Conversation: &models.Conversation{ID: 12, CoachID: 9, SeekerID: 42},
		},
	}
	app := newMatchTestApp(service, 42, models.RoleSeeker)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/matches", strings.NewReader(`{"coach_id":9}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastInput.SeekerID != 42 || service.lastInput.CoachID != 9 || service.lastInput.InitiatorID != 42 {
		t.Fatalf("unexpected forwarded input: %+v", service.lastInput)
	}

	var body services.RequestMatchResult
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Match == nil || body.Match.Status != models.MatchStatusPending {
		t.Fatalf("unexpected response match: %+v", body.Match)
	}
	if body.Conversation == nil || body.Conversation.ID != 12 {
		t.Fatalf("expected conversation in response, got %+v", body.Conversation)
	}
}

func TestRequestMatchDuplicateReturnsConflict(t *testing.T) {
	service := &stubMatchService{requestErr: services.ErrConflict}
	app := newMatchTestApp(service, 42, models.RoleSeeker)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/matches", strings.NewReader(`{"coach_id":9}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestRespondToMatchForwardsStatus(t *testing.T) {
	service := &stubMatchService{
		respondResult: &models.CoachMatch{ID: 4, CoachID: 9, SeekerID: 42, Status: models.MatchStatusMatched},
	}
	app := newMatchTestApp(service, 9, models.RoleCoach)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/matches/4", strings.NewReader(`{"status":"matched"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastMatchID != 4 || service.lastActorID != 9 || service.lastStatus != "matched" {
		t.Fatalf("unexpected forwarded response: match=%d actor=%d status=%q", service.lastMatchID, service.lastActorID, service.lastStatus)
	}
}

func TestRespondToMatchInvalidStatusReturnsBadRequest(t *testing.T) {
	service := &stubMatchService{respondErr: services.ErrInvalidStatus}
	app := newMatchTestApp(service, 9, models.RoleCoach)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/matches/4", strings.NewReader(`{"status":"maybe"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetMatchMapsErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		expected int
	}{
		{"not found", pgx.ErrNoRows, http.StatusNotFound},
		{"not participant", services.ErrForbidden, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := &stubMatchService{getErr: tc.err}
			app := newMatchTestApp(service, 42, models.RoleSeeker)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/matches/77", nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.expected {
				t.Fatalf("expected %d, got %d", tc.expected, resp.StatusCode)
			}
		})
	}
}

func TestListMatchesRequiresAuthentication(t *testing.T) {
	service := &stubMatchService{}
	app := newMatchTestApp(service, 0, "")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/matches", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if service.calls != 0 {
		t.Fatalf("expected no service calls, got %d", service.calls)
	}
}
