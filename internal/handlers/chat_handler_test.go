package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
	"github.com/BingoAIHelper/bingo-backend/internal/services"
)

type stubChatService struct {
	conversationsResult []models.ConversationSummary
	conversationsErr    error
	createResult        *models.Conversation
	createErr           error
	getResult           *models.Conversation
	getErr              error
	messagesResult      []models.Message
	messagesErr         error
	postResult          *models.Message
	postErr             error
	lastActorID         int64
	lastOtherUserID     int64
	lastConversationID  int64
	lastPostInput       services.PostMessageInput
}

func (s *stubChatService) ListConversations(_ context.Context, userID int64) ([]models.ConversationSummary, error) {
	s.lastActorID = userID
	return s.conversationsResult, s.conversationsErr
}

func (s *stubChatService) CreateConversation(_ context.Context, actorID, otherUserID int64) (*models.Conversation, error) {
	s.lastActorID = actorID
	s.lastOtherUserID = otherUserID
	return s.createResult, s.createErr
}

func (s *stubChatService) GetConversation(_ context.Context, conversationID, actorID int64) (*models.Conversation, error) {
	s.lastConversationID = conversationID
	s.lastActorID = actorID
	return s.getResult, s.getErr
}

func (s *stubChatService) ListMessages(_ context.Context, conversationID, actorID int64) ([]models.Message, error) {
	s.lastConversationID = conversationID
	s.lastActorID = actorID
	return s.messagesResult, s.messagesErr
}

func (s *stubChatService) PostMessage(_ context.Context, input services.PostMessageInput) (*models.Message, error) {
	s.lastPostInput = input
	return s.postResult, s.postErr
}

func newChatTestApp(service *stubChatService, userID int64, role string) *fiber.App {
	handler := NewChatHandler(service)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("role", role)
		return c.Next()
	})
	app.Get("/api/v1/conversations", handler.ListConversations)
	app.Post("/api/v1/conversations", handler.CreateConversation)
	app.Get("/api/v1/conversations/:id", handler.GetConversation)
	app.Get("/api/v1/conversations/:id/messages", handler.ListMessages)
	app.Post("/api/v1/conversations/:id/messages", handler.PostMessage)
	return app
}

func TestListConversationsReturnsSummaries(t *testing.T) {
	service := &stubChatService{
		conversationsResult: []models.ConversationSummary{
			{
				Conversation: models.Conversation{ID: 17, CoachID: 8, SeekerID: 42},
				LastMessage: &models.Message{
					ID:             3,
					ConversationID: 17,
					SenderID:       8,
					ReceiverID:     42,
					Type:           models.MessageTypeText,
					Content:        "See you at the mock interview",
					CreatedAt:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
				},
				UnreadCount: 2,
			},
		},
	}
	app := newChatTestApp(service, 42, models.RoleSeeker)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/conversations", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastActorID != 42 {
		t.Fatalf("expected actor 42, got %d", service.lastActorID)
	}

	var body struct {
		Conversations []models.ConversationSummary `json:"conversations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(body.Conversations) != 1 || body.Conversations[0].UnreadCount != 2 {
		t.Fatalf("unexpected response: %+v", body.Conversations)
	}
}

func TestCreateConversationForwardsCounterpart(t *testing.T) {
	service := &stubChatService{
		createResult: &models.Conversation{ID: 9, CoachID: 7, SeekerID: 42},
	}
	app := newChatTestApp(service, 42, models.RoleSeeker)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations", strings.NewReader(`{"user_id":7}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastOtherUserID != 7 {
		t.Fatalf("expected counterpart 7, got %d", service.lastOtherUserID)
	}
}

func TestPostMessageDefaultsToTextType(t *testing.T) {
	service := &stubChatService{
		postResult: &models.Message{
			ID:             5,
			ConversationID: 11,
			SenderID:       42,
			ReceiverID:     7,
			Type:           models.MessageTypeText,
			Content:        "Hello!",
		},
	}
	app := newChatTestApp(service, 42, models.RoleSeeker)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations/11/messages", strings.NewReader(`{"content":"Hello!"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastPostInput.Type != models.MessageTypeText || service.lastPostInput.ConversationID != 11 {
		t.Fatalf("unexpected forwarded input: %+v", service.lastPostInput)
	}
}

func TestPostMessagePendingMatchReturnsBadRequest(t *testing.T) {
	service := &stubChatService{postErr: services.ErrMatchNotAccepted}
	app := newChatTestApp(service, 42, models.RoleSeeker)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations/11/messages",
		strings.NewReader(`{"type":"text","content":"too soon"}`))
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

func TestGetConversationMapsErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		expected int
	}{
		{"missing conversation", pgx.ErrNoRows, http.StatusNotFound},
		{"non participant", services.ErrForbidden, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := &stubChatService{getErr: tc.err}
			app := newChatTestApp(service, 42, models.RoleSeeker)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/conversations/11", nil)
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
