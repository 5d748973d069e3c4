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

type chatService interface {
	ListConversations(ctx context.Context, userID int64) ([]models.ConversationSummary, error)
	CreateConversation(ctx context.Context, actorID, otherUserID int64) (*models.Conversation, error)
	GetConversation(ctx context.Context, conversationID, actorID int64) (*models.Conversation, error)
	ListMessages(ctx context.Context, conversationID, actorID int64) ([]models.Message, error)
	PostMessage(ctx context.Context, input services.PostMessageInput) (*models.Message, error)
}

type ChatHandler struct {
	service chatService
}

func NewChatHandler(service chatService) *ChatHandler {
	return &ChatHandler{service: service}
}

type createConversationRequest struct {
	UserID int64 `json:"user_id"`
}

type postMessageRequest struct {
	Type         string `json:"type"`
	Content      string `json:"content"`
	DocumentID   *int64 `json:"document_id"`
	AssessmentID *int64 `json:"assessment_id"`
}

func (h *ChatHandler) ListConversations(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	summaries, err := h.service.ListConversations(c.Context(), userID)
	if err != nil {
		return mapChatError(c, err)
	}

	return c.JSON(fiber.Map{"conversations": summaries})
}

func (h *ChatHandler) CreateConversation(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req createConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	conversation, err := h.service.CreateConversation(c.Context(), userID, req.UserID)
	if err != nil {
		return mapChatError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(conversation)
}

func (h *ChatHandler) GetConversation(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	conversationID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid conversation id"})
	}

	conversation, err := h.service.GetConversation(c.Context(), conversationID, userID)
	if err != nil {
		return mapChatError(c, err)
	}

	return c.JSON(conversation)
}

func (h *ChatHandler) ListMessages(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	conversationID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid conversation id"})
	}

	messages, err := h.service.ListMessages(c.Context(), conversationID, userID)
	if err != nil {
		return mapChatError(c, err)
	}

	return c.JSON(fiber.Map{"messages": messages})
}

func (h *ChatHandler) PostMessage(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	conversationID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid conversation id"})
	}

	var req postMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Type == "" {
		req.Type = models.MessageTypeText
	}

	message, err := h.service.PostMessage(c.Context(), services.PostMessageInput{
		ConversationID: conversationID,
		SenderID:       userID,
		Type:           req.Type,
		Content:        req.Content,
		DocumentID:     req.DocumentID,
		AssessmentID:   req.AssessmentID,
	})
	if err != nil {
		return mapChatError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}

func mapChatError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid message"})
	case errors.Is(err, services.ErrMatchNotAccepted):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "the match must be accepted before messaging"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "you are not part of this conversation"})
	case errors.Is(err, services.ErrCoachNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "coach not found"})
	case errors.Is(err, services.ErrSeekerNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "seeker not found"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "conversation not found"})
	default:
		log.Printf("chat handler: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "something went wrong"})
	}
}
