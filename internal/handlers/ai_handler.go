package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/BingoAIHelper/bingo-backend/internal/services"
)

type AIHandler struct {
	ai services.AIService
}

func NewAIHandler(ai services.AIService) *AIHandler {
	return &AIHandler{ai: ai}
}

type interviewQuestionsRequest struct {
	JobTitle string `json:"job_title"`
	Context  string `json:"context"`
}

func (h *AIHandler) InterviewQuestions(c *fiber.Ctx) error {
	if _, ok := currentUserID(c); !ok {
		return unauthorized(c)
	}

	var req interviewQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.JobTitle) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "job_title is required"})
	}

	if h.ai == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "ai assistance is not available"})
	}

	questions, err := h.ai.GenerateInterviewQuestions(c.Context(), req.JobTitle, req.Context)
	if err != nil {
		log.Printf("interview questions: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to generate questions"})
	}

	return c.JSON(fiber.Map{"questions": questions})
}
