package handlers

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
	"github.com/BingoAIHelper/bingo-backend/internal/services"
)

type documentService interface {
	Upload(ctx context.Context, input services.UploadDocumentInput) (*models.Document, error)
	List(ctx context.Context, userID int64, limit, offset int) ([]models.Document, int, error)
	Get(ctx context.Context, documentID, actorID int64) (*models.Document, error)
	DownloadURL(ctx context.Context, documentID, actorID int64) (string, error)
	Delete(ctx context.Context, documentID, actorID int64) error
}

type DocumentHandler struct {
	service documentService
}

func NewDocumentHandler(service documentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}

	docType := c.FormValue("type", models.DocumentTypeOther)

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("upload document: open file: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read file"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("upload document: read file: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read file"})
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	document, err := h.service.Upload(c.Context(), services.UploadDocumentInput{
		UserID:      userID,
		Type:        docType,
		FileName:    fileHeader.Filename,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		return mapDocumentError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(document)
}

func (h *DocumentHandler) List(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	limit, offset, page := parsePagination(c)
	documents, total, err := h.service.List(c.Context(), userID, limit, offset)
	if err != nil {
		return mapDocumentError(c, err)
	}

	return c.JSON(fiber.Map{
		"documents":  documents,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	documentID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid document id"})
	}

	document, err := h.service.Get(c.Context(), documentID, userID)
	if err != nil {
		return mapDocumentError(c, err)
	}

	return c.JSON(document)
}

func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	documentID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid document id"})
	}

	url, err := h.service.DownloadURL(c.Context(), documentID, userID)
	if err != nil {
		return mapDocumentError(c, err)
	}

	return c.JSON(fiber.Map{"url": url})
}

func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	documentID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid document id"})
	}

	if err := h.service.Delete(c.Context(), documentID, userID); err != nil {
		return mapDocumentError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func mapDocumentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid document upload"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "you do not own this document"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "document not found"})
	default:
		log.Printf("document handler: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "something went wrong"})
	}
}
