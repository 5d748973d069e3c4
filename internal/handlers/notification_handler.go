package handlers

import (
	"context"
	"strconv"
	"strings"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
	"github.com/BingoAIHelper/bingo-backend/internal/notify"
	"github.com/BingoAIHelper/bingo-backend/pkg/utils"
)

type notificationService interface {
	CheckForNewNotifications(ctx context.Context, userID int64, isCoach bool)
}

type NotificationHandler struct {
	hub       *notify.Hub
	service   notificationService
	jwtSecret string
}

func NewNotificationHandler(hub *notify.Hub, service notificationService, jwtSecret string) *NotificationHandler {
	return &NotificationHandler{hub: hub, service: service, jwtSecret: jwtSecret}
}

// UpgradeRequired authenticates the websocket handshake. Browsers cannot set
// headers on websocket requests, so the token may also arrive as a query
// parameter.
func (h *NotificationHandler) UpgradeRequired(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	token := c.Query("token")
	if token == "" {
		authHeader := c.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			token = parts[1]
		}
	}
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
	}

	claims, err := utils.ValidateToken(token, h.jwtSecret)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
	}
	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil || userID <= 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
	}

	c.Locals("user_id", userID)
	c.Locals("role", claims.Role)

	return c.Next()
}

// HandleWebSocket registers the connection and replays anything the user
// missed while connecting. Runs inside the websocket goroutine.
func (h *NotificationHandler) HandleWebSocket(conn *websocket.Conn) {
	userID, ok := conn.Locals("user_id").(int64)
	if !ok || userID <= 0 {
		_ = conn.Close()
		return
	}
	role, _ := conn.Locals("role").(string)

	client := notify.NewClient(h.hub, conn, userID)
	h.hub.Register(client)

	go client.WritePump()

	if h.service != nil {
		h.service.CheckForNewNotifications(context.Background(), userID, role == models.RoleCoach)
	}

	client.ReadPump()
}
