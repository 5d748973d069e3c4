package services

import (
	"context"
	"log"
	"time"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
	"github.com/BingoAIHelper/bingo-backend/internal/notify"
	"github.com/BingoAIHelper/bingo-backend/pkg/utils"
)

type pendingMatchSource interface {
	ListPendingForCoach(ctx context.Context, coachID int64) ([]models.CoachMatch, error)
	ListPendingForSeeker(ctx context.Context, seekerID int64) ([]models.CoachMatch, error)
}

type unreadMessageSource interface {
	ListUnreadForUserSince(ctx context.Context, userID int64, since time.Time) ([]models.Message, error)
}

// NotificationService pushes events to live websocket clients and replays
// anything a user may have missed around (re)connect time. Delivery is
// fire-and-forget: failures are logged and never surfaced to the caller.
type NotificationService struct {
	hub           *notify.Hub
	matchRepo     pendingMatchSource
	messageRepo   unreadMessageSource
	cipher        *utils.MessageCipher
	catchupWindow time.Duration
}

func NewNotificationService(
	hub *notify.Hub,
	matchRepo pendingMatchSource,
	messageRepo unreadMessageSource,
	cipher *utils.MessageCipher,
	catchupWindow time.Duration,
) *NotificationService {
	if catchupWindow <= 0 {
		catchupWindow = 5 * time.Second
	}
	return &NotificationService{
		hub:           hub,
		matchRepo:     matchRepo,
		messageRepo:   messageRepo,
		cipher:        cipher,
		catchupWindow: catchupWindow,
	}
}

func (s *NotificationService) Notify(userID int64, event notify.Event) {
	s.hub.Notify(userID, event)
}

// CheckForNewNotifications re-emits the user's pending match requests plus any
// unread messages that arrived within the trailing catch-up window. It covers
// the gap between an event being dispatched and the client's socket actually
// being registered.
func (s *NotificationService) CheckForNewNotifications(ctx context.Context, userID int64, isCoach bool) {
	var (
		matches []models.CoachMatch
		err     error
	)
	if isCoach {
		matches, err = s.matchRepo.ListPendingForCoach(ctx, userID)
	} else {
		matches, err = s.matchRepo.ListPendingForSeeker(ctx, userID)
	}
	if err != nil {
		log.Printf("notification catch-up: list pending matches for user %d: %v", userID, err)
	}
	for i := range matches {
		s.hub.Notify(userID, notify.Event{Type: notify.EventTypeMatch, Payload: &matches[i]})
	}

	since := time.Now().Add(-s.catchupWindow)
	messages, err := s.messageRepo.ListUnreadForUserSince(ctx, userID, since)
	if err != nil {
		log.Printf("notification catch-up: list unread messages for user %d: %v", userID, err)
		return
	}
	for i := range messages {
		message := messages[i]
		message.Content = decryptOrSentinel(s.cipher, message.Content)
		s.hub.Notify(userID, notify.Event{Type: notify.EventTypeMessage, Payload: &message})
	}
}

// decryptOrSentinel never fails a read path over a bad ciphertext. The row
// stays intact for investigation while the client sees a placeholder.
func decryptOrSentinel(cipher *utils.MessageCipher, ciphertext string) string {
	plaintext, err := cipher.Decrypt(ciphertext)
	if err != nil {
		log.Printf("message decrypt failed: %v", err)
		return DecryptFailureSentinel
	}
	return plaintext
}
