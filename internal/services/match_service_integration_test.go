package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
	"github.com/BingoAIHelper/bingo-backend/internal/notify"
	"github.com/BingoAIHelper/bingo-backend/internal/repository"
	"github.com/BingoAIHelper/bingo-backend/pkg/utils"
)

var (
	testDBOnce sync.Once
	testDBPool *pgxpool.Pool
	testDBErr  error
)

const testEncryptionKey = "0123456789abcdef0123456789abcdef"

func TestRequestMatchCreatesPendingMatchWithEncryptedIntro(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationMatchService(pool)

	seekerID := createTestAccount(t, ctx, pool, models.RoleSeeker)
	coachID := createTestAccount(t, ctx, pool, models.RoleCoach)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, seekerID, coachID) })

	score := 77
	result, err := service.RequestMatch(ctx, RequestMatchInput{
		CoachID:     coachID,
		SeekerID:    seekerID,
		InitiatorID: seekerID,
		MatchScore:  &score,
	})
	if err != nil {
		t.Fatalf("RequestMatch: %v", err)
	}

	if result.Match.Status != models.MatchStatusPending {
		t.Fatalf("expected pending match, got %q", result.Match.Status)
	}
	if result.Match.MatchScore != 77 {
		t.Fatalf("expected score 77, got %d", result.Match.MatchScore)
	}
	if result.Conversation.MatchID == nil || *result.Conversation.MatchID != result.Match.ID {
		t.Fatalf("expected conversation bound to match %d, got %+v", result.Match.ID, result.Conversation)
	}

	messages, err := repository.NewMessageRepository(pool).ListByConversation(ctx, result.Conversation.ID)
	if err != nil {
		t.Fatalf("ListByConversation: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 intro message, got %d", len(messages))
	}
	if messages[0].SenderID != seekerID || messages[0].ReceiverID != coachID {
		t.Fatalf("unexpected intro routing: %+v", messages[0])
	}

	cipher, _ := utils.NewMessageCipher(testEncryptionKey)
	plaintext, err := cipher.Decrypt(messages[0].Content)
	if err != nil {
		t.Fatalf("expected stored content to be decryptable ciphertext: %v", err)
	}
	if plaintext == messages[0].Content || plaintext == "" {
		t.Fatalf("expected content encrypted at rest, stored=%q", messages[0].Content)
	}
}

func TestRequestMatchDuplicateActivePairConflicts(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationMatchService(pool)

	seekerID := createTestAccount(t, ctx, pool, models.RoleSeeker)
	coachID := createTestAccount(t, ctx, pool, models.RoleCoach)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, seekerID, coachID) })

	input := RequestMatchInput{CoachID: coachID, SeekerID: seekerID, InitiatorID: seekerID}
	if _, err := service.RequestMatch(ctx, input); err != nil {
		t.Fatalf("first RequestMatch: %v", err)
	}

	if _, err := service.RequestMatch(ctx, input); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate active pair, got %v", err)
	}
}

func TestRespondMatchedPostsAcceptanceAndSystemMessages(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationMatchService(pool)

	seekerID := createTestAccount(t, ctx, pool, models.RoleSeeker)
	coachID := createTestAccount(t, ctx, pool, models.RoleCoach)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, seekerID, coachID) })

	result, err := service.RequestMatch(ctx, RequestMatchInput{
		CoachID: coachID, SeekerID: seekerID, InitiatorID: seekerID,
	})
	if err != nil {
		t.Fatalf("RequestMatch: %v", err)
	}

	updated, err := service.RespondToMatch(ctx, result.Match.ID, coachID, models.MatchStatusMatched)
	if err != nil {
		t.Fatalf("RespondToMatch: %v", err)
	}
	if updated.Status != models.MatchStatusMatched {
		t.Fatalf("expected matched status, got %q", updated.Status)
	}

	messages, err := repository.NewMessageRepository(pool).ListByConversation(ctx, result.Conversation.ID)
	if err != nil {
		t.Fatalf("ListByConversation: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("expected intro, acceptance and system messages, got %d", len(messages))
	}
	if messages[2].Type != models.MessageTypeSystem {
		t.Fatalf("expected final message to be system, got %q", messages[2].Type)
	}

	// The match is resolved; a second response must not re-run the
	// celebration flow.
	if _, err := service.RespondToMatch(ctx, result.Match.ID, coachID, models.MatchStatusMatched); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for resolved match, got %v", err)
	}
}

func TestRespondDeclinedFreesThePairForANewRequest(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationMatchService(pool)

	seekerID := createTestAccount(t, ctx, pool, models.RoleSeeker)
	coachID := createTestAccount(t, ctx, pool, models.RoleCoach)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, seekerID, coachID) })

	result, err := service.RequestMatch(ctx, RequestMatchInput{
		CoachID: coachID, SeekerID: seekerID, InitiatorID: seekerID,
	})
	if err != nil {
		t.Fatalf("RequestMatch: %v", err)
	}

	declined, err := service.RespondToMatch(ctx, result.Match.ID, coachID, models.MatchStatusDeclined)
	if err != nil {
		t.Fatalf("RespondToMatch: %v", err)
	}
	if declined.Status != models.MatchStatusDeclined {
		t.Fatalf("expected declined status, got %q", declined.Status)
	}

	messages, err := repository.NewMessageRepository(pool).ListByConversation(ctx, result.Conversation.ID)
	if err != nil {
		t.Fatalf("ListByConversation: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected no extra messages after decline, got %d", len(messages))
	}

	// Declined matches no longer block the pair.
	if _, err := service.RequestMatch(ctx, RequestMatchInput{
		CoachID: coachID, SeekerID: seekerID, InitiatorID: coachID,
	}); err != nil {
		t.Fatalf("expected new request after decline, got %v", err)
	}
}

type recordedEvent struct {
	userID  int64
	event   notify.Event
	isCoach bool
}

// recordingNotifier captures dispatches so tests can assert on the wiring
// without a live websocket hub.
type recordingNotifier struct {
	mu     sync.Mutex
	pushes []recordedEvent
	sweeps []recordedEvent
}

func (n *recordingNotifier) Notify(userID int64, event notify.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pushes = append(n.pushes, recordedEvent{userID: userID, event: event})
}

func (n *recordingNotifier) CheckForNewNotifications(_ context.Context, userID int64, isCoach bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sweeps = append(n.sweeps, recordedEvent{userID: userID, isCoach: isCoach})
}

func TestMatchLifecycleNotifiesTheCounterparty(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)

	recorder := &recordingNotifier{}
	service := newIntegrationMatchService(pool)
	service.notifications = recorder

	seekerID := createTestAccount(t, ctx, pool, models.RoleSeeker)
	coachID := createTestAccount(t, ctx, pool, models.RoleCoach)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, seekerID, coachID) })

	result, err := service.RequestMatch(ctx, RequestMatchInput{
		CoachID: coachID, SeekerID: seekerID, InitiatorID: seekerID,
	})
	if err != nil {
		t.Fatalf("RequestMatch: %v", err)
	}

	if len(recorder.pushes) != 1 {
		t.Fatalf("expected 1 push after request, got %d", len(recorder.pushes))
	}
	if recorder.pushes[0].userID != coachID {
		t.Fatalf("expected push to coach %d, got %d", coachID, recorder.pushes[0].userID)
	}
	if recorder.pushes[0].event.Type != notify.EventTypeMatch {
		t.Fatalf("expected %q event, got %q", notify.EventTypeMatch, recorder.pushes[0].event.Type)
	}
	if len(recorder.sweeps) != 1 || recorder.sweeps[0].userID != coachID || !recorder.sweeps[0].isCoach {
		t.Fatalf("expected a coach-side catch-up sweep, got %+v", recorder.sweeps)
	}

	if _, err := service.RespondToMatch(ctx, result.Match.ID, coachID, models.MatchStatusMatched); err != nil {
		t.Fatalf("RespondToMatch: %v", err)
	}

	if len(recorder.pushes) != 2 {
		t.Fatalf("expected a second push after responding, got %d", len(recorder.pushes))
	}
	accept := recorder.pushes[1]
	if accept.userID != seekerID {
		t.Fatalf("expected push to the requesting seeker %d, got %d", seekerID, accept.userID)
	}
	if accept.event.Type != notify.EventTypeMatch {
		t.Fatalf("expected %q event, got %q", notify.EventTypeMatch, accept.event.Type)
	}
	match, ok := accept.event.Payload.(*models.CoachMatch)
	if !ok || match.Status != models.MatchStatusMatched {
		t.Fatalf("expected matched payload, got %+v", accept.event.Payload)
	}
}

func TestUpdateStatusOnlyResolvesPendingMatches(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationMatchService(pool)

	seekerID := createTestAccount(t, ctx, pool, models.RoleSeeker)
	coachID := createTestAccount(t, ctx, pool, models.RoleCoach)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, seekerID, coachID) })

	result, err := service.RequestMatch(ctx, RequestMatchInput{
		CoachID: coachID, SeekerID: seekerID, InitiatorID: seekerID,
	})
	if err != nil {
		t.Fatalf("RequestMatch: %v", err)
	}

	matchRepo := repository.NewMatchRepository(pool)
	if _, err := matchRepo.UpdateStatus(ctx, result.Match.ID, models.MatchStatusDeclined); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	// The row is resolved; a racing second resolution must find no pending
	// match to update, so a concurrent accept cannot double-fire.
	if _, err := matchRepo.UpdateStatus(ctx, result.Match.ID, models.MatchStatusMatched); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows for resolved match, got %v", err)
	}

	messages, err := repository.NewMessageRepository(pool).ListByConversation(ctx, result.Conversation.ID)
	if err != nil {
		t.Fatalf("ListByConversation: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected only the intro message after the failed resolution, got %d", len(messages))
	}
}

func TestRespondToMatchRejectsOutsiders(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	service := newIntegrationMatchService(pool)

	seekerID := createTestAccount(t, ctx, pool, models.RoleSeeker)
	coachID := createTestAccount(t, ctx, pool, models.RoleCoach)
	outsiderID := createTestAccount(t, ctx, pool, models.RoleCoach)
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, seekerID, coachID, outsiderID) })

	result, err := service.RequestMatch(ctx, RequestMatchInput{
		CoachID: coachID, SeekerID: seekerID, InitiatorID: seekerID,
	})
	if err != nil {
		t.Fatalf("RequestMatch: %v", err)
	}

	if _, err := service.RespondToMatch(ctx, result.Match.ID, outsiderID, models.MatchStatusMatched); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for outsider, got %v", err)
	}
}

func integrationTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	testDBOnce.Do(func() {
		_ = godotenv.Load(".env")
		_ = godotenv.Load(filepath.Join("..", "..", ".env"))

		dbURL := os.Getenv("DB_URL")
		if dbURL == "" {
			testDBErr = fmt.Errorf("DB_URL is not set")
			return
		}

		cfg, err := pgxpool.ParseConfig(dbURL)
		if err != nil {
			testDBErr = err
			return
		}

		testDBPool, testDBErr = pgxpool.NewWithConfig(context.Background(), cfg)
		if testDBErr != nil {
			return
		}
		testDBErr = testDBPool.Ping(context.Background())
	})

	if testDBErr != nil {
		t.Skipf("skipping integration test: %v", testDBErr)
	}
	return testDBPool
}

func newIntegrationMatchService(pool *pgxpool.Pool) *MatchService {
	cipher, err := utils.NewMessageCipher(testEncryptionKey)
	if err != nil {
		panic(err)
	}

	coachProfileRepo := repository.NewCoachProfileRepository(pool)
	return NewMatchService(
		pool,
		repository.NewMatchRepository(pool),
		repository.NewConversationRepository(pool),
		repository.NewMessageRepository(pool),
		repository.NewUserRepository(pool),
		repository.NewSeekerProfileRepository(pool),
		coachProfileRepo,
		NewMatchmakingService(coachProfileRepo),
		nil,
		cipher,
		nil,
	)
}

func newIntegrationChatService(pool *pgxpool.Pool) *ChatService {
	cipher, err := utils.NewMessageCipher(testEncryptionKey)
	if err != nil {
		panic(err)
	}

	return NewChatService(
		pool,
		repository.NewConversationRepository(pool),
		repository.NewMessageRepository(pool),
		repository.NewMatchRepository(pool),
		repository.NewUserRepository(pool),
		repository.NewDocumentRepository(pool),
		repository.NewAssessmentRepository(pool),
		cipher,
		nil,
	)
}

func createTestAccount(t *testing.T, ctx context.Context, pool *pgxpool.Pool, role string) int64 {
	t.Helper()

	userRepo := repository.NewUserRepository(pool)
	user := &models.User{
		Email:        fmt.Sprintf("match-test-%s-%d@example.com", role, time.Now().UnixNano()),
		PasswordHash: "test-hash",
		Role:         role,
	}
	if err := userRepo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser(%s): %v", role, err)
	}

	if role == models.RoleSeeker {
		seekerRepo := repository.NewSeekerProfileRepository(pool)
		if err := seekerRepo.CreateEmpty(ctx, user.ID); err != nil {
			t.Fatalf("CreateEmpty seeker profile: %v", err)
		}
		return user.ID
	}

	coachRepo := repository.NewCoachProfileRepository(pool)
	if err := coachRepo.CreateEmpty(ctx, user.ID); err != nil {
		t.Fatalf("CreateEmpty coach profile: %v", err)
	}
	if _, err := coachRepo.UpdateOnboarding(ctx, user.ID, repository.CoachOnboardingInput{
		FullName:        "Test Coach",
		Bio:             "Test Bio",
		Expertise:       []string{"interview_prep"},
		Industries:      []string{"technology"},
		ExperienceYears: 5,
		HourlyRate:      45,
	}); err != nil {
		t.Fatalf("UpdateOnboarding coach profile: %v", err)
	}

	return user.ID
}

func cleanupTestUsers(t *testing.T, ctx context.Context, pool *pgxpool.Pool, userIDs ...int64) {
	t.Helper()

	if len(userIDs) == 0 {
		return
	}

	if _, err := pool.Exec(ctx, "DELETE FROM messages WHERE sender_id = ANY($1) OR receiver_id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup messages: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM conversations WHERE coach_id = ANY($1) OR seeker_id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup conversations: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM coach_matches WHERE coach_id = ANY($1) OR seeker_id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup matches: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM documents WHERE user_id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup documents: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM assessments WHERE user_id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup assessments: %v", err)
	}
	if _, err := pool.Exec(ctx, "DELETE FROM users WHERE id = ANY($1)", userIDs); err != nil {
		t.Fatalf("cleanup users: %v", err)
	}
}
