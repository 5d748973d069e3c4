package services

import (
	"context"
	"errors"
	"net/mail"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
	"github.com/BingoAIHelper/bingo-backend/internal/repository"
	"github.com/BingoAIHelper/bingo-backend/pkg/utils"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const minPasswordLength = 8

type AuthService struct {
	db        *pgxpool.Pool
	userRepo  *repository.UserRepository
	jwtSecret string
}

func NewAuthService(db *pgxpool.Pool, userRepo *repository.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{db: db, userRepo: userRepo, jwtSecret: jwtSecret}
}

// Register creates the user and their empty role profile in one transaction so
// a half-registered account can never exist.
func (s *AuthService) Register(ctx context.Context, email, password, role string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", ErrInvalidInput
	}
	if len(password) < minPasswordLength {
		return nil, "", ErrInvalidInput
	}
	if role != models.RoleSeeker && role != models.RoleCoach {
		return nil, "", ErrInvalidInput
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, "", err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txUserRepo := repository.NewUserRepository(tx)

	user := &models.User{Email: email, PasswordHash: hash, Role: role}
	if err := txUserRepo.CreateUser(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, "", ErrConflict
		}
		return nil, "", err
	}

	if role == models.RoleCoach {
		err = repository.NewCoachProfileRepository(tx).CreateEmpty(ctx, user.ID)
	} else {
		err = repository.NewSeekerProfileRepository(tx).CreateEmpty(ctx, user.ID)
	}
	if err != nil {
		return nil, "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, "", err
	}

	token, err := s.token(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.token(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *AuthService) token(user *models.User) (string, error) {
	return utils.GenerateToken(strconv.FormatInt(user.ID, 10), user.Role, s.jwtSecret)
}
