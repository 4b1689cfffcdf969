package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/fitlog/internal/domain"
	"github.com/vedran77/fitlog/internal/repository"
	"github.com/vedran77/fitlog/internal/token"
	"golang.org/x/crypto/argon2"
)

var (
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCreds covers both unknown username and wrong password, so a
	// login response never reveals which field was wrong.
	ErrInvalidCreds = errors.New("invalid username or password")
)

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *token.Service
}

func NewAuthService(userRepo repository.UserRepository, tokens *token.Service) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

type RegisterInput struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserInfo struct {
	UserID      string   `json:"user_id"`
	Username    string   `json:"username"`
	DisplayName string   `json:"display_name"`
	Roles       []string `json:"roles"`
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	existing, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     input.Username,
		DisplayName:  input.DisplayName,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return user, nil
}

// Login validates credentials and issues a signed identity token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (string, error) {
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCreds
	}

	if !verifyPassword(input.Password, user.PasswordHash) {
		return "", ErrInvalidCreds
	}

	tok, err := s.tokens.Issue(user)
	if err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}

	return tok, nil
}

// UserInfo echoes the verified claims of the caller back as a response body.
func (s *AuthService) UserInfo(principal *token.Principal) UserInfo {
	roles := principal.Roles
	if roles == nil {
		roles = []string{}
	}
	return UserInfo{
		UserID:      principal.UserID.String(),
		Username:    principal.Username,
		DisplayName: principal.DisplayName,
		Roles:       roles,
	}
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)

	return fmt.Sprintf("%s:%s",
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func verifyPassword(password, encoded string) bool {
	saltB64, hashB64, ok := strings.Cut(encoded, ":")
	if !ok {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(saltB64)
	if err != nil {
		return false
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(hashB64)
	if err != nil {
		return false
	}

	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return subtle.ConstantTimeCompare(hash, expectedHash) == 1
}
