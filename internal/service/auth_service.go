package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/mansoorceksport/ironlog/internal/domain"
	log "github.com/sirupsen/logrus"
)

var ErrUnauthenticated = errors.New("authentication failed")

// FirebaseAuthClient defines the interface for Firebase Auth operations
// This allows mocking for tests
type FirebaseAuthClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthService exchanges a Firebase ID token for an ironlog access token
type AuthService struct {
	userRepo   domain.UserRepository
	authClient FirebaseAuthClient
	tokens     *TokenService
	devMode    bool
}

// NewAuthService creates a new auth service. With devMode the login token is
// taken as a user key without verification; authClient may then be nil.
func NewAuthService(
	userRepo domain.UserRepository,
	authClient FirebaseAuthClient,
	tokens *TokenService,
	devMode bool,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		authClient: authClient,
		tokens:     tokens,
		devMode:    devMode,
	}
}

// LoginResponse contains the user and their access token
type LoginResponse struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expires_in"`
	IsNewUser bool         `json:"is_new_user"`
}

// Login verifies idToken, creates the user on first sight and issues a token
func (s *AuthService) Login(ctx context.Context, idToken string) (*LoginResponse, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, fmt.Errorf("%w: missing token", ErrUnauthenticated)
	}

	user, err := s.identify(ctx, idToken)
	if err != nil {
		return nil, err
	}

	_, lookupErr := s.userRepo.GetByFirebaseUID(ctx, user.FirebaseUID)
	isNew := errors.Is(lookupErr, domain.ErrNotFound)

	if err := s.userRepo.UpsertByFirebaseUID(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	log.WithFields(log.Fields{"user_id": user.ID, "new_user": isNew}).Info("user logged in")
	return &LoginResponse{
		User:      user,
		Token:     token.Token,
		ExpiresIn: token.ExpiresIn,
		IsNewUser: isNew,
	}, nil
}

func (s *AuthService) identify(ctx context.Context, idToken string) (*domain.User, error) {
	if s.devMode {
		return &domain.User{
			FirebaseUID: "dev:" + idToken,
			Email:       idToken + "@dev.local",
			Name:        idToken,
		}, nil
	}
	if s.authClient == nil {
		return nil, fmt.Errorf("%w: identity provider not configured", ErrUnauthenticated)
	}

	token, err := s.authClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)
	if name == "" {
		name = email
	}
	return &domain.User{FirebaseUID: token.UID, Email: email, Name: name}, nil
}
