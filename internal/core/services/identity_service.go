package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jupiterclapton/pictogram/internal/core/domain"
	"github.com/jupiterclapton/pictogram/internal/core/ports"
)

const (
	accessExpiry  = 15 * time.Minute
	refreshExpiry = 7 * 24 * time.Hour
)

type identityService struct {
	users     ports.UserRepository
	hasher    ports.PasswordHasher
	tokens    ports.TokenProvider
	revoker   ports.TokenRevoker
	publisher ports.EventPublisher
}

func NewIdentityService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenProvider,
	revoker ports.TokenRevoker,
	pub ports.EventPublisher,
) ports.IdentityService {
	return &identityService{users: users, hasher: hasher, tokens: tokens, revoker: revoker, publisher: pub}
}

func (s *identityService) Register(ctx context.Context, cmd ports.RegisterCmd) (*ports.AuthResponse, error) {
	if len(cmd.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters long: %w", domain.ErrValidation)
	}

	// Vérification "soft" de l'unicité ; la contrainte UNIQUE de la DB reste
	// la garantie ultime en cas de course.
	if existing, err := s.users.GetByEmail(ctx, cmd.Email); err == nil && existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing failed: %w", err)
	}

	user, err := domain.NewUser(cmd.Email, cmd.Username, hash, cmd.Gender)
	if err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	access, refresh, err := s.tokens.GenerateTokens(user)
	if err != nil {
		// User créé mais tokens échoués : le client pourra retry via login.
		return nil, fmt.Errorf("token generation failed: %w", err)
	}

	if err := s.publisher.PublishUserRegistered(ctx, user.ID, user.Email); err != nil {
		slog.Warn("⚠️ user.registered publish failed", "user_id", user.ID, "error", err)
	}

	return &ports.AuthResponse{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    accessExpiry,
	}, nil
}

func (s *identityService) Login(ctx context.Context, cmd ports.LoginCmd) (*ports.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, cmd.Email)
	if err != nil {
		// Ne pas révéler si c'est l'email ou le mot de passe qui est faux.
		return nil, domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, cmd.Password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	access, refresh, err := s.tokens.GenerateTokens(user)
	if err != nil {
		return nil, fmt.Errorf("login token gen failed: %w", err)
	}

	return &ports.AuthResponse{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    accessExpiry,
	}, nil
}

// Logout révoque le token jusqu'à sa fin de vie naturelle.
func (s *identityService) Logout(ctx context.Context, token string) error {
	return s.revoker.Revoke(ctx, token, refreshExpiry)
}

func (s *identityService) ValidateToken(ctx context.Context, token string) (string, error) {
	userID, err := s.tokens.Validate(token)
	if err != nil {
		return "", domain.ErrInvalidToken
	}
	revoked, err := s.revoker.IsRevoked(ctx, token)
	if err != nil {
		return "", err
	}
	if revoked {
		return "", domain.ErrInvalidToken
	}
	return userID, nil
}

func (s *identityService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *identityService) UpdateProfile(ctx context.Context, cmd ports.UpdateProfileCmd) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(cmd.Bio, cmd.Gender, cmd.ProfilePicture); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *identityService) SuggestedUsers(ctx context.Context, userID string) ([]*domain.User, error) {
	return s.users.ListSuggested(ctx, userID)
}
