package service

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	"github.com/sangkips/dukahub-api/internal/domain/enum"
	"github.com/sangkips/dukahub-api/internal/domain/repository"
	"github.com/sangkips/dukahub-api/internal/infrastructure/session"
	"github.com/sangkips/dukahub-api/pkg/apperror"
	"github.com/sangkips/dukahub-api/pkg/oauth"
	"github.com/sangkips/dukahub-api/pkg/utils"
)

// IdentityProvider is an external sign-in provider such as Google
type IdentityProvider interface {
	IsConfigured() bool
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth.Profile, error)
}

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo     repository.UserRepository
	settingsRepo repository.SettingsRepository
	jwtManager   *utils.JWTManager
	revoked      session.Store
	events       session.Bus
	google       IdentityProvider
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	settingsRepo repository.SettingsRepository,
	jwtManager *utils.JWTManager,
	revoked session.Store,
	events session.Bus,
	google IdentityProvider,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
		jwtManager:   jwtManager,
		revoked:      revoked,
		events:       events,
		google:       google,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || user.Password == "" {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.signIn(ctx, user)
}

// RegisterInput represents the registration input
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*entity.User, error) {
	email := normalizeEmail(input.Email)

	existingUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     email,
		Password:  hashedPassword,
		Provider:  entity.ProviderLocal,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.settingsRepo.Create(ctx, entity.DefaultUserSettings(user.ID)); err != nil {
		log.Printf("Failed to create settings for user %s: %v", user.ID, err)
	}

	return user, nil
}

// RefreshToken rotates a refresh token: the old one is revoked and a new pair issued
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidToken
	}

	if err := s.revoked.Revoke(ctx, claims.ID, claims.Remaining()); err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

// LogoutInput carries the tokens of the session being closed
type LogoutInput struct {
	Access       *utils.JWTClaims
	RefreshToken string
}

// Logout revokes the access token and, when given, the refresh token.
// If revocation fails the session stays valid and the error is returned.
func (s *AuthService) Logout(ctx context.Context, input *LogoutInput) error {
	if input.Access == nil {
		return apperror.ErrUnauthorized
	}

	if input.RefreshToken != "" {
		refresh, err := s.jwtManager.ValidateRefreshToken(input.RefreshToken)
		if err == nil && refresh.UserID == input.Access.UserID {
			if err := s.revoked.Revoke(ctx, refresh.ID, refresh.Remaining()); err != nil {
				return err
			}
		}
	}

	if err := s.revoked.Revoke(ctx, input.Access.ID, input.Access.Remaining()); err != nil {
		return err
	}

	s.publish(ctx, input.Access.UserID, session.NewEvent(enum.SessionSignedOut, nil, nil))
	return nil
}

// GoogleAuthURL returns the consent page to send the browser to
func (s *AuthService) GoogleAuthURL(state string) (string, error) {
	if s.google == nil || !s.google.IsConfigured() {
		return "", apperror.NewAppError(http.StatusServiceUnavailable, oauth.ErrOAuthNotConfigured.Error())
	}
	return s.google.AuthURL(state), nil
}

// GoogleLogin signs in with a Google authorization code. Accounts are
// matched by Google ID first, then by email; otherwise a new user is created.
func (s *AuthService) GoogleLogin(ctx context.Context, code string) (*LoginOutput, error) {
	if s.google == nil || !s.google.IsConfigured() {
		return nil, apperror.NewAppError(http.StatusServiceUnavailable, oauth.ErrOAuthNotConfigured.Error())
	}

	profile, err := s.google.Exchange(ctx, code)
	if err != nil {
		if errors.Is(err, oauth.ErrEmailNotVerified) {
			return nil, apperror.NewAppError(http.StatusForbidden, err.Error())
		}
		return nil, apperror.NewAppError(http.StatusUnauthorized, err.Error())
	}

	user, err := s.findOrCreateOAuthUser(ctx, entity.ProviderGoogle, profile)
	if err != nil {
		return nil, err
	}

	return s.signIn(ctx, user)
}

func (s *AuthService) findOrCreateOAuthUser(ctx context.Context, provider string, profile *oauth.Profile) (*entity.User, error) {
	user, err := s.userRepo.GetByProvider(ctx, provider, profile.ProviderID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user, err = s.userRepo.GetByEmail(ctx, normalizeEmail(profile.Email))
	if err != nil {
		return nil, err
	}
	if user != nil {
		if user.ProviderID == nil {
			user.ProviderID = &profile.ProviderID
			if user.Photo == nil && profile.Picture != "" {
				user.Photo = &profile.Picture
			}
			if err := s.userRepo.Update(ctx, user); err != nil {
				return nil, err
			}
		}
		return user, nil
	}

	user = &entity.User{
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
		Email:      normalizeEmail(profile.Email),
		Provider:   provider,
		ProviderID: &profile.ProviderID,
	}
	if profile.Picture != "" {
		user.Photo = &profile.Picture
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	if err := s.settingsRepo.Create(ctx, entity.DefaultUserSettings(user.ID)); err != nil {
		log.Printf("Failed to create settings for user %s: %v", user.ID, err)
	}
	return user, nil
}

// IsRevoked reports whether an access token has been signed out
func (s *AuthService) IsRevoked(ctx context.Context, claims *utils.JWTClaims) (bool, error) {
	return s.revoked.IsRevoked(ctx, claims.ID)
}

// GetCurrentUser returns the current user by ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}

// ChangePasswordInput represents the change password input
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// ChangePassword changes the user's password. OAuth-only accounts may set
// one without a current password.
func (s *AuthService) ChangePassword(ctx context.Context, input *ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.ErrNotFound
	}

	if user.Password != "" && !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
		return apperror.NewFieldError("current_password", "Current password is incorrect")
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	return s.userRepo.Update(ctx, user)
}

// UpdateProfileInput represents the update profile input
type UpdateProfileInput struct {
	UserID    uuid.UUID
	FirstName string
	LastName  string
	Photo     *string
}

// UpdateProfile updates the user's name and photo
func (s *AuthService) UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}

	if input.FirstName != "" {
		user.FirstName = strings.TrimSpace(input.FirstName)
	}
	if input.LastName != "" {
		user.LastName = strings.TrimSpace(input.LastName)
	}
	if input.Photo != nil {
		user.Photo = input.Photo
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) signIn(ctx context.Context, user *entity.User) (*LoginOutput, error) {
	out, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, user.ID, session.NewEvent(enum.SessionSignedIn, nil, nil))
	return out, nil
}

func (s *AuthService) issueTokens(user *entity.User) (*LoginOutput, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.jwtManager.AccessExpiry(),
	}, nil
}

func (s *AuthService) publish(ctx context.Context, userID uuid.UUID, event session.Event) {
	if err := s.events.Publish(ctx, userID, event); err != nil {
		log.Printf("Failed to publish %s for user %s: %v", event.Type, userID, err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
