package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sudo-init-do/contactbook/internal/apperr"
	"github.com/sudo-init-do/contactbook/internal/avatar"
	"github.com/sudo-init-do/contactbook/internal/user"
	"github.com/sudo-init-do/contactbook/internal/validation"
)

const (
	msgEmailInUse     = "Email in use"
	msgWrongCreds     = "Email or password is wrong"
	msgNotVerified    = "Email not verified"
	msgNotAuthorized  = "Not authorized"
	msgUserNotFound   = "User not found"
	msgAlreadyPassed  = "Verification has already been passed"
	msgMissingEmail   = "missing required field email"
	defaultAvatarSize = 200
)

// Notifier delivers the verification email. Implementations decide
// whether delivery is queued or immediate.
type Notifier interface {
	NotifyVerification(ctx context.Context, email, verificationToken string) error
}

type AvatarReplacer interface {
	Replace(ctx context.Context, name string, up avatar.Upload) (string, error)
}

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72,alphanum"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

type ResendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type LoginResult struct {
	Token string      `json:"token"`
	User  user.Public `json:"user"`
}

type CurrentUser struct {
	Email        string            `json:"email"`
	Subscription user.Subscription `json:"subscription"`
	AvatarURL    string            `json:"avatarURL"`
	Verify       bool              `json:"verify"`
}

type Deps struct {
	Users           user.Repository
	Hasher          *PasswordHasher
	Tokens          *TokenIssuer
	Notifier        Notifier
	Avatars         AvatarReplacer
	Validate        *validator.Validate
	Logger          zerolog.Logger
	RequireVerified bool
}

// Service implements the account lifecycle: signup, verify, login,
// authenticated access and logout.
type Service struct {
	users           user.Repository
	hasher          *PasswordHasher
	tokens          *TokenIssuer
	notifier        Notifier
	avatars         AvatarReplacer
	validate        *validator.Validate
	log             zerolog.Logger
	requireVerified bool
}

func NewService(d Deps) *Service {
	return &Service{
		users:           d.Users,
		hasher:          d.Hasher,
		tokens:          d.Tokens,
		notifier:        d.Notifier,
		avatars:         d.Avatars,
		validate:        d.Validate,
		log:             d.Logger,
		requireVerified: d.RequireVerified,
	}
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (user.Public, error) {
	req.Email = user.NormalizeEmail(req.Email)
	if err := validation.Struct(s.validate, req); err != nil {
		return user.Public{}, err
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return user.Public{}, apperr.Conflict(msgEmailInUse)
	} else if !errors.Is(err, user.ErrNotFound) {
		return user.Public{}, apperr.Internal(err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return user.Public{}, apperr.Internal(err)
	}
	verificationToken := newVerificationToken()
	u := &user.User{
		Email:             req.Email,
		PasswordHash:      hash,
		Subscription:      user.SubscriptionStarter,
		AvatarURL:         user.GravatarURL(req.Email, defaultAvatarSize),
		VerificationToken: &verificationToken,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return user.Public{}, apperr.Conflict(msgEmailInUse)
		}
		return user.Public{}, apperr.Internal(err)
	}

	s.sendVerification(ctx, u.Email, verificationToken)
	s.log.Info().Str("user_id", u.ID).Str("email", u.Email).Msg("user signed up")
	return u.Public(), nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	req.Email = user.NormalizeEmail(req.Email)
	if err := validation.Struct(s.validate, req); err != nil {
		return LoginResult{}, err
	}

	u, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, user.ErrNotFound) {
		return LoginResult{}, apperr.Auth(msgWrongCreds)
	}
	if err != nil {
		return LoginResult{}, apperr.Internal(err)
	}
	if !s.hasher.Compare(u.PasswordHash, req.Password) {
		return LoginResult{}, apperr.Auth(msgWrongCreds)
	}
	if s.requireVerified && !u.Verify {
		return LoginResult{}, apperr.Auth(msgNotVerified)
	}

	token, err := s.tokens.Issue(u.ID, u.Email, string(u.Subscription))
	if err != nil {
		return LoginResult{}, apperr.Internal(err)
	}
	if err := s.users.SetToken(ctx, u.ID, &token); err != nil {
		return LoginResult{}, apperr.Internal(err)
	}
	return LoginResult{Token: token, User: u.Public()}, nil
}

// Authenticate resolves the user owning token. Only the token most
// recently stored on the user is accepted.
func (s *Service) Authenticate(ctx context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, apperr.Auth(msgNotAuthorized)
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindAuth, msgNotAuthorized)
	}
	u, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, user.ErrNotFound) {
		return nil, apperr.Auth(msgNotAuthorized)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !u.HasToken(token) {
		return nil, apperr.Auth(msgNotAuthorized)
	}
	return u, nil
}

func (s *Service) Logout(ctx context.Context, u *user.User) error {
	if err := s.users.SetToken(ctx, u.ID, nil); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return apperr.Auth(msgNotAuthorized)
		}
		return apperr.Internal(err)
	}
	return nil
}

func (s *Service) Current(u *user.User) CurrentUser {
	return CurrentUser{
		Email:        u.Email,
		Subscription: u.Subscription,
		AvatarURL:    u.AvatarURL,
		Verify:       u.Verify,
	}
}

func (s *Service) Verify(ctx context.Context, verificationToken string) error {
	if verificationToken == "" {
		return apperr.NotFound(msgUserNotFound)
	}
	u, err := s.users.FindByVerificationToken(ctx, verificationToken)
	if errors.Is(err, user.ErrNotFound) {
		return apperr.NotFound(msgUserNotFound)
	}
	if err != nil {
		return apperr.Internal(err)
	}
	if err := s.users.MarkVerified(ctx, u.ID); err != nil {
		return apperr.Internal(err)
	}
	s.log.Info().Str("user_id", u.ID).Msg("email verified")
	return nil
}

// ResendVerification sends the pending verification link again.
func (s *Service) ResendVerification(ctx context.Context, req ResendRequest) error {
	req.Email = user.NormalizeEmail(req.Email)
	if err := s.validate.Struct(req); err != nil {
		return apperr.Validation(msgMissingEmail)
	}
	u, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, user.ErrNotFound) {
		return apperr.NotFound(msgUserNotFound)
	}
	if err != nil {
		return apperr.Internal(err)
	}
	if u.Verify || u.VerificationToken == nil {
		return apperr.Validation(msgAlreadyPassed)
	}
	s.sendVerification(ctx, u.Email, *u.VerificationToken)
	return nil
}

// UpdateAvatar replaces the user's avatar with up and returns the new URL.
func (s *Service) UpdateAvatar(ctx context.Context, u *user.User, up avatar.Upload) (string, error) {
	url, err := s.avatars.Replace(ctx, user.LocalPart(u.Email), up)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			return "", apperr.Internal(err)
		}
		return "", err
	}
	if err := s.users.SetAvatarURL(ctx, u.ID, url); err != nil {
		return "", apperr.Internal(err)
	}
	return url, nil
}

func (s *Service) sendVerification(ctx context.Context, email, token string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyVerification(ctx, email, token); err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("verification email not queued")
	}
}

func newVerificationToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
