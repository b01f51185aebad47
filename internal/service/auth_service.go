package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"sigeu/internal/auth"
	apperrors "sigeu/internal/errors"
	"sigeu/internal/mailer"
	"sigeu/internal/model"
	"sigeu/internal/repository"
)

const bcryptCost = 10

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = apperrors.New(apperrors.ErrUnauthenticated, "Credenciales inválidas")
	// ErrUserAlreadyExists is returned when trying to register an existing email.
	ErrUserAlreadyExists = apperrors.New(apperrors.ErrConflict, "El email ya está registrado")
	// ErrInvalidResetToken is returned for expired, forged, mistyped or reused reset tokens.
	ErrInvalidResetToken = apperrors.New(apperrors.ErrValidation, "Token de recuperación inválido o expirado")

	errUserNotFound      = apperrors.New(apperrors.ErrNotFound, "Usuario no encontrado")
	errAdminSignupClosed = apperrors.New(apperrors.ErrUnauthorized, "No se permite el registro público de administradores")
	errPasswordTooLong   = apperrors.New(apperrors.ErrValidation, "Datos de entrada inválidos", "password debe tener como máximo 72 bytes")
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
	Role      model.Role
}

// Session is the result of a successful login or registration.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      *model.User `json:"user"`
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Profile(ctx context.Context, userID uint) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uint, patch model.UserPatch) (*model.User, error)
	ForgotPassword(ctx context.Context, email string) (resetToken string, err error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	Logout(ctx context.Context, claims *auth.Claims) error
}

type authService struct {
	userRepo         repository.UserRepository
	jwtService       *auth.JWTService
	tokenStore       auth.TokenStoreInterface
	mailer           mailer.Mailer
	allowAdminSignup bool
}

// AuthOptions holds the optional collaborators of AuthService.
type AuthOptions struct {
	Mailer           mailer.Mailer
	AllowAdminSignup bool
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, opts AuthOptions) AuthService {
	return &authService{
		userRepo:         userRepo,
		jwtService:       jwtService,
		tokenStore:       tokenStore,
		mailer:           opts.Mailer,
		allowAdminSignup: opts.AllowAdminSignup,
	}
}

// Register creates a new user with hashed password and opens a session.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	role := in.Role
	if role == "" {
		role = model.RoleOrganizador
	}
	if role == model.RoleAdmin && !s.allowAdminSignup {
		return nil, errAdminSignupClosed
	}

	email := strings.TrimSpace(in.Email)
	exists, err := s.userRepo.ExistsByEmail(ctx, email, 0)
	if err != nil {
		return nil, fmt.Errorf("check user existence: %w", err)
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hashedPassword,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        in.Phone,
		Role:         role,
		Active:       true,
	}
	// The unique index on email settles concurrent registrations.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.openSession(user)
}

// Login authenticates an active user by email and password.
func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.userRepo.FindActiveByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.openSession(user)
}

func (s *authService) openSession(user *model.User) (*Session, error) {
	token, err := s.jwtService.IssueSession(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &Session{
		Token:     token,
		ExpiresAt: time.Now().Add(s.jwtService.SessionTTL()).UTC(),
		User:      user,
	}, nil
}

func (s *authService) Profile(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.FindActiveByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, errUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the supplied profile fields. A new email must not
// belong to another user.
func (s *authService) UpdateProfile(ctx context.Context, userID uint, patch model.UserPatch) (*model.User, error) {
	trimPtr(patch.Email)
	trimPtr(patch.FirstName)
	trimPtr(patch.LastName)
	trimPtr(patch.Phone)

	changes := patch.Changes()
	if len(changes) == 0 {
		return nil, apperrors.New(apperrors.ErrNoFieldsProvided, "No se proporcionaron campos para actualizar")
	}

	if patch.Email != nil {
		exists, err := s.userRepo.ExistsByEmail(ctx, *patch.Email, userID)
		if err != nil {
			return nil, fmt.Errorf("check user existence: %w", err)
		}
		if exists {
			return nil, ErrUserAlreadyExists
		}
	}

	if err := s.userRepo.Update(ctx, userID, changes); err != nil {
		switch {
		case isNotFound(err):
			return nil, errUserNotFound
		case isDuplicate(err):
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return s.Profile(ctx, userID)
}

// ForgotPassword issues a reset token for an active user and mails it. Unknown
// emails are not reported; the returned token is empty for them.
func (s *authService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.FindActiveByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	token, err := s.jwtService.IssueReset(user)
	if err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	if s.mailer != nil {
		if err := s.mailer.SendPasswordReset(ctx, user.Email, user.FirstName, token); err != nil {
			return "", fmt.Errorf("send reset email: %w", err)
		}
	}
	return token, nil
}

// ResetPassword sets a new password using a reset token. Each token is
// accepted once while the token store is reachable.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.jwtService.VerifyReset(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) || errors.Is(err, auth.ErrTokenInvalid) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("verify reset token: %w", err)
	}

	user, err := s.userRepo.FindActiveByID(ctx, claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("find user: %w", err)
	}

	hashedPassword, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	fresh, err := s.tokenStore.ConsumeResetToken(ctx, claims.ID, s.jwtService.RemainingTTL(claims))
	if err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	if !fresh {
		return ErrInvalidResetToken
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		if isNotFound(err) {
			return ErrInvalidResetToken
		}
		// the password is unchanged, so the token stays usable
		if rerr := s.tokenStore.ReleaseResetToken(ctx, claims.ID); rerr != nil {
			return fmt.Errorf("update password: %w (release reset token: %v)", err, rerr)
		}
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// hashPassword rejects passwords bcrypt would refuse as a validation error.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", errPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Logout revokes the session token until it would have expired anyway.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return nil
	}
	if err := s.tokenStore.BlacklistAccessToken(ctx, claims.ID, s.jwtService.RemainingTTL(claims)); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
